// Package types defines the entity records exchanged with the Windrose API.
//
// Records are flat: parent-child relations (labels, pages, favorites) are
// expressed only through ParentID fields and assembled into trees on demand
// by the views package. Nothing here holds a pointer to another record, so a
// deleted record can never leave a dangling reference behind.
package types

import (
	"fmt"
	"time"
)

// DefaultOrderStep is the spacing between consecutive sort_order values when
// appending or renumbering. Fractional reordering inserts midpoints between
// neighbors, so a generous step keeps insertions cheap for a long time.
const DefaultOrderStep = 10000.0

// Workspace is the top-level tenancy scope. Every other record lives inside
// exactly one workspace.
type Workspace struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	LogoURL   string    `json:"logo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Project groups issues, sprints, modules and states under a workspace.
type Project struct {
	ID          string     `json:"id"`
	WorkspaceID string     `json:"workspace_id"`
	Name        string     `json:"name"`
	Identifier  string     `json:"identifier"` // short code used in issue keys, e.g. "WEB"
	Description string     `json:"description,omitempty"`
	SortOrder   float64    `json:"sort_order"`
	ArchivedAt  *time.Time `json:"archived_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Priority ranks an issue's urgency.
type Priority string

// Priority constants, highest first.
const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
	PriorityNone   Priority = "none"
)

// IsValid checks if the priority value is one of the known constants.
// The empty string is valid and treated as PriorityNone.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow, PriorityNone, "":
		return true
	}
	return false
}

// Issue represents a trackable work item.
type Issue struct {
	ID              string     `json:"id"`
	WorkspaceID     string     `json:"workspace_id"`
	ProjectID       string     `json:"project_id"`
	SequenceID      int        `json:"sequence_id,omitempty"` // per-project running number, e.g. WEB-42
	Name            string     `json:"name"`
	DescriptionHTML string     `json:"description_html,omitempty"`
	Priority        Priority   `json:"priority,omitempty"`
	StateID         string     `json:"state_id,omitempty"`
	ParentID        *string    `json:"parent_id,omitempty"`
	SortOrder       float64    `json:"sort_order"`
	LabelIDs        []string   `json:"label_ids,omitempty"`
	AssigneeIDs     []string   `json:"assignee_ids,omitempty"`
	SprintID        *string    `json:"sprint_id,omitempty"`
	ModuleIDs       []string   `json:"module_ids,omitempty"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	TargetDate      *time.Time `json:"target_date,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	ArchivedAt      *time.Time `json:"archived_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Validate checks if the issue has valid field values.
func (i *Issue) Validate() error {
	if len(i.Name) == 0 {
		return fmt.Errorf("name is required")
	}
	if len(i.Name) > 255 {
		return fmt.Errorf("name must be 255 characters or less (got %d)", len(i.Name))
	}
	if !i.Priority.IsValid() {
		return fmt.Errorf("invalid priority: %s", i.Priority)
	}
	if i.CompletedAt != nil && i.CompletedAt.Before(i.CreatedAt) {
		return fmt.Errorf("completed_at cannot predate created_at")
	}
	return nil
}

// IsArchived reports whether the issue has been moved to the archive.
func (i *Issue) IsArchived() bool {
	return i.ArchivedAt != nil
}

// StateGroup buckets workflow states into the five fixed kanban groups.
type StateGroup string

// State group constants in board order.
const (
	GroupBacklog   StateGroup = "backlog"
	GroupUnstarted StateGroup = "unstarted"
	GroupStarted   StateGroup = "started"
	GroupCompleted StateGroup = "completed"
	GroupCancelled StateGroup = "cancelled"
)

// IsValid checks if the state group value is valid.
func (g StateGroup) IsValid() bool {
	switch g {
	case GroupBacklog, GroupUnstarted, GroupStarted, GroupCompleted, GroupCancelled:
		return true
	}
	return false
}

// StateGroups lists all groups in board order. Grouped views iterate this
// slice so empty groups still render their columns.
func StateGroups() []StateGroup {
	return []StateGroup{GroupBacklog, GroupUnstarted, GroupStarted, GroupCompleted, GroupCancelled}
}

// State is a workflow state within a project (e.g. "Todo", "In Review").
type State struct {
	ID          string     `json:"id"`
	WorkspaceID string     `json:"workspace_id"`
	ProjectID   string     `json:"project_id"`
	Name        string     `json:"name"`
	Group       StateGroup `json:"group"`
	Color       string     `json:"color,omitempty"`
	Default     bool       `json:"default,omitempty"` // new issues land here
	SortOrder   float64    `json:"sort_order"`
}

// Validate checks if the state has valid field values.
func (s *State) Validate() error {
	if len(s.Name) == 0 {
		return fmt.Errorf("name is required")
	}
	if !s.Group.IsValid() {
		return fmt.Errorf("invalid state group: %s", s.Group)
	}
	return nil
}

// Label is a tag attachable to issues. Labels nest one level deep in the UI
// but the record allows arbitrary depth through ParentID.
type Label struct {
	ID          string  `json:"id"`
	WorkspaceID string  `json:"workspace_id"`
	ProjectID   string  `json:"project_id"`
	Name        string  `json:"name"`
	Color       string  `json:"color,omitempty"`
	ParentID    *string `json:"parent_id,omitempty"`
	SortOrder   float64 `json:"sort_order"`
}

// Validate checks if the label has valid field values.
func (l *Label) Validate() error {
	if len(l.Name) == 0 {
		return fmt.Errorf("name is required")
	}
	return nil
}

// SprintStatus describes where a sprint sits in its lifecycle relative to
// its start and end dates.
type SprintStatus string

// Sprint status constants.
const (
	SprintUpcoming  SprintStatus = "upcoming"
	SprintCurrent   SprintStatus = "current"
	SprintCompleted SprintStatus = "completed"
	SprintDraft     SprintStatus = "draft" // no dates set yet
)

// Sprint is a time-boxed iteration of work within a project.
type Sprint struct {
	ID          string       `json:"id"`
	WorkspaceID string       `json:"workspace_id"`
	ProjectID   string       `json:"project_id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	StartDate   *time.Time   `json:"start_date,omitempty"`
	EndDate     *time.Time   `json:"end_date,omitempty"`
	Status      SprintStatus `json:"status,omitempty"`
	SortOrder   float64      `json:"sort_order"`
	ArchivedAt  *time.Time   `json:"archived_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Validate checks if the sprint has valid field values.
func (s *Sprint) Validate() error {
	if len(s.Name) == 0 {
		return fmt.Errorf("name is required")
	}
	if s.StartDate != nil && s.EndDate != nil && s.EndDate.Before(*s.StartDate) {
		return fmt.Errorf("end_date cannot predate start_date")
	}
	return nil
}

// IsArchived reports whether the sprint has been archived.
func (s *Sprint) IsArchived() bool {
	return s.ArchivedAt != nil
}

// Lifecycle derives the sprint's status from its date window at the given
// time. The wire status field reflects what the server last computed and can
// lag a window boundary; cached records compare dates locally instead.
func (s *Sprint) Lifecycle(now time.Time) SprintStatus {
	if s.StartDate == nil || s.EndDate == nil {
		return SprintDraft
	}
	day := now.UTC().Truncate(24 * time.Hour)
	if day.Before(s.StartDate.UTC().Truncate(24 * time.Hour)) {
		return SprintUpcoming
	}
	if day.After(s.EndDate.UTC().Truncate(24 * time.Hour)) {
		return SprintCompleted
	}
	return SprintCurrent
}

// SprintRemovalImpact summarizes what removing a sprint would orphan.
type SprintRemovalImpact struct {
	IssueIDs []string `json:"issue_ids,omitempty"`
	Count    int      `json:"count"`
}

// ModuleStatus tracks a module's delivery phase.
type ModuleStatus string

// Module status constants.
const (
	ModuleBacklog    ModuleStatus = "backlog"
	ModulePlanned    ModuleStatus = "planned"
	ModuleInProgress ModuleStatus = "in-progress"
	ModulePaused     ModuleStatus = "paused"
	ModuleCompleted  ModuleStatus = "completed"
	ModuleCancelled  ModuleStatus = "cancelled"
)

// IsValid checks if the module status value is valid.
func (m ModuleStatus) IsValid() bool {
	switch m {
	case ModuleBacklog, ModulePlanned, ModuleInProgress, ModulePaused, ModuleCompleted, ModuleCancelled, "":
		return true
	}
	return false
}

// Module is a feature-sized grouping of issues tracked across sprints.
type Module struct {
	ID          string       `json:"id"`
	WorkspaceID string       `json:"workspace_id"`
	ProjectID   string       `json:"project_id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Status      ModuleStatus `json:"status,omitempty"`
	LeadID      *string      `json:"lead_id,omitempty"`
	TargetDate  *time.Time   `json:"target_date,omitempty"`
	SortOrder   float64      `json:"sort_order"`
	ArchivedAt  *time.Time   `json:"archived_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Validate checks if the module has valid field values.
func (m *Module) Validate() error {
	if len(m.Name) == 0 {
		return fmt.Errorf("name is required")
	}
	if !m.Status.IsValid() {
		return fmt.Errorf("invalid module status: %s", m.Status)
	}
	return nil
}

// PageAccess controls who can see a wiki page.
type PageAccess string

// Page access constants.
const (
	PagePublic  PageAccess = "public"  // visible to the whole workspace
	PagePrivate PageAccess = "private" // visible to the author only
)

// Page is a wiki document. Pages nest arbitrarily deep via ParentID and are
// rendered as a tree in navigation.
type Page struct {
	ID              string     `json:"id"`
	WorkspaceID     string     `json:"workspace_id"`
	ProjectID       *string    `json:"project_id,omitempty"` // nil for workspace-level pages
	Name            string     `json:"name"`
	DescriptionHTML string     `json:"description_html,omitempty"`
	ParentID        *string    `json:"parent_id,omitempty"`
	SortOrder       float64    `json:"sort_order"`
	Access          PageAccess `json:"access,omitempty"`
	Locked          bool       `json:"is_locked,omitempty"`
	ArchivedAt      *time.Time `json:"archived_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Validate checks if the page has valid field values.
func (p *Page) Validate() error {
	if len(p.Name) == 0 {
		return fmt.Errorf("name is required")
	}
	return nil
}

// Notification is an inbox entry describing activity on an entity the user
// watches. Read, archived and snoozed are independent timestamps: a
// notification can be read and snoozed at once.
type Notification struct {
	ID          string     `json:"id"`
	WorkspaceID string     `json:"workspace_id"`
	Title       string     `json:"title"`
	Message     string     `json:"message,omitempty"`
	EntityType  string     `json:"entity_type,omitempty"` // "issue", "page", ...
	EntityID    string     `json:"entity_id,omitempty"`
	EntityName  string     `json:"entity_name,omitempty"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	ArchivedAt  *time.Time `json:"archived_at,omitempty"`
	SnoozedTill *time.Time `json:"snoozed_till,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// IsRead reports whether the notification has been read.
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}

// IsSnoozed reports whether the notification is currently snoozed.
func (n *Notification) IsSnoozed(now time.Time) bool {
	return n.SnoozedTill != nil && n.SnoozedTill.After(now)
}

// Sticky is a free-form note pinned to the user's home screen.
type Sticky struct {
	ID              string    `json:"id"`
	WorkspaceID     string    `json:"workspace_id"`
	Name            string    `json:"name,omitempty"`
	DescriptionHTML string    `json:"description_html,omitempty"`
	Color           string    `json:"color,omitempty"`
	SortOrder       float64   `json:"sort_order"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// FavoriteKind identifies what a favorite points at.
type FavoriteKind string

// Favorite kind constants.
const (
	FavoriteFolder  FavoriteKind = "folder" // groups other favorites, points at nothing
	FavoriteProject FavoriteKind = "project"
	FavoriteSprint  FavoriteKind = "cycle"
	FavoriteModule  FavoriteKind = "module"
	FavoritePage    FavoriteKind = "page"
	FavoriteView    FavoriteKind = "view"
)

// Favorite is a user-curated shortcut in the sidebar. Folders nest other
// favorites via ParentID.
type Favorite struct {
	ID          string       `json:"id"`
	WorkspaceID string       `json:"workspace_id"`
	ProjectID   *string      `json:"project_id,omitempty"`
	Kind        FavoriteKind `json:"entity_type"`
	EntityID    *string      `json:"entity_identifier,omitempty"` // nil for folders
	Name        string       `json:"name"`
	ParentID    *string      `json:"parent_id,omitempty"`
	SortOrder   float64      `json:"sort_order"`
}

// IsFolder reports whether the favorite is a grouping folder.
func (f *Favorite) IsFolder() bool {
	return f.Kind == FavoriteFolder
}

// Widget is a toggleable section of the home screen.
type Widget struct {
	ID        string  `json:"id"`
	Key       string  `json:"key"` // "quick_links", "recent_activity", ...
	IsEnabled bool    `json:"is_enabled"`
	SortOrder float64 `json:"sort_order"`
}

// Webhook delivers workspace events to an external URL.
type Webhook struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	URL         string    `json:"url"`
	IsActive    bool      `json:"is_active"`
	SecretKey   string    `json:"secret_key,omitempty"` // populated on create/regenerate only
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks if the webhook has valid field values.
func (w *Webhook) Validate() error {
	if len(w.URL) == 0 {
		return fmt.Errorf("url is required")
	}
	return nil
}

// InstanceConfig carries rarely-changing deployment metadata. Cached with a
// long stale time since it only changes on server upgrades.
type InstanceConfig struct {
	InstanceID  string `json:"instance_id"`
	Version     string `json:"version"`
	IsSignupOn  bool   `json:"is_signup_screen_visible"`
	IsTelemetry bool   `json:"is_telemetry_enabled"`
}

// NotificationBucket partitions inbox entries for filtered views.
type NotificationBucket string

// Notification bucket constants.
const (
	BucketUnread   NotificationBucket = "unread"
	BucketRead     NotificationBucket = "read"
	BucketArchived NotificationBucket = "archived"
	BucketSnoozed  NotificationBucket = "snoozed"
)

// IsValid checks if the bucket value is valid.
func (b NotificationBucket) IsValid() bool {
	switch b {
	case BucketUnread, BucketRead, BucketArchived, BucketSnoozed:
		return true
	}
	return false
}
