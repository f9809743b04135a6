package types

import (
	"encoding/json"
	"time"
)

// Patches are the only sanctioned shape for partial updates. Each patch is a
// struct of optional fields: nil means "leave alone", a set pointer means
// "write this value". Clearing a nullable field is expressed by the dedicated
// Clear* flags rather than by overloading nil.
//
// Apply mutates a copy of the record to the predicted post-update value; the
// same patch marshals to the PATCH request body (omitempty keeps unset fields
// off the wire, Clear* flags become explicit nulls), so the optimistic write
// and the server write are computed from one source.

// IssuePatch is a partial update to an Issue.
type IssuePatch struct {
	Name            *string    `json:"name,omitempty"`
	DescriptionHTML *string    `json:"description_html,omitempty"`
	Priority        *Priority  `json:"priority,omitempty"`
	StateID         *string    `json:"state_id,omitempty"`
	ParentID        *string    `json:"parent_id,omitempty"`
	SortOrder       *float64   `json:"sort_order,omitempty"`
	LabelIDs        *[]string  `json:"label_ids,omitempty"`
	AssigneeIDs     *[]string  `json:"assignee_ids,omitempty"`
	SprintID        *string    `json:"sprint_id,omitempty"`
	ModuleIDs       *[]string  `json:"module_ids,omitempty"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	TargetDate      *time.Time `json:"target_date,omitempty"`
	ArchivedAt      *time.Time `json:"archived_at,omitempty"`

	ClearParent     bool `json:"-"`
	ClearSprint     bool `json:"-"`
	ClearTargetDate bool `json:"-"`
}

// IsZero reports whether the patch changes nothing.
func (p IssuePatch) IsZero() bool {
	return p == IssuePatch{}
}

// Apply writes the patch onto a copy of the issue and returns it.
func (p IssuePatch) Apply(in Issue) Issue {
	out := in
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.DescriptionHTML != nil {
		out.DescriptionHTML = *p.DescriptionHTML
	}
	if p.Priority != nil {
		out.Priority = *p.Priority
	}
	if p.StateID != nil {
		out.StateID = *p.StateID
	}
	if p.ParentID != nil {
		out.ParentID = p.ParentID
	}
	if p.SortOrder != nil {
		out.SortOrder = *p.SortOrder
	}
	if p.LabelIDs != nil {
		out.LabelIDs = append([]string(nil), (*p.LabelIDs)...)
	}
	if p.AssigneeIDs != nil {
		out.AssigneeIDs = append([]string(nil), (*p.AssigneeIDs)...)
	}
	if p.SprintID != nil {
		out.SprintID = p.SprintID
	}
	if p.ModuleIDs != nil {
		out.ModuleIDs = append([]string(nil), (*p.ModuleIDs)...)
	}
	if p.StartDate != nil {
		out.StartDate = p.StartDate
	}
	if p.TargetDate != nil {
		out.TargetDate = p.TargetDate
	}
	if p.ArchivedAt != nil {
		out.ArchivedAt = p.ArchivedAt
	}
	if p.ClearParent {
		out.ParentID = nil
	}
	if p.ClearSprint {
		out.SprintID = nil
	}
	if p.ClearTargetDate {
		out.TargetDate = nil
	}
	out.UpdatedAt = time.Now().UTC()
	return out
}

// MarshalJSON writes the Clear* flags as explicit nulls. omitempty alone
// would drop them and the server would leave the fields untouched.
func (p IssuePatch) MarshalJSON() ([]byte, error) {
	type bare IssuePatch
	b, err := json.Marshal(bare(p))
	if err != nil {
		return nil, err
	}
	var nulls []string
	if p.ClearParent {
		nulls = append(nulls, "parent_id")
	}
	if p.ClearSprint {
		nulls = append(nulls, "sprint_id")
	}
	if p.ClearTargetDate {
		nulls = append(nulls, "target_date")
	}
	return spliceNulls(b, nulls)
}

// LabelPatch is a partial update to a Label.
type LabelPatch struct {
	Name      *string  `json:"name,omitempty"`
	Color     *string  `json:"color,omitempty"`
	ParentID  *string  `json:"parent_id,omitempty"`
	SortOrder *float64 `json:"sort_order,omitempty"`

	ClearParent bool `json:"-"`
}

// IsZero reports whether the patch changes nothing.
func (p LabelPatch) IsZero() bool {
	return p == LabelPatch{}
}

// Apply writes the patch onto a copy of the label and returns it.
func (p LabelPatch) Apply(in Label) Label {
	out := in
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Color != nil {
		out.Color = *p.Color
	}
	if p.ParentID != nil {
		out.ParentID = p.ParentID
	}
	if p.SortOrder != nil {
		out.SortOrder = *p.SortOrder
	}
	if p.ClearParent {
		out.ParentID = nil
	}
	return out
}

// MarshalJSON writes ClearParent as an explicit null parent_id.
func (p LabelPatch) MarshalJSON() ([]byte, error) {
	type bare LabelPatch
	b, err := json.Marshal(bare(p))
	if err != nil {
		return nil, err
	}
	if !p.ClearParent {
		return b, nil
	}
	return spliceNulls(b, []string{"parent_id"})
}

// SprintPatch is a partial update to a Sprint.
type SprintPatch struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	SortOrder   *float64   `json:"sort_order,omitempty"`
	ArchivedAt  *time.Time `json:"archived_at,omitempty"`

	ClearArchivedAt bool `json:"-"`
}

// IsZero reports whether the patch changes nothing.
func (p SprintPatch) IsZero() bool {
	return p == SprintPatch{}
}

// Apply writes the patch onto a copy of the sprint and returns it.
func (p SprintPatch) Apply(in Sprint) Sprint {
	out := in
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.StartDate != nil {
		out.StartDate = p.StartDate
	}
	if p.EndDate != nil {
		out.EndDate = p.EndDate
	}
	if p.SortOrder != nil {
		out.SortOrder = *p.SortOrder
	}
	if p.ArchivedAt != nil {
		out.ArchivedAt = p.ArchivedAt
	}
	if p.ClearArchivedAt {
		out.ArchivedAt = nil
	}
	out.UpdatedAt = time.Now().UTC()
	return out
}

// MarshalJSON writes ClearArchivedAt as an explicit null archived_at.
func (p SprintPatch) MarshalJSON() ([]byte, error) {
	type bare SprintPatch
	b, err := json.Marshal(bare(p))
	if err != nil {
		return nil, err
	}
	if !p.ClearArchivedAt {
		return b, nil
	}
	return spliceNulls(b, []string{"archived_at"})
}

// ModulePatch is a partial update to a Module.
type ModulePatch struct {
	Name        *string       `json:"name,omitempty"`
	Description *string       `json:"description,omitempty"`
	Status      *ModuleStatus `json:"status,omitempty"`
	LeadID      *string       `json:"lead_id,omitempty"`
	TargetDate  *time.Time    `json:"target_date,omitempty"`
	SortOrder   *float64      `json:"sort_order,omitempty"`
	ArchivedAt  *time.Time    `json:"archived_at,omitempty"`
}

// IsZero reports whether the patch changes nothing.
func (p ModulePatch) IsZero() bool {
	return p == ModulePatch{}
}

// Apply writes the patch onto a copy of the module and returns it.
func (p ModulePatch) Apply(in Module) Module {
	out := in
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.LeadID != nil {
		out.LeadID = p.LeadID
	}
	if p.TargetDate != nil {
		out.TargetDate = p.TargetDate
	}
	if p.SortOrder != nil {
		out.SortOrder = *p.SortOrder
	}
	if p.ArchivedAt != nil {
		out.ArchivedAt = p.ArchivedAt
	}
	out.UpdatedAt = time.Now().UTC()
	return out
}

// PagePatch is a partial update to a Page.
type PagePatch struct {
	Name            *string     `json:"name,omitempty"`
	DescriptionHTML *string     `json:"description_html,omitempty"`
	ParentID        *string     `json:"parent_id,omitempty"`
	SortOrder       *float64    `json:"sort_order,omitempty"`
	Access          *PageAccess `json:"access,omitempty"`
	Locked          *bool       `json:"is_locked,omitempty"`
	ArchivedAt      *time.Time  `json:"archived_at,omitempty"`

	ClearParent bool `json:"-"`
}

// IsZero reports whether the patch changes nothing.
func (p PagePatch) IsZero() bool {
	return p == PagePatch{}
}

// Apply writes the patch onto a copy of the page and returns it.
func (p PagePatch) Apply(in Page) Page {
	out := in
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.DescriptionHTML != nil {
		out.DescriptionHTML = *p.DescriptionHTML
	}
	if p.ParentID != nil {
		out.ParentID = p.ParentID
	}
	if p.SortOrder != nil {
		out.SortOrder = *p.SortOrder
	}
	if p.Access != nil {
		out.Access = *p.Access
	}
	if p.Locked != nil {
		out.Locked = *p.Locked
	}
	if p.ArchivedAt != nil {
		out.ArchivedAt = p.ArchivedAt
	}
	if p.ClearParent {
		out.ParentID = nil
	}
	out.UpdatedAt = time.Now().UTC()
	return out
}

// MarshalJSON writes ClearParent as an explicit null parent_id.
func (p PagePatch) MarshalJSON() ([]byte, error) {
	type bare PagePatch
	b, err := json.Marshal(bare(p))
	if err != nil {
		return nil, err
	}
	if !p.ClearParent {
		return b, nil
	}
	return spliceNulls(b, []string{"parent_id"})
}

// StatePatch is a partial update to a State.
type StatePatch struct {
	Name      *string     `json:"name,omitempty"`
	Group     *StateGroup `json:"group,omitempty"`
	Color     *string     `json:"color,omitempty"`
	Default   *bool       `json:"default,omitempty"`
	SortOrder *float64    `json:"sort_order,omitempty"`
}

// IsZero reports whether the patch changes nothing.
func (p StatePatch) IsZero() bool {
	return p == StatePatch{}
}

// Apply writes the patch onto a copy of the state and returns it.
func (p StatePatch) Apply(in State) State {
	out := in
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Group != nil {
		out.Group = *p.Group
	}
	if p.Color != nil {
		out.Color = *p.Color
	}
	if p.Default != nil {
		out.Default = *p.Default
	}
	if p.SortOrder != nil {
		out.SortOrder = *p.SortOrder
	}
	return out
}

// StickyPatch is a partial update to a Sticky.
type StickyPatch struct {
	Name            *string  `json:"name,omitempty"`
	DescriptionHTML *string  `json:"description_html,omitempty"`
	Color           *string  `json:"color,omitempty"`
	SortOrder       *float64 `json:"sort_order,omitempty"`
}

// IsZero reports whether the patch changes nothing.
func (p StickyPatch) IsZero() bool {
	return p == StickyPatch{}
}

// Apply writes the patch onto a copy of the sticky and returns it.
func (p StickyPatch) Apply(in Sticky) Sticky {
	out := in
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.DescriptionHTML != nil {
		out.DescriptionHTML = *p.DescriptionHTML
	}
	if p.Color != nil {
		out.Color = *p.Color
	}
	if p.SortOrder != nil {
		out.SortOrder = *p.SortOrder
	}
	out.UpdatedAt = time.Now().UTC()
	return out
}

// FavoritePatch is a partial update to a Favorite.
type FavoritePatch struct {
	Name      *string  `json:"name,omitempty"`
	ParentID  *string  `json:"parent_id,omitempty"`
	SortOrder *float64 `json:"sort_order,omitempty"`

	ClearParent bool `json:"-"`
}

// IsZero reports whether the patch changes nothing.
func (p FavoritePatch) IsZero() bool {
	return p == FavoritePatch{}
}

// Apply writes the patch onto a copy of the favorite and returns it.
func (p FavoritePatch) Apply(in Favorite) Favorite {
	out := in
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.ParentID != nil {
		out.ParentID = p.ParentID
	}
	if p.SortOrder != nil {
		out.SortOrder = *p.SortOrder
	}
	if p.ClearParent {
		out.ParentID = nil
	}
	return out
}

// MarshalJSON writes ClearParent as an explicit null parent_id.
func (p FavoritePatch) MarshalJSON() ([]byte, error) {
	type bare FavoritePatch
	b, err := json.Marshal(bare(p))
	if err != nil {
		return nil, err
	}
	if !p.ClearParent {
		return b, nil
	}
	return spliceNulls(b, []string{"parent_id"})
}

// WidgetPatch is a partial update to a Widget.
type WidgetPatch struct {
	IsEnabled *bool    `json:"is_enabled,omitempty"`
	SortOrder *float64 `json:"sort_order,omitempty"`
}

// IsZero reports whether the patch changes nothing.
func (p WidgetPatch) IsZero() bool {
	return p == WidgetPatch{}
}

// Apply writes the patch onto a copy of the widget and returns it.
func (p WidgetPatch) Apply(in Widget) Widget {
	out := in
	if p.IsEnabled != nil {
		out.IsEnabled = *p.IsEnabled
	}
	if p.SortOrder != nil {
		out.SortOrder = *p.SortOrder
	}
	return out
}

// WebhookPatch is a partial update to a Webhook.
type WebhookPatch struct {
	URL      *string `json:"url,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// IsZero reports whether the patch changes nothing.
func (p WebhookPatch) IsZero() bool {
	return p == WebhookPatch{}
}

// Apply writes the patch onto a copy of the webhook and returns it.
func (p WebhookPatch) Apply(in Webhook) Webhook {
	out := in
	if p.URL != nil {
		out.URL = *p.URL
	}
	if p.IsActive != nil {
		out.IsActive = *p.IsActive
	}
	out.UpdatedAt = time.Now().UTC()
	return out
}

// spliceNulls re-encodes an already-marshaled patch with the named
// fields forced to null. A null set here wins over any pointer value
// for the same field.
func spliceNulls(encoded []byte, fields []string) ([]byte, error) {
	if len(fields) == 0 {
		return encoded, nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(encoded, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = make(map[string]json.RawMessage, len(fields))
	}
	for _, f := range fields {
		m[f] = json.RawMessage("null")
	}
	return json.Marshal(m)
}
