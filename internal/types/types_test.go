package types

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestIssueValidation(t *testing.T) {
	now := time.Now().UTC()
	tests := []struct {
		name    string
		issue   Issue
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid issue",
			issue: Issue{
				ID:        "iss-1",
				Name:      "Fix login redirect",
				Priority:  PriorityHigh,
				CreatedAt: now,
			},
			wantErr: false,
		},
		{
			name:    "missing name",
			issue:   Issue{ID: "iss-1"},
			wantErr: true,
			errMsg:  "name is required",
		},
		{
			name: "name too long",
			issue: Issue{
				ID:   "iss-1",
				Name: string(make([]byte, 256)),
			},
			wantErr: true,
			errMsg:  "name must be 255 characters or less",
		},
		{
			name: "invalid priority",
			issue: Issue{
				ID:       "iss-1",
				Name:     "Test",
				Priority: Priority("blocker"),
			},
			wantErr: true,
			errMsg:  "invalid priority",
		},
		{
			name: "completed before created",
			issue: Issue{
				ID:          "iss-1",
				Name:        "Test",
				CreatedAt:   now,
				CompletedAt: timePtr(now.Add(-time.Hour)),
			},
			wantErr: true,
			errMsg:  "completed_at cannot predate created_at",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.issue.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.errMsg)
				}
				if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errMsg)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestStateGroupValidity(t *testing.T) {
	for _, g := range StateGroups() {
		if !g.IsValid() {
			t.Errorf("group %q should be valid", g)
		}
	}
	if StateGroup("parked").IsValid() {
		t.Error("unknown group should not be valid")
	}
}

func TestSprintDateOrdering(t *testing.T) {
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 14)

	s := Sprint{Name: "Sprint 12", StartDate: &start, EndDate: &end}
	if err := s.Validate(); err != nil {
		t.Fatalf("valid sprint rejected: %v", err)
	}

	s.EndDate = timePtr(start.AddDate(0, 0, -1))
	if err := s.Validate(); err == nil {
		t.Fatal("end before start should be rejected")
	}
}

func TestSprintLifecycle(t *testing.T) {
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 13)
	s := Sprint{Name: "Sprint 12", StartDate: &start, EndDate: &end}

	tests := []struct {
		name string
		now  time.Time
		want SprintStatus
	}{
		{"day before start", start.AddDate(0, 0, -1), SprintUpcoming},
		{"first day", start, SprintCurrent},
		{"mid window", start.AddDate(0, 0, 7), SprintCurrent},
		{"last day, late evening", end.Add(23 * time.Hour), SprintCurrent},
		{"day after end", end.AddDate(0, 0, 1), SprintCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Lifecycle(tt.now); got != tt.want {
				t.Errorf("Lifecycle(%s) = %s, want %s", tt.now.Format("2006-01-02 15:04"), got, tt.want)
			}
		})
	}

	undated := Sprint{Name: "Backlog grooming"}
	if got := undated.Lifecycle(start); got != SprintDraft {
		t.Errorf("undated sprint = %s, want %s", got, SprintDraft)
	}
}

func TestNotificationSnooze(t *testing.T) {
	now := time.Now().UTC()
	n := Notification{ID: "n-1", Title: "Mentioned you"}

	if n.IsRead() {
		t.Error("unread notification reported read")
	}
	if n.IsSnoozed(now) {
		t.Error("notification without snooze reported snoozed")
	}

	n.SnoozedTill = timePtr(now.Add(time.Hour))
	if !n.IsSnoozed(now) {
		t.Error("future snooze not reported")
	}
	if n.IsSnoozed(now.Add(2 * time.Hour)) {
		t.Error("expired snooze still reported")
	}
}

func TestIssuePatchApply(t *testing.T) {
	base := Issue{
		ID:        "iss-1",
		Name:      "Original",
		Priority:  PriorityLow,
		StateID:   "state-todo",
		SortOrder: 10000,
		SprintID:  strPtr("spr-1"),
	}

	name := "Renamed"
	prio := PriorityUrgent
	patched := IssuePatch{Name: &name, Priority: &prio, ClearSprint: true}.Apply(base)

	if patched.Name != "Renamed" || patched.Priority != PriorityUrgent {
		t.Errorf("patch fields not applied: %+v", patched)
	}
	if patched.SprintID != nil {
		t.Error("ClearSprint did not clear sprint_id")
	}
	if patched.StateID != "state-todo" || patched.SortOrder != 10000 {
		t.Error("untouched fields changed")
	}
	// The input must remain untouched; Apply works on a copy.
	if base.Name != "Original" || base.SprintID == nil {
		t.Error("Apply mutated its input")
	}
}

func TestPatchZeroness(t *testing.T) {
	if !(IssuePatch{}).IsZero() {
		t.Error("empty issue patch should be zero")
	}
	n := "x"
	if (IssuePatch{Name: &n}).IsZero() {
		t.Error("non-empty patch reported zero")
	}
	if !(WidgetPatch{}).IsZero() {
		t.Error("empty widget patch should be zero")
	}
}

func TestPatchWireShape(t *testing.T) {
	// Unset fields stay off the wire so the server treats them as
	// untouched.
	name := "Renamed"
	data, err := json.Marshal(IssuePatch{Name: &name})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"name":"Renamed"}` {
		t.Errorf("unexpected wire shape: %s", data)
	}

	// Clear* flags turn into explicit nulls; a plain omitted field would
	// read as "leave alone".
	data, err = json.Marshal(IssuePatch{Name: &name, ClearSprint: true})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"name":"Renamed","sprint_id":null}` {
		t.Errorf("unexpected wire shape with clear: %s", data)
	}

	data, err = json.Marshal(FavoritePatch{ClearParent: true})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"parent_id":null}` {
		t.Errorf("unexpected favorite wire shape: %s", data)
	}
}

func timePtr(t time.Time) *time.Time { return &t }
func strPtr(s string) *string        { return &s }
