package main

import (
	"testing"
	"time"

	"github.com/windrosehq/windrose-go/internal/types"
)

func TestNormalizeOrderBy(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "-created_at", false}, // newest first when unset
		{"created", "created_at", false},
		{"-created", "-created_at", false},
		{"created_at", "created_at", false},
		{"updated", "updated_at", false},
		{"-updated", "-updated_at", false},
		{"name", "name", false},
		{"title", "name", false},
		{"priority", "priority", false},
		{"manual", "sort_order", false},
		{"sequence", "sequence_id", false},
		{"id", "sequence_id", false},
		{"-id", "-sequence_id", false},
		{"bogus", "", true},
	}
	for _, tt := range tests {
		t.Run("in="+tt.in, func(t *testing.T) {
			got, err := normalizeOrderBy(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("normalizeOrderBy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("normalizeOrderBy(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeGroupBy(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "none"},
		{"none", "none"},
		{"flat", "none"},
		{"state", "state"},
		{"priority", "priority"},
		{"bogus", "none"},
	}
	for _, tt := range tests {
		if got := normalizeGroupBy(tt.in); got != tt.want {
			t.Errorf("normalizeGroupBy(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func sequenceOrder(issues []types.Issue) []int {
	out := make([]int, len(issues))
	for i, is := range issues {
		out[i] = is.SequenceID
	}
	return out
}

func TestSortIssuesBy(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fixture := func() []types.Issue {
		return []types.Issue{
			{SequenceID: 1, Name: "beta", Priority: types.PriorityLow, SortOrder: 30000, CreatedAt: base.Add(2 * time.Hour)},
			{SequenceID: 2, Name: "Alpha", Priority: types.PriorityUrgent, SortOrder: 10000, CreatedAt: base},
			{SequenceID: 3, Name: "gamma", Priority: types.PriorityMedium, SortOrder: 20000, CreatedAt: base.Add(time.Hour)},
		}
	}

	tests := []struct {
		name    string
		orderBy string
		reverse bool
		want    []int
	}{
		{"created ascending", "created_at", false, []int{2, 3, 1}},
		{"created descending", "-created_at", false, []int{1, 3, 2}},
		{"descending reversed", "-created_at", true, []int{2, 3, 1}},
		{"priority, urgent first", "priority", false, []int{2, 3, 1}},
		{"name case-insensitive", "name", false, []int{2, 1, 3}},
		{"manual order", "sort_order", false, []int{2, 3, 1}},
		{"sequence", "sequence_id", false, []int{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := fixture()
			sortIssuesBy(issues, tt.orderBy, tt.reverse)
			got := sequenceOrder(issues)
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("order = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestGroupRank(t *testing.T) {
	order := []types.StateGroup{
		types.GroupBacklog,
		types.GroupUnstarted,
		types.GroupStarted,
		types.GroupCompleted,
		types.GroupCancelled,
	}
	for i, g := range order {
		if got := groupRank(g); got != i {
			t.Errorf("groupRank(%s) = %d, want %d", g, got, i)
		}
	}
	if got := groupRank(types.StateGroup("mystery")); got != len(order) {
		t.Errorf("groupRank(unknown) = %d, want %d", got, len(order))
	}
}
