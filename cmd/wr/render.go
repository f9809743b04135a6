package main

import (
	"fmt"
	"time"

	"github.com/windrosehq/windrose-go/internal/types"
)

// formatAge renders a time as a compact relative age ("3d", "2h", "1mo").
func formatAge(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	case d < 365*24*time.Hour:
		return fmt.Sprintf("%dmo", int(d.Hours()/(24*30)))
	default:
		return fmt.Sprintf("%dy", int(d.Hours()/(24*365)))
	}
}

// formatDate renders an optional date for detail views.
func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}

// statesByID indexes a state list for name lookups during rendering.
func statesByID(states []types.State) map[string]types.State {
	m := make(map[string]types.State, len(states))
	for _, s := range states {
		m[s.ID] = s
	}
	return m
}

// labelsByID indexes a label list for name lookups during rendering.
func labelsByID(labels []types.Label) map[string]types.Label {
	m := make(map[string]types.Label, len(labels))
	for _, l := range labels {
		m[l.ID] = l
	}
	return m
}

// priorityRank orders priorities for sorting, most urgent first.
func priorityRank(p types.Priority) int {
	switch p {
	case types.PriorityUrgent:
		return 0
	case types.PriorityHigh:
		return 1
	case types.PriorityMedium:
		return 2
	case types.PriorityLow:
		return 3
	default:
		return 4
	}
}
