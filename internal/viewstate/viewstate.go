// Package viewstate holds per-scope display preferences: layout,
// grouping, ordering, search text and active filters. This is UI
// state, not data — it has no network lifecycle and never mixes into
// the query cache. An optional JSON file under .windrose carries it
// across CLI invocations.
package viewstate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

const StateFileName = "viewstate.json"

// Layout selects how a collection renders.
type Layout string

const (
	LayoutList     Layout = "list"
	LayoutBoard    Layout = "board"
	LayoutCalendar Layout = "calendar"
	LayoutTable    Layout = "table"
)

// IsValid checks if the layout value is valid.
func (l Layout) IsValid() bool {
	switch l {
	case LayoutList, LayoutBoard, LayoutCalendar, LayoutTable:
		return true
	}
	return false
}

// Preferences are one scope's display settings. The zero value is not
// meaningful; use Default.
type Preferences struct {
	Layout      Layout            `json:"layout"`
	GroupBy     string            `json:"group_by,omitempty"`
	OrderBy     string            `json:"order_by,omitempty"`
	SearchQuery string            `json:"search_query,omitempty"`
	Filters     map[string]string `json:"filters,omitempty"`
}

// Default is the preference set a scope starts with.
func Default() Preferences {
	return Preferences{
		Layout:  LayoutList,
		GroupBy: "state",
		OrderBy: "-created_at",
	}
}

// clone deep-copies p so callers never share the filters map with the
// store's copy.
func (p Preferences) clone() Preferences {
	out := p
	if p.Filters != nil {
		out.Filters = make(map[string]string, len(p.Filters))
		for k, v := range p.Filters {
			out.Filters[k] = v
		}
	}
	return out
}

// ScopeKey names the preference scope for a workspace/project pair.
// Workspace-level views pass an empty project.
func ScopeKey(workspace, project string) string {
	if project == "" {
		return workspace
	}
	return workspace + "/" + project
}

// Store keeps preferences per scope. Safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	scopes map[string]Preferences
}

// NewStore creates an empty preference store.
func NewStore() *Store {
	return &Store{scopes: make(map[string]Preferences)}
}

// Get returns the preferences for scope, or Default when the scope has
// never been touched. The result is a copy.
func (s *Store) Get(scope string) Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.scopes[scope]; ok {
		return p.clone()
	}
	return Default()
}

// Set replaces the preferences for scope.
func (s *Store) Set(scope string, p Preferences) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scopes[scope] = p.clone()
}

// Update mutates the preferences for scope in place, creating the
// scope with defaults first if needed.
func (s *Store) Update(scope string, fn func(p *Preferences)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.scopes[scope]
	if !ok {
		p = Default()
	}
	p = p.clone()
	fn(&p)
	s.scopes[scope] = p
}

// SetFilter sets one filter key for scope. An empty value removes the
// filter.
func (s *Store) SetFilter(scope, key, value string) {
	s.Update(scope, func(p *Preferences) {
		if value == "" {
			delete(p.Filters, key)
			return
		}
		if p.Filters == nil {
			p.Filters = make(map[string]string)
		}
		p.Filters[key] = value
	})
}

// ClearFilters drops every active filter and the search text for scope.
func (s *Store) ClearFilters(scope string) {
	s.Update(scope, func(p *Preferences) {
		p.Filters = nil
		p.SearchQuery = ""
	})
}

// Reset drops scope back to defaults.
func (s *Store) Reset(scope string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.scopes, scope)
}

// Scopes returns every touched scope in sorted order.
func (s *Store) Scopes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.scopes))
	for k := range s.scopes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// stateFile is the on-disk shape.
type stateFile struct {
	Scopes map[string]Preferences `json:"scopes"`
}

// Load reads viewstate.json from the given .windrose directory. A
// missing file yields an empty store; a corrupt one is an error.
func Load(windroseDir string) (*Store, error) {
	data, err := os.ReadFile(filepath.Join(windroseDir, StateFileName)) // #nosec G304 - controlled path from config
	if os.IsNotExist(err) {
		return NewStore(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading view state: %w", err)
	}

	var sf stateFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing view state: %w", err)
	}

	s := NewStore()
	for scope, p := range sf.Scopes {
		s.scopes[scope] = p
	}
	return s, nil
}

// Save writes the store to viewstate.json in the given directory.
func (s *Store) Save(windroseDir string) error {
	s.mu.RLock()
	sf := stateFile{Scopes: make(map[string]Preferences, len(s.scopes))}
	for scope, p := range s.scopes {
		sf.Scopes[scope] = p.clone()
	}
	s.mu.RUnlock()

	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling view state: %w", err)
	}

	if err := os.WriteFile(filepath.Join(windroseDir, StateFileName), data, 0600); err != nil {
		return fmt.Errorf("writing view state: %w", err)
	}

	return nil
}
