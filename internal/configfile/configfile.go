// Package configfile persists the CLI's working state: which workspace
// and project the user is operating in, and the last issue they
// touched. Settings that change behavior live in config.yaml; this
// file only remembers where the user left off.
package configfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const StateFileName = "metadata.json"

type State struct {
	Workspace string `json:"workspace,omitempty"`
	Project   string `json:"project,omitempty"`

	// LastIssue is the id of the most recently shown or mutated issue,
	// so commands can default to it ("wr issues show" with no argument).
	LastIssue string `json:"last_issue,omitempty"`

	// UpdatedAt records the last save, useful in wr status output.
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

func StatePath(windroseDir string) string {
	return filepath.Join(windroseDir, StateFileName)
}

// Load reads the state file. A missing file is not an error: it returns
// (nil, nil) so callers can distinguish "no state yet" from a real
// read failure.
func Load(windroseDir string) (*State, error) {
	data, err := os.ReadFile(StatePath(windroseDir)) // #nosec G304 - controlled path from config
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading state: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parsing state: %w", err)
	}

	return &st, nil
}

func (s *State) Save(windroseDir string) error {
	s.UpdatedAt = time.Now().UTC()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}

	if err := os.WriteFile(StatePath(windroseDir), data, 0600); err != nil {
		return fmt.Errorf("writing state: %w", err)
	}

	return nil
}

// Touch records id as the most recently used issue and saves.
func (s *State) Touch(windroseDir, id string) error {
	s.LastIssue = id
	return s.Save(windroseDir)
}
