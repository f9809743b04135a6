package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIsKnownKey(t *testing.T) {
	tests := []struct {
		key      string
		expected bool
	}{
		{KeyBaseURL, true},
		{KeyAPIKey, true},
		{KeyWorkspace, true},
		{KeyProject, true},
		{KeyStaleTime, true},
		{KeyTelemetry, true},

		{"workspce", false},
		{"apikey", false},
		{"database", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got := IsKnownKey(tt.key)
			if got != tt.expected {
				t.Errorf("IsKnownKey(%q) = %v, want %v", tt.key, got, tt.expected)
			}
		})
	}
}

func TestUpdateYamlKey(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		key      string
		value    string
		expected string
	}{
		{
			name:     "update commented key",
			content:  "# telemetry: false\nother: value",
			key:      "telemetry",
			value:    "true",
			expected: "telemetry: true\nother: value",
		},
		{
			name:     "update existing key",
			content:  "telemetry: false\nother: value",
			key:      "telemetry",
			value:    "true",
			expected: "telemetry: true\nother: value",
		},
		{
			name:     "add new key",
			content:  "other: value",
			key:      "telemetry",
			value:    "true",
			expected: "other: value\n\ntelemetry: true",
		},
		{
			name:     "preserve indentation",
			content:  "  # telemetry: false\nother: value",
			key:      "telemetry",
			value:    "true",
			expected: "  telemetry: true\nother: value",
		},
		{
			name:     "quote string value",
			content:  "# workspace: \"\"\nother: value",
			key:      "workspace",
			value:    "acme",
			expected: "workspace: \"acme\"\nother: value",
		},
		{
			name:     "duration value stays bare",
			content:  "# stale-time: \"5m\"",
			key:      "stale-time",
			value:    "30s",
			expected: "stale-time: 30s",
		},
		{
			name:     "quote special characters",
			content:  "other: value",
			key:      "workspace",
			value:    "acme: corp",
			expected: "other: value\n\nworkspace: \"acme: corp\"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := updateYamlKey(tt.content, tt.key, tt.value)
			if got != tt.expected {
				t.Errorf("updateYamlKey() =\n%q\nwant:\n%q", got, tt.expected)
			}
		})
	}
}

func TestFormatYamlValue(t *testing.T) {
	tests := []struct {
		value    string
		expected string
	}{
		{"true", "true"},
		{"False", "false"},
		{"42", "42"},
		{"-3", "-3"},
		{"2.5", "2.5"},
		{"30s", "30s"},
		{"5m", "5m"},
		{"acme", "\"acme\""},
		{"http://localhost:3000", "\"http://localhost:3000\""},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got := formatYamlValue(tt.value)
			if got != tt.expected {
				t.Errorf("formatYamlValue(%q) = %s, want %s", tt.value, got, tt.expected)
			}
		})
	}
}

func TestSetYamlConfigRejectsUnknownKey(t *testing.T) {
	err := SetYamlConfig("no-such-key", "value")
	if err == nil || !strings.Contains(err.Error(), "unknown key") {
		t.Errorf("SetYamlConfig(no-such-key) = %v, want unknown key error", err)
	}
}

func TestSetYamlConfigRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	windroseDir := filepath.Join(tmpDir, DirName)
	if err := os.MkdirAll(windroseDir, 0750); err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(windroseDir, ConfigFileName)
	seed := "# workspace: \"\"\ntelemetry: false\n"
	if err := os.WriteFile(configPath, []byte(seed), 0600); err != nil {
		t.Fatal(err)
	}

	t.Chdir(tmpDir)

	if err := SetYamlConfig(KeyWorkspace, "acme"); err != nil {
		t.Fatalf("SetYamlConfig: %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "workspace: \"acme\"") {
		t.Errorf("config.yaml after set:\n%s\nwant workspace: \"acme\"", data)
	}
	if !strings.Contains(string(data), "telemetry: false") {
		t.Errorf("config.yaml lost unrelated key:\n%s", data)
	}

	// The updated file parses and feeds the typed loader.
	cfg := LoadLocalConfig(windroseDir)
	if cfg.Workspace != "acme" {
		t.Errorf("LoadLocalConfig().Workspace = %q, want acme", cfg.Workspace)
	}
}

func TestSetYamlConfigWithoutSetup(t *testing.T) {
	t.Chdir(t.TempDir())

	err := SetYamlConfig(KeyWorkspace, "acme")
	if err == nil || !strings.Contains(err.Error(), "wr init") {
		t.Errorf("SetYamlConfig without setup = %v, want init hint", err)
	}
}
