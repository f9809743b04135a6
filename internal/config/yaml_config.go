package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// knownKeys are the config.yaml keys wr config set accepts. Everything
// else is rejected so a typo ("workspce") fails loudly instead of
// writing a key nothing reads.
var knownKeys = map[string]bool{
	KeyBaseURL:         true,
	KeyAPIKey:          true,
	KeyWorkspace:       true,
	KeyProject:         true,
	KeyJSON:            true,
	KeyVerbose:         true,
	KeyQuiet:           true,
	KeyTelemetry:       true,
	KeyStaleTime:       true,
	KeyGCTime:          true,
	KeyRetryMaxElapsed: true,
}

// IsKnownKey reports whether key is a settable config.yaml key.
func IsKnownKey(key string) bool {
	return knownKeys[key]
}

// SetYamlConfig writes a configuration value into the discovered
// config.yaml, updating existing (possibly commented-out) keys in place
// and appending new ones.
func SetYamlConfig(key, value string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("config: unknown key %q", key)
	}

	configPath, err := findConfigYaml()
	if err != nil {
		return err
	}

	content, err := os.ReadFile(configPath) //nolint:gosec // configPath is from findConfigYaml
	if err != nil {
		return fmt.Errorf("config: reading config.yaml: %w", err)
	}

	newContent := updateYamlKey(string(content), key, value)

	if err := os.WriteFile(configPath, []byte(newContent), 0600); err != nil {
		return fmt.Errorf("config: writing config.yaml: %w", err)
	}

	return nil
}

// GetYamlConfig reads a value through the initialized singleton.
// Returns "" when the key is unset or Initialize has not run.
func GetYamlConfig(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

// findConfigYaml locates .windrose/config.yaml walking up from the
// working directory.
func findConfigYaml() (string, error) {
	dir := FindDir()
	if dir == "" {
		return "", fmt.Errorf("config: no %s directory found (run 'wr init' first)", DirName)
	}
	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configPath); err != nil {
		return "", fmt.Errorf("config: no %s found (run 'wr init' first)", ConfigFileName)
	}
	return configPath, nil
}

// updateYamlKey updates a key in yaml content. A key present but
// commented out is uncommented in place with its indentation kept; a
// missing key is appended at the end.
func updateYamlKey(content, key, value string) string {
	newLine := fmt.Sprintf("%s: %s", key, formatYamlValue(value))

	// Matches "key: value" or "# key: value" with optional indentation.
	keyPattern := regexp.MustCompile(`^(\s*)(#\s*)?` + regexp.QuoteMeta(key) + `\s*:`)

	found := false
	var result []string

	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := scanner.Text()
		if keyPattern.MatchString(line) {
			indent := ""
			if matches := keyPattern.FindStringSubmatch(line); len(matches) > 1 {
				indent = matches[1]
			}
			result = append(result, indent+newLine)
			found = true
		} else {
			result = append(result, line)
		}
	}

	if !found {
		if len(result) > 0 && result[len(result)-1] != "" {
			result = append(result, "")
		}
		result = append(result, newLine)
	}

	return strings.Join(result, "\n")
}

// formatYamlValue renders a value for YAML: booleans, numbers and
// durations stay bare, everything else is quoted.
func formatYamlValue(value string) string {
	lower := strings.ToLower(value)
	if lower == "true" || lower == "false" {
		return lower
	}
	if isNumeric(value) || isDuration(value) {
		return value
	}
	return fmt.Sprintf("%q", value)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		if c == '-' && i == 0 {
			continue
		}
		if c == '.' {
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func isDuration(s string) bool {
	if len(s) < 2 {
		return false
	}
	suffix := s[len(s)-1]
	if suffix != 's' && suffix != 'm' && suffix != 'h' {
		return false
	}
	return isNumeric(s[:len(s)-1])
}
