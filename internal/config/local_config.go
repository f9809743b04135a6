package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LocalConfig is the subset of config.yaml read directly from the file
// rather than through the viper singleton. Needed when the working
// directory has changed since Initialize ran, or before it has run at
// all (wr init checks for an existing setup this way).
//
// Proper YAML parsing handles comments, indentation and special
// characters that regex scraping would miss.
type LocalConfig struct {
	BaseURL   string `yaml:"base-url"`
	APIKey    string `yaml:"api-key"`
	Workspace string `yaml:"workspace"`
	Project   string `yaml:"project"`
}

// LoadLocalConfig reads config.yaml from the given .windrose directory.
// Returns an empty LocalConfig (not nil) when the file is missing or
// unparsable.
func LoadLocalConfig(windroseDir string) *LocalConfig {
	configPath := filepath.Join(windroseDir, ConfigFileName)
	data, err := os.ReadFile(configPath) // #nosec G304 - config file path from windroseDir
	if err != nil {
		return &LocalConfig{}
	}

	var cfg LocalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return &LocalConfig{}
	}

	return &cfg
}

// LoadLocalConfigWithEnv reads config.yaml and applies environment
// overrides, which take precedence over file values.
func LoadLocalConfigWithEnv(windroseDir string) *LocalConfig {
	cfg := LoadLocalConfig(windroseDir)

	if u := os.Getenv("WR_BASE_URL"); u != "" {
		cfg.BaseURL = u
	}
	if k := os.Getenv("WR_API_KEY"); k != "" {
		cfg.APIKey = k
	}
	if w := os.Getenv("WR_WORKSPACE"); w != "" {
		cfg.Workspace = w
	}
	if p := os.Getenv("WR_PROJECT"); p != "" {
		cfg.Project = p
	}

	return cfg
}

// HasCredentials reports whether an API key is configured in the given
// directory, from file or environment.
func HasCredentials(windroseDir string) bool {
	return LoadLocalConfigWithEnv(windroseDir).APIKey != ""
}
