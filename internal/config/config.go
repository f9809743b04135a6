// Package config layers the SDK's configuration: built-in defaults,
// then .windrose/config.yaml discovered by walking up from the working
// directory, then WR_* environment variables on top.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// DirName is the per-checkout state directory.
	DirName = ".windrose"
	// ConfigFileName lives inside DirName.
	ConfigFileName = "config.yaml"
	// EnvPrefix maps config keys to env vars: base-url -> WR_BASE_URL.
	EnvPrefix = "WR"
)

// DefaultBaseURL is the hosted API origin.
const DefaultBaseURL = "https://api.windrose.app"

// Config keys.
const (
	KeyBaseURL         = "base-url"
	KeyAPIKey          = "api-key"
	KeyWorkspace       = "workspace"
	KeyProject         = "project"
	KeyJSON            = "json"
	KeyVerbose         = "verbose"
	KeyQuiet           = "quiet"
	KeyTelemetry       = "telemetry"
	KeyStaleTime       = "stale-time"
	KeyGCTime          = "gc-time"
	KeyRetryMaxElapsed = "retry-max-elapsed"
)

// v is the package-wide viper instance. Nil until Initialize runs;
// every getter tolerates that so early callers read zero values rather
// than crashing.
var v *viper.Viper

// Initialize builds the viper instance: defaults, the discovered
// config.yaml (when present), and WR_* env binding. Safe to call again
// to pick up environment changes.
func Initialize() error {
	nv := viper.New()
	nv.SetConfigType("yaml")

	nv.SetDefault(KeyBaseURL, DefaultBaseURL)
	nv.SetDefault(KeyJSON, false)
	nv.SetDefault(KeyVerbose, false)
	nv.SetDefault(KeyQuiet, false)
	nv.SetDefault(KeyTelemetry, false)
	nv.SetDefault(KeyStaleTime, 5*time.Minute)
	nv.SetDefault(KeyGCTime, 30*time.Minute)
	nv.SetDefault(KeyRetryMaxElapsed, 15*time.Second)

	nv.SetEnvPrefix(EnvPrefix)
	nv.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	nv.AutomaticEnv()

	if dir := FindDir(); dir != "" {
		path := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(path); err == nil {
			nv.SetConfigFile(path)
			if err := nv.ReadInConfig(); err != nil {
				return fmt.Errorf("config: reading %s: %w", path, err)
			}
		}
	}

	v = nv
	return nil
}

// ResetForTesting drops the singleton so tests can re-Initialize from a
// controlled directory.
func ResetForTesting() {
	v = nil
}

// FindDir walks up from the working directory looking for a .windrose
// directory. Returns "" when none is found.
func FindDir() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	for dir := cwd; ; dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, DirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
		if dir == filepath.Dir(dir) {
			return ""
		}
	}
}

// GetString returns the string value for key.
func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

// GetBool returns the bool value for key.
func GetBool(key string) bool {
	if v == nil {
		return false
	}
	return v.GetBool(key)
}

// GetInt returns the int value for key.
func GetInt(key string) int {
	if v == nil {
		return 0
	}
	return v.GetInt(key)
}

// GetDuration returns the duration value for key.
func GetDuration(key string) time.Duration {
	if v == nil {
		return 0
	}
	return v.GetDuration(key)
}

// Set writes an in-memory override. It does not persist; use
// SetYamlConfig for that.
func Set(key string, value any) {
	if v == nil {
		return
	}
	v.Set(key, value)
}

// AllSettings returns the merged view of every configured key.
func AllSettings() map[string]any {
	if v == nil {
		return map[string]any{}
	}
	return v.AllSettings()
}

// Settings is the typed snapshot handed to the client wiring.
type Settings struct {
	BaseURL         string
	APIKey          string
	Workspace       string
	Project         string
	JSON            bool
	Verbose         bool
	Quiet           bool
	Telemetry       bool
	StaleTime       time.Duration
	GCTime          time.Duration
	RetryMaxElapsed time.Duration
}

// Load snapshots the current configuration. Call after Initialize.
func Load() Settings {
	return Settings{
		BaseURL:         GetString(KeyBaseURL),
		APIKey:          GetString(KeyAPIKey),
		Workspace:       GetString(KeyWorkspace),
		Project:         GetString(KeyProject),
		JSON:            GetBool(KeyJSON),
		Verbose:         GetBool(KeyVerbose),
		Quiet:           GetBool(KeyQuiet),
		Telemetry:       GetBool(KeyTelemetry),
		StaleTime:       GetDuration(KeyStaleTime),
		GCTime:          GetDuration(KeyGCTime),
		RetryMaxElapsed: GetDuration(KeyRetryMaxElapsed),
	}
}
