package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	enabled     = os.Getenv("WR_DEBUG") != ""
	verboseMode = false
	quietMode   = false
	logMutex    sync.Mutex
)

func Enabled() bool {
	return enabled || verboseMode
}

// SetVerbose enables verbose/debug output
func SetVerbose(verbose bool) {
	verboseMode = verbose
}

// SetQuiet enables quiet mode (suppress non-essential output)
func SetQuiet(quiet bool) {
	quietMode = quiet
}

// IsQuiet returns true if quiet mode is enabled
func IsQuiet() bool {
	return quietMode
}

func Logf(format string, args ...interface{}) {
	if enabled || verboseMode {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

func Printf(format string, args ...interface{}) {
	if enabled || verboseMode {
		fmt.Printf(format, args...)
	}
}

// PrintNormal prints output unless quiet mode is enabled
// Use this for normal informational output that should be suppressed in quiet mode
func PrintNormal(format string, args ...interface{}) {
	if !quietMode {
		fmt.Printf(format, args...)
	}
}

// PrintlnNormal prints a line unless quiet mode is enabled
func PrintlnNormal(args ...interface{}) {
	if !quietMode {
		fmt.Println(args...)
	}
}

// LogEvent writes an event to .windrose/events.log
// Format: TIMESTAMP|EVENT_CODE|ENTITY_ID|ACTOR|SESSION_ID|DETAILS
func LogEvent(eventCode, entityID, details string) {
	LogEventWithContext(eventCode, entityID, "", "", details)
}

// LogEventWithContext writes an event with full context
func LogEventWithContext(eventCode, entityID, actor, sessionID, details string) {
	root, err := findWorkspaceRoot()
	if err != nil {
		// Silent fail if not inside a workspace checkout
		return
	}

	logPath := filepath.Join(root, ".windrose", "events.log")

	if entityID == "" {
		entityID = "none"
	}
	if actor == "" {
		actor = os.Getenv("WR_ACTOR")
		if actor == "" {
			actor = os.Getenv("USER")
			if actor == "" {
				actor = "unknown"
			}
		}
	}
	if sessionID == "" {
		sessionID = os.Getenv("WR_SESSION_ID")
		if sessionID == "" {
			sessionID = fmt.Sprintf("%d", time.Now().Unix())
		}
	}

	timestamp := time.Now().UTC().Format(time.RFC3339)
	entry := fmt.Sprintf("%s|%s|%s|%s|%s|%s\n",
		timestamp, eventCode, entityID, actor, sessionID, details)

	// Thread-safe write
	logMutex.Lock()
	defer logMutex.Unlock()

	os.MkdirAll(filepath.Dir(logPath), 0755)

	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		// Silent fail - don't interrupt operations if logging fails
		return
	}
	defer file.Close()

	file.WriteString(entry)
}

func findWorkspaceRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		wrDir := filepath.Join(dir, ".windrose")
		if info, err := os.Stat(wrDir); err == nil && info.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a windrose workspace")
		}
		dir = parent
	}
}
