package debug

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestEnabled(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		want     bool
	}{
		{"enabled with value", "1", true},
		{"enabled with any value", "true", true},
		{"disabled when empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldEnabled := enabled
			defer func() { enabled = oldEnabled }()

			if tt.envValue != "" {
				enabled = true
			} else {
				enabled = false
			}

			if got := Enabled(); got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogf(t *testing.T) {
	tests := []struct {
		name       string
		enabled    bool
		format     string
		args       []interface{}
		wantOutput string
	}{
		{
			name:       "outputs when enabled",
			enabled:    true,
			format:     "test message: %s\n",
			args:       []interface{}{"hello"},
			wantOutput: "test message: hello\n",
		},
		{
			name:       "no output when disabled",
			enabled:    false,
			format:     "test message: %s\n",
			args:       []interface{}{"hello"},
			wantOutput: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldEnabled := enabled
			oldStderr := os.Stderr
			defer func() {
				enabled = oldEnabled
				os.Stderr = oldStderr
			}()

			enabled = tt.enabled

			r, w, _ := os.Pipe()
			os.Stderr = w

			Logf(tt.format, tt.args...)

			w.Close()
			var buf bytes.Buffer
			io.Copy(&buf, r)

			if got := buf.String(); got != tt.wantOutput {
				t.Errorf("Logf() output = %q, want %q", got, tt.wantOutput)
			}
		})
	}
}

func TestPrintf(t *testing.T) {
	tests := []struct {
		name       string
		enabled    bool
		format     string
		args       []interface{}
		wantOutput string
	}{
		{
			name:       "outputs when enabled",
			enabled:    true,
			format:     "debug: %d\n",
			args:       []interface{}{42},
			wantOutput: "debug: 42\n",
		},
		{
			name:       "no output when disabled",
			enabled:    false,
			format:     "debug: %d\n",
			args:       []interface{}{42},
			wantOutput: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldEnabled := enabled
			oldStdout := os.Stdout
			defer func() {
				enabled = oldEnabled
				os.Stdout = oldStdout
			}()

			enabled = tt.enabled

			r, w, _ := os.Pipe()
			os.Stdout = w

			Printf(tt.format, tt.args...)

			w.Close()
			var buf bytes.Buffer
			io.Copy(&buf, r)

			if got := buf.String(); got != tt.wantOutput {
				t.Errorf("Printf() output = %q, want %q", got, tt.wantOutput)
			}
		})
	}
}

func TestSetVerbose(t *testing.T) {
	oldVerbose := verboseMode
	oldEnabled := enabled
	defer func() {
		verboseMode = oldVerbose
		enabled = oldEnabled
	}()

	enabled = false
	verboseMode = false

	if Enabled() {
		t.Error("Enabled() should be false initially")
	}

	SetVerbose(true)
	if !Enabled() {
		t.Error("Enabled() should be true after SetVerbose(true)")
	}

	SetVerbose(false)
	if Enabled() {
		t.Error("Enabled() should be false after SetVerbose(false)")
	}
}

func TestSetQuietAndIsQuiet(t *testing.T) {
	oldQuiet := quietMode
	defer func() { quietMode = oldQuiet }()

	quietMode = false

	if IsQuiet() {
		t.Error("IsQuiet() should be false initially")
	}

	SetQuiet(true)
	if !IsQuiet() {
		t.Error("IsQuiet() should be true after SetQuiet(true)")
	}

	SetQuiet(false)
	if IsQuiet() {
		t.Error("IsQuiet() should be false after SetQuiet(false)")
	}
}

func TestPrintNormal(t *testing.T) {
	tests := []struct {
		name       string
		quiet      bool
		format     string
		args       []interface{}
		wantOutput string
	}{
		{
			name:       "outputs when not quiet",
			quiet:      false,
			format:     "info: %s\n",
			args:       []interface{}{"message"},
			wantOutput: "info: message\n",
		},
		{
			name:       "no output when quiet",
			quiet:      true,
			format:     "info: %s\n",
			args:       []interface{}{"message"},
			wantOutput: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldQuiet := quietMode
			oldStdout := os.Stdout
			defer func() {
				quietMode = oldQuiet
				os.Stdout = oldStdout
			}()

			quietMode = tt.quiet

			r, w, _ := os.Pipe()
			os.Stdout = w

			PrintNormal(tt.format, tt.args...)

			w.Close()
			var buf bytes.Buffer
			io.Copy(&buf, r)

			if got := buf.String(); got != tt.wantOutput {
				t.Errorf("PrintNormal() output = %q, want %q", got, tt.wantOutput)
			}
		})
	}
}

func TestLogEventWritesEventsLog(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, ".windrose"), 0750); err != nil {
		t.Fatal(err)
	}
	t.Chdir(tmpDir)
	t.Setenv("WR_ACTOR", "tester")
	t.Setenv("WR_SESSION_ID", "sess-1")

	LogEvent("issue.create", "i-42", "Fix pagination")

	data, err := os.ReadFile(filepath.Join(tmpDir, ".windrose", "events.log"))
	if err != nil {
		t.Fatalf("events.log not written: %v", err)
	}
	line := strings.TrimSpace(string(data))
	parts := strings.Split(line, "|")
	if len(parts) != 6 {
		t.Fatalf("event line has %d fields, want 6: %q", len(parts), line)
	}
	if _, err := time.Parse(time.RFC3339, parts[0]); err != nil {
		t.Errorf("timestamp %q is not RFC 3339: %v", parts[0], err)
	}
	if parts[1] != "issue.create" || parts[2] != "i-42" {
		t.Errorf("event = %s|%s, want issue.create|i-42", parts[1], parts[2])
	}
	if parts[3] != "tester" || parts[4] != "sess-1" {
		t.Errorf("actor/session = %s|%s, want tester|sess-1", parts[3], parts[4])
	}
	if parts[5] != "Fix pagination" {
		t.Errorf("details = %q, want Fix pagination", parts[5])
	}
}

func TestLogEventAppends(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, ".windrose"), 0750); err != nil {
		t.Fatal(err)
	}
	t.Chdir(tmpDir)

	LogEvent("issue.close", "i-1", "Done")
	LogEvent("issue.reopen", "i-1", "Todo")

	data, err := os.ReadFile(filepath.Join(tmpDir, ".windrose", "events.log"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("events.log has %d lines, want 2:\n%s", len(lines), data)
	}
	if !strings.Contains(lines[0], "|issue.close|") || !strings.Contains(lines[1], "|issue.reopen|") {
		t.Errorf("events out of order:\n%s", data)
	}
}

func TestLogEventEmptyEntityID(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, ".windrose"), 0750); err != nil {
		t.Fatal(err)
	}
	t.Chdir(tmpDir)

	LogEvent("cli.start", "", "")

	data, err := os.ReadFile(filepath.Join(tmpDir, ".windrose", "events.log"))
	if err != nil {
		t.Fatal(err)
	}
	parts := strings.Split(strings.TrimSpace(string(data)), "|")
	if len(parts) != 6 || parts[2] != "none" {
		t.Errorf("entity field = %q, want none: %q", parts[2], data)
	}
}

func TestLogEventOutsideWorkspace(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	// No .windrose anywhere up the tree: the event is dropped silently.
	LogEvent("issue.create", "i-1", "ignored")

	if _, err := os.Stat(filepath.Join(tmpDir, ".windrose")); !os.IsNotExist(err) {
		t.Error("LogEvent created a .windrose directory outside a workspace")
	}
}

func TestPrintlnNormal(t *testing.T) {
	tests := []struct {
		name       string
		quiet      bool
		args       []interface{}
		wantOutput string
	}{
		{
			name:       "outputs when not quiet",
			quiet:      false,
			args:       []interface{}{"hello", "world"},
			wantOutput: "hello world\n",
		},
		{
			name:       "no output when quiet",
			quiet:      true,
			args:       []interface{}{"hello", "world"},
			wantOutput: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldQuiet := quietMode
			oldStdout := os.Stdout
			defer func() {
				quietMode = oldQuiet
				os.Stdout = oldStdout
			}()

			quietMode = tt.quiet

			r, w, _ := os.Pipe()
			os.Stdout = w

			PrintlnNormal(tt.args...)

			w.Close()
			var buf bytes.Buffer
			io.Copy(&buf, r)

			if got := buf.String(); got != tt.wantOutput {
				t.Errorf("PrintlnNormal() output = %q, want %q", got, tt.wantOutput)
			}
		})
	}
}
