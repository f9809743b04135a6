package ui

import (
	"strconv"
	"strings"
	"testing"
)

func TestTruncateSimple(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{
			name:   "short text unchanged",
			input:  "hello",
			maxLen: 10,
			want:   "hello",
		},
		{
			name:   "exact length unchanged",
			input:  "hello",
			maxLen: 5,
			want:   "hello",
		},
		{
			name:   "truncate with ellipsis",
			input:  "hello world",
			maxLen: 8,
			want:   "hello...",
		},
		{
			name:   "very short maxLen",
			input:  "hello world",
			maxLen: 3,
			want:   "...",
		},
		{
			name:   "empty string",
			input:  "",
			maxLen: 10,
			want:   "",
		},
		{
			name:   "unicode chars",
			input:  "héllo wörld",
			maxLen: 8,
			want:   "héllo...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateSimple(tt.input, tt.maxLen)
			if got != tt.want {
				t.Errorf("TruncateSimple(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestShouldTruncate(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxLines int
		maxChars int
		want     bool
	}{
		{
			name:     "short text no truncation",
			text:     "hello",
			maxLines: 10,
			maxChars: 100,
			want:     false,
		},
		{
			name:     "exceeds char limit",
			text:     strings.Repeat("a", 200),
			maxLines: 0,
			maxChars: 100,
			want:     true,
		},
		{
			name:     "exceeds line limit",
			text:     "a\nb\nc\nd\ne\nf",
			maxLines: 3,
			maxChars: 0,
			want:     true,
		},
		{
			name:     "zero thresholds disable checks",
			text:     strings.Repeat("a\n", 50),
			maxLines: 0,
			maxChars: 0,
			want:     false,
		},
		{
			name:     "empty text",
			text:     "",
			maxLines: 10,
			maxChars: 100,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShouldTruncate(tt.text, tt.maxLines, tt.maxChars)
			if got != tt.want {
				t.Errorf("ShouldTruncate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTruncateLines(t *testing.T) {
	lines := make([]string, 20)
	for i := range lines {
		lines[i] = "line " + strconv.Itoa(i+1)
	}
	longText := strings.Join(lines, "\n")

	tests := []struct {
		name         string
		text         string
		maxLines     int
		contextLines int
		wantPrefix   string
		wantSuffix   string
		wantContains string
	}{
		{
			name:         "short text unchanged",
			text:         "line 1\nline 2\nline 3",
			maxLines:     10,
			contextLines: 2,
			wantPrefix:   "line 1\nline 2\nline 3",
		},
		{
			name:         "truncate long text",
			text:         longText,
			maxLines:     15,
			contextLines: 5,
			wantPrefix:   "line 1",
			wantSuffix:   "line 20",
			wantContains: "10 lines hidden",
		},
		{
			name:         "tight budget falls back to head cut",
			text:         longText,
			maxLines:     4,
			contextLines: 5,
			wantPrefix:   "line 1",
			wantSuffix:   "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateLines(tt.text, tt.maxLines, tt.contextLines)
			if tt.wantPrefix != "" && !strings.HasPrefix(got, tt.wantPrefix) {
				t.Errorf("TruncateLines() should start with %q, got %q", tt.wantPrefix, got[:min(len(got), 50)])
			}
			if tt.wantSuffix != "" && !strings.HasSuffix(strings.TrimSpace(got), tt.wantSuffix) {
				t.Errorf("TruncateLines() should end with %q, got %q", tt.wantSuffix, got[max(0, len(got)-50):])
			}
			if tt.wantContains != "" && !strings.Contains(got, tt.wantContains) {
				t.Errorf("TruncateLines() should contain %q", tt.wantContains)
			}
		})
	}
}

func TestTruncateChars(t *testing.T) {
	long := strings.Repeat("word ", 200) // 1000 chars

	t.Run("short text unchanged", func(t *testing.T) {
		if got := TruncateChars("hello", 100, 50); got != "hello" {
			t.Errorf("TruncateChars() = %q, want unchanged", got)
		}
	})

	t.Run("keeps head and tail with marker", func(t *testing.T) {
		got := TruncateChars(long, 500, 200)
		if !strings.HasPrefix(got, "word word") {
			t.Errorf("should keep beginning, got %q", got[:min(len(got), 30)])
		}
		if !strings.Contains(got, "chars hidden") {
			t.Errorf("should contain hidden-chars marker, got %q", got)
		}
		if !strings.HasSuffix(strings.TrimSpace(got), "word") {
			t.Errorf("should keep end, got %q", got[max(0, len(got)-30):])
		}
	})

	t.Run("tight budget truncates from end", func(t *testing.T) {
		got := TruncateChars(long, 100, 200)
		if !strings.HasSuffix(got, "...") {
			t.Errorf("should end with ellipsis, got %q", got[max(0, len(got)-20):])
		}
	})
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxWidth int
		wantLine int
	}{
		{
			name:     "short line unchanged",
			text:     "hello world",
			maxWidth: 80,
			wantLine: 1,
		},
		{
			name:     "wrap long line",
			text:     "the quick brown fox jumps over the lazy dog",
			maxWidth: 20,
			wantLine: 3,
		},
		{
			name:     "preserve newlines",
			text:     "line 1\nline 2",
			maxWidth: 80,
			wantLine: 2,
		},
		{
			name:     "zero width uses default",
			text:     "hello",
			maxWidth: 0,
			wantLine: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapText(tt.text, tt.maxWidth)
			gotLines := strings.Count(got, "\n") + 1
			if gotLines != tt.wantLine {
				t.Errorf("WrapText() got %d lines, want %d lines\nOutput: %q", gotLines, tt.wantLine, got)
			}
		})
	}
}
