package ui

import (
	"strings"
	"testing"
)

func TestHTMLToMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "paragraphs become blank-line separated text",
			input:    "<p>First paragraph.</p><p>Second paragraph.</p>",
			expected: "First paragraph.\n\nSecond paragraph.",
		},
		{
			name:     "headings keep their level",
			input:    "<h2>Background</h2><p>Context here.</p>",
			expected: "## Background\n\nContext here.",
		},
		{
			name:     "emphasis maps to markdown markers",
			input:    "<p>This is <strong>bold</strong> and <em>italic</em>.</p>",
			expected: "This is **bold** and *italic*.",
		},
		{
			name:     "list items get dashes",
			input:    "<ul><li>one</li><li>two</li></ul>",
			expected: "- one\n- two",
		},
		{
			name:     "links keep href",
			input:    `<p>See <a href="https://example.com">the docs</a>.</p>`,
			expected: "See [the docs](https://example.com).",
		},
		{
			name:     "inline code is preserved",
			input:    "<p>Run <code>wr status</code> first.</p>",
			expected: "Run `wr status` first.",
		},
		{
			name:     "entities are decoded",
			input:    "<p>a &amp; b &lt; c</p>",
			expected: "a & b < c",
		},
		{
			name:     "unknown tags are stripped but text survives",
			input:    `<div class="mention">@alice</div> said hi`,
			expected: "@alice said hi",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := htmlToMarkdown(tt.input)
			if got != tt.expected {
				t.Errorf("htmlToMarkdown(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRenderHTMLEmpty(t *testing.T) {
	if got := RenderHTML("   "); got != "" {
		t.Errorf("RenderHTML(whitespace) = %q, want empty", got)
	}
}

func TestRenderHTMLPlainFallback(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	t.Setenv("CLICOLOR_FORCE", "")

	got := RenderHTML("<p>Hello <strong>world</strong></p>")
	if !strings.Contains(got, "Hello") {
		t.Errorf("RenderHTML output lost text content: %q", got)
	}
}
