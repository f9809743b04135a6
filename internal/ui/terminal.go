// Package ui provides terminal styling for wr CLI output.
package ui

import (
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTerminal reports whether stdout is attached to a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ShouldUseColor reports whether output should be colorized.
// Honors NO_COLOR (https://no-color.org/) and CLICOLOR/CLICOLOR_FORCE
// (https://bixense.com/clicolors/), then falls back to terminal detection.
// NO_COLOR wins over CLICOLOR_FORCE.
func ShouldUseColor() bool {
	return termenv.EnvColorProfile() != termenv.Ascii
}

// ShouldUseEmoji reports whether unicode icons are safe to print.
// WR_NO_EMOJI disables them regardless of terminal state.
func ShouldUseEmoji() bool {
	if os.Getenv("WR_NO_EMOJI") != "" {
		return false
	}
	return IsTerminal()
}
