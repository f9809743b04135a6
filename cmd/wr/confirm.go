package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"

	"github.com/windrosehq/windrose-go/internal/ui"
)

// confirmDeletion prompts before a destructive action and reports the
// user's choice. Non-interactive sessions decline, so scripts have to
// pass --force explicitly.
func confirmDeletion(title string) bool {
	if !ui.IsTerminal() {
		return false
	}
	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description("This cannot be undone.").
				Affirmative("Delete").
				Negative("Cancel").
				Value(&confirmed),
		),
	).WithTheme(huh.ThemeDracula())
	if err := form.Run(); err != nil {
		if err != huh.ErrUserAborted {
			fmt.Fprintf(os.Stderr, "Warning: prompt failed: %v\n", err)
		}
		return false
	}
	return confirmed
}
