// Package screen declares the contract between the app shell and the
// screens it hosts.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/jammy0903/C-ode-to-you-sub001/internal/ui/layout"
)

// Screen is one full-window view. The shell renders the header and
// footer around it; View gets the space that remains.
type Screen interface {
	Init() tea.Cmd

	// Update returns the screen to keep on the stack, which may be a
	// different one than the receiver.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider lets a screen put its own key hints in the footer.
// Screens without it get the default hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}
