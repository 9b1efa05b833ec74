package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/jammy0903/C-ode-to-you-sub001/internal/ui/theme"
)

// SaveState is the editor's persistence state shown in the status bar.
type SaveState int

const (
	SaveIdle SaveState = iota
	SaveDirty
	SaveSaving
	SaveSaved
	SaveFailed
)

// StatusBar is the editor's bottom line: position and language on the
// left, transient notes and the save state on the right.
type StatusBar struct {
	Left  string
	Note  string
	State SaveState
	Width int
}

func saveStateLabel(s SaveState) (string, lipgloss.Style) {
	switch s {
	case SaveDirty:
		return "● unsaved", lipgloss.NewStyle().Foreground(theme.Accent)
	case SaveSaving:
		return "⟳ saving...", lipgloss.NewStyle().Foreground(theme.TextDim)
	case SaveSaved:
		return "✓ saved", lipgloss.NewStyle().Foreground(theme.Success)
	case SaveFailed:
		return "✗ save failed", theme.Fail
	default:
		return "", lipgloss.NewStyle()
	}
}

// View renders the status bar at the configured width.
func (s StatusBar) View() string {
	left := lipgloss.NewStyle().Foreground(theme.TextDim).Render(s.Left)

	var rightParts []string
	if s.Note != "" {
		rightParts = append(rightParts, lipgloss.NewStyle().Foreground(theme.Text).Render(s.Note))
	}
	if label, style := saveStateLabel(s.State); label != "" {
		rightParts = append(rightParts, style.Render(label))
	}
	right := strings.Join(rightParts, "   ")

	gap := s.Width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Width(s.Width).
		Background(theme.BgCard).
		Render(" " + left + strings.Repeat(" ", gap) + right)
}
