// Package theme holds the palette and the handful of styles that are
// shared across screens. Screens compose their own one-off styles from
// the colors; only styles reused in more than one place live here.
package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette: dark editor tones with a cool accent, readable on the
// terminal themes people actually use
var (
	Primary   = lipgloss.Color("#38BDF8") // Sky Blue
	Secondary = lipgloss.Color("#A78BFA") // Violet
	Accent    = lipgloss.Color("#FBBF24") // Amber
	Success   = lipgloss.Color("#34D399") // Emerald
	Error     = lipgloss.Color("#FB7185") // Rose
	Text      = lipgloss.Color("#E2E8F0") // Light Slate
	TextDim   = lipgloss.Color("#64748B") // Slate
	BgDark    = lipgloss.Color("#0B1120") // Near Black
	BgCard    = lipgloss.Color("#111827") // Charcoal
	Border    = lipgloss.Color("#1F2937") // Gray Border
)

// Hint renders secondary guidance like "press any key".
var Hint = lipgloss.NewStyle().
	Foreground(TextDim).
	Italic(true)

// Verdicts, for submission results and anything else that passes or
// fails.
var (
	Pass = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Fail = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)

// LineNumber styles the gutter of the code editor.
var LineNumber = lipgloss.NewStyle().
	Foreground(TextDim)

// Progress bar cells.
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)
)
