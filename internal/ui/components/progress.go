package components

import (
	"fmt"
	"math"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/jammy0903/C-ode-to-you-sub001/internal/ui/theme"
)

// minTrackWidth keeps the bar visible even when the label eats most of
// the row.
const minTrackWidth = 4

// ProgressBar is a single-line horizontal bar, used for solve counts and
// submission pass ratios.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

// NewProgressBar builds a bar. Percent is a ratio and is clamped to [0, 1].
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     math.Min(1, math.Max(0, percent)),
		ShowPercent: showPercent,
		Width:       width,
	}
}

// View renders the label, the track, and optionally the percentage,
// fitted to p.Width.
func (p ProgressBar) View() string {
	var b strings.Builder

	if p.Label != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label))
		b.WriteString("  ")
	}

	suffix := ""
	if p.ShowPercent {
		suffix = lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %d%%", int(math.Round(p.Percent*100))))
	}

	b.WriteString(p.track(p.Width - lipgloss.Width(b.String()) - lipgloss.Width(suffix)))
	b.WriteString(suffix)
	return b.String()
}

// track renders the filled and empty cells of the bar itself.
func (p ProgressBar) track(width int) string {
	if width < minTrackWidth {
		width = minTrackWidth
	}
	filled := int(math.Round(float64(width) * p.Percent))
	if filled > width {
		filled = width
	}
	return theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", width-filled))
}
