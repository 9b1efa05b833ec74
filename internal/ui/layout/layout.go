// Package layout renders the chrome around the active screen: the
// header bar, the footer with key hints, and the size guards.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/jammy0903/C-ode-to-you-sub001/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	compactWidth  = 100
	compactHeight = 30

	// chromeHeight is what RenderFrame spends on the bordered header,
	// the bordered footer, and the blank line joining each to the
	// content.
	chromeHeight = 3 + 3 + 2
)

// KeyHint is one key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall reports whether the terminal is below the minimum size the
// screens are designed for.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// Compact reports whether a screen should drop its decorative sections.
// Width and height are the content area handed to the screen, so the
// chrome is added back before comparing against the terminal thresholds.
func Compact(width, height int) bool {
	return width < compactWidth || height+chromeHeight < compactHeight
}

// RenderMinSizeMessage fills the terminal with a resize prompt.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Terminal too small!\n\nPlease resize to at\nleast %d x %d\n\nCurrent: %d x %d",
			MinWidth, MinHeight, width, height,
		))
}

// bar wraps one line of content in the bordered card style shared by the
// header and the footer.
func bar(content string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// spread lays three cells on one line: left flush, center centered,
// right flush. Cells get at least one space between them even when the
// line overflows.
func spread(left, center, right string, width int) string {
	leftLen := lipgloss.Width(left)
	centerLen := lipgloss.Width(center)

	leftGap := (width-centerLen)/2 - leftLen
	if leftGap < 1 {
		leftGap = 1
	}

	rightGap := width - leftLen - leftGap - centerLen - lipgloss.Width(right)
	if rightGap < 1 {
		rightGap = 1
	}

	return left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right
}

// RenderHeader renders the top bar: product name, screen title, and the
// session cell. Who is the signed-in nickname, or empty when signed out.
func RenderHeader(title, who string, streak int, width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render("  Code to You")

	center := lipgloss.NewStyle().
		Foreground(theme.Text).
		Render(title)

	right := sessionCell(who, streak)

	// The border eats two columns and each side pads one more.
	inner := width - 4
	if inner < 0 {
		inner = 0
	}
	return bar(spread(left, center, right, inner), width)
}

func sessionCell(who string, streak int) string {
	if who == "" {
		return lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render("not signed in")
	}
	accent := lipgloss.NewStyle().Foreground(theme.Accent)
	return accent.Render("@"+who) + "   " + accent.Render(fmt.Sprintf("★ %d day", streak))
}

// RenderFooter renders the bottom bar listing the active key hints.
func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts,
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key)+
				" "+
				lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description))
	}
	return bar("  "+strings.Join(parts, "   "), width)
}

// RenderFrame stacks header, content, and footer into the full terminal
// area, stretching the content block to fill whatever the bars leave.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	body := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		Render(content)

	return header + "\n" + body + "\n" + footer
}
