package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/jammy0903/C-ode-to-you-sub001/internal/ui/theme"
)

// Block-letter title (same art as welcome/banner.go).
const homeTitleFull = `
  ██████╗ ██████╗ ██████╗ ███████╗    ██████╗     ██╗   ██╗
 ██╔════╝██╔═══██╗██╔══██╗██╔════╝    ╚════██╗    ╚██╗ ██╔╝
 ██║     ██║   ██║██║  ██║█████╗       █████╔╝     ╚████╔╝
 ██║     ██║   ██║██║  ██║██╔══╝      ██╔═══╝       ╚██╔╝
 ╚██████╗╚██████╔╝██████╔╝███████╗    ███████╗       ██║
  ╚═════╝ ╚═════╝ ╚═════╝ ╚══════╝    ╚══════╝       ╚═╝`

const homeTitleCompact = "C · O · D · E · 2 · Y · O · U"

// contentWidth returns the uniform inner width used for all sections.
// All boxes are rendered at this width so they visually align.
func contentWidth(frameWidth int) int {
	// Leave room for the frame border (2) + inner padding (4)
	w := frameWidth - 6
	// Cap so it doesn't stretch absurdly wide
	if w > 64 {
		w = 64
	}
	if w < 20 {
		w = 20
	}
	return w
}

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if compact {
		return lipgloss.NewStyle().
			Width(cw).
			Align(lipgloss.Center).
			Render(style.Render(homeTitleCompact))
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(strings.TrimPrefix(homeTitleFull, "\n")))
}

// renderStatsBar renders the local stats in a bordered box matching content width.
func renderStatsBar(drafts int, nick string, cw int, compact bool) string {
	draftStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	userStyle := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s",
			draftStyle.Render(fmt.Sprintf("⚒%d", drafts)),
			identityText(nick, true, userStyle, dimStyle),
		)
	} else {
		stats = fmt.Sprintf("%s  %s",
			draftStyle.Render(fmt.Sprintf("⚒ %d DRAFTS", drafts)),
			identityText(nick, false, userStyle, dimStyle),
		)
	}

	// Wrap in a double-border box at the same content width
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2). // account for border chars
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

func identityText(nick string, compact bool, active, dim lipgloss.Style) string {
	if nick == "" {
		if compact {
			return dim.Render("○ OFFLINE")
		}
		return dim.Render("○ SIGNED OUT")
	}
	if compact {
		return active.Render("@" + nick)
	}
	return active.Render("● @" + nick)
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 22

// renderMenu renders each menu item as a fixed-width button.
func renderMenu(items []string, selected int, cw int, disabled map[int]bool) string {
	selectedBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Bold(true).
		Foreground(theme.BgDark).
		Background(theme.Primary).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Padding(0, 1)

	normalBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	disabledBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	var buttons []string
	for i, label := range items {
		if disabled[i] {
			buttons = append(buttons, disabledBtn.Render(label))
		} else if i == selected {
			buttons = append(buttons, selectedBtn.Render("▸ "+label))
		} else {
			buttons = append(buttons, normalBtn.Render(label))
		}
	}
	block := strings.Join(buttons, "\n")

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(block)
}

// renderMenuCompact renders menu items as simple text lines (no borders)
// for very small terminals where bordered buttons would overflow.
func renderMenuCompact(items []string, selected int, cw int, disabled map[int]bool) string {
	var lines []string
	for i, label := range items {
		var line string
		if disabled[i] {
			line = lipgloss.NewStyle().
				Foreground(theme.TextDim).
				Render("   " + label)
		} else if i == selected {
			line = lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.Primary).
				Bold(true).
				Render(" ▸ " + label + " ")
		} else {
			line = lipgloss.NewStyle().
				Foreground(theme.Text).
				Render("   " + label)
		}
		lines = append(lines, line)
	}
	block := strings.Join(lines, "\n")

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(block)
}

// renderUpdateNote renders a dim one-line update notification.
func renderUpdateNote(latestVersion string, cw int) string {
	text := fmt.Sprintf("New version %s available (codetoyou update)", latestVersion)
	return lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Width(cw).
		Align(lipgloss.Center).
		Render(text)
}

// renderMascotBox renders the mascot centered in a box matching content width.
func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}

// renderHomeFrame wraps content in a double-border frame, centering it
// vertically and horizontally within the given dimensions.
func renderHomeFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).   // account for border chars
		Height(height - 2). // account for border chars
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
