package home

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/jammy0903/C-ode-to-you-sub001/internal/ui/theme"
)

// MascotVariant picks the mood of the dashboard mascot.
type MascotVariant int

const (
	MascotIdle     MascotVariant = iota // default sky blue
	MascotCoding                        // amber, typing cursor (drafts in progress)
	MascotSleeping                      // dim, dozing (signed out)
)

const mascotIdle = `┌─────┐
│ ◉ ◉ │
│  ▽  │
│ </> │
└─────┘`

const mascotCoding = `┌─────┐
│ ◉ ◉ │
│  ▽  │
│ </>▌│
└─────┘`

const mascotSleeping = `┌─────┐
│ ─ ─ │ z
│  ▽  │
│ </> │
└─────┘`

// look returns the art and the tint for the variant.
func (v MascotVariant) look() (string, color.Color) {
	switch v {
	case MascotCoding:
		return mascotCoding, theme.Accent
	case MascotSleeping:
		return mascotSleeping, theme.TextDim
	default:
		return mascotIdle, theme.Primary
	}
}

// RenderMascot draws the mascot tinted for its mood.
func RenderMascot(v MascotVariant) string {
	art, tint := v.look()
	return lipgloss.NewStyle().
		Foreground(tint).
		Render(art)
}
