package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/jammy0903/C-ode-to-you-sub001/internal/ui/theme"
)

// Picker is a single-select option list, shown as an overlay. Enter picks
// the highlighted option, esc cancels.
type Picker struct {
	Title    string
	Options  []string
	Selected int
	Done     bool
	Chosen   int
}

// NewPicker creates a picker with the given options. initial highlights a
// starting option.
func NewPicker(title string, options []string, initial int) Picker {
	if initial < 0 || initial >= len(options) {
		initial = 0
	}
	return Picker{
		Title:    title,
		Options:  options,
		Selected: initial,
		Chosen:   -1,
	}
}

// Init returns nil.
func (p Picker) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation and selection.
func (p Picker) Update(msg tea.Msg) (Picker, tea.Cmd) {
	if p.Done {
		return p, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if p.Selected > 0 {
			p.Selected--
		}
	case "down", "j":
		if p.Selected < len(p.Options)-1 {
			p.Selected++
		}
	case "enter":
		p.Done = true
		p.Chosen = p.Selected
	case "esc":
		p.Done = true
		p.Chosen = -1
	}

	return p, nil
}

// Cancelled reports whether the picker was dismissed without a choice.
func (p Picker) Cancelled() bool {
	return p.Done && p.Chosen < 0
}

// View renders the picker as a bordered card.
func (p Picker) View() string {
	s := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(p.Title) + "\n\n"

	for i, opt := range p.Options {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == p.Selected {
			prefix = "▸ "
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		}
		s += style.Render(fmt.Sprintf("%s%s", prefix, opt)) + "\n"
	}

	s += "\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Render("enter select   esc cancel")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(1, 2).
		Render(s)
}
