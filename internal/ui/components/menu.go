package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/jammy0903/C-ode-to-you-sub001/internal/ui/theme"
)

// MenuItem is one entry in a vertical menu. Disabled items render dimmed
// and the cursor skips over them.
type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu tracks the cursor over a fixed list of items. It does not wrap:
// moving past either end leaves the cursor where it is.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu returns a menu with the cursor on the first enabled item.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	if m.current().Disabled {
		m.move(+1)
	}
	return m
}

func (m Menu) Init() tea.Cmd {
	return nil
}

// Update moves the cursor on up/down (or k/j) and fires the selected
// item's action on enter.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(+1)
	case "enter":
		return m, m.activate()
	}
	return m, nil
}

// move steps the cursor by dir until it lands on an enabled item. If
// only disabled items lie in that direction the cursor stays put.
func (m *Menu) move(dir int) {
	for i := m.Selected + dir; i >= 0 && i < len(m.Items); i += dir {
		if !m.Items[i].Disabled {
			m.Selected = i
			return
		}
	}
}

func (m Menu) activate() tea.Cmd {
	item := m.current()
	if item.Disabled || item.Action == nil {
		return nil
	}
	return item.Action()
}

func (m Menu) current() MenuItem {
	if m.Selected < 0 || m.Selected >= len(m.Items) {
		return MenuItem{Disabled: true}
	}
	return m.Items[m.Selected]
}

// View renders one line per item with a cursor marker on the selection.
func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		style := lipgloss.NewStyle().Foreground(theme.Text)
		prefix := "    "
		switch {
		case item.Disabled:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Selected:
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
			prefix = "  ▸ "
		}
		b.WriteString(style.Render(prefix + item.Label))
		b.WriteByte('\n')
	}
	return b.String()
}
