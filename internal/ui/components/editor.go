package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/jammy0903/C-ode-to-you-sub001/internal/ui/theme"
)

const tabWidth = 4

// CodeEditor is a multi-line code buffer with line numbers. It implements
// just the editing primitives the app needs; it is not a general text
// widget.
type CodeEditor struct {
	lines  []string
	row    int // cursor line
	col    int // cursor column, in runes
	scroll int // first visible line

	width   int
	height  int
	focused bool

	// revision increments on every buffer mutation, so callers can tell
	// "key pressed" apart from "buffer changed".
	revision uint64
}

// NewCodeEditor creates an empty editor.
func NewCodeEditor() CodeEditor {
	return CodeEditor{lines: []string{""}}
}

// SetSize sets the visible area in cells.
func (e *CodeEditor) SetSize(width, height int) {
	e.width = width
	e.height = height
	e.ensureCursorVisible()
}

// SetValue replaces the buffer and moves the cursor to the start.
func (e *CodeEditor) SetValue(s string) {
	e.lines = strings.Split(strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth)), "\n")
	if len(e.lines) == 0 {
		e.lines = []string{""}
	}
	e.row, e.col, e.scroll = 0, 0, 0
	e.revision++
}

// Value returns the buffer contents.
func (e CodeEditor) Value() string {
	return strings.Join(e.lines, "\n")
}

// Revision returns a counter that increments on every buffer change.
func (e CodeEditor) Revision() uint64 {
	return e.revision
}

// Focus gives the editor keyboard input.
func (e *CodeEditor) Focus() {
	e.focused = true
}

// Blur stops the editor from consuming keys.
func (e *CodeEditor) Blur() {
	e.focused = false
}

// Focused reports whether the editor consumes keys.
func (e CodeEditor) Focused() bool {
	return e.focused
}

// Cursor returns the 1-based cursor position for the status line.
func (e CodeEditor) Cursor() (line, col int) {
	return e.row + 1, e.col + 1
}

// LineCount returns the number of lines in the buffer.
func (e CodeEditor) LineCount() int {
	return len(e.lines)
}

// Update handles key input while focused.
func (e CodeEditor) Update(msg tea.Msg) (CodeEditor, tea.Cmd) {
	if !e.focused {
		return e, nil
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return e, nil
	}

	line := []rune(e.lines[e.row])

	switch kmsg.String() {
	case "enter":
		e.splitLine()
	case "backspace":
		e.backspace()
	case "delete":
		e.deleteForward()
	case "tab":
		e.insert(strings.Repeat(" ", tabWidth))
	case "up":
		if e.row > 0 {
			e.row--
			e.clampCol()
		}
	case "down":
		if e.row < len(e.lines)-1 {
			e.row++
			e.clampCol()
		}
	case "left":
		if e.col > 0 {
			e.col--
		} else if e.row > 0 {
			e.row--
			e.col = len([]rune(e.lines[e.row]))
		}
	case "right":
		if e.col < len(line) {
			e.col++
		} else if e.row < len(e.lines)-1 {
			e.row++
			e.col = 0
		}
	case "home":
		e.col = 0
	case "end":
		e.col = len(line)
	case "pgup", "ctrl+u":
		e.row -= e.pageSize()
		if e.row < 0 {
			e.row = 0
		}
		e.clampCol()
	case "pgdown", "ctrl+d":
		e.row += e.pageSize()
		if e.row > len(e.lines)-1 {
			e.row = len(e.lines) - 1
		}
		e.clampCol()
	default:
		if kmsg.Text != "" {
			e.insert(kmsg.Text)
		}
	}

	e.ensureCursorVisible()
	return e, nil
}

func (e *CodeEditor) insert(s string) {
	line := []rune(e.lines[e.row])
	out := make([]rune, 0, len(line)+len(s))
	out = append(out, line[:e.col]...)
	out = append(out, []rune(s)...)
	out = append(out, line[e.col:]...)
	e.lines[e.row] = string(out)
	e.col += len([]rune(s))
	e.revision++
}

// splitLine breaks the current line at the cursor, carrying the current
// line's indentation onto the new one.
func (e *CodeEditor) splitLine() {
	line := []rune(e.lines[e.row])
	head, tail := string(line[:e.col]), string(line[e.col:])

	indent := ""
	for _, r := range head {
		if r != ' ' {
			break
		}
		indent += " "
	}

	e.lines[e.row] = head
	rest := append([]string{indent + tail}, e.lines[e.row+1:]...)
	e.lines = append(e.lines[:e.row+1], rest...)
	e.row++
	e.col = len(indent)
	e.revision++
}

func (e *CodeEditor) backspace() {
	if e.col > 0 {
		line := []rune(e.lines[e.row])
		e.lines[e.row] = string(append(line[:e.col-1], line[e.col:]...))
		e.col--
		e.revision++
		return
	}
	if e.row == 0 {
		return
	}
	prev := []rune(e.lines[e.row-1])
	e.col = len(prev)
	e.lines[e.row-1] = string(prev) + e.lines[e.row]
	e.lines = append(e.lines[:e.row], e.lines[e.row+1:]...)
	e.row--
	e.revision++
}

func (e *CodeEditor) deleteForward() {
	line := []rune(e.lines[e.row])
	if e.col < len(line) {
		e.lines[e.row] = string(append(line[:e.col], line[e.col+1:]...))
		e.revision++
		return
	}
	if e.row == len(e.lines)-1 {
		return
	}
	e.lines[e.row] = string(line) + e.lines[e.row+1]
	e.lines = append(e.lines[:e.row+1], e.lines[e.row+2:]...)
	e.revision++
}

func (e *CodeEditor) clampCol() {
	if n := len([]rune(e.lines[e.row])); e.col > n {
		e.col = n
	}
}

func (e *CodeEditor) pageSize() int {
	if e.height > 1 {
		return e.height - 1
	}
	return 1
}

func (e *CodeEditor) ensureCursorVisible() {
	if e.height <= 0 {
		return
	}
	if e.row < e.scroll {
		e.scroll = e.row
	}
	if e.row >= e.scroll+e.height {
		e.scroll = e.row - e.height + 1
	}
}

// View renders the visible window with a line number gutter.
func (e CodeEditor) View() string {
	if e.height <= 0 || e.width <= 0 {
		return ""
	}

	gutter := len(fmt.Sprintf("%d", len(e.lines)))
	if gutter < 2 {
		gutter = 2
	}
	textWidth := e.width - gutter - 2
	if textWidth < 1 {
		textWidth = 1
	}

	var b strings.Builder
	for i := e.scroll; i < e.scroll+e.height; i++ {
		if i > e.scroll {
			b.WriteString("\n")
		}
		if i >= len(e.lines) {
			b.WriteString(theme.LineNumber.Render(strings.Repeat(" ", gutter) + " ~"))
			continue
		}

		b.WriteString(theme.LineNumber.Render(fmt.Sprintf("%*d ", gutter, i+1)))
		if i == e.row && e.focused {
			b.WriteString(" " + e.renderCursorLine(textWidth))
		} else {
			b.WriteString(" " + truncate(e.lines[i], textWidth))
		}
	}
	return b.String()
}

// renderCursorLine draws the cursor cell inverted, shifting the window
// right when the cursor runs past the visible width.
func (e CodeEditor) renderCursorLine(textWidth int) string {
	line := []rune(e.lines[e.row])

	start := 0
	if e.col >= textWidth {
		start = e.col - textWidth + 1
	}
	end := start + textWidth
	if end > len(line) {
		end = len(line)
	}
	visible := line[start:end]
	cur := e.col - start

	cursor := lipgloss.NewStyle().Reverse(true)
	if cur >= len(visible) {
		return string(visible) + cursor.Render(" ")
	}
	return string(visible[:cur]) + cursor.Render(string(visible[cur])) + string(visible[cur+1:])
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
