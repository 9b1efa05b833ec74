// Package chat is the tutor conversation screen for one problem.
package chat

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	chatsvc "github.com/jammy0903/C-ode-to-you-sub001/internal/chat"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/router"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/screen"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/store"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/ui/components"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/ui/layout"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/ui/markdown"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/ui/theme"
)

// Tutor is the slice of the chat service this screen needs.
type Tutor interface {
	Ask(ctx context.Context, pc chatsvc.ProblemContext, question string) (string, error)
	Hint(ctx context.Context, pc chatsvc.ProblemContext) (*chatsvc.Hint, error)
	Thread(ctx context.Context, problemID string) ([]store.ChatMessage, error)
	Clear(ctx context.Context, problemID string) error
}

var _ Tutor = (*chatsvc.Service)(nil)

type threadMsg struct {
	Messages []store.ChatMessage
	Err      error
}

type replyMsg struct {
	Question string
	Answer   string
	Err      error
}

type hintMsg struct {
	Hint *chatsvc.Hint
	Err  error
}

// bubble is one rendered transcript entry. Hints live only on screen;
// the service never persists them.
type bubble struct {
	role    string
	content string
	hint    *chatsvc.Hint
}

// ChatScreen is a tutor conversation bound to one problem.
type ChatScreen struct {
	tutor   Tutor
	problem chatsvc.ProblemContext

	bubbles    []bubble
	input      components.TextInput
	spinner    components.Spinner
	waiting    bool
	scrollback int
	note       string
}

var _ screen.Screen = (*ChatScreen)(nil)

// New creates a ChatScreen for the given problem context.
func New(tutor Tutor, problem chatsvc.ProblemContext) *ChatScreen {
	return &ChatScreen{
		tutor:   tutor,
		problem: problem,
		input:   components.NewTextInput("Ask the tutor...", "❯", 500),
	}
}

func (c *ChatScreen) Title() string {
	return "Tutor"
}

func (c *ChatScreen) Init() tea.Cmd {
	return tea.Batch(
		c.input.Focus(),
		c.loadThread(),
	)
}

func (c *ChatScreen) loadThread() tea.Cmd {
	return func() tea.Msg {
		msgs, err := c.tutor.Thread(context.Background(), c.problem.ID)
		return threadMsg{Messages: msgs, Err: err}
	}
}

func (c *ChatScreen) ask(question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := c.tutor.Ask(context.Background(), c.problem, question)
		return replyMsg{Question: question, Answer: answer, Err: err}
	}
}

func (c *ChatScreen) requestHint() tea.Cmd {
	return func() tea.Msg {
		h, err := c.tutor.Hint(context.Background(), c.problem)
		return hintMsg{Hint: h, Err: err}
	}
}

func (c *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case threadMsg:
		if msg.Err != nil {
			c.note = "could not load the conversation: " + msg.Err.Error()
			return c, nil
		}
		c.bubbles = c.bubbles[:0]
		for _, m := range msg.Messages {
			c.bubbles = append(c.bubbles, bubble{role: m.Role, content: m.Content})
		}
		return c, nil

	case replyMsg:
		c.waiting = false
		c.spinner.Stop()
		if msg.Err != nil {
			// The turn was not persisted. Put the question back in the
			// composer so a retry is one keypress away.
			c.dropLastUserBubble()
			c.input.Model.SetValue(msg.Question)
			c.note = "tutor unavailable: " + msg.Err.Error()
			return c, nil
		}
		c.note = ""
		c.bubbles = append(c.bubbles, bubble{role: store.RoleAssistant, content: msg.Answer})
		c.scrollback = 0
		return c, nil

	case hintMsg:
		c.waiting = false
		c.spinner.Stop()
		if msg.Err != nil {
			c.note = "hint unavailable: " + msg.Err.Error()
			return c, nil
		}
		c.note = ""
		c.bubbles = append(c.bubbles, bubble{role: "hint", hint: msg.Hint})
		c.scrollback = 0
		return c, nil

	case components.SpinnerTickMsg:
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		return c, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return c, func() tea.Msg { return router.PopScreenMsg{} }
		case "enter":
			return c, c.send()
		case "ctrl+h":
			if c.waiting {
				return c, nil
			}
			c.waiting = true
			return c, tea.Batch(c.spinner.Start("Thinking..."), c.requestHint())
		case "ctrl+x":
			return c, c.clearThread()
		case "pgup", "ctrl+u":
			c.scrollback += 5
			return c, nil
		case "pgdown", "ctrl+d":
			c.scrollback -= 5
			if c.scrollback < 0 {
				c.scrollback = 0
			}
			return c, nil
		}
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

func (c *ChatScreen) send() tea.Cmd {
	question := strings.TrimSpace(c.input.Value())
	if question == "" || c.waiting {
		return nil
	}
	c.input.Reset()
	c.waiting = true
	c.note = ""
	c.bubbles = append(c.bubbles, bubble{role: store.RoleUser, content: question})
	c.scrollback = 0
	return tea.Batch(c.spinner.Start("Thinking..."), c.ask(question))
}

func (c *ChatScreen) clearThread() tea.Cmd {
	c.bubbles = c.bubbles[:0]
	c.note = ""
	problemID := c.problem.ID
	return func() tea.Msg {
		_ = c.tutor.Clear(context.Background(), problemID)
		return nil
	}
}

func (c *ChatScreen) dropLastUserBubble() {
	if n := len(c.bubbles); n > 0 && c.bubbles[n-1].role == store.RoleUser {
		c.bubbles = c.bubbles[:n-1]
	}
}

func (c *ChatScreen) View(width, height int) string {
	transcriptHeight := height - 3
	if transcriptHeight < 3 {
		transcriptHeight = 3
	}

	transcript := c.renderTranscript(width, transcriptHeight)

	var footer []string
	if c.waiting {
		footer = append(footer, c.spinner.View())
	}
	if c.note != "" {
		footer = append(footer, lipgloss.NewStyle().Foreground(theme.Error).Render(c.note))
	}
	footer = append(footer, c.input.View())

	return transcript + "\n" + strings.Join(footer, "\n")
}

// renderTranscript renders the newest lines that fit, honoring scrollback.
func (c *ChatScreen) renderTranscript(width, height int) string {
	if len(c.bubbles) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("Ask anything about %q. The tutor sees your code.", c.problem.Title))
		return lipgloss.NewStyle().Height(height).Render("  " + empty)
	}

	md := markdown.NewRenderer(width - 4)
	var lines []string
	for _, b := range c.bubbles {
		lines = append(lines, c.renderBubble(b, md)...)
		lines = append(lines, "")
	}

	// Anchor to the bottom, then back off by the scrollback amount.
	end := len(lines) - c.scrollback
	if end > len(lines) {
		end = len(lines)
	}
	if end < 0 {
		end = 0
	}
	start := end - height
	if start < 0 {
		start = 0
	}

	visible := lines[start:end]
	return lipgloss.NewStyle().Height(height).Render(strings.Join(visible, "\n"))
}

func (c *ChatScreen) renderBubble(b bubble, md *markdown.Renderer) []string {
	var label string
	switch b.role {
	case store.RoleUser:
		label = lipgloss.NewStyle().Foreground(theme.TextDim).Bold(true).Render("you")
	case "hint":
		label = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("hint")
	default:
		label = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("tutor")
	}

	var body string
	if b.hint != nil {
		body = c.renderHint(b.hint)
	} else {
		body = md.Render(b.content)
	}

	lines := []string{label}
	for _, l := range strings.Split(body, "\n") {
		lines = append(lines, "  "+l)
	}
	return lines
}

func (c *ChatScreen) renderHint(h *chatsvc.Hint) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	out := h.Hint
	if h.NextStep != "" {
		out += "\n" + dim.Render("next: "+h.NextStep)
	}
	out += "\n" + dim.Render(fmt.Sprintf("confidence %d%%", int(h.Confidence*100)))
	return out
}

// KeyHints returns the key binding hints for the footer.
func (c *ChatScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "^H", Description: "Hint"},
		{Key: "^X", Description: "Clear"},
		{Key: "Esc", Description: "Back"},
	}
}
