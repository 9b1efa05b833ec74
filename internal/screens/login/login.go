// Package login runs the device-flow sign-in screen.
package login

import (
	"context"
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/jammy0903/C-ode-to-you-sub001/internal/api"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/auth"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/router"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/screen"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/store"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/ui/components"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/ui/layout"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/ui/theme"
)

// CompletedMsg is emitted once a login finishes. The app model intercepts
// it to refresh the header identity before popping this screen.
type CompletedMsg struct {
	Session *store.Session
}

type beginMsg struct {
	Code *api.DeviceCode
	Err  error
}

type doneMsg struct {
	Session *store.Session
	Err     error
}

type phase int

const (
	phaseStarting phase = iota
	phaseWaiting
	phaseFailed
)

// LoginScreen walks the user through a device-code login.
type LoginScreen struct {
	manager *auth.Manager

	ctx    context.Context
	cancel context.CancelFunc

	phase   phase
	code    *api.DeviceCode
	err     error
	spinner components.Spinner
}

var _ screen.Screen = (*LoginScreen)(nil)

// New creates a LoginScreen.
func New(manager *auth.Manager) *LoginScreen {
	ctx, cancel := context.WithCancel(context.Background())
	return &LoginScreen{
		manager: manager,
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (l *LoginScreen) Title() string {
	return "Sign In"
}

func (l *LoginScreen) Init() tea.Cmd {
	return tea.Batch(
		l.spinner.Start("Contacting Code to You..."),
		l.begin(),
	)
}

func (l *LoginScreen) begin() tea.Cmd {
	return func() tea.Msg {
		dc, err := l.manager.BeginLogin(l.ctx)
		return beginMsg{Code: dc, Err: err}
	}
}

func (l *LoginScreen) wait() tea.Cmd {
	return func() tea.Msg {
		s, err := l.manager.WaitForLogin(l.ctx, l.code)
		return doneMsg{Session: s, Err: err}
	}
}

func (l *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case beginMsg:
		if msg.Err != nil {
			l.phase = phaseFailed
			l.err = msg.Err
			l.spinner.Stop()
			return l, nil
		}
		l.phase = phaseWaiting
		l.code = msg.Code
		return l, tea.Batch(
			l.spinner.Start("Waiting for approval..."),
			l.wait(),
		)

	case doneMsg:
		l.spinner.Stop()
		if errors.Is(msg.Err, context.Canceled) {
			return l, nil
		}
		if msg.Err != nil {
			l.phase = phaseFailed
			l.err = msg.Err
			return l, nil
		}
		return l, func() tea.Msg {
			return CompletedMsg{Session: msg.Session}
		}

	case components.SpinnerTickMsg:
		var cmd tea.Cmd
		l.spinner, cmd = l.spinner.Update(msg)
		return l, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			l.cancel()
			return l, func() tea.Msg { return router.PopScreenMsg{} }
		case "enter":
			if l.phase == phaseFailed {
				return l, func() tea.Msg {
					return router.ReplaceScreenMsg{Screen: New(l.manager)}
				}
			}
		}
	}

	return l, nil
}

func (l *LoginScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var content string
	switch l.phase {
	case phaseStarting:
		content = l.spinner.View()

	case phaseWaiting:
		content = components.HighlightCard(l.renderCode(), cw)

	case phaseFailed:
		body := lipgloss.NewStyle().Foreground(theme.Error).Render("Sign-in failed") +
			"\n\n" + errorText(l.err) +
			"\n\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Render("enter try again   esc back")
		content = components.Card(body, cw)
	}

	return components.CenteredFrame(content, width, height)
}

func (l *LoginScreen) renderCode() string {
	urlStyle := lipgloss.NewStyle().Foreground(theme.Primary).Underline(true)
	codeStyle := lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true)

	// Space the code out so it reads like something to type elsewhere.
	spaced := strings.Join(strings.Split(l.code.UserCode, ""), " ")

	var b strings.Builder
	b.WriteString("Open " + urlStyle.Render(l.code.VerificationURI) + "\n")
	b.WriteString("and enter this code:\n\n")
	b.WriteString(codeStyle.Render(spaced) + "\n\n")
	b.WriteString(l.spinner.View())
	return b.String()
}

// KeyHints returns the key binding hints for the footer.
func (l *LoginScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Cancel"},
	}
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, auth.ErrLoginExpired) {
		return "The code expired before it was approved."
	}
	return err.Error()
}
