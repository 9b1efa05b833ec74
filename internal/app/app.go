// Package app assembles the service graph and runs the root Bubble Tea
// program: window sizing, global keys, the header and footer chrome, and
// the screen router.
package app

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/jammy0903/C-ode-to-you-sub001/internal/api"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/auth"
	chatsvc "github.com/jammy0903/C-ode-to-you-sub001/internal/chat"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/editor"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/llm"
	probsvc "github.com/jammy0903/C-ode-to-you-sub001/internal/problems"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/router"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/screen"
	editorscreen "github.com/jammy0903/C-ode-to-you-sub001/internal/screens/editor"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/screens/home"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/screens/login"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/screens/profile"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/screens/welcome"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/selfupdate"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/store"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/ui/layout"
)

// Options carries the services the CLI wires in. Store, Client, and Auth
// are required; Provider may be nil when no model API key is configured,
// which disables the tutor but nothing else.
type Options struct {
	Store    *store.Store
	Client   *api.Client
	Auth     *auth.Manager
	Provider llm.Provider
	Version  string
	Log      zerolog.Logger
}

type profileMsg struct {
	streak int
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	opts Options

	catalog *probsvc.Service
	tutor   *chatsvc.Service
	drafts  *editor.Service
	updates *selfupdate.Checker

	router *router.Router
	width  int
	height int

	who    string
	streak int
}

// newAppModel builds the service graph and a router starting on the
// welcome splash.
func newAppModel(opts Options) AppModel {
	m := AppModel{
		opts:    opts,
		updates: selfupdate.NewChecker(),
	}
	m.rebind(context.Background())

	// The splash builds home eagerly; its local reads are cheap and
	// nothing can change the session mid-animation.
	h := m.buildHome()
	m.router = router.New(welcome.New(func() screen.Screen { return h }))
	return m
}

// rebind rebuilds every session-scoped service. Called at startup and
// again after login and logout, so screens always see the current account.
func (m *AppModel) rebind(ctx context.Context) {
	opts := m.opts
	m.catalog = probsvc.NewService(opts.Client)
	m.tutor = chatsvc.NewService(opts.Provider, opts.Store.ChatRepo(), chatsvc.DefaultConfig())

	sess, err := opts.Auth.Current(ctx)
	if err != nil {
		opts.Log.Warn().Err(err).Msg("read session")
	}

	// Signed-in saves go through the platform so drafts follow the
	// account; signed-out saves stay in the local database.
	var draftStore editor.DraftStore = opts.Store.DraftRepo()
	if sess != nil {
		draftStore = opts.Client.Drafts()
	}
	m.drafts = editor.NewService(draftStore, opts.Log)

	m.who, m.streak = "", 0
	if sess != nil {
		m.who = sess.Nickname
	}
}

// buildHome assembles a home screen over the current service graph.
func (m *AppModel) buildHome() *home.HomeScreen {
	return home.New(
		m.catalog,
		m.drafts,
		m.opts.Client,
		m.tutor,
		m.opts.Auth,
		m.opts.Store.ChatRepo(),
		m.opts.Store.DraftRepo(),
		m.updates,
		m.opts.Version,
	)
}

// resetToHome drops the whole screen stack and lands on a fresh home.
func (m *AppModel) resetToHome() tea.Cmd {
	h := m.buildHome()
	m.router = router.New(h)
	return h.Init()
}

// fetchStreak fills in the header's solve streak once the profile loads.
// Failures leave the streak at zero; the header still shows the nickname.
func (m AppModel) fetchStreak() tea.Cmd {
	if m.who == "" {
		return nil
	}
	account := m.opts.Auth
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		prof, err := account.Profile(ctx)
		if err != nil || prof == nil {
			return nil
		}
		return profileMsg{streak: prof.StreakDays}
	}
}

func (m AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.fetchStreak()}
	if active := m.router.Active(); active != nil {
		cmds = append(cmds, active.Init())
	}
	return tea.Batch(cmds...)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case profileMsg:
		m.streak = msg.streak
		return m, nil

	case login.CompletedMsg:
		// Rebind services to the new session, then land on a fresh home
		// so the header, stats, and draft routing all reflect it.
		m.rebind(context.Background())
		return m, tea.Batch(m.resetToHome(), m.fetchStreak())

	case profile.SignedOutMsg:
		// Pending saves die with the session, and the chat threads are
		// account data, so both are wiped before services rebind.
		m.drafts.Reset()
		if err := m.opts.Store.ChatRepo().ClearAll(context.Background()); err != nil {
			m.opts.Log.Warn().Err(err).Msg("clear chat history")
		}
		m.rebind(context.Background())
		return m, m.resetToHome()

	case editorscreen.SolvedMsg:
		// A fresh accept changes the solved marks on the problem list.
		m.catalog.Invalidate()
		return m, nil
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	// The splash owns the whole terminal; chrome appears with home.
	if _, splash := active.(*welcome.WelcomeScreen); splash {
		v.SetContent(m.router.View(m.width, m.height))
		return v
	}

	header := layout.RenderHeader(title, m.who, m.streak, m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	}
	if len(footerHints) == 0 {
		if m.router.Depth() > 1 {
			footerHints = []layout.KeyHint{
				{Key: "Esc", Description: "Back"},
				{Key: "Ctrl+C", Description: "Quit"},
			}
		} else {
			footerHints = []layout.KeyHint{
				{Key: "↑↓", Description: "Navigate"},
				{Key: "Enter", Description: "Select"},
				{Key: "Ctrl+C", Description: "Quit"},
			}
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
