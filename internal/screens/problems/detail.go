package problems

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/jammy0903/C-ode-to-you-sub001/internal/api"
	chatsvc "github.com/jammy0903/C-ode-to-you-sub001/internal/chat"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/editor"
	probsvc "github.com/jammy0903/C-ode-to-you-sub001/internal/problems"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/router"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/screen"
	tutorchat "github.com/jammy0903/C-ode-to-you-sub001/internal/screens/chat"
	editorscreen "github.com/jammy0903/C-ode-to-you-sub001/internal/screens/editor"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/ui/components"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/ui/layout"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/ui/markdown"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/ui/theme"
)

type detailMsg struct {
	Problem *api.Problem
	Err     error
}

// DetailScreen shows one problem's statement and opens the editor or the
// tutor for it.
type DetailScreen struct {
	catalog Catalog
	drafts  *editor.Service
	judge   Judge
	tutor   tutorchat.Tutor

	problemID string
	problem   *api.Problem
	err       error
	spinner   components.Spinner
	loading   bool
	scroll    int
}

var _ screen.Screen = (*DetailScreen)(nil)
var _ screen.KeyHintProvider = (*DetailScreen)(nil)

// NewDetail creates the detail screen for one problem. The list screen and
// the home resume shortcut both open problems through it.
func NewDetail(catalog Catalog, drafts *editor.Service, judge Judge, tutor tutorchat.Tutor, problemID string) *DetailScreen {
	return &DetailScreen{
		catalog:   catalog,
		drafts:    drafts,
		judge:     judge,
		tutor:     tutor,
		problemID: problemID,
		loading:   true,
	}
}

func (d *DetailScreen) Title() string {
	if d.problem != nil {
		return d.problem.Title
	}
	return "Problem"
}

func (d *DetailScreen) Init() tea.Cmd {
	return tea.Batch(
		d.spinner.Start("Loading problem..."),
		d.load(),
	)
}

func (d *DetailScreen) load() tea.Cmd {
	return func() tea.Msg {
		p, err := d.catalog.Get(context.Background(), d.problemID)
		return detailMsg{Problem: p, Err: err}
	}
}

func (d *DetailScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case detailMsg:
		d.loading = false
		d.spinner.Stop()
		d.problem = msg.Problem
		d.err = msg.Err
		return d, nil

	case components.SpinnerTickMsg:
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return d, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if d.scroll > 0 {
				d.scroll--
			}
		case "down", "j":
			d.scroll++
		case "e", "enter":
			return d, d.openEditor()
		case "c":
			return d, d.openChat()
		case "esc", "q":
			return d, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}

	return d, nil
}

func (d *DetailScreen) openEditor() tea.Cmd {
	if d.problem == nil {
		return nil
	}
	ed := editorscreen.New(d.drafts, d.judge, d.tutor, d.problem)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: ed}
	}
}

func (d *DetailScreen) openChat() tea.Cmd {
	if d.problem == nil {
		return nil
	}
	pc := chatsvc.ProblemContext{
		ID:        d.problem.ID,
		Title:     d.problem.Title,
		Statement: d.problem.Statement,
	}
	c := tutorchat.New(d.tutor, pc)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: c}
	}
}

func (d *DetailScreen) View(width, height int) string {
	if d.loading {
		return components.CenteredFrame(d.spinner.View(), width, height)
	}
	if d.err != nil {
		body := lipgloss.NewStyle().Foreground(theme.Error).Render("Could not load this problem") +
			"\n\n" + d.err.Error()
		return components.CenteredFrame(components.Card(body, components.ContentWidth(width)), width, height)
	}
	if d.problem == nil {
		return ""
	}

	head := d.renderHead(width)
	headHeight := lipgloss.Height(head) + 1

	bodyHeight := height - headHeight
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	return head + "\n" + d.renderStatement(width, bodyHeight)
}

func (d *DetailScreen) renderHead(width int) string {
	p := d.problem

	title := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(p.Title)
	diff := difficultyStyle(p.Difficulty).Render(probsvc.DifficultyLabel(p.Difficulty))

	parts := []string{"  " + title, diff}
	if p.Solved {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Success).Render("✓ solved"))
	}
	if d.drafts != nil && d.drafts.HasPendingWork(p.ID) {
		// The editor flushes on exit, but a slow store can still be
		// draining when the user lands back here.
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Accent).Render("● draft syncing"))
	}
	line := strings.Join(parts, "  ")

	if len(p.Tags) > 0 {
		tags := lipgloss.NewStyle().Foreground(theme.TextDim).
			Render("  " + strings.Join(p.Tags, " · "))
		line += "\n" + tags
	}
	return line
}

func (d *DetailScreen) renderStatement(width, height int) string {
	text := markdown.NewRenderer(width - 6).Render(d.problem.Statement)
	lines := strings.Split(text, "\n")

	maxScroll := len(lines) - height
	if maxScroll < 0 {
		maxScroll = 0
	}
	if d.scroll > maxScroll {
		d.scroll = maxScroll
	}

	end := d.scroll + height
	if end > len(lines) {
		end = len(lines)
	}

	var b strings.Builder
	for _, l := range lines[d.scroll:end] {
		b.WriteString("   " + l + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// KeyHints returns the key binding hints for the footer.
func (d *DetailScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "e", Description: "Code"},
		{Key: "c", Description: "Tutor"},
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}
