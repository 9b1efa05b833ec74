// Package problems is the catalog browser: a filterable problem list and
// the per-problem detail view it opens.
package problems

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/jammy0903/C-ode-to-you-sub001/internal/api"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/editor"
	probsvc "github.com/jammy0903/C-ode-to-you-sub001/internal/problems"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/router"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/screen"
	tutorchat "github.com/jammy0903/C-ode-to-you-sub001/internal/screens/chat"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/ui/components"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/ui/layout"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/ui/theme"
)

// Catalog is the slice of the problems service the screens need.
type Catalog interface {
	List(ctx context.Context, f api.ProblemFilter) ([]api.ProblemSummary, error)
	Get(ctx context.Context, id string) (*api.Problem, error)
	Invalidate()
}

var _ Catalog = (*probsvc.Service)(nil)

// Judge submits drafts for a verdict. The API client implements this.
type Judge interface {
	Submit(ctx context.Context, problemID string, d editor.Draft) (*api.Submission, error)
}

var _ Judge = (*api.Client)(nil)

type listMsg struct {
	Rows []api.ProblemSummary
	Err  error
}

// difficulty picker options, in display order.
var difficultyOptions = []string{"All", "Easy", "Medium", "Hard"}

var difficultyValues = []api.Difficulty{"", api.DifficultyEasy, api.DifficultyMedium, api.DifficultyHard}

// ListScreen is the scrolling problem catalog.
type ListScreen struct {
	catalog Catalog
	drafts  *editor.Service
	judge   Judge
	tutor   tutorchat.Tutor

	rows   []api.ProblemSummary
	cursor int
	scroll int
	filter api.ProblemFilter

	search    components.TextInput
	searching bool
	picker    *components.Picker
	spinner   components.Spinner
	loading   bool
	note      string
}

var _ screen.Screen = (*ListScreen)(nil)
var _ screen.KeyHintProvider = (*ListScreen)(nil)

// New creates the problem catalog screen. drafts, judge, and tutor are
// carried through to the detail and editor screens it opens.
func New(catalog Catalog, drafts *editor.Service, judge Judge, tutor tutorchat.Tutor) *ListScreen {
	return &ListScreen{
		catalog: catalog,
		drafts:  drafts,
		judge:   judge,
		tutor:   tutor,
		search:  components.NewTextInput("title or keyword", "search:", 80),
		loading: true,
	}
}

func (l *ListScreen) Title() string {
	return "Problems"
}

func (l *ListScreen) Init() tea.Cmd {
	return tea.Batch(
		l.spinner.Start("Loading problems..."),
		l.load(),
	)
}

func (l *ListScreen) load() tea.Cmd {
	f := l.filter
	return func() tea.Msg {
		rows, err := l.catalog.List(context.Background(), f)
		return listMsg{Rows: rows, Err: err}
	}
}

func (l *ListScreen) reload() tea.Cmd {
	l.loading = true
	l.cursor = 0
	l.scroll = 0
	return tea.Batch(l.spinner.Start("Loading problems..."), l.load())
}

func (l *ListScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case listMsg:
		l.loading = false
		l.spinner.Stop()
		if msg.Err != nil {
			l.note = "could not load problems: " + msg.Err.Error()
			return l, nil
		}
		l.note = ""
		l.rows = msg.Rows
		if l.cursor >= len(l.rows) {
			l.cursor = 0
		}
		return l, nil

	case components.SpinnerTickMsg:
		var cmd tea.Cmd
		l.spinner, cmd = l.spinner.Update(msg)
		return l, cmd

	case tea.KeyMsg:
		return l.handleKey(msg)
	}

	return l, nil
}

func (l *ListScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	// Modal states eat the keyboard first.
	if l.picker != nil {
		p, _ := l.picker.Update(msg)
		l.picker = &p
		if p.Done {
			picker := *l.picker
			l.picker = nil
			if !picker.Cancelled() {
				l.filter.Difficulty = difficultyValues[picker.Chosen]
				l.filter.Page = 0
				return l, l.reload()
			}
		}
		return l, nil
	}

	if l.searching {
		switch msg.String() {
		case "enter":
			l.searching = false
			l.search.Blur()
			l.filter.Search = strings.TrimSpace(l.search.Value())
			l.filter.Page = 0
			return l, l.reload()
		case "esc":
			l.searching = false
			l.search.Blur()
			l.search.Reset()
			return l, nil
		}
		var cmd tea.Cmd
		l.search, cmd = l.search.Update(msg)
		return l, cmd
	}

	switch msg.String() {
	case "up", "k":
		if l.cursor > 0 {
			l.cursor--
		}
	case "down", "j":
		if l.cursor < len(l.rows)-1 {
			l.cursor++
		}
	case "enter":
		return l, l.openDetail()
	case "/":
		l.searching = true
		return l, l.search.Focus()
	case "f":
		p := components.NewPicker("Difficulty", difficultyOptions, l.currentDifficultyIndex())
		l.picker = &p
		return l, nil
	case "n":
		l.filter.Page++
		return l, l.reload()
	case "p":
		if l.filter.Page > 0 {
			l.filter.Page--
			return l, l.reload()
		}
	case "r":
		l.catalog.Invalidate()
		return l, l.reload()
	case "esc", "q":
		return l, func() tea.Msg { return router.PopScreenMsg{} }
	}

	return l, nil
}

func (l *ListScreen) currentDifficultyIndex() int {
	for i, d := range difficultyValues {
		if d == l.filter.Difficulty {
			return i
		}
	}
	return 0
}

func (l *ListScreen) openDetail() tea.Cmd {
	if l.cursor >= len(l.rows) {
		return nil
	}
	row := l.rows[l.cursor]
	detail := NewDetail(l.catalog, l.drafts, l.judge, l.tutor, row.ID)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: detail}
	}
}

func (l *ListScreen) View(width, height int) string {
	if l.loading {
		return components.CenteredFrame(l.spinner.View(), width, height)
	}

	var sections []string
	sections = append(sections, l.renderFilterLine(width))

	listHeight := height - 2
	if l.picker != nil {
		sections = append(sections, components.CenteredFrame(l.picker.View(), width, listHeight))
	} else if l.note != "" {
		note := lipgloss.NewStyle().Foreground(theme.Error).Render(l.note) +
			"\n\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Render("r retry   esc back")
		sections = append(sections, components.CenteredFrame(note, width, listHeight))
	} else if len(l.rows) == 0 {
		empty := lipgloss.NewStyle().Foreground(theme.TextDim).Render("No problems match.")
		sections = append(sections, components.CenteredFrame(empty, width, listHeight))
	} else {
		sections = append(sections, l.renderRows(width, listHeight))
	}

	return strings.Join(sections, "\n")
}

func (l *ListScreen) renderFilterLine(width int) string {
	if l.searching {
		return " " + l.search.View()
	}

	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	var parts []string
	if l.filter.Difficulty != "" {
		parts = append(parts, "difficulty: "+probsvc.DifficultyLabel(l.filter.Difficulty))
	}
	if l.filter.Search != "" {
		parts = append(parts, fmt.Sprintf("search: %q", l.filter.Search))
	}
	if l.filter.Page > 0 {
		parts = append(parts, fmt.Sprintf("page %d", l.filter.Page+1))
	}
	if len(parts) == 0 {
		return " " + dim.Render("all problems")
	}
	return " " + dim.Render(strings.Join(parts, "   "))
}

func (l *ListScreen) renderRows(width, height int) string {
	l.adjustScroll(height)

	var lines []string
	for i := l.scroll; i < len(l.rows) && len(lines) < height; i++ {
		lines = append(lines, l.renderRow(l.rows[i], i == l.cursor, width))
	}
	return strings.Join(lines, "\n")
}

func (l *ListScreen) adjustScroll(height int) {
	if height <= 0 {
		return
	}
	if l.cursor < l.scroll {
		l.scroll = l.cursor
	}
	if l.cursor >= l.scroll+height {
		l.scroll = l.cursor - height + 1
	}
}

func (l *ListScreen) renderRow(row api.ProblemSummary, selected bool, width int) string {
	cursor := "  "
	if selected {
		cursor = "▸ "
	}

	solved := "  "
	if row.Solved {
		solved = lipgloss.NewStyle().Foreground(theme.Success).Render("✓ ")
	}

	diff := probsvc.DifficultyLabel(row.Difficulty)
	diffStyle := difficultyStyle(row.Difficulty)

	titleWidth := width - 24
	if titleWidth < 16 {
		titleWidth = 16
	}
	title := row.Title
	if len(title) > titleWidth {
		title = title[:titleWidth-1] + "…"
	}

	titleStyle := lipgloss.NewStyle().Foreground(theme.Text)
	numStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	if selected {
		titleStyle = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		numStyle = lipgloss.NewStyle().Foreground(theme.Primary)
	}

	return fmt.Sprintf("  %s%s%s %s  %s",
		cursor,
		solved,
		numStyle.Render(fmt.Sprintf("%4d", row.Number)),
		titleStyle.Render(fmt.Sprintf("%-*s", titleWidth, title)),
		diffStyle.Render(fmt.Sprintf("%-6s", diff)),
	)
}

func difficultyStyle(d api.Difficulty) lipgloss.Style {
	switch d {
	case api.DifficultyEasy:
		return lipgloss.NewStyle().Foreground(theme.Success)
	case api.DifficultyMedium:
		return lipgloss.NewStyle().Foreground(theme.Accent)
	case api.DifficultyHard:
		return lipgloss.NewStyle().Foreground(theme.Error)
	default:
		return lipgloss.NewStyle().Foreground(theme.TextDim)
	}
}

// KeyHints returns the key binding hints for the footer.
func (l *ListScreen) KeyHints() []layout.KeyHint {
	if l.searching {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Search"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "/", Description: "Search"},
		{Key: "f", Description: "Difficulty"},
		{Key: "n/p", Description: "Page"},
		{Key: "Esc", Description: "Back"},
	}
}
