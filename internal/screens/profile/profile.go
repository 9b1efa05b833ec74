// Package profile shows the signed-in user's stats and model spend.
package profile

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/jammy0903/C-ode-to-you-sub001/internal/api"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/auth"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/llm"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/router"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/screen"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/store"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/ui/components"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/ui/layout"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/ui/theme"
)

// SignedOutMsg is emitted after the user signs out here. The app model
// intercepts it to refresh the header and wipe account-local data.
type SignedOutMsg struct{}

// Account is the slice of the auth manager this screen needs.
type Account interface {
	Profile(ctx context.Context) (*api.Profile, error)
	Logout(ctx context.Context) error
}

var _ Account = (*auth.Manager)(nil)

// UsageSource reports recorded model usage.
type UsageSource interface {
	UsageByModel(ctx context.Context) (map[string]store.Usage, error)
}

var _ UsageSource = (*store.ChatRepo)(nil)

type loadedMsg struct {
	Profile *api.Profile
	Usage   map[string]store.Usage
	Err     error
}

type signedOutMsg struct {
	Err error
}

// ProfileScreen shows account details, solve stats, and what the tutor
// has cost so far.
type ProfileScreen struct {
	account Account
	usage   UsageSource

	profile   *api.Profile
	usageRows map[string]store.Usage
	err       error
	loading   bool
	spinner   components.Spinner
}

var _ screen.Screen = (*ProfileScreen)(nil)

// New creates a ProfileScreen.
func New(account Account, usage UsageSource) *ProfileScreen {
	return &ProfileScreen{
		account: account,
		usage:   usage,
		loading: true,
	}
}

func (p *ProfileScreen) Title() string {
	return "Profile"
}

func (p *ProfileScreen) Init() tea.Cmd {
	return tea.Batch(
		p.spinner.Start("Loading profile..."),
		p.load(),
	)
}

func (p *ProfileScreen) load() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		prof, err := p.account.Profile(ctx)
		if err != nil {
			return loadedMsg{Err: err}
		}
		rows, err := p.usage.UsageByModel(ctx)
		if err != nil {
			return loadedMsg{Err: err}
		}
		return loadedMsg{Profile: prof, Usage: rows}
	}
}

func (p *ProfileScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		p.loading = false
		p.spinner.Stop()
		p.profile = msg.Profile
		p.usageRows = msg.Usage
		p.err = msg.Err
		return p, nil

	case signedOutMsg:
		p.spinner.Stop()
		if msg.Err != nil {
			p.err = msg.Err
			return p, nil
		}
		return p, func() tea.Msg { return SignedOutMsg{} }

	case components.SpinnerTickMsg:
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return p, func() tea.Msg { return router.PopScreenMsg{} }
		case "o":
			return p, tea.Batch(
				p.spinner.Start("Signing out..."),
				func() tea.Msg {
					return signedOutMsg{Err: p.account.Logout(context.Background())}
				},
			)
		}
	}

	return p, nil
}

func (p *ProfileScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	if p.loading || p.spinner.Active() {
		return components.CenteredFrame(p.spinner.View(), width, height)
	}
	if p.err != nil {
		body := lipgloss.NewStyle().Foreground(theme.Error).Render("Something went wrong") +
			"\n\n" + p.err.Error()
		return components.CenteredFrame(components.Card(body, cw), width, height)
	}
	if p.profile == nil {
		return components.CenteredFrame("", width, height)
	}

	cards := []string{
		components.Card(p.renderIdentity(cw), cw),
		components.Card(p.renderUsage(), cw),
	}
	return components.CenteredFrame(strings.Join(cards, "\n"), width, height)
}

func (p *ProfileScreen) renderIdentity(cw int) string {
	name := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("@" + p.profile.Nickname)
	email := lipgloss.NewStyle().Foreground(theme.TextDim).Render(p.profile.Email)

	stats := fmt.Sprintf("%d solved   ★ %d day streak", p.profile.SolvedCount, p.profile.StreakDays)
	joined := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render("member since " + p.profile.JoinedAt.Format("Jan 2006"))

	bar := components.NewProgressBar("", solveProgress(p.profile.SolvedCount), true, cw-8)

	return name + "  " + email + "\n\n" +
		stats + "\n" +
		bar.View() + "\n\n" +
		joined
}

// solveProgress maps a solve count onto the next-hundred milestone, so the
// bar always has somewhere left to go.
func solveProgress(solved int) float64 {
	if solved <= 0 {
		return 0
	}
	milestone := ((solved / 100) + 1) * 100
	return float64(solved) / float64(milestone)
}

func (p *ProfileScreen) renderUsage() string {
	head := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Tutor usage")
	if len(p.usageRows) == 0 {
		return head + "\n\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Render("No tutor calls yet.")
	}

	models := make([]string, 0, len(p.usageRows))
	for m := range p.usageRows {
		models = append(models, m)
	}
	sort.Strings(models)

	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	var b strings.Builder
	b.WriteString(head + "\n\n")
	b.WriteString(dim.Render(fmt.Sprintf("%-28s %5s %9s %9s %10s", "MODEL", "REQS", "IN", "OUT", "COST")))
	b.WriteString("\n")

	var total float64
	priced := true
	for _, m := range models {
		u := p.usageRows[m]
		cost := "-"
		if c := llm.LookupCost(m); c != nil {
			usd := c.Cost(u.InputTokens, u.OutputTokens)
			total += usd
			cost = fmt.Sprintf("$%.4f", usd)
		} else {
			priced = false
		}
		b.WriteString(fmt.Sprintf("%-28s %5d %9d %9d %10s\n", displayModel(m), u.Requests, u.InputTokens, u.OutputTokens, cost))
	}

	totalLine := fmt.Sprintf("total $%.4f", total)
	if !priced {
		totalLine += " (unpriced models excluded)"
	}
	b.WriteString("\n" + dim.Render(totalLine))
	return b.String()
}

// displayModel truncates long model IDs so the table stays aligned.
func displayModel(m string) string {
	if len(m) <= 28 {
		return m
	}
	return m[:27] + "…"
}

// KeyHints returns the key binding hints for the footer.
func (p *ProfileScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "o", Description: "Sign Out"},
		{Key: "Esc", Description: "Back"},
	}
}
