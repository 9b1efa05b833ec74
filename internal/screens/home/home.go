// Package home is the dashboard screen: the entry menu, local stats, and
// the mascot.
package home

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/jammy0903/C-ode-to-you-sub001/internal/auth"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/editor"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/router"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/screen"
	tutorchat "github.com/jammy0903/C-ode-to-you-sub001/internal/screens/chat"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/screens/login"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/screens/placeholder"
	problemsscreen "github.com/jammy0903/C-ode-to-you-sub001/internal/screens/problems"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/screens/profile"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/selfupdate"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/store"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/ui/components"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/ui/layout"
)

// UpdateChecker reports whether a newer release is published.
type UpdateChecker interface {
	Check(ctx context.Context, input *selfupdate.CheckInput) (*selfupdate.CheckResult, error)
}

var _ UpdateChecker = (*selfupdate.Checker)(nil)

type updateMsg struct {
	latest string
}

// HomeScreen is the main dashboard of the application.
type HomeScreen struct {
	menu       components.Menu
	menuLabels []string
	disabled   map[int]bool

	draftCount int
	nick       string
	mascot     MascotVariant

	updates UpdateChecker
	version string
	latest  string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen. Stats come from the local store only, so
// construction never touches the network; the release check runs async in
// Init.
func New(catalog problemsscreen.Catalog, drafts *editor.Service, judge problemsscreen.Judge, tutor tutorchat.Tutor, account *auth.Manager, usage profile.UsageSource, local *store.DraftRepo, updates UpdateChecker, version string) *HomeScreen {
	// Local drafts drive the stats bar and the resume shortcut.
	var draftCount int
	var resumeID string
	if local != nil {
		if ds, err := local.List(context.Background()); err == nil && len(ds) > 0 {
			draftCount = len(ds)
			resumeID = ds[0].ProblemID
		}
	}

	var nick string
	if account != nil {
		if sess, _ := account.Current(context.Background()); sess != nil {
			nick = sess.Nickname
		}
	}

	mascot := MascotIdle
	if nick == "" {
		mascot = MascotSleeping
	} else if draftCount > 0 {
		mascot = MascotCoding
	}

	menuLabels := []string{"BROWSE PROBLEMS", "RESUME LAST DRAFT", "ACCOUNT", "QUIT"}

	disabled := map[int]bool{}
	if resumeID == "" {
		disabled[1] = true
	}

	items := []components.MenuItem{
		{Label: menuLabels[0], Action: func() tea.Cmd {
			if catalog == nil {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: placeholder.New("Problems", "the catalog is not available")}
				}
			}
			return func() tea.Msg {
				return router.PushScreenMsg{
					Screen: problemsscreen.New(catalog, drafts, judge, tutor),
				}
			}
		}},
		{Label: menuLabels[1], Disabled: resumeID == "", Action: func() tea.Cmd {
			if catalog == nil {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: placeholder.New("Resume", "the catalog is not available")}
				}
			}
			return func() tea.Msg {
				return router.PushScreenMsg{
					Screen: problemsscreen.NewDetail(catalog, drafts, judge, tutor, resumeID),
				}
			}
		}},
		{Label: menuLabels[2], Action: func() tea.Cmd {
			if account == nil {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: placeholder.New("Account", "sign-in is not available")}
				}
			}
			// Decided at invoke time, not construction time, so a login
			// completed elsewhere is picked up here.
			return func() tea.Msg {
				sess, _ := account.Current(context.Background())
				if sess == nil {
					return router.PushScreenMsg{Screen: login.New(account)}
				}
				return router.PushScreenMsg{Screen: profile.New(account, usage)}
			}
		}},
		{Label: menuLabels[3], Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		menu:       components.NewMenu(items),
		menuLabels: menuLabels,
		disabled:   disabled,
		draftCount: draftCount,
		nick:       nick,
		mascot:     mascot,
		updates:    updates,
		version:    version,
	}
}

// Init kicks off the background release check that feeds the update note.
func (h *HomeScreen) Init() tea.Cmd {
	if h.updates == nil {
		return nil
	}
	updates, version := h.updates, h.version
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		res, err := updates.Check(ctx, &selfupdate.CheckInput{Version: version})
		if err != nil || !res.UpdateAvailable {
			return updateMsg{}
		}
		return updateMsg{latest: res.LatestVersion}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if m, ok := msg.(updateMsg); ok {
		h.latest = m.latest
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.Compact(width, height)

	// All sections share a uniform content width so they line up.
	cw := contentWidth(width)

	var sections []string

	// 1. Title
	sections = append(sections, renderTitle(cw, compact))

	// 2. Mascot (full mode only)
	if !compact {
		sections = append(sections, renderMascotBox(h.mascot, cw))
	}

	// 3. Stats bar (double-bordered, same width)
	sections = append(sections, renderStatsBar(h.draftCount, h.nick, cw, compact))

	// 4. Menu (same width box)
	if compact {
		sections = append(sections, renderMenuCompact(h.menuLabels, h.menu.Selected, cw, h.disabled))
	} else {
		sections = append(sections, renderMenu(h.menuLabels, h.menu.Selected, cw, h.disabled))
	}

	// 5. Update note, only when a newer release exists
	if h.latest != "" {
		sections = append(sections, renderUpdateNote(h.latest, cw))
	}

	content := strings.Join(sections, "\n\n")

	// Wrap in the dashboard frame, centered in the full area
	return renderHomeFrame(content, width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
