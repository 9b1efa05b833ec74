package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/jammy0903/C-ode-to-you-sub001/internal/router"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/screen"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/ui/theme"
)

const (
	tickEvery = 100 * time.Millisecond
	sparkleAt = 500 * time.Millisecond
	bannerAt  = 1500 * time.Millisecond
	splashEnd = 3 * time.Second
)

const mascotArt = `  ╭───────────╮
  │  ┌─────┐  │
  │  │ ◉ ◉ │  │
  │  │  ▽  │  │
  │  ├─────┤  │
  │  │ </> │  │
  │  └─────┘  │
  ╰───────────╯`

var sparkleFrames = []string{"★", "✦"}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickEvery, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// WelcomeScreen plays a short splash animation, then hands the stack
// slot over to the home screen.
type WelcomeScreen struct {
	makeHome func() screen.Screen
	elapsed  time.Duration
	ticks    int
	done     bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates the splash. makeHome is called once, when the splash ends.
func New(makeHome func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{makeHome: makeHome}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		w.ticks++
		if w.elapsed < splashEnd {
			w.elapsed += tickEvery
		}
		return w, tick()

	case tea.KeyPressMsg:
		// Any key ends the splash, even mid-animation.
		return w, w.handoff()
	}

	return w, nil
}

func (w *WelcomeScreen) handoff() tea.Cmd {
	if w.done {
		return nil
	}
	w.done = true
	home := w.makeHome()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: home}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	body := []string{w.mascotView()}

	if w.elapsed >= bannerAt {
		tagline := lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render("Learn to code, anywhere.")
		hint := theme.Hint.Render("press any key to continue")
		body = append(body, "", RenderBanner(width), "", tagline, "", hint)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(body, "\n"))
}

func (w *WelcomeScreen) mascotView() string {
	art := lipgloss.NewStyle().Foreground(theme.Primary).Render(mascotArt)
	if w.elapsed < sparkleAt {
		return art
	}

	star := sparkleFrames[w.ticks%len(sparkleFrames)]
	left := lipgloss.NewStyle().Foreground(theme.Accent).Render(star)
	right := lipgloss.NewStyle().Foreground(theme.Secondary).Render(star)

	lines := strings.Split(art, "\n")
	for n, i := range []int{0, 3, 6} {
		if i >= len(lines) {
			break
		}
		a, b := left, right
		if n%2 == 1 {
			a, b = right, left
		}
		lines[i] = a + "  " + lines[i] + "  " + b
	}
	return strings.Join(lines, "\n")
}
