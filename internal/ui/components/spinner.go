package components

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/jammy0903/C-ode-to-you-sub001/internal/ui/theme"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 100 * time.Millisecond

// SpinnerTickMsg advances a spinner one frame.
type SpinnerTickMsg struct {
	gen int
}

// Spinner is a frame-cycling activity indicator. Start returns the command
// that drives it; Stop invalidates in-flight ticks so a restarted spinner
// does not double-tick.
type Spinner struct {
	Label string

	frame  int
	gen    int
	active bool
}

// Start activates the spinner and returns its tick command.
func (s *Spinner) Start(label string) tea.Cmd {
	s.Label = label
	s.active = true
	s.frame = 0
	s.gen++
	return s.tick()
}

// Stop deactivates the spinner.
func (s *Spinner) Stop() {
	s.active = false
}

// Active reports whether the spinner is running.
func (s Spinner) Active() bool {
	return s.active
}

// Update advances the frame on its own ticks.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	tick, ok := msg.(SpinnerTickMsg)
	if !ok || !s.active || tick.gen != s.gen {
		return s, nil
	}
	s.frame = (s.frame + 1) % len(spinnerFrames)
	return s, s.tick()
}

func (s Spinner) tick() tea.Cmd {
	gen := s.gen
	return tea.Tick(spinnerInterval, func(time.Time) tea.Msg {
		return SpinnerTickMsg{gen: gen}
	})
}

// View renders the spinner with its label, or nothing when stopped.
func (s Spinner) View() string {
	if !s.active {
		return ""
	}
	out := lipgloss.NewStyle().Foreground(theme.Primary).Render(spinnerFrames[s.frame])
	if s.Label != "" {
		out += " " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(s.Label)
	}
	return out
}
