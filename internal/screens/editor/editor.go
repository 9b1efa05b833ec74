// Package editor is the code editing screen: a per-problem scratchpad with
// debounced autosaves, language switching and judge submission.
package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/jammy0903/C-ode-to-you-sub001/internal/api"
	chatsvc "github.com/jammy0903/C-ode-to-you-sub001/internal/chat"
	draftsvc "github.com/jammy0903/C-ode-to-you-sub001/internal/editor"
	probsvc "github.com/jammy0903/C-ode-to-you-sub001/internal/problems"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/router"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/screen"
	tutorchat "github.com/jammy0903/C-ode-to-you-sub001/internal/screens/chat"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/ui/components"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/ui/layout"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/ui/theme"
)

// autosaveDelay is how long the editor stays quiet after a keystroke before
// the draft is flushed.
const autosaveDelay = 750 * time.Millisecond

// Judge submits drafts for a verdict. The API client implements this.
type Judge interface {
	Submit(ctx context.Context, problemID string, d draftsvc.Draft) (*api.Submission, error)
}

var _ Judge = (*api.Client)(nil)

// SolvedMsg announces an accepted submission so the rest of the app can
// refresh solved markers.
type SolvedMsg struct {
	ProblemID string
}

type openedMsg struct {
	Draft draftsvc.Draft
	Err   error
}

type autosaveTickMsg struct {
	gen int
}

type savedMsg struct {
	rev uint64
	Err error
}

type verdictMsg struct {
	Sub *api.Submission
	Err error
}

// EditorScreen edits one problem's draft. Autosaves are debounced: every
// buffer change arms a timer, and only the latest timer flushes. A flush ack
// counts as "saved" only when it carries the buffer's current revision, so
// typing during a flush keeps the screen dirty until the newer content lands.
type EditorScreen struct {
	drafts  *draftsvc.Service
	judge   Judge
	tutor   tutorchat.Tutor
	problem *api.Problem

	ed      components.CodeEditor
	lang    draftsvc.Language
	spinner components.Spinner
	picker  *components.Picker

	loading    bool
	loadErr    error
	saveState  components.SaveState
	note       string
	saveGen    int
	knownRev   uint64
	leaving    bool
	submitting bool
	verdict    *api.Submission
	verdictErr error
}

var _ screen.Screen = (*EditorScreen)(nil)
var _ screen.KeyHintProvider = (*EditorScreen)(nil)

// New creates the editor screen for a loaded problem.
func New(drafts *draftsvc.Service, judge Judge, tutor tutorchat.Tutor, problem *api.Problem) *EditorScreen {
	return &EditorScreen{
		drafts:  drafts,
		judge:   judge,
		tutor:   tutor,
		problem: problem,
		ed:      components.NewCodeEditor(),
		loading: true,
	}
}

func (e *EditorScreen) Title() string {
	return "Editor"
}

func (e *EditorScreen) Init() tea.Cmd {
	return tea.Batch(
		e.spinner.Start("Opening draft..."),
		e.open(),
	)
}

func (e *EditorScreen) open() tea.Cmd {
	return func() tea.Msg {
		d, err := e.drafts.Open(context.Background(), e.problem.ID, e.problem.Starters)
		return openedMsg{Draft: d, Err: err}
	}
}

func (e *EditorScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case openedMsg:
		e.loading = false
		e.spinner.Stop()
		if msg.Err != nil {
			e.loadErr = msg.Err
			return e, nil
		}
		e.applyDraft(msg.Draft)
		return e, nil

	case autosaveTickMsg:
		if msg.gen != e.saveGen || e.saveState != components.SaveDirty {
			return e, nil
		}
		return e, e.save()

	case savedMsg:
		return e.handleSaved(msg)

	case verdictMsg:
		return e.handleVerdict(msg)

	case components.SpinnerTickMsg:
		var cmd tea.Cmd
		e.spinner, cmd = e.spinner.Update(msg)
		return e, cmd

	case tea.KeyMsg:
		return e.handleKey(msg)
	}

	return e, nil
}

func (e *EditorScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if e.picker != nil {
		p, _ := e.picker.Update(msg)
		e.picker = &p
		if p.Done {
			chosen := p.Chosen
			e.picker = nil
			if chosen >= 0 {
				return e, e.switchLanguage(draftsvc.Languages()[chosen])
			}
		}
		return e, nil
	}

	if e.verdict != nil || e.verdictErr != nil {
		switch msg.String() {
		case "enter", "esc", "q":
			e.verdict = nil
			e.verdictErr = nil
		}
		return e, nil
	}

	if e.loading || e.loadErr != nil {
		switch msg.String() {
		case "esc", "q":
			return e, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return e, nil
	}

	switch msg.String() {
	case "esc":
		return e, e.leave()
	case "ctrl+s":
		if e.saveState == components.SaveDirty || e.saveState == components.SaveFailed {
			return e, e.save()
		}
		return e, nil
	case "ctrl+enter", "ctrl+m", "ctrl+j":
		return e, e.submit()
	case "ctrl+l":
		p := components.NewPicker("Language", languageNames(), e.langIndex())
		e.picker = &p
		return e, nil
	case "ctrl+t":
		return e, e.openTutor()
	}

	if e.leaving {
		return e, nil
	}

	e.ed, _ = e.ed.Update(msg)
	if rev := e.ed.Revision(); rev != e.knownRev {
		e.knownRev = rev
		return e, e.scheduleAutosave()
	}
	return e, nil
}

func (e *EditorScreen) applyDraft(d draftsvc.Draft) {
	lang, ok := draftsvc.LanguageByID(d.Language)
	if !ok {
		lang, _ = draftsvc.LanguageByID(draftsvc.DefaultLanguage)
	}
	e.lang = lang
	e.ed.SetValue(d.Code)
	e.ed.Focus()
	e.knownRev = e.ed.Revision()
	e.saveState = components.SaveIdle
}

// scheduleAutosave marks the buffer dirty and arms the debounce timer.
// Bumping the generation invalidates timers armed by earlier keystrokes.
func (e *EditorScreen) scheduleAutosave() tea.Cmd {
	e.saveState = components.SaveDirty
	e.saveGen++
	gen := e.saveGen
	return tea.Tick(autosaveDelay, func(time.Time) tea.Msg {
		return autosaveTickMsg{gen: gen}
	})
}

func (e *EditorScreen) save() tea.Cmd {
	e.saveState = components.SaveSaving
	e.note = ""
	rev := e.ed.Revision()
	d := draftsvc.Draft{Code: e.ed.Value(), Language: e.lang.ID}
	id := e.problem.ID
	return func() tea.Msg {
		err := e.drafts.Save(context.Background(), id, d)
		return savedMsg{rev: rev, Err: err}
	}
}

func (e *EditorScreen) handleSaved(msg savedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		e.leaving = false
		e.saveState = components.SaveFailed
		if errors.Is(msg.Err, draftsvc.ErrSaveAbandoned) {
			e.note = "draft discarded"
		} else {
			e.note = "autosave failed"
		}
		return e, nil
	}
	if msg.rev != e.ed.Revision() {
		// The ack is for older content; the newer keystrokes already armed
		// their own timer.
		e.saveState = components.SaveDirty
		return e, nil
	}
	e.saveState = components.SaveSaved
	e.note = ""
	if e.leaving {
		e.leaving = false
		return e, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return e, nil
}

// leave pops back to the problem, flushing unsaved content first. A second
// esc after a failed flush leaves without the draft.
func (e *EditorScreen) leave() tea.Cmd {
	switch e.saveState {
	case components.SaveDirty:
		e.leaving = true
		return e.save()
	case components.SaveSaving:
		e.leaving = true
		return nil
	}
	return func() tea.Msg { return router.PopScreenMsg{} }
}

func (e *EditorScreen) submit() tea.Cmd {
	if e.submitting {
		return nil
	}
	e.submitting = true
	e.note = ""
	d := draftsvc.Draft{Code: e.ed.Value(), Language: e.lang.ID}
	id := e.problem.ID
	return tea.Batch(
		e.spinner.Start("Judging..."),
		func() tea.Msg {
			sub, err := e.judge.Submit(context.Background(), id, d)
			return verdictMsg{Sub: sub, Err: err}
		},
	)
}

func (e *EditorScreen) handleVerdict(msg verdictMsg) (screen.Screen, tea.Cmd) {
	e.submitting = false
	e.spinner.Stop()
	if msg.Err != nil {
		e.verdictErr = msg.Err
		return e, nil
	}
	e.verdict = msg.Sub
	if msg.Sub.Accepted() && !e.problem.Solved {
		e.problem.Solved = true
		id := e.problem.ID
		return e, func() tea.Msg { return SolvedMsg{ProblemID: id} }
	}
	return e, nil
}

// switchLanguage changes the draft language. An untouched starter buffer is
// swapped for the new language's starter; edited code is kept as is.
func (e *EditorScreen) switchLanguage(next draftsvc.Language) tea.Cmd {
	if next.ID == e.lang.ID {
		return nil
	}
	if untouched(e.ed.Value(), e.problem.Starters[e.lang.ID]) {
		e.ed.SetValue(starterFor(e.problem, next.ID))
		e.ed.Focus()
	}
	e.lang = next
	e.knownRev = e.ed.Revision()
	return e.scheduleAutosave()
}

func (e *EditorScreen) openTutor() tea.Cmd {
	pc := chatsvc.ProblemContext{
		ID:        e.problem.ID,
		Title:     e.problem.Title,
		Statement: e.problem.Statement,
		Language:  e.lang.ID,
		Code:      e.ed.Value(),
	}
	c := tutorchat.New(e.tutor, pc)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: c}
	}
}

func (e *EditorScreen) View(width, height int) string {
	if e.loading {
		return components.CenteredFrame(e.spinner.View(), width, height)
	}
	if e.loadErr != nil {
		body := lipgloss.NewStyle().Foreground(theme.Error).Render("Could not open this draft") +
			"\n\n" + e.loadErr.Error()
		return components.CenteredFrame(components.Card(body, components.ContentWidth(width)), width, height)
	}
	if e.picker != nil {
		return components.CenteredFrame(e.picker.View(), width, height)
	}
	if e.verdict != nil || e.verdictErr != nil {
		return components.CenteredFrame(e.renderVerdict(width), width, height)
	}

	e.ed.SetSize(width, height-1)
	line, col := e.ed.Cursor()
	status := components.StatusBar{
		Left:  fmt.Sprintf("Ln %d, Col %d   %s", line, col, e.lang.Name),
		Note:  e.statusNote(),
		State: e.saveState,
		Width: width,
	}
	return e.ed.View() + "\n" + status.View()
}

func (e *EditorScreen) statusNote() string {
	if e.submitting {
		return e.spinner.View()
	}
	return e.note
}

func (e *EditorScreen) renderVerdict(width int) string {
	var body string
	if e.verdictErr != nil {
		body = theme.Fail.Render("Could not submit") +
			"\n\n" + e.verdictErr.Error()
	} else {
		style := theme.Fail
		if e.verdict.Accepted() {
			style = theme.Pass
		}
		body = style.Render(probsvc.VerdictLabel(e.verdict))
		if e.verdict.Message != "" {
			body += "\n\n" + e.verdict.Message
		}
	}
	body += "\n\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Render("press enter to continue")
	return components.Card(body, components.ContentWidth(width))
}

func (e *EditorScreen) langIndex() int {
	for i, l := range draftsvc.Languages() {
		if l.ID == e.lang.ID {
			return i
		}
	}
	return 0
}

func languageNames() []string {
	ls := draftsvc.Languages()
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.Name
	}
	return out
}

func untouched(code, starter string) bool {
	return strings.TrimSpace(code) == strings.TrimSpace(starter)
}

func starterFor(p *api.Problem, langID string) string {
	code := p.Starters[langID]
	if code == "" {
		return ""
	}
	return strings.TrimRight(code, "\n") + "\n"
}

// KeyHints returns the key binding hints for the footer.
func (e *EditorScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "^S", Description: "Save"},
		{Key: "^Enter", Description: "Submit"},
		{Key: "^L", Description: "Language"},
		{Key: "^T", Description: "Tutor"},
		{Key: "Esc", Description: "Back"},
	}
}
