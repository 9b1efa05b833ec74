package editor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/jammy0903/C-ode-to-you-sub001/internal/api"
	chatsvc "github.com/jammy0903/C-ode-to-you-sub001/internal/chat"
	draftsvc "github.com/jammy0903/C-ode-to-you-sub001/internal/editor"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/router"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/store"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/ui/components"
)

type savedCall struct {
	problemID string
	draft     draftsvc.Draft
}

type fakeStore struct {
	mu      sync.Mutex
	draft   *draftsvc.Draft
	saveErr error
	saves   []savedCall
}

func (f *fakeStore) SaveDraft(ctx context.Context, problemID string, d draftsvc.Draft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves = append(f.saves, savedCall{problemID: problemID, draft: d})
	return nil
}

func (f *fakeStore) LoadDraft(ctx context.Context, problemID string) (*draftsvc.Draft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft, nil
}

func (f *fakeStore) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveErr = err
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saves)
}

func (f *fakeStore) last() savedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves[len(f.saves)-1]
}

type fakeJudge struct {
	sub *api.Submission
	err error
}

func (f *fakeJudge) Submit(ctx context.Context, problemID string, d draftsvc.Draft) (*api.Submission, error) {
	return f.sub, f.err
}

type fakeTutor struct{}

func (fakeTutor) Ask(ctx context.Context, pc chatsvc.ProblemContext, question string) (string, error) {
	return "", nil
}

func (fakeTutor) Hint(ctx context.Context, pc chatsvc.ProblemContext) (*chatsvc.Hint, error) {
	return nil, nil
}

func (fakeTutor) Thread(ctx context.Context, problemID string) ([]store.ChatMessage, error) {
	return nil, nil
}

func (fakeTutor) Clear(ctx context.Context, problemID string) error {
	return nil
}

func testProblem() *api.Problem {
	return &api.Problem{
		ProblemSummary: api.ProblemSummary{
			ID:         "two-sum",
			Number:     1,
			Title:      "Two Sum",
			Difficulty: api.DifficultyEasy,
		},
		Statement: "Find two numbers adding up to a target.",
		Starters: map[string]string{
			"c":      "int main() { return 0; }",
			"python": "def solve():\n    pass",
		},
	}
}

func newTestEditor(t *testing.T, fs *fakeStore) *EditorScreen {
	t.Helper()
	svc := draftsvc.NewService(fs, zerolog.Nop())
	e := New(svc, &fakeJudge{}, fakeTutor{}, testProblem())
	e.Update(e.open()())
	if e.loading {
		t.Fatal("editor still loading after open")
	}
	return e
}

func press(e *EditorScreen, r rune) tea.Cmd {
	_, cmd := e.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	return cmd
}

func TestOpenSeedsStarterForNewProblem(t *testing.T) {
	e := newTestEditor(t, &fakeStore{})

	if got := e.ed.Value(); got != "int main() { return 0; }\n" {
		t.Errorf("buffer = %q, want the C starter", got)
	}
	if e.lang.ID != "c" {
		t.Errorf("language = %q, want c", e.lang.ID)
	}
	if e.saveState != components.SaveIdle {
		t.Errorf("save state = %v, want idle", e.saveState)
	}
}

func TestOpenRestoresStoredDraft(t *testing.T) {
	fs := &fakeStore{draft: &draftsvc.Draft{Code: "print(42)\n", Language: "python"}}
	e := newTestEditor(t, fs)

	if got := e.ed.Value(); got != "print(42)\n" {
		t.Errorf("buffer = %q, want the stored draft", got)
	}
	if e.lang.ID != "python" {
		t.Errorf("language = %q, want python", e.lang.ID)
	}
}

func TestTypingMarksDirtyAndArmsTimer(t *testing.T) {
	e := newTestEditor(t, &fakeStore{})

	cmd := press(e, 'x')
	if cmd == nil {
		t.Fatal("expected a debounce timer command")
	}
	if e.saveState != components.SaveDirty {
		t.Errorf("save state = %v, want dirty", e.saveState)
	}
}

func TestStaleTimerDoesNotSave(t *testing.T) {
	fs := &fakeStore{}
	e := newTestEditor(t, fs)

	press(e, 'a')
	press(e, 'b')

	_, cmd := e.Update(autosaveTickMsg{gen: e.saveGen - 1})
	if cmd != nil {
		t.Fatal("stale timer should be ignored")
	}
	if fs.count() != 0 {
		t.Errorf("saves = %d, want 0", fs.count())
	}
	if e.saveState != components.SaveDirty {
		t.Errorf("save state = %v, want dirty", e.saveState)
	}
}

func TestAutosaveFlushesLatestContent(t *testing.T) {
	fs := &fakeStore{}
	e := newTestEditor(t, fs)

	press(e, 'a')
	press(e, 'b')
	press(e, 'c')

	_, cmd := e.Update(autosaveTickMsg{gen: e.saveGen})
	if cmd == nil {
		t.Fatal("expected a save command")
	}
	if e.saveState != components.SaveSaving {
		t.Errorf("save state = %v, want saving", e.saveState)
	}

	e.Update(cmd())
	if e.saveState != components.SaveSaved {
		t.Errorf("save state = %v, want saved", e.saveState)
	}
	if fs.count() != 1 {
		t.Fatalf("saves = %d, want 1", fs.count())
	}
	got := fs.last()
	if got.problemID != "two-sum" {
		t.Errorf("saved problem = %q, want two-sum", got.problemID)
	}
	if got.draft.Code != e.ed.Value() {
		t.Errorf("saved code = %q, want the buffer %q", got.draft.Code, e.ed.Value())
	}
	if got.draft.Language != "c" {
		t.Errorf("saved language = %q, want c", got.draft.Language)
	}
}

func TestStaleAckKeepsDirty(t *testing.T) {
	e := newTestEditor(t, &fakeStore{})
	press(e, 'a')

	e.Update(savedMsg{rev: e.ed.Revision() - 1})
	if e.saveState != components.SaveDirty {
		t.Errorf("save state after stale ack = %v, want dirty", e.saveState)
	}

	e.Update(savedMsg{rev: e.ed.Revision()})
	if e.saveState != components.SaveSaved {
		t.Errorf("save state after current ack = %v, want saved", e.saveState)
	}
}

func TestSaveFailureDoesNotStickAfterRetype(t *testing.T) {
	fs := &fakeStore{}
	e := newTestEditor(t, fs)

	press(e, 'a')
	fs.setErr(errors.New("disk full"))
	_, cmd := e.Update(autosaveTickMsg{gen: e.saveGen})
	e.Update(cmd())

	if e.saveState != components.SaveFailed {
		t.Fatalf("save state = %v, want failed", e.saveState)
	}
	if e.note != "autosave failed" {
		t.Errorf("note = %q, want autosave failed", e.note)
	}

	fs.setErr(nil)
	press(e, 'b')
	if e.saveState != components.SaveDirty {
		t.Fatalf("retyping should mark dirty again, got %v", e.saveState)
	}
	_, cmd = e.Update(autosaveTickMsg{gen: e.saveGen})
	e.Update(cmd())
	if e.saveState != components.SaveSaved {
		t.Errorf("save state = %v, want saved after retry", e.saveState)
	}
}

func TestEscWithCleanBufferPopsImmediately(t *testing.T) {
	fs := &fakeStore{}
	e := newTestEditor(t, fs)

	_, cmd := e.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Fatal("expected PopScreenMsg")
	}
	if fs.count() != 0 {
		t.Errorf("saves = %d, want 0", fs.count())
	}
}

func TestEscFlushesDirtyBufferBeforeLeaving(t *testing.T) {
	fs := &fakeStore{}
	e := newTestEditor(t, fs)
	press(e, 'z')

	_, cmd := e.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a flush command")
	}
	if !e.leaving {
		t.Fatal("expected the screen to be leaving")
	}

	_, cmd = e.Update(cmd())
	if cmd == nil {
		t.Fatal("expected a pop command after the flush ack")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Fatal("expected PopScreenMsg")
	}
	if fs.count() != 1 {
		t.Fatalf("saves = %d, want 1", fs.count())
	}
	if !strings.Contains(fs.last().draft.Code, "z") {
		t.Errorf("flushed code = %q, want the edited buffer", fs.last().draft.Code)
	}
}

func TestEscDuringFlightWaitsForAck(t *testing.T) {
	e := newTestEditor(t, &fakeStore{})
	press(e, 'a')
	e.Update(autosaveTickMsg{gen: e.saveGen})
	if e.saveState != components.SaveSaving {
		t.Fatalf("save state = %v, want saving", e.saveState)
	}

	_, cmd := e.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd != nil {
		t.Fatal("esc during a flight should wait, not issue commands")
	}
	if !e.leaving {
		t.Fatal("expected the screen to be leaving")
	}

	_, cmd = e.Update(savedMsg{rev: e.ed.Revision()})
	if cmd == nil {
		t.Fatal("expected a pop command after the ack")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Fatal("expected PopScreenMsg")
	}
}

func TestSecondEscAfterFailedFlushLeaves(t *testing.T) {
	fs := &fakeStore{saveErr: errors.New("remote down")}
	e := newTestEditor(t, fs)
	press(e, 'a')

	_, cmd := e.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	e.Update(cmd())
	if e.saveState != components.SaveFailed {
		t.Fatalf("save state = %v, want failed", e.saveState)
	}
	if e.leaving {
		t.Fatal("a failed flush should keep the screen open")
	}

	_, cmd = e.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Fatal("expected PopScreenMsg")
	}
}

func TestAcceptedVerdictEmitsSolvedOnce(t *testing.T) {
	e := newTestEditor(t, &fakeStore{})
	sub := &api.Submission{Status: "accepted", Passed: 5, Total: 5}

	_, cmd := e.Update(verdictMsg{Sub: sub})
	if cmd == nil {
		t.Fatal("expected a solved announcement")
	}
	solved, ok := cmd().(SolvedMsg)
	if !ok {
		t.Fatal("expected SolvedMsg")
	}
	if solved.ProblemID != "two-sum" {
		t.Errorf("solved problem = %q, want two-sum", solved.ProblemID)
	}
	if !e.problem.Solved {
		t.Error("problem should be marked solved")
	}

	e.verdict = nil
	_, cmd = e.Update(verdictMsg{Sub: sub})
	if cmd != nil {
		t.Error("an already solved problem should not re-announce")
	}
}

func TestRejectedVerdictShownInView(t *testing.T) {
	e := newTestEditor(t, &fakeStore{})
	sub := &api.Submission{Status: "wrong_answer", Passed: 2, Total: 5}

	e.Update(verdictMsg{Sub: sub})
	view := e.View(80, 24)
	if !strings.Contains(view, "Wrong Answer (2/5)") {
		t.Errorf("view missing verdict, got:\n%s", view)
	}

	e.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if e.verdict != nil {
		t.Error("enter should dismiss the verdict")
	}
}

func TestSubmitFailureShown(t *testing.T) {
	e := newTestEditor(t, &fakeStore{})

	e.Update(verdictMsg{Err: errors.New("judge offline")})
	view := e.View(80, 24)
	if !strings.Contains(view, "Could not submit") {
		t.Errorf("view missing the submit error, got:\n%s", view)
	}
	if !strings.Contains(view, "judge offline") {
		t.Errorf("view missing the cause, got:\n%s", view)
	}
}

func TestSubmitGuardWhileJudging(t *testing.T) {
	e := newTestEditor(t, &fakeStore{})

	if cmd := e.submit(); cmd == nil {
		t.Fatal("first submit should issue commands")
	}
	if cmd := e.submit(); cmd != nil {
		t.Fatal("second submit while judging should be ignored")
	}
}

func TestLanguageSwitchSwapsUntouchedStarter(t *testing.T) {
	e := newTestEditor(t, &fakeStore{})

	python, _ := draftsvc.LanguageByID("python")
	cmd := e.switchLanguage(python)
	if cmd == nil {
		t.Fatal("expected a save to be scheduled")
	}
	if e.lang.ID != "python" {
		t.Errorf("language = %q, want python", e.lang.ID)
	}
	if got := e.ed.Value(); got != "def solve():\n    pass\n" {
		t.Errorf("buffer = %q, want the python starter", got)
	}
}

func TestLanguageSwitchKeepsEditedCode(t *testing.T) {
	e := newTestEditor(t, &fakeStore{})
	press(e, 'x')
	edited := e.ed.Value()

	python, _ := draftsvc.LanguageByID("python")
	e.switchLanguage(python)
	if got := e.ed.Value(); got != edited {
		t.Errorf("buffer = %q, want the edited code kept", got)
	}
	if e.lang.ID != "python" {
		t.Errorf("language = %q, want python", e.lang.ID)
	}
}

func TestStatusBarShowsPositionAndLanguage(t *testing.T) {
	fs := &fakeStore{draft: &draftsvc.Draft{Code: "print(42)\n", Language: "python"}}
	e := newTestEditor(t, fs)

	view := e.View(80, 24)
	if !strings.Contains(view, "Ln 1, Col 1") {
		t.Errorf("view missing cursor position, got:\n%s", view)
	}
	if !strings.Contains(view, "Python") {
		t.Errorf("view missing language name, got:\n%s", view)
	}
}
