package chat

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/jammy0903/C-ode-to-you-sub001/internal/llm"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/store"
)

type fakeHistory struct {
	mu      sync.Mutex
	rows    map[string][]store.ChatMessage
	nextID  int64
	histErr error
}

func newFakeHistory() *fakeHistory {
	return &fakeHistory{rows: make(map[string][]store.ChatMessage)}
}

func (f *fakeHistory) Append(_ context.Context, problemID, role, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.rows[problemID] = append(f.rows[problemID], store.ChatMessage{
		ID:        f.nextID,
		ProblemID: problemID,
		Role:      role,
		Content:   content,
	})
	return nil
}

func (f *fakeHistory) History(_ context.Context, problemID string, limit int) ([]store.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.histErr != nil {
		return nil, f.histErr
	}
	msgs := f.rows[problemID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return append([]store.ChatMessage(nil), msgs...), nil
}

func (f *fakeHistory) Clear(_ context.Context, problemID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, problemID)
	return nil
}

func (f *fakeHistory) count(problemID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows[problemID])
}

var testProblem = ProblemContext{
	ID:        "two-sum",
	Title:     "Two Sum",
	Statement: "Given an array of integers and a target, return indices of the two numbers that add up to the target.",
	Language:  "python",
	Code:      "def two_sum(nums, target):\n    seen = {}\n    for i, n in enumerate(nums):\n        seen[n] = i\n",
}

func TestAsk_RepliesAndPersistsTurns(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage("You never check whether the complement is already in `seen`."),
	})
	hist := newFakeHistory()
	svc := NewService(mock, hist, DefaultConfig())

	answer, err := svc.Ask(t.Context(), testProblem, "Why does my function return None?")
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if answer != "You never check whether the complement is already in `seen`." {
		t.Errorf("unexpected answer: %q", answer)
	}

	thread, err := svc.Thread(t.Context(), "two-sum")
	if err != nil {
		t.Fatalf("Thread failed: %v", err)
	}
	if len(thread) != 2 {
		t.Fatalf("expected 2 stored turns, got %d", len(thread))
	}
	if thread[0].Role != store.RoleUser || thread[0].Content != "Why does my function return None?" {
		t.Errorf("unexpected first turn: %+v", thread[0])
	}
	if thread[1].Role != store.RoleAssistant || thread[1].Content != answer {
		t.Errorf("unexpected second turn: %+v", thread[1])
	}

	req := mock.Calls[0]
	if !strings.Contains(req.System, "Two Sum") {
		t.Error("system prompt missing problem title")
	}
	if !strings.Contains(req.System, "seen = {}") {
		t.Error("system prompt missing draft code")
	}
	if req.Schema != nil {
		t.Error("free-form chat must not request structured output")
	}
	if len(req.Messages) != 1 || req.Messages[0].Role != llm.RoleUser {
		t.Errorf("unexpected messages: %+v", req.Messages)
	}
}

func TestAsk_SendsPriorTurns(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage("Right, and the lookup has to happen before the insert."),
	})
	hist := newFakeHistory()
	ctx := t.Context()
	_ = hist.Append(ctx, "two-sum", store.RoleUser, "What data structure should I use?")
	_ = hist.Append(ctx, "two-sum", store.RoleAssistant, "A map from value to index gives O(1) lookups.")

	svc := NewService(mock, hist, DefaultConfig())
	if _, err := svc.Ask(ctx, testProblem, "So I check the map inside the loop?"); err != nil {
		t.Fatalf("Ask failed: %v", err)
	}

	msgs := mock.Calls[0].Messages
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	if msgs[0].Role != llm.RoleUser || msgs[1].Role != llm.RoleAssistant {
		t.Errorf("prior roles mapped wrong: %s, %s", msgs[0].Role, msgs[1].Role)
	}
	if msgs[2].Role != llm.RoleUser || msgs[2].Content != "So I check the map inside the loop?" {
		t.Errorf("unexpected final message: %+v", msgs[2])
	}
}

func TestAsk_ReplaysOnlyRecentTurns(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage("Yes."),
	})
	hist := newFakeHistory()
	ctx := t.Context()
	for i, content := range []string{"first question", "first answer", "second question", "second answer"} {
		role := store.RoleUser
		if i%2 == 1 {
			role = store.RoleAssistant
		}
		_ = hist.Append(ctx, "two-sum", role, content)
	}

	cfg := DefaultConfig()
	cfg.HistoryLimit = 2
	svc := NewService(mock, hist, cfg)
	if _, err := svc.Ask(ctx, testProblem, "done?"); err != nil {
		t.Fatalf("Ask failed: %v", err)
	}

	msgs := mock.Calls[0].Messages
	if len(msgs) != 3 {
		t.Fatalf("expected 2 replayed turns plus the question, got %d messages", len(msgs))
	}
	if msgs[0].Content != "second question" {
		t.Errorf("oldest replayed turn = %q, want the second question", msgs[0].Content)
	}
}

func TestAsk_ProviderErrorLeavesThreadClean(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Err: &llm.ErrProviderUnavailable{Err: errors.New("connection refused")},
	})
	hist := newFakeHistory()
	svc := NewService(mock, hist, DefaultConfig())

	if _, err := svc.Ask(t.Context(), testProblem, "hello?"); err == nil {
		t.Fatal("expected error")
	}
	if n := hist.count("two-sum"); n != 0 {
		t.Errorf("failed request left %d turns in the thread", n)
	}
}

func TestAsk_NoProviderFails(t *testing.T) {
	hist := newFakeHistory()
	svc := NewService(nil, hist, DefaultConfig())

	_, err := svc.Ask(t.Context(), testProblem, "hello?")
	if !errors.Is(err, ErrNoTutor) {
		t.Fatalf("err = %v, want ErrNoTutor", err)
	}
	if n := hist.count("two-sum"); n != 0 {
		t.Errorf("unconfigured tutor left %d turns in the thread", n)
	}

	if _, err := svc.Hint(t.Context(), testProblem); !errors.Is(err, ErrNoTutor) {
		t.Fatalf("Hint err = %v, want ErrNoTutor", err)
	}
}

func TestAsk_HistoryErrorSkipsProvider(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage("unused"),
	})
	hist := newFakeHistory()
	hist.histErr = errors.New("database is locked")
	svc := NewService(mock, hist, DefaultConfig())

	if _, err := svc.Ask(t.Context(), testProblem, "hello?"); err == nil {
		t.Fatal("expected error")
	}
	if mock.CallCount() != 0 {
		t.Error("provider called despite unreadable history")
	}
}

func TestHint_ParsesStructuredOutput(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"hint":"You insert before you look up, so a pair sharing an index slips through.","next_step":"Move the seen check above the assignment and test with [3, 3] target 6.","confidence":0.85}`),
	})
	hist := newFakeHistory()
	svc := NewService(mock, hist, DefaultConfig())

	h, err := svc.Hint(t.Context(), testProblem)
	if err != nil {
		t.Fatalf("Hint failed: %v", err)
	}
	if !strings.Contains(h.Hint, "insert before you look up") {
		t.Errorf("unexpected hint: %q", h.Hint)
	}
	if !strings.Contains(h.NextStep, "[3, 3]") {
		t.Errorf("unexpected next step: %q", h.NextStep)
	}
	if h.Confidence != 0.85 {
		t.Errorf("confidence = %v, want 0.85", h.Confidence)
	}

	req := mock.Calls[0]
	if req.Schema != HintSchema {
		t.Error("hint request missing schema")
	}
	if req.MaxTokens != DefaultConfig().HintMaxTokens {
		t.Errorf("max tokens = %d, want %d", req.MaxTokens, DefaultConfig().HintMaxTokens)
	}
	if n := hist.count("two-sum"); n != 0 {
		t.Errorf("hint leaked %d turns into the thread", n)
	}
}

func TestHint_InvalidJSONFails(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`not json at all`),
	})
	svc := NewService(mock, newFakeHistory(), DefaultConfig())

	if _, err := svc.Hint(t.Context(), testProblem); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestClear(t *testing.T) {
	hist := newFakeHistory()
	ctx := t.Context()
	_ = hist.Append(ctx, "two-sum", store.RoleUser, "hi")
	svc := NewService(llm.NewMockProvider(), hist, DefaultConfig())

	if err := svc.Clear(ctx, "two-sum"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if n := hist.count("two-sum"); n != 0 {
		t.Errorf("thread still has %d turns", n)
	}
}

func TestBuildTutorSystemPrompt(t *testing.T) {
	got := buildTutorSystemPrompt(testProblem)
	if !strings.Contains(got, testProblem.Statement) {
		t.Error("prompt missing problem statement")
	}
	if !strings.Contains(got, "```python") {
		t.Error("prompt missing fenced code block with language tag")
	}

	blank := testProblem
	blank.Code = "   \n"
	got = buildTutorSystemPrompt(blank)
	if strings.Contains(got, "```") {
		t.Error("prompt includes a code block for blank code")
	}
}

func TestBuildHintUserMessage_EmptyCode(t *testing.T) {
	blank := testProblem
	blank.Code = ""
	got := buildHintUserMessage(blank)
	if !strings.Contains(got, "not started") {
		t.Error("message should say the learner has not started")
	}
}
