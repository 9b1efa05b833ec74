// Package chat provides the AI tutor conversation for a problem.
//
// A conversation is tied to one problem and persists across restarts. The
// tutor sees the problem statement and the learner's current draft code, so
// every reply is grounded in what is actually on screen.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jammy0903/C-ode-to-you-sub001/internal/llm"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/store"
)

// ErrNoTutor means no model provider is configured. Reading stored
// threads still works; asking does not.
var ErrNoTutor = errors.New("tutor not configured: set a model provider API key")

// History persists conversation turns. The store's chat repository
// implements this.
type History interface {
	Append(ctx context.Context, problemID, role, content string) error
	History(ctx context.Context, problemID string, limit int) ([]store.ChatMessage, error)
	Clear(ctx context.Context, problemID string) error
}

var _ History = (*store.ChatRepo)(nil)

// Config holds tuning knobs for the tutor.
type Config struct {
	MaxTokens     int
	HintMaxTokens int
	Temperature   float64

	// HistoryLimit caps how many stored turns are replayed to the model
	// per request. The full thread stays on disk regardless.
	HistoryLimit int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:     1024,
		HintMaxTokens: 256,
		Temperature:   0.7,
		HistoryLimit:  20,
	}
}

// ProblemContext is what the tutor knows about the problem being worked on.
type ProblemContext struct {
	ID        string
	Title     string
	Statement string
	Language  string
	Code      string
}

// Hint is a structured nudge toward the next step.
type Hint struct {
	Hint       string
	NextStep   string
	Confidence float64
}

// Service runs tutor conversations over an LLM provider.
type Service struct {
	provider llm.Provider
	history  History
	cfg      Config
}

// NewService creates a tutor service.
func NewService(provider llm.Provider, history History, cfg Config) *Service {
	return &Service{provider: provider, history: history, cfg: cfg}
}

// Ask sends a free-form question and returns the tutor's reply. The question
// and reply are appended to the problem's thread only after the model
// answers, so a failed request leaves no dangling turn.
func (s *Service) Ask(ctx context.Context, pc ProblemContext, question string) (string, error) {
	if s.provider == nil {
		return "", ErrNoTutor
	}
	ctx = llm.WithPurpose(ctx, "chat")

	past, err := s.history.History(ctx, pc.ID, s.cfg.HistoryLimit)
	if err != nil {
		return "", fmt.Errorf("load chat history: %w", err)
	}

	msgs := make([]llm.Message, 0, len(past)+1)
	for _, m := range past {
		role := llm.RoleUser
		if m.Role == store.RoleAssistant {
			role = llm.RoleAssistant
		}
		msgs = append(msgs, llm.Message{Role: role, Content: m.Content})
	}
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: question})

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      buildTutorSystemPrompt(pc),
		Messages:    msgs,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("tutor reply: %w", err)
	}

	answer := strings.TrimSpace(string(resp.Content))

	if err := s.history.Append(ctx, pc.ID, store.RoleUser, question); err != nil {
		return "", fmt.Errorf("store question: %w", err)
	}
	if err := s.history.Append(ctx, pc.ID, store.RoleAssistant, answer); err != nil {
		return "", fmt.Errorf("store reply: %w", err)
	}

	return answer, nil
}

// hintOutput is the raw LLM response.
type hintOutput struct {
	Hint       string  `json:"hint"`
	NextStep   string  `json:"next_step"`
	Confidence float64 `json:"confidence"`
}

// Hint asks for a structured nudge on the current draft. Hints are one-shot
// and never enter the conversation thread.
func (s *Service) Hint(ctx context.Context, pc ProblemContext) (*Hint, error) {
	if s.provider == nil {
		return nil, ErrNoTutor
	}
	ctx = llm.WithPurpose(ctx, "hint")

	resp, err := s.provider.Generate(ctx, llm.Request{
		System: hintSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildHintUserMessage(pc)},
		},
		Schema:      HintSchema,
		MaxTokens:   s.cfg.HintMaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generate hint: %w", err)
	}

	var raw hintOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("parse hint response: %w", err)
	}

	return &Hint{
		Hint:       raw.Hint,
		NextStep:   raw.NextStep,
		Confidence: raw.Confidence,
	}, nil
}

// Thread returns a problem's full stored conversation in chronological order.
func (s *Service) Thread(ctx context.Context, problemID string) ([]store.ChatMessage, error) {
	return s.history.History(ctx, problemID, 0)
}

// Clear deletes a problem's conversation.
func (s *Service) Clear(ctx context.Context, problemID string) error {
	return s.history.Clear(ctx, problemID)
}
