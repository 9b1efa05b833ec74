package editor

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// Service is the editor-facing draft API. It owns a Coordinator and layers
// the small conveniences screens want: starter-code fallback on first open
// and a default language.
type Service struct {
	co          *Coordinator
	defaultLang string
}

// NewService builds a Service saving through store.
func NewService(store DraftStore, log zerolog.Logger) *Service {
	return &Service{
		co:          NewCoordinator(store, log),
		defaultLang: DefaultLanguage,
	}
}

// Save persists the draft, coalescing with other in-flight saves for the
// same problem. See Coordinator.Save for the waiting semantics.
func (s *Service) Save(ctx context.Context, problemID string, d Draft) error {
	if d.Language == "" {
		d.Language = s.defaultLang
	}
	return s.co.Save(ctx, problemID, d)
}

// Open returns the draft the editor should start from: the stored draft if
// one exists, otherwise a fresh draft seeded with the problem's starter
// code for the default language.
func (s *Service) Open(ctx context.Context, problemID string, starters map[string]string) (Draft, error) {
	d, err := s.co.Load(ctx, problemID)
	if err != nil {
		return Draft{}, err
	}
	if d != nil {
		return *d, nil
	}
	code := starters[s.defaultLang]
	if code != "" {
		code = strings.TrimRight(code, "\n") + "\n"
	}
	return Draft{Code: code, Language: s.defaultLang}, nil
}

// HasPendingWork reports whether a save for the problem is still in flight
// or buffered.
func (s *Service) HasPendingWork(problemID string) bool {
	return s.co.HasPendingWork(problemID)
}

// Reset discards all buffered saves and detaches in-flight ones. Used on
// logout, when the local draft store is about to be cleared.
func (s *Service) Reset() {
	s.co.Reset()
}
