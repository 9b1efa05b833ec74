// Package problems mediates problem browsing between the screens and the
// platform API, caching catalog pages so paging back through the list does
// not refetch.
package problems

import (
	"context"
	"fmt"
	"sync"

	"github.com/jammy0903/C-ode-to-you-sub001/internal/api"
)

// Source fetches problems. The API client implements this.
type Source interface {
	ListProblems(ctx context.Context, f api.ProblemFilter) ([]api.ProblemSummary, error)
	GetProblem(ctx context.Context, id string) (*api.Problem, error)
}

var _ Source = (*api.Client)(nil)

// Service serves the problem catalog with an in-memory cache in front of
// the API. Errors are never cached.
type Service struct {
	src Source

	mu      sync.Mutex
	pages   map[string][]api.ProblemSummary
	details map[string]*api.Problem
}

// NewService creates a problem catalog service.
func NewService(src Source) *Service {
	return &Service{
		src:     src,
		pages:   make(map[string][]api.ProblemSummary),
		details: make(map[string]*api.Problem),
	}
}

// List returns the catalog page matching f, from cache when the same filter
// was fetched before.
func (s *Service) List(ctx context.Context, f api.ProblemFilter) ([]api.ProblemSummary, error) {
	key := filterKey(f)

	s.mu.Lock()
	cached, ok := s.pages[key]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	page, err := s.src.ListProblems(ctx, f)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.pages[key] = page
	s.mu.Unlock()
	return page, nil
}

// Get returns one problem with its statement and starters, from cache when
// already fetched. Statements do not change between visits.
func (s *Service) Get(ctx context.Context, id string) (*api.Problem, error) {
	s.mu.Lock()
	cached, ok := s.details[id]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	p, err := s.src.GetProblem(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.details[id] = p
	s.mu.Unlock()
	return p, nil
}

// Invalidate drops all cached pages and details. Called after an accepted
// submission, since solved flags in the catalog change.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages = make(map[string][]api.ProblemSummary)
	s.details = make(map[string]*api.Problem)
}

func filterKey(f api.ProblemFilter) string {
	return fmt.Sprintf("%s|%s|%s|%d", f.Difficulty, f.Tag, f.Search, f.Page)
}
