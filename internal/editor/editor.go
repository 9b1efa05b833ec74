// Package editor owns the solution-draft lifecycle: it persists the code a
// learner is typing for a problem and coordinates overlapping auto-saves so
// that storage always converges on the newest content.
package editor

import (
	"context"
	"errors"
)

var (
	// ErrEmptyProblemID is returned when a draft operation is invoked
	// without a problem id.
	ErrEmptyProblemID = errors.New("draft: empty problem id")

	// ErrSaveAbandoned is delivered to callers whose buffered save was
	// discarded by Reset before it could flush.
	ErrSaveAbandoned = errors.New("draft: save abandoned by reset")
)

// Draft is a learner's in-progress, unsubmitted solution for one problem.
type Draft struct {
	Code     string
	Language string
}

// DraftStore is the persistence boundary drafts are written through.
// Implementations: the platform API (remote) and the local SQLite store.
type DraftStore interface {
	// SaveDraft persists the draft for the given problem, replacing any
	// previous draft.
	SaveDraft(ctx context.Context, problemID string, d Draft) error

	// LoadDraft returns the stored draft, or (nil, nil) when the problem
	// has no draft.
	LoadDraft(ctx context.Context, problemID string) (*Draft, error)
}
