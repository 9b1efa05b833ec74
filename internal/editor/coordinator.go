package editor

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Coordinator serializes draft saves per problem. Any number of goroutines
// may call Save concurrently; for one problem the store only ever sees one
// SaveDraft call at a time, and while a flush is in flight newer content
// coalesces into a single buffered slot so storage converges on the latest
// keystroke instead of replaying every intermediate state.
//
// Rules per problem id:
//
//   - Save with no flush in flight starts one immediately.
//   - Save during a flight buffers the content; a second Save during the
//     same flight overwrites the buffer. The buffer holds at most one draft.
//   - When a flush settles, the buffered draft (if any) flushes next. The
//     loop repeats until the buffer is empty, then the id's state is
//     released entirely.
//
// Failures are per flush: every Save call that rode a given flush gets that
// flush's error, and a buffered draft still flushes afterwards. A draft that
// was overwritten while buffered resolves with the outcome of the flush that
// carried its replacement.
type Coordinator struct {
	store DraftStore
	log   zerolog.Logger

	mu      sync.Mutex
	version uint64
	keys    map[string]*keyState
}

// keyState exists only while its problem has a flush in flight or a draft
// buffered. Idle problems have no entry in Coordinator.keys at all.
type keyState struct {
	pending *pendingSave
}

type pendingSave struct {
	draft   Draft
	version uint64
	waiters []chan error
}

// NewCoordinator returns a Coordinator that writes drafts through store.
func NewCoordinator(store DraftStore, log zerolog.Logger) *Coordinator {
	return &Coordinator{
		store: store,
		log:   log.With().Str("component", "draftcoordinator").Logger(),
		keys:  make(map[string]*keyState),
	}
}

// Save persists d for the given problem, waiting until the flush that
// carries d (or a newer draft that replaced it) settles. It returns the
// error of that flush, nil on success, or ctx.Err() if ctx is done first.
//
// Cancelling ctx only abandons the wait: the draft itself still flushes,
// detached from ctx, so an accepted save is always durably attempted.
func (c *Coordinator) Save(ctx context.Context, problemID string, d Draft) error {
	if problemID == "" {
		return ErrEmptyProblemID
	}
	done := make(chan error, 1)

	c.mu.Lock()
	c.version++
	ver := c.version
	st, inFlight := c.keys[problemID]
	if inFlight {
		if st.pending != nil {
			c.log.Debug().
				Str("problem", problemID).
				Uint64("superseded", st.pending.version).
				Uint64("by", ver).
				Msg("buffered draft overwritten")
			st.pending.draft = d
			st.pending.version = ver
			st.pending.waiters = append(st.pending.waiters, done)
		} else {
			st.pending = &pendingSave{draft: d, version: ver, waiters: []chan error{done}}
		}
		c.mu.Unlock()
	} else {
		st = &keyState{}
		c.keys[problemID] = st
		c.mu.Unlock()
		go c.flush(context.WithoutCancel(ctx), problemID, st, d, ver, []chan error{done})
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// flush writes drafts for one problem until no more are buffered. Exactly
// one flush goroutine runs per keyState; it is the only goroutine that
// calls store.SaveDraft for its problem.
func (c *Coordinator) flush(ctx context.Context, problemID string, st *keyState, d Draft, ver uint64, waiters []chan error) {
	for {
		err := c.store.SaveDraft(ctx, problemID, d)
		if err != nil {
			c.log.Debug().
				Err(err).
				Str("problem", problemID).
				Uint64("version", ver).
				Msg("draft flush failed")
		}
		for _, w := range waiters {
			w <- err
		}

		c.mu.Lock()
		if c.keys[problemID] != st {
			// Reset replaced the state map while this flush was in
			// flight. The result was already delivered above; nothing
			// here may touch the new state.
			c.mu.Unlock()
			return
		}
		if p := st.pending; p != nil {
			st.pending = nil
			d, ver, waiters = p.draft, p.version, p.waiters
			c.mu.Unlock()
			continue
		}
		delete(c.keys, problemID)
		c.mu.Unlock()
		return
	}
}

// Load reads the stored draft for the given problem. Loads are not
// sequenced against in-flight saves; callers that need the very latest
// content should consult their own editor state first.
func (c *Coordinator) Load(ctx context.Context, problemID string) (*Draft, error) {
	if problemID == "" {
		return nil, ErrEmptyProblemID
	}
	return c.store.LoadDraft(ctx, problemID)
}

// HasPendingWork reports whether the problem has a flush in flight or a
// draft buffered. Unsaved-work indicators are driven by this.
func (c *Coordinator) HasPendingWork(problemID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.keys[problemID]
	return ok
}

// Reset drops all per-problem state at once. Buffered drafts are discarded
// and their waiters resolve with ErrSaveAbandoned; flushes already in flight
// run to completion on the store side but their late results no longer
// affect coordinator state. Intended for logout and test teardown.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for problemID, st := range c.keys {
		if st.pending == nil {
			continue
		}
		c.log.Debug().
			Str("problem", problemID).
			Uint64("version", st.pending.version).
			Msg("buffered draft abandoned by reset")
		for _, w := range st.pending.waiters {
			w <- ErrSaveAbandoned
		}
		st.pending = nil
	}
	c.keys = make(map[string]*keyState)
}
