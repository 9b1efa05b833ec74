package auth

import (
	"context"
	"time"

	"github.com/jammy0903/C-ode-to-you-sub001/internal/api"
)

// Tokens exposes the stored session as a bearer-token source for the API
// client. A missing or expired session yields an empty token, so calls go
// out unauthenticated instead of failing.
type Tokens struct {
	sessions Sessions
	now      func() time.Time
}

var _ api.TokenSource = (*Tokens)(nil)

// NewTokens creates a token source reading from the given session store.
func NewTokens(sessions Sessions) *Tokens {
	return &Tokens{sessions: sessions, now: time.Now}
}

func (t *Tokens) Token(ctx context.Context) (string, error) {
	s, err := t.sessions.Load(ctx)
	if err != nil || s == nil {
		return "", err
	}
	if s.Expired(t.now()) {
		return "", nil
	}
	return s.AccessToken, nil
}
