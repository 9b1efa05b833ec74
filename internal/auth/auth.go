// Package auth manages the signed-in platform session.
//
// Login uses the platform's device flow: the app shows a short code and a
// URL, the user approves in a browser, and the app polls until a token is
// minted. The token lives in the local store so a restart stays signed in.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jammy0903/C-ode-to-you-sub001/internal/api"
	"github.com/jammy0903/C-ode-to-you-sub001/internal/store"
)

// ErrLoginExpired means the device code lapsed before the user approved it.
var ErrLoginExpired = errors.New("device code expired before approval")

// API is the slice of the platform client the manager needs.
type API interface {
	BeginDeviceLogin(ctx context.Context) (*api.DeviceCode, error)
	PollDeviceLogin(ctx context.Context, deviceCode string) (*api.LoginResult, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*api.Profile, error)
}

var _ API = (*api.Client)(nil)

// Sessions persists the single login session.
type Sessions interface {
	Save(ctx context.Context, s *store.Session) error
	Load(ctx context.Context) (*store.Session, error)
	Clear(ctx context.Context) error
}

var _ Sessions = (*store.SessionRepo)(nil)

// Manager runs device-code logins and owns the stored session.
type Manager struct {
	api      API
	sessions Sessions
	log      zerolog.Logger

	// Overridable in tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewManager creates a session manager.
func NewManager(client API, sessions Sessions, log zerolog.Logger) *Manager {
	return &Manager{
		api:      client,
		sessions: sessions,
		log:      log.With().Str("component", "auth").Logger(),
		now:      time.Now,
		sleep:    sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Current returns the stored session, or nil when signed out. An expired
// session is cleared and reported as signed out.
func (m *Manager) Current(ctx context.Context) (*store.Session, error) {
	s, err := m.sessions.Load(ctx)
	if err != nil || s == nil {
		return nil, err
	}
	if s.Expired(m.now()) {
		m.log.Debug().Str("user_id", s.UserID).Msg("session expired")
		if err := m.sessions.Clear(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return s, nil
}

// BeginLogin starts a device login. Show the returned user code and
// verification URL to the user, then call WaitForLogin.
func (m *Manager) BeginLogin(ctx context.Context) (*api.DeviceCode, error) {
	dc, err := m.api.BeginDeviceLogin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin device login: %w", err)
	}
	m.log.Debug().
		Str("user_code", dc.UserCode).
		Int("expires_in", dc.ExpiresIn).
		Msg("device login started")
	return dc, nil
}

// WaitForLogin polls until the user approves the device, the code expires,
// or ctx is done. On success the session is persisted and returned.
func (m *Manager) WaitForLogin(ctx context.Context, dc *api.DeviceCode) (*store.Session, error) {
	interval := time.Duration(dc.Interval) * time.Second
	if interval <= 0 {
		interval = 5 * time.Second
	}
	expires := m.now().Add(time.Duration(dc.ExpiresIn) * time.Second)

	for {
		if err := m.sleep(ctx, interval); err != nil {
			return nil, err
		}
		if m.now().After(expires) {
			return nil, ErrLoginExpired
		}

		res, err := m.api.PollDeviceLogin(ctx, dc.DeviceCode)
		switch {
		case errors.Is(err, api.ErrAuthorizationPending):
			continue
		case errors.Is(err, api.ErrSlowDown):
			// The server wants a slower cadence.
			interval += 5 * time.Second
			continue
		case err != nil:
			return nil, fmt.Errorf("poll device login: %w", err)
		}

		s := &store.Session{
			AccessToken: res.AccessToken,
			UserID:      res.UserID,
			Nickname:    res.Nickname,
			ExpiresAt:   m.now().Add(time.Duration(res.ExpiresIn) * time.Second),
		}
		if err := m.sessions.Save(ctx, s); err != nil {
			return nil, fmt.Errorf("persist session: %w", err)
		}
		m.log.Debug().Str("user_id", s.UserID).Msg("logged in")
		return s, nil
	}
}

// Logout revokes the token server-side and clears the stored session. The
// local session is cleared even when revocation fails.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.api.Logout(ctx); err != nil {
		m.log.Warn().Err(err).Msg("token revocation failed")
	}
	if err := m.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Profile fetches the signed-in user's profile.
func (m *Manager) Profile(ctx context.Context) (*api.Profile, error) {
	return m.api.Profile(ctx)
}
