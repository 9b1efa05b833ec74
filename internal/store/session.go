package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Session is the logged-in platform identity cached locally.
type Session struct {
	AccessToken string
	UserID      string
	Nickname    string
	ExpiresAt   time.Time
}

// Expired reports whether the access token's lifetime has passed.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// SessionRepo stores the single login session. The table holds at most
// one row; logging in again replaces it.
type SessionRepo struct {
	db *sql.DB
}

// Save replaces the stored session.
func (r *SessionRepo) Save(ctx context.Context, s *Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO session (id, access_token, user_id, nickname, expires_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			access_token = excluded.access_token,
			user_id = excluded.user_id,
			nickname = excluded.nickname,
			expires_at = excluded.expires_at`,
		s.AccessToken, s.UserID, s.Nickname, s.ExpiresAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Load returns the stored session, or nil when logged out.
func (r *SessionRepo) Load(ctx context.Context) (*Session, error) {
	var s Session
	err := r.db.QueryRowContext(ctx,
		`SELECT access_token, user_id, nickname, expires_at FROM session WHERE id = 1`,
	).Scan(&s.AccessToken, &s.UserID, &s.Nickname, &s.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return &s, nil
}

// Clear deletes the stored session.
func (r *SessionRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM session`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
