package api

import (
	"context"
	"net/http"
	"time"
)

// Profile is the logged-in user as the platform sees them.
type Profile struct {
	UserID      string    `json:"user_id"`
	Nickname    string    `json:"nickname"`
	Email       string    `json:"email"`
	SolvedCount int       `json:"solved_count"`
	StreakDays  int       `json:"streak_days"`
	JoinedAt    time.Time `json:"joined_at"`
}

// Profile fetches the current user's profile. Returns ErrUnauthorized
// when the token is no longer valid.
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := c.do(ctx, http.MethodGet, "/v1/me", nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
