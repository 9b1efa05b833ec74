package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/jammy0903/C-ode-to-you-sub001/internal/editor"
)

// RemoteDrafts is the platform-backed editor.DraftStore. Logged-in users
// save through this so drafts follow them across devices.
type RemoteDrafts struct {
	c *Client
}

var _ editor.DraftStore = (*RemoteDrafts)(nil)

// Drafts returns the remote draft store writing through this client.
func (c *Client) Drafts() *RemoteDrafts {
	return &RemoteDrafts{c: c}
}

type draftPayload struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// SaveDraft uploads the draft, replacing the previous one for the problem.
func (r *RemoteDrafts) SaveDraft(ctx context.Context, problemID string, d editor.Draft) error {
	path := "/v1/drafts/" + url.PathEscape(problemID)
	return r.c.do(ctx, http.MethodPut, path, nil, draftPayload{Code: d.Code, Language: d.Language}, nil)
}

// LoadDraft downloads the draft, or (nil, nil) when the problem has none.
func (r *RemoteDrafts) LoadDraft(ctx context.Context, problemID string) (*editor.Draft, error) {
	var p draftPayload
	path := "/v1/drafts/" + url.PathEscape(problemID)
	err := r.c.do(ctx, http.MethodGet, path, nil, nil, &p)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &editor.Draft{Code: p.Code, Language: p.Language}, nil
}
