// Package api is the HTTP client for the Code to You platform: problem
// catalog, remote drafts, device login, submissions, and the user profile.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.codetoyou.app"

// EnvBaseURL overrides the API endpoint, mainly for staging.
const EnvBaseURL = "CODETOYOU_API_URL"

const userAgent = "codetoyou-cli"

// TokenSource supplies the bearer token for authenticated calls. An empty
// token means the call goes out unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed-token TokenSource for tests and one-shot calls.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

// BaseURL returns the configured API endpoint: $CODETOYOU_API_URL when
// set, otherwise the production URL.
func BaseURL() string {
	if u := os.Getenv(EnvBaseURL); u != "" {
		return u
	}
	return DefaultBaseURL
}

// Client talks to the platform API. All methods honor ctx and return
// *Error (wrapping the package sentinels) for non-2xx responses.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     zerolog.Logger
}

// New creates a Client for the API at baseURL. tokens may be nil for a
// client that only calls public endpoints.
func New(baseURL string, tokens TokenSource, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		tokens:  tokens,
		log:     log.With().Str("component", "api").Logger(),
	}
}

// do performs one API call: marshal body, send, decompress, decode into
// out. Responses are requested gzip-encoded; setting Accept-Encoding
// ourselves disables the transport's transparent handling, so the body is
// decompressed here.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	// Sent with the request and logged locally, so a client log line can
	// be matched to the server's.
	requestID := uuid.New().String()
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		tok, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("resolve token: %w", err)
		}
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	reader := io.Reader(resp.Body)
	if strings.Contains(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return fmt.Errorf("open gzip body: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("api call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, reader)
	}
	if out == nil {
		io.Copy(io.Discard, reader)
		return nil
	}
	if err := json.NewDecoder(reader).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError builds an *Error from an error response body. Bodies that
// are not the documented {"code","message"} shape still produce a usable
// status-only error.
func decodeError(status int, r io.Reader) error {
	apiErr := &Error{Status: status}
	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 1<<16)).Decode(&payload); err == nil {
		apiErr.Code = payload.Code
		apiErr.Message = payload.Message
	}
	return apiErr
}
