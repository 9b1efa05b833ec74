package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jammy0903/C-ode-to-you-sub001/internal/editor"
)

// Difficulty buckets problems the way the platform grades them.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ProblemSummary is the catalog row shown in lists.
type ProblemSummary struct {
	ID         string     `json:"id"`
	Number     int        `json:"number"`
	Title      string     `json:"title"`
	Difficulty Difficulty `json:"difficulty"`
	Tags       []string   `json:"tags"`
	Solved     bool       `json:"solved"`
}

// Problem is the full problem: the summary plus the markdown statement
// and per-language starter code.
type Problem struct {
	ProblemSummary
	Statement string            `json:"statement"`
	Starters  map[string]string `json:"starters"`
}

// ProblemFilter narrows the catalog listing. Zero values mean "all".
type ProblemFilter struct {
	Difficulty Difficulty
	Tag        string
	Search     string
	Page       int
}

// ListProblems returns the catalog page matching f.
func (c *Client) ListProblems(ctx context.Context, f ProblemFilter) ([]ProblemSummary, error) {
	q := url.Values{}
	if f.Difficulty != "" {
		q.Set("difficulty", string(f.Difficulty))
	}
	if f.Tag != "" {
		q.Set("tag", f.Tag)
	}
	if f.Search != "" {
		q.Set("q", f.Search)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}

	var out struct {
		Problems []ProblemSummary `json:"problems"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/problems", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Problems, nil
}

// GetProblem fetches one problem with its statement and starters.
func (c *Client) GetProblem(ctx context.Context, id string) (*Problem, error) {
	var p Problem
	if err := c.do(ctx, http.MethodGet, "/v1/problems/"+url.PathEscape(id), nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Submission is the judge's verdict for submitted code. Status is one of
// "pending", "accepted", "wrong_answer", "runtime_error", "time_limit".
type Submission struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Passed    int    `json:"passed"`
	Total     int    `json:"total"`
	RuntimeMS int64  `json:"runtime_ms"`
	Message   string `json:"message"`
}

// Accepted reports whether the submission passed every test case.
func (s *Submission) Accepted() bool { return s.Status == "accepted" }

// Submit sends a draft to the judge and returns the verdict. The platform
// judges synchronously for the supported languages, so this blocks until
// the verdict is in or ctx is done.
func (c *Client) Submit(ctx context.Context, problemID string, d editor.Draft) (*Submission, error) {
	body := struct {
		Code     string `json:"code"`
		Language string `json:"language"`
	}{Code: d.Code, Language: d.Language}

	var sub Submission
	err := c.do(ctx, http.MethodPost, "/v1/problems/"+url.PathEscape(problemID)+"/submissions", nil, body, &sub)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
