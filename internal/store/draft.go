package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jammy0903/C-ode-to-you-sub001/internal/editor"
)

// DraftRepo persists solution drafts keyed by problem id. It is the local
// implementation of editor.DraftStore; the api package provides the remote
// one.
type DraftRepo struct {
	db *sql.DB
}

var _ editor.DraftStore = (*DraftRepo)(nil)

// StoredDraft is a draft row together with its bookkeeping columns.
type StoredDraft struct {
	ProblemID string
	Draft     editor.Draft
	UpdatedAt time.Time
}

// SaveDraft inserts or replaces the draft for a problem.
func (r *DraftRepo) SaveDraft(ctx context.Context, problemID string, d editor.Draft) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO drafts (problem_id, code, language, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(problem_id) DO UPDATE SET
			code = excluded.code,
			language = excluded.language,
			updated_at = excluded.updated_at`,
		problemID, d.Code, d.Language, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// LoadDraft returns the draft for a problem, or nil if none is stored.
func (r *DraftRepo) LoadDraft(ctx context.Context, problemID string) (*editor.Draft, error) {
	var d editor.Draft
	err := r.db.QueryRowContext(ctx,
		`SELECT code, language FROM drafts WHERE problem_id = ?`, problemID,
	).Scan(&d.Code, &d.Language)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}
	return &d, nil
}

// List returns all drafts, most recently updated first.
func (r *DraftRepo) List(ctx context.Context) ([]StoredDraft, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT problem_id, code, language, updated_at
		FROM drafts
		ORDER BY updated_at DESC, problem_id`)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer rows.Close()

	var out []StoredDraft
	for rows.Next() {
		var sd StoredDraft
		if err := rows.Scan(&sd.ProblemID, &sd.Draft.Code, &sd.Draft.Language, &sd.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan draft: %w", err)
		}
		out = append(out, sd)
	}
	return out, rows.Err()
}

// Delete removes the draft for a problem. Deleting a missing draft is not
// an error.
func (r *DraftRepo) Delete(ctx context.Context, problemID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE problem_id = ?`, problemID); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

// DeleteAll removes every stored draft.
func (r *DraftRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM drafts`); err != nil {
		return fmt.Errorf("delete drafts: %w", err)
	}
	return nil
}
