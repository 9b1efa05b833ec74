package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Message roles stored in chat history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of a problem's chat thread.
type ChatMessage struct {
	ID        int64
	ProblemID string
	Role      string
	Content   string
	CreatedAt time.Time
}

// Usage aggregates recorded model usage.
type Usage struct {
	Requests     int
	InputTokens  int
	OutputTokens int
}

// ChatRepo stores per-problem chat threads and model usage records.
type ChatRepo struct {
	db *sql.DB
}

// Append adds a message to a problem's thread.
func (r *ChatRepo) Append(ctx context.Context, problemID, role, content string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO chat_messages (problem_id, role, content, created_at)
		VALUES (?, ?, ?, ?)`,
		problemID, role, content, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("append chat message: %w", err)
	}
	return nil
}

// History returns the last limit messages of a thread in chronological
// order. limit <= 0 returns the whole thread.
func (r *ChatRepo) History(ctx context.Context, problemID string, limit int) ([]ChatMessage, error) {
	query := `
		SELECT id, problem_id, role, content, created_at
		FROM chat_messages
		WHERE problem_id = ?
		ORDER BY id`
	args := []any{problemID}
	if limit > 0 {
		query = `
			SELECT id, problem_id, role, content, created_at FROM (
				SELECT id, problem_id, role, content, created_at
				FROM chat_messages
				WHERE problem_id = ?
				ORDER BY id DESC
				LIMIT ?
			) ORDER BY id`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query chat history: %w", err)
	}
	defer rows.Close()

	var out []ChatMessage
	for rows.Next() {
		var m ChatMessage
		if err := rows.Scan(&m.ID, &m.ProblemID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Clear deletes a problem's thread.
func (r *ChatRepo) Clear(ctx context.Context, problemID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM chat_messages WHERE problem_id = ?`, problemID); err != nil {
		return fmt.Errorf("clear chat history: %w", err)
	}
	return nil
}

// ClearAll deletes every thread. Used on logout.
func (r *ChatRepo) ClearAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM chat_messages`); err != nil {
		return fmt.Errorf("clear chat histories: %w", err)
	}
	return nil
}

// RecordUsage appends one model call's token counts.
func (r *ChatRepo) RecordUsage(ctx context.Context, model string, inputTokens, outputTokens int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO llm_usage (model, input_tokens, output_tokens, created_at)
		VALUES (?, ?, ?, ?)`,
		model, inputTokens, outputTokens, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("record usage: %w", err)
	}
	return nil
}

// UsageTotals sums all recorded usage.
func (r *ChatRepo) UsageTotals(ctx context.Context) (Usage, error) {
	var u Usage
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(input_tokens), 0), COALESCE(SUM(output_tokens), 0)
		FROM llm_usage`,
	).Scan(&u.Requests, &u.InputTokens, &u.OutputTokens)
	if err != nil {
		return Usage{}, fmt.Errorf("sum usage: %w", err)
	}
	return u, nil
}

// UsageByModel sums recorded usage per model ID.
func (r *ChatRepo) UsageByModel(ctx context.Context) (map[string]Usage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT model, COUNT(*), SUM(input_tokens), SUM(output_tokens)
		FROM llm_usage
		GROUP BY model`,
	)
	if err != nil {
		return nil, fmt.Errorf("sum usage by model: %w", err)
	}
	defer rows.Close()

	out := make(map[string]Usage)
	for rows.Next() {
		var model string
		var u Usage
		if err := rows.Scan(&model, &u.Requests, &u.InputTokens, &u.OutputTokens); err != nil {
			return nil, fmt.Errorf("scan usage row: %w", err)
		}
		out[model] = u
	}
	return out, rows.Err()
}
