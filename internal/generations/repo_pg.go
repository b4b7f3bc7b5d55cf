package generations

import (
	"context"
	"database/sql"
	"errors"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Insert(ctx context.Context, gen Generation) error {
	const query = `
INSERT INTO generations (id, user_id, prompt, model, max_tokens, generated_text, source, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.DB.ExecContext(ctx, query,
		gen.ID,
		gen.UserID,
		gen.Prompt,
		gen.Model,
		gen.MaxTokens,
		gen.GeneratedText,
		gen.Source,
		gen.CreatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Generation, error) {
	const query = `
SELECT id, user_id, prompt, model, max_tokens, generated_text, source, created_at
FROM generations
WHERE id = $1
LIMIT 1`
	var gen Generation
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&gen.ID,
		&gen.UserID,
		&gen.Prompt,
		&gen.Model,
		&gen.MaxTokens,
		&gen.GeneratedText,
		&gen.Source,
		&gen.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Generation{}, ErrNotFound
		}
		return Generation{}, err
	}
	return gen, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Generation, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT id, user_id, prompt, model, max_tokens, generated_text, source, created_at
FROM generations
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Generation{}
	for rows.Next() {
		var gen Generation
		if err := rows.Scan(
			&gen.ID,
			&gen.UserID,
			&gen.Prompt,
			&gen.Model,
			&gen.MaxTokens,
			&gen.GeneratedText,
			&gen.Source,
			&gen.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, gen)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
