// Package repo implements history persistence on Postgres
package repo

import (
	"context"

	perr "incant/internal/platform/errors"
	"incant/internal/platform/store/pg"
	"incant/internal/services/history/domain"
)

// PG is the Postgres-backed history repository
type PG struct {
	db *pg.PG
}

// NewPG builds a repository over an open pool
func NewPG(db *pg.PG) *PG {
	return &PG{db: db}
}

// Record inserts one translation row
func (r *PG) Record(ctx context.Context, t domain.Translation) error {
	const q = `
		INSERT INTO translations
			(id, input, normalized, domain, intent, confidence, command, template_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Pool.Exec(ctx, q,
		t.ID, t.Input, t.Normalized, t.Domain, t.Intent,
		t.Confidence, t.Command, t.TemplateID, t.Status, t.CreatedAt,
	)
	if err != nil {
		return perr.MapPg(err)
	}
	return nil
}

// Recent returns the newest rows, optionally filtered by domain
func (r *PG) Recent(ctx context.Context, in domain.RecentQuery) ([]domain.Translation, error) {
	const q = `
		SELECT id, input, normalized, domain, intent, confidence, command, template_id, status, created_at
		FROM translations
		WHERE ($1 = '' OR domain = $1)
		ORDER BY created_at DESC
		LIMIT $2`
	rows, err := r.db.Pool.Query(ctx, q, in.Domain, in.Limit)
	if err != nil {
		return nil, perr.MapPg(err)
	}
	defer rows.Close()

	var out []domain.Translation
	for rows.Next() {
		var t domain.Translation
		if err := rows.Scan(
			&t.ID, &t.Input, &t.Normalized, &t.Domain, &t.Intent,
			&t.Confidence, &t.Command, &t.TemplateID, &t.Status, &t.CreatedAt,
		); err != nil {
			return nil, perr.MapPg(err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.MapPg(err)
	}
	return out, nil
}
