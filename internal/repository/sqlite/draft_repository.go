package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tutorhub/internal/domain"
	"tutorhub/internal/repository"
)

type DraftRepository struct {
	db *sql.DB
}

func NewDraftRepository(db *sql.DB) repository.DraftRepository {
	return &DraftRepository{db: db}
}

func (r *DraftRepository) Save(ctx context.Context, draft *domain.Draft) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO pending_drafts (token, kind, payload, expires_at)
VALUES (?, ?, ?, ?)`,
		draft.Token,
		draft.Kind,
		string(draft.Payload),
		draft.ExpiresAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert draft: %w", err)
	}
	return nil
}

func (r *DraftRepository) Take(ctx context.Context, token, kind string) (*domain.Draft, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var (
		d       domain.Draft
		payload string
	)
	err = tx.QueryRowContext(ctx, `
SELECT token, kind, payload, expires_at
FROM pending_drafts
WHERE token = ? AND kind = ?`, token, kind).
		Scan(&d.Token, &d.Kind, &payload, &d.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("draft: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scan draft: %w", err)
	}
	d.Payload = []byte(payload)

	if _, err := tx.ExecContext(ctx, `DELETE FROM pending_drafts WHERE token = ?`, token); err != nil {
		return nil, fmt.Errorf("delete draft: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit draft: %w", err)
	}
	return &d, nil
}

func (r *DraftRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pending_drafts WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("purge drafts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge drafts rows affected: %w", err)
	}
	return n, nil
}
