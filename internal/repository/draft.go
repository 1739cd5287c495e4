package repository

import (
	"context"
	"time"

	"tutorhub/internal/domain"
)

// DraftRepository stores short-lived form drafts.
type DraftRepository interface {
	Save(ctx context.Context, draft *domain.Draft) error
	// Take returns and removes the draft in one step.
	Take(ctx context.Context, token, kind string) (*domain.Draft, error)
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
