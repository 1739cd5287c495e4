package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"tutorhub/internal/domain"
)

type DraftRepository struct {
	db *gorm.DB
}

func (r *DraftRepository) Save(ctx context.Context, draft *domain.Draft) error {
	m := draftModel{
		Token:     draft.Token,
		Kind:      draft.Kind,
		Payload:   string(draft.Payload),
		ExpiresAt: draft.ExpiresAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("insert draft: %w", err)
	}
	return nil
}

func (r *DraftRepository) Take(ctx context.Context, token, kind string) (*domain.Draft, error) {
	var m draftModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("token = ? AND kind = ?", token, kind).First(&m).Error; err != nil {
			return notFound(err, "draft")
		}
		return tx.Delete(&draftModel{}, "token = ?", token).Error
	})
	if err != nil {
		return nil, err
	}
	return &domain.Draft{
		Token:     m.Token,
		Kind:      m.Kind,
		Payload:   []byte(m.Payload),
		ExpiresAt: m.ExpiresAt,
	}, nil
}

func (r *DraftRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).Where("expires_at <= ?", now.UTC()).Delete(&draftModel{})
	if tx.Error != nil {
		return 0, fmt.Errorf("purge drafts: %w", tx.Error)
	}
	return tx.RowsAffected, nil
}
