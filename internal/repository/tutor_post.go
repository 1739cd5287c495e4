package repository

import (
	"context"

	"tutorhub/internal/domain"
)

// TutorPostRepository exposes persistence operations for tutor posts and
// their subject links.
type TutorPostRepository interface {
	// Create stores the post and its single subject link atomically.
	Create(ctx context.Context, post *domain.NewTutorPost) (int64, error)
	Get(ctx context.Context, id int64) (*domain.TutorPost, error)
	Search(ctx context.Context, filter domain.TutorPostFilter, limit, offset int) ([]domain.TutorPost, error)
	Count(ctx context.Context, filter domain.TutorPostFilter) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.TutorPost, error)
	Update(ctx context.Context, id, ownerID int64, update domain.TutorPostUpdate) error
	// Delete removes the post only when it belongs to ownerID.
	Delete(ctx context.Context, id, ownerID int64) error
	PriceRange(ctx context.Context) (domain.PriceRange, error)
}
