package repository

import (
	"context"
	"time"

	"tutorhub/internal/domain"
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	RecordLogin(ctx context.Context, id int64, at time.Time, username string) error
}
