package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"tutorhub/internal/domain"
)

type UserRepository struct {
	db *gorm.DB
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	m := userModel{
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Username:     user.Username,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, fmt.Errorf("insert user %q: %w", user.Email, domain.ErrDuplicateEmail)
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	user.ID = m.ID
	user.CreatedAt = m.CreatedAt
	user.UpdatedAt = m.UpdatedAt
	return m.ID, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return m.toDomain(), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return m.toDomain(), nil
}

func (r *UserRepository) RecordLogin(ctx context.Context, id int64, at time.Time, username string) error {
	tx := r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", id).Updates(map[string]any{
		"last_login": at.UTC(),
		"username":   gorm.Expr("CASE WHEN username = '' THEN ? ELSE username END", username),
		"updated_at": at.UTC(),
	})
	return requireAffected(tx, "record login")
}
