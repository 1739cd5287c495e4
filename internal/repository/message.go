package repository

import (
	"context"

	"tutorhub/internal/domain"
)

// MessageRepository persists direct messages.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) (int64, error)
	ListForUser(ctx context.Context, userID int64) ([]domain.Message, error)
}
