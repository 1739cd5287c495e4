package repository

import (
	"context"

	"tutorhub/internal/domain"
)

// SubjectRepository reads and seeds the subject catalog.
type SubjectRepository interface {
	List(ctx context.Context) ([]domain.Subject, error)
	ListActive(ctx context.Context) ([]domain.ActiveSubject, error)
	EnsureNames(ctx context.Context, names []string) (int, error)
}
