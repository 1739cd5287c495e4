package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"tutorhub/internal/domain"
	"tutorhub/internal/repository"
)

// SubjectService serves the subject catalog.
type SubjectService interface {
	All(ctx context.Context) ([]domain.Subject, error)
	Active(ctx context.Context) ([]domain.ActiveSubject, error)
	Seed(ctx context.Context, names []string) (int, error)
}

type subjectService struct {
	subjects repository.SubjectRepository
	logger   logrus.FieldLogger
}

func NewSubjectService(subjects repository.SubjectRepository, logger logrus.FieldLogger) SubjectService {
	return &subjectService{subjects: subjects, logger: logger}
}

func (s *subjectService) All(ctx context.Context) ([]domain.Subject, error) {
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, err
	}
	if subjects == nil {
		subjects = []domain.Subject{}
	}
	return subjects, nil
}

func (s *subjectService) Active(ctx context.Context) ([]domain.ActiveSubject, error) {
	subjects, err := s.subjects.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if subjects == nil {
		subjects = []domain.ActiveSubject{}
	}
	return subjects, nil
}

// Seed inserts any of names that are not yet in the catalog.
func (s *subjectService) Seed(ctx context.Context, names []string) (int, error) {
	added, err := s.subjects.EnsureNames(ctx, names)
	if err != nil {
		return 0, err
	}
	if added > 0 {
		s.logger.WithField("added", added).Info("seeded subjects")
	}
	return added, nil
}
