package postgres

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tutorhub/internal/domain"
)

type SubjectRepository struct {
	db *gorm.DB
}

func (r *SubjectRepository) List(ctx context.Context) ([]domain.Subject, error) {
	var rows []subjectModel
	if err := r.db.WithContext(ctx).Order("subject_name ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query subjects: %w", err)
	}
	subjects := make([]domain.Subject, 0, len(rows))
	for _, m := range rows {
		subjects = append(subjects, domain.Subject{ID: m.ID, Name: m.Name})
	}
	return subjects, nil
}

func (r *SubjectRepository) ListActive(ctx context.Context) ([]domain.ActiveSubject, error) {
	var rows []struct {
		ID          int64
		SubjectName string
		TutorCount  int64
	}
	err := r.db.WithContext(ctx).
		Table("subjects AS s").
		Select("s.id, s.subject_name, COUNT(DISTINCT ts.tutor_post_id) AS tutor_count").
		Joins("JOIN tutor_subjects ts ON ts.subject_id = s.id").
		Group("s.id, s.subject_name").
		Order("s.subject_name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query active subjects: %w", err)
	}
	out := make([]domain.ActiveSubject, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.ActiveSubject{
			Subject:    domain.Subject{ID: row.ID, Name: row.SubjectName},
			TutorCount: row.TutorCount,
		})
	}
	return out, nil
}

func (r *SubjectRepository) EnsureNames(ctx context.Context, names []string) (int, error) {
	added := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range names {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "subject_name"}},
				DoNothing: true,
			}).Create(&subjectModel{Name: name})
			if res.Error != nil {
				return fmt.Errorf("insert subject %q: %w", name, res.Error)
			}
			added += int(res.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}
