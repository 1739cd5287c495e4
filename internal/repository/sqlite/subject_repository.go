package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"tutorhub/internal/domain"
	"tutorhub/internal/repository"
)

type SubjectRepository struct {
	db *sql.DB
}

func NewSubjectRepository(db *sql.DB) repository.SubjectRepository {
	return &SubjectRepository{db: db}
}

func (r *SubjectRepository) List(ctx context.Context) ([]domain.Subject, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, subject_name
FROM subjects
ORDER BY subject_name ASC`)
	if err != nil {
		return nil, fmt.Errorf("query subjects: %w", err)
	}
	defer rows.Close()

	var subjects []domain.Subject
	for rows.Next() {
		var s domain.Subject
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

// ListActive returns subjects referenced by at least one post.
func (r *SubjectRepository) ListActive(ctx context.Context) ([]domain.ActiveSubject, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT s.id, s.subject_name, COUNT(DISTINCT ts.tutor_post_id)
FROM subjects s
JOIN tutor_subjects ts ON ts.subject_id = s.id
GROUP BY s.id, s.subject_name
ORDER BY s.subject_name ASC`)
	if err != nil {
		return nil, fmt.Errorf("query active subjects: %w", err)
	}
	defer rows.Close()

	var subjects []domain.ActiveSubject
	for rows.Next() {
		var s domain.ActiveSubject
		if err := rows.Scan(&s.ID, &s.Name, &s.TutorCount); err != nil {
			return nil, fmt.Errorf("scan active subject: %w", err)
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

// EnsureNames inserts missing subjects and returns how many were added.
func (r *SubjectRepository) EnsureNames(ctx context.Context, names []string) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	added := 0
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		res, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO subjects (subject_name) VALUES (?)`, name)
		if err != nil {
			return 0, fmt.Errorf("insert subject %q: %w", name, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("subject rows affected: %w", err)
		}
		added += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit subjects: %w", err)
	}
	return added, nil
}

// loadSubjects fetches the subjects linked to each post id.
func loadSubjects(ctx context.Context, q interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}, postIDs []int64) (map[int64][]domain.Subject, error) {
	out := make(map[int64][]domain.Subject, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}

	args := make([]any, len(postIDs))
	for i, id := range postIDs {
		args[i] = id
	}
	rows, err := q.QueryContext(ctx, `
SELECT ts.tutor_post_id, s.id, s.subject_name
FROM tutor_subjects ts
JOIN subjects s ON s.id = ts.subject_id
WHERE ts.tutor_post_id IN (`+placeholders(len(postIDs))+`)
ORDER BY s.subject_name ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("query post subjects: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			postID int64
			s      domain.Subject
		)
		if err := rows.Scan(&postID, &s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("scan post subject: %w", err)
		}
		out[postID] = append(out[postID], s)
	}
	return out, rows.Err()
}
