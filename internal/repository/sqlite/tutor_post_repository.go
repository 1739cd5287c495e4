package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"tutorhub/internal/domain"
	"tutorhub/internal/repository"
)

const selectPostColumns = `
SELECT p.id, p.user_id, p.bio, p.hourly_rate, p.contact_info,
	p.profile_photo, p.profile_video, p.resume_pdf, p.experience, p.reviews,
	p.subjects, p.availability, p.created_at, p.updated_at,
	u.username, u.email
FROM tutor_posts p
JOIN users u ON u.id = p.user_id`

type TutorPostRepository struct {
	db *sql.DB
}

func NewTutorPostRepository(db *sql.DB) repository.TutorPostRepository {
	return &TutorPostRepository{db: db}
}

func (r *TutorPostRepository) Create(ctx context.Context, post *domain.NewTutorPost) (int64, error) {
	availability, err := encodeAvailability(post.Availability)
	if err != nil {
		return 0, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var subjectName string
	err = tx.QueryRowContext(ctx, `SELECT subject_name FROM subjects WHERE id = ?`, post.SubjectID).
		Scan(&subjectName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.Invalid("Subject does not exist", "subjectId")
		}
		return 0, fmt.Errorf("lookup subject: %w", err)
	}

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx, `
INSERT INTO tutor_posts (
	user_id, bio, hourly_rate, contact_info,
	profile_photo, profile_video, resume_pdf, experience,
	subjects, availability, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		post.UserID,
		post.Bio,
		post.HourlyRate,
		post.ContactInfo,
		nullString(post.ProfilePhoto),
		nullString(post.ProfileVideo),
		nullString(post.ResumePDF),
		nullString(post.Experience),
		domain.SubjectsText([]domain.Subject{{ID: post.SubjectID, Name: subjectName}}),
		availability,
		now,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("insert tutor post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("tutor post last insert id: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO tutor_subjects (tutor_post_id, subject_id) VALUES (?, ?)`,
		id, post.SubjectID,
	); err != nil {
		return 0, fmt.Errorf("link tutor subject: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tutor post: %w", err)
	}
	return id, nil
}

func (r *TutorPostRepository) Get(ctx context.Context, id int64) (*domain.TutorPost, error) {
	row := r.db.QueryRowContext(ctx, selectPostColumns+` WHERE p.id = ?`, id)
	post, err := scanTutorPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("tutor post %d: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}

	subjects, err := loadSubjects(ctx, r.db, []int64{post.ID})
	if err != nil {
		return nil, err
	}
	post.Subjects = subjects[post.ID]
	return post, nil
}

func (r *TutorPostRepository) Search(ctx context.Context, filter domain.TutorPostFilter, limit, offset int) ([]domain.TutorPost, error) {
	where, args := buildPostFilter(filter)
	args = append(args, limit, offset)
	return r.list(ctx, selectPostColumns+where+`
ORDER BY p.created_at DESC, p.id DESC
LIMIT ? OFFSET ?`, args...)
}

func (r *TutorPostRepository) Count(ctx context.Context, filter domain.TutorPostFilter) (int64, error) {
	where, args := buildPostFilter(filter)
	var total int64
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*)
FROM tutor_posts p
JOIN users u ON u.id = p.user_id`+where, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count tutor posts: %w", err)
	}
	return total, nil
}

func (r *TutorPostRepository) ListByUser(ctx context.Context, userID int64) ([]domain.TutorPost, error) {
	return r.list(ctx, selectPostColumns+`
WHERE p.user_id = ?
ORDER BY p.created_at DESC, p.id DESC`, userID)
}

func (r *TutorPostRepository) Update(ctx context.Context, id, ownerID int64, update domain.TutorPostUpdate) error {
	var (
		sets []string
		args []any
	)
	if update.Bio != nil {
		sets = append(sets, "bio = ?")
		args = append(args, *update.Bio)
	}
	if update.HourlyRate != nil {
		sets = append(sets, "hourly_rate = ?")
		args = append(args, *update.HourlyRate)
	}
	if update.Experience != nil {
		sets = append(sets, "experience = ?")
		args = append(args, *update.Experience)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id, ownerID)

	res, err := r.db.ExecContext(ctx, `
UPDATE tutor_posts
SET `+strings.Join(sets, ", ")+`
WHERE id = ? AND user_id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update tutor post: %w", err)
	}
	return requireAffected(res, "tutor post")
}

func (r *TutorPostRepository) Delete(ctx context.Context, id, ownerID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tutor_posts WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete tutor post: %w", err)
	}
	return requireAffected(res, "tutor post")
}

func (r *TutorPostRepository) PriceRange(ctx context.Context) (domain.PriceRange, error) {
	var (
		pr     domain.PriceRange
		lo, hi sql.NullFloat64
	)
	err := r.db.QueryRowContext(ctx, `
SELECT MIN(hourly_rate), MAX(hourly_rate), COUNT(*)
FROM tutor_posts`).Scan(&lo, &hi, &pr.Count)
	if err != nil {
		return pr, fmt.Errorf("price range: %w", err)
	}
	pr.Min = lo.Float64
	pr.Max = hi.Float64
	return pr, nil
}

func (r *TutorPostRepository) list(ctx context.Context, query string, args ...any) ([]domain.TutorPost, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tutor posts: %w", err)
	}
	defer rows.Close()

	var (
		posts []domain.TutorPost
		ids   []int64
	)
	for rows.Next() {
		post, err := scanTutorPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
		ids = append(ids, post.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tutor posts: %w", err)
	}
	// release the single connection before the follow-up query
	rows.Close()

	subjects, err := loadSubjects(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].Subjects = subjects[posts[i].ID]
	}
	return posts, nil
}

func buildPostFilter(filter domain.TutorPostFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if q := filter.NormalizedQuery(); q != "" {
		pattern := "%" + escapeLike(q) + "%"
		clauses = append(clauses, `(utf8_lower(u.username) LIKE ? ESCAPE '\'
	OR utf8_lower(p.bio) LIKE ? ESCAPE '\'
	OR utf8_lower(p.subjects) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}
	if filter.Subject != "" {
		clauses = append(clauses, `EXISTS (
	SELECT 1 FROM tutor_subjects ts
	JOIN subjects s ON s.id = ts.subject_id
	WHERE ts.tutor_post_id = p.id AND s.subject_name = ?)`)
		args = append(args, filter.Subject)
	}
	if filter.MinPrice != nil {
		clauses = append(clauses, "p.hourly_rate >= ?")
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		clauses = append(clauses, "p.hourly_rate <= ?")
		args = append(args, *filter.MaxPrice)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return "\nWHERE " + strings.Join(clauses, "\n\tAND "), args
}

func scanTutorPost(row scanner) (*domain.TutorPost, error) {
	var (
		post                        domain.TutorPost
		photo, video, resume, exper sql.NullString
		reviews                     sql.NullInt64
		availability                string
	)
	if err := row.Scan(
		&post.ID,
		&post.UserID,
		&post.Bio,
		&post.HourlyRate,
		&post.ContactInfo,
		&photo,
		&video,
		&resume,
		&exper,
		&reviews,
		&post.SubjectsText,
		&availability,
		&post.CreatedAt,
		&post.UpdatedAt,
		&post.Owner.Username,
		&post.Owner.Email,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan tutor post: %w", err)
	}
	post.ProfilePhoto = stringPtr(photo)
	post.ProfileVideo = stringPtr(video)
	post.ResumePDF = stringPtr(resume)
	post.Experience = stringPtr(exper)
	if reviews.Valid {
		n := int(reviews.Int64)
		post.Reviews = &n
	}
	a, err := decodeAvailability(availability)
	if err != nil {
		return nil, fmt.Errorf("tutor post %d: %w", post.ID, err)
	}
	post.Availability = a
	return &post, nil
}

func encodeAvailability(a domain.Availability) (string, error) {
	if a == nil {
		a = domain.Availability{}
	}
	b, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("encode availability: %w", err)
	}
	return string(b), nil
}

func decodeAvailability(raw string) (domain.Availability, error) {
	a := domain.Availability{}
	if raw == "" {
		return a, nil
	}
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return nil, fmt.Errorf("decode availability: %w", err)
	}
	return a, nil
}
