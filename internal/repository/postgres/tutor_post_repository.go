package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tutorhub/internal/domain"
)

type TutorPostRepository struct {
	db *gorm.DB
}

func (r *TutorPostRepository) Create(ctx context.Context, post *domain.NewTutorPost) (int64, error) {
	availability := post.Availability
	if availability == nil {
		availability = domain.Availability{}
	}

	var id int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var subject subjectModel
		if err := tx.First(&subject, post.SubjectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.Invalid("Subject does not exist", "subjectId")
			}
			return fmt.Errorf("lookup subject: %w", err)
		}

		m := tutorPostModel{
			UserID:       post.UserID,
			Bio:          post.Bio,
			HourlyRate:   post.HourlyRate,
			ContactInfo:  post.ContactInfo,
			ProfilePhoto: post.ProfilePhoto,
			ProfileVideo: post.ProfileVideo,
			ResumePDF:    post.ResumePDF,
			Experience:   post.Experience,
			SubjectsText: domain.SubjectsText([]domain.Subject{{ID: subject.ID, Name: subject.Name}}),
			Availability: availability,
		}
		if err := tx.Omit(clause.Associations).Create(&m).Error; err != nil {
			return fmt.Errorf("insert tutor post: %w", err)
		}
		link := tutorSubjectModel{TutorPostID: m.ID, SubjectID: subject.ID}
		if err := tx.Omit(clause.Associations).Create(&link).Error; err != nil {
			return fmt.Errorf("link tutor subject: %w", err)
		}
		id = m.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *TutorPostRepository) Get(ctx context.Context, id int64) (*domain.TutorPost, error) {
	var m tutorPostModel
	err := r.withRelations(r.db.WithContext(ctx)).First(&m, id).Error
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("tutor post %d", id))
	}
	post := m.toDomain()
	return &post, nil
}

func (r *TutorPostRepository) Search(ctx context.Context, filter domain.TutorPostFilter, limit, offset int) ([]domain.TutorPost, error) {
	var rows []tutorPostModel
	err := r.withRelations(applyFilter(r.db.WithContext(ctx).Model(&tutorPostModel{}), filter)).
		Order("tutor_posts.created_at DESC, tutor_posts.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query tutor posts: %w", err)
	}
	return toDomainPosts(rows), nil
}

func (r *TutorPostRepository) Count(ctx context.Context, filter domain.TutorPostFilter) (int64, error) {
	var total int64
	if err := applyFilter(r.db.WithContext(ctx).Model(&tutorPostModel{}), filter).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count tutor posts: %w", err)
	}
	return total, nil
}

func (r *TutorPostRepository) ListByUser(ctx context.Context, userID int64) ([]domain.TutorPost, error) {
	var rows []tutorPostModel
	err := r.withRelations(r.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query user tutor posts: %w", err)
	}
	return toDomainPosts(rows), nil
}

func (r *TutorPostRepository) Update(ctx context.Context, id, ownerID int64, update domain.TutorPostUpdate) error {
	fields := map[string]any{"updated_at": time.Now().UTC()}
	if update.Bio != nil {
		fields["bio"] = *update.Bio
	}
	if update.HourlyRate != nil {
		fields["hourly_rate"] = *update.HourlyRate
	}
	if update.Experience != nil {
		fields["experience"] = *update.Experience
	}
	tx := r.db.WithContext(ctx).Model(&tutorPostModel{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Updates(fields)
	return requireAffected(tx, "update tutor post")
}

func (r *TutorPostRepository) Delete(ctx context.Context, id, ownerID int64) error {
	tx := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&tutorPostModel{})
	return requireAffected(tx, "delete tutor post")
}

func (r *TutorPostRepository) PriceRange(ctx context.Context) (domain.PriceRange, error) {
	var row struct {
		Lo    float64
		Hi    float64
		Total int64
	}
	err := r.db.WithContext(ctx).Model(&tutorPostModel{}).
		Select("COALESCE(MIN(hourly_rate), 0) AS lo, COALESCE(MAX(hourly_rate), 0) AS hi, COUNT(*) AS total").
		Scan(&row).Error
	if err != nil {
		return domain.PriceRange{}, fmt.Errorf("price range: %w", err)
	}
	return domain.PriceRange{Min: row.Lo, Max: row.Hi, Count: row.Total}, nil
}

func (r *TutorPostRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("User").Preload("TutorSubjects.Subject")
}

// applyFilter adds the listing predicates shared by Search and Count.
func applyFilter(db *gorm.DB, filter domain.TutorPostFilter) *gorm.DB {
	db = db.Joins("JOIN users u ON u.id = tutor_posts.user_id")
	if q := filter.NormalizedQuery(); q != "" {
		pattern := "%" + escapeLike(q) + "%"
		db = db.Where(`(LOWER(u.username) LIKE ? ESCAPE '\'
	OR LOWER(tutor_posts.bio) LIKE ? ESCAPE '\'
	OR LOWER(tutor_posts.subjects) LIKE ? ESCAPE '\')`, pattern, pattern, pattern)
	}
	if filter.Subject != "" {
		db = db.Where(`EXISTS (
	SELECT 1 FROM tutor_subjects ts
	JOIN subjects s ON s.id = ts.subject_id
	WHERE ts.tutor_post_id = tutor_posts.id AND s.subject_name = ?)`, filter.Subject)
	}
	if filter.MinPrice != nil {
		db = db.Where("tutor_posts.hourly_rate >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		db = db.Where("tutor_posts.hourly_rate <= ?", *filter.MaxPrice)
	}
	return db
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func toDomainPosts(rows []tutorPostModel) []domain.TutorPost {
	posts := make([]domain.TutorPost, 0, len(rows))
	for _, m := range rows {
		posts = append(posts, m.toDomain())
	}
	return posts
}
