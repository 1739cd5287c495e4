package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tutorhub/internal/domain"
)

type MessageRepository struct {
	db *gorm.DB
}

func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) (int64, error) {
	m := messageModel{
		SenderID:    msg.SenderID,
		RecipientID: msg.RecipientID,
		TutorPostID: msg.TutorPostID,
		Body:        msg.Body,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&userModel{}, msg.RecipientID).Error; err != nil {
			return notFound(err, fmt.Sprintf("recipient %d", msg.RecipientID))
		}
		if err := tx.Select("id").First(&tutorPostModel{}, msg.TutorPostID).Error; err != nil {
			return notFound(err, fmt.Sprintf("tutor post %d", msg.TutorPostID))
		}
		if err := tx.Omit(clause.Associations).Create(&m).Error; err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	msg.ID = m.ID
	msg.CreatedAt = m.CreatedAt
	msg.ReadAt = nil
	return m.ID, nil
}

func (r *MessageRepository) ListForUser(ctx context.Context, userID int64) ([]domain.Message, error) {
	var rows []messageModel
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Preload("Recipient").
		Preload("TutorPost").
		Preload("TutorPost.TutorSubjects.Subject").
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	out := make([]domain.Message, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toDomain())
	}
	return out, nil
}
