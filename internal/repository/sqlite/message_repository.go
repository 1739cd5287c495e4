package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tutorhub/internal/domain"
	"tutorhub/internal/repository"
)

type MessageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) repository.MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := requireRow(ctx, tx, `SELECT 1 FROM users WHERE id = ?`, msg.RecipientID, "recipient"); err != nil {
		return 0, err
	}
	if err := requireRow(ctx, tx, `SELECT 1 FROM tutor_posts WHERE id = ?`, msg.TutorPostID, "tutor post"); err != nil {
		return 0, err
	}

	msg.CreatedAt = time.Now().UTC()
	msg.ReadAt = nil
	res, err := tx.ExecContext(ctx, `
INSERT INTO messages (sender_id, recipient_id, tutor_post_id, message, created_at)
VALUES (?, ?, ?, ?, ?)`,
		msg.SenderID,
		msg.RecipientID,
		msg.TutorPostID,
		msg.Body,
		msg.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("message last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit message: %w", err)
	}
	msg.ID = id
	return id, nil
}

// ListForUser returns messages sent or received by userID, newest first.
func (r *MessageRepository) ListForUser(ctx context.Context, userID int64) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT m.id, m.sender_id, m.recipient_id, m.tutor_post_id, m.message,
	m.created_at, m.read_at, s.email, rc.email, p.hourly_rate
FROM messages m
JOIN users s ON s.id = m.sender_id
JOIN users rc ON rc.id = m.recipient_id
JOIN tutor_posts p ON p.id = m.tutor_post_id
WHERE m.sender_id = ? OR m.recipient_id = ?
ORDER BY m.created_at DESC, m.id DESC`, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var (
		messages []domain.Message
		postIDs  []int64
		seen     = map[int64]bool{}
	)
	for rows.Next() {
		var (
			m      domain.Message
			readAt sql.NullTime
		)
		if err := rows.Scan(
			&m.ID,
			&m.SenderID,
			&m.RecipientID,
			&m.TutorPostID,
			&m.Body,
			&m.CreatedAt,
			&readAt,
			&m.SenderEmail,
			&m.RecipientEmail,
			&m.Post.HourlyRate,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.ReadAt = timePtr(readAt)
		m.Post.ID = m.TutorPostID
		messages = append(messages, m)
		if !seen[m.TutorPostID] {
			seen[m.TutorPostID] = true
			postIDs = append(postIDs, m.TutorPostID)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	rows.Close()

	subjects, err := loadSubjects(ctx, r.db, postIDs)
	if err != nil {
		return nil, err
	}
	for i := range messages {
		messages[i].Post.Subjects = subjects[messages[i].TutorPostID]
	}
	return messages, nil
}

func requireRow(ctx context.Context, tx *sql.Tx, query string, id int64, what string) error {
	var one int
	if err := tx.QueryRowContext(ctx, query, id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s %d: %w", what, id, domain.ErrNotFound)
		}
		return fmt.Errorf("lookup %s: %w", what, err)
	}
	return nil
}
