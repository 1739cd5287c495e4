package service

import (
	"context"
	"strings"

	"tutorhub/internal/domain"
	"tutorhub/internal/repository"
)

// MessageService sends and lists direct messages.
type MessageService interface {
	Create(ctx context.Context, senderID, recipientID, tutorPostID int64, body string) (*domain.Message, error)
	ListForUser(ctx context.Context, userID int64) ([]domain.Message, error)
}

type messageService struct {
	messages repository.MessageRepository
}

func NewMessageService(messages repository.MessageRepository) MessageService {
	return &messageService{messages: messages}
}

func (s *messageService) Create(ctx context.Context, senderID, recipientID, tutorPostID int64, body string) (*domain.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, domain.Invalid("Message cannot be empty", "message")
	}
	if senderID == recipientID {
		return nil, domain.Invalid("You cannot message yourself", "recipientId")
	}

	msg := &domain.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		TutorPostID: tutorPostID,
		Body:        body,
	}
	if _, err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *messageService) ListForUser(ctx context.Context, userID int64) ([]domain.Message, error) {
	msgs, err := s.messages.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	return msgs, nil
}
