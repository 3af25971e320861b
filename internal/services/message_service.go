package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campushire/backend/internal/models"
	"github.com/campushire/backend/internal/repository"
	appErr "github.com/campushire/backend/pkg/errors"
	"github.com/campushire/backend/pkg/logger"
)

// MessageService owns direct messaging between students and recruiters.
type MessageService interface {
	Send(ctx context.Context, sender *models.User, input *SendMessageInput) (*models.Message, error)
	ListForUser(ctx context.Context, caller *models.User) ([]models.Message, error)
	Conversation(ctx context.Context, caller *models.User, otherID uuid.UUID) ([]models.Message, error)
	UnreadCount(ctx context.Context, caller *models.User) (int64, error)
	MarkRead(ctx context.Context, caller *models.User, id uuid.UUID) (*models.Message, error)
	Delete(ctx context.Context, caller *models.User, id uuid.UUID) error
}

type SendMessageInput struct {
	RecipientID uuid.UUID
	Subject     string
	Content     string
}

type messageService struct {
	msgRepo  repository.MessageRepository
	userRepo repository.UserRepository
}

func NewMessageService(msgRepo repository.MessageRepository, userRepo repository.UserRepository) MessageService {
	return &messageService{msgRepo: msgRepo, userRepo: userRepo}
}

var _ MessageService = (*messageService)(nil)

func (s *messageService) Send(ctx context.Context, sender *models.User, input *SendMessageInput) (*models.Message, error) {
	subject := strings.TrimSpace(input.Subject)
	content := strings.TrimSpace(input.Content)

	fields := map[string]string{}
	if subject == "" {
		fields["subject"] = "subject is required"
	} else if len(subject) > 200 {
		fields["subject"] = "subject cannot exceed 200 characters"
	}
	if content == "" {
		fields["content"] = "content is required"
	}
	if input.RecipientID == uuid.Nil {
		fields["recipientId"] = "recipient is required"
	} else if input.RecipientID == sender.ID {
		fields["recipientId"] = "cannot send a message to yourself"
	}
	if len(fields) > 0 {
		return nil, appErr.NewValidation("message validation failed", fields)
	}

	var recipient models.User
	if err := s.userRepo.GetByID(ctx, input.RecipientID, &recipient); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.New(appErr.CodeNotFound, "recipient not found")
		}
		return nil, err
	}

	m := &models.Message{
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
		Subject:     subject,
		Content:     content,
	}
	if err := s.msgRepo.Create(ctx, m); err != nil {
		return nil, err
	}

	logger.L().Info("message sent",
		zap.String("message_id", m.ID.String()),
		zap.String("sender_id", sender.ID.String()),
		zap.String("recipient_id", recipient.ID.String()))
	return m, nil
}

func (s *messageService) ListForUser(ctx context.Context, caller *models.User) ([]models.Message, error) {
	return s.msgRepo.ListForUser(ctx, caller.ID)
}

func (s *messageService) Conversation(ctx context.Context, caller *models.User, otherID uuid.UUID) ([]models.Message, error) {
	return s.msgRepo.Conversation(ctx, caller.ID, otherID)
}

func (s *messageService) UnreadCount(ctx context.Context, caller *models.User) (int64, error) {
	return s.msgRepo.UnreadCount(ctx, caller.ID)
}

// MarkRead flags a message as read. Only the recipient may do so.
func (s *messageService) MarkRead(ctx context.Context, caller *models.User, id uuid.UUID) (*models.Message, error) {
	var m models.Message
	if err := s.msgRepo.GetByID(ctx, id, &m); err != nil {
		return nil, err
	}
	if m.RecipientID != caller.ID {
		return nil, appErr.New(appErr.CodeForbidden, "not authorized to mark this message read")
	}
	if m.Read {
		return &m, nil
	}
	now := time.Now()
	if err := s.msgRepo.MarkRead(ctx, id, now); err != nil {
		return nil, err
	}
	m.Read = true
	m.ReadAt = &now
	return &m, nil
}

// Delete removes a message. Either party to it may do so.
func (s *messageService) Delete(ctx context.Context, caller *models.User, id uuid.UUID) error {
	var m models.Message
	if err := s.msgRepo.GetByID(ctx, id, &m); err != nil {
		return err
	}
	if m.SenderID != caller.ID && m.RecipientID != caller.ID {
		return appErr.New(appErr.CodeForbidden, "not authorized to delete this message")
	}
	return s.msgRepo.Delete(ctx, id)
}
