package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"arrow-be/internal/entity"
	"arrow-be/internal/pkg/logger"
	"arrow-be/internal/repository/unitofwork"
	"arrow-be/internal/session"
	"arrow-be/pkg/events"

	"github.com/google/uuid"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrEmptyMessage         = entity.ErrEmptyMessage
	ErrNotParticipant       = entity.ErrNotParticipant
)

type IChatService interface {
	// ListConversations returns the viewer's conversations, most recent activity first.
	ListConversations(ctx context.Context, id *session.Identity) ([]*entity.Conversation, error)
	GetConversation(ctx context.Context, id *session.Identity, conversationId uuid.UUID) (*entity.Conversation, error)
	ListMessages(ctx context.Context, id *session.Identity, conversationId uuid.UUID) ([]*entity.Message, error)
	// Messages reads a log without a membership check. Callers must have checked already.
	Messages(ctx context.Context, conversationId uuid.UUID) ([]*entity.Message, error)
	// SendMessage appends to the log, then updates the conversation summary.
	// The two writes are independent: readers may see either first, and a failed
	// summary update leaves the appended message in place.
	SendMessage(ctx context.Context, id *session.Identity, conv *entity.Conversation, text string) (*entity.Message, error)
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  events.Publisher
	logger     logger.ILogger
}

func NewChatService(uowFactory unitofwork.RepositoryFactory, publisher events.Publisher, log logger.ILogger) IChatService {
	return &chatService{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     log,
	}
}

func (s *chatService) ListConversations(ctx context.Context, id *session.Identity) ([]*entity.Conversation, error) {
	if err := session.Require(id); err != nil {
		return nil, err
	}
	return s.uowFactory.NewUnitOfWork(ctx).ConversationRepository().FindByParticipant(ctx, id.UserId)
}

func (s *chatService) GetConversation(ctx context.Context, id *session.Identity, conversationId uuid.UUID) (*entity.Conversation, error) {
	if err := session.Require(id); err != nil {
		return nil, err
	}
	conv, err := s.uowFactory.NewUnitOfWork(ctx).ConversationRepository().FindByID(ctx, conversationId)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, ErrConversationNotFound
	}
	if !conv.HasParticipant(id.UserId) {
		return nil, ErrNotParticipant
	}
	return conv, nil
}

func (s *chatService) ListMessages(ctx context.Context, id *session.Identity, conversationId uuid.UUID) ([]*entity.Message, error) {
	if _, err := s.GetConversation(ctx, id, conversationId); err != nil {
		return nil, err
	}
	return s.Messages(ctx, conversationId)
}

func (s *chatService) Messages(ctx context.Context, conversationId uuid.UUID) ([]*entity.Message, error) {
	return s.uowFactory.NewUnitOfWork(ctx).MessageRepository().FindByConversation(ctx, conversationId)
}

func (s *chatService) SendMessage(ctx context.Context, id *session.Identity, conv *entity.Conversation, text string) (*entity.Message, error) {
	ctx, span := tracer.Start(ctx, "ChatService.SendMessage")
	defer span.End()

	if err := session.Require(id); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if !conv.HasParticipant(id.UserId) {
		return nil, ErrNotParticipant
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	msg := &entity.Message{
		Id:             uuid.New(),
		ConversationId: conv.Id,
		Text:           text,
		SenderId:       id.UserId,
		SenderEmail:    id.Email,
	}
	if err := uow.MessageRepository().Create(ctx, msg); err != nil {
		return nil, err
	}
	if err := uow.ConversationRepository().UpdateSummary(ctx, conv, text); err != nil {
		return nil, fmt.Errorf("message saved but conversation summary not updated: %w", err)
	}

	event := events.New(events.TypeMessageSent, map[string]interface{}{
		"conversation_id": conv.Id.String(),
		"message_id":      msg.Id.String(),
		"sender_id":       id.UserId.String(),
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("CHAT", "Event not published", map[string]interface{}{"error": err.Error()})
	}

	return msg, nil
}
