package contract

import (
	"context"

	"arrow-be/internal/entity"

	"github.com/google/uuid"
)

type MessageRepository interface {
	// Create assigns the creation time and sequence from the store.
	Create(ctx context.Context, msg *entity.Message) error
	// FindByConversation returns the log oldest first.
	FindByConversation(ctx context.Context, conversationId uuid.UUID) ([]*entity.Message, error)
}
