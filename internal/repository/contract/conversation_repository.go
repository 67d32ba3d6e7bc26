package contract

import (
	"context"

	"arrow-be/internal/entity"

	"github.com/google/uuid"
)

type ConversationRepository interface {
	// Create fails with ErrDuplicateKey when the (pitch, investor) pair exists.
	Create(ctx context.Context, conv *entity.Conversation) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Conversation, error)
	// Touch sets last activity to the store clock and leaves every other field alone.
	Touch(ctx context.Context, conv *entity.Conversation) error
	// UpdateSummary sets last message and last activity.
	UpdateSummary(ctx context.Context, conv *entity.Conversation, lastMessage string) error
	// FindByParticipant returns the user's conversations, most recent activity first.
	FindByParticipant(ctx context.Context, userId uuid.UUID) ([]*entity.Conversation, error)
}
