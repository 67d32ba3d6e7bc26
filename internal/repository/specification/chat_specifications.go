package specification

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByConversationID struct {
	ConversationID uuid.UUID
}

func (s ByConversationID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("conversation_id = ?", s.ConversationID)
}

// ParticipantOf matches conversations whose participants array contains the user.
type ParticipantOf struct {
	UserID uuid.UUID
}

func (s ParticipantOf) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("participants @> ?::jsonb", fmt.Sprintf(`[%q]`, s.UserID.String()))
}

// MessageLogOrder is the total order of a conversation's messages.
type MessageLogOrder struct{}

func (s MessageLogOrder) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC").Order("seq ASC")
}
