package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Conversation pairs one founder and one investor around one pitch.
// (pitch_id, investor_id) is the natural key; Id is derived from it.
type Conversation struct {
	Id             uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	PitchId        uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:idx_conversations_pair,priority:1"`
	PitchTitle     string                      `gorm:"type:varchar(255)"`
	FounderId      uuid.UUID                   `gorm:"type:uuid;not null;index"`
	FounderEmail   string                      `gorm:"type:varchar(255)"`
	InvestorId     uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:idx_conversations_pair,priority:2"`
	InvestorEmail  string                      `gorm:"type:varchar(255)"`
	Participants   datatypes.JSONSlice[string] `gorm:"type:jsonb;not null"`
	LastMessage    string                      `gorm:"type:text"`
	CreatedAt      time.Time                   `gorm:"autoCreateTime:false;not null;default:now()"`
	LastActivityAt time.Time                   `gorm:"not null;default:now();index"`
}

func (Conversation) TableName() string {
	return "conversations"
}

func (c Conversation) ChangeKeys() []string {
	keys := []string{ConversationKey(c.Id)}
	if c.FounderId != uuid.Nil {
		keys = append(keys, UserConversationsKey(c.FounderId))
	}
	if c.InvestorId != uuid.Nil {
		keys = append(keys, UserConversationsKey(c.InvestorId))
	}
	return keys
}
