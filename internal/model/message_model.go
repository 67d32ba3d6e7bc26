package model

import (
	"time"

	"github.com/google/uuid"
)

// Message is append-only. Seq is the store-assigned insertion order used to
// break created_at ties.
type Message struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Seq            int64     `gorm:"autoIncrement;not null;uniqueIndex"`
	ConversationId uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_conversation_order,priority:1"`
	Text           string    `gorm:"type:text;not null"`
	SenderId       uuid.UUID `gorm:"type:uuid;not null"`
	SenderEmail    string    `gorm:"type:varchar(255)"`
	CreatedAt      time.Time `gorm:"autoCreateTime:false;not null;default:now();index:idx_messages_conversation_order,priority:2"`
}

func (Message) TableName() string {
	return "messages"
}

func (m Message) ChangeKeys() []string {
	return []string{ConversationMessagesKey(m.ConversationId)}
}
