package dto

import (
	"time"

	"github.com/google/uuid"
)

type ConversationResponse struct {
	Id               uuid.UUID `json:"id"`
	PitchId          uuid.UUID `json:"pitch_id"`
	PitchTitle       string    `json:"pitch_title"`
	CounterpartId    uuid.UUID `json:"counterpart_id"`
	CounterpartEmail string    `json:"counterpart_email"`
	Role             string    `json:"role"` // the viewer's role in this conversation
	LastMessage      string    `json:"last_message"`
	LastActivityAt   time.Time `json:"last_activity_at"`
	CreatedAt        time.Time `json:"created_at"`
}

type MessageResponse struct {
	Id          uuid.UUID `json:"id"`
	Text        string    `json:"text"`
	SenderId    uuid.UUID `json:"sender_id"`
	SenderEmail string    `json:"sender_email"`
	Mine        bool      `json:"mine"`
	CreatedAt   time.Time `json:"created_at"`
}

type SendMessageRequest struct {
	Text string `json:"text" validate:"required,max=4000"`
}
