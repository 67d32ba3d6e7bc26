package websocket

import (
	"encoding/json"

	"arrow-be/internal/dto"

	"github.com/google/uuid"
)

// Outbound frame types.
const (
	FrameRedirect      = "redirect"
	FrameIdentity      = "identity"
	FramePitches       = "pitches"
	FrameInterest      = "interest"
	FrameConversations = "conversations"
	FrameMessages      = "messages"
	FrameSent          = "sent"
	FrameSendError     = "send_error"
	FrameError         = "error"
)

// Inbound frame types.
const (
	FrameFilter  = "filter"
	FrameExpress = "interest"
	FrameSelect  = "select"
	FrameSend    = "send"
	FrameSignIn  = "sign_in"
	FrameSignOut = "sign_out"
)

// Frame is one JSON message on the page view socket.
type Frame struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

type inboundFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Outbox receives the frames a page view produces.
type Outbox interface {
	Push(frame Frame)
}

type redirectData struct {
	To string `json:"to"`
}

type identityData struct {
	User *dto.SessionUser `json:"user"`
}

type interestData struct {
	Conversation dto.ConversationResponse `json:"conversation"`
	Created      bool                     `json:"created"`
}

type sentData struct {
	MessageId uuid.UUID `json:"message_id"`
}

type sendErrorData struct {
	Message string `json:"message"`
	Text    string `json:"text"` // the draft, so the client can keep it
}

type errorData struct {
	Message string `json:"message"`
}

type filterRequest struct {
	Query string `json:"query"`
}

type interestRequest struct {
	PitchId uuid.UUID `json:"pitch_id"`
}

type selectRequest struct {
	ConversationId uuid.UUID `json:"conversation_id"`
}

type sendRequest struct {
	Text string `json:"text"`
}

type signInRequest struct {
	Token string `json:"token"`
}
