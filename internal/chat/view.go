// Package chat drives the live conversation list and the single active
// conversation of a page view.
package chat

import (
	"arrow-be/internal/dto"
	"arrow-be/internal/entity"
	"arrow-be/internal/mapper"
	"arrow-be/pkg/livequery"

	"github.com/google/uuid"
)

type State string

const (
	StateError State = "error"
	StateEmpty State = "empty"
	StateReady State = "ready"
)

type ConversationsView struct {
	State State                      `json:"state"`
	Error string                     `json:"error,omitempty"`
	Items []dto.ConversationResponse `json:"items"`
}

type MessagesView struct {
	ConversationId uuid.UUID             `json:"conversation_id"`
	State          State                 `json:"state"`
	Error          string                `json:"error,omitempty"`
	Items          []dto.MessageResponse `json:"items"`
	// ScrollTo is the newest message id, nil when the log is empty.
	ScrollTo *uuid.UUID `json:"scroll_to"`
}

// Renderer binds view outputs to a concrete surface.
type Renderer interface {
	RenderConversations(view ConversationsView)
	RenderMessages(view MessagesView)
}

// RenderConversations renders one snapshot from the viewer's side, keeping the snapshot order.
func RenderConversations(snap livequery.Snapshot[*entity.Conversation], viewerId uuid.UUID) ConversationsView {
	if snap.Err != nil {
		return ConversationsView{State: StateError, Error: snap.Err.Error(), Items: []dto.ConversationResponse{}}
	}

	items := make([]dto.ConversationResponse, 0, len(snap.Items))
	for _, c := range snap.Items {
		items = append(items, mapper.ConversationToResponse(c, viewerId))
	}
	if len(items) == 0 {
		return ConversationsView{State: StateEmpty, Items: items}
	}
	return ConversationsView{State: StateReady, Items: items}
}

// RenderMessages replaces the whole rendered log with the snapshot, sorted by
// creation time then insertion order.
func RenderMessages(conversationId uuid.UUID, snap livequery.Snapshot[*entity.Message], viewerId uuid.UUID) MessagesView {
	view := MessagesView{ConversationId: conversationId, Items: []dto.MessageResponse{}}
	if snap.Err != nil {
		view.State = StateError
		view.Error = snap.Err.Error()
		return view
	}

	msgs := make([]*entity.Message, len(snap.Items))
	copy(msgs, snap.Items)
	entity.SortMessages(msgs)

	for _, m := range msgs {
		view.Items = append(view.Items, mapper.MessageToResponse(m, viewerId))
	}
	if len(msgs) == 0 {
		view.State = StateEmpty
		return view
	}

	last := msgs[len(msgs)-1].Id
	view.State = StateReady
	view.ScrollTo = &last
	return view
}
