package model

import "github.com/google/uuid"

// Change keys published by the store on every write. Live queries subscribe to them.
const PitchesKey = "pitches"

func UserConversationsKey(userId uuid.UUID) string {
	return "conversations:user:" + userId.String()
}

func ConversationKey(id uuid.UUID) string {
	return "conversation:" + id.String()
}

func ConversationMessagesKey(conversationId uuid.UUID) string {
	return "messages:conversation:" + conversationId.String()
}
