package entity

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
)

type Message struct {
	Id             uuid.UUID
	Seq            int64
	ConversationId uuid.UUID
	Text           string
	SenderId       uuid.UUID
	SenderEmail    string
	CreatedAt      time.Time
}

// SortMessages orders by creation time, then by insertion sequence.
func SortMessages(msgs []*Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		if !msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
		}
		return msgs[i].Seq < msgs[j].Seq
	})
}

var (
	ErrEmptyMessage   = errors.New("message text is empty")
	ErrNotParticipant = errors.New("you are not a participant of this conversation")
)
