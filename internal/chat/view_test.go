package chat

import (
	"errors"
	"testing"
	"time"

	"arrow-be/internal/entity"
	"arrow-be/pkg/livequery"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMessagesOrdersByTimeThenSeq(t *testing.T) {
	viewer := uuid.New()
	other := uuid.New()
	convId := uuid.New()
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	m1 := &entity.Message{Id: uuid.New(), Seq: 1, Text: "hi", SenderId: viewer, CreatedAt: t0}
	m2 := &entity.Message{Id: uuid.New(), Seq: 2, Text: "same instant", SenderId: other, CreatedAt: t0}
	m3 := &entity.Message{Id: uuid.New(), Seq: 3, Text: "later", SenderId: viewer, CreatedAt: t0.Add(time.Second)}
	snap := livequery.Snapshot[*entity.Message]{Items: []*entity.Message{m3, m2, m1}}

	view := RenderMessages(convId, snap, viewer)

	require.Equal(t, StateReady, view.State)
	assert.Equal(t, convId, view.ConversationId)
	require.Len(t, view.Items, 3)
	assert.Equal(t, []string{"hi", "same instant", "later"}, []string{view.Items[0].Text, view.Items[1].Text, view.Items[2].Text})
	assert.True(t, view.Items[0].Mine)
	assert.False(t, view.Items[1].Mine)
	require.NotNil(t, view.ScrollTo)
	assert.Equal(t, m3.Id, *view.ScrollTo)

	// the snapshot itself is left alone
	assert.Equal(t, m3, snap.Items[0])
}

func TestRenderMessagesEmptyAndError(t *testing.T) {
	convId := uuid.New()

	empty := RenderMessages(convId, livequery.Snapshot[*entity.Message]{}, uuid.New())
	assert.Equal(t, StateEmpty, empty.State)
	assert.Nil(t, empty.ScrollTo)
	assert.NotNil(t, empty.Items)

	failed := RenderMessages(convId, livequery.Snapshot[*entity.Message]{Err: errors.New("permission denied")}, uuid.New())
	assert.Equal(t, StateError, failed.State)
	assert.Equal(t, "permission denied", failed.Error)
}

func TestRenderConversationsFromViewerSide(t *testing.T) {
	founder, investor := uuid.New(), uuid.New()
	conv := &entity.Conversation{
		Id:            uuid.New(),
		PitchTitle:    "AI Tutor",
		FounderId:     founder,
		FounderEmail:  "f@example.com",
		InvestorId:    investor,
		InvestorEmail: "i@example.com",
		Participants:  []uuid.UUID{founder, investor},
		LastMessage:   "hello",
	}
	snap := livequery.Snapshot[*entity.Conversation]{Items: []*entity.Conversation{conv}}

	asFounder := RenderConversations(snap, founder)
	require.Equal(t, StateReady, asFounder.State)
	assert.Equal(t, "founder", asFounder.Items[0].Role)
	assert.Equal(t, "i@example.com", asFounder.Items[0].CounterpartEmail)

	asInvestor := RenderConversations(snap, investor)
	assert.Equal(t, "investor", asInvestor.Items[0].Role)
	assert.Equal(t, "f@example.com", asInvestor.Items[0].CounterpartEmail)

	assert.Equal(t, StateEmpty, RenderConversations(livequery.Snapshot[*entity.Conversation]{}, founder).State)
	assert.Equal(t, StateError, RenderConversations(livequery.Snapshot[*entity.Conversation]{Err: errors.New("x")}, founder).State)
}
