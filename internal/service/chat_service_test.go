package service

import (
	"context"
	"testing"

	"arrow-be/internal/entity"
	"arrow-be/internal/repository/contract"
	"arrow-be/internal/session"
	"arrow-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessageAppendsAndSummarises(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	founder := f.signUp(t, "founder@example.com")
	investor := f.signUp(t, "investor@example.com")
	pitchId := f.createPitch(t, founder, "AI Tutor")

	res, err := f.interest.ExpressInterest(ctx, investor, pitchId)
	require.NoError(t, err)
	conv := res.Conversation

	_, err = f.chat.SendMessage(ctx, investor, conv, "  Hi there  ")
	require.NoError(t, err)
	_, err = f.chat.SendMessage(ctx, founder, conv, "Hello back")
	require.NoError(t, err)

	msgs, err := f.chat.ListMessages(ctx, founder, conv.Id)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "Hi there", msgs[0].Text)
	assert.Equal(t, investor.UserId, msgs[0].SenderId)
	assert.Equal(t, "Hello back", msgs[1].Text)
	assert.True(t, msgs[0].Seq < msgs[1].Seq)

	stored, err := f.chat.GetConversation(ctx, investor, conv.Id)
	require.NoError(t, err)
	assert.Equal(t, "Hello back", stored.LastMessage)

	assert.Len(t, f.publisher.ofType(events.TypeMessageSent), 2)
}

func TestSendMessageRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	founder := f.signUp(t, "founder@example.com")
	investor := f.signUp(t, "investor@example.com")
	outsider := f.signUp(t, "outsider@example.com")
	pitchId := f.createPitch(t, founder, "AI Tutor")

	res, err := f.interest.ExpressInterest(ctx, investor, pitchId)
	require.NoError(t, err)
	conv := res.Conversation

	_, err = f.chat.SendMessage(ctx, investor, conv, "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = f.chat.SendMessage(ctx, outsider, conv, "hi")
	assert.ErrorIs(t, err, ErrNotParticipant)

	_, err = f.chat.SendMessage(ctx, nil, conv, "hi")
	assert.ErrorIs(t, err, session.ErrUnauthenticated)

	msgs, err := f.chat.ListMessages(ctx, investor, conv.Id)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestConversationAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	founder := f.signUp(t, "founder@example.com")
	investor := f.signUp(t, "investor@example.com")
	outsider := f.signUp(t, "outsider@example.com")
	pitchId := f.createPitch(t, founder, "AI Tutor")

	res, err := f.interest.ExpressInterest(ctx, investor, pitchId)
	require.NoError(t, err)

	_, err = f.chat.GetConversation(ctx, outsider, res.Conversation.Id)
	assert.ErrorIs(t, err, ErrNotParticipant)

	_, err = f.chat.ListMessages(ctx, outsider, res.Conversation.Id)
	assert.ErrorIs(t, err, ErrNotParticipant)

	_, err = f.chat.GetConversation(ctx, investor, uuid.New())
	assert.ErrorIs(t, err, ErrConversationNotFound)

	convs, err := f.chat.ListConversations(ctx, outsider)
	require.NoError(t, err)
	assert.Empty(t, convs)
}

func TestListConversationsMostRecentFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	founder := f.signUp(t, "founder@example.com")
	investor := f.signUp(t, "investor@example.com")
	first := f.createPitch(t, founder, "First")
	second := f.createPitch(t, founder, "Second")

	a, err := f.interest.ExpressInterest(ctx, investor, first)
	require.NoError(t, err)
	_, err = f.interest.ExpressInterest(ctx, investor, second)
	require.NoError(t, err)

	// activity on the older conversation moves it back to the top
	_, err = f.chat.SendMessage(ctx, founder, a.Conversation, "ping")
	require.NoError(t, err)

	convs, err := f.chat.ListConversations(ctx, investor)
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, "First", convs[0].PitchTitle)
	assert.Equal(t, "Second", convs[1].PitchTitle)
}

func TestSendMessageReportsMissingSummaryTarget(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	founder := f.signUp(t, "founder@example.com")
	investor := f.signUp(t, "investor@example.com")

	// a record the store never saw: the message lands, the summary cannot
	conv, err := entity.NewConversation(f.pitch(t, f.createPitch(t, founder, "AI Tutor")), investor.UserId, investor.Email)
	require.NoError(t, err)

	_, err = f.chat.SendMessage(ctx, investor, conv, "hello")
	require.ErrorIs(t, err, contract.ErrNotFound)
	assert.Contains(t, err.Error(), "message saved")

	log, err := f.store.NewUnitOfWork(ctx).MessageRepository().FindByConversation(ctx, conv.Id)
	require.NoError(t, err)
	assert.Len(t, log, 1)
}
