package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"arrow-be/internal/entity"
	"arrow-be/internal/model"
	"arrow-be/internal/session"
	"arrow-be/pkg/livequery"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRenderer struct {
	mu            sync.Mutex
	messages      []MessagesView
	conversations []ConversationsView
}

func (r *recordingRenderer) RenderConversations(view ConversationsView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conversations = append(r.conversations, view)
}

func (r *recordingRenderer) RenderMessages(view MessagesView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, view)
}

func (r *recordingRenderer) lastMessages() (MessagesView, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return MessagesView{}, 0
	}
	return r.messages[len(r.messages)-1], len(r.messages)
}

func (r *recordingRenderer) lastConversations() (ConversationsView, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.conversations) == 0 {
		return ConversationsView{}, 0
	}
	return r.conversations[len(r.conversations)-1], len(r.conversations)
}

// fakeLog keeps messages per conversation and publishes like the stores do.
type fakeLog struct {
	mu   sync.Mutex
	feed livequery.Feed
	logs map[uuid.UUID][]*entity.Message
	seq  int64
	fail error
}

func newFakeLog(feed livequery.Feed) *fakeLog {
	return &fakeLog{feed: feed, logs: make(map[uuid.UUID][]*entity.Message)}
}

func (f *fakeLog) Messages(ctx context.Context, conversationId uuid.UUID) ([]*entity.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*entity.Message(nil), f.logs[conversationId]...), nil
}

func (f *fakeLog) SendMessage(ctx context.Context, id *session.Identity, conv *entity.Conversation, text string) (*entity.Message, error) {
	f.mu.Lock()
	if f.fail != nil {
		f.mu.Unlock()
		return nil, f.fail
	}
	f.seq++
	msg := &entity.Message{Id: uuid.New(), Seq: f.seq, ConversationId: conv.Id, Text: text, SenderId: id.UserId, CreatedAt: time.Now()}
	f.logs[conv.Id] = append(f.logs[conv.Id], msg)
	f.mu.Unlock()

	return msg, f.feed.Publish(ctx, model.ConversationMessagesKey(conv.Id))
}

func newConversation(founder, investor uuid.UUID) *entity.Conversation {
	return &entity.Conversation{
		Id:           uuid.New(),
		FounderId:    founder,
		InvestorId:   investor,
		Participants: []uuid.UUID{founder, investor},
	}
}

func TestSessionSelectAndSend(t *testing.T) {
	feed := livequery.NewGoChannelFeed(nil)
	defer feed.Close()
	viewer := &session.Identity{UserId: uuid.New(), Email: "v@example.com"}
	conv := newConversation(uuid.New(), viewer.UserId)
	log := newFakeLog(feed)
	r := &recordingRenderer{}

	s := NewSession(feed, log, viewer, r)
	defer s.Close()

	_, err := s.Send(context.Background(), "too early")
	assert.ErrorIs(t, err, ErrNoActiveConversation)

	require.NoError(t, s.Select(context.Background(), conv))
	assert.Equal(t, conv, s.Active())
	require.Eventually(t, func() bool {
		v, n := r.lastMessages()
		return n > 0 && v.State == StateEmpty
	}, 2*time.Second, 5*time.Millisecond)

	_, err = s.Send(context.Background(), "   ")
	assert.ErrorIs(t, err, entity.ErrEmptyMessage)

	msg, err := s.Send(context.Background(), "hello")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		v, _ := r.lastMessages()
		return v.State == StateReady && v.ScrollTo != nil && *v.ScrollTo == msg.Id
	}, 2*time.Second, 5*time.Millisecond)
}

func TestSessionSendErrorKeepsSelection(t *testing.T) {
	feed := livequery.NewGoChannelFeed(nil)
	defer feed.Close()
	viewer := &session.Identity{UserId: uuid.New()}
	conv := newConversation(viewer.UserId, uuid.New())
	log := newFakeLog(feed)
	log.fail = errors.New("permission denied")

	s := NewSession(feed, log, viewer, &recordingRenderer{})
	defer s.Close()
	require.NoError(t, s.Select(context.Background(), conv))

	_, err := s.Send(context.Background(), "draft")
	assert.EqualError(t, err, "permission denied")
	assert.Equal(t, conv, s.Active())
}

func TestSessionRejectsForeignConversation(t *testing.T) {
	feed := livequery.NewGoChannelFeed(nil)
	defer feed.Close()
	viewer := &session.Identity{UserId: uuid.New()}

	s := NewSession(feed, newFakeLog(feed), viewer, &recordingRenderer{})
	err := s.Select(context.Background(), newConversation(uuid.New(), uuid.New()))
	assert.ErrorIs(t, err, entity.ErrNotParticipant)
	assert.Nil(t, s.Active())

	signedOut := NewSession(feed, newFakeLog(feed), nil, &recordingRenderer{})
	assert.ErrorIs(t, signedOut.Select(context.Background(), newConversation(uuid.New(), uuid.New())), session.ErrUnauthenticated)
}

func TestSessionStaleSnapshotNeverRenders(t *testing.T) {
	feed := livequery.NewGoChannelFeed(nil)
	defer feed.Close()
	viewer := &session.Identity{UserId: uuid.New()}
	convA := newConversation(uuid.New(), viewer.UserId)
	convB := newConversation(uuid.New(), viewer.UserId)
	r := &recordingRenderer{}

	s := NewSession(feed, newFakeLog(feed), viewer, r)
	defer s.Close()

	require.NoError(t, s.Select(context.Background(), convA))
	s.mu.Lock()
	genA := s.gen
	s.mu.Unlock()

	require.NoError(t, s.Select(context.Background(), convB))
	require.Eventually(t, func() bool {
		v, _ := r.lastMessages()
		return v.ConversationId == convB.Id
	}, 2*time.Second, 5*time.Millisecond)

	// a late snapshot from A's subscription arrives after B took over
	late := livequery.Snapshot[*entity.Message]{Items: []*entity.Message{{Id: uuid.New(), Text: "from A"}}}
	assert.False(t, s.apply(genA, convA.Id, late))

	v, _ := r.lastMessages()
	assert.Equal(t, convB.Id, v.ConversationId)
	assert.Equal(t, convB, s.Active())
}

func TestSessionCloseReturnsToIdle(t *testing.T) {
	feed := livequery.NewGoChannelFeed(nil)
	defer feed.Close()
	viewer := &session.Identity{UserId: uuid.New()}
	conv := newConversation(uuid.New(), viewer.UserId)
	log := newFakeLog(feed)
	r := &recordingRenderer{}

	s := NewSession(feed, log, viewer, r)
	require.NoError(t, s.Select(context.Background(), conv))
	require.Eventually(t, func() bool {
		_, n := r.lastMessages()
		return n > 0
	}, 2*time.Second, 5*time.Millisecond)

	s.Close()
	assert.Nil(t, s.Active())
	_, before := r.lastMessages()

	other := &session.Identity{UserId: conv.FounderId}
	_, err := log.SendMessage(context.Background(), other, conv, "after close")
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	_, after := r.lastMessages()
	assert.Equal(t, before, after)
}
