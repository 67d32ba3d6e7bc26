package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"arrow-be/internal/entity"
	"arrow-be/internal/model"
	"arrow-be/internal/session"
	"arrow-be/pkg/livequery"

	"github.com/google/uuid"
)

var ErrNoActiveConversation = errors.New("no conversation selected")

// MessageLog reads and appends conversation messages.
type MessageLog interface {
	Messages(ctx context.Context, conversationId uuid.UUID) ([]*entity.Message, error)
	SendMessage(ctx context.Context, id *session.Identity, conv *entity.Conversation, text string) (*entity.Message, error)
}

// Session is the chat pane of one page view. It is either idle or active on
// exactly one conversation, and holds at most one live message subscription.
//
// Every Select bumps a generation; a snapshot is rendered only while its
// subscription's generation is current, so a superseded conversation can never
// paint over the selected one.
type Session struct {
	feed     livequery.Feed
	log      MessageLog
	viewer   *session.Identity
	renderer Renderer

	mu     sync.Mutex
	active *entity.Conversation
	sub    *livequery.Subscription[*entity.Message]
	gen    uint64
}

func NewSession(feed livequery.Feed, log MessageLog, viewer *session.Identity, renderer Renderer) *Session {
	return &Session{
		feed:     feed,
		log:      log,
		viewer:   viewer,
		renderer: renderer,
	}
}

// Select cancels the current message subscription and opens one on conv.
// ctx bounds the new subscription and should live as long as the page view.
func (s *Session) Select(ctx context.Context, conv *entity.Conversation) error {
	if err := session.Require(s.viewer); err != nil {
		return err
	}
	if conv == nil || !conv.HasParticipant(s.viewer.UserId) {
		return entity.ErrNotParticipant
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sub != nil {
		s.sub.Cancel()
		s.sub = nil
	}
	s.gen++
	gen := s.gen
	s.active = conv

	convId := conv.Id
	query := func(ctx context.Context) ([]*entity.Message, error) {
		return s.log.Messages(ctx, convId)
	}
	sub, err := livequery.Watch(ctx, s.feed, model.ConversationMessagesKey(convId), query)
	if err != nil {
		s.active = nil
		return err
	}
	s.sub = sub

	go s.pump(sub, gen, convId)
	return nil
}

func (s *Session) pump(sub *livequery.Subscription[*entity.Message], gen uint64, convId uuid.UUID) {
	for snap := range sub.C() {
		if !s.apply(gen, convId, snap) {
			return
		}
	}
}

// apply renders snap if gen is still current and reports whether it was.
func (s *Session) apply(gen uint64, convId uuid.UUID, snap livequery.Snapshot[*entity.Message]) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		return false
	}
	s.renderer.RenderMessages(RenderMessages(convId, snap, s.viewer.UserId))
	return true
}

// Send appends text to the active conversation. On error nothing is cleared;
// the caller keeps the draft.
func (s *Session) Send(ctx context.Context, text string) (*entity.Message, error) {
	s.mu.Lock()
	conv := s.active
	s.mu.Unlock()

	if conv == nil {
		return nil, ErrNoActiveConversation
	}
	if strings.TrimSpace(text) == "" {
		return nil, entity.ErrEmptyMessage
	}
	return s.log.SendMessage(ctx, s.viewer, conv, text)
}

// Active returns the selected conversation, nil when idle.
func (s *Session) Active() *entity.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Close drops the subscription and returns to idle.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sub != nil {
		s.sub.Cancel()
		s.sub = nil
	}
	s.gen++
	s.active = nil
}
