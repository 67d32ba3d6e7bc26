package chat

import (
	"context"
	"sync"

	"arrow-be/internal/entity"
	"arrow-be/internal/model"
	"arrow-be/internal/session"
	"arrow-be/pkg/livequery"

	"github.com/google/uuid"
)

// ConversationSource lists a user's conversations, most recent activity first.
type ConversationSource interface {
	ListConversations(ctx context.Context, id *session.Identity) ([]*entity.Conversation, error)
}

// ConversationList keeps one live subscription over the viewer's conversations
// for the lifetime of the page view and re-renders on every snapshot.
type ConversationList struct {
	feed     livequery.Feed
	source   ConversationSource
	renderer Renderer

	mu      sync.Mutex
	sub     *livequery.Subscription[*entity.Conversation]
	current map[uuid.UUID]*entity.Conversation
}

func NewConversationList(feed livequery.Feed, source ConversationSource, renderer Renderer) *ConversationList {
	return &ConversationList{
		feed:     feed,
		source:   source,
		renderer: renderer,
		current:  make(map[uuid.UUID]*entity.Conversation),
	}
}

// Start subscribes for id, replacing any earlier subscription.
func (l *ConversationList) Start(ctx context.Context, id *session.Identity) error {
	if err := session.Require(id); err != nil {
		return err
	}

	query := func(ctx context.Context) ([]*entity.Conversation, error) {
		return l.source.ListConversations(ctx, id)
	}
	sub, err := livequery.Watch(ctx, l.feed, model.UserConversationsKey(id.UserId), query)
	if err != nil {
		l.renderer.RenderConversations(ConversationsView{State: StateError, Error: err.Error()})
		return err
	}

	l.mu.Lock()
	prev := l.sub
	l.sub = sub
	l.mu.Unlock()
	if prev != nil {
		prev.Cancel()
	}

	go l.pump(sub, id.UserId)
	return nil
}

func (l *ConversationList) pump(sub *livequery.Subscription[*entity.Conversation], viewerId uuid.UUID) {
	for snap := range sub.C() {
		l.mu.Lock()
		if l.sub != sub {
			l.mu.Unlock()
			return
		}
		if snap.Err == nil {
			l.current = make(map[uuid.UUID]*entity.Conversation, len(snap.Items))
			for _, c := range snap.Items {
				l.current[c.Id] = c
			}
		}
		l.renderer.RenderConversations(RenderConversations(snap, viewerId))
		l.mu.Unlock()
	}
}

// Lookup returns the full record of a listed conversation, for selection.
func (l *ConversationList) Lookup(id uuid.UUID) (*entity.Conversation, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.current[id]
	return c, ok
}

func (l *ConversationList) Close() {
	l.mu.Lock()
	sub := l.sub
	l.sub = nil
	l.mu.Unlock()
	if sub != nil {
		sub.Cancel()
	}
}
