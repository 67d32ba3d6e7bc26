package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"arrow-be/internal/repository/contract"
	"arrow-be/internal/repository/unitofwork"
	"arrow-be/pkg/livequery"
)

const (
	keyUsers         = "arrow_users"
	keyResetTokens   = "arrow_reset_tokens"
	keyPitches       = "arrow_pitches"
	keyConversations = "arrow_conversations"
	keyMessages      = "arrow_messages:" // + conversation id
)

// Store implements the repository contracts on a KV. One mutex serialises
// every read-modify-write of a collection.
type Store struct {
	mu   sync.Mutex
	kv   *KV
	feed livequery.Feed

	last time.Time
	seq  int64
	now  func() time.Time
}

func NewStore(kv *KV, feed livequery.Feed) *Store {
	return &Store{kv: kv, feed: feed, now: time.Now}
}

// NewUnitOfWork hands out repositories bound to the store. The demo store has
// no transactions: Begin, Commit and Rollback succeed and do nothing.
func (s *Store) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &unitOfWork{store: s}
}

// clock returns a strictly increasing timestamp. Caller holds s.mu.
func (s *Store) clock() time.Time {
	t := s.now().UTC()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

func (s *Store) publish(ctx context.Context, keys ...string) {
	if s.feed == nil {
		return
	}
	for _, key := range keys {
		// the feed is in-process; a failed publish only delays a live query until the next write
		_ = s.feed.Publish(ctx, key)
	}
}

func load[T any](kv *KV, key string) ([]T, error) {
	raw, ok := kv.Get(key)
	if !ok || raw == "" {
		return nil, nil
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return items, nil
}

func save[T any](kv *KV, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	kv.Set(key, string(raw))
	return nil
}

type unitOfWork struct {
	store *Store
}

func (u *unitOfWork) Begin(ctx context.Context) error { return nil }
func (u *unitOfWork) Commit() error                    { return nil }
func (u *unitOfWork) Rollback() error                  { return nil }

func (u *unitOfWork) UserRepository() contract.UserRepository {
	return &userRepository{s: u.store}
}

func (u *unitOfWork) PitchRepository() contract.PitchRepository {
	return &pitchRepository{s: u.store}
}

func (u *unitOfWork) ConversationRepository() contract.ConversationRepository {
	return &conversationRepository{s: u.store}
}

func (u *unitOfWork) MessageRepository() contract.MessageRepository {
	return &messageRepository{s: u.store}
}
