package livequery

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func next[T any](t *testing.T, sub *Subscription[T]) Snapshot[T] {
	t.Helper()
	select {
	case snap, ok := <-sub.C():
		require.True(t, ok, "subscription closed")
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot delivered")
	}
	return Snapshot[T]{}
}

type listStore struct {
	mu    sync.Mutex
	items []string
}

func (s *listStore) add(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, v)
}

func (s *listStore) query(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.items...), nil
}

func TestWatchPushesInitialAndChangedSnapshots(t *testing.T) {
	feed := NewGoChannelFeed(nil)
	defer feed.Close()
	store := &listStore{}

	sub, err := Watch(context.Background(), feed, "things", store.query)
	require.NoError(t, err)
	defer sub.Cancel()
	assert.Equal(t, "things", sub.Key())

	assert.Empty(t, next(t, sub).Items)

	store.add("a")
	require.NoError(t, feed.Publish(context.Background(), "things"))
	assert.Equal(t, []string{"a"}, next(t, sub).Items)
}

func TestWatchIgnoresOtherKeys(t *testing.T) {
	feed := NewGoChannelFeed(nil)
	defer feed.Close()
	var runs atomic.Int32

	sub, err := Watch(context.Background(), feed, "mine", func(ctx context.Context) ([]int, error) {
		runs.Add(1)
		return nil, nil
	})
	require.NoError(t, err)
	defer sub.Cancel()
	next(t, sub)

	require.NoError(t, feed.Publish(context.Background(), "theirs"))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())
}

func TestWatchDeliversQueryErrors(t *testing.T) {
	feed := NewGoChannelFeed(nil)
	defer feed.Close()
	boom := errors.New("permission denied")

	sub, err := Watch(context.Background(), feed, "k", func(ctx context.Context) ([]int, error) {
		return nil, boom
	})
	require.NoError(t, err)
	defer sub.Cancel()

	snap := next(t, sub)
	assert.ErrorIs(t, snap.Err, boom)
	assert.Nil(t, snap.Items)
}

func TestWatchLatestWins(t *testing.T) {
	feed := NewGoChannelFeed(nil)
	defer feed.Close()
	store := &listStore{}

	sub, err := Watch(context.Background(), feed, "k", store.query)
	require.NoError(t, err)
	defer sub.Cancel()

	// nobody reads while several changes land
	for _, v := range []string{"a", "b", "c"} {
		store.add(v)
		require.NoError(t, feed.Publish(context.Background(), "k"))
	}

	require.Eventually(t, func() bool {
		select {
		case snap := <-sub.C():
			return len(snap.Items) == 3
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCancelClosesChannel(t *testing.T) {
	feed := NewGoChannelFeed(nil)
	defer feed.Close()

	sub, err := Watch(context.Background(), feed, "k", func(ctx context.Context) ([]int, error) {
		return []int{1}, nil
	})
	require.NoError(t, err)
	next(t, sub)

	sub.Cancel()
	sub.Cancel()
	_, ok := <-sub.C()
	assert.False(t, ok)
}
