package livequery

import (
	"context"
	"sync"
)

// Snapshot is one full result of a live query. Err is set when the query failed;
// Items is then nil.
type Snapshot[T any] struct {
	Items []T
	Err   error
}

// QueryFunc produces the current result set of a live query.
type QueryFunc[T any] func(ctx context.Context) ([]T, error)

// Subscription is the handle of a running live query.
type Subscription[T any] struct {
	key    string
	c      chan Snapshot[T]
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Watch subscribes to key on feed and pushes a snapshot of query now and after
// every change. Delivery is latest-wins: a slow reader skips stale snapshots
// but never sees them out of order.
func Watch[T any](ctx context.Context, feed Feed, key string, query QueryFunc[T]) (*Subscription[T], error) {
	ctx, cancel := context.WithCancel(ctx)

	// Subscribe before the first query so no change slips between the two.
	changes, err := feed.Subscribe(ctx, key)
	if err != nil {
		cancel()
		return nil, err
	}

	sub := &Subscription[T]{
		key:    key,
		c:      make(chan Snapshot[T], 1),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go sub.loop(ctx, changes, query)
	return sub, nil
}

func (s *Subscription[T]) loop(ctx context.Context, changes <-chan struct{}, query QueryFunc[T]) {
	defer close(s.done)
	defer close(s.c)

	run := func() {
		items, err := query(ctx)
		if ctx.Err() != nil {
			return
		}
		s.deliver(Snapshot[T]{Items: items, Err: err})
	}

	run()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			run()
		}
	}
}

func (s *Subscription[T]) deliver(snap Snapshot[T]) {
	select {
	case s.c <- snap:
	default:
		select {
		case <-s.c:
		default:
		}
		s.c <- snap
	}
}

// C is closed after Cancel.
func (s *Subscription[T]) C() <-chan Snapshot[T] {
	return s.c
}

func (s *Subscription[T]) Key() string {
	return s.key
}

// Cancel stops the query and waits for its goroutine. Safe to call twice.
func (s *Subscription[T]) Cancel() {
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
}
