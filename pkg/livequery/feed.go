// Package livequery turns store writes into pushed query snapshots.
//
// Writers publish change keys on a Feed. Watch subscribes to one key, runs its
// query once up front and again after every change, and pushes each result as
// a full snapshot until cancelled.
package livequery

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Feed carries change keys from writers to live queries.
type Feed interface {
	Publish(ctx context.Context, key string) error
	// Subscribe returns a channel that receives a tick per change of key.
	// Ticks may be coalesced. The channel is closed once ctx is done.
	Subscribe(ctx context.Context, key string) (<-chan struct{}, error)
}

// GoChannelFeed is the in-process feed built on watermill's gochannel pub/sub.
type GoChannelFeed struct {
	pubSub *gochannel.GoChannel
}

func NewGoChannelFeed(logger watermill.LoggerAdapter) *GoChannelFeed {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	return &GoChannelFeed{
		pubSub: gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, logger),
	}
}

func (f *GoChannelFeed) Publish(_ context.Context, key string) error {
	return f.pubSub.Publish(key, message.NewMessage(watermill.NewUUID(), nil))
}

func (f *GoChannelFeed) Subscribe(ctx context.Context, key string) (<-chan struct{}, error) {
	messages, err := f.pubSub.Subscribe(ctx, key)
	if err != nil {
		return nil, err
	}

	ticks := make(chan struct{}, 1)
	go func() {
		defer close(ticks)
		for msg := range messages {
			msg.Ack()
			select {
			case ticks <- struct{}{}:
			default:
				// a tick is already pending, the next query run sees this change too
			}
		}
	}()
	return ticks, nil
}

func (f *GoChannelFeed) Close() error {
	return f.pubSub.Close()
}
