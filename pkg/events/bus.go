package events

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.uber.org/zap"
)

// Handler processes one event.
type Handler func(ctx context.Context, event Event) error

// Subscriber attaches a named consumer for one event type.
type Subscriber interface {
	Subscribe(ctx context.Context, eventType, durableName string, handler Handler) error
}

// ChannelBus is the in-process bus used when no broker is configured.
// Delivery is at most once: a failing handler is logged, not retried.
type ChannelBus struct {
	pubSub *gochannel.GoChannel
	log    *zap.Logger
}

func NewChannelBus(log *zap.Logger) *ChannelBus {
	if log == nil {
		log = zap.NewNop()
	}
	return &ChannelBus{
		pubSub: gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 256}, watermill.NopLogger{}),
		log:    log,
	}
}

func topic(eventType string) string {
	return "arrow." + eventType
}

func (b *ChannelBus) Publish(ctx context.Context, event Event) error {
	data, err := Marshal(event)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.SetContext(ctx)
	return b.pubSub.Publish(topic(event.EventType()), msg)
}

func (b *ChannelBus) Subscribe(ctx context.Context, eventType, durableName string, handler Handler) error {
	messages, err := b.pubSub.Subscribe(ctx, topic(eventType))
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			event, err := Unmarshal(msg.Payload)
			if err != nil {
				b.log.Error("dropping undecodable event", zap.String("consumer", durableName), zap.Error(err))
				msg.Ack()
				continue
			}
			if err := handler(ctx, event); err != nil {
				b.log.Warn("event handler failed", zap.String("consumer", durableName), zap.String("event", eventType), zap.Error(err))
			}
			msg.Ack()
		}
	}()
	return nil
}

func (b *ChannelBus) Close() error {
	return b.pubSub.Close()
}
