package livequery

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/redis/go-redis/v9"
)

// RedisBridge relays change keys between instances. Local publishes go to the
// local feed and to a Redis channel; keys arriving from other instances are
// republished locally.
type RedisBridge struct {
	local   Feed
	rdb     *redis.Client
	channel string
	origin  string
	onError func(err error)
}

type bridgePayload struct {
	Origin string `json:"origin"`
	Key    string `json:"key"`
}

func NewRedisBridge(local Feed, rdb *redis.Client, channel string, onError func(err error)) *RedisBridge {
	return &RedisBridge{
		local:   local,
		rdb:     rdb,
		channel: channel,
		origin:  watermill.NewUUID(),
		onError: onError,
	}
}

func (b *RedisBridge) Publish(ctx context.Context, key string) error {
	if err := b.local.Publish(ctx, key); err != nil {
		return err
	}

	data, _ := json.Marshal(bridgePayload{Origin: b.origin, Key: key})
	return b.rdb.Publish(ctx, b.channel, data).Err()
}

func (b *RedisBridge) Subscribe(ctx context.Context, key string) (<-chan struct{}, error) {
	return b.local.Subscribe(ctx, key)
}

// Run blocks relaying remote keys until ctx is done.
func (b *RedisBridge) Run(ctx context.Context) {
	pubsub := b.rdb.Subscribe(ctx, b.channel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var payload bridgePayload
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				b.report(err)
				continue
			}
			if payload.Origin == b.origin {
				continue
			}
			if err := b.local.Publish(ctx, payload.Key); err != nil {
				b.report(err)
			}
		}
	}
}

func (b *RedisBridge) report(err error) {
	if b.onError != nil {
		b.onError(err)
	}
}
