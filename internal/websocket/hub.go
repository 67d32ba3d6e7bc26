package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"arrow-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const eventSignedOut = "signed_out"

// Hub tracks the open page views of every signed-in user so session changes
// reach all of them, on this instance and, through Redis, on the others.
type Hub struct {
	// Registered page views: UserID -> views (multi-tab, multi-device)
	views map[uuid.UUID]map[*PageView]struct{}
	// Reverse index so a view can be rebound when its identity changes
	owners map[*PageView]uuid.UUID

	mu sync.RWMutex

	// Redis connection for cross-instance communication, nil on a single instance
	rdb     *redis.Client
	channel string
	origin  string

	logger logger.ILogger
}

type clusterEvent struct {
	Origin       string `json:"origin"`
	TargetUserID string `json:"target_user_id"`
	Event        string `json:"event"`
}

func NewHub(rdb *redis.Client, channel string, log logger.ILogger) *Hub {
	return &Hub{
		views:   make(map[uuid.UUID]map[*PageView]struct{}),
		owners:  make(map[*PageView]uuid.UUID),
		rdb:     rdb,
		channel: channel,
		origin:  watermill.NewUUID(),
		logger:  log,
	}
}

// Bind attaches view to userId, detaching it from any previous user.
func (h *Hub) Bind(view *PageView, userId uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.unbindLocked(view)
	if h.views[userId] == nil {
		h.views[userId] = make(map[*PageView]struct{})
	}
	h.views[userId][view] = struct{}{}
	h.owners[view] = userId
}

func (h *Hub) Unbind(view *PageView) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unbindLocked(view)
}

func (h *Hub) unbindLocked(view *PageView) {
	userId, ok := h.owners[view]
	if !ok {
		return
	}
	delete(h.owners, view)
	delete(h.views[userId], view)
	if len(h.views[userId]) == 0 {
		delete(h.views, userId)
	}
}

// ViewCount is the number of page views bound to userId on this instance.
func (h *Hub) ViewCount(userId uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.views[userId])
}

// SignedOut ends the session in every page view of userId.
func (h *Hub) SignedOut(ctx context.Context, userId uuid.UUID) {
	h.signOutLocal(userId)

	if h.rdb == nil {
		return
	}
	payload, _ := json.Marshal(clusterEvent{Origin: h.origin, TargetUserID: userId.String(), Event: eventSignedOut})
	if err := h.rdb.Publish(ctx, h.channel, payload).Err(); err != nil {
		h.logger.Warn("Hub", "Cluster publish failed", map[string]interface{}{"user_id": userId.String(), "error": err.Error()})
	}
}

func (h *Hub) signOutLocal(userId uuid.UUID) {
	h.mu.RLock()
	targets := make([]*PageView, 0, len(h.views[userId]))
	for v := range h.views[userId] {
		targets = append(targets, v)
	}
	h.mu.RUnlock()

	for _, v := range targets {
		v.SetIdentity(nil)
	}
	h.logger.Info("Hub", "Signed out page views", map[string]interface{}{"user_id": userId.String(), "views": len(targets)})
}

// Run relays cluster events until ctx is done. It returns at once without Redis.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb == nil {
		return
	}

	pubsub := h.rdb.Subscribe(ctx, h.channel)
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
			var event clusterEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				h.logger.Warn("Hub", "Redis msg parse error", map[string]interface{}{"error": err.Error()})
				continue
			}
			if event.Origin == h.origin {
				continue
			}
			uid, err := uuid.Parse(event.TargetUserID)
			if err != nil {
				continue
			}
			if event.Event == eventSignedOut {
				h.signOutLocal(uid)
			}
		}
	}
}
