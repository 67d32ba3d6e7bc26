package websocket

import (
	"context"

	"arrow-be/internal/pkg/logger"
	"arrow-be/internal/session"

	"github.com/gofiber/websocket/v2"
)

// ServeWs runs one page view on conn until the peer goes away.
func ServeWs(hub *Hub, conn *websocket.Conn, page session.Page, initial *session.Identity, deps Deps, log logger.ILogger) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := NewClient(conn, log)
	view := NewPageView(page, client, deps, hub, log)
	defer view.Close()

	go client.writePump()

	view.Start(ctx, initial)
	client.readPump(ctx, view.HandleFrame)
}
