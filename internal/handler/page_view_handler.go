package handler

import (
	"strings"

	"arrow-be/internal/pkg/logger"
	"arrow-be/internal/pkg/serverutils"
	"arrow-be/internal/service"
	"arrow-be/internal/session"
	internalWS "arrow-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type PageViewHandler struct {
	auth   service.IAuthService
	deps   internalWS.Deps
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewPageViewHandler(auth service.IAuthService, deps internalWS.Deps, hub *internalWS.Hub, log logger.ILogger) *PageViewHandler {
	return &PageViewHandler{
		auth:   auth,
		deps:   deps,
		hub:    hub,
		logger: log,
	}
}

// ServeWs opens one page view. A missing or invalid token is not an error:
// the page starts signed out and the route guard decides what happens next.
func (h *PageViewHandler) ServeWs(c *fiber.Ctx) error {
	page := session.Page(c.Query("page"))
	if !page.Valid() {
		return serverutils.BadRequest("Unknown page")
	}

	// Priority 1: Query Param (Browser standard)
	tokenStr := c.Query("token")
	// Priority 2: Authorization Header (Tooling/Non-browser standard)
	if tokenStr == "" {
		if authHeader := c.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
			tokenStr = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}

	var initial *session.Identity
	if tokenStr != "" {
		id, err := h.auth.Authenticate(tokenStr)
		if err != nil {
			h.logger.Warn("PageViewHandler", "Invalid token in WS handshake", map[string]interface{}{"error": err.Error()})
		} else {
			initial = id
		}
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("PageViewHandler", "Page view opened", map[string]interface{}{"page": string(page)})
		internalWS.ServeWs(h.hub, conn, page, initial, h.deps, h.logger)
		h.logger.Info("PageViewHandler", "Page view closed", map[string]interface{}{"page": string(page)})
	})(c)
}

func (h *PageViewHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.ServeWs)
}
