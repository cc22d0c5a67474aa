package handler

import (
	"log"

	"catalog-service/internal/realtime"

	"github.com/labstack/echo/v4"
)

// WebSocketHandler handles WebSocket connection upgrades.
type WebSocketHandler struct {
	hub *realtime.Hub
}

// NewWebSocketHandler creates a new WebSocketHandler.
func NewWebSocketHandler(hub *realtime.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// HandleConnections upgrades HTTP requests to WebSocket connections.
// ServeWsUpgrade takes over the connection and writes its own error on
// failure, so the handler returns nil to echo either way.
func (h *WebSocketHandler) HandleConnections(c echo.Context) error {
	log.Printf("Incoming WebSocket connection request from: %s", c.Request().RemoteAddr)
	realtime.ServeWsUpgrade(h.hub, c.Response().Writer, c.Request())
	return nil
}
