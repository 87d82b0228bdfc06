package server

import (
	"dm-chat/contract"
	"dm-chat/sink"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WebsocketHandler struct {
	registry   contract.IRegistry
	upgrader   websocket.Upgrader
	bufferSize int
	log        *slog.Logger
}

func NewWebsocketHandler(registry contract.IRegistry, bufferSize int, allowedOrigins []string, log *slog.Logger) *WebsocketHandler {
	return &WebsocketHandler{
		registry:   registry,
		upgrader:   newUpgrader(allowedOrigins),
		bufferSize: bufferSize,
		log:        log,
	}
}

// Connect upgrades the request and keeps the caller registered until the connection ends.
// The request context is derived from the server base context, so shutdown closes it.
func (h *WebsocketHandler) Connect(c *gin.Context) {
	caller := callerOf(c)
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Debug("Websocket upgrade refused", "user_id", caller.UserID, "error", err)
		return
	}
	s := sink.NewWebsocketSink(conn, caller.UserID, h.bufferSize, h.log)
	h.registry.Subscribe(caller.UserID, s)
	defer h.registry.Unsubscribe(caller.UserID, s.ID())
	h.log.Debug("Realtime connection opened", "user_id", caller.UserID, "sink", s.ID(), "session", caller.Session)

	s.Run(c.Request.Context())
}
