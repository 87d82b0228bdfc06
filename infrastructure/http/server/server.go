// Package server exposes the chat core over HTTP and websockets.
package server

import (
	"dm-chat/auth"
	"dm-chat/contract"
	"dm-chat/observability"
	"dm-chat/services"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type Dependencies struct {
	Chat                 services.IChatService
	Auth                 services.IAuthService
	Identity             auth.IdentityResolver
	Registry             contract.IRegistry
	Metrics              *observability.Metrics
	Monitoring           *observability.MonitoringManager
	ConnectionBufferSize int
	// AllowedOrigins restricts websocket upgrades, any origin is accepted when empty.
	AllowedOrigins []string
}

// NewRouter wires every route on a fresh gin engine.
func NewRouter(log *slog.Logger, deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(recovery(log), requestLogger(log))
	if deps.Metrics != nil {
		router.Use(instrument(deps.Metrics))
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}
	router.GET("/health", health(deps.Monitoring))

	authHandler := NewAuthHandler(deps.Auth, log)
	authGroup := router.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", requireCaller(deps.Identity, log), authHandler.Me)

	chatHandler := NewChatHandler(deps.Chat, log)
	ws := NewWebsocketHandler(deps.Registry, deps.ConnectionBufferSize, deps.AllowedOrigins, log)
	chat := router.Group("/chat", requireCaller(deps.Identity, log))
	chat.POST("/createRoom", chatHandler.CreateRoom)
	chat.GET("/rooms", chatHandler.ListSubscribedRooms)
	chat.GET("/newRooms", chatHandler.ListUnsubscribedRooms)
	chat.GET("/leftRooms", chatHandler.ListLeftRooms)
	chat.GET("/room/:id", chatHandler.GetRoom)
	chat.PATCH("/subscribe/:id", chatHandler.Subscribe)
	chat.PATCH("/unsubscribe/:id", chatHandler.Unsubscribe)
	// :id is a room on POST and GET, a message on PATCH and DELETE.
	chat.POST("/message/:id", chatHandler.SendMessage)
	chat.GET("/message/:id", chatHandler.ListMessages)
	chat.PATCH("/message/:id", chatHandler.EditMessage)
	chat.DELETE("/message/:id", chatHandler.DeleteMessage)
	chat.PATCH("/read/:id", chatHandler.MarkRead)
	chat.PATCH("/unread/:id/:status", chatHandler.MarkUnread)
	chat.GET("/ws", ws.Connect)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, envelope{Status: statusError, Message: "route not found"})
	})
	return router
}

func health(monitoring *observability.MonitoringManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if monitoring == nil {
			success(c, http.StatusOK, gin.H{"status": "ok"})
			return
		}
		success(c, http.StatusOK, monitoring.GetLatest())
	}
}

func newUpgrader(allowedOrigins []string) websocket.Upgrader {
	upgrader := websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024}
	if len(allowedOrigins) == 0 {
		upgrader.CheckOrigin = func(*http.Request) bool { return true }
		return upgrader
	}
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}
	upgrader.CheckOrigin = func(r *http.Request) bool {
		_, ok := allowed[r.Header.Get("Origin")]
		return ok
	}
	return upgrader
}
