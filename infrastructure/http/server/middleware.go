package server

import (
	"dm-chat/auth"
	"dm-chat/observability"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	callerKey     = "caller"
	sessionHeader = "Session"
)

// requireCaller resolves the identity of the request before any chat handler runs.
// Websocket clients cannot set headers, they may pass the token as a query parameter.
func requireCaller(resolver auth.IdentityResolver, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authorization := c.GetHeader("Authorization")
		if authorization == "" {
			if token := c.Query("token"); token != "" {
				authorization = "Bearer " + token
			}
		}
		caller, err := resolver.Resolve(c.Request.Context(), authorization, c.GetHeader(sessionHeader))
		if err != nil {
			fail(c, log, err)
			return
		}
		c.Set(callerKey, caller)
		c.Request = c.Request.WithContext(auth.WithCaller(c.Request.Context(), caller))
		c.Next()
	}
}

func callerOf(c *gin.Context) auth.Caller {
	caller, _ := c.MustGet(callerKey).(auth.Caller)
	return caller
}

func instrument(metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("Request served",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start))
	}
}

func recovery(log *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("Handler panicked", "path", c.Request.URL.Path, "panic", fmt.Sprint(recovered))
		c.AbortWithStatusJSON(http.StatusInternalServerError, envelope{Status: statusError, Message: "internal error"})
	})
}
