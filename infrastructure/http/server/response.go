package server

import (
	"dm-chat/errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

type envelope struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func success(c *gin.Context, code int, data any) {
	c.JSON(code, envelope{Status: statusSuccess, Data: data})
}

// fail answers with the status matching err. Infrastructure failures are logged
// and never leak their details to the client.
func fail(c *gin.Context, log *slog.Logger, err error) {
	code := errors.MapToHTTPStatus(err)
	message := err.Error()
	switch {
	case errors.IsCancellation(err):
		log.Debug("Request abandoned",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", code,
			"error", err)
	case !errors.IsBusinessError(err):
		log.Error("Request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", code,
			"error", err)
		if code == http.StatusInternalServerError {
			message = "internal error"
		}
	}
	c.AbortWithStatusJSON(code, envelope{Status: statusError, Message: message})
}
