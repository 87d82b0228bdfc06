package server

import (
	"dm-chat/auth"
	"dm-chat/errors"
	"dm-chat/services"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth services.IAuthService
	log  *slog.Logger
}

func NewAuthHandler(auth services.IAuthService, log *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var body auth.RegisterRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, h.log, fmt.Errorf("%w: malformed body: %v", errors.ErrValidation, err))
		return
	}
	token, err := h.auth.Register(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	success(c, http.StatusCreated, gin.H{"token": token.String()})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var body auth.LoginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, h.log, fmt.Errorf("%w: malformed body: %v", errors.ErrValidation, err))
		return
	}
	token, err := h.auth.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	success(c, http.StatusOK, gin.H{"token": token.String()})
}

// Me tells a client the identifier other users need to open a room with it.
func (h *AuthHandler) Me(c *gin.Context) {
	caller := callerOf(c)
	success(c, http.StatusOK, gin.H{"userId": caller.UserID, "session": caller.Session})
}
