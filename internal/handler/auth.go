package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"voice-todo/internal/logger"
	"voice-todo/internal/middleware"
	"voice-todo/internal/model"
	"voice-todo/internal/service"

	"github.com/gin-gonic/gin"
)

type Authenticator interface {
	Login(ctx context.Context, username, password string) (*model.Account, error)
}

type AuthHandler struct {
	auth   Authenticator
	secret []byte
	ttl    time.Duration
}

func NewAuthHandler(auth Authenticator, secret []byte, ttl time.Duration) *AuthHandler {
	return &AuthHandler{auth: auth, secret: secret, ttl: ttl}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	a, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrBadCredentials) {
			logger.Warn("login.failed", "username", req.Username)
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		logger.Error("login.error", "username", req.Username, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login unavailable"})
		return
	}

	token, err := middleware.IssueToken(h.secret, a.ID, a.Name, h.ttl)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sign token failed"})
		return
	}
	logger.Info("login.ok", "uid", a.ID, "name", a.Name)

	c.JSON(http.StatusOK, model.LoginResponse{
		Token: token,
		User:  model.User{ID: a.ID, Name: a.Name},
	})
}
