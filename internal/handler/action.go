package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"voice-todo/internal/logger"
	"voice-todo/internal/model"

	"github.com/gin-gonic/gin"
)

type ActionDeterminer interface {
	DetermineAction(ctx context.Context, text, emoji string, todos []model.TodoItem) (*model.Action, error)
}

type ActionRecorder interface {
	Record(ctx context.Context, entry *model.ActionLog) error
	Recent(ctx context.Context, userID, limit int) ([]model.ActionLog, error)
}

type ActionHandler struct {
	ai      ActionDeterminer
	history ActionRecorder
}

// NewActionHandler wires the determiner. history may be nil.
func NewActionHandler(ai ActionDeterminer, history ActionRecorder) *ActionHandler {
	return &ActionHandler{ai: ai, history: history}
}

// Determine handles POST /api/action
func (h *ActionHandler) Determine(c *gin.Context) {
	var req model.ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	ctx := c.Request.Context()
	start := time.Now()
	action, err := h.ai.DetermineAction(ctx, req.Text, req.Emoji, req.Todos)
	h.record(c, req, action, time.Since(start), err)
	if err != nil {
		logger.Ctx(ctx).Error("action.failed", "err", err)
		respondError(c, err)
		return
	}

	if missing := action.MissingFields(); len(missing) > 0 {
		logger.Ctx(ctx).Warn("action.incomplete", "action", action.Action, "missing", missing)
	}
	c.JSON(http.StatusOK, action)
}

// History handles GET /api/actions?limit=N
func (h *ActionHandler) History(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}
	logs, err := h.history.Recent(c.Request.Context(), c.GetInt("user_id"), limit)
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("action.history failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if logs == nil {
		logs = []model.ActionLog{}
	}
	c.JSON(http.StatusOK, logs)
}

// record persists the outcome in the background; failures are only logged.
func (h *ActionHandler) record(c *gin.Context, req model.ActionRequest, action *model.Action, took time.Duration, err error) {
	if h.history == nil {
		return
	}
	entry := &model.ActionLog{
		RequestID:  c.GetString("request_id"),
		UserID:     c.GetInt("user_id"),
		Text:       req.Text,
		Emoji:      req.Emoji,
		TodoCount:  len(req.Todos),
		DurationMS: took.Milliseconds(),
	}
	if action != nil {
		if b, mErr := json.Marshal(action); mErr == nil {
			entry.Action = string(b)
		}
	}
	if err != nil {
		entry.Error = err.Error()
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.history.Record(ctx, entry); err != nil {
			logger.Warn("action.record failed", "request_id", entry.RequestID, "err", err)
		}
	}()
}
