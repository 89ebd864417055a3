package service

import (
	"context"
	"fmt"

	"voice-todo/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// ActionLogService keeps an audit trail of action determinations.
type ActionLogService struct{ db *gorm.DB }

func NewActionLogService(db *gorm.DB) *ActionLogService { return &ActionLogService{db: db} }

func (s *ActionLogService) Record(ctx context.Context, entry *model.ActionLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("insert action log: %w", err)
	}
	return nil
}

// Recent returns the caller's newest records first.
func (s *ActionLogService) Recent(ctx context.Context, userID, limit int) ([]model.ActionLog, error) {
	var logs []model.ActionLog
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(ClampLimit(limit)).
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("query action logs: %w", err)
	}
	return logs, nil
}

// ClampLimit maps a requested page size into [1, 100]; zero or less means the default.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultHistoryLimit
	case limit > maxHistoryLimit:
		return maxHistoryLimit
	default:
		return limit
	}
}
