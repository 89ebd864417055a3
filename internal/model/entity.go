package model

import "time"

type Account struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:64" json:"username"`
	Password  string    `gorm:"size:255" json:"-"`
	Name      string    `gorm:"size:64" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ActionLog records one action determination. Action holds the JSON reply.
type ActionLog struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	RequestID  string    `gorm:"size:64;index" json:"request_id"`
	UserID     int       `gorm:"index" json:"user_id"`
	Text       string    `gorm:"type:text" json:"text"`
	Emoji      string    `gorm:"size:32" json:"emoji,omitempty"`
	TodoCount  int       `json:"todo_count"`
	Action     string    `gorm:"type:text" json:"action,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	Error      string    `gorm:"type:text" json:"error,omitempty"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

func (Account) TableName() string   { return "users" }
func (ActionLog) TableName() string { return "action_logs" }
