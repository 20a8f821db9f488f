package models

import (
	"time"
)

// Like target types.
const (
	TargetQuestion = "question"
	TargetAnswer   = "answer"
	TargetComment  = "comment"
)

// Like records one user's endorsement of one target. The composite unique
// index is what serializes concurrent like attempts: a duplicate insert
// fails at the store and is treated as "already liked" upstream.
type Like struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_user_target" json:"user_id"`
	TargetType string    `gorm:"size:20;not null;uniqueIndex:idx_user_target" json:"target_type"` // question, answer, comment
	TargetID   uint      `gorm:"not null;index;uniqueIndex:idx_user_target" json:"target_id"`
	CreatedAt  time.Time `json:"created_at"`
}
