package models

import (
	"time"
)

// Question status values. A question stays pending until an administrator
// answers it (which publishes it) or rejects it.
const (
	QuestionPending   = "pending"
	QuestionPublished = "published"
	QuestionRejected  = "rejected"
)

type Question struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Qid           string    `gorm:"uniqueIndex;size:8;not null" json:"qid"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	User          User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	CategoryID    uint      `gorm:"not null;index;default:1" json:"category_id"`
	Category      Category  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"category"`
	Title         string    `gorm:"not null" json:"title"`
	Content       string    `gorm:"type:text" json:"content"`
	Status        string    `gorm:"size:20;default:'pending';not null;index" json:"status"`
	Views         int       `gorm:"default:0" json:"views"`
	ActivityScore int       `gorm:"default:0" json:"activity_score"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Filled per query, not persisted.
	AnswerCount  int `gorm:"-" json:"answer_count"`
	CommentCount int `gorm:"-" json:"comment_count"`
	LikeCount    int `gorm:"-" json:"like_count"`
}
