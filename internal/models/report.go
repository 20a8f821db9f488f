package models

import (
	"time"
)

type Report struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"` // reporter
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	ItemType  string    `gorm:"size:20;not null" json:"item_type"` // "question", "answer", "comment"
	ItemID    uint      `gorm:"not null;index" json:"item_id"`
	ItemQid   string    `gorm:"size:8" json:"item_qid"` // question slug the item belongs to
	Reason    string    `gorm:"size:200;not null" json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}
