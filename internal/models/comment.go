package models

import (
	"time"
)

// Comment is one post in a discussion thread. Exactly one of QuestionID /
// AnswerID is set: a comment hangs either off a question or off an answer,
// never both. ParentID is nil for top-level comments; reply depth is capped
// at three levels by the thread service before insert.
//
// The self-referencing FK carries ON DELETE CASCADE, so deleting a comment
// removes its whole descendant subtree in one store operation.
type Comment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	User       User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	QuestionID *uint     `gorm:"index" json:"question_id"`
	Question   *Question `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"question"`
	AnswerID   *uint     `gorm:"index" json:"answer_id"`
	Answer     *Answer   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"answer"`
	ParentID   *uint     `gorm:"index" json:"parent_id"`
	Parent     *Comment  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"parent"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
