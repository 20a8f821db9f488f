package thread

import (
	"mehber/internal/models"
)

// Store is the persistence contract the thread service runs against.
// The production implementation is GormStore; tests use an in-memory fake.
//
// DeleteComment must cascade to all descendants atomically (the comment
// table's self-FK carries ON DELETE CASCADE); the service never walks the
// subtree itself. InsertLike must fail with ErrAlreadyExists when the
// (user, target) pair is already present, and DeleteLike with ErrNotFound
// when it is not.
type Store interface {
	ListByRoot(questionID, answerID *uint) ([]models.Comment, error)
	ListLikes(targetType string, targetIDs []uint) ([]models.Like, error)
	InsertComment(c *models.Comment) error
	GetComment(id uint) (*models.Comment, error)
	DeleteComment(id uint) error
	InsertLike(l *models.Like) error
	DeleteLike(userID uint, targetType string, targetID uint) error
}
