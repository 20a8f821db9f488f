package thread

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"mehber/internal/models"
)

// GormStore is the production Store backed by the relational database.
// Requires gorm's TranslateError so unique-index violations surface as
// gorm.ErrDuplicatedKey (see db.Init).
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) ListByRoot(questionID, answerID *uint) ([]models.Comment, error) {
	var comments []models.Comment
	q := s.db.Preload("User").Order("created_at ASC, id ASC")
	if questionID != nil {
		q = q.Where("question_id = ?", *questionID)
	} else {
		q = q.Where("answer_id = ?", *answerID)
	}
	if err := q.Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// ListLikes fetches all like rows for the given targets in one query; the
// caller aggregates. Keeping this a single IN query is what guarantees the
// per-comment counts come from one consistent snapshot.
func (s *GormStore) ListLikes(targetType string, targetIDs []uint) ([]models.Like, error) {
	if len(targetIDs) == 0 {
		return nil, nil
	}
	var likes []models.Like
	err := s.db.
		Where("target_type = ? AND target_id IN ?", targetType, targetIDs).
		Find(&likes).Error
	if err != nil {
		return nil, err
	}
	return likes, nil
}

func (s *GormStore) InsertComment(c *models.Comment) error {
	return s.db.Create(c).Error
}

func (s *GormStore) GetComment(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes the row; the self-FK's ON DELETE CASCADE takes the
// descendants down with it in the same statement.
func (s *GormStore) DeleteComment(id uint) error {
	res := s.db.Delete(&models.Comment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) InsertLike(l *models.Like) error {
	if err := s.db.Create(l).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("like: %w", ErrAlreadyExists)
		}
		return err
	}
	return nil
}

func (s *GormStore) DeleteLike(userID uint, targetType string, targetID uint) error {
	res := s.db.
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		Delete(&models.Like{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
