package thread

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"mehber/internal/models"
)

// MaxContentLen is the maximum comment length in characters.
const MaxContentLen = 2000

// Service orchestrates the tree builder, like aggregator and moderation
// policy over a Store. It holds no state of its own; every call builds and
// discards its request-scoped data.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateInput is a comment-creation request. Exactly one of QuestionID /
// AnswerID must be set; ParentID is optional.
type CreateInput struct {
	Content    string
	QuestionID *uint
	AnswerID   *uint
	ParentID   *uint
}

// GetThread returns the ordered comment forest for one discussion root,
// with like counts and the viewer's liked flags merged in. An empty forest
// is a normal result, not an error. viewer may be the zero Viewer.
func (s *Service) GetThread(questionID, answerID *uint, viewer Viewer) ([]*CommentView, error) {
	if (questionID == nil) == (answerID == nil) {
		return nil, errRootChoice
	}

	comments, err := s.store.ListByRoot(questionID, answerID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	if len(comments) == 0 {
		return []*CommentView{}, nil
	}

	ids := make([]uint, len(comments))
	for i, c := range comments {
		ids[i] = c.ID
	}
	likes, err := s.store.ListLikes(models.TargetComment, ids)
	if err != nil {
		return nil, fmt.Errorf("list likes: %w", err)
	}

	forest := BuildTree(comments)
	mergeLikes(forest, AggregateLikes(ids, likes, viewer.ID))
	return forest, nil
}

// CreateComment validates and persists a new comment. The returned comment
// carries no like data; callers re-read the thread for display.
func (s *Service) CreateComment(in CreateInput, author Viewer) (*models.Comment, error) {
	if !author.Authenticated() {
		return nil, ErrUnauthenticated
	}

	content := strings.TrimSpace(in.Content)
	if n := utf8.RuneCountInString(content); n == 0 || n > MaxContentLen {
		return nil, errContentLen
	}
	if (in.QuestionID == nil) == (in.AnswerID == nil) {
		return nil, errRootChoice
	}

	var parent *models.Comment
	if in.ParentID != nil {
		var err error
		parent, err = s.store.GetComment(*in.ParentID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("parent: %w", ErrNotFound)
			}
			return nil, fmt.Errorf("get parent: %w", err)
		}
		if !sameRoot(parent, in.QuestionID, in.AnswerID) {
			return nil, errRootMismatch
		}
		ok, err := CanNest(parent, s.store.GetComment)
		if err != nil {
			return nil, fmt.Errorf("nesting check: %w", err)
		}
		if !ok {
			return nil, errMaxDepth
		}
	}

	comment := &models.Comment{
		UserID:     author.ID,
		QuestionID: in.QuestionID,
		AnswerID:   in.AnswerID,
		ParentID:   in.ParentID,
		Content:    content,
	}
	if err := s.store.InsertComment(comment); err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return comment, nil
}

// DeleteComment removes a comment after the moderation policy allows it.
// The store cascades the delete to all descendants.
func (s *Service) DeleteComment(id uint, viewer Viewer) error {
	if !viewer.Authenticated() {
		return ErrUnauthenticated
	}
	comment, err := s.store.GetComment(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("get comment: %w", err)
	}
	if !CanDelete(*comment, viewer, time.Now()) {
		return ErrForbidden
	}
	if err := s.store.DeleteComment(id); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

// ToggleLike flips the viewer's like on a comment and reports the resulting
// state. Liking an already-liked comment (a lost race on the unique index)
// is a success; unliking an absent like is likewise a quiet no-op.
func (s *Service) ToggleLike(commentID uint, viewer Viewer) (liked bool, err error) {
	if !viewer.Authenticated() {
		return false, ErrUnauthenticated
	}
	if _, err := s.store.GetComment(commentID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("get comment: %w", err)
	}

	err = s.store.DeleteLike(viewer.ID, models.TargetComment, commentID)
	switch {
	case err == nil:
		return false, nil // had a like, removed it
	case errors.Is(err, ErrNotFound):
		// not liked yet, fall through to insert
	default:
		return false, fmt.Errorf("delete like: %w", err)
	}

	insertErr := s.store.InsertLike(&models.Like{
		UserID:     viewer.ID,
		TargetType: models.TargetComment,
		TargetID:   commentID,
	})
	if insertErr != nil && !errors.Is(insertErr, ErrAlreadyExists) {
		return false, fmt.Errorf("insert like: %w", insertErr)
	}
	return true, nil
}

func sameRoot(parent *models.Comment, questionID, answerID *uint) bool {
	if questionID != nil {
		return parent.QuestionID != nil && *parent.QuestionID == *questionID
	}
	return parent.AnswerID != nil && *parent.AnswerID == *answerID
}
