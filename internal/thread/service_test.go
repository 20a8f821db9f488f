package thread

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"mehber/internal/models"
)

// memoryStore is a test-only Store keeping everything in maps. It mimics
// the relational store's behavior: cascade delete of descendants and a
// unique (user, targetType, targetID) constraint on likes.
type memoryStore struct {
	mu       sync.Mutex
	nextID   uint
	comments map[uint]models.Comment
	likes    map[string]models.Like
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		comments: make(map[uint]models.Comment),
		likes:    make(map[string]models.Like),
	}
}

func likeKey(userID uint, targetType string, targetID uint) string {
	return fmt.Sprintf("%d/%s/%d", userID, targetType, targetID)
}

func (s *memoryStore) ListByRoot(questionID, answerID *uint) ([]models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Comment
	for _, c := range s.comments {
		if questionID != nil && c.QuestionID != nil && *c.QuestionID == *questionID {
			out = append(out, c)
		}
		if answerID != nil && c.AnswerID != nil && *c.AnswerID == *answerID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *memoryStore) ListLikes(targetType string, targetIDs []uint) ([]models.Like, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := make(map[uint]bool, len(targetIDs))
	for _, id := range targetIDs {
		wanted[id] = true
	}
	var out []models.Like
	for _, l := range s.likes {
		if l.TargetType == targetType && wanted[l.TargetID] {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *memoryStore) InsertComment(c *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	c.ID = s.nextID
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	s.comments[c.ID] = *c
	return nil
}

func (s *memoryStore) GetComment(id uint) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *memoryStore) DeleteComment(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comments[id]; !ok {
		return ErrNotFound
	}
	// cascade like the database FK does
	doomed := []uint{id}
	for len(doomed) > 0 {
		cur := doomed[0]
		doomed = doomed[1:]
		delete(s.comments, cur)
		for _, c := range s.comments {
			if c.ParentID != nil && *c.ParentID == cur {
				doomed = append(doomed, c.ID)
			}
		}
	}
	return nil
}

func (s *memoryStore) InsertLike(l *models.Like) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := likeKey(l.UserID, l.TargetType, l.TargetID)
	if _, ok := s.likes[key]; ok {
		return ErrAlreadyExists
	}
	s.likes[key] = *l
	return nil
}

func (s *memoryStore) DeleteLike(userID uint, targetType string, targetID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := likeKey(userID, targetType, targetID)
	if _, ok := s.likes[key]; !ok {
		return ErrNotFound
	}
	delete(s.likes, key)
	return nil
}

func (s *memoryStore) seed(c models.Comment) uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	c.ID = s.nextID
	s.comments[c.ID] = c
	return c.ID
}

func newTestService() (*Service, *memoryStore) {
	store := newMemoryStore()
	return NewService(store), store
}

func TestCreateCommentDepthInvariant(t *testing.T) {
	svc, _ := newTestService()
	author := Viewer{ID: 1}
	q := uint(10)

	top, err := svc.CreateComment(CreateInput{Content: "selam", QuestionID: &q}, author)
	if err != nil {
		t.Fatalf("top-level: %v", err)
	}
	reply, err := svc.CreateComment(CreateInput{Content: "reply", QuestionID: &q, ParentID: &top.ID}, author)
	if err != nil {
		t.Fatalf("level 1: %v", err)
	}
	deep, err := svc.CreateComment(CreateInput{Content: "deeper", QuestionID: &q, ParentID: &reply.ID}, author)
	if err != nil {
		t.Fatalf("level 2: %v", err)
	}

	_, err = svc.CreateComment(CreateInput{Content: "too deep", QuestionID: &q, ParentID: &deep.ID}, author)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("reply to level-2 comment: got %v, want validation error", err)
	}
	if !strings.Contains(err.Error(), "maximum nesting level") {
		t.Errorf("error should name the nesting limit, got %q", err)
	}
}

func TestCreateCommentValidation(t *testing.T) {
	svc, _ := newTestService()
	q := uint(10)
	a := uint(20)
	author := Viewer{ID: 1}

	cases := []struct {
		name string
		in   CreateInput
		who  Viewer
		want error
	}{
		{"unauthenticated", CreateInput{Content: "x", QuestionID: &q}, Viewer{}, ErrUnauthenticated},
		{"empty content", CreateInput{Content: "   ", QuestionID: &q}, author, ErrValidation},
		{"too long", CreateInput{Content: strings.Repeat("ሀ", MaxContentLen+1), QuestionID: &q}, author, ErrValidation},
		{"no root", CreateInput{Content: "x"}, author, ErrValidation},
		{"both roots", CreateInput{Content: "x", QuestionID: &q, AnswerID: &a}, author, ErrValidation},
		{"missing parent", CreateInput{Content: "x", QuestionID: &q, ParentID: uptr(404)}, author, ErrNotFound},
	}
	for _, tc := range cases {
		if _, err := svc.CreateComment(tc.in, tc.who); !errors.Is(err, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestCreateCommentMaxLengthAccepted(t *testing.T) {
	svc, _ := newTestService()
	q := uint(10)
	// exactly 2000 multibyte characters is still valid
	content := strings.Repeat("ፍ", MaxContentLen)
	if _, err := svc.CreateComment(CreateInput{Content: content, QuestionID: &q}, Viewer{ID: 1}); err != nil {
		t.Fatalf("2000-char comment rejected: %v", err)
	}
}

func TestCreateCommentParentInOtherDiscussion(t *testing.T) {
	svc, _ := newTestService()
	q1, q2 := uint(10), uint(11)
	top, err := svc.CreateComment(CreateInput{Content: "selam", QuestionID: &q1}, Viewer{ID: 1})
	if err != nil {
		t.Fatal(err)
	}
	_, err = svc.CreateComment(CreateInput{Content: "stray", QuestionID: &q2, ParentID: &top.ID}, Viewer{ID: 1})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("cross-discussion reply: got %v, want validation error", err)
	}
}

func TestGetThreadMergesLikes(t *testing.T) {
	svc, store := newTestService()
	q := uint(10)
	author := Viewer{ID: 1}
	top, err := svc.CreateComment(CreateInput{Content: "selam", QuestionID: &q}, author)
	if err != nil {
		t.Fatal(err)
	}
	for _, userID := range []uint{2, 3, 4} {
		if _, err := svc.ToggleLike(top.ID, Viewer{ID: userID}); err != nil {
			t.Fatal(err)
		}
	}

	forest, err := svc.GetThread(&q, nil, Viewer{ID: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(forest) != 1 {
		t.Fatalf("expected 1 root, got %d", len(forest))
	}
	if forest[0].LikeCount != 3 || !forest[0].LikedByViewer {
		t.Errorf("got count=%d liked=%v, want 3/true", forest[0].LikeCount, forest[0].LikedByViewer)
	}

	// anonymous viewer sees the count but no liked flag
	forest, err = svc.GetThread(&q, nil, Viewer{})
	if err != nil {
		t.Fatal(err)
	}
	if forest[0].LikeCount != 3 || forest[0].LikedByViewer {
		t.Errorf("anonymous: got count=%d liked=%v, want 3/false", forest[0].LikeCount, forest[0].LikedByViewer)
	}
	_ = store
}

func TestGetThreadEmptyForest(t *testing.T) {
	svc, _ := newTestService()
	q := uint(77)
	forest, err := svc.GetThread(&q, nil, Viewer{})
	if err != nil {
		t.Fatal(err)
	}
	if forest == nil || len(forest) != 0 {
		t.Errorf("expected empty non-nil forest, got %v", forest)
	}
}

func TestGetThreadRequiresOneRoot(t *testing.T) {
	svc, _ := newTestService()
	q, a := uint(1), uint(2)
	if _, err := svc.GetThread(nil, nil, Viewer{}); !errors.Is(err, ErrValidation) {
		t.Errorf("no root: got %v", err)
	}
	if _, err := svc.GetThread(&q, &a, Viewer{}); !errors.Is(err, ErrValidation) {
		t.Errorf("both roots: got %v", err)
	}
}

func TestToggleLike(t *testing.T) {
	svc, store := newTestService()
	q := uint(10)
	top, err := svc.CreateComment(CreateInput{Content: "selam", QuestionID: &q}, Viewer{ID: 1})
	if err != nil {
		t.Fatal(err)
	}
	viewer := Viewer{ID: 2}

	liked, err := svc.ToggleLike(top.ID, viewer)
	if err != nil || !liked {
		t.Fatalf("first toggle: liked=%v err=%v", liked, err)
	}
	liked, err = svc.ToggleLike(top.ID, viewer)
	if err != nil || liked {
		t.Fatalf("second toggle: liked=%v err=%v", liked, err)
	}
	if len(store.likes) != 0 {
		t.Errorf("expected no like rows after toggle pair, got %d", len(store.likes))
	}

	if _, err := svc.ToggleLike(404, viewer); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing comment: got %v", err)
	}
	if _, err := svc.ToggleLike(top.ID, Viewer{}); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("anonymous like: got %v", err)
	}
}

func TestToggleLikeDuplicateInsertIsSuccess(t *testing.T) {
	svc, store := newTestService()
	q := uint(10)
	top, err := svc.CreateComment(CreateInput{Content: "selam", QuestionID: &q}, Viewer{ID: 1})
	if err != nil {
		t.Fatal(err)
	}
	// simulate losing the unique-index race: the row appears between the
	// service's delete attempt and its insert
	store.likes[likeKey(2, models.TargetComment, top.ID)] = models.Like{
		UserID: 2, TargetType: models.TargetComment, TargetID: top.ID,
	}
	// memoryStore.DeleteLike would find it, so go through InsertLike directly
	err = store.InsertLike(&models.Like{UserID: 2, TargetType: models.TargetComment, TargetID: top.ID})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if len(store.likes) != 1 {
		t.Errorf("duplicate insert must not add a row, have %d", len(store.likes))
	}
}

func TestDeleteCommentPolicy(t *testing.T) {
	svc, store := newTestService()
	q := uint(10)

	fresh, err := svc.CreateComment(CreateInput{Content: "selam", QuestionID: &q}, Viewer{ID: 1})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.DeleteComment(fresh.ID, Viewer{}); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("anonymous delete: got %v", err)
	}
	if err := svc.DeleteComment(fresh.ID, Viewer{ID: 2}); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger delete: got %v", err)
	}
	if err := svc.DeleteComment(404, Viewer{ID: 1}); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing comment: got %v", err)
	}
	if err := svc.DeleteComment(fresh.ID, Viewer{ID: 1}); err != nil {
		t.Errorf("author within grace window: %v", err)
	}

	// an old comment: only an admin may remove it
	oldID := store.seed(models.Comment{
		UserID:     1,
		QuestionID: &q,
		Content:    "old",
		CreatedAt:  time.Now().Add(-2 * time.Hour),
	})
	if err := svc.DeleteComment(oldID, Viewer{ID: 1}); !errors.Is(err, ErrForbidden) {
		t.Errorf("author after grace window: got %v", err)
	}
	if err := svc.DeleteComment(oldID, Viewer{ID: 9, IsAdmin: true}); err != nil {
		t.Errorf("admin delete: %v", err)
	}
}

func TestDeleteCommentCascades(t *testing.T) {
	svc, _ := newTestService()
	q := uint(10)
	admin := Viewer{ID: 9, IsAdmin: true}

	top, _ := svc.CreateComment(CreateInput{Content: "1", QuestionID: &q}, Viewer{ID: 1})
	mid, _ := svc.CreateComment(CreateInput{Content: "2", QuestionID: &q, ParentID: &top.ID}, Viewer{ID: 2})
	if _, err := svc.CreateComment(CreateInput{Content: "3", QuestionID: &q, ParentID: &mid.ID}, Viewer{ID: 3}); err != nil {
		t.Fatal(err)
	}

	if err := svc.DeleteComment(mid.ID, admin); err != nil {
		t.Fatal(err)
	}
	forest, err := svc.GetThread(&q, nil, Viewer{})
	if err != nil {
		t.Fatal(err)
	}
	var ids []uint
	flatten(forest, &ids)
	if len(ids) != 1 || ids[0] != top.ID {
		t.Errorf("after cascade expected only %d, got %v", top.ID, ids)
	}
}

func TestAnswerThreadIsSeparate(t *testing.T) {
	svc, _ := newTestService()
	q, a := uint(10), uint(30)
	if _, err := svc.CreateComment(CreateInput{Content: "on question", QuestionID: &q}, Viewer{ID: 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateComment(CreateInput{Content: "on answer", AnswerID: &a}, Viewer{ID: 1}); err != nil {
		t.Fatal(err)
	}

	forest, err := svc.GetThread(nil, &a, Viewer{})
	if err != nil {
		t.Fatal(err)
	}
	if len(forest) != 1 || forest[0].Content != "on answer" {
		t.Errorf("answer thread leaked question comments: %+v", forest)
	}
}
