package thread

import (
	"testing"
	"time"

	"mehber/internal/models"
)

func TestCanDeleteGraceBoundary(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	comment := models.Comment{ID: 1, UserID: 7, CreatedAt: created}
	author := Viewer{ID: 7}

	justInside := created.Add(3599999 * time.Millisecond)
	if !CanDelete(comment, author, justInside) {
		t.Error("author should still be able to delete at 3,599,999 ms")
	}
	exactly := created.Add(3600000 * time.Millisecond)
	if CanDelete(comment, author, exactly) {
		t.Error("grace window must be exclusive at exactly one hour")
	}
}

func TestCanDeleteAdminAlways(t *testing.T) {
	created := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	comment := models.Comment{ID: 1, UserID: 7, CreatedAt: created}
	admin := Viewer{ID: 99, IsAdmin: true}
	if !CanDelete(comment, admin, created.AddDate(6, 0, 0)) {
		t.Error("admin must be able to delete regardless of age or authorship")
	}
}

func TestCanDeleteDeniedCases(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	comment := models.Comment{ID: 1, UserID: 7, CreatedAt: now}

	if CanDelete(comment, Viewer{}, now) {
		t.Error("unauthenticated viewer must not delete")
	}
	if CanDelete(comment, Viewer{ID: 8}, now) {
		t.Error("non-author must not delete")
	}
}

// getterFor builds a comment lookup over a fixed set.
func getterFor(comments map[uint]models.Comment) func(uint) (*models.Comment, error) {
	return func(id uint) (*models.Comment, error) {
		c, ok := comments[id]
		if !ok {
			return nil, ErrNotFound
		}
		return &c, nil
	}
}

func TestCanNestDepths(t *testing.T) {
	comments := map[uint]models.Comment{
		1: {ID: 1},                  // level 0
		2: {ID: 2, ParentID: uptr(1)}, // level 1
		3: {ID: 3, ParentID: uptr(2)}, // level 2
	}
	get := getterFor(comments)

	if ok, err := CanNest(nil, get); err != nil || !ok {
		t.Errorf("top-level comment: got %v, %v", ok, err)
	}
	for id, want := range map[uint]bool{1: true, 2: true, 3: false} {
		parent := comments[id]
		ok, err := CanNest(&parent, get)
		if err != nil {
			t.Fatalf("parent %d: %v", id, err)
		}
		if ok != want {
			t.Errorf("parent %d: canNest = %v, want %v", id, ok, want)
		}
	}
}

func TestCanNestTerminatesOnCorruptChain(t *testing.T) {
	// a -> b -> a: impossible by construction, but the walk must not spin
	comments := map[uint]models.Comment{
		1: {ID: 1, ParentID: uptr(2)},
		2: {ID: 2, ParentID: uptr(1)},
	}
	parent := comments[1]
	ok, err := CanNest(&parent, getterFor(comments))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("corrupt chain must be refused")
	}
}

func TestCanNestBrokenChainRefused(t *testing.T) {
	comments := map[uint]models.Comment{
		2: {ID: 2, ParentID: uptr(404)},
	}
	parent := comments[2]
	ok, err := CanNest(&parent, getterFor(comments))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("chain through a missing comment must be refused")
	}
}
