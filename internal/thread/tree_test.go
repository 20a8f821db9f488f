package thread

import (
	"testing"
	"time"

	"mehber/internal/models"
)

func uptr(v uint) *uint { return &v }

func commentAt(id uint, parentID *uint, at time.Time) models.Comment {
	q := uint(1)
	return models.Comment{
		ID:         id,
		UserID:     1,
		QuestionID: &q,
		ParentID:   parentID,
		Content:    "c",
		CreatedAt:  at,
	}
}

func flatten(nodes []*CommentView, out *[]uint) {
	for _, n := range nodes {
		*out = append(*out, n.ID)
		flatten(n.Replies, out)
	}
}

func TestBuildTreeBasicThread(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	comments := []models.Comment{
		commentAt(1, nil, t0),
		commentAt(2, uptr(1), t0.Add(time.Minute)),
		commentAt(3, uptr(2), t0.Add(2*time.Minute)),
		// level-3 row should never exist; the builder must drop it
		commentAt(4, uptr(3), t0.Add(3*time.Minute)),
	}

	forest := BuildTree(comments)
	if len(forest) != 1 {
		t.Fatalf("expected 1 root, got %d", len(forest))
	}
	root := forest[0]
	if root.ID != 1 || root.Level != 0 {
		t.Errorf("root: got id=%d level=%d", root.ID, root.Level)
	}
	if len(root.Replies) != 1 || root.Replies[0].ID != 2 || root.Replies[0].Level != 1 {
		t.Fatalf("unexpected level-1 replies: %+v", root.Replies)
	}
	leaf := root.Replies[0].Replies
	if len(leaf) != 1 || leaf[0].ID != 3 || leaf[0].Level != 2 {
		t.Fatalf("unexpected level-2 replies: %+v", leaf)
	}
	if len(leaf[0].Replies) != 0 {
		t.Errorf("level-2 node must have empty replies, got %d", len(leaf[0].Replies))
	}
}

func TestBuildTreeDeterministicOrder(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	// same CreatedAt for 5 and 6: tie broken by id
	base := []models.Comment{
		commentAt(5, nil, t0.Add(time.Minute)),
		commentAt(6, nil, t0.Add(time.Minute)),
		commentAt(7, nil, t0),
		commentAt(8, uptr(7), t0.Add(2*time.Minute)),
		commentAt(9, uptr(7), t0.Add(time.Minute)),
	}
	want := []uint{7, 9, 8, 5, 6}

	// input order must not matter
	permutations := [][]int{
		{0, 1, 2, 3, 4},
		{4, 3, 2, 1, 0},
		{2, 0, 4, 1, 3},
	}
	for _, perm := range permutations {
		input := make([]models.Comment, len(base))
		for i, idx := range perm {
			input[i] = base[idx]
		}
		var got []uint
		flatten(BuildTree(input), &got)
		if len(got) != len(want) {
			t.Fatalf("perm %v: got %v, want %v", perm, got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("perm %v: got %v, want %v", perm, got, want)
				break
			}
		}
	}
}

func TestBuildTreeExcludesOrphans(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	comments := []models.Comment{
		commentAt(1, nil, t0),
		commentAt(2, uptr(99), t0.Add(time.Minute)), // parent vanished
		commentAt(3, uptr(2), t0.Add(2*time.Minute)), // descendant of the orphan
	}

	forest := BuildTree(comments)
	var got []uint
	flatten(forest, &got)
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("expected only comment 1, got %v", got)
	}
}

func TestBuildTreeEmptyInput(t *testing.T) {
	forest := BuildTree(nil)
	if len(forest) != 0 {
		t.Errorf("expected empty forest, got %d nodes", len(forest))
	}
}
