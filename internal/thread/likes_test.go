package thread

import (
	"testing"

	"mehber/internal/models"
)

func likeRow(userID, targetID uint) models.Like {
	return models.Like{UserID: userID, TargetType: models.TargetComment, TargetID: targetID}
}

func TestAggregateLikes(t *testing.T) {
	const userA, userB, userC, userD = 1, 2, 3, 4
	likes := []models.Like{
		likeRow(userA, 5),
		likeRow(userB, 5),
		likeRow(userC, 5),
	}

	cases := []struct {
		name     string
		viewerID uint
		wantLiked bool
	}{
		{"viewer who liked", userB, true},
		{"viewer who did not like", userD, false},
		{"no viewer", 0, false},
	}
	for _, tc := range cases {
		stats := AggregateLikes([]uint{5}, likes, tc.viewerID)
		s, ok := stats[5]
		if !ok {
			t.Fatalf("%s: missing entry for id 5", tc.name)
		}
		if s.Count != 3 {
			t.Errorf("%s: count = %d, want 3", tc.name, s.Count)
		}
		if s.LikedByViewer != tc.wantLiked {
			t.Errorf("%s: likedByViewer = %v, want %v", tc.name, s.LikedByViewer, tc.wantLiked)
		}
	}
}

func TestAggregateLikesZeroEntries(t *testing.T) {
	stats := AggregateLikes([]uint{7, 8}, nil, 1)
	for _, id := range []uint{7, 8} {
		s, ok := stats[id]
		if !ok {
			t.Fatalf("missing entry for id %d", id)
		}
		if s.Count != 0 || s.LikedByViewer {
			t.Errorf("id %d: expected zero stat, got %+v", id, s)
		}
	}
}

func TestAggregateLikesIgnoresUnrequestedTargets(t *testing.T) {
	stats := AggregateLikes([]uint{1}, []models.Like{likeRow(1, 2)}, 0)
	if len(stats) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(stats))
	}
	if stats[1].Count != 0 {
		t.Errorf("count for id 1 = %d, want 0", stats[1].Count)
	}
}
