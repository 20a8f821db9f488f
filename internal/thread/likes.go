package thread

import (
	"mehber/internal/models"
)

// LikeStat is the aggregated like state of one target for one viewer.
type LikeStat struct {
	Count         int
	LikedByViewer bool
}

// AggregateLikes folds raw like rows into per-target stats. Every id in ids
// gets an entry, even with zero likes, so callers never special-case
// absence. viewerID 0 means no authenticated viewer; LikedByViewer is then
// always false.
func AggregateLikes(ids []uint, likes []models.Like, viewerID uint) map[uint]LikeStat {
	stats := make(map[uint]LikeStat, len(ids))
	for _, id := range ids {
		stats[id] = LikeStat{}
	}
	for _, l := range likes {
		s, ok := stats[l.TargetID]
		if !ok {
			continue // row for a target we were not asked about
		}
		s.Count++
		if viewerID != 0 && l.UserID == viewerID {
			s.LikedByViewer = true
		}
		stats[l.TargetID] = s
	}
	return stats
}

// mergeLikes copies aggregated stats into every node of the forest.
func mergeLikes(nodes []*CommentView, stats map[uint]LikeStat) {
	for _, n := range nodes {
		if s, ok := stats[n.ID]; ok {
			n.LikeCount = s.Count
			n.LikedByViewer = s.LikedByViewer
		}
		mergeLikes(n.Replies, stats)
	}
}
