package thread

import (
	"sort"

	"mehber/internal/models"
)

// MaxDepth is how many levels a thread may have: a top-level comment
// (level 0), a reply (level 1) and a reply to the reply (level 2).
const MaxDepth = 3

// CommentView is a comment decorated for display: its depth within the
// thread, like data for the current viewer, and its ordered replies.
// Views are built per request and never cached or shared.
type CommentView struct {
	models.Comment
	Level         int            `json:"level"`
	LikeCount     int            `json:"like_count"`
	LikedByViewer bool           `json:"liked_by_viewer"`
	Replies       []*CommentView `json:"replies"`
}

// BuildTree turns a flat set of comments (all belonging to one question or
// answer, any order) into an ordered forest. One linear pass groups children
// by parent id, then a bounded traversal from the roots assigns levels.
//
// Ordering is deterministic at every level: CreatedAt ascending, ties broken
// by ID ascending. Comments whose parent is missing from the input are
// orphans and are dropped silently together with their descendants. Rows
// deeper than MaxDepth-1 should not exist, but if they do the traversal
// refuses to descend into them rather than trust the invariant.
func BuildTree(comments []models.Comment) []*CommentView {
	byParent := make(map[uint][]*models.Comment) // 0 = top level
	for i := range comments {
		c := &comments[i]
		var key uint
		if c.ParentID != nil {
			key = *c.ParentID
		}
		byParent[key] = append(byParent[key], c)
	}
	for _, siblings := range byParent {
		sort.SliceStable(siblings, func(i, j int) bool {
			if !siblings[i].CreatedAt.Equal(siblings[j].CreatedAt) {
				return siblings[i].CreatedAt.Before(siblings[j].CreatedAt)
			}
			return siblings[i].ID < siblings[j].ID
		})
	}
	return buildLevel(byParent, 0, 0)
}

func buildLevel(byParent map[uint][]*models.Comment, parentID uint, level int) []*CommentView {
	nodes := make([]*CommentView, 0, len(byParent[parentID]))
	for _, c := range byParent[parentID] {
		node := &CommentView{
			Comment: *c,
			Level:   level,
			Replies: []*CommentView{},
		}
		if level < MaxDepth-1 {
			node.Replies = buildLevel(byParent, c.ID, level+1)
		}
		nodes = append(nodes, node)
	}
	return nodes
}
