package thread

import (
	"errors"
	"time"

	"mehber/internal/models"
)

// DeleteGrace is how long an author may delete their own comment.
// The boundary is exclusive: at exactly one hour the window is closed.
const DeleteGrace = time.Hour

// Viewer is the identity making a request. A zero ID means no
// authenticated viewer. IsAdmin is injected by the caller (the handler maps
// the user's role once); the thread package never inspects roles or emails.
type Viewer struct {
	ID      uint
	IsAdmin bool
}

func (v Viewer) Authenticated() bool {
	return v.ID != 0
}

// CanDelete decides whether viewer may delete c at the given time.
// Admins always may; authors only within the grace window.
func CanDelete(c models.Comment, viewer Viewer, now time.Time) bool {
	if viewer.IsAdmin {
		return true
	}
	if !viewer.Authenticated() || c.UserID != viewer.ID {
		return false
	}
	return now.Sub(c.CreatedAt) < DeleteGrace
}

// CanNest decides whether a reply may be attached under parent. A nil
// parent (top-level comment) always nests. Otherwise the parent chain is
// walked upward through get; a parent already at the deepest level refuses
// further replies.
//
// The walk is bounded at MaxDepth hops: a longer chain means corrupt data
// upstream, and the walk must terminate and refuse rather than loop.
func CanNest(parent *models.Comment, get func(id uint) (*models.Comment, error)) (bool, error) {
	if parent == nil {
		return true, nil
	}
	level := 0 // parent's level
	cur := parent
	for cur.ParentID != nil {
		level++
		if level >= MaxDepth {
			return false, nil
		}
		next, err := get(*cur.ParentID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				// broken chain; refuse rather than guess the depth
				return false, nil
			}
			return false, err
		}
		cur = next
	}
	// the reply would sit at level+1
	return level+1 <= MaxDepth-1, nil
}
