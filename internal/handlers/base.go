package handlers

import (
	"github.com/gin-gonic/gin"

	"mehber/internal/middleware"
	"mehber/internal/models"
	"mehber/internal/thread"
)

// Render injects common variables (current user, unread badge) and renders
// the named template.
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	if user, exists := c.Get(middleware.CheckUserKey); exists {
		obj["CurrentUser"] = user
		if count, ok := c.Get(middleware.UnreadCountKey); ok {
			obj["UnreadCount"] = int(count.(int64))
		} else {
			obj["UnreadCount"] = 0
		}
	}

	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// RenderError shows the shared error page.
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Error": message})
}

// currentUser returns the loaded user, or nil for anonymous requests.
func currentUser(c *gin.Context) *models.User {
	if u, exists := c.Get(middleware.CheckUserKey); exists {
		return u.(*models.User)
	}
	return nil
}

// viewerFrom maps the session user onto the thread package's viewer
// identity. The admin flag is resolved here, once; nothing deeper ever
// sees the role string.
func viewerFrom(c *gin.Context) thread.Viewer {
	u := currentUser(c)
	if u == nil {
		return thread.Viewer{}
	}
	return thread.Viewer{ID: u.ID, IsAdmin: u.IsAdmin()}
}
