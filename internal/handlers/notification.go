package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mehber/internal/db"
	"mehber/internal/models"
	"mehber/internal/utils"
)

type NotificationHandler struct{}

func NewNotificationHandler() *NotificationHandler {
	return &NotificationHandler{}
}

func (h *NotificationHandler) List(c *gin.Context) {
	user := currentUser(c)

	var notifications []models.Notification
	db.DB.Preload("Actor").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Limit(100).
		Find(&notifications)

	Render(c, http.StatusOK, "notification/list.html", gin.H{
		"Notifications": notifications,
		"Title":         "Notifications",
	})
}

func (h *NotificationHandler) Read(c *gin.Context) {
	user := currentUser(c)
	id := utils.StringToUint(c.Param("id"))

	db.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, user.ID).
		Update("is_read", true)

	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

func (h *NotificationHandler) ReadAll(c *gin.Context) {
	user := currentUser(c)

	db.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", user.ID, false).
		Update("is_read", true)

	c.Redirect(http.StatusFound, "/notifications")
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	user := currentUser(c)
	id := utils.StringToUint(c.Param("id"))

	db.DB.Where("id = ? AND user_id = ?", id, user.ID).Delete(&models.Notification{})

	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
