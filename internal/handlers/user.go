package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mehber/internal/db"
	"mehber/internal/models"
	"mehber/internal/utils"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Profile is the public member page: their published questions and recent
// comments.
func (h *UserHandler) Profile(c *gin.Context) {
	id := utils.StringToUint(c.Param("id"))

	var user models.User
	if err := db.DB.First(&user, id).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Member not found")
		return
	}

	var questions []models.Question
	db.DB.Preload("Category").
		Where("user_id = ? AND status = ?", user.ID, models.QuestionPublished).
		Order("created_at DESC").
		Limit(30).
		Find(&questions)
	fillQuestionCounts(questions)

	var comments []models.Comment
	db.DB.Preload("Question").Preload("Answer").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Limit(30).
		Find(&comments)

	Render(c, http.StatusOK, "user/profile.html", gin.H{
		"Profile":    user,
		"Questions":  questions,
		"Comments":   comments,
		"DaysJoined": utils.GetDaysSinceJoined(user.CreatedAt),
		"Title":      user.Username,
	})
}

// Dashboard is the signed-in member's own page, pending and rejected
// questions included.
func (h *UserHandler) Dashboard(c *gin.Context) {
	user := currentUser(c)

	var questions []models.Question
	db.DB.Preload("Category").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&questions)
	fillQuestionCounts(questions)

	Render(c, http.StatusOK, "user/dashboard.html", gin.H{
		"Questions": questions,
		"Title":     "My Questions",
	})
}

func (h *UserHandler) ShowSettings(c *gin.Context) {
	Render(c, http.StatusOK, "user/settings.html", gin.H{
		"Emojis": utils.GetCommonEmojis(),
		"Title":  "Settings",
	})
}

func (h *UserHandler) UpdateSettings(c *gin.Context) {
	user := currentUser(c)

	username := c.PostForm("username")
	bio := c.PostForm("bio")
	avatar := c.PostForm("avatar")

	if username == "" {
		Render(c, http.StatusBadRequest, "user/settings.html", gin.H{
			"Error":  "Username is required",
			"Emojis": utils.GetCommonEmojis(),
		})
		return
	}
	if len(bio) > 200 {
		Render(c, http.StatusBadRequest, "user/settings.html", gin.H{
			"Error":  "Bio must be at most 200 characters",
			"Emojis": utils.GetCommonEmojis(),
		})
		return
	}

	updates := map[string]interface{}{
		"username": username,
		"bio":      bio,
	}
	if avatar != "" {
		updates["avatar"] = avatar
	}
	db.DB.Model(user).Updates(updates)

	c.Redirect(http.StatusFound, "/settings")
}
