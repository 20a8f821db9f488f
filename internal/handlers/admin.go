package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mehber/internal/db"
	"mehber/internal/models"
	"mehber/internal/services"
	"mehber/internal/utils"
)

type AdminHandler struct {
	mailService *services.MailService
}

func NewAdminHandler() *AdminHandler {
	return &AdminHandler{
		mailService: services.NewMailService(),
	}
}

// Dashboard shows the moderation queue: pending questions first, then open
// reports.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	var pending []models.Question
	db.DB.Preload("User").Preload("Category").
		Where("status = ?", models.QuestionPending).
		Order("created_at ASC").
		Find(&pending)

	var reports []models.Report
	db.DB.Preload("User").Order("created_at DESC").Limit(50).Find(&reports)

	var pendingCount, reportCount int64
	db.DB.Model(&models.Question{}).Where("status = ?", models.QuestionPending).Count(&pendingCount)
	db.DB.Model(&models.Report{}).Count(&reportCount)

	Render(c, http.StatusOK, "admin/dashboard.html", gin.H{
		"Pending":      pending,
		"Reports":      reports,
		"PendingCount": pendingCount,
		"ReportCount":  reportCount,
		"Title":        "Moderation",
	})
}

// ShowAnswer renders the answer form for one pending question.
func (h *AdminHandler) ShowAnswer(c *gin.Context) {
	qid := c.Param("qid")

	var question models.Question
	if err := db.DB.Preload("User").Preload("Category").Where("qid = ?", qid).First(&question).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Question not found")
		return
	}

	Render(c, http.StatusOK, "admin/answer.html", gin.H{
		"Question":        question,
		"QuestionContent": utils.RenderMarkdown(question.Content),
		"Title":           "Answer: " + question.Title,
	})
}

// Answer records an admin's answer and publishes the question in the same
// step. The author gets an in-app notification and an email.
func (h *AdminHandler) Answer(c *gin.Context) {
	admin := currentUser(c)
	qid := c.Param("qid")
	content := c.PostForm("content")

	var question models.Question
	if err := db.DB.Preload("User").Where("qid = ?", qid).First(&question).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Question not found")
		return
	}

	if content == "" {
		Render(c, http.StatusBadRequest, "admin/answer.html", gin.H{
			"Question": question,
			"Error":    "Answer content is required",
		})
		return
	}

	answer := models.Answer{
		QuestionID: question.ID,
		UserID:     admin.ID,
		Content:    content,
	}
	if err := db.DB.Create(&answer).Error; err != nil {
		Render(c, http.StatusInternalServerError, "admin/answer.html", gin.H{
			"Question": question,
			"Error":    "Could not save the answer",
		})
		return
	}

	db.DB.Model(&question).Update("status", models.QuestionPublished)

	utils.GetCache().Delete("question:recent:page:1")
	services.GetActivityService().ScheduleUpdate(question.ID)

	link := "/q/" + question.Qid
	if question.UserID != admin.ID {
		notification := models.Notification{
			UserID:  question.UserID,
			ActorID: &admin.ID,
			Type:    models.NotificationTypeQuestionAnswered,
			Reason:  fmt.Sprintf(`Your question <a href="%s">%s</a> has been answered and published`, link, question.Title),
		}
		db.DB.Create(&notification)

		if question.User.Email != "" {
			h.mailService.SendAnswerNotification(question.User.Email, question.Title, link)
		}
	}

	c.Redirect(http.StatusFound, link)
}

// Reject turns a pending question down with a note to its author.
func (h *AdminHandler) Reject(c *gin.Context) {
	admin := currentUser(c)
	qid := c.Param("qid")
	note := c.PostForm("note")

	var question models.Question
	if err := db.DB.Where("qid = ?", qid).First(&question).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	db.DB.Model(&question).Update("status", models.QuestionRejected)

	reason := fmt.Sprintf("Your question %q was not accepted.", question.Title)
	if note != "" {
		reason += " Note: " + note
	}
	notification := models.Notification{
		UserID:  question.UserID,
		ActorID: &admin.ID,
		Type:    models.NotificationTypeSystem,
		Reason:  reason,
	}
	db.DB.Create(&notification)

	c.Redirect(http.StatusFound, "/admin")
}

// PunishUser mutes (days > 0) or bans (permanent) a member.
func (h *AdminHandler) PunishUser(c *gin.Context) {
	admin := currentUser(c)
	userID := utils.StringToUint(c.Param("id"))
	days := utils.StringToInt(c.PostForm("days"))
	permanent := c.PostForm("permanent") == "1"

	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admins cannot be punished"})
		return
	}

	var reason string
	if permanent {
		db.DB.Model(&user).Updates(map[string]interface{}{"status": 2, "punish_expires": nil})
		reason = "Your account has been banned for violating community rules."
	} else {
		if days <= 0 {
			days = 7
		}
		expires := time.Now().AddDate(0, 0, days)
		db.DB.Model(&user).Updates(map[string]interface{}{"status": 1, "punish_expires": expires})
		reason = fmt.Sprintf("You have been muted for %d days for violating community rules.", days)
	}

	notification := models.Notification{
		UserID:  user.ID,
		ActorID: &admin.ID,
		Type:    models.NotificationTypeSystem,
		Reason:  reason,
	}
	db.DB.Create(&notification)

	c.JSON(http.StatusOK, gin.H{"message": "Done"})
}

// PardonUser lifts a mute or ban early.
func (h *AdminHandler) PardonUser(c *gin.Context) {
	userID := utils.StringToUint(c.Param("id"))

	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	db.DB.Model(&user).Updates(map[string]interface{}{"status": 0, "punish_expires": nil})
	c.JSON(http.StatusOK, gin.H{"message": "Done"})
}

// ResolveReport removes a handled report from the queue.
func (h *AdminHandler) ResolveReport(c *gin.Context) {
	id := utils.StringToUint(c.Param("id"))
	db.DB.Delete(&models.Report{}, id)
	c.Redirect(http.StatusFound, "/admin")
}

// CreateCategory adds a new topic category.
func (h *AdminHandler) CreateCategory(c *gin.Context) {
	name := c.PostForm("name")
	description := c.PostForm("description")

	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	category := models.Category{Name: name, Description: description}
	if err := db.DB.Create(&category).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Category already exists"})
		return
	}

	c.Redirect(http.StatusFound, "/categories")
}
