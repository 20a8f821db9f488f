package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"mehber/internal/db"
	"mehber/internal/models"
	"mehber/internal/services"
	"mehber/internal/thread"
	"mehber/internal/utils"
)

type LikeHandler struct {
	threads *thread.Service
}

func NewLikeHandler() *LikeHandler {
	return &LikeHandler{
		threads: thread.NewService(thread.NewGormStore(db.DB)),
	}
}

// Toggle flips the viewer's like on a question, answer, or comment and
// returns the new state plus the fresh count. Comment likes go through the
// thread service; question and answer likes are handled here with the same
// delete-first toggle.
func (h *LikeHandler) Toggle(c *gin.Context) {
	user := currentUser(c)
	targetType := c.Param("type")
	targetID := utils.StringToUint(c.Param("id"))

	var questionID uint // for the activity score, question likes only

	switch targetType {
	case models.TargetComment:
		liked, err := h.threads.ToggleLike(targetID, viewerFrom(c))
		if err != nil {
			c.JSON(threadStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"liked": liked,
			"count": countLikes(models.TargetComment, targetID),
		})
		return

	case models.TargetQuestion:
		var question models.Question
		if err := db.DB.First(&question, targetID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
			return
		}
		questionID = question.ID

	case models.TargetAnswer:
		var answer models.Answer
		if err := db.DB.First(&answer, targetID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found"})
			return
		}

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown like target"})
		return
	}

	liked, err := toggleLikeRow(user.ID, targetType, targetID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not record the like"})
		return
	}

	if questionID != 0 {
		services.GetActivityService().ScheduleUpdate(questionID)
	}

	c.JSON(http.StatusOK, gin.H{
		"liked": liked,
		"count": countLikes(targetType, targetID),
	})
}

// toggleLikeRow removes an existing like row or inserts a new one. A
// concurrent duplicate insert trips the unique index and counts as liked.
func toggleLikeRow(userID uint, targetType string, targetID uint) (bool, error) {
	res := db.DB.Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		Delete(&models.Like{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	like := models.Like{UserID: userID, TargetType: targetType, TargetID: targetID}
	if err := db.DB.Create(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return true, nil
		}
		return false, err
	}
	return true, nil
}

func countLikes(targetType string, targetID uint) int64 {
	var n int64
	db.DB.Model(&models.Like{}).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Count(&n)
	return n
}

// Report files a complaint about a question, answer, or comment and pings
// every admin's notification inbox.
func (h *LikeHandler) Report(c *gin.Context) {
	user := currentUser(c)
	itemType := c.PostForm("item_type")
	itemID := utils.StringToUint(c.PostForm("item_id"))
	reason := c.PostForm("reason")

	if reason == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A reason is required"})
		return
	}

	var qid string
	switch itemType {
	case models.TargetQuestion:
		var question models.Question
		if err := db.DB.First(&question, itemID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		qid = question.Qid
	case models.TargetAnswer:
		var answer models.Answer
		if err := db.DB.Preload("Question").First(&answer, itemID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		qid = answer.Question.Qid
	case models.TargetComment:
		var comment models.Comment
		if err := db.DB.First(&comment, itemID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		if comment.QuestionID != nil {
			var question models.Question
			if err := db.DB.First(&question, *comment.QuestionID).Error; err == nil {
				qid = question.Qid
			}
		} else if comment.AnswerID != nil {
			var answer models.Answer
			if err := db.DB.Preload("Question").First(&answer, *comment.AnswerID).Error; err == nil {
				qid = answer.Question.Qid
			}
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown item type"})
		return
	}

	report := models.Report{
		UserID:   user.ID,
		ItemType: itemType,
		ItemID:   itemID,
		ItemQid:  qid,
		Reason:   reason,
	}
	if err := db.DB.Create(&report).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not file the report"})
		return
	}

	go notifyAdmins(user, itemType, qid, reason)

	c.JSON(http.StatusOK, gin.H{"message": "Report filed, thank you"})
}

func notifyAdmins(reporter *models.User, itemType, qid, reason string) {
	var admins []models.User
	db.DB.Where("role = ?", models.RoleAdmin).Find(&admins)

	for _, admin := range admins {
		notification := models.Notification{
			UserID:  admin.ID,
			ActorID: &reporter.ID,
			Type:    models.NotificationTypeReport,
			Reason:  fmt.Sprintf(`%s reported a %s on <a href="/q/%s">/q/%s</a>: %s`, reporter.Username, itemType, qid, qid, reason),
		}
		db.DB.Create(&notification)
	}
}
