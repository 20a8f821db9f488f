package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mehber/internal/db"
	"mehber/internal/models"
	"mehber/internal/services"
	"mehber/internal/thread"
	"mehber/internal/utils"
)

type CommentHandler struct {
	threads     *thread.Service
	mailService *services.MailService
}

func NewCommentHandler() *CommentHandler {
	return &CommentHandler{
		threads:     thread.NewService(thread.NewGormStore(db.DB)),
		mailService: services.NewMailService(),
	}
}

// threadStatus maps a thread service error onto an HTTP status.
func threadStatus(err error) int {
	switch {
	case errors.Is(err, thread.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, thread.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, thread.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, thread.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// CreateOnQuestion posts a comment (or a reply) under a question's
// discussion.
func (h *CommentHandler) CreateOnQuestion(c *gin.Context) {
	qid := c.Param("qid")

	var question models.Question
	if err := db.DB.Where("qid = ?", qid).First(&question).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}
	if question.Status != models.QuestionPublished {
		c.JSON(http.StatusForbidden, gin.H{"error": "This question is not open for discussion"})
		return
	}

	h.create(c, &question, thread.CreateInput{
		Content:    c.PostForm("content"),
		QuestionID: &question.ID,
	})
}

// CreateOnAnswer posts a comment (or a reply) under an answer's discussion.
func (h *CommentHandler) CreateOnAnswer(c *gin.Context) {
	answerID := utils.StringToUint(c.Param("id"))

	var answer models.Answer
	if err := db.DB.First(&answer, answerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found"})
		return
	}

	var question models.Question
	if err := db.DB.First(&question, answer.QuestionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	h.create(c, &question, thread.CreateInput{
		Content:  c.PostForm("content"),
		AnswerID: &answer.ID,
	})
}

func (h *CommentHandler) create(c *gin.Context, question *models.Question, in thread.CreateInput) {
	user := currentUser(c)
	if user != nil && user.Status != 0 {
		if user.Status == 1 && user.PunishExpires != nil && time.Now().After(*user.PunishExpires) {
			db.DB.Model(user).Updates(map[string]interface{}{"status": 0, "punish_expires": nil})
			user.Status = 0
		} else {
			c.JSON(http.StatusForbidden, gin.H{"error": "Your account cannot post right now"})
			return
		}
	}

	if parentStr := c.PostForm("parent_id"); parentStr != "" {
		parentID := utils.StringToUint(parentStr)
		in.ParentID = &parentID
	}

	comment, err := h.threads.CreateComment(in, viewerFrom(c))
	if err != nil {
		c.JSON(threadStatus(err), gin.H{"error": err.Error()})
		return
	}

	services.GetActivityService().ScheduleUpdate(question.ID)

	if in.ParentID != nil {
		go h.notifyParentAuthor(comment, question)
	}

	c.Redirect(http.StatusFound, "/q/"+question.Qid)
}

// notifyParentAuthor records an in-app notification and mails the author of
// the parent comment. Self-replies are skipped.
func (h *CommentHandler) notifyParentAuthor(comment *models.Comment, question *models.Question) {
	if comment.ParentID == nil {
		return
	}

	var parent models.Comment
	if err := db.DB.Preload("User").First(&parent, *comment.ParentID).Error; err != nil {
		return
	}
	if parent.UserID == comment.UserID {
		return
	}

	var actor models.User
	if err := db.DB.First(&actor, comment.UserID).Error; err != nil {
		return
	}

	link := "/q/" + question.Qid
	notification := models.Notification{
		UserID:  parent.UserID,
		ActorID: &comment.UserID,
		Type:    models.NotificationTypeCommentReply,
		Reason:  fmt.Sprintf(`%s replied to your comment on <a href="%s">%s</a>`, actor.Username, link, question.Title),
	}
	db.DB.Create(&notification)

	if parent.User.Email != "" {
		h.mailService.SendReplyNotification(parent.User.Email, actor.Username, question.Title, comment.Content, link)
	}
}

// Delete removes a comment and its replies. The thread service enforces the
// author grace window; admins may always delete.
func (h *CommentHandler) Delete(c *gin.Context) {
	id := utils.StringToUint(c.Param("id"))

	var comment models.Comment
	if err := db.DB.First(&comment, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	if err := h.threads.DeleteComment(id, viewerFrom(c)); err != nil {
		c.JSON(threadStatus(err), gin.H{"error": err.Error()})
		return
	}

	if comment.QuestionID != nil {
		services.GetActivityService().ScheduleUpdate(*comment.QuestionID)
	} else if comment.AnswerID != nil {
		var answer models.Answer
		if err := db.DB.First(&answer, *comment.AnswerID).Error; err == nil {
			services.GetActivityService().ScheduleUpdate(answer.QuestionID)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}
