package handlers

import (
	"fmt"
	"html/template"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"mehber/internal/db"
	"mehber/internal/models"
	"mehber/internal/services"
	"mehber/internal/thread"
	"mehber/internal/utils"
)

type QuestionHandler struct {
	threads *thread.Service
}

func NewQuestionHandler() *QuestionHandler {
	return &QuestionHandler{
		threads: thread.NewService(thread.NewGormStore(db.DB)),
	}
}

// AnswerView decorates an answer for the detail page.
type AnswerView struct {
	models.Answer
	ContentHTML   template.HTML
	LikeCount     int
	LikedByViewer bool
	Comments      []*thread.CommentView
}

// fillQuestionCounts batch-fills answer and like counts for a page of
// questions, two grouped queries instead of 2N lookups.
func fillQuestionCounts(questions []models.Question) {
	if len(questions) == 0 {
		return
	}

	ids := make([]uint, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}

	type countRow struct {
		ID    uint
		Count int
	}

	var answerRows []countRow
	db.DB.Model(&models.Answer{}).
		Select("question_id as id, COUNT(*) as count").
		Where("question_id IN ?", ids).
		Group("question_id").
		Scan(&answerRows)

	var likeRows []countRow
	db.DB.Model(&models.Like{}).
		Select("target_id as id, COUNT(*) as count").
		Where("target_type = ? AND target_id IN ?", models.TargetQuestion, ids).
		Group("target_id").
		Scan(&likeRows)

	answerMap := make(map[uint]int, len(answerRows))
	for _, r := range answerRows {
		answerMap[r.ID] = r.Count
	}
	likeMap := make(map[uint]int, len(likeRows))
	for _, r := range likeRows {
		likeMap[r.ID] = r.Count
	}

	for i := range questions {
		questions[i].AnswerCount = answerMap[questions[i].ID]
		questions[i].LikeCount = likeMap[questions[i].ID]
	}
}

func pageParam(c *gin.Context) int {
	page := 1
	if p := c.Query("page"); p != "" {
		if pageNum, err := strconv.Atoi(p); err == nil && pageNum > 0 {
			page = pageNum
		}
	}
	return page
}

func listCategories() []models.Category {
	var categories []models.Category
	db.DB.Order("id ASC").Find(&categories)
	return categories
}

// ListRecent renders the front page: recently published questions.
func (h *QuestionHandler) ListRecent(c *gin.Context) {
	page := pageParam(c)

	cacheKey := fmt.Sprintf("question:recent:page:%d", page)
	if cachedData := utils.GetCache().Get(cacheKey); cachedData != nil {
		if hData, ok := cachedData.(gin.H); ok {
			Render(c, http.StatusOK, "question/list.html", hData)
			return
		}
	}

	perPage := 30
	offset := (page - 1) * perPage

	var total int64
	db.DB.Model(&models.Question{}).Where("status = ?", models.QuestionPublished).Count(&total)
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	if totalPages == 0 {
		totalPages = 1
	}

	var questions []models.Question
	db.DB.Preload("User").Preload("Category").
		Where("status = ?", models.QuestionPublished).
		Order("created_at DESC").
		Limit(perPage).
		Offset(offset).
		Find(&questions)

	fillQuestionCounts(questions)

	renderData := gin.H{
		"Questions":   questions,
		"Categories":  listCategories(),
		"Active":      "recent",
		"Title":       "Recent Questions",
		"CurrentPage": page,
		"TotalPages":  totalPages,
	}
	utils.GetCache().Set(cacheKey, renderData, 1*time.Minute)

	Render(c, http.StatusOK, "question/list.html", renderData)
}

// ListActive renders questions ordered by their activity score.
func (h *QuestionHandler) ListActive(c *gin.Context) {
	page := pageParam(c)
	perPage := 30
	offset := (page - 1) * perPage

	var total int64
	db.DB.Model(&models.Question{}).Where("status = ?", models.QuestionPublished).Count(&total)
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	if totalPages == 0 {
		totalPages = 1
	}

	var questions []models.Question
	db.DB.Preload("User").Preload("Category").
		Where("status = ?", models.QuestionPublished).
		Order("activity_score DESC, created_at DESC").
		Limit(perPage).
		Offset(offset).
		Find(&questions)

	fillQuestionCounts(questions)

	Render(c, http.StatusOK, "question/list.html", gin.H{
		"Questions":   questions,
		"Categories":  listCategories(),
		"Active":      "active",
		"Title":       "Active Discussions",
		"CurrentPage": page,
		"TotalPages":  totalPages,
	})
}

// ListByCategory renders the questions of one category.
func (h *QuestionHandler) ListByCategory(c *gin.Context) {
	name := c.Param("name")

	var category models.Category
	if err := db.DB.Where("name = ?", name).First(&category).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Category not found")
		return
	}

	page := pageParam(c)
	perPage := 30
	offset := (page - 1) * perPage

	var total int64
	db.DB.Model(&models.Question{}).
		Where("category_id = ? AND status = ?", category.ID, models.QuestionPublished).
		Count(&total)
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	if totalPages == 0 {
		totalPages = 1
	}

	var questions []models.Question
	db.DB.Preload("User").Preload("Category").
		Where("category_id = ? AND status = ?", category.ID, models.QuestionPublished).
		Order("created_at DESC").
		Limit(perPage).
		Offset(offset).
		Find(&questions)

	fillQuestionCounts(questions)

	Render(c, http.StatusOK, "question/list.html", gin.H{
		"Questions":   questions,
		"Categories":  listCategories(),
		"Category":    category,
		"Active":      "category",
		"Title":       category.Name,
		"CurrentPage": page,
		"TotalPages":  totalPages,
	})
}

// ListCategoriesPage renders all categories with their question counts.
func (h *QuestionHandler) ListCategoriesPage(c *gin.Context) {
	categories := listCategories()

	counts := make(map[uint]int64, len(categories))
	for _, category := range categories {
		var n int64
		db.DB.Model(&models.Question{}).
			Where("category_id = ? AND status = ?", category.ID, models.QuestionPublished).
			Count(&n)
		counts[category.ID] = n
	}

	Render(c, http.StatusOK, "category/list.html", gin.H{
		"Categories": categories,
		"Counts":     counts,
		"Title":      "Categories",
	})
}

func (h *QuestionHandler) Search(c *gin.Context) {
	query := c.Query("q")

	var questions []models.Question
	if query != "" {
		pattern := "%" + query + "%"
		db.DB.Preload("User").Preload("Category").
			Where("status = ?", models.QuestionPublished).
			Where("title ILIKE ? OR content ILIKE ?", pattern, pattern).
			Order("created_at DESC").
			Limit(50).
			Find(&questions)
	}

	fillQuestionCounts(questions)

	Render(c, http.StatusOK, "search.html", gin.H{
		"Questions": questions,
		"Query":     query,
		"Active":    "search",
		"Title":     "Search",
	})
}

// Detail renders one question with its answers and comment threads.
// Pending and rejected questions are visible only to their author and to
// admins.
func (h *QuestionHandler) Detail(c *gin.Context) {
	qid := c.Param("qid")
	viewer := viewerFrom(c)

	var question models.Question
	if err := db.DB.Preload("User").Preload("Category").Where("qid = ?", qid).First(&question).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Question not found")
		return
	}

	if question.Status != models.QuestionPublished {
		if !viewer.IsAdmin && viewer.ID != question.UserID {
			RenderError(c, http.StatusNotFound, "Question not found")
			return
		}
	}

	db.DB.Model(&question).UpdateColumn("views", gorm.Expr("views + 1"))
	question.Views++

	// question-level comments
	questionThread, err := h.threads.GetThread(&question.ID, nil, viewer)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not load the discussion")
		return
	}

	// answers with their own threads
	var answers []models.Answer
	db.DB.Preload("User").Where("question_id = ?", question.ID).Order("created_at ASC").Find(&answers)

	answerIDs := make([]uint, len(answers))
	for i, a := range answers {
		answerIDs[i] = a.ID
	}
	var answerLikes []models.Like
	if len(answerIDs) > 0 {
		db.DB.Where("target_type = ? AND target_id IN ?", models.TargetAnswer, answerIDs).Find(&answerLikes)
	}
	answerStats := thread.AggregateLikes(answerIDs, answerLikes, viewer.ID)

	answerViews := make([]AnswerView, 0, len(answers))
	for _, answer := range answers {
		comments, err := h.threads.GetThread(nil, &answer.ID, viewer)
		if err != nil {
			RenderError(c, http.StatusInternalServerError, "Could not load the discussion")
			return
		}
		stat := answerStats[answer.ID]
		answerViews = append(answerViews, AnswerView{
			Answer:        answer,
			ContentHTML:   utils.RenderMarkdown(answer.Content),
			LikeCount:     stat.Count,
			LikedByViewer: stat.LikedByViewer,
			Comments:      comments,
		})
	}

	// question like state
	var questionLikes int64
	db.DB.Model(&models.Like{}).
		Where("target_type = ? AND target_id = ?", models.TargetQuestion, question.ID).
		Count(&questionLikes)
	questionLiked := false
	if viewer.ID != 0 {
		var n int64
		db.DB.Model(&models.Like{}).
			Where("user_id = ? AND target_type = ? AND target_id = ?", viewer.ID, models.TargetQuestion, question.ID).
			Count(&n)
		questionLiked = n > 0
	}

	Render(c, http.StatusOK, "question/detail.html", gin.H{
		"Question":        question,
		"QuestionContent": utils.RenderMarkdown(question.Content),
		"QuestionThread":  questionThread,
		"Answers":         answerViews,
		"LikeCount":       questionLikes,
		"LikedByViewer":   questionLiked,
		"Categories":      listCategories(),
		"Title":           question.Title,
	})
}

func (h *QuestionHandler) ShowAsk(c *gin.Context) {
	Render(c, http.StatusOK, "question/ask.html", gin.H{
		"Title":      "Ask a Question",
		"Categories": listCategories(),
	})
}

// Ask submits a new question. It enters the pending queue until an
// administrator answers (publishes) or rejects it.
func (h *QuestionHandler) Ask(c *gin.Context) {
	user := currentUser(c)

	if user.Status == 2 {
		RenderError(c, http.StatusForbidden, "Your account has been banned.")
		return
	}
	if user.Status == 1 {
		if user.PunishExpires != nil && time.Now().After(*user.PunishExpires) {
			db.DB.Model(user).Updates(map[string]interface{}{"status": 0, "punish_expires": nil})
			user.Status = 0
		} else {
			RenderError(c, http.StatusForbidden, "You are muted and cannot post for now.")
			return
		}
	}

	title := c.PostForm("title")
	content := c.PostForm("content")
	categoryIDStr := c.PostForm("category_id")

	if title == "" {
		Render(c, http.StatusBadRequest, "question/ask.html", gin.H{
			"Error":      "Title is required",
			"Categories": listCategories(),
		})
		return
	}

	categoryID := uint(1)
	if id := utils.StringToUint(categoryIDStr); id > 0 {
		categoryID = id
	}

	question := models.Question{
		Qid:        utils.RandSlug(8),
		UserID:     user.ID,
		CategoryID: categoryID,
		Title:      title,
		Content:    content,
		Status:     models.QuestionPending,
	}

	if err := db.DB.Create(&question).Error; err != nil {
		Render(c, http.StatusInternalServerError, "question/ask.html", gin.H{
			"Error":      "Could not submit the question",
			"Categories": listCategories(),
		})
		return
	}

	utils.GetCache().Delete("question:recent:page:1")

	Render(c, http.StatusOK, "question/submitted.html", gin.H{
		"Question": question,
		"Title":    "Question Submitted",
	})
}

// Delete removes a question. Authors may remove their own; admins any.
func (h *QuestionHandler) Delete(c *gin.Context) {
	user := currentUser(c)
	qid := c.Param("qid")

	var question models.Question
	if err := db.DB.Where("qid = ?", qid).First(&question).Error; err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	if question.UserID != user.ID && !user.IsAdmin() {
		c.Status(http.StatusForbidden)
		return
	}

	db.DB.Delete(&question)

	utils.GetCache().Delete("question:recent:page:1")
	services.GetActivityService().ScheduleUpdate(question.ID)

	c.Status(http.StatusOK)
}
