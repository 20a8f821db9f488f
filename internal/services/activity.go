package services

import (
	"log"
	"sync"
	"time"

	"mehber/internal/db"
	"mehber/internal/models"
)

// Weights for the question activity score. Answers dominate: an answered
// question is what the community is here for.
const (
	weightAnswer  = 5
	weightComment = 2
	weightLike    = 1
)

// ActivityService recomputes question activity scores asynchronously.
// Writers schedule an update whenever a like, comment or answer touches a
// question; a background worker batches and dedups the recomputes.
type ActivityService struct {
	queue   chan uint // question IDs awaiting recompute
	pending map[uint]bool
	mu      sync.Mutex
}

var (
	activityService *ActivityService
	once            sync.Once
)

// GetActivityService returns the singleton activity service.
func GetActivityService() *ActivityService {
	once.Do(func() {
		activityService = &ActivityService{
			queue:   make(chan uint, 1000),
			pending: make(map[uint]bool),
		}
		go activityService.worker()
	})
	return activityService
}

// ScheduleUpdate queues a question for recompute, deduplicating bursts.
func (s *ActivityService) ScheduleUpdate(questionID uint) {
	s.mu.Lock()
	if s.pending[questionID] {
		s.mu.Unlock()
		return
	}
	s.pending[questionID] = true
	s.mu.Unlock()

	select {
	case s.queue <- questionID:
	default:
		// queue full; drop the request and clear the pending mark
		s.mu.Lock()
		delete(s.pending, questionID)
		s.mu.Unlock()
		log.Printf("activity queue full, skipping question %d", questionID)
	}
}

func (s *ActivityService) worker() {
	batch := make([]uint, 0, 50)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case questionID := <-s.queue:
			batch = append(batch, questionID)
			if len(batch) >= 50 {
				s.processBatch(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.processBatch(batch)
				batch = batch[:0]
			}
		}
	}
}

func (s *ActivityService) processBatch(questionIDs []uint) {
	for _, questionID := range questionIDs {
		s.updateScore(questionID)

		s.mu.Lock()
		delete(s.pending, questionID)
		s.mu.Unlock()
	}
}

// updateScore recomputes one question's activity score from its answers,
// its comment volume (question comments plus comments under its answers)
// and its like count.
func (s *ActivityService) updateScore(questionID uint) {
	var question models.Question
	if err := db.DB.First(&question, questionID).Error; err != nil {
		log.Printf("activity update: question %d not found", questionID)
		return
	}

	var answers int64
	db.DB.Model(&models.Answer{}).Where("question_id = ?", questionID).Count(&answers)

	var comments int64
	db.DB.Model(&models.Comment{}).
		Where("question_id = ? OR answer_id IN (?)",
			questionID,
			db.DB.Model(&models.Answer{}).Select("id").Where("question_id = ?", questionID)).
		Count(&comments)

	var likes int64
	db.DB.Model(&models.Like{}).
		Where("target_type = ? AND target_id = ?", models.TargetQuestion, questionID).
		Count(&likes)

	score := int(answers)*weightAnswer + int(comments)*weightComment + int(likes)*weightLike
	if err := db.DB.Model(&question).UpdateColumn("activity_score", score).Error; err != nil {
		log.Printf("activity update: question %d: %v", questionID, err)
	}
}

// UpdateScoreSync recomputes immediately, for paths that need the fresh value.
func UpdateScoreSync(questionID uint) {
	GetActivityService().updateScore(questionID)
}
