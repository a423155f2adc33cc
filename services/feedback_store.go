package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"civic-feedback-server/database"
	"civic-feedback-server/logger"
	"civic-feedback-server/models"
)

// FeedbackStore supplies and accepts feedback records
type FeedbackStore interface {
	GetAllFeedback(ctx context.Context) ([]models.Feedback, error)
	Create(ctx context.Context, f models.Feedback) error
}

// GormFeedbackStore persists feedback through gorm
type GormFeedbackStore struct {
	db *gorm.DB
}

// NewGormFeedbackStore creates a store on db, or on database.DB when db is nil
func NewGormFeedbackStore(db *gorm.DB) *GormFeedbackStore {
	if db == nil {
		db = database.DB
	}
	return &GormFeedbackStore{db: db}
}

// GetAllFeedback loads every feedback in submission order. Rows that fail
// Feedback.Validate are skipped with a warning so they cannot skew the
// aggregates.
func (s *GormFeedbackStore) GetAllFeedback(ctx context.Context) ([]models.Feedback, error) {
	var records []models.FeedbackRecord
	if err := s.db.WithContext(ctx).Order("submitted_at ASC, id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load feedback: %w", err)
	}

	feedbacks := make([]models.Feedback, 0, len(records))
	for _, rec := range records {
		f := rec.ToFeedback()
		if err := f.Validate(); err != nil {
			logger.Warn().Err(err).Str("feedback_id", rec.ID).Msg("⚠️ Skipping malformed feedback row")
			continue
		}
		feedbacks = append(feedbacks, f)
	}
	return feedbacks, nil
}

// Create validates and inserts one feedback
func (s *GormFeedbackStore) Create(ctx context.Context, f models.Feedback) error {
	if err := f.Validate(); err != nil {
		return err
	}
	rec := models.NewFeedbackRecord(f)
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to save feedback: %w", err)
	}
	return nil
}

// feedbackCacheKey holds the JSON snapshot of all feedback
const feedbackCacheKey = "feedback:all"

// CachedFeedbackStore serves GetAllFeedback from a short-lived redis
// snapshot. Any redis failure falls through to the wrapped store.
type CachedFeedbackStore struct {
	next   FeedbackStore
	client *redis.Client
	ttl    time.Duration
}

// NewCachedFeedbackStore wraps next. A nil client disables caching.
func NewCachedFeedbackStore(next FeedbackStore, client *redis.Client, ttl time.Duration) *CachedFeedbackStore {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &CachedFeedbackStore{next: next, client: client, ttl: ttl}
}

func (s *CachedFeedbackStore) GetAllFeedback(ctx context.Context) ([]models.Feedback, error) {
	if s.client == nil {
		return s.next.GetAllFeedback(ctx)
	}

	var cached []models.Feedback
	err := database.CacheGet(ctx, s.client, feedbackCacheKey, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, redis.Nil) {
		logger.Warn().Err(err).Msg("⚠️ Feedback cache read failed, using database")
	}

	feedbacks, err := s.next.GetAllFeedback(ctx)
	if err != nil {
		return nil, err
	}
	if err := database.CacheSet(ctx, s.client, feedbackCacheKey, feedbacks, s.ttl); err != nil {
		logger.Warn().Err(err).Msg("⚠️ Feedback cache write failed")
	}
	return feedbacks, nil
}

// Create writes through and drops the snapshot
func (s *CachedFeedbackStore) Create(ctx context.Context, f models.Feedback) error {
	if err := s.next.Create(ctx, f); err != nil {
		return err
	}
	if s.client != nil {
		if err := database.CacheInvalidate(ctx, s.client, feedbackCacheKey); err != nil {
			logger.Warn().Err(err).Msg("⚠️ Feedback cache invalidation failed")
		}
	}
	return nil
}
