package services

import (
	"time"

	"civic-feedback-server/models"
)

// FilterFeedback keeps the records matching every active dimension of
// criteria, preserving their order. The input slice is never modified.
func FilterFeedback(records []models.Feedback, criteria models.FilterCriteria, now time.Time) []models.Feedback {
	filtered := make([]models.Feedback, 0, len(records))
	nowMillis := now.UnixMilli()
	windowMillis := criteria.Window.Duration().Milliseconds()

	for _, f := range records {
		if !matchesService(f, criteria.Service) {
			continue
		}
		if criteria.MinRating > 0 && f.Rating < criteria.MinRating {
			continue
		}
		if !matchesSentiment(f, criteria.Sentiment) {
			continue
		}
		if windowMillis > 0 && nowMillis-f.Timestamp >= windowMillis {
			continue
		}
		filtered = append(filtered, f)
	}
	return filtered
}

func matchesService(f models.Feedback, service models.ServiceType) bool {
	if service == "" || service == models.ServiceAll {
		return true
	}
	return f.ServiceType == service
}

// A record whose rating cannot be classified never matches a sentiment filter
func matchesSentiment(f models.Feedback, sentiment models.Sentiment) bool {
	if sentiment == "" || sentiment == models.SentimentAll {
		return true
	}
	got, err := f.Sentiment()
	return err == nil && got == sentiment
}
