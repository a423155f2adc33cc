package services

import (
	"fmt"
	"time"

	"civic-feedback-server/models"
)

// NoReportsLabel stands in for the latest report time of an empty collection
const NoReportsLabel = "No reports"

// AggregateStats computes count, mean rating, both distributions, the
// latest submission and the distinct locations in a single pass. A
// malformed record aborts the aggregation instead of being
// counted under a guessed category.
func AggregateStats(records []models.Feedback) (models.FeedbackStats, error) {
	stats := models.NewFeedbackStats()
	ratingSum := 0
	var latest int64
	locations := make(map[string]struct{})

	for _, f := range records {
		sentiment, err := f.Sentiment()
		if err != nil {
			return models.NewFeedbackStats(), fmt.Errorf("%w: feedback %s: %w", models.ErrInvalidFeedback, f.ID, err)
		}
		if !f.ServiceType.IsValid() {
			return models.NewFeedbackStats(), fmt.Errorf("%w: feedback %s: %w %q", models.ErrInvalidFeedback, f.ID, models.ErrUnknownServiceType, f.ServiceType)
		}

		stats.TotalFeedbacks++
		ratingSum += f.Rating
		stats.SentimentDistribution[sentiment]++
		stats.ServiceTypeDistribution[f.ServiceType]++
		if stats.TotalFeedbacks == 1 || f.Timestamp > latest {
			latest = f.Timestamp
		}
		if key := f.LocationKey(); key != "" {
			locations[key] = struct{}{}
		}
	}

	if stats.TotalFeedbacks > 0 {
		stats.AverageRating = float64(ratingSum) / float64(stats.TotalFeedbacks)
		stats.Trend = models.TrendForAverage(stats.AverageRating)
		stats.LatestTimestamp = &latest
	}
	stats.UniqueLocations = len(locations)
	return stats, nil
}

// averageRatingFor returns the mean rating of one service and its sample
// size, 0 when no record matches
func averageRatingFor(records []models.Feedback, service models.ServiceType) (float64, int) {
	sum, count := 0, 0
	for _, f := range records {
		if f.ServiceType == service {
			sum += f.Rating
			count++
		}
	}
	if count == 0 {
		return 0, 0
	}
	return float64(sum) / float64(count), count
}

// FormatLatestReport renders the newest submission time in UTC, or
// NoReportsLabel when there is none
func FormatLatestReport(latest *int64) string {
	if latest == nil {
		return NoReportsLabel
	}
	return time.UnixMilli(*latest).UTC().Format(time.RFC3339)
}
