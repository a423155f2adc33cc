package models

import (
	"fmt"
	"time"
)

// Trend is the direction shown next to the overall rating
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Average rating thresholds for the trend indicator, both exclusive
const (
	TrendUpAbove   = 3.5
	TrendDownBelow = 2.5
)

// TrendForAverage maps an average rating to its trend
func TrendForAverage(avg float64) Trend {
	switch {
	case avg > TrendUpAbove:
		return TrendUp
	case avg < TrendDownBelow:
		return TrendDown
	}
	return TrendStable
}

// FeedbackStats summarizes a feedback collection. Always derived, never persisted.
type FeedbackStats struct {
	TotalFeedbacks          int                 `json:"total_feedbacks"`
	AverageRating           float64             `json:"average_rating"`
	SentimentDistribution   map[Sentiment]int   `json:"sentiment_distribution"`
	ServiceTypeDistribution map[ServiceType]int `json:"service_type_distribution"`

	// Trend is stable for an empty collection
	Trend Trend `json:"trend"`
	// LatestTimestamp is the newest submission in ms, nil when empty
	LatestTimestamp *int64 `json:"latest_timestamp"`
	UniqueLocations int    `json:"unique_locations"`
}

// NewFeedbackStats returns empty stats with every category present at zero
func NewFeedbackStats() FeedbackStats {
	stats := FeedbackStats{
		Trend:                   TrendStable,
		SentimentDistribution:   make(map[Sentiment]int, len(Sentiments)),
		ServiceTypeDistribution: make(map[ServiceType]int, len(ServiceTypes)),
	}
	for _, s := range Sentiments {
		stats.SentimentDistribution[s] = 0
	}
	for _, st := range ServiceTypes {
		stats.ServiceTypeDistribution[st] = 0
	}
	return stats
}

// SortField is a sortable table column
type SortField string

const (
	SortByTimestamp   SortField = "timestamp"
	SortByRating      SortField = "rating"
	SortByServiceType SortField = "service_type"
)

// ParseSortField validates a column name. "" maps to SortByTimestamp.
func ParseSortField(value string) (SortField, error) {
	switch f := SortField(value); f {
	case "":
		return SortByTimestamp, nil
	case SortByTimestamp, SortByRating, SortByServiceType:
		return f, nil
	case "serviceType":
		return SortByServiceType, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSortField, value)
}

// SortDirection orders a column
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSortDirection validates a direction. "" maps to SortDesc.
func ParseSortDirection(value string) (SortDirection, error) {
	switch d := SortDirection(value); d {
	case "":
		return SortDesc, nil
	case SortAsc, SortDesc:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSortDirection, value)
}

// Pagination describes the slice of a sorted collection shown on one page.
// StartIndex is inclusive and EndIndex exclusive, both 0-based.
type Pagination struct {
	Page        int  `json:"page"`
	PageSize    int  `json:"page_size"`
	TotalPages  int  `json:"total_pages"`
	StartIndex  int  `json:"start_index"`
	EndIndex    int  `json:"end_index"`
	TotalCount  int  `json:"total_count"`
	HasPrevious bool `json:"has_previous"`
	HasNext     bool `json:"has_next"`
}

// TablePage is one rendered page of the feedback table
type TablePage struct {
	Rows          []FeedbackView `json:"rows"`
	Pagination    Pagination     `json:"pagination"`
	SortField     SortField      `json:"sort_field"`
	SortDirection SortDirection  `json:"sort_direction"`
	EmptyMessage  string         `json:"empty_message,omitempty"`
}

// Dashboard bundles every derived view of one filtered collection
type Dashboard struct {
	Criteria       FilterCriteria `json:"criteria"`
	Stats          FeedbackStats  `json:"stats"`
	Table          TablePage      `json:"table"`
	SentimentChart DonutChart     `json:"sentiment_chart"`
	ServiceChart   BarChart       `json:"service_chart"`
	LocationMap    LocationMap    `json:"location_map"`
	GeneratedAt    time.Time      `json:"generated_at"`
}
