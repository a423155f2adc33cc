package models

import (
	"errors"
	"fmt"
)

// Rating scale bounds
const (
	MinRating = 1
	MaxRating = 5
)

var (
	ErrInvalidRating        = errors.New("rating out of range")
	ErrUnknownServiceType   = errors.New("unknown service type")
	ErrUnknownSentiment     = errors.New("unknown sentiment")
	ErrUnknownDateWindow    = errors.New("unknown date window")
	ErrUnknownSortField     = errors.New("unknown sort field")
	ErrUnknownSortDirection = errors.New("unknown sort direction")
	ErrInvalidFeedback      = errors.New("invalid feedback")
	ErrInvalidPage          = errors.New("invalid page number")
)

// Sentiment is the three-way category derived from a rating
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"

	// SentimentAll disables the sentiment filter
	SentimentAll Sentiment = "all"
)

// Sentiments lists the categories in display order
var Sentiments = []Sentiment{SentimentPositive, SentimentNeutral, SentimentNegative}

// ClassifyRating maps a 1..5 rating to its sentiment.
// Ratings outside the scale are rejected, never clamped.
func ClassifyRating(rating int) (Sentiment, error) {
	if rating < MinRating || rating > MaxRating {
		return "", fmt.Errorf("%w: %d", ErrInvalidRating, rating)
	}
	switch {
	case rating > 3:
		return SentimentPositive, nil
	case rating < 3:
		return SentimentNegative, nil
	default:
		return SentimentNeutral, nil
	}
}

// ParseSentiment validates a sentiment name. "all" and "" map to SentimentAll.
func ParseSentiment(value string) (Sentiment, error) {
	switch Sentiment(value) {
	case "", SentimentAll:
		return SentimentAll, nil
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return Sentiment(value), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSentiment, value)
}

// Label returns the capitalized display name
func (s Sentiment) Label() string {
	switch s {
	case SentimentPositive:
		return "Positive"
	case SentimentNeutral:
		return "Neutral"
	case SentimentNegative:
		return "Negative"
	}
	return string(s)
}
