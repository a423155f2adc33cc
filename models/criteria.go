package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateWindow bounds how old a feedback may be
type DateWindow string

const (
	WindowToday DateWindow = "today"
	WindowWeek  DateWindow = "week"
	WindowMonth DateWindow = "month"
	WindowAll   DateWindow = "all"
)

// Duration returns the fixed length of the window; 0 for WindowAll
func (w DateWindow) Duration() time.Duration {
	switch w {
	case WindowToday:
		return 24 * time.Hour
	case WindowWeek:
		return 7 * 24 * time.Hour
	case WindowMonth:
		return 30 * 24 * time.Hour
	}
	return 0
}

// ParseDateWindow validates a window name. "" maps to WindowAll.
func ParseDateWindow(value string) (DateWindow, error) {
	switch w := DateWindow(strings.ToLower(strings.TrimSpace(value))); w {
	case "", WindowAll:
		return WindowAll, nil
	case WindowToday, WindowWeek, WindowMonth:
		return w, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDateWindow, value)
}

// FilterCriteria is a conjunctive set of optional constraints.
// The zero value matches everything.
type FilterCriteria struct {
	Service   ServiceType `json:"service"`
	MinRating int         `json:"min_rating"` // 0 means no lower bound
	Sentiment Sentiment   `json:"sentiment"`
	Window    DateWindow  `json:"date"`
}

// FilterParams is the raw string form of FilterCriteria, as sent by clients
type FilterParams struct {
	Service   string `form:"service" json:"service"`
	Rating    string `form:"rating" json:"rating"`
	Sentiment string `form:"sentiment" json:"sentiment"`
	Date      string `form:"date" json:"date"`
}

// ParseFilterCriteria validates raw filter values, failing on the first
// unknown one
func ParseFilterCriteria(p FilterParams) (FilterCriteria, error) {
	var (
		c   FilterCriteria
		err error
	)
	if c.Service, err = ParseServiceType(p.Service); err != nil {
		return FilterCriteria{}, err
	}
	if c.MinRating, err = parseMinRating(p.Rating); err != nil {
		return FilterCriteria{}, err
	}
	if c.Sentiment, err = ParseSentiment(strings.ToLower(strings.TrimSpace(p.Sentiment))); err != nil {
		return FilterCriteria{}, err
	}
	if c.Window, err = ParseDateWindow(p.Date); err != nil {
		return FilterCriteria{}, err
	}
	return c, nil
}

func parseMinRating(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "all" {
		return 0, nil
	}
	rating, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRating, value)
	}
	if rating < MinRating || rating > MaxRating {
		return 0, fmt.Errorf("%w: %d", ErrInvalidRating, rating)
	}
	return rating, nil
}
