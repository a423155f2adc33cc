package models

import (
	"fmt"
	"strings"
	"time"
)

// ServiceType is the closed set of public services citizens can rate
type ServiceType string

const (
	ServiceElectricity  ServiceType = "electricity"
	ServiceWater        ServiceType = "water"
	ServiceGarbage      ServiceType = "garbage"
	ServiceRoads        ServiceType = "roads"
	ServiceStreetlights ServiceType = "streetlights"
	ServiceDrainage     ServiceType = "drainage"

	// ServiceAll disables the service filter
	ServiceAll ServiceType = "all"
)

// ServiceTypes lists every service in chart display order
var ServiceTypes = []ServiceType{
	ServiceElectricity,
	ServiceWater,
	ServiceGarbage,
	ServiceRoads,
	ServiceStreetlights,
	ServiceDrainage,
}

// IsValid reports whether s belongs to the closed enumeration
func (s ServiceType) IsValid() bool {
	for _, st := range ServiceTypes {
		if s == st {
			return true
		}
	}
	return false
}

// ParseServiceType validates a service name. "all" and "" map to ServiceAll.
func ParseServiceType(value string) (ServiceType, error) {
	st := ServiceType(strings.ToLower(strings.TrimSpace(value)))
	if st == "" || st == ServiceAll {
		return ServiceAll, nil
	}
	if !st.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownServiceType, value)
	}
	return st, nil
}

// Address is the free-form postal address attached to a feedback
type Address struct {
	Street      string `json:"street" gorm:"type:varchar(255)"`
	DoorNumber  string `json:"door_number" gorm:"type:varchar(50)"`
	HouseNumber string `json:"house_number,omitempty" gorm:"type:varchar(50)"`
	Landmark    string `json:"landmark,omitempty" gorm:"type:varchar(255)"`
	City        string `json:"city,omitempty" gorm:"type:varchar(100)"`
	Pincode     string `json:"pincode,omitempty" gorm:"type:varchar(20)"`
}

// Short renders "door street, city" for table rows
func (a Address) Short() string {
	line := strings.TrimSpace(a.DoorNumber + " " + a.Street)
	if a.City != "" {
		line += ", " + a.City
	}
	return line
}

// GeoPoint is a raw latitude/longitude pair
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Feedback is one citizen-submitted rating. Values are never mutated by the
// analytics code; sentiment is derived from Rating on every read.
type Feedback struct {
	ID          string      `json:"id"`
	ServiceType ServiceType `json:"service_type"`
	Address     Address     `json:"address"`
	Rating      int         `json:"rating"`
	Comment     string      `json:"comment"`
	ImageURL    *string     `json:"image_url,omitempty"`
	Location    *GeoPoint   `json:"location,omitempty"`
	Timestamp   int64       `json:"timestamp"` // milliseconds since epoch
}

// Sentiment classifies the feedback's rating
func (f Feedback) Sentiment() (Sentiment, error) {
	return ClassifyRating(f.Rating)
}

// Time converts the millisecond timestamp
func (f Feedback) Time() time.Time {
	return time.UnixMilli(f.Timestamp)
}

// LocationKey identifies where a feedback was reported: its coordinates when
// present, otherwise its address. Empty when the feedback has neither.
func (f Feedback) LocationKey() string {
	if f.Location != nil {
		return fmt.Sprintf("geo:%.6f,%.6f", f.Location.Latitude, f.Location.Longitude)
	}
	if addr := strings.ToLower(f.Address.Short()); addr != "" {
		return "addr:" + addr
	}
	return ""
}

// Validate checks the fields the analytics code relies on
func (f Feedback) Validate() error {
	if strings.TrimSpace(f.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidFeedback)
	}
	if !f.ServiceType.IsValid() {
		return fmt.Errorf("%w: feedback %s: %w", ErrInvalidFeedback, f.ID, fmt.Errorf("%w: %q", ErrUnknownServiceType, f.ServiceType))
	}
	if _, err := ClassifyRating(f.Rating); err != nil {
		return fmt.Errorf("%w: feedback %s: %w", ErrInvalidFeedback, f.ID, err)
	}
	return nil
}

// FeedbackView is the wire form of a feedback with its computed sentiment
type FeedbackView struct {
	Feedback
	Sentiment    Sentiment `json:"sentiment"`
	ShortAddress string    `json:"short_address"`
}

// View attaches the derived fields
func (f Feedback) View() (FeedbackView, error) {
	sentiment, err := f.Sentiment()
	if err != nil {
		return FeedbackView{}, err
	}
	return FeedbackView{
		Feedback:     f,
		Sentiment:    sentiment,
		ShortAddress: f.Address.Short(),
	}, nil
}

// FeedbackCreate represents the request structure for submitting feedback
type FeedbackCreate struct {
	ServiceType string    `json:"service_type" binding:"required"`
	Address     Address   `json:"address"`
	Rating      int       `json:"rating" binding:"required,min=1,max=5"`
	Comment     string    `json:"comment" binding:"max=2000"`
	ImageURL    *string   `json:"image_url"`
	Location    *GeoPoint `json:"location"`
}

// FeedbackRecord is the persisted row behind a Feedback
type FeedbackRecord struct {
	ID          string    `gorm:"primaryKey;type:varchar(64)"`
	ServiceType string    `gorm:"type:varchar(32);not null;index"`
	Address     Address   `gorm:"embedded;embeddedPrefix:address_"`
	Rating      int       `gorm:"type:int;not null;check:rating >= 1 AND rating <= 5"`
	Comment     string    `gorm:"type:text"`
	ImageURL    *string   `gorm:"type:varchar(512)"`
	Latitude    *float64
	Longitude   *float64
	SubmittedAt int64     `gorm:"not null;index"` // milliseconds since epoch
	CreatedAt   time.Time
}

// TableName sets custom table name
func (FeedbackRecord) TableName() string { return "feedback" }

// NewFeedbackRecord flattens a Feedback for storage
func NewFeedbackRecord(f Feedback) FeedbackRecord {
	rec := FeedbackRecord{
		ID:          f.ID,
		ServiceType: string(f.ServiceType),
		Address:     f.Address,
		Rating:      f.Rating,
		Comment:     f.Comment,
		ImageURL:    f.ImageURL,
		SubmittedAt: f.Timestamp,
	}
	if f.Location != nil {
		lat, lng := f.Location.Latitude, f.Location.Longitude
		rec.Latitude = &lat
		rec.Longitude = &lng
	}
	return rec
}

// ToFeedback rebuilds the domain value. The location is only set when both
// coordinates are present.
func (r FeedbackRecord) ToFeedback() Feedback {
	f := Feedback{
		ID:          r.ID,
		ServiceType: ServiceType(r.ServiceType),
		Address:     r.Address,
		Rating:      r.Rating,
		Comment:     r.Comment,
		ImageURL:    r.ImageURL,
		Timestamp:   r.SubmittedAt,
	}
	if r.Latitude != nil && r.Longitude != nil {
		f.Location = &GeoPoint{Latitude: *r.Latitude, Longitude: *r.Longitude}
	}
	return f
}
