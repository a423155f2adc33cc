package services

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"civic-feedback-server/models"
	"civic-feedback-server/utils"
)

// RenderLocationMap places a pin for every feedback that carries valid
// coordinates. Records without a location, or with coordinates outside the
// globe, are left off the map.
func RenderLocationMap(records []models.Feedback) models.LocationMap {
	title := cases.Title(language.English)
	pins := make([]models.MapPin, 0)

	for _, f := range records {
		if f.Location == nil || !utils.IsLocationValid(f.Location.Latitude, f.Location.Longitude) {
			continue
		}
		sentiment, err := f.Sentiment()
		if err != nil {
			continue
		}

		x, y := utils.MapPosition(f.Location.Latitude, f.Location.Longitude)
		pins = append(pins, models.MapPin{
			FeedbackID:  f.ID,
			ServiceType: f.ServiceType,
			Rating:      f.Rating,
			Sentiment:   sentiment,
			XPercent:    x,
			YPercent:    y,
			Color:       SentimentColors[sentiment],
			Tooltip: []string{
				title.String(string(f.ServiceType)),
				fmt.Sprintf("Rating: %d/%d", f.Rating, models.MaxRating),
				f.Comment,
			},
		})
	}

	legend := make([]models.LegendEntry, 0, len(models.Sentiments))
	for _, s := range models.Sentiments {
		legend = append(legend, models.LegendEntry{Label: s.Label(), Color: SentimentColors[s]})
	}

	return models.LocationMap{
		Pins:    pins,
		Count:   len(pins),
		Caption: fmt.Sprintf("Showing %d locations", len(pins)),
		Legend:  legend,
	}
}
