package services

import (
	"time"

	"civic-feedback-server/models"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newFeedback(id string, st models.ServiceType, rating int, age time.Duration) models.Feedback {
	return models.Feedback{
		ID:          id,
		ServiceType: st,
		Rating:      rating,
		Address:     models.Address{Street: "Main Street", DoorNumber: id, City: "Mysuru"},
		Comment:     "comment " + id,
		Timestamp:   testNow.Add(-age).UnixMilli(),
	}
}

// sevenRecords has ratings 5,5,4,3,2,1,1 spread over services and ages
func sevenRecords() []models.Feedback {
	return []models.Feedback{
		newFeedback("f1", models.ServiceWater, 5, time.Hour),
		newFeedback("f2", models.ServiceRoads, 5, 2*24*time.Hour),
		newFeedback("f3", models.ServiceWater, 4, 10*24*time.Hour),
		newFeedback("f4", models.ServiceGarbage, 3, 3*time.Hour),
		newFeedback("f5", models.ServiceElectricity, 2, 40*24*time.Hour),
		newFeedback("f6", models.ServiceRoads, 1, 5*time.Hour),
		newFeedback("f7", models.ServiceDrainage, 1, 20*24*time.Hour),
	}
}

func ids(records []models.Feedback) []string {
	out := make([]string, 0, len(records))
	for _, f := range records {
		out = append(out, f.ID)
	}
	return out
}
