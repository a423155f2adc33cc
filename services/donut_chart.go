package services

import (
	"math"
	"strconv"

	"civic-feedback-server/models"
)

// Donut canvas geometry
const (
	DonutCanvasSize  = 200.0
	DonutRadius      = 80.0
	DonutInnerRadius = 40.0
)

// SentimentColors maps each sentiment to its chart color
var SentimentColors = map[models.Sentiment]string{
	models.SentimentPositive: "#22c55e",
	models.SentimentNeutral:  "#eab308",
	models.SentimentNegative: "#ef4444",
}

const (
	donutPlaceholderText = "No data available"
	donutCaption         = "Feedbacks"
)

// RenderSentimentDonut lays out the sentiment distribution as a donut.
// Slice boundaries come from cumulative counts so the last slice closes the
// circle at exactly 2π.
func RenderSentimentDonut(stats models.FeedbackStats) models.DonutChart {
	center := models.Point{X: DonutCanvasSize / 2, Y: DonutCanvasSize / 2}
	chart := models.DonutChart{
		Width:       DonutCanvasSize,
		Height:      DonutCanvasSize,
		Center:      center,
		Radius:      DonutRadius,
		InnerRadius: DonutInnerRadius,
		Legend:      sentimentLegend(stats),
	}

	total := 0
	for _, s := range models.Sentiments {
		total += stats.SentimentDistribution[s]
	}
	chart.Total = total

	if total == 0 {
		chart.Empty = true
		chart.Slices = []models.DonutSlice{}
		chart.Shapes = []models.Shape{
			{Kind: models.ShapeCircle, X: center.X, Y: center.Y, Radius: DonutRadius, Stroke: "#e5e7eb", LineWidth: 1},
			{Kind: models.ShapeText, X: center.X, Y: center.Y, Text: donutPlaceholderText, Font: "14px Arial", Fill: "#6b7280", Align: "center", Baseline: "middle"},
		}
		return chart
	}

	cumulative := 0
	for _, s := range models.Sentiments {
		count := stats.SentimentDistribution[s]
		start := 2 * math.Pi * float64(cumulative) / float64(total)
		cumulative += count
		end := 2 * math.Pi * float64(cumulative) / float64(total)

		slice := models.DonutSlice{
			Sentiment:  s,
			Count:      count,
			StartAngle: start,
			EndAngle:   end,
			SweepAngle: end - start,
			Color:      SentimentColors[s],
		}
		chart.Slices = append(chart.Slices, slice)

		if count == 0 {
			continue
		}
		chart.Shapes = append(chart.Shapes, models.Shape{
			Kind:       models.ShapeArc,
			X:          center.X,
			Y:          center.Y,
			Radius:     DonutRadius,
			StartAngle: start,
			EndAngle:   end,
			Fill:       slice.Color,
		})
	}

	chart.Shapes = append(chart.Shapes,
		models.Shape{Kind: models.ShapeCircle, X: center.X, Y: center.Y, Radius: DonutInnerRadius, Fill: "#fff"},
		models.Shape{Kind: models.ShapeText, X: center.X, Y: center.Y - 10, Text: strconv.Itoa(total), Font: "bold 16px Arial", Fill: "#1f2937", Align: "center", Baseline: "middle"},
		models.Shape{Kind: models.ShapeText, X: center.X, Y: center.Y + 10, Text: donutCaption, Font: "12px Arial", Fill: "#6b7280", Align: "center", Baseline: "middle"},
	)
	return chart
}

func sentimentLegend(stats models.FeedbackStats) []models.LegendEntry {
	legend := make([]models.LegendEntry, 0, len(models.Sentiments))
	for _, s := range models.Sentiments {
		legend = append(legend, models.LegendEntry{
			Label: s.Label(),
			Color: SentimentColors[s],
			Value: strconv.Itoa(stats.SentimentDistribution[s]),
		})
	}
	return legend
}
