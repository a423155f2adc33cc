package services

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"civic-feedback-server/models"
)

// Bar chart canvas geometry
const (
	BarCanvasWidth  = 400.0
	BarCanvasHeight = 250.0

	barPlotLeft   = 40.0
	barPlotTop    = 20.0
	barPlotMargin = 60.0
	barGridSteps  = 5
	axisLabelLen  = 5
)

// ServiceColors maps each service to its bar color
var ServiceColors = map[models.ServiceType]string{
	models.ServiceElectricity:  "#eab308",
	models.ServiceWater:        "#3b82f6",
	models.ServiceGarbage:      "#22c55e",
	models.ServiceRoads:        "#6b7280",
	models.ServiceStreetlights: "#f59e0b",
	models.ServiceDrainage:     "#8b5cf6",
}

const defaultServiceColor = "#6b7280"

// RenderServiceRatingsBar draws one bar per service in enum order, scaled
// against the fixed 0..5 rating axis. Services without feedback still get a
// zero-height bar with no value label.
func RenderServiceRatingsBar(records []models.Feedback) models.BarChart {
	plotWidth := BarCanvasWidth - barPlotMargin
	plotHeight := BarCanvasHeight - barPlotMargin
	baseline := plotHeight + barPlotTop
	barWidth := plotWidth / float64(len(models.ServiceTypes)) / 1.5
	padding := barWidth / 2

	chart := models.BarChart{
		Width:      BarCanvasWidth,
		Height:     BarCanvasHeight,
		PlotOrigin: models.Point{X: barPlotLeft, Y: barPlotTop},
		PlotWidth:  plotWidth,
		PlotHeight: plotHeight,
		Bars:       make([]models.Bar, 0, len(models.ServiceTypes)),
		GridLines:  make([]float64, 0, barGridSteps+1),
		Legend:     serviceLegend(),
	}

	// Axes
	chart.Shapes = append(chart.Shapes,
		models.Shape{Kind: models.ShapeLine, X: barPlotLeft, Y: barPlotTop, X2: barPlotLeft, Y2: baseline, Stroke: "#d1d5db", LineWidth: 2},
		models.Shape{Kind: models.ShapeLine, X: barPlotLeft, Y: baseline, X2: plotWidth + barPlotLeft, Y2: baseline, Stroke: "#d1d5db", LineWidth: 2},
	)

	for i := 0; i <= barGridSteps; i++ {
		y := baseline - float64(i)/barGridSteps*plotHeight
		chart.GridLines = append(chart.GridLines, y)
		chart.Shapes = append(chart.Shapes,
			models.Shape{Kind: models.ShapeLine, X: barPlotLeft, Y: y, X2: plotWidth + barPlotLeft, Y2: y, Stroke: "#e5e7eb", LineWidth: 1},
			models.Shape{Kind: models.ShapeText, X: barPlotLeft - 5, Y: y, Text: strconv.Itoa(i), Font: "10px Arial", Fill: "#6b7280", Align: "right", Baseline: "middle"},
		)
	}

	for i, st := range models.ServiceTypes {
		avg, count := averageRatingFor(records, st)
		height := avg / models.MaxRating * plotHeight
		x := barPlotLeft + padding + float64(i)*(barWidth+padding*2)

		bar := models.Bar{
			ServiceType:   st,
			Count:         count,
			AverageRating: avg,
			X:             x,
			Y:             baseline - height,
			Width:         barWidth,
			Height:        height,
			Color:         serviceColor(st),
			AxisLabel:     axisLabel(st),
		}
		if avg > 0 {
			bar.ValueLabel = FormatRating(avg)
		}
		chart.Bars = append(chart.Bars, bar)

		chart.Shapes = append(chart.Shapes,
			models.Shape{Kind: models.ShapeRect, X: bar.X, Y: bar.Y, Width: bar.Width, Height: bar.Height, Fill: bar.Color},
			models.Shape{Kind: models.ShapeText, X: x + barWidth/2, Y: baseline + 5, Text: bar.AxisLabel, Font: "10px Arial", Fill: "#1f2937", Align: "center", Baseline: "top"},
		)
		if bar.ValueLabel != "" {
			chart.Shapes = append(chart.Shapes, models.Shape{
				Kind: models.ShapeText, X: x + barWidth/2, Y: baseline - height - 5, Text: bar.ValueLabel,
				Font: "10px Arial", Fill: "#1f2937", Align: "center", Baseline: "bottom",
			})
		}
	}

	chart.Shapes = append(chart.Shapes,
		models.Shape{Kind: models.ShapeText, X: 15, Y: BarCanvasHeight / 2, Text: "Average Rating", Font: "12px Arial", Fill: "#4b5563", Align: "center", Baseline: "middle", Rotation: -math.Pi / 2},
		models.Shape{Kind: models.ShapeText, X: BarCanvasWidth / 2, Y: 5, Text: "Service Ratings", Font: "bold 14px Arial", Fill: "#1f2937", Align: "center", Baseline: "top"},
	)
	return chart
}

// FormatRating renders an average rating with one decimal place
func FormatRating(avg float64) string {
	return decimal.NewFromFloat(avg).StringFixed(1)
}

func serviceColor(st models.ServiceType) string {
	if c, ok := ServiceColors[st]; ok {
		return c
	}
	return defaultServiceColor
}

func axisLabel(st models.ServiceType) string {
	label := []rune(string(st))
	if len(label) > axisLabelLen {
		label = label[:axisLabelLen]
	}
	return string(label)
}

func serviceLegend() []models.LegendEntry {
	title := cases.Title(language.English)
	legend := make([]models.LegendEntry, 0, len(models.ServiceTypes))
	for _, st := range models.ServiceTypes {
		legend = append(legend, models.LegendEntry{Label: title.String(string(st)), Color: serviceColor(st)})
	}
	return legend
}
