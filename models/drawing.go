package models

// ShapeKind identifies a drawing primitive
type ShapeKind string

const (
	ShapeArc    ShapeKind = "arc"    // filled wedge from the center
	ShapeCircle ShapeKind = "circle" // full circle, filled or stroked
	ShapeRect   ShapeKind = "rect"
	ShapeLine   ShapeKind = "line"
	ShapeText   ShapeKind = "text"
)

// Point is a canvas coordinate in pixels, origin top-left
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Shape is one backend-agnostic drawing instruction. Which fields matter
// depends on Kind; angles are radians measured clockwise from the x axis.
type Shape struct {
	Kind       ShapeKind `json:"kind"`
	X          float64   `json:"x"`
	Y          float64   `json:"y"`
	X2         float64   `json:"x2,omitempty"`
	Y2         float64   `json:"y2,omitempty"`
	Width      float64   `json:"width,omitempty"`
	Height     float64   `json:"height,omitempty"`
	Radius     float64   `json:"radius,omitempty"`
	StartAngle float64   `json:"start_angle,omitempty"`
	EndAngle   float64   `json:"end_angle,omitempty"`
	Fill       string    `json:"fill,omitempty"`
	Stroke     string    `json:"stroke,omitempty"`
	LineWidth  float64   `json:"line_width,omitempty"`
	Text       string    `json:"text,omitempty"`
	Font       string    `json:"font,omitempty"`
	Align      string    `json:"align,omitempty"`
	Baseline   string    `json:"baseline,omitempty"`
	Rotation   float64   `json:"rotation,omitempty"`
}

// LegendEntry pairs a label with its color
type LegendEntry struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Value string `json:"value,omitempty"`
}

// DonutSlice is the geometry of one sentiment category
type DonutSlice struct {
	Sentiment  Sentiment `json:"sentiment"`
	Count      int       `json:"count"`
	StartAngle float64   `json:"start_angle"`
	EndAngle   float64   `json:"end_angle"`
	SweepAngle float64   `json:"sweep_angle"`
	Color      string    `json:"color"`
}

// DonutChart is the sentiment distribution drawing
type DonutChart struct {
	Width       float64       `json:"width"`
	Height      float64       `json:"height"`
	Center      Point         `json:"center"`
	Radius      float64       `json:"radius"`
	InnerRadius float64       `json:"inner_radius"`
	Total       int           `json:"total"`
	Slices      []DonutSlice  `json:"slices"`
	Empty       bool          `json:"empty"`
	Legend      []LegendEntry `json:"legend"`
	Shapes      []Shape       `json:"shapes"`
}

// Bar is the geometry of one service type's average rating
type Bar struct {
	ServiceType   ServiceType `json:"service_type"`
	Count         int         `json:"count"`
	AverageRating float64     `json:"average_rating"`
	X             float64     `json:"x"`
	Y             float64     `json:"y"`
	Width         float64     `json:"width"`
	Height        float64     `json:"height"`
	Color         string      `json:"color"`
	AxisLabel     string      `json:"axis_label"`
	ValueLabel    string      `json:"value_label,omitempty"` // empty for zero bars
}

// BarChart is the per-service average rating drawing
type BarChart struct {
	Width      float64       `json:"width"`
	Height     float64       `json:"height"`
	PlotOrigin Point         `json:"plot_origin"`
	PlotWidth  float64       `json:"plot_width"`
	PlotHeight float64       `json:"plot_height"`
	Bars       []Bar         `json:"bars"`
	GridLines  []float64     `json:"grid_lines"` // y coordinates for ratings 0..5
	Legend     []LegendEntry `json:"legend"`
	Shapes     []Shape       `json:"shapes"`
}

// MapPin places one feedback on the rough location view
type MapPin struct {
	FeedbackID  string      `json:"feedback_id"`
	ServiceType ServiceType `json:"service_type"`
	Rating      int         `json:"rating"`
	Sentiment   Sentiment   `json:"sentiment"`
	XPercent    float64     `json:"x_percent"`
	YPercent    float64     `json:"y_percent"`
	Color       string      `json:"color"`
	Tooltip     []string    `json:"tooltip"`
}

// LocationMap is a linear approximation, not a real map projection
type LocationMap struct {
	Pins    []MapPin      `json:"pins"`
	Count   int           `json:"count"`
	Caption string        `json:"caption"`
	Legend  []LegendEntry `json:"legend"`
}
