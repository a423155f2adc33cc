package utils

// Bounds of the rough dashboard map. Coordinates are normalized against a
// 3-degree square starting at (11.5, 76.5).
const (
	MapOriginLat = 11.5
	MapOriginLng = 76.5
	MapSpanDeg   = 3.0

	// Pins are kept this many percent away from the map edges
	MapEdgeMarginPercent = 5.0
)

// IsLocationValid checks if the provided coordinates are valid
func IsLocationValid(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// MapPosition converts coordinates to percentages from the left and top of
// the dashboard map. This is a linear approximation, not a projection.
func MapPosition(lat, lng float64) (xPercent, yPercent float64) {
	normalizedLat := (lat - MapOriginLat) / MapSpanDeg
	normalizedLng := (lng - MapOriginLng) / MapSpanDeg

	lo, hi := MapEdgeMarginPercent, 100-MapEdgeMarginPercent
	xPercent = Clamp(normalizedLng*100, lo, hi)
	yPercent = Clamp(100-normalizedLat*100, lo, hi)
	return xPercent, yPercent
}
