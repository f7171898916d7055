package types

import "fmt"

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the coordinates are within range.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// String renders the pair the way the form shows raw coordinates.
func (p Point) String() string {
	return fmt.Sprintf("%.6f, %.6f", p.Lat, p.Lng)
}
