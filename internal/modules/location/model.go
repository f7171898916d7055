// README: Device position reports and the resolved origin returned to the form.
package location

import (
	"time"

	"freightquote/internal/types"
)

// ErrorCode mirrors the browser geolocation PositionError codes.
type ErrorCode int

const (
	CodePermissionDenied    ErrorCode = 1
	CodePositionUnavailable ErrorCode = 2
	CodeTimeout             ErrorCode = 3
)

const (
	// DefaultMaxAge is the oldest device fix still accepted (and how long it stays cached).
	DefaultMaxAge = 5 * time.Minute
	// DefaultGeocodeTimeout bounds the reverse geocoding call.
	DefaultGeocodeTimeout = 10 * time.Second
)

// Fix is a device position as reported by the client.
type Fix struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	AccuracyM   float64 `json:"accuracy_m,omitempty"`
	TimestampMs int64   `json:"timestamp_ms,omitempty"`
}

func (f Fix) Point() types.Point {
	return types.Point{Lat: f.Lat, Lng: f.Lng}
}

// Time returns when the fix was taken; zero when the client sent no timestamp.
func (f Fix) Time() time.Time {
	if f.TimestampMs <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(f.TimestampMs)
}

// Report carries either a fix or the device error. A report with neither asks for the cached fix.
type Report struct {
	Fix       *Fix
	ErrorCode ErrorCode
}

// Resolved is the origin text offered to the form.
type Resolved struct {
	Point    types.Point
	Address  string
	Fallback bool
	Cached   bool
	Message  string
}

const (
	msgAddressFound = "Localização obtida com sucesso!"
	msgCoordsOnly   = "Coordenadas obtidas com sucesso!"
)
