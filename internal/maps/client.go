// README: Google Maps client construction and the narrow surface the services use.
package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"
)

// Client is the subset of *maps.Client used here.
type Client interface {
	Directions(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error)
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
	ReverseGeocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// NewClient creates a Google Maps client with the given API key.
func NewClient(apiKey string) (*maps.Client, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return client, nil
}

// Options are shared by the route and geocode services.
type Options struct {
	Language string
	Region   string
}

func (o Options) withDefaults() Options {
	if o.Language == "" {
		o.Language = "pt-BR"
	}
	if o.Region == "" {
		o.Region = "br"
	}
	return o
}
