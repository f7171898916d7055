package maps

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"googlemaps.github.io/maps"

	"freightquote/internal/types"
)

// GeocodeService resolves addresses to coordinates and back.
type GeocodeService struct {
	client Client
	opts   Options
	logger *zap.Logger
}

// NewGeocodeService accepts a nil client; every call then fails with ErrProviderUnavailable.
func NewGeocodeService(client Client, opts Options, logger *zap.Logger) *GeocodeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeocodeService{client: client, opts: opts.withDefaults(), logger: logger}
}

// Locate returns the coordinates of a free-text address or a literal "lat,lng".
func (s *GeocodeService) Locate(ctx context.Context, endpoint string) (types.Point, error) {
	endpoint = strings.TrimSpace(endpoint)
	if p, ok := ParseCoordinates(endpoint); ok {
		return p, nil
	}
	if s.client == nil {
		return types.Point{}, ErrProviderUnavailable
	}

	results, err := s.client.Geocode(ctx, &maps.GeocodingRequest{
		Address:  endpoint,
		Language: s.opts.Language,
		Region:   s.opts.Region,
	})
	if err != nil {
		if ctx.Err() != nil {
			return types.Point{}, ctx.Err()
		}
		status, ok := statusFromError(err)
		if !ok {
			return types.Point{}, err
		}
		if status == StatusRequestDenied || status == StatusOverQueryLimit || status == StatusAPINotActivated {
			return types.Point{}, &StatusError{Status: status, Err: err}
		}
		return types.Point{}, &EndpointNotFoundError{Endpoint: endpoint, Status: status}
	}
	if len(results) == 0 {
		return types.Point{}, &EndpointNotFoundError{Endpoint: endpoint, Status: StatusZeroResults}
	}
	loc := results[0].Geometry.Location
	return types.Point{Lat: loc.Lat, Lng: loc.Lng}, nil
}

// ReverseGeocode returns the formatted address of the first result.
func (s *GeocodeService) ReverseGeocode(ctx context.Context, p types.Point) (string, error) {
	if s.client == nil {
		return "", ErrProviderUnavailable
	}
	results, err := s.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng:   &maps.LatLng{Lat: p.Lat, Lng: p.Lng},
		Language: s.opts.Language,
	})
	if err != nil {
		return "", classify(err)
	}
	if len(results) == 0 || results[0].FormattedAddress == "" {
		return "", &StatusError{Status: StatusZeroResults, Err: ErrNoAddress}
	}
	return results[0].FormattedAddress, nil
}
