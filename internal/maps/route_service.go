package maps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"googlemaps.github.io/maps"

	"freightquote/internal/types"
)

// DefaultRouteTimeout bounds a whole lookup (both geocodes plus directions).
const DefaultRouteTimeout = 30 * time.Second

// Route is the first leg of the first route returned for a driving trip.
type Route struct {
	DistanceKm     float64
	Duration       time.Duration
	DurationText   string
	StartAddress   string
	EndAddress     string
	Origin         types.Point
	Destination    types.Point
	StraightLineKm float64
	Instructions   []string
	Tolls          TollEstimate
}

// RouteService handles interactions with the Google Directions API.
type RouteService struct {
	client   Client
	geocoder *GeocodeService
	opts     Options
	timeout  time.Duration
	tolls    TollEstimator
	logger   *zap.Logger
}

// NewRouteService wires a route lookup. A nil client makes every lookup fail with ErrProviderUnavailable.
func NewRouteService(client Client, opts Options, timeout time.Duration, tolls TollEstimator, logger *zap.Logger) *RouteService {
	if timeout <= 0 {
		timeout = DefaultRouteTimeout
	}
	if tolls.PerEvent == nil {
		tolls = DefaultTollEstimator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = opts.withDefaults()
	return &RouteService{
		client:   client,
		geocoder: NewGeocodeService(client, opts, logger),
		opts:     opts,
		timeout:  timeout,
		tolls:    tolls,
		logger:   logger,
	}
}

// Lookup resolves both endpoints and asks for a driving route between them.
// The whole sequence races the service timeout.
func (s *RouteService) Lookup(ctx context.Context, origin, destination string) (Route, error) {
	origin, destination = strings.TrimSpace(origin), strings.TrimSpace(destination)
	if origin == "" || destination == "" {
		return Route{}, ErrMissingEndpoint
	}
	if s.client == nil {
		return Route{}, ErrProviderUnavailable
	}

	route, err := RaceTimeout(ctx, s.timeout, func(ctx context.Context) (Route, error) {
		return s.lookup(ctx, origin, destination)
	})
	if err != nil {
		s.logger.Warn("route lookup failed",
			zap.String("origin", origin),
			zap.String("destination", destination),
			zap.Error(err))
		return Route{}, err
	}
	return route, nil
}

func (s *RouteService) lookup(ctx context.Context, origin, destination string) (Route, error) {
	from, err := s.geocoder.Locate(ctx, origin)
	if err != nil {
		return Route{}, err
	}
	to, err := s.geocoder.Locate(ctx, destination)
	if err != nil {
		return Route{}, err
	}

	routes, _, err := s.client.Directions(ctx, &maps.DirectionsRequest{
		Origin:      latLngParam(from),
		Destination: latLngParam(to),
		Mode:        maps.TravelModeDriving,
		Units:       maps.UnitsMetric,
		Language:    s.opts.Language,
		Region:      s.opts.Region,
	})
	if err != nil {
		if ctx.Err() != nil {
			return Route{}, ctx.Err()
		}
		return Route{}, fmt.Errorf("directions: %w", classify(err))
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return Route{}, &StatusError{Status: StatusZeroResults, Err: ErrNoRoute}
	}

	leg := routes[0].Legs[0]
	instructions := make([]string, 0, len(leg.Steps))
	for _, step := range leg.Steps {
		if step == nil {
			continue
		}
		if text := plainText(step.HTMLInstructions); text != "" {
			instructions = append(instructions, text)
		}
	}

	return Route{
		DistanceKm:     float64(leg.Distance.Meters) / 1000,
		Duration:       leg.Duration,
		DurationText:   FormatDuration(leg.Duration),
		StartAddress:   leg.StartAddress,
		EndAddress:     leg.EndAddress,
		Origin:         from,
		Destination:    to,
		StraightLineKm: from.DistanceKm(to),
		Instructions:   instructions,
		Tolls:          s.tolls.Estimate(DetectTolls(instructions)),
	}, nil
}

// FormatDuration renders a trip duration the way the route details show it ("5 h 07 min").
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	if h == 0 {
		return fmt.Sprintf("%d min", m)
	}
	return fmt.Sprintf("%d h %02d min", h, m)
}
