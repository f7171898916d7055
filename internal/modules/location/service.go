// README: Location service turns a device report into origin text via reverse geocoding.
package location

import (
	"context"
	"time"

	"go.uber.org/zap"

	"freightquote/internal/maps"
	"freightquote/internal/types"
)

// ReverseGeocoder resolves coordinates to a formatted address.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, p types.Point) (string, error)
}

type Options struct {
	MaxAge         time.Duration
	GeocodeTimeout time.Duration
}

type Service struct {
	geocoder ReverseGeocoder
	store    FixStore
	opts     Options
	now      func() time.Time
	logger   *zap.Logger
}

// NewService wires the resolver. geocoder may be nil, in which case every
// resolution falls back to raw coordinates.
func NewService(geocoder ReverseGeocoder, store FixStore, opts Options, logger *zap.Logger) *Service {
	if opts.MaxAge <= 0 {
		opts.MaxAge = DefaultMaxAge
	}
	if opts.GeocodeTimeout <= 0 {
		opts.GeocodeTimeout = DefaultGeocodeTimeout
	}
	if store == nil {
		store = NewMemoryStore()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{geocoder: geocoder, store: store, opts: opts, now: time.Now, logger: logger}
}

// Resolve accepts a device report for a session and returns the origin text.
// Reverse geocoding failures never surface; the coordinates are used instead.
func (s *Service) Resolve(ctx context.Context, session string, r Report) (Resolved, error) {
	if session == "" {
		return Resolved{}, ErrMissingSession
	}
	if r.ErrorCode != 0 {
		return Resolved{}, &PositionError{Code: r.ErrorCode}
	}

	fix, cached, err := s.acceptFix(ctx, session, r.Fix)
	if err != nil {
		return Resolved{}, err
	}

	p := fix.Point()
	out := Resolved{Point: p, Cached: cached}
	address, err := s.reverseGeocode(ctx, p)
	if err != nil || address == "" {
		if err != nil {
			s.logger.Warn("reverse geocode failed, using coordinates",
				zap.String("coords", p.String()), zap.Error(err))
		}
		out.Address = p.String()
		out.Fallback = true
		out.Message = msgCoordsOnly
		return out, nil
	}
	out.Address = address
	out.Message = msgAddressFound
	return out, nil
}

func (s *Service) acceptFix(ctx context.Context, session string, f *Fix) (Fix, bool, error) {
	if f == nil {
		last, ok, err := s.store.LastFix(ctx, session)
		if err != nil {
			s.logger.Warn("cached fix lookup failed", zap.String("session", session), zap.Error(err))
			return Fix{}, false, &PositionError{Code: CodePositionUnavailable}
		}
		if !ok {
			return Fix{}, false, &PositionError{Code: CodePositionUnavailable}
		}
		return last, true, nil
	}

	if !f.Point().Valid() {
		return Fix{}, false, ErrInvalidCoordinates
	}
	now := s.now()
	ttl := s.opts.MaxAge
	if taken := f.Time(); taken.IsZero() {
		f.TimestampMs = now.UnixMilli()
	} else if age := now.Sub(taken); age >= s.opts.MaxAge {
		return Fix{}, false, &PositionError{Code: CodePositionUnavailable}
	} else if age > 0 {
		ttl -= age
	}

	if err := s.store.SaveFix(ctx, session, *f, ttl); err != nil {
		s.logger.Warn("caching fix failed", zap.String("session", session), zap.Error(err))
	}
	return *f, false, nil
}

func (s *Service) reverseGeocode(ctx context.Context, p types.Point) (string, error) {
	if s.geocoder == nil {
		return "", maps.ErrProviderUnavailable
	}
	return maps.RaceTimeout(ctx, s.opts.GeocodeTimeout, func(ctx context.Context) (string, error) {
		return s.geocoder.ReverseGeocode(ctx, p)
	})
}
