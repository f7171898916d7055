// README: Startup wiring shared by the API server and the CLI: rate table source, stores, maps, auth.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"freightquote/internal/auth"
	"freightquote/internal/config"
	httptransport "freightquote/internal/http"
	"freightquote/internal/infra"
	"freightquote/internal/maps"
	"freightquote/internal/modules/location"
	"freightquote/internal/modules/pricing"
	"freightquote/internal/modules/quote"
)

// App owns the connections opened at startup.
type App struct {
	Deps httptransport.RouterDeps

	db    *pgxpool.Pool
	redis *redis.Client
}

// Close releases the connections. Safe to call on a partially built App.
func (a *App) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}

// Build wires every service the router needs. Redis and Maps are optional; Postgres is used only when a DSN is set.
func Build(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	a := &App{}

	table, pool, err := rateTable(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.db = pool

	pricingSvc, err := pricing.NewService(table, logger.Named("pricing"))
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("rate table %s: %w", table.Version, err)
	}

	var (
		board quote.Board       = quote.NewMemoryBoard()
		fixes location.FixStore = location.NewMemoryStore()
	)
	if cfg.Redis.Addr != "" {
		client, err := infra.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn("redis unavailable, using in-memory stores", zap.Error(err))
		} else {
			a.redis = client
			board = quote.NewRedisBoard(client)
			fixes = location.NewRedisStore(client)
		}
	}

	var client maps.Client
	if cfg.Maps.APIKey != "" {
		c, err := maps.NewClient(cfg.Maps.APIKey)
		if err != nil {
			a.Close()
			return nil, err
		}
		client = c
	} else {
		logger.Warn("FRETE_MAPS_API_KEY not set, route lookup and reverse geocoding disabled")
	}
	mapsOpts := maps.Options{Language: cfg.Maps.Language, Region: cfg.Maps.Region}
	routes := maps.NewRouteService(client, mapsOpts, cfg.RouteTimeout,
		maps.TollEstimator{PerEvent: cfg.TollPerEvent}, logger.Named("routes"))
	geocoder := maps.NewGeocodeService(client, mapsOpts, logger.Named("geocode"))

	capability, err := Capability(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Deps = httptransport.RouterDeps{
		Pricing: pricingSvc,
		Quotes: quote.NewService(pricingSvc, board,
			quote.Options{MaxCards: cfg.Board.Max, TTL: cfg.Board.TTL}, logger.Named("quotes")),
		Routes: routes,
		Location: location.NewService(geocoder, fixes,
			location.Options{MaxAge: cfg.Geo.MaxAge, GeocodeTimeout: cfg.Geo.Timeout}, logger.Named("location")),
		Auth:         capability,
		AuthRequired: cfg.AuthRequired,
		Logger:       logger,
	}
	logger.Info("services ready",
		zap.String("rates", table.Version),
		zap.String("auth", auth.Name(capability)),
		zap.Bool("redis", a.redis != nil),
		zap.Bool("maps", client != nil))
	return a, nil
}

// Capability picks Firebase when a project is configured, Demo otherwise.
func Capability(ctx context.Context, cfg config.Config) (auth.Capability, error) {
	if !cfg.AuthEnabled() {
		return auth.Demo{}, nil
	}
	provider, err := infra.NewFirebaseProvider(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
	if err != nil {
		return nil, err
	}
	return auth.Firebase{Provider: provider}, nil
}

// RateTable resolves the table without keeping any connection open.
func RateTable(ctx context.Context, cfg config.Config, logger *zap.Logger) (pricing.RateTable, error) {
	table, pool, err := rateTable(ctx, cfg, logger)
	if pool != nil {
		pool.Close()
	}
	return table, err
}

// rateTable reads Postgres when a DSN is set, then a YAML file, then falls back to the builtin table.
func rateTable(ctx context.Context, cfg config.Config, logger *zap.Logger) (pricing.RateTable, *pgxpool.Pool, error) {
	switch {
	case cfg.DB.DSN != "":
		pool, err := infra.NewDB(ctx, cfg.DB.DSN, cfg.DB.ConnectTimeout, logger)
		if err != nil {
			return pricing.RateTable{}, nil, err
		}
		if cfg.DB.Migrate {
			if err := infra.Migrate(ctx, pool); err != nil {
				pool.Close()
				return pricing.RateTable{}, nil, err
			}
		}
		table, err := pricing.NewStore(pool).LoadTable(ctx, cfg.Rates.Version)
		if err != nil {
			pool.Close()
			return pricing.RateTable{}, nil, err
		}
		logger.Info("rate table loaded from postgres", zap.String("version", table.Version))
		return table, pool, nil
	case cfg.Rates.File != "":
		table, err := pricing.LoadYAMLTable(cfg.Rates.File)
		if err != nil {
			return pricing.RateTable{}, nil, err
		}
		logger.Info("rate table loaded from file",
			zap.String("file", cfg.Rates.File),
			zap.String("version", table.Version))
		return table, nil, nil
	default:
		return pricing.DefaultTable(), nil, nil
	}
}
