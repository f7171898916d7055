// README: Config loader: .env file, then FRETE_* environment variables with defaults.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"

	"freightquote/internal/types"
)

const envPrefix = "FRETE_"

type Config struct {
	HTTP struct {
		Addr string `env:"ADDR" envDefault:":8080"`
	} `envPrefix:"HTTP_"`
	Log struct {
		Level string `env:"LEVEL" envDefault:"info"`
		Dev   bool   `env:"DEV" envDefault:"false"`
	} `envPrefix:"LOG_"`
	Maps struct {
		APIKey   string `env:"API_KEY"`
		Language string `env:"LANGUAGE" envDefault:"pt-BR"`
		Region   string `env:"REGION" envDefault:"br"`
	} `envPrefix:"MAPS_"`
	RouteTimeout time.Duration `env:"ROUTE_TIMEOUT" envDefault:"30s"`
	Geo          struct {
		Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
		MaxAge  time.Duration `env:"MAX_AGE" envDefault:"5m"`
	} `envPrefix:"GEO_"`
	Rates struct {
		File    string `env:"FILE"`
		Version string `env:"VERSION"`
	} `envPrefix:"RATES_"`
	DB struct {
		DSN            string        `env:"DSN"`
		Migrate        bool          `env:"MIGRATE" envDefault:"true"`
		ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT" envDefault:"1m"`
	} `envPrefix:"DB_"`
	Redis struct {
		Addr     string `env:"ADDR"`
		Password string `env:"PASSWORD"`
		DB       int    `env:"DB" envDefault:"0"`
	} `envPrefix:"REDIS_"`
	Board struct {
		TTL time.Duration `env:"TTL" envDefault:"24h"`
		Max int           `env:"MAX" envDefault:"50"`
	} `envPrefix:"BOARD_"`
	Firebase struct {
		ProjectID       string `env:"PROJECT_ID"`
		CredentialsFile string `env:"CREDENTIALS_FILE"`
	} `envPrefix:"FIREBASE_"`
	AuthRequired bool                        `env:"AUTH_REQUIRED" envDefault:"false"`
	TollPerEvent map[types.AxleClass]float64 `env:"TOLL_PER_EVENT" envDefault:"6:15,7:18,9:22"`
}

// Load reads an optional .env file and parses the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return parse(env.Options{Prefix: envPrefix})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the services cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.RouteTimeout <= 0 {
		errs = append(errs, errors.New("FRETE_ROUTE_TIMEOUT must be positive"))
	}
	if c.Geo.Timeout <= 0 {
		errs = append(errs, errors.New("FRETE_GEO_TIMEOUT must be positive"))
	}
	if c.Geo.MaxAge <= 0 {
		errs = append(errs, errors.New("FRETE_GEO_MAX_AGE must be positive"))
	}
	if c.Board.TTL <= 0 {
		errs = append(errs, errors.New("FRETE_BOARD_TTL must be positive"))
	}
	if c.Board.Max <= 0 {
		errs = append(errs, errors.New("FRETE_BOARD_MAX must be positive"))
	}
	for axles, amount := range c.TollPerEvent {
		if axles.Count() == 0 || amount < 0 {
			errs = append(errs, fmt.Errorf("FRETE_TOLL_PER_EVENT: invalid entry %s:%v", axles, amount))
		}
	}
	if c.AuthRequired && c.Firebase.ProjectID == "" {
		errs = append(errs, errors.New("FRETE_AUTH_REQUIRED needs FRETE_FIREBASE_PROJECT_ID"))
	}
	return errors.Join(errs...)
}

// AuthEnabled reports whether the Firebase capability should be built.
func (c Config) AuthEnabled() bool {
	return c.Firebase.ProjectID != ""
}
