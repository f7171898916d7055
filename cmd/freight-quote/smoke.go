// README: smoke subcommand; runs end-to-end checks against a deployed API and its backing stores.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"freightquote/internal/http/middleware"
)

const (
	statusPass = "PASS"
	statusFail = "FAIL"
	statusSkip = "SKIP"
)

type smokeConfig struct {
	BaseURL   string
	DSN       string
	RedisAddr string
	Timeout   time.Duration
}

// Runner executes the checks in order against one API instance.
type Runner struct {
	cfg     smokeConfig
	httpc   *http.Client
	session string
	db      *pgxpool.Pool
	redis   *redis.Client
	logger  *zap.Logger
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type check struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func newSmokeCmd() *cobra.Command {
	var sc smokeConfig
	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Run end-to-end checks against a running API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc.BaseURL = strings.TrimRight(sc.BaseURL, "/")
			sc.DSN = cfg.DB.DSN
			sc.RedisAddr = cfg.Redis.Addr

			ctx, cancel := context.WithTimeout(cmd.Context(), sc.Timeout)
			defer cancel()

			results := NewRunner(sc, logger).RunAll(ctx, cmd.OutOrStdout())
			pass, fail, skipped := summarize(results)
			fmt.Fprintf(cmd.OutOrStdout(), "\nPASS=%d FAIL=%d SKIP=%d\n", pass, fail, skipped)
			if fail > 0 {
				return fmt.Errorf("%d checks failed", fail)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sc.BaseURL, "base-url", "http://localhost:8080", "API base URL")
	cmd.Flags().DurationVar(&sc.Timeout, "timeout", 60*time.Second, "total timeout")
	return cmd
}

func NewRunner(cfg smokeConfig, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:     cfg,
		httpc:   &http.Client{Timeout: 10 * time.Second},
		session: uuid.NewString(),
		logger:  logger,
	}
}

func (r *Runner) RunAll(ctx context.Context, out io.Writer) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
			defer db.Close()
		} else {
			r.logger.Warn("smoke: postgres", zap.Error(err))
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
		defer r.redis.Close()
	}

	checks := r.checks()
	results := make([]Result, 0, len(checks))
	for _, c := range checks {
		start := time.Now()
		res := c.Run(ctx, r)
		res.Name = c.Name
		if res.Status != statusSkip {
			res.Latency = time.Since(start).Round(time.Millisecond)
		}
		results = append(results, res)

		fmt.Fprintf(out, "%-5s %s", res.Status, res.Name)
		if res.Latency > 0 {
			fmt.Fprintf(out, " (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Fprintf(out, " - %s", res.Note)
		}
		fmt.Fprintln(out)
	}
	return results
}

func summarize(results []Result) (pass, fail, skipped int) {
	for _, res := range results {
		switch res.Status {
		case statusPass:
			pass++
		case statusFail:
			fail++
		default:
			skipped++
		}
	}
	return pass, fail, skipped
}

func (r *Runner) checks() []check {
	return []check{
		{Name: "Postgres: rate table seeded", Run: func(ctx context.Context, r *Runner) Result {
			if r.db == nil {
				return Result{Status: statusSkip, Note: "FRETE_DB_DSN not set"}
			}
			var n int
			if err := r.db.QueryRow(ctx, `SELECT count(*) FROM antt_rates`).Scan(&n); err != nil {
				return fail(err)
			}
			if n == 0 {
				return Result{Status: statusFail, Note: "antt_rates is empty"}
			}
			return Result{Status: statusPass, Note: fmt.Sprintf("%d rows", n)}
		}},
		{Name: "Redis: ping", Run: func(ctx context.Context, r *Runner) Result {
			if r.redis == nil {
				return Result{Status: statusSkip, Note: "FRETE_REDIS_ADDR not set"}
			}
			if err := r.redis.Ping(ctx).Err(); err != nil {
				return fail(err)
			}
			return Result{Status: statusPass}
		}},
		{Name: "HTTP: health", Run: func(ctx context.Context, r *Runner) Result {
			status, body, err := r.do(ctx, http.MethodGet, "/health", nil)
			if err != nil {
				return fail(err)
			}
			if status != http.StatusOK || strings.TrimSpace(string(body)) != "OK" {
				return Result{Status: statusFail, Note: fmt.Sprintf("status=%d body=%q", status, body)}
			}
			return Result{Status: statusPass}
		}},
		{Name: "HTTP: rate table", Run: func(ctx context.Context, r *Runner) Result {
			var resp struct {
				Data struct {
					Version string            `json:"version"`
					Entries []json.RawMessage `json:"entries"`
				} `json:"data"`
			}
			if res, ok := r.expectJSON(ctx, http.MethodGet, "/api/rates", nil, http.StatusOK, &resp); !ok {
				return res
			}
			if len(resp.Data.Entries) == 0 {
				return Result{Status: statusFail, Note: "no entries"}
			}
			return Result{Status: statusPass, Note: resp.Data.Version}
		}},
		{Name: "HTTP: quote", Run: func(ctx context.Context, r *Runner) Result {
			body := map[string]any{
				"cargo_type":    "carga_geral",
				"axles":         "6",
				"distance":      500,
				"icms":          12,
				"profit_margin": 10,
				"tolls":         map[string]float64{"6": 120},
			}
			var resp struct {
				Data struct {
					Results []struct {
						Axles      string `json:"axles"`
						FinalTotal struct {
							Formatted string `json:"formatted"`
						} `json:"final_total"`
					} `json:"results"`
				} `json:"data"`
			}
			if res, ok := r.expectJSON(ctx, http.MethodPost, "/api/quotes", body, http.StatusCreated, &resp); !ok {
				return res
			}
			if len(resp.Data.Results) == 0 {
				return Result{Status: statusFail, Note: "no results"}
			}
			return Result{Status: statusPass, Note: resp.Data.Results[0].FinalTotal.Formatted}
		}},
		{Name: "HTTP: quote board", Run: func(ctx context.Context, r *Runner) Result {
			var resp struct {
				Data []json.RawMessage `json:"data"`
			}
			if res, ok := r.expectJSON(ctx, http.MethodGet, "/api/quotes", nil, http.StatusOK, &resp); !ok {
				return res
			}
			if len(resp.Data) == 0 {
				return Result{Status: statusFail, Note: "board is empty after quote"}
			}
			return Result{Status: statusPass, Note: fmt.Sprintf("%d cards", len(resp.Data))}
		}},
		{Name: "HTTP: clear board", Run: func(ctx context.Context, r *Runner) Result {
			var resp struct {
				Data []json.RawMessage `json:"data"`
			}
			if res, ok := r.expectJSON(ctx, http.MethodDelete, "/api/quotes", nil, http.StatusOK, &resp); !ok {
				return res
			}
			if len(resp.Data) != 0 {
				return Result{Status: statusFail, Note: "board not empty"}
			}
			return Result{Status: statusPass}
		}},
		{Name: "HTTP: validation", Run: func(ctx context.Context, r *Runner) Result {
			body := map[string]any{"cargo_type": "carga_geral", "axles": "6", "distance": 0}
			status, _, err := r.do(ctx, http.MethodPost, "/api/quotes", body)
			if err != nil {
				return fail(err)
			}
			if status != http.StatusUnprocessableEntity {
				return Result{Status: statusFail, Note: fmt.Sprintf("status=%d", status)}
			}
			return Result{Status: statusPass}
		}},
	}
}

func (r *Runner) do(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.cfg.BaseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set(middleware.SessionHeader, r.session)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	return resp.StatusCode, data, err
}

func (r *Runner) expectJSON(ctx context.Context, method, path string, body any, want int, dst any) (Result, bool) {
	status, data, err := r.do(ctx, method, path, body)
	if err != nil {
		return fail(err), false
	}
	if status != want {
		return Result{Status: statusFail, Note: fmt.Sprintf("status=%d want=%d", status, want)}, false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fail(err), false
	}
	return Result{}, true
}

func fail(err error) Result {
	return Result{Status: statusFail, Note: err.Error()}
}
