package pricing_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"freightquote/internal/infra"
	"freightquote/internal/modules/pricing"
)

func TestStore_Integration(t *testing.T) {
	dsn := os.Getenv("FRETE_TEST_DSN")
	if dsn == "" {
		t.Skip("FRETE_TEST_DSN not set; skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := infra.NewDB(ctx, dsn, 5*time.Second, zap.NewNop())
	require.NoError(t, err)
	defer pool.Close()
	require.NoError(t, infra.Migrate(ctx, pool))

	store := pricing.NewStore(pool)

	// The seed migration publishes the builtin table.
	seeded, err := store.LoadTable(ctx, pricing.DefaultVersion)
	require.NoError(t, err)
	want := pricing.DefaultTable()
	if diff := cmp.Diff(want.Entries, seeded.Entries, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("seeded entries mismatch (-want +got):\n%s", diff)
	}

	// A newer version becomes the latest.
	next := pricing.DefaultTable()
	next.Version = fmt.Sprintf("TEST-%d", time.Now().UnixNano())
	next.PublishedAt = time.Now().UTC().Add(24 * time.Hour)
	next.Entries[0].DisplacementCoef = 7.0
	require.NoError(t, store.SeedTable(ctx, next))
	defer func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM antt_rates WHERE version = $1`, next.Version)
	}()

	latest, err := store.LoadTable(ctx, "")
	require.NoError(t, err)
	require.Equal(t, next.Version, latest.Version)
	require.InDelta(t, 7.0, latest.Entries[0].DisplacementCoef, 1e-9)

	_, err = store.LoadTable(ctx, "missing-version")
	require.ErrorIs(t, err, pricing.ErrNoTable)
}
