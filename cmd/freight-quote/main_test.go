package main

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httptransport "freightquote/internal/http"
	"freightquote/internal/modules/pricing"
	"freightquote/internal/modules/quote"
	"freightquote/internal/types"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestQuoteCommand(t *testing.T) {
	out, err := execute(t, "quote", "--distance", "500", "--icms", "12", "--margin", "10", "--toll", "6=120")
	require.NoError(t, err)

	assert.Contains(t, out, pricing.DefaultVersion)
	assert.Contains(t, out, "R$ 9.249,51")
	assert.Contains(t, out, "Piso ANTT")
}

func TestQuoteCommandRejectsInvalidInput(t *testing.T) {
	_, err := execute(t, "quote", "--distance=-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, pricing.ErrInvalidInput)
}

func TestRatesCommand(t *testing.T) {
	out, err := execute(t, "rates")
	require.NoError(t, err)

	assert.Contains(t, out, "6.7301")
	assert.Contains(t, out, "815.30")
	assert.Contains(t, out, "Tabela A - Carga Lotação")
}

func TestParseTolls(t *testing.T) {
	tolls, err := parseTolls(map[string]string{"6": "120,5", "9": "80"})
	require.NoError(t, err)
	assert.Equal(t, map[types.AxleClass]float64{"6": 120.5, "9": 80}, tolls)

	_, err = parseTolls(map[string]string{"7": "abc"})
	assert.Error(t, err)
}

func TestSmokeRunner(t *testing.T) {
	gin.SetMode(gin.TestMode)
	pricingSvc, err := pricing.NewService(pricing.DefaultTable(), nil)
	require.NoError(t, err)
	router := httptransport.NewRouter(httptransport.RouterDeps{
		Pricing: pricingSvc,
		Quotes:  quote.NewService(pricingSvc, quote.NewMemoryBoard(), quote.Options{}, nil),
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	results := NewRunner(smokeConfig{BaseURL: srv.URL}, nil).RunAll(ctx, io.Discard)

	pass, fail, skipped := summarize(results)
	for _, r := range results {
		assert.NotEqual(t, statusFail, r.Status, "%s: %s", r.Name, r.Note)
	}
	assert.Equal(t, 0, fail)
	assert.Equal(t, 2, skipped)
	assert.Equal(t, len(results)-2, pass)
}
