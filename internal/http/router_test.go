package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httptransport "freightquote/internal/http"
	"freightquote/internal/http/middleware"
	"freightquote/internal/maps"
	"freightquote/internal/modules/location"
	"freightquote/internal/modules/pricing"
	"freightquote/internal/modules/quote"
)

const testSession = "3f1c2a9e-6a57-4a43-9a55-8a9b2f1d7c10"

// stubRoutes is a test double for handlers.RouteLookup.
type stubRoutes struct {
	route maps.Route
	err   error
}

func (s *stubRoutes) Lookup(_ context.Context, _, _ string) (maps.Route, error) {
	return s.route, s.err
}

type envelope struct {
	Data         json.RawMessage   `json:"data"`
	Error        string            `json:"error"`
	Code         string            `json:"code"`
	Fields       map[string]string `json:"fields"`
	Notification struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"notification"`
}

func buildTestRouter(t *testing.T, routes *stubRoutes) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	pricingSvc, err := pricing.NewService(pricing.DefaultTable(), nil)
	require.NoError(t, err)
	if routes == nil {
		routes = &stubRoutes{}
	}
	return httptransport.NewRouter(httptransport.RouterDeps{
		Pricing:  pricingSvc,
		Quotes:   quote.NewService(pricingSvc, quote.NewMemoryBoard(), quote.Options{}, nil),
		Routes:   routes,
		Location: location.NewService(nil, location.NewMemoryStore(), location.Options{}, nil),
	})
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.SessionHeader, testSession)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if path != "/health" && w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func validQuote() map[string]any {
	return map[string]any{
		"cargo_type":    "carga_geral",
		"axles":         "6",
		"distance":      500,
		"icms":          12,
		"profit_margin": 10,
		"tolls":         map[string]float64{"6": 120},
		"origin":        "São Paulo, SP",
		"destination":   "Curitiba, PR",
	}
}

func TestHealth(t *testing.T) {
	r := buildTestRouter(t, nil)
	w, _ := doRequest(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestRates(t *testing.T) {
	r := buildTestRouter(t, nil)
	w, env := doRequest(t, r, http.MethodGet, "/api/rates", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var table struct {
		Version string `json:"version"`
		Entries []struct {
			Axles string  `json:"axles"`
			CCD   float64 `json:"ccd"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &table))
	assert.Equal(t, pricing.DefaultVersion, table.Version)
	require.Len(t, table.Entries, 3)
	assert.Equal(t, "9", table.Entries[2].Axles)
	assert.InDelta(t, 8.268, table.Entries[2].CCD, 1e-9)
}

func TestQuoteBoardLifecycle(t *testing.T) {
	r := buildTestRouter(t, nil)

	w, env := doRequest(t, r, http.MethodPost, "/api/quotes", validQuote())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "success", env.Notification.Type)
	assert.Equal(t, "Cálculo realizado com sucesso!", env.Notification.Message)

	var card struct {
		ID      string `json:"id"`
		Results []struct {
			Axles      string `json:"axles"`
			Selected   bool   `json:"selected"`
			FinalTotal struct {
				Amount    float64 `json:"amount"`
				Formatted string  `json:"formatted"`
			} `json:"final_total"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &card))
	require.Len(t, card.Results, 3)
	assert.NotEmpty(t, card.ID)
	assert.True(t, card.Results[0].Selected)
	assert.False(t, card.Results[1].Selected)
	assert.Equal(t, 9249.51, card.Results[0].FinalTotal.Amount)
	assert.Equal(t, "R$ 9.249,51", card.Results[0].FinalTotal.Formatted)

	w, env = doRequest(t, r, http.MethodGet, "/api/quotes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cards []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &cards))
	assert.Len(t, cards, 1)

	w, env = doRequest(t, r, http.MethodDelete, "/api/quotes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Resultados limpos com sucesso!", env.Notification.Message)

	_, env = doRequest(t, r, http.MethodGet, "/api/quotes", nil)
	require.NoError(t, json.Unmarshal(env.Data, &cards))
	assert.Empty(t, cards)
}

func TestQuoteValidation(t *testing.T) {
	r := buildTestRouter(t, nil)

	tests := []struct {
		name   string
		mutate func(map[string]any)
		status int
		fields map[string]string
	}{
		{
			name: "every failing field reported",
			mutate: func(q map[string]any) {
				q["distance"] = 0
				q["icms"] = 100
				delete(q, "cargo_type")
				q["tolls"] = map[string]float64{"7": -1}
			},
			status: http.StatusUnprocessableEntity,
			fields: map[string]string{
				"distance":   "Digite uma distância válida",
				"icms":       "ICMS deve estar entre 0 e 100%",
				"cargo_type": "Selecione o tipo de carga",
				"tolls.7":    "Pedágio não pode ser negativo",
			},
		},
		{
			name:   "distance above form limit",
			mutate: func(q map[string]any) { q["distance"] = 20000 },
			status: http.StatusUnprocessableEntity,
			fields: map[string]string{"distance": "Valor máximo: 10000"},
		},
		{
			name:   "percent sum reaches 100",
			mutate: func(q map[string]any) { q["icms"] = 60; q["profit_margin"] = 40 },
			status: http.StatusUnprocessableEntity,
			fields: map[string]string{"profit_margin": "ICMS + margem deve ser menor que 100%"},
		},
		{
			name: "percentages left empty",
			mutate: func(q map[string]any) {
				delete(q, "icms")
				delete(q, "profit_margin")
			},
			status: http.StatusUnprocessableEntity,
			fields: map[string]string{
				"icms":          "ICMS deve estar entre 0 e 100%",
				"profit_margin": "Margem deve estar entre 0 e 100%",
			},
		},
		{
			name:   "explicit zero percentages are valid",
			mutate: func(q map[string]any) { q["icms"] = 0; q["profit_margin"] = 0; q["distance"] = -5 },
			status: http.StatusUnprocessableEntity,
			fields: map[string]string{"distance": "Digite uma distância válida", "icms": "", "profit_margin": ""},
		},
		{
			name:   "unknown axle class",
			mutate: func(q map[string]any) { q["axles"] = "4" },
			status: http.StatusUnprocessableEntity,
			fields: map[string]string{"axles": "Configuração de eixos indisponível"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validQuote()
			tt.mutate(body)
			w, env := doRequest(t, r, http.MethodPost, "/api/quotes", body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, "validation_failed", env.Code)
			assert.Equal(t, "error", env.Notification.Type)
			for k, v := range tt.fields {
				assert.Equal(t, v, env.Fields[k], "field %s", k)
			}
		})
	}

	// Nothing was added to the board.
	_, env := doRequest(t, r, http.MethodGet, "/api/quotes", nil)
	var cards []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &cards))
	assert.Empty(t, cards)
}

func TestQuoteBadJSON(t *testing.T) {
	r := buildTestRouter(t, nil)
	w, env := doRequest(t, r, http.MethodPost, "/api/quotes", `{"distance": "far"`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_json", env.Code)
}

func TestRouteLookup(t *testing.T) {
	route := maps.Route{
		DistanceKm:   434.5,
		Duration:     5*time.Hour + 7*time.Minute,
		DurationText: "5 h 07 min",
		Tolls:        maps.DefaultTollEstimator().Estimate(2),
	}
	r := buildTestRouter(t, &stubRoutes{route: route})

	w, env := doRequest(t, r, http.MethodPost, "/api/routes", map[string]string{"origin": "São Paulo", "destination": "Rio de Janeiro"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Rota calculada: 434.5 km", env.Notification.Message)

	var dto struct {
		DistanceKm      float64 `json:"distance_km"`
		DurationSeconds int64   `json:"duration_seconds"`
		Tolls           struct {
			Count     int                `json:"count"`
			Estimated map[string]float64 `json:"estimated"`
		} `json:"tolls"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &dto))
	assert.Equal(t, 434.5, dto.DistanceKm)
	assert.Equal(t, int64(18420), dto.DurationSeconds)
	assert.Equal(t, 2, dto.Tolls.Count)
	assert.Equal(t, 44.0, dto.Tolls.Estimated["9"])

	w, env = doRequest(t, r, http.MethodPost, "/api/routes", map[string]string{"origin": " "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Este campo é obrigatório", env.Fields["origin"])
	assert.Equal(t, "Este campo é obrigatório", env.Fields["destination"])
}

func TestRouteErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"timeout", maps.ErrTimeout, http.StatusGatewayTimeout, "Timeout: A requisição demorou muito. Verifique sua conexão."},
		{"no provider", maps.ErrProviderUnavailable, http.StatusServiceUnavailable, ""},
		{"not found", &maps.EndpointNotFoundError{Endpoint: "Xyz", Status: "ZERO_RESULTS"}, http.StatusNotFound, "Não foi possível encontrar: Xyz. Status: ZERO_RESULTS"},
		{"zero results", &maps.StatusError{Status: maps.StatusZeroResults, Err: maps.ErrNoRoute}, http.StatusNotFound, "Nenhuma rota encontrada entre origem e destino"},
		{"denied", &maps.StatusError{Status: maps.StatusRequestDenied, Err: errors.New("maps: REQUEST_DENIED - ")}, http.StatusBadGateway, ""},
		{"not activated", &maps.StatusError{Status: maps.StatusAPINotActivated, Err: errors.New("x")}, http.StatusBadGateway, "A API do Google Maps Directions não está ativada. Ative-a no Google Cloud Console."},
		{"unknown status", &maps.StatusError{Status: "MAX_WAYPOINTS_EXCEEDED", Err: errors.New("x")}, http.StatusBadGateway, "Erro: MAX_WAYPOINTS_EXCEEDED"},
		{"transport", errors.New("connection reset"), http.StatusBadGateway, "Erro na API. Tente novamente."},
		{"caller went away", fmt.Errorf("geocode origin: %w", context.Canceled), 499, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := buildTestRouter(t, &stubRoutes{err: tt.err})
			w, env := doRequest(t, r, http.MethodPost, "/api/routes", map[string]string{"origin": "a", "destination": "b"})
			assert.Equal(t, tt.status, w.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, env.Notification.Message)
			}
		})
	}
}

func TestLocation(t *testing.T) {
	r := buildTestRouter(t, nil)

	w, env := doRequest(t, r, http.MethodPost, "/api/location", map[string]any{"error_code": 1})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Erro na geolocalização: Permissão negada pelo usuário.", env.Notification.Message)

	w, env = doRequest(t, r, http.MethodPost, "/api/location", map[string]any{
		"lat": -23.5614141, "lng": -46.655881, "timestamp_ms": time.Now().UnixMilli(),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Coordenadas obtidas com sucesso!", env.Notification.Message)
	var loc struct {
		Address  string `json:"address"`
		Fallback bool   `json:"fallback"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &loc))
	assert.Equal(t, "-23.561414, -46.655881", loc.Address)
	assert.True(t, loc.Fallback)

	// The accepted fix is reused when the device reports nothing new.
	w, _ = doRequest(t, r, http.MethodPost, "/api/location", map[string]any{})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doRequest(t, r, http.MethodPost, "/api/location", map[string]any{"lat": 10})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, env = doRequest(t, r, http.MethodPost, "/api/location", map[string]any{"lat": 100, "lng": 10})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, env.Fields, "lat")

	w, _ = doRequest(t, r, http.MethodPost, "/api/location", map[string]any{"error_code": 3})
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestSessionDemo(t *testing.T) {
	r := buildTestRouter(t, nil)

	w, env := doRequest(t, r, http.MethodGet, "/api/session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var s struct {
		Mode     string `json:"mode"`
		Identity struct {
			Display string `json:"display"`
			Demo    bool   `json:"demo"`
		} `json:"identity"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &s))
	assert.Equal(t, "demo", s.Mode)
	assert.Equal(t, "Modo Demo", s.Identity.Display)
	assert.True(t, s.Identity.Demo)

	w, env = doRequest(t, r, http.MethodPost, "/api/session/logout", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Logout não disponível - modo standalone", env.Notification.Message)
}
