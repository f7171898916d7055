// README: Route handler: distance lookup and toll suggestion for the form.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"freightquote/internal/maps"
)

const (
	msgRouteTimeout     = "Timeout: A requisição demorou muito. Verifique sua conexão."
	msgMapsUnavailable  = "Serviço de mapas indisponível. Verifique se a API do Google Maps está configurada."
	msgAPIError         = "Erro na API. Tente novamente."
	msgRouteDeniedHint  = "Requisição negada. Verifique se a chave da API está correta e se as APIs necessárias estão ativadas."
	routeSuccessPattern = "Rota calculada: %.1f km"

	// statusClientClosed is nginx's code for a client that went away mid-request.
	statusClientClosed = 499
)

// RouteLookup resolves a driving route between two free-text endpoints.
type RouteLookup interface {
	Lookup(ctx context.Context, origin, destination string) (maps.Route, error)
}

type RouteHandler struct {
	routes RouteLookup
}

func NewRouteHandler(routes RouteLookup) *RouteHandler {
	return &RouteHandler{routes: routes}
}

type routeReq struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

func (h *RouteHandler) Lookup(c *gin.Context) {
	var req routeReq
	if !bindJSON(c, &req, nil) {
		return
	}
	if fields := missingEndpoints(req); len(fields) > 0 {
		writeFieldErrors(c, http.StatusBadRequest, "missing_endpoint", msgRequired, fields)
		return
	}
	route, err := h.routes.Lookup(c.Request.Context(), req.Origin, req.Destination)
	if err != nil {
		writeRouteError(c, err)
		return
	}
	writeSuccess(c, http.StatusOK, toRouteDTO(route), fmt.Sprintf(routeSuccessPattern, route.DistanceKm))
}

func missingEndpoints(req routeReq) map[string]string {
	fields := map[string]string{}
	if strings.TrimSpace(req.Origin) == "" {
		fields["origin"] = msgRequired
	}
	if strings.TrimSpace(req.Destination) == "" {
		fields["destination"] = msgRequired
	}
	return fields
}

func writeRouteError(c *gin.Context, err error) {
	var (
		notFound *maps.EndpointNotFoundError
		status   *maps.StatusError
	)
	switch {
	case errors.Is(err, maps.ErrMissingEndpoint):
		writeError(c, http.StatusBadRequest, "missing_endpoint", msgRequired)
	case errors.Is(err, maps.ErrTimeout):
		writeError(c, http.StatusGatewayTimeout, "timeout", msgRouteTimeout)
	case errors.Is(err, context.Canceled):
		c.AbortWithStatus(statusClientClosed)
	case errors.Is(err, maps.ErrProviderUnavailable):
		writeError(c, http.StatusServiceUnavailable, "provider_unavailable", msgMapsUnavailable)
	case errors.As(err, &notFound):
		writeError(c, http.StatusNotFound, "not_found", notFound.Error())
	case errors.As(err, &status):
		writeStatusError(c, status)
	default:
		_ = c.Error(err)
		writeError(c, http.StatusBadGateway, "provider_error", msgAPIError)
	}
}

func writeStatusError(c *gin.Context, err *maps.StatusError) {
	switch err.Status {
	case maps.StatusZeroResults, maps.StatusNotFound:
		writeError(c, http.StatusNotFound, "not_found", err.UserMessage())
	case maps.StatusInvalidRequest:
		writeError(c, http.StatusBadRequest, "invalid_request", err.UserMessage())
	case maps.StatusRequestDenied:
		writeError(c, http.StatusBadGateway, "provider_denied", msgRouteDeniedHint)
	case maps.StatusOverQueryLimit, maps.StatusAPINotActivated:
		writeError(c, http.StatusBadGateway, "provider_denied", err.UserMessage())
	default:
		writeError(c, http.StatusBadGateway, "provider_error", err.UserMessage())
	}
}
