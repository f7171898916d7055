// README: Location handler: device report in, origin text out.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"freightquote/internal/http/middleware"
	"freightquote/internal/modules/location"
)

const msgLocationFailed = "Não foi possível obter sua localização. Verifique as permissões."

type LocationHandler struct {
	location *location.Service
}

func NewLocationHandler(svc *location.Service) *LocationHandler {
	return &LocationHandler{location: svc}
}

type locationReq struct {
	Lat         *float64 `json:"lat" binding:"omitempty,gte=-90,lte=90"`
	Lng         *float64 `json:"lng" binding:"omitempty,gte=-180,lte=180"`
	AccuracyM   float64  `json:"accuracy_m" binding:"gte=0"`
	TimestampMs int64    `json:"timestamp_ms" binding:"gte=0"`
	ErrorCode   int      `json:"error_code" binding:"omitempty,oneof=1 2 3"`
}

func (r locationReq) report() location.Report {
	rep := location.Report{ErrorCode: location.ErrorCode(r.ErrorCode)}
	if r.Lat != nil && r.Lng != nil {
		rep.Fix = &location.Fix{Lat: *r.Lat, Lng: *r.Lng, AccuracyM: r.AccuracyM, TimestampMs: r.TimestampMs}
	}
	return rep
}

func (h *LocationHandler) Resolve(c *gin.Context) {
	var req locationReq
	if !bindJSON(c, &req, nil) {
		return
	}
	if (req.Lat == nil) != (req.Lng == nil) {
		writeFieldErrors(c, http.StatusUnprocessableEntity, "validation_failed", msgLocationFailed,
			map[string]string{"lat": msgRequired, "lng": msgRequired})
		return
	}
	res, err := h.location.Resolve(c.Request.Context(), middleware.CallerSession(c), req.report())
	if err != nil {
		writeLocationError(c, err)
		return
	}
	writeSuccess(c, http.StatusOK, toLocationDTO(res), res.Message)
}

func writeLocationError(c *gin.Context, err error) {
	var perr *location.PositionError
	switch {
	case errors.As(err, &perr):
		switch perr.Code {
		case location.CodePermissionDenied:
			writeError(c, http.StatusForbidden, "geolocation_denied", perr.Error())
		case location.CodeTimeout:
			writeError(c, http.StatusGatewayTimeout, "timeout", perr.Error())
		default:
			writeError(c, http.StatusUnprocessableEntity, "geolocation_unavailable", perr.Error())
		}
	case errors.Is(err, location.ErrInvalidCoordinates):
		writeError(c, http.StatusUnprocessableEntity, "validation_failed", msgLocationFailed)
	case errors.Is(err, location.ErrMissingSession):
		writeError(c, http.StatusBadRequest, "missing_session", msgRequired)
	default:
		writeInternal(c, err)
	}
}
