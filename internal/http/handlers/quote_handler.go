// README: Quote handlers: rate table, calculate, board listing and clearing.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"freightquote/internal/http/middleware"
	"freightquote/internal/modules/pricing"
	"freightquote/internal/modules/quote"
	"freightquote/internal/types"
)

const (
	msgCalculated = "Cálculo realizado com sucesso!"
	msgCleared    = "Resultados limpos com sucesso!"
)

type QuoteHandler struct {
	pricing *pricing.Service
	quotes  *quote.Service
}

func NewQuoteHandler(pricingSvc *pricing.Service, quoteSvc *quote.Service) *QuoteHandler {
	return &QuoteHandler{pricing: pricingSvc, quotes: quoteSvc}
}

type quoteReq struct {
	CargoType    string                      `json:"cargo_type" binding:"required"`
	Axles        types.AxleClass             `json:"axles" binding:"required"`
	Distance     float64                     `json:"distance" binding:"gt=0,lte=10000"`
	ICMS         *float64                    `json:"icms" binding:"required,gte=0,lt=100"`
	ProfitMargin *float64                    `json:"profit_margin" binding:"required,gte=0,lt=100"`
	Tolls        map[types.AxleClass]float64 `json:"tolls" binding:"omitempty,dive,gte=0"`
	Origin       string                      `json:"origin"`
	Destination  string                      `json:"destination"`
}

func (r quoteReq) shipment() pricing.ShipmentInput {
	return pricing.ShipmentInput{
		DistanceKm:    r.Distance,
		Tolls:         r.Tolls,
		ICMSPercent:   percent(r.ICMS),
		MarginPercent: percent(r.ProfitMargin),
	}
}

// percent dereferences a bound percentage. nil only reaches here after binding has failed.
func percent(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func (h *QuoteHandler) Rates(c *gin.Context) {
	writeData(c, http.StatusOK, toRateTableDTO(h.pricing.Table()))
}

func (h *QuoteHandler) Create(c *gin.Context) {
	var req quoteReq
	if !bindJSON(c, &req, func() map[string]string {
		return validationFields(pricing.ValidateInput(req.shipment()))
	}) {
		return
	}
	card, err := h.quotes.Calculate(c.Request.Context(), middleware.CallerSession(c), quote.CalculateCommand{
		Request: pricing.QuoteRequest{
			CargoType:     req.CargoType,
			SelectedAxles: req.Axles,
			Shipment:      req.shipment(),
		},
		Origin:      req.Origin,
		Destination: req.Destination,
	})
	if err != nil {
		writeQuoteError(c, err)
		return
	}
	writeSuccess(c, http.StatusCreated, toCardDTO(card), msgCalculated)
}

func (h *QuoteHandler) List(c *gin.Context) {
	cards, err := h.quotes.List(c.Request.Context(), middleware.CallerSession(c))
	if err != nil {
		writeQuoteError(c, err)
		return
	}
	writeData(c, http.StatusOK, toCardDTOs(cards))
}

func (h *QuoteHandler) Clear(c *gin.Context) {
	if err := h.quotes.Clear(c.Request.Context(), middleware.CallerSession(c)); err != nil {
		writeQuoteError(c, err)
		return
	}
	writeSuccess(c, http.StatusOK, []cardDTO{}, msgCleared)
}

func writeQuoteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pricing.ErrInvalidInput):
		writeFieldErrors(c, http.StatusUnprocessableEntity, "validation_failed", msgFormErrors, validationFields(err))
	case errors.Is(err, pricing.ErrInvalidTable):
		writeError(c, http.StatusUnprocessableEntity, "invalid_table", msgFormErrors)
	case errors.Is(err, quote.ErrMissingSession):
		writeError(c, http.StatusBadRequest, "missing_session", msgRequired)
	default:
		writeInternal(c, err)
	}
}
