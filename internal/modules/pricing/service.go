// README: Pricing service holds the startup rate table and turns form requests into quotes.
package pricing

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"freightquote/internal/types"
)

type Service struct {
	table  RateTable
	logger *zap.Logger
}

// NewService validates the table once; it is read-only afterwards.
func NewService(table RateTable, logger *zap.Logger) (*Service, error) {
	if err := ValidateTable(table); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{table: normalize(table), logger: logger}, nil
}

// QuoteRequest is the validated form: the shipment plus the fields the form requires.
type QuoteRequest struct {
	CargoType     string
	SelectedAxles types.AxleClass
	Shipment      ShipmentInput
}

// Quote is the calculator output for one request.
type Quote struct {
	TableVersion  string
	CargoType     string
	SelectedAxles types.AxleClass
	ICMSPercent   float64
	MarginPercent float64
	Results       []Result
}

func (s *Service) Table() RateTable {
	return s.table
}

// Quote checks the form-level fields, then runs the calculator for every axle class.
func (s *Service) Quote(ctx context.Context, req QuoteRequest) (Quote, error) {
	verr := &ValidationError{Cause: ErrInvalidInput}
	if strings.TrimSpace(req.CargoType) == "" {
		verr.add(FieldCargoType, msgCargo)
	}
	if req.SelectedAxles == "" {
		verr.add(FieldAxles, msgAxles)
	} else if _, ok := s.table.Entry(req.SelectedAxles); !ok {
		verr.add(FieldAxles, "Configuração de eixos indisponível")
	}
	if err := ValidateInput(req.Shipment); err != nil {
		if inner, ok := err.(*ValidationError); ok {
			for k, v := range inner.Fields {
				verr.add(k, v)
			}
		}
	}
	if err := verr.orNil(); err != nil {
		return Quote{}, err
	}

	results, err := ComputeQuotes(s.table, req.Shipment)
	if err != nil {
		return Quote{}, err
	}
	s.logger.Debug("quote computed",
		zap.String("version", s.table.Version),
		zap.Float64("distance_km", req.Shipment.DistanceKm),
		zap.Int("results", len(results)))

	return Quote{
		TableVersion:  s.table.Version,
		CargoType:     req.CargoType,
		SelectedAxles: req.SelectedAxles,
		ICMSPercent:   req.Shipment.ICMSPercent,
		MarginPercent: req.Shipment.MarginPercent,
		Results:       results,
	}, nil
}
