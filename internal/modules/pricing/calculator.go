// README: Pure ANTT floor calculation with ICMS/margin gross-up.
package pricing

import (
	"fmt"
	"math"
	"strings"

	"freightquote/internal/types"
)

// returnLegFactor is the share of the displacement cost charged for the empty return leg.
// The loading coefficient never applies to the return.
const returnLegFactor = 0.92

// Field names used in validation errors; they match the JSON request fields.
const (
	FieldDistance     = "distance"
	FieldICMS         = "icms"
	FieldProfitMargin = "profit_margin"
	FieldTolls        = "tolls"
	FieldCargoType    = "cargo_type"
	FieldAxles        = "axles"
)

const (
	msgDistance = "Digite uma distância válida"
	msgICMS     = "ICMS deve estar entre 0 e 100%"
	msgMargin   = "Margem deve estar entre 0 e 100%"
	msgPercent  = "ICMS + margem deve ser menor que 100%"
	msgToll     = "Pedágio não pode ser negativo"
	msgCargo    = "Selecione o tipo de carga"
	msgAxles    = "Selecione o número de eixos"
)

// FieldMessage is the form message for a failing field; empty for unknown fields.
func FieldMessage(field string) string {
	switch {
	case field == FieldDistance:
		return msgDistance
	case field == FieldICMS:
		return msgICMS
	case field == FieldProfitMargin:
		return msgMargin
	case field == FieldCargoType:
		return msgCargo
	case field == FieldAxles:
		return msgAxles
	case field == FieldTolls || strings.HasPrefix(field, FieldTolls+"."):
		return msgToll
	}
	return ""
}

// ComputeQuotes prices the shipment for every axle class of the table, in table order.
// Inputs that would make the gross-up degenerate are rejected with a *ValidationError
// wrapping ErrInvalidInput; a malformed table yields ErrInvalidTable.
func ComputeQuotes(table RateTable, in ShipmentInput) ([]Result, error) {
	if err := ValidateTable(table); err != nil {
		return nil, err
	}
	if err := ValidateInput(in); err != nil {
		return nil, err
	}

	totalPercent := in.ICMSPercent + in.MarginPercent
	results := make([]Result, 0, len(table.Entries))
	for _, e := range table.Entries {
		displacement := in.DistanceKm * e.DisplacementCoef
		outbound := displacement + e.LoadingCoef
		ret := returnLegFactor * displacement
		floor := outbound + ret

		subtotal := floor
		if totalPercent > 0 {
			subtotal = floor / (1 - totalPercent/100)
		}

		toll := in.Tolls[e.Axles]
		final := subtotal + toll

		results = append(results, Result{
			Axles:            e.Axles,
			Operation:        e.Operation,
			DistanceKm:       in.DistanceKm,
			DisplacementCoef: e.DisplacementCoef,
			LoadingCoef:      e.LoadingCoef,
			MaxWeightTonnes:  e.MaxWeightTonnes,
			OutboundValue:    outbound,
			ReturnValue:      ret,
			RegulatoryFloor:  floor,
			ICMSAmount:       subtotal * in.ICMSPercent / 100,
			MarginAmount:     subtotal * in.MarginPercent / 100,
			TollAmount:       toll,
			Subtotal:         subtotal,
			FinalTotal:       final,
			PerTonneCompany:  final / e.MaxWeightTonnes,
			PerTonneDriver:   (floor + toll) / e.MaxWeightTonnes,
		})
	}
	return results, nil
}

// ValidateInput checks the calculator preconditions and reports every failing field.
func ValidateInput(in ShipmentInput) error {
	verr := &ValidationError{Cause: ErrInvalidInput}
	if !finite(in.DistanceKm) || in.DistanceKm <= 0 {
		verr.add(FieldDistance, msgDistance)
	}
	icmsOK := percentInRange(in.ICMSPercent)
	if !icmsOK {
		verr.add(FieldICMS, msgICMS)
	}
	marginOK := percentInRange(in.MarginPercent)
	if !marginOK {
		verr.add(FieldProfitMargin, msgMargin)
	}
	if icmsOK && marginOK && in.ICMSPercent+in.MarginPercent >= 100 {
		verr.add(FieldProfitMargin, msgPercent)
	}
	for axles, v := range in.Tolls {
		if !finite(v) || v < 0 {
			verr.add(FieldTolls+"."+string(axles), msgToll)
		}
	}
	return verr.orNil()
}

// ValidateTable enforces the rate table invariants: finite non-negative coefficients,
// positive capacity and unique axle codes.
func ValidateTable(t RateTable) error {
	if len(t.Entries) == 0 {
		return fmt.Errorf("%w: no entries", ErrInvalidTable)
	}
	seen := make(map[types.AxleClass]bool, len(t.Entries))
	for _, e := range t.Entries {
		if e.Axles == "" {
			return fmt.Errorf("%w: entry without axle code", ErrInvalidTable)
		}
		if seen[e.Axles] {
			return fmt.Errorf("%w: duplicate axle class %q", ErrInvalidTable, e.Axles)
		}
		seen[e.Axles] = true
		if !finite(e.DisplacementCoef) || e.DisplacementCoef < 0 ||
			!finite(e.LoadingCoef) || e.LoadingCoef < 0 {
			return fmt.Errorf("%w: negative or non-finite coefficient for %q", ErrInvalidTable, e.Axles)
		}
		if !finite(e.MaxWeightTonnes) || e.MaxWeightTonnes <= 0 {
			return fmt.Errorf("%w: max weight must be positive for %q", ErrInvalidTable, e.Axles)
		}
	}
	return nil
}

func percentInRange(v float64) bool {
	return finite(v) && v >= 0 && v < 100
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
