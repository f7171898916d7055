package pricing

import (
	"time"

	"freightquote/internal/types"
)

const (
	DefaultVersion   = "SUROC-12/2024"
	DefaultCargoType = "carga_geral"
	operationLotacao = "Tabela A - Carga Lotação"
)

// DefaultTable is Portaria SUROC nº 12/2024, general cargo, full-load (Tabela A).
func DefaultTable() RateTable {
	return RateTable{
		Version:     DefaultVersion,
		CargoType:   DefaultCargoType,
		PublishedAt: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		Entries: []RateEntry{
			{Axles: "6", DisplacementCoef: 6.7301, LoadingCoef: 660.12, MaxWeightTonnes: 32, Operation: operationLotacao, Description: "Veículo de 6 eixos"},
			{Axles: "7", DisplacementCoef: 7.3085, LoadingCoef: 752.64, MaxWeightTonnes: 37, Operation: operationLotacao, Description: "Veículo de 7 eixos"},
			{Axles: "9", DisplacementCoef: 8.2680, LoadingCoef: 815.30, MaxWeightTonnes: 49, Operation: operationLotacao, Description: "Veículo de 9 eixos"},
		},
	}
}

// normalize sorts entries in canonical ascending axle order.
func normalize(t RateTable) RateTable {
	axles := t.Axles()
	types.SortAxles(axles)
	byAxle := make(map[types.AxleClass]RateEntry, len(t.Entries))
	for _, e := range t.Entries {
		byAxle[e.Axles] = e
	}
	sorted := make([]RateEntry, len(axles))
	for i, a := range axles {
		sorted[i] = byAxle[a]
	}
	t.Entries = sorted
	return t
}
