package maps

import (
	"strings"

	"freightquote/internal/types"
)

// Keywords that mark a step as passing a toll plaza.
var tollKeywords = []string{"pedágio", "toll", "praça de pedágio", "cobrança"}

// DetectTolls counts instructions mentioning a toll. It is a heuristic, not a tariff.
func DetectTolls(instructions []string) int {
	count := 0
	for _, in := range instructions {
		text := strings.ToLower(in)
		if text == "" {
			continue
		}
		for _, kw := range tollKeywords {
			if strings.Contains(text, kw) {
				count++
				break
			}
		}
	}
	return count
}

// TollEstimator converts a detected toll count into a per-axle amount.
type TollEstimator struct {
	PerEvent map[types.AxleClass]float64
}

// DefaultTollEstimator uses typical Brazilian plaza prices per axle class.
func DefaultTollEstimator() TollEstimator {
	return TollEstimator{PerEvent: map[types.AxleClass]float64{"6": 15, "7": 18, "9": 22}}
}

// TollEstimate is the heuristic result; PerAxle is nil when no toll was detected.
type TollEstimate struct {
	Count   int                         `json:"count"`
	PerAxle map[types.AxleClass]float64 `json:"estimated,omitempty"`
}

func (e TollEstimator) Estimate(count int) TollEstimate {
	if count <= 0 {
		return TollEstimate{}
	}
	per := make(map[types.AxleClass]float64, len(e.PerEvent))
	for axles, amount := range e.PerEvent {
		per[axles] = float64(count) * amount
	}
	return TollEstimate{Count: count, PerAxle: per}
}
