// README: ANTT rate table, shipment input and per-axle pricing result.
package pricing

import (
	"time"

	"freightquote/internal/types"
)

// RateEntry is one axle class of the regulatory table.
type RateEntry struct {
	Axles            types.AxleClass `yaml:"axles" json:"axles"`
	DisplacementCoef float64         `yaml:"ccd" json:"ccd"`
	LoadingCoef      float64         `yaml:"cc" json:"cc"`
	MaxWeightTonnes  float64         `yaml:"max_weight" json:"max_weight"`
	Operation        string          `yaml:"operation" json:"operation"`
	Description      string          `yaml:"description" json:"description"`
}

// RateTable is the read-only regulatory table. Entries are kept in ascending axle order.
type RateTable struct {
	Version     string      `yaml:"version" json:"version"`
	CargoType   string      `yaml:"cargo_type" json:"cargo_type"`
	PublishedAt time.Time   `yaml:"published_at,omitempty" json:"published_at,omitempty"`
	Entries     []RateEntry `yaml:"entries" json:"entries"`
}

// Entry looks up the entry for an axle class.
func (t RateTable) Entry(a types.AxleClass) (RateEntry, bool) {
	for _, e := range t.Entries {
		if e.Axles == a {
			return e, true
		}
	}
	return RateEntry{}, false
}

// Axles lists the classes in table order.
func (t RateTable) Axles() []types.AxleClass {
	out := make([]types.AxleClass, len(t.Entries))
	for i, e := range t.Entries {
		out[i] = e.Axles
	}
	return out
}

// ShipmentInput is built fresh for every calculation.
type ShipmentInput struct {
	DistanceKm    float64
	Tolls         map[types.AxleClass]float64
	ICMSPercent   float64
	MarginPercent float64
}

// Result is the breakdown for one axle class. Values are unrounded.
type Result struct {
	Axles            types.AxleClass
	Operation        string
	DistanceKm       float64
	DisplacementCoef float64
	LoadingCoef      float64
	MaxWeightTonnes  float64

	OutboundValue   float64
	ReturnValue     float64
	RegulatoryFloor float64
	ICMSAmount      float64
	MarginAmount    float64
	TollAmount      float64
	Subtotal        float64
	FinalTotal      float64
	PerTonneCompany float64
	PerTonneDriver  float64
}
