// README: Presentation DTOs; values are rounded to cents and formatted as BRL here only.
package handlers

import (
	"time"

	"freightquote/internal/maps"
	"freightquote/internal/modules/location"
	"freightquote/internal/modules/pricing"
	"freightquote/internal/modules/quote"
	"freightquote/internal/types"
)

type resultDTO struct {
	Axles            types.AxleClass `json:"axles"`
	Operation        string          `json:"operation"`
	Selected         bool            `json:"selected"`
	DistanceKm       float64         `json:"distance_km"`
	DisplacementCoef float64         `json:"ccd"`
	LoadingCoef      float64         `json:"cc"`
	MaxWeightTonnes  float64         `json:"max_weight"`
	Outbound         types.Money     `json:"outbound"`
	Return           types.Money     `json:"return"`
	RegulatoryFloor  types.Money     `json:"regulatory_floor"`
	ICMS             types.Money     `json:"icms"`
	Margin           types.Money     `json:"margin"`
	Subtotal         types.Money     `json:"subtotal"`
	Toll             types.Money     `json:"toll"`
	FinalTotal       types.Money     `json:"final_total"`
	PerTonneCompany  types.Money     `json:"per_tonne_company"`
	PerTonneDriver   types.Money     `json:"per_tonne_driver"`
}

type cardDTO struct {
	ID            string          `json:"id"`
	IssuedAt      time.Time       `json:"issued_at"`
	Origin        string          `json:"origin,omitempty"`
	Destination   string          `json:"destination,omitempty"`
	TableVersion  string          `json:"table_version"`
	CargoType     string          `json:"cargo_type"`
	SelectedAxles types.AxleClass `json:"selected_axles"`
	ICMSPercent   float64         `json:"icms_percent"`
	MarginPercent float64         `json:"margin_percent"`
	Results       []resultDTO     `json:"results"`
}

func toResultDTO(r pricing.Result, selected types.AxleClass) resultDTO {
	return resultDTO{
		Axles:            r.Axles,
		Operation:        r.Operation,
		Selected:         r.Axles == selected,
		DistanceKm:       r.DistanceKm,
		DisplacementCoef: r.DisplacementCoef,
		LoadingCoef:      r.LoadingCoef,
		MaxWeightTonnes:  r.MaxWeightTonnes,
		Outbound:         types.BRL(r.OutboundValue),
		Return:           types.BRL(r.ReturnValue),
		RegulatoryFloor:  types.BRL(r.RegulatoryFloor),
		ICMS:             types.BRL(r.ICMSAmount),
		Margin:           types.BRL(r.MarginAmount),
		Subtotal:         types.BRL(r.Subtotal),
		Toll:             types.BRL(r.TollAmount),
		FinalTotal:       types.BRL(r.FinalTotal),
		PerTonneCompany:  types.BRL(r.PerTonneCompany),
		PerTonneDriver:   types.BRL(r.PerTonneDriver),
	}
}

func toCardDTO(c quote.Card) cardDTO {
	q := c.Quote
	results := make([]resultDTO, len(q.Results))
	for i, r := range q.Results {
		results[i] = toResultDTO(r, q.SelectedAxles)
	}
	return cardDTO{
		ID:            c.ID,
		IssuedAt:      c.IssuedAt,
		Origin:        c.Origin,
		Destination:   c.Destination,
		TableVersion:  q.TableVersion,
		CargoType:     q.CargoType,
		SelectedAxles: q.SelectedAxles,
		ICMSPercent:   q.ICMSPercent,
		MarginPercent: q.MarginPercent,
		Results:       results,
	}
}

func toCardDTOs(cards []quote.Card) []cardDTO {
	out := make([]cardDTO, len(cards))
	for i, c := range cards {
		out[i] = toCardDTO(c)
	}
	return out
}

type rateEntryDTO struct {
	Axles            types.AxleClass `json:"axles"`
	DisplacementCoef float64         `json:"ccd"`
	LoadingCoef      float64         `json:"cc"`
	MaxWeightTonnes  float64         `json:"max_weight"`
	Operation        string          `json:"operation"`
	Description      string          `json:"description"`
}

type rateTableDTO struct {
	Version     string         `json:"version"`
	CargoType   string         `json:"cargo_type"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
	Entries     []rateEntryDTO `json:"entries"`
}

func toRateTableDTO(t pricing.RateTable) rateTableDTO {
	out := rateTableDTO{Version: t.Version, CargoType: t.CargoType, Entries: make([]rateEntryDTO, len(t.Entries))}
	if !t.PublishedAt.IsZero() {
		published := t.PublishedAt
		out.PublishedAt = &published
	}
	for i, e := range t.Entries {
		out.Entries[i] = rateEntryDTO(e)
	}
	return out
}

type tollDTO struct {
	Count     int                         `json:"count"`
	Estimated map[types.AxleClass]float64 `json:"estimated,omitempty"`
}

type routeDTO struct {
	DistanceKm      float64     `json:"distance_km"`
	DurationSeconds int64       `json:"duration_seconds"`
	DurationText    string      `json:"duration_text"`
	StartAddress    string      `json:"start_address"`
	EndAddress      string      `json:"end_address"`
	Origin          types.Point `json:"origin"`
	Destination     types.Point `json:"destination"`
	StraightLineKm  float64     `json:"straight_line_km"`
	Instructions    []string    `json:"instructions"`
	Tolls           tollDTO     `json:"tolls"`
}

func toRouteDTO(r maps.Route) routeDTO {
	tolls := tollDTO{Count: r.Tolls.Count}
	if len(r.Tolls.PerAxle) > 0 {
		tolls.Estimated = make(map[types.AxleClass]float64, len(r.Tolls.PerAxle))
		for a, v := range r.Tolls.PerAxle {
			tolls.Estimated[a] = types.Round2(v)
		}
	}
	return routeDTO{
		DistanceKm:      types.Round2(r.DistanceKm),
		DurationSeconds: int64(r.Duration.Seconds()),
		DurationText:    r.DurationText,
		StartAddress:    r.StartAddress,
		EndAddress:      r.EndAddress,
		Origin:          r.Origin,
		Destination:     r.Destination,
		StraightLineKm:  types.Round2(r.StraightLineKm),
		Instructions:    r.Instructions,
		Tolls:           tolls,
	}
}

type locationDTO struct {
	Address  string      `json:"address"`
	Point    types.Point `json:"point"`
	Fallback bool        `json:"fallback"`
	Cached   bool        `json:"cached"`
}

func toLocationDTO(r location.Resolved) locationDTO {
	return locationDTO{Address: r.Address, Point: r.Point, Fallback: r.Fallback, Cached: r.Cached}
}
