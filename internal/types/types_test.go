package types

import (
	"math"
	"testing"
)

func TestPointDistanceKm_KnownDistances(t *testing.T) {
	tests := []struct {
		name      string
		from, to  Point
		wantKm    float64
		tolerance float64
	}{
		{
			name:      "same point",
			from:      Point{Lat: -23.5505, Lng: -46.6333},
			to:        Point{Lat: -23.5505, Lng: -46.6333},
			wantKm:    0,
			tolerance: 0.001,
		},
		{
			name:      "São Paulo to Rio de Janeiro (~360km)",
			from:      Point{Lat: -23.5505, Lng: -46.6333},
			to:        Point{Lat: -22.9068, Lng: -43.1729},
			wantKm:    360,
			tolerance: 10,
		},
		{
			name:      "New York to Los Angeles (~3944km)",
			from:      Point{Lat: 40.7128, Lng: -74.0060},
			to:        Point{Lat: 34.0522, Lng: -118.2437},
			wantKm:    3944,
			tolerance: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.from.DistanceKm(tt.to)
			if math.Abs(got-tt.wantKm) > tt.tolerance {
				t.Errorf("DistanceKm() = %f, want %f (±%f)", got, tt.wantKm, tt.tolerance)
			}
		})
	}
}

func TestPointDistanceKm_Symmetry(t *testing.T) {
	a, b := Point{Lat: -25.0, Lng: -49.0}, Point{Lat: -26.0, Lng: -48.0}
	if d1, d2 := a.DistanceKm(b), b.DistanceKm(a); math.Abs(d1-d2) > 0.0001 {
		t.Errorf("haversine is not symmetric: %f vs %f", d1, d2)
	}
}

func TestPoint_ValidAndString(t *testing.T) {
	if !(Point{Lat: -23.55, Lng: -46.63}).Valid() {
		t.Error("expected valid point")
	}
	for _, p := range []Point{{Lat: 91}, {Lng: -181}, {Lat: math.NaN()}} {
		if p.Valid() {
			t.Errorf("expected %v to be invalid", p)
		}
	}
	if got := (Point{Lat: -23.5505199, Lng: -46.6333094}).String(); got != "-23.550520, -46.633309" {
		t.Errorf("String() = %q", got)
	}
}

func TestSortAxles(t *testing.T) {
	got := []AxleClass{"9", "x", "6", "12", "7"}
	SortAxles(got)
	want := []AxleClass{"6", "7", "9", "12", "x"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SortAxles() = %v, want %v", got, want)
		}
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{9229.507692, 9229.51},
		{288.4221, 288.42},
		{0.005, 0.01},
		{-1.005, -1.01},
		{100, 100},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBRL(t *testing.T) {
	m := BRL(1234567.891)
	if m.Amount != 1234567.89 || m.Currency != CurrencyBRL {
		t.Errorf("BRL() = %+v", m)
	}
	if m.Formatted != "R$ 1.234.567,89" {
		t.Errorf("Formatted = %q, want %q", m.Formatted, "R$ 1.234.567,89")
	}
}
