// README: Money value object used at the presentation boundary (rounding + BRL formatting).
package types

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const CurrencyBRL = "BRL"

var brPrinter = message.NewPrinter(language.BrazilianPortuguese)

// Money is a presentation value: the amount is already rounded to cents.
// Computation code keeps float64 and converts only when rendering.
type Money struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Formatted string  `json:"formatted"`
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// FormatBRL renders v as "R$ 1.234,56".
func FormatBRL(v float64) string {
	return "R$ " + brPrinter.Sprintf("%.2f", Round2(v))
}

// BRL builds a Money from a raw computed value.
func BRL(v float64) Money {
	return Money{Amount: Round2(v), Currency: CurrencyBRL, Formatted: FormatBRL(v)}
}
