// README: Result board: quote cards issued to a session.
package quote

import (
	"time"

	"freightquote/internal/modules/pricing"
)

const (
	DefaultMaxCards = 50
	DefaultTTL      = 24 * time.Hour
)

// Card is one issued quote as shown on the board. IssuedAt is the validity date printed on it.
type Card struct {
	ID          string        `json:"id"`
	IssuedAt    time.Time     `json:"issued_at"`
	Origin      string        `json:"origin,omitempty"`
	Destination string        `json:"destination,omitempty"`
	Quote       pricing.Quote `json:"quote"`
}
