package checkout

import (
	"time"

	"github.com/jaevor/go-nanoid"
)

// Order numbers look like ALE250901XX7Q: a fixed prefix, the UTC date and a
// random suffix. Uniqueness is enforced by the database index; the caller
// retries with a fresh suffix on collision.
const (
	orderNumberPrefix   = "ALE"
	orderNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	orderNumberSuffix   = 4
)

// OrderNumberGenerator produces human-readable order numbers.
type OrderNumberGenerator struct {
	suffix func() string
}

// NewOrderNumberGenerator creates a generator.
func NewOrderNumberGenerator() (*OrderNumberGenerator, error) {
	suffix, err := nanoid.CustomASCII(orderNumberAlphabet, orderNumberSuffix)
	if err != nil {
		return nil, err
	}
	return &OrderNumberGenerator{suffix: suffix}, nil
}

// Next returns a fresh candidate order number.
func (g *OrderNumberGenerator) Next() string {
	return orderNumberPrefix + time.Now().UTC().Format("060102") + g.suffix()
}
