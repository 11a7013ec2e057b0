package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	MinCode = 100000
	MaxCode = 999999

	// DefaultTTL applies to every code kind.
	DefaultTTL = 5 * time.Minute
)

// Generator produces six-digit codes and their expiry timestamps.
type Generator struct {
	now func() time.Time
	ttl time.Duration
}

func NewGenerator(ttl time.Duration) *Generator {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Generator{now: time.Now, ttl: ttl}
}

// WithClock replaces the time source. Expiry checks elsewhere must use the
// same clock.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// GenerateNumericCode returns a uniformly random value in [MinCode, MaxCode]
// drawn from crypto/rand.
func (g *Generator) GenerateNumericCode() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(MaxCode-MinCode+1))
	if err != nil {
		return 0, fmt.Errorf("generate code: %w", err)
	}
	return MinCode + int(n.Int64()), nil
}

// ExpiryFromNow returns now plus the configured TTL.
func (g *Generator) ExpiryFromNow() time.Time {
	return g.now().Add(g.ttl)
}

// Now exposes the generator's clock.
func (g *Generator) Now() time.Time {
	return g.now()
}
