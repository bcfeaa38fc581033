// Package scoring computes the per-game point differential (±) from raw
// points, finishing place, oka and uma.
package scoring

import (
	"fmt"
)

// Default scoring configuration constants.
const (
	DefaultOka    = 20000
	DefaultTarget = 30000

	pointsPerUnit = 1000.0
	places        = 4
)

// DefaultUma is the 15/5 uma table, 1st to 4th.
var DefaultUma = [places]int{15, 5, -5, -15} //nolint:gochecknoglobals // read-only default table

// Config holds the immutable scoring parameters.
type Config struct {
	// Oka is the winner bonus in raw points. It is added to 1st place only,
	// so a game's ± values sum to sum(Uma) + Oka/1000, not to zero.
	Oka int `json:"oka"`
	// Uma is the place bonus table, 1st to 4th.
	Uma [places]int `json:"uma"`
	// Target is the baseline score subtracted from raw points.
	Target int `json:"target"`
}

// Option applies a configuration option to a Config.
type Option func(*Config)

// WithOka sets the winner bonus.
func WithOka(oka int) Option {
	return func(c *Config) {
		c.Oka = oka
	}
}

// WithUma sets the place bonus table.
func WithUma(uma [places]int) Option {
	return func(c *Config) {
		c.Uma = uma
	}
}

// WithTarget sets the baseline score.
func WithTarget(target int) Option {
	return func(c *Config) {
		c.Target = target
	}
}

// NewConfig returns the default configuration with opts applied.
func NewConfig(opts ...Option) Config {
	c := Config{
		Oka:    DefaultOka,
		Uma:    DefaultUma,
		Target: DefaultTarget,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Validate checks the parameter domains.
func (c Config) Validate() error {
	if c.Oka < 0 {
		return fmt.Errorf("%w: oka must be non-negative, got %d", ErrInvalidConfig, c.Oka)
	}
	return nil
}

// ZeroSum reports whether the uma table sums to zero. Even then a game's ±
// values only sum to zero when Oka is also zero.
func (c Config) ZeroSum() bool {
	sum := 0
	for _, u := range c.Uma {
		sum += u
	}
	return sum == 0
}

// GameTotal is the sum of ± over one game with the given points:
// sum(Uma) + Oka/1000 + (sum(points) - len(points)*Target)/1000.
func (c Config) GameTotal(points []int) float64 {
	sum := 0
	for _, u := range c.Uma {
		sum += u
	}
	diff := 0
	for _, p := range points {
		diff += p - c.Target
	}
	return float64(sum) + float64(c.Oka)/pointsPerUnit + float64(diff)/pointsPerUnit
}

// PlusMinus computes a player's ± under this configuration.
func (c Config) PlusMinus(points, place int) float64 {
	return PlusMinus(points, place, c.Oka, c.Uma, c.Target)
}

// PlusMinus computes (points-target)/1000 + uma[place], plus oka/1000 for
// place 0. place is the 0-based finishing rank and must be in [0, 3].
func PlusMinus(points, place, oka int, uma [places]int, target int) float64 {
	result := float64(points-target)/pointsPerUnit + float64(uma[place])
	if place == 0 {
		result += float64(oka) / pointsPerUnit
	}
	return result
}
