// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables on top of New().
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Source kinds.
const (
	SourceCSV  = "csv"
	SourceXLSX = "xlsx"
	SourceHTTP = "http"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// RefreshInterval is the period of the background replay. Zero disables it.
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	Source  SourceConfig  `koanf:"source"`
	Scoring ScoringConfig `koanf:"scoring"`
	Rating  RatingConfig  `koanf:"rating"`
	Limits  LimitsConfig  `koanf:"limits"`
}

// SourceConfig describes where the game log is read from.
type SourceConfig struct {
	Kind string `koanf:"kind"`
	// Path is the local file for csv and xlsx sources.
	Path string `koanf:"path"`
	// URL is the CSV export endpoint for http sources.
	URL string `koanf:"url"`
	// Sheet names the XLSX sheet; empty means the first one.
	Sheet    string        `koanf:"sheet"`
	CacheTTL time.Duration `koanf:"cache_ttl"`
	Timeout  time.Duration `koanf:"timeout"`
}

// ScoringConfig mirrors the league scoring rules.
type ScoringConfig struct {
	Oka    int   `koanf:"oka"`
	Uma    []int `koanf:"uma"`
	Target int   `koanf:"target"`
}

// RatingConfig selects the rating algorithm and its first-appearance prior.
type RatingConfig struct {
	Algorithm string  `koanf:"algorithm"`
	InitMu    float64 `koanf:"init_mu"`
	InitSigma float64 `koanf:"init_sigma"`
}

// LimitsConfig throttles the expensive endpoints.
type LimitsConfig struct {
	// RefreshPerMinute bounds POST /refresh and POST /replay. Zero disables throttling.
	RefreshPerMinute int `koanf:"refresh_per_minute"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		MaxLeaderboardLimit: 100,
		RefreshInterval:     5 * time.Minute,
		Source: SourceConfig{
			Kind:     SourceCSV,
			Path:     "games.csv",
			CacheTTL: 5 * time.Minute,
			Timeout:  10 * time.Second,
		},
		Scoring: ScoringConfig{
			Oka:    20000,
			Uma:    []int{15, 5, -5, -15},
			Target: 30000,
		},
		Rating: RatingConfig{
			Algorithm: "trueskill",
			InitMu:    25.0,
			InitSigma: 25.0 / 3.0,
		},
		Limits: LimitsConfig{
			RefreshPerMinute: 30,
		},
	}
}

// Validate checks value domains.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.MaxLeaderboardLimit <= 0 {
		return fmt.Errorf("%w: max_leaderboard_limit must be positive", ErrInvalidConfig)
	}
	if c.RefreshInterval < 0 {
		return fmt.Errorf("%w: refresh_interval must not be negative", ErrInvalidConfig)
	}
	if err := c.Source.validate(); err != nil {
		return err
	}
	if c.Scoring.Oka < 0 {
		return fmt.Errorf("%w: scoring.oka must not be negative", ErrInvalidConfig)
	}
	if len(c.Scoring.Uma) != 4 {
		return fmt.Errorf("%w: scoring.uma needs 4 values, got %d", ErrInvalidConfig, len(c.Scoring.Uma))
	}
	if c.Rating.InitMu <= 0 || c.Rating.InitSigma <= 0 {
		return fmt.Errorf("%w: rating.init_mu and rating.init_sigma must be positive", ErrInvalidConfig)
	}
	if c.Limits.RefreshPerMinute < 0 {
		return fmt.Errorf("%w: limits.refresh_per_minute must not be negative", ErrInvalidConfig)
	}
	return nil
}

func (s SourceConfig) validate() error {
	kinds := []string{SourceCSV, SourceXLSX, SourceHTTP}
	if !slices.Contains(kinds, s.Kind) {
		return fmt.Errorf("%w: source.kind must be one of %s", ErrInvalidConfig, strings.Join(kinds, ", "))
	}
	if s.Kind == SourceHTTP && s.URL == "" {
		return fmt.Errorf("%w: source.url is required for http sources", ErrInvalidConfig)
	}
	if s.Kind != SourceHTTP && s.Path == "" {
		return fmt.Errorf("%w: source.path is required for %s sources", ErrInvalidConfig, s.Kind)
	}
	if s.CacheTTL < 0 || s.Timeout < 0 {
		return fmt.Errorf("%w: source durations must not be negative", ErrInvalidConfig)
	}
	return nil
}

// UmaArray returns the uma as a fixed array. Call after Validate.
func (s ScoringConfig) UmaArray() [4]int {
	var uma [4]int
	copy(uma[:], s.Uma)
	return uma
}
