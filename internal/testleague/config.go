// Package testleague generates synthetic riichi leagues and checks a running
// server's leaderboard against a local replay of the same game log.
package testleague

import (
	"time"

	"github.com/okian/riichi/internal/domain/rating"
	"github.com/okian/riichi/internal/domain/scoring"
)

// GenerateConfig controls the synthetic league.
type GenerateConfig struct {
	Games   int       // Number of games to generate
	Players int       // Size of the player pool, at least 4
	Seed    uint64    // Seed of the deterministic generator
	Start   time.Time // Date of the first game
}

// Config holds configuration for the verification run.
type Config struct {
	BaseURL   string         // Base URL of the service
	Source    string         // Local game log (.csv or .xlsx)
	Sheet     string         // XLSX sheet; empty means first
	Timeout   time.Duration  // HTTP request timeout
	Refresh   bool           // Force a server refresh before comparing
	TopN      int            // Number of standings to compare; 0 means all the server serves
	Tolerance float64        // Allowed absolute difference of R, mu, sigma
	Scoring   scoring.Config // Scoring of the local replay
	Prior     rating.Prior   // Prior of the local replay
	Algorithm string         // Rating algorithm of the local replay
}

// Report summarizes a verification run.
type Report struct {
	Games      int
	Local      int
	Served     int
	Compared   int
	Mismatches []Mismatch
	StartTime  time.Time
	Duration   time.Duration
}

// OK reports whether the served leaderboard matched.
func (r Report) OK() bool { return len(r.Mismatches) == 0 }
