// Package repository holds the published replay served by the read API.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/okian/riichi/internal/domain/model"
)

// Replay is the immutable output of one full replay of the game log.
type Replay struct {
	RunID     uuid.UUID
	Generated time.Time
	Algorithm string
	Games     int
	History   []model.Snapshot
	Standings []model.Standing
}

// RunInfo summarises a published replay.
type RunInfo struct {
	RunID     uuid.UUID `json:"run_id"`
	Generated time.Time `json:"generated"`
	Algorithm string    `json:"algorithm"`
	Games     int       `json:"games"`
	Players   int       `json:"players"`
}

// Info returns the run summary of r.
func (r *Replay) Info() RunInfo {
	return RunInfo{
		RunID:     r.RunID,
		Generated: r.Generated,
		Algorithm: r.Algorithm,
		Games:     r.Games,
		Players:   len(r.Standings),
	}
}

// Store serves reads from the latest published replay.
type Store interface {
	// Publish replaces the served replay. Readers see either the old or the
	// new replay, never a mix.
	Publish(ctx context.Context, r *Replay) error

	// Current returns the served replay or ErrNotReady.
	Current(ctx context.Context) (*Replay, error)

	// TopN returns the first n standings ordered by R desc.
	TopN(ctx context.Context, n int) ([]model.Standing, error)

	// Rank returns the standing of player. Returns ErrNotFound if the player
	// has not played.
	Rank(ctx context.Context, player string) (model.Standing, error)

	// History returns the player's snapshots in GameID order.
	History(ctx context.Context, player string) ([]model.Snapshot, error)

	// Count returns the number of rated players.
	Count(ctx context.Context) int

	// Runs returns summaries of recently published replays, newest first.
	Runs(ctx context.Context) []RunInfo
}
