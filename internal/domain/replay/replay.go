// Package replay recomputes every player's rating and ± by replaying the
// game log in GameID order.
package replay

import (
	"fmt"
	"sort"

	"github.com/okian/riichi/internal/domain/model"
	"github.com/okian/riichi/internal/domain/rating"
	"github.com/okian/riichi/internal/domain/scoring"
)

// Option applies a configuration option to a Replayer.
type Option func(*Replayer)

// WithScoring sets the scoring parameters.
func WithScoring(cfg scoring.Config) Option {
	return func(r *Replayer) {
		r.scoring = cfg
	}
}

// WithPrior sets the first-appearance rating.
func WithPrior(p rating.Prior) Option {
	return func(r *Replayer) {
		r.prior = p
	}
}

// WithRater sets the rating algorithm. Without it, the algorithm named by
// WithAlgorithm is built from the prior.
func WithRater(rt rating.Rater) Option {
	return func(r *Replayer) {
		if rt != nil {
			r.rater = rt
		}
	}
}

// WithAlgorithm selects a built-in rating algorithm by name.
func WithAlgorithm(name string) Option {
	return func(r *Replayer) {
		r.algorithm = name
	}
}

// Replayer holds the immutable configuration of a replay. Each call to Run
// starts from an empty rating state.
type Replayer struct {
	scoring   scoring.Config
	prior     rating.Prior
	algorithm string
	rater     rating.Rater
}

// New constructs a Replayer with default scoring and prior.
func New(opts ...Option) (*Replayer, error) {
	r := &Replayer{
		scoring:   scoring.NewConfig(),
		prior:     rating.DefaultPrior(),
		algorithm: rating.AlgorithmTrueSkill,
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.scoring.Validate(); err != nil {
		return nil, err
	}
	if err := r.prior.Validate(); err != nil {
		return nil, err
	}
	if r.rater == nil {
		rt, err := rating.NewRater(r.algorithm, r.prior)
		if err != nil {
			return nil, err
		}
		r.rater = rt
	}
	return r, nil
}

// Scoring returns the scoring configuration.
func (r *Replayer) Scoring() scoring.Config { return r.scoring }

// Prior returns the first-appearance rating.
func (r *Replayer) Prior() rating.Prior { return r.prior }

// Result is the outcome of a full replay.
type Result struct {
	History []model.Snapshot
	Games   int
	Players int
}

// Run replays entries. Entries are grouped by GameID and groups are visited
// in ascending GameID order; within a group the input order is the seat
// order used to break ties on equal points. Any error aborts the replay.
func (r *Replayer) Run(entries []model.PlayerGameEntry) (Result, error) {
	engine, err := rating.NewEngine(r.rater, r.prior)
	if err != nil {
		return Result{}, err
	}

	games := group(entries)
	history := make([]model.Snapshot, 0, len(entries))
	for _, game := range games {
		snaps, err := r.play(engine, game)
		if err != nil {
			return Result{}, err
		}
		history = append(history, snaps...)
	}

	return Result{
		History: history,
		Games:   len(games),
		Players: engine.State().Len(),
	}, nil
}

type game struct {
	id      int
	entries []model.PlayerGameEntry
}

// group collects entries by GameID, preserving input order inside a game.
func group(entries []model.PlayerGameEntry) []game {
	index := make(map[int]int)
	var games []game
	for _, e := range entries {
		i, ok := index[e.GameID]
		if !ok {
			i = len(games)
			index[e.GameID] = i
			games = append(games, game{id: e.GameID})
		}
		games[i].entries = append(games[i].entries, e)
	}
	sort.SliceStable(games, func(a, b int) bool { return games[a].id < games[b].id })
	return games
}

func (r *Replayer) play(engine *rating.Engine, g game) ([]model.Snapshot, error) {
	if len(g.entries) != rating.Participants {
		players := make([]string, len(g.entries))
		for i, e := range g.entries {
			players[i] = e.Player
		}
		return nil, &rating.IncompleteGameError{
			GameID:  g.id,
			Players: players,
			Reason:  fmt.Sprintf("expected %d entries, got %d", rating.Participants, len(g.entries)),
		}
	}

	points := make([]int, len(g.entries))
	for i, e := range g.entries {
		points[i] = e.Points
	}
	order := scoring.FinishOrder(points)

	ranked := make([]model.PlayerGameEntry, len(order))
	players := make([]string, len(order))
	for place, i := range order {
		ranked[place] = g.entries[i]
		players[place] = g.entries[i].Player
	}

	up, err := engine.Apply(g.id, players)
	if err != nil {
		return nil, err
	}

	date := g.entries[0].Date
	out := make([]model.Snapshot, len(ranked))
	for place, e := range ranked {
		after := up.After[place]
		out[place] = model.Snapshot{
			GameID:      g.id,
			Date:        date,
			Player:      e.Player,
			Seat:        e.Seat.String(),
			Points:      e.Points,
			Place:       place,
			Mu:          after.Mu,
			Sigma:       after.Sigma,
			R:           after.Conservative(),
			MuBefore:    up.Before[place].Mu,
			SigmaBefore: up.Before[place].Sigma,
			PlusMinus:   r.scoring.PlusMinus(e.Points, place),
		}
	}
	return out, nil
}
