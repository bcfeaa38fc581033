// Package rating keeps per-player skill estimates and advances them one game
// at a time through a pluggable rating algorithm.
package rating

import (
	"fmt"
	"math"
	"sort"

	"github.com/okian/riichi/internal/domain/model"
)

// Default prior, matching the conventional TrueSkill scale.
const (
	DefaultMu    = 25.0
	DefaultSigma = DefaultMu / 3

	// Participants is the number of players in every rated game.
	Participants = model.SeatCount
)

// Rater updates ratings from one finished game. ranked is ordered by
// finishing place, index 0 being the winner, with no ties. The result is in
// the same order.
type Rater interface {
	Rate(ranked []model.Rating) ([]model.Rating, error)
}

// RaterFunc adapts a function to the Rater interface.
type RaterFunc func(ranked []model.Rating) ([]model.Rating, error)

// Rate calls f.
func (f RaterFunc) Rate(ranked []model.Rating) ([]model.Rating, error) { return f(ranked) }

// Prior is the rating assigned to a player on first appearance. It also
// seeds the scale of the rating algorithm.
type Prior struct {
	Mu    float64 `json:"init_mu"`
	Sigma float64 `json:"init_sigma"`
}

// DefaultPrior returns (25, 25/3).
func DefaultPrior() Prior {
	return Prior{Mu: DefaultMu, Sigma: DefaultSigma}
}

// Validate checks that both parameters are finite and positive.
func (p Prior) Validate() error {
	if !(p.Mu > 0) || math.IsInf(p.Mu, 0) {
		return fmt.Errorf("%w: init_mu must be positive, got %v", ErrInvalidPrior, p.Mu)
	}
	if !(p.Sigma > 0) || math.IsInf(p.Sigma, 0) {
		return fmt.Errorf("%w: init_sigma must be positive, got %v", ErrInvalidPrior, p.Sigma)
	}
	return nil
}

// Rating returns the prior as a Rating.
func (p Prior) Rating() model.Rating {
	return model.Rating{Mu: p.Mu, Sigma: p.Sigma}
}

// State maps player identity to the current rating. A player has no entry
// until their first rated game.
type State struct {
	ratings map[string]model.Rating
}

// NewState returns an empty State.
func NewState() *State {
	return &State{ratings: make(map[string]model.Rating)}
}

// Get returns the player's rating and whether one exists.
func (s *State) Get(player string) (model.Rating, bool) {
	r, ok := s.ratings[player]
	return r, ok
}

// Len returns the number of rated players.
func (s *State) Len() int {
	return len(s.ratings)
}

// Players returns rated player names in ascending order.
func (s *State) Players() []string {
	out := make([]string, 0, len(s.ratings))
	for p := range s.ratings {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func (s *State) set(player string, r model.Rating) {
	s.ratings[player] = r
}

// Update is the outcome of one game for the four participants, in finishing
// order.
type Update struct {
	Players []string
	Before  []model.Rating
	After   []model.Rating
}

// Engine owns a State for the length of one replay. It is not safe for
// concurrent use: game N must be applied to the state left by game N-1.
type Engine struct {
	rater Rater
	prior Prior
	state *State
}

// NewEngine returns an Engine with an empty State.
func NewEngine(rater Rater, prior Prior) (*Engine, error) {
	if rater == nil {
		return nil, ErrNilRater
	}
	if err := prior.Validate(); err != nil {
		return nil, err
	}
	return &Engine{rater: rater, prior: prior, state: NewState()}, nil
}

// State exposes the engine's state for reads.
func (e *Engine) State() *State {
	return e.state
}

// Prior returns the first-appearance rating.
func (e *Engine) Prior() Prior {
	return e.prior
}

// Current returns the player's rating, or the prior if they have not
// played yet. It never inserts.
func (e *Engine) Current(player string) model.Rating {
	if r, ok := e.state.Get(player); ok {
		return r
	}
	return e.prior.Rating()
}

// Apply rates one game. players must be in finishing order (winner first)
// and contain four distinct names. On success all four ratings are written
// back; on error the state is left untouched.
func (e *Engine) Apply(gameID int, players []string) (Update, error) {
	if err := checkParticipants(gameID, players); err != nil {
		return Update{}, err
	}

	before := make([]model.Rating, len(players))
	for i, p := range players {
		before[i] = e.Current(p)
	}

	after, err := e.rater.Rate(before)
	if err != nil {
		return Update{}, fmt.Errorf("rating: game %d: %w", gameID, err)
	}
	if len(after) != len(before) {
		return Update{}, fmt.Errorf("%w: game %d: got %d, want %d", ErrRaterMismatch, gameID, len(after), len(before))
	}

	for i, p := range players {
		e.state.set(p, after[i])
	}

	return Update{
		Players: append([]string(nil), players...),
		Before:  before,
		After:   after,
	}, nil
}

func checkParticipants(gameID int, players []string) error {
	if len(players) != Participants {
		return &IncompleteGameError{
			GameID:  gameID,
			Players: players,
			Reason:  fmt.Sprintf("expected %d participants, got %d", Participants, len(players)),
		}
	}
	seen := make(map[string]struct{}, len(players))
	for _, p := range players {
		if p == "" {
			return &IncompleteGameError{GameID: gameID, Players: players, Reason: "empty player name"}
		}
		if _, dup := seen[p]; dup {
			return &IncompleteGameError{GameID: gameID, Players: players, Reason: "duplicate player " + p}
		}
		seen[p] = struct{}{}
	}
	return nil
}
