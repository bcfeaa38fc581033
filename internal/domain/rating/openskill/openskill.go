// Package openskill rates games with the Weng-Lin (OpenSkill) Bayesian
// approximation, backed by github.com/intinig/go-openskill.
package openskill

import (
	"errors"
	"fmt"

	"github.com/intinig/go-openskill/rating"
	"github.com/intinig/go-openskill/types"

	"github.com/okian/riichi/internal/domain/model"
)

// ErrTooFewTeams is returned for games with fewer than two players.
var ErrTooFewTeams = errors.New("openskill: at least two players required")

// Rater rates each player as a singleton team, in finishing order. The
// model's scale (beta = sigma/2) follows the prior it was built with; the
// engine still supplies the first-appearance rating itself.
type Rater struct {
	options *types.OpenSkillOptions
}

// New returns a Rater whose model constants derive from the prior mu and
// sigma.
func New(mu, sigma float64) *Rater {
	return &Rater{options: &types.OpenSkillOptions{Mu: &mu, Sigma: &sigma}}
}

// Rate updates ratings of players listed in finishing order, winner first.
func (r *Rater) Rate(ranked []model.Rating) ([]model.Rating, error) {
	if len(ranked) < 2 {
		return nil, ErrTooFewTeams
	}
	teams := make([]types.Team, len(ranked))
	for i, in := range ranked {
		teams[i] = types.Team{types.Rating{Mu: in.Mu, Sigma: in.Sigma}}
	}

	rated := rating.Rate(teams, r.options)
	if len(rated) != len(ranked) {
		return nil, fmt.Errorf("openskill: got %d teams back, want %d", len(rated), len(ranked))
	}

	out := make([]model.Rating, len(rated))
	for i, team := range rated {
		if len(team) != 1 {
			return nil, fmt.Errorf("openskill: team %d has %d members, want 1", i, len(team))
		}
		out[i] = model.Rating{Mu: team[0].Mu, Sigma: team[0].Sigma}
	}
	return out, nil
}
