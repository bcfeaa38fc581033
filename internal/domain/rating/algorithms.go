package rating

import (
	"errors"
	"fmt"
	"strings"

	"github.com/okian/riichi/internal/domain/rating/openskill"
	"github.com/okian/riichi/internal/domain/rating/trueskill"
)

// Supported rating algorithms.
const (
	AlgorithmTrueSkill = "trueskill"
	AlgorithmOpenSkill = "openskill"
)

// ErrUnknownAlgorithm is returned by NewRater for unsupported names.
var ErrUnknownAlgorithm = errors.New("unknown rating algorithm")

// NewRater builds the named algorithm, scaled to prior where the algorithm
// supports it. An empty name selects TrueSkill.
func NewRater(algorithm string, prior Prior) (Rater, error) {
	if err := prior.Validate(); err != nil {
		return nil, err
	}
	switch strings.ToLower(strings.TrimSpace(algorithm)) {
	case "", AlgorithmTrueSkill:
		env, err := trueskill.New(trueskill.WithPrior(prior.Mu, prior.Sigma))
		if err != nil {
			return nil, err
		}
		return env, nil
	case AlgorithmOpenSkill:
		return openskill.New(prior.Mu, prior.Sigma), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}
}
