// Package trueskill implements the TrueSkill rating update for free-for-all
// games between singleton teams, solved by expectation propagation over the
// TrueSkill factor graph. Draws are not modelled: every game must have a
// strict finishing order.
package trueskill

import (
	"errors"
	"fmt"

	"github.com/okian/riichi/internal/domain/model"
)

// Default environment constants.
const (
	DefaultMu    = 25.0
	DefaultSigma = DefaultMu / 3

	// DefaultMinDelta stops the schedule once no message moves more than this.
	DefaultMinDelta = 0.0001
	// maxSweeps bounds the forward/backward passes over the difference chain.
	maxSweeps = 10
)

// Sentinel kinds for trueskill errors.
var (
	ErrNumerical    = errors.New("trueskill: truncation correction out of range")
	ErrTooFewTeams  = errors.New("trueskill: at least two players required")
	ErrInvalidParam = errors.New("trueskill: invalid parameter")
)

// Env holds the environment constants of the rating system.
type Env struct {
	mu       float64
	sigma    float64
	beta     float64
	tau      float64
	minDelta float64

	betaSet bool
	tauSet  bool
}

// Option applies a configuration option to an Env.
type Option func(*Env)

// WithPrior sets the initial scale. Unless overridden, beta is sigma/2 and
// tau is sigma/100.
func WithPrior(mu, sigma float64) Option {
	return func(e *Env) {
		e.mu = mu
		e.sigma = sigma
	}
}

// WithBeta sets the performance noise.
func WithBeta(beta float64) Option {
	return func(e *Env) {
		e.beta = beta
		e.betaSet = true
	}
}

// WithTau sets the dynamic factor added to every prior before a game.
func WithTau(tau float64) Option {
	return func(e *Env) {
		e.tau = tau
		e.tauSet = true
	}
}

// New returns an Env with opts applied.
func New(opts ...Option) (*Env, error) {
	e := &Env{
		mu:       DefaultMu,
		sigma:    DefaultSigma,
		minDelta: DefaultMinDelta,
	}
	for _, opt := range opts {
		opt(e)
	}
	if !e.betaSet {
		e.beta = e.sigma / 2
	}
	if !e.tauSet {
		e.tau = e.sigma / 100
	}
	if !(e.sigma > 0) || !(e.beta > 0) || e.tau < 0 {
		return nil, fmt.Errorf("%w: sigma=%v beta=%v tau=%v", ErrInvalidParam, e.sigma, e.beta, e.tau)
	}
	return e, nil
}

// Beta returns the performance noise.
func (e *Env) Beta() float64 { return e.beta }

// Tau returns the dynamic factor.
func (e *Env) Tau() float64 { return e.tau }

// Rating returns the environment's default rating.
func (e *Env) Rating() model.Rating {
	return model.Rating{Mu: e.mu, Sigma: e.sigma}
}

// graph is the factor graph for one game. Layers are kept in schedule order.
type graph struct {
	ratingVars []*variable
	priors     []*priorFactor
	perfs      []*likelihoodFactor
	teamPerfs  []*sumFactor
	teamDiffs  []*sumFactor
	truncs     []*truncateFactor
}

func (e *Env) build(ranked []model.Rating) *graph {
	n := len(ranked)
	g := &graph{}
	id := 0
	next := func() int {
		id++
		return id
	}

	perfVars := make([]*variable, n)
	teamPerfVars := make([]*variable, n)
	for i, r := range ranked {
		rv, pv, tv := newVariable(), newVariable(), newVariable()
		g.ratingVars = append(g.ratingVars, rv)
		perfVars[i], teamPerfVars[i] = pv, tv

		g.priors = append(g.priors, &priorFactor{id: next(), v: rv, mu: r.Mu, sigma: r.Sigma, dynamic: e.tau})
		g.perfs = append(g.perfs, &likelihoodFactor{id: next(), mean: rv, value: pv, variance: e.beta * e.beta})
		g.teamPerfs = append(g.teamPerfs, &sumFactor{id: next(), sum: tv, terms: []*variable{pv}, coeffs: []float64{1}})
	}
	for i := 0; i < n-1; i++ {
		dv := newVariable()
		g.teamDiffs = append(g.teamDiffs, &sumFactor{
			id:     next(),
			sum:    dv,
			terms:  []*variable{teamPerfVars[i], teamPerfVars[i+1]},
			coeffs: []float64{1, -1},
		})
		// Draws are not modelled, so the draw margin is zero.
		g.truncs = append(g.truncs, &truncateFactor{id: next(), v: dv})
	}
	return g
}

// Rate updates ratings of players listed in finishing order, winner first.
func (e *Env) Rate(ranked []model.Rating) ([]model.Rating, error) {
	if len(ranked) < 2 {
		return nil, ErrTooFewTeams
	}
	for _, r := range ranked {
		if !(r.Sigma > 0) {
			return nil, fmt.Errorf("%w: sigma=%v", ErrInvalidParam, r.Sigma)
		}
	}

	g := e.build(ranked)
	if err := e.schedule(g); err != nil {
		return nil, err
	}

	out := make([]model.Rating, len(ranked))
	for i, v := range g.ratingVars {
		out[i] = model.Rating{Mu: v.value.mu(), Sigma: v.value.sigma()}
	}
	return out, nil
}

func (e *Env) schedule(g *graph) error {
	for _, f := range g.priors {
		f.down()
	}
	for _, f := range g.perfs {
		f.down()
	}
	for _, f := range g.teamPerfs {
		f.down()
	}

	diffs := len(g.teamDiffs)
	for sweep := 0; sweep < maxSweeps; sweep++ {
		var delta float64
		if diffs == 1 {
			g.teamDiffs[0].down()
			d, err := g.truncs[0].up()
			if err != nil {
				return err
			}
			delta = d
		} else {
			for i := 0; i < diffs-1; i++ {
				g.teamDiffs[i].down()
				d, err := g.truncs[i].up()
				if err != nil {
					return err
				}
				delta = max(delta, d)
				g.teamDiffs[i].up(1)
			}
			for i := diffs - 1; i > 0; i-- {
				g.teamDiffs[i].down()
				d, err := g.truncs[i].up()
				if err != nil {
					return err
				}
				delta = max(delta, d)
				g.teamDiffs[i].up(0)
			}
		}
		if delta <= e.minDelta {
			break
		}
	}

	g.teamDiffs[0].up(0)
	g.teamDiffs[diffs-1].up(1)
	for _, f := range g.teamPerfs {
		f.up(0)
	}
	for _, f := range g.perfs {
		f.up()
	}
	return nil
}
