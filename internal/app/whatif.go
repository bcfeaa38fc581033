package service

import (
	"fmt"

	"github.com/okian/riichi/internal/domain/rating"
	"github.com/okian/riichi/internal/domain/scoring"
)

// Overrides replaces scoring and prior parameters for one what-if replay.
// Nil fields keep the service configuration.
type Overrides struct {
	Oka       *int     `json:"oka,omitempty"`
	Uma       []int    `json:"uma,omitempty"`
	Target    *int     `json:"target,omitempty"`
	InitMu    *float64 `json:"init_mu,omitempty"`
	InitSigma *float64 `json:"init_sigma,omitempty"`
}

type bound struct {
	min, max float64
}

// Allowed what-if ranges, matching the league's settings panel.
var (
	okaBound       = bound{0, 40000}     //nolint:gochecknoglobals // read-only table
	firstUmaBound  = bound{0, 30}        //nolint:gochecknoglobals // read-only table
	otherUmaBound  = bound{-30, 30}      //nolint:gochecknoglobals // read-only table
	targetBound    = bound{25000, 35000} //nolint:gochecknoglobals // read-only table
	initMuBound    = bound{10, 35}       //nolint:gochecknoglobals // read-only table
	initSigmaBound = bound{3, 10}        //nolint:gochecknoglobals // read-only table
)

func (b bound) check(field string, v float64) error {
	if v < b.min || v > b.max {
		return &OverrideError{Field: field, Value: v, Min: b.min, Max: b.max}
	}
	return nil
}

// Validate checks every set field against its allowed range.
func (o Overrides) Validate() error {
	if o.Oka != nil {
		if err := okaBound.check("oka", float64(*o.Oka)); err != nil {
			return err
		}
	}
	if o.Uma != nil {
		if len(o.Uma) != 4 {
			return fmt.Errorf("%w: uma needs 4 values, got %d", ErrInvalidOverride, len(o.Uma))
		}
		for i, u := range o.Uma {
			b := otherUmaBound
			if i == 0 {
				b = firstUmaBound
			}
			if err := b.check(fmt.Sprintf("uma[%d]", i), float64(u)); err != nil {
				return err
			}
		}
	}
	if o.Target != nil {
		if err := targetBound.check("target", float64(*o.Target)); err != nil {
			return err
		}
	}
	if o.InitMu != nil {
		if err := initMuBound.check("init_mu", *o.InitMu); err != nil {
			return err
		}
	}
	if o.InitSigma != nil {
		if err := initSigmaBound.check("init_sigma", *o.InitSigma); err != nil {
			return err
		}
	}
	return nil
}

// apply returns base scoring and prior with the overrides laid on top.
// Call after Validate.
func (o Overrides) apply(cfg scoring.Config, prior rating.Prior) (scoring.Config, rating.Prior) {
	if o.Oka != nil {
		cfg.Oka = *o.Oka
	}
	if o.Uma != nil {
		copy(cfg.Uma[:], o.Uma)
	}
	if o.Target != nil {
		cfg.Target = *o.Target
	}
	if o.InitMu != nil {
		prior.Mu = *o.InitMu
	}
	if o.InitSigma != nil {
		prior.Sigma = *o.InitSigma
	}
	return cfg, prior
}
