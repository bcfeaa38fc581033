package trueskill

import (
	"math"
)

// variable holds a marginal and the last message received from each
// neighbouring factor.
type variable struct {
	value    gaussian
	messages map[int]gaussian
}

func newVariable() *variable {
	return &variable{messages: make(map[int]gaussian)}
}

func (v *variable) set(val gaussian) float64 {
	d := v.delta(val)
	v.value = val
	return d
}

func (v *variable) delta(o gaussian) float64 {
	piDelta := math.Abs(v.value.pi - o.pi)
	if math.IsInf(piDelta, 0) {
		return 0
	}
	return math.Max(math.Abs(v.value.tau-o.tau), math.Sqrt(piDelta))
}

// updateMessage replaces the message from factor id and folds the change
// into the marginal.
func (v *variable) updateMessage(id int, msg gaussian) float64 {
	old := v.messages[id]
	v.messages[id] = msg
	return v.set(v.value.div(old).mul(msg))
}

// updateValue sets the marginal directly and back-computes the message from
// factor id that explains it.
func (v *variable) updateValue(id int, val gaussian) float64 {
	old := v.messages[id]
	v.messages[id] = val.mul(old).div(v.value)
	return v.set(val)
}

// cavity is the marginal with factor id's own contribution removed.
func (v *variable) cavity(id int) gaussian {
	return v.value.div(v.messages[id])
}

type priorFactor struct {
	id      int
	v       *variable
	mu      float64
	sigma   float64
	dynamic float64
}

func (f *priorFactor) down() float64 {
	sigma := math.Sqrt(f.sigma*f.sigma + f.dynamic*f.dynamic)
	return f.v.updateValue(f.id, fromMoments(f.mu, sigma))
}

type likelihoodFactor struct {
	id       int
	mean     *variable
	value    *variable
	variance float64
}

func (f *likelihoodFactor) a(g gaussian) float64 {
	return 1 / (1 + f.variance*g.pi)
}

func (f *likelihoodFactor) down() float64 {
	msg := f.mean.cavity(f.id)
	a := f.a(msg)
	return f.value.updateMessage(f.id, gaussian{pi: a * msg.pi, tau: a * msg.tau})
}

func (f *likelihoodFactor) up() float64 {
	msg := f.value.cavity(f.id)
	a := f.a(msg)
	return f.mean.updateMessage(f.id, gaussian{pi: a * msg.pi, tau: a * msg.tau})
}

// sumFactor constrains sum = Σ coeffs[i]*terms[i].
type sumFactor struct {
	id     int
	sum    *variable
	terms  []*variable
	coeffs []float64
}

func (f *sumFactor) down() float64 {
	return f.update(f.sum, f.terms, f.coeffs)
}

// up sends a message to terms[index] by solving the constraint for it.
func (f *sumFactor) up(index int) float64 {
	coeff := f.coeffs[index]
	coeffs := make([]float64, len(f.coeffs))
	for i, c := range f.coeffs {
		switch {
		case coeff == 0:
			coeffs[i] = 0
		case i == index:
			coeffs[i] = 1 / coeff
		default:
			coeffs[i] = -c / coeff
		}
	}
	vals := make([]*variable, len(f.terms))
	copy(vals, f.terms)
	vals[index] = f.sum
	return f.update(f.terms[index], vals, coeffs)
}

func (f *sumFactor) update(target *variable, vals []*variable, coeffs []float64) float64 {
	piInv, mu := 0.0, 0.0
	for i, val := range vals {
		div := val.cavity(f.id)
		mu += coeffs[i] * div.mu()
		if math.IsInf(piInv, 1) {
			continue
		}
		if div.pi == 0 {
			piInv = math.Inf(1)
			continue
		}
		piInv += coeffs[i] * coeffs[i] / div.pi
	}
	pi := 1 / piInv
	return target.updateMessage(f.id, gaussian{pi: pi, tau: pi * mu})
}

// truncateFactor applies the win observation to a team-difference variable.
type truncateFactor struct {
	id         int
	v          *variable
	drawMargin float64
}

func (f *truncateFactor) up() (float64, error) {
	div := f.v.cavity(f.id)
	sqrtPi := math.Sqrt(div.pi)
	diff, margin := div.tau/sqrtPi, f.drawMargin*sqrtPi
	v := vWin(diff, margin)
	w, err := wWin(diff, margin)
	if err != nil {
		return 0, err
	}
	denom := 1 - w
	return f.v.updateValue(f.id, gaussian{
		pi:  div.pi / denom,
		tau: (div.tau + sqrtPi*v) / denom,
	}), nil
}
