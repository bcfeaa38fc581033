package trueskill

import "math"

// gaussian is a normal distribution in natural parameters: precision pi and
// precision-adjusted mean tau. Products and quotients of gaussians are sums
// and differences of these parameters, which is what message passing needs.
type gaussian struct {
	pi  float64
	tau float64
}

func fromMoments(mu, sigma float64) gaussian {
	pi := 1 / (sigma * sigma)
	return gaussian{pi: pi, tau: pi * mu}
}

func (g gaussian) mu() float64 {
	if g.pi == 0 {
		return 0
	}
	return g.tau / g.pi
}

func (g gaussian) sigma() float64 {
	if g.pi == 0 {
		return math.Inf(1)
	}
	return math.Sqrt(1 / g.pi)
}

func (g gaussian) mul(o gaussian) gaussian {
	return gaussian{pi: g.pi + o.pi, tau: g.tau + o.tau}
}

func (g gaussian) div(o gaussian) gaussian {
	return gaussian{pi: g.pi - o.pi, tau: g.tau - o.tau}
}

var invSqrt2Pi = 1 / math.Sqrt(2*math.Pi) //nolint:gochecknoglobals // constant

func pdf(x float64) float64 {
	return invSqrt2Pi * math.Exp(-x*x/2)
}

func cdf(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

// vWin is the additive mean correction for a truncated win outcome.
func vWin(diff, drawMargin float64) float64 {
	x := diff - drawMargin
	denom := cdf(x)
	if denom == 0 {
		return -x
	}
	return pdf(x) / denom
}

// wWin is the multiplicative variance correction for a truncated win
// outcome. It must lie in (0, 1).
func wWin(diff, drawMargin float64) (float64, error) {
	x := diff - drawMargin
	v := vWin(diff, drawMargin)
	w := v * (v + x)
	if w > 0 && w < 1 {
		return w, nil
	}
	return 0, ErrNumerical
}
