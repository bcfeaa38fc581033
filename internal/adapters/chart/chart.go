// Package chart renders a player's rating history as a PNG line chart.
package chart

import (
	"fmt"
	"io"

	"github.com/okian/riichi/internal/domain/model"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	defaultWidth  = 800
	defaultHeight = 300
	noDataMessage = "No games played"
)

// Option applies a configuration option to a Renderer.
type Option func(*Renderer)

// WithSize sets the image size in pixels.
func WithSize(width, height int) Option {
	return func(r *Renderer) {
		if width > 0 && height > 0 {
			r.width, r.height = width, height
		}
	}
}

// Renderer draws R against GameID.
type Renderer struct {
	width  int
	height int
}

// New constructs a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{width: defaultWidth, height: defaultHeight}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render writes the PNG for player's log. An empty log renders a
// placeholder image instead of failing.
func (r *Renderer) Render(w io.Writer, player string, log []model.Snapshot) error {
	if len(log) == 0 {
		return r.placeholder(w)
	}

	xs := make([]float64, len(log))
	ys := make([]float64, len(log))
	for i, s := range log {
		xs[i] = float64(s.GameID)
		ys[i] = s.R
	}

	graph := gochart.Chart{
		Title:  fmt.Sprintf("%s rating history", player),
		Width:  r.width,
		Height: r.height,
		XAxis: gochart.XAxis{
			Name:           "Game",
			ValueFormatter: gochart.IntValueFormatter,
			Range:          paddedRange(xs, 1),
		},
		YAxis: gochart.YAxis{
			Name:  "R",
			Range: paddedRange(ys, 1),
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    player,
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeColor: drawing.ColorFromHex("1f77b4"),
					StrokeWidth: 2,
					DotWidth:    3,
					DotColor:    drawing.ColorFromHex("1f77b4"),
				},
			},
		},
	}
	if err := graph.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// paddedRange returns an explicit range when every value is equal; the
// renderer rejects a zero-width range.
func paddedRange(values []float64, pad float64) gochart.Range {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if lo != hi {
		return nil
	}
	return &gochart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func (r *Renderer) placeholder(w io.Writer) error {
	const width, height = 400, 200

	font, err := gochart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("load font: %w", err)
	}
	canvas, err := gochart.PNG(width, height)
	if err != nil {
		return fmt.Errorf("create canvas: %w", err)
	}

	canvas.SetFillColor(drawing.ColorWhite)
	canvas.MoveTo(0, 0)
	canvas.LineTo(width, 0)
	canvas.LineTo(width, height)
	canvas.LineTo(0, height)
	canvas.Close()
	canvas.Fill()

	canvas.SetFont(font)
	canvas.SetFontColor(drawing.ColorBlack)
	canvas.SetFontSize(12.0)
	tb := canvas.MeasureText(noDataMessage)
	canvas.Text(noDataMessage, (width-tb.Width())/2, (height+tb.Height())/2)

	if err := canvas.Save(w); err != nil {
		return fmt.Errorf("encode placeholder: %w", err)
	}
	return nil
}
