// Package site renders the league page: leaderboard, rating chart, game log
// and a what-if settings form.
package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/okian/riichi/internal/adapters/repository"
	service "github.com/okian/riichi/internal/app"
	"github.com/okian/riichi/internal/domain/model"
	"github.com/okian/riichi/internal/domain/rating"
	"github.com/okian/riichi/internal/domain/scoring"
)

// Error constants
var (
	ErrTemplate = errors.New("league page template failed")
	ErrForm     = errors.New("invalid settings form")
)

// Dependencies are the service reads behind the page.
type Dependencies interface {
	TopN(ctx context.Context, n int) ([]model.Standing, error)
	PlayerLog(ctx context.Context, player string) ([]model.Snapshot, error)
	WhatIf(ctx context.Context, o service.Overrides) (service.WhatIf, error)
	Settings() (scoring.Config, rating.Prior)
}

// Register attaches the league page to r at GET /.
func Register(_ context.Context, r chi.Router, deps Dependencies, limit int) error {
	if r == nil {
		panic("router is nil")
	}
	h, err := NewRootHandler(deps, limit)
	if err != nil {
		return err
	}
	r.Get("/", h.HandleRoot)
	return nil
}

// RootHandler handles root path requests.
type RootHandler struct {
	deps  Dependencies
	tmpl  *template.Template
	limit int
}

// NewRootHandler creates a new root handler.
func NewRootHandler(deps Dependencies, limit int) (*RootHandler, error) {
	t, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	return &RootHandler{deps: deps, tmpl: t, limit: limit}, nil
}

type settingsForm struct {
	Oka       int
	Uma       [4]int
	Target    int
	InitMu    float64
	InitSigma float64
}

type page struct {
	Form      settingsForm
	Standings []model.Standing
	Player    string
	Log       []model.Snapshot
	WhatIf    bool
	Notice    string
}

// HandleRoot handles GET / requests. Settings in the query run a what-if
// replay; the player's chart and game log always come from the published
// replay.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	cfg, prior := h.deps.Settings()
	p := page{Form: settingsForm{
		Oka:       cfg.Oka,
		Uma:       cfg.Uma,
		Target:    cfg.Target,
		InitMu:    prior.Mu,
		InitSigma: prior.Sigma,
	}}

	o, custom, err := p.Form.merge(q)
	if err != nil {
		h.render(w, http.StatusBadRequest, p, err.Error())
		return
	}

	if custom {
		var res service.WhatIf
		res, err = h.deps.WhatIf(ctx, o)
		p.Standings, p.WhatIf = res.Standings, true
	} else {
		p.Standings, err = h.deps.TopN(ctx, h.limit)
	}
	if err != nil {
		status, notice := describe(err)
		h.render(w, status, p, notice)
		return
	}
	if len(p.Standings) > h.limit {
		p.Standings = p.Standings[:h.limit]
	}

	p.Player = q.Get("player")
	if p.Player == "" && len(p.Standings) > 0 {
		p.Player = p.Standings[0].Player
	}
	if p.Player != "" {
		p.Log, err = h.deps.PlayerLog(ctx, p.Player)
		if err != nil {
			status, notice := describe(err)
			p.Player = ""
			h.render(w, status, p, notice)
			return
		}
	}
	h.render(w, http.StatusOK, p, "")
}

func (h *RootHandler) render(w http.ResponseWriter, status int, p page, notice string) {
	p.Notice = notice
	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, p); err != nil {
		http.Error(w, fmt.Sprintf("%v: %v", ErrTemplate, err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func describe(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrNotReady):
		return http.StatusServiceUnavailable, "No replay has been published yet."
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "Unknown player."
	case errors.Is(err, service.ErrInvalidOverride):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "Replay failed: " + err.Error()
	}
}

// merge overlays query settings on the form. custom reports whether any
// setting differs from the published configuration.
func (f *settingsForm) merge(q url.Values) (service.Overrides, bool, error) {
	var o service.Overrides
	custom := false

	if v, ok, err := intParam(q, "oka"); err != nil {
		return o, false, err
	} else if ok && v != f.Oka {
		f.Oka, o.Oka, custom = v, &v, true
	}
	if v, ok, err := intParam(q, "target"); err != nil {
		return o, false, err
	} else if ok && v != f.Target {
		f.Target, o.Target, custom = v, &v, true
	}

	umaChanged := false
	for i := range f.Uma {
		v, ok, err := intParam(q, "uma"+strconv.Itoa(i+1))
		if err != nil {
			return o, false, err
		}
		if ok && v != f.Uma[i] {
			f.Uma[i], umaChanged = v, true
		}
	}
	if umaChanged {
		o.Uma, custom = f.Uma[:], true
	}

	if v, ok, err := floatParam(q, "init_mu"); err != nil {
		return o, false, err
	} else if ok && v != f.InitMu {
		f.InitMu, o.InitMu, custom = v, &v, true
	}
	if v, ok, err := floatParam(q, "init_sigma"); err != nil {
		return o, false, err
	} else if ok && v != f.InitSigma {
		f.InitSigma, o.InitSigma, custom = v, &v, true
	}
	return o, custom, nil
}

func intParam(q url.Values, name string) (int, bool, error) {
	s := q.Get(name)
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %s must be an integer", ErrForm, name)
	}
	return v, true, nil
}

func floatParam(q url.Values, name string) (float64, bool, error) {
	s := q.Get(name)
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %s must be a number", ErrForm, name)
	}
	return v, true, nil
}
