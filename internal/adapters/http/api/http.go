// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/okian/riichi/internal/adapters/repository"
	"github.com/okian/riichi/internal/adapters/source"
	service "github.com/okian/riichi/internal/app"
	"github.com/okian/riichi/internal/domain/model"
	"github.com/okian/riichi/internal/domain/normalize"
	"github.com/okian/riichi/internal/domain/rating"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	LeaderboardDependencies
	RankDependencies
	PlayerDependencies
	ReplayDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	leaderboardHandler *LeaderboardHandler
	rankHandler        *RankHandler
	playerHandler      *PlayerHandler
	replayHandler      *ReplayHandler
	refreshPerMinute   int
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithRefreshPerMinute throttles POST /refresh and POST /replay. Zero
// disables throttling.
func WithRefreshPerMinute(n int) Option {
	return func(s *Server) {
		if n >= 0 {
			s.refreshPerMinute = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int, opts ...Option) *Server {
	s := &Server{
		healthHandler:      NewHealthHandler(deps),
		statsHandler:       NewStatsHandler(statsProvider),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLimit),
		rankHandler:        NewRankHandler(deps),
		playerHandler:      NewPlayerHandler(deps),
		replayHandler:      NewReplayHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Use(MetricsMiddleware)

	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Method(http.MethodGet, "/metrics", s.healthHandler.MetricsHandler())
	r.Get("/stats", s.statsHandler.HandleStats)
	r.Get("/leaderboard", s.leaderboardHandler.HandleGetLeaderboard)
	r.Get("/rank/{player}", s.rankHandler.HandleGetRank)
	r.Get("/history", s.playerHandler.HandleGetHistory)
	r.Get("/players/{player}/history", s.playerHandler.HandleGetPlayerHistory)
	r.Get("/players/{player}/chart.png", s.playerHandler.HandleGetChart)

	r.Group(func(r chi.Router) {
		if s.refreshPerMinute > 0 {
			r.Use(Throttle(s.refreshPerMinute))
		}
		r.Post("/refresh", s.replayHandler.HandleRefresh)
	})
	r.Group(func(r chi.Router) {
		if s.refreshPerMinute > 0 {
			r.Use(Throttle(s.refreshPerMinute))
		}
		r.Post("/replay", s.replayHandler.HandleWhatIf)
	})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates upstream error kinds to status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, repository.ErrNotReady):
		return http.StatusServiceUnavailable, "not_ready"
	case errors.Is(err, repository.ErrInvalidLimit),
		errors.Is(err, ErrBadRequest),
		errors.Is(err, service.ErrInvalidOverride):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, normalize.ErrMalformedInput):
		return http.StatusUnprocessableEntity, "malformed_input"
	case errors.Is(err, rating.ErrIncompleteGame):
		return http.StatusUnprocessableEntity, "incomplete_game"
	case errors.Is(err, source.ErrFetch):
		return http.StatusBadGateway, "source_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// playerParam returns the unescaped {player} path segment.
func playerParam(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "player")
	player, err := url.PathUnescape(raw)
	if err != nil || player == "" {
		return "", ErrBadRequest
	}
	return player, nil
}

// PlayerDependencies defines the per-player and history reads.
type PlayerDependencies interface {
	PlayerLog(ctx context.Context, player string) ([]model.Snapshot, error)
	History(ctx context.Context) ([]model.Snapshot, repository.RunInfo, error)
	Chart(ctx context.Context, w io.Writer, player string) error
}
