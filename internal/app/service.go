// Package service runs the rating pipeline: it loads the game log, replays
// it, publishes the result and answers the read queries of the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/riichi/internal/adapters/chart"
	"github.com/okian/riichi/internal/adapters/repository"
	"github.com/okian/riichi/internal/adapters/source"
	"github.com/okian/riichi/internal/domain/leaderboard"
	"github.com/okian/riichi/internal/domain/model"
	"github.com/okian/riichi/internal/domain/normalize"
	"github.com/okian/riichi/internal/domain/rating"
	"github.com/okian/riichi/internal/domain/replay"
	"github.com/okian/riichi/internal/domain/scoring"
	"github.com/okian/riichi/pkg/logger"
	"github.com/okian/riichi/pkg/metrics"
)

// Service implements the API dependencies for the league.
type Service struct {
	// refreshMu serialises full replays.
	refreshMu sync.Mutex
	mu        sync.RWMutex

	// Core components
	source   source.Loader
	store    repository.Store
	chart    *chart.Renderer
	replayer *replay.Replayer

	// Configuration
	scoring         scoring.Config
	prior           rating.Prior
	algorithm       string
	refreshInterval time.Duration
	now             func() time.Time

	// State
	started     bool
	stopCh      chan struct{}
	wg          sync.WaitGroup
	lastRefresh time.Time
	lastErr     error

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets the game log loader.
func WithSource(l source.Loader) Option {
	return func(s *Service) {
		if l != nil {
			s.source = l
		}
	}
}

// WithStore sets the store that serves published replays.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithChart sets the rating chart renderer.
func WithChart(r *chart.Renderer) Option {
	return func(s *Service) {
		if r != nil {
			s.chart = r
		}
	}
}

// WithScoring sets the league scoring rules.
func WithScoring(cfg scoring.Config) Option {
	return func(s *Service) {
		s.scoring = cfg
	}
}

// WithPrior sets the first-appearance rating.
func WithPrior(p rating.Prior) Option {
	return func(s *Service) {
		s.prior = p
	}
}

// WithAlgorithm selects the rating algorithm by name.
func WithAlgorithm(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.algorithm = name
		}
	}
}

// WithRefreshInterval sets the background replay period. Zero disables it.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.refreshInterval = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. A source and a store are required.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		chart:           chart.New(),
		scoring:         scoring.NewConfig(),
		prior:           rating.DefaultPrior(),
		algorithm:       rating.AlgorithmTrueSkill,
		refreshInterval: 5 * time.Minute,
		now:             time.Now,
		stopCh:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.source == nil {
		return nil, ErrNoSource
	}
	if s.store == nil {
		return nil, ErrNoStore
	}
	r, err := s.newReplayer(s.scoring, s.prior)
	if err != nil {
		return nil, err
	}
	s.replayer = r
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s, nil
}

func (s *Service) newReplayer(cfg scoring.Config, prior rating.Prior) (*replay.Replayer, error) {
	return replay.New(
		replay.WithScoring(cfg),
		replay.WithPrior(prior),
		replay.WithAlgorithm(s.algorithm),
	)
}

// Start publishes an initial replay and starts the background refresher.
// A failed initial replay is logged; reads report not-ready until a later
// refresh succeeds.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	s.mu.Unlock()

	s.logger.Info(ctx, "starting rating service",
		logger.String("algorithm", s.algorithm),
		logger.Duration("refresh_interval", s.refreshInterval),
	)

	if _, err := s.Refresh(ctx, false); err != nil {
		s.logger.Warn(ctx, "initial replay failed", logger.Error(err))
	}

	if s.refreshInterval > 0 {
		s.wg.Add(1)
		go s.refreshLoop(ctx, s.stopChan())
	}
	return nil
}

func (s *Service) stopChan() chan struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stopCh
}

func (s *Service) refreshLoop(ctx context.Context, stop <-chan struct{}) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			if _, err := s.Refresh(ctx, false); err != nil {
				s.logger.Warn(ctx, "scheduled replay failed", logger.Error(err))
			}
		}
	}
}

// Stop halts the background refresher and waits for it to exit.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()

	s.mu.Lock()
	s.stopCh = make(chan struct{})
	s.mu.Unlock()
	s.logger.Info(context.Background(), "rating service stopped")
}

// compute loads the log and runs one full replay with r.
func (s *Service) compute(ctx context.Context, r *replay.Replayer) (replay.Result, []model.Standing, error) {
	rows, err := s.source.Load(ctx)
	if err != nil {
		return replay.Result{}, nil, fmt.Errorf("load game log: %w", err)
	}
	entries, err := normalize.Rows(rows)
	if err != nil {
		return replay.Result{}, nil, err
	}
	res, err := r.Run(entries)
	if err != nil {
		return replay.Result{}, nil, err
	}
	return res, leaderboard.Project(res.History), nil
}

// Refresh replays the full game log and publishes the result. With force the
// source cache is bypassed. On failure the previously published replay keeps
// being served.
func (s *Service) Refresh(ctx context.Context, force bool) (repository.RunInfo, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	if force {
		source.Invalidate(s.source)
	}

	start := time.Now()
	res, standings, err := s.compute(ctx, s.replayer)
	ms := float64(time.Since(start).Microseconds()) / 1000.0
	if err != nil {
		_ = metrics.RecordReplay(metrics.OutcomeError, ms)
		metrics.RecordErrorByComponent("replay", errorKind(err))
		s.setResult(time.Time{}, err)
		s.logger.Error(ctx, "replay failed", logger.Error(err))
		return repository.RunInfo{}, err
	}

	published := &repository.Replay{
		RunID:     uuid.New(),
		Generated: s.now(),
		Algorithm: s.algorithm,
		Games:     res.Games,
		History:   res.History,
		Standings: standings,
	}
	if err := s.store.Publish(ctx, published); err != nil {
		s.setResult(time.Time{}, err)
		return repository.RunInfo{}, fmt.Errorf("publish replay: %w", err)
	}
	_ = metrics.RecordReplay(metrics.OutcomeSuccess, ms)
	metrics.PublishReplay(res.Games, len(standings), published.Generated.Unix())
	s.setResult(published.Generated, nil)

	info := published.Info()
	s.logger.Info(ctx, "replay published",
		logger.String("run_id", info.RunID.String()),
		logger.Int("games", info.Games),
		logger.Int("players", info.Players),
		logger.Float64("duration_ms", ms),
	)
	return info, nil
}

func (s *Service) setResult(at time.Time, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
	if err == nil {
		s.lastRefresh = at
	}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, normalize.ErrMalformedInput):
		return "malformed_input"
	case errors.Is(err, rating.ErrIncompleteGame):
		return "incomplete_game"
	default:
		return "internal"
	}
}

// WhatIf is the result of a replay with overridden parameters.
type WhatIf struct {
	Scoring   scoring.Config   `json:"scoring"`
	Prior     rating.Prior     `json:"prior"`
	Games     int              `json:"games"`
	Standings []model.Standing `json:"standings"`
}

// WhatIf replays the game log with o applied and returns the standings
// without publishing them.
func (s *Service) WhatIf(ctx context.Context, o Overrides) (WhatIf, error) {
	if err := o.Validate(); err != nil {
		return WhatIf{}, err
	}
	cfg, prior := o.apply(s.scoring, s.prior)
	r, err := s.newReplayer(cfg, prior)
	if err != nil {
		return WhatIf{}, fmt.Errorf("%w: %w", ErrInvalidOverride, err)
	}

	res, standings, err := s.compute(ctx, r)
	if err != nil {
		return WhatIf{}, err
	}
	metrics.RecordWhatIfReplay()
	s.logger.Debug(ctx, "what-if replay",
		logger.Int("oka", cfg.Oka),
		logger.Int("target", cfg.Target),
		logger.Float64("init_mu", prior.Mu),
		logger.Float64("init_sigma", prior.Sigma),
	)
	return WhatIf{Scoring: cfg, Prior: prior, Games: res.Games, Standings: standings}, nil
}

// Settings returns the scoring rules and prior of published replays.
func (s *Service) Settings() (scoring.Config, rating.Prior) {
	return s.scoring, s.prior
}

// TopN returns the first n standings of the published replay.
func (s *Service) TopN(ctx context.Context, n int) ([]model.Standing, error) {
	return s.store.TopN(ctx, n)
}

// Rank returns the published standing of player.
func (s *Service) Rank(ctx context.Context, player string) (model.Standing, error) {
	return s.store.Rank(ctx, player)
}

// PlayerLog returns the player's games in GameID order.
func (s *Service) PlayerLog(ctx context.Context, player string) ([]model.Snapshot, error) {
	return s.store.History(ctx, player)
}

// History returns every snapshot of the published replay and its run summary.
func (s *Service) History(ctx context.Context) ([]model.Snapshot, repository.RunInfo, error) {
	r, err := s.store.Current(ctx)
	if err != nil {
		return nil, repository.RunInfo{}, err
	}
	return r.History, r.Info(), nil
}

// Chart writes the player's rating chart as PNG. Before the first replay is
// published a placeholder image is written.
func (s *Service) Chart(ctx context.Context, w io.Writer, player string) error {
	log, err := s.store.History(ctx, player)
	if errors.Is(err, repository.ErrNotReady) {
		log, err = nil, nil
	}
	if err != nil {
		return err
	}
	return s.chart.Render(w, player, log)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":          s.started,
		"algorithm":        s.algorithm,
		"refresh_interval": s.refreshInterval.String(),
		"players":          s.store.Count(ctx),
		"runs":             s.store.Runs(ctx),
		"uma_zero_sum":     s.scoring.ZeroSum(),
		"full_game_total":  s.scoring.GameTotal(fullGame(s.scoring.Target)),
	}
	if !s.lastRefresh.IsZero() {
		stats["last_refresh"] = s.lastRefresh.UTC().Format(time.RFC3339)
	}
	if s.lastErr != nil {
		stats["last_error"] = s.lastErr.Error()
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	stats["goroutines"] = runtime.NumGoroutine()
	stats["heap_alloc_bytes"] = m.HeapAlloc
	return stats
}

// fullGame is a table where every seat finished on target.
func fullGame(target int) []int {
	points := make([]int, model.SeatCount)
	for i := range points {
		points[i] = target
	}
	return points
}
