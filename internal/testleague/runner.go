package testleague

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/okian/riichi/internal/adapters/source"
	"github.com/okian/riichi/internal/domain/leaderboard"
	"github.com/okian/riichi/internal/domain/model"
	"github.com/okian/riichi/internal/domain/normalize"
	"github.com/okian/riichi/internal/domain/replay"
	"github.com/okian/riichi/pkg/logger"
)

// LoaderFor returns a file loader chosen by the file extension.
func LoaderFor(path, sheet string) (source.Loader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return source.NewCSVFile(path), nil
	case ".xlsx":
		return source.NewXLSXFile(path, sheet), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// Replay loads the game log from l and replays it from scratch.
func Replay(ctx context.Context, l source.Loader, opts ...replay.Option) (replay.Result, []model.Standing, error) {
	r, err := replay.New(opts...)
	if err != nil {
		return replay.Result{}, nil, err
	}
	rows, err := l.Load(ctx)
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

// Verify replays cfg.Source locally, optionally refreshes the server, and
// compares the served leaderboard with the local one. A completed comparison
// with differences returns the report and ErrMismatch.
func Verify(ctx context.Context, cfg Config) (Report, error) {
	log := logger.Get().Named("testleague")
	report := Report{StartTime: time.Now()}

	l, err := LoaderFor(cfg.Source, cfg.Sheet)
	if err != nil {
		return report, err
	}
	res, local, err := Replay(ctx, l,
		replay.WithScoring(cfg.Scoring),
		replay.WithPrior(cfg.Prior),
		replay.WithAlgorithm(cfg.Algorithm),
	)
	if err != nil {
		return report, err
	}
	report.Games, report.Local = res.Games, len(local)
	log.Info(ctx, "local replay completed", logger.Int("games", res.Games), logger.Int("players", len(local)))

	client := NewClient(cfg.BaseURL, cfg.Timeout)
	if cfg.Refresh {
		run, err := client.Refresh(ctx)
		if err != nil {
			return report, err
		}
		log.Info(ctx, "server refreshed", logger.String("run_id", run.RunID.String()), logger.Int("games", run.Games))
	}

	// Without a limit the server answers with as many rows as it allows.
	n := min(cfg.TopN, len(local))
	served, err := client.Leaderboard(ctx, n)
	if err != nil {
		return report, err
	}
	if n <= 0 {
		n = min(len(local), len(served))
	}
	report.Served = len(served)
	report.Compared = min(n, len(served))
	report.Mismatches = Compare(local, served, n, cfg.Tolerance)
	report.Duration = time.Since(report.StartTime)

	if !report.OK() {
		for _, m := range report.Mismatches {
			log.Warn(ctx, "leaderboard mismatch", logger.String("detail", m.String()))
		}
		return report, fmt.Errorf("%w: %d differences", ErrMismatch, len(report.Mismatches))
	}
	log.Info(ctx, "leaderboard verified",
		logger.Int("compared", report.Compared),
		logger.Duration("duration", report.Duration),
	)
	return report, nil
}
