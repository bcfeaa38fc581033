// Package source reads the league game log from a spreadsheet: a local CSV
// or XLSX file, or a CSV export served over HTTP.
package source

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/riichi/internal/config"
	"github.com/okian/riichi/internal/domain/model"
	"github.com/okian/riichi/pkg/logger"
	"github.com/okian/riichi/pkg/metrics"
)

// Loader returns every game row of the log in sheet order.
type Loader interface {
	Load(ctx context.Context) ([]model.GameRow, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context) ([]model.GameRow, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context) ([]model.GameRow, error) { return f(ctx) }

// New builds the loader described by cfg: the raw loader, instrumented, then
// cached when cfg.CacheTTL is positive.
func New(cfg config.SourceConfig) (Loader, error) {
	var base Loader
	switch cfg.Kind {
	case config.SourceCSV:
		base = NewCSVFile(cfg.Path)
	case config.SourceXLSX:
		base = NewXLSXFile(cfg.Path, cfg.Sheet)
	case config.SourceHTTP:
		base = NewHTTPCSV(cfg.URL, cfg.Timeout)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
	}
	l := Instrument(cfg.Kind, base)
	if cfg.CacheTTL > 0 {
		l = NewCached(l, cfg.CacheTTL)
	}
	return l, nil
}

// Instrument records fetch latency and outcome for every call to next.
func Instrument(kind string, next Loader) Loader {
	log := logger.Get().Named("source")
	return LoaderFunc(func(ctx context.Context) ([]model.GameRow, error) {
		start := time.Now()
		rows, err := next.Load(ctx)
		elapsed := time.Since(start)
		ms := float64(elapsed.Microseconds()) / 1000.0

		if err != nil {
			_ = metrics.RecordSourceFetch(kind, metrics.OutcomeError, ms, 0)
			metrics.RecordErrorByComponent("source", kind)
			log.Error(ctx, "game log fetch failed", logger.String("kind", kind), logger.Error(err))
			return nil, err
		}
		_ = metrics.RecordSourceFetch(kind, metrics.OutcomeSuccess, ms, len(rows))
		log.Debug(ctx, "game log fetched",
			logger.String("kind", kind),
			logger.Int("rows", len(rows)),
			logger.Duration("elapsed", elapsed))
		return rows, nil
	})
}
