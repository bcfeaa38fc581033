package testleague

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"sort"
	"strconv"
	"time"

	"github.com/okian/riichi/internal/domain/model"
	"github.com/xuri/excelize/v2"
)

// Table constants.
const (
	startPoints = 25000
	tablePoints = startPoints * model.SeatCount
	pointsUnit  = 100
	// spread maps one unit of performance difference to table points.
	spread    = 9000
	minPoints = -20000
	dateFmt   = "2006-01-02"
)

// Header is the column layout written by the generator and read by the
// source adapters.
func Header() []string {
	h := []string{"date"}
	for _, s := range model.Seats {
		h = append(h, s.String()+" player", s.String()+" points")
	}
	return h
}

// Generate builds a deterministic league: a header row followed by one row
// per game. Players carry a hidden skill; each game seats four distinct
// players whose points sum to 100000.
func Generate(cfg GenerateConfig) ([][]string, error) {
	if cfg.Players < model.SeatCount {
		return nil, fmt.Errorf("%w: need at least %d players, got %d", ErrInvalidGenerate, model.SeatCount, cfg.Players)
	}
	if cfg.Games < 0 {
		return nil, fmt.Errorf("%w: games must not be negative", ErrInvalidGenerate)
	}
	start := cfg.Start
	if start.IsZero() {
		start = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	names := make([]string, cfg.Players)
	skill := make([]float64, cfg.Players)
	width := len(strconv.Itoa(cfg.Players))
	for i := range names {
		names[i] = fmt.Sprintf("Player %0*d", width, i+1)
		skill[i] = rng.NormFloat64()
	}

	records := make([][]string, 0, cfg.Games+1)
	records = append(records, Header())
	for g := 0; g < cfg.Games; g++ {
		seats := rng.Perm(cfg.Players)[:model.SeatCount]
		var perf [model.SeatCount]float64
		for i, p := range seats {
			perf[i] = skill[p] + rng.NormFloat64()
		}
		points := tablePointsFor(perf)

		row := []string{start.AddDate(0, 0, g).Format(dateFmt)}
		for i, p := range seats {
			row = append(row, names[p], strconv.Itoa(points[i]))
		}
		records = append(records, row)
	}
	return records, nil
}

// tablePointsFor turns seat performances into final scores: centred on the
// starting stack, rounded to the hundred, and balanced so the table total is
// exact. The rounding remainder goes to the best performer.
func tablePointsFor(perf [model.SeatCount]float64) [model.SeatCount]int {
	mean := 0.0
	for _, p := range perf {
		mean += p
	}
	mean /= model.SeatCount

	var points [model.SeatCount]int
	total := 0
	for i, p := range perf {
		v := startPoints + spread*(p-mean)
		v = math.Max(v, minPoints)
		points[i] = int(math.Round(v/pointsUnit)) * pointsUnit
		total += points[i]
	}

	order := []int{0, 1, 2, 3}
	sort.SliceStable(order, func(a, b int) bool { return perf[order[a]] > perf[order[b]] })
	points[order[0]] += tablePoints - total
	return points
}

// WriteXLSX writes records to the first sheet of a new workbook.
func WriteXLSX(w io.Writer, records [][]string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	for i, rec := range records {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("xlsx cell: %w", err)
		}
		row := make([]any, len(rec))
		for j, v := range rec {
			row[j] = v
		}
		if err := f.SetSheetRow(sheet, cellRef, &row); err != nil {
			return fmt.Errorf("xlsx row %d: %w", i+1, err)
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

// WriteCSV writes records as CSV.
func WriteCSV(w io.Writer, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("csv write: %w", err)
	}
	return nil
}
