package source

import (
	"fmt"
	"strings"

	"github.com/okian/riichi/internal/domain/model"
)

const dateColumn = "date"

func playerColumn(s model.Seat) string { return strings.ToLower(s.String()) + " player" }
func pointsColumn(s model.Seat) string { return strings.ToLower(s.String()) + " points" }

// columns holds the record index of every field a game row needs.
type columns struct {
	date    int
	players [model.SeatCount]int
	points  [model.SeatCount]int
}

func headerKey(cell string) string {
	return strings.ToLower(strings.Join(strings.Fields(cell), " "))
}

func mapHeader(header []string) (columns, error) {
	index := make(map[string]int, len(header))
	for i, cell := range header {
		key := headerKey(cell)
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}
	lookup := func(name string) (int, error) {
		i, ok := index[name]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
		return i, nil
	}

	var c columns
	var err error
	if c.date, err = lookup(dateColumn); err != nil {
		return c, err
	}
	for _, seat := range model.Seats {
		if c.players[seat], err = lookup(playerColumn(seat)); err != nil {
			return c, err
		}
		if c.points[seat], err = lookup(pointsColumn(seat)); err != nil {
			return c, err
		}
	}
	return c, nil
}

func cell(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Table maps a header row plus data rows into game rows. Header matching
// ignores case and repeated whitespace. Fully blank rows are not games and
// are dropped; every other row is kept in order so GameIDs follow the sheet.
func Table(records [][]string) ([]model.GameRow, error) {
	if len(records) == 0 {
		return nil, ErrEmpty
	}
	cols, err := mapHeader(records[0])
	if err != nil {
		return nil, err
	}
	rows := make([]model.GameRow, 0, len(records)-1)
	for _, record := range records[1:] {
		if blank(record) {
			continue
		}
		row := model.GameRow{Date: cell(record, cols.date)}
		for _, seat := range model.Seats {
			row.Players[seat] = cell(record, cols.players[seat])
			row.Points[seat] = cell(record, cols.points[seat])
		}
		rows = append(rows, row)
	}
	return rows, nil
}
