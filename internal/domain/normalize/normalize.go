// Package normalize turns raw game rows into one entry per player per game.
package normalize

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/okian/riichi/internal/domain/model"
)

// Rows converts rows into per-seat entries. GameID is the 1-based row
// position and entries are emitted in East, South, West, North order. Any
// malformed row aborts the whole conversion: skipping one would shift the
// GameID of every later game.
func Rows(rows []model.GameRow) ([]model.PlayerGameEntry, error) {
	out := make([]model.PlayerGameEntry, 0, len(rows)*model.SeatCount)
	for i, row := range rows {
		gameID := i + 1
		for _, seat := range model.Seats {
			player := strings.TrimSpace(row.Players[seat])
			if player == "" {
				return nil, &MalformedInputError{Row: gameID, Seat: seat.String(), Field: "player", Reason: "missing"}
			}
			points, err := ParsePoints(row.Points[seat])
			if err != nil {
				return nil, &MalformedInputError{
					Row:    gameID,
					Seat:   seat.String(),
					Field:  "points",
					Value:  row.Points[seat],
					Reason: err.Error(),
				}
			}
			out = append(out, model.PlayerGameEntry{
				GameID: gameID,
				Date:   strings.TrimSpace(row.Date),
				Player: player,
				Points: points,
				Seat:   seat,
			})
		}
	}
	return out, nil
}

// ParsePoints parses a points cell. Spreadsheets frequently export whole
// numbers as "35000.0", so an integral float is accepted; anything with a
// fractional part is not. Both forms must fit in an int32.
func ParsePoints(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err == nil {
		return int(n), nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, strconv.ErrRange
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, strconv.ErrSyntax
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, strconv.ErrSyntax
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, strconv.ErrRange
	}
	return int(f), nil
}
