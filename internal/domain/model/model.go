// Package model contains domain models passed between layers.
package model

// Seat is a table position. The zero value is East.
type Seat int

// Seats in table iteration order.
const (
	East Seat = iota
	South
	West
	North
)

// SeatCount is the number of seats at a table.
const SeatCount = 4

// Seats lists every seat in the fixed iteration order used by the normalizer.
var Seats = [SeatCount]Seat{East, South, West, North} //nolint:gochecknoglobals // fixed table order

// String returns the seat name as it appears in source headers.
func (s Seat) String() string {
	switch s {
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	case North:
		return "North"
	default:
		return "Unknown"
	}
}

// GameRow is one game as read from the tabular source. Cells keep their raw
// text; parsing happens in the normalizer.
type GameRow struct {
	Date    string
	Players [SeatCount]string
	Points  [SeatCount]string
}

// PlayerGameEntry is one player's result in one game.
type PlayerGameEntry struct {
	GameID int    `json:"game_id"`
	Date   string `json:"date"`
	Player string `json:"player"`
	Points int    `json:"points"`
	Seat   Seat   `json:"seat"`
}

// Rating is a skill estimate: mean and uncertainty.
type Rating struct {
	Mu    float64 `json:"mu"`
	Sigma float64 `json:"sigma"`
}

// Conservative returns mu - 3*sigma, the value used for ranking.
func (r Rating) Conservative() float64 {
	return r.Mu - 3*r.Sigma
}

// Snapshot records one player's state right after one game.
type Snapshot struct {
	GameID      int     `json:"game_id"`
	Date        string  `json:"date"`
	Player      string  `json:"player"`
	Seat        string  `json:"seat"`
	Points      int     `json:"points"`
	Place       int     `json:"place"` // 0-based finishing rank
	Mu          float64 `json:"mu"`
	Sigma       float64 `json:"sigma"`
	R           float64 `json:"r"`
	MuBefore    float64 `json:"mu_before"`
	SigmaBefore float64 `json:"sigma_before"`
	PlusMinus   float64 `json:"plus_minus"`
}

// Standing is one leaderboard row.
type Standing struct {
	Rank           int     `json:"rank"`
	Player         string  `json:"player"`
	R              float64 `json:"r"`
	Mu             float64 `json:"mu"`
	Sigma          float64 `json:"sigma"`
	GameID         int     `json:"game_id"` // last game played
	Date           string  `json:"date"`
	Games          int     `json:"games"`
	PlusMinusTotal float64 `json:"plus_minus_total"`
}
