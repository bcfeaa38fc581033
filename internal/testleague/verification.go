package testleague

import (
	"fmt"
	"math"
	"strconv"

	"github.com/okian/riichi/internal/domain/model"
)

// Mismatch is one difference between the local and the served leaderboard.
type Mismatch struct {
	Rank   int
	Field  string
	Local  string
	Served string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("rank %d %s: local %s, served %s", m.Rank, m.Field, m.Local, m.Served)
}

// Compare checks served against local row by row over the first n rows of
// local. Player order must agree exactly; ratings within tol.
func Compare(local, served []model.Standing, n int, tol float64) []Mismatch {
	if n <= 0 || n > len(local) {
		n = len(local)
	}
	var out []Mismatch
	if len(served) < n {
		out = append(out, Mismatch{
			Field:  "rows",
			Local:  strconv.Itoa(n),
			Served: strconv.Itoa(len(served)),
		})
		n = len(served)
	}
	for i := 0; i < n; i++ {
		l, s := local[i], served[i]
		rank := i + 1
		if l.Player != s.Player {
			out = append(out, Mismatch{Rank: rank, Field: "player", Local: l.Player, Served: s.Player})
			continue
		}
		if l.Rank != s.Rank {
			out = append(out, Mismatch{Rank: rank, Field: "rank", Local: strconv.Itoa(l.Rank), Served: strconv.Itoa(s.Rank)})
		}
		if l.GameID != s.GameID {
			out = append(out, Mismatch{Rank: rank, Field: "game_id", Local: strconv.Itoa(l.GameID), Served: strconv.Itoa(s.GameID)})
		}
		for _, f := range []struct {
			name string
			l, s float64
		}{
			{"r", l.R, s.R},
			{"mu", l.Mu, s.Mu},
			{"sigma", l.Sigma, s.Sigma},
		} {
			if math.Abs(f.l-f.s) > tol {
				out = append(out, Mismatch{Rank: rank, Field: f.name, Local: formatFloat(f.l), Served: formatFloat(f.s)})
			}
		}
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
