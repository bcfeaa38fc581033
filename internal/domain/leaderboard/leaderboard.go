// Package leaderboard reduces a replay history to current standings.
package leaderboard

import (
	"sort"

	"github.com/okian/riichi/internal/domain/model"
)

// Project returns one standing per player built from the player's snapshot
// with the highest GameID, sorted by R descending. Equal R values are
// ordered by player name so the result is deterministic.
func Project(history []model.Snapshot) []model.Standing {
	type acc struct {
		tail  model.Snapshot
		games int
		total float64
	}
	byPlayer := make(map[string]*acc)
	for _, s := range history {
		a, ok := byPlayer[s.Player]
		if !ok {
			a = &acc{tail: s}
			byPlayer[s.Player] = a
		}
		if s.GameID >= a.tail.GameID {
			a.tail = s
		}
		a.games++
		a.total += s.PlusMinus
	}

	out := make([]model.Standing, 0, len(byPlayer))
	for player, a := range byPlayer {
		out = append(out, model.Standing{
			Player:         player,
			R:              a.tail.R,
			Mu:             a.tail.Mu,
			Sigma:          a.tail.Sigma,
			GameID:         a.tail.GameID,
			Date:           a.tail.Date,
			Games:          a.games,
			PlusMinusTotal: a.total,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].R != out[j].R {
			return out[i].R > out[j].R
		}
		return out[i].Player < out[j].Player
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// PlayerLog returns the player's snapshots in GameID order.
func PlayerLog(history []model.Snapshot, player string) []model.Snapshot {
	var out []model.Snapshot
	for _, s := range history {
		if s.Player == player {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].GameID < out[j].GameID })
	return out
}
