package leaderboard_test

import (
	"testing"

	"github.com/okian/riichi/internal/domain/leaderboard"
	"github.com/okian/riichi/internal/domain/model"
	"github.com/okian/riichi/internal/domain/normalize"
	"github.com/okian/riichi/internal/domain/replay"
	. "github.com/smartystreets/goconvey/convey"
)

func snap(gameID int, player string, r, pm float64) model.Snapshot {
	return model.Snapshot{GameID: gameID, Player: player, R: r, Mu: r + 3, Sigma: 1, PlusMinus: pm}
}

func TestProject(t *testing.T) {
	Convey("Given a hand-built history", t, func() {
		history := []model.Snapshot{
			snap(1, "A", 5, 40),
			snap(1, "B", 3, 0),
			snap(2, "A", 1, -30),
			snap(3, "C", 3, 10),
			snap(2, "B", 4, 5),
		}

		Convey("When projecting", func() {
			board := leaderboard.Project(history)

			Convey("Then each player should appear once", func() {
				So(board, ShouldHaveLength, 3)
			})

			Convey("And each entry should be the player's latest game", func() {
				byPlayer := map[string]model.Standing{}
				for _, s := range board {
					byPlayer[s.Player] = s
				}
				So(byPlayer["A"].GameID, ShouldEqual, 2)
				So(byPlayer["A"].R, ShouldEqual, 1.0)
				So(byPlayer["B"].GameID, ShouldEqual, 2)
				So(byPlayer["B"].R, ShouldEqual, 4.0)
				So(byPlayer["C"].GameID, ShouldEqual, 3)
			})

			Convey("And entries should be sorted by R descending with 1-based ranks", func() {
				So(board[0].Player, ShouldEqual, "B")
				So(board[1].Player, ShouldEqual, "C")
				So(board[2].Player, ShouldEqual, "A")
				for i, s := range board {
					So(s.Rank, ShouldEqual, i+1)
				}
			})

			Convey("And games and ± totals should accumulate", func() {
				So(board[2].Games, ShouldEqual, 2)
				So(board[2].PlusMinusTotal, ShouldEqual, 10.0)
			})
		})
	})

	Convey("Given two players with equal R", t, func() {
		board := leaderboard.Project([]model.Snapshot{snap(1, "Zed", 2, 0), snap(1, "Amy", 2, 0)})

		Convey("Then the name should break the tie", func() {
			So(board[0].Player, ShouldEqual, "Amy")
			So(board[1].Player, ShouldEqual, "Zed")
		})
	})

	Convey("Given an empty history", t, func() {
		Convey("Then the board should be empty", func() {
			So(leaderboard.Project(nil), ShouldBeEmpty)
		})
	})
}

func TestProjectReplay(t *testing.T) {
	Convey("Given a replayed league", t, func() {
		rows := []model.GameRow{
			{Date: "d1", Players: [4]string{"A", "B", "C", "D"}, Points: [4]string{"35000", "25000", "25000", "15000"}},
			{Date: "d2", Players: [4]string{"A", "E", "F", "G"}, Points: [4]string{"20000", "40000", "30000", "10000"}},
			{Date: "d3", Players: [4]string{"B", "C", "E", "H"}, Points: [4]string{"31000", "29000", "22000", "18000"}},
		}
		log, err := normalize.Rows(rows)
		So(err, ShouldBeNil)
		r, err := replay.New()
		So(err, ShouldBeNil)
		res, err := r.Run(log)
		So(err, ShouldBeNil)

		board := leaderboard.Project(res.History)

		Convey("Then every entry should carry the player's max GameID", func() {
			maxGame := map[string]int{}
			for _, s := range res.History {
				if s.GameID > maxGame[s.Player] {
					maxGame[s.Player] = s.GameID
				}
			}
			So(board, ShouldHaveLength, len(maxGame))
			for _, s := range board {
				So(s.GameID, ShouldEqual, maxGame[s.Player])
			}
		})

		Convey("Then adjacent entries should satisfy R[i] >= R[i+1]", func() {
			for i := 0; i+1 < len(board); i++ {
				So(board[i].R, ShouldBeGreaterThanOrEqualTo, board[i+1].R)
			}
		})
	})
}

func TestPlayerLog(t *testing.T) {
	Convey("Given a history with interleaved players", t, func() {
		history := []model.Snapshot{snap(3, "A", 0, 1), snap(1, "A", 0, 2), snap(2, "B", 0, 3)}

		Convey("Then the log should hold only that player in GameID order", func() {
			got := leaderboard.PlayerLog(history, "A")
			So(got, ShouldHaveLength, 2)
			So(got[0].GameID, ShouldEqual, 1)
			So(got[1].GameID, ShouldEqual, 3)
			So(leaderboard.PlayerLog(history, "nobody"), ShouldBeEmpty)
		})
	})
}
