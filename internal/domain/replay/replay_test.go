package replay_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/riichi/internal/domain/model"
	"github.com/okian/riichi/internal/domain/normalize"
	"github.com/okian/riichi/internal/domain/rating"
	"github.com/okian/riichi/internal/domain/replay"
	"github.com/okian/riichi/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func game(date string, players [4]string, points [4]string) model.GameRow {
	return model.GameRow{Date: date, Players: players, Points: points}
}

func entries(rows ...model.GameRow) []model.PlayerGameEntry {
	out, err := normalize.Rows(rows)
	if err != nil {
		panic(err)
	}
	return out
}

func league() []model.GameRow {
	return []model.GameRow{
		game("2024-01-01", [4]string{"A", "B", "C", "D"}, [4]string{"35000", "25000", "25000", "15000"}),
		game("2024-01-02", [4]string{"A", "E", "F", "G"}, [4]string{"20000", "40000", "30000", "10000"}),
		game("2024-01-03", [4]string{"B", "C", "E", "H"}, [4]string{"31000", "29000", "22000", "18000"}),
		game("2024-01-04", [4]string{"D", "F", "G", "A"}, [4]string{"45000", "5000", "27000", "23000"}),
		game("2024-01-05", [4]string{"H", "B", "D", "E"}, [4]string{"30000", "30000", "30000", "10000"}),
	}
}

func TestRunScenario(t *testing.T) {
	Convey("Given one game A=35000 B=25000 C=25000 D=15000", t, func() {
		r, err := replay.New(replay.WithScoring(scoring.NewConfig(
			scoring.WithOka(20000),
			scoring.WithUma([4]int{15, 5, -5, -15}),
			scoring.WithTarget(30000),
		)))
		So(err, ShouldBeNil)

		Convey("When replaying", func() {
			res, err := r.Run(entries(league()[0]))
			So(err, ShouldBeNil)

			Convey("Then snapshots should come out in finishing order with B above C", func() {
				So(res.History, ShouldHaveLength, 4)
				So(res.Games, ShouldEqual, 1)
				So(res.Players, ShouldEqual, 4)
				names := []string{}
				for _, s := range res.History {
					names = append(names, s.Player)
				}
				So(names, ShouldResemble, []string{"A", "B", "C", "D"})
				So(res.History[2].Place, ShouldEqual, 2)
			})

			Convey("And ± should be 40, 0, -10, -30", func() {
				So(res.History[0].PlusMinus, ShouldEqual, 40.0)
				So(res.History[1].PlusMinus, ShouldEqual, 0.0)
				So(res.History[2].PlusMinus, ShouldEqual, -10.0)
				So(res.History[3].PlusMinus, ShouldEqual, -30.0)
			})

			Convey("And R should be mu minus three sigma", func() {
				for _, s := range res.History {
					So(s.R, ShouldAlmostEqual, s.Mu-3*s.Sigma, 1e-12)
					So(s.Date, ShouldEqual, "2024-01-01")
				}
			})

			Convey("And the ± total should offset oka by the 20000 point shortfall", func() {
				sum := 0.0
				for _, s := range res.History {
					sum += s.PlusMinus
				}
				So(sum, ShouldAlmostEqual, 0.0, 1e-9)
				So(sum, ShouldAlmostEqual, scoring.NewConfig().GameTotal([]int{35000, 25000, 25000, 15000}), 1e-9)
			})
		})
	})
}

func TestRunDeterminism(t *testing.T) {
	Convey("Given a multi-game league", t, func() {
		log := entries(league()...)

		Convey("When replaying twice with the same configuration", func() {
			r1, err := replay.New()
			So(err, ShouldBeNil)
			r2, err := replay.New()
			So(err, ShouldBeNil)
			a, errA := r1.Run(log)
			b, errB := r2.Run(log)

			Convey("Then the histories should be identical", func() {
				So(errA, ShouldBeNil)
				So(errB, ShouldBeNil)
				So(cmp.Diff(a.History, b.History), ShouldBeEmpty)
			})
		})

		Convey("When the same replayer runs twice", func() {
			r, err := replay.New()
			So(err, ShouldBeNil)
			a, _ := r.Run(log)
			b, _ := r.Run(log)

			Convey("Then no state should leak between runs", func() {
				So(cmp.Diff(a.History, b.History), ShouldBeEmpty)
			})
		})
	})
}

func TestRunOrderSensitivity(t *testing.T) {
	Convey("Given a league and the same league with games 1 and 3 swapped", t, func() {
		rows := league()
		swapped := league()
		swapped[0], swapped[2] = swapped[2], swapped[0]

		r, err := replay.New()
		So(err, ShouldBeNil)
		a, err := r.Run(entries(rows...))
		So(err, ShouldBeNil)
		b, err := r.Run(entries(swapped...))
		So(err, ShouldBeNil)

		Convey("Then the final ratings of shared players should differ", func() {
			last := func(h []model.Snapshot, player string) model.Snapshot {
				var out model.Snapshot
				for _, s := range h {
					if s.Player == player {
						out = s
					}
				}
				return out
			}
			So(last(a.History, "B").Mu, ShouldNotEqual, last(b.History, "B").Mu)
			So(last(a.History, "E").Mu, ShouldNotEqual, last(b.History, "E").Mu)
		})
	})
}

func TestRunFirstAppearance(t *testing.T) {
	Convey("Given a custom prior", t, func() {
		prior := rating.Prior{Mu: 30, Sigma: 6}
		r, err := replay.New(replay.WithPrior(prior))
		So(err, ShouldBeNil)

		res, err := r.Run(entries(league()...))
		So(err, ShouldBeNil)

		Convey("Then every player's first snapshot should start from the prior", func() {
			seen := map[string]bool{}
			for _, s := range res.History {
				if seen[s.Player] {
					continue
				}
				seen[s.Player] = true
				So(s.MuBefore, ShouldEqual, prior.Mu)
				So(s.SigmaBefore, ShouldEqual, prior.Sigma)
			}
			So(seen, ShouldContainKey, "H")
		})

		Convey("And later snapshots should start from the previous result", func() {
			prev := map[string]model.Snapshot{}
			for _, s := range res.History {
				if p, ok := prev[s.Player]; ok {
					So(s.MuBefore, ShouldEqual, p.Mu)
					So(s.SigmaBefore, ShouldEqual, p.Sigma)
				}
				prev[s.Player] = s
			}
		})
	})
}

func TestRunGrouping(t *testing.T) {
	Convey("Given entries whose games arrive out of GameID order", t, func() {
		log := entries(league()[:2]...)
		reordered := append(append([]model.PlayerGameEntry{}, log[4:]...), log[:4]...)

		r, err := replay.New()
		So(err, ShouldBeNil)
		a, err := r.Run(log)
		So(err, ShouldBeNil)
		b, err := r.Run(reordered)
		So(err, ShouldBeNil)

		Convey("Then games should still be replayed by ascending GameID", func() {
			So(cmp.Diff(a.History, b.History), ShouldBeEmpty)
			So(b.History[0].GameID, ShouldEqual, 1)
		})
	})
}

func TestRunErrors(t *testing.T) {
	Convey("Given a game with only three entries", t, func() {
		log := entries(league()...)
		log = append(log[:7], log[8:]...)

		r, err := replay.New()
		So(err, ShouldBeNil)

		Convey("Then the replay should abort with an incomplete game error", func() {
			_, err := r.Run(log)
			So(errors.Is(err, rating.ErrIncompleteGame), ShouldBeTrue)
			var ige *rating.IncompleteGameError
			So(errors.As(err, &ige), ShouldBeTrue)
			So(ige.GameID, ShouldEqual, 2)
		})
	})

	Convey("Given a game where one player sits twice", t, func() {
		log := entries(game("d", [4]string{"A", "B", "A", "C"}, [4]string{"1", "2", "3", "4"}))

		r, err := replay.New()
		So(err, ShouldBeNil)

		Convey("Then the replay should abort", func() {
			_, err := r.Run(log)
			So(errors.Is(err, rating.ErrIncompleteGame), ShouldBeTrue)
		})
	})

	Convey("Given invalid configuration", t, func() {
		Convey("Then construction should fail", func() {
			_, err := replay.New(replay.WithScoring(scoring.NewConfig(scoring.WithOka(-1))))
			So(errors.Is(err, scoring.ErrInvalidConfig), ShouldBeTrue)
			_, err = replay.New(replay.WithPrior(rating.Prior{Mu: 25}))
			So(errors.Is(err, rating.ErrInvalidPrior), ShouldBeTrue)
			_, err = replay.New(replay.WithAlgorithm("elo"))
			So(errors.Is(err, rating.ErrUnknownAlgorithm), ShouldBeTrue)
		})
	})
}

func TestRunPluggableRater(t *testing.T) {
	Convey("Given a rater that leaves ratings unchanged", t, func() {
		identity := rating.RaterFunc(func(ranked []model.Rating) ([]model.Rating, error) {
			return append([]model.Rating(nil), ranked...), nil
		})
		r, err := replay.New(replay.WithRater(identity))
		So(err, ShouldBeNil)

		Convey("Then every snapshot should carry the prior", func() {
			res, err := r.Run(entries(league()...))
			So(err, ShouldBeNil)
			for _, s := range res.History {
				So(s.Mu, ShouldEqual, rating.DefaultMu)
			}
		})
	})
}
