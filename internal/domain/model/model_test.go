package model_test

import (
	"testing"

	model "github.com/okian/riichi/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestSeat(t *testing.T) {
	convey.Convey("Given the fixed seat order", t, func() {
		convey.Convey("Then it should iterate East, South, West, North", func() {
			names := make([]string, 0, model.SeatCount)
			for _, s := range model.Seats {
				names = append(names, s.String())
			}
			convey.So(names, convey.ShouldResemble, []string{"East", "South", "West", "North"})
		})

		convey.Convey("Then an out-of-range seat should be unknown", func() {
			convey.So(model.Seat(7).String(), convey.ShouldEqual, "Unknown")
		})
	})
}

func TestRating(t *testing.T) {
	convey.Convey("Given a rating", t, func() {
		r := model.Rating{Mu: 25, Sigma: 25.0 / 3}

		convey.Convey("When computing the conservative score", func() {
			convey.Convey("Then it should be mu minus three sigma", func() {
				convey.So(r.Conservative(), convey.ShouldAlmostEqual, 0.0, 1e-9)
			})
		})

		convey.Convey("When sigma shrinks", func() {
			tight := model.Rating{Mu: 25, Sigma: 1}

			convey.Convey("Then the conservative score should rise", func() {
				convey.So(tight.Conservative(), convey.ShouldEqual, 22.0)
				convey.So(tight.Conservative(), convey.ShouldBeGreaterThan, r.Conservative())
			})
		})
	})
}
