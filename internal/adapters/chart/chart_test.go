package chart

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/okian/riichi/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRender(t *testing.T) {
	Convey("Given a renderer", t, func() {
		r := New(WithSize(640, 240))

		Convey("A multi-game log renders a PNG of the configured size", func() {
			var buf bytes.Buffer
			log := []model.Snapshot{
				{GameID: 1, R: 0.5},
				{GameID: 3, R: 2.1},
				{GameID: 7, R: -1.2},
			}
			So(r.Render(&buf, "A", log), ShouldBeNil)

			img, err := png.Decode(&buf)
			So(err, ShouldBeNil)
			So(img.Bounds().Dx(), ShouldEqual, 640)
			So(img.Bounds().Dy(), ShouldEqual, 240)
		})

		Convey("A single game still renders", func() {
			var buf bytes.Buffer
			So(r.Render(&buf, "A", []model.Snapshot{{GameID: 4, R: 1}}), ShouldBeNil)
			_, err := png.Decode(&buf)
			So(err, ShouldBeNil)
		})

		Convey("An empty log renders the placeholder", func() {
			var buf bytes.Buffer
			So(r.Render(&buf, "nobody", nil), ShouldBeNil)
			img, err := png.Decode(&buf)
			So(err, ShouldBeNil)
			So(img.Bounds().Dx(), ShouldEqual, 400)
		})
	})

	Convey("Invalid sizes keep the defaults", t, func() {
		r := New(WithSize(0, -1))
		So(r.width, ShouldEqual, defaultWidth)
		So(r.height, ShouldEqual, defaultHeight)
	})
}
