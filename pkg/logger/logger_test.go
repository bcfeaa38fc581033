package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	err := Init()
	if err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}
}

func TestLoggerJSON(t *testing.T) {
	convey.Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		convey.So(InitWith(&buf, FormatJSON), convey.ShouldBeNil)
		defer func() { _ = Init() }()

		convey.Convey("Fields are encoded as attributes", func() {
			Get().Info(context.Background(), "replay finished",
				Int("games", 12), Bool("cached", false), String("run_id", "abc"))

			var line map[string]any
			convey.So(json.Unmarshal(buf.Bytes(), &line), convey.ShouldBeNil)
			convey.So(line["msg"], convey.ShouldEqual, "replay finished")
			convey.So(line["games"], convey.ShouldEqual, 12.0)
			convey.So(line["cached"], convey.ShouldEqual, false)
			convey.So(line["run_id"], convey.ShouldEqual, "abc")
			convey.So(line["source"], convey.ShouldContainSubstring, "logger_test.go")
		})

		convey.Convey("Named loggers tag their records", func() {
			Named("replay").Warn(context.Background(), "slow")

			var line map[string]any
			convey.So(json.Unmarshal(buf.Bytes(), &line), convey.ShouldBeNil)
			convey.So(line["logger"], convey.ShouldEqual, "replay")
		})

		convey.Convey("Records below the level are dropped", func() {
			convey.So(SetLevelString("warn"), convey.ShouldBeNil)
			defer func() { _ = SetLevelString("info") }()
			Get().Debug(context.Background(), "hidden")
			Get().Info(context.Background(), "hidden")
			convey.So(buf.Len(), convey.ShouldEqual, 0)
		})
	})
}

func TestLoggerUnknownFormat(t *testing.T) {
	convey.Convey("An unknown format is rejected", t, func() {
		var buf bytes.Buffer
		convey.So(InitWith(&buf, "xml"), convey.ShouldNotBeNil)
	})
}

func TestNop(t *testing.T) {
	convey.Convey("The nop logger accepts every call", t, func() {
		l := Nop()
		convey.So(func() {
			l.Info(context.Background(), "x", Error(nil))
			l.Named("n").Debug(context.Background(), "y")
		}, convey.ShouldNotPanic)
	})
}
