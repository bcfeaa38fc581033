package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/riichi/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have the league defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.RefreshInterval, convey.ShouldEqual, 5*time.Minute)
			convey.So(cfg.Source.Kind, convey.ShouldEqual, config.SourceCSV)
			convey.So(cfg.Source.CacheTTL, convey.ShouldEqual, 5*time.Minute)
			convey.So(cfg.Scoring.Oka, convey.ShouldEqual, 20000)
			convey.So(cfg.Scoring.Target, convey.ShouldEqual, 30000)
			convey.So(cfg.Scoring.UmaArray(), convey.ShouldEqual, [4]int{15, 5, -5, -15})
			convey.So(cfg.Rating.Algorithm, convey.ShouldEqual, "trueskill")
			convey.So(cfg.Rating.InitMu, convey.ShouldEqual, 25.0)
			convey.So(cfg.Rating.InitSigma, convey.ShouldAlmostEqual, 8.3333, 1e-4)
		})

		convey.Convey("Then the defaults should validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"empty addr", func(c *config.Config) { c.Addr = "" }},
		{"zero leaderboard limit", func(c *config.Config) { c.MaxLeaderboardLimit = 0 }},
		{"negative refresh interval", func(c *config.Config) { c.RefreshInterval = -time.Second }},
		{"unknown source kind", func(c *config.Config) { c.Source.Kind = "parquet" }},
		{"http source without url", func(c *config.Config) { c.Source.Kind = config.SourceHTTP }},
		{"file source without path", func(c *config.Config) { c.Source.Path = "" }},
		{"negative cache ttl", func(c *config.Config) { c.Source.CacheTTL = -time.Second }},
		{"negative oka", func(c *config.Config) { c.Scoring.Oka = -1 }},
		{"three uma values", func(c *config.Config) { c.Scoring.Uma = []int{15, 5, -5} }},
		{"zero mu", func(c *config.Config) { c.Rating.InitMu = 0 }},
		{"negative sigma", func(c *config.Config) { c.Rating.InitSigma = -1 }},
		{"negative throttle", func(c *config.Config) { c.Limits.RefreshPerMinute = -1 }},
	}

	convey.Convey("Given invalid configurations", t, func() {
		for _, tc := range cases {
			convey.Convey("Then "+tc.name+" should be rejected", func() {
				cfg := config.New()
				tc.mutate(cfg)
				err := cfg.Validate()
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})

	convey.Convey("Given an http source with a url", t, func() {
		cfg := config.New()
		cfg.Source.Kind = config.SourceHTTP
		cfg.Source.Path = ""
		cfg.Source.URL = "https://example.com/export?format=csv"

		convey.So(cfg.Validate(), convey.ShouldBeNil)
	})
}
