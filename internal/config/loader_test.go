package config_test

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/okian/riichi/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.Scoring.Uma, convey.ShouldResemble, []int{15, 5, -5, -15})
				convey.So(cfg.Rating.Algorithm, convey.ShouldEqual, "trueskill")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("RIICHI_ADDR", ":8080")
			_ = os.Setenv("RIICHI_LOG_FORMAT", "json")
			_ = os.Setenv("RIICHI_REFRESH_INTERVAL", "90s")
			_ = os.Setenv("RIICHI_SOURCE__KIND", "xlsx")
			_ = os.Setenv("RIICHI_SOURCE__PATH", "/data/league.xlsx")
			_ = os.Setenv("RIICHI_SOURCE__CACHE_TTL", "1m")
			_ = os.Setenv("RIICHI_SCORING__OKA", "0")
			_ = os.Setenv("RIICHI_SCORING__UMA", "30, 10, -10, -30")
			_ = os.Setenv("RIICHI_RATING__INIT_MU", "1500")
			_ = os.Setenv("RIICHI_RATING__INIT_SIGMA", "500")
			_ = os.Setenv("RIICHI_LIMITS__REFRESH_PER_MINUTE", "5")
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then nested keys and lists should override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.RefreshInterval, convey.ShouldEqual, 90*time.Second)
				convey.So(cfg.Source.Kind, convey.ShouldEqual, config.SourceXLSX)
				convey.So(cfg.Source.Path, convey.ShouldEqual, "/data/league.xlsx")
				convey.So(cfg.Source.CacheTTL, convey.ShouldEqual, time.Minute)
				convey.So(cfg.Scoring.Oka, convey.ShouldEqual, 0)
				convey.So(cfg.Scoring.Uma, convey.ShouldResemble, []int{30, 10, -10, -30})
				convey.So(cfg.Rating.InitMu, convey.ShouldEqual, 1500.0)
				convey.So(cfg.Rating.InitSigma, convey.ShouldEqual, 500.0)
				convey.So(cfg.Limits.RefreshPerMinute, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
# league settings
addr: ":9090"
max_leaderboard_limit: 25
source:
  kind: http
  url: "https://docs.example.com/export?format=csv"
  timeout: 3s
scoring:
  oka: 0
  uma: [20, 10, -10, -20]
  target: 25000
rating:
  algorithm: openskill
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("RIICHI_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then it should load from YAML file and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 25)
				convey.So(cfg.Source.Kind, convey.ShouldEqual, config.SourceHTTP)
				convey.So(cfg.Source.Timeout, convey.ShouldEqual, 3*time.Second)
				convey.So(cfg.Source.CacheTTL, convey.ShouldEqual, 5*time.Minute)
				convey.So(cfg.Scoring.UmaArray(), convey.ShouldEqual, [4]int{20, 10, -10, -20})
				convey.So(cfg.Scoring.Target, convey.ShouldEqual, 25000)
				convey.So(cfg.Rating.Algorithm, convey.ShouldEqual, "openskill")
				convey.So(cfg.Rating.InitMu, convey.ShouldEqual, 25.0)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
scoring:
  target: 25000
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("RIICHI_CONFIG", tmpFile)
			_ = os.Setenv("RIICHI_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.Scoring.Target, convey.ShouldEqual, 25000)
			})
		})

		convey.Convey("When a shorter uma list is configured", func() {
			_ = os.Setenv("RIICHI_SCORING__UMA", "15,5,-5")
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then it replaces the default and fails validation", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("RIICHI_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("RIICHI_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("RIICHI_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("RIICHI_SCORING__OKA", "invalid")
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a negative oka", func() {
			_ = os.Setenv("RIICHI_SCORING__OKA", "-100")
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then validation should reject it", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"RIICHI_CONFIG",
		"RIICHI_ADDR",
		"RIICHI_LOG_FORMAT",
		"RIICHI_REFRESH_INTERVAL",
		"RIICHI_SOURCE__KIND",
		"RIICHI_SOURCE__PATH",
		"RIICHI_SOURCE__CACHE_TTL",
		"RIICHI_SCORING__OKA",
		"RIICHI_SCORING__UMA",
		"RIICHI_RATING__INIT_MU",
		"RIICHI_RATING__INIT_SIGMA",
		"RIICHI_LIMITS__REFRESH_PER_MINUTE",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "riichi-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
