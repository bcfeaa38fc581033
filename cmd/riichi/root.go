package main

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/okian/riichi/internal/config"
	"github.com/okian/riichi/internal/domain/model"
	"github.com/okian/riichi/internal/domain/rating"
	"github.com/okian/riichi/internal/domain/scoring"
	"github.com/okian/riichi/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Root returns the riichi command tree.
func Root() *cobra.Command {
	root := &cobra.Command{
		Use:   "riichi",
		Short: "Riichi league rating tools",
		Long: heredoc.Doc(`riichi replays a four-player riichi league game log through
			the rating engine without a server, generates synthetic leagues,
			and checks a running server against a local replay.`),
		Args: cobra.NoArgs,

		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, _ := cmd.Flags().GetString("log-level")
			return logger.SetLevelString(level)
		},
	}

	root.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")

	root.AddCommand(Replay())
	root.AddCommand(Generate())
	root.AddCommand(Verify())
	return root
}

// ratingFlags binds scoring and prior flags with the server defaults.
type ratingFlags struct {
	oka       int
	uma       []int
	target    int
	initMu    float64
	initSigma float64
	algorithm string
}

func addRatingFlags(fs *pflag.FlagSet) *ratingFlags {
	def := config.New()
	f := &ratingFlags{}
	fs.IntVar(&f.oka, "oka", def.Scoring.Oka, "Oka, added to the winner")
	fs.IntSliceVar(&f.uma, "uma", def.Scoring.Uma, "Uma for 1st to 4th")
	fs.IntVar(&f.target, "target", def.Scoring.Target, "Target score")
	fs.Float64Var(&f.initMu, "init-mu", def.Rating.InitMu, "Initial mu")
	fs.Float64Var(&f.initSigma, "init-sigma", def.Rating.InitSigma, "Initial sigma")
	fs.StringVar(&f.algorithm, "algorithm", def.Rating.Algorithm, "Rating algorithm: trueskill or openskill")
	return f
}

func (f *ratingFlags) settings() (scoring.Config, rating.Prior, error) {
	var uma [model.SeatCount]int
	if len(f.uma) != len(uma) {
		return scoring.Config{}, rating.Prior{}, fmt.Errorf("%w: --uma needs %d values, got %d", scoring.ErrInvalidConfig, len(uma), len(f.uma))
	}
	copy(uma[:], f.uma)
	cfg := scoring.NewConfig(
		scoring.WithOka(f.oka),
		scoring.WithUma(uma),
		scoring.WithTarget(f.target),
	)
	if err := cfg.Validate(); err != nil {
		return scoring.Config{}, rating.Prior{}, err
	}
	prior := rating.Prior{Mu: f.initMu, Sigma: f.initSigma}
	if err := prior.Validate(); err != nil {
		return scoring.Config{}, rating.Prior{}, err
	}
	return cfg, prior, nil
}
