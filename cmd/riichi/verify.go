package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/riichi/internal/testleague"
	"github.com/spf13/cobra"
)

// Verify builds the served-versus-local check command.
func Verify() *cobra.Command {
	var cfg testleague.Config
	var deadline time.Duration
	cmd := &cobra.Command{
		Use:   "verify game-log",
		Short: "Compare a server's leaderboard with a local replay of the same log",
		Args:  cobra.ExactArgs(1),
	}
	rf := addRatingFlags(cmd.Flags())
	cmd.Flags().StringVar(&cfg.BaseURL, "url", "http://localhost:9080", "Base URL of the service")
	cmd.Flags().StringVar(&cfg.Sheet, "sheet", "", "XLSX sheet name (default first sheet)")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", 30*time.Second, "HTTP request timeout")
	cmd.Flags().DurationVar(&deadline, "deadline", 5*time.Minute, "Overall time limit")
	cmd.Flags().BoolVar(&cfg.Refresh, "refresh", false, "Force a server refresh before comparing")
	cmd.Flags().IntVar(&cfg.TopN, "top", 100, "Number of standings to compare; 0 compares all the server serves")
	cmd.Flags().Float64Var(&cfg.Tolerance, "tolerance", 1e-9, "Allowed difference of R, mu and sigma")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		sc, prior, err := rf.settings()
		if err != nil {
			return err
		}
		cfg.Source = args[0]
		cfg.Scoring, cfg.Prior, cfg.Algorithm = sc, prior, rf.algorithm

		ctx, cancel := context.WithTimeout(cmd.Context(), deadline)
		defer cancel()

		report, err := testleague.Verify(ctx, cfg)
		out := cmd.OutOrStdout()
		if err != nil && !errors.Is(err, testleague.ErrMismatch) {
			return err
		}
		fmt.Fprintf(out, "games %d, local %d, served %d, compared %d in %s\n",
			report.Games, report.Local, report.Served, report.Compared, report.Duration.Round(time.Millisecond))
		for _, m := range report.Mismatches {
			fmt.Fprintln(out, "  "+m.String())
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "OK")
		return nil
	}
	return cmd
}
