package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/okian/riichi/internal/testleague"
	"github.com/spf13/cobra"
)

const outputFilePermission = 0o600

// Generate builds the synthetic league command.
func Generate() *cobra.Command {
	var (
		games   int
		players int
		seed    uint64
		start   string
		output  string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic league game log as CSV or XLSX",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().IntVar(&games, "games", 200, "Number of games")
	cmd.Flags().IntVar(&players, "players", 12, "Size of the player pool")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "Generator seed")
	cmd.Flags().StringVar(&start, "start", "2024-01-01", "Date of the first game (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, .csv or .xlsx (default stdout as CSV)")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		day, err := time.Parse(time.DateOnly, start)
		if err != nil {
			return fmt.Errorf("--start: %w", err)
		}
		records, err := testleague.Generate(testleague.GenerateConfig{
			Games:   games,
			Players: players,
			Seed:    seed,
			Start:   day,
		})
		if err != nil {
			return err
		}

		if output == "" {
			return testleague.WriteCSV(cmd.OutOrStdout(), records)
		}
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outputFilePermission)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()

		switch strings.ToLower(filepath.Ext(output)) {
		case ".xlsx":
			err = testleague.WriteXLSX(f, records)
		case ".csv":
			err = testleague.WriteCSV(f, records)
		default:
			return fmt.Errorf("%w: %q", testleague.ErrUnknownFormat, output)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d games to %s\n", games, output)
		return f.Close()
	}
	return cmd
}
