package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/okian/riichi/internal/domain/leaderboard"
	"github.com/okian/riichi/internal/domain/model"
	"github.com/okian/riichi/internal/domain/replay"
	"github.com/okian/riichi/internal/testleague"
	"github.com/spf13/cobra"
)

// Replay builds the offline replay command.
func Replay() *cobra.Command {
	var (
		sheet  string
		top    int
		player string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "replay game-log",
		Short: "Replay a CSV or XLSX game log and print the leaderboard",
		Args:  cobra.ExactArgs(1),
	}
	rf := addRatingFlags(cmd.Flags())
	cmd.Flags().StringVar(&sheet, "sheet", "", "XLSX sheet name (default first sheet)")
	cmd.Flags().IntVar(&top, "top", 0, "Print only the first N standings")
	cmd.Flags().StringVar(&player, "player", "", "Print this player's game log instead of the leaderboard")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, prior, err := rf.settings()
		if err != nil {
			return err
		}
		l, err := testleague.LoaderFor(args[0], sheet)
		if err != nil {
			return err
		}
		res, standings, err := testleague.Replay(cmd.Context(), l,
			replay.WithScoring(cfg),
			replay.WithPrior(prior),
			replay.WithAlgorithm(rf.algorithm),
		)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if player != "" {
			log := leaderboard.PlayerLog(res.History, player)
			if len(log) == 0 {
				return fmt.Errorf("player %q not found", player)
			}
			if asJSON {
				return writeJSON(out, log)
			}
			return printLog(out, log)
		}

		if top > 0 && top < len(standings) {
			standings = standings[:top]
		}
		if asJSON {
			return writeJSON(out, standings)
		}
		fmt.Fprintf(out, "%d games, %d players\n\n", res.Games, res.Players)
		return printStandings(out, standings)
	}
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printStandings(w io.Writer, standings []model.Standing) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tPlayer\tR\tmu\tsigma\tGames\t+/-\tLast\t")
	for _, s := range standings {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%.2f\t%.2f\t%d\t%+.1f\t%s\t\n",
			s.Rank, s.Player, s.R, s.Mu, s.Sigma, s.Games, s.PlusMinusTotal, s.Date)
	}
	return tw.Flush()
}

func printLog(w io.Writer, log []model.Snapshot) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Game\tDate\tSeat\tPoints\tPlace\t+/-\tR\t")
	for _, s := range log {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%+.1f\t%.2f\t\n",
			s.GameID, s.Date, s.Seat, s.Points, s.Place+1, s.PlusMinus, s.R)
	}
	return tw.Flush()
}
