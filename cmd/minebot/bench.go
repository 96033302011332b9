package main

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-agent/internal/game"
)

func newBenchCmd(o *options, concurrency int) *cobra.Command {
	var (
		games  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Play many games and report the win rate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			summary, err := game.RunBatch(
				ctx, o.params, games, concurrency, o.gameSeed(), o.sessionOptions()...,
			)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}
			fmt.Fprintf(out, "%s: %d games, %d won, %d lost, %d stuck\n",
				o.params, summary.Games, summary.Won, summary.Lost, summary.Stuck)
			fmt.Fprintf(out, "win rate %.1f%%, %d safe moves, %d random moves\n",
				summary.WinRate*100, summary.SafeMoves, summary.RandomMoves)
			return nil
		},
	}
	cmd.Flags().IntVarP(&games, "games", "n", 1000, "number of games")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", concurrency, "games played at once")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}
