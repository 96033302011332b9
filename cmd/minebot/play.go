package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-agent/internal/game"
)

func newPlayCmd(o *options) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play one game and print the board after every move",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			s, err := game.NewSession(o.params, o.gameSeed(), o.sessionOptions()...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s seed %d\n", s.Params, s.Seed)
			return play(ctx, out, s, !quiet, o.verbose)
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only print the final board")
	return cmd
}

func play(ctx context.Context, out io.Writer, s *game.Session, boards, knowledge bool) error {
	for !s.Status().Over() {
		if err := ctx.Err(); err != nil {
			return err
		}
		m, ok, err := s.Step()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if !boards {
			continue
		}
		if m.Mine {
			fmt.Fprintf(out, "%s move %s: mine\n", m.Strategy, m.Cell)
		} else {
			fmt.Fprintf(out, "%s move %s: %d\n", m.Strategy, m.Cell, m.Count)
		}
		fmt.Fprint(out, s.Board())
		if knowledge {
			for _, st := range s.Engine().Knowledge() {
				fmt.Fprintf(out, "  %s\n", st)
			}
		}
	}

	if !boards {
		fmt.Fprint(out, s.Board())
	}
	safe, random := s.MoveCounts()
	fmt.Fprintf(out, "%s after %d moves (%d safe, %d random)\n",
		s.Status(), safe+random, safe, random)
	return nil
}
