package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-agent/internal/config"
	"github.com/vancomm/minesweeper-agent/internal/game"
)

type options struct {
	params  game.Params
	audit   bool
	seed    uint64
	verbose bool
	logFile string
}

func newRootCmd() *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:          "minebot",
		Short:        "A minesweeper playing agent",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setupLogging(cmd)
		},
	}

	defaults, err := config.NewAgent()
	if err != nil {
		logrus.WithError(err).Warn("ignoring agent env config")
		defaults = &config.Agent{Params: game.DefaultParams, MaxConcurrency: 4}
	}

	flags := cmd.PersistentFlags()
	flags.IntVar(&o.params.Height, "height", defaults.Params.Height, "board height")
	flags.IntVar(&o.params.Width, "width", defaults.Params.Width, "board width")
	flags.IntVar(&o.params.Mines, "mines", defaults.Params.Mines, "number of mines")
	flags.Uint64Var(&o.seed, "seed", 0, "game seed, random when 0")
	flags.BoolVar(&o.audit, "audit", defaults.Audit, "check every engine conclusion with a SAT solver")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "use debug log level")
	flags.StringVar(&o.logFile, "log-file", "", "also write logs to this file, rotated")

	cmd.AddCommand(newPlayCmd(o), newBenchCmd(o, defaults.MaxConcurrency))
	return cmd
}

func (o *options) setupLogging(cmd *cobra.Command) error {
	game.Log.SetOutput(cmd.ErrOrStderr())
	game.Log.SetFormatter(&logrus.TextFormatter{ForceColors: true})
	level := logrus.InfoLevel
	if o.verbose {
		level = logrus.DebugLevel
	}
	game.Log.SetLevel(level)

	if o.logFile == "" {
		return nil
	}
	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   o.logFile,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Level:      level,
		Formatter:  &logrus.JSONFormatter{},
	})
	if err != nil {
		return err
	}
	game.Log.AddHook(hook)
	return nil
}

func (o *options) sessionOptions() []game.Option {
	return []game.Option{game.WithAudit(o.audit)}
}

func (o *options) gameSeed() uint64 {
	if o.seed == 0 {
		return game.RandomSeed()
	}
	return o.seed
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
