package config

import (
	"os"

	"github.com/vancomm/minesweeper-agent/internal/game"
)

// Agent holds the defaults for games the server and the CLI start.
type Agent struct {
	Params         game.Params
	Audit          bool
	MaxConcurrency int
}

func NewAgent() (*Agent, error) {
	cfg := &Agent{Params: game.DefaultParams}

	var err error
	if cfg.Params.Height, err = lookupInt("AGENT_HEIGHT", cfg.Params.Height); err != nil {
		return nil, err
	}
	if cfg.Params.Width, err = lookupInt("AGENT_WIDTH", cfg.Params.Width); err != nil {
		return nil, err
	}
	if cfg.Params.Mines, err = lookupInt("AGENT_MINES", cfg.Params.Mines); err != nil {
		return nil, err
	}
	if err := cfg.Params.Validate(); err != nil {
		return nil, err
	}
	if cfg.MaxConcurrency, err = lookupInt("AGENT_MAX_CONCURRENCY", 4); err != nil {
		return nil, err
	}
	audit, ok := os.LookupEnv("AGENT_AUDIT")
	cfg.Audit = ok && audit != "0"

	return cfg, nil
}
