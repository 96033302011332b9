package game

import (
	"errors"
	"fmt"
	"hash/maphash"
)

var (
	ErrInvalidParams = errors.New("invalid game parameters")
	ErrGameOver      = errors.New("game is over")
	ErrUnsound       = errors.New("engine drew a conclusion the observations do not entail")
)

type Params struct {
	Height int `json:"height"`
	Width  int `json:"width"`
	Mines  int `json:"mines"`
}

var DefaultParams = Params{Height: 8, Width: 8, Mines: 8}

// MaxCells caps the board area.
const MaxCells = 1 << 16

func (p Params) Validate() error {
	switch {
	case p.Height <= 0 || p.Width <= 0:
		return fmt.Errorf("%w: board size %dx%d", ErrInvalidParams, p.Height, p.Width)
	case p.Height > MaxCells/p.Width:
		return fmt.Errorf("%w: board %dx%d has more than %d cells",
			ErrInvalidParams, p.Height, p.Width, MaxCells)
	case p.Mines < 0 || p.Mines > p.Height*p.Width:
		return fmt.Errorf("%w: %d mines on %dx%d", ErrInvalidParams, p.Mines, p.Height, p.Width)
	}
	return nil
}

func (p Params) String() string {
	return fmt.Sprintf("%dx%d(%d)", p.Height, p.Width, p.Mines)
}

// RandomSeed returns a seed that differs between calls.
func RandomSeed() uint64 {
	return new(maphash.Hash).Sum64()
}
