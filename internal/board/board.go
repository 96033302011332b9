package board

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/vancomm/minesweeper-agent/internal/inference"
)

var (
	ErrOutOfBounds  = errors.New("cell out of bounds")
	ErrTooManyMines = errors.New("too many mines")
	ErrGameOver     = errors.New("game is over")
)

type Cell = inference.Cell

// Board holds the real mine layout and what has been revealed and flagged so
// far. A Board is not safe for concurrent use.
type Board struct {
	height, width int
	mines         []bool /* real mine points */
	player        Grid   /* player knowledge */
	dead          bool
}

// New places mines at random cells.
func New(height, width, mines int, r *rand.Rand) (*Board, error) {
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("invalid board size %dx%d", height, width)
	}
	if mines < 0 {
		return nil, fmt.Errorf("invalid mine count %d", mines)
	}
	grid, err := placeMines(height, width, mines, r)
	if err != nil {
		return nil, err
	}
	return newBoard(height, width, grid), nil
}

// FromMines builds a board with mines exactly at the given cells.
func FromMines(height, width int, mines ...Cell) (*Board, error) {
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("invalid board size %dx%d", height, width)
	}
	grid := make([]bool, height*width)
	for _, c := range mines {
		if !inBounds(height, width, c) {
			return nil, fmt.Errorf("%w: mine at %s", ErrOutOfBounds, c)
		}
		grid[c.Row*width+c.Col] = true
	}
	return newBoard(height, width, grid), nil
}

func newBoard(height, width int, grid []bool) *Board {
	player := make(Grid, len(grid))
	for i := range player {
		player[i] = Unknown
	}
	return &Board{height: height, width: width, mines: grid, player: player}
}

func inBounds(height, width int, c Cell) bool {
	return 0 <= c.Row && c.Row < height && 0 <= c.Col && c.Col < width
}

func (b *Board) Height() int { return b.height }

func (b *Board) Width() int { return b.width }

func (b *Board) InBounds(c Cell) bool { return inBounds(b.height, b.width, c) }

func (b *Board) index(c Cell) int { return c.Row*b.width + c.Col }

// MineCount is the number of mines on the board.
func (b *Board) MineCount() (count int) {
	for _, m := range b.mines {
		if m {
			count++
		}
	}
	return
}

// Mines lists the mine cells in row-major order.
func (b *Board) Mines() []Cell {
	var ret []Cell
	for i, m := range b.mines {
		if m {
			ret = append(ret, Cell{Row: i / b.width, Col: i % b.width})
		}
	}
	return ret
}

// IsMine panics if c is out of bounds.
func (b *Board) IsMine(c Cell) bool {
	if !b.InBounds(c) {
		panic(fmt.Sprintf("board: %s out of bounds", c))
	}
	return b.mines[b.index(c)]
}

// NearbyMines counts the mines among the up to eight neighbours of c, not
// including c itself.
func (b *Board) NearbyMines(c Cell) int {
	n := 0
	for _, nb := range c.Neighbors(b.height, b.width) {
		if b.mines[b.index(nb)] {
			n++
		}
	}
	return n
}

// Reveal opens c. Opening a mine ends the game and returns [ExplodedMine];
// otherwise the returned state is the number of neighbouring mines. Revealing
// an open cell returns its state again.
func (b *Board) Reveal(c Cell) (CellState, error) {
	if !b.InBounds(c) {
		return 0, fmt.Errorf("%w: %s", ErrOutOfBounds, c)
	}
	if b.dead {
		return 0, ErrGameOver
	}
	i := b.index(c)
	if b.player[i].Revealed() {
		return b.player[i], nil
	}
	if b.mines[i] {
		/*
		 * Expose the mine that was hit, but not the rest.
		 */
		b.dead = true
		b.player[i] = ExplodedMine
		return ExplodedMine, nil
	}
	b.player[i] = CellState(b.NearbyMines(c))
	return b.player[i], nil
}

// Flag marks c as a mine. Flagging a revealed cell is an error.
func (b *Board) Flag(c Cell) error {
	if !b.InBounds(c) {
		return fmt.Errorf("%w: %s", ErrOutOfBounds, c)
	}
	i := b.index(c)
	switch {
	case b.player[i] == Unknown:
		b.player[i] = Flagged
	case b.player[i] == Flagged:
	default:
		return fmt.Errorf("cannot flag revealed cell %s", c)
	}
	return nil
}

func (b *Board) Dead() bool { return b.dead }

// Won reports whether the flagged cells are exactly the mines.
func (b *Board) Won() bool {
	if b.dead {
		return false
	}
	for i, m := range b.mines {
		if m != (b.player[i] == Flagged) {
			return false
		}
	}
	return true
}

// Cleared reports whether every safe cell has been revealed.
func (b *Board) Cleared() bool {
	if b.dead {
		return false
	}
	for i, m := range b.mines {
		if !m && !b.player[i].Revealed() {
			return false
		}
	}
	return true
}

// Grid returns a copy of the player's view.
func (b *Board) Grid() Grid {
	return append(Grid(nil), b.player...)
}

// Exposed returns the player's view with every cell uncovered, the way it is
// shown once the game is over. The board itself is left untouched.
func (b *Board) Exposed() Grid {
	grid := b.Grid()
	for i, m := range b.mines {
		switch {
		case grid[i] == Flagged && m:
			grid[i] = CorrectlyFlagged
		case grid[i] == Flagged:
			grid[i] = FalselyFlagged
		case grid[i] == Unknown && m:
			grid[i] = UnflaggedMine
		case grid[i] == Unknown:
			grid[i] = CellState(b.NearbyMines(Cell{Row: i / b.width, Col: i % b.width}))
		}
	}
	return grid
}

// String draws the mine layout, one "|X" or "| " per cell between rule rows.
func (b *Board) String() string {
	var sb strings.Builder
	rule := strings.Repeat("--", b.width) + "-\n"
	for i := range b.height {
		sb.WriteString(rule)
		for j := range b.width {
			if b.mines[i*b.width+j] {
				sb.WriteString("|X")
			} else {
				sb.WriteString("| ")
			}
		}
		sb.WriteString("|\n")
	}
	sb.WriteString(rule)
	return sb.String()
}

type boardState struct {
	Height, Width int
	Mines         []bool
	Player        Grid
	Dead          bool
}

func (b *Board) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(boardState{
		Height: b.height, Width: b.width,
		Mines: b.mines, Player: b.player, Dead: b.dead,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func Decode(buf []byte) (*Board, error) {
	var s boardState
	if err := gob.NewDecoder(bytes.NewReader(buf)).Decode(&s); err != nil {
		return nil, err
	}
	if s.Height <= 0 || s.Width <= 0 ||
		len(s.Mines) != s.Height*s.Width || len(s.Player) != len(s.Mines) {
		return nil, fmt.Errorf("malformed board state %dx%d", s.Height, s.Width)
	}
	return &Board{
		height: s.Height, width: s.Width,
		mines: s.Mines, player: s.Player, dead: s.Dead,
	}, nil
}
