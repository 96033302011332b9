package board

import (
	"fmt"
	"strconv"
	"strings"
)

type CellState int8

const (
	Unknown          CellState = -2
	Flagged          CellState = -1
	CorrectlyFlagged CellState = 64
	ExplodedMine     CellState = 65
	FalselyFlagged   CellState = 66
	UnflaggedMine    CellState = 67
	/*
	 * Each item in the player grid is one of the following values:
	 *
	 * 	- 0 to 8 mean the cell is revealed and has a surrounding mine
	 * 	  count.
	 *
	 * 	- -1 means the cell is flagged as a mine.
	 *
	 * 	- -2 means the cell is unknown.
	 *
	 * 	- 64 and up only appear once the board is exposed after the game:
	 * 	  a correct flag, the mine that was hit, a wrong flag and a mine
	 * 	  nobody flagged.
	 */
)

func (s CellState) Revealed() bool { return 0 <= s && s <= 8 }

func (s CellState) String() string {
	switch {
	case s == Unknown:
		return " "
	case s == Flagged:
		return "*"
	case s.Revealed():
		return strconv.Itoa(int(s))
	case s == CorrectlyFlagged:
		return "F"
	case s == ExplodedMine:
		return "X"
	case s == FalselyFlagged:
		return "x"
	case s == UnflaggedMine:
		return "M"
	default:
		return "!"
	}
}

// Grid is the player's view of a board in row-major order.
type Grid []CellState

func (g Grid) ToString(width int) string {
	var b strings.Builder
	for y := range len(g) / width {
		for x := range width {
			fmt.Fprint(&b, g[y*width+x].String()+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}
