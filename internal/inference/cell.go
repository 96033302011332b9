package inference

import (
	"fmt"
	"slices"
	"strings"
)

// Cell is a 0-indexed (row, column) board coordinate.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Cell implements [fmt.Stringer]
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Compare orders cells row-major.
func (c Cell) Compare(o Cell) int {
	if c.Row != o.Row {
		if c.Row < o.Row {
			return -1
		}
		return 1
	}
	if c.Col < o.Col {
		return -1
	}
	if c.Col > o.Col {
		return 1
	}
	return 0
}

// Neighbors returns the up to 8 cells around c that fit in a height x width
// board, in row-major order.
func (c Cell) Neighbors(height, width int) []Cell {
	ret := make([]Cell, 0, 8)
	for i := c.Row - 1; i <= c.Row+1; i++ {
		for j := c.Col - 1; j <= c.Col+1; j++ {
			if i == c.Row && j == c.Col {
				continue
			}
			if 0 <= i && i < height && 0 <= j && j < width {
				ret = append(ret, Cell{i, j})
			}
		}
	}
	return ret
}

type CellSet map[Cell]struct{}

func NewCellSet(cells ...Cell) CellSet {
	s := make(CellSet, len(cells))
	for _, c := range cells {
		s[c] = struct{}{}
	}
	return s
}

func (s CellSet) Add(c Cell) { s[c] = struct{}{} }

func (s CellSet) Remove(c Cell) { delete(s, c) }

func (s CellSet) Has(c Cell) bool {
	_, ok := s[c]
	return ok
}

func (s CellSet) Len() int { return len(s) }

func (s CellSet) Clone() CellSet {
	ret := make(CellSet, len(s))
	for c := range s {
		ret[c] = struct{}{}
	}
	return ret
}

// SubsetOf reports whether every member of s is in o.
func (s CellSet) SubsetOf(o CellSet) bool {
	if len(s) > len(o) {
		return false
	}
	for c := range s {
		if !o.Has(c) {
			return false
		}
	}
	return true
}

// Minus returns s - o as a new set.
func (s CellSet) Minus(o CellSet) CellSet {
	ret := make(CellSet, len(s))
	for c := range s {
		if !o.Has(c) {
			ret[c] = struct{}{}
		}
	}
	return ret
}

// Intersect returns s & o as a new set.
func (s CellSet) Intersect(o CellSet) CellSet {
	small, big := s, o
	if len(small) > len(big) {
		small, big = big, small
	}
	ret := make(CellSet)
	for c := range small {
		if big.Has(c) {
			ret[c] = struct{}{}
		}
	}
	return ret
}

func (s CellSet) Equal(o CellSet) bool {
	return len(s) == len(o) && s.SubsetOf(o)
}

// Sorted lists the members in row-major order.
func (s CellSet) Sorted() []Cell {
	ret := make([]Cell, 0, len(s))
	for c := range s {
		ret = append(ret, c)
	}
	slices.SortFunc(ret, Cell.Compare)
	return ret
}

// CellSet implements [fmt.Stringer]
func (s CellSet) String() string {
	parts := make([]string, 0, len(s))
	for _, c := range s.Sorted() {
		parts = append(parts, c.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
