package inference

import (
	"fmt"
	"strconv"
	"strings"
)

/*
A Statement asserts that exactly count of its cells are mines and the rest
are safe. The engine rewrites statements in place as cells get resolved, so
they are always handled by pointer inside the knowledge base.
*/
type Statement struct {
	cells CellSet
	count int
}

// panics [AssertionError]
func NewStatement(cells CellSet, count int) *Statement {
	s := &Statement{cells: cells.Clone(), count: count}
	s.check()
	return s
}

func (s *Statement) check() {
	assertf(0 <= s.count && s.count <= len(s.cells),
		"statement %s = %d: count out of range", s.cells, s.count)
}

// Cells returns a copy of the statement's cell set.
func (s *Statement) Cells() CellSet { return s.cells.Clone() }

func (s *Statement) Count() int { return s.count }

func (s *Statement) Len() int { return len(s.cells) }

func (s *Statement) Contains(c Cell) bool { return s.cells.Has(c) }

// Resolved reports whether every cell of s is known: all mines or all safe.
func (s *Statement) Resolved() bool {
	return s.count == 0 || s.count == len(s.cells)
}

// KnownMines returns the cells of s known to be mines.
func (s *Statement) KnownMines() CellSet {
	if s.count > 0 && s.count == len(s.cells) {
		return s.cells.Clone()
	}
	return CellSet{}
}

// KnownSafes returns the cells of s known to be safe.
func (s *Statement) KnownSafes() CellSet {
	if s.count == 0 {
		return s.cells.Clone()
	}
	return CellSet{}
}

// MarkMine drops c, which is known to be a mine, from s.
//
// panics [AssertionError]
func (s *Statement) MarkMine(c Cell) {
	if !s.cells.Has(c) {
		return
	}
	s.cells.Remove(c)
	s.count--
	s.check()
}

// MarkSafe drops c, which is known to be safe, from s.
//
// panics [AssertionError]
func (s *Statement) MarkSafe(c Cell) {
	if !s.cells.Has(c) {
		return
	}
	s.cells.Remove(c)
	s.check()
}

func (s *Statement) Equal(o *Statement) bool {
	return s.count == o.count && s.cells.Equal(o.cells)
}

// key is a canonical encoding of s: two statements share a key iff they are
// equal.
func (s *Statement) key() string {
	var b strings.Builder
	for _, c := range s.cells.Sorted() {
		b.WriteString(strconv.Itoa(c.Row))
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(c.Col))
		b.WriteByte(';')
	}
	b.WriteByte('=')
	b.WriteString(strconv.Itoa(s.count))
	return b.String()
}

// Statement implements [fmt.Stringer]
func (s *Statement) String() string {
	return fmt.Sprintf("%s = %d", s.cells, s.count)
}
