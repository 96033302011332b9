package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatementKnownCells(t *testing.T) {
	cells := NewCellSet(Cell{1, 1}, Cell{1, 2})

	tests := []struct {
		name  string
		count int
		mines CellSet
		safes CellSet
	}{
		{"all mines", 2, cells, CellSet{}},
		{"all safe", 0, CellSet{}, cells},
		{"undetermined", 1, CellSet{}, CellSet{}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := NewStatement(cells, test.count)
			assert.True(t, test.mines.Equal(s.KnownMines()), "known mines: %s", s.KnownMines())
			assert.True(t, test.safes.Equal(s.KnownSafes()), "known safes: %s", s.KnownSafes())
			assert.Equal(t, test.count, s.Count())
			assert.Equal(t, 2, s.Len())
		})
	}
}

func TestStatementEmptyIsNeitherMineNorSafe(t *testing.T) {
	s := NewStatement(CellSet{}, 0)
	assert.Empty(t, s.KnownMines())
	assert.Empty(t, s.KnownSafes())
	assert.True(t, s.Resolved())
}

func TestStatementKnownCellsAreCopies(t *testing.T) {
	s := NewStatement(NewCellSet(Cell{0, 0}), 0)
	safes := s.KnownSafes()
	safes.Remove(Cell{0, 0})
	assert.True(t, s.Contains(Cell{0, 0}))
}

func TestStatementMarkMine(t *testing.T) {
	s := NewStatement(NewCellSet(Cell{0, 0}, Cell{0, 1}, Cell{0, 2}), 2)

	s.MarkMine(Cell{5, 5})
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 2, s.Count())

	s.MarkMine(Cell{0, 1})
	assert.False(t, s.Contains(Cell{0, 1}))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 1, s.Count())
}

func TestStatementMarkSafe(t *testing.T) {
	s := NewStatement(NewCellSet(Cell{0, 0}, Cell{0, 1}, Cell{0, 2}), 2)

	s.MarkSafe(Cell{0, 0})
	assert.False(t, s.Contains(Cell{0, 0}))
	assert.Equal(t, 2, s.Count())
	assert.True(t, NewCellSet(Cell{0, 1}, Cell{0, 2}).Equal(s.KnownMines()))

	s.MarkSafe(Cell{0, 0})
	assert.Equal(t, 2, s.Len())
}

func TestStatementMarkMineThenSafe(t *testing.T) {
	cells := NewCellSet(Cell{0, 0}, Cell{0, 1})
	c := Cell{0, 0}

	mineOnly := NewStatement(cells, 1)
	mineOnly.MarkMine(c)

	mineThenSafe := NewStatement(cells, 1)
	mineThenSafe.MarkMine(c)
	mineThenSafe.MarkSafe(c)
	assert.True(t, mineOnly.Equal(mineThenSafe))

	safeOnly := NewStatement(cells, 1)
	safeOnly.MarkSafe(c)

	safeThenMine := NewStatement(cells, 1)
	safeThenMine.MarkSafe(c)
	safeThenMine.MarkMine(c)
	assert.True(t, safeOnly.Equal(safeThenMine))
}

func TestStatementInvariant(t *testing.T) {
	assert.Panics(t, func() { NewStatement(NewCellSet(Cell{0, 0}), 2) })
	assert.Panics(t, func() { NewStatement(NewCellSet(Cell{0, 0}), -1) })
	assert.Panics(t, func() { NewStatement(CellSet{}, 1) })

	s := NewStatement(NewCellSet(Cell{0, 0}, Cell{0, 1}), 0)
	assert.PanicsWithValue(t,
		AssertionError{"statement {(0,1)} = -1: count out of range"},
		func() { s.MarkMine(Cell{0, 0}) },
	)

	s = NewStatement(NewCellSet(Cell{0, 0}, Cell{0, 1}), 2)
	assert.Panics(t, func() { s.MarkSafe(Cell{0, 0}) })
}

func TestStatementInvariantHoldsAfterQueries(t *testing.T) {
	cells := NewCellSet(Cell{0, 0}, Cell{0, 1}, Cell{1, 0})
	for count := range cells.Len() + 1 {
		s := NewStatement(cells, count)
		s.KnownMines()
		s.KnownSafes()
		require.NotPanics(t, s.check)
		assert.Equal(t, count, s.Count())
		assert.True(t, cells.Equal(s.Cells()))
	}
}

func TestStatementEqual(t *testing.T) {
	a := NewStatement(NewCellSet(Cell{0, 0}, Cell{0, 1}), 1)
	b := NewStatement(NewCellSet(Cell{0, 1}, Cell{0, 0}), 1)
	c := NewStatement(NewCellSet(Cell{0, 1}, Cell{0, 0}), 2)
	d := NewStatement(NewCellSet(Cell{0, 1}, Cell{1, 0}), 1)

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.key(), b.key())
	assert.False(t, a.Equal(c))
	assert.NotEqual(t, a.key(), c.key())
	assert.False(t, a.Equal(d))
	assert.Equal(t, "{(0,0), (0,1)} = 1", a.String())
}
