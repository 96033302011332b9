package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-agent/internal/inference"
)

func TestExactly(t *testing.T) {
	row := []Cell{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}}

	tests := []struct {
		name  string
		count int
		want  []Verdict
	}{
		{"none", 0, []Verdict{Safe, Safe, Safe}},
		{"all", 3, []Verdict{Mine, Mine, Mine}},
		{"some", 1, []Verdict{Unknown, Unknown, Unknown}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			o := New()
			o.Exactly(row, test.count)
			require.True(t, o.Consistent())
			for i, c := range row {
				assert.Equal(t, test.want[i], o.Verdict(c), "cell %s", c)
			}
		})
	}
}

func TestOneTwoPattern(t *testing.T) {
	o := New()
	o.Exactly([]Cell{{Row: 1, Col: 0}, {Row: 1, Col: 1}, {Row: 1, Col: 2}}, 2)
	o.Exactly([]Cell{{Row: 1, Col: 1}, {Row: 1, Col: 2}, {Row: 1, Col: 3}}, 1)

	a, err := o.Analyze()
	require.NoError(t, err)
	assert.Equal(t, []Cell{{Row: 1, Col: 3}}, a.Safes)
	assert.Equal(t, []Cell{{Row: 1, Col: 0}}, a.Mines)
}

func TestObserve(t *testing.T) {
	// a 1x3 row with the mine on the left
	o := New()
	o.Observe(Cell{Row: 0, Col: 1}, 1, []Cell{{Row: 0, Col: 0}, {Row: 0, Col: 2}})
	assert.Equal(t, Safe, o.Verdict(Cell{Row: 0, Col: 1}))
	assert.Equal(t, Unknown, o.Verdict(Cell{Row: 0, Col: 0}))

	o.Observe(Cell{Row: 0, Col: 2}, 0, []Cell{{Row: 0, Col: 1}})
	assert.Equal(t, Safe, o.Verdict(Cell{Row: 0, Col: 2}))
	assert.Equal(t, Mine, o.Verdict(Cell{Row: 0, Col: 0}))
	assert.Equal(t, Unknown, o.Verdict(Cell{Row: 5, Col: 5}), "unmentioned cell")
}

func TestInconsistent(t *testing.T) {
	o := New()
	o.Mine(Cell{Row: 0, Col: 0})
	assert.True(t, o.Consistent())
	o.Safe(Cell{Row: 0, Col: 0})
	assert.False(t, o.Consistent())

	_, err := o.Analyze()
	assert.ErrorIs(t, err, ErrInconsistent)
	_, _, err = o.Unentailed(nil, nil)
	assert.ErrorIs(t, err, ErrInconsistent)
	assert.Equal(t, Unknown, o.Verdict(Cell{Row: 0, Col: 0}))

	o = New()
	o.Exactly([]Cell{{Row: 0, Col: 0}}, 2)
	assert.False(t, o.Consistent())
}

func TestUnentailed(t *testing.T) {
	o := New()
	o.Exactly([]Cell{{Row: 0, Col: 0}, {Row: 0, Col: 1}}, 1)
	o.Safe(Cell{Row: 0, Col: 1})

	badSafes, badMines, err := o.Unentailed(
		[]Cell{{Row: 0, Col: 1}},
		[]Cell{{Row: 0, Col: 0}, {Row: 0, Col: 1}},
	)
	require.NoError(t, err)
	assert.Empty(t, badSafes)
	assert.Equal(t, []Cell{{Row: 0, Col: 1}}, badMines)
}

func TestFromEngine(t *testing.T) {
	e, err := inference.New(1, 3)
	require.NoError(t, err)
	require.NoError(t, e.MarkMine(Cell{Row: 0, Col: 0}))
	require.NoError(t, e.AddKnowledge(Cell{Row: 0, Col: 1}, 1))

	o := FromEngine(e)
	a, err := o.Analyze()
	require.NoError(t, err)
	assert.Equal(t, []Cell{{Row: 0, Col: 1}, {Row: 0, Col: 2}}, a.Safes)
	assert.Equal(t, []Cell{{Row: 0, Col: 0}}, a.Mines)
}

func TestDuplicateConstraintsAreIgnored(t *testing.T) {
	o := New()
	o.Exactly([]Cell{{Row: 0, Col: 1}, {Row: 0, Col: 0}}, 1)
	o.Exactly([]Cell{{Row: 0, Col: 0}, {Row: 0, Col: 1}}, 1)
	assert.Len(t, o.constraints, 1)
}
