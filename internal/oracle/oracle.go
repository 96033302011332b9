/*
Package oracle decides exactly what a set of minesweeper observations
entails. Every observation is compiled into a boolean circuit with one
variable per cell ("this cell is a mine") and handed to a SAT solver: a cell
is known safe when assuming it is a mine is unsatisfiable, and vice versa.

It is far slower than the inference engine and is used to audit it.
*/
package oracle

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"

	"github.com/vancomm/minesweeper-agent/internal/inference"
)

type Cell = inference.Cell

var ErrInconsistent = errors.New("observations are inconsistent")

type Verdict int

const (
	Unknown Verdict = iota
	Safe
	Mine
)

func (v Verdict) String() string {
	switch v {
	case Safe:
		return "safe"
	case Mine:
		return "mine"
	default:
		return "unknown"
	}
}

// Oracle accumulates exactly-k constraints over cells. The zero value is not
// usable; call [New].
type Oracle struct {
	c    *logic.C
	lits map[Cell]z.Lit
	// each literal must hold
	constraints []z.Lit
	// statements already compiled, by canonical text
	seen map[string]bool
}

func New() *Oracle {
	return &Oracle{
		c:    logic.NewC(),
		lits: make(map[Cell]z.Lit),
		seen: make(map[string]bool),
	}
}

// FromEngine compiles the engine's current knowledge: its statements, known
// safes and known mines.
func FromEngine(e *inference.Engine) *Oracle {
	o := New()
	for c := range e.Safes() {
		o.Safe(c)
	}
	for c := range e.Mines() {
		o.Mine(c)
	}
	for _, s := range e.Knowledge() {
		o.Exactly(s.Cells().Sorted(), s.Count())
	}
	return o
}

func (o *Oracle) litOf(c Cell) z.Lit {
	m, ok := o.lits[c]
	if !ok {
		m = o.c.Lit()
		o.lits[c] = m
	}
	return m
}

// Safe records that c holds no mine.
func (o *Oracle) Safe(c Cell) { o.Exactly([]Cell{c}, 0) }

// Mine records that c holds a mine.
func (o *Oracle) Mine(c Cell) { o.Exactly([]Cell{c}, 1) }

// Observe records a probe: c is safe and exactly count of its neighbours are
// mines.
func (o *Oracle) Observe(c Cell, count int, neighbors []Cell) {
	o.Safe(c)
	o.Exactly(neighbors, count)
}

// Exactly records that exactly count of cells are mines. A count outside
// [0, len(cells)] makes the oracle inconsistent.
func (o *Oracle) Exactly(cells []Cell, count int) {
	cells = sortedCopy(cells)
	key := fmt.Sprint(cells, count)
	if o.seen[key] {
		return
	}
	o.seen[key] = true

	ms := make([]z.Lit, len(cells))
	for i, c := range cells {
		ms[i] = o.litOf(c)
	}

	switch {
	case count < 0 || count > len(ms):
		o.constraints = append(o.constraints, o.c.F)
	case count == 0:
		for _, m := range ms {
			o.constraints = append(o.constraints, m.Not())
		}
	case count == len(ms):
		o.constraints = append(o.constraints, ms...)
	default:
		cards := o.c.CardSort(ms)
		o.constraints = append(o.constraints, o.c.And(cards.Leq(count), cards.Geq(count)))
	}
}

func sortedCopy(cells []Cell) []Cell {
	ret := slices.Clone(cells)
	slices.SortFunc(ret, Cell.Compare)
	return slices.Compact(ret)
}

func (o *Oracle) solver() *gini.Gini {
	g := gini.New()
	o.c.ToCnf(g)
	for _, m := range o.constraints {
		g.Add(m)
		g.Add(z.LitNull)
	}
	return g
}

func sat(g *gini.Gini, assumptions ...z.Lit) bool {
	g.Assume(assumptions...)
	return g.Solve() == 1
}

// Consistent reports whether some mine layout satisfies every constraint.
func (o *Oracle) Consistent() bool {
	return sat(o.solver())
}

func (o *Oracle) verdict(g *gini.Gini, c Cell) Verdict {
	m, ok := o.lits[c]
	if !ok {
		return Unknown
	}
	canBeMine := sat(g, m)
	canBeSafe := sat(g, m.Not())
	switch {
	case canBeMine && !canBeSafe:
		return Mine
	case canBeSafe && !canBeMine:
		return Safe
	default:
		return Unknown
	}
}

// Verdict tells whether c is entailed to be safe or a mine. Cells that no
// constraint mentions are always [Unknown], as is every cell of an
// inconsistent oracle.
func (o *Oracle) Verdict(c Cell) Verdict {
	return o.verdict(o.solver(), c)
}

// Analysis lists every cell the constraints decide, in row-major order.
type Analysis struct {
	Safes []Cell `json:"safes"`
	Mines []Cell `json:"mines"`
}

func (o *Oracle) Analyze() (Analysis, error) {
	g := o.solver()
	if !sat(g) {
		return Analysis{}, ErrInconsistent
	}
	cells := make([]Cell, 0, len(o.lits))
	for c := range o.lits {
		cells = append(cells, c)
	}
	slices.SortFunc(cells, Cell.Compare)

	var a Analysis
	for _, c := range cells {
		switch o.verdict(g, c) {
		case Safe:
			a.Safes = append(a.Safes, c)
		case Mine:
			a.Mines = append(a.Mines, c)
		}
	}
	return a, nil
}

// Unentailed returns the cells of safes and mines that the constraints do not
// force to be safe and mined respectively.
func (o *Oracle) Unentailed(safes, mines []Cell) (badSafes, badMines []Cell, err error) {
	g := o.solver()
	if !sat(g) {
		return nil, nil, ErrInconsistent
	}
	for _, c := range safes {
		if o.verdict(g, c) != Safe {
			badSafes = append(badSafes, c)
		}
	}
	for _, c := range mines {
		if o.verdict(g, c) != Mine {
			badMines = append(badMines, c)
		}
	}
	return badSafes, badMines, nil
}
