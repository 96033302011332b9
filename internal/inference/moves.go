package inference

// unconstrained reports whether c only appears in statements with a count of
// zero.
func (e *Engine) unconstrained(c Cell) bool {
	for _, s := range e.knowledge {
		if s.count != 0 && s.cells.Has(c) {
			return false
		}
	}
	return true
}

func (e *Engine) pick(cells []Cell) (Cell, bool) {
	if len(cells) == 0 {
		return Cell{}, false
	}
	return cells[e.rnd.IntN(len(cells))], true
}

// MakeSafeMove returns a cell known to be safe that has not been played yet.
// It returns false when there is none. It does not modify the engine.
func (e *Engine) MakeSafeMove() (Cell, bool) {
	var candidates []Cell
	for _, c := range e.safes.Minus(e.movesMade).Sorted() {
		if e.unconstrained(c) {
			candidates = append(candidates, c)
		}
	}
	return e.pick(candidates)
}

/*
MakeRandomMove returns a cell that has not been played and is not a known
mine, preferring cells that no open statement constrains. It returns false
once every cell is either played or a known mine. It does not modify the
engine.
*/
func (e *Engine) MakeRandomMove() (Cell, bool) {
	if len(e.mines)+len(e.movesMade) >= e.height*e.width {
		return Cell{}, false
	}

	var open, preferred []Cell
	for i := range e.height {
		for j := range e.width {
			c := Cell{i, j}
			if e.movesMade.Has(c) || e.mines.Has(c) {
				continue
			}
			open = append(open, c)
			if e.unconstrained(c) {
				preferred = append(preferred, c)
			}
		}
	}

	if len(preferred) > 0 {
		return e.pick(preferred)
	}
	return e.pick(open)
}
