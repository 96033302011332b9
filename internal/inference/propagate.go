package inference

import "slices"

/*
inferSafesAndMines resolves every statement whose count is 0 or equal to its
size. Statements are visited in order and their cells are marked right away,
so a mark made while visiting one statement is already visible to the ones
after it. It does not loop to a fixed point; callers run it again after
adding statements.

Returns the number of cells newly marked.

panics [AssertionError]
*/
func (e *Engine) inferSafesAndMines() (marked int) {
	for _, s := range e.knowledge {
		for _, c := range s.KnownSafes().Sorted() {
			if !e.safes.Has(c) {
				marked++
			}
			e.markSafe(c)
		}
		for _, c := range s.KnownMines().Sorted() {
			if !e.mines.Has(c) {
				marked++
			}
			e.markMine(c)
		}
	}
	if marked > 0 {
		e.debug("direct inference", "marked", marked,
			"safes", e.safes, "mines", e.mines)
	}
	return marked
}

/*
inferFromPairs compares every ordered pair of distinct statements (A, B) in a
snapshot of the knowledge base.

If A is a subset of B, the cells of B outside A hold exactly B.count-A.count
mines; that statement is kept for later unless it is already known. Whenever
A and B overlap, the overlap rules may resolve cells immediately.

New statements are appended only after the whole scan. This is a single
round: statements derived here are not compared again until the next call.

panics [AssertionError]
*/
func (e *Engine) inferFromPairs() {
	snapshot := slices.Clone(e.knowledge)

	var (
		derived []*Statement
		seen    = map[string]bool{}
	)
	for _, a := range snapshot {
		for _, b := range snapshot {
			if a == b || a.Equal(b) {
				continue
			}

			// an empty A only yields B again
			if len(a.cells) > 0 && a.cells.SubsetOf(b.cells) {
				s := NewStatement(b.cells.Minus(a.cells), b.count-a.count)
				if k := s.key(); !seen[k] {
					seen[k] = true
					derived = append(derived, s)
					e.debug("derived statement", "from", a, "and", b, "statement", s)
				}
			}

			e.inferFromOverlap(a, b)
		}
	}

	// candidates equal to known statements, before or after normalizing,
	// are dropped here
	known := make(map[string]bool, len(e.knowledge))
	for _, s := range e.knowledge {
		known[s.key()] = true
	}
	added := 0
	for _, s := range derived {
		e.normalize(s)
		k := s.key()
		if known[k] {
			continue
		}
		known[k] = true
		e.knowledge = append(e.knowledge, s)
		added++
	}
	if added > 0 {
		e.debug("pairwise inference", "added", added, "knowledge", len(e.knowledge))
	}
}

/*
inferFromOverlap resolves the overlap O = A & B in two cases only:

	A.count == 0                                   O is safe
	A subset of B and A.count == B.count == |A|    O is all mines

Any other overlapping pair is left to the subset rule and later rounds.

panics [AssertionError]
*/
func (e *Engine) inferFromOverlap(a, b *Statement) {
	overlap := a.cells.Intersect(b.cells)
	if len(overlap) == 0 {
		return
	}
	switch {
	case a.count == 0:
		for _, c := range overlap.Sorted() {
			e.markSafe(c)
		}
		e.debug("overlap safe", "a", a, "b", b, "cells", overlap)
	case a.count == b.count && a.count == len(a.cells) && a.cells.SubsetOf(b.cells):
		for _, c := range overlap.Sorted() {
			e.markMine(c)
		}
		e.debug("overlap mines", "a", a, "b", b, "cells", overlap)
	}
}

// normalize strips cells resolved since s was derived.
//
// panics [AssertionError]
func (e *Engine) normalize(s *Statement) {
	for c := range s.cells.Clone() {
		switch {
		case e.mines.Has(c):
			s.MarkMine(c)
		case e.safes.Has(c):
			s.MarkSafe(c)
		}
	}
}
