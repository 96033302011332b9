package inference

import (
	"fmt"
	"hash/maphash"
	"log/slog"
	"math/rand/v2"
)

/*
Engine is the knowledge base of one game. It keeps the statements learnt
from probed cells together with the cells already played, known safe and
known mined, and answers which move to make next.

An Engine is not safe for concurrent use; every game owns its own.
*/
type Engine struct {
	height, width int

	movesMade CellSet
	safes     CellSet
	mines     CellSet
	knowledge []*Statement

	rnd    *rand.Rand
	logger *slog.Logger

	// first invariant violation; a broken engine takes no more input
	err error
}

type Option func(*Engine)

// WithRand sets the source used to pick among equally good moves.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rnd = r }
}

// WithLogger makes the engine report new and derived statements at debug
// level.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

func New(height, width int, opts ...Option) (*Engine, error) {
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("invalid board size %dx%d", height, width)
	}
	e := &Engine{
		height:    height,
		width:     width,
		movesMade: CellSet{},
		safes:     CellSet{},
		mines:     CellSet{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rnd == nil {
		e.rnd = rand.New(rand.NewPCG(
			new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
		))
	}
	return e, nil
}

func (e *Engine) Height() int { return e.height }

func (e *Engine) Width() int { return e.width }

// Err returns the invariant violation that stopped the engine, if any.
func (e *Engine) Err() error { return e.err }

func (e *Engine) InBounds(c Cell) bool {
	return 0 <= c.Row && c.Row < e.height && 0 <= c.Col && c.Col < e.width
}

func (e *Engine) MovesMade() CellSet { return e.movesMade.Clone() }

func (e *Engine) Safes() CellSet { return e.safes.Clone() }

func (e *Engine) Mines() CellSet { return e.mines.Clone() }

func (e *Engine) IsMine(c Cell) bool { return e.mines.Has(c) }

func (e *Engine) IsSafe(c Cell) bool { return e.safes.Has(c) }

func (e *Engine) Played(c Cell) bool { return e.movesMade.Has(c) }

// Knowledge returns copies of the statements in insertion order.
func (e *Engine) Knowledge() []*Statement {
	ret := make([]*Statement, len(e.knowledge))
	for i, s := range e.knowledge {
		ret[i] = &Statement{cells: s.cells.Clone(), count: s.count}
	}
	return ret
}

func (e *Engine) KnowledgeSize() int { return len(e.knowledge) }

func (e *Engine) debug(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}

// guard runs f unless the engine is already broken, converting an invariant
// violation inside f into a sticky error.
func (e *Engine) guard(f func()) (err error) {
	if e.err != nil {
		return e.err
	}
	defer func() {
		if err != nil {
			e.err = err
		}
	}()
	defer recoverAssertion(&err)
	f()
	return nil
}

// MarkMine records c as a mine and removes it from every statement.
func (e *Engine) MarkMine(c Cell) error {
	if !e.InBounds(c) {
		return fmt.Errorf("%w: %s", ErrCellOutOfBounds, c)
	}
	return e.guard(func() { e.markMine(c) })
}

// MarkSafe records c as safe and removes it from every statement.
func (e *Engine) MarkSafe(c Cell) error {
	if !e.InBounds(c) {
		return fmt.Errorf("%w: %s", ErrCellOutOfBounds, c)
	}
	return e.guard(func() { e.markSafe(c) })
}

// panics [AssertionError]
func (e *Engine) markMine(c Cell) {
	assertf(!e.safes.Has(c), "cell %s is known safe, cannot be a mine", c)
	e.mines.Add(c)
	for _, s := range e.knowledge {
		s.MarkMine(c)
	}
}

// panics [AssertionError]
func (e *Engine) markSafe(c Cell) {
	assertf(!e.mines.Has(c), "cell %s is a known mine, cannot be safe", c)
	e.safes.Add(c)
	for _, s := range e.knowledge {
		s.MarkSafe(c)
	}
}

/*
AddKnowledge is called once per probed cell with the number of mines among
its neighbours. It records the move, adds a statement about the undetermined
neighbours, and runs one round of inference: direct resolution, pairwise
derivation, then direct resolution again.

Probing a cell twice is a no-op.
*/
func (e *Engine) AddKnowledge(c Cell, count int) error {
	if !e.InBounds(c) {
		return fmt.Errorf("%w: %s", ErrCellOutOfBounds, c)
	}
	neighbors := c.Neighbors(e.height, e.width)
	if count < 0 || count > len(neighbors) {
		return fmt.Errorf("%w: %d around %s", ErrInvalidCount, count, c)
	}
	if e.movesMade.Has(c) {
		return e.err
	}
	return e.guard(func() { e.addKnowledge(c, count, neighbors) })
}

// panics [AssertionError]
func (e *Engine) addKnowledge(c Cell, count int, neighbors []Cell) {
	e.movesMade.Add(c)
	e.markSafe(c)

	undetermined := CellSet{}
	for _, n := range neighbors {
		switch {
		case e.mines.Has(n):
			count--
		case e.safes.Has(n):
		default:
			undetermined.Add(n)
		}
	}

	s := NewStatement(undetermined, count)
	e.knowledge = append(e.knowledge, s)
	e.debug("added statement", "move", c, "statement", s)

	e.inferSafesAndMines()
	e.inferFromPairs()
	e.inferSafesAndMines()
}
