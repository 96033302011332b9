package inference

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"strings"
)

// Snapshot is the serializable form of an [Engine]. Statements keep their
// order.
type Snapshot struct {
	Height, Width int
	MovesMade     []Cell
	Safes         []Cell
	Mines         []Cell
	Knowledge     []StatementSnapshot
	Err           string
}

type StatementSnapshot struct {
	Cells []Cell
	Count int
}

func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		Height:    e.height,
		Width:     e.width,
		MovesMade: e.movesMade.Sorted(),
		Safes:     e.safes.Sorted(),
		Mines:     e.mines.Sorted(),
		Knowledge: make([]StatementSnapshot, len(e.knowledge)),
	}
	for i, s := range e.knowledge {
		snap.Knowledge[i] = StatementSnapshot{Cells: s.cells.Sorted(), Count: s.count}
	}
	if e.err != nil {
		snap.Err = e.err.Error()
	}
	return snap
}

// Restore rebuilds an engine from a snapshot. The snapshot is checked
// against the statement and disjointness invariants.
func Restore(snap Snapshot, opts ...Option) (e *Engine, err error) {
	e, err = New(snap.Height, snap.Width, opts...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			e = nil
		}
	}()
	defer recoverAssertion(&err)

	for _, c := range snap.MovesMade {
		assertf(e.InBounds(c), "move %s out of bounds", c)
		e.movesMade.Add(c)
	}
	for _, c := range snap.Safes {
		assertf(e.InBounds(c), "safe cell %s out of bounds", c)
		e.safes.Add(c)
	}
	for _, c := range snap.Mines {
		assertf(!e.safes.Has(c), "cell %s is both safe and a mine", c)
		assertf(e.InBounds(c), "mine %s out of bounds", c)
		e.mines.Add(c)
	}
	for _, s := range snap.Knowledge {
		e.knowledge = append(e.knowledge, NewStatement(NewCellSet(s.Cells...), s.Count))
	}
	if snap.Err != "" {
		e.err = fmt.Errorf("%w: %s", ErrInconsistent,
			strings.TrimPrefix(snap.Err, ErrInconsistent.Error()+": "))
	}
	return e, nil
}

func (e *Engine) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(e.Snapshot()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func Decode(b []byte, opts ...Option) (*Engine, error) {
	var snap Snapshot
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&snap); err != nil {
		return nil, errors.Join(ErrBadSnapshot, err)
	}
	return Restore(snap, opts...)
}

var ErrBadSnapshot = errors.New("malformed engine snapshot")
