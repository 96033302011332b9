package game

import (
	"slices"

	"github.com/vancomm/minesweeper-agent/internal/inference"
)

// Analysis compares what the engine concluded with everything the
// observations entail.
type Analysis struct {
	EngineSafes   []Cell `json:"engine_safes"`
	EngineMines   []Cell `json:"engine_mines"`
	EntailedSafes []Cell `json:"entailed_safes"`
	EntailedMines []Cell `json:"entailed_mines"`
	// entailed but not yet known to the engine
	MissedSafes []Cell `json:"missed_safes"`
	MissedMines []Cell `json:"missed_mines"`
	// known to the engine but not entailed
	UnsoundSafes []Cell   `json:"unsound_safes"`
	UnsoundMines []Cell   `json:"unsound_mines"`
	Knowledge    []string `json:"knowledge"`
}

func (s *Session) Analyze() (Analysis, error) {
	o := s.Observations()
	entailed, err := o.Analyze()
	if err != nil {
		return Analysis{}, err
	}
	safes, mines := s.engine.Safes(), s.engine.Mines()

	a := Analysis{
		EngineSafes:   safes.Sorted(),
		EngineMines:   mines.Sorted(),
		EntailedSafes: entailed.Safes,
		EntailedMines: entailed.Mines,
		MissedSafes:   missing(entailed.Safes, safes),
		MissedMines:   missing(entailed.Mines, mines),
	}
	a.UnsoundSafes, a.UnsoundMines, err = o.Unentailed(a.EngineSafes, a.EngineMines)
	if err != nil {
		return Analysis{}, err
	}
	for _, st := range s.engine.Knowledge() {
		a.Knowledge = append(a.Knowledge, st.String())
	}
	return a, nil
}

func missing(cells []Cell, known inference.CellSet) []Cell {
	return slices.DeleteFunc(slices.Clone(cells), known.Has)
}
