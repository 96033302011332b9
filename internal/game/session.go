package game

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-agent/internal/board"
	"github.com/vancomm/minesweeper-agent/internal/inference"
	"github.com/vancomm/minesweeper-agent/internal/oracle"
)

var Log = logrus.New()

type Cell = inference.Cell

// Session is one game played by the agent: a board with hidden mines and the
// engine that probes it. A Session is not safe for concurrent use.
type Session struct {
	Params
	Seed  uint64
	Audit bool

	board  *board.Board
	engine *inference.Engine
	src    *rand.PCG
	status Status
	moves  []Move

	engineLogger *slog.Logger
}

type Option func(*Session)

// WithAudit makes every step check the engine's conclusions against the SAT
// oracle. Steps fail with [ErrUnsound] if the engine is ahead of the
// observations.
func WithAudit(audit bool) Option {
	return func(s *Session) { s.Audit = audit }
}

// WithEngineLogger forwards the engine's debug records to l.
func WithEngineLogger(l *slog.Logger) Option {
	return func(s *Session) { s.engineLogger = l }
}

// agentStream keeps the agent's choices independent of the mine layout.
const agentStream = 0x9e3779b97f4a7c15

// NewSession lays out mines from seed. Two sessions with the same params and
// seed play the same game.
func NewSession(params Params, seed uint64, opts ...Option) (*Session, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	s := &Session{Params: params, Seed: seed}
	for _, opt := range opts {
		opt(s)
	}

	b, err := board.New(params.Height, params.Width, params.Mines,
		rand.New(rand.NewPCG(seed, seed)))
	if err != nil {
		return nil, err
	}
	s.board = b
	s.src = rand.NewPCG(seed, seed^agentStream)
	s.engine, err = inference.New(params.Height, params.Width, s.engineOptions()...)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// NewSessionWithBoard plays on a prepared board.
func NewSessionWithBoard(b *board.Board, seed uint64, opts ...Option) (*Session, error) {
	s := &Session{
		Params: Params{Height: b.Height(), Width: b.Width(), Mines: b.MineCount()},
		Seed:   seed,
		board:  b,
		src:    rand.NewPCG(seed, seed^agentStream),
	}
	for _, opt := range opts {
		opt(s)
	}
	var err error
	s.engine, err = inference.New(b.Height(), b.Width(), s.engineOptions()...)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) engineOptions() []inference.Option {
	opts := []inference.Option{inference.WithRand(rand.New(s.src))}
	if s.engineLogger != nil {
		opts = append(opts, inference.WithLogger(s.engineLogger))
	}
	return opts
}

func (s *Session) Status() Status { return s.status }

func (s *Session) Moves() []Move { return append([]Move(nil), s.moves...) }

// MoveCounts splits the moves made so far by strategy.
func (s *Session) MoveCounts() (safe, random int) {
	for _, m := range s.moves {
		if m.Strategy == SafeMove {
			safe++
		} else {
			random++
		}
	}
	return
}

func (s *Session) Engine() *inference.Engine { return s.engine }

func (s *Session) Board() *board.Board { return s.board }

// Grid is the player's view, fully exposed once the game is over.
func (s *Session) Grid() board.Grid {
	if s.status.Over() {
		return s.board.Exposed()
	}
	return s.board.Grid()
}

func (s *Session) log() *logrus.Entry {
	return Log.WithFields(logrus.Fields{
		"params": s.Params.String(),
		"seed":   s.Seed,
	})
}

/*
Step makes one move: a known safe cell if there is one, otherwise a random
cell. The probed cell's count is fed back to the engine and every mine the
engine knows about gets flagged on the board.

Step returns false once there is nothing left to probe.
*/
func (s *Session) Step() (Move, bool, error) {
	if s.status.Over() {
		return Move{}, false, ErrGameOver
	}

	move := Move{Strategy: SafeMove}
	c, ok := s.engine.MakeSafeMove()
	if !ok {
		move.Strategy = RandomMove
		c, ok = s.engine.MakeRandomMove()
	}
	if !ok {
		s.finish()
		return Move{}, false, nil
	}
	move.Cell = c
	movesTotal.WithLabelValues(string(move.Strategy)).Inc()

	state, err := s.board.Reveal(c)
	if err != nil {
		return Move{}, false, err
	}
	if state == board.ExplodedMine {
		move.Mine, move.Count = true, -1
		s.moves = append(s.moves, move)
		s.setStatus(Lost)
		s.log().WithField("cell", c).Debug("hit a mine")
		// keep the knowledge base in step with the board for analysis
		if err := s.engine.MarkMine(c); err != nil {
			return move, true, err
		}
		return move, true, nil
	}

	move.Count = int(state)
	s.moves = append(s.moves, move)
	if err := s.engine.AddKnowledge(c, move.Count); err != nil {
		s.setStatus(Stuck)
		return move, true, fmt.Errorf("add knowledge at %s: %w", c, err)
	}
	knowledgeSize.Observe(float64(s.engine.KnowledgeSize()))

	for _, m := range s.engine.Mines().Sorted() {
		if err := s.board.Flag(m); err != nil {
			return move, true, err
		}
	}

	s.log().WithFields(logrus.Fields{
		"cell":      c,
		"strategy":  move.Strategy,
		"count":     move.Count,
		"knowledge": s.engine.KnowledgeSize(),
	}).Debug("move")

	if s.Audit {
		if err := s.audit(); err != nil {
			s.setStatus(Stuck)
			return move, true, err
		}
	}

	if s.board.Cleared() {
		s.finish()
	}
	return move, true, nil
}

// finish closes a game that has no moves left.
func (s *Session) finish() {
	if !s.board.Cleared() {
		s.setStatus(Stuck)
		return
	}
	// every covered cell left is a mine
	grid := s.board.Grid()
	for i, st := range grid {
		if st == board.Unknown {
			c := Cell{Row: i / s.Width, Col: i % s.Width}
			if err := s.board.Flag(c); err != nil {
				s.log().WithError(err).Error("unable to flag remaining mine")
			}
		}
	}
	if s.board.Won() {
		s.setStatus(Won)
	} else {
		s.setStatus(Stuck)
	}
}

func (s *Session) setStatus(status Status) {
	if s.status == status {
		return
	}
	s.status = status
	if status.Over() {
		gamesTotal.WithLabelValues(status.String()).Inc()
		s.log().WithFields(logrus.Fields{
			"status": status,
			"moves":  len(s.moves),
		}).Info("game over")
	}
}

// Play steps until the game is over or ctx is done.
func (s *Session) Play(ctx context.Context) error {
	for !s.status.Over() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, _, err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Observations compiles everything the agent has seen on the board.
func (s *Session) Observations() *oracle.Oracle {
	o := oracle.New()
	for _, m := range s.moves {
		if m.Mine {
			o.Mine(m.Cell)
			continue
		}
		o.Observe(m.Cell, m.Count, m.Cell.Neighbors(s.Height, s.Width))
	}
	return o
}

func (s *Session) audit() error {
	badSafes, badMines, err := s.Observations().Unentailed(
		s.engine.Safes().Sorted(), s.engine.Mines().Sorted(),
	)
	if err != nil {
		return err
	}
	if len(badSafes) > 0 || len(badMines) > 0 {
		auditFailures.Inc()
		return fmt.Errorf("%w: safes %v, mines %v", ErrUnsound, badSafes, badMines)
	}
	return nil
}

type sessionState struct {
	Params
	Seed   uint64
	Audit  bool
	Status Status
	Moves  []Move
	Board  []byte
	Engine []byte
	Rand   []byte
}

func (s *Session) Bytes() ([]byte, error) {
	b, err := s.board.Bytes()
	if err != nil {
		return nil, err
	}
	e, err := s.engine.Bytes()
	if err != nil {
		return nil, err
	}
	r, err := s.src.MarshalBinary()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	err = gob.NewEncoder(&buf).Encode(sessionState{
		Params: s.Params,
		Seed:   s.Seed,
		Audit:  s.Audit,
		Status: s.status,
		Moves:  s.moves,
		Board:  b,
		Engine: e,
		Rand:   r,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var ErrBadState = errors.New("malformed session state")

func DecodeSession(buf []byte, opts ...Option) (*Session, error) {
	var state sessionState
	if err := gob.NewDecoder(bytes.NewReader(buf)).Decode(&state); err != nil {
		return nil, errors.Join(ErrBadState, err)
	}
	s := &Session{
		Params: state.Params,
		Seed:   state.Seed,
		Audit:  state.Audit,
		status: state.Status,
		moves:  state.Moves,
		src:    &rand.PCG{},
	}
	for _, opt := range opts {
		opt(s)
	}

	var err error
	if err = s.src.UnmarshalBinary(state.Rand); err != nil {
		return nil, errors.Join(ErrBadState, err)
	}
	if s.board, err = board.Decode(state.Board); err != nil {
		return nil, errors.Join(ErrBadState, err)
	}
	if s.engine, err = inference.Decode(state.Engine, s.engineOptions()...); err != nil {
		return nil, errors.Join(ErrBadState, err)
	}
	return s, nil
}
