package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"

	"github.com/vancomm/minesweeper-agent/internal/config"
	"github.com/vancomm/minesweeper-agent/internal/game"
	"github.com/vancomm/minesweeper-agent/internal/inference"
	"github.com/vancomm/minesweeper-agent/internal/middleware"
	"github.com/vancomm/minesweeper-agent/internal/repository"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

var (
	ErrForbidden = errors.New("game belongs to another player")
	ErrBadGameId = errors.New("game id must be an integer")
)

type GameHandler struct {
	logger *slog.Logger
	store  Store
	ws     *config.WebSocket
	agent  *config.Agent

	// one writer per game within this process
	locks sync.Map
}

func NewGameHandler(
	logger *slog.Logger,
	store Store,
	ws *config.WebSocket,
	agent *config.Agent,
) *GameHandler {
	return &GameHandler{
		logger: logger,
		store:  store,
		ws:     ws,
		agent:  agent,
	}
}

func (g *GameHandler) lock(id int64) func() {
	v, _ := g.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func gameId(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, ErrBadGameId
	}
	return id, nil
}

// statusOf maps a load or save error to a response status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrBadGameId):
		return http.StatusBadRequest
	case errors.Is(err, pgx.ErrNoRows):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, game.ErrGameOver):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// load fetches a game the requester may see and restores its session.
func (g *GameHandler) load(
	ctx context.Context, id int64,
) (*repository.AgentGame, *game.Session, error) {
	row, err := g.store.FetchAgentGame(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if row.PlayerId != nil {
		claims, ok := middleware.PlayerClaims(ctx)
		if !ok || claims.PlayerId != *row.PlayerId {
			return nil, nil, ErrForbidden
		}
	}
	s, err := game.DecodeSession(row.State, game.WithEngineLogger(g.logger))
	if err != nil {
		return nil, nil, fmt.Errorf("game %d: %w", id, err)
	}
	return row, s, nil
}

func (g *GameHandler) save(
	ctx context.Context, row *repository.AgentGame, s *game.Session,
) (*repository.AgentGame, error) {
	state, err := s.Bytes()
	if err != nil {
		return nil, fmt.Errorf("unable to serialize session: %w", err)
	}
	status := s.Status().String()
	safe, random := s.MoveCounts()
	params := repository.UpdateAgentGameParams{
		Status:      &status,
		SafeMoves:   &safe,
		RandomMoves: &random,
		State:       &state,
	}
	if s.Status().Over() && row.EndedAt == nil {
		now := time.Now().UTC()
		params.EndedAt = &now
	}
	return g.store.UpdateAgentGame(ctx, row.AgentGameId, params)
}

func (g *GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseCreateGameDTO(r.URL.Query())
	if err != nil {
		sendError(w, g.logger, http.StatusBadRequest, err)
		return
	}
	seed := game.RandomSeed()
	if dto.Seed != nil {
		seed = *dto.Seed
	}
	audit := g.agent.Audit
	if dto.Audit != nil {
		audit = *dto.Audit
	}

	s, err := game.NewSession(
		dto.Params(g.agent.Params), seed,
		game.WithAudit(audit), game.WithEngineLogger(g.logger),
	)
	if errors.Is(err, game.ErrInvalidParams) {
		sendError(w, g.logger, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		sendError(w, g.logger, http.StatusInternalServerError, err)
		return
	}
	state, err := s.Bytes()
	if err != nil {
		sendError(w, g.logger, http.StatusInternalServerError, err)
		return
	}

	params := repository.CreateAgentGameParams{
		Height: s.Height,
		Width:  s.Width,
		Mines:  s.Mines,
		Seed:   int64(seed),
		Status: s.Status().String(),
		State:  state,
	}
	if claims, ok := middleware.PlayerClaims(r.Context()); ok {
		params.PlayerId = &claims.PlayerId
	}
	row, err := g.store.CreateAgentGame(r.Context(), params)
	if err != nil {
		sendError(w, g.logger, http.StatusInternalServerError, fmt.Errorf("unable to create game: %w", err))
		return
	}

	g.logger.Debug("created game",
		slog.Int64("game_id", row.AgentGameId),
		slog.String("params", s.Params.String()),
		slog.Bool("audit", audit),
	)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	sendJSONOrLog(w, g.logger, NewGameDTO(row, s))
}

func (g *GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	id, err := gameId(r)
	if err != nil {
		sendError(w, g.logger, http.StatusBadRequest, err)
		return
	}
	row, s, err := g.load(r.Context(), id)
	if err != nil {
		sendError(w, g.logger, statusOf(err), err)
		return
	}
	sendJSONOrLog(w, g.logger, NewGameDTO(row, s))
}

// advance runs move on a locked game and stores the result. A session
// that stopped on an engine failure is still stored.
func (g *GameHandler) advance(
	ctx context.Context, id int64, move func(*game.Session) error,
) (*GameDTO, error) {
	defer g.lock(id)()

	row, s, err := g.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Status().Over() {
		return nil, game.ErrGameOver
	}

	moveErr := move(s)
	if moveErr != nil &&
		!errors.Is(moveErr, game.ErrUnsound) &&
		!errors.Is(moveErr, inference.ErrInconsistent) {
		return nil, moveErr
	}
	if moveErr != nil {
		g.logger.Warn("game got stuck",
			slog.Int64("game_id", id),
			slog.Any("error", moveErr),
		)
	}

	row, err = g.save(ctx, row, s)
	if err != nil {
		return nil, fmt.Errorf("unable to update game: %w", err)
	}
	return NewGameDTO(row, s), nil
}

func (g *GameHandler) handleAdvance(
	w http.ResponseWriter, r *http.Request, move func(*game.Session) error,
) {
	id, err := gameId(r)
	if err != nil {
		sendError(w, g.logger, http.StatusBadRequest, err)
		return
	}
	dto, err := g.advance(r.Context(), id, move)
	if err != nil {
		sendError(w, g.logger, statusOf(err), err)
		return
	}
	sendJSONOrLog(w, g.logger, dto)
}

func step(s *game.Session) error {
	_, _, err := s.Step()
	return err
}

// Step makes one agent move.
func (g *GameHandler) Step(w http.ResponseWriter, r *http.Request) {
	g.handleAdvance(w, r, step)
}

// Play lets the agent move until the game is over.
func (g *GameHandler) Play(w http.ResponseWriter, r *http.Request) {
	g.handleAdvance(w, r, func(s *game.Session) error {
		return s.Play(r.Context())
	})
}

func (g *GameHandler) Analysis(w http.ResponseWriter, r *http.Request) {
	id, err := gameId(r)
	if err != nil {
		sendError(w, g.logger, http.StatusBadRequest, err)
		return
	}
	_, s, err := g.load(r.Context(), id)
	if err != nil {
		sendError(w, g.logger, statusOf(err), err)
		return
	}
	a, err := s.Analyze()
	if err != nil {
		sendError(w, g.logger, http.StatusInternalServerError, err)
		return
	}
	sendJSONOrLog(w, g.logger, a)
}

// List returns the logged in player's games, newest first.
func (g *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.PlayerClaims(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	var dto ListGamesDTO
	if err := decoder.Decode(&dto, r.URL.Query()); err != nil {
		sendError(w, g.logger, http.StatusBadRequest, err)
		return
	}
	if dto.Limit <= 0 {
		dto.Limit = defaultListLimit
	}
	dto.Limit = min(dto.Limit, maxListLimit)

	rows, err := g.store.ListAgentGames(r.Context(), claims.PlayerId, dto.Limit)
	if err != nil {
		sendError(w, g.logger, http.StatusInternalServerError, err)
		return
	}
	games := make([]GameSummaryDTO, len(rows))
	for i, row := range rows {
		games[i] = NewGameSummaryDTO(row)
	}
	sendJSONOrLog(w, g.logger, games)
}
