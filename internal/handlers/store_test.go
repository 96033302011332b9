package handlers

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vancomm/minesweeper-agent/internal/repository"
)

type memStore struct {
	mu      sync.Mutex
	players []repository.Player
	games   []repository.AgentGame
}

func (m *memStore) CreatePlayer(
	_ context.Context, params repository.CreatePlayerParams,
) (*repository.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.players {
		if p.Username == params.Username {
			return nil, &pgconn.PgError{Code: pgerrcode.UniqueViolation}
		}
	}
	now := time.Now()
	p := repository.Player{
		PlayerId:     int64(len(m.players) + 1),
		Username:     params.Username,
		PasswordHash: params.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.players = append(m.players, p)
	return &p, nil
}

func (m *memStore) FetchPlayer(_ context.Context, username string) (*repository.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.players {
		if p.Username == username {
			return &p, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memStore) CreateAgentGame(
	_ context.Context, params repository.CreateAgentGameParams,
) (*repository.AgentGame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	g := repository.AgentGame{
		AgentGameId: int64(len(m.games) + 1),
		PlayerId:    params.PlayerId,
		Height:      params.Height,
		Width:       params.Width,
		Mines:       params.Mines,
		Seed:        params.Seed,
		Status:      params.Status,
		State:       params.State,
		StartedAt:   now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.games = append(m.games, g)
	return &g, nil
}

func (m *memStore) FetchAgentGame(_ context.Context, id int64) (*repository.AgentGame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id < 1 || id > int64(len(m.games)) {
		return nil, pgx.ErrNoRows
	}
	g := m.games[id-1]
	return &g, nil
}

func (m *memStore) UpdateAgentGame(
	_ context.Context, id int64, params repository.UpdateAgentGameParams,
) (*repository.AgentGame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id < 1 || id > int64(len(m.games)) {
		return nil, pgx.ErrNoRows
	}
	g := &m.games[id-1]
	if params.Status != nil {
		g.Status = *params.Status
	}
	if params.SafeMoves != nil {
		g.SafeMoves = *params.SafeMoves
	}
	if params.RandomMoves != nil {
		g.RandomMoves = *params.RandomMoves
	}
	if params.State != nil {
		g.State = *params.State
	}
	if params.EndedAt != nil {
		g.EndedAt = params.EndedAt
	}
	g.UpdatedAt = time.Now()
	res := *g
	return &res, nil
}

func (m *memStore) ListAgentGames(
	_ context.Context, playerId int64, limit int,
) ([]repository.AgentGame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []repository.AgentGame
	for _, g := range slices.Backward(m.games) {
		if g.PlayerId != nil && *g.PlayerId == playerId && len(res) < limit {
			res = append(res, g)
		}
	}
	return res, nil
}
