package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

type AgentGame struct {
	AgentGameId int64      `db:"agent_game_id"`
	PlayerId    *int64     `db:"player_id"`
	Height      int        `db:"height"`
	Width       int        `db:"width"`
	Mines       int        `db:"mines"`
	Seed        int64      `db:"seed"`
	Status      string     `db:"status"`
	SafeMoves   int        `db:"safe_moves"`
	RandomMoves int        `db:"random_moves"`
	State       []byte     `db:"state"`
	StartedAt   time.Time  `db:"started_at"`
	EndedAt     *time.Time `db:"ended_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

type CreateAgentGameParams struct {
	PlayerId *int64
	Height   int
	Width    int
	Mines    int
	Seed     int64
	Status   string
	State    []byte
}

func (q *Queries) CreateAgentGame(
	ctx context.Context, params CreateAgentGameParams,
) (*AgentGame, error) {
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO agent_game (
			player_id, height, width, mines, seed, status, state
		)
		VALUES (
			@player_id, @height, @width, @mines, @seed, @status, @state
		)
		RETURNING *;`,
		pgx.NamedArgs{
			"player_id": params.PlayerId,
			"height":    params.Height,
			"width":     params.Width,
			"mines":     params.Mines,
			"seed":      params.Seed,
			"status":    params.Status,
			"state":     params.State,
		},
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[AgentGame])
}

func (q *Queries) FetchAgentGame(ctx context.Context, agentGameId int64) (*AgentGame, error) {
	rows, _ := q.db.Query(
		ctx,
		"SELECT * FROM agent_game WHERE agent_game_id = $1",
		agentGameId,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[AgentGame])
}

type UpdateAgentGameParams struct {
	Status      *string
	SafeMoves   *int
	RandomMoves *int
	State       *[]byte
	EndedAt     *time.Time
}

// SetClause lists the non-nil fields. updated_at is always bumped.
func (p UpdateAgentGameParams) SetClause() (string, pgx.NamedArgs) {
	parts := []string{"updated_at = now()"}
	args := pgx.NamedArgs{}

	if p.Status != nil {
		parts = append(parts, "status = @status")
		args["status"] = *p.Status
	}
	if p.SafeMoves != nil {
		parts = append(parts, "safe_moves = @safe_moves")
		args["safe_moves"] = *p.SafeMoves
	}
	if p.RandomMoves != nil {
		parts = append(parts, "random_moves = @random_moves")
		args["random_moves"] = *p.RandomMoves
	}
	if p.State != nil {
		parts = append(parts, "state = @state")
		args["state"] = *p.State
	}
	if p.EndedAt != nil {
		parts = append(parts, "ended_at = @ended_at")
		args["ended_at"] = *p.EndedAt
	}

	return strings.Join(parts, ", "), args
}

func (q *Queries) UpdateAgentGame(
	ctx context.Context, agentGameId int64, params UpdateAgentGameParams,
) (*AgentGame, error) {
	setClause, args := params.SetClause()
	args["agent_game_id"] = agentGameId
	rows, _ := q.db.Query(
		ctx,
		"UPDATE agent_game SET "+setClause+" WHERE agent_game_id = @agent_game_id RETURNING *",
		args,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[AgentGame])
}

// ListAgentGames returns a player's games, newest first.
func (q *Queries) ListAgentGames(
	ctx context.Context, playerId int64, limit int,
) ([]AgentGame, error) {
	rows, err := q.db.Query(
		ctx,
		`SELECT * FROM agent_game
		WHERE player_id = $1
		ORDER BY agent_game_id DESC
		LIMIT $2`,
		playerId, limit,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[AgentGame])
}
