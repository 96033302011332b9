package handlers

import (
	"strconv"
	"time"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper-agent/internal/board"
	"github.com/vancomm/minesweeper-agent/internal/game"
	"github.com/vancomm/minesweeper-agent/internal/repository"
)

var decoder = func() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}()

// CreateGameDTO is the query of POST /game. Missing fields fall back to the
// server's defaults.
type CreateGameDTO struct {
	Height *int    `schema:"height"`
	Width  *int    `schema:"width"`
	Mines  *int    `schema:"mines"`
	Seed   *uint64 `schema:"seed"`
	Audit  *bool   `schema:"audit"`
}

func ParseCreateGameDTO(src map[string][]string) (CreateGameDTO, error) {
	var dto CreateGameDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

func (dto CreateGameDTO) Params(defaults game.Params) game.Params {
	params := defaults
	if dto.Height != nil {
		params.Height = *dto.Height
	}
	if dto.Width != nil {
		params.Width = *dto.Width
	}
	if dto.Mines != nil {
		params.Mines = *dto.Mines
	}
	return params
}

type ListGamesDTO struct {
	Limit int `schema:"limit"`
}

type MoveDTO struct {
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Strategy string `json:"strategy"`
	Count    int    `json:"count"`
	Mine     bool   `json:"mine,omitempty"`
}

func newMoveDTO(m game.Move) MoveDTO {
	return MoveDTO{
		Row:      m.Cell.Row,
		Col:      m.Cell.Col,
		Strategy: string(m.Strategy),
		Count:    m.Count,
		Mine:     m.Mine,
	}
}

type GameDTO struct {
	GameId        string      `json:"game_id"`
	Height        int         `json:"height"`
	Width         int         `json:"width"`
	Mines         int         `json:"mines"`
	Seed          string      `json:"seed"`
	Status        game.Status `json:"status"`
	Grid          board.Grid  `json:"grid"`
	Moves         []MoveDTO   `json:"moves"`
	SafeMoves     int         `json:"safe_moves"`
	RandomMoves   int         `json:"random_moves"`
	KnowledgeSize int         `json:"knowledge_size"`
	KnownMines    int         `json:"known_mines"`
	StartedAt     int64       `json:"started_at"`
	EndedAt       *int64      `json:"ended_at,omitempty"`
}

func NewGameDTO(row *repository.AgentGame, s *game.Session) *GameDTO {
	moves := s.Moves()
	dto := &GameDTO{
		GameId:        strconv.FormatInt(row.AgentGameId, 10),
		Height:        s.Height,
		Width:         s.Width,
		Mines:         s.Mines,
		Seed:          strconv.FormatUint(s.Seed, 10),
		Status:        s.Status(),
		Grid:          s.Grid(),
		Moves:         make([]MoveDTO, len(moves)),
		KnowledgeSize: s.Engine().KnowledgeSize(),
		KnownMines:    s.Engine().Mines().Len(),
		StartedAt:     row.StartedAt.UnixMilli(),
		EndedAt:       millis(row.EndedAt),
	}
	for i, m := range moves {
		dto.Moves[i] = newMoveDTO(m)
	}
	dto.SafeMoves, dto.RandomMoves = s.MoveCounts()
	return dto
}

// GameSummaryDTO is a list entry. It is built from the row alone.
type GameSummaryDTO struct {
	GameId      string `json:"game_id"`
	Height      int    `json:"height"`
	Width       int    `json:"width"`
	Mines       int    `json:"mines"`
	Status      string `json:"status"`
	SafeMoves   int    `json:"safe_moves"`
	RandomMoves int    `json:"random_moves"`
	StartedAt   int64  `json:"started_at"`
	EndedAt     *int64 `json:"ended_at,omitempty"`
}

func NewGameSummaryDTO(row repository.AgentGame) GameSummaryDTO {
	dto := GameSummaryDTO{
		GameId:      strconv.FormatInt(row.AgentGameId, 10),
		Height:      row.Height,
		Width:       row.Width,
		Mines:       row.Mines,
		Status:      row.Status,
		SafeMoves:   row.SafeMoves,
		RandomMoves: row.RandomMoves,
		StartedAt:   row.StartedAt.UnixMilli(),
		EndedAt:     millis(row.EndedAt),
	}
	return dto
}

func millis(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	m := t.UnixMilli()
	return &m
}
