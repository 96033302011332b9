package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/vancomm/minesweeper-agent/internal/repository"
)

// Store is the part of the repository the handlers use.
type Store interface {
	CreatePlayer(context.Context, repository.CreatePlayerParams) (*repository.Player, error)
	FetchPlayer(ctx context.Context, username string) (*repository.Player, error)
	CreateAgentGame(context.Context, repository.CreateAgentGameParams) (*repository.AgentGame, error)
	FetchAgentGame(ctx context.Context, agentGameId int64) (*repository.AgentGame, error)
	UpdateAgentGame(ctx context.Context, agentGameId int64, params repository.UpdateAgentGameParams) (*repository.AgentGame, error)
	ListAgentGames(ctx context.Context, playerId int64, limit int) ([]repository.AgentGame, error)
}

var _ Store = (*repository.Queries)(nil)

func SendJSON(w http.ResponseWriter, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	w.Header().Set("Content-Type", "application/json")
	return w.Write(payload)
}

func sendJSONOrLog(w http.ResponseWriter, logger *slog.Logger, v any) {
	_, err := SendJSON(w, v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error(
			"unable to send response",
			slog.Any("response", v),
			slog.Any("error", err),
		)
	}
}

func wrapError(err error) map[string]string {
	return map[string]string{
		"error": err.Error(),
	}
}

// sendError writes status and, for client errors, err as a JSON body.
func sendError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	if status >= http.StatusInternalServerError {
		w.WriteHeader(status)
		logger.Error("request failed", slog.Any("error", err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := SendJSON(w, wrapError(err)); err != nil {
		logger.Error("unable to send error", slog.Any("error", err))
	}
}
