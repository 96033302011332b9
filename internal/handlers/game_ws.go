package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vancomm/minesweeper-agent/internal/game"
)

var ErrUnknownCommand = errors.New("unknown command")

/*
ConnectWS drives a game over a websocket. Each text message is one command:

	step	make one move
	play	move until the game is over
	noop	send the game without moving

Every command is answered with the game or an error object.
*/
func (g *GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	id, err := gameId(r)
	if err != nil {
		sendError(w, g.logger, http.StatusBadRequest, err)
		return
	}
	// refuse before upgrading so the client gets a proper status
	if _, _, err := g.load(r.Context(), id); err != nil {
		sendError(w, g.logger, statusOf(err), err)
		return
	}

	c, err := g.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Error("unable to upgrade", slog.Any("error", err))
		return
	}
	defer c.Close()

	logger := g.logger.With(slog.Int64("game_id", id))
	for {
		if g.ws.IdleTimeout > 0 {
			c.SetReadDeadline(time.Now().Add(g.ws.IdleTimeout))
		}
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("abnormal ws break", slog.Any("error", err))
			}
			return
		}
		if mt != websocket.TextMessage {
			c.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseUnsupportedData, "text only"))
			return
		}

		command := strings.TrimSpace(string(message))
		logger.Debug(fmt.Sprintf("\t> %s", command))

		var reply any
		dto, err := g.command(r, id, command)
		if err != nil {
			reply = wrapError(err)
		} else {
			reply = dto
		}
		if err := c.WriteJSON(reply); err != nil {
			logger.Error("unable to write to ws", slog.Any("error", err))
			return
		}
	}
}

func (g *GameHandler) command(r *http.Request, id int64, command string) (*GameDTO, error) {
	switch command {
	case "step":
		return g.advance(r.Context(), id, step)
	case "play":
		return g.advance(r.Context(), id, func(s *game.Session) error {
			return s.Play(r.Context())
		})
	case "noop":
		row, s, err := g.load(r.Context(), id)
		if err != nil {
			return nil, err
		}
		return NewGameDTO(row, s), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, command)
	}
}
