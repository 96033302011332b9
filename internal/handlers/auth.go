package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/vancomm/minesweeper-agent/internal/config"
	"github.com/vancomm/minesweeper-agent/internal/middleware"
	"github.com/vancomm/minesweeper-agent/internal/repository"
)

type Auth struct {
	logger  *slog.Logger
	store   Store
	cookies *config.Cookies
}

func NewAuth(logger *slog.Logger, store Store, cookies *config.Cookies) *Auth {
	return &Auth{logger: logger, store: store, cookies: cookies}
}

type PlayerInfo struct {
	PlayerId int64  `json:"player_id"`
	Username string `json:"username"`
}

type AuthStatus struct {
	LoggedIn bool        `json:"logged_in"`
	Player   *PlayerInfo `json:"player,omitempty"`
}

var (
	ErrBadAuthBody        = fmt.Errorf("request body must contain url-encoded username and password")
	ErrBadPasswordTooLong = fmt.Errorf("password too long")
	ErrUsernameTaken      = fmt.Errorf("username taken")
	ErrBadCredentials     = fmt.Errorf("wrong username or password")
)

// Status reports who is logged in and refreshes their cookies.
func (a Auth) Status(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.PlayerClaims(r.Context())
	if !ok {
		sendJSONOrLog(w, a.logger, AuthStatus{LoggedIn: false})
		return
	}
	if err := a.cookies.Issue(w, config.NewPlayerClaims(claims.PlayerId, claims.Username)); err != nil {
		sendError(w, a.logger, http.StatusInternalServerError, err)
		return
	}
	sendJSONOrLog(w, a.logger, AuthStatus{
		LoggedIn: true,
		Player:   &PlayerInfo{claims.PlayerId, claims.Username},
	})
}

func credentials(r *http.Request) (username string, password []byte, err error) {
	if err := r.ParseForm(); err != nil {
		return "", nil, ErrBadAuthBody
	}
	username = r.FormValue("username")
	password = []byte(r.FormValue("password"))
	if username == "" || len(password) == 0 {
		return "", nil, ErrBadAuthBody
	}
	// bcrypt ignores everything past 72 bytes
	if len(password) > 72 {
		return "", nil, ErrBadPasswordTooLong
	}
	return username, password, nil
}

func (a Auth) Register(w http.ResponseWriter, r *http.Request) {
	username, password, err := credentials(r)
	if err != nil {
		sendError(w, a.logger, http.StatusBadRequest, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		sendError(w, a.logger, http.StatusInternalServerError, fmt.Errorf("unable to hash password: %w", err))
		return
	}

	player, err := a.store.CreatePlayer(r.Context(), repository.CreatePlayerParams{
		Username:     username,
		PasswordHash: hash,
	})
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		sendError(w, a.logger, http.StatusConflict, ErrUsernameTaken)
		return
	}
	if err != nil {
		sendError(w, a.logger, http.StatusInternalServerError, fmt.Errorf("unable to insert player: %w", err))
		return
	}

	a.login(w, player)
}

func (a Auth) Login(w http.ResponseWriter, r *http.Request) {
	username, password, err := credentials(r)
	if err != nil {
		sendError(w, a.logger, http.StatusBadRequest, err)
		return
	}

	player, err := a.store.FetchPlayer(r.Context(), username)
	if errors.Is(err, pgx.ErrNoRows) {
		sendError(w, a.logger, http.StatusUnauthorized, ErrBadCredentials)
		return
	}
	if err != nil {
		sendError(w, a.logger, http.StatusInternalServerError, fmt.Errorf("unable to fetch player: %w", err))
		return
	}

	err = bcrypt.CompareHashAndPassword(player.PasswordHash, password)
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		sendError(w, a.logger, http.StatusUnauthorized, ErrBadCredentials)
		return
	}
	if err != nil {
		sendError(w, a.logger, http.StatusInternalServerError, fmt.Errorf("bcrypt compare: %w", err))
		return
	}

	a.login(w, player)
}

func (a Auth) login(w http.ResponseWriter, player *repository.Player) {
	if err := a.cookies.Issue(w, config.NewPlayerClaims(player.PlayerId, player.Username)); err != nil {
		sendError(w, a.logger, http.StatusInternalServerError, fmt.Errorf("unable to set auth cookies: %w", err))
		return
	}
	sendJSONOrLog(w, a.logger, AuthStatus{
		LoggedIn: true,
		Player:   &PlayerInfo{player.PlayerId, player.Username},
	})
}

func (a Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.cookies.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}
