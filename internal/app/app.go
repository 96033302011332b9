package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/vancomm/minesweeper-agent/internal/config"
	"github.com/vancomm/minesweeper-agent/internal/database"
	"github.com/vancomm/minesweeper-agent/internal/handlers"
	"github.com/vancomm/minesweeper-agent/internal/repository"
)

type App struct {
	logger     *slog.Logger
	store      handlers.Store
	cookies    *config.Cookies
	ws         *config.WebSocket
	agent      *config.Agent
	migrations fs.FS
}

func New(logger *slog.Logger, migrations fs.FS) *App {
	return &App{
		logger:     logger,
		migrations: migrations,
	}
}

// configure reads everything but the database from the environment.
func (a *App) configure() error {
	jwt, err := config.NewJWT()
	if err != nil {
		return fmt.Errorf("unable to read jwt config: %w", err)
	}
	a.cookies = config.NewCookies(jwt)
	a.ws = config.NewWebSocket()
	a.agent, err = config.NewAgent()
	if err != nil {
		return fmt.Errorf("unable to read agent config: %w", err)
	}
	return nil
}

func (a *App) Start(ctx context.Context) error {
	if err := a.configure(); err != nil {
		return err
	}

	db, _, err := database.ConnectAndMigrate(ctx, a.migrations)
	if err != nil {
		return fmt.Errorf("unable to connect to db: %w", err)
	}
	defer db.Close()
	a.store = repository.New(db)

	server := &http.Server{
		Addr:         config.Addr(),
		Handler:      a.Router(),
		ReadTimeout:  time.Second * 15,
		WriteTimeout: time.Minute,
		IdleTimeout:  time.Second * 60,
	}

	errCh := make(chan error, 1)
	go func() {
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("unable to listen and serve: %w", err)
		}
		close(errCh)
	}()

	a.logger.Info("server listening",
		slog.String("addr", server.Addr),
		slog.Any("params", a.agent.Params),
	)
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	sCtx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()
	return server.Shutdown(sCtx)
}
