package app

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vancomm/minesweeper-agent/internal/config"
	"github.com/vancomm/minesweeper-agent/internal/handlers"
	"github.com/vancomm/minesweeper-agent/internal/middleware"
)

func (a *App) Router() http.Handler {
	router := mux.NewRouter()
	api := router
	if base := config.BasePath(); base != "" {
		api = router.PathPrefix(base).Subrouter()
	}

	game := handlers.NewGameHandler(a.logger, a.store, a.ws, a.agent)
	auth := handlers.NewAuth(a.logger, a.store, a.cookies)

	gameRouter := api.PathPrefix("/game").Subrouter()
	gameRouter.Methods(http.MethodGet).Path("/{id:[0-9]+}/connect").HandlerFunc(game.ConnectWS)
	gameRouter.Methods(http.MethodGet).Path("/{id:[0-9]+}/analysis").HandlerFunc(game.Analysis)
	gameRouter.Methods(http.MethodPost).Path("/{id:[0-9]+}/step").HandlerFunc(game.Step)
	gameRouter.Methods(http.MethodPost).Path("/{id:[0-9]+}/play").HandlerFunc(game.Play)
	gameRouter.Methods(http.MethodGet).Path("/{id:[0-9]+}").HandlerFunc(game.Fetch)

	api.Methods(http.MethodPost).Path("/game").HandlerFunc(game.NewGame)
	api.Methods(http.MethodGet).Path("/games").Handler(
		middleware.RequireAuth(http.HandlerFunc(game.List)),
	)

	api.Methods(http.MethodGet).Path("/status").HandlerFunc(auth.Status)
	api.Methods(http.MethodPost).Path("/register").HandlerFunc(auth.Register)
	api.Methods(http.MethodPost).Path("/login").HandlerFunc(auth.Login)
	api.Methods(http.MethodPost).Path("/logout").HandlerFunc(auth.Logout)

	router.Methods(http.MethodGet).Path("/healthz").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	router.Methods(http.MethodGet).Path("/metrics").Handler(promhttp.Handler())

	return middleware.Wrap(
		router,
		middleware.Auth(a.logger, a.cookies),
		middleware.Metrics,
		middleware.Logging(a.logger),
		middleware.Cors(config.CorsOrigins()...),
	)
}
