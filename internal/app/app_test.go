package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-agent/internal/config"
	"github.com/vancomm/minesweeper-agent/internal/game"
)

func newTestApp() *App {
	a := New(slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	a.cookies = config.NewCookies(nil)
	a.ws = config.NewWebSocket()
	a.agent = &config.Agent{Params: game.DefaultParams}
	return a
}

func TestRouter(t *testing.T) {
	router := newTestApp().Router()

	tests := []struct {
		method, target string
		code           int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/games", http.StatusUnauthorized},
		{http.MethodGet, "/game/abc", http.StatusNotFound},
		{http.MethodGet, "/nowhere", http.StatusNotFound},
	}
	for _, test := range tests {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(test.method, test.target, nil))
		assert.Equal(t, test.code, rec.Code, "%s %s", test.method, test.target)
	}
}

func TestRouterSetsRequestId(t *testing.T) {
	router := newTestApp().Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestBasePath(t *testing.T) {
	t.Setenv("APP_BASE_PATH", "/api")
	router := newTestApp().Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/games", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/games", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
