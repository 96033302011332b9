package config

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-agent/internal/game"
)

func TestNewAgentDefaults(t *testing.T) {
	cfg, err := NewAgent()
	require.NoError(t, err)
	assert.Equal(t, game.DefaultParams, cfg.Params)
	assert.False(t, cfg.Audit)
	assert.Equal(t, 4, cfg.MaxConcurrency)
}

func TestNewAgentFromEnv(t *testing.T) {
	t.Setenv("AGENT_HEIGHT", "16")
	t.Setenv("AGENT_WIDTH", "30")
	t.Setenv("AGENT_MINES", "99")
	t.Setenv("AGENT_AUDIT", "1")
	t.Setenv("AGENT_MAX_CONCURRENCY", "8")

	cfg, err := NewAgent()
	require.NoError(t, err)
	assert.Equal(t, game.Params{Height: 16, Width: 30, Mines: 99}, cfg.Params)
	assert.True(t, cfg.Audit)
	assert.Equal(t, 8, cfg.MaxConcurrency)
}

func TestNewAgentRejectsBadEnv(t *testing.T) {
	t.Setenv("AGENT_MINES", "lots")
	_, err := NewAgent()
	assert.Error(t, err)

	t.Setenv("AGENT_MINES", "65")
	_, err = NewAgent()
	assert.ErrorIs(t, err, game.ErrInvalidParams)
}

func TestDbURL(t *testing.T) {
	t.Setenv("POSTGRES_USER", "bot")
	t.Setenv("POSTGRES_PASSWORD", "p@ss word")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_PORT", "5432")
	t.Setenv("POSTGRES_DB", "minebot")

	url, err := DbURL()
	require.NoError(t, err)
	assert.Equal(t, "postgresql://bot:p%40ss+word@db:5432/minebot?sslmode=disable", url)

	t.Setenv("DATABASE_URL", "postgres://elsewhere/db")
	url, err = DbURL()
	require.NoError(t, err)
	assert.Equal(t, "postgres://elsewhere/db", url)
}

func TestPortDefault(t *testing.T) {
	assert.Equal(t, ":8080", Addr())
	t.Setenv("APP_PORT", "9000")
	assert.Equal(t, ":9000", Addr())
}

func newTestJWT(t *testing.T) *JWT {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return NewJWTWithKeys(key, &key.PublicKey)
}

func TestCookiesRoundTrip(t *testing.T) {
	cookies := NewCookies(newTestJWT(t))

	rec := httptest.NewRecorder()
	require.NoError(t, cookies.Issue(rec, NewPlayerClaims(7, "alice")))
	set := rec.Result().Cookies()
	require.Len(t, set, 2)
	assert.False(t, set[0].HttpOnly)
	assert.True(t, set[1].HttpOnly)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range set {
		r.AddCookie(c)
	}
	claims, err := cookies.ParsePlayerClaims(r)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.PlayerId)
	assert.Equal(t, "alice", claims.Username)
}

func TestCookiesRejectForeignSignature(t *testing.T) {
	issuer := NewCookies(newTestJWT(t))
	verifier := NewCookies(newTestJWT(t))

	rec := httptest.NewRecorder()
	require.NoError(t, issuer.Issue(rec, NewPlayerClaims(1, "mallory")))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}
	_, err := verifier.ParsePlayerClaims(r)
	assert.Error(t, err)
}

func TestCorsOrigins(t *testing.T) {
	assert.Empty(t, CorsOrigins())
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, CorsOrigins())
}
