package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-agent/internal/config"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newCookies(t *testing.T) *config.Cookies {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return config.NewCookies(config.NewJWTWithKeys(key, &key.PublicKey))
}

func whoami(w http.ResponseWriter, r *http.Request) {
	if claims, ok := PlayerClaims(r.Context()); ok {
		io.WriteString(w, claims.Username)
		return
	}
	io.WriteString(w, "anonymous")
}

func TestAuth(t *testing.T) {
	cookies := newCookies(t)
	h := Wrap(http.HandlerFunc(whoami), Auth(discard, cookies))

	rec := httptest.NewRecorder()
	require.NoError(t, cookies.Issue(rec, config.NewPlayerClaims(3, "bob")))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, "bob", rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "anonymous", rec.Body.String())
	assert.Empty(t, rec.Result().Cookies())
}

func TestAuthClearsForgedCookies(t *testing.T) {
	h := Wrap(http.HandlerFunc(whoami), Auth(discard, newCookies(t)))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "auth", Value: "e30.e30"})
	r.AddCookie(&http.Cookie{Name: "sign", Value: "forged"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	assert.Equal(t, "anonymous", rec.Body.String())
	for _, c := range rec.Result().Cookies() {
		assert.Equal(t, -1, c.MaxAge, "cookie %s", c.Name)
	}
}

func TestRequireAuth(t *testing.T) {
	h := Wrap(http.HandlerFunc(whoami), RequireAuth, Auth(discard, newCookies(t)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoggingSetsRequestId(t *testing.T) {
	var seen string
	h := Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestId(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}), Logging(discard), Metrics)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-Id"))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-Id", "abc")
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, "abc", seen)
}
