package auth

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-pos/meridian-pos/internal/shared"
)

func newTestHandler(t *testing.T) (*Handler, *shared.SessionManager) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	sessions := shared.NewSessionManager(client, "meridian_session", "test-signing-secret", time.Hour, false)
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), NewService(newFakeSource(t)), sessions)
	return h, sessions
}

func loadSession(t *testing.T, sessions *shared.SessionManager, r *http.Request) *http.Request {
	t.Helper()
	sess, err := sessions.Load(r.Context(), r)
	require.NoError(t, err)
	return r.WithContext(shared.ContextWithSession(r.Context(), sess))
}

func TestLoginIssuesSessionToken(t *testing.T) {
	h, sessions := newTestHandler(t)

	body := `{"email": "aysel@meridian.local", "password": "s3cret-pass"}`
	r := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	r = loadSession(t, sessions, r)
	w := httptest.NewRecorder()

	h.Login(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	var view sessionView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.NotEmpty(t, view.Token)
	assert.Equal(t, int64(42), view.UserID)
	assert.Equal(t, "cashier", view.Role)

	// The token must resolve back to the same signed-in user.
	me := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	me.Header.Set(shared.SessionHeader, view.Token)
	me = loadSession(t, sessions, me)
	sess := shared.SessionFromContext(me.Context())
	assert.True(t, sess.Authenticated())
	assert.Equal(t, int64(42), sess.UserID())
}

func TestTamperedTokenStartsAnonymousSession(t *testing.T) {
	h, sessions := newTestHandler(t)

	login := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email": "aysel@meridian.local", "password": "s3cret-pass"}`))
	login = loadSession(t, sessions, login)
	lw := httptest.NewRecorder()
	h.Login(lw, login)
	require.Equal(t, http.StatusOK, lw.Code)

	var view sessionView
	require.NoError(t, json.Unmarshal(lw.Body.Bytes(), &view))
	require.Contains(t, view.Token, ".")

	// Strip the signature; the bare session ID must not be accepted.
	bare := view.Token[:strings.Index(view.Token, ".")]
	for _, token := range []string{bare, bare + ".forged-signature"} {
		me := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		me.Header.Set(shared.SessionHeader, token)
		me = loadSession(t, sessions, me)
		w := httptest.NewRecorder()
		h.Me(w, me)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	h, sessions := newTestHandler(t)

	body := `{"email": "aysel@meridian.local", "password": "wrong"}`
	r := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	r = loadSession(t, sessions, r)
	w := httptest.NewRecorder()

	h.Login(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginValidatesForm(t *testing.T) {
	h, sessions := newTestHandler(t)

	body := `{"email": "not-an-email", "password": ""}`
	r := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	r = loadSession(t, sessions, r)
	w := httptest.NewRecorder()

	h.Login(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogoutDestroysSession(t *testing.T) {
	h, sessions := newTestHandler(t)

	login := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email": "aysel@meridian.local", "password": "s3cret-pass"}`))
	login = loadSession(t, sessions, login)
	lw := httptest.NewRecorder()
	h.Login(lw, login)
	require.Equal(t, http.StatusOK, lw.Code)

	var view sessionView
	require.NoError(t, json.Unmarshal(lw.Body.Bytes(), &view))

	out := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	out.Header.Set(shared.SessionHeader, view.Token)
	out = loadSession(t, sessions, out)
	ow := httptest.NewRecorder()
	h.Logout(ow, out)
	assert.Equal(t, http.StatusNoContent, ow.Code)

	// Token no longer resolves to a signed-in session.
	me := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	me.Header.Set(shared.SessionHeader, view.Token)
	sess, err := sessions.Load(context.Background(), me)
	require.NoError(t, err)
	assert.False(t, sess.Authenticated())
}

func TestMeRequiresSignIn(t *testing.T) {
	h, sessions := newTestHandler(t)

	r := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	r = loadSession(t, sessions, r)
	w := httptest.NewRecorder()

	h.Me(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
