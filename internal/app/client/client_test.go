package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cattus/internal/app/client/notify"
	"cattus/internal/config"
	"cattus/internal/domain/cat"
	"cattus/internal/domain/editor"
	"cattus/internal/domain/session"
	"cattus/internal/domain/shelter"
	"cattus/internal/domain/user"
	"cattus/internal/utils/logger"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return tok
}

func newTestApp(t *testing.T, h http.Handler) (*App, *notify.Recorder, *session.MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		APIURL:         srv.URL,
		WSURL:          "ws" + strings.TrimPrefix(srv.URL, "http"),
		RequestTimeout: 5 * time.Second,
	}
	rec := notify.NewRecorder()
	store := session.NewMemoryStore()
	app := NewWithStore(cfg, logger.Discard(), rec, store)
	t.Cleanup(func() { _ = app.Close() })
	return app, rec, store
}

func TestApp_LoginLogout(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"company": "c-1", "name": "Ana", "access_level": "admin"})
	var logoutAuth string

	mux := http.NewServeMux()
	mux.HandleFunc("/users/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "token": token})
	})
	mux.HandleFunc("/users/logout", func(w http.ResponseWriter, r *http.Request) {
		logoutAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	app, _, store := newTestApp(t, mux)
	ctx := context.Background()
	assert.False(t, app.IsAuthenticated())

	s, err := app.Login(ctx, user.Credentials{Email: "ana@abrigo.org", Password: "x"}, true)
	require.NoError(t, err)
	assert.Equal(t, "c-1", s.Claims.CompanyID)
	assert.Equal(t, "Ana", s.Claims.Name())
	assert.True(t, app.IsAuthenticated())

	stored, err := store.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, token, stored)

	require.NoError(t, app.Logout(ctx))
	assert.Equal(t, "Bearer "+token, logoutAuth)
	assert.False(t, app.IsAuthenticated())
	_, err = store.Token(ctx)
	assert.ErrorIs(t, err, session.ErrNoToken)
}

func TestApp_LoginValidation(t *testing.T) {
	app, rec, _ := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL.Path)
	}))

	_, err := app.Login(context.Background(), user.Credentials{Email: "ana@abrigo.org"}, false)
	assert.ErrorIs(t, err, user.ErrEmptyFields)
	assert.Equal(t, []notify.Toast{{Level: notify.LevelError, Message: user.MsgEmptyFields}}, rec.Toasts())
}

func TestApp_RestoresSession(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"companyId": "c-9"})
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, []any{})
	}))
	t.Cleanup(srv.Close)

	store := session.NewMemoryStore()
	require.NoError(t, store.SetToken(context.Background(), token, false))

	cfg := &config.Config{APIURL: srv.URL, RequestTimeout: time.Second}
	app := NewWithStore(cfg, logger.Discard(), nil, store)

	assert.Equal(t, "c-9", app.Session().Claims.CompanyID)
	_, err := app.API().Cats().List(context.Background(), Page{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer "+token, auth)
}

func TestApp_PersistsSealedSession(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"company": "c-1", "name": "Ana"})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "token": token})
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	cfg := &config.Config{
		APIURL:         srv.URL,
		WSURL:          "ws" + strings.TrimPrefix(srv.URL, "http"),
		RequestTimeout: time.Second,
		StatePath:      filepath.Join(dir, "state.db"),
		KeyPath:        filepath.Join(dir, "state.key"),
	}

	app := New(cfg, logger.Discard(), nil)
	_, err := app.Login(context.Background(), user.Credentials{Email: "ana@abrigo.org", Password: "x"}, true)
	require.NoError(t, err)
	require.NoError(t, app.Close())

	_, err = os.Stat(cfg.KeyPath)
	require.NoError(t, err)

	app = New(cfg, logger.Discard(), nil)
	t.Cleanup(func() { _ = app.Close() })
	assert.True(t, app.IsAuthenticated())
	assert.Equal(t, "c-1", app.Session().Claims.CompanyID)
}

func TestApp_Expire(t *testing.T) {
	app, _, store := newTestApp(t, http.NotFoundHandler())
	ctx := context.Background()
	_, err := app.session.Begin(ctx, "tok", false)
	require.NoError(t, err)

	assert.False(t, app.Expire(ctx, &APIError{Status: http.StatusNotFound}))
	assert.True(t, app.Expire(ctx, &APIError{Status: http.StatusUnauthorized}))
	_, err = store.Token(ctx)
	assert.ErrorIs(t, err, session.ErrNoToken)
	assert.False(t, app.IsAuthenticated())
}

func TestApp_Editor(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"company": "c-1"})
	mux := http.NewServeMux()
	mux.HandleFunc("/users/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "token": token})
	})
	mux.HandleFunc("/cats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]any{"id": 42})
	})

	app, rec, _ := newTestApp(t, mux)
	ctx := context.Background()

	_, err := app.Editor(ctx, "")
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	_, err = app.Login(ctx, user.Credentials{Email: "ana@abrigo.org", Password: "x"}, false)
	require.NoError(t, err)

	e, err := app.Editor(ctx, "")
	require.NoError(t, err)
	require.NoError(t, e.Change(cat.BasicData{Name: "Luna", Gender: "Fêmea"}))

	out, err := e.Save(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, "/cats/edit/42?segment=physical", out.Route())
	_, persisted := e.Mode().(editor.Persisted)
	assert.True(t, persisted)
	assert.Equal(t, []notify.Toast{{Level: notify.LevelSuccess, Message: MsgCatCreated}}, rec.Toasts())
}

func TestApp_WatchNotifications(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"company": "c-1"})
	upgrader := websocket.Upgrader{}
	gotToken := make(chan string, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/users/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "token": token})
	})
	mux.HandleFunc("/ws/notifications", func(w http.ResponseWriter, r *http.Request) {
		gotToken <- r.URL.Query().Get("token")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteMessage(websocket.TextMessage, []byte("not json"))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"id":1,"description":"Nova atividade"}`))
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	})

	app, _, _ := newTestApp(t, mux)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	assert.ErrorIs(t, app.WatchNotifications(ctx, func(shelter.Notification) {}), ErrNotLoggedIn)

	_, err := app.Login(ctx, user.Credentials{Email: "ana@abrigo.org", Password: "x"}, false)
	require.NoError(t, err)

	var got []shelter.Notification
	require.NoError(t, app.WatchNotifications(ctx, func(n shelter.Notification) {
		got = append(got, n)
	}))

	assert.Equal(t, token, <-gotToken)
	require.Len(t, got, 1)
	assert.Equal(t, "Nova atividade", got[0].Description)
}
