package server

import (
	"context"
	"html"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cattus/internal/config"
	"cattus/internal/utils/logger"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(upstream.Close)

	cfg := &config.Config{
		Env:            config.EnvLocal,
		APIURL:         upstream.URL,
		ListenAddress:  "127.0.0.1:0",
		RequestTimeout: time.Second,
		PageSize:       20,
	}
	srv, err := New(cfg, logger.Discard())
	require.NoError(t, err)
	return srv.Handler()
}

func TestServer_Routes(t *testing.T) {
	h := newTestServer(t)

	tests := []struct {
		name     string
		path     string
		status   int
		location string
	}{
		{name: "json health", path: "/api/v1/health", status: http.StatusOK},
		{name: "openapi", path: "/api/openapi.json", status: http.StatusOK},
		{name: "login page", path: "/login", status: http.StatusOK},
		{name: "guarded page", path: "/stats", status: http.StatusSeeOther, location: "/login"},
		{name: "static", path: "/static/app.js", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.location, rec.Header().Get("Location"))
		})
	}
}

var csrfField = regexp.MustCompile(`name="gorilla.csrf.Token" value="([^"]+)"`)

func TestServer_CSRF(t *testing.T) {
	h := newTestServer(t)

	form := url.Values{"email": {"ana@abrigo.org"}, "password": {"segredo"}}
	post := func(cookies []*http.Cookie, form url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := post(nil, form)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	page := httptest.NewRecorder()
	h.ServeHTTP(page, httptest.NewRequest(http.MethodGet, "/login", nil))
	require.Equal(t, http.StatusOK, page.Code)
	m := csrfField.FindStringSubmatch(page.Body.String())
	require.Len(t, m, 2, "login form carries no csrf field")

	form.Set("gorilla.csrf.Token", html.UnescapeString(m[1]))
	rec = post(page.Result().Cookies(), form)
	// The token passed; the fake upstream answers without a session token.
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_RunStops(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(upstream.Close)

	cfg := &config.Config{
		Env:            config.EnvLocal,
		APIURL:         upstream.URL,
		ListenAddress:  "127.0.0.1:0",
		RequestTimeout: time.Second,
	}
	srv, err := New(cfg, logger.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestCSRFKey(t *testing.T) {
	key, err := csrfKey(&config.Config{CSRFKey: strings.Repeat("k", 32)}, logger.Discard())
	require.NoError(t, err)
	assert.Len(t, key, 32)

	key, err = csrfKey(&config.Config{Env: config.EnvDev}, logger.Discard())
	require.NoError(t, err)
	assert.Len(t, key, 32)

	_, err = csrfKey(&config.Config{Env: config.EnvProd}, logger.Discard())
	assert.Error(t, err)
}
