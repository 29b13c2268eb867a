package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cattus/internal/app/client"
	"cattus/internal/app/client/notify"
	"cattus/internal/config"
	"cattus/internal/domain/session"
	"cattus/internal/utils/logger"
)

func signedToken(t *testing.T) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"company": "c-1",
		"id":      "u-1",
		"name":    "Ana",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	return tok
}

func newTestHandler(t *testing.T, upstream http.Handler) http.Handler {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	cfg := &config.Config{APIURL: srv.URL, RequestTimeout: 5 * time.Second, PageSize: 20}
	log := logger.Discard()
	h, err := NewHandler(client.NewAPI(cfg, log, nil), cfg, log)
	require.NoError(t, err)

	r := chi.NewRouter()
	h.Routes(r)
	return r
}

func serve(h http.Handler, req *http.Request) *http.Response {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Result()
}

func withToken(req *http.Request, token string) *http.Request {
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	return req
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func postMultipart(t *testing.T, path string, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func cookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// flashOf decodes the toasts a redirect carries.
func flashOf(t *testing.T, resp *http.Response) []notify.Toast {
	t.Helper()
	c := cookie(resp, flashCookie)
	require.NotNil(t, c, "no flash cookie")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	return takeFlash(httptest.NewRecorder(), req)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestGuard(t *testing.T) {
	h := newTestHandler(t, http.NotFoundHandler())

	tests := []struct {
		name     string
		path     string
		token    string
		status   int
		location string
	}{
		{name: "protected without token", path: "/cats", status: http.StatusSeeOther, location: "/login"},
		{name: "wizard without token", path: "/cats/edit/1?segment=medical", status: http.StatusSeeOther, location: "/login"},
		{name: "login is public", path: "/login", status: http.StatusOK},
		{name: "loading is public", path: "/loading", status: http.StatusSeeOther, location: HomePath},
		{name: "static is not guarded", path: "/static/app.css", status: http.StatusOK},
		{name: "root with token", path: "/", token: "x", status: http.StatusSeeOther, location: HomePath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.token != "" {
				withToken(req, tt.token)
			}
			resp := serve(h, req)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.location, resp.Header.Get("Location"))
		})
	}
}

func TestLogin(t *testing.T) {
	token := signedToken(t)
	var got map[string]string
	h := newTestHandler(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/login", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&got)
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "data": map[string]string{"token": token}})
	}))

	resp := serve(h, postForm("/login", url.Values{
		"email":    {"ana@abrigo.org"},
		"password": {"segredo"},
		"remember": {"1"},
	}))

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/loading", resp.Header.Get("Location"))
	assert.Equal(t, "ana@abrigo.org", got["email"])

	c := cookie(resp, session.CookieName)
	require.NotNil(t, c)
	assert.Equal(t, token, c.Value)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, int((7 * 24 * time.Hour).Seconds()), c.MaxAge)
}

func TestLogin_Validation(t *testing.T) {
	called := false
	h := newTestHandler(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	resp := serve(h, postForm("/login", url.Values{"email": {"ana@abrigo.org"}}))

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Por favor, preencha todos os campos")
	assert.False(t, called)
	assert.Nil(t, cookie(resp, session.CookieName))
}

func TestLogin_Rejected(t *testing.T) {
	h := newTestHandler(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Credenciais inválidas"})
	}))

	resp := serve(h, postForm("/login", url.Values{"email": {"ana@abrigo.org"}, "password": {"errada"}}))

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	page := body(t, resp)
	assert.Contains(t, page, "Credenciais inválidas")
	assert.Contains(t, page, `value="ana@abrigo.org"`)
	assert.Nil(t, cookie(resp, session.CookieName))
}

func TestForgotPassword(t *testing.T) {
	var path string
	h := newTestHandler(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}))

	resp := serve(h, postForm("/login", url.Values{"action": {"forgot"}, "email": {"ana@abrigo.org"}}))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/users/forgot-password", path)
	assert.Contains(t, body(t, resp), client.MsgForgotPasswordSent)
}

func TestLogout(t *testing.T) {
	var path string
	h := newTestHandler(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.WriteHeader(http.StatusInternalServerError)
	}))

	resp := serve(h, withToken(postForm("/logout", nil), "tok"))

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.Equal(t, "/users/logout", path)
	c := cookie(resp, session.CookieName)
	require.NotNil(t, c)
	assert.Less(t, c.MaxAge, 0)
}

func catsUpstream(t *testing.T) chi.Router {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/cats/charts/total", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]int{"count": 12})
	})
	r.Get("/cats/charts/sick", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, 3)
	})
	r.Get("/cats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": 1, "name": "Mingau", "gender": "Macho", "favorite": true},
			{"id": 2, "name": "Frajola", "gender": "Macho", "status": "sick"},
		})
	})
	r.Get("/cats/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"id":           chi.URLParam(r, "id"),
			"name":         "Luna",
			"gender":       "Fêmea",
			"birthDate":    "2020-03-10",
			"observations": "Muito **dócil**",
			"physicalCharacteristics": map[string]any{
				"furColor": "preta",
			},
		})
	})
	r.Get("/activities/{id}/cat", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": "a1", "cat": chi.URLParam(r, "id"), "camera": "cam-9", "startTime": "2026-01-02T10:00:00Z"},
		})
	})
	return r
}

func TestHome(t *testing.T) {
	h := newTestHandler(t, catsUpstream(t))
	token := signedToken(t)

	resp := serve(h, withToken(httptest.NewRequest(http.MethodGet, "/home", nil), token))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := body(t, resp)
	assert.Contains(t, page, "Bem-vindo ao Cattus")
	assert.Contains(t, page, token[:tokenPreviewLen]+"...")
	assert.NotContains(t, page, token)
	assert.Contains(t, page, ">12<")
	assert.Contains(t, page, ">3<")
	assert.Contains(t, page, "Mingau")
	assert.NotContains(t, page, "Frajola")
	assert.Contains(t, page, "Ana")
}

func TestCatDetail(t *testing.T) {
	h := newTestHandler(t, catsUpstream(t))

	resp := serve(h, withToken(httptest.NewRequest(http.MethodGet, "/cats/7", nil), signedToken(t)))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := body(t, resp)
	assert.Contains(t, page, "Luna")
	assert.Contains(t, page, "<strong>dócil</strong>")
	assert.Contains(t, page, "10/03/2020")
	assert.Contains(t, page, "/streaming/cam-9")
}

func TestUnauthorizedEndsSession(t *testing.T) {
	h := newTestHandler(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "jwt expired"})
	}))

	resp := serve(h, withToken(httptest.NewRequest(http.MethodGet, "/cats", nil), "expired"))

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	c := cookie(resp, session.CookieName)
	require.NotNil(t, c)
	assert.Empty(t, c.Value)
	assert.Less(t, c.MaxAge, 0)
}

func TestUpstreamFailure(t *testing.T) {
	h := newTestHandler(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "db down"})
	}))

	resp := serve(h, withToken(httptest.NewRequest(http.MethodGet, "/cameras", nil), "tok"))

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, body(t, resp), "db down")
}

func TestWizard_CreateBasic(t *testing.T) {
	var (
		mu     sync.Mutex
		fields url.Values
	)
	upstream := chi.NewRouter()
	upstream.Post("/cats", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		mu.Lock()
		fields = r.MultipartForm.Value
		mu.Unlock()
		writeJSON(w, http.StatusCreated, map[string]any{"id": 42})
	})
	h := newTestHandler(t, upstream)

	resp := serve(h, withToken(postMultipart(t, "/cats/add", map[string]string{
		"segment": "basic",
		"name":    "Luna",
		"gender":  "Fêmea",
		"action":  "continue",
	}), signedToken(t)))

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/cats/edit/42?segment=physical", resp.Header.Get("Location"))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "Luna", fields.Get("name"))
	assert.Equal(t, "c-1", fields.Get("company"))
	assert.Equal(t, "healthy", fields.Get("status"))
	assert.Equal(t, "false", fields.Get("favorite"))

	assert.Equal(t, []notify.Toast{{Level: notify.LevelSuccess, Message: client.MsgCatCreated}}, flashOf(t, resp))
}

func TestWizard_CreateRejectsOtherSegments(t *testing.T) {
	called := false
	h := newTestHandler(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	resp := serve(h, withToken(postMultipart(t, "/cats/add", map[string]string{
		"segment":  "physical",
		"furColor": "preta",
	}), signedToken(t)))

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Salve os dados básicos primeiro")
	assert.False(t, called)
}

func TestWizard_CreateWithoutCompany(t *testing.T) {
	called := false
	h := newTestHandler(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	resp := serve(h, withToken(postMultipart(t, "/cats/add", map[string]string{
		"segment": "basic",
		"name":    "Luna",
		"gender":  "Fêmea",
	}), "not-a-jwt"))

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body(t, resp), "ID da empresa não encontrado")
	assert.False(t, called)
}

func TestWizard_InvalidOption(t *testing.T) {
	h := newTestHandler(t, catsUpstream(t))

	resp := serve(h, withToken(postMultipart(t, "/cats/edit/7", map[string]string{
		"segment":  "physical",
		"furColor": "roxa",
	}), signedToken(t)))

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body(t, resp), MsgInvalidOption)
}

func TestWizard_RejectsNonFiniteWeight(t *testing.T) {
	var called atomic.Bool
	upstream := catsUpstream(t)
	upstream.Patch("/cats/{id}", func(w http.ResponseWriter, r *http.Request) {
		called.Store(true)
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	h := newTestHandler(t, upstream)

	for _, weight := range []string{"inf", "NaN", "-Inf"} {
		resp := serve(h, withToken(postForm("/cats/edit/7", url.Values{
			"segment": {"physical"},
			"weight":  {weight},
		}), signedToken(t)))

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, weight)
		assert.Contains(t, body(t, resp), MsgInvalidOption)
	}
	assert.False(t, called.Load())
}

func TestWizard_NewPageWarnsOnLaterSegment(t *testing.T) {
	h := newTestHandler(t, catsUpstream(t))

	resp := serve(h, withToken(httptest.NewRequest(http.MethodGet, "/cats/add?segment=physical", nil), signedToken(t)))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := body(t, resp)
	assert.Contains(t, page, "Salve os dados básicos primeiro")
	assert.Contains(t, page, `name="segment" value="basic"`)
	assert.Contains(t, page, `action="/cats/add"`)
}

func TestWizard_AbandonedSave(t *testing.T) {
	h := newTestHandler(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]any{"id": 42})
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := postMultipart(t, "/cats/add", map[string]string{
		"segment": "basic",
		"name":    "Luna",
		"gender":  "Fêmea",
	}).WithContext(ctx)

	resp := serve(h, withToken(req, signedToken(t)))

	assert.Equal(t, statusClientClosedRequest, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Location"))
}

func TestWizard_EditMedicalFinishes(t *testing.T) {
	var patch map[string]any
	upstream := catsUpstream(t)
	upstream.Patch("/cats/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", chi.URLParam(r, "id"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_ = json.NewDecoder(r.Body).Decode(&patch)
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	h := newTestHandler(t, upstream)

	form := url.Values{
		"segment":       {"medical"},
		"comorbidities": {"Obesidade", "Artrite"},
		"action":        {"continue"},
	}
	resp := serve(h, withToken(postForm("/cats/edit/7", form), signedToken(t)))

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/cats", resp.Header.Get("Location"))
	assert.Equal(t, []any{"Obesidade", "Artrite"}, patch["comorbidities"])
	assert.Equal(t, []any{}, patch["vaccines"])
	assert.NotContains(t, patch, "name")
}

func TestWizard_EditPage(t *testing.T) {
	h := newTestHandler(t, catsUpstream(t))

	resp := serve(h, withToken(httptest.NewRequest(http.MethodGet, "/cats/edit/7?segment=physical", nil), signedToken(t)))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := body(t, resp)
	assert.Contains(t, page, `name="segment" value="physical"`)
	assert.Contains(t, page, `<option value="preta" selected>`)
	assert.Contains(t, page, `action="/cats/edit/7"`)
}

func TestWizard_EditLoadFailure(t *testing.T) {
	h := newTestHandler(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
	}))

	resp := serve(h, withToken(httptest.NewRequest(http.MethodGet, "/cats/edit/404", nil), signedToken(t)))

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/cats", resp.Header.Get("Location"))
	assert.Contains(t, flashOf(t, resp), notify.Toast{Level: notify.LevelError, Message: "Erro ao carregar dados do gato"})
}

func TestReportDownload(t *testing.T) {
	pdf := []byte("%PDF-1.4 fake")
	upstream := chi.NewRouter()
	upstream.Get("/reports/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(pdf)
	})
	h := newTestHandler(t, upstream)

	resp := serve(h, withToken(httptest.NewRequest(http.MethodGet, "/reports/7/download", nil), "tok"))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename=relatorio-7.pdf`, resp.Header.Get("Content-Disposition"))
	assert.Equal(t, string(pdf), body(t, resp))
}

func TestNotifications_UnreadFilter(t *testing.T) {
	upstream := chi.NewRouter()
	upstream.Get("/notifications/{target}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "c-1", chi.URLParam(r, "target"))
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": "n1", "description": "Luna saiu da área", "status": false},
			{"id": "n2", "description": "Câmera offline", "status": true},
		})
	})
	h := newTestHandler(t, upstream)

	resp := serve(h, withToken(httptest.NewRequest(http.MethodGet, "/notifications?unread=1", nil), signedToken(t)))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := body(t, resp)
	assert.Contains(t, page, "Luna saiu da área")
	assert.NotContains(t, page, "Câmera offline")
}

func TestCameraCreate_RequiresFields(t *testing.T) {
	posted := false
	upstream := chi.NewRouter()
	upstream.Get("/cameras", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []any{})
	})
	upstream.Post("/cameras", func(w http.ResponseWriter, r *http.Request) {
		posted = true
	})
	h := newTestHandler(t, upstream)

	resp := serve(h, withToken(postForm("/cameras", url.Values{"name": {"Pátio"}}), signedToken(t)))

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body(t, resp), MsgCameraFieldsRequired)
	assert.False(t, posted)
}

func TestFeedback(t *testing.T) {
	h := newTestHandler(t, http.NotFoundHandler())

	req := withToken(postForm("/feedback", url.Values{"text": {"Adorei"}}), signedToken(t))
	req.Header.Set("Referer", "http://example.com/stats")
	resp := serve(h, req)

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/stats", resp.Header.Get("Location"))
	assert.Equal(t, []notify.Toast{{Level: notify.LevelSuccess, Message: client.MsgFeedbackSent}}, flashOf(t, resp))
}
