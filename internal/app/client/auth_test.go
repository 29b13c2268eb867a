package client

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cattus/internal/app/client/notify"
	"cattus/internal/domain/user"
)

func TestLogin(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      any
		wantToken string
		wantToast string
	}{
		{
			name:      "token at top level",
			status:    http.StatusOK,
			body:      map[string]any{"ok": true, "token": "abc"},
			wantToken: "abc",
		},
		{
			name:      "token in data",
			status:    http.StatusOK,
			body:      map[string]any{"success": true, "data": map[string]string{"token": "def"}},
			wantToken: "def",
		},
		{
			name:      "rejected with message",
			status:    http.StatusOK,
			body:      map[string]any{"ok": false, "message": "Senha incorreta"},
			wantToast: "Senha incorreta",
		},
		{
			name:      "server error without message",
			status:    http.StatusInternalServerError,
			body:      map[string]any{},
			wantToast: user.MsgLoginFailed,
		},
		{
			name:      "no token",
			status:    http.StatusOK,
			body:      map[string]any{"ok": true},
			wantToast: user.MsgLoginFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got user.Credentials
			api, rec := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/users/login", r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				writeJSON(w, tt.status, tt.body)
			})

			token, err := api.Login(context.Background(), user.Credentials{Email: "ana@abrigo.org", Password: "x"})
			assert.Equal(t, "ana@abrigo.org", got.Email)

			if tt.wantToast != "" {
				require.Error(t, err)
				assert.Empty(t, token)
				assert.Equal(t, []notify.Toast{{Level: notify.LevelError, Message: tt.wantToast}}, rec.Toasts())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
			assert.Empty(t, rec.Toasts())
		})
	}
}

func TestLogout(t *testing.T) {
	var path, method string
	api, _ := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		path, method = r.URL.Path, r.Method
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	require.NoError(t, api.Logout(context.Background()))
	assert.Equal(t, "/users/logout", path)
	assert.Equal(t, http.MethodGet, method)
}

func TestForgotPassword(t *testing.T) {
	var body map[string]string
	api, rec := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	require.NoError(t, api.ForgotPassword(context.Background(), "ana@abrigo.org"))
	assert.Equal(t, "ana@abrigo.org", body["email"])
	assert.Equal(t, []notify.Toast{{Level: notify.LevelSuccess, Message: MsgForgotPasswordSent}}, rec.Toasts())
}
