package client

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cattus/internal/app/client/notify"
	"cattus/internal/domain/shelter"
)

func TestCameras(t *testing.T) {
	var created shelter.CameraInput
	api, rec := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/cameras":
			writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "name": "Entrada", "url": "rtsp://cam/1"}})
		case r.Method == http.MethodPost && r.URL.Path == "/cameras":
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&created))
			writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "data": map[string]any{"id": 2, "name": created.Name}})
		case r.Method == http.MethodDelete && r.URL.Path == "/cameras/2":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	cams, err := api.Cameras().List(context.Background(), Page{Limit: 50})
	require.NoError(t, err)
	require.Len(t, cams, 1)
	assert.Equal(t, "Entrada", cams[0].Name)

	cam, err := api.Cameras().Create(context.Background(), shelter.CameraInput{Name: "Pátio", URL: "rtsp://cam/2"})
	require.NoError(t, err)
	assert.Equal(t, "2", cam.ID.String())
	assert.Equal(t, "Pátio", created.Name)

	require.NoError(t, api.Cameras().Delete(context.Background(), "2"))

	err = api.Cameras().Update(context.Background(), "9", shelter.CameraInput{Name: "x"})
	require.Error(t, err)

	assert.Equal(t, []notify.Toast{
		{Level: notify.LevelSuccess, Message: MsgCameraCreated},
		{Level: notify.LevelSuccess, Message: MsgCameraDeleted},
		{Level: notify.LevelError, Message: MsgCameraSaveFailed},
	}, rec.Toasts())
}

func TestActivities(t *testing.T) {
	var paths []string
	api, rec := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.RequestURI())
		if r.Method == http.MethodPost {
			writeJSON(w, http.StatusCreated, map[string]bool{"ok": true})
			return
		}
		writeJSON(w, http.StatusOK, []map[string]any{{
			"id": 1, "cat": map[string]any{"id": 5}, "camera": 2,
			"startTime": "2025-03-01T10:00:00Z", "endTime": "2025-03-01T10:05:00Z",
		}})
	})

	acts, err := api.Activities().ByCat(context.Background(), "5", Page{Limit: 50})
	require.NoError(t, err)
	require.Len(t, acts, 1)
	assert.Equal(t, "5", acts[0].Cat.String())
	assert.Equal(t, 5*time.Minute, acts[0].Duration())

	_, err = api.Activities().ByCompany(context.Background(), "c-1", Page{Offset: 50, Limit: 50})
	require.NoError(t, err)

	require.NoError(t, api.Activities().Create(context.Background(), shelter.ActivityInput{Cat: "5", Camera: "2", StartTime: time.Now()}))

	assert.Equal(t, []string{
		"GET /activities/5/cat?limit=50&offset=0",
		"GET /activities/c-1/company?limit=50&offset=50",
		"POST /activities",
	}, paths)
	assert.Equal(t, MsgActivityCreated, rec.Toasts()[0].Message)
}

func TestNotifications(t *testing.T) {
	api, rec := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "/notifications/u-1", r.URL.Path)
			writeJSON(w, http.StatusOK, []map[string]any{
				{"id": 1, "status": true, "description": "lida"},
				{"id": 2, "status": false, "description": "nova"},
			})
		case http.MethodDelete:
			assert.Equal(t, "/notifications/2", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		}
	})

	ns, err := api.Notifications().List(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Len(t, shelter.Unread(ns), 1)

	require.NoError(t, api.Notifications().Delete(context.Background(), "2"))
	assert.Equal(t, MsgNotificationDeleted, rec.Toasts()[0].Message)
}

func TestEmployeesAndCompany(t *testing.T) {
	api, _ := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users":
			writeJSON(w, http.StatusOK, []map[string]any{{"id": "u-1", "name": "Ana", "access_level": "admin"}})
		case "/users/u-1":
			writeJSON(w, http.StatusOK, map[string]any{"id": "u-1", "name": "Ana", "email": "ana@abrigo.org"})
		case "/companies/3":
			writeJSON(w, http.StatusOK, map[string]any{"ok": true, "data": map[string]any{"id": 3, "name": "Abrigo Feliz", "cnpj": "00.000.000/0001-00"}})
		}
	})

	emps, err := api.Employees().List(context.Background(), Page{})
	require.NoError(t, err)
	require.Len(t, emps, 1)
	assert.Equal(t, "admin", emps[0].AccessLevel)

	emp, err := api.Employees().Get(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "ana@abrigo.org", emp.Email)

	co, err := api.Company(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, "Abrigo Feliz", co.Name)
	assert.Equal(t, "3", co.ID.String())
}

func TestSubmitFeedback(t *testing.T) {
	api, rec := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL.Path)
	})

	assert.ErrorIs(t, api.SubmitFeedback(context.Background(), shelter.Feedback{Text: " "}), ErrEmptyFeedback)
	require.NoError(t, api.SubmitFeedback(context.Background(), shelter.Feedback{Text: "Muito bom"}))

	assert.Equal(t, []notify.Toast{
		{Level: notify.LevelWarning, Message: MsgFeedbackEmpty},
		{Level: notify.LevelSuccess, Message: MsgFeedbackSent},
	}, rec.Toasts())
}
