package shelter

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivity_Duration(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Second)

	assert.Equal(t, 90*time.Second, Activity{StartTime: start, EndTime: &end}.Duration())
	assert.Zero(t, Activity{StartTime: start}.Duration())

	before := start.Add(-time.Minute)
	assert.Zero(t, Activity{StartTime: start, EndTime: &before}.Duration())
}

func TestUnread(t *testing.T) {
	ns := []Notification{
		{ID: "1", Status: true},
		{ID: "2", Status: false},
		{ID: "3"},
	}
	got := Unread(ns)
	require.Len(t, got, 2)
	assert.Equal(t, "2", got[0].ID.String())
	assert.Equal(t, "3", got[1].ID.String())
}

func TestNotification_Decode(t *testing.T) {
	raw := `{"id": 5, "date": "2025-03-01T10:00:00Z", "target": {"id": 2}, "origin": "camera", "status": false, "description": "Gato doente detectado"}`
	var n Notification
	require.NoError(t, json.Unmarshal([]byte(raw), &n))
	assert.Equal(t, "5", n.ID.String())
	assert.Equal(t, "2", n.Target.String())
	assert.True(t, n.Unread())
}

func TestFeedback_Valid(t *testing.T) {
	assert.True(t, Feedback{Text: "Ótimo sistema"}.Valid())
	assert.False(t, Feedback{Text: "   "}.Valid())
}
