package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markestedt/prokeys/config"
	"markestedt/prokeys/storage"
)

func newTestServer(t *testing.T) (*Server, *storage.DB) {
	t.Helper()
	t.Setenv("APPDATA", t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)

	db, err := storage.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewServer(db, cfg, 0), db
}

func TestGetConfig(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.handleConfig(rec, httptest.NewRequest(http.MethodGet, "/api/config", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		SpeedWPM      int    `json:"speedWpm"`
		SpeedCategory string `json:"speedCategory"`
		TriggerKey    string `json:"triggerKey"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 250, got.SpeedWPM)
	assert.NotEmpty(t, got.SpeedCategory)
	assert.Equal(t, "ctrl+shift+v", got.TriggerKey)
}

func TestPutConfigUpdatesSpeed(t *testing.T) {
	srv, _ := newTestServer(t)

	body := strings.NewReader(`{"speedWpm": 400}`)
	rec := httptest.NewRecorder()
	srv.handleConfig(rec, httptest.NewRequest(http.MethodPut, "/api/config", body))

	require.Equal(t, http.StatusOK, rec.Code)

	cfg := srv.GetConfig()
	assert.Equal(t, 400, cfg.Typing.SpeedWPM)
	assert.Greater(t, cfg.Typing.Delay, 0.0)
}

func TestPutConfigRejectsInvalidSpeed(t *testing.T) {
	srv, _ := newTestServer(t)

	body := strings.NewReader(`{"speedWpm": 50}`)
	rec := httptest.NewRecorder()
	srv.handleConfig(rec, httptest.NewRequest(http.MethodPut, "/api/config", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 250, srv.GetConfig().Typing.SpeedWPM)
}

func TestPutConfigRejectsBadTrigger(t *testing.T) {
	srv, _ := newTestServer(t)

	body := strings.NewReader(`{"triggerKey": "ctrl+nope"}`)
	rec := httptest.NewRecorder()
	srv.handleConfig(rec, httptest.NewRequest(http.MethodPut, "/api/config", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatsOnEmptyDatabase(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.handleStats(rec, httptest.NewRequest(http.MethodGet, "/api/stats?days=7", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Overall storage.OverallStats `json:"overall"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Zero(t, got.Overall.TotalSessions)
}

func TestHistoryRoundTrip(t *testing.T) {
	srv, db := newTestServer(t)

	sess := &storage.Session{
		Timestamp:      time.Now(),
		CharacterCount: 42,
		LineCount:      3,
		Strategy:       "platform-native",
		DurationMs:     1200,
		SpeedWPM:       250,
		Success:        true,
	}
	require.NoError(t, db.SaveSession(sess))

	rec := httptest.NewRecorder()
	srv.handleHistory(rec, httptest.NewRequest(http.MethodGet, "/api/history?limit=10", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Sessions []storage.Session `json:"sessions"`
		Total    int               `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Sessions, 1)
	assert.Equal(t, 42, got.Sessions[0].CharacterCount)
	assert.Equal(t, 1, got.Total)

	rec = httptest.NewRecorder()
	srv.handleHistory(rec, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/history/%d", sess.ID), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	count, err := db.GetSessionCount()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStatusReflectsSetStatus(t *testing.T) {
	srv, _ := newTestServer(t)
	srv.SetStatus("typing")

	rec := httptest.NewRecorder()
	srv.handleStatus(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"typing"}`, rec.Body.String())
}
