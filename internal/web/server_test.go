package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/dailyos/internal/actions"
	"github.com/julianstephens/dailyos/internal/models"
	"github.com/julianstephens/dailyos/internal/storage/sqlite"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	aliceToken = "alice-token"
	bobToken   = "bob-token"
)

func setupTestServer(t *testing.T) *Server {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })

	svc := actions.NewService(store, time.UTC)
	svc.SetClock(func() time.Time { return time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC) })
	return NewServer(svc, Tokens{aliceToken: "alice", bobToken: "bob"})
}

func do(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthz(t *testing.T) {
	s := setupTestServer(t)
	w := do(t, s, http.MethodGet, "/healthz", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, w)["status"])
}

func TestAuth(t *testing.T) {
	s := setupTestServer(t)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + aliceToken, http.StatusUnauthorized},
		{"unknown token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + aliceToken, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/today", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			s.Handler().ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestTodayFlow(t *testing.T) {
	s := setupTestServer(t)

	w := do(t, s, http.MethodPost, "/api/work-units", aliceToken, map[string]string{"title": "Thesis"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	wu := decode[models.WorkUnit](t, w)

	w = do(t, s, http.MethodGet, "/api/today", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	today := decode[models.DayDetails](t, w)
	assert.Equal(t, "2026-10-17", today.Date)
	assert.Nil(t, today.WorkUnit)

	w = do(t, s, http.MethodPut, "/api/today/work-unit", aliceToken, map[string]string{"work_unit_id": wu.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, s, http.MethodPut, "/api/days/"+today.ID+"/intent", aliceToken, map[string]string{"intent": "Draft intro"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, s, http.MethodPut, "/api/days/"+today.ID+"/horizons/weekly", aliceToken, map[string]string{"content": "Chapter 1"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, s, http.MethodGet, "/api/days/2026-10-17", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	day := decode[models.DayDetails](t, w)
	require.NotNil(t, day.WorkUnit)
	assert.Equal(t, "Thesis", day.WorkUnit.Title)
	assert.Equal(t, "Draft intro", day.DailyIntent)
	assert.Equal(t, "Chapter 1", day.WeeklyHorizon)

	w = do(t, s, http.MethodGet, "/api/status", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	status := decode[map[string]any](t, w)
	assert.Equal(t, true, status["shown_up"])
	assert.Equal(t, false, status["checkpointed"])

	w = do(t, s, http.MethodGet, "/api/streaks", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[models.StreakData](t, w).PresenceStreak)

	w = do(t, s, http.MethodGet, "/api/momentum", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[models.MomentumSummary](t, w).Days, 7)
}

func TestErrorMapping(t *testing.T) {
	s := setupTestServer(t)

	w := do(t, s, http.MethodPost, "/api/work-units", aliceToken, map[string]string{"title": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "title is required")

	w = do(t, s, http.MethodGet, "/api/work-units/missing", aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, s, http.MethodPut, "/api/days/whatever/horizons/daily", aliceToken, map[string]string{"content": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/work-units", strings.NewReader("{not json"))
	req.Header.Set("Authorization", "Bearer "+aliceToken)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUsersAreIsolated(t *testing.T) {
	s := setupTestServer(t)

	w := do(t, s, http.MethodPost, "/api/work-units", aliceToken, map[string]string{"title": "Private"})
	require.Equal(t, http.StatusCreated, w.Code)
	wu := decode[models.WorkUnit](t, w)

	w = do(t, s, http.MethodGet, "/api/work-units/"+wu.ID, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, s, http.MethodGet, "/api/work-units", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]models.WorkUnit](t, w))
}

func TestChecklistRoutes(t *testing.T) {
	s := setupTestServer(t)

	w := do(t, s, http.MethodPost, "/api/work-units", aliceToken, map[string]string{"title": "Essay"})
	wu := decode[models.WorkUnit](t, w)

	var ids []string
	for _, label := range []string{"outline", "draft", "edit"} {
		w = do(t, s, http.MethodPost, "/api/work-units/"+wu.ID+"/checklist", aliceToken, map[string]string{"label": label})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		ids = append(ids, decode[models.ChecklistItem](t, w).ID)
	}

	w = do(t, s, http.MethodPatch, "/api/checklist-items/"+ids[0], aliceToken, map[string]any{"is_done": true, "label": "Outline"})
	require.Equal(t, http.StatusOK, w.Code)
	item := decode[models.ChecklistItem](t, w)
	assert.True(t, item.IsDone)
	assert.Equal(t, "Outline", item.Label)

	w = do(t, s, http.MethodPatch, "/api/checklist-items/"+ids[0], aliceToken, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodDelete, "/api/checklist-items/"+ids[1], aliceToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, s, http.MethodGet, "/api/work-units/active?with=counts", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	counts := decode[[]models.WorkUnitWithCounts](t, w)
	require.Len(t, counts, 1)
	assert.Equal(t, 2, counts[0].TotalCount)
	assert.Equal(t, 1, counts[0].CompletedCount)

	w = do(t, s, http.MethodGet, "/api/work-units/active?with=everything", aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNailLimitRoute(t *testing.T) {
	s := setupTestServer(t)
	today := decode[models.DayDetails](t, do(t, s, http.MethodGet, "/api/today", aliceToken, nil))

	for _, label := range []string{"a", "b", "c"} {
		w := do(t, s, http.MethodPost, "/api/days/"+today.ID+"/nails", aliceToken, map[string]string{"label": label})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	w := do(t, s, http.MethodPost, "/api/days/"+today.ID+"/nails", aliceToken, map[string]string{"label": "d"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "daily nail limit")
}

func TestCheckpointRoutes(t *testing.T) {
	s := setupTestServer(t)
	today := decode[models.DayDetails](t, do(t, s, http.MethodGet, "/api/today", aliceToken, nil))

	w := do(t, s, http.MethodGet, "/api/days/"+today.ID+"/checkpoint", aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	for _, summary := range []string{"first", "second"} {
		w = do(t, s, http.MethodPost, "/api/checkpoints", aliceToken, map[string]string{
			"day_id": today.ID, "completed_summary": summary, "mood": "good",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = do(t, s, http.MethodGet, "/api/checkpoints?limit=5", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cps := decode[[]models.CheckpointWithDate](t, w)
	require.Len(t, cps, 1)
	assert.Equal(t, "second", cps[0].CompletedSummary)

	w = do(t, s, http.MethodGet, "/api/checkpoints?limit=-1", aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsCountsRoutes(t *testing.T) {
	s := setupTestServer(t)
	do(t, s, http.MethodGet, "/api/today", aliceToken, nil)
	do(t, s, http.MethodGet, "/api/today", "", nil)

	w := do(t, s, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `dailyos_http_requests_total{method="GET",route="/api/today",status="200"} 1`)
	assert.Contains(t, body, `dailyos_http_requests_total{method="GET",route="/api/today",status="401"} 1`)
	assert.Contains(t, body, "dailyos_http_request_duration_seconds")
}
