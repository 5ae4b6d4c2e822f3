package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/crosstrainer/internal/config"
	"github.com/abhisek/crosstrainer/internal/logging"
	"github.com/abhisek/crosstrainer/internal/metrics"
	"github.com/abhisek/crosstrainer/internal/practice"
	"github.com/abhisek/crosstrainer/internal/scramble"
	"github.com/abhisek/crosstrainer/internal/srs"
	"github.com/abhisek/crosstrainer/internal/stats"
	"github.com/abhisek/crosstrainer/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const recon = "Cross: R U R' // cross\n1st pair: U R U' R'\n2nd pair: L' U L"

type testEnv struct {
	handler http.Handler
	solves  []*store.Solve
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st, err := store.Open(store.DriverSQLite, filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	m := metrics.New()
	srsSvc, err := srs.NewService(st.Solves(), st.SRS(), srs.WithMetrics(m))
	require.NoError(t, err)

	r := recon
	solves := []*store.Solve{
		{Puzzle: "3x3", Solver: "Max Park", Result: 4.86, Scramble: "F2 D", Reconstruction: &r},
		{Puzzle: "3x3", Solver: "Tymon Kolasinski", Result: 5.12, Scramble: "B L2"},
	}
	require.NoError(t, st.Solves().CreateBatch(context.Background(), solves))

	srv := New(config.DefaultConfig().Server, Deps{
		Practice:  practice.NewService(st.Sessions(), st.Attempts(), practice.WithMetrics(m)),
		SRS:       srsSvc,
		Stats:     stats.NewService(st.Attempts()),
		Scrambles: scramble.NewBank(map[int][]string{3: {"R U F", "L D B", "F2 U R"}}),
		Metrics:   m,
		Logger:    logging.Discard(),
	})
	return &testEnv{handler: srv.Handler(), solves: solves}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func assertError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, code, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.Message)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestNoRoute(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/api/nope", nil)
	assertError(t, w, http.StatusNotFound, CodeNotFound)
	assert.Contains(t, w.Body.String(), "Route GET /api/nope not found")
}

func TestScrambles(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/scrambles/random?moves=3&count=5&color=yellow", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Scrambles []scramble.Scramble `json:"scrambles"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Scrambles, 5)
	for _, s := range resp.Scrambles {
		assert.Equal(t, 3, s.Moves)
		assert.Equal(t, "yellow", s.Color)
	}

	assertError(t, env.do(t, http.MethodGet, "/api/scrambles/random", nil), http.StatusBadRequest, CodeInvalidParams)
	assertError(t, env.do(t, http.MethodGet, "/api/scrambles/random?moves=abc", nil), http.StatusBadRequest, CodeInvalidParams)
	assertError(t, env.do(t, http.MethodGet, "/api/scrambles/random?moves=3&count=101", nil), http.StatusBadRequest, CodeInvalidParams)
	assertError(t, env.do(t, http.MethodGet, "/api/scrambles/random?moves=3&color=pink", nil), http.StatusBadRequest, CodeInvalidParams)
	assertError(t, env.do(t, http.MethodGet, "/api/scrambles/random?moves=5", nil), http.StatusNotFound, CodeNotFound)

	w = env.do(t, http.MethodGet, "/api/scrambles/count", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var counts struct {
		Counts map[string]int `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &counts))
	assert.Len(t, counts.Counts, scramble.MaxMoves)
	assert.Equal(t, 3, counts.Counts["3"])
	assert.Equal(t, 0, counts.Counts["7"])
}

func TestSessions(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Session store.Session `json:"session"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id := created.Session.ID
	require.NotEmpty(t, id)
	assert.Nil(t, created.Session.EndedAt)

	w = env.do(t, http.MethodGet, "/api/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)

	assertError(t, env.do(t, http.MethodPatch, "/api/sessions/"+id, nil), http.StatusBadRequest, CodeInvalidParams)
	assertError(t, env.do(t, http.MethodPatch, "/api/sessions/"+id, "{not json"), http.StatusBadRequest, CodeInvalidParams)

	w = env.do(t, http.MethodPatch, "/api/sessions/"+id, map[string]any{
		"ended_at": "2026-03-14T10:00:00Z",
		"notes":    "good session",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated struct {
		Session store.Session `json:"session"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.NotNil(t, updated.Session.EndedAt)
	require.NotNil(t, updated.Session.Notes)
	assert.Equal(t, "good session", *updated.Session.Notes)

	assertError(t, env.do(t, http.MethodGet, "/api/sessions/00000000-0000-0000-0000-000000000000", nil), http.StatusNotFound, CodeNotFound)
	assertError(t, env.do(t, http.MethodPatch, "/api/sessions/00000000-0000-0000-0000-000000000000", map[string]any{"notes": "x"}), http.StatusNotFound, CodeNotFound)

	w = env.do(t, http.MethodGet, "/api/sessions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Sessions []store.SessionSummary `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Sessions, 1)
	assert.Equal(t, id, list.Sessions[0].ID)

	assertError(t, env.do(t, http.MethodGet, "/api/sessions?limit=-1", nil), http.StatusBadRequest, CodeInvalidParams)
}

func TestAttempts(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Session store.Session `json:"session"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	sessionID := created.Session.ID

	for i, moves := range []int{3, 3, 5} {
		w := env.do(t, http.MethodPost, "/api/attempts", map[string]any{
			"session_id":         sessionID,
			"scramble":           fmt.Sprintf("R U F %d", i),
			"cross_moves":        moves,
			"pairs_attempted":    1,
			"cross_success":      i != 1,
			"pairs_planned":      1,
			"inspection_time_ms": 8000 + i*1000,
			"notes":              "missed the edge",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodPost, "/api/attempts", map[string]any{"scramble": "R", "cross_moves": 8})
	assertError(t, w, http.StatusBadRequest, CodeInvalidParams)
	assert.Contains(t, w.Body.String(), "cross_moves")

	assertError(t, env.do(t, http.MethodPost, "/api/attempts", map[string]any{"cross_moves": 3}), http.StatusBadRequest, CodeInvalidParams)
	assertError(t, env.do(t, http.MethodPost, "/api/attempts", map[string]any{
		"session_id":  "00000000-0000-0000-0000-000000000000",
		"scramble":    "R",
		"cross_moves": 3,
	}), http.StatusBadRequest, CodeInvalidReference)

	w = env.do(t, http.MethodGet, "/api/attempts?cross_moves=3&session_id="+sessionID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var list struct {
		Attempts []store.Attempt `json:"attempts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Attempts, 2)
	assert.Equal(t, "white", list.Attempts[0].CrossColor)

	assertError(t, env.do(t, http.MethodGet, "/api/attempts?date_from=yesterday", nil), http.StatusBadRequest, CodeInvalidParams)

	id := int64(list.Attempts[0].ID)
	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/attempts/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assertError(t, env.do(t, http.MethodGet, "/api/attempts/abc", nil), http.StatusBadRequest, CodeInvalidParams)
	assertError(t, env.do(t, http.MethodGet, "/api/attempts/9999", nil), http.StatusNotFound, CodeNotFound)
}

func TestStats(t *testing.T) {
	env := newTestEnv(t)

	for _, success := range []bool{true, false, true, true} {
		w := env.do(t, http.MethodPost, "/api/attempts", map[string]any{
			"scramble":           "R U F",
			"cross_moves":        4,
			"cross_success":      success,
			"inspection_time_ms": 10000,
			"notes":              "note",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := env.do(t, http.MethodGet, "/api/stats/summary", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	sum := decode(t, w)
	assert.EqualValues(t, 4, sum["total_attempts"])
	assert.EqualValues(t, 75, sum["overall_cross_success_rate"])
	assert.EqualValues(t, 10000, sum["avg_inspection_time_ms"])

	assertError(t, env.do(t, http.MethodGet, "/api/stats/summary?date_from=2026-03-10&date_to=2026-03-01", nil), http.StatusBadRequest, CodeInvalidParams)

	w = env.do(t, http.MethodGet, "/api/stats/daily?days=7", nil)
	require.Equal(t, http.StatusOK, w.Code)
	daily := decode(t, w)["daily"].([]any)
	require.Len(t, daily, 1)

	w = env.do(t, http.MethodGet, "/api/stats/time-by-difficulty", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].([]any)
	require.Len(t, data, 1)

	w = env.do(t, http.MethodGet, "/api/stats/recent-notes?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	notes := decode(t, w)["attempts"].([]any)
	assert.Len(t, notes, 2)
}

func TestSRSFlow(t *testing.T) {
	env := newTestEnv(t)
	solveID := env.solves[0].ID

	w := env.do(t, http.MethodPost, "/api/srs/add", map[string]any{"solve_id": solveID, "depth": 0})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var added struct {
		Item store.SRSItem `json:"item"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &added))
	itemID := added.Item.ID
	require.NotZero(t, itemID)

	assertError(t, env.do(t, http.MethodPost, "/api/srs/add", map[string]any{"solve_id": solveID, "depth": 0}), http.StatusConflict, CodeDuplicate)
	assertError(t, env.do(t, http.MethodPost, "/api/srs/add", map[string]any{"solve_id": solveID}), http.StatusBadRequest, CodeValidationError)
	assertError(t, env.do(t, http.MethodPost, "/api/srs/add", map[string]any{"solve_id": solveID, "depth": 4}), http.StatusBadRequest, CodeValidationError)
	assertError(t, env.do(t, http.MethodPost, "/api/srs/add", map[string]any{"solve_id": 9999, "depth": 1}), http.StatusNotFound, CodeNotFound)

	w = env.do(t, http.MethodGet, "/api/srs/due", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var due srs.DueList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &due))
	assert.Equal(t, 1, due.TotalDue)
	require.Len(t, due.Items, 1)
	assert.Equal(t, "Max Park", due.Items[0].Solver)

	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/srs/item/%d/solution", itemID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	sol := decode(t, w)
	assert.Equal(t, "R U R'", sol["moves_at_depth"])
	assert.EqualValues(t, 3, sol["move_count"])
	assert.True(t, strings.HasPrefix(sol["alg_cubing_url"].(string), "https://alg.cubing.net/"))

	assertError(t, env.do(t, http.MethodPost, "/api/srs/review", map[string]any{"srs_item_id": itemID}), http.StatusBadRequest, CodeValidationError)
	assertError(t, env.do(t, http.MethodPost, "/api/srs/review", map[string]any{"srs_item_id": itemID, "quality": 6}), http.StatusBadRequest, CodeValidationError)
	assertError(t, env.do(t, http.MethodPost, "/api/srs/review", map[string]any{"srs_item_id": 9999, "quality": 4}), http.StatusNotFound, CodeNotFound)

	w = env.do(t, http.MethodPost, "/api/srs/review", map[string]any{"srs_item_id": itemID, "quality": 4, "response_time_ms": 5200})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var reviewed struct {
		Item   store.SRSItem `json:"item"`
		Passed bool          `json:"passed"`
		Label  string        `json:"label"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reviewed))
	assert.True(t, reviewed.Passed)
	assert.Equal(t, 1, reviewed.Item.Repetitions)
	assert.Equal(t, 1, reviewed.Item.IntervalDays)
	assert.Equal(t, "Correct with hesitation", reviewed.Label)

	w = env.do(t, http.MethodGet, "/api/srs/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	st := decode(t, w)
	assert.EqualValues(t, 1, st["total_items"])
	assert.EqualValues(t, 0, st["due_today"])
	assert.EqualValues(t, 1, st["reviews_last_7_days"])

	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/srs/item/%d", itemID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	del := decode(t, w)
	assert.Equal(t, true, del["success"])
	assert.EqualValues(t, itemID, del["deleted_id"])

	assertError(t, env.do(t, http.MethodDelete, fmt.Sprintf("/api/srs/item/%d", itemID), nil), http.StatusNotFound, CodeNotFound)
	assertError(t, env.do(t, http.MethodGet, "/api/srs/item/x/solution", nil), http.StatusBadRequest, CodeValidationError)
}

func TestSolves(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/solves?solver=max", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var page srs.SolvePage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Solves, 1)
	assert.Equal(t, "Max Park", page.Solves[0].Solver)

	assertError(t, env.do(t, http.MethodGet, "/api/solves?min_result=fast", nil), http.StatusBadRequest, CodeValidationError)

	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/solves/%d", env.solves[0].ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	detail := decode(t, w)
	assert.Equal(t, "Max Park", detail["solver"])
	assert.NotNil(t, detail["parsed_segments"])

	assertError(t, env.do(t, http.MethodGet, "/api/solves/9999", nil), http.StatusNotFound, CodeNotFound)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodGet, "/api/health", nil)
	env.do(t, http.MethodGet, "/api/scrambles/random?moves=3&count=2", nil)

	w := env.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `crosstrainer_http_requests_total{method="GET",route="/api/health",status="200"} 1`)
	assert.Contains(t, body, `crosstrainer_scrambles_served_total{moves="3"} 2`)
}

func TestCORSConfig(t *testing.T) {
	assert.True(t, corsConfig([]string{"*"}).AllowAllOrigins)
	assert.True(t, corsConfig(nil).AllowAllOrigins)
	c := corsConfig([]string{"http://localhost:5173"})
	assert.False(t, c.AllowAllOrigins)
	assert.Equal(t, []string{"http://localhost:5173"}, c.AllowOrigins)
}
