package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"levelup/internal/app"
	"levelup/internal/engine"
	"levelup/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	ctx := context.Background()

	db, err := storage.Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := slog.New(slog.NewTextHandler(testWriter{t}, nil))
	a := app.New(engine.DemoDocument(), storage.NewDocumentRepo(db), log)
	return New(a, log)
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestDataEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/api/data", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	require.Len(t, doc["heroes"], 2)
	require.NotEmpty(t, doc["challenges"])
}

func TestToggleEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/heroes/h1/challenges/ch-tech-01/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		Completed bool `json:"completed"`
		Awarded   int  `json:"awarded"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.True(t, res.Completed)
	require.Equal(t, 10, res.Awarded)

	rec = doJSON(t, s, http.MethodPost, "/api/heroes/h1/challenges/ch-tech-01/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.False(t, res.Completed)

	rec = doJSON(t, s, http.MethodPost, "/api/heroes/nope/challenges/ch-tech-01/toggle", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRewardFlowEndpoints(t *testing.T) {
	s := newTestServer(t)

	// No pending reward yet.
	rec := doJSON(t, s, http.MethodPost, "/api/heroes/h1/rewards/claim", map[string]string{"rewardId": "medal+1"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// Push h1 (level 3, xp 28) over the threshold: 40+20+10+40 = 110.
	for _, ch := range []string{"ch-tech-05", "ch-tech-03", "ch-tech-01", "ch-tech-06"} {
		rec := doJSON(t, s, http.MethodPost, "/api/heroes/h1/challenges/"+ch+"/toggle", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	// Claim before the auto-stat pick is rejected.
	rec = doJSON(t, s, http.MethodPost, "/api/heroes/h1/rewards/claim", map[string]string{"rewardId": "medal+1"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/heroes/h1/rewards/auto-stat", map[string]string{"stat": "int"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/heroes/h1/rewards/claim", map[string]string{"rewardId": "medal+1"})
	require.Equal(t, http.StatusOK, rec.Code)

	var entry engine.RewardsHistoryEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
	require.Equal(t, 4, entry.Level)
	require.Equal(t, "medal+1", entry.RewardID)
	require.NotNil(t, entry.AutoStatChosen)
	require.Equal(t, engine.StatINT, *entry.AutoStatChosen)
}

func TestWeekXPEndpoint(t *testing.T) {
	s := newTestServer(t)

	// h2 starts the week at zero.
	rec := doJSON(t, s, http.MethodPost, "/api/heroes/h2/week-xp", map[string]int{"amount": 10})
	require.Equal(t, http.StatusOK, rec.Code)
	var res map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Equal(t, 10, res["granted"])

	// h1's weekly quota is already exhausted in the demo data.
	rec = doJSON(t, s, http.MethodPost, "/api/heroes/h1/week-xp", map[string]int{"amount": 10})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Equal(t, 0, res["granted"])

	rec = doJSON(t, s, http.MethodPost, "/api/heroes/h1/week-xp", map[string]int{"amount": -5})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEventsEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/events?hero=h1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		Events []eventView `json:"events"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Events, 3)

	byID := map[string]eventView{}
	for _, ev := range res.Events {
		byID[ev.ID] = ev
	}

	// level_any 2: Eddy is level 3.
	garbanzo := byID["ev_garbanzo"]
	require.True(t, garbanzo.Unlocked)
	require.NotNil(t, garbanzo.Eligible)
	require.True(t, *garbanzo.Eligible)

	// completions_total 3: nobody has completed anything yet.
	loquito := byID["ev_loquito"]
	require.False(t, loquito.Unlocked)
}

func TestDefeatEndpoint(t *testing.T) {
	s := newTestServer(t)

	// ev_loquito is locked until 3 global completions.
	rec := doJSON(t, s, http.MethodPost, "/api/heroes/h1/events/ev_loquito/defeat", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	for _, ch := range []string{"ch-tech-01", "ch-tech-02", "ch-tech-03"} {
		doJSON(t, s, http.MethodPost, "/api/heroes/h1/challenges/"+ch+"/toggle", nil)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/heroes/h1/events/ev_loquito/defeat", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestStoreClaimEndpoint(t *testing.T) {
	s := newTestServer(t)

	// No medals yet.
	rec := doJSON(t, s, http.MethodPost, "/api/heroes/h1/store/store_demo_3/claim", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// Two hard completions pay a medal each; the mixed set also earns the
	// level-up bonus medal, for three total.
	for _, ch := range []string{"ch-tech-03", "ch-tech-05", "ch-tech-01", "ch-tech-06"} {
		doJSON(t, s, http.MethodPost, "/api/heroes/h1/challenges/"+ch+"/toggle", nil)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/heroes/h1/store/store_demo_3/claim", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var claim engine.StoreClaim
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &claim))
	require.Equal(t, "store_demo_3", claim.ItemID)

	rec = doJSON(t, s, http.MethodPost, "/api/heroes/h1/store/store_demo_3/claim", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestImportExportEndpoints(t *testing.T) {
	s := newTestServer(t)

	raw := `{"meta":{"seededDemo":true,"seededEvents":true},"heroes":[{"id":"x1","name":"Importada","level":2,"xp":10}]}`
	rec := doJSON(t, s, http.MethodPost, "/api/import", json.RawMessage(raw))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Disposition"), "LevelUp_backup_")

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	heroes := doc["heroes"].([]any)
	require.Len(t, heroes, 1)
	require.Equal(t, "Importada", heroes[0].(map[string]any)["name"])
}
