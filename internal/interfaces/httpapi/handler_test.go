package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NicolasVillafane/prodeApp/internal/domain/fixture"
	"github.com/NicolasVillafane/prodeApp/internal/infrastructure/repository/memory"
	"github.com/NicolasVillafane/prodeApp/internal/platform/cache"
	"github.com/NicolasVillafane/prodeApp/internal/platform/id"
	"github.com/NicolasVillafane/prodeApp/internal/platform/logging"
	"github.com/NicolasVillafane/prodeApp/internal/usecase"
)

// countingSource counts matchday reads that reach the competition source.
type countingSource struct {
	*memory.FixtureSource
	matchdayReads atomic.Int32
}

func (s *countingSource) ListMatchday(ctx context.Context, competitionID int64, matchday int) ([]fixture.Fixture, error) {
	s.matchdayReads.Add(1)
	return s.FixtureSource.ListMatchday(ctx, competitionID, matchday)
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	router, _ := newCountingTestRouter(t)
	return router
}

// newCountingTestRouter serves a competition whose only matchday is finished, so views stay on it.
func newCountingTestRouter(t *testing.T) (http.Handler, *countingSource) {
	t.Helper()

	var fixtures []fixture.Fixture
	for _, f := range memory.SeedFixtures() {
		if f.Matchday == 1 {
			fixtures = append(fixtures, f)
		}
	}
	source := &countingSource{FixtureSource: memory.NewFixtureSource(memory.SeedCompetitions(), fixtures)}
	pools := memory.NewPoolRepository(nil)
	predictions := memory.NewPredictionRepository()
	logger := logging.NewNop()
	idGen := id.NewUUIDGenerator()

	poolViews := usecase.NewPoolViewService(
		pools,
		predictions,
		usecase.NewMatchdayResolver(source, logger),
		usecase.NewPredictionCorrelator(predictions, 2),
		usecase.NewPointsAwarder(predictions, 3, 2, logger),
		cache.NewMemoryViewCache(),
		usecase.PoolViewConfig{},
		logger,
	)
	handler := NewHandler(
		poolViews,
		usecase.NewPredictionService(pools, predictions, idGen, poolViews),
		usecase.NewPoolService(pools, source, idGen, poolViews),
		usecase.NewCompetitionService(source, source, source),
		logger,
	)
	return NewRouter(handler, logger, []string{"*"}), source
}

func doRequest(t *testing.T, router http.Handler, method, target, userID, body string) (int, map[string]any) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set(headerUserID, userID)
		req.Header.Set(headerUsername, "name-"+userID)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var payload map[string]any
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &payload), "body=%s", rec.Body.String())
	return rec.Code, payload
}

func errorReason(t *testing.T, payload map[string]any) string {
	t.Helper()

	errObj, ok := payload["error"].(map[string]any)
	require.True(t, ok, "expected error object, got %v", payload)
	items, ok := errObj["errors"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, items)
	reason, _ := items[0].(map[string]any)["reason"].(string)
	return reason
}

func createTestPool(t *testing.T, router http.Handler, owner string, public bool) string {
	t.Helper()

	body := `{"name":"Office prode","competition_id":2021,"is_public":false}`
	if public {
		body = `{"name":"Office prode","competition_id":2021,"is_public":true}`
	}
	status, payload := doRequest(t, router, http.MethodPost, "/p", owner, body)
	require.Equal(t, http.StatusCreated, status, "payload=%v", payload)

	data := payload["data"].(map[string]any)
	poolID, _ := data["id"].(string)
	require.NotEmpty(t, poolID)
	assert.Equal(t, "Premier League", data["competitionName"])
	return poolID
}

func TestHandler_Healthz(t *testing.T) {
	t.Parallel()

	status, payload := doRequest(t, newTestRouter(t), http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "2.0", payload["apiVersion"])
}

func TestHandler_PredictionFlowAwardsPoints(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	poolID := createTestPool(t, router, "owner", true)

	status, _ := doRequest(t, router, http.MethodPost, "/p/"+poolID+"/join", "guest", "")
	require.Equal(t, http.StatusOK, status)

	body := `{"match_id":1001,"predicted_result":"HOME_TEAM","user_id":"owner","prode_id":"` + poolID + `"}`
	status, payload := doRequest(t, router, http.MethodPost, "/p/"+poolID, "", body)
	require.Equal(t, http.StatusOK, status, "payload=%v", payload)
	assert.Equal(t, "Prediction submitted successfully", payload["data"].(map[string]any)["message"])

	body = `{"match_id":1002,"predicted_result":"HOME_TEAM","user_id":"guest","prode_id":"` + poolID + `"}`
	status, _ = doRequest(t, router, http.MethodPost, "/p/"+poolID, "", body)
	require.Equal(t, http.StatusOK, status)

	// Two reads must not pay twice.
	for range 2 {
		status, payload = doRequest(t, router, http.MethodGet, "/p/"+poolID+"?userId=owner", "", "")
		require.Equal(t, http.StatusOK, status, "payload=%v", payload)
	}

	data := payload["data"].(map[string]any)
	assert.Equal(t, true, data["isAuthor"])
	assert.Equal(t, true, data["seasonEnded"])
	assert.EqualValues(t, 1, data["currentMatchday"])

	football := data["football"].([]any)
	require.Len(t, football, 2)
	first := football[0].(map[string]any)
	assert.EqualValues(t, 1001, first["match"].(map[string]any)["id"])
	assert.Equal(t, "HOME_TEAM", first["prediction"])
	assert.Equal(t, true, first["isPredictionCorrect"])
	second := football[1].(map[string]any)
	assert.Nil(t, second["prediction"])
	assert.Nil(t, second["isPredictionCorrect"])

	points := data["prodePoints"].([]any)
	require.Len(t, points, 2)
	leader := points[0].(map[string]any)
	assert.Equal(t, "owner", leader["user_id"])
	assert.Equal(t, poolID, leader["prode_id"])
	assert.EqualValues(t, 3, leader["points"])
	assert.EqualValues(t, 0, points[1].(map[string]any)["points"])
}

func TestHandler_CachedPoolViewIsByteIdentical(t *testing.T) {
	t.Parallel()

	router, source := newCountingTestRouter(t)
	poolID := createTestPool(t, router, "owner", true)

	body := `{"match_id":1001,"predicted_result":"HOME_TEAM","user_id":"owner","prode_id":"` + poolID + `"}`
	status, _ := doRequest(t, router, http.MethodPost, "/p/"+poolID, "", body)
	require.Equal(t, http.StatusOK, status)

	get := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/p/"+poolID+"?userId=owner", nil))
		require.Equal(t, http.StatusOK, rec.Code, "body=%s", rec.Body.String())
		return rec
	}

	first := get()
	readsAfterFirst := source.matchdayReads.Load()
	require.Positive(t, readsAfterFirst)

	second := get()
	assert.Equal(t, readsAfterFirst, source.matchdayReads.Load(), "cache hit must not reach the source")
	require.Equal(t, first.Body.Bytes(), second.Body.Bytes())
	assert.Contains(t, first.Body.String(), `"isPredictionCorrect":true`)
}

func TestHandler_CompetitionMatches(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	status, payload := doRequest(t, router, http.MethodGet, "/competitions/2021/matches", "", "")
	require.Equal(t, http.StatusOK, status, "payload=%v", payload)
	items := payload["data"].([]any)
	require.Len(t, items, 2)
	first := items[0].(map[string]any)
	assert.EqualValues(t, 1001, first["id"])
	assert.EqualValues(t, 1, first["matchday"])
	assert.Equal(t, "HOME_TEAM", first["score"].(map[string]any)["winner"])

	status, payload = doRequest(t, router, http.MethodGet, "/competitions/9/matches", "", "")
	require.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "upstreamUnavailable", errorReason(t, payload))

	status, _ = doRequest(t, router, http.MethodGet, "/competitions/0/matches", "", "")
	require.Equal(t, http.StatusBadRequest, status)
}

func TestHandler_SubmitPredictionRejectsDuplicate(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	poolID := createTestPool(t, router, "owner", false)
	body := `{"match_id":1001,"predicted_result":"DRAW","user_id":"owner","prode_id":"` + poolID + `"}`

	status, _ := doRequest(t, router, http.MethodPost, "/p/"+poolID, "", body)
	require.Equal(t, http.StatusOK, status)

	status, payload := doRequest(t, router, http.MethodPost, "/p/"+poolID, "", body)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "duplicatePrediction", errorReason(t, payload))
}

func TestHandler_SubmitPredictionRequiresMembership(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	poolID := createTestPool(t, router, "owner", true)
	body := `{"match_id":1001,"predicted_result":"HOME_TEAM","user_id":"stranger","prode_id":"` + poolID + `"}`

	status, payload := doRequest(t, router, http.MethodPost, "/p/"+poolID, "", body)
	require.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "forbidden", errorReason(t, payload))

	status, payload = doRequest(t, router, http.MethodGet, "/p/"+poolID+"?userId=stranger", "", "")
	require.Equal(t, http.StatusOK, status)
	football := payload["data"].(map[string]any)["football"].([]any)
	assert.Nil(t, football[0].(map[string]any)["prediction"])
}

func TestHandler_SubmitPredictionValidatesBody(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	poolID := createTestPool(t, router, "owner", false)

	tests := []struct {
		name string
		body string
	}{
		{name: "missing user", body: `{"match_id":1001,"predicted_result":"DRAW","prode_id":"` + poolID + `"}`},
		{name: "bad outcome", body: `{"match_id":1001,"predicted_result":"WIN","user_id":"owner","prode_id":"` + poolID + `"}`},
		{name: "unknown field", body: `{"match_id":1001,"predicted_result":"DRAW","user_id":"owner","prode_id":"` + poolID + `","extra":1}`},
		{name: "pool mismatch", body: `{"match_id":1001,"predicted_result":"DRAW","user_id":"owner","prode_id":"other"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, payload := doRequest(t, router, http.MethodPost, "/p/"+poolID, "", tt.body)
			require.Equal(t, http.StatusBadRequest, status, "payload=%v", payload)
			assert.Equal(t, "invalidInput", errorReason(t, payload))
		})
	}
}

func TestHandler_GetPoolViewUnknownPool(t *testing.T) {
	t.Parallel()

	status, payload := doRequest(t, newTestRouter(t), http.MethodGet, "/p/missing", "", "")
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "poolNotFound", errorReason(t, payload))
}

func TestHandler_PrivatePoolJoinIsForbidden(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	poolID := createTestPool(t, router, "owner", false)

	status, payload := doRequest(t, router, http.MethodPost, "/p/"+poolID+"/join", "guest", "")
	require.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "forbidden", errorReason(t, payload))
}

func TestHandler_DeletePoolOwnerOnly(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	poolID := createTestPool(t, router, "owner", true)

	status, _ := doRequest(t, router, http.MethodDelete, "/p/"+poolID+"?userId=guest", "", "")
	require.Equal(t, http.StatusForbidden, status)

	status, _ = doRequest(t, router, http.MethodDelete, "/p/"+poolID+"?userId=owner", "", "")
	require.Equal(t, http.StatusOK, status)

	status, _ = doRequest(t, router, http.MethodGet, "/p/"+poolID, "", "")
	require.Equal(t, http.StatusNotFound, status)
}

func TestHandler_ListPoolsShowsPublicAndOwn(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	publicID := createTestPool(t, router, "alice", true)
	privateID := createTestPool(t, router, "bob", false)

	status, payload := doRequest(t, router, http.MethodGet, "/p?userId=carol", "", "")
	require.Equal(t, http.StatusOK, status)
	ids := poolIDs(payload)
	assert.Contains(t, ids, publicID)
	assert.NotContains(t, ids, privateID)

	status, payload = doRequest(t, router, http.MethodGet, "/p", "bob", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, poolIDs(payload), privateID)
}

func poolIDs(payload map[string]any) []string {
	items, _ := payload["data"].([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if id, ok := item.(map[string]any)["id"].(string); ok {
			out = append(out, id)
		}
	}
	return out
}

func TestHandler_Competition(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	status, payload := doRequest(t, router, http.MethodGet, "/competitions/2021", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "PL", payload["data"].(map[string]any)["code"])

	status, payload = doRequest(t, router, http.MethodGet, "/competitions/2021/teams", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, payload["data"].([]any), 4)

	status, _ = doRequest(t, router, http.MethodGet, "/competitions/abc", "", "")
	require.Equal(t, http.StatusBadRequest, status)
}
