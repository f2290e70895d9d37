package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"heartcheck/internal/config"
	"heartcheck/internal/model"
	"heartcheck/internal/service"
	"heartcheck/internal/store"
)

type emptyPopRepo struct{}

func (emptyPopRepo) ListRecords(ctx context.Context) ([]model.HistoryRecord, error) {
	return nil, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := zap.NewNop()
	aiCfg := &config.AIConfig{TimeoutMS: 100}

	extractor := service.NewExtractor(aiCfg, logger)
	ml := service.NewMLRiskClient(aiCfg, logger)
	pop := service.NewPopulationService(emptyPopRepo{}, nil, logger)
	riskSvc := service.NewRiskService(ml, pop, logger)
	conv := service.NewConversationService(
		store.NewMemoryStore(0), extractor, riskSvc, nil, time.Second, logger)

	return NewRouter(&Container{
		ConversationService: conv,
		RiskService:         riskSvc,
		PopulationService:   pop,
	})
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestChatEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, "POST", "/v1/chat/start", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var start service.Reply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &start))
	require.NotEmpty(t, start.SessionID)
	assert.Equal(t, model.StageCollecting, start.Stage)

	rec = doJSON(t, router, "POST",
		fmt.Sprintf("/v1/chat/%s/message", start.SessionID),
		map[string]string{"utterance": "45"})
	require.Equal(t, http.StatusOK, rec.Code)

	var reply service.Reply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Contains(t, reply.Prompt, "gender")

	// results exist only after a calculation
	rec = doJSON(t, router, "GET",
		fmt.Sprintf("/v1/chat/%s/results", start.SessionID), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// amending the already-given age works at any stage
	rec = doJSON(t, router, "POST",
		fmt.Sprintf("/v1/chat/%s/amend", start.SessionID),
		map[string]string{"field": "age", "utterance": "50"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestChatUnknownSession(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, "POST", "/v1/chat/nope/message",
		map[string]string{"utterance": "hi"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "session not found, start a new one")
	assert.NotContains(t, rec.Body.String(), "\u2014", "error copy sticks to plain punctuation")

	rec = doJSON(t, router, "GET", "/v1/chat/nope/results", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRiskCalculateEndpoint(t *testing.T) {
	router := newTestRouter(t)

	body := map[string]interface{}{
		"age": 45, "gender": "male", "systolicBP": 140,
		"cholesterol": 220, "hdlCholesterol": 45,
		"smoking": "current", "diabetes": true,
	}
	rec := doJSON(t, router, "POST", "/v1/risk/calculate", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Assessment      *model.RiskAssessment  `json:"assessment"`
		Recommendations []model.Recommendation `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Assessment)
	assert.Equal(t, model.RiskHigh, resp.Assessment.Category)
	assert.NotEmpty(t, resp.Recommendations)
}

func TestRiskCalculateValidation(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, "POST", "/v1/risk/calculate",
		map[string]interface{}{"gender": "male"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing age")

	rec = doJSON(t, router, "POST", "/v1/risk/calculate",
		map[string]interface{}{"age": 20, "gender": "other"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "no model can score")
}

func TestPopulationStatsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, "GET", "/v1/population/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats model.PopulationStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Len(t, stats.Metrics, 6)
}

func TestHealthAndCORS(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	req := httptest.NewRequest("OPTIONS", "/v1/chat/start", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
