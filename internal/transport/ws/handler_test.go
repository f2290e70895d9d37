package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"heartcheck/internal/config"
	"heartcheck/internal/model"
	"heartcheck/internal/service"
	"heartcheck/internal/store"
)

type noPopRepo struct{}

func (noPopRepo) ListRecords(ctx context.Context) ([]model.HistoryRecord, error) {
	return nil, nil
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	logger := zap.NewNop()
	aiCfg := &config.AIConfig{TimeoutMS: 100}
	extractor := service.NewExtractor(aiCfg, logger)
	ml := service.NewMLRiskClient(aiCfg, logger)
	pop := service.NewPopulationService(noPopRepo{}, nil, logger)
	riskSvc := service.NewRiskService(ml, pop, logger)
	conv := service.NewConversationService(
		store.NewMemoryStore(0), extractor, riskSvc, nil, time.Second, logger)
	return NewHandler(conv)
}

func dialChat(t *testing.T, h *Handler) (*websocket.Conn, func()) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(h.Chat))
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

func TestChatOverWebsocket(t *testing.T) {
	h := newTestHandler(t)
	conn, done := dialChat(t, h)
	defer done()

	var opening service.Reply
	require.NoError(t, conn.ReadJSON(&opening))
	require.NotEmpty(t, opening.SessionID)
	assert.Contains(t, opening.Prompt, "How old are you")

	// bare text message
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("45")))
	var reply service.Reply
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Contains(t, reply.Prompt, "gender")

	// enveloped message
	require.NoError(t, conn.WriteJSON(map[string]string{"utterance": "female"}))
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Contains(t, reply.Prompt, "systolic")
	assert.Equal(t, opening.SessionID, reply.SessionID)
}
