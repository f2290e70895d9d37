// Package ws serves the conversational flow over a websocket: text
// utterances in, JSON replies out, one connection per session.
package ws

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"heartcheck/internal/model"
	"heartcheck/internal/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS is handled at the HTTP layer
	},
}

// Handler upgrades chat connections.
type Handler struct {
	conversationSvc *service.ConversationService
}

// NewHandler creates a websocket chat handler.
func NewHandler(conversationSvc *service.ConversationService) *Handler {
	return &Handler{conversationSvc: conversationSvc}
}

type wsError struct {
	Error string `json:"error"`
}

// Chat handles GET /v1/ws/chat?sessionId=...
// The server opens with the current prompt, then answers every text
// message with a service.Reply. Per-session serialization is enforced
// by the conversation service, so multiple connections cannot corrupt
// a session.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	reply, err := h.conversationSvc.Start(r.Context(), r.URL.Query().Get("sessionId"))
	if err != nil {
		conn.WriteJSON(wsError{Error: err.Error()})
		return
	}
	sessionID := reply.SessionID
	if err := conn.WriteJSON(reply); err != nil {
		return
	}

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		var utterance string
		// Accept either a bare string or {"utterance": "..."}.
		var envelope struct {
			Utterance string `json:"utterance"`
		}
		if err := json.Unmarshal(data, &envelope); err == nil && envelope.Utterance != "" {
			utterance = envelope.Utterance
		} else {
			utterance = string(data)
		}

		reply, err := h.conversationSvc.HandleMessage(r.Context(), sessionID, utterance)
		if err != nil {
			if errors.Is(err, model.ErrSessionNotFound) {
				conn.WriteJSON(wsError{Error: "session expired, reconnect to start over"})
				return
			}
			conn.WriteJSON(wsError{Error: err.Error()})
			continue
		}
		if err := conn.WriteJSON(reply); err != nil {
			return
		}
	}
}
