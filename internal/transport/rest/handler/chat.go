package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"heartcheck/internal/model"
	"heartcheck/internal/service"
)

// ChatHandler handles the guided conversation endpoints
type ChatHandler struct {
	conversationSvc *service.ConversationService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(conversationSvc *service.ConversationService) *ChatHandler {
	return &ChatHandler{conversationSvc: conversationSvc}
}

// StartRequest is the request body for starting a conversation
type StartRequest struct {
	SessionID string `json:"sessionId,omitempty"`
}

// MessageRequest is the request body for one user utterance
type MessageRequest struct {
	Utterance string `json:"utterance"`
}

// AmendRequest overwrites one previously collected field
type AmendRequest struct {
	Field     model.FieldID `json:"field"`
	Utterance string        `json:"utterance"`
}

// Start handles POST /v1/chat/start
func (h *ChatHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if r.Body != nil {
		// An empty body starts a fresh session.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	reply, err := h.conversationSvc.Start(r.Context(), req.SessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

// Message handles POST /v1/chat/{sessionId}/message
func (h *ChatHandler) Message(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := h.conversationSvc.HandleMessage(r.Context(), sessionID, req.Utterance)
	if err != nil {
		if errors.Is(err, model.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "session not found, start a new one")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

// Amend handles POST /v1/chat/{sessionId}/amend
func (h *ChatHandler) Amend(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req AmendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Field == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := h.conversationSvc.Amend(r.Context(), sessionID, req.Field, req.Utterance)
	if err != nil {
		if errors.Is(err, model.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "session not found, start a new one")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

// Results handles GET /v1/chat/{sessionId}/results
func (h *ChatHandler) Results(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	assessment, recommendations, err := h.conversationSvc.Results(sessionID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrSessionNotFound):
			writeError(w, http.StatusNotFound, "session not found, start a new one")
		case errors.Is(err, model.ErrInsufficientData):
			writeError(w, http.StatusUnprocessableEntity, "no risk assessment has been calculated yet")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"assessment":      assessment,
		"recommendations": recommendations,
	})
}
