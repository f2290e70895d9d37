package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"heartcheck/internal/service"
	"heartcheck/internal/transport/rest/handler"
	"heartcheck/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	ConversationService *service.ConversationService
	RiskService         *service.RiskService
	PopulationService   *service.PopulationService
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	chatHandler := handler.NewChatHandler(c.ConversationService)
	riskHandler := handler.NewRiskHandler(c.RiskService)
	populationHandler := handler.NewPopulationHandler(c.PopulationService)
	wsHandler := ws.NewHandler(c.ConversationService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/chat/start", chatHandler.Start).Methods("POST", "OPTIONS")
	v1.HandleFunc("/chat/{sessionId}/message", chatHandler.Message).Methods("POST", "OPTIONS")
	v1.HandleFunc("/chat/{sessionId}/amend", chatHandler.Amend).Methods("POST", "OPTIONS")
	v1.HandleFunc("/chat/{sessionId}/results", chatHandler.Results).Methods("GET", "OPTIONS")

	v1.HandleFunc("/risk/calculate", riskHandler.Calculate).Methods("POST", "OPTIONS")
	v1.HandleFunc("/population/stats", populationHandler.Stats).Methods("GET", "OPTIONS")

	// WebSocket chat (session id in query param, created on demand)
	v1.HandleFunc("/ws/chat", wsHandler.Chat).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
