package handler

import (
	"net/http"

	"heartcheck/internal/service"
)

// PopulationHandler serves the aggregated reference statistics
type PopulationHandler struct {
	popSvc *service.PopulationService
}

// NewPopulationHandler creates a new population handler
func NewPopulationHandler(popSvc *service.PopulationService) *PopulationHandler {
	return &PopulationHandler{popSvc: popSvc}
}

// Stats handles GET /v1/population/stats
func (h *PopulationHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.popSvc.Stats(r.Context()))
}
