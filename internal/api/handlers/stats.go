package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"interunit-recon-backend/internal/api/dto"
	"interunit-recon-backend/internal/infrastructure/storage"
)

// StatsHandler handles stats-related HTTP requests.
type StatsHandler struct {
	*Base
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(repo storage.Repository) *StatsHandler {
	return &StatsHandler{
		Base: NewBase(repo),
	}
}

// Get handles GET /api/stats - returns aggregate reconciliation statistics.
func (h *StatsHandler) Get(c *gin.Context) {
	stats, err := h.repo.GetStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	c.JSON(http.StatusOK, dto.StatsResponse{
		TotalTransactions:   stats.TotalTransactions,
		Unmatched:           stats.Unmatched,
		Matched:             stats.Matched,
		Confirmed:           stats.Confirmed,
		PendingVerification: stats.PendingVerification,
		MatchedAmount:       stats.MatchedAmount,
	})
}
