package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"interunit-recon-backend/internal/api/dto"
	"interunit-recon-backend/internal/application/service"
	"interunit-recon-backend/internal/infrastructure/storage"
)

// ReconcileHandler triggers reconciliation runs.
type ReconcileHandler struct {
	recon *service.ReconService
}

// NewReconcileHandler creates a new reconcile handler.
func NewReconcileHandler(recon *service.ReconService) *ReconcileHandler {
	return &ReconcileHandler{recon: recon}
}

// Run handles POST /api/reconcile - matches every unmatched transaction
// in scope and persists the results.
func (h *ReconcileHandler) Run(c *gin.Context) {
	var req dto.ReconcileRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.BadRequestError("invalid request body"))
			return
		}
	}

	summary, err := h.recon.Reconcile(storage.TransactionFilters{
		Lender:         req.Lender,
		Borrower:       req.Borrower,
		StatementMonth: req.StatementMonth,
		StatementYear:  req.StatementYear,
		PairID:         req.PairID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	c.JSON(http.StatusOK, summary)
}

// RunPair handles POST /api/reconcile/pair - reconciles both directions
// between two named companies.
func (h *ReconcileHandler) RunPair(c *gin.Context) {
	var req dto.ReconcilePairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("invalid request body"))
		return
	}

	if req.CompanyA == "" || req.CompanyB == "" {
		c.JSON(http.StatusBadRequest, dto.ValidationError("company_a and company_b are required"))
		return
	}

	summary, err := h.recon.ReconcilePair(req.CompanyA, req.CompanyB, storage.TransactionFilters{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	c.JSON(http.StatusOK, summary)
}
