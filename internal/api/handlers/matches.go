package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"interunit-recon-backend/internal/api/dto"
	"interunit-recon-backend/internal/domain/matcher"
	"interunit-recon-backend/internal/infrastructure/storage"
)

// MatchesHandler handles matched-pair queries and match review actions.
type MatchesHandler struct {
	*Base
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(repo storage.Repository) *MatchesHandler {
	return &MatchesHandler{
		Base: NewBase(repo),
	}
}

// List handles GET /api/matches - returns matched pairs, optionally
// narrowed to one status via the status query parameter.
func (h *MatchesHandler) List(c *gin.Context) {
	h.listByStatus(c, c.Query("status"))
}

// Pending handles GET /api/matches/pending - pairs awaiting manual review.
func (h *MatchesHandler) Pending(c *gin.Context) {
	h.listByStatus(c, matcher.StatusPendingVerification)
}

// Confirmed handles GET /api/matches/confirmed - auto-accepted and
// manually accepted pairs.
func (h *MatchesHandler) Confirmed(c *gin.Context) {
	h.listByStatus(c, matcher.StatusConfirmed)
}

func (h *MatchesHandler) listByStatus(c *gin.Context, status string) {
	filters := filtersFromQuery(c)

	pairs, err := h.repo.GetMatchedPairs(status, filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.MatchedPairListResponse{
		Pairs: make([]dto.MatchedPairResponse, 0, len(pairs)),
		Count: len(pairs),
	}
	for i := range pairs {
		response.Pairs = append(response.Pairs, toMatchedPairResponse(&pairs[i]))
	}

	c.JSON(http.StatusOK, response)
}

// Accept handles POST /api/matches/:uid/accept - confirms both legs.
func (h *MatchesHandler) Accept(c *gin.Context) {
	uid := c.Param("uid")

	if err := h.repo.AcceptMatch(uid); err != nil {
		h.writeMatchActionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MatchActionResponse{UID: uid, Status: matcher.StatusConfirmed})
}

// Reject handles POST /api/matches/:uid/reject - clears the match from
// both legs so they return to the unmatched pool.
func (h *MatchesHandler) Reject(c *gin.Context) {
	uid := c.Param("uid")

	if err := h.repo.RejectMatch(uid); err != nil {
		h.writeMatchActionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MatchActionResponse{UID: uid, Status: matcher.StatusUnmatched})
}

// Reset handles POST /api/matches/reset - clears matches in bulk.
func (h *MatchesHandler) Reset(c *gin.Context) {
	var req dto.ResetRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.BadRequestError("invalid request body"))
			return
		}
	}

	count, err := h.repo.ResetMatches(storage.TransactionFilters{
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

	c.JSON(http.StatusOK, dto.ResetResponse{ResetCount: count})
}

func (h *MatchesHandler) writeMatchActionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrTransactionNotFound):
		c.JSON(http.StatusNotFound, dto.NotFoundError("transaction"))
	case errors.Is(err, storage.ErrTransactionNotMatched):
		c.JSON(http.StatusConflict, dto.ConflictError(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, dto.InternalError())
	}
}

func toMatchedPairResponse(pair *storage.MatchedPair) dto.MatchedPairResponse {
	response := dto.MatchedPairResponse{
		Lender:             toTransactionResponse(&pair.Transaction),
		BorrowerUID:        pair.CounterUID,
		BorrowerParticular: pair.CounterParticulars,
		BorrowerDate:       pair.CounterDate,
		MatchStatus:        pair.MatchStatus,
		MatchMethod:        pair.MatchMethod,
		AuditInfo:          pair.AuditInfo,
	}

	if pair.CounterCredit.Valid {
		response.BorrowerCredit = pair.CounterCredit.Decimal.String()
	}
	if pair.Debit.Valid {
		response.Amount = pair.Debit.Decimal.String()
	}

	return response
}
