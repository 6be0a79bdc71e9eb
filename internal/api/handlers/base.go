package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"interunit-recon-backend/internal/api/dto"
	"interunit-recon-backend/internal/infrastructure/storage"
)

// Base provides common functionality for all handlers.
type Base struct {
	repo storage.Repository
}

// NewBase creates a new base handler.
func NewBase(repo storage.Repository) *Base {
	return &Base{repo: repo}
}

// IntQuery parses an integer query parameter with a default value.
func IntQuery(c *gin.Context, name string, defaultValue int) int {
	value := c.Query(name)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return parsed
}

// filtersFromQuery builds transaction filters from request query parameters.
func filtersFromQuery(c *gin.Context) storage.TransactionFilters {
	params := dto.DefaultTransactionListParams()
	return storage.TransactionFilters{
		Lender:         c.Query("lender"),
		Borrower:       c.Query("borrower"),
		StatementMonth: c.Query("month"),
		StatementYear:  IntQuery(c, "year", 0),
		PairID:         c.Query("pair_id"),
		Role:           c.Query("role"),
		MatchStatus:    c.Query("status"),
		Limit:          IntQuery(c, "limit", params.Limit),
		Offset:         IntQuery(c, "offset", params.Offset),
	}
}

// toTransactionResponse converts a storage transaction to an API response.
func toTransactionResponse(txn *storage.Transaction) dto.TransactionResponse {
	response := dto.TransactionResponse{
		UID:            txn.UID,
		PairID:         txn.PairID,
		Lender:         txn.Lender,
		Borrower:       txn.Borrower,
		StatementMonth: txn.StatementMonth,
		StatementYear:  txn.StatementYear,
		Role:           txn.Role,
		Date:           txn.Date,
		Particulars:    txn.Particulars,
		VchType:        txn.VchType,
		VchNo:          txn.VchNo,
		EnteredBy:      txn.EnteredBy,
		MatchStatus:    txn.MatchStatus,
		MatchedWith:    txn.MatchedWith,
		MatchMethod:    txn.MatchMethod,
		AuditInfo:      txn.AuditInfo,
		DateMatched:    txn.DateMatched,
	}

	if txn.Debit.Valid {
		response.Debit = txn.Debit.Decimal.String()
	}
	if txn.Credit.Valid {
		response.Credit = txn.Credit.Decimal.String()
	}

	return response
}
