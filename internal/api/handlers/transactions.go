package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"interunit-recon-backend/internal/api/dto"
	"interunit-recon-backend/internal/infrastructure/storage"
)

// TransactionsHandler handles transaction-related HTTP requests.
type TransactionsHandler struct {
	*Base
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(repo storage.Repository) *TransactionsHandler {
	return &TransactionsHandler{
		Base: NewBase(repo),
	}
}

// List handles GET /api/transactions - returns a filtered list of transactions.
func (h *TransactionsHandler) List(c *gin.Context) {
	filters := filtersFromQuery(c)

	txns, err := h.repo.GetTransactions(filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	c.JSON(http.StatusOK, toTransactionListResponse(txns, filters))
}

// Unmatched handles GET /api/transactions/unmatched.
func (h *TransactionsHandler) Unmatched(c *gin.Context) {
	filters := filtersFromQuery(c)

	txns, err := h.repo.GetUnmatched(filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	c.JSON(http.StatusOK, toTransactionListResponse(txns, filters))
}

// Filters handles GET /api/filters - returns distinct filter values.
func (h *TransactionsHandler) Filters(c *gin.Context) {
	values, err := h.repo.GetFilterValues()
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	c.JSON(http.StatusOK, dto.FilterValuesResponse{
		Lenders: values.Lenders,
		Months:  values.Months,
		Years:   values.Years,
	})
}

// CompanyPairs handles GET /api/company-pairs - lists company pairings
// that have transactions on file.
func (h *TransactionsHandler) CompanyPairs(c *gin.Context) {
	pairs, err := h.repo.GetCompanyPairs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := make([]dto.CompanyPairResponse, 0, len(pairs))
	for _, pair := range pairs {
		response = append(response, dto.CompanyPairResponse{
			CompanyA:         pair.CompanyA,
			CompanyB:         pair.CompanyB,
			TransactionCount: pair.TransactionCount,
		})
	}

	c.JSON(http.StatusOK, response)
}

func toTransactionListResponse(txns []*storage.Transaction, filters storage.TransactionFilters) dto.TransactionListResponse {
	response := dto.TransactionListResponse{
		Transactions: make([]dto.TransactionResponse, 0, len(txns)),
		Count:        len(txns),
		Limit:        filters.Limit,
		Offset:       filters.Offset,
	}
	for _, txn := range txns {
		response.Transactions = append(response.Transactions, toTransactionResponse(txn))
	}
	return response
}
