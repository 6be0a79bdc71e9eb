package dto

import "time"

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// NewHealthResponse creates a health response with the current timestamp.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// TransactionResponse represents a single ledger transaction in API responses.
type TransactionResponse struct {
	UID            string `json:"uid"`
	PairID         string `json:"pair_id"`
	Lender         string `json:"lender"`
	Borrower       string `json:"borrower"`
	StatementMonth string `json:"statement_month"`
	StatementYear  int    `json:"statement_year"`
	Role           string `json:"role"`
	Date           string `json:"date"`
	Particulars    string `json:"particulars"`
	VchType        string `json:"vch_type,omitempty"`
	VchNo          string `json:"vch_no,omitempty"`
	Debit          string `json:"debit,omitempty"`
	Credit         string `json:"credit,omitempty"`
	EnteredBy      string `json:"entered_by,omitempty"`
	MatchStatus    string `json:"match_status"`
	MatchedWith    string `json:"matched_with,omitempty"`
	MatchMethod    string `json:"match_method,omitempty"`
	AuditInfo      string `json:"audit_info,omitempty"`
	DateMatched    string `json:"date_matched,omitempty"`
}

// TransactionListResponse is returned when listing transactions.
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Count        int                   `json:"count"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
}

// MatchedPairResponse represents a lender leg joined with its borrower leg.
type MatchedPairResponse struct {
	Lender             TransactionResponse `json:"lender"`
	BorrowerUID        string              `json:"borrower_uid"`
	BorrowerParticular string              `json:"borrower_particulars"`
	BorrowerDate       string              `json:"borrower_date"`
	BorrowerCredit     string              `json:"borrower_credit,omitempty"`
	Amount             string              `json:"amount"`
	MatchStatus        string              `json:"match_status"`
	MatchMethod        string              `json:"match_method"`
	AuditInfo          string              `json:"audit_info,omitempty"`
}

// MatchedPairListResponse is returned when listing matched pairs.
type MatchedPairListResponse struct {
	Pairs []MatchedPairResponse `json:"pairs"`
	Count int                   `json:"count"`
}

// UploadResponse represents an ingested ledger file.
type UploadResponse struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	Company      string `json:"company"`
	Counterparty string `json:"counterparty"`
	PeriodFrom   string `json:"period_from,omitempty"`
	PeriodTo     string `json:"period_to,omitempty"`
	RowCount     int    `json:"row_count"`
	UploadedAt   string `json:"uploaded_at"`
}

// UploadListResponse is returned when listing recent uploads.
type UploadListResponse struct {
	Uploads []UploadResponse `json:"uploads"`
	Count   int              `json:"count"`
}

// StatsResponse is returned by the stats endpoint.
type StatsResponse struct {
	TotalTransactions   int    `json:"total_transactions"`
	Unmatched           int    `json:"unmatched"`
	Matched             int    `json:"matched"`
	Confirmed           int    `json:"confirmed"`
	PendingVerification int    `json:"pending_verification"`
	MatchedAmount       string `json:"matched_amount"`
}

// FilterValuesResponse lists the distinct values available for filtering.
type FilterValuesResponse struct {
	Lenders []string `json:"lenders"`
	Months  []string `json:"months"`
	Years   []int    `json:"years"`
}

// CompanyPairResponse represents a lender/borrower company pairing.
type CompanyPairResponse struct {
	CompanyA         string `json:"company_a"`
	CompanyB         string `json:"company_b"`
	TransactionCount int    `json:"transaction_count"`
}

// MatchActionResponse acknowledges an accept or reject action.
type MatchActionResponse struct {
	UID    string `json:"uid"`
	Status string `json:"status"`
}

// ResetResponse reports how many transactions were reset.
type ResetResponse struct {
	ResetCount int64 `json:"reset_count"`
}
