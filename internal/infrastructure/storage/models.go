package storage

import "github.com/shopspring/decimal"

// Transaction is one ledger leg as persisted. Amounts are stored as exact
// decimal text; Debit is set on lender legs, Credit on borrower legs.
type Transaction struct {
	ID             int64               `json:"id"`
	UID            string              `json:"uid"`
	PairID         string              `json:"pair_id"`
	Lender         string              `json:"lender"`
	Borrower       string              `json:"borrower"`
	StatementMonth string              `json:"statement_month"`
	StatementYear  int                 `json:"statement_year"`
	Role           string              `json:"role"`
	Date           string              `json:"date"`
	Particulars    string              `json:"particulars"`
	VchType        string              `json:"vch_type"`
	VchNo          string              `json:"vch_no"`
	Debit          decimal.NullDecimal `json:"debit"`
	Credit         decimal.NullDecimal `json:"credit"`
	EnteredBy      string              `json:"entered_by"`
	InputDate      string              `json:"input_date"`
	MatchStatus    string              `json:"match_status"`
	MatchedWith    string              `json:"matched_with,omitempty"`
	MatchMethod    string              `json:"match_method,omitempty"`
	AuditInfo      string              `json:"audit_info,omitempty"`
	DateMatched    string              `json:"date_matched,omitempty"`
}

// MatchedPair is a transaction joined with its counterparty leg, as served
// by the match listing queries.
type MatchedPair struct {
	Transaction
	CounterUID         string              `json:"counter_uid"`
	CounterParticulars string              `json:"counter_particulars"`
	CounterDate        string              `json:"counter_date"`
	CounterDebit       decimal.NullDecimal `json:"counter_debit"`
	CounterCredit      decimal.NullDecimal `json:"counter_credit"`
}

// MatchUpdate is the persistence form of one engine match: both leg UIDs
// plus the classification and serialized audit document.
type MatchUpdate struct {
	LenderUID   string
	BorrowerUID string
	Status      string
	Method      string
	AuditJSON   string
}

// Upload records one ingested ledger file.
type Upload struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	Company      string `json:"company"`
	Counterparty string `json:"counterparty"`
	PeriodFrom   string `json:"period_from"`
	PeriodTo     string `json:"period_to"`
	RowCount     int    `json:"row_count"`
	UploadedAt   string `json:"uploaded_at"`
}

// CompanyPair is one lender/borrower company combination present in the
// store, normalized so A < B regardless of direction.
type CompanyPair struct {
	CompanyA         string `json:"company_a"`
	CompanyB         string `json:"company_b"`
	TransactionCount int    `json:"transaction_count"`
}

// Stats aggregates the reconciliation state of the whole store.
type Stats struct {
	TotalTransactions   int    `json:"total_transactions"`
	Unmatched           int    `json:"unmatched"`
	Matched             int    `json:"matched"`
	Confirmed           int    `json:"confirmed"`
	PendingVerification int    `json:"pending_verification"`
	MatchedAmount       string `json:"matched_amount"`
}

// FilterValues lists the distinct values the UI can filter on.
type FilterValues struct {
	Lenders []string `json:"lenders"`
	Months  []string `json:"months"`
	Years   []int    `json:"years"`
}

// TransactionFilters narrows transaction and match queries. Zero values
// mean "no filter".
type TransactionFilters struct {
	Lender         string
	Borrower       string
	StatementMonth string
	StatementYear  int
	PairID         string
	Role           string
	MatchStatus    string
	Limit          int
	Offset         int
}
