package dto

// TransactionListParams represents query parameters for listing transactions.
type TransactionListParams struct {
	Lender         string `json:"lender"`
	Borrower       string `json:"borrower"`
	StatementMonth string `json:"statement_month"`
	StatementYear  int    `json:"statement_year"`
	PairID         string `json:"pair_id"`
	Role           string `json:"role"`
	MatchStatus    string `json:"match_status"`
	Limit          int    `json:"limit"`
	Offset         int    `json:"offset"`
}

// DefaultTransactionListParams returns default values for transaction list params.
func DefaultTransactionListParams() TransactionListParams {
	return TransactionListParams{
		Limit:  100,
		Offset: 0,
	}
}

// ReconcileRequest scopes a reconciliation run. All fields are optional;
// an empty request reconciles every unmatched transaction.
type ReconcileRequest struct {
	Lender         string `json:"lender"`
	Borrower       string `json:"borrower"`
	StatementMonth string `json:"statement_month"`
	StatementYear  int    `json:"statement_year"`
	PairID         string `json:"pair_id"`
}

// ReconcilePairRequest reconciles both directions between two companies.
type ReconcilePairRequest struct {
	CompanyA string `json:"company_a"`
	CompanyB string `json:"company_b"`
}

// ResetRequest scopes a match reset. An empty request resets everything.
type ResetRequest struct {
	Lender         string `json:"lender"`
	Borrower       string `json:"borrower"`
	StatementMonth string `json:"statement_month"`
	StatementYear  int    `json:"statement_year"`
	PairID         string `json:"pair_id"`
}
