package storage

// Repository defines the complete storage interface.
// This interface allows swapping implementations (SQLite, PostgreSQL, etc.)
// and makes testing with mocks straightforward.
type Repository interface {
	TransactionRepository
	MatchRepository
	UploadRepository
	Close() error
}

// TransactionRepository handles ledger transaction operations
type TransactionRepository interface {
	// SaveTransactions inserts or replaces a batch of ledger legs
	SaveTransactions(txns []*Transaction) error

	// GetTransactions returns legs matching the filters
	GetTransactions(filters TransactionFilters) ([]*Transaction, error)

	// GetUnmatched returns legs still awaiting reconciliation
	GetUnmatched(filters TransactionFilters) ([]*Transaction, error)

	// GetFilterValues returns the distinct filterable values in the store
	GetFilterValues() (*FilterValues, error)

	// GetCompanyPairs returns the normalized company pairs present
	GetCompanyPairs() ([]CompanyPair, error)

	// GetStats returns aggregate reconciliation statistics
	GetStats() (*Stats, error)
}

// MatchRepository handles the double-leg match lifecycle
type MatchRepository interface {
	// ApplyMatches persists a batch of engine matches. Both legs of every
	// match update in one transaction, or none do.
	ApplyMatches(updates []MatchUpdate) error

	// GetMatchedPairs returns matched legs joined with their counterparty
	// leg, optionally narrowed to one match status
	GetMatchedPairs(status string, filters TransactionFilters) ([]MatchedPair, error)

	// AcceptMatch confirms both legs of a match
	AcceptMatch(uid string) error

	// RejectMatch returns both legs of a match to the unmatched pool
	RejectMatch(uid string) error

	// ResetMatches clears match state on all legs matching the filters and
	// reports how many legs were reset
	ResetMatches(filters TransactionFilters) (int64, error)
}

// UploadRepository tracks ingested ledger files
type UploadRepository interface {
	// SaveUpload records one ingested file
	SaveUpload(upload *Upload) error

	// ListUploads returns the most recent uploads
	ListUploads(limit int) ([]Upload, error)
}
