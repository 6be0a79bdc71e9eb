package storage

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// MockRepository is an in-memory implementation of Repository for testing.
// It stores all data in maps and slices, making tests fast and isolated.
type MockRepository struct {
	transactions map[string]*Transaction
	uploads      []Upload

	// Hooks for test assertions
	SaveTransactionsCalled bool
	LastSavedTransactions  []*Transaction
	ApplyMatchesCalled     bool
	LastAppliedMatches     []MatchUpdate
	AcceptMatchCalled      bool
	RejectMatchCalled      bool
	ResetMatchesCalled     bool
	SaveUploadCalled       bool
	LastSavedUpload        *Upload

	// Error injection for testing error paths
	SaveTransactionsErr error
	GetTransactionsErr  error
	GetMatchedPairsErr  error
	ApplyMatchesErr     error
	AcceptMatchErr      error
	RejectMatchErr      error
	ResetMatchesErr     error
	SaveUploadErr       error
	ListUploadsErr      error
	StatsErr            error
}

// NewMockRepository creates a new mock repository for testing
func NewMockRepository() *MockRepository {
	return &MockRepository{
		transactions: make(map[string]*Transaction),
	}
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// Close does nothing for mock
func (m *MockRepository) Close() error {
	return nil
}

// Reset clears all stored data and assertion hooks
func (m *MockRepository) Reset() {
	*m = *NewMockRepository()
}

// SaveTransactions saves legs to the in-memory map
func (m *MockRepository) SaveTransactions(txns []*Transaction) error {
	m.SaveTransactionsCalled = true
	m.LastSavedTransactions = txns
	if m.SaveTransactionsErr != nil {
		return m.SaveTransactionsErr
	}
	for _, t := range txns {
		// Deep copy to avoid test mutations
		copied := *t
		if copied.MatchStatus == "" {
			copied.MatchStatus = "unmatched"
		}
		m.transactions[t.UID] = &copied
	}
	return nil
}

// GetTransactions returns legs matching the filters in UID order
func (m *MockRepository) GetTransactions(filters TransactionFilters) ([]*Transaction, error) {
	if m.GetTransactionsErr != nil {
		return nil, m.GetTransactionsErr
	}
	var out []*Transaction
	for _, t := range m.transactions {
		if matchesFilters(t, filters) {
			copied := *t
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UID < out[j].UID })
	return out, nil
}

// GetUnmatched returns legs still awaiting reconciliation
func (m *MockRepository) GetUnmatched(filters TransactionFilters) ([]*Transaction, error) {
	filters.MatchStatus = "unmatched"
	return m.GetTransactions(filters)
}

// GetFilterValues returns distinct filter values
func (m *MockRepository) GetFilterValues() (*FilterValues, error) {
	lenders := map[string]bool{}
	months := map[string]bool{}
	years := map[int]bool{}
	for _, t := range m.transactions {
		lenders[t.Lender] = true
		months[t.StatementMonth] = true
		years[t.StatementYear] = true
	}
	fv := &FilterValues{}
	for l := range lenders {
		fv.Lenders = append(fv.Lenders, l)
	}
	for mo := range months {
		fv.Months = append(fv.Months, mo)
	}
	for y := range years {
		fv.Years = append(fv.Years, y)
	}
	sort.Strings(fv.Lenders)
	sort.Strings(fv.Months)
	sort.Ints(fv.Years)
	return fv, nil
}

// GetCompanyPairs returns normalized company pairs
func (m *MockRepository) GetCompanyPairs() ([]CompanyPair, error) {
	counts := map[string]int{}
	for _, t := range m.transactions {
		a, b := t.Lender, t.Borrower
		if a > b {
			a, b = b, a
		}
		counts[a+"\x00"+b]++
	}
	var pairs []CompanyPair
	for key, n := range counts {
		parts := strings.SplitN(key, "\x00", 2)
		pairs = append(pairs, CompanyPair{CompanyA: parts[0], CompanyB: parts[1], TransactionCount: n})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].CompanyA != pairs[j].CompanyA {
			return pairs[i].CompanyA < pairs[j].CompanyA
		}
		return pairs[i].CompanyB < pairs[j].CompanyB
	})
	return pairs, nil
}

// GetStats aggregates the in-memory state
func (m *MockRepository) GetStats() (*Stats, error) {
	if m.StatsErr != nil {
		return nil, m.StatsErr
	}
	stats := &Stats{}
	total := decimal.Zero
	for _, t := range m.transactions {
		stats.TotalTransactions++
		switch t.MatchStatus {
		case "unmatched":
			stats.Unmatched++
		case "matched":
			stats.Matched++
		case "confirmed":
			stats.Confirmed++
		case "pending_verification":
			stats.PendingVerification++
		}
		if t.MatchStatus != "unmatched" && t.Role == "Lender" && t.Debit.Valid {
			total = total.Add(t.Debit.Decimal)
		}
	}
	stats.MatchedAmount = total.String()
	return stats, nil
}

// ApplyMatches updates both legs of every match
func (m *MockRepository) ApplyMatches(updates []MatchUpdate) error {
	m.ApplyMatchesCalled = true
	m.LastAppliedMatches = updates
	if m.ApplyMatchesErr != nil {
		return m.ApplyMatchesErr
	}
	for _, u := range updates {
		lender, ok := m.transactions[u.LenderUID]
		if !ok {
			return fmt.Errorf("match leg %s not found", u.LenderUID)
		}
		borrower, ok := m.transactions[u.BorrowerUID]
		if !ok {
			return fmt.Errorf("match leg %s not found", u.BorrowerUID)
		}
		lender.MatchStatus = u.Status
		lender.MatchedWith = u.BorrowerUID
		lender.MatchMethod = u.Method
		lender.AuditInfo = u.AuditJSON
		borrower.MatchStatus = u.Status
		borrower.MatchedWith = u.LenderUID
		borrower.MatchMethod = u.Method
		borrower.AuditInfo = u.AuditJSON
	}
	return nil
}

// GetMatchedPairs joins each matched lender leg with its counterparty
func (m *MockRepository) GetMatchedPairs(status string, filters TransactionFilters) ([]MatchedPair, error) {
	if m.GetMatchedPairsErr != nil {
		return nil, m.GetMatchedPairsErr
	}
	var pairs []MatchedPair
	for _, t := range m.transactions {
		if t.Role != "Lender" || t.MatchStatus == "unmatched" {
			continue
		}
		if status != "" && t.MatchStatus != status {
			continue
		}
		if !matchesFilters(t, TransactionFilters{
			Lender: filters.Lender, Borrower: filters.Borrower,
			StatementMonth: filters.StatementMonth, StatementYear: filters.StatementYear,
			PairID: filters.PairID,
		}) {
			continue
		}
		p := MatchedPair{Transaction: *t}
		if counter, ok := m.transactions[t.MatchedWith]; ok {
			p.CounterUID = counter.UID
			p.CounterParticulars = counter.Particulars
			p.CounterDate = counter.Date
			p.CounterDebit = counter.Debit
			p.CounterCredit = counter.Credit
		}
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].UID < pairs[j].UID })
	return pairs, nil
}

// AcceptMatch confirms both legs
func (m *MockRepository) AcceptMatch(uid string) error {
	m.AcceptMatchCalled = true
	if m.AcceptMatchErr != nil {
		return m.AcceptMatchErr
	}
	return m.setBothLegs(uid, func(t *Transaction) {
		t.MatchStatus = "confirmed"
	})
}

// RejectMatch resets both legs to unmatched
func (m *MockRepository) RejectMatch(uid string) error {
	m.RejectMatchCalled = true
	if m.RejectMatchErr != nil {
		return m.RejectMatchErr
	}
	return m.setBothLegs(uid, func(t *Transaction) {
		t.MatchStatus = "unmatched"
		t.MatchedWith = ""
		t.MatchMethod = ""
		t.AuditInfo = ""
		t.DateMatched = ""
	})
}

func (m *MockRepository) setBothLegs(uid string, fn func(*Transaction)) error {
	t, ok := m.transactions[uid]
	if !ok {
		return fmt.Errorf("%s: %w", uid, ErrTransactionNotFound)
	}
	if t.MatchedWith == "" {
		return fmt.Errorf("%s: %w", uid, ErrTransactionNotMatched)
	}
	counter, ok := m.transactions[t.MatchedWith]
	if !ok {
		return fmt.Errorf("%s: %w", t.MatchedWith, ErrTransactionNotFound)
	}
	fn(t)
	fn(counter)
	return nil
}

// ResetMatches clears match state on all filtered legs
func (m *MockRepository) ResetMatches(filters TransactionFilters) (int64, error) {
	m.ResetMatchesCalled = true
	if m.ResetMatchesErr != nil {
		return 0, m.ResetMatchesErr
	}
	var n int64
	for _, t := range m.transactions {
		if !matchesFilters(t, filters) {
			continue
		}
		t.MatchStatus = "unmatched"
		t.MatchedWith = ""
		t.MatchMethod = ""
		t.AuditInfo = ""
		t.DateMatched = ""
		n++
	}
	return n, nil
}

// SaveUpload records an upload
func (m *MockRepository) SaveUpload(upload *Upload) error {
	m.SaveUploadCalled = true
	m.LastSavedUpload = upload
	if m.SaveUploadErr != nil {
		return m.SaveUploadErr
	}
	m.uploads = append(m.uploads, *upload)
	return nil
}

// ListUploads returns the most recent uploads, newest first
func (m *MockRepository) ListUploads(limit int) ([]Upload, error) {
	if m.ListUploadsErr != nil {
		return nil, m.ListUploadsErr
	}
	if limit <= 0 || limit > len(m.uploads) {
		limit = len(m.uploads)
	}
	out := make([]Upload, 0, limit)
	for i := len(m.uploads) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.uploads[i])
	}
	return out, nil
}

func matchesFilters(t *Transaction, f TransactionFilters) bool {
	if f.Lender != "" && t.Lender != f.Lender {
		return false
	}
	if f.Borrower != "" && t.Borrower != f.Borrower {
		return false
	}
	if f.StatementMonth != "" && t.StatementMonth != f.StatementMonth {
		return false
	}
	if f.StatementYear != 0 && t.StatementYear != f.StatementYear {
		return false
	}
	if f.PairID != "" && t.PairID != f.PairID {
		return false
	}
	if f.Role != "" && t.Role != f.Role {
		return false
	}
	if f.MatchStatus != "" && t.MatchStatus != f.MatchStatus {
		return false
	}
	return true
}
