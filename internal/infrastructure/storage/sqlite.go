package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// Storage provides SQLite database access for ledger transactions.
// It implements the Repository interface.
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage creates a new storage instance with SQLite database
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints (SQLite-specific)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Storage{db: db}

	// Run all pending migrations
	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// SaveTransactions inserts or replaces a batch of ledger legs in one
// transaction.
func (s *Storage) SaveTransactions(txns []*Transaction) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO transactions
		(uid, pair_id, lender, borrower, statement_month, statement_year,
		 role, date, particulars, vch_type, vch_no, debit, credit,
		 entered_by, input_date, match_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range txns {
		status := t.MatchStatus
		if status == "" {
			status = "unmatched"
		}
		inputDate := t.InputDate
		if inputDate == "" {
			inputDate = time.Now().Format(time.RFC3339)
		}
		_, err := stmt.Exec(
			t.UID, t.PairID, t.Lender, t.Borrower, t.StatementMonth, t.StatementYear,
			t.Role, t.Date, t.Particulars, t.VchType, t.VchNo,
			nullDecimalValue(t.Debit), nullDecimalValue(t.Credit),
			t.EnteredBy, inputDate, status,
		)
		if err != nil {
			return fmt.Errorf("failed to save transaction %s: %w", t.UID, err)
		}
	}
	return tx.Commit()
}

const transactionColumns = `id, uid, pair_id, lender, borrower, statement_month, statement_year,
	role, date, particulars, vch_type, vch_no, debit, credit, entered_by,
	input_date, match_status, matched_with, match_method, audit_info, date_matched`

// GetTransactions returns legs matching the filters
func (s *Storage) GetTransactions(filters TransactionFilters) ([]*Transaction, error) {
	where, args := filterClause(filters)
	query := fmt.Sprintf(`SELECT %s FROM transactions %s ORDER BY id`, transactionColumns, where)
	query, args = applyLimit(query, args, filters)
	return s.queryTransactions(query, args...)
}

// GetUnmatched returns legs still awaiting reconciliation
func (s *Storage) GetUnmatched(filters TransactionFilters) ([]*Transaction, error) {
	filters.MatchStatus = "unmatched"
	return s.GetTransactions(filters)
}

func (s *Storage) queryTransactions(query string, args ...any) ([]*Transaction, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txns []*Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

func scanTransaction(rows *sql.Rows) (*Transaction, error) {
	t := &Transaction{}
	var pairID, particulars, vchType, vchNo, debit, credit sql.NullString
	var enteredBy, inputDate, matchedWith, matchMethod, auditInfo, dateMatched sql.NullString

	err := rows.Scan(
		&t.ID, &t.UID, &pairID, &t.Lender, &t.Borrower, &t.StatementMonth, &t.StatementYear,
		&t.Role, &t.Date, &particulars, &vchType, &vchNo, &debit, &credit,
		&enteredBy, &inputDate, &t.MatchStatus, &matchedWith, &matchMethod, &auditInfo, &dateMatched,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}

	t.PairID = pairID.String
	t.Particulars = particulars.String
	t.VchType = vchType.String
	t.VchNo = vchNo.String
	t.EnteredBy = enteredBy.String
	t.InputDate = inputDate.String
	t.MatchedWith = matchedWith.String
	t.MatchMethod = matchMethod.String
	t.AuditInfo = auditInfo.String
	t.DateMatched = dateMatched.String

	if t.Debit, err = parseNullDecimal(debit); err != nil {
		return nil, fmt.Errorf("transaction %s: bad debit: %w", t.UID, err)
	}
	if t.Credit, err = parseNullDecimal(credit); err != nil {
		return nil, fmt.Errorf("transaction %s: bad credit: %w", t.UID, err)
	}
	return t, nil
}

// GetFilterValues returns the distinct filterable values in the store
func (s *Storage) GetFilterValues() (*FilterValues, error) {
	fv := &FilterValues{}

	if err := s.collectStrings(`SELECT DISTINCT lender FROM transactions ORDER BY lender`, &fv.Lenders); err != nil {
		return nil, err
	}
	if err := s.collectStrings(`SELECT DISTINCT statement_month FROM transactions ORDER BY statement_month`, &fv.Months); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`SELECT DISTINCT statement_year FROM transactions ORDER BY statement_year`)
	if err != nil {
		return nil, fmt.Errorf("failed to query filter years: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var year int
		if err := rows.Scan(&year); err != nil {
			return nil, err
		}
		fv.Years = append(fv.Years, year)
	}
	return fv, rows.Err()
}

func (s *Storage) collectStrings(query string, dest *[]string) error {
	rows, err := s.db.Query(query)
	if err != nil {
		return fmt.Errorf("failed to query filter values: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return err
		}
		*dest = append(*dest, v)
	}
	return rows.Err()
}

// GetCompanyPairs returns the normalized company pairs present. Direction
// does not matter: A lends to B and B lends to A count as one pair.
func (s *Storage) GetCompanyPairs() ([]CompanyPair, error) {
	rows, err := s.db.Query(`
		SELECT MIN(lender, borrower) AS a, MAX(lender, borrower) AS b, COUNT(*)
		FROM transactions
		GROUP BY a, b
		ORDER BY a, b
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query company pairs: %w", err)
	}
	defer rows.Close()

	var pairs []CompanyPair
	for rows.Next() {
		var p CompanyPair
		if err := rows.Scan(&p.CompanyA, &p.CompanyB, &p.TransactionCount); err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}

// GetStats returns aggregate reconciliation statistics
func (s *Storage) GetStats() (*Stats, error) {
	stats := &Stats{}
	err := s.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN match_status = 'unmatched' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN match_status = 'matched' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN match_status = 'confirmed' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN match_status = 'pending_verification' THEN 1 ELSE 0 END), 0)
		FROM transactions
	`).Scan(&stats.TotalTransactions, &stats.Unmatched, &stats.Matched,
		&stats.Confirmed, &stats.PendingVerification)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}

	// Matched amount sums the lender legs only, so a pair counts once.
	rows, err := s.db.Query(`
		SELECT debit FROM transactions
		WHERE match_status != 'unmatched' AND role = 'Lender' AND debit IS NOT NULL
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query matched amount: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("bad stored amount %q: %w", raw, err)
		}
		total = total.Add(d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	stats.MatchedAmount = total.String()
	return stats, nil
}

// SaveUpload records one ingested file
func (s *Storage) SaveUpload(upload *Upload) error {
	uploadedAt := upload.UploadedAt
	if uploadedAt == "" {
		uploadedAt = time.Now().Format(time.RFC3339)
	}
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO uploads
		(id, filename, company, counterparty, period_from, period_to, row_count, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, upload.ID, upload.Filename, upload.Company, upload.Counterparty,
		upload.PeriodFrom, upload.PeriodTo, upload.RowCount, uploadedAt)
	if err != nil {
		return fmt.Errorf("failed to save upload: %w", err)
	}
	return nil
}

// ListUploads returns the most recent uploads
func (s *Storage) ListUploads(limit int) ([]Upload, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, filename, company, counterparty, period_from, period_to, row_count, uploaded_at
		FROM uploads ORDER BY uploaded_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query uploads: %w", err)
	}
	defer rows.Close()

	var uploads []Upload
	for rows.Next() {
		var u Upload
		if err := rows.Scan(&u.ID, &u.Filename, &u.Company, &u.Counterparty,
			&u.PeriodFrom, &u.PeriodTo, &u.RowCount, &u.UploadedAt); err != nil {
			return nil, err
		}
		uploads = append(uploads, u)
	}
	return uploads, rows.Err()
}

// filterConds builds the WHERE conditions for TransactionFilters. The
// prefix scopes column names in joined queries (e.g. "t.").
func filterConds(f TransactionFilters, prefix string) ([]string, []any) {
	var conds []string
	var args []any

	if f.Lender != "" {
		conds = append(conds, prefix+"lender = ?")
		args = append(args, f.Lender)
	}
	if f.Borrower != "" {
		conds = append(conds, prefix+"borrower = ?")
		args = append(args, f.Borrower)
	}
	if f.StatementMonth != "" {
		conds = append(conds, prefix+"statement_month = ?")
		args = append(args, f.StatementMonth)
	}
	if f.StatementYear != 0 {
		conds = append(conds, prefix+"statement_year = ?")
		args = append(args, f.StatementYear)
	}
	if f.PairID != "" {
		conds = append(conds, prefix+"pair_id = ?")
		args = append(args, f.PairID)
	}
	if f.Role != "" {
		conds = append(conds, prefix+"role = ?")
		args = append(args, f.Role)
	}
	if f.MatchStatus != "" {
		conds = append(conds, prefix+"match_status = ?")
		args = append(args, f.MatchStatus)
	}
	return conds, args
}

// filterClause renders the conditions as a complete WHERE clause.
func filterClause(f TransactionFilters) (string, []any) {
	conds, args := filterConds(f, "")
	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func applyLimit(query string, args []any, f TransactionFilters) (string, []any) {
	if f.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, f.Limit, f.Offset)
	}
	return query, args
}

func nullDecimalValue(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.String()
}

func parseNullDecimal(s sql.NullString) (decimal.NullDecimal, error) {
	if !s.Valid || s.String == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s.String)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}
