package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for match actions, so callers can tell a missing
// transaction apart from one that is simply not matched yet.
var (
	ErrTransactionNotFound   = errors.New("transaction not found")
	ErrTransactionNotMatched = errors.New("transaction is not matched")
)

// ApplyMatches persists a batch of engine matches. Every match updates
// both of its legs symmetrically, all inside one SQL transaction: if any
// leg is missing, nothing is written.
func (s *Storage) ApplyMatches(updates []MatchUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		UPDATE transactions
		SET match_status = ?, matched_with = ?, match_method = ?, audit_info = ?, date_matched = ?
		WHERE uid = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare match update: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Format(time.RFC3339)
	for _, u := range updates {
		if err := applyLeg(stmt, u.LenderUID, u.BorrowerUID, u, now); err != nil {
			return err
		}
		if err := applyLeg(stmt, u.BorrowerUID, u.LenderUID, u, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func applyLeg(stmt *sql.Stmt, uid, counterUID string, u MatchUpdate, now string) error {
	res, err := stmt.Exec(u.Status, counterUID, u.Method, u.AuditJSON, now, uid)
	if err != nil {
		return fmt.Errorf("failed to update leg %s: %w", uid, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected != 1 {
		return fmt.Errorf("match leg %s not found", uid)
	}
	return nil
}

// GetMatchedPairs returns matched lender legs joined with their borrower
// counterparty. An empty status returns every non-unmatched pair.
func (s *Storage) GetMatchedPairs(status string, filters TransactionFilters) ([]MatchedPair, error) {
	conds := "t.match_status != 'unmatched'"
	args := []any{}
	if status != "" {
		conds = "t.match_status = ?"
		args = append(args, status)
		filters.MatchStatus = ""
	}

	extraConds, filterArgs := filterConds(filters, "t.")
	for _, c := range extraConds {
		conds += " AND " + c
	}
	args = append(args, filterArgs...)

	query := fmt.Sprintf(`
		SELECT %s,
		       c.uid, COALESCE(c.particulars, ''), COALESCE(c.date, ''), c.debit, c.credit
		FROM transactions t
		LEFT JOIN transactions c ON c.uid = t.matched_with
		WHERE t.role = 'Lender' AND %s
		ORDER BY t.id
	`, prefixColumns("t"), conds)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matched pairs: %w", err)
	}
	defer rows.Close()

	var pairs []MatchedPair
	for rows.Next() {
		p, err := scanMatchedPair(rows)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, *p)
	}
	return pairs, rows.Err()
}

func scanMatchedPair(rows *sql.Rows) (*MatchedPair, error) {
	p := &MatchedPair{}
	t := &p.Transaction
	var pairID, particulars, vchType, vchNo, debit, credit sql.NullString
	var enteredBy, inputDate, matchedWith, matchMethod, auditInfo, dateMatched sql.NullString
	var counterUID, counterDebit, counterCredit sql.NullString

	err := rows.Scan(
		&t.ID, &t.UID, &pairID, &t.Lender, &t.Borrower, &t.StatementMonth, &t.StatementYear,
		&t.Role, &t.Date, &particulars, &vchType, &vchNo, &debit, &credit,
		&enteredBy, &inputDate, &t.MatchStatus, &matchedWith, &matchMethod, &auditInfo, &dateMatched,
		&counterUID, &p.CounterParticulars, &p.CounterDate, &counterDebit, &counterCredit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan matched pair: %w", err)
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
	p.CounterUID = counterUID.String

	if t.Debit, err = parseNullDecimal(debit); err != nil {
		return nil, fmt.Errorf("pair %s: bad debit: %w", t.UID, err)
	}
	if t.Credit, err = parseNullDecimal(credit); err != nil {
		return nil, fmt.Errorf("pair %s: bad credit: %w", t.UID, err)
	}
	if p.CounterDebit, err = parseNullDecimal(counterDebit); err != nil {
		return nil, fmt.Errorf("pair %s: bad counter debit: %w", t.UID, err)
	}
	if p.CounterCredit, err = parseNullDecimal(counterCredit); err != nil {
		return nil, fmt.Errorf("pair %s: bad counter credit: %w", t.UID, err)
	}
	return p, nil
}

// AcceptMatch confirms both legs of the match the given leg belongs to.
func (s *Storage) AcceptMatch(uid string) error {
	return s.updateBothLegs(uid, func(tx *sql.Tx, uids []any) error {
		now := time.Now().Format(time.RFC3339)
		_, err := tx.Exec(`
			UPDATE transactions SET match_status = 'confirmed', date_matched = ?
			WHERE uid IN (?, ?)
		`, now, uids[0], uids[1])
		return err
	})
}

// RejectMatch returns both legs of the match to the unmatched pool.
func (s *Storage) RejectMatch(uid string) error {
	return s.updateBothLegs(uid, func(tx *sql.Tx, uids []any) error {
		_, err := tx.Exec(`
			UPDATE transactions
			SET match_status = 'unmatched', matched_with = NULL, match_method = NULL,
			    audit_info = NULL, date_matched = NULL
			WHERE uid IN (?, ?)
		`, uids[0], uids[1])
		return err
	})
}

// updateBothLegs resolves the counterparty leg of uid and runs fn on both
// inside one transaction.
func (s *Storage) updateBothLegs(uid string, fn func(*sql.Tx, []any) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var matchedWith sql.NullString
	err = tx.QueryRow(`SELECT matched_with FROM transactions WHERE uid = ?`, uid).Scan(&matchedWith)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%s: %w", uid, ErrTransactionNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to look up match for %s: %w", uid, err)
	}
	if !matchedWith.Valid || matchedWith.String == "" {
		return fmt.Errorf("%s: %w", uid, ErrTransactionNotMatched)
	}

	if err := fn(tx, []any{uid, matchedWith.String}); err != nil {
		return fmt.Errorf("failed to update match legs: %w", err)
	}
	return tx.Commit()
}

// ResetMatches clears match state on all legs matching the filters.
func (s *Storage) ResetMatches(filters TransactionFilters) (int64, error) {
	where, args := filterClause(filters)
	query := `
		UPDATE transactions
		SET match_status = 'unmatched', matched_with = NULL, match_method = NULL,
		    audit_info = NULL, date_matched = NULL
	` + where
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to reset matches: %w", err)
	}
	return res.RowsAffected()
}

func prefixColumns(alias string) string {
	return alias + `.id, ` + alias + `.uid, ` + alias + `.pair_id, ` + alias + `.lender, ` +
		alias + `.borrower, ` + alias + `.statement_month, ` + alias + `.statement_year, ` +
		alias + `.role, ` + alias + `.date, ` + alias + `.particulars, ` + alias + `.vch_type, ` +
		alias + `.vch_no, ` + alias + `.debit, ` + alias + `.credit, ` + alias + `.entered_by, ` +
		alias + `.input_date, ` + alias + `.match_status, ` + alias + `.matched_with, ` +
		alias + `.match_method, ` + alias + `.audit_info, ` + alias + `.date_matched`
}
