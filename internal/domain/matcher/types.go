package matcher

import "github.com/shopspring/decimal"

// MatchType identifies which rule produced a match.
type MatchType string

const (
	TypePO                 MatchType = "PO"
	TypeLC                 MatchType = "LC"
	TypeLoanID             MatchType = "LOAN_ID"
	TypeSalary             MatchType = "SALARY"
	TypeFinalSettlement    MatchType = "FINAL_SETTLEMENT"
	TypeInterunitLoan      MatchType = "INTERUNIT_LOAN"
	TypeManualVerification MatchType = "MANUAL_VERIFICATION"
	TypeCommonText         MatchType = "COMMON_TEXT"
)

// Record is one ledger transaction leg as seen by the engine. A record
// with positive Debit is a lender leg; positive Credit a borrower leg.
// Records with neither are not matchable.
type Record struct {
	UID         string
	Particulars string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	EnteredBy   string
}

// IsLender reports whether the record is a lender (debit) leg.
func (r Record) IsLender() bool {
	return r.Debit.IsPositive()
}

// IsBorrower reports whether the record is a borrower (credit) leg.
func (r Record) IsBorrower() bool {
	return r.Credit.IsPositive()
}

// Match pairs one lender leg with one borrower leg. It is immutable once
// produced; the persistence layer derives both-side updates from it.
type Match struct {
	LenderUID   string
	BorrowerUID string
	Amount      decimal.Decimal
	Type        MatchType

	// Reference is the primary token behind the match: the PO or LC
	// number, loan ID, person, voucher clerk or common text summary.
	Reference string

	// AuditTrail carries rule-specific evidence. Values are strings,
	// numbers, bools or nested maps of the same, so the trail serializes
	// cleanly to JSON.
	AuditTrail map[string]any
}

// Result is the outcome of one engine run.
type Result struct {
	Matches            []Match
	UnmatchedLenders   []Record
	UnmatchedBorrowers []Record
}
