// Package refextract pulls structured reference tokens out of free-text
// ledger narrations: PO numbers, LC numbers, loan IDs, salary details,
// final settlement details and bank account references.
//
// All extractors are pure functions. A narration that does not carry the
// pattern is a normal outcome, reported with an empty result, never an
// error.
package refextract

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	poPattern     = regexp.MustCompile(`\b[A-Z]{2,4}/PO/\d+/\d+\b`)
	lcPattern     = regexp.MustCompile(`\b(?:L/C|LC)[-\s]?\d+[/\s]?\d*\b`)
	loanPattern   = regexp.MustCompile(`\b(?:LD|ID|LOAN)[-\s]?\d+\b`)
	loanIDPattern = regexp.MustCompile(`\b(LD|ID|LOAN)[-\s]?(\d+)\b`)

	// Matches "amount being paid as Principal & Interest [repayment] [of]
	// Time Loan" with flexible spacing, as written by ledger clerks.
	timeLoanPhrase = regexp.MustCompile(
		`(?i)amount\s+being\s+paid\s+as\s*principal\s*&?\s*interest(?:\s+repayment)?\s+(?:of\s+)?time\s+loan`)
)

// PO extracts a purchase order reference such as "ABC/PO/123/456".
// Matching runs against the uppercased narration.
func PO(particulars string) string {
	if particulars == "" {
		return ""
	}
	return poPattern.FindString(strings.ToUpper(particulars))
}

// LC extracts a letter of credit reference such as "L/C-123/456" or
// "LC-123/456" from the uppercased narration.
func LC(particulars string) string {
	if particulars == "" {
		return ""
	}
	return strings.TrimSpace(lcPattern.FindString(strings.ToUpper(particulars)))
}

// NormalizeLC converts an LC token to a canonical form for comparison.
// "L/C-123/456" and "LC-123/456" both normalize to "LC-123/456".
func NormalizeLC(lc string) string {
	if lc == "" {
		return ""
	}
	normalized := strings.TrimSpace(strings.ToUpper(lc))
	return strings.ReplaceAll(normalized, "L/C", "LC")
}

// LoanID extracts a loan reference token such as "LD123" or "ID-456"
// from the uppercased narration.
func LoanID(particulars string) string {
	if particulars == "" {
		return ""
	}
	return loanPattern.FindString(strings.ToUpper(particulars))
}

// NormalizedLoanID extracts a loan reference and normalizes it to
// "PREFIX-<digits>", e.g. "LD 2435445106" becomes "LD-2435445106".
func NormalizedLoanID(particulars string) string {
	if particulars == "" {
		return ""
	}
	m := loanIDPattern.FindStringSubmatch(strings.ToUpper(particulars))
	if m == nil {
		return ""
	}
	return fmt.Sprintf("%s-%s", m[1], m[2])
}

// HasTimeLoanPhrase reports whether the narration carries the time loan
// principal and interest repayment phrase.
func HasTimeLoanPhrase(particulars string) bool {
	if particulars == "" {
		return false
	}
	return timeLoanPhrase.MatchString(particulars)
}

// LoanIDAfterTimeLoanPhrase extracts the first loan reference appearing
// AFTER the time loan phrase, normalized to "LD-<digits>". Loan IDs that
// precede the phrase are ignored so that unrelated employee or voucher IDs
// earlier in the narration cannot collide.
func LoanIDAfterTimeLoanPhrase(particulars string) string {
	if particulars == "" {
		return ""
	}
	loc := timeLoanPhrase.FindStringIndex(particulars)
	if loc == nil {
		return ""
	}
	after := strings.ToUpper(particulars[loc[1]:])
	m := loanIDPattern.FindStringSubmatch(after)
	if m == nil {
		return ""
	}
	return "LD-" + m[2]
}
