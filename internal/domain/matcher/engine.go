// Package matcher pairs lender-leg debits with borrower-leg credits
// across two intercompany ledgers.
//
// The engine is greedy and priority ordered: rules run from the most
// specific reference match down to the common-text fallback, the first
// rule that fires on an amount-equal pair wins, and each leg is consumed
// by at most one match. Given the same input order the output is fully
// deterministic.
//
// Example usage:
//
//	engine := matcher.NewEngine(bankdir.New())
//	result := engine.Run(records)
//	for _, m := range result.Matches {
//		// persist both legs of m
//	}
package matcher

import (
	"strings"

	"interunit-recon-backend/internal/domain/bankdir"
	"interunit-recon-backend/internal/domain/refextract"
)

// Config holds engine tunables.
type Config struct {
	// SalaryThreshold is the minimum Jaccard score for a salary pair that
	// lacks an exact person and period match.
	SalaryThreshold float64
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		SalaryThreshold: 0.3,
	}
}

// Engine runs the rule chain over a batch of records.
type Engine struct {
	banks  *bankdir.Directory
	config Config
	rules  []rule
}

// NewEngine creates an engine with the default config.
func NewEngine(banks *bankdir.Directory) *Engine {
	return NewEngineWithConfig(banks, DefaultConfig())
}

// NewEngineWithConfig creates an engine with custom thresholds. Rule order
// is fixed: reference rules first, similarity rules after, fallbacks last.
func NewEngineWithConfig(banks *bankdir.Directory, config Config) *Engine {
	return &Engine{
		banks:  banks,
		config: config,
		rules: []rule{
			poRule{},
			finalSettlementRule{},
			salaryRule{threshold: config.SalaryThreshold},
			lcRule{},
			interunitRule{banks: banks},
			timeLoanRule{},
			loanIDRule{},
			enteredByRule{},
			commonTextRule{},
		},
	}
}

// leg caches the extractions for one record so the pairwise scan does not
// re-run the regexes per candidate pair.
type leg struct {
	rec        Record
	po         string
	lc         string
	loanID     string
	salary     *refextract.SalaryDetails
	settlement *refextract.Settlement

	interunitLender   bool
	interunitBorrower bool
}

func newLeg(rec Record) *leg {
	lower := strings.ToLower(rec.Particulars)
	return &leg{
		rec:        rec,
		po:         refextract.PO(rec.Particulars),
		lc:         refextract.LC(rec.Particulars),
		loanID:     refextract.NormalizedLoanID(rec.Particulars),
		salary:     refextract.Salary(rec.Particulars),
		settlement: refextract.FinalSettlement(rec.Particulars),

		interunitLender: strings.Contains(lower, "amount paid as interunit loan") ||
			strings.Contains(lower, "interunit fund transfer") ||
			strings.Contains(lower, "inter unit fund transfer") ||
			strings.Contains(lower, "interunit loan"),
		interunitBorrower: strings.Contains(lower, "amount received as interunit loan") ||
			strings.Contains(lower, "interunit fund transfer") ||
			strings.Contains(lower, "inter unit fund transfer") ||
			strings.Contains(lower, "interunit loan"),
	}
}

// Run matches the batch. Lenders are scanned in input order; for each
// lender, borrowers are scanned in input order and the first rule that
// fires on an amount-equal unused pair consumes both legs.
func (e *Engine) Run(records []Record) Result {
	var lenders, borrowers []*leg
	for _, rec := range records {
		switch {
		case rec.IsLender():
			lenders = append(lenders, newLeg(rec))
		case rec.IsBorrower():
			borrowers = append(borrowers, newLeg(rec))
		}
	}

	var result Result
	usedLenders := make(map[string]bool)
	usedBorrowers := make(map[string]bool)

	for _, lender := range lenders {
		if usedLenders[lender.rec.UID] {
			continue
		}
	pairing:
		for _, borrower := range borrowers {
			if usedBorrowers[borrower.rec.UID] {
				continue
			}
			if !lender.rec.Debit.Equal(borrower.rec.Credit) {
				continue
			}
			for _, r := range e.rules {
				match := r.apply(lender, borrower)
				if match == nil {
					continue
				}
				match.LenderUID = lender.rec.UID
				match.BorrowerUID = borrower.rec.UID
				match.Amount = lender.rec.Debit
				result.Matches = append(result.Matches, *match)
				usedLenders[lender.rec.UID] = true
				usedBorrowers[borrower.rec.UID] = true
				break pairing
			}
		}
	}

	for _, lender := range lenders {
		if !usedLenders[lender.rec.UID] {
			result.UnmatchedLenders = append(result.UnmatchedLenders, lender.rec)
		}
	}
	for _, borrower := range borrowers {
		if !usedBorrowers[borrower.rec.UID] {
			result.UnmatchedBorrowers = append(result.UnmatchedBorrowers, borrower.rec)
		}
	}
	return result
}
