package matcher

import (
	"fmt"
	"math"
	"strings"

	"interunit-recon-backend/internal/domain/bankdir"
	"interunit-recon-backend/internal/domain/refextract"
	"interunit-recon-backend/internal/domain/similarity"
)

// rule is one link of the priority chain. A rule returns nil when it does
// not apply; the engine fills in UIDs and amount on the match it returns.
type rule interface {
	apply(lender, borrower *leg) *Match
}

// poRule matches on identical purchase order references.
type poRule struct{}

func (poRule) apply(lender, borrower *leg) *Match {
	if lender.po == "" || borrower.po == "" || lender.po != borrower.po {
		return nil
	}
	return &Match{
		Type:      TypePO,
		Reference: lender.po,
		AuditTrail: map[string]any{
			"po_number": lender.po,
		},
	}
}

// finalSettlementRule matches when both legs name the same person in a
// final settlement narration.
type finalSettlementRule struct{}

func (finalSettlementRule) apply(lender, borrower *leg) *Match {
	if lender.settlement == nil || borrower.settlement == nil {
		return nil
	}
	if lender.settlement.PersonName != borrower.settlement.PersonName {
		return nil
	}
	return &Match{
		Type:      TypeFinalSettlement,
		Reference: lender.settlement.PersonCombined,
		AuditTrail: map[string]any{
			"match_reason":    "Final settlement match",
			"lender_person":   lender.settlement.PersonCombined,
			"borrower_person": borrower.settlement.PersonCombined,
			"person_name":     lender.settlement.PersonName,
			"person_id":       lender.settlement.PersonID,
		},
	}
}

// salaryRule matches salary narrations either exactly (same person, same
// period) or by Jaccard similarity above the threshold.
type salaryRule struct {
	threshold float64
}

func (r salaryRule) apply(lender, borrower *leg) *Match {
	if lender.salary == nil || borrower.salary == nil {
		return nil
	}

	exact := lender.salary.PersonName == borrower.salary.PersonName &&
		lender.salary.Period == borrower.salary.Period &&
		lender.salary.IsSalary && borrower.salary.IsSalary

	score := similarity.Jaccard(lender.rec.Particulars, borrower.rec.Particulars)
	if !exact && score < r.threshold {
		return nil
	}

	method := "jaccard"
	if exact {
		method = "exact"
	}
	reference := lender.salary.PersonCombined
	if reference == "" {
		reference = lender.salary.PersonName
	}
	return &Match{
		Type:      TypeSalary,
		Reference: reference,
		AuditTrail: map[string]any{
			"lender_keywords":   lender.salary.MatchedKeywords,
			"borrower_keywords": borrower.salary.MatchedKeywords,
			"jaccard_score":     round3(score),
			"match_method":      method,
			"person":            reference,
			"period":            lender.salary.Period,
		},
	}
}

// lcRule matches on letter of credit references, tolerating the two
// written forms via normalization.
type lcRule struct{}

func (lcRule) apply(lender, borrower *leg) *Match {
	if lender.lc == "" || borrower.lc == "" {
		return nil
	}
	if refextract.NormalizeLC(lender.lc) != refextract.NormalizeLC(borrower.lc) {
		return nil
	}
	return &Match{
		Type:      TypeLC,
		Reference: lender.lc,
		AuditTrail: map[string]any{
			"lc_number": lender.lc,
		},
	}
}

// interunitRule matches explicit interunit transfer narrations by
// cross-referencing the trailing account digits of each leg in the other
// leg's narration. Both directions must resolve.
type interunitRule struct {
	banks *bankdir.Directory
}

var lenderInterunitKeywords = []string{
	"amount paid as interunit loan",
	"interunit fund transfer",
	"inter unit fund transfer",
	"interunit loan",
}

var borrowerInterunitKeywords = []string{
	"amount received as interunit loan",
	"interunit fund transfer",
	"inter unit fund transfer",
	"interunit loan",
}

func matchedKeywords(particulars string, keywords []string) []string {
	lower := strings.ToLower(particulars)
	var found []string
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			found = append(found, kw)
		}
	}
	return found
}

func (r interunitRule) apply(lender, borrower *leg) *Match {
	if !lender.interunitLender || !borrower.interunitBorrower {
		return nil
	}

	lenderAcct := refextract.LenderAccount(lender.rec.Particulars)
	borrowerAcct := refextract.BorrowerAccount(borrower.rec.Particulars)
	if lenderAcct == nil || borrowerAcct == nil {
		return nil
	}

	lenderLast := refextract.LastDigits(lenderAcct.Number)
	borrowerLast := refextract.LastDigits(borrowerAcct.Number)

	crossRef1 := strings.Contains(borrower.rec.Particulars, lenderLast)
	if !crossRef1 {
		if short := refextract.ShortRef(borrower.rec.Particulars); short != "" {
			crossRef1 = strings.Contains(lenderLast, short)
		}
	}
	crossRef2 := strings.Contains(lender.rec.Particulars, borrowerLast)
	if !crossRef2 {
		if short := refextract.ShortRef(lender.rec.Particulars); short != "" {
			crossRef2 = strings.Contains(borrowerLast, short)
		}
	}
	if !crossRef1 || !crossRef2 {
		return nil
	}

	lenderKw := matchedKeywords(lender.rec.Particulars, lenderInterunitKeywords)
	borrowerKw := matchedKeywords(borrower.rec.Particulars, borrowerInterunitKeywords)

	return &Match{
		Type:      TypeInterunitLoan,
		Reference: lenderAcct.Number,
		AuditTrail: map[string]any{
			"lender_reference":     fmt.Sprintf("%s-%s", r.bankLabel(lenderAcct), lenderAcct.Number),
			"borrower_reference":   fmt.Sprintf("%s-%s", r.bankLabel(borrowerAcct), borrowerAcct.Number),
			"lender_account":       lenderAcct.Number,
			"borrower_account":     borrowerAcct.Number,
			"lender_last_digits":   lenderLast,
			"borrower_last_digits": borrowerLast,
			"match_reason":         fmt.Sprintf("Interunit loan cross-reference match: %s <-> %s", lenderLast, borrowerLast),
			"keywords":             fmt.Sprintf("Lender: %s, Borrower: %s", strings.Join(lenderKw, "; "), strings.Join(borrowerKw, "; ")),
			"cross_reference_1":    crossRef1,
			"cross_reference_2":    crossRef2,
		},
	}
}

func (r interunitRule) bankLabel(acct *refextract.BankAccount) string {
	if acct.BankText == "" {
		return "Unknown"
	}
	return r.banks.Lookup(acct.BankText)
}

// timeLoanRule matches time loan repayments: both narrations carry the
// principal and interest phrase and name the same loan ID after it.
type timeLoanRule struct{}

func (timeLoanRule) apply(lender, borrower *leg) *Match {
	if !refextract.HasTimeLoanPhrase(lender.rec.Particulars) ||
		!refextract.HasTimeLoanPhrase(borrower.rec.Particulars) {
		return nil
	}
	lenderID := refextract.LoanIDAfterTimeLoanPhrase(lender.rec.Particulars)
	borrowerID := refextract.LoanIDAfterTimeLoanPhrase(borrower.rec.Particulars)
	if lenderID == "" || borrowerID == "" || lenderID != borrowerID {
		return nil
	}
	return &Match{
		Type:      TypeLoanID,
		Reference: lenderID,
		AuditTrail: map[string]any{
			"loan_id":         lenderID,
			"match_reason":    "Time Loan phrase + matching Loan ID after phrase",
			"phrase_detected": true,
		},
	}
}

// loanIDRule matches on generic loan ID token equality.
type loanIDRule struct{}

func (loanIDRule) apply(lender, borrower *leg) *Match {
	if lender.loanID == "" || borrower.loanID == "" || lender.loanID != borrower.loanID {
		return nil
	}
	return &Match{
		Type:      TypeLoanID,
		Reference: lender.loanID,
		AuditTrail: map[string]any{
			"loan_id": lender.loanID,
			// Raw tokens as written, before normalization. The two sides
			// often spell the same loan differently ("LD 123" vs "LD-123").
			"lender_token":   refextract.LoanID(lender.rec.Particulars),
			"borrower_token": refextract.LoanID(borrower.rec.Particulars),
		},
	}
}

// enteredByRule pairs legs booked by the same voucher clerk. These need a
// human eye, so they surface as pending verification.
type enteredByRule struct{}

func (enteredByRule) apply(lender, borrower *leg) *Match {
	if lender.rec.EnteredBy == "" || borrower.rec.EnteredBy == "" {
		return nil
	}
	if lender.rec.EnteredBy != borrower.rec.EnteredBy {
		return nil
	}
	return &Match{
		Type:      TypeManualVerification,
		Reference: lender.rec.EnteredBy,
		AuditTrail: map[string]any{
			"entered_by":            lender.rec.EnteredBy,
			"match_reason":          "Exact match on debit, credit, and entered_by fields",
			"requires_verification": true,
		},
	}
}

// commonTextRule is the fallback: long shared phrases between the two
// narrations.
type commonTextRule struct{}

func (commonTextRule) apply(lender, borrower *leg) *Match {
	common := strings.TrimSpace(refextract.CommonText(lender.rec.Particulars, borrower.rec.Particulars))
	if common == "" {
		return nil
	}
	score := similarity.Jaccard(lender.rec.Particulars, borrower.rec.Particulars)
	return &Match{
		Type:      TypeCommonText,
		Reference: common,
		AuditTrail: map[string]any{
			"jaccard_score":  round3(score),
			"matched_phrase": common,
		},
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
