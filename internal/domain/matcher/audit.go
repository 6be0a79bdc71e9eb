package matcher

// Match methods as persisted in the ledger store.
const (
	MethodReference  = "reference_match"
	MethodSimilarity = "similarity_match"
	MethodCrossRef   = "cross_reference"
	MethodFallback   = "fallback_match"
)

// Match statuses. A confirmed match needs no review; a matched one awaits
// accept or reject; pending verification always needs a human.
const (
	StatusUnmatched           = "unmatched"
	StatusMatched             = "matched"
	StatusConfirmed           = "confirmed"
	StatusPendingVerification = "pending_verification"
)

// Classification maps a match type to how it is persisted and reviewed.
type Classification struct {
	Method     string
	AutoAccept bool
	Status     string
}

// Classify returns the persistence classification for a match type.
// Reference matches and account cross-references are trusted outright;
// similarity matches wait for review; the entered-by fallback always
// needs verification.
func Classify(t MatchType) Classification {
	switch t {
	case TypePO, TypeLC, TypeLoanID, TypeFinalSettlement:
		return Classification{Method: MethodReference, AutoAccept: true, Status: StatusConfirmed}
	case TypeInterunitLoan:
		return Classification{Method: MethodCrossRef, AutoAccept: true, Status: StatusConfirmed}
	case TypeSalary, TypeCommonText:
		return Classification{Method: MethodSimilarity, AutoAccept: false, Status: StatusMatched}
	case TypeManualVerification:
		return Classification{Method: MethodFallback, AutoAccept: false, Status: StatusPendingVerification}
	default:
		return Classification{Method: MethodFallback, AutoAccept: false, Status: StatusMatched}
	}
}

// BuildAuditInfo flattens a match into the JSON-ready audit document
// stored alongside both legs. The document always carries the type,
// method and both amounts; the rest depends on the rule that fired.
func BuildAuditInfo(m Match) map[string]any {
	info := map[string]any{
		"match_type":   string(m.Type),
		"match_method": Classify(m.Type).Method,
	}

	switch m.Type {
	case TypePO:
		info["po_number"] = m.Reference
	case TypeLC:
		info["lc_number"] = m.Reference
	case TypeLoanID:
		info["loan_id"] = m.Reference
		mergeTrail(info, m.AuditTrail)
	case TypeSalary:
		info["person"] = m.Reference
		copyTrailKey(info, m.AuditTrail, "period")
		copyTrailKey(info, m.AuditTrail, "jaccard_score")
	case TypeFinalSettlement:
		info["person"] = m.Reference
		mergeTrail(info, m.AuditTrail)
	case TypeCommonText:
		info["common_text"] = m.Reference
		info["matched_text"] = m.Reference
		info["matched_phrase"] = m.Reference
		copyTrailKey(info, m.AuditTrail, "jaccard_score")
	case TypeInterunitLoan:
		mergeTrail(info, m.AuditTrail)
	case TypeManualVerification:
		mergeTrail(info, m.AuditTrail)
	}

	info["lender_amount"] = m.Amount.String()
	info["borrower_amount"] = m.Amount.String()
	return info
}

func mergeTrail(info, trail map[string]any) {
	for k, v := range trail {
		if _, exists := info[k]; !exists {
			info[k] = v
		}
	}
}

func copyTrailKey(info, trail map[string]any, key string) {
	if v, ok := trail[key]; ok {
		info[key] = v
	}
}
