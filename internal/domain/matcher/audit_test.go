package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		matchType  MatchType
		method     string
		autoAccept bool
		status     string
	}{
		{TypePO, MethodReference, true, StatusConfirmed},
		{TypeLC, MethodReference, true, StatusConfirmed},
		{TypeLoanID, MethodReference, true, StatusConfirmed},
		{TypeFinalSettlement, MethodReference, true, StatusConfirmed},
		{TypeInterunitLoan, MethodCrossRef, true, StatusConfirmed},
		{TypeSalary, MethodSimilarity, false, StatusMatched},
		{TypeCommonText, MethodSimilarity, false, StatusMatched},
		{TypeManualVerification, MethodFallback, false, StatusPendingVerification},
	}

	for _, tt := range tests {
		t.Run(string(tt.matchType), func(t *testing.T) {
			c := Classify(tt.matchType)

			assert.Equal(t, tt.method, c.Method)
			assert.Equal(t, tt.autoAccept, c.AutoAccept)
			assert.Equal(t, tt.status, c.Status)
		})
	}
}

func TestBuildAuditInfo_PO(t *testing.T) {
	m := Match{
		Type:      TypePO,
		Reference: "GTL/PO/2024/1157",
		Amount:    amount("500000"),
	}

	info := BuildAuditInfo(m)

	assert.Equal(t, "PO", info["match_type"])
	assert.Equal(t, MethodReference, info["match_method"])
	assert.Equal(t, "GTL/PO/2024/1157", info["po_number"])
	assert.Equal(t, "500000", info["lender_amount"])
	assert.Equal(t, "500000", info["borrower_amount"])
}

func TestBuildAuditInfo_Salary(t *testing.T) {
	m := Match{
		Type:      TypeSalary,
		Reference: "karim uddin",
		Amount:    amount("85000"),
		AuditTrail: map[string]any{
			"period":        "June 2024",
			"jaccard_score": 0.875,
			"match_method":  "exact",
		},
	}

	info := BuildAuditInfo(m)

	assert.Equal(t, "karim uddin", info["person"])
	assert.Equal(t, "June 2024", info["period"])
	assert.Equal(t, 0.875, info["jaccard_score"])
	// The persistence method wins over the rule's internal method tag.
	assert.Equal(t, MethodSimilarity, info["match_method"])
}

func TestBuildAuditInfo_CommonText(t *testing.T) {
	m := Match{
		Type:      TypeCommonText,
		Reference: "24 words: amount transferred for procurement of imported spare parts",
		Amount:    amount("760000"),
		AuditTrail: map[string]any{
			"jaccard_score": 0.64,
		},
	}

	info := BuildAuditInfo(m)

	assert.Equal(t, m.Reference, info["common_text"])
	assert.Equal(t, m.Reference, info["matched_text"])
	assert.Equal(t, m.Reference, info["matched_phrase"])
	assert.Equal(t, 0.64, info["jaccard_score"])
}

func TestBuildAuditInfo_InterunitMergesTrail(t *testing.T) {
	m := Match{
		Type:   TypeInterunitLoan,
		Amount: amount("20000000"),
		AuditTrail: map[string]any{
			"lender_account":   "1301105894101234",
			"borrower_account": "123-4567890123",
			"keywords":         "Lender: interunit loan, Borrower: interunit loan",
		},
	}

	info := BuildAuditInfo(m)

	assert.Equal(t, "INTERUNIT_LOAN", info["match_type"])
	assert.Equal(t, MethodCrossRef, info["match_method"])
	assert.Equal(t, "1301105894101234", info["lender_account"])
	assert.Equal(t, "Lender: interunit loan, Borrower: interunit loan", info["keywords"])
}

func TestBuildAuditInfo_ManualVerification(t *testing.T) {
	m := Match{
		Type:      TypeManualVerification,
		Reference: "rahim",
		Amount:    amount("42000"),
		AuditTrail: map[string]any{
			"entered_by":            "rahim",
			"requires_verification": true,
		},
	}

	info := BuildAuditInfo(m)

	assert.Equal(t, MethodFallback, info["match_method"])
	assert.Equal(t, true, info["requires_verification"])
	assert.Equal(t, "rahim", info["entered_by"])
}
