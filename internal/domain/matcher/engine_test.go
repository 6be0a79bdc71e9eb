package matcher

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interunit-recon-backend/internal/domain/bankdir"
)

func amount(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func lenderRec(uid, particulars, debit string) Record {
	return Record{UID: uid, Particulars: particulars, Debit: amount(debit)}
}

func borrowerRec(uid, particulars, credit string) Record {
	return Record{UID: uid, Particulars: particulars, Credit: amount(credit)}
}

func newTestEngine() *Engine {
	return NewEngine(bankdir.New())
}

func TestEngineRun_PurchaseOrderMatch(t *testing.T) {
	// Arrange
	engine := newTestEngine()
	records := []Record{
		lenderRec("L1", "Payment against GTL/PO/2024/1157 for fabric supply", "500000"),
		borrowerRec("B1", "Amount received against GTL/PO/2024/1157 fabric supply", "500000"),
	}

	// Act
	result := engine.Run(records)

	// Assert
	require.Len(t, result.Matches, 1)
	m := result.Matches[0]
	assert.Equal(t, TypePO, m.Type)
	assert.Equal(t, "L1", m.LenderUID)
	assert.Equal(t, "B1", m.BorrowerUID)
	assert.Equal(t, "GTL/PO/2024/1157", m.Reference)
	assert.True(t, m.Amount.Equal(amount("500000")))
	assert.Empty(t, result.UnmatchedLenders)
	assert.Empty(t, result.UnmatchedBorrowers)
}

func TestEngineRun_LetterOfCreditMatch(t *testing.T) {
	// Arrange
	engine := newTestEngine()
	records := []Record{
		lenderRec("L1", "Margin retention against L/C-1157 fabric import", "250000"),
		borrowerRec("B1", "Margin received against LC-1157 fabric import", "250000"),
	}

	// Act
	result := engine.Run(records)

	// Assert
	require.Len(t, result.Matches, 1)
	m := result.Matches[0]
	assert.Equal(t, TypeLC, m.Type)
	assert.Equal(t, "L/C-1157", m.Reference)
	assert.Equal(t, "L/C-1157", m.AuditTrail["lc_number"])
}

func TestEngineRun_SalaryExactMatch(t *testing.T) {
	// Arrange
	engine := newTestEngine()
	records := []Record{
		lenderRec("L1", "Salary of karim uddin for June 2024", "85000"),
		borrowerRec("B1", "Salary of karim uddin for June 2024 received", "85000"),
	}

	// Act
	result := engine.Run(records)

	// Assert
	require.Len(t, result.Matches, 1)
	m := result.Matches[0]
	assert.Equal(t, TypeSalary, m.Type)
	assert.Equal(t, "karim uddin", m.Reference)
	assert.Equal(t, "exact", m.AuditTrail["match_method"])
	assert.Equal(t, "June 2024", m.AuditTrail["period"])
}

func TestEngineRun_SalaryJaccardMatch(t *testing.T) {
	// Arrange: person extraction fails on the borrower wording, so only
	// the similarity branch can pair these.
	engine := newTestEngine()
	records := []Record{
		lenderRec("L1", "Salary of John Doe for March 2024", "92000"),
		borrowerRec("B1", "March 2024 payroll John Doe staff", "92000"),
	}

	// Act
	result := engine.Run(records)

	// Assert
	require.Len(t, result.Matches, 1)
	m := result.Matches[0]
	assert.Equal(t, TypeSalary, m.Type)
	assert.Equal(t, "jaccard", m.AuditTrail["match_method"])
	score, ok := m.AuditTrail["jaccard_score"].(float64)
	require.True(t, ok)
	assert.GreaterOrEqual(t, score, 0.3)
}

func TestEngineRun_FinalSettlementMatch(t *testing.T) {
	// Arrange
	engine := newTestEngine()
	records := []Record{
		lenderRec("L1", "Payable to Md. Karim Uddin - ID: 4521 being final settlement dues", "163000"),
		borrowerRec("B1", "Payable to Md. Karim Uddin - ID: 4521 being final settlement dues received", "163000"),
	}

	// Act
	result := engine.Run(records)

	// Assert
	require.Len(t, result.Matches, 1)
	m := result.Matches[0]
	assert.Equal(t, TypeFinalSettlement, m.Type)
	assert.Equal(t, "Md. Karim Uddin-ID : 4521", m.Reference)
	assert.Equal(t, "Md. Karim Uddin", m.AuditTrail["person_name"])
	assert.Equal(t, "4521", m.AuditTrail["person_id"])
}

func TestEngineRun_InterunitCrossReferenceMatch(t *testing.T) {
	// Arrange
	engine := newTestEngine()
	records := []Record{
		lenderRec("L1",
			"Amount paid as interunit loan vide Midland Bank PLC-CD-A/C-1301105894101234 ref #90123",
			"20000000"),
		borrowerRec("B1",
			"Amount received as interunit loan vide BRAC Bank A/C-123-4567890123 being fund 01234",
			"20000000"),
	}

	// Act
	result := engine.Run(records)

	// Assert
	require.Len(t, result.Matches, 1)
	m := result.Matches[0]
	assert.Equal(t, TypeInterunitLoan, m.Type)
	assert.Equal(t, "1301105894101234", m.AuditTrail["lender_account"])
	assert.Equal(t, "123-4567890123", m.AuditTrail["borrower_account"])
	assert.Equal(t, "01234", m.AuditTrail["lender_last_digits"])
	assert.Equal(t, "90123", m.AuditTrail["borrower_last_digits"])
	assert.Contains(t, m.AuditTrail["keywords"], "Lender: ")
}

func TestEngineRun_InterunitRequiresBothCrossReferences(t *testing.T) {
	// Borrower narration carries the lender's digits but not vice versa.
	engine := newTestEngine()
	records := []Record{
		lenderRec("L1",
			"Amount paid as interunit loan vide Midland Bank PLC-CD-A/C-1301105894101234",
			"20000000"),
		borrowerRec("B1",
			"Amount received as interunit loan vide BRAC Bank A/C-123-4567890123 being fund 01234",
			"20000000"),
	}

	result := engine.Run(records)

	assert.Empty(t, result.Matches)
	assert.Len(t, result.UnmatchedLenders, 1)
	assert.Len(t, result.UnmatchedBorrowers, 1)
}

func TestEngineRun_TimeLoanMatch(t *testing.T) {
	// Arrange
	engine := newTestEngine()
	records := []Record{
		lenderRec("L1",
			"Amount being paid as Principal & Interest repayment of Time Loan LD 2435445106",
			"10500000"),
		borrowerRec("B1",
			"Amount being paid as Principal & Interest repayment of Time Loan LD-2435445106",
			"10500000"),
	}

	// Act
	result := engine.Run(records)

	// Assert
	require.Len(t, result.Matches, 1)
	m := result.Matches[0]
	assert.Equal(t, TypeLoanID, m.Type)
	assert.Equal(t, "LD-2435445106", m.Reference)
	assert.Equal(t, true, m.AuditTrail["phrase_detected"])
}

func TestEngineRun_TimeLoanIgnoresIDsBeforePhrase(t *testing.T) {
	// The employee ID before the phrase must not collide with the loan ID
	// after it.
	engine := newTestEngine()
	records := []Record{
		lenderRec("L1",
			"Entered by ID 777 amount being paid as Principal & Interest of Time Loan LD 555",
			"10500000"),
		borrowerRec("B1",
			"Amount being paid as Principal & Interest of Time Loan LD 555",
			"10500000"),
	}

	result := engine.Run(records)

	require.Len(t, result.Matches, 1)
	assert.Equal(t, "LD-555", result.Matches[0].Reference)
}

func TestEngineRun_LoanIDMatch(t *testing.T) {
	// Arrange
	engine := newTestEngine()
	records := []Record{
		lenderRec("L1", "Disbursement against LD 98765 working capital", "3000000"),
		borrowerRec("B1", "Fund received against LD-98765 working capital", "3000000"),
	}

	// Act
	result := engine.Run(records)

	// Assert
	require.Len(t, result.Matches, 1)
	m := result.Matches[0]
	assert.Equal(t, TypeLoanID, m.Type)
	assert.Equal(t, "LD-98765", m.Reference)
	assert.Equal(t, "LD 98765", m.AuditTrail["lender_token"])
	assert.Equal(t, "LD-98765", m.AuditTrail["borrower_token"])
}

func TestEngineRun_EnteredByFallback(t *testing.T) {
	// Arrange
	engine := newTestEngine()
	records := []Record{
		{UID: "L1", Particulars: "Fund transfer", Debit: amount("42000"), EnteredBy: "rahim"},
		{UID: "B1", Particulars: "Transfer of fund", Credit: amount("42000"), EnteredBy: "rahim"},
	}

	// Act
	result := engine.Run(records)

	// Assert
	require.Len(t, result.Matches, 1)
	m := result.Matches[0]
	assert.Equal(t, TypeManualVerification, m.Type)
	assert.Equal(t, "rahim", m.Reference)
	assert.Equal(t, true, m.AuditTrail["requires_verification"])
}

func TestEngineRun_CommonTextFallback(t *testing.T) {
	// Arrange
	shared := "amount transferred for procurement of imported spare parts and accessories " +
		"required for the knitting and dyeing machinery installed at the composite unit " +
		"as per board approval reference dated earlier this quarter"
	engine := newTestEngine()
	records := []Record{
		lenderRec("L1", "Paid "+shared, "760000"),
		borrowerRec("B1", "Received "+shared, "760000"),
	}

	// Act
	result := engine.Run(records)

	// Assert
	require.Len(t, result.Matches, 1)
	m := result.Matches[0]
	assert.Equal(t, TypeCommonText, m.Type)
	assert.Contains(t, m.Reference, "words:")
	assert.NotEmpty(t, m.AuditTrail["jaccard_score"])
}

func TestEngineRun_AmountGate(t *testing.T) {
	// Same PO reference, different amounts: no match.
	engine := newTestEngine()
	records := []Record{
		lenderRec("L1", "Payment against GTL/PO/2024/1157", "500000"),
		borrowerRec("B1", "Received against GTL/PO/2024/1157", "500001"),
	}

	result := engine.Run(records)

	assert.Empty(t, result.Matches)
	assert.Len(t, result.UnmatchedLenders, 1)
	assert.Len(t, result.UnmatchedBorrowers, 1)
}

func TestEngineRun_PriorityOrder(t *testing.T) {
	// A pair that satisfies both the PO rule and the common text fallback
	// reports as a PO match.
	shared := "payment processed against purchase order GTL/PO/2024/1157 covering imported " +
		"spare parts and accessories required for the knitting and dyeing machinery at the " +
		"composite unit as per approval"
	engine := newTestEngine()
	records := []Record{
		lenderRec("L1", shared, "500000"),
		borrowerRec("B1", shared+" received", "500000"),
	}

	result := engine.Run(records)

	require.Len(t, result.Matches, 1)
	assert.Equal(t, TypePO, result.Matches[0].Type)
}

func TestEngineRun_EachLegConsumedOnce(t *testing.T) {
	// Two lenders quote the same PO; only one borrower exists.
	engine := newTestEngine()
	records := []Record{
		lenderRec("L1", "Payment against GTL/PO/2024/1157", "500000"),
		lenderRec("L2", "Second payment against GTL/PO/2024/1157", "500000"),
		borrowerRec("B1", "Received against GTL/PO/2024/1157", "500000"),
	}

	result := engine.Run(records)

	require.Len(t, result.Matches, 1)
	assert.Equal(t, "L1", result.Matches[0].LenderUID)
	require.Len(t, result.UnmatchedLenders, 1)
	assert.Equal(t, "L2", result.UnmatchedLenders[0].UID)
}

func TestEngineRun_Deterministic(t *testing.T) {
	engine := newTestEngine()
	records := []Record{
		lenderRec("L1", "Payment against GTL/PO/2024/1157", "500000"),
		lenderRec("L2", "Margin against L/C-2231", "500000"),
		borrowerRec("B1", "Received against GTL/PO/2024/1157", "500000"),
		borrowerRec("B2", "Margin received against L/C-2231", "500000"),
	}

	first := engine.Run(records)
	for i := 0; i < 10; i++ {
		result := engine.Run(records)
		require.Equal(t, first, result)
	}
}

func TestEngineRun_UnmatchableRecordsIgnored(t *testing.T) {
	engine := newTestEngine()
	records := []Record{
		{UID: "Z1", Particulars: "Zero value journal entry"},
		lenderRec("L1", "Payment against GTL/PO/2024/1157", "500000"),
	}

	result := engine.Run(records)

	assert.Empty(t, result.Matches)
	require.Len(t, result.UnmatchedLenders, 1)
	assert.Equal(t, "L1", result.UnmatchedLenders[0].UID)
	assert.Empty(t, result.UnmatchedBorrowers)
}
