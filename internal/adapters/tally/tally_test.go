package tally

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGrid() [][]string {
	return [][]string{
		{"Chorka Textile Ltd - Inter Unit Loan A/C-Geo"},
		{"1-Apr-2024 to 30-Jun-2024"},
		{},
		{"Date", "Particulars", "Particulars", "Vch Type", "Vch No.", "Debit", "Credit"},
		{"1-Apr-2024", "Dr", "Payment against GTL/PO/2024/1157", "Payment", "123", "5,00,000.00", ""},
		{"", "", "for fabric supply", "", "", "", ""},
		{"", "", "Entered By : rahim", "", "", "", ""},
		{"2-Apr-2024", "Cr", "Amount received as interunit loan", "Receipt", "124", "", "3,00,000.00"},
		{"", "", "Closing Balance", "", "", "", "2,00,000.00"},
		{"", "", "", "", "", "5,00,000.00", "3,00,000.00"},
	}
}

func TestParseGrid_Metadata(t *testing.T) {
	// Act
	stmt, err := ParseGrid(testGrid())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Chorka Textile Ltd", stmt.Company)
	assert.Equal(t, "GeoTex", stmt.Counterparty)
	assert.Equal(t, "1-Apr-2024", stmt.PeriodFrom)
	assert.Equal(t, "30-Jun-2024", stmt.PeriodTo)
}

func TestParseGrid_Rows(t *testing.T) {
	stmt, err := ParseGrid(testGrid())
	require.NoError(t, err)
	require.Len(t, stmt.Rows, 2)

	lender := stmt.Rows[0]
	assert.Equal(t, "Payment against GTL/PO/2024/1157 for fabric supply", lender.Particulars)
	assert.Equal(t, "rahim", lender.EnteredBy)
	assert.Equal(t, "Payment", lender.VchType)
	assert.Equal(t, "123", lender.VchNo)
	assert.Equal(t, RoleLender, lender.Role)
	assert.Equal(t, "Chorka Textile Ltd", lender.LenderCompany)
	assert.Equal(t, "GeoTex", lender.BorrowerCompany)
	require.True(t, lender.Debit.Valid)
	assert.True(t, lender.Debit.Decimal.Equal(decimal.RequireFromString("500000")))
	assert.False(t, lender.Credit.Valid)
	assert.Equal(t, "April", lender.StatementMonth)
	assert.Equal(t, 2024, lender.StatementYear)

	borrower := stmt.Rows[1]
	assert.Equal(t, RoleBorrower, borrower.Role)
	assert.Equal(t, "GeoTex", borrower.LenderCompany)
	assert.Equal(t, "Chorka Textile Ltd", borrower.BorrowerCompany)
	require.True(t, borrower.Credit.Valid)
	assert.True(t, borrower.Credit.Decimal.Equal(decimal.RequireFromString("300000")))
}

func TestParseGrid_UIDDeterministic(t *testing.T) {
	stmt, err := ParseGrid(testGrid())
	require.NoError(t, err)
	require.Len(t, stmt.Rows, 2)

	// digits("1-Apr-2024") = 12024 = 0x2ef8, 500000 = 0x7a120, sheet row 5
	assert.Equal(t, "Chorka Textile Ltd_0x2ef8_0x7a120_000005", stmt.Rows[0].UID)

	again, err := ParseGrid(testGrid())
	require.NoError(t, err)
	assert.Equal(t, stmt.Rows[0].UID, again.Rows[0].UID)
	assert.Equal(t, stmt.Rows[1].UID, again.Rows[1].UID)
}

func TestParseGrid_SingleParticularsColumn(t *testing.T) {
	grid := [][]string{
		{"Unit: GeoTex Knitting"},
		{"Date", "Particulars", "Vch Type", "Vch No.", "Debit", "Credit"},
		{"15-May-2024", "Margin against L/C-1157", "Payment", "88", "1,50,000.00", ""},
	}

	stmt, err := ParseGrid(grid)

	require.NoError(t, err)
	assert.Equal(t, "GeoTex Knitting", stmt.Company)
	require.Len(t, stmt.Rows, 1)
	assert.Equal(t, "Margin against L/C-1157", stmt.Rows[0].Particulars)
	assert.Equal(t, "May", stmt.Rows[0].StatementMonth)
}

func TestParseGrid_CarriageReturnArtifactsCleaned(t *testing.T) {
	grid := [][]string{
		{"Date", "Particulars", "Vch Type", "Vch No.", "Debit", "Credit"},
		{"15-May-2024", "Payment_x000D_\nagainst  LD 98765", "Payment", "88", "1000.00", ""},
	}

	stmt, err := ParseGrid(grid)

	require.NoError(t, err)
	require.Len(t, stmt.Rows, 1)
	assert.Equal(t, "Payment against LD 98765", stmt.Rows[0].Particulars)
}

func TestParseGrid_NoHeader(t *testing.T) {
	grid := [][]string{
		{"Some company"},
		{"1-Apr-2024", "narration", "x", "y", "1", "2"},
	}

	_, err := ParseGrid(grid)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "header row")
}

func TestParseGrid_InvalidDate(t *testing.T) {
	grid := [][]string{
		{"Date", "Particulars", "Vch Type", "Vch No.", "Debit", "Credit"},
		{"not-a-date", "narration", "Payment", "1", "100.00", ""},
	}

	_, err := ParseGrid(grid)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date")
}

func TestParseFile_CSV(t *testing.T) {
	// Arrange
	csv := "Chorka Textile Ltd - Inter Unit Loan A/C-Geo,,,,,\n" +
		"1-Apr-2024 to 30-Jun-2024,,,,,\n" +
		"Date,Particulars,Vch Type,Vch No.,Debit,Credit\n" +
		"1-Apr-2024,Payment against GTL/PO/2024/1157,Payment,123,500000.00,\n" +
		"2-Apr-2024,Received against GTL/PO/2024/1157,Receipt,124,,500000.00\n"
	path := filepath.Join(t.TempDir(), "ledger.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	// Act
	stmt, err := ParseFile(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Chorka Textile Ltd", stmt.Company)
	assert.Equal(t, "GeoTex", stmt.Counterparty)
	require.Len(t, stmt.Rows, 2)
	assert.Equal(t, RoleLender, stmt.Rows[0].Role)
	assert.Equal(t, RoleBorrower, stmt.Rows[1].Role)
}

func TestParse_UnsupportedFormat(t *testing.T) {
	_, err := Parse(nil, "ledger.pdf")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported ledger format")
}
