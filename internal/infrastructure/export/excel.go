// Package export renders reconciliation results as Excel workbooks for
// the finance team.
package export

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"interunit-recon-backend/internal/domain/bankdir"
	"interunit-recon-backend/internal/domain/refextract"
	"interunit-recon-backend/internal/infrastructure/storage"
)

// Exporter builds workbooks. The bank directory enriches rows that carry
// a short account reference.
type Exporter struct {
	banks *bankdir.Directory
}

// NewExporter creates an exporter backed by the given bank directory.
func NewExporter(banks *bankdir.Directory) *Exporter {
	return &Exporter{banks: banks}
}

var matchedHeaders = []string{
	"Lender UID", "Lender Date", "Lender Particulars", "Amount",
	"Borrower UID", "Borrower Date", "Borrower Particulars",
	"Status", "Method", "Bank Reference",
}

var unmatchedHeaders = []string{
	"UID", "Date", "Particulars", "Role", "Debit", "Credit",
	"Lender", "Borrower", "Month", "Year", "Bank Reference",
}

// MatchedWorkbook renders matched pairs, one row per pair.
func (e *Exporter) MatchedWorkbook(pairs []storage.MatchedPair) (*excelize.File, error) {
	f, sheet, err := newSheet("Matched", matchedHeaders)
	if err != nil {
		return nil, err
	}

	for i, p := range pairs {
		row := i + 2
		values := []any{
			p.UID, p.Date, p.Particulars, amountString(p.Debit),
			p.CounterUID, p.CounterDate, p.CounterParticulars,
			p.MatchStatus, p.MatchMethod, e.bankReference(p.Particulars),
		}
		if err := setRow(f, sheet, row, values); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// UnmatchedWorkbook renders legs still awaiting reconciliation.
func (e *Exporter) UnmatchedWorkbook(txns []*storage.Transaction) (*excelize.File, error) {
	f, sheet, err := newSheet("Unmatched", unmatchedHeaders)
	if err != nil {
		return nil, err
	}

	for i, t := range txns {
		row := i + 2
		values := []any{
			t.UID, t.Date, t.Particulars, t.Role,
			amountString(t.Debit), amountString(t.Credit),
			t.Lender, t.Borrower, t.StatementMonth, t.StatementYear,
			e.bankReference(t.Particulars),
		}
		if err := setRow(f, sheet, row, values); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Filename returns a descriptive export filename.
func Filename(prefix string) string {
	return fmt.Sprintf("%s_%s.xlsx", prefix, time.Now().Format("2006-01-02_150405"))
}

// bankReference decodes a short account reference in the narration to its
// canonical bank name, e.g. "MDBL#11026" becomes "MIDLAND BANK #11026".
func (e *Exporter) bankReference(particulars string) string {
	ref := refextract.AccountReference(particulars, e.banks)
	if ref == nil {
		return ""
	}
	if ref.NormalizedBank != "" {
		return fmt.Sprintf("%s #%s", ref.NormalizedBank, ref.AccountNumber)
	}
	return "#" + ref.AccountNumber
}

func newSheet(name string, headers []string) (*excelize.File, string, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", name); err != nil {
		return nil, "", fmt.Errorf("failed to name sheet: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetCellValue(name, cell, header); err != nil {
			return nil, "", err
		}
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return nil, "", err
	}
	if err := f.SetCellStyle(name, "A1", last, style); err != nil {
		return nil, "", err
	}

	// Narration columns need room.
	_ = f.SetColWidth(name, "A", string(rune('A'+len(headers)-1)), 22)
	return f, name, nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to write cell %s: %w", cell, err)
		}
	}
	return nil
}

func amountString(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(2)
}
