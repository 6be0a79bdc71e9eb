// Package tally parses Tally ledger exports (xlsx, xls, csv) into
// transaction rows ready for reconciliation.
//
// A Tally export carries a few metadata rows (company, counterparty
// ledger, statement period) above the column header row. Below the
// header, narrations wrap across continuation rows, voucher clerk rows
// ("Entered By :") interleave with transactions, and opening, closing
// and totals rows must be dropped.
package tally

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction roles. A debit row lends to the counterparty; a credit row
// borrows from it.
const (
	RoleLender   = "Lender"
	RoleBorrower = "Borrower"
)

// Statement is one parsed ledger export.
type Statement struct {
	Company      string
	Counterparty string
	PeriodFrom   string
	PeriodTo     string
	Rows         []Row
}

// Row is one ledger transaction.
type Row struct {
	UID             string
	Date            time.Time
	Particulars     string
	VchType         string
	VchNo           string
	Debit           decimal.NullDecimal
	Credit          decimal.NullDecimal
	EnteredBy       string
	Role            string
	LenderCompany   string
	BorrowerCompany string
	StatementMonth  string
	StatementYear   int
}

// Column headers that identify the header row of a Tally export.
var requiredHeaders = []string{"Date", "Particulars", "Vch Type", "Vch No.", "Debit", "Credit"}

var (
	periodPattern       = regexp.MustCompile(`(\d{1,2}-[A-Za-z]{3}-\d{4})\s*to\s*(\d{1,2}-[A-Za-z]{3}-\d{4})`)
	counterpartyPattern = regexp.MustCompile(`(?i)Inter\s*Unit\s+Loan\s+A/C-(\w+)`)
	companyLabelPattern = regexp.MustCompile(`(?i)^(?:unit|company|account|ledger)\s*[:\-]\s*(.+)$`)
	enteredByPattern    = regexp.MustCompile(`(?i)entered\s+by\s*:\s*(.*)`)
	nonDigitPattern     = regexp.MustCompile(`\D`)
)

const tallyDateLayout = "2-Jan-2006"

// clean strips the artifacts Tally leaves in exported cells: embedded
// carriage returns, the literal "_x000D_" marker, and runs of whitespace.
func clean(s string) string {
	s = strings.ReplaceAll(s, "_x000D_", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.Join(strings.Fields(s), " ")
}

// ParseGrid parses a raw cell grid as produced by any of the format
// readers. The grid must contain a Tally header row; everything above it
// is treated as statement metadata.
func ParseGrid(grid [][]string) (*Statement, error) {
	headerIdx, cols, err := findHeader(grid)
	if err != nil {
		return nil, err
	}

	stmt := &Statement{Company: "Unknown Company"}
	parseMetadata(stmt, grid[:headerIdx])

	if err := parseRows(stmt, grid, headerIdx, cols); err != nil {
		return nil, err
	}
	return stmt, nil
}

// columns maps the header names to their column indexes. When the export
// carries two Particulars columns the first one holds the Dr/Cr marker.
type columns struct {
	date        int
	particulars int
	drCr        int
	vchType     int
	vchNo       int
	debit       int
	credit      int
}

func findHeader(grid [][]string) (int, columns, error) {
	for i, row := range grid {
		seen := make(map[string][]int)
		for col, cell := range row {
			seen[clean(cell)] = append(seen[clean(cell)], col)
		}
		complete := true
		for _, h := range requiredHeaders {
			if len(seen[h]) == 0 {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}

		cols := columns{
			date:    seen["Date"][0],
			vchType: seen["Vch Type"][0],
			vchNo:   seen["Vch No."][0],
			debit:   seen["Debit"][0],
			credit:  seen["Credit"][0],
			drCr:    -1,
		}
		particulars := seen["Particulars"]
		if len(particulars) > 1 {
			cols.drCr = particulars[0]
			cols.particulars = particulars[1]
		} else {
			cols.particulars = particulars[0]
		}
		return i, cols, nil
	}
	return 0, columns{}, fmt.Errorf("no Tally header row found (need %s)", strings.Join(requiredHeaders, ", "))
}

func parseMetadata(stmt *Statement, metaRows [][]string) {
	var firstNonEmpty string
	for _, row := range metaRows {
		for _, cell := range row {
			text := clean(cell)
			if text == "" {
				continue
			}
			if firstNonEmpty == "" {
				firstNonEmpty = text
			}
			if m := periodPattern.FindStringSubmatch(text); m != nil {
				stmt.PeriodFrom = m[1]
				stmt.PeriodTo = m[2]
			}
			if m := counterpartyPattern.FindStringSubmatch(text); m != nil {
				stmt.Counterparty = normalizeCounterparty(m[1])
			}
			if m := companyLabelPattern.FindStringSubmatch(text); m != nil {
				stmt.Company = strings.TrimSpace(m[1])
			}
		}
	}
	if stmt.Company == "Unknown Company" && firstNonEmpty != "" {
		stmt.Company = stripCompanySuffix(firstNonEmpty)
	}
}

// normalizeCounterparty expands the abbreviations clerks use in the
// counterparty ledger name.
func normalizeCounterparty(name string) string {
	if strings.EqualFold(name, "Geo") {
		return "GeoTex"
	}
	return name
}

// stripCompanySuffix drops a trailing counterparty ledger fragment from a
// company header cell.
func stripCompanySuffix(text string) string {
	if loc := counterpartyPattern.FindStringIndex(text); loc != nil {
		text = text[:loc[0]]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "-"))
}

func parseRows(stmt *Statement, grid [][]string, headerIdx int, cols columns) error {
	for i := headerIdx + 1; i < len(grid); i++ {
		row := grid[i]
		cell := func(col int) string {
			if col < 0 || col >= len(row) {
				return ""
			}
			return clean(row[col])
		}

		date := cell(cols.date)
		particulars := cell(cols.particulars)
		lower := strings.ToLower(particulars)

		// Voucher clerk rows annotate the preceding transaction.
		if strings.Contains(lower, "entered by") {
			if len(stmt.Rows) > 0 {
				stmt.Rows[len(stmt.Rows)-1].EnteredBy = enteredByValue(row, cols.particulars)
			}
			continue
		}
		if strings.Contains(lower, "opening balance") || strings.Contains(lower, "closing balance") {
			continue
		}

		// Continuation rows carry only more narration text.
		if date == "" && cell(cols.drCr) == "" {
			if particulars != "" && len(stmt.Rows) > 0 {
				prev := &stmt.Rows[len(stmt.Rows)-1]
				prev.Particulars = clean(prev.Particulars + " " + particulars)
			}
			continue
		}
		if date == "" {
			// Totals and other summary rows at the bottom of the export.
			continue
		}

		debit, err := parseAmount(cell(cols.debit))
		if err != nil {
			return fmt.Errorf("row %d: invalid debit: %w", i+1, err)
		}
		credit, err := parseAmount(cell(cols.credit))
		if err != nil {
			return fmt.Errorf("row %d: invalid credit: %w", i+1, err)
		}
		if !debit.Valid && !credit.Valid {
			continue
		}

		parsed, err := time.Parse(tallyDateLayout, date)
		if err != nil {
			return fmt.Errorf("row %d: invalid date %q: %w", i+1, date, err)
		}

		r := Row{
			UID:            buildUID(stmt.Company, date, debit, credit, i+1),
			Date:           parsed,
			Particulars:    particulars,
			VchType:        cell(cols.vchType),
			VchNo:          cell(cols.vchNo),
			Debit:          debit,
			Credit:         credit,
			StatementMonth: parsed.Month().String(),
			StatementYear:  parsed.Year(),
		}
		if debit.Valid && debit.Decimal.IsPositive() {
			r.Role = RoleLender
			r.LenderCompany = stmt.Company
			r.BorrowerCompany = stmt.Counterparty
		} else {
			r.Role = RoleBorrower
			r.LenderCompany = stmt.Counterparty
			r.BorrowerCompany = stmt.Company
		}
		stmt.Rows = append(stmt.Rows, r)
	}
	return nil
}

func enteredByValue(row []string, particularsCol int) string {
	for _, cell := range row {
		if m := enteredByPattern.FindStringSubmatch(clean(cell)); m != nil {
			if value := strings.TrimSpace(m[1]); value != "" {
				return value
			}
		}
	}
	// The clerk name sometimes lands in the cell right of the marker.
	for col := particularsCol + 1; col < len(row); col++ {
		if value := clean(row[col]); value != "" {
			return value
		}
	}
	return ""
}

func parseAmount(s string) (decimal.NullDecimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

// buildUID derives a stable row identifier from the company, the digits
// of the date, the rounded row amount and the sheet row number. The same
// export always produces the same UIDs.
func buildUID(company, date string, debit, credit decimal.NullDecimal, rowNum int) string {
	digits := nonDigitPattern.ReplaceAllString(date, "")
	dateValue, _ := strconv.ParseInt(digits, 10, 64)

	balance := decimal.Zero
	if credit.Valid {
		balance = credit.Decimal
	} else if debit.Valid {
		balance = debit.Decimal
	}
	rounded := balance.Round(0).IntPart()

	return fmt.Sprintf("%s_0x%x_0x%x_%06d", company, dateValue, rounded, rowNum)
}
