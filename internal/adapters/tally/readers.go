package tally

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// Parse reads a ledger export from r. The filename picks the format by
// extension: .xlsx, .xls or .csv.
func Parse(r io.Reader, filename string) (*Statement, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return parseXLSX(r)
	case ".xls":
		return parseXLS(r)
	case ".csv":
		return parseCSV(r)
	default:
		return nil, fmt.Errorf("unsupported ledger format %q (want .xlsx, .xls or .csv)", filepath.Ext(filename))
	}
}

// ParseFile reads a ledger export from disk.
func ParseFile(path string) (*Statement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger file: %w", err)
	}
	defer f.Close()
	return Parse(f, path)
}

func parseXLSX(r io.Reader) (*Statement, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return ParseGrid(rows)
}

func parseXLS(r io.Reader) (*Statement, error) {
	// The xls reader needs random access, so buffer the upload.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to read legacy workbook: %w", err)
	}
	return ParseGrid(wb.ReadAllCells(65536))
}

func parseCSV(r io.Reader) (*Statement, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	grid, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return ParseGrid(grid)
}
