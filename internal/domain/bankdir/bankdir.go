// Package bankdir maps bank short codes found in ledger narrations to
// canonical bank names. Unknown codes pass through unchanged so extractors
// never lose information.
package bankdir

import "strings"

// Directory resolves bank codes to canonical names.
type Directory struct {
	names map[string]string
}

// defaultNames covers the code variants seen in production ledgers.
var defaultNames = map[string]string{
	// Midland Bank variants
	"MDBL":                 "MIDLAND BANK",
	"MDB":                  "MIDLAND BANK",
	"MIDLAND":              "MIDLAND BANK",
	"MIDLAND BANK":         "MIDLAND BANK",
	"MIDLAND BANK PLC":     "MIDLAND BANK",
	"MIDLAND BANK LIMITED": "MIDLAND BANK",

	// BRAC Bank variants
	"BBL":               "BRAC BANK",
	"BRAC":              "BRAC BANK",
	"BRAC BANK":         "BRAC BANK",
	"BRAC BANK PLC":     "BRAC BANK",
	"BRAC BANK LIMITED": "BRAC BANK",

	// One Bank variants
	"OBL":              "ONE BANK",
	"ONE BANK":         "ONE BANK",
	"ONE BANK PLC":     "ONE BANK",
	"ONE BANK LIMITED": "ONE BANK",

	// Eastern Bank variants
	"EBL":                  "EASTERN BANK",
	"EASTERN BANK":         "EASTERN BANK",
	"EASTERN BANK PLC":     "EASTERN BANK",
	"EASTERN BANK LIMITED": "EASTERN BANK",

	// Dutch Bangla Bank variants
	"DBL":                       "DUTCH BANGLA BANK",
	"DUTCH BANGLA":              "DUTCH BANGLA BANK",
	"DUTCH BANGLA BANK PLC":     "DUTCH BANGLA BANK",
	"DUTCH BANGLA BANK LIMITED": "DUTCH BANGLA BANK",

	// Prime Bank variants
	"PBL":                "PRIME BANK",
	"PRIME":              "PRIME BANK",
	"PRIME BANK":         "PRIME BANK",
	"PRIME BANK PLC":     "PRIME BANK",
	"PRIME BANK LIMITED": "PRIME BANK",

	// Mutual Trust Bank variants
	"MTBL":                      "MUTUAL TRUST BANK",
	"MUTUAL TRUST":              "MUTUAL TRUST BANK",
	"MUTUAL TRUST BANK":         "MUTUAL TRUST BANK",
	"MUTUAL TRUST BANK PLC":     "MUTUAL TRUST BANK",
	"MUTUAL TRUST BANK LIMITED": "MUTUAL TRUST BANK",

	// Other banks
	"NBL": "NATIONAL BANK",
	"SBL": "STANDARD BANK",
	"UBL": "UNITED BANK",
	"CBL": "CITY BANK",
}

// New creates a directory seeded with the default bank mappings.
func New() *Directory {
	names := make(map[string]string, len(defaultNames))
	for code, name := range defaultNames {
		names[code] = name
	}
	return &Directory{names: names}
}

// NewWithOverrides creates a directory seeded with the defaults plus
// additional mappings, typically loaded from configuration.
func NewWithOverrides(extra map[string]string) *Directory {
	d := New()
	for code, name := range extra {
		d.Add(code, name)
	}
	return d
}

// Lookup returns the canonical name for a bank code. Unknown codes are
// returned as-is; an empty code yields an empty string.
func (d *Directory) Lookup(code string) string {
	if code == "" {
		return ""
	}
	if name, ok := d.names[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return name
	}
	return code
}

// Add registers a new code to name mapping.
func (d *Directory) Add(code, name string) {
	d.names[strings.ToUpper(strings.TrimSpace(code))] = strings.ToUpper(strings.TrimSpace(name))
}
