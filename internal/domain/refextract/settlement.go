package refextract

import (
	"fmt"
	"regexp"
	"strings"
)

// Settlement holds the person named in a final settlement narration.
type Settlement struct {
	PersonName string
	PersonID   string
	// PersonCombined is the canonical "<Name>-ID : <digits>" rendering used
	// for comparison and audit records.
	PersonCombined string
}

var (
	// Lender leg: "... Amount paid as Inter Unit Loan ... (Name - ID: 12345)"
	settlementParenPattern = regexp.MustCompile(`(?i)\(\s*([^()]+?)\s*-\s*ID\s*[:：]\s*(\d+)\s*\)`)

	// Borrower leg: "Payable to Name - ID: 12345 ... final settlement ..."
	settlementPayablePattern = regexp.MustCompile(`(?i)payable\s+to\s+([^\r\n\-]+?)\s*-\s*ID\s*[:：]\s*(\d+)`)
)

// FinalSettlement extracts final settlement person details from a
// narration. The parenthesized person form only counts on narrations that
// mention "amount paid as inter unit loan"; the "payable to" form only on
// narrations that mention both "payable to" and "final settlement".
// Returns nil when neither shape is present.
func FinalSettlement(particulars string) *Settlement {
	if particulars == "" {
		return nil
	}
	lower := strings.ToLower(particulars)

	var m []string
	if strings.Contains(lower, "amount paid as inter unit loan") {
		m = settlementParenPattern.FindStringSubmatch(particulars)
	}
	if m == nil && strings.Contains(lower, "payable to") && strings.Contains(lower, "final settlement") {
		m = settlementPayablePattern.FindStringSubmatch(particulars)
	}
	if m == nil {
		return nil
	}

	name := strings.TrimSpace(m[1])
	id := strings.TrimSpace(m[2])
	return &Settlement{
		PersonName:     name,
		PersonID:       id,
		PersonCombined: fmt.Sprintf("%s-ID : %s", name, id),
	}
}
