package refextract

import (
	"fmt"
	"regexp"
	"strings"
)

// SalaryDetails describes a salary-like narration.
type SalaryDetails struct {
	PersonName      string
	PersonID        string
	PersonCombined  string
	Period          string
	IsSalary        bool
	MatchedKeywords []string
}

// primarySalaryKeywords qualify a narration as salary-like on their own.
var primarySalaryKeywords = []string{
	"salary", "sal", "wage", "payroll", "remuneration", "compensation",
}

// secondarySalaryKeywords only feed the audit keyword list.
var secondarySalaryKeywords = []string{
	"monthly", "month", "january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
	"jan", "feb", "mar", "apr", "jun", "jul", "aug", "sep", "oct", "nov", "dec",
}

// nonSalaryIndicators disqualify a narration that merely mentions a salary
// keyword in a non-payroll context (vendor bills, LC margins, loan
// repayments). An explicit person reference overrides the deny list.
var nonSalaryIndicators = []string{
	"payment for", "purchase of", "rent", "electricity", "transportation", "marketing",
	"maintenance", "equipment", "insurance", "legal", "consulting", "training",
	"travel", "software", "security", "cleaning", "bank charges", "interest",
	"loan repayment", "tax payment", "bill payment", "expenses for", "fees for",
	"vendor payment", "po no", "work order", "invoice", "challan", "tds deduction",
	"vds deduction", "duty", "taxes", "port", "shipping", "carrying charges",
	"l/c", "letter of credit", "margin", "collateral", "acceptance commission",
	"retirement value", "principal", "time loan", "usance loan",
}

// salaryPersonPatterns extract the employee name from lowercased
// narrations, most specific first.
var salaryPersonPatterns = []*regexp.Regexp{
	regexp.MustCompile(`salary\s+of\s+([a-z\s]+?)(?:\s+for|\s+month|\s+period|$)`),
	regexp.MustCompile(`([a-z\s]+?)\s+salary`),
	regexp.MustCompile(`payroll\s+for\s+([a-z\s]+?)(?:\s+for|\s+month|\s+period|$)`),
	regexp.MustCompile(`([a-z\s]+?)\s+payroll`),
	// Names carrying a title and an employee ID, e.g. "(Md. Rahim-ID : 4521)"
	regexp.MustCompile(`\(([a-z]+\.\s+[a-z\s]+?)-id\s*:\s*\d+\)`),
	regexp.MustCompile(`([a-z]+\.\s+[a-z\s]+?)-id\s*:\s*\d+`),
	regexp.MustCompile(`payable\s+to\s+([a-z]+\.\s+[a-z\s]+?)-id\s*:\s*\d+`),
	regexp.MustCompile(`amount\s+paid\s+to\s+([a-z]+\.\s+[a-z\s]+?)(?:\s*,|\s+for|\s+employee|\s+office|\s+human|\s+resources|\s+administration|\s+final|\s+settlement|\s+employee\s+id|\s*$)`),
	regexp.MustCompile(`([a-z]+\.\s+[a-z\s]+?)(?:\s+for|\s+month|\s+period|\s+employee|\s+id|\s*,|\s*$)`),
	regexp.MustCompile(`\(([a-z]+\.\s+[a-z\s]+?)\)`),
}

var salaryPeriodPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\w+\s+\d{4})`),   // "January 2024"
	regexp.MustCompile(`(\d{1,2}/\d{4})`), // "01/2024"
	regexp.MustCompile(`(\d{4}-\d{2})`),   // "2024-01"
}

// Salary extracts salary payment details from a narration. Returns nil
// when the narration is not salary-like: no primary keyword, or a deny-list
// business term is present without an explicit person reference.
func Salary(particulars string) *SalaryDetails {
	if particulars == "" {
		return nil
	}
	lower := strings.ToLower(particulars)

	// Explicit person references force salary treatment even when deny-list
	// terms appear in the same narration.
	var forced []string
	if strings.Contains(lower, "amount paid as inter unit loan") {
		forced = settlementParenPattern.FindStringSubmatch(particulars)
	}
	if forced == nil && strings.Contains(lower, "payable to") && strings.Contains(lower, "final settlement") {
		forced = settlementPayablePattern.FindStringSubmatch(particulars)
	}

	hasPrimary := strings.Contains(lower, "final settlement")
	for _, keyword := range primarySalaryKeywords {
		if strings.Contains(lower, keyword) {
			hasPrimary = true
			break
		}
	}
	if !hasPrimary {
		return nil
	}

	if forced == nil {
		for _, indicator := range nonSalaryIndicators {
			if strings.Contains(lower, indicator) {
				return nil
			}
		}
	}

	details := &SalaryDetails{IsSalary: true}

	if forced != nil {
		details.PersonName = strings.TrimSpace(forced[1])
		details.PersonID = strings.TrimSpace(forced[2])
		details.PersonCombined = fmt.Sprintf("%s-ID : %s", details.PersonName, details.PersonID)
	} else {
		for _, pattern := range salaryPersonPatterns {
			if m := pattern.FindStringSubmatch(lower); m != nil {
				details.PersonName = strings.TrimSpace(m[1])
				break
			}
		}
		if details.PersonName == "" {
			details.PersonName = personFromParens(lower)
		}
	}

	for _, pattern := range salaryPeriodPatterns {
		if m := pattern.FindStringSubmatch(particulars); m != nil {
			details.Period = m[1]
			break
		}
	}

	for _, keyword := range primarySalaryKeywords {
		if strings.Contains(lower, keyword) {
			details.MatchedKeywords = append(details.MatchedKeywords, keyword)
		}
	}
	for _, keyword := range secondarySalaryKeywords {
		if strings.Contains(lower, keyword) {
			details.MatchedKeywords = append(details.MatchedKeywords, keyword)
		}
	}

	return details
}

// personFromParens handles "(md. name-id : 1234)" shapes the patterns
// above miss: anything between "(" and "-id :" that looks like a titled
// name.
func personFromParens(lower string) string {
	start := strings.Index(lower, "(")
	if start < 0 {
		return ""
	}
	end := strings.Index(lower[start:], "-id :")
	if end < 0 {
		return ""
	}
	name := strings.TrimSpace(lower[start+1 : start+end])
	if strings.Contains(name, ".") && len(strings.Fields(name)) >= 2 {
		return name
	}
	return ""
}
