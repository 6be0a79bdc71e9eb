package refextract

import (
	"regexp"
	"strings"

	"interunit-recon-backend/internal/domain/bankdir"
)

// AccountRef is a short bank account reference such as "MDBL#11026".
type AccountRef struct {
	AccountNumber  string
	BankCode       string
	NormalizedBank string
	FullReference  string
}

// BankAccount is a full account number with its leading bank name text.
type BankAccount struct {
	BankText string
	Number   string
}

// Short account references, most specific first.
var accountRefPatterns = []*regexp.Regexp{
	regexp.MustCompile(`([A-Z]{2,4})#(\d{4,6})\b`),    // MDBL#11026
	regexp.MustCompile(`([A-Za-z\s]+)#(\d{4,6})\b`),   // Midland Bank#11026
	regexp.MustCompile(`#(\d{4,6})\b`),                // #11026
}

// Full account numbers preceded by bank name text.
var (
	// The connector between bank text and digits is lazy so the digit
	// group keeps the full account number.
	accountStandardPattern   = regexp.MustCompile(`([A-Za-z\s-]+[A-Za-z])-?[A-Za-z0-9/-]*?(\d{13,16})`)
	accountHyphenatedPattern = regexp.MustCompile(`([A-Za-z\s-]+[A-Za-z])-?[A-Za-z0-9/-]*?(\d{3}-\d{10})`)
	accountFallbackPattern   = regexp.MustCompile(`([A-Za-z\s-]+[A-Za-z])-?[A-Za-z0-9/-]*?(\d{10,})`)
	bareStandardPattern      = regexp.MustCompile(`(\d{13,16})`)
	bareHyphenatedPattern    = regexp.MustCompile(`(\d{3}-\d{10})`)

	shortRefPattern = regexp.MustCompile(`#(\d{4,5})`)
)

// AccountReference extracts a short account reference from a narration,
// resolving the bank code through the directory. Returns nil when no
// reference shape is present.
func AccountReference(particulars string, dir *bankdir.Directory) *AccountRef {
	if particulars == "" {
		return nil
	}
	upper := strings.ToUpper(particulars)

	for _, pattern := range accountRefPatterns {
		m := pattern.FindStringSubmatch(upper)
		if m == nil {
			continue
		}
		ref := &AccountRef{FullReference: m[0]}
		if len(m) == 2 {
			ref.AccountNumber = m[1]
		} else {
			ref.BankCode = strings.TrimSpace(m[1])
			ref.AccountNumber = m[2]
			ref.NormalizedBank = dir.Lookup(ref.BankCode)
		}
		return ref
	}
	return nil
}

// LenderAccount extracts a full account number from a lender narration.
// Lender legs usually quote the full 13-16 digit account; shorter numbers
// and bare digit runs serve as fallbacks.
func LenderAccount(particulars string) *BankAccount {
	if acct := namedAccount(particulars, accountStandardPattern); acct != nil {
		return acct
	}
	if acct := namedAccount(particulars, accountFallbackPattern); acct != nil {
		return acct
	}
	if m := bareStandardPattern.FindStringSubmatch(particulars); m != nil {
		return &BankAccount{Number: m[1]}
	}
	return nil
}

// BorrowerAccount extracts a full account number from a borrower
// narration. Borrower legs usually quote the hyphenated "123-4567890123"
// form.
func BorrowerAccount(particulars string) *BankAccount {
	if acct := namedAccount(particulars, accountHyphenatedPattern); acct != nil {
		return acct
	}
	if acct := namedAccount(particulars, accountFallbackPattern); acct != nil {
		return acct
	}
	if m := bareHyphenatedPattern.FindStringSubmatch(particulars); m != nil {
		return &BankAccount{Number: m[1]}
	}
	return nil
}

func namedAccount(particulars string, pattern *regexp.Regexp) *BankAccount {
	if particulars == "" {
		return nil
	}
	m := pattern.FindStringSubmatch(particulars)
	if m == nil {
		return nil
	}
	return &BankAccount{BankText: strings.TrimSpace(m[1]), Number: m[2]}
}

// ShortRef extracts a 4-5 digit "#12345" style reference.
func ShortRef(particulars string) string {
	m := shortRefPattern.FindStringSubmatch(particulars)
	if m == nil {
		return ""
	}
	return m[1]
}

// LastDigits returns the trailing five characters of an account number,
// or four when the number is shorter. Cross-referencing between the two
// legs relies on these trailing digits.
func LastDigits(account string) string {
	if len(account) >= 5 {
		return account[len(account)-5:]
	}
	if len(account) >= 4 {
		return account[len(account)-4:]
	}
	return account
}
