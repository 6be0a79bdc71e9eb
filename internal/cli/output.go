package cli

import (
	"fmt"
	"sort"
	"strings"

	"interunit-recon-backend/internal/application/service"
	"interunit-recon-backend/internal/domain/matcher"
)

// PrintHeader prints the application header
func PrintHeader(lenderFile, borrowerFile string, save bool) {
	mode := "IN-MEMORY"
	if save {
		mode = "PERSISTED"
	}
	fmt.Printf("interunit-recon: %s <-> %s (%s mode)\n\n", lenderFile, borrowerFile, mode)
}

// PrintRunResult prints the outcome of an in-memory engine run
func PrintRunResult(result matcher.Result, verbose bool) {
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Matched pairs: %d | Unmatched lenders: %d | Unmatched borrowers: %d\n",
		len(result.Matches),
		len(result.UnmatchedLenders),
		len(result.UnmatchedBorrowers))

	byType := make(map[string]int)
	for _, m := range result.Matches {
		byType[string(m.Type)]++
	}
	printTypeCounts(byType)

	if verbose {
		for _, m := range result.Matches {
			fmt.Printf("  %-20s %s <-> %s  amount=%s ref=%q\n",
				m.Type, m.LenderUID, m.BorrowerUID, m.Amount.String(), m.Reference)
		}
		for _, r := range result.UnmatchedLenders {
			fmt.Printf("  UNMATCHED (lender)   %s  %s\n", r.UID, r.Particulars)
		}
		for _, r := range result.UnmatchedBorrowers {
			fmt.Printf("  UNMATCHED (borrower) %s  %s\n", r.UID, r.Particulars)
		}
	}
}

// PrintReconSummary prints the outcome of a persisted reconciliation run
func PrintReconSummary(summary *service.Summary) {
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Summary: Processed=%d Matched=%d AutoAccepted=%d NeedsReview=%d\n",
		summary.Processed,
		summary.Matched,
		summary.AutoAccepted,
		summary.NeedsReview)
	fmt.Printf("Unmatched: lenders=%d borrowers=%d\n",
		summary.UnmatchedLenders,
		summary.UnmatchedBorrowers)
	printTypeCounts(summary.ByType)
}

func printTypeCounts(byType map[string]int) {
	if len(byType) == 0 {
		return
	}

	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Strings(types)

	fmt.Println("By type:")
	for _, t := range types {
		fmt.Printf("  %-22s %d\n", t, byType[t])
	}
}
