package cli

import "flag"

// ServeFlags holds the CLI flags for the serve command.
type ServeFlags struct {
	Port    int
	Verbose bool
}

// ParseServeFlags parses command line flags for the serve command.
func ParseServeFlags() *ServeFlags {
	flags := &ServeFlags{}
	flag.IntVar(&flags.Port, "port", 8080, "Port to listen on")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	flag.Parse()
	return flags
}

// ReconFlags are flags for the one-shot reconciliation command.
type ReconFlags struct {
	LenderFile   string
	BorrowerFile string
	Save         bool
	Threshold    float64
	Verbose      bool
}

// ParseReconFlags parses command line flags for the recon command.
func ParseReconFlags() *ReconFlags {
	flags := &ReconFlags{}
	flag.StringVar(&flags.LenderFile, "lender", "", "Path to the lender-side ledger export")
	flag.StringVar(&flags.BorrowerFile, "borrower", "", "Path to the borrower-side ledger export")
	flag.BoolVar(&flags.Save, "save", false, "Persist transactions and matches to the database")
	flag.Float64Var(&flags.Threshold, "threshold", 0.3, "Jaccard similarity threshold for salary matching")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	flag.Parse()
	return flags
}
