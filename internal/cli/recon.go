package cli

import (
	"fmt"
	"log/slog"
	"os"

	"interunit-recon-backend/internal/adapters/tally"
	"interunit-recon-backend/internal/application/service"
	"interunit-recon-backend/internal/domain/matcher"
	"interunit-recon-backend/internal/infrastructure/config"
	"interunit-recon-backend/internal/infrastructure/logging"
	"interunit-recon-backend/internal/infrastructure/storage"
)

// RunRecon runs a one-shot reconciliation over two ledger exports.
// Without -save the run stays in memory; with it, both ledgers are
// ingested into the database and the results persisted for review.
func RunRecon(cfg *config.Config, flags *ReconFlags) error {
	if flags.LenderFile == "" || flags.BorrowerFile == "" {
		return fmt.Errorf("both -lender and -borrower ledger files are required")
	}

	loggingCfg := cfg.Observability.Logging
	if flags.Verbose {
		loggingCfg.Level = "debug"
	}
	logger := logging.NewLoggerWithSystem(loggingCfg, "recon")

	engineCfg := matcher.DefaultConfig()
	if flags.Threshold > 0 {
		engineCfg.SalaryThreshold = flags.Threshold
	}
	engine := matcher.NewEngineWithConfig(NewBankDirectory(cfg), engineCfg)

	PrintHeader(flags.LenderFile, flags.BorrowerFile, flags.Save)

	if flags.Save {
		return runPersisted(cfg, flags, engine, logger)
	}

	return runInMemory(flags, engine)
}

func runInMemory(flags *ReconFlags, engine *matcher.Engine) error {
	records, err := loadRecords(flags.LenderFile)
	if err != nil {
		return err
	}

	borrowerRecords, err := loadRecords(flags.BorrowerFile)
	if err != nil {
		return err
	}
	records = append(records, borrowerRecords...)

	result := engine.Run(records)
	PrintRunResult(result, flags.Verbose)
	return nil
}

func runPersisted(cfg *config.Config, flags *ReconFlags, engine *matcher.Engine, logger *slog.Logger) error {
	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	recon := service.NewReconService(store, engine, logger)

	lenderFile, err := os.Open(flags.LenderFile)
	if err != nil {
		return err
	}
	defer func() { _ = lenderFile.Close() }()

	borrowerFile, err := os.Open(flags.BorrowerFile)
	if err != nil {
		return err
	}
	defer func() { _ = borrowerFile.Close() }()

	uploads, err := recon.UploadLedgerPair(lenderFile, borrowerFile, flags.LenderFile, flags.BorrowerFile)
	if err != nil {
		return err
	}
	for _, upload := range uploads {
		fmt.Printf("Ingested %s: %d rows (%s vs %s)\n",
			upload.Filename, upload.RowCount, upload.Company, upload.Counterparty)
	}

	summary, err := recon.Reconcile(storage.TransactionFilters{})
	if err != nil {
		return err
	}

	PrintReconSummary(summary)
	return nil
}

// loadRecords parses a ledger export into engine records.
func loadRecords(path string) ([]matcher.Record, error) {
	stmt, err := tally.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	records := make([]matcher.Record, 0, len(stmt.Rows))
	for _, row := range stmt.Rows {
		record := matcher.Record{
			UID:         row.UID,
			Particulars: row.Particulars,
			EnteredBy:   row.EnteredBy,
		}
		if row.Debit.Valid {
			record.Debit = row.Debit.Decimal
		}
		if row.Credit.Valid {
			record.Credit = row.Credit.Decimal
		}
		records = append(records, record)
	}

	return records, nil
}
