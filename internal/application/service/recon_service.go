// Package service orchestrates the reconciliation flow: load unmatched
// legs from the repository, run the matching engine, classify and persist
// the results.
package service

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"interunit-recon-backend/internal/adapters/tally"
	"interunit-recon-backend/internal/domain/matcher"
	"interunit-recon-backend/internal/infrastructure/storage"
)

// ReconService wires the repository to the matching engine.
type ReconService struct {
	repo   storage.Repository
	engine *matcher.Engine
	logger *slog.Logger
}

// NewReconService creates the reconciliation service.
func NewReconService(repo storage.Repository, engine *matcher.Engine, logger *slog.Logger) *ReconService {
	return &ReconService{repo: repo, engine: engine, logger: logger}
}

// Summary reports one reconciliation run.
type Summary struct {
	Processed          int            `json:"processed"`
	Matched            int            `json:"matched"`
	AutoAccepted       int            `json:"auto_accepted"`
	NeedsReview        int            `json:"needs_review"`
	UnmatchedLenders   int            `json:"unmatched_lenders"`
	UnmatchedBorrowers int            `json:"unmatched_borrowers"`
	ByType             map[string]int `json:"by_type"`
}

// Reconcile matches all unmatched legs passing the filters and persists
// the results.
func (s *ReconService) Reconcile(filters storage.TransactionFilters) (*Summary, error) {
	txns, err := s.repo.GetUnmatched(filters)
	if err != nil {
		return nil, fmt.Errorf("failed to load unmatched legs: %w", err)
	}
	return s.run(txns)
}

// ReconcilePair matches the unmatched legs between two companies,
// regardless of which company lends.
func (s *ReconService) ReconcilePair(companyA, companyB string, filters storage.TransactionFilters) (*Summary, error) {
	forward := filters
	forward.Lender, forward.Borrower = companyA, companyB
	reverse := filters
	reverse.Lender, reverse.Borrower = companyB, companyA

	txns, err := s.repo.GetUnmatched(forward)
	if err != nil {
		return nil, fmt.Errorf("failed to load unmatched legs: %w", err)
	}
	more, err := s.repo.GetUnmatched(reverse)
	if err != nil {
		return nil, fmt.Errorf("failed to load unmatched legs: %w", err)
	}
	return s.run(append(txns, more...))
}

func (s *ReconService) run(txns []*storage.Transaction) (*Summary, error) {
	records := make([]matcher.Record, 0, len(txns))
	for _, t := range txns {
		rec := matcher.Record{
			UID:         t.UID,
			Particulars: t.Particulars,
			EnteredBy:   t.EnteredBy,
		}
		if t.Debit.Valid {
			rec.Debit = t.Debit.Decimal
		}
		if t.Credit.Valid {
			rec.Credit = t.Credit.Decimal
		}
		records = append(records, rec)
	}

	result := s.engine.Run(records)

	summary := &Summary{
		Processed:          len(records),
		Matched:            len(result.Matches),
		UnmatchedLenders:   len(result.UnmatchedLenders),
		UnmatchedBorrowers: len(result.UnmatchedBorrowers),
		ByType:             make(map[string]int),
	}

	updates := make([]storage.MatchUpdate, 0, len(result.Matches))
	for _, m := range result.Matches {
		class := matcher.Classify(m.Type)
		auditJSON, err := json.Marshal(matcher.BuildAuditInfo(m))
		if err != nil {
			return nil, fmt.Errorf("failed to serialize audit info for %s: %w", m.LenderUID, err)
		}
		updates = append(updates, storage.MatchUpdate{
			LenderUID:   m.LenderUID,
			BorrowerUID: m.BorrowerUID,
			Status:      class.Status,
			Method:      class.Method,
			AuditJSON:   string(auditJSON),
		})
		summary.ByType[string(m.Type)]++
		if class.AutoAccept {
			summary.AutoAccepted++
		} else {
			summary.NeedsReview++
		}
	}

	if err := s.repo.ApplyMatches(updates); err != nil {
		return nil, fmt.Errorf("failed to persist matches: %w", err)
	}

	s.logger.Info("reconciliation complete",
		"processed", summary.Processed,
		"matched", summary.Matched,
		"auto_accepted", summary.AutoAccepted,
		"needs_review", summary.NeedsReview)
	return summary, nil
}

// UploadLedger parses one ledger export and persists its rows under a
// fresh pair id.
func (s *ReconService) UploadLedger(r io.Reader, filename string) (*storage.Upload, error) {
	return s.uploadWithPairID(r, filename, uuid.NewString())
}

// UploadLedgerPair parses both legs of an intercompany relationship in
// one shot, tying them together with a shared pair id.
func (s *ReconService) UploadLedgerPair(lenderFile, borrowerFile io.Reader, lenderName, borrowerName string) ([]*storage.Upload, error) {
	pairID := uuid.NewString()
	first, err := s.uploadWithPairID(lenderFile, lenderName, pairID)
	if err != nil {
		return nil, err
	}
	second, err := s.uploadWithPairID(borrowerFile, borrowerName, pairID)
	if err != nil {
		return nil, err
	}
	return []*storage.Upload{first, second}, nil
}

func (s *ReconService) uploadWithPairID(r io.Reader, filename, pairID string) (*storage.Upload, error) {
	stmt, err := tally.Parse(r, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	txns := make([]*storage.Transaction, 0, len(stmt.Rows))
	for _, row := range stmt.Rows {
		txns = append(txns, &storage.Transaction{
			UID:            row.UID,
			PairID:         pairID,
			Lender:         row.LenderCompany,
			Borrower:       row.BorrowerCompany,
			StatementMonth: row.StatementMonth,
			StatementYear:  row.StatementYear,
			Role:           row.Role,
			Date:           row.Date.Format("2-Jan-2006"),
			Particulars:    row.Particulars,
			VchType:        row.VchType,
			VchNo:          row.VchNo,
			Debit:          row.Debit,
			Credit:         row.Credit,
			EnteredBy:      row.EnteredBy,
		})
	}
	if err := s.repo.SaveTransactions(txns); err != nil {
		return nil, fmt.Errorf("failed to save transactions from %s: %w", filename, err)
	}

	upload := &storage.Upload{
		ID:           uuid.NewString(),
		Filename:     filename,
		Company:      stmt.Company,
		Counterparty: stmt.Counterparty,
		PeriodFrom:   stmt.PeriodFrom,
		PeriodTo:     stmt.PeriodTo,
		RowCount:     len(stmt.Rows),
	}
	if err := s.repo.SaveUpload(upload); err != nil {
		return nil, fmt.Errorf("failed to record upload %s: %w", filename, err)
	}

	s.logger.Info("ledger ingested",
		"file", filename,
		"company", stmt.Company,
		"counterparty", stmt.Counterparty,
		"rows", len(stmt.Rows))
	return upload, nil
}
