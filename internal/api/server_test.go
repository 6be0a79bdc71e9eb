package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"interunit-recon-backend/internal/api"
	"interunit-recon-backend/internal/api/dto"
	"interunit-recon-backend/internal/application/service"
	"interunit-recon-backend/internal/domain/bankdir"
	"interunit-recon-backend/internal/domain/matcher"
	"interunit-recon-backend/internal/infrastructure/export"
	"interunit-recon-backend/internal/infrastructure/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) (*api.Server, *storage.MockRepository) {
	t.Helper()
	repo := storage.NewMockRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	banks := bankdir.New()
	recon := service.NewReconService(repo, matcher.NewEngine(banks), logger)
	exporter := export.NewExporter(banks)
	server := api.NewServer(api.DefaultConfig(), repo, recon, exporter, logger)
	return server, repo
}

func doRequest(server *api.Server, method, path string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	return rec
}

func seedMatchablePair(t *testing.T, repo *storage.MockRepository) {
	t.Helper()
	amount := decimal.NewNullDecimal(decimal.RequireFromString("500000"))
	err := repo.SaveTransactions([]*storage.Transaction{
		{
			UID:            "L1",
			PairID:         "pair-1",
			Lender:         "Chorka Textile Ltd",
			Borrower:       "GeoTex",
			StatementMonth: "April",
			StatementYear:  2024,
			Role:           "Lender",
			Date:           "1-Apr-2024",
			Particulars:    "Payment against GTL/PO/2024/1157 for fabric supply",
			Debit:          amount,
			MatchStatus:    "unmatched",
		},
		{
			UID:            "B1",
			PairID:         "pair-1",
			Lender:         "Chorka Textile Ltd",
			Borrower:       "GeoTex",
			StatementMonth: "April",
			StatementYear:  2024,
			Role:           "Borrower",
			Date:           "2-Apr-2024",
			Particulars:    "Received against GTL/PO/2024/1157 fabric supply",
			Credit:         amount,
			MatchStatus:    "unmatched",
		},
	})
	require.NoError(t, err)
	repo.SaveTransactionsCalled = false
}

func TestServer_HealthEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doRequest(server, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.HealthResponse
	err := json.NewDecoder(rec.Body).Decode(&response)
	require.NoError(t, err)
	assert.Equal(t, "ok", response.Status)
}

func TestServer_TransactionsEndpoints(t *testing.T) {
	t.Run("GET /api/transactions returns transactions", func(t *testing.T) {
		server, repo := newTestServer(t)
		seedMatchablePair(t, repo)

		rec := doRequest(server, http.MethodGet, "/api/transactions", nil)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.TransactionListResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)
		require.Equal(t, 2, response.Count)
		assert.Equal(t, "B1", response.Transactions[0].UID)
		assert.Equal(t, "500000", response.Transactions[0].Credit)
		assert.Equal(t, "500000", response.Transactions[1].Debit)
	})

	t.Run("GET /api/transactions filters by role", func(t *testing.T) {
		server, repo := newTestServer(t)
		seedMatchablePair(t, repo)

		rec := doRequest(server, http.MethodGet, "/api/transactions?role=Borrower", nil)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.TransactionListResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)
		require.Equal(t, 1, response.Count)
		assert.Equal(t, "B1", response.Transactions[0].UID)
	})

	t.Run("GET /api/transactions/unmatched excludes matched legs", func(t *testing.T) {
		server, repo := newTestServer(t)
		seedMatchablePair(t, repo)

		rec := doRequest(server, http.MethodPost, "/api/reconcile", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(server, http.MethodGet, "/api/transactions/unmatched", nil)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.TransactionListResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)
		assert.Equal(t, 0, response.Count)
	})

	t.Run("GET /api/filters returns distinct values", func(t *testing.T) {
		server, repo := newTestServer(t)
		seedMatchablePair(t, repo)

		rec := doRequest(server, http.MethodGet, "/api/filters", nil)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.FilterValuesResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)
		assert.Contains(t, response.Lenders, "Chorka Textile Ltd")
		assert.Contains(t, response.Months, "April")
		assert.Contains(t, response.Years, 2024)
	})

	t.Run("GET /api/company-pairs returns pairings", func(t *testing.T) {
		server, repo := newTestServer(t)
		seedMatchablePair(t, repo)

		rec := doRequest(server, http.MethodGet, "/api/company-pairs", nil)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response []dto.CompanyPairResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)
		require.Len(t, response, 1)
		assert.Equal(t, 2, response[0].TransactionCount)
	})

	t.Run("GET /api/transactions maps repository errors", func(t *testing.T) {
		server, repo := newTestServer(t)
		repo.GetTransactionsErr = assert.AnError

		rec := doRequest(server, http.MethodGet, "/api/transactions", nil)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		var response dto.APIError
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)
		assert.Equal(t, dto.ErrCodeInternalError, response.Code)
	})
}

func TestServer_ReconcileEndpoints(t *testing.T) {
	t.Run("POST /api/reconcile matches the seeded pair", func(t *testing.T) {
		server, repo := newTestServer(t)
		seedMatchablePair(t, repo)

		rec := doRequest(server, http.MethodPost, "/api/reconcile", nil)

		assert.Equal(t, http.StatusOK, rec.Code)

		var summary service.Summary
		err := json.NewDecoder(rec.Body).Decode(&summary)
		require.NoError(t, err)
		assert.Equal(t, 2, summary.Processed)
		assert.Equal(t, 1, summary.Matched)
		assert.Equal(t, 1, summary.ByType["PO"])
		assert.True(t, repo.ApplyMatchesCalled)
	})

	t.Run("POST /api/reconcile accepts a scope body", func(t *testing.T) {
		server, repo := newTestServer(t)
		seedMatchablePair(t, repo)

		body := strings.NewReader(`{"lender": "Someone Else Ltd"}`)
		rec := doRequest(server, http.MethodPost, "/api/reconcile", body)

		assert.Equal(t, http.StatusOK, rec.Code)

		var summary service.Summary
		err := json.NewDecoder(rec.Body).Decode(&summary)
		require.NoError(t, err)
		assert.Equal(t, 0, summary.Processed)
	})

	t.Run("POST /api/reconcile rejects malformed JSON", func(t *testing.T) {
		server, _ := newTestServer(t)

		rec := doRequest(server, http.MethodPost, "/api/reconcile", strings.NewReader("{bad"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("POST /api/reconcile/pair requires both companies", func(t *testing.T) {
		server, _ := newTestServer(t)

		rec := doRequest(server, http.MethodPost, "/api/reconcile/pair", strings.NewReader(`{"company_a": "Chorka Textile Ltd"}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var response dto.APIError
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)
		assert.Equal(t, dto.ErrCodeValidation, response.Code)
	})

	t.Run("POST /api/reconcile/pair matches both directions", func(t *testing.T) {
		server, repo := newTestServer(t)
		seedMatchablePair(t, repo)

		body := strings.NewReader(`{"company_a": "Chorka Textile Ltd", "company_b": "GeoTex"}`)
		rec := doRequest(server, http.MethodPost, "/api/reconcile/pair", body)

		assert.Equal(t, http.StatusOK, rec.Code)

		var summary service.Summary
		err := json.NewDecoder(rec.Body).Decode(&summary)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Matched)
	})
}

func TestServer_MatchesEndpoints(t *testing.T) {
	reconciled := func(t *testing.T) (*api.Server, *storage.MockRepository) {
		t.Helper()
		server, repo := newTestServer(t)
		seedMatchablePair(t, repo)
		rec := doRequest(server, http.MethodPost, "/api/reconcile", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		return server, repo
	}

	t.Run("GET /api/matches returns matched pairs", func(t *testing.T) {
		server, _ := reconciled(t)

		rec := doRequest(server, http.MethodGet, "/api/matches", nil)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.MatchedPairListResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)
		require.Equal(t, 1, response.Count)
		pair := response.Pairs[0]
		assert.Equal(t, "L1", pair.Lender.UID)
		assert.Equal(t, "B1", pair.BorrowerUID)
		assert.Equal(t, "500000", pair.Amount)
		assert.Equal(t, "reference_match", pair.MatchMethod)
	})

	t.Run("GET /api/matches/confirmed includes auto-accepted pairs", func(t *testing.T) {
		server, _ := reconciled(t)

		rec := doRequest(server, http.MethodGet, "/api/matches/confirmed", nil)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.MatchedPairListResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)
		assert.Equal(t, 1, response.Count)
	})

	t.Run("GET /api/matches/pending is empty for reference matches", func(t *testing.T) {
		server, _ := reconciled(t)

		rec := doRequest(server, http.MethodGet, "/api/matches/pending", nil)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.MatchedPairListResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)
		assert.Equal(t, 0, response.Count)
	})

	t.Run("POST /api/matches/:uid/accept confirms the pair", func(t *testing.T) {
		server, repo := reconciled(t)

		rec := doRequest(server, http.MethodPost, "/api/matches/L1/accept", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, repo.AcceptMatchCalled)

		var response dto.MatchActionResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)
		assert.Equal(t, "L1", response.UID)
		assert.Equal(t, "confirmed", response.Status)
	})

	t.Run("POST /api/matches/:uid/reject returns legs to the pool", func(t *testing.T) {
		server, repo := reconciled(t)

		rec := doRequest(server, http.MethodPost, "/api/matches/L1/reject", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, repo.RejectMatchCalled)

		stats, err := repo.GetStats()
		require.NoError(t, err)
		assert.Equal(t, 2, stats.Unmatched)
	})

	t.Run("accept of unknown uid returns 404", func(t *testing.T) {
		server, _ := reconciled(t)

		rec := doRequest(server, http.MethodPost, "/api/matches/NOPE/accept", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)

		var response dto.APIError
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)
		assert.Equal(t, dto.ErrCodeNotFound, response.Code)
	})

	t.Run("accept of unmatched leg returns 409", func(t *testing.T) {
		server, repo := newTestServer(t)
		seedMatchablePair(t, repo)

		rec := doRequest(server, http.MethodPost, "/api/matches/L1/accept", nil)

		assert.Equal(t, http.StatusConflict, rec.Code)

		var response dto.APIError
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)
		assert.Equal(t, dto.ErrCodeConflict, response.Code)
	})

	t.Run("POST /api/matches/reset clears matches", func(t *testing.T) {
		server, _ := reconciled(t)

		rec := doRequest(server, http.MethodPost, "/api/matches/reset", nil)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.ResetResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)
		assert.Equal(t, int64(2), response.ResetCount)
	})
}

func TestServer_StatsEndpoint(t *testing.T) {
	server, repo := newTestServer(t)
	seedMatchablePair(t, repo)
	rec := doRequest(server, http.MethodPost, "/api/reconcile", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(server, http.MethodGet, "/api/stats", nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.StatsResponse
	err := json.NewDecoder(rec.Body).Decode(&response)
	require.NoError(t, err)
	assert.Equal(t, 2, response.TotalTransactions)
	assert.Equal(t, 2, response.Confirmed)
	assert.Equal(t, "500000", response.MatchedAmount)
}

func TestServer_UploadEndpoints(t *testing.T) {
	ledgerCSV := "Chorka Textile Ltd - Inter Unit Loan A/C-Geo,,,,,\n" +
		"Date,Particulars,Vch Type,Vch No.,Debit,Credit\n" +
		"1-Apr-2024,Payment against GTL/PO/2024/1157,Payment,123,500000.00,\n"

	multipartBody := func(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
		t.Helper()
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		for field, content := range fields {
			part, err := writer.CreateFormFile(field, field+".csv")
			require.NoError(t, err)
			_, err = part.Write([]byte(content))
			require.NoError(t, err)
		}
		require.NoError(t, writer.Close())
		return &buf, writer.FormDataContentType()
	}

	t.Run("POST /api/uploads ingests a ledger file", func(t *testing.T) {
		server, repo := newTestServer(t)
		body, contentType := multipartBody(t, map[string]string{"file": ledgerCSV})

		req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		server.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.True(t, repo.SaveTransactionsCalled)

		var response dto.UploadResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)
		assert.Equal(t, "Chorka Textile Ltd", response.Company)
		assert.Equal(t, "GeoTex", response.Counterparty)
		assert.Equal(t, 1, response.RowCount)
	})

	t.Run("POST /api/uploads without file returns 400", func(t *testing.T) {
		server, _ := newTestServer(t)
		body, contentType := multipartBody(t, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		server.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("POST /api/uploads with unparseable ledger returns 422", func(t *testing.T) {
		server, repo := newTestServer(t)
		body, contentType := multipartBody(t, map[string]string{"file": "no header here"})

		req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		server.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.False(t, repo.SaveTransactionsCalled)
	})

	t.Run("POST /api/uploads/pair ingests both legs", func(t *testing.T) {
		borrowerCSV := "GeoTex - Inter Unit Loan A/C-Chorka,,,,,\n" +
			"Date,Particulars,Vch Type,Vch No.,Debit,Credit\n" +
			"2-Apr-2024,Received against GTL/PO/2024/1157,Receipt,456,,500000.00\n"

		server, _ := newTestServer(t)
		body, contentType := multipartBody(t, map[string]string{
			"lender_file":   ledgerCSV,
			"borrower_file": borrowerCSV,
		})

		req := httptest.NewRequest(http.MethodPost, "/api/uploads/pair", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		server.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)

		var response dto.UploadListResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)
		assert.Equal(t, 2, response.Count)
	})

	t.Run("GET /api/uploads/recent lists uploads", func(t *testing.T) {
		server, repo := newTestServer(t)
		require.NoError(t, repo.SaveUpload(&storage.Upload{ID: "u1", Filename: "chorka.csv", RowCount: 3}))

		rec := doRequest(server, http.MethodGet, "/api/uploads/recent", nil)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.UploadListResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)
		require.Equal(t, 1, response.Count)
		assert.Equal(t, "chorka.csv", response.Uploads[0].Filename)
	})
}

func TestServer_ExportEndpoints(t *testing.T) {
	t.Run("GET /api/export/matched streams a workbook", func(t *testing.T) {
		server, repo := newTestServer(t)
		seedMatchablePair(t, repo)
		rec := doRequest(server, http.MethodPost, "/api/reconcile", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(server, http.MethodGet, "/api/export/matched", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "matched_")

		workbook, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err)
		rows, err := workbook.GetRows("Matched")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "L1", rows[1][0])
	})

	t.Run("GET /api/export/unmatched streams the unmatched pool", func(t *testing.T) {
		server, repo := newTestServer(t)
		seedMatchablePair(t, repo)

		rec := doRequest(server, http.MethodGet, "/api/export/unmatched", nil)

		assert.Equal(t, http.StatusOK, rec.Code)

		workbook, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err)
		rows, err := workbook.GetRows("Unmatched")
		require.NoError(t, err)
		assert.Len(t, rows, 3)
	})
}
