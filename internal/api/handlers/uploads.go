package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"interunit-recon-backend/internal/api/dto"
	"interunit-recon-backend/internal/application/service"
	"interunit-recon-backend/internal/infrastructure/storage"
)

// UploadsHandler handles ledger file ingestion.
type UploadsHandler struct {
	*Base
	recon *service.ReconService
}

// NewUploadsHandler creates a new uploads handler.
func NewUploadsHandler(repo storage.Repository, recon *service.ReconService) *UploadsHandler {
	return &UploadsHandler{
		Base:  NewBase(repo),
		recon: recon,
	}
}

// Upload handles POST /api/uploads - ingests a single ledger file.
func (h *UploadsHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("could not read uploaded file"))
		return
	}
	defer func() { _ = file.Close() }()

	upload, err := h.recon.UploadLedger(file, fileHeader.Filename)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, dto.ValidationError(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, toUploadResponse(upload))
}

// UploadPair handles POST /api/uploads/pair - ingests both legs of a
// company pair in one request so their transactions share a pair ID.
func (h *UploadsHandler) UploadPair(c *gin.Context) {
	lenderHeader, err := c.FormFile("lender_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("lender_file is required"))
		return
	}

	borrowerHeader, err := c.FormFile("borrower_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("borrower_file is required"))
		return
	}

	lenderFile, err := lenderHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("could not read lender file"))
		return
	}
	defer func() { _ = lenderFile.Close() }()

	borrowerFile, err := borrowerHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("could not read borrower file"))
		return
	}
	defer func() { _ = borrowerFile.Close() }()

	uploads, err := h.recon.UploadLedgerPair(lenderFile, borrowerFile, lenderHeader.Filename, borrowerHeader.Filename)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, dto.ValidationError(err.Error()))
		return
	}

	response := dto.UploadListResponse{
		Uploads: make([]dto.UploadResponse, 0, len(uploads)),
		Count:   len(uploads),
	}
	for _, upload := range uploads {
		response.Uploads = append(response.Uploads, toUploadResponse(upload))
	}

	c.JSON(http.StatusCreated, response)
}

// Recent handles GET /api/uploads/recent - lists recent uploads.
func (h *UploadsHandler) Recent(c *gin.Context) {
	limit := IntQuery(c, "limit", 20)

	uploads, err := h.repo.ListUploads(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.UploadListResponse{
		Uploads: make([]dto.UploadResponse, 0, len(uploads)),
		Count:   len(uploads),
	}
	for i := range uploads {
		response.Uploads = append(response.Uploads, toUploadResponse(&uploads[i]))
	}

	c.JSON(http.StatusOK, response)
}

func toUploadResponse(upload *storage.Upload) dto.UploadResponse {
	return dto.UploadResponse{
		ID:           upload.ID,
		Filename:     upload.Filename,
		Company:      upload.Company,
		Counterparty: upload.Counterparty,
		PeriodFrom:   upload.PeriodFrom,
		PeriodTo:     upload.PeriodTo,
		RowCount:     upload.RowCount,
		UploadedAt:   upload.UploadedAt,
	}
}
