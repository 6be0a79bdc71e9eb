package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"interunit-recon-backend/internal/api/dto"
	"interunit-recon-backend/internal/infrastructure/export"
	"interunit-recon-backend/internal/infrastructure/storage"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler streams reconciliation results as Excel workbooks.
type ExportHandler struct {
	*Base
	exporter *export.Exporter
}

// NewExportHandler creates a new export handler.
func NewExportHandler(repo storage.Repository, exporter *export.Exporter) *ExportHandler {
	return &ExportHandler{
		Base:     NewBase(repo),
		exporter: exporter,
	}
}

// Matched handles GET /api/export/matched - downloads matched pairs as xlsx.
func (h *ExportHandler) Matched(c *gin.Context) {
	filters := filtersFromQuery(c)
	filters.Limit = 0

	pairs, err := h.repo.GetMatchedPairs(c.Query("status"), filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	workbook, err := h.exporter.MatchedWorkbook(pairs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	h.writeWorkbook(c, workbook, export.Filename("matched"))
}

// Unmatched handles GET /api/export/unmatched - downloads the unmatched
// pool as xlsx.
func (h *ExportHandler) Unmatched(c *gin.Context) {
	filters := filtersFromQuery(c)
	filters.Limit = 0

	txns, err := h.repo.GetUnmatched(filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	workbook, err := h.exporter.UnmatchedWorkbook(txns)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	h.writeWorkbook(c, workbook, export.Filename("unmatched"))
}

func (h *ExportHandler) writeWorkbook(c *gin.Context, workbook *excelize.File, filename string) {
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := workbook.Write(c.Writer); err != nil {
		// Headers are already sent, nothing left to do but abort.
		_ = c.Error(err)
	}
}
