package handler

import (
	"mime"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lastikpazari/backend/internal/application/report"
	domainreport "github.com/lastikpazari/backend/internal/domain/report"
	"github.com/lastikpazari/backend/internal/interfaces/http/dto"
)

// ExportURLHeader carries the presigned archive link of a generated document
const ExportURLHeader = "X-Export-URL"

// ExportHandler serves the tire analysis document downloads
type ExportHandler struct {
	BaseHandler
	exportService *report.ExportService
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(exportService *report.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// ExportExcel godoc
// @Summary      Export analysis as Excel
// @Tags         exports
// @Accept       json
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        request body domainreport.Analysis true "Analysis data"
// @Success      200 {file} file
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /exports/excel [post]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	h.export(c, report.FormatExcel)
}

// ExportWord godoc
// @Summary      Export analysis as Word
// @Tags         exports
// @Accept       json
// @Produce      application/vnd.openxmlformats-officedocument.wordprocessingml.document
// @Param        request body domainreport.Analysis true "Analysis data"
// @Success      200 {file} file
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /exports/word [post]
func (h *ExportHandler) ExportWord(c *gin.Context) {
	h.export(c, report.FormatWord)
}

func (h *ExportHandler) export(c *gin.Context, format report.Format) {
	var analysis domainreport.Analysis
	if err := c.ShouldBindJSON(&analysis); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Analysis payload is not valid JSON")
		return
	}

	doc, err := h.exportService.Export(c.Request.Context(), &analysis, format)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", contentDisposition("attachment", doc.Filename))
	if doc.URL != "" {
		c.Header(ExportURLHeader, doc.URL)
		c.Header("X-Export-Expires-At", doc.ExpiresAt.UTC().Format(time.RFC3339))
	}
	c.Data(http.StatusOK, doc.ContentType, doc.Content)
}

// contentDisposition builds a Content-Disposition header value with a quoted filename
func contentDisposition(disposition, filename string) string {
	return mime.FormatMediaType(disposition, map[string]string{"filename": filename})
}
