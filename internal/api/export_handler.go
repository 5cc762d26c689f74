package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/koek1/budget-app/internal/core"
	"github.com/koek1/budget-app/internal/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler serves report previews and spreadsheet downloads.
type ExportHandler struct {
	exportService core.ExportService
	logger        *zap.Logger
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(es core.ExportService, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{exportService: es, logger: logger}
}

func (h *ExportHandler) period(c *gin.Context, req models.ReportRequest) (core.ReportPeriod, bool) {
	period, err := core.ParseReportPeriod(req)
	if err != nil {
		if errors.Is(err, core.ErrInvalidReportPeriod) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Start date and end date are required", Details: err.Error()})
			return core.ReportPeriod{}, false
		}
		h.logger.Error("Report period parsing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Server error"})
		return core.ReportPeriod{}, false
	}
	return period, true
}

// Excel handles POST /api/export/excel
func (h *ExportHandler) Excel(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req models.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	period, ok := h.period(c, req)
	if !ok {
		return
	}

	data, err := h.exportService.Workbook(c.Request.Context(), userID, period)
	if err != nil {
		h.logger.Error("Export failed", zap.String("userID", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Error generating report"})
		return
	}

	filename := fmt.Sprintf("budget-report-%d.xlsx", time.Now().UnixMilli())
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// Summary handles GET /api/export/summary
func (h *ExportHandler) Summary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req models.ReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters", Details: err.Error()})
		return
	}
	period, ok := h.period(c, req)
	if !ok {
		return
	}

	summary, err := h.exportService.Summary(c.Request.Context(), userID, period)
	if err != nil {
		h.logger.Error("Summary failed", zap.String("userID", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Error generating summary"})
		return
	}
	c.JSON(http.StatusOK, summary)
}
