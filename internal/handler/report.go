package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eliotalders0n/chatlens/internal/service"
)

// ReportHandler implements the report API endpoints
type ReportHandler struct {
	service *service.ReportService
	logger  *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(service *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger,
	}
}

// GenerateReport renders a PDF report for a stored run and streams it back
func (h *ReportHandler) GenerateReport(c *gin.Context) {
	runID := c.Param("id")

	report, data, err := h.service.GenerateReport(c.Request.Context(), runID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Code:    "NOT_FOUND",
				Message: "Analysis run not found",
			})
			return
		}

		h.logger.Error("failed to generate report",
			zap.Error(err),
			zap.String("run_id", runID),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to generate report",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.Header("X-Report-ID", report.ID)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, report.ID))
	c.Data(http.StatusOK, "application/pdf", data)
}
