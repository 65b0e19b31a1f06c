package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eliotalders0n/chatlens/internal/parser"
	"github.com/eliotalders0n/chatlens/internal/service"
	"github.com/eliotalders0n/chatlens/pkg/model"
)

// AnalysisHandler implements the analysis API endpoints
type AnalysisHandler struct {
	service *service.AnalysisService
	logger  *zap.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler
func NewAnalysisHandler(service *service.AnalysisService, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		service: service,
		logger:  logger,
	}
}

// CreateAnalysisRequest is the POST /api/v1/analyses body
type CreateAnalysisRequest struct {
	Filename string `json:"filename" binding:"required"`
	Format   string `json:"format" binding:"required"`
	Content  string `json:"content" binding:"required"`
}

// CreateAnalysis runs the pipeline over an uploaded chat export
func (h *AnalysisHandler) CreateAnalysis(c *gin.Context) {
	var req CreateAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	format, ok := parseFormat(req.Format)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "format must be one of plain-export, json, pdf-extracted-text",
		})
		return
	}

	run, err := h.service.Analyze(c.Request.Context(), req.Filename, req.Content, format)
	if err != nil {
		var parseErr *parser.ParseError
		if errors.As(err, &parseErr) {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
				Code:    "PARSE_ERROR",
				Message: "could not parse this file",
				Details: stringPtr(parseErr.Error()),
			})
			return
		}

		h.logger.Error("analysis failed",
			zap.Error(err),
			zap.String("filename", req.Filename),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to analyze chat export",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, run)
}

// GetAnalysis returns a stored run with its full bundle
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	runID := c.Param("id")

	run, err := h.service.GetRun(c.Request.Context(), runID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Code:    "NOT_FOUND",
				Message: "Analysis run not found",
			})
			return
		}

		h.logger.Error("failed to get analysis run", zap.Error(err), zap.String("run_id", runID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to load analysis run",
		})
		return
	}

	c.JSON(http.StatusOK, run)
}

// ListAnalyses returns recent runs without bundles
func (h *AnalysisHandler) ListAnalyses(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Code:    "VALIDATION_ERROR",
				Message: "limit must be a positive integer",
			})
			return
		}
		limit = parsed
	}

	runs, err := h.service.ListRuns(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list analysis runs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to list analysis runs",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func parseFormat(raw string) (model.ChatFormat, bool) {
	switch model.ChatFormat(raw) {
	case model.ChatFormatPlain, model.ChatFormatJSON, model.ChatFormatPDF:
		return model.ChatFormat(raw), true
	default:
		return "", false
	}
}
