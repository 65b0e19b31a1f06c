package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eliotalders0n/chatlens/internal/pdf"
	"github.com/eliotalders0n/chatlens/internal/storage"
	"github.com/eliotalders0n/chatlens/pkg/model"
)

// ReportService renders PDF reports for stored analysis runs
type ReportService struct {
	store      AnalysisStore
	generator  *pdf.PDFGenerator
	blobClient storage.BlobStorage
	logger     *zap.Logger
	now        func() time.Time
}

// NewReportService creates a new ReportService. blobClient is optional;
// without it reports are returned inline and not archived.
func NewReportService(store AnalysisStore, generator *pdf.PDFGenerator, blobClient storage.BlobStorage, logger *zap.Logger) *ReportService {
	return &ReportService{
		store:      store,
		generator:  generator,
		blobClient: blobClient,
		logger:     logger,
		now:        time.Now,
	}
}

// GenerateReport renders a PDF for the given run, archives it when blob
// storage is configured, and returns the report record with the bytes.
func (s *ReportService) GenerateReport(ctx context.Context, runID string) (*model.Report, []byte, error) {
	run, err := s.store.GetRun(ctx, runID)
	if err != nil {
		return nil, nil, err
	}

	data, err := s.generator.Generate(run)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to render report: %w", err)
	}

	report := &model.Report{
		ID:          uuid.New().String(),
		RunID:       run.ID,
		GeneratedAt: s.now(),
	}

	if s.blobClient != nil {
		blobPath, err := s.blobClient.UploadReport(ctx, fmt.Sprintf("%s.pdf", report.ID), data)
		if err != nil {
			s.logger.Warn("failed to archive report", zap.Error(err), zap.String("run_id", run.ID))
		} else {
			report.BlobPath = blobPath
			if err := s.store.CreateReport(ctx, report); err != nil {
				s.logger.Warn("failed to record report", zap.Error(err), zap.String("run_id", run.ID))
			}
		}
	}

	s.logger.Info("report generated",
		zap.String("run_id", run.ID),
		zap.String("report_id", report.ID),
		zap.Int("size_bytes", len(data)),
	)

	return report, data, nil
}
