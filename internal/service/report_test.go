package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/eliotalders0n/chatlens/internal/pdf"
	"github.com/eliotalders0n/chatlens/internal/storage"
	"github.com/eliotalders0n/chatlens/pkg/model"
)

func storedRun() *model.AnalysisRun {
	start := time.Date(2021, 6, 1, 9, 0, 0, 0, time.UTC)
	return &model.AnalysisRun{
		ID:       "run-1",
		Filename: "chat.txt",
		Format:   model.ChatFormatPlain,
		Bundle: &model.AnalysisBundle{
			Metadata: model.ChatMetadata{
				Participants:  []string{"Asha", "Ben"},
				TotalMessages: 4,
				StartDate:     start,
				EndDate:       start.AddDate(0, 0, 1),
			},
			Gamification: model.GamificationBundle{
				RelationshipLevel:  model.RelationshipLevel{Level: 4, Title: "Regular Contacts"},
				CompatibilityScore: model.CompatibilityScore{Score: 60, Tier: "Good Match"},
			},
		},
		CreatedAt: start,
	}
}

func TestGenerateReport_ArchivesAndRecords(t *testing.T) {
	// Arrange
	store := new(MockAnalysisStore)
	store.On("GetRun", mock.Anything, "run-1").Return(storedRun(), nil)
	store.On("CreateReport", mock.Anything, mock.Anything).Return(nil)
	blob := storage.NewMockBlobClient(zap.NewNop())
	svc := NewReportService(store, pdf.NewPDFGenerator(zap.NewNop()), blob, zap.NewNop())

	// Act
	report, data, err := svc.GenerateReport(context.Background(), "run-1")

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "run-1", report.RunID)
	assert.Equal(t, fmt.Sprintf("reports/%s.pdf", report.ID), report.BlobPath)
	assert.Equal(t, "%PDF", string(data[:4]))
	store.AssertExpectations(t)
}

func TestGenerateReport_WithoutBlobStorage(t *testing.T) {
	// Arrange: no archival configured, report still returned inline
	store := new(MockAnalysisStore)
	store.On("GetRun", mock.Anything, "run-1").Return(storedRun(), nil)
	svc := NewReportService(store, pdf.NewPDFGenerator(zap.NewNop()), nil, zap.NewNop())

	// Act
	report, data, err := svc.GenerateReport(context.Background(), "run-1")

	// Assert
	assert.NoError(t, err)
	assert.Empty(t, report.BlobPath)
	assert.NotEmpty(t, data)
	store.AssertNotCalled(t, "CreateReport", mock.Anything, mock.Anything)
}

func TestGenerateReport_MissingRun(t *testing.T) {
	// Arrange
	store := new(MockAnalysisStore)
	store.On("GetRun", mock.Anything, "nope").Return(nil, fmt.Errorf("analysis run not found: nope"))
	svc := NewReportService(store, pdf.NewPDFGenerator(zap.NewNop()), nil, zap.NewNop())

	// Act
	_, _, err := svc.GenerateReport(context.Background(), "nope")

	// Assert
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
