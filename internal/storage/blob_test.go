package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMockBlobClient_ExportRoundTrip(t *testing.T) {
	// Arrange
	mock := NewMockBlobClient(zap.NewNop())

	// Act
	name, err := mock.UploadExport(context.Background(), "run-1", strings.NewReader("01/02/21, 10:00 - A: hi"))

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "exports/run-1.txt", name)
	assert.Equal(t, []string{"exports/run-1.txt"}, mock.ListBlobs())
}

func TestMockBlobClient_ReportRoundTrip(t *testing.T) {
	// Arrange
	mock := NewMockBlobClient(zap.NewNop())
	payload := []byte("%PDF-1.4 fake")

	// Act
	name, err := mock.UploadReport(context.Background(), "run-1.pdf", payload)
	assert.NoError(t, err)
	data, err := mock.DownloadReport(context.Background(), name)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestMockBlobClient_MissingBlob(t *testing.T) {
	mock := NewMockBlobClient(zap.NewNop())

	_, err := mock.DownloadReport(context.Background(), "reports/nope.pdf")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "blob not found")
}

func TestNewBlobClient_RequiresCredentials(t *testing.T) {
	_, err := NewBlobClient("", "", "exports", "reports", zap.NewNop())

	assert.Error(t, err)
}
