package storage

import (
	"context"
	"io"
)

// BlobStorage defines the interface for archival operations
// This interface allows for easier testing with mock implementations
type BlobStorage interface {
	UploadExport(ctx context.Context, runID string, content io.Reader) (string, error)
	UploadReport(ctx context.Context, filename string, data []byte) (string, error)
	DownloadReport(ctx context.Context, blobName string) ([]byte, error)
}

// Ensure BlobClient implements BlobStorage interface
var _ BlobStorage = (*BlobClient)(nil)
