package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"go.uber.org/zap"
)

// BlobClient wraps Azure Blob Storage for raw-export and report archival
type BlobClient struct {
	client          *azblob.Client
	exportContainer string
	reportContainer string
	logger          *zap.Logger
}

// NewBlobClient creates a new Azure Blob Storage client
func NewBlobClient(accountName, accountKey, exportContainer, reportContainer string, logger *zap.Logger) (*BlobClient, error) {
	if accountName == "" || accountKey == "" || exportContainer == "" || reportContainer == "" {
		return nil, fmt.Errorf("accountName, accountKey, and container names are required")
	}

	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", accountName)

	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create shared key credential: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	return &BlobClient{
		client:          client,
		exportContainer: exportContainer,
		reportContainer: reportContainer,
		logger:          logger,
	}, nil
}

// UploadExport archives a raw chat export under the analysis run's ID
func (c *BlobClient) UploadExport(ctx context.Context, runID string, content io.Reader) (string, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return "", fmt.Errorf("failed to read export content: %w", err)
	}

	blobName := fmt.Sprintf("exports/%s.txt", runID)
	c.logger.Info("uploading raw export to blob storage",
		zap.String("blob_name", blobName),
		zap.Int("size_bytes", len(data)),
	)

	blobClient := c.client.ServiceClient().NewContainerClient(c.exportContainer).NewBlockBlobClient(blobName)
	_, err = blobClient.UploadBuffer(ctx, data, &azblob.UploadBufferOptions{
		Metadata: map[string]*string{
			"contenttype": toPtr("text/plain"),
		},
	})
	if err != nil {
		c.logger.Error("failed to upload export",
			zap.String("blob_name", blobName),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to upload export: %w", err)
	}

	return blobName, nil
}

// UploadReport stores a rendered PDF report
func (c *BlobClient) UploadReport(ctx context.Context, filename string, data []byte) (string, error) {
	blobName := fmt.Sprintf("reports/%s", filename)
	c.logger.Info("uploading report to blob storage",
		zap.String("blob_name", blobName),
		zap.Int("size_bytes", len(data)),
	)

	blobClient := c.client.ServiceClient().NewContainerClient(c.reportContainer).NewBlockBlobClient(blobName)
	_, err := blobClient.UploadBuffer(ctx, data, &azblob.UploadBufferOptions{
		Metadata: map[string]*string{
			"contenttype": toPtr("application/pdf"),
		},
	})
	if err != nil {
		c.logger.Error("failed to upload report",
			zap.String("blob_name", blobName),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to upload report: %w", err)
	}

	return blobName, nil
}

// DownloadReport fetches a previously stored PDF report
func (c *BlobClient) DownloadReport(ctx context.Context, blobName string) ([]byte, error) {
	c.logger.Info("downloading report from blob storage",
		zap.String("blob_name", blobName),
	)

	blobClient := c.client.ServiceClient().NewContainerClient(c.reportContainer).NewBlockBlobClient(blobName)
	downloadResponse, err := blobClient.DownloadStream(ctx, nil)
	if err != nil {
		c.logger.Error("failed to download report",
			zap.String("blob_name", blobName),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to download report: %w", err)
	}
	defer downloadResponse.Body.Close()

	data, err := io.ReadAll(downloadResponse.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read report data: %w", err)
	}

	return data, nil
}

func toPtr(s string) *string {
	return &s
}
