// Package storage provides object storage implementations for uploaded
// attachments such as chat files and review photos.
package storage

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/agoramall/backend/internal/infrastructure/config"
)

// ObjectStorage abstracts the object store used for attachment files.
// Uploads happen browser-side against presigned URLs; the backend only
// issues URLs and verifies the object afterwards.
type ObjectStorage interface {
	// GenerateUploadURL returns a presigned PUT URL and its expiry.
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL returns a presigned GET URL and its expiry.
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject removes an object from storage.
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists reports whether an object is present in storage.
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// New builds the ObjectStorage selected by cfg.Provider. Unknown providers
// fall back to the stub so a misconfigured dev environment still boots.
func New(cfg *config.StorageConfig, logger *zap.Logger) (ObjectStorage, error) {
	if cfg == nil || cfg.Provider != "s3" {
		return NewStubObjectStorage(), nil
	}
	return NewS3ObjectStorage(cfg, WithLogger(logger))
}
