package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Driver names accepted by New.
const (
	DriverMinIO = "minio"
	DriverS3    = "s3"
)

// ErrUnknownDriver is returned by the factory for an unrecognized driver
// name.
var ErrUnknownDriver = errors.New("storage: unknown driver")

// FactoryConfig gathers the per-driver settings so the caller can pick a
// driver from configuration alone.
type FactoryConfig struct {
	MinIO MinIOConfig
	S3    S3Config
}

// New constructs the Blob for the named driver.
func New(ctx context.Context, driver string, cfg FactoryConfig) (Blob, error) {
	switch strings.ToLower(driver) {
	case DriverMinIO:
		return NewMinIO(ctx, cfg.MinIO)
	case DriverS3:
		return NewS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
