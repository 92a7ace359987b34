package main

import (
	"context"
	"fmt"

	"github.com/chirp/social-api/internal/core/ports"
	"github.com/chirp/social-api/internal/infrastructure/config"
	"github.com/chirp/social-api/internal/infrastructure/objectstore"
)

// newObjectStore selects the image backend named by cfg.Backend.
func newObjectStore(ctx context.Context, cfg config.StorageConfig) (ports.ObjectStore, error) {
	switch cfg.Backend {
	case config.StorageS3:
		store, err := objectstore.NewS3Store(ctx, objectstore.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StorageFilesystem:
		store, err := objectstore.NewFileStore(cfg.FSRoot, cfg.FSPublicURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
