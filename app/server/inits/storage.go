package inits

import (
	"context"
	"fmt"
	"recipe-app-api/app/server/config"
	"recipe-app-api/app/server/storage"
)

func Storage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage.Driver {
	case "s3":
		s, err := storage.NewS3Storage(ctx, storage.S3Options{
			Bucket:    cfg.Storage.S3Bucket,
			Region:    cfg.Storage.S3Region,
			Endpoint:  cfg.Storage.S3Endpoint,
			AccessKey: cfg.Storage.S3AccessKey,
			SecretKey: cfg.Storage.S3SecretKey,
			PublicURL: cfg.Storage.S3PublicURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to init s3 storage: %w", err)
		}
		return s, nil
	default:
		s, err := storage.NewLocalStorage(cfg.Storage.MediaRoot, cfg.Storage.MediaURL)
		if err != nil {
			return nil, fmt.Errorf("failed to init local storage: %w", err)
		}
		return s, nil
	}
}
