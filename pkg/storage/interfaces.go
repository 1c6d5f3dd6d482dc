package storage

import (
	"context"
	"io"
)

type StorageService interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) // returns public URL
	Delete(ctx context.Context, key string) error
}

type ImageService interface {
	Upload(ctx context.Context, filename string, reader io.Reader) (string, []string, error) // returns imageID, variant URLs, error
	Delete(ctx context.Context, imageID string) error
	GetThumbnailURL(imageID string) string
}
