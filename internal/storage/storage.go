package storage

import (
	"context"
	"io"
)

type Store interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (storedPath string, err error)
	Download(ctx context.Context, objectName string) ([]byte, error)
}
