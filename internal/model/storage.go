package model

import (
	"context"
	"io"
)

// BackupStorage persists encrypted vault snapshots in object storage.
type BackupStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
}
