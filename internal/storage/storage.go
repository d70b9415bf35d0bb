package storage

import (
	"context"
	"io"
	"time"
)

// SnapshotInfo describes one stored contact snapshot object.
type SnapshotInfo struct {
	Key          string
	Size         int64
	LastModified *time.Time
}

// Service stores contact snapshots in remote object storage.
type Service interface {
	PutSnapshot(ctx context.Context, bucket, key string, body io.Reader) (string, error)
	ListSnapshots(ctx context.Context, bucket, prefix string) ([]SnapshotInfo, error)
	DeletePrefix(ctx context.Context, bucket, prefix string) error
}
