package storage

import (
	"context"
	"io"
	"time"
)

// AssetInfo describes one stored photo asset. The store namespace is a
// single flat directory: no subdirectories, no sidecar metadata.
type AssetInfo struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// AssetStore is the only way any component touches photo bytes. Assets
// are write-once: nothing mutates an asset in place, and Delete is
// reserved for the orphan collector and duplicate repair.
type AssetStore interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Stat(ctx context.Context, name string) (AssetInfo, error)
	Exists(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) ([]AssetInfo, error)
	Write(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Copy(ctx context.Context, src, dst string) error
	Delete(ctx context.Context, name string) error
}
