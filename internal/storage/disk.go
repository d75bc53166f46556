package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/konalla/appadhesionudrgv3-sub000/internal/domain"
)

// DiskStore keeps assets as plain files in one flat directory, the
// layout the application has always used for its uploads.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &DiskStore{root: root}, nil
}

func (s *DiskStore) path(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid asset name %q", name)
	}
	return filepath.Join(s.root, name), nil
}

// The namespace is flat: a name the store could never contain is
// simply not found on the read and delete paths. Only Write reports
// the invalid name itself, so a bad writer fails loudly instead of
// silently shadowing an asset.
func (s *DiskStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	p, err := s.path(name)
	if err != nil {
		return nil, domain.ErrAssetNotFound
	}
	f, err := os.Open(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, domain.ErrAssetNotFound
	}
	return f, err
}

func (s *DiskStore) Stat(ctx context.Context, name string) (AssetInfo, error) {
	p, err := s.path(name)
	if err != nil {
		return AssetInfo{}, domain.ErrAssetNotFound
	}
	fi, err := os.Stat(p)
	if errors.Is(err, os.ErrNotExist) {
		return AssetInfo{}, domain.ErrAssetNotFound
	}
	if err != nil {
		return AssetInfo{}, err
	}
	return AssetInfo{Name: name, Size: fi.Size(), ModTime: fi.ModTime()}, nil
}

func (s *DiskStore) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.Stat(ctx, name)
	if errors.Is(err, domain.ErrAssetNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *DiskStore) List(ctx context.Context) ([]AssetInfo, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, err
	}
	infos := make([]AssetInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		infos = append(infos, AssetInfo{Name: e.Name(), Size: fi.Size(), ModTime: fi.ModTime()})
	}
	return infos, nil
}

// Write stages the bytes in a hidden temp file and renames it into
// place, so a failed or oversized transfer never leaves a partial
// asset visible under its final name.
func (s *DiskStore) Write(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.root, ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), p)
}

func (s *DiskStore) Copy(ctx context.Context, src, dst string) error {
	in, err := s.Open(ctx, src)
	if err != nil {
		return err
	}
	defer in.Close()
	return s.Write(ctx, dst, in, -1, domain.PhotoContentType(dst))
}

func (s *DiskStore) Delete(ctx context.Context, name string) error {
	p, err := s.path(name)
	if err != nil {
		return domain.ErrAssetNotFound
	}
	err = os.Remove(p)
	if errors.Is(err, os.ErrNotExist) {
		return domain.ErrAssetNotFound
	}
	return err
}
