package storage

import (
	"context"
	"errors"
	"io"

	"github.com/minio/minio-go/v7"

	"github.com/konalla/appadhesionudrgv3-sub000/internal/domain"
)

// MinioStore serves the same flat-namespace contract out of an object
// storage bucket, for deployments where the uploads directory has been
// migrated off local disk.
type MinioStore struct {
	client *minio.Client
	bucket string
}

func NewMinioStore(client *minio.Client, bucket string) *MinioStore {
	return &MinioStore{client: client, bucket: bucket}
}

func (s *MinioStore) notFound(err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" {
		return domain.ErrAssetNotFound
	}
	return err
}

func (s *MinioStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if _, err := s.Stat(ctx, name); err != nil {
		return nil, err
	}
	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.notFound(err)
	}
	return obj, nil
}

func (s *MinioStore) Stat(ctx context.Context, name string) (AssetInfo, error) {
	info, err := s.client.StatObject(ctx, s.bucket, name, minio.StatObjectOptions{})
	if err != nil {
		return AssetInfo{}, s.notFound(err)
	}
	return AssetInfo{Name: name, Size: info.Size, ModTime: info.LastModified}, nil
}

func (s *MinioStore) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.Stat(ctx, name)
	if errors.Is(err, domain.ErrAssetNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *MinioStore) List(ctx context.Context) ([]AssetInfo, error) {
	var infos []AssetInfo
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		infos = append(infos, AssetInfo{Name: obj.Key, Size: obj.Size, ModTime: obj.LastModified})
	}
	return infos, nil
}

func (s *MinioStore) Write(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, name, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (s *MinioStore) Copy(ctx context.Context, src, dst string) error {
	_, err := s.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: s.bucket, Object: dst},
		minio.CopySrcOptions{Bucket: s.bucket, Object: src},
	)
	return s.notFound(err)
}

func (s *MinioStore) Delete(ctx context.Context, name string) error {
	err := s.client.RemoveObject(ctx, s.bucket, name, minio.RemoveObjectOptions{})
	if err != nil {
		return s.notFound(err)
	}
	return nil
}
