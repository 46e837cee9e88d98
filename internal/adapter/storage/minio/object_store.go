package minio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/storage"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

type ObjectStore struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

var _ storage.ObjectStore = (*ObjectStore)(nil)

// NewObjectStore connects to MinIO and makes sure the bucket exists.
func NewObjectStore(ctx context.Context, cfg *config.MinioConfig, logger *zap.Logger) (*ObjectStore, error) {
	logger.Info("Initializing MinIO object store",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("bucket", cfg.Bucket),
		zap.Bool("use_ssl", cfg.UseSSL),
	)

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", cfg.Endpoint, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
		logger.Info("MinIO bucket created", zap.String("bucket", cfg.Bucket))
	}

	return &ObjectStore{client: client, bucket: cfg.Bucket, logger: logger}, nil
}

func (s *ObjectStore) Get(ctx context.Context, key string) (*storage.Object, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, mapError(err))
	}
	defer obj.Close()

	info, err := obj.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat object %s: %w", key, mapError(err))
	}
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", key, mapError(err))
	}
	return &storage.Object{ContentType: info.ContentType, Data: data}, nil
}

func (s *ObjectStore) Put(ctx context.Context, key string, obj *storage.Object) error {
	info, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(obj.Data), int64(len(obj.Data)), minio.PutObjectOptions{
		ContentType:  obj.ContentType,
		CacheControl: "public, max-age=31536000, immutable",
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s to bucket %s: %w", key, s.bucket, err)
	}
	s.logger.Debug("Object stored", zap.String("key", info.Key), zap.Int64("size", info.Size))
	return nil
}

func mapError(err error) error {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) && resp.Code == "NoSuchKey" {
		return storage.ErrObjectNotFound
	}
	return err
}
