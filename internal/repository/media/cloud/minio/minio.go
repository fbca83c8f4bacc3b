package minio

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/wb-go/wbf/zlog"

	"media-cms/internal/config"
)

// FileRepository stores derivative payloads in a MinIO/S3 bucket and
// hands back public URLs for them.
type FileRepository struct {
	client *minio.Client
	bucket string
	public string
	logger *zlog.Zerolog
}

func NewFileRepository(ctx context.Context, cfg *config.Config, logger *zlog.Zerolog) (*FileRepository, error) {
	client, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	repo := &FileRepository{
		client: client,
		bucket: cfg.Storage.Bucket,
		public: publicBase(cfg),
		logger: logger,
	}

	if err := repo.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

// Put stores one object and returns its public URL. Single attempt:
// the pipeline's rollback decision depends on knowing exactly which
// uploads landed.
func (r *FileRepository) Put(ctx context.Context, path string, data io.Reader, size int64, contentType string) (string, error) {
	_, err := r.client.PutObject(ctx, r.bucket, path, data, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object %s: %w", path, err)
	}
	return r.objectURL(path), nil
}

func (r *FileRepository) Delete(ctx context.Context, path string) error {
	if err := r.client.RemoveObject(ctx, r.bucket, path, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s: %w", path, err)
	}
	return nil
}

func (r *FileRepository) ensureBucket(ctx context.Context) error {
	exists, err := r.client.BucketExists(ctx, r.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", r.bucket, err)
	}
	if exists {
		return nil
	}

	if err := r.client.MakeBucket(ctx, r.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", r.bucket, err)
	}
	r.logger.Info().Str("bucket", r.bucket).Msg("Created storage bucket")
	return nil
}

func (r *FileRepository) objectURL(path string) string {
	escaped := (&url.URL{Path: path}).EscapedPath()
	return fmt.Sprintf("%s/%s", r.public, strings.TrimPrefix(escaped, "/"))
}

func publicBase(cfg *config.Config) string {
	host := cfg.Storage.PublicHost
	if host == "" {
		scheme := "http"
		if cfg.Storage.UseSSL {
			scheme = "https"
		}
		host = fmt.Sprintf("%s://%s", scheme, cfg.Storage.Endpoint)
	}
	return fmt.Sprintf("%s/%s", strings.TrimRight(host, "/"), cfg.Storage.Bucket)
}
