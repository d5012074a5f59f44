package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"webcarros/internal/domain/service"
	"webcarros/pkg/logger"
)

// MinIOClient stores images in any S3-compatible bucket. Handy for running the
// service locally without a Firebase project.
type MinIOClient struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

type MinIOOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL overrides the base of returned URLs, e.g. a CDN in front of
	// the bucket. Defaults to the client endpoint.
	PublicURL string
}

func NewMinIOClient(ctx context.Context, opts MinIOOptions) (*MinIOClient, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", opts.Endpoint, err)
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", opts.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", opts.Bucket, err)
		}
		logger.Info("Created bucket %s", opts.Bucket)
	}

	publicURL := strings.TrimSuffix(opts.PublicURL, "/")
	if publicURL == "" {
		publicURL = client.EndpointURL().String()
	}

	return &MinIOClient{
		client:    client,
		bucket:    opts.Bucket,
		publicURL: publicURL,
	}, nil
}

func (m *MinIOClient) Upload(ctx context.Context, key, contentType string, r io.Reader, size int64) (service.ObjectHandle, error) {
	info, err := m.client.PutObject(ctx, m.bucket, key, r, size, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=86400",
	})
	if err != nil {
		return service.ObjectHandle{}, fmt.Errorf("failed to upload object %s: %w", key, err)
	}

	return service.ObjectHandle{
		Key:         info.Key,
		ContentType: contentType,
		Size:        info.Size,
	}, nil
}

func (m *MinIOClient) ResolveURL(ctx context.Context, handle service.ObjectHandle) (string, error) {
	if _, err := m.client.StatObject(ctx, m.bucket, handle.Key, minio.StatObjectOptions{}); err != nil {
		return "", fmt.Errorf("failed to stat object %s: %w", handle.Key, err)
	}
	return fmt.Sprintf("%s/%s/%s", m.publicURL, m.bucket, handle.Key), nil
}

func (m *MinIOClient) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("failed to get object %s: %w", key, err)
	}

	stat, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, "", fmt.Errorf("failed to stat object %s: %w", key, err)
	}

	return obj, stat.ContentType, nil
}

func (m *MinIOClient) Delete(ctx context.Context, key string) error {
	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

func (m *MinIOClient) Close() error {
	return nil
}
