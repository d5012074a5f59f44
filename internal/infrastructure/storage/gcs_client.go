package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"webcarros/internal/domain/service"
)

// downloadTokenKey is the metadata key Firebase Storage uses for download
// tokens; objects carrying it are fetchable through the firebasestorage host
// without making the bucket public.
const downloadTokenKey = "firebaseStorageDownloadTokens"

type CloudStorageClient struct {
	client     *storage.Client
	bucketName string
}

func NewCloudStorageClient(ctx context.Context, bucketName string, opts ...option.ClientOption) (*CloudStorageClient, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %v", err)
	}

	return &CloudStorageClient{
		client:     client,
		bucketName: bucketName,
	}, nil
}

func (c *CloudStorageClient) Upload(ctx context.Context, key, contentType string, r io.Reader, size int64) (service.ObjectHandle, error) {
	obj := c.client.Bucket(c.bucketName).Object(key)

	wc := obj.NewWriter(ctx)
	wc.ContentType = contentType
	wc.CacheControl = "public, max-age=86400"
	wc.Metadata = map[string]string{
		downloadTokenKey: uuid.New().String(),
	}

	written, err := io.Copy(wc, r)
	if err != nil {
		wc.Close()
		return service.ObjectHandle{}, fmt.Errorf("failed to copy file to GCS: %v", err)
	}

	if err := wc.Close(); err != nil {
		return service.ObjectHandle{}, fmt.Errorf("failed to close writer: %v", err)
	}

	return service.ObjectHandle{
		Key:         key,
		ContentType: contentType,
		Size:        written,
	}, nil
}

func (c *CloudStorageClient) ResolveURL(ctx context.Context, handle service.ObjectHandle) (string, error) {
	attrs, err := c.client.Bucket(c.bucketName).Object(handle.Key).Attrs(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read object attributes: %v", err)
	}

	token := attrs.Metadata[downloadTokenKey]
	if token == "" {
		return "", fmt.Errorf("object %s has no download token", handle.Key)
	}
	// Several tokens may be present, comma separated.
	token = strings.Split(token, ",")[0]

	return DownloadURL(c.bucketName, handle.Key, token), nil
}

func (c *CloudStorageClient) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	reader, err := c.client.Bucket(c.bucketName).Object(key).NewReader(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open object: %v", err)
	}
	return reader, reader.Attrs.ContentType, nil
}

func (c *CloudStorageClient) Delete(ctx context.Context, key string) error {
	if err := c.client.Bucket(c.bucketName).Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete file: %v", err)
	}
	return nil
}

func (c *CloudStorageClient) Close() error {
	return c.client.Close()
}

// DownloadURL builds the token-protected Firebase Storage URL for an object.
func DownloadURL(bucket, key, token string) string {
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		bucket, url.PathEscape(key), url.QueryEscape(token))
}
