package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/balarco/balarco-backend/pkg/config"
	pkgerrors "github.com/balarco/balarco-backend/pkg/errors"
	"github.com/balarco/balarco-backend/pkg/logger"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const pingTimeout = 5 * time.Second

// objectAPI is the subset of *minio.Client the store relies on.
type objectAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

// Object describes an uploaded file.
type Object struct {
	Key         string
	ContentType string
	Size        int64
}

// Client stores work attachments in an S3 compatible bucket.
type Client struct {
	api      objectAPI
	bucket   string
	maxBytes int64
	logg     *logger.Logger
}

// New connects to the configured endpoint and makes sure the bucket exists.
func New(ctx context.Context, cfg config.StorageConfig, logg *logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}
	api, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	client := newClient(api, cfg.Bucket, cfg.MaxUploadBytes(), logg)
	if err := client.ensureBucket(ctx, cfg.Region); err != nil {
		return nil, err
	}
	if logg != nil {
		logg.Info(logg.WithField(ctx, "bucket", cfg.Bucket), "object storage initialized")
	}
	return client, nil
}

func newClient(api objectAPI, bucket string, maxBytes int64, logg *logger.Logger) *Client {
	return &Client{api: api, bucket: bucket, maxBytes: maxBytes, logg: logg}
}

func (c *Client) ensureBucket(ctx context.Context, region string) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := c.api.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}
	return nil
}

// Bucket returns the bucket objects are written to.
func (c *Client) Bucket() string {
	if c == nil {
		return ""
	}
	return c.bucket
}

// Put uploads data under key. The content type is sniffed from the bytes.
func (c *Client) Put(ctx context.Context, key string, data []byte) (Object, error) {
	if c == nil || c.api == nil {
		return Object{}, fmt.Errorf("storage client not initialized")
	}
	if strings.TrimSpace(key) == "" {
		return Object{}, fmt.Errorf("object key is required")
	}
	size := int64(len(data))
	if c.maxBytes > 0 && size > c.maxBytes {
		return Object{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("file exceeds the %d byte upload limit", c.maxBytes)).
			WithDetails(map[string]any{"key": key, "size": size})
	}

	contentType := mimetype.Detect(data).String()
	if _, err := c.api.PutObject(ctx, c.bucket, key, bytes.NewReader(data), size, minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return Object{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload object")
	}
	return Object{Key: key, ContentType: contentType, Size: size}, nil
}

// Remove deletes the object stored under key.
func (c *Client) Remove(ctx context.Context, key string) error {
	if c == nil || c.api == nil {
		return fmt.Errorf("storage client not initialized")
	}
	if err := c.api.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove object")
	}
	return nil
}

// PresignGet returns a temporary download URL for key.
func (c *Client) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if c == nil || c.api == nil {
		return "", fmt.Errorf("storage client not initialized")
	}
	u, err := c.api.PresignedGetObject(ctx, c.bucket, key, expiry, nil)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "presign object")
	}
	return u.String(), nil
}

// Ping checks that the bucket is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.api == nil {
		return fmt.Errorf("storage client not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", c.bucket)
	}
	return nil
}

// WorkFileKey builds the object key for a file attached to a work.
func WorkFileKey(workID, fileID uuid.UUID, name string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "file"
	}
	return fmt.Sprintf("works/%s/%s-%s", workID, fileID, base)
}
