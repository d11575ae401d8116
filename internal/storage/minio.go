package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioOpts func(c *minioConfig)

type minioConfig struct {
	endpoint        string
	bucket          string
	accessKey       string
	secretAccessKey string
	useSSL          bool
	publicBaseURL   string
}

func newConfig(opts ...MinioOpts) *minioConfig {
	cfg := &minioConfig{
		useSSL: false,
	}

	for _, o := range opts {
		o(cfg)
	}
	return cfg
}

type minioStore struct {
	cfg    *minioConfig
	client *minio.Client
}

var _ ObjectStore = (*minioStore)(nil)

func NewMinioStore(opts ...MinioOpts) (*minioStore, error) {
	cfg := newConfig(opts...)

	minioClient, err := minio.New(cfg.endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.accessKey, cfg.secretAccessKey, ""),
		Secure: cfg.useSSL,
	})
	if err != nil {
		return nil, err
	}

	return &minioStore{cfg: cfg, client: minioClient}, nil
}

func (s *minioStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.cfg.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// PublicURL builds the durable address of an uploaded object. When a public
// base URL is configured (CDN or reverse proxy in front of the bucket) it
// takes precedence over the raw endpoint.
func (s *minioStore) PublicURL(key string) string {
	if s.cfg.publicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.cfg.publicBaseURL, "/"), s.cfg.bucket, key)
	}
	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL(), s.cfg.bucket, key)
}

func WithEndpoint(endpoint string) MinioOpts {
	return func(c *minioConfig) {
		c.endpoint = endpoint
	}
}

func WithBucket(bucket string) MinioOpts {
	return func(c *minioConfig) {
		c.bucket = bucket
	}
}

func WithAccessKey(accessKey string) MinioOpts {
	return func(c *minioConfig) {
		c.accessKey = accessKey
	}
}

func WithSecretKey(secretKey string) MinioOpts {
	return func(c *minioConfig) {
		c.secretAccessKey = secretKey
	}
}

func WithSSL(useSSL bool) MinioOpts {
	return func(c *minioConfig) {
		c.useSSL = useSSL
	}
}

func WithPublicBaseURL(baseURL string) MinioOpts {
	return func(c *minioConfig) {
		c.publicBaseURL = baseURL
	}
}
