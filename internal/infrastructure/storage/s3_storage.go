// Package storage archives exported files in S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	inventoryapp "github.com/partshop/backend/internal/application/inventory"
	"github.com/partshop/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const (
	defaultRegion        = "ap-south-1"
	defaultPresignExpiry = 15 * time.Minute
)

var (
	errEmptyKey = errors.New("storage key is required")

	_ inventoryapp.ObjectStorage = (*S3ObjectStorage)(nil)
)

// S3ObjectStorage keeps archived stock exports in one bucket. It talks to AWS
// S3 or any S3-compatible server such as MinIO.
type S3ObjectStorage struct {
	client        *s3.Client
	presigner     *s3.PresignClient
	bucket        string
	presignExpiry time.Duration
	logger        *zap.Logger
}

// S3ObjectStorageOption configures an S3ObjectStorage
type S3ObjectStorageOption func(*S3ObjectStorage)

func WithLogger(logger *zap.Logger) S3ObjectStorageOption {
	return func(s *S3ObjectStorage) { s.logger = logger }
}

// WithPresignExpiration overrides the default lifetime of download links
func WithPresignExpiration(d time.Duration) S3ObjectStorageOption {
	return func(s *S3ObjectStorage) { s.presignExpiry = d }
}

// NewS3ObjectStorage builds a client from the storage section. It does not
// contact the server; call EnsureBucket for that.
func NewS3ObjectStorage(cfg *config.StorageConfig, opts ...S3ObjectStorageOption) (*S3ObjectStorage, error) {
	if err := checkStorageConfig(cfg); err != nil {
		return nil, err
	}
	endpoint, err := normalizeEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}
	client, err := newS3Client(cfg, endpoint)
	if err != nil {
		return nil, err
	}

	s := &S3ObjectStorage{
		client:        client,
		presigner:     s3.NewPresignClient(client),
		bucket:        cfg.Bucket,
		presignExpiry: defaultPresignExpiry,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.presignExpiry <= 0 {
		s.presignExpiry = defaultPresignExpiry
	}
	return s, nil
}

func checkStorageConfig(cfg *config.StorageConfig) error {
	if cfg == nil {
		return errors.New("storage configuration is required")
	}
	var errs []error
	if cfg.Bucket == "" {
		errs = append(errs, errors.New("storage bucket is required"))
	}
	if cfg.AccessKeyID == "" {
		errs = append(errs, errors.New("storage access key is required"))
	}
	if cfg.SecretAccessKey == "" {
		errs = append(errs, errors.New("storage secret key is required"))
	}
	return errors.Join(errs...)
}

func newS3Client(cfg *config.StorageConfig, endpoint string) (*s3.Client, error) {
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

// normalizeEndpoint adds a scheme to a bare host. An empty endpoint means AWS.
func normalizeEndpoint(endpoint string) (string, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return "", nil
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid storage endpoint: %q", endpoint)
	}
	return strings.TrimRight(endpoint, "/"), nil
}

// EnsureBucket creates the bucket on first start
func (s *S3ObjectStorage) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}
	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("head bucket %s: %w", s.bucket, err)
	}

	s.logger.Info("Creating export bucket", zap.String("bucket", s.bucket))
	if _, err := s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &owned) {
			return nil
		}
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// Upload stores data under key. Browsers following the presigned link save
// the object under the last path segment of key.
func (s *S3ObjectStorage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errEmptyKey
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(s.bucket),
		Key:                aws.String(key),
		Body:               bytes.NewReader(data),
		ContentType:        aws.String(contentType),
		ContentDisposition: aws.String(fmt.Sprintf("attachment; filename=%q", path.Base(key))),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	s.logger.Debug("Export archived", zap.String("key", key), zap.Int("bytes", len(data)))
	return nil
}

// GenerateDownloadURL presigns a GET for key. A non-positive expiresIn uses
// the configured default.
func (s *S3ObjectStorage) GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errEmptyKey
	}
	if expiresIn <= 0 {
		expiresIn = s.presignExpiry
	}
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiresIn))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("presign %s: %w", key, err)
	}
	return req.URL, time.Now().Add(expiresIn), nil
}

func (s *S3ObjectStorage) Bucket() string {
	return s.bucket
}
