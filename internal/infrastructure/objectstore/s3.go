// Package objectstore issues presigned upload/download URLs for item
// photos against an S3-compatible bucket. Photo bytes never pass through
// the API server; clients talk to the bucket directly with the presigned
// URLs.
package objectstore

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"homestock/internal/core/apperror"
	"homestock/internal/core/id"
)

// Config holds bucket and endpoint configuration.
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string // empty for AWS, set for S3-compatible stores
	AccessKey string
	SecretKey string

	// URLTTL is the presigned URL lifetime (default 15m)
	URLTTL time.Duration
}

// Store issues presigned URLs and deletes objects by key.
type Store struct {
	bucket  string
	ttl     time.Duration
	client  *s3.Client
	presign *s3.PresignClient
}

// keyPattern restricts download keys to the uuid-based names issued by
// PresignUpload, with an optional extension.
var keyPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// New creates an object store from configuration.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}
	if cfg.URLTTL == 0 {
		cfg.URLTTL = 15 * time.Minute
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Store{
		bucket:  cfg.Bucket,
		ttl:     cfg.URLTTL,
		client:  client,
		presign: s3.NewPresignClient(client),
	}, nil
}

// PresignUpload issues a presigned PUT URL together with the generated
// object key the client must store as the item's image correlation id.
func (s *Store) PresignUpload(ctx context.Context) (url, key string, err error) {
	key = id.New().String()

	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return "", "", fmt.Errorf("presign upload: %w", err)
	}
	return req.URL, key, nil
}

// PresignDownload issues a presigned GET URL for a stored photo.
func (s *Store) PresignDownload(ctx context.Context, key string) (string, error) {
	if !keyPattern.MatchString(key) {
		return "", apperror.NewValidation("invalid object key").
			WithDetail("key", key)
	}

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return req.URL, nil
}

// Delete removes a stored photo by key.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}
