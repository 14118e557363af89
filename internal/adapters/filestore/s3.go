package filestore

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3Client is the subset of the S3 API used here; tests substitute a fake.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Config configures an S3-compatible bucket.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // blank for AWS
	AccessKey string
	SecretKey string
	PublicURL string // base URL objects are served from
}

// Enabled reports whether enough is configured to use S3.
func (c S3Config) Enabled() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

// S3Storage uploads to an S3-compatible bucket.
type S3Storage struct {
	client    s3Client
	bucket    string
	publicURL string
	now       func() time.Time
}

// NewS3Storage creates a storage backed by the configured bucket.
// PRE: cfg.Enabled()
func NewS3Storage(cfg S3Config) *S3Storage {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return newS3Storage(s3.New(opts), cfg)
}

func newS3Storage(client s3Client, cfg S3Config) *S3Storage {
	public := cfg.PublicURL
	if public == "" {
		endpoint := cfg.Endpoint
		if endpoint == "" {
			endpoint = fmt.Sprintf("https://s3.%s.amazonaws.com", cfg.Region)
		}
		public = strings.TrimRight(endpoint, "/") + "/" + cfg.Bucket
	}
	return &S3Storage{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(public, "/"),
		now:       time.Now,
	}
}

// Upload puts the file in the bucket.
// POST: on error nothing was stored
func (s *S3Storage) Upload(ctx context.Context, f File) (Object, error) {
	p, err := prepare(f, s.now())
	if err != nil {
		return Object{}, err
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(p.key),
		Body:          p.reader(),
		ContentLength: aws.Int64(int64(len(p.data))),
		ContentType:   aws.String(p.mimeType),
	})
	if err != nil {
		slog.Error("upload_failed", "backend", "s3", "key", p.key, "error", err)
		return Object{}, fmt.Errorf("put object %s: %w", p.key, err)
	}
	slog.Info("upload_stored", "backend", "s3", "key", p.key, "size", len(p.data))
	return Object{
		Key:      p.key,
		URL:      s.publicURL + "/" + p.key,
		Size:     int64(len(p.data)),
		MimeType: p.mimeType,
	}, nil
}

// Delete removes an object.
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}
