// Package archive stores synthesized clip audio in an S3-compatible bucket
// and hands out short-lived download links.
package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	sc "github.com/natorvoice/natorvoice/internal/server/config"
)

// PresignTTL is the lifetime of a download link.
const PresignTTL = 15 * time.Minute

// ErrDisabled is returned when no bucket is configured.
var ErrDisabled = errors.New("archive disabled")

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}
)

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type objectPresigner interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Store uploads clip audio and presigns downloads.
type Store struct {
	bucket  string
	client  objectPutter
	presign objectPresigner
	now     func() time.Time
}

// New builds a Store from the S3 settings in cfg.
func New(ctx context.Context, cfg *sc.Config) (*Store, error) {
	if !cfg.ArchiveEnabled() {
		return nil, ErrDisabled
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.S3Region)}
	if cfg.S3AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")))
	}
	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return NewStore(cfg.S3Bucket, client, newS3PresignClient(client)), nil
}

// NewStore wires a Store to explicit S3 clients.
func NewStore(bucket string, client objectPutter, presign objectPresigner) *Store {
	return &Store{bucket: bucket, client: client, presign: presign, now: time.Now}
}

// Key returns a fresh object key for a clip of userID.
func (s *Store) Key(userID string) string {
	d := s.now().UTC()
	return fmt.Sprintf("clips/%s/%04d/%02d/%02d/%s.mp3", userID, d.Year(), d.Month(), d.Day(), uuid.New())
}

// Put uploads audio for userID and returns its key.
func (s *Store) Put(ctx context.Context, userID string, data []byte, contentType string) (string, error) {
	key := s.Key(userID)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return key, nil
}

// URL returns a presigned GET link for key, valid for PresignTTL.
func (s *Store) URL(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(PresignTTL))
	if err != nil {
		return "", fmt.Errorf("presign get: %w", err)
	}
	return req.URL, nil
}
