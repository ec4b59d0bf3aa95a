package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/noah-isme/employee-admin/pkg/config"
)

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Storage stores uploads as objects in a bucket.
type S3Storage struct {
	client    s3API
	bucket    string
	keyPrefix string
	publicURL string
}

// NewS3Storage loads the default AWS credential chain for the configured region.
func NewS3Storage(ctx context.Context, cfg config.S3Config, publicURL string) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		if cfg.KeyPrefix != "" {
			publicURL += "/" + cfg.KeyPrefix
		}
	}
	return NewS3StorageWithClient(s3.NewFromConfig(awsCfg), cfg.Bucket, cfg.KeyPrefix, publicURL), nil
}

// NewS3StorageWithClient builds storage around an existing client.
func NewS3StorageWithClient(client s3API, bucket, keyPrefix, publicURL string) *S3Storage {
	return &S3Storage{
		client:    client,
		bucket:    bucket,
		keyPrefix: strings.Trim(keyPrefix, "/"),
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// SaveStream uploads the reader under the given name; an existing key is never replaced.
func (s *S3Storage) SaveStream(ctx context.Context, filename string, r io.Reader) (string, error) {
	filename = path.Base(filename)
	contentType := mime.TypeByExtension(path.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(filename)),
		Body:        r,
		ContentType: aws.String(contentType),
		IfNoneMatch: aws.String("*"),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "PreconditionFailed" {
			return "", ErrExists
		}
		return "", fmt.Errorf("put object %s: %w", filename, err)
	}
	return filename, nil
}

// Delete removes the object; missing keys are not an error on S3.
func (s *S3Storage) Delete(ctx context.Context, filename string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(path.Base(filename))),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", filename, err)
	}
	return nil
}

// URL returns the public address of an object.
func (s *S3Storage) URL(filename string) string {
	return joinURL(s.publicURL, url.PathEscape(filename))
}

func (s *S3Storage) key(filename string) string {
	if s.keyPrefix == "" {
		return filename
	}
	return s.keyPrefix + "/" + filename
}
