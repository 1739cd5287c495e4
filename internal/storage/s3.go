package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Options locate uploaded objects inside a bucket.
type S3Options struct {
	Bucket        string
	KeyPrefix     string
	PublicBaseURL string
}

// S3Service stores uploads in Amazon S3 (or compatible APIs).
type S3Service struct {
	uploader *manager.Uploader
	opts     S3Options
}

func NewS3Service(client *s3.Client, opts S3Options) (*S3Service, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}
	opts.KeyPrefix = strings.Trim(opts.KeyPrefix, "/")
	opts.PublicBaseURL = strings.TrimRight(opts.PublicBaseURL, "/")
	return &S3Service{
		uploader: manager.NewUploader(client),
		opts:     opts,
	}, nil
}

func (s *S3Service) Save(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	fullKey := strings.TrimLeft(key, "/")
	if s.opts.KeyPrefix != "" {
		fullKey = s.opts.KeyPrefix + "/" + fullKey
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(fullKey),
		Body:   body,
		ACL:    types.ObjectCannedACLPrivate,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}
	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return "", fmt.Errorf("upload %s: %w", fullKey, err)
	}

	if s.opts.PublicBaseURL != "" {
		return s.opts.PublicBaseURL + "/" + fullKey, nil
	}
	return fmt.Sprintf("s3://%s/%s", s.opts.Bucket, fullKey), nil
}

var _ Service = (*S3Service)(nil)
