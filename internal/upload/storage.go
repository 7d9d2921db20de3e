package upload

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"storefront-be/internal/apperror"
	"storefront-be/internal/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const keyPrefix = "products/"

var (
	ErrFileNotFound  = apperror.Validation("File not found")
	ErrNotConfigured = apperror.New(apperror.KindInternal, "Image storage is not configured")
)

// Storage saves an uploaded image and returns its public URL.
type Storage interface {
	Save(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Storage struct {
	client  putObjectAPI
	bucket  string
	baseURL string
}

// NewS3Storage loads the default AWS credential chain for region.
// publicBaseURL overrides the virtual-hosted bucket URL, e.g. for a CDN.
func NewS3Storage(ctx context.Context, bucket, region, publicBaseURL string) (*S3Storage, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	logger.L().Info("s3 image storage initialised",
		zap.String("bucket", bucket),
		zap.String("region", region),
	)
	return newS3Storage(s3.NewFromConfig(cfg), bucket, region, publicBaseURL), nil
}

func newS3Storage(client putObjectAPI, bucket, region, publicBaseURL string) *S3Storage {
	base := strings.TrimRight(publicBaseURL, "/")
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	return &S3Storage{client: client, bucket: bucket, baseURL: base}
}

// ObjectKey names a stored image products/<uuid><ext>, keeping the lowercased extension.
func ObjectKey(filename string) string {
	return keyPrefix + uuid.NewString() + strings.ToLower(filepath.Ext(filename))
}

func (s *S3Storage) Save(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	key := ObjectKey(filename)

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		logger.FromCtx(ctx).Error("failed to put object",
			zap.String("bucket", s.bucket),
			zap.String("key", key),
			zap.Error(err),
		)
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return s.baseURL + "/" + key, nil
}

// Disabled is used when no bucket is configured.
type Disabled struct{}

func (Disabled) Save(context.Context, string, string, io.Reader) (string, error) {
	return "", ErrNotConfigured
}
