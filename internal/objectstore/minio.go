package objectstore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/medpredict/alert-service/internal/domain"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

const maxPresignExpiry = 24 * time.Hour

// MinioConfig carries the S3-compatible endpoint settings for the report
// bucket.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// MinioStore implements ReportStore against any S3-compatible endpoint.
type MinioStore struct {
	client *minio.Client
	config MinioConfig
	logger *zap.Logger
}

var _ ReportStore = (*MinioStore)(nil)

func NewMinioStore(ctx context.Context, cfg MinioConfig, logger *zap.Logger) (*MinioStore, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, fmt.Errorf("%w: object store endpoint is required", domain.ErrConfiguration)
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("%w: object store credentials are required", domain.ErrConfiguration)
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("%w: object store bucket is required", domain.ErrConfiguration)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: object store client: %v", domain.ErrConfiguration, err)
	}

	store := &MinioStore{client: client, config: cfg, logger: logger}
	if err := store.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *MinioStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.config.Bucket)
	if err != nil {
		return fmt.Errorf("check bucket %q: %w", s.config.Bucket, err)
	}
	if exists {
		return nil
	}

	err = s.client.MakeBucket(ctx, s.config.Bucket, minio.MakeBucketOptions{Region: s.config.Region})
	if err != nil {
		return fmt.Errorf("create bucket %q: %w", s.config.Bucket, err)
	}
	s.logger.Info("created report bucket", zap.String("bucket", s.config.Bucket))
	return nil
}

func (s *MinioStore) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (*ReportObject, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("%w: object key is required", domain.ErrValidation)
	}

	info, err := s.client.PutObject(ctx, s.config.Bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("upload report %q: %w", key, err)
	}

	return &ReportObject{
		Key:          info.Key,
		URL:          s.objectURL(info.Key),
		SizeBytes:    info.Size,
		LastModified: time.Now(),
	}, nil
}

func (s *MinioStore) List(ctx context.Context) ([]ReportObject, error) {
	objects := make([]ReportObject, 0)
	for info := range s.client.ListObjects(ctx, s.config.Bucket, minio.ListObjectsOptions{Recursive: true}) {
		if info.Err != nil {
			return nil, fmt.Errorf("list reports: %w", info.Err)
		}
		if !strings.HasSuffix(strings.ToLower(info.Key), ".pdf") {
			continue
		}
		objects = append(objects, ReportObject{
			Key:          info.Key,
			URL:          s.objectURL(info.Key),
			SizeBytes:    info.Size,
			LastModified: info.LastModified,
		})
	}
	return objects, nil
}

func (s *MinioStore) Delete(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%w: object key is required", domain.ErrValidation)
	}

	// RemoveObject succeeds on absent keys, so probe first to report 404s.
	_, err := s.client.StatObject(ctx, s.config.Bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
			return fmt.Errorf("%w: report %q", domain.ErrNotFound, key)
		}
		return fmt.Errorf("stat report %q: %w", key, err)
	}

	if err := s.client.RemoveObject(ctx, s.config.Bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete report %q: %w", key, err)
	}
	return nil
}

func (s *MinioStore) PresignGet(ctx context.Context, key string, disposition Disposition, expiry time.Duration) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("%w: object key is required", domain.ErrValidation)
	}
	if disposition != DispositionInline && disposition != DispositionAttachment {
		disposition = DispositionInline
	}
	if expiry <= 0 || expiry > maxPresignExpiry {
		expiry = maxPresignExpiry
	}

	params := url.Values{}
	params.Set("response-content-disposition", fmt.Sprintf("%s; filename=%q", disposition, key))

	presigned, err := s.client.PresignedGetObject(ctx, s.config.Bucket, key, expiry, params)
	if err != nil {
		return "", fmt.Errorf("presign report %q: %w", key, err)
	}
	return presigned.String(), nil
}

func (s *MinioStore) objectURL(key string) string {
	scheme := "http"
	if s.config.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.config.Endpoint, s.config.Bucket, key)
}
