package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/dappnode/validator-status/internal/application/domain"
	"github.com/dappnode/validator-status/internal/config"
	"github.com/dappnode/validator-status/internal/logger"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Storage uploads every report histogram as <path>/<report name>.json.
type S3Storage struct {
	client     *minio.Client
	bucket     string
	pathPrefix string
}

func NewS3Storage(ctx context.Context, cfg config.S3Config) (*S3Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", cfg.Bucket)
	}

	return &S3Storage{
		client:     client,
		bucket:     cfg.Bucket,
		pathPrefix: strings.Trim(cfg.Path, "/"),
	}, nil
}

func (s *S3Storage) objectKey(name string) string {
	return path.Join(s.pathPrefix, name+".json")
}

func (s *S3Storage) SaveReport(ctx context.Context, report domain.StatusReport) error {
	data, err := json.MarshalIndent(report.Histogram, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	key := s.objectKey(report.Name)
	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
		UserMetadata: map[string]string{
			"node":             string(report.Node),
			"total-validators": fmt.Sprint(report.TotalValidators),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to upload report %s: %w", key, err)
	}

	logger.Info("Results uploaded to: s3://%s/%s", s.bucket, key)
	return nil
}
