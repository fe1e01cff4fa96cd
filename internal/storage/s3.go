package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"timesheet-backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var ErrArchiveDisabled = errors.New("archive storage is not configured")

// Archive stores generated documents in an S3-compatible bucket (AWS S3, R2, MinIO)
type Archive struct {
	client *s3.Client
	bucket string
}

// New builds an Archive from config. With no bucket configured it returns a
// disabled Archive whose writes fail with ErrArchiveDisabled.
func New(ctx context.Context, cfg *config.Config) (*Archive, error) {
	sc := cfg.Storage
	if sc.Bucket == "" {
		log.Println("[Storage] No bucket configured, archiving disabled")
		return &Archive{}, nil
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(sc.Region),
	}
	if sc.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(sc.AccessKey, sc.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to configure storage client: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if sc.Endpoint != "" {
			o.BaseEndpoint = aws.String(sc.Endpoint)
			o.UsePathStyle = true
		}
	})

	log.Printf("[Storage] Archiving to bucket %s", sc.Bucket)
	return &Archive{client: client, bucket: sc.Bucket}, nil
}

func (a *Archive) Enabled() bool {
	return a != nil && a.client != nil
}

// Put uploads body under key
func (a *Archive) Put(ctx context.Context, key string, body []byte, contentType string) error {
	if !a.Enabled() {
		return ErrArchiveDisabled
	}
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// Get downloads the object stored under key
func (a *Archive) Get(ctx context.Context, key string) ([]byte, error) {
	if !a.Enabled() {
		return nil, ErrArchiveDisabled
	}
	out, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", key, err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

// SalarySlipKey is the object key of an employee's slip for a month
func SalarySlipKey(employeeID, year, month int) string {
	return fmt.Sprintf("salary-slips/%d/%04d-%02d.pdf", employeeID, year, month)
}
