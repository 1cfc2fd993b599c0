package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const uploadPrefix = "karaoke_"

// uploadOutput pushes every artifact in outputDir to S3 under a unique run
// prefix and finishes with a manifest whose entries are absolute URLs.
// It returns the URL of the uploaded manifest together with the rewritten
// manifest itself.
func uploadOutput(ctx context.Context, logger *slog.Logger, cfg config, outputDir string, m manifest) (string, manifest, error) {
	logger = logger.With("step", "uploadOutput", "bucket", cfg.S3Bucket)

	if err := cfg.validateS3(); err != nil {
		return "", manifest{}, err
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		),
	)
	if err != nil {
		return "", manifest{}, fmt.Errorf("failed to build AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	uploader := manager.NewUploader(client)

	folderPrefix := newRunPrefix()
	logger.Info("Uploading run artifacts", "prefix", folderPrefix)

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return "", manifest{}, fmt.Errorf("failed to read output directory %s: %w", outputDir, err)
	}

	for _, entry := range entries {
		if !entry.Type().IsRegular() || entry.Name() == manifestFileName {
			continue
		}
		localPath := filepath.Join(outputDir, entry.Name())
		key := folderPrefix + entry.Name()
		if err := uploadFile(ctx, uploader, cfg.S3Bucket, key, localPath); err != nil {
			return "", manifest{}, err
		}
		logger.Info("Uploaded artifact", "key", key)
	}

	baseURL := s3BaseURL(cfg.S3Bucket, cfg.AWSRegion)
	rewritten := m.withAbsoluteURLs(baseURL, folderPrefix)
	manifestBytes, err := json.MarshalIndent(rewritten, "", "  ")
	if err != nil {
		return "", manifest{}, err
	}

	manifestKey := folderPrefix + manifestFileName
	_, err = uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(cfg.S3Bucket),
		Key:         aws.String(manifestKey),
		Body:        bytes.NewReader(manifestBytes),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", manifest{}, fmt.Errorf("failed to upload manifest: %w", err)
	}

	manifestURL := fmt.Sprintf("%s/%s", baseURL, manifestKey)
	logger.Info("Upload complete", "manifestURL", manifestURL)
	return manifestURL, rewritten, nil
}

func uploadFile(ctx context.Context, uploader *manager.Uploader, bucket, key, localPath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer f.Close()

	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   f,
	}
	if ct := mime.TypeByExtension(filepath.Ext(localPath)); ct != "" {
		input.ContentType = aws.String(ct)
	}
	if _, err := uploader.Upload(ctx, input); err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// newRunPrefix builds a unique folder prefix like
// "karaoke_20260101-120000_a1b2c3d4/".
func newRunPrefix() string {
	ts := time.Now().Format("20060102-150405")
	suffix := uuid.NewString()[:8]
	return fmt.Sprintf("%s%s_%s/", uploadPrefix, ts, suffix)
}

// s3BaseURL returns the virtual-hosted bucket URL. us-east-1 historically
// omits the region in the hostname.
func s3BaseURL(bucket, region string) string {
	if region == "us-east-1" {
		return fmt.Sprintf("https://%s.s3.amazonaws.com", bucket)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
}
