package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

var ErrNoBucket = errors.New("publish: bucket is required")

// S3Config addresses the bucket a snapshot is published to. Endpoint
// switches the client to path-style addressing for MinIO and similar
// services. Static keys are optional; the default AWS credential chain is
// used without them.
type S3Config struct {
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// NewS3Client builds a client from cfg.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// S3Publisher uploads database files with the multipart upload manager.
type S3Publisher struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	prefix   string
	logger   *slog.Logger
}

func NewS3Publisher(client *s3.Client, bucket, prefix string, logger *slog.Logger) *S3Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &S3Publisher{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		prefix:   prefix,
		logger:   logger,
	}
}

// ObjectKey is the key a file is stored under: the prefix joined with the
// file's base name.
func ObjectKey(prefix, file string) string {
	prefix = strings.Trim(prefix, "/")
	base := filepath.Base(file)
	if prefix == "" {
		return base
	}
	return path.Join(prefix, base)
}

// EnsureBucket creates the bucket when it does not exist yet.
func (p *S3Publisher) EnsureBucket(ctx context.Context) error {
	if p.bucket == "" {
		return ErrNoBucket
	}
	_, err := p.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(p.bucket)})
	if err == nil {
		return nil
	}
	var notFound *types.NotFound
	if !errors.As(err, &notFound) {
		return fmt.Errorf("head bucket: %w", err)
	}
	if _, err := p.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(p.bucket)}); err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}
	p.logger.Info("bucket created", "bucket", p.bucket)
	return nil
}

// Publish uploads the file at localPath and returns its object key.
func (p *S3Publisher) Publish(ctx context.Context, localPath string) (string, error) {
	if p.bucket == "" {
		return "", ErrNoBucket
	}

	fi, err := os.Stat(localPath)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", localPath, err)
	}
	if fi.IsDir() {
		return "", fmt.Errorf("publish: %s is a directory", localPath)
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	key := ObjectKey(p.prefix, localPath)
	_, err = p.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("application/vnd.sqlite3"),
		ACL:         types.ObjectCannedACLPrivate,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", localPath, err)
	}

	p.logger.Info("snapshot published", "bucket", p.bucket, "key", key, "bytes", fi.Size())
	return key, nil
}
