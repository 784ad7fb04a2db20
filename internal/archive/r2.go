package archive

import (
	"bytes"
	"context"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"pump-backend/internal/config"
)

// Archive stores generated report PDFs in an S3-compatible bucket (R2).
// A nil *Archive is valid and drops uploads, so callers never branch on
// whether archiving is configured.
type Archive struct {
	client *s3.Client
	bucket string
}

// New builds the archive client, or returns nil when credentials are
// not configured.
func New(cfg *config.Config) *Archive {
	if cfg.Archive.AccessKey == "" || cfg.Archive.SecretKey == "" || cfg.Archive.Bucket == "" {
		log.Printf("[Archive] R2 credentials not set, report archiving disabled")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Archive.AccessKey,
			cfg.Archive.SecretKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Archive.Region),
	)
	if err != nil {
		log.Printf("[Archive] Failed to configure R2 client: %v", err)
		return nil
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Archive.Endpoint)
	})

	return &Archive{client: client, bucket: cfg.Archive.Bucket}
}

// Put uploads a PDF under the given key. Failures are logged, not
// returned; archiving is best-effort and never blocks report delivery.
func (a *Archive) Put(ctx context.Context, key string, pdf []byte) {
	if a == nil {
		return
	}

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(pdf),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		log.Printf("[Archive] Upload failed for %s: %v", key, err)
		return
	}

	log.Printf("[Archive] Uploaded %s (%d bytes)", key, len(pdf))
}
