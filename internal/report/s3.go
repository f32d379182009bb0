package report

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"

	"github.com/scan-io-git/ghrecon/pkg/shared/config"
)

// Uploader stores a finished artifact remotely and returns its location.
type Uploader interface {
	Upload(ctx context.Context, name string, body io.Reader) (string, error)
}

// S3Uploader copies artifacts into an S3 bucket under an optional prefix.
type S3Uploader struct {
	bucket   string
	prefix   string
	uploader *s3manager.Uploader
}

func NewS3Uploader(cfg config.S3) (*S3Uploader, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create aws session: %w", err)
	}
	return &S3Uploader{
		bucket:   cfg.Bucket,
		prefix:   cfg.Prefix,
		uploader: s3manager.NewUploader(sess),
	}, nil
}

func (u *S3Uploader) key(name string) string {
	return path.Join(u.prefix, name)
}

func (u *S3Uploader) Upload(ctx context.Context, name string, body io.Reader) (string, error) {
	key := u.key(name)
	result, err := u.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   body,
	})
	if err != nil {
		return fmt.Sprintf("s3://%s/%s", u.bucket, key), err
	}
	return result.Location, nil
}
