package providers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/gabriel-vasile/mimetype"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Folders generated artifacts are stored under.
const (
	FolderGeneratedImages = "brayn/generated-images"
	FolderBackgroundless  = "brayn/bg-removed"
)

const objectKeySize = 16

type S3Options struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PublicURL       string
}

type uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Store uploads artifacts to an S3 compatible bucket.
type S3Store struct {
	uploader  uploader
	bucket    string
	publicURL string
}

// NewS3Store builds the client, checks that the bucket exists and returns a
// ready store.
func NewS3Store(ctx context.Context, o S3Options) (*S3Store, error) {
	if o.Bucket == "" {
		return nil, errors.New("no bucket configured")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(o.Region)}
	if o.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKeyID, o.SecretAccessKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(so *s3.Options) {
		if o.Endpoint != "" {
			so.BaseEndpoint = aws.String(o.Endpoint)
			so.UsePathStyle = true
		}
	})

	_, err = client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(o.Bucket)})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
			return nil, fmt.Errorf("bucket '%s' does not exist", o.Bucket)
		}
		return nil, fmt.Errorf("failed to check if bucket exists, %w", err)
	}

	return newS3Store(manager.NewUploader(client), o.Bucket, o.PublicURL), nil
}

func newS3Store(u uploader, bucket, publicURL string) *S3Store {
	return &S3Store{
		uploader:  u,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (s *S3Store) Upload(ctx context.Context, folder string, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("nothing to upload")
	}

	detected := mimetype.Detect(data)
	if contentType == "" {
		contentType = detected.String()
	}

	id, err := gonanoid.New(objectKeySize)
	if err != nil {
		return "", fmt.Errorf("failed to generate object key: %w", err)
	}
	key := strings.Trim(folder, "/") + "/" + id + detected.Extension()

	out, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3, %w", err)
	}

	if s.publicURL != "" {
		return s.publicURL + "/" + key, nil
	}
	return out.Location, nil
}
