package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// PutObjectAPI is the part of *s3.Client used for uploads.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config configures the hosted bucket.
type S3Config struct {
	Bucket string
	Region string
	// Endpoint overrides the service endpoint for S3-compatible stores.
	Endpoint string
	// PublicURL prefixes object keys in returned URLs. Defaults to the
	// virtual-hosted bucket URL.
	PublicURL string
	// AccessKey and SecretKey select static credentials. When empty the
	// default credential chain is used.
	AccessKey string
	SecretKey string
}

// NewS3Client loads AWS configuration for conf.
func NewS3Client(ctx context.Context, conf S3Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(conf.Region),
	}
	if conf.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(conf.AccessKey, conf.SecretKey, ""),
		))
	}

	awsConf, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return s3.NewFromConfig(awsConf, func(o *s3.Options) {
		if conf.Endpoint != "" {
			o.BaseEndpoint = aws.String(conf.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// S3Uploader puts objects into the hosted bucket under
// "<category>/<uuid><ext>".
type S3Uploader struct {
	client    PutObjectAPI
	bucket    string
	publicURL string
	newKey    func() string
}

// NewS3Uploader returns an uploader writing to bucket.
func NewS3Uploader(client PutObjectAPI, conf S3Config) *S3Uploader {
	public := strings.TrimSuffix(conf.PublicURL, "/")
	if public == "" {
		public = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", conf.Bucket, conf.Region)
	}
	return &S3Uploader{
		client:    client,
		bucket:    conf.Bucket,
		publicURL: public,
		newKey:    func() string { return uuid.NewString() },
	}
}

// Name implements Uploader.
func (u *S3Uploader) Name() string { return "s3" }

// Upload implements Uploader.
func (u *S3Uploader) Upload(ctx context.Context, obj Object) (string, error) {
	if u.bucket == "" {
		return "", errors.New("no bucket configured")
	}
	key := obj.Category + "/" + u.newKey() + extension(obj.MIME)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(obj.Data),
		ContentType:   aws.String(obj.MIME),
		ContentLength: aws.Int64(int64(len(obj.Data))),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("putting s3://%s/%s: %w", u.bucket, key, err)
	}
	return u.publicURL + "/" + key, nil
}
