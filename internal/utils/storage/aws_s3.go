package storage

import (
	"Go-Voting-Backend/domain"
	"Go-Voting-Backend/internal/utils"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const callbackPrefix = "payment-callbacks"

type (
	AwsS3 interface {
		UploadFile(ctx context.Context, key string, body []byte, contentType string) (string, error)
		ArchiveCallback(ctx context.Context, cb domain.DuitkuCallback) error
	}

	objectPutter interface {
		PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	}

	awsS3 struct {
		client objectPutter
		bucket string
		now    func() time.Time
	}
)

// NewAwsS3 builds an S3 client from the AWS_S3_* settings. Static keys are
// used when present, otherwise the default credential chain applies.
func NewAwsS3(ctx context.Context, cfg *utils.Config) (AwsS3, error) {
	if cfg.AWSS3Bucket == "" {
		return nil, errors.New("AWS_S3_BUCKET is not set")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSS3Region),
	}
	if cfg.AWSAccessKey != "" && cfg.AWSSecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKey, cfg.AWSSecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.AWSS3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.AWSS3Endpoint)
			o.UsePathStyle = true
		}
	})

	return newAwsS3(client, cfg.AWSS3Bucket), nil
}

func newAwsS3(client objectPutter, bucket string) *awsS3 {
	return &awsS3{
		client: client,
		bucket: bucket,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *awsS3) UploadFile(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

// ArchiveCallback stores the settled callback as JSON under a dated prefix.
// The signature is never written.
func (s *awsS3) ArchiveCallback(ctx context.Context, cb domain.DuitkuCallback) error {
	body, err := json.Marshal(cb)
	if err != nil {
		return err
	}
	key := path.Join(callbackPrefix, s.now().Format("2006/01/02"), cb.MerchantOrderID+".json")
	_, err = s.UploadFile(ctx, key, body, "application/json")
	return err
}
