package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// DefaultRegion is used when no region is configured.
const DefaultRegion = "us-east-1"

// Options configures the object store connection.
type Options struct {
	Endpoint     string
	Region       string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

// OptionsFromEnv reads VMPOOL_S3_ENDPOINT, VMPOOL_S3_REGION,
// VMPOOL_S3_ACCESS_KEY, VMPOOL_S3_SECRET_KEY and VMPOOL_S3_PATH_STYLE.
// Without static keys the default AWS credential chain applies.
func OptionsFromEnv() Options {
	pathStyle, _ := strconv.ParseBool(os.Getenv("VMPOOL_S3_PATH_STYLE"))
	return Options{
		Endpoint:     os.Getenv("VMPOOL_S3_ENDPOINT"),
		Region:       os.Getenv("VMPOOL_S3_REGION"),
		AccessKey:    os.Getenv("VMPOOL_S3_ACCESS_KEY"),
		SecretKey:    os.Getenv("VMPOOL_S3_SECRET_KEY"),
		UsePathStyle: pathStyle,
	}
}

// Client wraps the S3 client.
type Client struct {
	s3     *s3.Client
	region string
}

// NewClient creates a new S3 client.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	region := opts.Region
	if region == "" {
		region = DefaultRegion
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.UsePathStyle
	})

	return &Client{s3: client, region: region}, nil
}

// BucketExists checks if a bucket exists and is accessible.
func (c *Client) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	_, err := c.s3.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucketName),
	})
	if err != nil {
		if isNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check bucket %s: %w", bucketName, err)
	}
	return true, nil
}

// PutObject uploads an object to a bucket.
func (c *Client) PutObject(ctx context.Context, bucketName, key, contentType string, data []byte) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(bucketName),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := c.s3.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to put object %s in bucket %s: %w", key, bucketName, err)
	}
	return nil
}

// UploadReport stores a rendered run report and returns its s3:// location.
// The bucket must already exist; it is never created.
func (c *Client) UploadReport(ctx context.Context, bucketName, key, contentType string, report []byte) (string, error) {
	exists, err := c.BucketExists(ctx, bucketName)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("report bucket %s does not exist", bucketName)
	}
	if err := c.PutObject(ctx, bucketName, key, contentType, report); err != nil {
		return "", err
	}
	return fmt.Sprintf("s3://%s/%s", bucketName, key), nil
}

// isNotFoundError checks if the error is a not found error.
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	// Check for typed S3 errors first
	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return true
	}

	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}

	// Fall back to API error code checking for S3-compatible services
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NotFound" || code == "NoSuchBucket" || code == "404"
	}

	return false
}
