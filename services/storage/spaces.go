package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// SpacesConfig holds configuration for an S3 compatible bucket
// (DigitalOcean Spaces, MinIO, AWS S3)
type SpacesConfig struct {
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Endpoint  string
}

// Enabled reports whether enough settings are present to upload
func (c SpacesConfig) Enabled() bool {
	return c.Bucket != "" && c.Region != ""
}

// SpacesClient uploads report archives
type SpacesClient struct {
	s3Client s3iface.S3API
	bucket   string
	endpoint string
}

// NewSpacesClient creates a new Spaces client
func NewSpacesClient(config SpacesConfig) (*SpacesClient, error) {
	if !config.Enabled() {
		return nil, fmt.Errorf("bucket and region must be configured")
	}

	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("%s.digitaloceanspaces.com", config.Region)
	}

	awsConfig := &aws.Config{
		Endpoint:         aws.String(endpoint),
		Region:           aws.String(config.Region),
		S3ForcePathStyle: aws.Bool(false),
	}
	if config.AccessKey != "" && config.SecretKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(config.AccessKey, config.SecretKey, "")
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Spaces session: %w", err)
	}

	return newSpacesClient(s3.New(sess), config.Bucket, endpoint), nil
}

func newSpacesClient(api s3iface.S3API, bucket, endpoint string) *SpacesClient {
	return &SpacesClient{
		s3Client: api,
		bucket:   bucket,
		endpoint: strings.TrimPrefix(strings.TrimPrefix(endpoint, "https://"), "http://"),
	}
}

// UploadFile uploads a private object and returns its URL
func (s *SpacesClient) UploadFile(ctx context.Context, key string, data io.ReadSeeker, contentType string) (string, error) {
	_, err := s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        data,
		ACL:         aws.String(s3.ObjectCannedACLPrivate),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return fmt.Sprintf("https://%s.%s/%s", s.bucket, s.endpoint, key), nil
}
