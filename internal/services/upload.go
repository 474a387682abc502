package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const uploadURLExpiry = 5 * time.Minute

// UploadService issues pre-signed S3 upload slots for check-in photos. The
// object store is an external collaborator: this service only hands out the
// slot and the public URL the caller will later submit with the check-in.
type UploadService struct {
	presignClient *s3.PresignClient
	bucket        string
	region        string
	endpoint      string
}

// NewUploadService creates a new upload service
func NewUploadService(ctx context.Context, region, bucket, accessKey, secretKey, endpoint string) (*UploadService, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if accessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &UploadService{
		presignClient: s3.NewPresignClient(client),
		bucket:        bucket,
		region:        region,
		endpoint:      endpoint,
	}, nil
}

// UploadSlot is a pre-signed PUT slot plus the public URL the object will
// have once uploaded
type UploadSlot struct {
	Path      string `json:"path"`
	UploadURL string `json:"uploadUrl"`
	PublicURL string `json:"publicUrl"`
	ExpiresIn int    `json:"expiresIn"`
}

// CreateUploadSlot pre-signs a PUT for a new photo under the user's prefix
func (s *UploadService) CreateUploadSlot(ctx context.Context, userID, contentType string) (*UploadSlot, error) {
	if contentType == "" {
		contentType = "image/jpeg"
	}
	key := fmt.Sprintf("checkins/%s/%d.jpg", userID, time.Now().UnixMilli())

	request, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = uploadURLExpiry
	})
	if err != nil {
		return nil, fmt.Errorf("failed to pre-sign upload: %w", err)
	}

	return &UploadSlot{
		Path:      key,
		UploadURL: request.URL,
		PublicURL: s.publicURL(key),
		ExpiresIn: int(uploadURLExpiry.Seconds()),
	}, nil
}

func (s *UploadService) publicURL(key string) string {
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.endpoint, "/"), s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
