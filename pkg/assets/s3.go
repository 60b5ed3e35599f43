package assets

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store fetches assets from an S3 bucket, for deployments that publish
// the template bundle to object storage instead of shipping it on disk.
//
// Example:
//
//	client := s3.New(s3.Options{Region: "ap-northeast-1"})
//	store := assets.NewS3Store(client, "event-assets", "templates/")
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Store creates an S3-backed asset store.
//
// Parameters:
//   - client: AWS S3 client from aws-sdk-go-v2
//   - bucket: S3 bucket name
//   - prefix: key prefix for assets (e.g. "templates/")
func NewS3Store(client *s3.Client, bucket, prefix string) *S3Store {
	return &S3Store{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// Fetch downloads the object at prefix+assetPath.
func (s *S3Store) Fetch(ctx context.Context, assetPath string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + assetPath),
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}
