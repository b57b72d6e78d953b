package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	awsSessionPackage "github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"quiqz/config"
)

// ObjectStore is the blob-storage gateway the image reconciler talks to.
// Keys are hierarchical paths ("quizTitle/slideNo/fileName").
type ObjectStore interface {
	// Upload stores body under key and returns its public download URL.
	Upload(ctx context.Context, key string, body []byte, contentType string) (string, error)
	// List returns every key under the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}

// S3Store implements ObjectStore on an S3 bucket.
type S3Store struct {
	client *s3.S3
	bucket string
	region string
}

func NewS3Store(cfg *config.Config) (*S3Store, error) {
	awsSession, err := awsSessionPackage.NewSession(&aws.Config{
		Region: aws.String(cfg.S3Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWSID,
			cfg.AWSSecret,
			""), // token can be left blank
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create aws session: %w", err)
	}

	return &S3Store{
		client: s3.New(awsSession),
		bucket: cfg.S3Bucket,
		region: cfg.S3Region,
	}, nil
}

func (s *S3Store) Upload(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		ACL:           aws.String("public-read"),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", err
	}
	return s.objectURL(key), nil
}

func (s *S3Store) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	}
	err := s.client.ListObjectsV2PagesWithContext(ctx, input,
		func(page *s3.ListObjectsV2Output, lastPage bool) bool {
			for _, obj := range page.Contents {
				keys = append(keys, aws.StringValue(obj.Key))
			}
			return true
		})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// deleteBatchSize is the DeleteObjects request limit.
const deleteBatchSize = 1000

func (s *S3Store) Delete(ctx context.Context, keys ...string) error {
	for _, batch := range chunkKeys(keys, deleteBatchSize) {
		objects := make([]*s3.ObjectIdentifier, len(batch))
		for i, key := range batch {
			objects[i] = &s3.ObjectIdentifier{Key: aws.String(key)}
		}
		_, err := s.client.DeleteObjectsWithContext(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &s3.Delete{
				Objects: objects,
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func chunkKeys(keys []string, size int) [][]string {
	var chunks [][]string
	for len(keys) > size {
		chunks = append(chunks, keys[:size])
		keys = keys[size:]
	}
	if len(keys) > 0 {
		chunks = append(chunks, keys)
	}
	return chunks
}

func (s *S3Store) objectURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
