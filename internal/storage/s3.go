// Package storage talks to the destination bucket. It wraps the AWS SDK S3
// client behind a small surface: a freshness query (HEAD) and a conditional
// streaming upload (PUT).
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/klauern/s3up/internal/logging"
)

// S3API is the subset of the S3 client the store needs. Tests substitute a
// stub implementation.
type S3API interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Config holds the settings needed to reach the bucket.
type Config struct {
	Bucket          string
	Region          string
	EndpointURL     string
	AccessKeyID     string
	SecretAccessKey string
	ACL             types.ObjectCannedACL
}

// Store uploads objects to a single bucket under a fixed canned ACL.
type Store struct {
	client S3API
	bucket string
	acl    types.ObjectCannedACL
}

// New builds a Store from credentials and bucket settings. A non-empty
// EndpointURL switches to path-style addressing for MinIO-compatible stores.
func New(ctx context.Context, cfg Config) (*Store, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			// Path-style addressing is needed for MinIO.
			o.UsePathStyle = true
		}
	})

	return NewFromClient(client, cfg.Bucket, cfg.ACL), nil
}

// NewFromClient wires a Store to an existing S3 client.
func NewFromClient(client S3API, bucket string, acl types.ObjectCannedACL) *Store {
	return &Store{
		client: client,
		bucket: bucket,
		acl:    acl,
	}
}

// Bucket returns the destination bucket name.
func (s *Store) Bucket() string {
	return s.bucket
}

// LastModified queries the remote last-modified time for key. The second
// return value is false when the key does not exist; any other HEAD failure
// is returned as an error.
func (s *Store) LastModified(ctx context.Context, key string) (time.Time, bool, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("head s3://%s/%s: %w", s.bucket, key, err)
	}

	if out.LastModified == nil {
		return time.Time{}, false, nil
	}
	return *out.LastModified, true, nil
}

// UpToDate reports whether the object at key is at least as new as mtime.
// A missing remote object is never up to date. Ties count as up to date so
// coinciding timestamps do not cause redundant uploads.
func (s *Store) UpToDate(ctx context.Context, key string, mtime time.Time) (bool, error) {
	remote, found, err := s.LastModified(ctx, key)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	return !mtime.After(remote), nil
}

// Upload streams the file at path to key under the configured ACL, with the
// content type inferred from the file.
func (s *Store) Upload(ctx context.Context, key, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	contentType := DetectContentType(path)
	logging.Debug("putting object",
		logging.Bucket(s.bucket), logging.Object(key), "content_type", contentType)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        f,
		ACL:         s.acl,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("upload %s to s3://%s/%s: %w", path, s.bucket, key, err)
	}

	return nil
}
