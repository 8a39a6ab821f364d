package snippets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3API is the subset of the S3 client used by S3Store. *s3.Client
// satisfies it.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Config describes the bucket used by an S3Store.
type S3Config struct {
	Bucket string
	Prefix string
	Region string

	// Endpoint overrides the S3 endpoint, e.g. for MinIO.
	Endpoint     string
	UsePathStyle bool

	// Static credentials. When empty the default AWS credential chain
	// (environment, shared config, instance role) is used.
	AccessKeyID     string
	SecretAccessKey string
}

// S3Store stores snippets as JSON objects in an S3 bucket.
//
// Example usage:
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	store := snippets.NewS3Store(s3.NewFromConfig(cfg), "my-bucket", "snippets/")
type S3Store struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Store creates a new S3 snippet store.
//
// Parameters:
//   - client: S3 client from aws-sdk-go-v2 (or a test double)
//   - bucket: S3 bucket name
//   - prefix: Key prefix for snippets (e.g., "emmet/snippets/")
func NewS3Store(client S3API, bucket, prefix string) *S3Store {
	return &S3Store{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// NewS3StoreFromConfig builds an S3 client from cfg and wraps it in a store.
func NewS3StoreFromConfig(ctx context.Context, cfg S3Config) (*S3Store, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	return NewS3Store(client, cfg.Bucket, cfg.Prefix), nil
}

// Save uploads s as <prefix><id>.json.
func (s *S3Store) Save(ctx context.Context, sn *Snippet) (string, error) {
	if err := prepare(sn); err != nil {
		return "", err
	}

	data, err := json.Marshal(sn)
	if err != nil {
		return "", err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(sn.ID)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"created-at": sn.CreatedAt.Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("s3 put failed: %w", err)
	}

	return sn.ID, nil
}

// Get downloads and decodes a snippet.
func (s *S3Store) Get(ctx context.Context, id string) (*Snippet, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	return s.load(ctx, s.key(id))
}

// List downloads every snippet under the prefix, newest first.
func (s *S3Store) List(ctx context.Context) ([]*Snippet, error) {
	var list []*Snippet
	err := s.walk(ctx, func(key string, _ time.Time) error {
		sn, err := s.load(ctx, key)
		if errors.Is(err, ErrNotFound) {
			// Deleted between list and get.
			return nil
		}
		if err != nil {
			return err
		}
		list = append(list, sn)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortNewest(list)
	return list, nil
}

// Delete removes a snippet object. S3 deletes are idempotent, so the
// object is looked up first to report ErrNotFound.
func (s *S3Store) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	key := s.key(id)

	if _, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("s3 head failed: %w", err)
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("s3 delete failed: %w", err)
	}
	return nil
}

// Cleanup removes snippet objects last modified more than maxAge ago.
func (s *S3Store) Cleanup(ctx context.Context, maxAge time.Duration) error {
	cutoff := time.Now().Add(-maxAge)

	var toDelete []string
	err := s.walk(ctx, func(key string, modified time.Time) error {
		if modified.Before(cutoff) {
			toDelete = append(toDelete, key)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, key := range toDelete {
		if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		}); err != nil {
			return fmt.Errorf("s3 delete failed: %w", err)
		}
	}
	return nil
}

func (s *S3Store) key(id string) string {
	return s.prefix + id + snippetExt
}

// walk visits every snippet object under the prefix.
func (s *S3Store) walk(ctx context.Context, fn func(key string, modified time.Time) error) error {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("s3 list failed: %w", err)
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			id, ok := strings.CutSuffix(strings.TrimPrefix(key, s.prefix), snippetExt)
			if !ok || !validID(id) {
				continue
			}
			if err := fn(key, aws.ToTime(obj.LastModified)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *S3Store) load(ctx context.Context, key string) (*Snippet, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("s3 get failed: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, err
	}
	var sn Snippet
	if err := json.Unmarshal(data, &sn); err != nil {
		return nil, err
	}
	return &sn, nil
}

// isNotFound recognizes missing-object errors from GetObject and HeadObject.
func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
