// Package pkgblob stores uploaded files.
package pkgblob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Storage puts a blob under key and returns the key clients can fetch it by.
type Storage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// Local writes blobs into a directory on disk.
type Local struct {
	dir string
}

// NewLocal returns a Local storage rooted at dir, creating it if needed.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("blob: create %s: %w", dir, err)
	}
	return &Local{dir: dir}, nil
}

// Dir is the root directory.
func (l *Local) Dir() string {
	return l.dir
}

// Put implements Storage. Keys may not escape the root directory.
func (l *Local) Put(_ context.Context, key, _ string, body io.Reader) (string, error) {
	name := filepath.Base(filepath.Clean("/" + key))
	if name == "/" || name == "." || strings.HasPrefix(name, "..") {
		return "", fmt.Errorf("blob: invalid key %q", key)
	}

	f, err := os.Create(filepath.Join(l.dir, name))
	if err != nil {
		return "", fmt.Errorf("blob: create %s: %w", name, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		return "", fmt.Errorf("blob: write %s: %w", name, err)
	}
	return name, nil
}

// S3Client is the part of the S3 API the storage needs.
type S3Client interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 writes blobs into a bucket under an optional prefix.
type S3 struct {
	client S3Client
	bucket string
	prefix string
}

// NewS3 returns an S3 storage.
func NewS3(client S3Client, bucket, prefix string) *S3 {
	return &S3{client: client, bucket: bucket, prefix: prefix}
}

// Put implements Storage.
func (s *S3) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	full := s.prefix + key
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(full),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("blob: put s3://%s/%s: %w", s.bucket, full, err)
	}
	return key, nil
}
