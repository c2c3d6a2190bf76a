package pkgblob

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func TestLocalPut(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	l, err := NewLocal(dir)
	if err != nil {
		t.Fatalf("new local: %v", err)
	}

	key, err := l.Put(context.Background(), "photo_1.jpg", "image/jpeg", strings.NewReader("jpeg"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if key != "photo_1.jpg" {
		t.Fatalf("unexpected key %q", key)
	}

	raw, err := os.ReadFile(filepath.Join(dir, key))
	if err != nil || string(raw) != "jpeg" {
		t.Fatalf("unexpected file content %q (%v)", raw, err)
	}

	key, err = l.Put(context.Background(), "../../etc/passwd", "text/plain", strings.NewReader("x"))
	if err != nil || key != "passwd" {
		t.Fatalf("expected key confined to root, got %q (%v)", key, err)
	}
}

type fakeS3 struct {
	in   *s3.PutObjectInput
	body string
	err  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	raw, _ := io.ReadAll(in.Body)
	f.body = string(raw)
	return &s3.PutObjectOutput{}, f.err
}

func TestS3Put(t *testing.T) {
	fake := &fakeS3{}
	s := NewS3(fake, "bucket", "uploads/")

	key, err := s.Put(context.Background(), "photo_1.jpg", "image/jpeg", strings.NewReader("jpeg"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if key != "photo_1.jpg" || aws.ToString(fake.in.Key) != "uploads/photo_1.jpg" || fake.body != "jpeg" {
		t.Fatalf("unexpected put: key=%q s3key=%q body=%q", key, aws.ToString(fake.in.Key), fake.body)
	}

	fake.err = errors.New("denied")
	if _, err := s.Put(context.Background(), "x", "image/png", strings.NewReader("")); !errors.Is(err, fake.err) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
