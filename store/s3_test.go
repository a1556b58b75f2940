package store

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// stubS3 is an in-memory s3API.
type stubS3 struct {
	objects map[string][]byte
}

func newStubS3() *stubS3 {
	return &stubS3{objects: make(map[string][]byte)}
}

func (s *stubS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if _, ok := s.objects[*in.Key]; !ok {
		return nil, &s3types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (s *stubS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	s.objects[*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (s *stubS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := s.objects[*in.Key]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestS3StoreKeyPrefixing(t *testing.T) {
	s := newS3StoreWithClient(newStubS3(), "mirror", "pool/")
	if got := s.key("x.deb"); got != "pool/x.deb" {
		t.Errorf("key = %q, want pool/x.deb", got)
	}
	if got := s.Location("x.deb"); got != "s3://mirror/pool/x.deb" {
		t.Errorf("Location = %q", got)
	}

	bare := newS3StoreWithClient(newStubS3(), "mirror", "")
	if got := bare.key("x.deb"); got != "x.deb" {
		t.Errorf("key without prefix = %q", got)
	}
}

func TestS3StorePutExistsOpen(t *testing.T) {
	ctx := context.Background()
	s := newS3StoreWithClient(newStubS3(), "mirror", "pool")

	ok, err := s.Exists(ctx, "x.deb")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if ok {
		t.Error("Exists = true before Put")
	}

	if err := s.Put(ctx, "x.deb", []byte("deb bytes")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	ok, err = s.Exists(ctx, "x.deb")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !ok {
		t.Error("Exists = false after Put")
	}

	rc, err := s.Open(ctx, "x.deb")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "deb bytes" {
		t.Errorf("stored bytes = %q", data)
	}
}

func TestParseS3Path(t *testing.T) {
	bucket, prefix := ParseS3Path("mirror/pool/noble")
	if bucket != "mirror" || prefix != "pool/noble" {
		t.Errorf("ParseS3Path = %q, %q", bucket, prefix)
	}
	bucket, prefix = ParseS3Path("mirror")
	if bucket != "mirror" || prefix != "" {
		t.Errorf("ParseS3Path bare = %q, %q", bucket, prefix)
	}
}
