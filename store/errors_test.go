package store

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"enoent", errors.New("open x.deb: no such file or directory"), ErrNotFound},
		{"s3 missing key", errors.New("api error NoSuchKey"), ErrNotFound},
		{"eacces", errors.New("open x.deb: permission denied"), ErrPermissionDenied},
		{"s3 forbidden", errors.New("api error AccessDenied: Forbidden"), ErrPermissionDenied},
		{"enospc", errors.New("write x.deb: no space left on device"), ErrDiskFull},
		{"deadline", errors.New("context deadline exceeded"), ErrTimeout},
		{"throttle", errors.New("api error SlowDown"), ErrThrottled},
		{"credentials", errors.New("no EC2 IMDS role found, NoCredentialProviders"), ErrAuth},
		{"refused", errors.New("dial tcp 127.0.0.1:443: connection refused"), ErrNetwork},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := wrap("put", "x.deb", tc.err)
			if !errors.Is(wrapped, tc.want) {
				t.Errorf("classify(%v): errors.Is(%v) = false", tc.err, tc.want)
			}
		})
	}
}

func TestWrapNil(t *testing.T) {
	if err := wrap("put", "x.deb", nil); err != nil {
		t.Errorf("wrap(nil) = %v, want nil", err)
	}
}

func TestStorageErrorChain(t *testing.T) {
	underlying := fmt.Errorf("open: %w", errors.New("permission denied"))
	wrapped := wrap("open", "x.deb", underlying)

	var se *StorageError
	if !errors.As(wrapped, &se) {
		t.Fatal("errors.As(*StorageError) = false")
	}
	if se.Op != "open" || se.Name != "x.deb" {
		t.Errorf("Op/Name = %q/%q", se.Op, se.Name)
	}
	if !errors.Is(wrapped, underlying) {
		t.Error("underlying error lost from chain")
	}
}
