package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "debfetch.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
launchpad:
  consumer: mirror-sync
  service_root: production
  version: devel
  distribution: ubuntu
defaults:
  series: noble
  arch: arm64
  with_dependencies: true
  depth: 3
storage:
  backend: s3
  bucket: deb-mirror
  prefix: pool
  region: eu-west-1
adapter:
  type: webhook
  url: https://hooks.example.com/debs
  headers:
    Authorization: Bearer abc
  timeout: 15s
  retries: 2
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Launchpad.Consumer != "mirror-sync" {
		t.Errorf("consumer = %q", cfg.Launchpad.Consumer)
	}
	if cfg.Defaults.Series != "noble" || cfg.Defaults.Arch != "arm64" {
		t.Errorf("defaults = %+v", cfg.Defaults)
	}
	if cfg.Defaults.Depth == nil || *cfg.Defaults.Depth != 3 {
		t.Errorf("depth = %v, want 3", cfg.Defaults.Depth)
	}
	if cfg.Defaults.WithDependencies == nil || !*cfg.Defaults.WithDependencies {
		t.Errorf("with_dependencies = %v, want true", cfg.Defaults.WithDependencies)
	}
	if cfg.Storage.Backend != "s3" || cfg.Storage.Bucket != "deb-mirror" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Adapter.Timeout.Duration != 15*time.Second {
		t.Errorf("adapter timeout = %v, want 15s", cfg.Adapter.Timeout.Duration)
	}
	if cfg.Adapter.Retries == nil || *cfg.Adapter.Retries != 2 {
		t.Errorf("adapter retries = %v, want 2", cfg.Adapter.Retries)
	}
	if cfg.Adapter.Headers["Authorization"] != "Bearer abc" {
		t.Errorf("headers = %v", cfg.Adapter.Headers)
	}
}

func TestLoad_EmptyConfigIsValid(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Backend != "" {
		t.Errorf("backend = %q, want empty", cfg.Storage.Backend)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "storage: [")); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoad_UnknownBackend(t *testing.T) {
	if _, err := Load(writeConfig(t, "storage:\n  backend: gcs\n")); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestLoad_UnknownAdapterType(t *testing.T) {
	if _, err := Load(writeConfig(t, "adapter:\n  type: kafka\n")); err == nil {
		t.Fatal("expected error for unknown adapter type")
	}
}

func TestLoad_NegativeDepth(t *testing.T) {
	if _, err := Load(writeConfig(t, "defaults:\n  depth: -1\n")); err == nil {
		t.Fatal("expected error for negative depth")
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	if _, err := Load(writeConfig(t, "adapter:\n  timeout: soon\n")); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("DEBFETCH_TEST_BUCKET", "expanded-bucket")

	cfg, err := Load(writeConfig(t, `
storage:
  backend: s3
  bucket: ${DEBFETCH_TEST_BUCKET}
  region: ${DEBFETCH_TEST_REGION:-us-east-1}
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Bucket != "expanded-bucket" {
		t.Errorf("bucket = %q, want expanded-bucket", cfg.Storage.Bucket)
	}
	if cfg.Storage.Region != "us-east-1" {
		t.Errorf("region = %q, want default us-east-1", cfg.Storage.Region)
	}
}
