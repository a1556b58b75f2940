package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pithecene-io/debfetch/metrics"
	"github.com/pithecene-io/debfetch/types"
)

func TestReportRoundTrip(t *testing.T) {
	req := types.Request{Name: "hello", Version: types.LatestVersion, Series: "noble", Arch: "amd64"}
	report := New(req, true, 2)
	report.Artifacts = []Artifact{
		{Name: "hello_2.10-3_amd64.deb", Location: "/tmp/hello_2.10-3_amd64.deb"},
	}
	report.Dependencies = []string{"libc6"}

	collector := metrics.NewCollector("hello", "noble", "amd64", "fs")
	collector.IncLookup()
	collector.IncArtifactFetched(1024)
	report.Finish(collector.Snapshot())

	path := filepath.Join(t.TempDir(), "run.manifest")
	if err := report.Write(path); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if got.Tool != types.Version {
		t.Errorf("Tool = %q, want %q", got.Tool, types.Version)
	}
	if got.Package != "hello" || got.Series != "noble" || got.Arch != "amd64" {
		t.Errorf("coordinates = %s/%s/%s, want hello/noble/amd64", got.Package, got.Series, got.Arch)
	}
	if !got.WithDependencies || got.Depth != 2 {
		t.Errorf("traversal params = (%v, %d), want (true, 2)", got.WithDependencies, got.Depth)
	}
	if len(got.Artifacts) != 1 || got.Artifacts[0].Name != "hello_2.10-3_amd64.deb" {
		t.Errorf("Artifacts = %+v", got.Artifacts)
	}
	if got.Metrics.Lookups != 1 || got.Metrics.BytesFetched != 1024 {
		t.Errorf("Metrics = %+v", got.Metrics)
	}
	if got.Duration() < 0 {
		t.Errorf("Duration = %v, want >= 0", got.Duration())
	}
}

func TestReadMissingManifest(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "absent.manifest")); err == nil {
		t.Error("reading a missing manifest should fail")
	}
}

func TestReadCorruptManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.manifest")
	if err := os.WriteFile(path, []byte("\xc1 not msgpack"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(path); err == nil {
		t.Error("reading a corrupt manifest should fail")
	}
}
