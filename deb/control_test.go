package deb

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blakesmith/ar"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

const sampleControl = `Package: hello
Version: 2.10-3build1
Architecture: amd64
Depends: libc6 (>= 2.34), libx11-6
Description: example package
 The friendly GNU hello.
`

// buildControlTar produces a tarball holding ./control with the given data.
func buildControlTar(t *testing.T, control string) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	if err := tw.WriteHeader(&tar.Header{
		Name: "./control",
		Mode: 0o644,
		Size: int64(len(control)),
	}); err != nil {
		t.Fatalf("tar header: %v", err)
	}
	if _, err := tw.Write([]byte(control)); err != nil {
		t.Fatalf("tar write: %v", err)
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("tar close: %v", err)
	}
	return buf.Bytes()
}

// compressMember compresses the tarball per the member suffix.
func compressMember(t *testing.T, name string, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	var w io.WriteCloser
	var err error
	switch filepath.Ext(name) {
	case ".gz":
		w = gzip.NewWriter(&buf)
	case ".xz":
		w, err = xz.NewWriter(&buf)
	case ".zst":
		w, err = zstd.NewWriter(&buf)
	case ".tar":
		return data
	default:
		t.Fatalf("unexpected member name %q", name)
	}
	if err != nil {
		t.Fatalf("compressor for %s: %v", name, err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("compress write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("compress close: %v", err)
	}
	return buf.Bytes()
}

// writeDeb assembles a minimal .deb on disk and returns its path.
func writeDeb(t *testing.T, member string, control string) string {
	t.Helper()
	payload := compressMember(t, member, buildControlTar(t, control))

	var buf bytes.Buffer
	w := ar.NewWriter(&buf)
	if err := w.WriteGlobalHeader(); err != nil {
		t.Fatalf("ar global header: %v", err)
	}
	for _, m := range []struct {
		name string
		data []byte
	}{
		{"debian-binary", []byte("2.0\n")},
		{member, payload},
	} {
		hdr := &ar.Header{
			Name:    m.name,
			ModTime: time.Unix(0, 0),
			Mode:    0o644,
			Size:    int64(len(m.data)),
		}
		if err := w.WriteHeader(hdr); err != nil {
			t.Fatalf("ar header %s: %v", m.name, err)
		}
		if _, err := w.Write(m.data); err != nil {
			t.Fatalf("ar write %s: %v", m.name, err)
		}
	}

	path := filepath.Join(t.TempDir(), "hello_2.10-3build1_amd64.deb")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write deb: %v", err)
	}
	return path
}

func TestReadControlCompressionVariants(t *testing.T) {
	for _, member := range []string{"control.tar.gz", "control.tar.xz", "control.tar.zst", "control.tar"} {
		t.Run(member, func(t *testing.T) {
			path := writeDeb(t, member, sampleControl)
			ctrl, err := ReadControl(path)
			if err != nil {
				t.Fatalf("ReadControl failed: %v", err)
			}
			if got := ctrl.Get("Package"); got != "hello" {
				t.Errorf("Package = %q, want %q", got, "hello")
			}
			if got := ctrl.Depends(); got != "libc6 (>= 2.34), libx11-6" {
				t.Errorf("Depends = %q", got)
			}
		})
	}
}

func TestReadControlContinuationLines(t *testing.T) {
	path := writeDeb(t, "control.tar.gz", sampleControl)
	ctrl, err := ReadControl(path)
	if err != nil {
		t.Fatalf("ReadControl failed: %v", err)
	}
	want := "example package\nThe friendly GNU hello."
	if got := ctrl.Get("Description"); got != want {
		t.Errorf("Description = %q, want %q", got, want)
	}
}

func TestReadControlMissingDepends(t *testing.T) {
	path := writeDeb(t, "control.tar.gz", "Package: standalone\nVersion: 1.0\n")
	ctrl, err := ReadControl(path)
	if err != nil {
		t.Fatalf("ReadControl failed: %v", err)
	}
	if got := ctrl.Depends(); got != "" {
		t.Errorf("Depends = %q, want empty", got)
	}
	if names := ParseDepends(ctrl.Depends()); len(names) != 0 {
		t.Errorf("ParseDepends = %v, want empty", names)
	}
}

func TestReadControlNotAnArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.deb")
	if err := os.WriteFile(path, []byte("not an ar archive"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadControl(path); err == nil {
		t.Error("ReadControl on junk input should fail")
	}
}

func TestReadControlMissingFile(t *testing.T) {
	if _, err := ReadControl(filepath.Join(t.TempDir(), "absent.deb")); err == nil {
		t.Error("ReadControl on a missing file should fail")
	}
}

func TestControlReaderDependencyDeclaration(t *testing.T) {
	path := writeDeb(t, "control.tar.gz", sampleControl)
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()

	decl, err := ControlReader{}.DependencyDeclaration(f)
	if err != nil {
		t.Fatalf("DependencyDeclaration failed: %v", err)
	}
	if decl != "libc6 (>= 2.34), libx11-6" {
		t.Errorf("declaration = %q", decl)
	}
}

func TestGetIsCaseInsensitive(t *testing.T) {
	ctrl := parseFields("Depends: libc6\n")
	if got := ctrl.Get("depends"); got != "libc6" {
		t.Errorf("Get(depends) = %q, want libc6", got)
	}
}
