package deb

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/blakesmith/ar"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"github.com/pithecene-io/debfetch/iox"
)

// Field is one control file field in declaration order.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Control is the parsed control file of a binary package.
type Control struct {
	fields []Field
}

// Get returns the value of the named field, matching case-insensitively.
// Missing fields return the empty string.
func (c *Control) Get(name string) string {
	for _, f := range c.fields {
		if strings.EqualFold(f.Name, name) {
			return f.Value
		}
	}
	return ""
}

// Fields returns all fields in declaration order.
func (c *Control) Fields() []Field {
	return c.fields
}

// Depends returns the raw Depends declaration, or "" when absent.
// The field is optional per Debian policy.
func (c *Control) Depends() string {
	return c.Get("Depends")
}

// ReadControl opens a .deb file and parses its control file.
func ReadControl(path string) (*Control, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer iox.DiscardClose(f)
	return ParseControl(f)
}

// ParseControl parses the control file out of .deb bytes from r.
func ParseControl(r io.Reader) (*Control, error) {
	return readControl(r)
}

// readControl walks the ar members looking for the control tarball.
func readControl(r io.Reader) (*Control, error) {
	archive := ar.NewReader(r)
	for {
		hdr, err := archive.Next()
		if err == io.EOF {
			return nil, fmt.Errorf("no control.tar member found")
		}
		if err != nil {
			return nil, fmt.Errorf("read ar header: %w", err)
		}

		// ar member names may carry trailing padding or a GNU-style slash.
		name := strings.TrimRight(hdr.Name, " /")
		if !strings.HasPrefix(name, "control.tar") {
			continue
		}

		tarball, err := decompress(name, archive)
		if err != nil {
			return nil, err
		}
		return parseControlTar(tarball)
	}
}

// decompress wraps the control tarball reader according to its suffix.
// dpkg-deb emits gzip by default, xz and zstd on newer toolchains.
func decompress(name string, r io.Reader) (io.Reader, error) {
	switch {
	case strings.HasSuffix(name, ".gz"):
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip %s: %w", name, err)
		}
		return gz, nil
	case strings.HasSuffix(name, ".xz"):
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("xz %s: %w", name, err)
		}
		return xr, nil
	case strings.HasSuffix(name, ".zst"):
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd %s: %w", name, err)
		}
		return zr.IOReadCloser(), nil
	case strings.HasSuffix(name, ".tar"):
		return r, nil
	default:
		return nil, fmt.Errorf("unsupported control tarball compression: %s", name)
	}
}

// parseControlTar finds the control member inside the tarball.
func parseControlTar(r io.Reader) (*Control, error) {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil, fmt.Errorf("control file not found in control tarball")
		}
		if err != nil {
			return nil, fmt.Errorf("read control tarball: %w", err)
		}

		if strings.TrimPrefix(hdr.Name, "./") != "control" {
			continue
		}

		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("read control file: %w", err)
		}
		return parseFields(string(data)), nil
	}
}

// ParseControlText parses bare control file text, without the surrounding
// .deb archive layers.
func ParseControlText(data string) *Control {
	return parseFields(data)
}

// parseFields parses RFC822-style "Name: value" lines. Lines starting with
// a space or tab continue the previous field's value.
func parseFields(data string) *Control {
	ctrl := &Control{}
	for _, line := range strings.Split(data, "\n") {
		if line == "" {
			continue
		}
		if line[0] == ' ' || line[0] == '\t' {
			if n := len(ctrl.fields); n > 0 {
				ctrl.fields[n-1].Value += "\n" + strings.TrimSpace(line)
			}
			continue
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		ctrl.fields = append(ctrl.fields, Field{
			Name:  strings.TrimSpace(name),
			Value: strings.TrimSpace(value),
		})
	}
	return ctrl
}

// ControlReader is the resolver's metadata parser over real .deb bytes.
type ControlReader struct{}

// DependencyDeclaration returns the raw Depends declaration of the artifact
// read from r, or an error if the artifact cannot be parsed. Callers treat
// both the empty string and errors as "no dependencies".
func (ControlReader) DependencyDeclaration(r io.Reader) (string, error) {
	ctrl, err := ParseControl(r)
	if err != nil {
		return "", err
	}
	return ctrl.Depends(), nil
}
