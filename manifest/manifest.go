// Package manifest records the outcome of one download run as a msgpack
// report on disk, so later runs and tooling can inspect what was fetched
// without re-resolving anything.
package manifest

import (
	"fmt"
	"os"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/pithecene-io/debfetch/metrics"
	"github.com/pithecene-io/debfetch/types"
)

// Artifact is one downloaded (or skipped) file and where it ended up.
type Artifact struct {
	Name     string `json:"name" msgpack:"name"`
	Location string `json:"location" msgpack:"location"`
}

// Report is the persisted outcome of one download run.
type Report struct {
	// Tool is the debfetch version that produced this report.
	Tool string `json:"tool" msgpack:"tool"`

	// Request coordinates.
	Package string `json:"package" msgpack:"package"`
	Version string `json:"version" msgpack:"version"`
	Series  string `json:"series" msgpack:"series"`
	Arch    string `json:"arch" msgpack:"arch"`

	WithDependencies bool `json:"with_dependencies" msgpack:"with_dependencies"`
	Depth            int  `json:"depth" msgpack:"depth"`

	Artifacts    []Artifact `json:"artifacts" msgpack:"artifacts"`
	Dependencies []string   `json:"dependencies" msgpack:"dependencies"`

	Metrics metrics.Snapshot `json:"metrics" msgpack:"metrics"`

	StartedAt  time.Time `json:"started_at" msgpack:"started_at"`
	FinishedAt time.Time `json:"finished_at" msgpack:"finished_at"`
}

// New starts a report for the given request with the clock running.
func New(req types.Request, withDeps bool, depth int) *Report {
	return &Report{
		Tool:             types.Version,
		Package:          req.Name,
		Version:          req.Version,
		Series:           req.Series,
		Arch:             req.Arch,
		WithDependencies: withDeps,
		Depth:            depth,
		StartedAt:        time.Now().UTC(),
	}
}

// Finish stamps the end time and the final traversal metrics.
func (r *Report) Finish(snap metrics.Snapshot) {
	r.Metrics = snap
	r.FinishedAt = time.Now().UTC()
}

// Duration is the wall-clock span of the run.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Write encodes the report as msgpack at path, replacing any previous file.
func (r *Report) Write(path string) error {
	data, err := msgpack.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// Read decodes a msgpack report from path.
func Read(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var report Report
	if err := msgpack.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", path, err)
	}
	return &report, nil
}
