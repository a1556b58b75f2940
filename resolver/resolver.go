// Package resolver implements the resolution-and-recursive-fetch core.
//
// A Downloader maps (name, version, series, arch) coordinates to a concrete
// artifact set via the archive directory, fetches artifact bytes with
// skip-if-present semantics, extracts dependency names from the fetched
// artifacts, and optionally descends into those dependencies down to an
// explicit depth bound.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/pithecene-io/debfetch/deb"
	"github.com/pithecene-io/debfetch/launchpad"
	"github.com/pithecene-io/debfetch/log"
	"github.com/pithecene-io/debfetch/metrics"
	"github.com/pithecene-io/debfetch/store"
	"github.com/pithecene-io/debfetch/types"
)

// ErrNotFound signals that no publication matched the resolution
// coordinates, or that the matched publication's build could not be
// loaded. It is an expected outcome, not a fault: a dependency branch
// that resolves to nothing contributes nothing and the traversal goes on.
var ErrNotFound = errors.New("no matching publication")

// MetadataParser extracts a raw dependency declaration from artifact bytes.
// The resolver treats parse failures as "no dependencies", never as faults.
type MetadataParser interface {
	DependencyDeclaration(r io.Reader) (string, error)
}

// Config wires a Downloader's collaborators.
type Config struct {
	// Directory answers publication lookups and serves artifact bytes.
	Directory launchpad.Directory
	// Store persists fetched artifacts; presence there skips a download.
	Store store.Store
	// Parser reads dependency declarations out of stored artifacts.
	// Defaults to deb.ControlReader.
	Parser MetadataParser
	// Logger carries the session context. Required.
	Logger *log.Logger
	// Collector accumulates traversal metrics. Optional (nil-safe).
	Collector *metrics.Collector
}

// Downloader drives one download traversal. Single-threaded and fully
// synchronous: a dependency's metadata is only readable after its bytes
// are stored, so fetch and descent strictly alternate.
type Downloader struct {
	directory launchpad.Directory
	store     store.Store
	parser    MetadataParser
	logger    *log.Logger
	collector *metrics.Collector
}

// NewDownloader creates a Downloader from the given collaborators.
func NewDownloader(cfg Config) (*Downloader, error) {
	if cfg.Directory == nil {
		return nil, errors.New("resolver: directory is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("resolver: store is required")
	}
	if cfg.Logger == nil {
		return nil, errors.New("resolver: logger is required")
	}
	parser := cfg.Parser
	if parser == nil {
		parser = deb.ControlReader{}
	}
	return &Downloader{
		directory: cfg.Directory,
		store:     cfg.Store,
		parser:    parser,
		logger:    cfg.Logger,
		collector: cfg.Collector,
	}, nil
}

// Result is the outcome of one Download call.
type Result struct {
	// Artifacts are the local artifact names produced by this call and
	// its descendants, in fetch order, deduplicated by name.
	Artifacts []string
	// Dependencies is the sorted, deduplicated dependency name set
	// extracted from this call's own publication (descendants excluded).
	Dependencies []string
}

// Download resolves and fetches the artifacts for req. When withDeps is
// true and depth permits, it recursively downloads each extracted
// dependency at the newest published version.
//
// The depth parameter is the remaining recursion budget, passed by value:
// each descent gets depth-1, so siblings at a level share the same bound.
// depth 0 fetches req's own artifacts and descends no further. Negative
// depth is rejected before any network activity.
//
// A branch that resolves to nothing returns ErrNotFound; for recursive
// branches the caller skips it and keeps going. Transport and storage
// faults abort the whole traversal.
func (d *Downloader) Download(ctx context.Context, req types.Request, withDeps bool, depth int) (*Result, error) {
	if depth < 0 {
		return nil, fmt.Errorf("recursion depth cannot be negative: %d", depth)
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	pub, err := d.locate(ctx, req)
	if err != nil {
		return nil, err
	}

	urls, err := d.directory.BinaryFileURLs(ctx, *pub)
	if err != nil {
		return nil, err
	}

	d.logger.Debug("downloading publication artifacts", map[string]any{
		"package":   req.Name,
		"version":   pub.BinaryPackageVersion,
		"series":    req.Series,
		"arch":      req.Arch,
		"artifacts": len(urls),
	})

	result := &Result{}
	seen := make(map[string]bool)
	for _, u := range urls {
		name, err := d.fetch(ctx, u)
		if err != nil {
			return nil, err
		}
		if !seen[name] {
			seen[name] = true
			result.Artifacts = append(result.Artifacts, name)
		}
	}

	// Dependency discovery requires the bytes to be stored already; this
	// stays strictly after the fetch loop.
	depSet := d.extractDependencies(ctx, req, result.Artifacts)
	result.Dependencies = sortedNames(depSet)
	d.collector.AddDependenciesSeen(len(result.Dependencies))

	if !withDeps {
		d.logger.Debug("dependency download not requested", map[string]any{
			"package":      req.Name,
			"dependencies": result.Dependencies,
		})
		return result, nil
	}

	if depth <= 0 {
		if len(result.Dependencies) > 0 {
			d.collector.IncBranchExhausted()
			d.logger.Debug("recursion budget exhausted, not downloading dependencies", map[string]any{
				"package":      req.Name,
				"dependencies": result.Dependencies,
			})
		}
		return result, nil
	}

	for _, dep := range result.Dependencies {
		d.collector.IncBranchFollowed()
		d.logger.Debug("recursively downloading dependency", map[string]any{
			"package":    req.Name,
			"dependency": dep,
			"depth":      depth - 1,
		})

		childReq := types.Request{
			Name:    dep,
			Version: types.LatestVersion,
			Series:  req.Series,
			Arch:    req.Arch,
		}
		child, err := d.Download(ctx, childReq, true, depth-1)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		for _, name := range child.Artifacts {
			if !seen[name] {
				seen[name] = true
				result.Artifacts = append(result.Artifacts, name)
			}
		}
	}

	return result, nil
}

// extractDependencies unions the dependency names declared by each stored
// artifact of one publication. Unreadable metadata means zero dependencies
// for that artifact, silently (logged and counted, never an error).
func (d *Downloader) extractDependencies(ctx context.Context, req types.Request, names []string) map[string]bool {
	set := make(map[string]bool)
	for _, name := range names {
		decl, err := d.readDeclaration(ctx, name)
		if err != nil {
			d.collector.IncMetadataFailure()
			d.logger.Warn("dependency metadata unreadable, treating as none", map[string]any{
				"package":  req.Name,
				"artifact": name,
				"error":    err.Error(),
			})
			continue
		}
		for _, dep := range deb.ParseDepends(decl) {
			set[dep] = true
		}
	}
	return set
}

func (d *Downloader) readDeclaration(ctx context.Context, name string) (string, error) {
	rc, err := d.store.Open(ctx, name)
	if err != nil {
		return "", err
	}
	defer func() { _ = rc.Close() }()
	return d.parser.DependencyDeclaration(rc)
}

func sortedNames(set map[string]bool) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
