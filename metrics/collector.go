// Package metrics provides per-run metrics collection for a download
// traversal.
//
// The Collector accumulates counters during a single top-level download.
// It is a leaf package with no internal dependencies. All increment methods
// are nil-receiver safe so callers can run without metrics wired.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of the traversal counters.
// Returned by Collector.Snapshot(). Safe to read concurrently after creation.
type Snapshot struct {
	// Archive lookups
	Lookups  int64 `json:"lookups" msgpack:"lookups"`
	NotFound int64 `json:"not_found" msgpack:"not_found"`

	// Artifact fetches
	ArtifactsFetched  int64 `json:"artifacts_fetched" msgpack:"artifacts_fetched"`
	ArtifactsSkipped  int64 `json:"artifacts_skipped" msgpack:"artifacts_skipped"`
	BytesFetched      int64 `json:"bytes_fetched" msgpack:"bytes_fetched"`
	MetadataFailures  int64 `json:"metadata_failures" msgpack:"metadata_failures"`
	DependenciesSeen  int64 `json:"dependencies_seen" msgpack:"dependencies_seen"`
	BranchesFollowed  int64 `json:"branches_followed" msgpack:"branches_followed"`
	BranchesExhausted int64 `json:"branches_exhausted" msgpack:"branches_exhausted"`

	// Dimensions (informational, set at construction)
	Package        string `json:"package" msgpack:"package"`
	Series         string `json:"series" msgpack:"series"`
	Arch           string `json:"arch" msgpack:"arch"`
	StorageBackend string `json:"storage_backend" msgpack:"storage_backend"`
}

// Collector accumulates counters during a single download traversal.
// Thread-safe via sync.Mutex.
type Collector struct {
	mu sync.Mutex

	lookups  int64
	notFound int64

	artifactsFetched  int64
	artifactsSkipped  int64
	bytesFetched      int64
	metadataFailures  int64
	dependenciesSeen  int64
	branchesFollowed  int64
	branchesExhausted int64

	pkg            string
	series         string
	arch           string
	storageBackend string
}

// NewCollector creates a Collector with dimension labels for the
// top-level request.
func NewCollector(pkg, series, arch, storageBackend string) *Collector {
	return &Collector{
		pkg:            pkg,
		series:         series,
		arch:           arch,
		storageBackend: storageBackend,
	}
}

// IncLookup records one archive publication lookup.
func (c *Collector) IncLookup() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.lookups++
	c.mu.Unlock()
}

// IncNotFound records a lookup that matched nothing.
func (c *Collector) IncNotFound() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.notFound++
	c.mu.Unlock()
}

// IncArtifactFetched records a byte download of n bytes.
func (c *Collector) IncArtifactFetched(n int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.artifactsFetched++
	c.bytesFetched += n
	c.mu.Unlock()
}

// IncArtifactSkipped records a fetch satisfied by presence in the store.
func (c *Collector) IncArtifactSkipped() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.artifactsSkipped++
	c.mu.Unlock()
}

// IncMetadataFailure records an artifact whose metadata could not be read.
func (c *Collector) IncMetadataFailure() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.metadataFailures++
	c.mu.Unlock()
}

// AddDependenciesSeen records n dependency names extracted from one
// publication.
func (c *Collector) AddDependenciesSeen(n int) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.dependenciesSeen += int64(n)
	c.mu.Unlock()
}

// IncBranchFollowed records one recursive descent into a dependency.
func (c *Collector) IncBranchFollowed() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.branchesFollowed++
	c.mu.Unlock()
}

// IncBranchExhausted records recursion skipped because the depth budget
// ran out.
func (c *Collector) IncBranchExhausted() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.branchesExhausted++
	c.mu.Unlock()
}

// Snapshot returns an immutable copy of all counters.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Lookups:           c.lookups,
		NotFound:          c.notFound,
		ArtifactsFetched:  c.artifactsFetched,
		ArtifactsSkipped:  c.artifactsSkipped,
		BytesFetched:      c.bytesFetched,
		MetadataFailures:  c.metadataFailures,
		DependenciesSeen:  c.dependenciesSeen,
		BranchesFollowed:  c.branchesFollowed,
		BranchesExhausted: c.branchesExhausted,
		Package:           c.pkg,
		Series:            c.series,
		Arch:              c.arch,
		StorageBackend:    c.storageBackend,
	}
}
