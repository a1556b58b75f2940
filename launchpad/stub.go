package launchpad

import (
	"context"
	"fmt"
	"sync"

	"github.com/pithecene-io/debfetch/types"
)

// StubDirectory is an in-memory Directory for testing. It records calls
// and serves canned records keyed by package name, publication link, and
// artifact URL.
type StubDirectory struct {
	mu sync.Mutex

	// Publications keyed by package name.
	Publications map[string][]types.Publication
	// FileURLs keyed by publication self link.
	FileURLs map[string][]string
	// Builds keyed by build link.
	Builds map[string]*types.Build
	// Artifacts keyed by artifact URL.
	Artifacts map[string][]byte

	// Injected failures. Nil means the canned data is served.
	LookupErr error
	FetchErr  error

	// Call records for assertions.
	Lookups []types.Request
	Fetches []string
}

// NewStubDirectory creates an empty stub.
func NewStubDirectory() *StubDirectory {
	return &StubDirectory{
		Publications: make(map[string][]types.Publication),
		FileURLs:     make(map[string][]string),
		Builds:       make(map[string]*types.Build),
		Artifacts:    make(map[string][]byte),
	}
}

// AddPackage wires a single-publication package with one build and the
// given artifact URLs, each serving data.
func (d *StubDirectory) AddPackage(name, version string, artifacts map[string][]byte) {
	selfLink := fmt.Sprintf("https://stub/publication/%s", name)
	buildLink := fmt.Sprintf("https://stub/build/%s", name)

	d.Publications[name] = []types.Publication{{
		SelfLink:             selfLink,
		BuildLink:            buildLink,
		BinaryPackageName:    name,
		BinaryPackageVersion: version,
		Status:               "Published",
	}}
	d.Builds[buildLink] = &types.Build{SelfLink: buildLink, ArchTag: "amd64", Title: name + " build"}

	for url, data := range artifacts {
		d.FileURLs[selfLink] = append(d.FileURLs[selfLink], url)
		d.Artifacts[url] = data
	}
}

// LookupPublications implements Directory.
func (d *StubDirectory) LookupPublications(_ context.Context, req types.Request) ([]types.Publication, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Lookups = append(d.Lookups, req)
	if d.LookupErr != nil {
		return nil, d.LookupErr
	}
	return d.Publications[req.Name], nil
}

// BinaryFileURLs implements Directory.
func (d *StubDirectory) BinaryFileURLs(_ context.Context, pub types.Publication) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.FileURLs[pub.SelfLink], nil
}

// LoadBuild implements Directory.
func (d *StubDirectory) LoadBuild(_ context.Context, buildLink string) (*types.Build, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	build, ok := d.Builds[buildLink]
	if !ok {
		return nil, fmt.Errorf("no build at %s", buildLink)
	}
	return build, nil
}

// FetchBytes implements Directory.
func (d *StubDirectory) FetchBytes(_ context.Context, url string) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Fetches = append(d.Fetches, url)
	if d.FetchErr != nil {
		return nil, d.FetchErr
	}
	data, ok := d.Artifacts[url]
	if !ok {
		return nil, fmt.Errorf("no artifact at %s", url)
	}
	return data, nil
}

// FetchCount returns how many byte fetches hit the given URL.
func (d *StubDirectory) FetchCount(url string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, u := range d.Fetches {
		if u == url {
			n++
		}
	}
	return n
}

// Verify StubDirectory implements Directory.
var _ Directory = (*StubDirectory)(nil)
