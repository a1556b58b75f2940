// Package launchpad talks to the Launchpad archive API.
//
// The Directory interface is the resolver's view of the archive: publication
// lookup, build loading, and raw byte fetch. Client is the real HTTP
// implementation; StubDirectory is the in-package test double.
package launchpad

import (
	"context"

	"github.com/pithecene-io/debfetch/types"
)

// Directory answers archive lookups and serves raw artifact bytes.
// All operations are read-only against the remote service.
type Directory interface {
	// LookupPublications returns binary publishing records matching the
	// request exactly, newest first. A version of types.LatestVersion
	// applies no version filter. Zero results is not an error.
	LookupPublications(ctx context.Context, req types.Request) ([]types.Publication, error)

	// BinaryFileURLs returns the download URLs of the publication's
	// artifacts, in archive order. A package may have several.
	BinaryFileURLs(ctx context.Context, pub types.Publication) ([]string, error)

	// LoadBuild loads the build record behind a publication.
	LoadBuild(ctx context.Context, buildLink string) (*types.Build, error)

	// FetchBytes downloads raw artifact bytes from url.
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// Well-known Launchpad service roots, keyed the way launchpad tooling
// names them. A root that is already a URL is used verbatim.
var serviceRoots = map[string]string{
	"production": "https://api.launchpad.net/",
	"staging":    "https://api.staging.launchpad.net/",
	"qastaging":  "https://api.qastaging.launchpad.net/",
}
