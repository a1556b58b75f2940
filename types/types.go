// Package types holds shared domain types for debfetch.
package types

import (
	"errors"
	"fmt"
)

// LatestVersion is the version sentinel meaning "no version filter";
// the archive returns the most recently published binary.
const LatestVersion = "latest"

// Request identifies one binary package resolution: which package, at
// which version, for which distribution series and architecture.
// Immutable per Download call.
type Request struct {
	// Name is the binary package name (e.g. "libc6").
	Name string
	// Version is the exact package version, or LatestVersion.
	Version string
	// Series is the distribution series name (e.g. "noble").
	Series string
	// Arch is the architecture tag (e.g. "amd64").
	Arch string
}

// Validate checks that all request coordinates are present.
// An empty Version is not valid; callers wanting the newest publication
// must pass LatestVersion explicitly.
func (r *Request) Validate() error {
	if r.Name == "" {
		return errors.New("package name is required")
	}
	if r.Version == "" {
		return errors.New("package version is required (use \"latest\" for the newest publication)")
	}
	if r.Series == "" {
		return errors.New("distribution series is required")
	}
	if r.Arch == "" {
		return errors.New("architecture is required")
	}
	return nil
}

// String renders the request as name@version/series/arch for log lines.
func (r *Request) String() string {
	return fmt.Sprintf("%s@%s/%s/%s", r.Name, r.Version, r.Series, r.Arch)
}

// Publication is one binary publishing record returned by the archive.
// Ephemeral: it lives only for the duration of one resolution step.
type Publication struct {
	// SelfLink is the API resource URL of this publication.
	SelfLink string `json:"self_link"`
	// BuildLink is the API resource URL of the build that produced it.
	BuildLink string `json:"build_link"`
	// BinaryPackageName is the published package name.
	BinaryPackageName string `json:"binary_package_name"`
	// BinaryPackageVersion is the published package version.
	BinaryPackageVersion string `json:"binary_package_version"`
	// Status is the publishing status (e.g. "Published").
	Status string `json:"status"`
	// DatePublished is the ISO 8601 publication timestamp.
	DatePublished string `json:"date_published"`
}

// Build is the archive's build record backing a publication.
type Build struct {
	// SelfLink is the API resource URL of the build.
	SelfLink string `json:"self_link"`
	// ArchTag is the architecture the build produced binaries for.
	ArchTag string `json:"arch_tag"`
	// Title is the human-readable build title.
	Title string `json:"title"`
}

// Session identifies the archive session a run operates under.
// Carried as logger context on every log entry.
type Session struct {
	// Consumer is the anonymous API consumer name.
	Consumer string
	// Distribution is the distribution the archive belongs to (e.g. "ubuntu").
	Distribution string
}
