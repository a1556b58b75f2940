package types

// Version is the canonical project version.
// The CLI and the manifest format share this version; manifests record it
// so readers can flag skew against the binary that wrote them.
const Version = "0.2.0"
