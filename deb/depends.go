// Package deb reads metadata out of Debian binary packages.
//
// A .deb is an ar archive holding a compressed control tarball; the control
// file inside carries RFC822-style fields, including the free-text Depends
// declaration this package parses into bare names.
package deb

import "strings"

// ParseDepends extracts bare package names from a Depends declaration such
// as "libc6 (>= 2.34), libx11-6, libxmu6 (>= 2:1.1.3)".
//
// The declaration is split on commas, each segment is trimmed, and only the
// token before the first space survives; version constraints and alternation
// targets are discarded. Version resolution always uses the newest
// publication, so constraints carry no information here.
//
// Empty input yields an empty slice. No name syntax validation is performed;
// a malformed declaration simply yields fewer (or zero) names.
func ParseDepends(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	segments := strings.Split(raw, ",")
	names := make([]string, 0, len(segments))
	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		name, _, _ := strings.Cut(segment, " ")
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	return names
}
