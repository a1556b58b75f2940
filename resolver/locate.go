package resolver

import (
	"context"
	"fmt"

	"github.com/pithecene-io/debfetch/types"
)

// locate queries the archive for the publication matching req and returns
// the first (newest) record. Zero results and an unloadable build both
// signal ErrNotFound; the caller treats them identically.
func (d *Downloader) locate(ctx context.Context, req types.Request) (*types.Publication, error) {
	d.collector.IncLookup()
	d.logger.Debug("fetching binary publishing history", map[string]any{
		"package": req.Name,
		"version": req.Version,
		"series":  req.Series,
		"arch":    req.Arch,
	})

	pubs, err := d.directory.LookupPublications(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(pubs) == 0 {
		d.collector.IncNotFound()
		d.logger.Info("no binary publishing history found", map[string]any{
			"package": req.Name,
			"version": req.Version,
			"series":  req.Series,
			"arch":    req.Arch,
		})
		return nil, fmt.Errorf("%s: %w", req.String(), ErrNotFound)
	}

	// First result wins; with exact matching there should be only one.
	pub := pubs[0]

	build, err := d.directory.LoadBuild(ctx, pub.BuildLink)
	if err != nil {
		d.collector.IncNotFound()
		d.logger.Info("could not load binary build", map[string]any{
			"package":    req.Name,
			"build_link": pub.BuildLink,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("%s: build unloadable: %w", req.String(), ErrNotFound)
	}

	d.logger.Debug("found binary package build", map[string]any{
		"package":  req.Name,
		"version":  pub.BinaryPackageVersion,
		"arch_tag": build.ArchTag,
	})
	return &pub, nil
}
