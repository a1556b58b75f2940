package resolver

import (
	"context"
	"fmt"
	"net/url"
	"path"
)

// fetch ensures the artifact at rawURL is present in the store and returns
// its derived local name. Presence alone is the skip criterion: if a file
// with the derived name already exists, no bytes move. No retry and no
// partial-write recovery; failures propagate to the caller.
func (d *Downloader) fetch(ctx context.Context, rawURL string) (string, error) {
	name, err := artifactName(rawURL)
	if err != nil {
		return "", err
	}

	exists, err := d.store.Exists(ctx, name)
	if err != nil {
		return "", err
	}
	if exists {
		d.collector.IncArtifactSkipped()
		d.logger.Warn("artifact already present, skipping re-download", map[string]any{
			"artifact": name,
		})
		return name, nil
	}

	d.logger.Debug("downloading artifact", map[string]any{
		"url":      rawURL,
		"artifact": name,
	})
	data, err := d.directory.FetchBytes(ctx, rawURL)
	if err != nil {
		return "", err
	}
	if err := d.store.Put(ctx, name, data); err != nil {
		return "", err
	}

	d.collector.IncArtifactFetched(int64(len(data)))
	d.logger.Debug("artifact downloaded", map[string]any{
		"artifact": name,
		"bytes":    len(data),
		"location": d.store.Location(name),
	})
	return name, nil
}

// artifactName derives the local artifact name from the URL's final path
// segment.
func artifactName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid artifact URL %q: %w", rawURL, err)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("artifact URL %q has no file name", rawURL)
	}
	return name, nil
}
