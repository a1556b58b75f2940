package launchpad

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pithecene-io/debfetch/iox"
	"github.com/pithecene-io/debfetch/types"
)

// DefaultTimeout is the per-request HTTP timeout.
const DefaultTimeout = 60 * time.Second

// ClientConfig configures the anonymous archive session.
type ClientConfig struct {
	// Consumer is the anonymous API consumer name, sent as User-Agent.
	Consumer string
	// ServiceRoot is a well-known root name ("production", "staging",
	// "qastaging") or a full URL.
	ServiceRoot string
	// Version is the API version path segment (e.g. "devel").
	Version string
	// Distribution is the distribution whose primary archive is queried
	// (e.g. "ubuntu").
	Distribution string
	// HTTPClient overrides the default client (mainly for tests).
	HTTPClient *http.Client
}

// Client is the HTTP implementation of Directory against the Launchpad
// web service. Sessions are anonymous: no OAuth handshake, just a consumer
// identity in the User-Agent.
type Client struct {
	root         string // e.g. https://api.launchpad.net/devel
	distribution string
	consumer     string
	http         *http.Client
}

// NewClient creates an archive client from the session config.
func NewClient(cfg ClientConfig) (*Client, error) {
	base := cfg.ServiceRoot
	if known, ok := serviceRoots[base]; ok {
		base = known
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return nil, fmt.Errorf("unknown service root %q", cfg.ServiceRoot)
	}
	if cfg.Version == "" {
		return nil, fmt.Errorf("API version is required")
	}
	if cfg.Distribution == "" {
		return nil, fmt.Errorf("distribution is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	return &Client{
		root:         strings.TrimSuffix(base, "/") + "/" + cfg.Version,
		distribution: cfg.Distribution,
		consumer:     cfg.Consumer,
		http:         httpClient,
	}, nil
}

// publicationsPage is the collection envelope the API wraps entries in.
type publicationsPage struct {
	Entries []publicationEntry `json:"entries"`
}

type publicationEntry struct {
	SelfLink             string `json:"self_link"`
	BuildLink            string `json:"build_link"`
	BinaryPackageName    string `json:"binary_package_name"`
	BinaryPackageVersion string `json:"binary_package_version"`
	Status               string `json:"status"`
	DatePublished        string `json:"date_published"`
}

// LookupPublications implements Directory.
// Queries getPublishedBinaries on the distribution's primary archive with
// exact matching, ordered by publication date descending.
func (c *Client) LookupPublications(ctx context.Context, req types.Request) ([]types.Publication, error) {
	q := url.Values{}
	q.Set("ws.op", "getPublishedBinaries")
	q.Set("exact_match", "true")
	q.Set("order_by_date", "true")
	q.Set("binary_name", req.Name)
	q.Set("distro_arch_series", fmt.Sprintf("%s/%s/%s/%s", c.root, c.distribution, req.Series, req.Arch))
	if req.Version != types.LatestVersion {
		q.Set("version", req.Version)
	}

	endpoint := fmt.Sprintf("%s/%s/+archive/primary?%s", c.root, c.distribution, q.Encode())
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", req.String(), err)
	}

	var page publicationsPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("lookup %s: decode response: %w", req.String(), err)
	}

	pubs := make([]types.Publication, 0, len(page.Entries))
	for _, e := range page.Entries {
		pubs = append(pubs, types.Publication{
			SelfLink:             e.SelfLink,
			BuildLink:            e.BuildLink,
			BinaryPackageName:    e.BinaryPackageName,
			BinaryPackageVersion: e.BinaryPackageVersion,
			Status:               e.Status,
			DatePublished:        e.DatePublished,
		})
	}
	return pubs, nil
}

// BinaryFileURLs implements Directory.
func (c *Client) BinaryFileURLs(ctx context.Context, pub types.Publication) ([]string, error) {
	body, err := c.get(ctx, pub.SelfLink+"?ws.op=binaryFileUrls")
	if err != nil {
		return nil, fmt.Errorf("binary file urls for %s: %w", pub.BinaryPackageName, err)
	}

	var urls []string
	if err := json.Unmarshal(body, &urls); err != nil {
		return nil, fmt.Errorf("binary file urls for %s: decode response: %w", pub.BinaryPackageName, err)
	}
	return urls, nil
}

// LoadBuild implements Directory.
func (c *Client) LoadBuild(ctx context.Context, buildLink string) (*types.Build, error) {
	body, err := c.get(ctx, buildLink)
	if err != nil {
		return nil, fmt.Errorf("load build %s: %w", buildLink, err)
	}

	var build types.Build
	if err := json.Unmarshal(body, &build); err != nil {
		return nil, fmt.Errorf("load build %s: decode response: %w", buildLink, err)
	}
	return &build, nil
}

// FetchBytes implements Directory.
func (c *Client) FetchBytes(ctx context.Context, rawURL string) ([]byte, error) {
	body, err := c.get(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	return body, nil
}

// get performs one GET with the anonymous consumer identity.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.consumer != "" {
		req.Header.Set("User-Agent", c.consumer)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer iox.DiscardClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// Verify Client implements Directory.
var _ Directory = (*Client)(nil)
