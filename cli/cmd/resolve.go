package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/debfetch/cli/render"
	"github.com/pithecene-io/debfetch/launchpad"
	"github.com/pithecene-io/debfetch/resolver"
	"github.com/pithecene-io/debfetch/types"
)

// ResolveResponse is the response for the resolve command.
type ResolveResponse struct {
	Package       string   `json:"package"`
	Version       string   `json:"version"`
	Status        string   `json:"status"`
	DatePublished string   `json:"date_published,omitempty"`
	BuildLink     string   `json:"build_link"`
	ArchTag       string   `json:"arch_tag"`
	Artifacts     []string `json:"artifacts"`
}

// ResolveCommand returns the resolve command.
// Resolve maps coordinates to a publication without downloading anything.
func ResolveCommand() *cli.Command {
	flags := append(ReadOnlyFlags(), ConfigFlag)
	flags = append(flags, archiveFlags()...)

	return &cli.Command{
		Name:      "resolve",
		Usage:     "Resolve a package to its publication and artifact URLs (no download)",
		ArgsUsage: "<package>",
		Flags:     flags,
		Action:    resolveAction,
	}
}

func resolveAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("package name required", exitFault)
	}

	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}

	// TUI not supported for resolve
	if c.Bool("tui") {
		return cli.Exit("--tui is not supported for resolve", exitFault)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), exitFault)
	}

	session := buildSession(c, cfg)
	directory, err := buildDirectory(c, cfg, session)
	if err != nil {
		return cli.Exit(err.Error(), exitFault)
	}

	req := buildRequest(c, cfg)
	if err := req.Validate(); err != nil {
		return cli.Exit(err.Error(), exitFault)
	}

	ctx := context.Background()
	resp, err := resolvePublication(ctx, directory, req)
	if err != nil {
		if errors.Is(err, resolver.ErrNotFound) {
			return cli.Exit(fmt.Sprintf("%s: no matching publication", req.String()), exitNotFound)
		}
		return cli.Exit(err.Error(), exitFault)
	}

	return r.Render(resp)
}

// resolvePublication performs the same first-publication-wins selection the
// downloader uses, but stops before fetching bytes.
func resolvePublication(ctx context.Context, directory launchpad.Directory, req types.Request) (*ResolveResponse, error) {
	pubs, err := directory.LookupPublications(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(pubs) == 0 {
		return nil, resolver.ErrNotFound
	}
	pub := pubs[0]

	build, err := directory.LoadBuild(ctx, pub.BuildLink)
	if err != nil {
		return nil, fmt.Errorf("build unloadable for %s: %w", pub.BinaryPackageName, resolver.ErrNotFound)
	}

	urls, err := directory.BinaryFileURLs(ctx, pub)
	if err != nil {
		return nil, err
	}

	return &ResolveResponse{
		Package:       pub.BinaryPackageName,
		Version:       pub.BinaryPackageVersion,
		Status:        pub.Status,
		DatePublished: pub.DatePublished,
		BuildLink:     pub.BuildLink,
		ArchTag:       build.ArchTag,
		Artifacts:     urls,
	}, nil
}
