package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/debfetch/cli/render"
	"github.com/pithecene-io/debfetch/deb"
	"github.com/pithecene-io/debfetch/manifest"
)

// ControlResponse is the response for inspect --deb.
type ControlResponse struct {
	Fields       []deb.Field `json:"fields"`
	Dependencies []string    `json:"dependencies"`
}

// InspectCommand returns the inspect command.
// Inspect is read-only: it never touches the archive.
func InspectCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  "deb",
			Usage: "Inspect a local .deb artifact's control fields",
		},
		&cli.StringFlag{
			Name:  "manifest",
			Usage: "Inspect a saved run manifest",
		},
		&cli.BoolFlag{
			Name:  "stats",
			Usage: "Show traversal statistics instead of the manifest summary",
		},
	}
	flags = append(flags, TUIReadOnlyFlags()...)

	return &cli.Command{
		Name:   "inspect",
		Usage:  "Inspect a local artifact or run manifest",
		Flags:  flags,
		Action: inspectAction,
	}
}

func inspectAction(c *cli.Context) error {
	debPath := c.String("deb")
	manifestPath := c.String("manifest")

	if debPath == "" && manifestPath == "" {
		return cli.Exit("one of --deb or --manifest is required", exitFault)
	}
	if debPath != "" && manifestPath != "" {
		return cli.Exit("--deb and --manifest are mutually exclusive", exitFault)
	}

	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}

	if debPath != "" {
		return inspectDeb(c, r, debPath)
	}
	return inspectManifest(c, r, manifestPath)
}

func inspectDeb(c *cli.Context, r *render.Renderer, path string) error {
	control, err := deb.ReadControl(path)
	if err != nil {
		return cli.Exit(err.Error(), exitFault)
	}

	if c.Bool("tui") {
		return r.RenderTUI("inspect_deb", control)
	}

	return r.Render(&ControlResponse{
		Fields:       control.Fields(),
		Dependencies: deb.ParseDepends(control.Depends()),
	})
}

func inspectManifest(c *cli.Context, r *render.Renderer, path string) error {
	report, err := manifest.Read(path)
	if err != nil {
		return cli.Exit(err.Error(), exitFault)
	}

	if c.Bool("tui") {
		view := "inspect_manifest"
		if c.Bool("stats") {
			view = "stats_manifest"
		}
		return r.RenderTUI(view, report)
	}

	if c.Bool("stats") {
		return r.Render(report.Metrics)
	}
	return r.Render(report)
}
