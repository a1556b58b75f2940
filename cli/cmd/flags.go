// Package cmd provides CLI commands for the debfetch binary.
package cmd

import "github.com/urfave/cli/v2"

// Shared flags for read-only commands.
var (
	// FormatFlag selects output format: json, table, yaml.
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json, table, yaml",
	}

	// NoColorFlag disables colored output.
	NoColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable colored output",
	}

	// TUIFlag enables Bubble Tea interactive mode.
	// Only valid for the read-only inspect command.
	TUIFlag = &cli.BoolFlag{
		Name:  "tui",
		Usage: "Enable interactive TUI mode (inspect only)",
	}

	// ConfigFlag points at a YAML config file.
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to debfetch.yaml config file",
	}
)

// ReadOnlyFlags returns the shared flags for all read-only commands.
// Includes --tui so that unsupported commands can provide explicit error
// messages instead of generic "flag not defined" errors.
func ReadOnlyFlags() []cli.Flag {
	return []cli.Flag{
		FormatFlag,
		NoColorFlag,
		TUIFlag,
	}
}

// TUIReadOnlyFlags returns flags for commands that support TUI mode.
// This is an alias for ReadOnlyFlags, kept for documentation clarity.
func TUIReadOnlyFlags() []cli.Flag {
	return ReadOnlyFlags()
}

// archiveFlags returns the flags shared by commands that talk to the
// package archive.
func archiveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "package-version",
			Usage: "Exact package version, or \"latest\"",
			Value: "latest",
		},
		&cli.StringFlag{
			Name:  "series",
			Usage: "Distribution series (e.g. noble, jammy)",
			Value: "noble",
		},
		&cli.StringFlag{
			Name:  "arch",
			Usage: "Target architecture (e.g. amd64, arm64)",
			Value: "amd64",
		},
		&cli.StringFlag{
			Name:  "consumer",
			Usage: "Consumer name sent to the archive API",
			Value: "debfetch",
		},
		&cli.StringFlag{
			Name:  "service-root",
			Usage: "Archive service root: production, staging, qastaging, or a URL",
			Value: "production",
		},
		&cli.StringFlag{
			Name:  "api-version",
			Usage: "Archive API version segment",
			Value: "devel",
		},
		&cli.StringFlag{
			Name:  "distribution",
			Usage: "Distribution name",
			Value: "ubuntu",
		},
	}
}
