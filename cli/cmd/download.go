package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/debfetch/adapter"
	"github.com/pithecene-io/debfetch/adapter/redis"
	"github.com/pithecene-io/debfetch/adapter/webhook"
	"github.com/pithecene-io/debfetch/cli/config"
	"github.com/pithecene-io/debfetch/launchpad"
	"github.com/pithecene-io/debfetch/log"
	"github.com/pithecene-io/debfetch/manifest"
	"github.com/pithecene-io/debfetch/metrics"
	"github.com/pithecene-io/debfetch/resolver"
	"github.com/pithecene-io/debfetch/store"
	"github.com/pithecene-io/debfetch/types"
)

// Exit codes for download.
const (
	exitSuccess  = 0
	exitNotFound = 1
	exitFault    = 2
)

// DownloadCommand returns the download command.
// This is the only command that writes artifacts.
func DownloadCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:    "with-dependencies",
			Aliases: []string{"d"},
			Usage:   "Also download direct and transitive dependencies",
		},
		&cli.IntFlag{
			Name:  "depth",
			Usage: "Dependency recursion depth",
			Value: 1,
		},
		&cli.StringFlag{
			Name:  "store-backend",
			Usage: "Artifact store backend: fs or s3",
		},
		&cli.StringFlag{
			Name:  "store-path",
			Usage: "Artifact store path (fs: directory, s3: bucket/prefix)",
		},
		&cli.StringFlag{
			Name:  "s3-region",
			Usage: "AWS region for the s3 backend (optional, uses default chain)",
		},
		&cli.StringFlag{
			Name:  "s3-endpoint",
			Usage: "Custom S3 endpoint (optional)",
		},
		&cli.StringFlag{
			Name:  "manifest",
			Usage: "Write a msgpack run manifest to this path",
		},
		&cli.BoolFlag{
			Name:  "quiet",
			Usage: "Suppress the summary output",
		},
		ConfigFlag,
	}
	flags = append(flags, archiveFlags()...)

	return &cli.Command{
		Name:      "download",
		Usage:     "Download a binary package, optionally with its dependency closure",
		ArgsUsage: "<package>",
		Flags:     flags,
		Action:    downloadAction,
	}
}

func downloadAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("package name required", exitFault)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), exitFault)
	}

	req := buildRequest(c, cfg)
	withDeps := c.Bool("with-dependencies")
	if cfg.Defaults.WithDependencies != nil && !c.IsSet("with-dependencies") {
		withDeps = *cfg.Defaults.WithDependencies
	}
	depth := c.Int("depth")
	if cfg.Defaults.Depth != nil && !c.IsSet("depth") {
		depth = *cfg.Defaults.Depth
	}
	if depth < 0 {
		return cli.Exit(fmt.Sprintf("depth cannot be negative: %d", depth), exitFault)
	}

	session := buildSession(c, cfg)
	logger := log.NewLogger(session)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	directory, err := buildDirectory(c, cfg, session)
	if err != nil {
		return cli.Exit(err.Error(), exitFault)
	}

	backend, st, err := buildStore(ctx, c, cfg)
	if err != nil {
		return cli.Exit(err.Error(), exitFault)
	}

	collector := metrics.NewCollector(req.Name, req.Series, req.Arch, backend)
	dl, err := resolver.NewDownloader(resolver.Config{
		Directory: directory,
		Store:     st,
		Logger:    logger,
		Collector: collector,
	})
	if err != nil {
		return cli.Exit(err.Error(), exitFault)
	}

	report := manifest.New(req, withDeps, depth)
	start := time.Now()
	result, err := dl.Download(ctx, req, withDeps, depth)
	duration := time.Since(start)

	outcome := "success"
	if err != nil {
		if errors.Is(err, resolver.ErrNotFound) {
			outcome = "not_found"
			publishEvent(ctx, cfg, logger, req, nil, st, outcome, collector, duration)
			return cli.Exit(fmt.Sprintf("nothing downloaded: %v", err), exitNotFound)
		}
		return cli.Exit(fmt.Sprintf("download failed: %v", err), exitFault)
	}

	for _, name := range result.Artifacts {
		report.Artifacts = append(report.Artifacts, manifest.Artifact{
			Name:     name,
			Location: st.Location(name),
		})
	}
	report.Dependencies = result.Dependencies
	report.Finish(collector.Snapshot())

	if path := c.String("manifest"); path != "" {
		if err := report.Write(path); err != nil {
			return cli.Exit(err.Error(), exitFault)
		}
	}

	publishEvent(ctx, cfg, logger, req, result, st, outcome, collector, duration)

	if !c.Bool("quiet") {
		printSummary(req, result, st, collector, duration)
	}

	return cli.Exit("", exitSuccess)
}

// buildRequest merges flags over config defaults into a resolution request.
func buildRequest(c *cli.Context, cfg *config.Config) types.Request {
	series := c.String("series")
	if cfg.Defaults.Series != "" && !c.IsSet("series") {
		series = cfg.Defaults.Series
	}
	arch := c.String("arch")
	if cfg.Defaults.Arch != "" && !c.IsSet("arch") {
		arch = cfg.Defaults.Arch
	}
	return types.Request{
		Name:    c.Args().First(),
		Version: c.String("package-version"),
		Series:  series,
		Arch:    arch,
	}
}

func buildSession(c *cli.Context, cfg *config.Config) *types.Session {
	consumer := c.String("consumer")
	if cfg.Launchpad.Consumer != "" && !c.IsSet("consumer") {
		consumer = cfg.Launchpad.Consumer
	}
	distribution := c.String("distribution")
	if cfg.Launchpad.Distribution != "" && !c.IsSet("distribution") {
		distribution = cfg.Launchpad.Distribution
	}
	return &types.Session{Consumer: consumer, Distribution: distribution}
}

func buildDirectory(c *cli.Context, cfg *config.Config, session *types.Session) (launchpad.Directory, error) {
	root := c.String("service-root")
	if cfg.Launchpad.ServiceRoot != "" && !c.IsSet("service-root") {
		root = cfg.Launchpad.ServiceRoot
	}
	version := c.String("api-version")
	if cfg.Launchpad.Version != "" && !c.IsSet("api-version") {
		version = cfg.Launchpad.Version
	}
	return launchpad.NewClient(launchpad.ClientConfig{
		Consumer:     session.Consumer,
		ServiceRoot:  root,
		Version:      version,
		Distribution: session.Distribution,
	})
}

// buildStore creates the artifact store selected by flags/config.
// Returns the backend name for metrics dimensions.
func buildStore(ctx context.Context, c *cli.Context, cfg *config.Config) (string, store.Store, error) {
	backend := c.String("store-backend")
	if backend == "" {
		backend = cfg.Storage.Backend
	}
	path := c.String("store-path")
	if path == "" {
		path = cfg.Storage.Path
	}

	switch backend {
	case "", "fs":
		st, err := store.NewFSStore(path)
		return "fs", st, err
	case "s3":
		s3cfg := store.S3Config{
			Bucket:       cfg.Storage.Bucket,
			Prefix:       cfg.Storage.Prefix,
			Region:       cfg.Storage.Region,
			Endpoint:     cfg.Storage.Endpoint,
			UsePathStyle: cfg.Storage.S3PathStyle,
		}
		if path != "" {
			s3cfg.Bucket, s3cfg.Prefix = store.ParseS3Path(path)
		}
		if region := c.String("s3-region"); region != "" {
			s3cfg.Region = region
		}
		if endpoint := c.String("s3-endpoint"); endpoint != "" {
			s3cfg.Endpoint = endpoint
		}
		st, err := store.NewS3Store(ctx, s3cfg)
		return "s3", st, err
	default:
		return "", nil, fmt.Errorf("unknown store-backend: %s (must be fs or s3)", backend)
	}
}

// buildAdapter creates a completion adapter from config, or nil when none
// is configured.
func buildAdapter(cfg *config.Config) (adapter.Adapter, error) {
	retries := -1
	if cfg.Adapter.Retries != nil {
		retries = *cfg.Adapter.Retries
	}

	switch cfg.Adapter.Type {
	case "":
		return nil, nil
	case "webhook":
		wcfg := webhook.Config{
			URL:     cfg.Adapter.URL,
			Headers: cfg.Adapter.Headers,
			Timeout: cfg.Adapter.Timeout.Duration,
		}
		if retries >= 0 {
			wcfg.Retries = retries
		} else {
			wcfg.Retries = webhook.DefaultRetries
		}
		return webhook.New(wcfg)
	case "redis":
		rcfg := redis.Config{
			URL:     cfg.Adapter.URL,
			Channel: cfg.Adapter.Channel,
			Timeout: cfg.Adapter.Timeout.Duration,
		}
		if retries >= 0 {
			rcfg.Retries = retries
		} else {
			rcfg.Retries = redis.DefaultRetries
		}
		return redis.New(rcfg)
	default:
		return nil, fmt.Errorf("unknown adapter type: %s", cfg.Adapter.Type)
	}
}

// publishEvent notifies the configured adapter, logging failures without
// failing the run.
func publishEvent(ctx context.Context, cfg *config.Config, logger *log.Logger, req types.Request, result *resolver.Result, st store.Store, outcome string, collector *metrics.Collector, duration time.Duration) {
	a, err := buildAdapter(cfg)
	if err != nil {
		logger.Warn("adapter configuration invalid, skipping publish", map[string]any{
			"error": err.Error(),
		})
		return
	}
	if a == nil {
		return
	}
	defer func() { _ = a.Close() }()

	snap := collector.Snapshot()
	event := &adapter.DownloadCompletedEvent{
		EventType:     "download_completed",
		Package:       req.Name,
		Version:       req.Version,
		Series:        req.Series,
		Arch:          req.Arch,
		Outcome:       outcome,
		BytesFetched:  snap.BytesFetched,
		StorageTarget: st.Location(""),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		DurationMs:    duration.Milliseconds(),
	}
	if result != nil {
		event.Artifacts = result.Artifacts
		event.Dependencies = result.Dependencies
	}

	if err := a.Publish(ctx, event); err != nil {
		logger.Warn("completion publish failed", map[string]any{
			"adapter": cfg.Adapter.Type,
			"error":   err.Error(),
		})
	}
}

// loadConfig loads the config file named by --config, or debfetch.yaml in
// the working directory when present. Absent config means all defaults.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	if _, err := os.Stat("debfetch.yaml"); err == nil {
		return config.Load("debfetch.yaml")
	}
	return &config.Config{}, nil
}

func printSummary(req types.Request, result *resolver.Result, st store.Store, collector *metrics.Collector, duration time.Duration) {
	snap := collector.Snapshot()

	fmt.Printf("\npackage=%s, series=%s, arch=%s, duration=%s\n",
		req.Name, req.Series, req.Arch, duration.Round(time.Millisecond))

	fmt.Printf("\n=== Download Result ===\n")
	fmt.Printf("Artifacts:      %d\n", len(result.Artifacts))
	for _, name := range result.Artifacts {
		fmt.Printf("  - %s\n", st.Location(name))
	}
	if len(result.Dependencies) > 0 {
		fmt.Printf("Dependencies:   %d\n", len(result.Dependencies))
		for _, dep := range result.Dependencies {
			fmt.Printf("  - %s\n", dep)
		}
	}

	fmt.Printf("\n=== Traversal Stats ===\n")
	fmt.Printf("Lookups:          %d\n", snap.Lookups)
	fmt.Printf("Fetched:          %d\n", snap.ArtifactsFetched)
	fmt.Printf("Skipped:          %d\n", snap.ArtifactsSkipped)
	fmt.Printf("Bytes Fetched:    %d\n", snap.BytesFetched)
	fmt.Printf("Branches:         %d\n", snap.BranchesFollowed)
	fmt.Printf("Exhausted:        %d\n", snap.BranchesExhausted)
	if snap.MetadataFailures > 0 {
		fmt.Printf("Metadata Fails:   %d\n", snap.MetadataFailures)
	}
}
