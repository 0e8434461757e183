package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/podmirror"
	"github.com/fwojciec/podmirror/crawl"
	"github.com/fwojciec/podmirror/fs"
	podhttp "github.com/fwojciec/podmirror/http"
	podslog "github.com/fwojciec/podmirror/slog"
	"github.com/fwojciec/podmirror/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// CLI defines the command-line interface structure for Kong.
// Flags override the config file; positional URLs override its server list.
type CLI struct {
	Config      string        `short:"c" default:"config.toml" help:"Path to TOML config file"`
	Once        bool          `help:"Run a single crawl and exit"`
	Interval    time.Duration `help:"Time between crawls (overrides config)"`
	Output      string        `short:"o" help:"Aggregated snapshot path (overrides config)"`
	DataDir     string        `help:"Mirror directory (overrides config)"`
	DB          string        `help:"SQLite run-history path (overrides config; set db = \"\" in config to disable)"`
	RPS         float64       `help:"Per-host request rate limit (overrides config)"`
	Timeout     time.Duration `short:"t" help:"HTTP fetch timeout (overrides config)"`
	Concurrency int           `default:"1" help:"Servers crawled in parallel"`
	Verbose     bool          `short:"v" help:"Enable debug logging"`
	URLs        []string      `arg:"" optional:"" name:"url" help:"Server root URLs (override config servers)"`
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("podmirror"),
		kong.Description("Mirror distributed linked-data index graphs to local storage"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	cfg, err := LoadConfig(cli.Config)
	if err != nil {
		return err
	}
	applyOverrides(&cfg, cli)

	servers := cfg.Servers
	if len(cli.URLs) > 0 {
		servers = make([]podmirror.Server, len(cli.URLs))
		for i, u := range cli.URLs {
			servers[i] = podmirror.Server{URL: u}
		}
	}
	if len(servers) == 0 {
		return fmt.Errorf("no servers configured: add [[server]] entries to %s or pass URLs", cli.Config)
	}

	interval, err := cfg.IntervalDuration()
	if err != nil {
		return fmt.Errorf("invalid interval: %w", err)
	}
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	fetcher := podhttp.NewFetcher(podhttp.WithTimeout(timeout))
	defer fetcher.Close()

	var runs podmirror.RunService
	if cfg.DB != "" {
		db := sqlite.NewDB(cfg.DB)
		if err := db.Open(); err != nil {
			return fmt.Errorf("open run history: %w", err)
		}
		defer db.Close()
		runs = sqlite.NewRunService(db)
	}

	agg := &crawl.Aggregator{
		Crawler: &crawl.Crawler{
			Fetcher:     podslog.NewLoggingFetcher(fetcher, logger),
			Store:       podslog.NewLoggingStore(fs.NewStore(cfg.DataDir), logger),
			RateLimiter: crawl.NewHostLimiter(cfg.RPS),
			Logger:      logger,
		},
		Servers:     servers,
		Concurrency: cli.Concurrency,
		Runs:        runs,
		Logger:      logger,
	}

	runOnce := func() error {
		snap, err := agg.Run(ctx)
		// The snapshot is best-effort; write whatever was gathered even
		// when the crawl aborted.
		if werr := fs.WriteSnapshot(cfg.Output, snap); werr != nil {
			logger.Error("writing snapshot failed", "path", cfg.Output, "err", werr)
			if err == nil {
				err = werr
			}
		}
		return err
	}

	if err := runOnce(); err != nil {
		if cli.Once {
			return err
		}
		logger.Error("crawl failed, will retry next interval", "err", err)
	}
	if cli.Once {
		return nil
	}

	logger.Info("scheduler started", "interval", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := runOnce(); err != nil {
				logger.Error("crawl failed, will retry next interval", "err", err)
			}
		}
	}
}

// applyOverrides layers non-zero CLI flags over the file config.
func applyOverrides(cfg *Config, cli *CLI) {
	if cli.Interval > 0 {
		cfg.Interval = cli.Interval.String()
	}
	if cli.Output != "" {
		cfg.Output = cli.Output
	}
	if cli.DataDir != "" {
		cfg.DataDir = cli.DataDir
	}
	if cli.DB != "" {
		cfg.DB = cli.DB
	}
	if cli.RPS > 0 {
		cfg.RPS = cli.RPS
	}
	if cli.Timeout > 0 {
		cfg.Timeout = cli.Timeout.String()
	}
}
