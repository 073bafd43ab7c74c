package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ironsheep/histogram-update/internal/config"
	"github.com/ironsheep/histogram-update/internal/frame"
	"github.com/ironsheep/histogram-update/internal/imaging"
	"github.com/ironsheep/histogram-update/internal/logger"
	"github.com/ironsheep/histogram-update/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "histogram-update",
		Short: "Histogram and CLAHE equalization executors",
		Long: `histogram-update computes channel histograms and applies CLAHE contrast
equalization to images.

Without a subcommand it serves the executors over MCP (JSON-RPC on
stdin/stdout). The histogram and equalize subcommands run them once on files.

Environment variables (also read from .env):
  HISTOGRAM_LOG_LEVEL     debug, info, warn or error (default info)
  HISTOGRAM_STORE         memory or redis (default memory)
  HISTOGRAM_REDIS_ADDR    Redis address (default 127.0.0.1:6379)
  HISTOGRAM_REDIS_DB      Redis database (default 0)
  HISTOGRAM_REDIS_PREFIX  Key prefix for stored frames (default frames)
  HISTOGRAM_FRAME_TTL     Lifetime of stored frames, 0 keeps them (default 10m)`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the executors over MCP on stdin/stdout",
			Args:  cobra.NoArgs,
			RunE:  runServe,
		},
		newHistogramCommand(),
		newEqualizeCommand(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "histogram-update %s\n", Version)
				fmt.Fprintf(out, "  Build time: %s\n", BuildTime)
				fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
				fmt.Fprintf(out, "  Equalizer:  %s\n", imaging.Backend)
			},
		},
	)

	return root
}

// setup loads the configuration and builds the logger. Logs go to stderr
// because stdout carries the protocol.
func setup() (*config.Config, logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, logger.NewConsoleLogger(cfg.LogLevel), nil
}

// openStore returns the configured frame store and a function releasing it.
func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (frame.Store, func(), error) {
	if cfg.Store != config.StoreRedis {
		store := frame.NewMemoryStoreWithTTL(cfg.FrameTTL)
		log.Debug("main", "using memory frame store", map[string]interface{}{
			"ttl": cfg.FrameTTL.String(),
		})
		return store, func() {
			log.Debug("main", "releasing memory frame store", map[string]interface{}{
				"frames": store.Len(),
			})
		}, nil
	}

	store := frame.NewRedisStore(frame.RedisOptions{
		Addr:   cfg.RedisAddr,
		DB:     cfg.RedisDB,
		Prefix: cfg.RedisPrefix,
		TTL:    cfg.FrameTTL,
	})
	if err := store.Ping(ctx); err != nil {
		store.Close()
		return nil, nil, err
	}

	log.Info("main", "using redis frame store", map[string]interface{}{
		"addr":   cfg.RedisAddr,
		"db":     cfg.RedisDB,
		"prefix": cfg.RedisPrefix,
		"ttl":    cfg.FrameTTL.String(),
	})
	return store, func() {
		if err := store.Close(); err != nil {
			log.Error("main", err, nil)
		}
	}, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Error("main", err, nil)
		return err
	}
	defer closeStore()

	log.Debug("main", "starting", map[string]interface{}{
		"version":   Version,
		"built":     BuildTime,
		"commit":    GitCommit,
		"equalizer": imaging.Backend,
	})

	if err := server.New(store, log).Run(ctx); err != nil {
		log.Error("main", err, nil)
		return err
	}
	return nil
}
