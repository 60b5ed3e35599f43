package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	charmlog "github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/roomnav-dev/roomnav/app/pages"
	"github.com/roomnav-dev/roomnav/internal/config"
	"github.com/roomnav-dev/roomnav/internal/crowd"
	"github.com/roomnav-dev/roomnav/pkg/assets"
	"github.com/roomnav-dev/roomnav/pkg/live"
	"github.com/roomnav-dev/roomnav/pkg/navigator"
	"github.com/roomnav-dev/roomnav/pkg/router"
)

func serveCmd() *cobra.Command {
	var (
		configPath string
		port       int
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the event guide server",
		Long: `Serve the room guide: static files, the crowd API, the metrics
endpoint and the live websocket that pages stream over.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if port != 0 {
				cfg.Server.Port = port
			}
			return runServe(cmd.Context(), cfg, verbose)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to roomnav.json")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Override the configured port")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, verbose bool) error {
	logger := newLogger(verbose)

	catalogPath := filepath.Join(cfg.Dir(), cfg.Catalog)
	eventName, rooms, err := crowd.LoadCatalog(catalogPath)
	if err != nil {
		return err
	}
	if eventName == "" {
		eventName = cfg.Name
	}

	store, err := openStore(ctx, cfg, rooms)
	if err != nil {
		return err
	}
	defer store.Close()

	loader := openAssetStore(cfg)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	apiBase := fmt.Sprintf("http://%s/api", addr)

	reg := router.NewRegistry()
	pages.Register(reg, crowd.NewClient(apiBase), eventName)

	liveOpts := []live.ServerOption{}
	if cfg.Metrics.Enabled {
		metrics := navigator.NewMetrics(navigator.WithNamespace(cfg.Metrics.Namespace))
		liveOpts = append(liveOpts, live.WithMetrics(metrics))
	}

	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(chimw.Recoverer)

	mux.Mount("/api", crowd.NewAPI(store, logger).Routes())
	mux.Handle("/live", live.NewServer(reg, loader, logger, liveOpts...))
	if cfg.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}

	staticDir := filepath.Join(cfg.Dir(), cfg.Static.Dir)
	fileServer := http.StripPrefix(cfg.Static.Prefix, http.FileServer(http.Dir(staticDir)))
	mux.Handle(cfg.Static.Prefix+"*", fileServer)

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	printBanner()
	success("serving %s", eventName)
	info("listening on http://%s", addr)
	info("rooms: %d (catalog %s)", len(rooms), catalogPath)
	if cfg.Metrics.Enabled {
		info("metrics on /metrics")
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-stop:
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newLogger builds a slog logger over the charm handler, matching the
// CLI's colored output.
func newLogger(verbose bool) *slog.Logger {
	level := charmlog.InfoLevel
	if verbose {
		level = charmlog.DebugLevel
	}
	handler := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		Level:           level,
		ReportTimestamp: true,
	})
	return slog.New(handler)
}

// openStore selects SQLite when a database path is configured, the
// in-memory store otherwise.
func openStore(ctx context.Context, cfg *config.Config, rooms []crowd.Room) (crowd.Store, error) {
	if cfg.DB == "" {
		return crowd.NewMemoryStore(rooms), nil
	}
	return crowd.OpenSQLite(ctx, filepath.Join(cfg.Dir(), cfg.DB), rooms)
}

// openAssetStore selects the S3 bucket when configured, the template
// directory otherwise.
func openAssetStore(cfg *config.Config) assets.Store {
	if s3cfg := cfg.Templates.S3; s3cfg != nil && s3cfg.Bucket != "" {
		client := s3.New(s3.Options{Region: s3cfg.Region})
		return assets.NewS3Store(client, s3cfg.Bucket, s3cfg.Prefix)
	}
	return assets.NewDirStore(filepath.Join(cfg.Dir(), cfg.Templates.Dir))
}
