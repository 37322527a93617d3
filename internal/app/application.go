// Package app wires the biocat components into runnable commands.
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"biocat/internal/domain"
	"biocat/internal/infra/config"
	"biocat/internal/infra/favorites"
	"biocat/internal/infra/gateway"
	"biocat/internal/infra/merge"
	"biocat/internal/infra/telemetry"
)

// Application bundles the shared dependencies of all subcommands.
type Application struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Application {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Application{logger: logger.Named("app")}
}

// MergeConfig parameterizes a merge run. Flags override the config file.
type MergeConfig struct {
	ConfigPath  string
	ContentDir  string
	MetadataDir string
}

// Merge runs the metadata merger once and reports the outcome.
func (a *Application) Merge(ctx context.Context, mergeCfg MergeConfig) error {
	cfg, err := config.NewLoader(a.logger).Load(ctx, mergeCfg.ConfigPath)
	if err != nil {
		return err
	}
	contentDir := cfg.ContentDir
	if mergeCfg.ContentDir != "" {
		contentDir = mergeCfg.ContentDir
	}
	metadataDir := cfg.MetadataDir
	if mergeCfg.MetadataDir != "" {
		metadataDir = mergeCfg.MetadataDir
	}

	merger := merge.NewMerger(a.logger)

	start := time.Now()
	report, err := merger.Run(ctx, contentDir, metadataDir)
	if err != nil {
		return fmt.Errorf("merge failed: %w", err)
	}

	a.logger.Info("merge run finished",
		zap.Int("merged", report.Merged),
		zap.Int("skipped", report.Skipped),
		zap.Int("parse_failures", report.ParseFailures),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// ServeConfig parameterizes the catalog API service.
type ServeConfig struct {
	ConfigPath string
}

// Serve runs the catalog API and the observability listener until ctx
// is cancelled.
func (a *Application) Serve(ctx context.Context, serveCfg ServeConfig) error {
	cfg, err := config.NewLoader(a.logger).Load(ctx, serveCfg.ConfigPath)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	metrics := telemetry.NewPrometheusMetrics(registry)
	health := telemetry.NewHealthTracker()

	store, err := favorites.Open(cfg.Favorites.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			a.logger.Warn("close favorites store", zap.Error(err))
		}
	}()
	if names, err := store.List(); err == nil {
		metrics.SetFavoritesCount(len(names))
	}

	artifact := filepath.Join(cfg.MetadataDir, domain.CombinedMetadataFile)
	provider, err := NewDynamicIndexProvider(artifact, metrics, a.logger)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	health.SetComponent("index", "ok")
	health.SetComponent("favorites", "ok")

	server := gateway.NewServer(gateway.Options{
		Provider:        provider,
		Favorites:       store,
		Metrics:         metrics,
		PagesDir:        filepath.Join(cfg.MetadataDir, domain.ToolPagesDir),
		DefaultPageSize: cfg.API.PageSize,
		MaxPageSize:     domain.DefaultMaxPageSize,
	}, a.logger)

	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	errChan := make(chan error, 2)
	go func() {
		if err := provider.Watch(serveCtx); err != nil {
			a.logger.Warn("artifact watcher stopped", zap.Error(err))
		}
	}()
	go func() {
		errChan <- telemetry.StartHTTPServer(serveCtx, telemetry.HTTPServerOptions{
			Addr:     cfg.Observability.ListenAddress,
			Health:   health,
			Registry: registry,
		}, a.logger)
	}()
	go func() {
		errChan <- server.Serve(serveCtx, cfg.API.ListenAddress)
	}()

	select {
	case <-ctx.Done():
		cancel()
		<-errChan
		<-errChan
		return nil
	case err := <-errChan:
		cancel()
		<-errChan
		return err
	}
}

// ValidateConfig loads and validates the configuration without running
// anything.
func (a *Application) ValidateConfig(ctx context.Context, configPath string) error {
	cfg, err := config.NewLoader(a.logger).Load(ctx, configPath)
	if err != nil {
		return err
	}
	a.logger.Info("configuration valid",
		zap.String("content_dir", cfg.ContentDir),
		zap.String("metadata_dir", cfg.MetadataDir),
		zap.String("api", cfg.API.ListenAddress),
		zap.String("observability", cfg.Observability.ListenAddress),
	)
	return nil
}
