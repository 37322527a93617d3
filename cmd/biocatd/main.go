package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"biocat/internal/app"
)

type rootOptions struct {
	configPath string
	flags      *pflag.FlagSet
}

// resolvedConfigPath returns the config path to load. The default
// biocat.yaml is optional; a path given via --config must exist.
func (o *rootOptions) resolvedConfigPath() string {
	if o.flags != nil && o.flags.Changed("config") {
		return o.configPath
	}
	if _, err := os.Stat(o.configPath); err != nil {
		return ""
	}
	return o.configPath
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	root := newRootCmd(logger)
	if err := root.Execute(); err != nil {
		logger.Fatal("command failed", zap.Error(err))
	}
}

func newRootCmd(logger *zap.Logger) *cobra.Command {
	opts := rootOptions{
		configPath: "biocat.yaml",
	}

	root := &cobra.Command{
		Use:   "biocatd",
		Short: "Bioinformatics tool catalog: metadata merger and query API",
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", opts.configPath, "path to config file")
	opts.flags = root.PersistentFlags()

	root.AddCommand(
		newMergeCmd(logger, &opts),
		newServeCmd(logger, &opts),
		newValidateCmd(logger, &opts),
	)

	return root
}

func newMergeCmd(logger *zap.Logger, opts *rootOptions) *cobra.Command {
	var contentDir, metadataDir string

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge per-tool metadata files into the catalog artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalAwareContext(cmd.Context())
			defer cancel()

			application := app.New(logger)
			return application.Merge(ctx, app.MergeConfig{
				ConfigPath:  opts.resolvedConfigPath(),
				ContentDir:  contentDir,
				MetadataDir: metadataDir,
			})
		},
	}

	cmd.Flags().StringVar(&contentDir, "content", "", "content root override (one folder per tool)")
	cmd.Flags().StringVar(&metadataDir, "out", "", "output dir override for merged artifacts")

	return cmd
}

func newServeCmd(logger *zap.Logger, opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog query API over the merged artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalAwareContext(cmd.Context())
			defer cancel()

			application := app.New(logger)
			return application.Serve(ctx, app.ServeConfig{
				ConfigPath: opts.resolvedConfigPath(),
			})
		},
	}

	return cmd
}

func newValidateCmd(logger *zap.Logger, opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration without merging or serving",
		RunE: func(cmd *cobra.Command, args []string) error {
			application := app.New(logger)
			return application.ValidateConfig(cmd.Context(), opts.resolvedConfigPath())
		},
	}

	return cmd
}

func signalAwareContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
