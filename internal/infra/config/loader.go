// Package config loads and validates the biocat service configuration.
package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"biocat/internal/domain"
)

// Config is the normalized service configuration.
type Config struct {
	ContentDir    string
	MetadataDir   string
	API           APIConfig
	Observability ObservabilityConfig
	Favorites     FavoritesConfig
}

type APIConfig struct {
	ListenAddress string
	PageSize      int
}

type ObservabilityConfig struct {
	ListenAddress string
}

type FavoritesConfig struct {
	Path string
}

type rawConfig struct {
	ContentDir    string                 `mapstructure:"contentDir"`
	MetadataDir   string                 `mapstructure:"metadataDir"`
	API           rawAPIConfig           `mapstructure:"api"`
	Observability rawObservabilityConfig `mapstructure:"observability"`
	Favorites     rawFavoritesConfig     `mapstructure:"favorites"`
}

type rawAPIConfig struct {
	ListenAddress string `mapstructure:"listenAddress"`
	PageSize      int    `mapstructure:"pageSize"`
}

type rawObservabilityConfig struct {
	ListenAddress string `mapstructure:"listenAddress"`
}

type rawFavoritesConfig struct {
	Path string `mapstructure:"path"`
}

// Loader reads biocat.yaml style configuration files.
type Loader struct {
	logger *zap.Logger
}

func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		return &Loader{logger: zap.NewNop()}
	}
	return &Loader{logger: logger.Named("config")}
}

func newConfigViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("contentDir", domain.DefaultContentDir)
	v.SetDefault("metadataDir", domain.DefaultMetadataDir)
	v.SetDefault("api.listenAddress", domain.DefaultAPIListenAddress)
	v.SetDefault("api.pageSize", domain.DefaultPageSize)
	v.SetDefault("observability.listenAddress", domain.DefaultObservabilityAddress)
	v.SetDefault("favorites.path", domain.DefaultFavoritesPath)
	return v
}

// Load reads, decodes and validates the config file at path. An empty
// path yields the defaults.
func (l *Loader) Load(ctx context.Context, path string) (Config, error) {
	v := newConfigViper()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := v.ReadConfig(bytes.NewBuffer(data)); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	} else {
		l.logger.Info("no config file given, using defaults")
	}

	var raw rawConfig
	if err := v.Unmarshal(&raw); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return Config{}, err
	}

	cfg, errs := normalizeConfig(raw)
	if len(errs) > 0 {
		return Config{}, errors.New(strings.Join(errs, "; "))
	}
	return cfg, nil
}

func normalizeConfig(raw rawConfig) (Config, []string) {
	var errs []string

	contentDir := strings.TrimSpace(raw.ContentDir)
	if contentDir == "" {
		errs = append(errs, "contentDir is required")
	}
	metadataDir := strings.TrimSpace(raw.MetadataDir)
	if metadataDir == "" {
		errs = append(errs, "metadataDir is required")
	}

	apiAddr := strings.TrimSpace(raw.API.ListenAddress)
	if apiAddr == "" {
		errs = append(errs, "api.listenAddress is required")
	}
	pageSize := raw.API.PageSize
	if pageSize <= 0 {
		errs = append(errs, "api.pageSize must be > 0")
	}
	if pageSize > domain.DefaultMaxPageSize {
		errs = append(errs, fmt.Sprintf("api.pageSize must be <= %d", domain.DefaultMaxPageSize))
	}

	obsAddr := strings.TrimSpace(raw.Observability.ListenAddress)
	if obsAddr == "" {
		errs = append(errs, "observability.listenAddress is required")
	}

	favoritesPath := strings.TrimSpace(raw.Favorites.Path)
	if favoritesPath == "" {
		errs = append(errs, "favorites.path is required")
	}

	return Config{
		ContentDir:    contentDir,
		MetadataDir:   metadataDir,
		API:           APIConfig{ListenAddress: apiAddr, PageSize: pageSize},
		Observability: ObservabilityConfig{ListenAddress: obsAddr},
		Favorites:     FavoritesConfig{Path: favoritesPath},
	}, errs
}
