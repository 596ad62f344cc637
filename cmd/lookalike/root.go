// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package main

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tomtom215/lookalike/internal/catalog"
	"github.com/tomtom215/lookalike/internal/config"
	"github.com/tomtom215/lookalike/internal/imagefetch"
	"github.com/tomtom215/lookalike/internal/logging"
	"github.com/tomtom215/lookalike/internal/recommend"
)

// NewRootCmd builds the command tree.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lookalike",
		Short:         "Product similarity recommendations",
		Long:          `Rank catalog products by text and image similarity to a target product.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	addPersistentFlags(rootCmd)
	rootCmd.AddCommand(
		NewRecommendCmd(),
		NewAnalyzeCmd(),
		NewServeCmd(version),
	)
	return rootCmd
}

func addPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("config", "", "Config file (default: config.yaml or $LOOKALIKE_CONFIG)")
	cmd.PersistentFlags().StringArray("catalog", nil, "Catalog JSON file (repeatable)")
	cmd.PersistentFlags().String("sources", "", "File listing catalog JSON files, one per line")
	cmd.PersistentFlags().String("log-level", "", "Log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().Bool("images", true, "Fetch product images for image similarity")
}

// app is everything a command needs once configuration is resolved.
type app struct {
	cfg     *config.Config
	catalog *catalog.Index
	ranker  *recommend.Ranker
	fetcher *imagefetch.Fetcher
	store   imagefetch.Store
	logger  zerolog.Logger
}

// loadConfig resolves the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("catalog") {
		cfg.Catalog.Paths, _ = flags.GetStringArray("catalog")
	}
	if flags.Changed("sources") {
		cfg.Catalog.SourcesFile, _ = flags.GetString("sources")
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
		if err := logging.ValidateLevel(cfg.Logging.Level); err != nil {
			return nil, err
		}
	}
	if flags.Changed("images") {
		cfg.Images.Enabled, _ = flags.GetBool("images")
	}
	return cfg, nil
}

// newApp loads configuration and the catalog and builds the ranker.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	lc := cfg.LogConfig()
	lc.Output = cmd.ErrOrStderr()
	logging.Init(lc)
	logger := logging.Logger()

	paths := append([]string(nil), cfg.Catalog.Paths...)
	if cfg.Catalog.SourcesFile != "" {
		listed, err := catalog.ReadSourceList(cfg.Catalog.SourcesFile)
		if err != nil {
			return nil, err
		}
		paths = append(paths, listed...)
	}
	if len(paths) == 0 {
		return nil, errors.New("no catalog given: use --catalog, --sources or CATALOG_PATHS")
	}

	idx, err := catalog.LoadFiles(paths, logger)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, catalog: idx, logger: logger}

	var opts []recommend.Option
	if cfg.Images.Enabled {
		if err := a.openImages(); err != nil {
			return nil, err
		}
		opts = append(opts, recommend.WithImageSource(a.fetcher))
	}

	a.ranker, err = recommend.NewRanker(cfg.RankerConfig(), idx, logger, opts...)
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) openImages() error {
	if a.cfg.Images.CacheDir != "" {
		store, err := imagefetch.OpenBadgerStore(a.cfg.Images.CacheDir, a.logger)
		if err != nil {
			return fmt.Errorf("open image cache: %w", err)
		}
		a.store = store
	} else {
		a.store = imagefetch.NewMemoryStore(max(a.catalog.Len(), 256), a.cfg.Images.CacheTTL)
	}

	fetcher, err := imagefetch.New(a.cfg.FetchConfig(), a.logger, imagefetch.WithStore(a.store))
	if err != nil {
		a.Close()
		return fmt.Errorf("image fetcher: %w", err)
	}
	a.fetcher = fetcher
	return nil
}

// Close releases the image store.
func (a *app) Close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		a.logger.Error().Err(err).Msg("Error closing image cache")
	}
	a.store = nil
}

// weightsFromFlags resolves --mode / --text-weight / --image-weight. An
// explicit mode wins over weights.
func weightsFromFlags(cmd *cobra.Command, base recommend.Weights) (recommend.Weights, error) {
	flags := cmd.Flags()
	if flags.Changed("mode") {
		s, _ := flags.GetString("mode")
		mode, err := recommend.ParseMode(s)
		if err != nil {
			return recommend.Weights{}, err
		}
		return mode.Weights(base), nil
	}

	w := base
	if flags.Changed("text-weight") {
		w.Text, _ = flags.GetFloat64("text-weight")
	}
	if flags.Changed("image-weight") {
		w.Image, _ = flags.GetFloat64("image-weight")
	}
	if err := w.Validate(); err != nil {
		return recommend.Weights{}, err
	}
	return w, nil
}

func addWeightFlags(cmd *cobra.Command) {
	cmd.Flags().String("mode", "combined", "Similarity mode (text|image|combined)")
	cmd.Flags().Float64("text-weight", 0, "Text weight in combined mode (default from config)")
	cmd.Flags().Float64("image-weight", 0, "Image weight in combined mode (default from config)")
}

func printf(cmd *cobra.Command, format string, args ...any) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
