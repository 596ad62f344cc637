// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package main

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/lookalike/internal/api"
	"github.com/tomtom215/lookalike/internal/catalog"
	"github.com/tomtom215/lookalike/internal/logging"
	"github.com/tomtom215/lookalike/internal/metrics"
	"github.com/tomtom215/lookalike/internal/supervisor"
	"github.com/tomtom215/lookalike/internal/supervisor/services"
)

func NewServeCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the similarity API over HTTP",
		Long: `Start the HTTP API. Features for the whole catalog are computed in the
background; /api/v1/health/ready reports 503 until that finishes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, version)
		},
	}

	cmd.Flags().String("addr", "", "Listen address host:port (default from config)")
	cmd.Flags().Bool("no-warmup", false, "Skip background feature warm-up")
	return cmd
}

func runServe(cmd *cobra.Command, version string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.cfg
	metrics.SetAppInfo(version, runtime.Version())

	addr := cfg.Server.Addr()
	if cmd.Flags().Changed("addr") {
		addr, _ = cmd.Flags().GetString("addr")
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{})

	handlerOpts := []api.HandlerOption{
		api.WithRequestTimeout(cfg.Server.Timeout),
		api.WithVersion(version),
		api.WithLogger(a.logger),
	}
	if skip, _ := cmd.Flags().GetBool("no-warmup"); !skip {
		warmup := services.NewWarmupService(a.ranker, nil, a.logger)
		tree.AddFeatureService(warmup)
		handlerOpts = append(handlerOpts, api.WithReadiness(warmup))
	}

	handler := api.NewHandler(a.ranker, a.catalog, catalog.ComputeStats(a.catalog), handlerOpts...)
	mw := api.NewChiMiddleware(&api.ChiMiddlewareConfig{
		CORSAllowedOrigins: cfg.Server.CORSOrigins,
		CORSMaxAge:         86400,
		RateLimitRequests:  cfg.Server.RateLimitReqs,
		RateLimitWindow:    cfg.Server.RateLimitWindow,
		RateLimitDisabled:  cfg.Server.RateLimitDisabled,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           api.NewRouter(handler, mw),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	a.logger.Info().
		Str("addr", addr).
		Int("products", a.catalog.Len()).
		Bool("images", cfg.Images.Enabled).
		Str("version", version).
		Msg("Starting Lookalike API")

	err = tree.Serve(cmd.Context())

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		a.logger.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	a.logger.Info().Msg("Lookalike API stopped")
	return nil
}
