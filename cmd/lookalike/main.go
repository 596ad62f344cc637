// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

// Package main is the lookalike command.
//
// Lookalike loads product catalogs from JSON files, extracts text and image
// features for each product and ranks the catalog by similarity to a target
// product.
//
// # Commands
//
//	lookalike recommend <product-id>   top-k similar products
//	lookalike analyze                  catalog summary and most similar pairs
//	lookalike serve                    HTTP API with Prometheus metrics
//
// # Configuration
//
// Settings are layered (highest priority wins):
//   - Command line flags
//   - Environment variables (CATALOG_PATHS, TEXT_WEIGHT, IMAGES_ENABLED, HTTP_PORT, LOG_LEVEL, ...)
//   - Config file (config.yaml, or the path in LOOKALIKE_CONFIG / --config)
//   - Built-in defaults
//
// # Example Usage
//
//	lookalike recommend --catalog products.json SKU-1042 --k 10
//	lookalike recommend --sources sources.txt SKU-1042 --mode image --json
//	IMAGES_ENABLED=false lookalike analyze --catalog products.json --pairs 5
//	lookalike serve --catalog products.json
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
)

// version is set via ldflags at build time
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, NewRootCmd(version)); err != nil {
		stop()
		os.Exit(1)
	}
}
