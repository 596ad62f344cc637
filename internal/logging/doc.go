// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

// Package logging provides the zerolog-based structured logger shared by
// every Lookalike component.
//
// JSON output is the default; console output is intended for local use of
// the CLI. The global logger is usable before Init is called.
//
//	logging.Init(logging.Config{Level: "debug", Format: "console"})
//	logging.Info().Str("product_id", "P1").Int("k", 5).Msg("recommendations computed")
//
// # Components
//
// Long-lived parts of the system take a zerolog.Logger in their
// constructors. WithComponent produces one tagged with a component field:
//
//	ranker, err := recommend.NewRanker(cfg, idx, logging.WithComponent("recommend"))
//
// # Request Context
//
// The HTTP layer stores a request ID in the context; Ctx returns a logger that
// carries it:
//
//	ctx = logging.ContextWithRequestID(ctx, logging.GenerateRequestID())
//	logging.Ctx(ctx).Warn().Err(err).Msg("image features unavailable")
//
// # slog
//
// NewSlogLogger adapts zerolog to log/slog for libraries such as sutureslog.
//
// # Configuration
//
// Settings come from the logging section of the config file, or from the
// LOG_LEVEL, LOG_FORMAT and LOG_CALLER environment variables
// (see internal/config).
package logging
