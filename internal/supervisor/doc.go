// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

// Package supervisor runs the serve-mode services under a suture v4
// supervisor tree.
//
// Services that return an error are restarted with backoff. A service that
// has finished its work returns suture.ErrDoNotRestart (see
// services.WarmupService). Supervisor events go to zerolog through
// sutureslog and logging.NewSlogLogger:
//
//	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
//	tree.AddFeatureService(services.NewWarmupService(ranker, nil, logger))
//	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
//	err := tree.Serve(ctx)
package supervisor
