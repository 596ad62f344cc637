// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

type countingService struct {
	name   string
	starts atomic.Int32
	failN  atomic.Int32
}

func (s *countingService) Serve(ctx context.Context) error {
	s.starts.Add(1)
	if s.failN.Load() > 0 {
		s.failN.Add(-1)
		return errors.New("crash")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *countingService) String() string { return s.name }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestTreeConfig_Defaults(t *testing.T) {
	t.Parallel()

	got := TreeConfig{FailureBackoff: time.Second}.withDefaults()
	want := DefaultTreeConfig()
	want.FailureBackoff = time.Second
	if got != want {
		t.Errorf("withDefaults() = %+v, want %+v", got, want)
	}
}

func TestTree_RunsBothLayers(t *testing.T) {
	t.Parallel()

	tree := NewTree(testLogger(), TreeConfig{ShutdownTimeout: time.Second})
	feat := &countingService{name: "feat"}
	api := &countingService{name: "api"}
	tree.AddFeatureService(feat)
	tree.AddAPIService(api)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	waitFor(t, func() bool { return feat.starts.Load() == 1 && api.starts.Load() == 1 })
	cancel()

	select {
	case <-errCh:
	case <-time.After(3 * time.Second):
		t.Fatal("tree did not stop")
	}
}

func TestTree_FailureIsolated(t *testing.T) {
	t.Parallel()

	tree := NewTree(testLogger(), TreeConfig{
		FailureBackoff:   time.Millisecond,
		FailureThreshold: 100,
		ShutdownTimeout:  time.Second,
	})
	feat := &countingService{name: "feat"}
	feat.failN.Store(3)
	api := &countingService{name: "api"}
	tree.AddFeatureService(feat)
	tree.AddAPIService(api)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := tree.ServeBackground(ctx)

	waitFor(t, func() bool { return feat.starts.Load() >= 4 })
	if got := api.starts.Load(); got != 1 {
		t.Errorf("api starts = %d, want 1 while features restarted", got)
	}
	cancel()
	<-errCh

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) != 0 {
		t.Errorf("unstopped services: %v", report)
	}
}
