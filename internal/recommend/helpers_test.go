// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package recommend

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/lookalike/internal/catalog"
	"github.com/tomtom215/lookalike/internal/models"
)

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

// swatch encodes a solid-color PNG.
func swatch(t *testing.T, c color.Color, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode swatch: %v", err)
	}
	return buf.Bytes()
}

var errNotFound = errors.New("image not found")

// fakeImages serves image bytes from memory and counts fetches per source.
type fakeImages struct {
	mu     sync.Mutex
	data   map[string][]byte
	calls  map[string]int
	gate   chan struct{}
	failed map[string]bool
}

func newFakeImages(data map[string][]byte) *fakeImages {
	return &fakeImages{
		data:   data,
		calls:  make(map[string]int),
		failed: make(map[string]bool),
	}
}

func (f *fakeImages) Fetch(ctx context.Context, source string) ([]byte, error) {
	f.mu.Lock()
	f.calls[source]++
	gate := f.gate
	data, ok := f.data[source]
	fail := f.failed[source]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ok || fail {
		return nil, errNotFound
	}
	return data, nil
}

func (f *fakeImages) count(source string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[source]
}

func newIndex(t *testing.T, products ...models.Product) *catalog.Index {
	t.Helper()
	idx, dups := catalog.NewIndex(products)
	if len(dups) > 0 {
		t.Fatalf("duplicate ids in fixture: %v", dups)
	}
	return idx
}

func newTestRanker(t *testing.T, cfg *Config, cat Catalog, opts ...Option) *Ranker {
	t.Helper()
	r, err := NewRanker(cfg, cat, zerolog.Nop(), opts...)
	if err != nil {
		t.Fatalf("NewRanker() error = %v", err)
	}
	return r
}

// exampleCatalog is the red dress / red shirt / blue scarf catalog.
func exampleCatalog(t *testing.T) (*catalog.Index, *fakeImages) {
	t.Helper()
	images := newFakeImages(map[string][]byte{
		"red.png":  swatch(t, red, 32, 32),
		"blue.png": swatch(t, blue, 32, 32),
	})
	idx := newIndex(t,
		models.Product{ID: "P1", Name: "red cotton dress", Category: "dress", ImageSource: "red.png"},
		models.Product{ID: "P2", Name: "red cotton shirt", Category: "shirt", ImageSource: "red.png"},
		models.Product{ID: "P3", Name: "blue silk scarf", Category: "scarf", ImageSource: "blue.png"},
	)
	return idx, images
}

// waitUntil polls cond until it holds or two seconds pass.
func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(time.Millisecond)
	}
}
