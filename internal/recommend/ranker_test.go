// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/lookalike/internal/models"
)

func TestRanker_Example(t *testing.T) {
	t.Parallel()

	idx, images := exampleCatalog(t)
	r := newTestRanker(t, nil, idx, WithImageSource(images))

	list, err := r.Recommend(context.Background(), "P1", []string{"P2", "P3"}, 2, Weights{Text: 0.5, Image: 0.5})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if got, want := list.IDs(), []string{"P2", "P3"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("IDs() = %v, want %v", got, want)
	}
	p2, p3 := list.Results[0], list.Results[1]
	if p2.CombinedScore <= p3.CombinedScore {
		t.Errorf("score P2 = %v, want > P3 = %v", p2.CombinedScore, p3.CombinedScore)
	}
	if p2.ImageSimilarity.Value != 1 {
		t.Errorf("P2 image similarity = %v, want 1 (identical swatch)", p2.ImageSimilarity)
	}
	if want := 2.0 / 3.0; math.Abs(p2.TextSimilarity.Value-want) > 1e-12 {
		t.Errorf("P2 text similarity = %v, want %v", p2.TextSimilarity.Value, want)
	}
	if p3.TextSimilarity.Value != 0 || !p3.TextSimilarity.Present {
		t.Errorf("P3 text similarity = %v, want present 0", p3.TextSimilarity)
	}

	e := p2.Explanation
	if e == nil {
		t.Fatal("P2 explanation = nil")
	}
	if want := []string{"cotton", "red"}; !reflect.DeepEqual(e.SharedTerms, want) {
		t.Errorf("SharedTerms = %v, want %v", e.SharedTerms, want)
	}
	if e.ColorSimilarity != "very similar colors" {
		t.Errorf("ColorSimilarity = %q, want very similar colors", e.ColorSimilarity)
	}
	if e.SameCategory {
		t.Error("SameCategory = true, want false for dress vs shirt")
	}
	if e.SharedAttributes != nil {
		t.Errorf("SharedAttributes = %v, want none", e.SharedAttributes)
	}
}

func TestRanker_ExcludesTargetAndDuplicates(t *testing.T) {
	t.Parallel()

	idx, images := exampleCatalog(t)
	r := newTestRanker(t, nil, idx, WithImageSource(images))

	list, err := r.Recommend(context.Background(), "P1", []string{"P1", "P3", "P2", "P3"}, 10, Weights{Text: 1})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if got, want := list.IDs(), []string{"P2", "P3"}; !reflect.DeepEqual(got, want) {
		t.Errorf("IDs() = %v, want %v", got, want)
	}
	if list.Metadata.Candidates != 2 {
		t.Errorf("Candidates = %d, want 2", list.Metadata.Candidates)
	}
}

func TestRanker_WholeCatalog(t *testing.T) {
	t.Parallel()

	idx, images := exampleCatalog(t)
	r := newTestRanker(t, nil, idx, WithImageSource(images))

	list, err := r.Recommend(context.Background(), "P3", nil, 5, Weights{Text: 0.6, Image: 0.4})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	for _, id := range list.IDs() {
		if id == "P3" {
			t.Fatal("target returned in its own recommendations")
		}
	}
	if len(list.Results) != 2 {
		t.Errorf("len(Results) = %d, want 2", len(list.Results))
	}
}

func TestRanker_TieBreakAndLength(t *testing.T) {
	t.Parallel()

	// Every candidate has the same text, so all scores tie.
	products := []models.Product{{ID: "target", Name: "linen summer dress"}}
	for _, id := range []string{"d", "b", "e", "a", "c"} {
		products = append(products, models.Product{ID: id, Name: "linen summer dress"})
	}
	idx := newIndex(t, products...)
	r := newTestRanker(t, nil, idx)

	tests := []struct {
		k    int
		want []string
	}{
		{k: 1, want: []string{"a"}},
		{k: 3, want: []string{"a", "b", "c"}},
		{k: 5, want: []string{"a", "b", "c", "d", "e"}},
		{k: 50, want: []string{"a", "b", "c", "d", "e"}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("k=%d", tt.k), func(t *testing.T) {
			list, err := r.Recommend(context.Background(), "target", nil, tt.k, Weights{Text: 1, Image: 1})
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			if got := list.IDs(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("IDs() = %v, want %v", got, tt.want)
			}
			for _, res := range list.Results {
				if res.CombinedScore != 1 {
					t.Errorf("%s score = %v, want 1", res.CandidateID, res.CombinedScore)
				}
			}
		})
	}
}

func TestRanker_OrderedByScore(t *testing.T) {
	t.Parallel()

	idx := newIndex(t,
		models.Product{ID: "t", Name: "black leather ankle boots"},
		models.Product{ID: "c1", Name: "black leather ankle boots"},
		models.Product{ID: "c2", Name: "black leather belt"},
		models.Product{ID: "c3", Name: "black cotton socks"},
		models.Product{ID: "c4", Name: "floral silk scarf"},
		models.Product{ID: "c5", Name: ""},
	)
	r := newTestRanker(t, nil, idx)

	list, err := r.Recommend(context.Background(), "t", nil, 10, Weights{Text: 0.6, Image: 0.4})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if got, want := list.IDs(), []string{"c1", "c2", "c3", "c4", "c5"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("IDs() = %v, want %v", got, want)
	}
	for i := 1; i < len(list.Results); i++ {
		if list.Results[i].CombinedScore > list.Results[i-1].CombinedScore {
			t.Errorf("result %d score %v > result %d score %v", i, list.Results[i].CombinedScore, i-1, list.Results[i-1].CombinedScore)
		}
	}

	// No text and no image: kept with a zero score.
	last := list.Results[4]
	if last.TextSimilarity.Present || last.CombinedScore != 0 {
		t.Errorf("c5 = %+v, want absent text and score 0", last)
	}
	if list.Metadata.TextAbsent != 1 || list.Metadata.ImageAbsent != 5 {
		t.Errorf("absent counts = %d text, %d image; want 1, 5", list.Metadata.TextAbsent, list.Metadata.ImageAbsent)
	}
}

func TestRanker_Errors(t *testing.T) {
	t.Parallel()

	idx, images := exampleCatalog(t)
	r := newTestRanker(t, nil, idx, WithImageSource(images))
	ok := Weights{Text: 0.5, Image: 0.5}

	tests := []struct {
		name       string
		target     string
		candidates []string
		k          int
		weights    Weights
		wantErr    error
		wantID     string
	}{
		{name: "unknown target", target: "nope", k: 1, weights: ok, wantErr: ErrUnknownProduct, wantID: "nope"},
		{name: "unknown candidate", target: "P1", candidates: []string{"P2", "ghost"}, k: 1, weights: ok, wantErr: ErrUnknownProduct, wantID: "ghost"},
		{name: "k zero", target: "P1", k: 0, weights: ok, wantErr: ErrContractViolation},
		{name: "k negative", target: "P1", k: -3, weights: ok, wantErr: ErrContractViolation},
		{name: "both weights zero", target: "P1", k: 2, weights: Weights{}, wantErr: ErrContractViolation},
		{name: "negative weight", target: "P1", k: 2, weights: Weights{Text: -1, Image: 2}, wantErr: ErrContractViolation},
		{name: "NaN weight", target: "P1", k: 2, weights: Weights{Text: math.NaN(), Image: 1}, wantErr: ErrContractViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Recommend(context.Background(), tt.target, tt.candidates, tt.k, tt.weights)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Recommend() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantID != "" {
				var upe *UnknownProductError
				if !errors.As(err, &upe) || upe.ID != tt.wantID {
					t.Errorf("UnknownProductError = %v, want id %q", err, tt.wantID)
				}
			}
		})
	}

	if s := r.Stats(); s.Errors != int64(len(tests)) {
		t.Errorf("Stats().Errors = %d, want %d", s.Errors, len(tests))
	}
}

func TestRanker_ImageFailureDegradesToText(t *testing.T) {
	t.Parallel()

	idx, images := exampleCatalog(t)
	images.failed["blue.png"] = true
	r := newTestRanker(t, nil, idx, WithImageSource(images))

	list, err := r.Recommend(context.Background(), "P1", []string{"P3", "P2"}, 2, Weights{Text: 0.5, Image: 0.5})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	p3 := list.Results[1]
	if p3.CandidateID != "P3" {
		t.Fatalf("Results[1] = %s, want P3", p3.CandidateID)
	}
	if p3.ImageSimilarity.Present {
		t.Errorf("P3 image similarity = %v, want absent", p3.ImageSimilarity)
	}
	if p3.CombinedScore != p3.TextSimilarity.Value {
		t.Errorf("P3 combined = %v, want text-only score %v", p3.CombinedScore, p3.TextSimilarity.Value)
	}
	if p3.Explanation == nil || p3.Explanation.ColorSimilarity != "" {
		t.Errorf("P3 explanation = %+v, want no color band", p3.Explanation)
	}
}

func TestRanker_OneModalityWithZeroWeight(t *testing.T) {
	t.Parallel()

	images := newFakeImages(map[string][]byte{"red.png": swatch(t, red, 8, 8)})
	idx := newIndex(t,
		models.Product{ID: "t", Name: "red dress", ImageSource: "red.png"},
		models.Product{ID: "text-only", Name: "red dress"},
		models.Product{ID: "image-only", ImageSource: "red.png"},
	)
	r := newTestRanker(t, nil, idx, WithImageSource(images))

	tests := []struct {
		name    string
		weights Weights
		want    map[string]float64
	}{
		{name: "image only weights", weights: Weights{Image: 1}, want: map[string]float64{"image-only": 1, "text-only": 0}},
		{name: "text only weights", weights: Weights{Text: 1}, want: map[string]float64{"text-only": 1, "image-only": 0}},
		{name: "both weights", weights: Weights{Text: 1, Image: 3}, want: map[string]float64{"text-only": 1, "image-only": 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := r.Recommend(context.Background(), "t", nil, 5, tt.weights)
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			if len(list.Results) != 2 {
				t.Fatalf("len(Results) = %d, want 2 (no candidate excluded)", len(list.Results))
			}
			for _, res := range list.Results {
				if res.CombinedScore != tt.want[res.CandidateID] {
					t.Errorf("%s score = %v, want %v", res.CandidateID, res.CombinedScore, tt.want[res.CandidateID])
				}
			}
		})
	}
}

func TestRanker_Deterministic(t *testing.T) {
	t.Parallel()

	idx, images := exampleCatalog(t)
	cfg := DefaultConfig()
	cfg.Cache.Enabled = false
	r := newTestRanker(t, cfg, idx, WithImageSource(images))

	first, err := r.Recommend(context.Background(), "P2", nil, 2, cfg.Weights)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := r.Recommend(context.Background(), "P2", nil, 2, cfg.Weights)
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		if !reflect.DeepEqual(again.Results, first.Results) {
			t.Fatalf("run %d results differ:\n got %+v\nwant %+v", i, again.Results, first.Results)
		}
	}
}

func TestRanker_FeaturesComputedOnce(t *testing.T) {
	t.Parallel()

	images := newFakeImages(map[string][]byte{
		"a.png": swatch(t, red, 8, 8),
		"b.png": swatch(t, blue, 8, 8),
		"c.png": swatch(t, red, 16, 8),
	})
	images.gate = make(chan struct{})
	idx := newIndex(t,
		models.Product{ID: "a", Name: "red wool coat", ImageSource: "a.png"},
		models.Product{ID: "b", Name: "blue wool coat", ImageSource: "b.png"},
		models.Product{ID: "c", Name: "red rain coat", ImageSource: "c.png"},
	)
	cfg := DefaultConfig()
	cfg.Cache.Enabled = false
	r := newTestRanker(t, cfg, idx, WithImageSource(images))

	var wg sync.WaitGroup
	var failures atomic.Int32
	for i := 0; i < 20; i++ {
		wg.Add(1)
		target := []string{"a", "b", "c"}[i%3]
		go func() {
			defer wg.Done()
			if _, err := r.Recommend(context.Background(), target, nil, 2, cfg.Weights); err != nil {
				failures.Add(1)
			}
		}()
	}
	close(images.gate)
	wg.Wait()

	if n := failures.Load(); n != 0 {
		t.Fatalf("%d concurrent Recommend calls failed", n)
	}
	for _, src := range []string{"a.png", "b.png", "c.png"} {
		if got := images.count(src); got != 1 {
			t.Errorf("fetches of %s = %d, want 1", src, got)
		}
	}
	if s := r.Stats(); s.Features.Computes != 3 {
		t.Errorf("feature computes = %d, want 3", s.Features.Computes)
	}
}

func TestRanker_CanceledFetchNotCached(t *testing.T) {
	t.Parallel()

	idx, images := exampleCatalog(t)
	r := newTestRanker(t, nil, idx, WithImageSource(images))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Recommend(ctx, "P1", nil, 2, Weights{Text: 1, Image: 1}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Recommend(canceled) error = %v, want context.Canceled", err)
	}

	list, err := r.Recommend(context.Background(), "P1", nil, 2, Weights{Text: 1, Image: 1})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if !list.Metadata.TargetHasImage {
		t.Error("target image absent after canceled request, want present")
	}
}

func TestRanker_CancelDoesNotFailConcurrentRequest(t *testing.T) {
	t.Parallel()

	idx, images := exampleCatalog(t)
	images.gate = make(chan struct{})
	cfg := DefaultConfig()
	cfg.Cache.Enabled = false
	r := newTestRanker(t, cfg, idx, WithImageSource(images))
	w := Weights{Text: 0.5, Image: 0.5}

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := r.Recommend(ctxA, "P1", nil, 2, w)
		errA <- err
	}()
	waitUntil(t, func() bool { return images.count("red.png") > 0 })

	type outcome struct {
		list *RecommendationList
		err  error
	}
	resB := make(chan outcome, 1)
	go func() {
		list, err := r.Recommend(context.Background(), "P1", nil, 2, w)
		resB <- outcome{list, err}
	}()

	time.Sleep(20 * time.Millisecond)
	cancelA()
	if err := <-errA; !errors.Is(err, context.Canceled) {
		t.Errorf("canceled request error = %v, want context.Canceled", err)
	}
	close(images.gate)

	select {
	case out := <-resB:
		if out.err != nil {
			t.Fatalf("concurrent request error = %v, want nil", out.err)
		}
		if got := out.list.IDs(); len(got) != 2 || got[0] != "P2" {
			t.Errorf("ids = %v, want P2 first", got)
		}
		if !out.list.Metadata.TargetHasImage {
			t.Error("target image absent, want present")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("concurrent request did not return")
	}
}

func TestRanker_ResultCache(t *testing.T) {
	t.Parallel()

	idx, images := exampleCatalog(t)
	r := newTestRanker(t, nil, idx, WithImageSource(images))
	w := Weights{Text: 0.5, Image: 0.5}

	first, err := r.Recommend(context.Background(), "P1", nil, 2, w)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if first.Metadata.CacheHit {
		t.Error("first call CacheHit = true")
	}

	second, err := r.Recommend(context.Background(), "P1", nil, 2, w)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if !second.Metadata.CacheHit {
		t.Error("second call CacheHit = false")
	}
	if !reflect.DeepEqual(second.IDs(), first.IDs()) {
		t.Errorf("cached IDs = %v, want %v", second.IDs(), first.IDs())
	}

	// Mutating a returned list must not leak into the cache.
	second.Results[0].CandidateID = "mutated"
	third, _ := r.Recommend(context.Background(), "P1", nil, 2, w)
	if third.Results[0].CandidateID == "mutated" {
		t.Error("cached list was mutated through a returned copy")
	}

	exp := third.Results[0].Explanation
	if exp == nil || len(exp.SharedTerms) == 0 {
		t.Fatalf("Explanation = %+v, want shared terms", exp)
	}
	exp.SharedTerms[0] = "mutated"
	exp.ColorSimilarity = "mutated"
	fourth, _ := r.Recommend(context.Background(), "P1", nil, 2, w)
	if got := fourth.Results[0].Explanation; got.SharedTerms[0] == "mutated" || got.ColorSimilarity == "mutated" {
		t.Errorf("cached explanation was mutated through a returned copy: %+v", got)
	}

	other, err := r.Recommend(context.Background(), "P1", nil, 1, w)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if other.Metadata.CacheHit {
		t.Error("different k served from cache")
	}

	r.ClearCaches()
	if s := r.Stats(); s.CachedResults != 0 || s.Features.Entries != 0 {
		t.Errorf("Stats() after ClearCaches = %+v", s)
	}
}

func TestRanker_Similar(t *testing.T) {
	t.Parallel()

	idx, images := exampleCatalog(t)
	cfg := DefaultConfig()
	cfg.Limits.DefaultK = 1
	cfg.Limits.MaxK = 1
	r := newTestRanker(t, cfg, idx, WithImageSource(images))

	tests := []struct {
		name string
		k    int
		mode Mode
		want Weights
	}{
		{name: "default k combined", k: 0, mode: ModeCombined, want: cfg.Weights},
		{name: "capped k text", k: 10, mode: ModeText, want: Weights{Text: 1}},
		{name: "image", k: 1, mode: ModeImage, want: Weights{Image: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := r.Similar(context.Background(), "P1", tt.k, tt.mode)
			if err != nil {
				t.Fatalf("Similar() error = %v", err)
			}
			if list.K != 1 || len(list.Results) != 1 {
				t.Errorf("K = %d, len = %d; want 1, 1", list.K, len(list.Results))
			}
			if list.Weights != tt.want {
				t.Errorf("Weights = %+v, want %+v", list.Weights, tt.want)
			}
			if list.Mode != tt.mode {
				t.Errorf("Mode = %q, want %q", list.Mode, tt.mode)
			}
		})
	}
}

func TestRanker_Warm(t *testing.T) {
	t.Parallel()

	idx, images := exampleCatalog(t)
	r := newTestRanker(t, nil, idx, WithImageSource(images))

	var calls atomic.Int32
	var maxDone atomic.Int32
	err := r.Warm(context.Background(), nil, func(done, total int) {
		calls.Add(1)
		if total != 3 {
			t.Errorf("total = %d, want 3", total)
		}
		for {
			cur := maxDone.Load()
			if int32(done) <= cur || maxDone.CompareAndSwap(cur, int32(done)) {
				break
			}
		}
	})
	if err != nil {
		t.Fatalf("Warm() error = %v", err)
	}
	if calls.Load() != 3 || maxDone.Load() != 3 {
		t.Errorf("progress calls = %d, max done = %d; want 3, 3", calls.Load(), maxDone.Load())
	}
	if got := r.Stats().Features.Entries; got != 3 {
		t.Errorf("cached feature sets = %d, want 3", got)
	}
}

func TestRanker_TopPairs(t *testing.T) {
	t.Parallel()

	idx, images := exampleCatalog(t)
	r := newTestRanker(t, nil, idx, WithImageSource(images))

	pairs, err := r.TopPairs(context.Background(), nil, 2, Weights{Text: 0.5, Image: 0.5})
	if err != nil {
		t.Fatalf("TopPairs() error = %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("len(pairs) = %d, want 2", len(pairs))
	}
	if pairs[0].A != "P1" || pairs[0].B != "P2" {
		t.Errorf("best pair = %s/%s, want P1/P2", pairs[0].A, pairs[0].B)
	}
	if pairs[0].CombinedScore < pairs[1].CombinedScore {
		t.Errorf("pairs not sorted: %v < %v", pairs[0].CombinedScore, pairs[1].CombinedScore)
	}

	if _, err := r.TopPairs(context.Background(), nil, 0, Weights{Text: 1}); !errors.Is(err, ErrContractViolation) {
		t.Errorf("TopPairs(n=0) error = %v, want ErrContractViolation", err)
	}
	if _, err := r.TopPairs(context.Background(), []string{"P1", "missing"}, 1, Weights{Text: 1}); !errors.Is(err, ErrUnknownProduct) {
		t.Errorf("TopPairs(unknown) error = %v, want ErrUnknownProduct", err)
	}
}

func TestNewRanker_InvalidConfig(t *testing.T) {
	t.Parallel()

	idx, _ := exampleCatalog(t)
	cfg := DefaultConfig()
	cfg.Limits.Workers = 0
	if _, err := NewRanker(cfg, idx, zerolog.Nop()); err == nil {
		t.Error("NewRanker() with zero workers error = nil")
	}
	if _, err := NewRanker(nil, nil, zerolog.Nop()); err == nil {
		t.Error("NewRanker() with nil catalog error = nil")
	}
}
