// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package recommend

import (
	"errors"
	"math"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/lookalike/internal/features"
)

func TestTextSimilarity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b features.TextVector
		want Score
	}{
		{name: "both empty", a: nil, b: features.TextVector{}, want: Absent()},
		{name: "one empty", a: features.TextVector{"red": 1}, b: nil, want: Absent()},
		{name: "identical", a: features.TextVector{"red": 2, "dress": 1}, b: features.TextVector{"red": 2, "dress": 1}, want: Present(1)},
		{name: "disjoint", a: features.TextVector{"red": 1}, b: features.TextVector{"blue": 1}, want: Present(0)},
		{name: "partial", a: features.TextVector{"red": 1, "cotton": 1, "dress": 1}, b: features.TextVector{"red": 1, "cotton": 1, "shirt": 1}, want: Present(2.0 / 3.0)},
		{name: "scaled copy", a: features.TextVector{"a": 1, "b": 3}, b: features.TextVector{"a": 2, "b": 6}, want: Present(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := TextSimilarity(tt.a, tt.b)
			if got.Present != tt.want.Present || math.Abs(got.Value-tt.want.Value) > 1e-12 {
				t.Errorf("TextSimilarity() = %v, want %v", got, tt.want)
			}
			if rev := TextSimilarity(tt.b, tt.a); rev != got {
				t.Errorf("TextSimilarity(b, a) = %v, want %v (symmetric)", rev, got)
			}
		})
	}
}

func TestTextSimilarity_SelfIsExactlyOne(t *testing.T) {
	t.Parallel()

	x := features.NewTextExtractor()
	for _, text := range []string{
		"red cotton dress",
		"Elegant evening gown with crystal embellishment, crystal buttons and silk lining",
		"a b c 12 34 56 seventy eight",
	} {
		v := x.Extract(text)
		if got := TextSimilarity(v, v); got != Present(1) {
			t.Errorf("TextSimilarity(%q, self) = %v, want exactly 1", text, got)
		}
	}
}

func TestImageSimilarity(t *testing.T) {
	t.Parallel()

	x := features.NewImageExtractor(features.DefaultImageConfig())
	redImg := x.Extract(swatch(t, red, 20, 10))
	blueImg := x.Extract(swatch(t, blue, 20, 10))
	if !redImg.Present || !blueImg.Present {
		t.Fatal("swatch features absent")
	}

	t.Run("self", func(t *testing.T) {
		got, err := ImageSimilarity(redImg, redImg)
		if err != nil || got != Present(1) {
			t.Errorf("ImageSimilarity(self) = %v, %v; want exactly 1", got, err)
		}
	})

	t.Run("symmetric and bounded", func(t *testing.T) {
		ab, err := ImageSimilarity(redImg, blueImg)
		if err != nil {
			t.Fatalf("ImageSimilarity() error = %v", err)
		}
		ba, _ := ImageSimilarity(blueImg, redImg)
		if ab != ba {
			t.Errorf("ImageSimilarity not symmetric: %v vs %v", ab, ba)
		}
		if !ab.Present || ab.Value <= 0 || ab.Value >= 1 {
			t.Errorf("ImageSimilarity(red, blue) = %v, want in (0, 1)", ab)
		}
	})

	t.Run("absent", func(t *testing.T) {
		for _, pair := range [][2]features.Image{
			{redImg, features.AbsentImage()},
			{features.AbsentImage(), redImg},
			{features.AbsentImage(), features.AbsentImage()},
		} {
			got, err := ImageSimilarity(pair[0], pair[1])
			if err != nil || got.Present {
				t.Errorf("ImageSimilarity() = %v, %v; want absent", got, err)
			}
		}
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		short := features.PresentImage([]float64{0.5, 0.5})
		_, err := ImageSimilarity(redImg, short)
		if !errors.Is(err, ErrContractViolation) {
			t.Errorf("ImageSimilarity() error = %v, want ErrContractViolation", err)
		}
	})

	t.Run("zero vector", func(t *testing.T) {
		zero := features.PresentImage([]float64{0, 0})
		got, err := ImageSimilarity(zero, features.PresentImage([]float64{1, 0}))
		if err != nil || got != Present(0) {
			t.Errorf("ImageSimilarity(zero) = %v, %v; want present 0", got, err)
		}
	})
}

func TestCombine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		text, image Score
		w           Weights
		want        float64
	}{
		{name: "weighted average", text: Present(0.5), image: Present(1), w: Weights{Text: 0.5, Image: 0.5}, want: 0.75},
		{name: "unnormalized weights", text: Present(1), image: Present(0), w: Weights{Text: 3, Image: 1}, want: 0.75},
		{name: "text only present", text: Present(0.4), image: Absent(), w: Weights{Text: 0.6, Image: 0.4}, want: 0.4},
		{name: "image only present", text: Absent(), image: Present(0.9), w: Weights{Text: 0.6, Image: 0.4}, want: 0.9},
		{name: "text present zero weight", text: Present(0.8), image: Absent(), w: Weights{Image: 1}, want: 0},
		{name: "image present zero weight", text: Absent(), image: Present(0.8), w: Weights{Text: 1}, want: 0},
		{name: "both absent", text: Absent(), image: Absent(), w: Weights{Text: 1, Image: 1}, want: 0},
		{name: "both present text weight zero", text: Present(0.2), image: Present(0.6), w: Weights{Image: 2}, want: 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Combine(tt.text, tt.image, tt.w); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Combine() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeights_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		w       Weights
		wantErr bool
	}{
		{name: "defaults", w: Weights{Text: 0.6, Image: 0.4}},
		{name: "text only", w: Weights{Text: 1}},
		{name: "image only", w: Weights{Image: 5}},
		{name: "all zero", w: Weights{}, wantErr: true},
		{name: "negative text", w: Weights{Text: -0.1, Image: 1}, wantErr: true},
		{name: "negative image", w: Weights{Text: 1, Image: -1}, wantErr: true},
		{name: "infinite", w: Weights{Text: math.Inf(1)}, wantErr: true},
		{name: "NaN", w: Weights{Image: math.NaN()}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.w.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrContractViolation) {
				t.Errorf("Validate() error = %v, want ErrContractViolation", err)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	base := Weights{Text: 0.6, Image: 0.4}
	tests := []struct {
		in      string
		want    Mode
		weights Weights
		wantErr bool
	}{
		{in: "", want: ModeCombined, weights: base},
		{in: "combined", want: ModeCombined, weights: base},
		{in: " Text ", want: ModeText, weights: Weights{Text: 1}},
		{in: "IMAGE", want: ModeImage, weights: Weights{Image: 1}},
		{in: "audio", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if w := got.Weights(base); w != tt.weights {
				t.Errorf("Weights() = %+v, want %+v", w, tt.weights)
			}
			if ModeOf(got.Weights(base)) != tt.want {
				t.Errorf("ModeOf(%+v) = %q, want %q", got.Weights(base), ModeOf(got.Weights(base)), tt.want)
			}
		})
	}
}

func TestScore_JSON(t *testing.T) {
	t.Parallel()

	r := SimilarityResult{CandidateID: "P2", TextSimilarity: Present(0.5), ImageSimilarity: Absent(), CombinedScore: 0.5}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"candidate_id":"P2","text_similarity":0.5,"image_similarity":null,"combined_score":0.5}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}

	var back SimilarityResult
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if back.TextSimilarity != Present(0.5) || back.ImageSimilarity.Present {
		t.Errorf("Unmarshal() = %+v", back)
	}

	if s := Present(1.5); s.Value != 1 {
		t.Errorf("Present(1.5) = %v, want clipped to 1", s.Value)
	}
	if got := Absent().String(); got != "n/a" {
		t.Errorf("Absent().String() = %q, want n/a", got)
	}
}
