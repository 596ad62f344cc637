// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package features

import (
	"bytes"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder

	_ "golang.org/x/image/bmp" // register BMP decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// sizeDescriptors is the number of trailing width/height/aspect components.
const sizeDescriptors = 3

// ImageConfig controls the shape of image feature vectors.
type ImageConfig struct {
	// BinsPerChannel is the number of evenly spaced histogram bins per RGB channel
	BinsPerChannel int

	// SampleSize bounds the longest side of the image before histogramming
	SampleSize int

	// MaxDimension is the pixel size mapped to 1.0 for width and height descriptors
	MaxDimension float64

	// MaxAspect is the width/height ratio mapped to 1.0 for the aspect descriptor
	MaxAspect float64

	// MaxPixels is the largest width*height decoded; bigger images are absent
	MaxPixels int64
}

// DefaultImageConfig returns the default extractor settings (8 bins per channel).
func DefaultImageConfig() ImageConfig {
	return ImageConfig{
		BinsPerChannel: 8,
		SampleSize:     128,
		MaxDimension:   2048,
		MaxAspect:      4,
		MaxPixels:      40_000_000,
	}
}

// Dimensions returns the fixed vector length produced with this config.
func (c ImageConfig) Dimensions() int {
	return 3*c.BinsPerChannel + sizeDescriptors
}

// Image is an optional image feature vector. A zero Image is absent, which is
// distinct from a present vector of a mostly black image.
type Image struct {
	Vector  []float64
	Present bool
}

// AbsentImage returns the "no image signal" value.
func AbsentImage() Image {
	return Image{}
}

// PresentImage wraps a computed vector.
func PresentImage(vec []float64) Image {
	return Image{Vector: vec, Present: true}
}

// ImageExtractor computes color histogram and size descriptors from encoded images.
type ImageExtractor struct {
	cfg ImageConfig
}

// NewImageExtractor creates an extractor. Non-positive config values fall back to defaults.
func NewImageExtractor(cfg ImageConfig) *ImageExtractor {
	def := DefaultImageConfig()
	if cfg.BinsPerChannel <= 0 || cfg.BinsPerChannel > 256 {
		cfg.BinsPerChannel = def.BinsPerChannel
	}
	if cfg.SampleSize <= 0 {
		cfg.SampleSize = def.SampleSize
	}
	if cfg.MaxDimension <= 0 {
		cfg.MaxDimension = def.MaxDimension
	}
	if cfg.MaxAspect <= 0 {
		cfg.MaxAspect = def.MaxAspect
	}
	if cfg.MaxPixels <= 0 {
		cfg.MaxPixels = def.MaxPixels
	}
	return &ImageExtractor{cfg: cfg}
}

// Config returns the effective configuration.
func (e *ImageExtractor) Config() ImageConfig {
	return e.cfg
}

// Extract decodes data and returns its feature vector. Empty input, unknown
// formats, decoder failures and headers declaring more than MaxPixels all
// produce an absent Image.
func (e *ImageExtractor) Extract(data []byte) (img Image) {
	if len(data) == 0 {
		return AbsentImage()
	}
	defer func() {
		// third-party decoders run on untrusted bytes
		if r := recover(); r != nil {
			img = AbsentImage()
		}
	}()

	if !e.withinLimits(data) {
		return AbsentImage()
	}
	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return AbsentImage()
	}
	return e.FromImage(decoded)
}

// withinLimits reads only the image header so oversized images are rejected
// before any pixel buffer is allocated.
func (e *ImageExtractor) withinLimits(data []byte) bool {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return false
	}
	return int64(cfg.Width)*int64(cfg.Height) <= e.cfg.MaxPixels
}

// FromImage computes the feature vector of an already decoded image.
func (e *ImageExtractor) FromImage(src image.Image) Image {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return AbsentImage()
	}

	rgba := e.sample(src)
	bins := e.cfg.BinsPerChannel
	vec := make([]float64, e.cfg.Dimensions())

	pixels := 0
	pix := rgba.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		vec[int(pix[i])*bins/256]++
		vec[bins+int(pix[i+1])*bins/256]++
		vec[2*bins+int(pix[i+2])*bins/256]++
		pixels++
	}
	if pixels == 0 {
		return AbsentImage()
	}
	for i := 0; i < 3*bins; i++ {
		vec[i] /= float64(pixels)
	}

	base := 3 * bins
	vec[base] = clip01(float64(width) / e.cfg.MaxDimension)
	vec[base+1] = clip01(float64(height) / e.cfg.MaxDimension)
	vec[base+2] = clip01(float64(width) / float64(height) / e.cfg.MaxAspect)

	return PresentImage(vec)
}

// sample converts src to RGBA, scaling it down so the longest side is at most SampleSize.
func (e *ImageExtractor) sample(src image.Image) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	if longest := max(w, h); longest > e.cfg.SampleSize {
		scale := float64(e.cfg.SampleSize) / float64(longest)
		w = max(1, int(float64(w)*scale))
		h = max(1, int(float64(h)*scale))
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
		return dst
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

func clip01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
