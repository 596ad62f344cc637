// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package imagefetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/tomtom215/lookalike/internal/metrics"
)

var (
	// ErrNoSource is returned for an empty image reference.
	ErrNoSource = errors.New("no image source")

	// ErrTooLarge is returned when an image exceeds Config.MaxBytes.
	ErrTooLarge = errors.New("image too large")

	// ErrNotImage is returned when the bytes are not a decodable image.
	ErrNotImage = errors.New("not a decodable image")

	// ErrInvalidURL is returned for URLs a request cannot be built from.
	ErrInvalidURL = errors.New("invalid image url")
)

// StatusError is a non-2xx HTTP response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d", e.URL, e.StatusCode)
}

// isPermanent reports failures a retry cannot fix.
func isPermanent(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= 400 && se.StatusCode < 500 && se.StatusCode != http.StatusTooManyRequests
	}
	return errors.Is(err, ErrTooLarge) || errors.Is(err, ErrNotImage) || errors.Is(err, ErrInvalidURL)
}

// Fetcher retrieves image bytes from http(s) URLs or local files.
//
// Remote fetches are bounded by a semaphore, paced by a token-bucket rate
// limiter, guarded by a circuit breaker, retried once on transient failure
// and cached in a Store. Every fetch has its own timeout.
type Fetcher struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
	sem     *semaphore.Weighted
	breaker *breaker
	store   Store
	logger  zerolog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// WithStore caches fetched bytes in s.
func WithStore(s Store) Option {
	return func(f *Fetcher) {
		f.store = s
	}
}

// New creates a Fetcher.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(cfg Config, logger zerolog.Logger, opts ...Option) (*Fetcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid image fetch config: %w", err)
	}
	if cfg.BreakerName == "" {
		cfg.BreakerName = "image-fetch"
	}

	logger = logger.With().Str("component", "imagefetch").Logger()
	f := &Fetcher{
		cfg:     cfg,
		client:  &http.Client{},
		sem:     semaphore.NewWeighted(int64(cfg.Concurrency)),
		breaker: newBreaker(cfg.BreakerName, logger),
		logger:  logger,
	}
	if cfg.RequestsPerSecond > 0 {
		f.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Fetch returns the bytes behind source, which is an http(s) URL, a file://
// URL or a filesystem path.
func (f *Fetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, ErrNoSource
	}

	key := CacheKey(source)
	if data, ok := f.cached(key); ok {
		return data, nil
	}

	if err := f.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer f.sem.Release(1)
	metrics.TrackImageFetch(true)
	defer metrics.TrackImageFetch(false)

	start := time.Now()
	kind := sourceKind(source)

	var data []byte
	var err error
	if kind == "http" {
		data, err = f.fetchRemote(ctx, source)
	} else {
		data, err = f.readFile(source)
	}
	if err == nil {
		err = checkImage(data)
	}

	if err != nil {
		result := "error"
		if isRejected(err) {
			result = "rejected"
		}
		metrics.RecordImageFetch(kind, result, 0, time.Since(start))
		return nil, err
	}
	metrics.RecordImageFetch(kind, "ok", len(data), time.Since(start))

	if f.store != nil {
		if err := f.store.Set(key, data, f.cfg.CacheTTL); err != nil {
			f.logger.Warn().Err(err).Str("source", source).Msg("failed to cache image")
		}
	}
	return data, nil
}

func (f *Fetcher) cached(key string) ([]byte, bool) {
	if f.store == nil {
		return nil, false
	}
	data, ok, err := f.store.Get(key)
	if err != nil {
		f.logger.Warn().Err(err).Str("key", key).Msg("image cache read failed")
		return nil, false
	}
	if ok && checkImage(data) != nil {
		f.logger.Debug().Str("key", key).Msg("discarding undecodable cached image")
		ok = false
	}
	metrics.RecordCacheLookup("images", ok)
	return data, ok
}

// fetchRemote retries once per configured retry with doubling delay.
// Client errors return immediately.
func (f *Fetcher) fetchRemote(ctx context.Context, rawURL string) ([]byte, error) {
	var err error
	delay := f.cfg.RetryDelay

	for attempt := 0; attempt <= f.cfg.Retries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		var data []byte
		data, err = f.breaker.execute(func() ([]byte, error) {
			return f.get(ctx, rawURL)
		})
		if err == nil {
			return data, nil
		}
		if isPermanent(err) || isRejected(err) {
			return nil, err
		}

		if attempt < f.cfg.Retries {
			f.logger.Debug().Err(err).Str("url", rawURL).Int("attempt", attempt+1).Dur("delay", delay).Msg("retrying image fetch")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			delay *= 2
		}
	}
	return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if f.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", f.cfg.UserAgent)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}
	if resp.ContentLength > f.cfg.MaxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, resp.ContentLength)
	}
	return readLimited(resp.Body, f.cfg.MaxBytes)
}

func (f *Fetcher) readFile(source string) ([]byte, error) {
	path := source
	if strings.HasPrefix(source, "file://") {
		u, err := url.Parse(source)
		if err != nil {
			return nil, fmt.Errorf("parse file url: %w", err)
		}
		path = u.Path
	}
	if !filepath.IsAbs(path) && f.cfg.BaseDir != "" {
		path = filepath.Join(f.cfg.BaseDir, path)
	}

	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	if info, err := file.Stat(); err == nil && info.Size() > f.cfg.MaxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, info.Size())
	}
	return readLimited(file, f.cfg.MaxBytes)
}

// State returns the circuit breaker state as a string.
func (f *Fetcher) State() string {
	return stateToString(f.breaker.state())
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}
	return data, nil
}

// checkImage rejects payloads whose header no registered decoder recognizes,
// so error pages served with 200 never reach the cache.
func checkImage(data []byte) error {
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	return nil
}

func sourceKind(source string) string {
	lower := strings.ToLower(source)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return "http"
	}
	return "file"
}
