// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package catalog

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/lookalike/internal/metrics"
	"github.com/tomtom215/lookalike/internal/models"
)

// ErrNoSources is returned when no catalog file was given.
var ErrNoSources = errors.New("no catalog sources configured")

// LoadFile reads and decodes one catalog file.
func LoadFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	res, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return res, nil
}

// LoadFiles merges catalog files into one Index in the given order.
// Duplicate ids across files keep the first occurrence and are logged.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func LoadFiles(paths []string, logger zerolog.Logger) (*Index, error) {
	if len(paths) == 0 {
		return nil, ErrNoSources
	}
	logger = logger.With().Str("component", "catalog").Logger()

	start := time.Now()
	skipped := 0
	idx := &Index{products: make(map[string]models.Product)}
	for _, path := range paths {
		res, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		skipped += res.Skipped
		dups := idx.Add(res.Products...)

		logger.Info().
			Str("path", path).
			Int("products", len(res.Products)).
			Int("skipped", res.Skipped).
			Int("duplicates", len(dups)).
			Msg("catalog loaded")
		if len(dups) > 0 {
			logger.Warn().
				Str("path", path).
				Strs("ids", dups).
				Msg("duplicate product ids ignored")
		}
	}
	metrics.RecordCatalogLoad(idx.Len(), skipped, time.Since(start))
	return idx, nil
}

// ReadSourceList reads a list of catalog paths, one per line. Blank lines and
// lines starting with '#' are ignored. Relative paths resolve against the
// list file's directory.
func ReadSourceList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source list: %w", err)
	}
	defer func() { _ = f.Close() }()

	base := filepath.Dir(path)
	var paths []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !filepath.IsAbs(line) {
			line = filepath.Join(base, line)
		}
		paths = append(paths, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read source list: %w", err)
	}
	return paths, nil
}
