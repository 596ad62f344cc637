// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package imagefetch

import (
	"crypto/md5" //nolint:gosec // content addressing, not security
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/lookalike/internal/cache"
)

// Store persists fetched image bytes across runs.
type Store interface {
	// Get returns the bytes for key. A missing or expired key is not an error.
	Get(key string) ([]byte, bool, error)
	// Set stores data for key with the given time-to-live.
	Set(key string, data []byte, ttl time.Duration) error
	// Close releases the store.
	Close() error
}

// CacheKey is the store key for an image reference.
func CacheKey(source string) string {
	sum := md5.Sum([]byte(source)) //nolint:gosec // content addressing, not security
	return "img:" + hex.EncodeToString(sum[:])
}

// MemoryStore keeps images in a bounded in-process LRU.
type MemoryStore struct {
	lru *cache.LRU[[]byte]
}

// NewMemoryStore creates a store holding at most capacity images for ttl.
func NewMemoryStore(capacity int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{lru: cache.NewLRU[[]byte](capacity, ttl)}
}

// Get implements Store.
func (s *MemoryStore) Get(key string) ([]byte, bool, error) {
	data, ok := s.lru.Get(key)
	return data, ok, nil
}

// Set implements Store. The per-entry ttl is ignored in favor of the store TTL.
func (s *MemoryStore) Set(key string, data []byte, _ time.Duration) error {
	s.lru.Add(key, data)
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	s.lru.Clear()
	return nil
}

// Len returns the number of cached images.
func (s *MemoryStore) Len() int {
	return s.lru.Len()
}

// BadgerStore keeps images in an on-disk BadgerDB with native TTLs.
type BadgerStore struct {
	db     *badger.DB
	logger zerolog.Logger
}

// OpenBadgerStore opens (or creates) a store in dir. An empty dir opens an
// in-memory database.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func OpenBadgerStore(dir string, logger zerolog.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	} else if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create image cache dir: %w", err)
	}
	opts = opts.WithLogger(badgerLogger{logger: logger}).WithLoggingLevel(badger.WARNING)
	opts.NumCompactors = 2
	opts.ValueLogFileSize = 64 << 20

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logger.Info().Str("path", dir).Bool("in_memory", dir == "").Msg("image cache opened")
	return &BadgerStore{db: db, logger: logger}, nil
}

// Get implements Store.
func (s *BadgerStore) Get(key string) ([]byte, bool, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return data, true, nil
}

// Set implements Store.
func (s *BadgerStore) Set(key string, data []byte, ttl time.Duration) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), data)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Close implements Store.
func (s *BadgerStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	return nil
}

// badgerLogger routes BadgerDB's printf-style logging through zerolog.
type badgerLogger struct {
	logger zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msgf(trimNewline(format), args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn().Msgf(trimNewline(format), args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info().Msgf(trimNewline(format), args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug().Msgf(trimNewline(format), args...)
}

func trimNewline(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\n' {
		return s[:n-1]
	}
	return s
}
