// Copyright (C) 2025 the embercheck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/agpl-3.0.html> for the full license text.

package lint

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	badger "github.com/dgraph-io/badger/v4"
)

// DefaultCacheTTL is how long a clean-file entry stays valid.
const DefaultCacheTTL = 7 * 24 * time.Hour

// cacheKeyPrefix versions the key layout; bump it when the entry
// semantics change so stale databases are ignored rather than migrated.
const cacheKeyPrefix = "clean/v1/"

var errCacheMiss = errors.New("cache miss")

// Cache remembers which file contents came back clean under a given rule
// set, so unchanged files are skipped on the next run.
//
// Description:
//
//	Entries are keyed by the rule-set fingerprint plus the content hash,
//	never by path: a file moved or duplicated stays a hit, and any change
//	to content, rule options, or severities misses. Entries expire after
//	the TTL. Fix runs must bypass the cache since a clean entry carries
//	no output to rewrite.
//
// Thread Safety: Safe for concurrent use.
type Cache struct {
	db          *badger.DB
	ttl         time.Duration
	fingerprint string
	logger      *slog.Logger
}

// OpenCache opens (or creates) the cache database in dir. An empty dir
// opens an in-memory database, which is useful in tests.
//
// Inputs:
//
//	dir - Cache directory. Empty means in-memory.
//	ttl - Lifetime for each entry. Pass 0 to use DefaultCacheTTL.
//	fingerprint - Rule-set fingerprint from RulesFingerprint.
//
// Outputs:
//
//	*Cache - The opened cache. The caller must Close it.
//	error - Non-nil if the database cannot be opened.
func OpenCache(dir string, ttl time.Duration, fingerprint string) (*Cache, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("OpenCache: opening %s: %w", dir, err)
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		db:          db,
		ttl:         ttl,
		fingerprint: fingerprint,
		logger:      slog.Default(),
	}, nil
}

// Close releases the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// IsClean reports whether content with the given hash is already known to
// be clean under the cache's rule set. Misses and storage errors both
// report false; a broken cache degrades to linting everything.
func (c *Cache) IsClean(path, contentHash string) bool {
	key := c.key(contentHash)
	err := c.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return errCacheMiss
		}
		return err
	})
	if errors.Is(err, errCacheMiss) {
		return false
	}
	if err != nil {
		c.logger.Debug("lint cache: read failed",
			slog.String("file", path),
			slog.String("error", err.Error()),
		)
		return false
	}
	c.logger.Debug("lint cache: hit", slog.String("file", path))
	return true
}

// MarkClean records that content with the given hash produced no
// diagnostics under the cache's rule set.
func (c *Cache) MarkClean(path, contentHash string) error {
	key := c.key(contentHash)
	err := c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(key, []byte(path)).WithTTL(c.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("MarkClean: %s: %w", path, err)
	}
	c.logger.Debug("lint cache: saved",
		slog.String("file", path),
		slog.Duration("ttl", c.ttl),
	)
	return nil
}

func (c *Cache) key(contentHash string) []byte {
	return []byte(cacheKeyPrefix + c.fingerprint + "/" + contentHash)
}

// RulesFingerprint computes a deterministic hash of the configured rule
// set: rule names, severities, and option values. Any change to it
// invalidates every cached entry.
func RulesFingerprint(rules []ConfiguredRule) string {
	descriptors := make([]string, 0, len(rules))
	for _, cr := range rules {
		descriptors = append(descriptors, fmt.Sprintf("%s@%s:%+v", cr.Rule.Name(), cr.Severity, cr.Rule))
	}
	sort.Strings(descriptors)

	h := sha256.New()
	for _, d := range descriptors {
		h.Write([]byte(d))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
