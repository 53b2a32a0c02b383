// Copyright (C) 2025 the embercheck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/agpl-3.0.html> for the full license text.

// lint_cache_dump inspects the embercheck lint result cache.
//
// The lint cache remembers which file contents came back clean under a
// given rule set (BadgerDB, keyed by rule-set fingerprint plus content
// hash) so unchanged files are skipped on later runs. This tool opens the
// cache read-only and prints a human-readable summary: entries grouped by
// rule-set fingerprint, with the TTL remaining and the path each content
// hash was last seen at. The group produced by the current configuration
// is marked, so generations orphaned by rule or option changes are easy
// to spot.
//
// Usage:
//
//	lint_cache_dump [--path /path/to/cache]
//
// If --path is not given, the cache directory comes from the nearest
// .embercheck.yml, falling back to the built-in default.
//
// Exit codes:
//
//	0 — success (including "empty cache", which prints a message and exits 0)
//	1 — error opening or reading the database
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/mongoose700/embercheck/config"
	"github.com/mongoose700/embercheck/lint"
	"github.com/mongoose700/embercheck/rules"
)

// cacheKeyPrefix must match lint/cache.go exactly.
const cacheKeyPrefix = "clean/v1/"

func main() {
	pathFlag := flag.String("path", "", "Path to the cache BadgerDB directory (overrides the configured cache dir)")
	flag.Parse()

	dbPath, current := resolveCacheDir(*pathFlag)

	fmt.Printf("Lint cache path: %s\n", dbPath)
	if current != "" {
		fmt.Printf("Current rule-set fingerprint: %s\n", current)
	}

	// Check existence before trying to open — gives a cleaner error message
	// than BadgerDB's "no such file or directory" buried in a long error.
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("Cache directory does not exist. No lint run has used the cache yet.")
		fmt.Println("Run embercheck lint --cache (or enable cache in .embercheck.yml) to populate it.")
		os.Exit(0)
	}

	// Open read-only; no writes are performed.
	opts := badger.DefaultOptions(dbPath).
		WithLogger(nil). // suppress BadgerDB internal logs
		WithReadOnly(true)

	db, err := badger.Open(opts)
	if err != nil {
		fatalf("open BadgerDB at %s: %v", dbPath, err)
	}
	defer func() { _ = db.Close() }()

	// Collect all clean-file entries, grouped by rule-set fingerprint.
	// BadgerDB iterates in key order, so groups and their entries arrive
	// already sorted.
	type entry struct {
		contentHash string
		path        string
		expiresAt   time.Time
		hasExpiry   bool
	}

	groups := make(map[string][]entry)
	var fingerprints []string
	var total int

	err = db.View(func(txn *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.PrefetchValues = true
		it := txn.NewIterator(iterOpts)
		defer it.Close()

		prefix := []byte(cacheKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			rest := strings.TrimPrefix(string(item.Key()), cacheKeyPrefix)
			fingerprint, contentHash, ok := strings.Cut(rest, "/")
			if !ok {
				continue
			}

			var e entry
			e.contentHash = contentHash

			// TTL: item.ExpiresAt() returns Unix seconds, 0 = no expiry.
			if expiresAt := item.ExpiresAt(); expiresAt > 0 {
				e.hasExpiry = true
				e.expiresAt = time.Unix(int64(expiresAt), 0)
			}

			raw, err := item.ValueCopy(nil)
			if err != nil {
				return fmt.Errorf("copy value for %s: %w", item.Key(), err)
			}
			e.path = string(raw)

			if _, seen := groups[fingerprint]; !seen {
				fingerprints = append(fingerprints, fingerprint)
			}
			groups[fingerprint] = append(groups[fingerprint], e)
			total++
		}
		return nil
	})
	if err != nil {
		fatalf("read BadgerDB: %v", err)
	}

	if total == 0 {
		fmt.Println("\nNo clean-file entries found.")
		fmt.Println("Either every linted file had findings, or the entries have expired.")
		os.Exit(0)
	}

	fmt.Printf("\nFound %d clean-file entr%s across %d rule set%s:\n",
		total, plural(total, "y", "ies"),
		len(fingerprints), plural(len(fingerprints), "", "s"),
	)
	fmt.Println(strings.Repeat("─", 80))

	for _, fingerprint := range fingerprints {
		label := ""
		switch {
		case fingerprint == current:
			label = "  (current rule set)"
		case current != "":
			label = "  (stale)"
		}
		fmt.Printf("\nRule set %s%s\n", fingerprint, label)

		for _, e := range groups[fingerprint] {
			ttl := "no expiry set"
			if e.hasExpiry {
				remaining := time.Until(e.expiresAt)
				if remaining < 0 {
					ttl = fmt.Sprintf("EXPIRED %s ago", (-remaining).Round(time.Second))
				} else {
					ttl = fmt.Sprintf("%s left", remaining.Round(time.Second))
				}
			}
			fmt.Printf("    %s  %-16s  %s\n", e.contentHash, ttl, e.path)
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("─", 80))
	fmt.Printf("Summary: %d entr%s, %d rule set%s, cache path: %s\n",
		total, plural(total, "y", "ies"),
		len(fingerprints), plural(len(fingerprints), "", "s"),
		dbPath,
	)
}

// resolveCacheDir picks the cache directory and, when the configuration
// loads cleanly, the fingerprint of the rule set it configures. A broken
// or missing configuration never blocks inspection: the tool falls back
// to defaults and skips the current/stale marking.
func resolveCacheDir(override string) (dir, fingerprint string) {
	cfgPath, err := config.Discover(".")
	if err != nil {
		cfgPath = ""
	}
	cfg, err := config.Load(context.Background(), cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lint_cache_dump: config not loaded (%v), using defaults\n", err)
		cfg = config.Default()
	}

	dir = cfg.Cache.Dir
	if override != "" {
		dir = override
	}

	configured, err := rules.FromConfig(cfg)
	if err != nil {
		return dir, ""
	}
	return dir, lint.RulesFingerprint(configured)
}

// plural returns singular or plural suffix based on count.
func plural(n int, singular, pluralSuffix string) string {
	if n == 1 {
		return singular
	}
	return pluralSuffix
}

// fatalf prints to stderr and exits 1.
func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "lint_cache_dump: "+format+"\n", args...)
	os.Exit(1)
}
