// Copyright (C) 2025 the embercheck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/agpl-3.0.html> for the full license text.

// Package rules implements the analyses run over parsed JavaScript:
// verifying that computed property bodies only read declared dependent
// keys (with an automatic fix), and rejecting repeated dependent keys.
package rules

import (
	"strings"
)

// KeyMatches reports whether declaring dependency covers a read of
// candidate.
//
// Description:
//
//	Segments are compared left to right. While segments are equal the walk
//	continues. At the first divergence, a "[]" dependency segment covers
//	the candidate only when the candidate is exhausted or ends right there
//	in one of the array-observation terminals (length, firstObject,
//	lastObject); an "@each" segment additionally covers a terminal "[]".
//	Any other divergence means no coverage. When every dependency segment
//	matched, the dependency covers the candidate only if the candidate is
//	strictly deeper: a key never covers itself, and a deeper key never
//	covers a shallower one.
//
//	The relation is not symmetric and not transitive; callers must not
//	chain it.
//
// Example:
//
//	KeyMatches("foo.bar", "foo.bar.baz")  // true
//	KeyMatches("foo.bar.baz", "foo.bar")  // false
//	KeyMatches("foo", "foo")              // false
//	KeyMatches("foo.[]", "foo.length")    // true
//	KeyMatches("foo.@each", "foo.[]")     // true
func KeyMatches(dependency, candidate string) bool {
	depParts := splitKey(dependency)
	candParts := splitKey(candidate)
	if len(depParts) == 0 {
		return false
	}

	for i, depPart := range depParts {
		if i < len(candParts) && depPart == candParts[i] {
			continue
		}

		if depPart == "[]" || depPart == "@each" {
			if len(candParts) <= i {
				return true
			}
			if len(candParts) == i+1 {
				switch candParts[i] {
				case "length", "firstObject", "lastObject":
					return true
				case "[]":
					return depPart == "@each"
				}
			}
			return false
		}

		return false
	}

	return len(depParts) < len(candParts)
}

// splitKey splits a dependent key into its segments, dropping empty
// segments produced by stray dots.
func splitKey(key string) []string {
	raw := strings.Split(key, ".")
	parts := raw[:0]
	for _, p := range raw {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
