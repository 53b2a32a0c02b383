// Copyright (C) 2025 the embercheck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/agpl-3.0.html> for the full license text.

package rules

// removeRedundant drops every key that another key in the same list
// already covers. Each key is tested against the original list, not the
// shrinking result, so removal of one key never rescues another; order is
// preserved. A key never covers itself, so duplicates survive.
func removeRedundant(keys []string) []string {
	out := make([]string, 0, len(keys))
	for i, key := range keys {
		covered := false
		for j, other := range keys {
			if i == j {
				continue
			}
			if KeyMatches(other, key) {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, key)
		}
	}
	return out
}

// removeKeys drops keys exactly equal to one of names. Coverage does not
// apply here: only whole-key equality exempts.
func removeKeys(keys []string, names []string) []string {
	if len(names) == 0 {
		return keys
	}
	exempt := make(map[string]bool, len(names))
	for _, n := range names {
		exempt[n] = true
	}
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		if !exempt[key] {
			out = append(out, key)
		}
	}
	return out
}
