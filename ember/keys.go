// Copyright (C) 2025 the embercheck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/agpl-3.0.html> for the full license text.

package ember

import (
	"sort"
	"strings"
)

// ExpandKey expands brace shorthand in a dependent key into the full list
// of keys it denotes.
//
// Description:
//
//	Dependent keys may group sibling properties with braces:
//	"a.{b,c}" denotes "a.b" and "a.c". Groups may be nested and a key may
//	contain several groups; expansion is the cross product:
//	"{a,b}.{c,d}" denotes a.c, a.d, b.c, b.d.
//
//	Keys without braces, and keys with unbalanced braces, are returned
//	unchanged as a single-element list.
func ExpandKey(key string) []string {
	open := strings.IndexByte(key, '{')
	if open < 0 {
		return []string{key}
	}

	depth := 0
	closing := -1
	for i := open; i < len(key); i++ {
		switch key[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				closing = i
			}
		}
		if closing >= 0 {
			break
		}
	}
	if closing < 0 {
		return []string{key}
	}

	prefix := key[:open]
	suffix := key[closing+1:]
	var expanded []string
	for _, alt := range splitTopLevel(key[open+1 : closing]) {
		expanded = append(expanded, ExpandKey(prefix+alt+suffix)...)
	}
	return expanded
}

// splitTopLevel splits s on commas that are not inside a nested brace group.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// CollapseKeys re-forms brace shorthand from a list of expanded keys.
//
// Description:
//
//	Keys sharing all but their final segment are merged into one braced
//	key: ["a.b", "a.c"] becomes ["a.{b,c}"]. Single-segment keys are never
//	grouped; they lead the output in first-seen order, followed by the
//	merged groups in first-seen parent order. Duplicate input keys
//	collapse to one, and alternatives within a group are sorted.
func CollapseKeys(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	unique := make([]string, 0, len(keys))
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			unique = append(unique, k)
		}
	}

	var standalone []string
	childrenByParent := make(map[string][]string)
	var parentOrder []string
	for _, k := range unique {
		idx := strings.LastIndexByte(k, '.')
		if idx < 0 {
			standalone = append(standalone, k)
			continue
		}
		parent, child := k[:idx], k[idx+1:]
		if _, ok := childrenByParent[parent]; !ok {
			parentOrder = append(parentOrder, parent)
		}
		childrenByParent[parent] = append(childrenByParent[parent], child)
	}

	out := make([]string, 0, len(standalone)+len(parentOrder))
	out = append(out, standalone...)
	for _, parent := range parentOrder {
		children := childrenByParent[parent]
		if len(children) == 1 {
			out = append(out, parent+"."+children[0])
			continue
		}
		sort.Strings(children)
		out = append(out, parent+".{"+strings.Join(children, ",")+"}")
	}
	return out
}
