// Copyright (C) 2025 the embercheck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/agpl-3.0.html> for the full license text.

package rules

import (
	"github.com/mongoose700/embercheck/ember"
	"github.com/mongoose700/embercheck/estree"
)

// classifyKeyArguments partitions the key arguments of a computed call
// (the argument list with any trailing body argument already removed)
// into string-resolvable key nodes and dynamic key nodes. Source order is
// preserved within each partition and no argument lands in both.
func classifyKeyArguments(args []*estree.Node) (literal, dynamic []*estree.Node) {
	for _, arg := range args {
		if isStringKey(arg) {
			literal = append(literal, arg)
		} else {
			dynamic = append(dynamic, arg)
		}
	}
	return literal, dynamic
}

// expandDeclared resolves literal key arguments to strings and expands
// brace shorthand, yielding the full declared dependency list in
// declaration order.
func expandDeclared(literal []*estree.Node) []string {
	var keys []string
	for _, arg := range literal {
		keys = append(keys, ember.ExpandKey(stringValue(arg))...)
	}
	return keys
}
