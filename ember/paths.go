// Copyright (C) 2025 the embercheck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/agpl-3.0.html> for the full license text.

package ember

import (
	"strings"

	"github.com/mongoose700/embercheck/estree"
)

// DependentKeyFromPath converts a syntactically simple, `this`-rooted
// member chain into the dependent key it reads: this.a.b yields "a.b".
//
// A chain is simple when every link is a plain, non-computed, non-optional
// member access with an identifier property, rooted at `this`. Computed
// access (this.a[x]), optional chaining (this?.a), private fields
// (this.#a), and chains rooted anywhere but `this` all yield ("", false).
func DependentKeyFromPath(n *estree.Node) (string, bool) {
	var parts []string
	cur := n
	for {
		if cur == nil {
			return "", false
		}
		if cur.Kind == estree.KindThisExpression {
			break
		}
		if cur.Kind != estree.KindMemberExpression || cur.Computed || cur.Optional {
			return "", false
		}
		prop := cur.Property
		if prop == nil || prop.Kind != estree.KindIdentifier {
			return "", false
		}
		parts = append(parts, prop.Name)
		cur = cur.Object
	}
	if len(parts) == 0 {
		return "", false
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "."), true
}
