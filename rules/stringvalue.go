// Copyright (C) 2025 the embercheck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/agpl-3.0.html> for the full license text.

package rules

import (
	"fmt"

	"github.com/mongoose700/embercheck/estree"
)

// isStringKey reports whether n resolves to a string under stringValue: a
// string literal, or a "+" concatenation of exactly two string literals.
func isStringKey(n *estree.Node) bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case estree.KindStringLiteral:
		return true
	case estree.KindBinaryExpression:
		return n.Operator == "+" && n.Left.IsStringLiteral() && n.Right.IsStringLiteral()
	}
	return false
}

// stringValue resolves a key argument to the string it denotes. Callers
// must check isStringKey first; passing any other node is a programming
// error and panics.
func stringValue(n *estree.Node) string {
	if n != nil {
		switch n.Kind {
		case estree.KindStringLiteral:
			return n.Value
		case estree.KindBinaryExpression:
			if n.Operator == "+" && n.Left.IsStringLiteral() && n.Right.IsStringLiteral() {
				return n.Left.Value + n.Right.Value
			}
		}
	}
	panic(fmt.Sprintf("stringValue called on unresolvable node %v", kindOf(n)))
}

func kindOf(n *estree.Node) estree.Kind {
	if n == nil {
		return "nil"
	}
	return n.Kind
}
