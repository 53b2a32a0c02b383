// Copyright (C) 2025 the embercheck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/agpl-3.0.html> for the full license text.

// Package ember recognizes Ember framework idioms in parsed JavaScript:
// computed property declarations, service injections, dependent key
// notation, and simple `this` property paths.
package ember

import (
	"github.com/mongoose700/embercheck/estree"
)

// IsComputedCall reports whether call is a computed property declaration:
// computed(...) or Ember.computed(...).
func IsComputedCall(call *estree.Node) bool {
	if call == nil || call.Kind != estree.KindCallExpression {
		return false
	}
	callee := call.Callee
	if callee == nil {
		return false
	}
	if callee.IsIdentifierNamed("computed") {
		return true
	}
	if callee.Kind == estree.KindMemberExpression && !callee.Computed {
		return callee.Object.IsIdentifierNamed("Ember") &&
			callee.Property.IsIdentifierNamed("computed")
	}
	return false
}

// BodyArgument returns the trailing body argument of a computed() call: a
// function expression, an arrow function, or an object literal containing
// only get/set function members. Returns nil when the call declares keys
// only.
func BodyArgument(call *estree.Node) *estree.Node {
	if call == nil || len(call.Arguments) == 0 {
		return nil
	}
	last := call.Arguments[len(call.Arguments)-1]
	if last.IsFunction() {
		return last
	}
	if isGetSetObject(last) {
		return last
	}
	return nil
}

// isGetSetObject reports whether n is an object literal whose every
// property is a function-valued get or set member, the accessor form of a
// computed property body.
func isGetSetObject(n *estree.Node) bool {
	if n == nil || n.Kind != estree.KindObjectExpression || len(n.Properties) == 0 {
		return false
	}
	for _, prop := range n.Properties {
		if prop.Kind != estree.KindProperty {
			return false
		}
		name, ok := prop.KeyName()
		if !ok || (name != "get" && name != "set") {
			return false
		}
		if !prop.Val.IsFunction() {
			return false
		}
	}
	return true
}
