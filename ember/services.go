// Copyright (C) 2025 the embercheck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/agpl-3.0.html> for the full license text.

package ember

import (
	"github.com/mongoose700/embercheck/estree"
)

// FindInjectedServiceNames collects the property names under which services
// are injected anywhere in the tree.
//
// Description:
//
//	Scans every object property and class field whose value is a service
//	injection call and records the local property name. These names
//	identify properties that are framework-managed and never change, so
//	reads of them are exempt from dependent key declarations.
//
// Recognized injection forms:
//
//	intl: service()
//	intl: inject()
//	intl: Ember.inject.service()
//
// Arguments to the injection call (an explicit service name) do not affect
// the local property name.
func FindInjectedServiceNames(root *estree.Node) []string {
	var names []string
	estree.VisitEnter(root, func(n *estree.Node, parent *estree.Node) {
		switch n.Kind {
		case estree.KindProperty, estree.KindPropertyDefinition:
			if !IsServiceInjectionValue(n.Val) {
				return
			}
			if name, ok := n.KeyName(); ok {
				names = append(names, name)
			}
		}
	})
	return names
}

// IsServiceInjectionValue reports whether n is a call that injects a
// service: service(...), inject(...), or Ember.inject.service(...).
func IsServiceInjectionValue(n *estree.Node) bool {
	if n == nil || n.Kind != estree.KindCallExpression {
		return false
	}
	callee := n.Callee
	if callee == nil {
		return false
	}
	if callee.IsIdentifierNamed("service") || callee.IsIdentifierNamed("inject") {
		return true
	}
	// Ember.inject.service
	if callee.Kind != estree.KindMemberExpression || callee.Computed {
		return false
	}
	if !callee.Property.IsIdentifierNamed("service") {
		return false
	}
	inner := callee.Object
	if inner == nil || inner.Kind != estree.KindMemberExpression || inner.Computed {
		return false
	}
	return inner.Object.IsIdentifierNamed("Ember") &&
		inner.Property.IsIdentifierNamed("inject")
}
