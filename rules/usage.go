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

// findGetCalls collects dependent keys read through the framework getter
// functions anywhere inside body.
//
// Recognized shapes:
//
//	this.get('key')
//	this.getWithDefault('key', fallback)
//	Ember.get(this, 'key')
//	Ember.getWithDefault(this, 'key', fallback)
//	this.getProperties('a', 'b') / this.getProperties(['a', 'b'])
//	Ember.getProperties(this, 'a', 'b') / Ember.getProperties(this, ['a', 'b'])
//
// Key arguments must be plain string literals. A getProperties call whose
// key arguments are not all literal contributes nothing; the keys it reads
// cannot be determined statically and guessing a subset would make the
// diagnostic wrong in both directions.
func findGetCalls(body *estree.Node) []string {
	var keys []string
	estree.VisitEnter(body, func(n *estree.Node, parent *estree.Node) {
		if n.Kind != estree.KindCallExpression {
			return
		}
		callee := n.Callee
		if callee == nil || callee.Kind != estree.KindMemberExpression || callee.Computed {
			return
		}
		method := callee.Property
		if method == nil || method.Kind != estree.KindIdentifier {
			return
		}

		switch {
		case callee.Object.IsThis():
			switch method.Name {
			case "get", "getWithDefault":
				if len(n.Arguments) > 0 && n.Arguments[0].IsStringLiteral() {
					keys = append(keys, n.Arguments[0].Value)
				}
			case "getProperties":
				keys = append(keys, literalKeyList(n.Arguments)...)
			}

		case callee.Object.IsIdentifierNamed("Ember"):
			switch method.Name {
			case "get", "getWithDefault":
				if len(n.Arguments) >= 2 && n.Arguments[0].IsThis() && n.Arguments[1].IsStringLiteral() {
					keys = append(keys, n.Arguments[1].Value)
				}
			case "getProperties":
				if len(n.Arguments) >= 2 && n.Arguments[0].IsThis() {
					keys = append(keys, literalKeyList(n.Arguments[1:])...)
				}
			}
		}
	})
	return keys
}

// literalKeyList resolves a getProperties key argument list: either
// multiple string literals or a single array literal of string literals.
// Returns nil unless every key is a literal.
func literalKeyList(args []*estree.Node) []string {
	candidates := args
	if len(args) == 1 && args[0] != nil && args[0].Kind == estree.KindArrayExpression {
		candidates = args[0].Elements
	}
	keys := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if !c.IsStringLiteral() {
			return nil
		}
		keys = append(keys, c.Value)
	}
	return keys
}

// findThisPaths collects the dependent key of every maximal, simple,
// `this`-rooted member chain read inside body.
//
// A chain is skipped when it is consumed by an enclosing member access
// (only the outermost chain counts), when it is the callee of a call
// (this.save() invokes, it does not read a key), or when it is the target
// of a plain assignment (writes are not reads; compound assignments like
// += both read and write, so they count).
func findThisPaths(body *estree.Node) []string {
	var keys []string
	estree.VisitEnter(body, func(n *estree.Node, parent *estree.Node) {
		if n.Kind != estree.KindMemberExpression {
			return
		}
		if parent != nil {
			if parent.Kind == estree.KindMemberExpression && parent.Object == n {
				return
			}
			if parent.Kind == estree.KindCallExpression && parent.Callee == n {
				return
			}
			if parent.Kind == estree.KindAssignmentExpression && parent.Left == n && parent.Operator == "=" {
				return
			}
		}
		if key, ok := ember.DependentKeyFromPath(n); ok {
			keys = append(keys, key)
		}
	})
	return keys
}
