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
	"github.com/mongoose700/embercheck/lint"
)

// RuleDuplicateKeys is the registry name of the repeated dependent key
// analysis.
const RuleDuplicateKeys = "no-duplicate-dependent-keys"

const msgDuplicateDependency = "Dependent keys should not be repeated"

// DuplicateKeys reports dependent keys that appear more than once in a
// computed property declaration. Keys are compared after brace expansion,
// so 'a.{b,c}' repeats an earlier 'a.b'.
type DuplicateKeys struct{}

// NewDuplicateKeys creates the analysis. It has no options.
func NewDuplicateKeys() *DuplicateKeys {
	return &DuplicateKeys{}
}

// Name implements lint.Rule.
func (r *DuplicateKeys) Name() string {
	return RuleDuplicateKeys
}

// Description implements lint.Rule.
func (r *DuplicateKeys) Description() string {
	return "disallow repeating dependent keys in computed properties"
}

// Run implements lint.Rule.
func (r *DuplicateKeys) Run(rc *lint.RunContext) []lint.Diagnostic {
	var diags []lint.Diagnostic
	estree.VisitEnter(rc.Root, func(n *estree.Node, parent *estree.Node) {
		if !ember.IsComputedCall(n) {
			return
		}
		diags = append(diags, r.checkCall(rc, n)...)
	})
	return diags
}

// checkCall reports one diagnostic per key argument that repeats a key
// already declared earlier in the same call.
func (r *DuplicateKeys) checkCall(rc *lint.RunContext, call *estree.Node) []lint.Diagnostic {
	keyArgs := call.Arguments
	if ember.BodyArgument(call) != nil {
		keyArgs = keyArgs[:len(keyArgs)-1]
	}
	literalArgs, _ := classifyKeyArguments(keyArgs)

	var diags []lint.Diagnostic
	seen := make(map[string]bool)
	for _, arg := range literalArgs {
		repeated := false
		for _, key := range ember.ExpandKey(stringValue(arg)) {
			if seen[key] {
				repeated = true
				continue
			}
			seen[key] = true
		}
		if repeated {
			diags = append(diags, rc.NewDiagnostic(r.Name(), msgDuplicateDependency, arg))
		}
	}
	return diags
}
