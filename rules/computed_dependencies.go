// Copyright (C) 2025 the embercheck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/agpl-3.0.html> for the full license text.

package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mongoose700/embercheck/ember"
	"github.com/mongoose700/embercheck/estree"
	"github.com/mongoose700/embercheck/lint"
)

// RuleComputedDependencies is the registry name of the undeclared
// dependent key analysis.
const RuleComputedDependencies = "require-computed-property-dependencies"

// Diagnostic messages produced by the analysis.
const (
	msgUndeclaredDependencies = "Use of undeclared dependencies in computed property: %s"
	msgNonStringDependency    = "Non-string value used as computed property dependency"
)

// ComputedDependenciesOptions configures the analysis.
type ComputedDependenciesOptions struct {
	// AllowDynamicKeys permits non-string key arguments without flagging
	// them. Reads behind dynamic keys are never tracked either way.
	// Default: true
	AllowDynamicKeys bool

	// RequireServiceNames includes injected service properties in the
	// undeclared key check instead of exempting them.
	// Default: false
	RequireServiceNames bool
}

// DefaultComputedDependenciesOptions returns the default options.
func DefaultComputedDependenciesOptions() ComputedDependenciesOptions {
	return ComputedDependenciesOptions{
		AllowDynamicKeys:    true,
		RequireServiceNames: false,
	}
}

// ComputedDependenciesOption is a functional option for the analysis.
type ComputedDependenciesOption func(*ComputedDependenciesOptions)

// WithAllowDynamicKeys sets whether dynamic key arguments are permitted.
func WithAllowDynamicKeys(allow bool) ComputedDependenciesOption {
	return func(o *ComputedDependenciesOptions) {
		o.AllowDynamicKeys = allow
	}
}

// WithRequireServiceNames sets whether injected service properties must be
// declared like any other dependency.
func WithRequireServiceNames(require bool) ComputedDependenciesOption {
	return func(o *ComputedDependenciesOptions) {
		o.RequireServiceNames = require
	}
}

// ComputedDependencies verifies that every dependent key a computed
// property's body reads is declared in its key list, and synthesizes a
// replacement key list when keys are missing.
//
// Description:
//
//	For each computed() or Ember.computed() call the rule compares the
//	declared dependent keys (after brace expansion) against the keys the
//	trailing function body actually reads, through both framework getters
//	and direct this.* access. Undeclared keys are reported in one
//	diagnostic per call, with a fix that rewrites the key arguments to a
//	complete, deduplicated, brace-collapsed list. Injected service
//	properties are exempt unless RequireServiceNames is set.
//
// Thread Safety:
//
//	A ComputedDependencies value is immutable after construction and safe
//	for concurrent use across files.
type ComputedDependencies struct {
	options ComputedDependenciesOptions
}

// NewComputedDependencies creates the analysis with the given options.
func NewComputedDependencies(opts ...ComputedDependenciesOption) *ComputedDependencies {
	options := DefaultComputedDependenciesOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &ComputedDependencies{options: options}
}

// Name implements lint.Rule.
func (r *ComputedDependencies) Name() string {
	return RuleComputedDependencies
}

// Description implements lint.Rule.
func (r *ComputedDependencies) Description() string {
	return "require dependencies of computed properties to be declared as dependent keys"
}

// Run implements lint.Rule. Service names are collected once per file,
// before any call is analyzed, so a computed property above an injection
// in the same file still sees it.
func (r *ComputedDependencies) Run(rc *lint.RunContext) []lint.Diagnostic {
	serviceNames := ember.FindInjectedServiceNames(rc.Root)

	var diags []lint.Diagnostic
	estree.VisitEnter(rc.Root, func(n *estree.Node, parent *estree.Node) {
		if !ember.IsComputedCall(n) {
			return
		}
		diags = append(diags, r.checkCall(rc, n, serviceNames)...)
	})
	return diags
}

// checkCall analyzes a single computed property declaration.
func (r *ComputedDependencies) checkCall(rc *lint.RunContext, call *estree.Node, serviceNames []string) []lint.Diagnostic {
	body := ember.BodyArgument(call)
	keyArgs := call.Arguments
	if body != nil {
		keyArgs = keyArgs[:len(keyArgs)-1]
	}
	literalArgs, dynamicArgs := classifyKeyArguments(keyArgs)

	var diags []lint.Diagnostic
	if !r.options.AllowDynamicKeys {
		for _, dyn := range dynamicArgs {
			diags = append(diags, rc.NewDiagnostic(r.Name(), msgNonStringDependency, dyn))
		}
	}

	declared := expandDeclared(literalArgs)

	var used []string
	if body != nil {
		used = append(findGetCalls(body), findThisPaths(body)...)
	}

	undeclared := undeclaredKeys(used, declared)
	undeclared = removeRedundant(undeclared)
	if !r.options.RequireServiceNames {
		undeclared = removeKeys(undeclared, serviceNames)
	}

	if len(undeclared) > 0 {
		d := rc.NewDiagnostic(r.Name(), fmt.Sprintf(msgUndeclaredDependencies, strings.Join(undeclared, ", ")), call)
		d.Fix = buildKeyListFix(rc.Content, call, body, dynamicArgs, undeclared, declared)
		diags = append(diags, d)
	}
	return diags
}

// undeclaredKeys returns the used keys that no declared key equals or
// covers, deduplicated and sorted.
func undeclaredKeys(used, declared []string) []string {
	seen := make(map[string]bool, len(used))
	var out []string
	for _, key := range used {
		if seen[key] {
			continue
		}
		seen[key] = true
		if isDeclaredOrCovered(key, declared) {
			continue
		}
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

func isDeclaredOrCovered(key string, declared []string) bool {
	for _, dep := range declared {
		if dep == key || KeyMatches(dep, key) {
			return true
		}
	}
	return false
}

// buildKeyListFix synthesizes the replacement key argument list: dynamic
// key arguments verbatim, followed by the union of missing and declared
// keys, reduced and re-collapsed into brace shorthand.
//
// The replacement span depends on the argument shape:
//
//	computed('a', fn)  -> replace the existing key arguments
//	computed(fn)       -> insert before the body argument
//	computed('a')      -> replace the whole argument list
//	computed()         -> insert before the closing parenthesis
func buildKeyListFix(content []byte, call, body *estree.Node, dynamicArgs []*estree.Node, undeclared, declared []string) *lint.Fix {
	merged := make([]string, 0, len(undeclared)+len(declared))
	merged = append(merged, undeclared...)
	merged = append(merged, declared...)
	collapsed := ember.CollapseKeys(removeRedundant(merged))

	parts := make([]string, 0, len(dynamicArgs)+len(collapsed))
	for _, dyn := range dynamicArgs {
		parts = append(parts, dyn.Text(content))
	}
	for _, key := range collapsed {
		parts = append(parts, quoteKey(key))
	}
	newText := strings.Join(parts, ", ")

	args := call.Arguments
	switch {
	case body != nil && len(args) >= 2:
		lastKeyArg := args[len(args)-2]
		return &lint.Fix{
			Span:    lint.Span{Start: args[0].Start, End: lastKeyArg.End},
			NewText: newText,
		}
	case body != nil:
		return &lint.Fix{
			Span:    lint.Span{Start: body.Start, End: body.Start},
			NewText: newText + ", ",
		}
	case len(args) > 0:
		return &lint.Fix{
			Span:    lint.Span{Start: args[0].Start, End: args[len(args)-1].End},
			NewText: newText,
		}
	default:
		return &lint.Fix{
			Span:    lint.Span{Start: call.End - 1, End: call.End - 1},
			NewText: newText,
		}
	}
}

// quoteKey renders a dependent key as a single-quoted JavaScript string.
func quoteKey(key string) string {
	escaped := strings.ReplaceAll(key, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `'`, `\'`)
	return "'" + escaped + "'"
}
