// Copyright (C) 2025 the embercheck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/agpl-3.0.html> for the full license text.

package ember

import (
	"context"
	"testing"

	"github.com/mongoose700/embercheck/estree"
)

// parseTree parses source and returns the program root.
func parseTree(t *testing.T, source string) *estree.Node {
	t.Helper()
	result, err := estree.NewParser().Parse(context.Background(), []byte(source), "test.js")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return result.Root
}

// firstOfKind returns the first node of the given kind in pre-order.
func firstOfKind(t *testing.T, root *estree.Node, kind estree.Kind) *estree.Node {
	t.Helper()
	var found *estree.Node
	estree.Inspect(root, func(n *estree.Node, parent *estree.Node) bool {
		if found != nil {
			return false
		}
		if n.Kind == kind {
			found = n
			return false
		}
		return true
	})
	if found == nil {
		t.Fatalf("no %s node in tree", kind)
	}
	return found
}

func TestIsComputedCall(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   bool
	}{
		{"bare computed", `computed('a', function() {});`, true},
		{"framework member form", `Ember.computed('a', function() {});`, true},
		{"other function", `observer('a', function() {});`, false},
		{"other member callee", `Ember.observer('a', function() {});`, false},
		{"computed on other object", `foo.computed('a');`, false},
		{"subscript form", `Ember['computed']('a');`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call := firstOfKind(t, parseTree(t, tt.source), estree.KindCallExpression)
			if got := IsComputedCall(call); got != tt.want {
				t.Errorf("IsComputedCall() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsComputedCall_NonCallNodes(t *testing.T) {
	if IsComputedCall(nil) {
		t.Error("nil must not be a computed call")
	}
	ident := firstOfKind(t, parseTree(t, `computed;`), estree.KindIdentifier)
	if IsComputedCall(ident) {
		t.Error("a bare identifier must not be a computed call")
	}
}

func TestBodyArgument(t *testing.T) {
	t.Run("trailing function", func(t *testing.T) {
		call := firstOfKind(t, parseTree(t, `computed('a', function() { return 1; });`), estree.KindCallExpression)
		body := BodyArgument(call)
		if body == nil {
			t.Fatal("expected a body argument")
		}
		if body.Kind != estree.KindFunctionExpression {
			t.Errorf("expected function expression, got %s", body.Kind)
		}
	})

	t.Run("trailing arrow function", func(t *testing.T) {
		call := firstOfKind(t, parseTree(t, `computed('a', () => 1);`), estree.KindCallExpression)
		body := BodyArgument(call)
		if body == nil {
			t.Fatal("expected a body argument")
		}
		if body.Kind != estree.KindArrowFunction {
			t.Errorf("expected arrow function, got %s", body.Kind)
		}
	})

	t.Run("accessor object", func(t *testing.T) {
		call := firstOfKind(t, parseTree(t, `computed('a', { get() { return 1; }, set(k, v) { return v; } });`), estree.KindCallExpression)
		body := BodyArgument(call)
		if body == nil {
			t.Fatal("expected a body argument")
		}
		if body.Kind != estree.KindObjectExpression {
			t.Errorf("expected object expression, got %s", body.Kind)
		}
	})

	t.Run("get only accessor object", func(t *testing.T) {
		call := firstOfKind(t, parseTree(t, `computed('a', { get() { return 1; } });`), estree.KindCallExpression)
		if BodyArgument(call) == nil {
			t.Error("expected a body argument")
		}
	})

	t.Run("keys only", func(t *testing.T) {
		call := firstOfKind(t, parseTree(t, `computed('a', 'b');`), estree.KindCallExpression)
		if body := BodyArgument(call); body != nil {
			t.Errorf("expected no body argument, got %s", body.Kind)
		}
	})

	t.Run("no arguments", func(t *testing.T) {
		call := firstOfKind(t, parseTree(t, `computed();`), estree.KindCallExpression)
		if body := BodyArgument(call); body != nil {
			t.Errorf("expected no body argument, got %s", body.Kind)
		}
	})

	t.Run("object with non-accessor member", func(t *testing.T) {
		call := firstOfKind(t, parseTree(t, `computed('a', { get() { return 1; }, other: 2 });`), estree.KindCallExpression)
		if body := BodyArgument(call); body != nil {
			t.Errorf("expected no body argument, got %s", body.Kind)
		}
	})

	t.Run("plain object is a value, not a body", func(t *testing.T) {
		call := firstOfKind(t, parseTree(t, `computed('a', { b: 1 });`), estree.KindCallExpression)
		if body := BodyArgument(call); body != nil {
			t.Errorf("expected no body argument, got %s", body.Kind)
		}
	})
}
