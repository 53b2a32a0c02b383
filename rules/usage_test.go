// Copyright (C) 2025 the embercheck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/agpl-3.0.html> for the full license text.

package rules

import (
	"context"
	"reflect"
	"testing"

	"github.com/mongoose700/embercheck/ember"
	"github.com/mongoose700/embercheck/estree"
)

// parseComputedBody parses source and returns the body argument of its
// first computed() call.
func parseComputedBody(t *testing.T, source string) *estree.Node {
	t.Helper()
	result, err := estree.NewParser().Parse(context.Background(), []byte(source), "test.js")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var call *estree.Node
	estree.VisitEnter(result.Root, func(n *estree.Node, parent *estree.Node) {
		if call == nil && ember.IsComputedCall(n) {
			call = n
		}
	})
	if call == nil {
		t.Fatal("no computed call in source")
	}
	body := ember.BodyArgument(call)
	if body == nil {
		t.Fatal("computed call has no body argument")
	}
	return body
}

func TestFindGetCalls(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"this.get", `return this.get('a');`, []string{"a"}},
		{"dotted key", `return this.get('a.b');`, []string{"a.b"}},
		{"getWithDefault", `return this.getWithDefault('a', 0);`, []string{"a"}},
		{"framework get", `return Ember.get(this, 'a');`, []string{"a"}},
		{"framework getWithDefault", `return Ember.getWithDefault(this, 'a', 0);`, []string{"a"}},
		{"getProperties rest form", `return this.getProperties('a', 'b');`, []string{"a", "b"}},
		{"getProperties array form", `return this.getProperties(['a', 'b']);`, []string{"a", "b"}},
		{"framework getProperties rest form", `return Ember.getProperties(this, 'a', 'b');`, []string{"a", "b"}},
		{"framework getProperties array form", `return Ember.getProperties(this, ['a', 'b']);`, []string{"a", "b"}},
		{"dynamic key ignored", `return this.get(someKey);`, nil},
		{"framework dynamic key ignored", `return Ember.get(this, someKey);`, nil},
		{"partially dynamic getProperties ignored", `return this.getProperties('a', someKey);`, nil},
		{"framework get on another object", `return Ember.get(other, 'a');`, nil},
		{"other receiver", `return store.get('a');`, nil},
		{"bracket access ignored", `return this['get']('a');`, nil},
		{"calls reported in source order", `return this.get('a') + this.get('b');`, []string{"a", "b"}},
		{"calls inside branches", `if (x) { return this.get('a'); } return this.get('b');`, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := parseComputedBody(t, "computed(function() { "+tt.body+" });")
			if got := findGetCalls(body); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("findGetCalls() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFindThisPaths(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"simple property", `return this.a;`, []string{"a"}},
		{"deep chain reported once", `return this.a.b.c;`, []string{"a.b.c"}},
		{"reads in source order", `return this.b + this.a;`, []string{"b", "a"}},
		{"method call is not a read", `this.save();`, nil},
		{"callee chain excluded", `return this.items.reduce(add);`, nil},
		{"call argument still counts", `format(this.name);`, []string{"name"}},
		{"plain assignment target excluded", `this.a = 1;`, nil},
		{"assignment source counts", `this.a = this.b;`, []string{"b"}},
		{"compound assignment counts", `this.a += 1;`, []string{"a"}},
		{"length read keeps the full path", `return this.items.length;`, []string{"items.length"}},
		{"computed index breaks the chain", `return this.items[0].name;`, nil},
		{"non-this root ignored", `return other.a.b;`, nil},
		{"access on a call result ignored", `return this.fetch().data;`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := parseComputedBody(t, "computed(function() { "+tt.body+" });")
			if got := findThisPaths(body); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("findThisPaths() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFindThisPaths_AccessorBody(t *testing.T) {
	source := `computed({ get() { return this.width; }, set(key, value) { this.height = value; } });`
	body := parseComputedBody(t, source)

	// Both accessor bodies are walked; the setter's plain assignment
	// target is a write, not a read.
	if got := findThisPaths(body); !reflect.DeepEqual(got, []string{"width"}) {
		t.Errorf("findThisPaths() = %v, want [width]", got)
	}
}
