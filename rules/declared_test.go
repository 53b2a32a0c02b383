// Copyright (C) 2025 the embercheck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/agpl-3.0.html> for the full license text.

package rules

import (
	"reflect"
	"testing"

	"github.com/mongoose700/embercheck/estree"
)

func TestClassifyKeyArguments(t *testing.T) {
	plain := stringLiteral("a")
	concat := &estree.Node{
		Kind:     estree.KindBinaryExpression,
		Operator: "+",
		Left:     stringLiteral("user."),
		Right:    stringLiteral("name"),
	}
	ident := &estree.Node{Kind: estree.KindIdentifier, Name: "someKey"}
	tmpl := &estree.Node{Kind: estree.KindTemplateLiteral}

	literal, dynamic := classifyKeyArguments([]*estree.Node{plain, ident, concat, tmpl})

	if !reflect.DeepEqual(literal, []*estree.Node{plain, concat}) {
		t.Errorf("literal partition wrong: got %d nodes", len(literal))
	}
	if !reflect.DeepEqual(dynamic, []*estree.Node{ident, tmpl}) {
		t.Errorf("dynamic partition wrong: got %d nodes", len(dynamic))
	}
}

func TestClassifyKeyArguments_Empty(t *testing.T) {
	literal, dynamic := classifyKeyArguments(nil)
	if literal != nil || dynamic != nil {
		t.Errorf("expected nil partitions, got %v / %v", literal, dynamic)
	}
}

func TestExpandDeclared(t *testing.T) {
	concat := &estree.Node{
		Kind:     estree.KindBinaryExpression,
		Operator: "+",
		Left:     stringLiteral("user."),
		Right:    stringLiteral("name"),
	}

	tests := []struct {
		name string
		args []*estree.Node
		want []string
	}{
		{"empty", nil, nil},
		{"plain keys in order", []*estree.Node{stringLiteral("b"), stringLiteral("a")}, []string{"b", "a"}},
		{"brace shorthand expands", []*estree.Node{stringLiteral("user.{first,last}")}, []string{"user.first", "user.last"}},
		{"concatenation resolves", []*estree.Node{concat}, []string{"user.name"}},
		{
			"mixed forms keep declaration order",
			[]*estree.Node{stringLiteral("a"), stringLiteral("user.{first,last}"), concat},
			[]string{"a", "user.first", "user.last", "user.name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expandDeclared(tt.args); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expandDeclared() = %v, want %v", got, tt.want)
			}
		})
	}
}
