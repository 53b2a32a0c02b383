// Copyright (C) 2025 the embercheck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/agpl-3.0.html> for the full license text.

package rules

import (
	"testing"
)

func TestDuplicateKeys_Valid(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"distinct keys", `computed('a', 'b', function() {});`},
		{"distinct expanded keys", `computed('user.{first,last}', 'user.age', function() {});`},
		{"no keys", `computed(function() {});`},
		{"dynamic arguments ignored", `computed(someKey, someKey, function() {});`},
		{"same key in different calls", `computed('a', function() {}); computed('a', function() {});`},
	}

	rule := NewDuplicateKeys()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := runRule(t, rule, tt.source)
			if len(diags) != 0 {
				t.Errorf("expected no diagnostics, got %d: %v", len(diags), diags[0].Message)
			}
		})
	}
}

func TestDuplicateKeys_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		wantArgs []string
	}{
		{
			name:     "plain repeat",
			source:   `computed('a', 'a', function() {});`,
			wantArgs: []string{`'a'`},
		},
		{
			name:     "repeat via brace expansion",
			source:   `computed('user.first', 'user.{first,last}', function() {});`,
			wantArgs: []string{`'user.{first,last}'`},
		},
		{
			name:     "repeat inside one braced key",
			source:   `computed('user.{first,first}', function() {});`,
			wantArgs: []string{`'user.{first,first}'`},
		},
		{
			name:     "each repeating argument reported",
			source:   `computed('a', 'a', 'a', function() {});`,
			wantArgs: []string{`'a'`, `'a'`},
		},
		{
			name:     "repeat via concatenation",
			source:   `computed('a.b', 'a.' + 'b', function() {});`,
			wantArgs: []string{`'a.' + 'b'`},
		},
	}

	rule := NewDuplicateKeys()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := runRule(t, rule, tt.source)
			if len(diags) != len(tt.wantArgs) {
				t.Fatalf("expected %d diagnostics, got %d", len(tt.wantArgs), len(diags))
			}
			for i, d := range diags {
				if d.RuleName != RuleDuplicateKeys {
					t.Errorf("expected rule name %q, got %q", RuleDuplicateKeys, d.RuleName)
				}
				if d.Message != msgDuplicateDependency {
					t.Errorf("expected message %q, got %q", msgDuplicateDependency, d.Message)
				}
				if got := tt.source[d.Span.Start:d.Span.End]; got != tt.wantArgs[i] {
					t.Errorf("diagnostic %d anchored on %q, want %q", i, got, tt.wantArgs[i])
				}
				if d.HasFix() {
					t.Error("duplicate key diagnostics carry no fix")
				}
			}
		})
	}
}
