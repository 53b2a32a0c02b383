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
)

func TestRemoveRedundant(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want []string
	}{
		{"empty", nil, []string{}},
		{"no overlap", []string{"foo", "bar"}, []string{"foo", "bar"}},
		{"prefix covers deeper", []string{"foo", "foo.bar"}, []string{"foo"}},
		{"order preserved", []string{"foo.bar", "foo"}, []string{"foo"}},
		{"duplicates survive", []string{"foo", "foo"}, []string{"foo", "foo"}},
		{"wildcard covers terminal", []string{"items.[]", "items.length"}, []string{"items.[]"}},
		{"@each covers []", []string{"items.@each.name", "items.[]"}, []string{"items.@each.name"}},
		{
			"chain removes both covered keys",
			[]string{"foo", "foo.bar", "foo.bar.baz"},
			[]string{"foo"},
		},
		{
			"removal does not rescue",
			// items.length covers items.length.size and is itself
			// covered by items.[]; its removal does not rescue the
			// deeper key because coverage is checked against the
			// original list.
			[]string{"items.[]", "items.length", "items.length.size"},
			[]string{"items.[]"},
		},
		{"unrelated keys untouched", []string{"a.b", "c.d", "a"}, []string{"c.d", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := removeRedundant(tt.keys)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("removeRedundant(%v) = %v, want %v", tt.keys, got, tt.want)
			}
		})
	}
}

func TestRemoveKeys(t *testing.T) {
	tests := []struct {
		name  string
		keys  []string
		drop  []string
		want  []string
		alias bool
	}{
		{"nothing to drop", []string{"a", "b"}, nil, []string{"a", "b"}, true},
		{"exact match dropped", []string{"intl", "name"}, []string{"intl"}, []string{"name"}, false},
		{"prefix is not equality", []string{"intl.locale"}, []string{"intl"}, []string{"intl.locale"}, false},
		{"all dropped", []string{"a"}, []string{"a"}, []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := removeKeys(tt.keys, tt.drop)
			if tt.alias {
				if len(got) != len(tt.keys) {
					t.Fatalf("removeKeys(%v, %v) = %v, want unchanged", tt.keys, tt.drop, got)
				}
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("removeKeys(%v, %v) = %v, want %v", tt.keys, tt.drop, got, tt.want)
			}
		})
	}
}
