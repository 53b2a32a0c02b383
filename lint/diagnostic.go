// Copyright (C) 2025 the embercheck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/agpl-3.0.html> for the full license text.

// Package lint contains the analysis harness: the rule interface, the
// diagnostic model, the multi-file runner with fixing, caching and watch
// support, and the report formatters.
package lint

import (
	"github.com/mongoose700/embercheck/estree"
)

// Severity is the reporting level assigned to a rule.
type Severity string

const (
	SeverityOff     Severity = "off"
	SeverityWarning Severity = "warn"
	SeverityError   Severity = "error"
)

// Valid reports whether s is one of the recognized severity values.
func (s Severity) Valid() bool {
	switch s {
	case SeverityOff, SeverityWarning, SeverityError:
		return true
	}
	return false
}

// Span is a half-open byte range [Start, End) in the source text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Fix is a single-span text replacement that resolves a diagnostic.
// Applying it means replacing the Span with NewText.
type Fix struct {
	Span    Span   `json:"span"`
	NewText string `json:"new_text"`
}

// Diagnostic is one finding produced by a rule on one file.
type Diagnostic struct {
	RuleName string          `json:"rule"`
	Severity Severity        `json:"severity"`
	Message  string          `json:"message"`
	FilePath string          `json:"file"`
	Start    estree.Position `json:"start"`
	End      estree.Position `json:"end"`
	Span     Span            `json:"span"`
	Fix      *Fix            `json:"fix,omitempty"`
}

// HasFix reports whether the diagnostic carries an automatic fix.
func (d *Diagnostic) HasFix() bool {
	return d.Fix != nil
}
