// Copyright (C) 2025 the embercheck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/agpl-3.0.html> for the full license text.

package lint

import (
	"github.com/mongoose700/embercheck/estree"
)

// Rule is a single analysis over one parsed file.
//
// Description:
//
//	A Rule inspects the syntax tree in the RunContext and returns its
//	findings. Rules are constructed once with their options and reused
//	across files and goroutines, so implementations must not retain
//	per-run state on the receiver.
type Rule interface {
	// Name is the stable rule identifier used in configuration and output.
	Name() string

	// Description is a one-line summary for rule listings.
	Description() string

	// Run analyzes one file and returns its diagnostics. An empty slice
	// or nil means the file is clean for this rule.
	Run(rc *RunContext) []Diagnostic
}

// ConfiguredRule pairs a rule with the severity it reports at. Rules at
// SeverityOff are skipped by the runner.
type ConfiguredRule struct {
	Rule     Rule
	Severity Severity
}

// RunContext carries everything a rule needs to analyze one file.
type RunContext struct {
	// FilePath is the path of the file under analysis, echoed into
	// diagnostics.
	FilePath string

	// Content is the raw source text. Node byte offsets index into it.
	Content []byte

	// Root is the parsed Program node.
	Root *estree.Node

	// Severity is the reporting level configured for the running rule.
	Severity Severity
}

// NewDiagnostic builds a diagnostic anchored to the given node, carrying
// the context's file path and severity.
func (rc *RunContext) NewDiagnostic(ruleName, message string, n *estree.Node) Diagnostic {
	d := Diagnostic{
		RuleName: ruleName,
		Severity: rc.Severity,
		Message:  message,
		FilePath: rc.FilePath,
	}
	if n != nil {
		d.Start = n.StartPos
		d.End = n.EndPos
		d.Span = Span{Start: n.Start, End: n.End}
	}
	return d
}
