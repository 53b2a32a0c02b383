// Copyright (C) 2025 the embercheck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/agpl-3.0.html> for the full license text.

package server

import (
	"github.com/mongoose700/embercheck/lint"
)

// =============================================================================
// Error Responses
// =============================================================================

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	// Error is a human-readable description of what went wrong.
	Error string `json:"error"`

	// Code is a stable machine-readable error identifier.
	Code string `json:"code"`
}

// Error codes returned by the API.
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeInvalidContent = "INVALID_CONTENT"
	CodeFileTooLarge   = "FILE_TOO_LARGE"
	CodeLintFailed     = "LINT_FAILED"
)

// =============================================================================
// Lint Endpoints
// =============================================================================

// LintRunRequest is the body of POST /v1/lint/run.
type LintRunRequest struct {
	// FileName labels the source in diagnostics. Optional; defaults to
	// "stdin.js".
	FileName string `json:"file_name"`

	// Source is the JavaScript content to lint.
	Source string `json:"source" binding:"required"`

	// Fix also computes the fixed source and returns it in Output.
	Fix bool `json:"fix"`
}

// LintRunResponse is the result of one lint request.
type LintRunResponse struct {
	// FileName echoes the request's label.
	FileName string `json:"file_name"`

	// Diagnostics are the findings that remain after fixing, ordered by
	// position. Empty means clean.
	Diagnostics []lint.Diagnostic `json:"diagnostics"`

	// Fixed reports whether fixing changed the source.
	Fixed bool `json:"fixed"`

	// Output is the fixed source. Present only when Fixed is true.
	Output string `json:"output,omitempty"`

	// SyntaxErrors reports that the parser recovered from syntax errors,
	// so findings may be incomplete.
	SyntaxErrors bool `json:"syntax_errors,omitempty"`

	// DurationMilli is the server-side processing time.
	DurationMilli int64 `json:"duration_ms"`
}

// RuleInfo describes one registered rule.
type RuleInfo struct {
	// Name is the rule identifier used in configuration and diagnostics.
	Name string `json:"name"`

	// Description is a one-line summary of what the rule checks.
	Description string `json:"description"`

	// Severity is the level the rule reports at on this server.
	Severity string `json:"severity"`
}

// ListRulesResponse is the body of GET /v1/lint/rules.
type ListRulesResponse struct {
	Rules []RuleInfo `json:"rules"`
}

// =============================================================================
// Health Endpoints
// =============================================================================

// HealthResponse is the body of GET /v1/lint/health.
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// ReadyResponse is the body of GET /v1/lint/ready.
type ReadyResponse struct {
	Ready bool `json:"ready"`
}
