// Copyright (C) 2025 the embercheck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/agpl-3.0.html> for the full license text.

package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mongoose700/embercheck/estree"
	"github.com/mongoose700/embercheck/lint"
)

// defaultFileName labels sources posted without a file name.
const defaultFileName = "stdin.js"

// Handlers serves the lint API over a fixed rule set.
//
// Description:
//
//	One checking runner and one fixing runner are built at construction
//	and shared across requests. Runners are immutable, so no
//	per-request state is needed.
//
// Thread Safety: Safe for concurrent use.
type Handlers struct {
	rules     []lint.ConfiguredRule
	runner    *lint.Runner
	fixRunner *lint.Runner
	version   string
	startedAt time.Time
}

// NewHandlers creates the API handlers over the configured rules.
func NewHandlers(rules []lint.ConfiguredRule, version string) *Handlers {
	return &Handlers{
		rules:     rules,
		runner:    lint.NewRunner(rules),
		fixRunner: lint.NewRunner(rules, lint.WithFix(true)),
		version:   version,
		startedAt: time.Now(),
	}
}

// HandleLintRun handles POST /v1/lint/run.
//
// Description:
//
//	Lints the posted source with the server's rule set. With fix enabled,
//	the fixed source is returned in the response; nothing is written
//	server-side.
//
// Request Body:
//
//	LintRunRequest (source required, file_name and fix optional)
//
// Response:
//
//	200 OK: LintRunResponse
//	400 Bad Request: Malformed body or non-UTF-8 source
//	413 Request Entity Too Large: Source exceeds the parser's size limit
//	500 Internal Server Error: Lint failed
//
// Thread Safety: This method is safe for concurrent use.
func (h *Handlers) HandleLintRun(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleLintRun")
	start := time.Now()

	var req LintRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body: " + err.Error(),
			Code:  CodeInvalidRequest,
		})
		return
	}
	fileName := req.FileName
	if fileName == "" {
		fileName = defaultFileName
	}

	runner := h.runner
	if req.Fix {
		runner = h.fixRunner
	}
	res, err := runner.LintSource(c.Request.Context(), fileName, []byte(req.Source))
	if err != nil {
		RecordLintOutcome("failed")
		status, code := http.StatusInternalServerError, CodeLintFailed
		switch {
		case errors.Is(err, estree.ErrFileTooLarge):
			status, code = http.StatusRequestEntityTooLarge, CodeFileTooLarge
		case errors.Is(err, estree.ErrInvalidContent):
			status, code = http.StatusBadRequest, CodeInvalidContent
		}
		logger.Warn("lint request failed",
			slog.String("file", fileName),
			slog.String("error", err.Error()),
		)
		c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
		return
	}

	outcome := "clean"
	if len(res.Diagnostics) > 0 {
		outcome = "findings"
	}
	RecordLintOutcome(outcome)
	for _, d := range res.Diagnostics {
		RecordFinding(d.RuleName, string(d.Severity))
	}

	resp := LintRunResponse{
		FileName:      fileName,
		Diagnostics:   res.Diagnostics,
		Fixed:         res.Fixed,
		SyntaxErrors:  res.SyntaxErrors,
		DurationMilli: time.Since(start).Milliseconds(),
	}
	if resp.Diagnostics == nil {
		resp.Diagnostics = []lint.Diagnostic{}
	}
	if res.Fixed {
		resp.Output = string(res.Output)
	}

	logger.Info("lint request",
		slog.String("file", fileName),
		slog.Int("findings", len(res.Diagnostics)),
		slog.Bool("fixed", res.Fixed),
		slog.Duration("duration", time.Since(start)),
	)
	c.JSON(http.StatusOK, resp)
}

// HandleListRules handles GET /v1/lint/rules.
//
// Response:
//
//	200 OK: ListRulesResponse with one entry per active rule.
//
// Thread Safety: This method is safe for concurrent use.
func (h *Handlers) HandleListRules(c *gin.Context) {
	rules := make([]RuleInfo, 0, len(h.rules))
	for _, cr := range h.rules {
		rules = append(rules, RuleInfo{
			Name:        cr.Rule.Name(),
			Description: cr.Rule.Description(),
			Severity:    string(cr.Severity),
		})
	}
	c.JSON(http.StatusOK, ListRulesResponse{Rules: rules})
}

// HandleHealth handles GET /v1/lint/health.
//
// Thread Safety: This method is safe for concurrent use.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:        "ok",
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
	})
}

// HandleReady handles GET /v1/lint/ready. The server is ready as soon as
// it is serving; there is no warmup phase.
//
// Thread Safety: This method is safe for concurrent use.
func (h *Handlers) HandleReady(c *gin.Context) {
	c.JSON(http.StatusOK, ReadyResponse{Ready: true})
}
