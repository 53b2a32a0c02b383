// Copyright (C) 2025 the embercheck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/agpl-3.0.html> for the full license text.

package lint

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/mongoose700/embercheck/estree"
)

var tracer = otel.Tracer("embercheck/lint")

// =============================================================================
// Runner Options
// =============================================================================

// RunnerOptions configures a Runner.
type RunnerOptions struct {
	// Workers is the number of files linted in parallel. 0 means one
	// worker per CPU.
	// Default: 0
	Workers int

	// Fix applies automatic fixes and rewrites files in place.
	// Default: false
	Fix bool

	// DryRun computes fixes without writing files back, so the pending
	// changes can be previewed.
	// Default: false
	DryRun bool

	// MaxFixPasses bounds the fix-then-relint loop per file, since one
	// fix can expose the next.
	// Default: 10
	MaxFixPasses int

	// Extensions lists the file extensions picked up during directory
	// traversal. Explicitly named files are always linted.
	// Default: .js, .mjs, .cjs
	Extensions []string

	// IgnoreDirs lists directory names skipped during traversal. Dot
	// directories are always skipped.
	// Default: node_modules, bower_components, dist, tmp
	IgnoreDirs []string

	// Cache, when non-nil, skips files whose content is already known to
	// be clean. Ignored during fix runs.
	// Default: nil
	Cache *Cache
}

// DefaultRunnerOptions returns the default runner configuration.
func DefaultRunnerOptions() RunnerOptions {
	return RunnerOptions{
		Workers:      0,
		Fix:          false,
		MaxFixPasses: 10,
		Extensions:   []string{".js", ".mjs", ".cjs"},
		IgnoreDirs:   []string{"node_modules", "bower_components", "dist", "tmp"},
		Cache:        nil,
	}
}

// RunnerOption is a functional option for NewRunner.
type RunnerOption func(*RunnerOptions)

// WithWorkers sets the number of parallel lint workers.
func WithWorkers(n int) RunnerOption {
	return func(o *RunnerOptions) {
		o.Workers = n
	}
}

// WithFix enables applying automatic fixes.
func WithFix(fix bool) RunnerOption {
	return func(o *RunnerOptions) {
		o.Fix = fix
	}
}

// WithDryRun computes fixes without writing files back.
func WithDryRun(dryRun bool) RunnerOption {
	return func(o *RunnerOptions) {
		o.DryRun = dryRun
	}
}

// WithMaxFixPasses sets the per-file fix pass bound.
func WithMaxFixPasses(n int) RunnerOption {
	return func(o *RunnerOptions) {
		o.MaxFixPasses = n
	}
}

// WithExtensions sets the extensions picked up during traversal.
func WithExtensions(exts []string) RunnerOption {
	return func(o *RunnerOptions) {
		o.Extensions = exts
	}
}

// WithIgnoreDirs sets the directory names skipped during traversal.
func WithIgnoreDirs(dirs []string) RunnerOption {
	return func(o *RunnerOptions) {
		o.IgnoreDirs = dirs
	}
}

// WithCache attaches a clean-file result cache.
func WithCache(c *Cache) RunnerOption {
	return func(o *RunnerOptions) {
		o.Cache = c
	}
}

// =============================================================================
// Results
// =============================================================================

// FileResult is the outcome of linting one file.
type FileResult struct {
	// FilePath is the linted file.
	FilePath string `json:"file"`

	// Diagnostics are the findings that remain after fixing, ordered by
	// position.
	Diagnostics []Diagnostic `json:"diagnostics"`

	// Fixed reports whether fixing changed the content.
	Fixed bool `json:"fixed,omitempty"`

	// Output is the content after fixing. Nil when nothing changed.
	Output []byte `json:"-"`

	// Original is the content before fixing. Nil when nothing changed.
	Original []byte `json:"-"`

	// FromCache reports that the file was skipped as already clean.
	FromCache bool `json:"from_cache,omitempty"`

	// SyntaxErrors reports that the parser recovered from syntax errors,
	// so findings in this file may be incomplete.
	SyntaxErrors bool `json:"syntax_errors,omitempty"`
}

// Report is the outcome of one lint run.
type Report struct {
	// Files holds one result per linted file, ordered by path.
	Files []FileResult `json:"files"`
}

// Diagnostics flattens every file's findings into one slice.
func (r *Report) Diagnostics() []Diagnostic {
	var out []Diagnostic
	for _, f := range r.Files {
		out = append(out, f.Diagnostics...)
	}
	return out
}

// Counts returns the number of error- and warning-level findings.
func (r *Report) Counts() (errors, warnings int) {
	for _, f := range r.Files {
		for _, d := range f.Diagnostics {
			switch d.Severity {
			case SeverityError:
				errors++
			case SeverityWarning:
				warnings++
			}
		}
	}
	return errors, warnings
}

// FixedFiles returns how many files were rewritten.
func (r *Report) FixedFiles() int {
	n := 0
	for _, f := range r.Files {
		if f.Fixed {
			n++
		}
	}
	return n
}

// =============================================================================
// Runner
// =============================================================================

// Runner lints files with a configured rule set.
//
// Description:
//
//	A Runner walks the requested paths, parses each matching file, runs
//	every configured rule over it, and optionally applies fixes in a
//	bounded fix-then-relint loop. Files are processed in parallel; the
//	result order is deterministic regardless of worker count.
//
// Thread Safety: Immutable after construction; safe for concurrent use.
type Runner struct {
	rules   []ConfiguredRule
	parser  *estree.Parser
	options RunnerOptions
}

// NewRunner creates a runner over the given configured rules.
func NewRunner(rules []ConfiguredRule, opts ...RunnerOption) *Runner {
	options := DefaultRunnerOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &Runner{
		rules:   rules,
		parser:  estree.NewParser(),
		options: options,
	}
}

// Run lints every file reachable from paths and returns the combined
// report. With fixing enabled, rewritten files are saved in place.
//
// Inputs:
//
//	ctx - Context for cancellation and tracing. Must not be nil.
//	paths - Files and directories to lint. Directories are walked
//	        recursively; explicitly named files skip the extension filter.
//
// Outputs:
//
//	*Report - One entry per linted file, ordered by path.
//	error - Non-nil on the first I/O or parse failure.
func (r *Runner) Run(ctx context.Context, paths []string) (*Report, error) {
	if ctx == nil {
		return nil, fmt.Errorf("Run: ctx must not be nil")
	}
	ctx, span := tracer.Start(ctx, "lint.Run")
	defer span.End()
	runID := uuid.NewString()
	start := time.Now()

	files, err := r.collectFiles(paths)
	if err != nil {
		return nil, err
	}

	workers := r.options.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]FileResult, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			res, err := r.lintPath(ctx, path)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Files: results}
	errCount, warnCount := report.Counts()
	span.SetAttributes(
		attribute.String("run_id", runID),
		attribute.Int("files", len(files)),
		attribute.Int("errors", errCount),
		attribute.Int("warnings", warnCount),
		attribute.Int("fixed_files", report.FixedFiles()),
	)
	slog.Info("lint run complete",
		slog.String("run_id", runID),
		slog.Int("files", len(files)),
		slog.Int("errors", errCount),
		slog.Int("warnings", warnCount),
		slog.Int("fixed_files", report.FixedFiles()),
		slog.Duration("duration", time.Since(start)),
	)
	return report, nil
}

// lintPath lints one file from disk, saving it back when a fix run
// changed its content.
func (r *Runner) lintPath(ctx context.Context, path string) (FileResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return FileResult{}, fmt.Errorf("reading %s: %w", path, err)
	}

	res, err := r.LintSource(ctx, path, content)
	if err != nil {
		return FileResult{}, err
	}

	if res.Fixed && r.options.Fix && !r.options.DryRun {
		perm := fs.FileMode(0o644)
		if info, err := os.Stat(path); err == nil {
			perm = info.Mode().Perm()
		}
		if err := os.WriteFile(path, res.Output, perm); err != nil {
			return FileResult{}, fmt.Errorf("saving fixes to %s: %w", path, err)
		}
	}
	return res, nil
}

// LintFile lints one file from disk without writing anything back.
func (r *Runner) LintFile(ctx context.Context, path string) (FileResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return FileResult{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return r.LintSource(ctx, path, content)
}

// LintSource lints in-memory content.
//
// Description:
//
//	Parses the content and runs every configured rule. With fixing
//	enabled, applies non-overlapping fixes, re-parses, and repeats up to
//	MaxFixPasses times; the returned diagnostics are the findings that
//	remain after the last pass. The clean-file cache is consulted only on
//	non-fix runs.
func (r *Runner) LintSource(ctx context.Context, path string, content []byte) (FileResult, error) {
	useCache := r.options.Cache != nil && !r.options.Fix
	contentHash := ""
	if useCache {
		contentHash = hashContent(content)
		if r.options.Cache.IsClean(path, contentHash) {
			return FileResult{FilePath: path, FromCache: true}, nil
		}
	}

	original := content
	parsed, err := r.parser.Parse(ctx, content, path)
	if err != nil {
		return FileResult{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	root := parsed.Root
	syntaxErrors := parsed.HasSyntaxErrors

	var diags []Diagnostic
	fixed := false
	for pass := 0; ; pass++ {
		diags = r.runRules(path, content, root)
		if !r.options.Fix || pass >= r.options.MaxFixPasses {
			break
		}
		output, applied := applyFixes(content, diags)
		if applied == 0 {
			break
		}
		content = output
		fixed = true

		parsed, err = r.parser.Parse(ctx, content, path)
		if err != nil {
			return FileResult{}, fmt.Errorf("reparsing %s after fixes: %w", path, err)
		}
		root = parsed.Root
		syntaxErrors = syntaxErrors || parsed.HasSyntaxErrors
	}

	sortDiagnostics(diags)

	if useCache && len(diags) == 0 {
		if err := r.options.Cache.MarkClean(path, contentHash); err != nil {
			slog.Warn("lint cache: save failed",
				slog.String("file", path),
				slog.String("error", err.Error()),
			)
		}
	}

	res := FileResult{
		FilePath:     path,
		Diagnostics:  diags,
		Fixed:        fixed,
		SyntaxErrors: syntaxErrors,
	}
	if fixed {
		res.Output = content
		res.Original = original
	}
	return res, nil
}

// runRules runs every configured rule over one parsed file.
func (r *Runner) runRules(path string, content []byte, root *estree.Node) []Diagnostic {
	var diags []Diagnostic
	for _, cr := range r.rules {
		if cr.Severity == SeverityOff {
			continue
		}
		rc := &RunContext{
			FilePath: path,
			Content:  content,
			Root:     root,
			Severity: cr.Severity,
		}
		diags = append(diags, cr.Rule.Run(rc)...)
	}
	return diags
}

// collectFiles resolves the requested paths into a sorted, deduplicated
// file list. Directories are walked recursively with the extension and
// ignore filters; explicitly named files are taken as-is.
func (r *Runner) collectFiles(paths []string) ([]string, error) {
	ignored := make(map[string]bool, len(r.options.IgnoreDirs))
	for _, dir := range r.options.IgnoreDirs {
		ignored[dir] = true
	}

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}

		root := path
		err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				name := d.Name()
				if p != root && (ignored[name] || strings.HasPrefix(name, ".")) {
					return fs.SkipDir
				}
				return nil
			}
			if r.matchesExtension(p) {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", root, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

func (r *Runner) matchesExtension(path string) bool {
	ext := filepath.Ext(path)
	for _, want := range r.options.Extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// =============================================================================
// Fix Application
// =============================================================================

// applyFixes applies the non-overlapping subset of the diagnostics'
// fixes, earliest span first, and returns the rewritten content with the
// number of fixes applied. Overlapping and out-of-bounds fixes are
// skipped; they get another chance on the next pass.
func applyFixes(content []byte, diags []Diagnostic) ([]byte, int) {
	var fixes []*Fix
	for i := range diags {
		if f := diags[i].Fix; f != nil {
			fixes = append(fixes, f)
		}
	}
	if len(fixes) == 0 {
		return content, 0
	}
	sort.Slice(fixes, func(i, j int) bool {
		if fixes[i].Span.Start != fixes[j].Span.Start {
			return fixes[i].Span.Start < fixes[j].Span.Start
		}
		return fixes[i].Span.End < fixes[j].Span.End
	})

	var buf bytes.Buffer
	pos := 0
	applied := 0
	for _, f := range fixes {
		span := f.Span
		if span.Start < pos || span.End < span.Start || span.End > len(content) {
			continue
		}
		buf.Write(content[pos:span.Start])
		buf.WriteString(f.NewText)
		pos = span.End
		applied++
	}
	if applied == 0 {
		return content, 0
	}
	buf.Write(content[pos:])
	return buf.Bytes(), applied
}

// sortDiagnostics orders findings by position, then rule name, so output
// is stable across runs and worker counts.
func sortDiagnostics(diags []Diagnostic) {
	sort.Slice(diags, func(i, j int) bool {
		if diags[i].Span.Start != diags[j].Span.Start {
			return diags[i].Span.Start < diags[j].Span.Start
		}
		if diags[i].Span.End != diags[j].Span.End {
			return diags[i].Span.End < diags[j].Span.End
		}
		return diags[i].RuleName < diags[j].RuleName
	})
}

func hashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
