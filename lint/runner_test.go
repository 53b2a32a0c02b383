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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// markerRule flags every occurrence of a substring in the raw source and,
// when a replacement is set, offers a fix that rewrites it. It keeps the
// runner tests independent of any real rule package.
type markerRule struct {
	name        string
	marker      string
	replacement string
}

func (r *markerRule) Name() string        { return r.name }
func (r *markerRule) Description() string { return "flags occurrences of " + r.marker }

func (r *markerRule) Run(rc *RunContext) []Diagnostic {
	var diags []Diagnostic
	for offset := 0; ; {
		i := bytes.Index(rc.Content[offset:], []byte(r.marker))
		if i < 0 {
			break
		}
		start := offset + i
		end := start + len(r.marker)
		d := Diagnostic{
			RuleName: r.name,
			Severity: rc.Severity,
			Message:  "found " + r.marker,
			FilePath: rc.FilePath,
			Span:     Span{Start: start, End: end},
		}
		if r.replacement != "" {
			d.Fix = &Fix{Span: d.Span, NewText: r.replacement}
		}
		diags = append(diags, d)
		offset = end
	}
	return diags
}

func flagRule(name, marker string) ConfiguredRule {
	return ConfiguredRule{Rule: &markerRule{name: name, marker: marker}, Severity: SeverityError}
}

func fixRule(name, marker, replacement string) ConfiguredRule {
	return ConfiguredRule{
		Rule:     &markerRule{name: name, marker: marker, replacement: replacement},
		Severity: SeverityError,
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLintSource_CleanFile(t *testing.T) {
	runner := NewRunner([]ConfiguredRule{flagRule("no-zzz", "zzz")})

	res, err := runner.LintSource(context.Background(), "app.js", []byte("var a = 1;\n"))
	require.NoError(t, err)
	require.Equal(t, "app.js", res.FilePath)
	require.Empty(t, res.Diagnostics)
	require.False(t, res.Fixed)
	require.Nil(t, res.Output)
	require.Nil(t, res.Original)
	require.False(t, res.FromCache)
	require.False(t, res.SyntaxErrors)
}

func TestLintSource_ReportsFindings(t *testing.T) {
	runner := NewRunner([]ConfiguredRule{flagRule("no-alpha", "alpha")})

	source := "var alpha = 1;\n"
	res, err := runner.LintSource(context.Background(), "app.js", []byte(source))
	require.NoError(t, err)
	require.Len(t, res.Diagnostics, 1)

	d := res.Diagnostics[0]
	require.Equal(t, "no-alpha", d.RuleName)
	require.Equal(t, SeverityError, d.Severity)
	require.Equal(t, "app.js", d.FilePath)
	require.Equal(t, "alpha", source[d.Span.Start:d.Span.End])
	require.False(t, d.HasFix())
	require.False(t, res.Fixed)
}

func TestLintSource_SeverityPropagates(t *testing.T) {
	rule := ConfiguredRule{Rule: &markerRule{name: "no-alpha", marker: "alpha"}, Severity: SeverityWarning}
	runner := NewRunner([]ConfiguredRule{rule})

	res, err := runner.LintSource(context.Background(), "app.js", []byte("var alpha = 1;\n"))
	require.NoError(t, err)
	require.Len(t, res.Diagnostics, 1)
	require.Equal(t, SeverityWarning, res.Diagnostics[0].Severity)
}

func TestLintSource_DisabledRuleSkipped(t *testing.T) {
	rule := ConfiguredRule{Rule: &markerRule{name: "no-alpha", marker: "alpha"}, Severity: SeverityOff}
	runner := NewRunner([]ConfiguredRule{rule})

	res, err := runner.LintSource(context.Background(), "app.js", []byte("var alpha = 1;\n"))
	require.NoError(t, err)
	require.Empty(t, res.Diagnostics)
}

func TestLintSource_AppliesFixes(t *testing.T) {
	runner := NewRunner([]ConfiguredRule{fixRule("rename-alpha", "alpha", "beta")}, WithFix(true))

	res, err := runner.LintSource(context.Background(), "app.js", []byte("var alpha = 1;\n"))
	require.NoError(t, err)
	require.True(t, res.Fixed)
	require.Equal(t, "var beta = 1;\n", string(res.Output))
	require.Equal(t, "var alpha = 1;\n", string(res.Original))
	require.Empty(t, res.Diagnostics)
}

func TestLintSource_FixesCascadeAcrossPasses(t *testing.T) {
	// The first pass rewrites alpha to beta; only then does the second
	// rule have anything to flag.
	runner := NewRunner([]ConfiguredRule{
		fixRule("rename-alpha", "alpha", "beta"),
		fixRule("rename-beta", "beta", "gamma"),
	}, WithFix(true))

	res, err := runner.LintSource(context.Background(), "app.js", []byte("var alpha = 1;\n"))
	require.NoError(t, err)
	require.True(t, res.Fixed)
	require.Equal(t, "var gamma = 1;\n", string(res.Output))
	require.Empty(t, res.Diagnostics)
}

func TestLintSource_FixPassesAreBounded(t *testing.T) {
	// Replacing the marker with itself never converges, so the loop must
	// stop at the configured bound with the finding still reported.
	runner := NewRunner([]ConfiguredRule{fixRule("spin", "alpha", "alpha")},
		WithFix(true), WithMaxFixPasses(2))

	res, err := runner.LintSource(context.Background(), "app.js", []byte("var alpha = 1;\n"))
	require.NoError(t, err)
	require.True(t, res.Fixed)
	require.Len(t, res.Diagnostics, 1)
	require.Equal(t, "var alpha = 1;\n", string(res.Output))
}

func TestLintSource_FixDisabledLeavesContent(t *testing.T) {
	runner := NewRunner([]ConfiguredRule{fixRule("rename-alpha", "alpha", "beta")})

	res, err := runner.LintSource(context.Background(), "app.js", []byte("var alpha = 1;\n"))
	require.NoError(t, err)
	require.False(t, res.Fixed)
	require.Nil(t, res.Output)
	require.Len(t, res.Diagnostics, 1)
	require.True(t, res.Diagnostics[0].HasFix())
}

func TestLintSource_FlagsSyntaxErrors(t *testing.T) {
	runner := NewRunner([]ConfiguredRule{flagRule("no-zzz", "zzz")})

	res, err := runner.LintSource(context.Background(), "bad.js", []byte("function ((( {\n"))
	require.NoError(t, err)
	require.True(t, res.SyntaxErrors)
}

func TestLintSource_InvalidContent(t *testing.T) {
	runner := NewRunner([]ConfiguredRule{flagRule("no-zzz", "zzz")})

	_, err := runner.LintSource(context.Background(), "bad.js", []byte{0xff, 0xfe, 0x00, 0x01})
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad.js")
}

func TestRun_NilContext(t *testing.T) {
	runner := NewRunner(nil)

	var ctx context.Context
	_, err := runner.Run(ctx, []string{"."})
	require.Error(t, err)
}

func TestRun_MissingPath(t *testing.T) {
	runner := NewRunner(nil)

	_, err := runner.Run(context.Background(), []string{filepath.Join(t.TempDir(), "absent")})
	require.Error(t, err)
}

func TestRun_WalksDirectories(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, "a.js"), "var alpha = 1;\n")
	writeFile(t, filepath.Join(tmp, "b.mjs"), "var b = 2;\n")
	writeFile(t, filepath.Join(tmp, "notes.txt"), "alpha\n")
	writeFile(t, filepath.Join(tmp, "node_modules", "dep.js"), "alpha\n")
	writeFile(t, filepath.Join(tmp, ".git", "hook.js"), "alpha\n")
	writeFile(t, filepath.Join(tmp, "sub", "c.cjs"), "var alpha = 2;\n")

	runner := NewRunner([]ConfiguredRule{flagRule("no-alpha", "alpha")})
	report, err := runner.Run(context.Background(), []string{tmp})
	require.NoError(t, err)

	var paths []string
	for _, f := range report.Files {
		paths = append(paths, f.FilePath)
	}
	require.Equal(t, []string{
		filepath.Join(tmp, "a.js"),
		filepath.Join(tmp, "b.mjs"),
		filepath.Join(tmp, "sub", "c.cjs"),
	}, paths)
	require.Len(t, report.Diagnostics(), 2)
}

func TestRun_ExplicitFileSkipsExtensionFilter(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "notes.txt")
	writeFile(t, path, "alpha\n")

	runner := NewRunner([]ConfiguredRule{flagRule("no-alpha", "alpha")})
	report, err := runner.Run(context.Background(), []string{path})
	require.NoError(t, err)
	require.Len(t, report.Files, 1)
	require.Len(t, report.Files[0].Diagnostics, 1)
}

func TestRun_DeduplicatesPaths(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "a.js")
	writeFile(t, path, "var a = 1;\n")

	runner := NewRunner(nil)
	report, err := runner.Run(context.Background(), []string{path, path, tmp})
	require.NoError(t, err)
	require.Len(t, report.Files, 1)
}

func TestRun_CustomExtensions(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, "a.js"), "var alpha = 1;\n")
	writeFile(t, filepath.Join(tmp, "b.gjs"), "var alpha = 1;\n")

	runner := NewRunner([]ConfiguredRule{flagRule("no-alpha", "alpha")},
		WithExtensions([]string{".gjs"}))
	report, err := runner.Run(context.Background(), []string{tmp})
	require.NoError(t, err)
	require.Len(t, report.Files, 1)
	require.Equal(t, filepath.Join(tmp, "b.gjs"), report.Files[0].FilePath)
}

func TestRun_FixRewritesFile(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "a.js")
	writeFile(t, path, "var alpha = 1;\n")

	runner := NewRunner([]ConfiguredRule{fixRule("rename-alpha", "alpha", "beta")}, WithFix(true))
	report, err := runner.Run(context.Background(), []string{path})
	require.NoError(t, err)
	require.Equal(t, 1, report.FixedFiles())

	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "var beta = 1;\n", string(saved))
}

func TestRun_DryRunLeavesFileUntouched(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "a.js")
	writeFile(t, path, "var alpha = 1;\n")

	runner := NewRunner([]ConfiguredRule{fixRule("rename-alpha", "alpha", "beta")},
		WithFix(true), WithDryRun(true))
	report, err := runner.Run(context.Background(), []string{path})
	require.NoError(t, err)
	require.Equal(t, 1, report.FixedFiles())
	require.Equal(t, "var beta = 1;\n", string(report.Files[0].Output))

	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "var alpha = 1;\n", string(saved))
}

func TestLintFile_NeverWrites(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "a.js")
	writeFile(t, path, "var alpha = 1;\n")

	runner := NewRunner([]ConfiguredRule{fixRule("rename-alpha", "alpha", "beta")}, WithFix(true))
	res, err := runner.LintFile(context.Background(), path)
	require.NoError(t, err)
	require.True(t, res.Fixed)

	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "var alpha = 1;\n", string(saved))
}

func TestApplyFixes_DisjointSpans(t *testing.T) {
	content := []byte("abcdef")
	diags := []Diagnostic{
		{Fix: &Fix{Span: Span{Start: 4, End: 5}, NewText: "Y"}},
		{Fix: &Fix{Span: Span{Start: 1, End: 2}, NewText: "X"}},
	}

	out, applied := applyFixes(content, diags)
	require.Equal(t, 2, applied)
	require.Equal(t, "aXcdYf", string(out))
}

func TestApplyFixes_OverlapSkipsLater(t *testing.T) {
	content := []byte("abcdef")
	diags := []Diagnostic{
		{Fix: &Fix{Span: Span{Start: 1, End: 3}, NewText: "X"}},
		{Fix: &Fix{Span: Span{Start: 2, End: 4}, NewText: "Y"}},
	}

	out, applied := applyFixes(content, diags)
	require.Equal(t, 1, applied)
	require.Equal(t, "aXdef", string(out))
}

func TestApplyFixes_SameStartKeepsShorter(t *testing.T) {
	content := []byte("abcdef")
	diags := []Diagnostic{
		{Fix: &Fix{Span: Span{Start: 1, End: 3}, NewText: "Y"}},
		{Fix: &Fix{Span: Span{Start: 1, End: 2}, NewText: "X"}},
	}

	out, applied := applyFixes(content, diags)
	require.Equal(t, 1, applied)
	require.Equal(t, "aXcdef", string(out))
}

func TestApplyFixes_OutOfBoundsSkipped(t *testing.T) {
	content := []byte("abcdef")
	diags := []Diagnostic{
		{Fix: &Fix{Span: Span{Start: 4, End: 10}, NewText: "X"}},
	}

	out, applied := applyFixes(content, diags)
	require.Equal(t, 0, applied)
	require.Equal(t, "abcdef", string(out))
}

func TestApplyFixes_InsertionSpan(t *testing.T) {
	content := []byte("abcdef")
	diags := []Diagnostic{
		{Fix: &Fix{Span: Span{Start: 2, End: 2}, NewText: "++"}},
	}

	out, applied := applyFixes(content, diags)
	require.Equal(t, 1, applied)
	require.Equal(t, "ab++cdef", string(out))
}

func TestApplyFixes_NoFixes(t *testing.T) {
	content := []byte("abcdef")
	diags := []Diagnostic{{Message: "finding without fix"}}

	out, applied := applyFixes(content, diags)
	require.Equal(t, 0, applied)
	require.Equal(t, "abcdef", string(out))
}

func TestSortDiagnostics_ByPositionThenRule(t *testing.T) {
	diags := []Diagnostic{
		{RuleName: "b", Span: Span{Start: 5, End: 9}},
		{RuleName: "c", Span: Span{Start: 1, End: 4}},
		{RuleName: "a", Span: Span{Start: 5, End: 9}},
		{RuleName: "d", Span: Span{Start: 5, End: 7}},
		{RuleName: "e", Span: Span{Start: 0, End: 2}},
	}

	sortDiagnostics(diags)

	var order []string
	for _, d := range diags {
		order = append(order, d.RuleName)
	}
	require.Equal(t, []string{"e", "c", "d", "a", "b"}, order)
}

func TestReport_Counts(t *testing.T) {
	report := &Report{Files: []FileResult{
		{Diagnostics: []Diagnostic{{Severity: SeverityError}, {Severity: SeverityWarning}}},
		{Diagnostics: []Diagnostic{{Severity: SeverityError}}},
		{Fixed: true},
	}}

	errs, warns := report.Counts()
	require.Equal(t, 2, errs)
	require.Equal(t, 1, warns)
	require.Equal(t, 1, report.FixedFiles())
	require.Len(t, report.Diagnostics(), 3)
}
