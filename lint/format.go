// Copyright (C) 2025 the embercheck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/agpl-3.0.html> for the full license text.

package lint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/sourcegraph/go-diff/diff"
)

// Format selects how a report is rendered.
type Format string

const (
	// FormatText is the human-readable default: findings grouped by file
	// with a problem summary.
	FormatText Format = "text"

	// FormatJSON renders the report as indented JSON.
	FormatJSON Format = "json"

	// FormatTable renders every finding as one row of an aligned table.
	FormatTable Format = "table"

	// FormatDiff renders the pending fixes as unified diffs.
	FormatDiff Format = "diff"
)

// ParseFormat validates a format name from configuration or flags.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON, FormatTable, FormatDiff:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, json, table, or diff)", s)
}

// WriteReport renders the report in the given format.
func WriteReport(w io.Writer, report *Report, format Format, color bool) error {
	switch format {
	case FormatText:
		return WriteText(w, report, color)
	case FormatJSON:
		return WriteJSON(w, report)
	case FormatTable:
		return WriteTable(w, report)
	case FormatDiff:
		return WriteDiff(w, report)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// ShouldColorize reports whether ANSI color is appropriate for w: a
// terminal, with NO_COLOR unset.
func ShouldColorize(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// =============================================================================
// Text Format
// =============================================================================

const (
	ansiReset     = "\x1b[0m"
	ansiBold      = "\x1b[1m"
	ansiDim       = "\x1b[2m"
	ansiUnderline = "\x1b[4m"
	ansiRed       = "\x1b[31m"
	ansiYellow    = "\x1b[33m"
)

// WriteText renders findings grouped by file, one line per finding, with
// a closing problem summary. A clean report renders nothing.
func WriteText(w io.Writer, report *Report, color bool) error {
	paint := func(code, s string) string {
		if !color {
			return s
		}
		return code + s + ansiReset
	}

	fixable := 0
	for _, f := range report.Files {
		if len(f.Diagnostics) == 0 && !f.SyntaxErrors {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s\n", paint(ansiUnderline, f.FilePath)); err != nil {
			return err
		}
		if f.SyntaxErrors {
			if _, err := fmt.Fprintf(w, "  %s\n", paint(ansiDim, "(file has syntax errors; findings may be incomplete)")); err != nil {
				return err
			}
		}
		for _, d := range f.Diagnostics {
			if d.HasFix() {
				fixable++
			}
			level := paint(ansiYellow, "warn ")
			if d.Severity == SeverityError {
				level = paint(ansiRed, "error")
			}
			pos := fmt.Sprintf("%d:%d", d.Start.Line, d.Start.Column+1)
			if _, err := fmt.Fprintf(w, "  %-7s  %s  %s  %s\n",
				pos, level, d.Message, paint(ansiDim, d.RuleName)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	errCount, warnCount := report.Counts()
	total := errCount + warnCount
	if total > 0 {
		summary := fmt.Sprintf("%d %s (%d %s, %d %s)",
			total, plural(total, "problem"),
			errCount, plural(errCount, "error"),
			warnCount, plural(warnCount, "warning"))
		code := ansiYellow
		if errCount > 0 {
			code = ansiRed
		}
		if _, err := fmt.Fprintf(w, "%s\n", paint(code+ansiBold, "✖ "+summary)); err != nil {
			return err
		}
		if fixable > 0 {
			if _, err := fmt.Fprintf(w, "  %d fixable with the --fix option\n", fixable); err != nil {
				return err
			}
		}
	}
	if n := report.FixedFiles(); n > 0 {
		if _, err := fmt.Fprintf(w, "Fixed %d %s\n", n, plural(n, "file")); err != nil {
			return err
		}
	}
	return nil
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// =============================================================================
// JSON Format
// =============================================================================

// WriteJSON renders the report as indented JSON.
func WriteJSON(w io.Writer, report *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// =============================================================================
// Table Format
// =============================================================================

// WriteTable renders every finding as one row of an aligned table with a
// totals footer.
func WriteTable(w io.Writer, report *Report) error {
	diags := report.Diagnostics()
	if len(diags) == 0 {
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"File", "Line", "Col", "Severity", "Rule", "Message"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
	})

	for _, d := range diags {
		table.Append([]string{
			d.FilePath,
			strconv.Itoa(d.Start.Line),
			strconv.Itoa(d.Start.Column + 1),
			string(d.Severity),
			d.RuleName,
			d.Message,
		})
	}

	errCount, warnCount := report.Counts()
	table.SetFooter([]string{
		fmt.Sprintf("%d files", len(report.Files)),
		"", "",
		fmt.Sprintf("%d/%d", errCount, warnCount),
		"",
		fmt.Sprintf("%d problems", errCount+warnCount),
	})
	table.Render()
	return nil
}

// =============================================================================
// Diff Format
// =============================================================================

// diffContextLines is the unified-diff context shown around a change.
const diffContextLines = 3

// WriteDiff renders the pending fix of every rewritten file as a unified
// diff. Files the fix pass left unchanged render nothing, so the format
// pairs with a dry run to preview what --fix would do.
func WriteDiff(w io.Writer, report *Report) error {
	for _, f := range report.Files {
		if !f.Fixed || f.Original == nil {
			continue
		}
		fd := buildFileDiff(f.FilePath, f.Original, f.Output)
		if fd == nil {
			continue
		}
		out, err := diff.PrintFileDiff(fd)
		if err != nil {
			return fmt.Errorf("rendering diff for %s: %w", f.FilePath, err)
		}
		if _, err := w.Write(out); err != nil {
			return err
		}
	}
	return nil
}

// buildFileDiff produces a single-hunk unified diff between two versions
// of a file, with diffContextLines lines of context. Returns nil when the
// versions are line-identical.
func buildFileDiff(path string, before, after []byte) *diff.FileDiff {
	origLines := splitLines(before)
	newLines := splitLines(after)

	prefix := 0
	for prefix < len(origLines) && prefix < len(newLines) &&
		bytes.Equal(origLines[prefix], newLines[prefix]) {
		prefix++
	}
	suffix := 0
	for suffix < len(origLines)-prefix && suffix < len(newLines)-prefix &&
		bytes.Equal(origLines[len(origLines)-1-suffix], newLines[len(newLines)-1-suffix]) {
		suffix++
	}

	origMid := origLines[prefix : len(origLines)-suffix]
	newMid := newLines[prefix : len(newLines)-suffix]
	if len(origMid) == 0 && len(newMid) == 0 {
		return nil
	}

	ctxBefore := diffContextLines
	if prefix < ctxBefore {
		ctxBefore = prefix
	}
	ctxAfter := diffContextLines
	if suffix < ctxAfter {
		ctxAfter = suffix
	}

	var body bytes.Buffer
	writeHunkLines := func(marker byte, lines [][]byte) {
		for _, line := range lines {
			body.WriteByte(marker)
			body.Write(bytes.TrimSuffix(line, []byte("\n")))
			body.WriteByte('\n')
		}
	}
	writeHunkLines(' ', origLines[prefix-ctxBefore:prefix])
	writeHunkLines('-', origMid)
	writeHunkLines('+', newMid)
	writeHunkLines(' ', origLines[len(origLines)-suffix:len(origLines)-suffix+ctxAfter])

	return &diff.FileDiff{
		OrigName: path,
		NewName:  path,
		Hunks: []*diff.Hunk{{
			OrigStartLine: int32(prefix - ctxBefore + 1),
			OrigLines:     int32(ctxBefore + len(origMid) + ctxAfter),
			NewStartLine:  int32(prefix - ctxBefore + 1),
			NewLines:      int32(ctxBefore + len(newMid) + ctxAfter),
			Body:          body.Bytes(),
		}},
	}
}

// splitLines splits content into newline-terminated lines, dropping the
// empty tail after a trailing newline.
func splitLines(content []byte) [][]byte {
	lines := bytes.SplitAfter(content, []byte("\n"))
	if len(lines) > 0 && len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	return lines
}
