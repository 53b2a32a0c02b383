// Copyright (C) 2025 the embercheck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/agpl-3.0.html> for the full license text.

// Command embercheck lints Ember computed properties in JavaScript
// source.
//
// It verifies that every dependency a computed property's body reads is
// declared as a dependent key, flags repeated keys, and can rewrite
// incomplete key lists in place.
//
// Usage:
//
//	embercheck lint [paths...]
//	embercheck lint --fix ./app
//	embercheck lint --fix-dry-run --format diff ./app
//	embercheck lint --watch ./app
//	embercheck serve --addr :8080
//	embercheck rules
//
// Example requests against the server:
//
//	# Health check
//	curl http://localhost:8080/v1/lint/health
//
//	# Lint a snippet
//	curl -X POST http://localhost:8080/v1/lint/run \
//	  -H "Content-Type: application/json" \
//	  -d '{"source": "computed(function() { return this.a; })"}'
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Populated at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// errFindingsReported signals that linting completed but found
// error-level problems; Execute maps it to exit code 1.
var errFindingsReported = errors.New("findings reported")

var (
	configFlag    string
	logLevelFlag  string
	logFormatFlag string
	logFileFlag   string
	traceFlag     bool
)

// shutdownTracing is installed by setupTracing and flushed on exit.
var shutdownTracing func(context.Context) error

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "embercheck",
		Short: "Lint Ember computed property dependent keys",
		Long: `embercheck statically analyzes Ember computed properties in JavaScript
source, verifying that every dependency the property body reads is
declared as a dependent key. Incomplete key lists can be rewritten in
place with --fix.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := setupLogging(logLevelFlag, logFormatFlag, logFileFlag); err != nil {
				return err
			}
			if traceFlag {
				shutdown, err := setupTracing()
				if err != nil {
					return err
				}
				shutdownTracing = shutdown
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if shutdownTracing != nil {
				_ = shutdownTracing(cmd.Context())
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	configureRootFlags(cmd)
	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default: discovered .embercheck.yml)")
	cmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "text", "log format (text, json)")
	cmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "log to a rotating file instead of stderr")
	cmd.PersistentFlags().BoolVar(&traceFlag, "trace", false, "emit trace spans to stderr")
}

// Execute runs the root command and maps its outcome to an exit code:
// 0 clean, 1 error-level findings, 2 usage or runtime failure.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, errFindingsReported) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	Execute(ctx)
}
