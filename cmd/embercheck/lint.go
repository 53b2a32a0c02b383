// Copyright (C) 2025 the embercheck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/agpl-3.0.html> for the full license text.

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mongoose700/embercheck/config"
	"github.com/mongoose700/embercheck/lint"
	"github.com/mongoose700/embercheck/rules"
)

var (
	lintFixFlag       bool
	lintFixDryRunFlag bool
	lintFormatFlag    string
	lintWatchFlag     bool
	lintCacheFlag     bool
	lintNoCacheFlag   bool
	lintCacheDirFlag  string
	lintWorkersFlag   int
)

// lintCmd represents the lint command.
var lintCmd = newLintCmd()

func newLintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Lint files and directories",
		Long: `Lint the given files and directories (default: current directory).
Directories are walked recursively; node_modules and dot directories are
skipped. Exits 1 when error-level findings remain, 0 otherwise.`,
		RunE: runLint,
	}
	configureLintFlags(cmd)
	return cmd
}

func init() {
	rootCmd.AddCommand(lintCmd)
}

func configureLintFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&lintFixFlag, "fix", false, "apply fixes and rewrite files in place")
	cmd.Flags().BoolVar(&lintFixDryRunFlag, "fix-dry-run", false, "compute fixes without writing files (pairs with --format diff)")
	cmd.Flags().StringVar(&lintFormatFlag, "format", "text", "output format (text, json, table, diff)")
	cmd.Flags().BoolVarP(&lintWatchFlag, "watch", "w", false, "re-lint when files change")
	cmd.Flags().BoolVar(&lintCacheFlag, "cache", false, "skip files already known to be clean")
	cmd.Flags().BoolVar(&lintNoCacheFlag, "no-cache", false, "ignore the cache even when the config enables it")
	cmd.Flags().StringVar(&lintCacheDirFlag, "cache-dir", "", "cache directory (default from config)")
	cmd.Flags().IntVar(&lintWorkersFlag, "workers", 0, "parallel lint workers (0 = one per CPU)")
}

func runLint(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	format, err := lint.ParseFormat(lintFormatFlag)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	configured, err := rules.FromConfig(cfg)
	if err != nil {
		return err
	}

	workers := cfg.Workers
	if cmd.Flags().Changed("workers") {
		workers = lintWorkersFlag
	}
	opts := []lint.RunnerOption{
		lint.WithWorkers(workers),
		lint.WithExtensions(cfg.Extensions),
		lint.WithIgnoreDirs(cfg.Ignore),
	}
	if lintFixFlag || lintFixDryRunFlag {
		opts = append(opts, lint.WithFix(true))
	}
	if lintFixDryRunFlag {
		opts = append(opts, lint.WithDryRun(true))
	}

	if lintCacheFlag && (lintFixFlag || lintFixDryRunFlag) {
		return fmt.Errorf("the cache cannot be used together with --fix")
	}
	useCache := (lintCacheFlag || cfg.Cache.Enabled) && !lintNoCacheFlag &&
		!lintFixFlag && !lintFixDryRunFlag
	if useCache {
		dir := cfg.Cache.Dir
		if lintCacheDirFlag != "" {
			dir = lintCacheDirFlag
		}
		ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour
		cache, err := lint.OpenCache(dir, ttl, lint.RulesFingerprint(configured))
		if err != nil {
			return err
		}
		defer cache.Close()
		opts = append(opts, lint.WithCache(cache))
	}

	runner := lint.NewRunner(configured, opts...)
	out := cmd.OutOrStdout()
	color := lint.ShouldColorize(out) && format == lint.FormatText

	if lintWatchFlag {
		watcher := lint.NewWatcher(runner, func(report *lint.Report) {
			_ = lint.WriteReport(out, report, format, color)
		})
		if err := watcher.Watch(ctx, paths); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}

	report, err := runner.Run(ctx, paths)
	if err != nil {
		return err
	}
	if err := lint.WriteReport(out, report, format, color); err != nil {
		return err
	}

	if errCount, _ := report.Counts(); errCount > 0 {
		return errFindingsReported
	}
	return nil
}

// loadConfig loads the --config file, or the nearest discovered
// .embercheck.yml, or the embedded defaults.
func loadConfig(ctx context.Context) (*config.Config, error) {
	path := configFlag
	if path == "" {
		discovered, err := config.Discover(".")
		if err != nil {
			return nil, err
		}
		path = discovered
	}
	return config.Load(ctx, path)
}
