// Copyright (C) 2025 the embercheck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/agpl-3.0.html> for the full license text.

package main

import (
	"github.com/spf13/cobra"

	"github.com/mongoose700/embercheck/rules"
	"github.com/mongoose700/embercheck/server"
)

var (
	serveAddrFlag  string
	serveDebugFlag bool
)

// serveCmd represents the serve command.
var serveCmd = newServeCmd()

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the lint API over HTTP",
		Long: `Serve the lint API over HTTP. The server lints posted source with the
configured rule set and exposes rule listings, health checks, and
Prometheus metrics. Runs until interrupted.`,
		RunE: runServe,
	}
	configureServeFlags(cmd)
	return cmd
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func configureServeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&serveAddrFlag, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&serveDebugFlag, "http-debug", false, "enable gin debug mode and request logging")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	configured, err := rules.FromConfig(cfg)
	if err != nil {
		return err
	}

	srv := server.NewServer(configured,
		server.WithAddr(serveAddrFlag),
		server.WithDebug(serveDebugFlag),
		server.WithVersion(version),
	)
	return srv.Start(ctx)
}
