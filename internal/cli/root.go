// Copyright 2024 The Cyclepath Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cli wires the crawl (internal/crawl), cycle analysis
// (internal/cycles via internal/depgraph), and snapshot writer
// (internal/snapshot) into the single cobra command the cyclepath
// binary exposes.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// ErrPrintedError is returned from Run when a failure has already been
// reported to stderr, so the caller shouldn't print it again.
var ErrPrintedError = fmt.Errorf("cyclepath: terminating because of errors")

// New builds the root command. args is typically os.Args[1:].
func New(args []string) *cobra.Command {
	var (
		workers   int
		out       string
		edgesOnly bool
		config    string
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "cyclepath <entry-relative-path>",
		Short: "find import cycles in a JavaScript/TypeScript project",
		Long: `cyclepath crawls the import graph reachable from an entry file and
reports every dependency edge that participates in a cycle, writing
the result as a sorted JSON array of [from, to] path pairs relative to
the current directory.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(config)
			if err != nil {
				return err
			}
			if workers == 0 {
				workers = cfg.Workers
			}
			if out == "" {
				out = cfg.Out
			}
			if !edgesOnly {
				edgesOnly = cfg.EdgesOnly
			}

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			cwd, err := os.Getwd()
			if err != nil {
				return err
			}

			return run(runOptions{
				entry:     args[0],
				cwd:       cwd,
				workers:   workers,
				out:       out,
				edgesOnly: edgesOnly,
				resolve:   cfg.resolveOptions(),
				logger:    logger,
			})
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "worker pool size (default GOMAXPROCS)")
	cmd.Flags().StringVar(&out, "out", "", "snapshot output path (default ./cyclepath-snapshot.json)")
	cmd.Flags().BoolVar(&edgesOnly, "edges-only", false, "use the cheaper cycle-edge detector instead of full cycle enumeration")
	cmd.Flags().StringVar(&config, "config", "", "path to a YAML config file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every discovered cycle")

	cmd.SetArgs(args)
	return cmd
}

// Main is the entry point cmd/cyclepath's main.go calls.
func Main() int {
	cmd := New(os.Args[1:])
	if err := cmd.Execute(); err != nil {
		if err != ErrPrintedError {
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}
	return 0
}
