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

package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/branchseer/cyclepath/internal/crawl"
	"github.com/branchseer/cyclepath/internal/depgraph"
	"github.com/branchseer/cyclepath/internal/discover"
	"github.com/branchseer/cyclepath/internal/snapshot"
)

const defaultSnapshotName = "cyclepath-snapshot.json"

// runOptions is everything the run function needs, gathered from
// flags and an optional YAML config by the cobra command.
type runOptions struct {
	entry     string
	cwd       string
	workers   int
	out       string
	edgesOnly bool
	resolve   discover.ResolveOptions
	logger    *slog.Logger
}

// run executes one full crawl-and-report: discover dependencies from
// entry, find the edges that participate in a cycle, and write the
// snapshot. It returns an error only for fatal conditions (entry
// resolution, graph inconsistency, snapshot build or write failure);
// per-file discovery problems are logged and folded into the graph,
// never returned here.
func run(opts runOptions) error {
	logger := opts.logger
	if logger == nil {
		logger = slog.Default()
	}

	entryAbs, err := filepath.Abs(filepath.Join(opts.cwd, opts.entry))
	if err != nil {
		return fmt.Errorf("cli: resolving entry %s: %w", opts.entry, err)
	}

	fs := discover.OSFileSystem{}
	resolver := discover.NewNodeResolver(fs, opts.resolve)
	discoverer := discover.NewDiscoverer(fs, resolver)

	result := crawl.Crawl([]string{entryAbs}, discoverer, crawl.Options{
		Workers: opts.workers,
		Logger:  logger,
	})

	if err := result.Graph.CheckConsistency(); err != nil {
		return fmt.Errorf("cli: %w", err)
	}

	p := message.NewPrinter(getLang())
	p.Fprintf(os.Stderr, "cyclepath: %d files, %d edges, %d file errors\n",
		result.Graph.NodeCount(), result.Graph.EdgeCount(), len(result.ErrorsByPath))
	for path, ferr := range result.ErrorsByPath {
		logger.Warn("file error", "path", path, "error", ferr)
	}

	edges := cycleEdges(result.Graph, opts.edgesOnly, logger)

	snapEdges := make([]snapshot.Edge, len(edges))
	for i, e := range edges {
		snapEdges[i] = snapshot.Edge{From: e.From, To: e.To}
	}
	pairs, err := snapshot.Build(opts.cwd, snapEdges)
	if err != nil {
		return fmt.Errorf("cli: %w", err)
	}

	out := opts.out
	if out == "" {
		out = filepath.Join(opts.cwd, defaultSnapshotName)
	}
	if err := snapshot.Write(out, pairs); err != nil {
		return fmt.Errorf("cli: %w", err)
	}

	p.Fprintf(os.Stderr, "cyclepath: wrote %d cycle edge(s) to %s\n", len(pairs), out)
	return nil
}

// cycleEdges picks between the cheap cycle-edge detector (C2) and full
// simple-cycle enumeration (C3), returning the set of edges that
// participate in at least one cycle either way. When enumerating,
// every cycle is normalized by rotating it so its lexicographically
// smallest node comes first, logged for diagnostics, then flattened
// into its consecutive edges.
func cycleEdges(g *depgraph.Graph, edgesOnly bool, logger *slog.Logger) []depgraph.Edge {
	if edgesOnly {
		return g.EdgesInCycles()
	}

	cycles := g.FindCycles()
	seen := make(map[[2]string]bool)
	var edges []depgraph.Edge
	for _, cyc := range cycles {
		cyc = rotateToSmallest(cyc)
		logger.Debug("cycle found", "nodes", cyc)
		for i := range cyc {
			from, to := cyc[i], cyc[(i+1)%len(cyc)]
			key := [2]string{from, to}
			if seen[key] {
				continue
			}
			seen[key] = true
			edges = append(edges, depgraph.Edge{From: from, To: to})
		}
	}
	return edges
}

// rotateToSmallest rotates cyc so that its lexicographically smallest
// path comes first, stabilizing a cycle's printed form across runs
// despite Johnson's algorithm having no canonical starting node.
func rotateToSmallest(cyc depgraph.Cycle) depgraph.Cycle {
	if len(cyc) <= 1 {
		return cyc
	}
	min := 0
	for i, p := range cyc {
		if p < cyc[min] {
			min = i
		}
	}
	rotated := make(depgraph.Cycle, len(cyc))
	copy(rotated, cyc[min:])
	copy(rotated[len(cyc)-min:], cyc[:min])
	return rotated
}

func getLang() language.Tag {
	loc := os.Getenv("LC_ALL")
	if loc == "" {
		loc = os.Getenv("LANG")
	}
	loc = strings.Split(loc, ".")[0]
	return language.Make(loc)
}
