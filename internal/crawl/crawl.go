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

// Package crawl drives the parallel work/result feedback loop: a pool
// of workers runs the discoverer (package discover) over a growing
// frontier of paths, and a single coordinator goroutine folds results
// into the dependency graph and feeds newly-discovered paths back to
// the workers. Termination is governed by an outstanding-work counter
// reaching zero, not by anyone closing the results channel.
package crawl

import (
	"log/slog"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/branchseer/cyclepath/internal/depgraph"
	"github.com/branchseer/cyclepath/internal/direrrors"
	"github.com/branchseer/cyclepath/internal/discover"
)

// FileDiscoverer is the capability crawl depends on to turn one path
// into its dependencies: satisfied by *discover.Discoverer, and by
// fakes in tests.
type FileDiscoverer interface {
	Discover(path string) ([]discover.Target, direrrors.FileError)
}

// DependencyInfo is what a worker sends the coordinator for one
// discovered path.
type DependencyInfo struct {
	Path         string
	Dependencies []discover.Target
	Err          direrrors.FileError
}

// Result is the outcome of a complete crawl.
type Result struct {
	Graph        *depgraph.Graph
	ErrorsByPath map[string]direrrors.FileError
}

// Options configures a crawl. Workers defaults to GOMAXPROCS if zero.
// Logger defaults to slog.Default() if nil.
type Options struct {
	Workers int
	Logger  *slog.Logger
}

// Crawl seeds entries into the work queue and runs the feedback loop
// to completion, returning the completed dependency graph and every
// per-file error encountered along the way.
func Crawl(entries []string, discoverer FileDiscoverer, opts Options) *Result {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	runID := uuid.New()
	logger = logger.With("crawl_id", runID.String())

	graph := depgraph.New()
	errorsByPath := make(map[string]direrrors.FileError)
	work := newWorkQueue()
	results := make(chan DependencyInfo)

	outstanding := 0
	for _, e := range entries {
		work.push(e)
		outstanding++
	}
	logger.Debug("crawl starting", "entries", len(entries))

	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for {
				path, ok := work.pop()
				if !ok {
					return nil
				}
				deps, ferr := discoverer.Discover(path)
				results <- DependencyInfo{Path: path, Dependencies: deps, Err: ferr}
			}
		})
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			result := <-results
			outstanding--
			if outstanding < 0 {
				panic("crawl: outstanding counter underflowed")
			}

			fromIdx, _ := graph.IndexOfOrInsert(result.Path)
			for _, dep := range result.Dependencies {
				toIdx, isNew := graph.IndexOfOrInsert(dep.Path)
				if isNew {
					work.push(dep.Path)
					outstanding++
				}
				graph.AddEdge(fromIdx, toIdx, dep.Spans)
			}

			if result.Err != nil {
				if _, dup := errorsByPath[result.Path]; dup {
					panic("crawl: duplicate error record for " + result.Path)
				}
				errorsByPath[result.Path] = result.Err
				logger.Warn("file error", "path", result.Path, "error", result.Err)
			}

			if outstanding == 0 {
				work.close()
				return
			}
		}
	}()

	<-done
	_ = g.Wait() // workers never return a non-nil error in this design

	logger.Debug("crawl finished", "nodes", graph.NodeCount(), "edges", graph.EdgeCount())
	return &Result{Graph: graph, ErrorsByPath: errorsByPath}
}
