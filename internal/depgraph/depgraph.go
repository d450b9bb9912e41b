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

// Package depgraph is the path-keyed dependency graph built by the
// crawl coordinator: a directed graph (package xgraph) whose nodes
// carry a file path, with a path -> node index map enforcing one node
// per path.
package depgraph

import (
	"fmt"

	"github.com/branchseer/cyclepath/internal/cycles"
	"github.com/branchseer/cyclepath/internal/span"
	"github.com/branchseer/cyclepath/internal/xgraph"
)

// Graph is a directed graph of file paths, edges weighted by the spans
// of the import specifiers that gave rise to them.
type Graph struct {
	g     *xgraph.Graph[span.Set]
	index map[string]xgraph.NodeID
	paths []string // dense, parallel to xgraph node indices
}

// New returns an empty dependency graph.
func New() *Graph {
	return &Graph{
		g:     xgraph.New[span.Set](),
		index: make(map[string]xgraph.NodeID),
	}
}

// IndexOfOrInsert returns the node index for path, creating a node for
// it if this is the first time path has been seen. newlyInserted
// reports which case occurred, driving the crawl coordinator's
// enqueue-only-if-new rule.
func (dg *Graph) IndexOfOrInsert(path string) (idx xgraph.NodeID, newlyInserted bool) {
	if idx, ok := dg.index[path]; ok {
		return idx, false
	}
	idx = dg.g.AddNode()
	dg.index[path] = idx
	dg.paths = append(dg.paths, path)
	return idx, true
}

// PathAt returns the path stored at node index idx.
func (dg *Graph) PathAt(idx xgraph.NodeID) string {
	return dg.paths[idx]
}

// AddEdge records a dependency edge from the node at u to the node at
// v, carrying the spans of the import sites that produced it. Always
// succeeds; does not deduplicate against existing edges between u
// and v — merging per discovery call happens upstream, in package
// discover.
func (dg *Graph) AddEdge(u, v xgraph.NodeID, spans span.Set) xgraph.EdgeID {
	return dg.g.AddEdge(u, v, spans)
}

// NodeCount returns the number of distinct paths recorded.
func (dg *Graph) NodeCount() int {
	return dg.g.NodeCount()
}

// Paths returns every path recorded as a node, in the order they were
// first inserted.
func (dg *Graph) Paths() []string {
	return append([]string(nil), dg.paths...)
}

// Edges returns every dependency edge in the graph, endpoints
// translated back to paths, in insertion order.
func (dg *Graph) Edges() []Edge {
	refs := dg.g.EdgeReferences()
	edges := make([]Edge, len(refs))
	for i, id := range refs {
		from, to := dg.g.EdgeEndpoints(id)
		edges[i] = Edge{From: dg.paths[from], To: dg.paths[to], Spans: dg.g.EdgePayload(id)}
	}
	return edges
}

// EdgeCount returns the number of dependency edges recorded.
func (dg *Graph) EdgeCount() int {
	return dg.g.EdgeCount()
}

// CheckConsistency verifies the graph/map invariant: node count equals
// map size, and every mapped path resolves back to a node that stores
// that same path. A violation is a programmer error, never a
// user-triggerable one.
func (dg *Graph) CheckConsistency() error {
	if got, want := dg.g.NodeCount(), len(dg.index); got != want {
		return fmt.Errorf("depgraph: node count %d does not match map size %d", got, want)
	}
	for path, idx := range dg.index {
		if dg.paths[idx] != path {
			return fmt.Errorf("depgraph: node %d stores path %q, map key is %q", idx, dg.paths[idx], path)
		}
	}
	return nil
}

// Cycle is one simple directed cycle, as an ordered sequence of paths
// starting from an arbitrary distinguished node of the cycle.
type Cycle []string

// FindCycles enumerates every simple directed cycle in the graph,
// translating the xgraph/cycles node-index output back into paths.
func (dg *Graph) FindCycles() []Cycle {
	var cycles_ []Cycle
	it := cycles.FindSimpleCycles(dg.g)
	for {
		nodes, ok := it.Next()
		if !ok {
			return cycles_
		}
		c := make(Cycle, len(nodes))
		for i, n := range nodes {
			c[i] = dg.paths[n]
		}
		cycles_ = append(cycles_, c)
	}
}

// Edge is a resolved dependency edge with its endpoints translated
// back to paths.
type Edge struct {
	From, To string
	Spans    span.Set
}

// EdgesInCycles returns every edge that lies on at least one directed
// cycle, with endpoints translated back to paths.
func (dg *Graph) EdgesInCycles() []Edge {
	space := xgraph.NewTraversalSpace(dg.g)
	ids := space.FindEdgesInCycles()
	edges := make([]Edge, 0, len(ids))
	for id := range ids {
		from, to := dg.g.EdgeEndpoints(id)
		edges = append(edges, Edge{
			From:  dg.paths[from],
			To:    dg.paths[to],
			Spans: dg.g.EdgePayload(id),
		})
	}
	return edges
}
