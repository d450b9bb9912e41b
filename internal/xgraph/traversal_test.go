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

package xgraph

import (
	"sort"
	"testing"

	"github.com/go-quicktest/qt"
)

// Scenario 1: disconnected graph, no path exists.
func TestFindBacktrackEdgesDisconnected(t *testing.T) {
	g, nodes := buildFromEdges([][2]int{{0, 1}, {1, 2}, {3, 4}})
	space := NewTraversalSpace(g)
	_, ok := space.FindBacktrackEdges(nodes[0], nodes[3])
	qt.Assert(t, qt.IsFalse(ok))
}

// Scenario 2: the back-path basic case from the spec.
func TestFindBacktrackEdgesBasic(t *testing.T) {
	g, nodes := buildFromEdges([][2]int{{0, 1}, {1, 2}, {2, 1}, {2, 4}, {4, 5}})
	space := NewTraversalSpace(g)
	edges, ok := space.FindBacktrackEdges(nodes[0], nodes[4])
	qt.Assert(t, qt.IsTrue(ok))

	var endpoints [][2]NodeID
	for _, e := range edges {
		from, to := g.EdgeEndpoints(e)
		endpoints = append(endpoints, [2]NodeID{from, to})
	}
	qt.Assert(t, qt.DeepEquals(endpoints, [][2]NodeID{
		{nodes[2], nodes[4]},
		{nodes[1], nodes[2]},
		{nodes[0], nodes[1]},
	}))
}

func TestFindBacktrackEdgesSelfLoop(t *testing.T) {
	g, nodes := buildFromEdges([][2]int{{0, 0}})
	space := NewTraversalSpace(g)
	edges, ok := space.FindBacktrackEdges(nodes[0], nodes[0])
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.HasLen(edges, 0))
}

// Scenario 3: edges in cycles.
func TestFindEdgesInCyclesBasic(t *testing.T) {
	g, nodes := buildFromEdges([][2]int{
		{0, 1}, {1, 2}, {2, 1}, {2, 4}, {4, 1}, {4, 5}, {5, 6}, {6, 5},
	})
	space := NewTraversalSpace(g)
	result := space.FindEdgesInCycles()

	var endpoints [][2]NodeID
	for e := range result {
		from, to := g.EdgeEndpoints(e)
		endpoints = append(endpoints, [2]NodeID{from, to})
	}
	sort.Slice(endpoints, func(i, j int) bool {
		if endpoints[i][0] != endpoints[j][0] {
			return endpoints[i][0] < endpoints[j][0]
		}
		return endpoints[i][1] < endpoints[j][1]
	})
	qt.Assert(t, qt.DeepEquals(endpoints, [][2]NodeID{
		{nodes[1], nodes[2]},
		{nodes[2], nodes[1]},
		{nodes[2], nodes[4]},
		{nodes[4], nodes[1]},
		{nodes[5], nodes[6]},
		{nodes[6], nodes[5]},
	}))
}

func TestFindEdgesInCyclesEmptyGraph(t *testing.T) {
	g := New[struct{}]()
	space := NewTraversalSpace(g)
	result := space.FindEdgesInCycles()
	qt.Assert(t, qt.HasLen(result, 0))
}

func TestFindEdgesInCyclesParallelEdges(t *testing.T) {
	g, nodes := buildFromEdges([][2]int{{0, 1}})
	g.AddEdge(nodes[0], nodes[1], struct{}{}) // parallel u->v
	g.AddEdge(nodes[1], nodes[0], struct{}{}) // path back

	space := NewTraversalSpace(g)
	result := space.FindEdgesInCycles()
	// Both parallel (0,1) edges, plus the (1,0) edge, are all on a cycle.
	qt.Assert(t, qt.HasLen(result, 3))
}
