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
	"testing"

	"github.com/go-quicktest/qt"
)

func buildFromEdges(edges [][2]int) (*Graph[struct{}], []NodeID) {
	g := New[struct{}]()
	maxNode := 0
	for _, e := range edges {
		if e[0] > maxNode {
			maxNode = e[0]
		}
		if e[1] > maxNode {
			maxNode = e[1]
		}
	}
	nodes := make([]NodeID, maxNode+1)
	for i := range nodes {
		nodes[i] = g.AddNode()
	}
	for _, e := range edges {
		g.AddEdge(nodes[e[0]], nodes[e[1]], struct{}{})
	}
	return g, nodes
}

func TestGraphRemoveNodeKeepsOtherIndicesStable(t *testing.T) {
	g, nodes := buildFromEdges([][2]int{{0, 1}, {1, 2}, {2, 0}})
	g.RemoveNode(nodes[1])

	qt.Assert(t, qt.Equals(g.NodeCount(), 2))
	qt.Assert(t, qt.IsTrue(g.NodeAlive(nodes[0])))
	qt.Assert(t, qt.IsFalse(g.NodeAlive(nodes[1])))
	qt.Assert(t, qt.IsTrue(g.NodeAlive(nodes[2])))

	// Edges touching the removed node disappear from iteration; the
	// surviving node's own index (2) still resolves to the same node, and
	// its edge 2->0 is untouched.
	qt.Assert(t, qt.HasLen(g.Edges(nodes[0]), 0))
	qt.Assert(t, qt.HasLen(g.EdgeReferences(), 1))
}

func TestGraphEdgeReferencesPreservesInsertionOrder(t *testing.T) {
	g, nodes := buildFromEdges([][2]int{{0, 1}, {0, 2}, {1, 2}})
	var endpoints [][2]NodeID
	for _, e := range g.EdgeReferences() {
		from, to := g.EdgeEndpoints(e)
		endpoints = append(endpoints, [2]NodeID{from, to})
	}
	qt.Assert(t, qt.DeepEquals(endpoints, [][2]NodeID{
		{nodes[0], nodes[1]},
		{nodes[0], nodes[2]},
		{nodes[1], nodes[2]},
	}))
}

func TestKosarajuSCCSingleCycle(t *testing.T) {
	g, nodes := buildFromEdges([][2]int{{0, 1}, {1, 2}, {2, 0}})
	sccs := KosarajuSCC(g)
	qt.Assert(t, qt.HasLen(sccs, 1))
	qt.Assert(t, qt.HasLen(sccs[0], 3))
	_ = nodes
}

func TestKosarajuSCCDisconnected(t *testing.T) {
	g, _ := buildFromEdges([][2]int{{0, 1}, {1, 2}, {3, 4}})
	sccs := KosarajuSCC(g)
	qt.Assert(t, qt.HasLen(sccs, 5))
}
