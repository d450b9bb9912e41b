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

package cycles

import (
	"sort"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/branchseer/cyclepath/internal/xgraph"
)

func buildFromEdges(edges [][2]int) (*xgraph.Graph[struct{}], []xgraph.NodeID) {
	g := xgraph.New[struct{}]()
	maxNode := 0
	for _, e := range edges {
		if e[0] > maxNode {
			maxNode = e[0]
		}
		if e[1] > maxNode {
			maxNode = e[1]
		}
	}
	nodes := make([]xgraph.NodeID, maxNode+1)
	for i := range nodes {
		nodes[i] = g.AddNode()
	}
	for _, e := range edges {
		g.AddEdge(nodes[e[0]], nodes[e[1]], struct{}{})
	}
	return g, nodes
}

// sortedCycles normalizes cycles for comparison: each cycle's nodes are
// sorted (the test graphs below don't rely on rotation order), and the
// list of cycles is sorted lexicographically.
func sortedCycles(cycles [][]xgraph.NodeID) [][]xgraph.NodeID {
	out := make([][]xgraph.NodeID, len(cycles))
	for i, c := range cycles {
		cp := append([]xgraph.NodeID(nil), c...)
		sort.Slice(cp, func(i, j int) bool { return cp[i] < cp[j] })
		out[i] = cp
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		for k := 0; k < len(a) && k < len(b); k++ {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return len(a) < len(b)
	})
	return out
}

func TestFindSimpleCyclesSmallGraph(t *testing.T) {
	g, _ := buildFromEdges([][2]int{
		{0, 0}, {0, 1}, {0, 2}, {1, 2}, {2, 0}, {2, 1}, {2, 2},
	})
	cycles := FindSimpleCycles(g).Collect()
	got := sortedCycles(cycles)
	want := [][]xgraph.NodeID{
		{0},
		{0, 1, 2},
		{0, 2},
		{1, 2},
		{2},
	}
	qt.Assert(t, qt.DeepEquals(got, want))
}

func TestFindSimpleCyclesEmptyGraph(t *testing.T) {
	g := xgraph.New[struct{}]()
	cycles := FindSimpleCycles(g).Collect()
	qt.Assert(t, qt.HasLen(cycles, 0))
}

func TestFindSimpleCyclesNoEdges(t *testing.T) {
	g := xgraph.New[struct{}]()
	g.AddNode()
	g.AddNode()
	g.AddNode()
	cycles := FindSimpleCycles(g).Collect()
	qt.Assert(t, qt.HasLen(cycles, 0))
}

// completeDigraph returns the complete directed graph on n nodes, with
// an edge between every ordered pair of distinct nodes and no
// self-loops.
func completeDigraph(n int) *xgraph.Graph[struct{}] {
	g := xgraph.New[struct{}]()
	nodes := make([]xgraph.NodeID, n)
	for i := range nodes {
		nodes[i] = g.AddNode()
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				g.AddEdge(nodes[i], nodes[j], struct{}{})
			}
		}
	}
	return g
}

// The number of simple cycles in the complete digraph on n nodes
// (without self-loops) is sum_{k=2}^{n} C(n,k) * (k-1)!, since a cycle
// through any k of the nodes can visit them in any of (k-1)! distinct
// cyclic orders.
func TestFindSimpleCyclesCompleteGraphs(t *testing.T) {
	want := map[int]int{
		2: 1,
		3: 5,
		4: 20,
		5: 84,
		6: 409,
		7: 2365,
		8: 16064,
	}
	for n := 2; n <= 8; n++ {
		g := completeDigraph(n)
		got := len(FindSimpleCycles(g).Collect())
		qt.Assert(t, qt.Equals(got, want[n]), qt.Commentf("n=%d", n))
	}
}

func TestFindSimpleCyclesDisconnectedComponents(t *testing.T) {
	g, _ := buildFromEdges([][2]int{{0, 1}, {1, 0}, {2, 3}, {3, 2}})
	cycles := FindSimpleCycles(g).Collect()
	qt.Assert(t, qt.HasLen(cycles, 2))
}

func TestFindSimpleCyclesResumable(t *testing.T) {
	g, _ := buildFromEdges([][2]int{{0, 1}, {1, 0}, {0, 2}, {2, 0}})
	it := FindSimpleCycles(g)
	var collected [][]xgraph.NodeID
	for i := 0; i < 2; i++ {
		cycle, ok := it.Next()
		qt.Assert(t, qt.IsTrue(ok))
		collected = append(collected, cycle)
	}
	_, ok := it.Next()
	qt.Assert(t, qt.IsFalse(ok))
	qt.Assert(t, qt.HasLen(collected, 2))
}
