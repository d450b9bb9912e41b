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

// pathTreeNode is one entry of the lazily-reconstructed DFS tree: the
// edge that was followed to discover a node, and the index of the
// entry for its parent (or -1 for a root of the traversal).
type pathTreeNode struct {
	edge   EdgeID
	parent int
}

type stackFrame struct {
	node   NodeID
	parent int
}

// TraversalSpace is reusable scratch space for testing whether a path
// exists between two nodes, and for finding every edge that lies on
// some directed cycle. Reusing one TraversalSpace across many queries
// (as [TraversalSpace.FindEdgesInCycles] does, once per edge) avoids
// reallocating the visited bitmap and DFS stack on every query.
type TraversalSpace[E any] struct {
	graph      *Graph[E]
	stack      []stackFrame
	discovered []bool
	pathTree   []pathTreeNode
}

// NewTraversalSpace returns scratch space bound to graph. The graph
// must not gain new nodes for the lifetime of the TraversalSpace
// (removing nodes is fine; [Graph.Capacity] only grows on AddNode).
func NewTraversalSpace[E any](graph *Graph[E]) *TraversalSpace[E] {
	return &TraversalSpace[E]{graph: graph}
}

func (t *TraversalSpace[E]) reset() {
	t.stack = t.stack[:0]
	t.pathTree = t.pathTree[:0]
	n := t.graph.Capacity()
	if cap(t.discovered) < n {
		t.discovered = make([]bool, n)
	} else {
		t.discovered = t.discovered[:n]
		for i := range t.discovered {
			t.discovered[i] = false
		}
	}
}

// visit marks node as discovered and reports whether this is the
// first time it has been visited since the last reset.
func (t *TraversalSpace[E]) visit(node NodeID) bool {
	if t.discovered[node] {
		return false
	}
	t.discovered[node] = true
	return true
}

// FindBacktrackEdges runs an iterative, pre-order DFS from "from"
// looking for "to". If "to" is reachable, it returns the edges of the
// discovered from->...->to path in reverse, i.e. the path
// to<-...<-from, which is exactly the u<-...<-v backtrack needed by
// [TraversalSpace.FindEdgesInCycles] to prove that an edge u->v lies on
// a cycle via a path v->...->u.
func (t *TraversalSpace[E]) FindBacktrackEdges(from, to NodeID) ([]EdgeID, bool) {
	t.reset()
	t.stack = append(t.stack, stackFrame{node: from, parent: -1})

	for len(t.stack) > 0 {
		top := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]

		if top.node == to {
			var edges []EdgeID
			idx := top.parent
			for idx != -1 {
				node := t.pathTree[idx]
				edges = append(edges, node.edge)
				idx = node.parent
			}
			return edges, true
		}

		if t.visit(top.node) {
			for _, e := range t.graph.Edges(top.node) {
				_, neighbor := t.graph.EdgeEndpoints(e)
				if !t.discovered[neighbor] {
					t.pathTree = append(t.pathTree, pathTreeNode{edge: e, parent: top.parent})
					t.stack = append(t.stack, stackFrame{node: neighbor, parent: len(t.pathTree) - 1})
				}
			}
		}
	}
	return nil, false
}

// FindEdgesInCycles returns the set of edges, identified by id, that
// lie on at least one directed cycle of the graph.
//
// For every edge u->v not already known to be on a cycle, it looks for
// a path v->...->u; if one exists, u->v and every edge of that path
// are added to the result. Multi-edges between the same pair of nodes
// are each tested independently, but only one representative backtrack
// path is added per discovery — the other parallel edges are found (or
// not) on their own iteration.
func (t *TraversalSpace[E]) FindEdgesInCycles() map[EdgeID]bool {
	result := make(map[EdgeID]bool, t.graph.EdgeCount())
	for _, e := range t.graph.EdgeReferences() {
		if result[e] {
			continue
		}
		from, to := t.graph.EdgeEndpoints(e)
		backtrack, ok := t.FindBacktrackEdges(to, from)
		if !ok {
			continue
		}
		result[e] = true
		for _, be := range backtrack {
			result[be] = true
		}
	}
	return result
}
