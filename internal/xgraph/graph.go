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

// Package xgraph provides a directed graph with stable node indices
// under node removal, the traversal scratch space used to find edges
// lying on a cycle, and the strongly-connected-component decomposition
// that the cycle enumerator in package cycles relies on.
package xgraph

// NodeID is a dense, stable index into a Graph's node set. An index
// remains valid, and continues to refer to the same node, even after
// other nodes are removed from the graph.
type NodeID int

// EdgeID is a stable index into a Graph's edge set.
type EdgeID int

type edgeRecord[E any] struct {
	from, to NodeID
	payload  E
	alive    bool
}

type nodeRecord struct {
	alive bool
	out   []EdgeID
}

// Graph is a directed graph whose edges carry a payload of type E. The
// node set is a dense range of NodeIDs; the edge set is a multiset of
// (from, to, payload) triples — duplicate edges between the same pair
// of nodes are kept side by side, never merged.
//
// Node removal does not renumber surviving nodes: [Graph.RemoveNode]
// tombstones the node and any edges touching it, and all other NodeIDs
// keep referring to the same node. This is required by Johnson's
// algorithm (package cycles), which destructively peels nodes from
// working subgraphs while holding onto indices computed earlier.
type Graph[E any] struct {
	nodes []nodeRecord
	edges []edgeRecord[E]
}

// New returns an empty graph.
func New[E any]() *Graph[E] {
	return &Graph[E]{}
}

// AddNode adds a new node to the graph and returns its index.
func (g *Graph[E]) AddNode() NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, nodeRecord{alive: true})
	return id
}

// AddEdge adds a directed edge from -> to carrying payload, and
// returns its id. Always succeeds; does not deduplicate against
// existing edges between the same pair of nodes.
func (g *Graph[E]) AddEdge(from, to NodeID, payload E) EdgeID {
	id := EdgeID(len(g.edges))
	g.edges = append(g.edges, edgeRecord[E]{from: from, to: to, payload: payload, alive: true})
	g.nodes[from].out = append(g.nodes[from].out, id)
	return id
}

// RemoveNode tombstones node and every edge touching it. Other node
// indices are unaffected.
func (g *Graph[E]) RemoveNode(node NodeID) {
	g.nodes[node].alive = false
	g.nodes[node].out = nil
	for i := range g.edges {
		e := &g.edges[i]
		if e.alive && (e.from == node || e.to == node) {
			e.alive = false
		}
	}
}

// NodeCount returns the number of nodes not yet removed.
func (g *Graph[E]) NodeCount() int {
	n := 0
	for _, node := range g.nodes {
		if node.alive {
			n++
		}
	}
	return n
}

// EdgeCount returns the number of edges whose endpoints are both
// still present in the graph.
func (g *Graph[E]) EdgeCount() int {
	n := 0
	for _, e := range g.edges {
		if e.alive {
			n++
		}
	}
	return n
}

// NodeAlive reports whether node has not been removed.
func (g *Graph[E]) NodeAlive(node NodeID) bool {
	return int(node) >= 0 && int(node) < len(g.nodes) && g.nodes[node].alive
}

// Nodes returns the ids of every node still present, in index order.
func (g *Graph[E]) Nodes() []NodeID {
	ids := make([]NodeID, 0, len(g.nodes))
	for i, node := range g.nodes {
		if node.alive {
			ids = append(ids, NodeID(i))
		}
	}
	return ids
}

// Edges returns the outgoing edges of node whose target is still
// present, in the order they were added.
func (g *Graph[E]) Edges(node NodeID) []EdgeID {
	var out []EdgeID
	for _, id := range g.nodes[node].out {
		e := &g.edges[id]
		if e.alive && g.nodes[e.to].alive {
			out = append(out, id)
		}
	}
	return out
}

// Neighbors returns the distinct target nodes reachable by one
// outgoing edge from node, in first-discovery order.
func (g *Graph[E]) Neighbors(node NodeID) []NodeID {
	seen := make(map[NodeID]bool)
	var out []NodeID
	for _, id := range g.Edges(node) {
		to := g.edges[id].to
		if !seen[to] {
			seen[to] = true
			out = append(out, to)
		}
	}
	return out
}

// EdgeReferences iterates every live edge in the graph, in the order
// they were added.
func (g *Graph[E]) EdgeReferences() []EdgeID {
	var out []EdgeID
	for i, e := range g.edges {
		if e.alive && g.nodes[e.from].alive && g.nodes[e.to].alive {
			out = append(out, EdgeID(i))
		}
	}
	return out
}

// EdgeEndpoints returns the (from, to) pair for an edge id.
func (g *Graph[E]) EdgeEndpoints(id EdgeID) (from, to NodeID) {
	e := &g.edges[id]
	return e.from, e.to
}

// EdgePayload returns the payload carried by an edge.
func (g *Graph[E]) EdgePayload(id EdgeID) E {
	return g.edges[id].payload
}

// Capacity returns the number of node slots ever allocated, including
// tombstoned ones. Traversal scratch space (see TraversalSpace) sizes
// its visited bitmap against this so that NodeID values can be used as
// direct indices.
func (g *Graph[E]) Capacity() int {
	return len(g.nodes)
}
