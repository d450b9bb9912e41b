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

// Package cycles enumerates all simple directed cycles of a graph
// using Johnson's algorithm:
//
//	Donald B. Johnson, "Finding All the Elementary Circuits of a
//	Directed Graph", SIAM Journal on Computing, Vol. 4, No. 1 (1975),
//	pp. 77-84.
//
// Enumeration is exposed as a resumable [Iterator] rather than a
// recursive function: Johnson's algorithm suspends mid-search every
// time it yields a cycle, and the DFS stack, path, and blocked/closed
// bookkeeping must survive that suspension. Modeling it as a stack
// machine with explicit saved state (instead of recursion) is what
// makes that possible.
package cycles

import "github.com/branchseer/cyclepath/internal/xgraph"

// frame is one entry of the Johnson DFS stack: the node currently
// being explored, and its remaining unexplored neighbors (consumed
// from the end, so popping means shrinking from the tail).
type frame struct {
	node      xgraph.NodeID
	neighbors []xgraph.NodeID
}

// Iterator lazily enumerates the simple directed cycles of a graph,
// one per call to [Iterator.Next]. Every simple directed cycle appears
// exactly once, up to rotation; the node a cycle starts from is
// whichever node Johnson's algorithm happened to pick as start_node
// for the strongly connected component the cycle was found in.
type Iterator[E any] struct {
	graph[E] // the graph cycles are being searched for, and its SCC worklist

	// Bookkeeping for the strongly connected component currently being
	// searched. subgraph is nil between components (see Next).
	subgraph   *xgraph.Graph[struct{}]
	nodeMap    map[xgraph.NodeID]xgraph.NodeID // original id -> subgraph-local id
	reverseMap map[xgraph.NodeID]xgraph.NodeID // subgraph-local id -> original id
	startNode  xgraph.NodeID                   // subgraph-local
	path       []xgraph.NodeID                 // subgraph-local ids on the current DFS path
	blocked    map[xgraph.NodeID]bool
	closed     map[xgraph.NodeID]bool
	block      map[xgraph.NodeID]map[xgraph.NodeID]bool
	stack      []frame
}

// graph holds the parts of Iterator that don't depend on the
// in-progress subgraph, split out only so the zero-value worklist can
// be initialized in one place ([FindSimpleCycles]).
type graph[E any] struct {
	g        *xgraph.Graph[E]
	worklist [][]xgraph.NodeID // SCCs awaiting expansion, original-id space
}

// FindSimpleCycles returns an iterator over every simple directed
// cycle of g. Cycle enumeration is restricted per strongly connected
// component, computed once up front via Kosaraju and then
// incrementally as Johnson peels nodes out of each component's
// subgraph.
func FindSimpleCycles[E any](g *xgraph.Graph[E]) *Iterator[E] {
	return &Iterator[E]{
		graph: graph[E]{g: g, worklist: xgraph.KosarajuSCC(g)},
	}
}

// Next returns the next simple cycle, as an ordered sequence of nodes
// starting from an arbitrary distinguished node of the cycle, or
// (nil, false) once every cycle has been yielded.
func (it *Iterator[E]) Next() ([]xgraph.NodeID, bool) {
	for {
		if it.subgraph != nil {
			if cycle, ok := it.processStack(); ok {
				return cycle, true
			}
			it.retireSubgraph()
			continue
		}
		if len(it.worklist) == 0 {
			return nil, false
		}
		scc := it.worklist[len(it.worklist)-1]
		it.worklist = it.worklist[:len(it.worklist)-1]
		if len(scc) == 0 {
			continue
		}
		it.beginSubgraph(scc)
	}
}

// Collect drains the iterator, returning every cycle it yields. Useful
// in tests and for callers that don't need the laziness.
func (it *Iterator[E]) Collect() [][]xgraph.NodeID {
	var cycles [][]xgraph.NodeID
	for {
		cycle, ok := it.Next()
		if !ok {
			return cycles
		}
		cycles = append(cycles, cycle)
	}
}

func (it *Iterator[E]) beginSubgraph(scc []xgraph.NodeID) {
	sub, nodeMap, reverseMap := buildInducedSubgraph(it.g, scc)

	// Johnson's choice of start_node is arbitrary; popping the last
	// node of the SCC slice is as good as any other choice and keeps
	// subgraph construction (and hence enumeration order) deterministic
	// for a given input graph.
	origStart := scc[len(scc)-1]
	start := nodeMap[origStart]

	it.subgraph = sub
	it.nodeMap = nodeMap
	it.reverseMap = reverseMap
	it.startNode = start
	it.path = []xgraph.NodeID{start}
	it.blocked = map[xgraph.NodeID]bool{start: true}
	it.closed = map[xgraph.NodeID]bool{}
	it.block = map[xgraph.NodeID]map[xgraph.NodeID]bool{}
	it.stack = []frame{{node: start, neighbors: sub.Neighbors(start)}}
}

// retireSubgraph is run once processStack has exhausted the current
// subgraph: start_node is removed, the remainder's SCCs are
// recomputed and pushed onto the worklist (translated back into
// original-graph node ids), and the subgraph is cleared so Next moves
// on to the next worklist entry.
func (it *Iterator[E]) retireSubgraph() {
	it.subgraph.RemoveNode(it.startNode)
	for _, localSCC := range xgraph.KosarajuSCC(it.subgraph) {
		origSCC := make([]xgraph.NodeID, len(localSCC))
		for i, local := range localSCC {
			origSCC[i] = it.reverseMap[local]
		}
		it.worklist = append(it.worklist, origSCC)
	}
	it.subgraph = nil
}

// processStack runs the DFS until it either yields a cycle (returning
// it in original-graph node ids) or exhausts the stack, in which case
// it returns (nil, false) and the current subgraph is done.
func (it *Iterator[E]) processStack() ([]xgraph.NodeID, bool) {
	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		pushed := false

		if len(top.neighbors) > 0 {
			w := top.neighbors[len(top.neighbors)-1]
			top.neighbors = top.neighbors[:len(top.neighbors)-1]

			switch {
			case w == it.startNode:
				cycle := make([]xgraph.NodeID, len(it.path))
				for i, local := range it.path {
					cycle[i] = it.reverseMap[local]
					it.closed[local] = true
				}
				return cycle, true
			case !it.blocked[w]:
				it.blocked[w] = true
				it.path = append(it.path, w)
				it.stack = append(it.stack, frame{node: w, neighbors: it.subgraph.Neighbors(w)})
				delete(it.closed, w)
				pushed = true
			}
		}
		if pushed {
			continue
		}

		if len(top.neighbors) == 0 {
			if it.closed[top.node] {
				it.unblock(top.node)
			} else {
				for _, n := range it.subgraph.Neighbors(top.node) {
					if it.block[n] == nil {
						it.block[n] = map[xgraph.NodeID]bool{}
					}
					it.block[n][top.node] = true
				}
			}
			it.stack = it.stack[:len(it.stack)-1]
			it.path = it.path[:len(it.path)-1]
		}
	}
	return nil, false
}

// unblock iteratively unblocks n and, transitively, every node whose
// block set named it, draining block sets as it goes.
func (it *Iterator[E]) unblock(n xgraph.NodeID) {
	stack := []xgraph.NodeID{n}
	queued := map[xgraph.NodeID]bool{n: true}
	for len(stack) > 0 {
		x := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		delete(queued, x)

		if !it.blocked[x] {
			continue
		}
		delete(it.blocked, x)
		waiting := it.block[x]
		delete(it.block, x)
		for nb := range waiting {
			if !queued[nb] {
				queued[nb] = true
				stack = append(stack, nb)
			}
		}
	}
}

// buildInducedSubgraph returns the subgraph of g induced by nodes,
// with fresh dense node indices, plus the mappings between the
// subgraph's local ids and g's original ids.
func buildInducedSubgraph[E any](g *xgraph.Graph[E], nodes []xgraph.NodeID) (sub *xgraph.Graph[struct{}], nodeMap, reverseMap map[xgraph.NodeID]xgraph.NodeID) {
	nodeSet := make(map[xgraph.NodeID]bool, len(nodes))
	for _, n := range nodes {
		nodeSet[n] = true
	}

	sub = xgraph.New[struct{}]()
	nodeMap = make(map[xgraph.NodeID]xgraph.NodeID, len(nodes))
	reverseMap = make(map[xgraph.NodeID]xgraph.NodeID, len(nodes))
	for _, n := range nodes {
		local := sub.AddNode()
		nodeMap[n] = local
		reverseMap[local] = n
	}
	for _, n := range nodes {
		for _, e := range g.Edges(n) {
			_, to := g.EdgeEndpoints(e)
			if nodeSet[to] {
				sub.AddEdge(nodeMap[n], nodeMap[to], struct{}{})
			}
		}
	}
	return sub, nodeMap, reverseMap
}
