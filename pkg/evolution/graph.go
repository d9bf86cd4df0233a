// Package evolution derives a directed evolution graph from the species
// catalog and answers traversal queries against it. The graph is built once
// at startup, before any request handling, and is read-only afterwards.
package evolution

import "github.com/critterdex/critterdex/pkg/catalog"

// node holds the adjacency sets for one species id. The dataset encodes only
// the forward direction; prev edges are derived during Build so that both
// directions can be walked without scanning the catalog.
type node struct {
	next []int
	prev []int
}

// Graph maps each species id to its forward (next) and backward (prev)
// evolution edges. Immutable after Build; safe for concurrent reads.
type Graph struct {
	nodes map[int]*node
}

// Build constructs the evolution graph from the full catalog. It is a pure
// function of its input: the same catalog always yields a structurally
// identical graph.
//
// Construction runs in two passes. The first pass registers a node with empty
// edge sets for every catalog id, so edge insertion never has to deal with a
// missing source. The second pass appends edges; a target id that has no
// catalog entry of its own still gets a node, which keeps every referenced id
// addressable. Malformed input is accepted as-is: duplicate catalog ids
// accumulate their edges, and self-edges simply become a cycle that the
// traversals guard against with visited sets.
func Build(species []catalog.Species) *Graph {
	g := &Graph{nodes: make(map[int]*node, len(species))}

	for _, s := range species {
		g.ensure(s.ID)
	}

	for _, s := range species {
		for _, t := range s.EvolvesTo {
			g.ensure(t.ID)
			g.nodes[s.ID].next = append(g.nodes[s.ID].next, t.ID)
			g.nodes[t.ID].prev = append(g.nodes[t.ID].prev, s.ID)
		}
	}

	return g
}

func (g *Graph) ensure(id int) {
	if _, ok := g.nodes[id]; !ok {
		g.nodes[id] = &node{}
	}
}

// Contains reports whether id is a node in the graph.
func (g *Graph) Contains(id int) bool {
	_, ok := g.nodes[id]
	return ok
}

// Next returns the ids this species evolves into. Unknown ids yield nil.
func (g *Graph) Next(id int) []int {
	if n, ok := g.nodes[id]; ok {
		return n.next
	}
	return nil
}

// Prev returns the ids that evolve into this species. Unknown ids yield nil.
func (g *Graph) Prev(id int) []int {
	if n, ok := g.nodes[id]; ok {
		return n.prev
	}
	return nil
}

// PreEvolutions returns every id reachable by walking prev edges from id,
// excluding id itself. The closure uses an explicit worklist rather than
// recursion so stack usage stays bounded on pathological chains, and a
// visited set so cyclic data terminates. No order is promised; callers that
// need a stable order must sort.
func (g *Graph) PreEvolutions(id int) []int {
	visited := make(map[int]bool)
	work := append([]int(nil), g.Prev(id)...)

	for len(work) > 0 {
		cur := work[len(work)-1]
		work = work[:len(work)-1]
		if visited[cur] || cur == id {
			continue
		}
		visited[cur] = true
		work = append(work, g.Prev(cur)...)
	}

	result := make([]int, 0, len(visited))
	for pid := range visited {
		result = append(result, pid)
	}
	return result
}

// Chain returns the full connected component of id: every species reachable
// by walking prev and next edges in either direction, including id itself
// when it is a node of the graph. Same worklist and visited-set discipline as
// PreEvolutions; no order is promised.
func (g *Graph) Chain(id int) []int {
	if !g.Contains(id) {
		return nil
	}

	visited := map[int]bool{id: true}
	work := []int{id}

	for len(work) > 0 {
		cur := work[len(work)-1]
		work = work[:len(work)-1]

		for _, related := range append(append([]int(nil), g.Prev(cur)...), g.Next(cur)...) {
			if !visited[related] {
				visited[related] = true
				work = append(work, related)
			}
		}
	}

	result := make([]int, 0, len(visited))
	for cid := range visited {
		result = append(result, cid)
	}
	return result
}

// StageOf returns how many evolution steps separate id from its most distant
// base form: 0 for a base form, 1 for a first evolution, and so on. Used to
// derive the stage label shown in catalog listings. Cycles count each node
// once.
func (g *Graph) StageOf(id int) int {
	if !g.Contains(id) {
		return 0
	}

	type item struct {
		id    int
		depth int
	}

	visited := map[int]bool{id: true}
	work := []item{{id: id}}
	max := 0

	for len(work) > 0 {
		cur := work[len(work)-1]
		work = work[:len(work)-1]
		if cur.depth > max {
			max = cur.depth
		}
		for _, pid := range g.Prev(cur.id) {
			if !visited[pid] {
				visited[pid] = true
				work = append(work, item{id: pid, depth: cur.depth + 1})
			}
		}
	}

	return max
}
