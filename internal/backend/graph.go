package backend

import "tinyc/internal/x86"

// interferenceGraph is an undirected, simple adjacency-list graph over
// locations (registers and virtual variables). No third-party graph library
// in this module's dependency surface models an undirected graph with
// structural-equality node keys, so it is hand-rolled here; see DESIGN.md.
type interferenceGraph struct {
	adj   map[x86.Arg]map[x86.Arg]bool
	order []x86.Arg // insertion order, for deterministic iteration
}

func newInterferenceGraph() *interferenceGraph {
	return &interferenceGraph{adj: make(map[x86.Arg]map[x86.Arg]bool)}
}

func (g *interferenceGraph) addNode(a x86.Arg) {
	if _, ok := g.adj[a]; !ok {
		g.adj[a] = make(map[x86.Arg]bool)
		g.order = append(g.order, a)
	}
}

func (g *interferenceGraph) addEdge(a, b x86.Arg) {
	if a == b {
		return
	}
	g.addNode(a)
	g.addNode(b)
	g.adj[a][b] = true
	g.adj[b][a] = true
}

func (g *interferenceGraph) neighbors(a x86.Arg) map[x86.Arg]bool {
	return g.adj[a]
}

func (g *interferenceGraph) nodes() []x86.Arg {
	return g.order
}

// moveGraph records, per variable, the set of other variables it is
// directly move-related to (from a movq between two variables). It is
// consulted only to bias coloring, never to enforce non-interference.
type moveGraph struct {
	rel map[x86.Arg]map[x86.Arg]bool
}

func newMoveGraph() *moveGraph {
	return &moveGraph{rel: make(map[x86.Arg]map[x86.Arg]bool)}
}

func (m *moveGraph) add(a, b x86.Arg) {
	if m.rel[a] == nil {
		m.rel[a] = make(map[x86.Arg]bool)
	}
	if m.rel[b] == nil {
		m.rel[b] = make(map[x86.Arg]bool)
	}
	m.rel[a][b] = true
	m.rel[b][a] = true
}

func (m *moveGraph) partners(a x86.Arg) map[x86.Arg]bool {
	return m.rel[a]
}
