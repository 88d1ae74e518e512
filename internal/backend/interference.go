package backend

import "tinyc/internal/x86"

// BuildInterference constructs the undirected interference graph and the
// parallel move-relation graph from a block's liveness-annotated
// instructions.
func BuildInterference(live []InstrLive) (*interferenceGraph, *moveGraph) {
	g := newInterferenceGraph()
	m := newMoveGraph()

	for _, il := range live {
		instr := il.Instr
		if instr.Op == x86.Movq {
			s, d := instr.Src, instr.Dst
			if _, sv := s.VarName(); sv {
				if _, dv := d.VarName(); dv {
					m.add(s, d)
				}
			}
			for loc := range il.LiveAfter {
				if loc != s && loc != d {
					g.addEdge(d, loc)
				}
			}
			g.addNode(d)
			continue
		}
		for w := range instr.WriteSet() {
			for loc := range il.LiveAfter {
				if loc != w {
					g.addEdge(w, loc)
				}
			}
			g.addNode(w)
		}
	}
	return g, m
}
