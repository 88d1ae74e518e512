package backend

import (
	"container/heap"

	"tinyc/internal/x86"
)

// allocatableRegs is the fixed color table: color i maps to allocatableRegs[i].
// Rax, Rsp, Rbp, R11 and R15 are never assigned a non-negative color — Rax
// is reserved as Patch's scratch register, Rsp/Rbp anchor the frame, and
// R11 and R15 are left unallocated.
var allocatableRegs = []x86.Reg{
	x86.Rcx, x86.Rdx, x86.Rsi, x86.Rdi, x86.R8, x86.R9,
	x86.R10, x86.Rbx, x86.R12, x86.R13, x86.R14,
}

var nonAllocatableRegs = []x86.Reg{x86.Rax, x86.Rsp, x86.Rbp, x86.R11, x86.R15}

// FirstNRegisters returns the first n entries of the default allocatable
// color table, clamped to its length. Used to honor a "max-registers N"
// pragma directive.
func FirstNRegisters(n int) []x86.Reg {
	if n > len(allocatableRegs) {
		n = len(allocatableRegs)
	}
	if n < 0 {
		n = 0
	}
	return allocatableRegs[:n]
}

// node is one entry in the allocator's priority worklist.
type node struct {
	loc          x86.Arg
	saturation   map[int]bool
	moveRelCount int
	preferColors map[int]bool
	index        int // heap bookkeeping
}

// nodeHeap is a max-heap ordered by (len(saturation), moveRelCount).
type nodeHeap []*node

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if len(h[i].saturation) != len(h[j].saturation) {
		return len(h[i].saturation) > len(h[j].saturation)
	}
	return h[i].moveRelCount > h[j].moveRelCount
}
func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index, h[j].index = i, j
}
func (h *nodeHeap) Push(x any) {
	n := x.(*node)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// Allocator colors the interference graph with DSATUR, biased to prefer a
// move partner's color, then assigns final homes (register or spill slot).
type Allocator struct {
	graph       *interferenceGraph
	moves       *moveGraph
	regToColor  map[x86.Arg]int
	colorToReg  map[int]x86.Arg
	coloring    map[x86.Arg]int
	worklist    nodeHeap
	byLoc       map[x86.Arg]*node
}

// AllocatorOption customizes an Allocator before coloring begins.
type AllocatorOption func(*allocatorConfig)

type allocatorConfig struct {
	allocatable []x86.Reg
}

// WithRegisters restricts the allocatable color space to regs, in color
// order (color 0 = regs[0], …). Used by the pragma directive
// "max-registers N" to reproduce a forced-spill scenario deterministically
// in tests without needing a program with dozens of live variables.
func WithRegisters(regs []x86.Reg) AllocatorOption {
	return func(c *allocatorConfig) { c.allocatable = regs }
}

func NewAllocator(g *interferenceGraph, m *moveGraph, opts ...AllocatorOption) *Allocator {
	cfg := &allocatorConfig{allocatable: allocatableRegs}
	for _, opt := range opts {
		opt(cfg)
	}

	a := &Allocator{
		graph:      g,
		moves:      m,
		regToColor: make(map[x86.Arg]int),
		colorToReg: make(map[int]x86.Arg),
		coloring:   make(map[x86.Arg]int),
		byLoc:      make(map[x86.Arg]*node),
	}
	for i, r := range nonAllocatableRegs {
		color := -(i + 1)
		reg := x86.NewReg(r)
		a.regToColor[reg] = color
		a.colorToReg[color] = reg
	}
	for i, r := range cfg.allocatable {
		reg := x86.NewReg(r)
		a.regToColor[reg] = i
		a.colorToReg[i] = reg
	}
	// Registers left out of a restricted color table still name fixed
	// locations: give them reserved negative colors so they are precolored
	// rather than colored like variables.
	next := -(len(nonAllocatableRegs) + 1)
	for _, r := range allocatableRegs {
		reg := x86.NewReg(r)
		if _, ok := a.regToColor[reg]; !ok {
			a.regToColor[reg] = next
			a.colorToReg[next] = reg
			next--
		}
	}

	for _, loc := range g.nodes() {
		if c, ok := a.regToColor[loc]; ok {
			a.coloring[loc] = c
			continue
		}
		n := &node{loc: loc, saturation: map[int]bool{}, preferColors: map[int]bool{}}
		if partners := m.partners(loc); partners != nil {
			n.moveRelCount = len(partners)
		}
		a.byLoc[loc] = n
		a.worklist = append(a.worklist, n)
	}
	heap.Init(&a.worklist)

	// Precolored nodes still saturate their neighbors in the worklist.
	for loc, c := range a.coloring {
		a.updateSaturation(loc, c)
	}
	return a
}

func (a *Allocator) updateSaturation(loc x86.Arg, color int) {
	neighbors := a.graph.neighbors(loc)
	for _, n := range a.worklist {
		if neighbors[n.loc] {
			n.saturation[color] = true
		}
	}
	if partners := a.moves.partners(loc); partners != nil {
		for _, n := range a.worklist {
			if partners[n.loc] && !n.saturation[color] {
				n.preferColors[color] = true
			}
		}
	}
	heap.Init(&a.worklist)
}

func (a *Allocator) colorNode(n *node) int {
	for c := range n.preferColors {
		if !n.saturation[c] {
			return c
		}
	}
	for c := 0; ; c++ {
		if !n.saturation[c] {
			return c
		}
	}
}

// ColorGraph runs DSATUR to completion and returns the mapping from every
// original location to its final home, plus the populated Frame.
func (a *Allocator) ColorGraph() (map[x86.Arg]x86.Arg, *Frame) {
	for a.worklist.Len() > 0 {
		n := heap.Pop(&a.worklist).(*node)
		c := a.colorNode(n)
		a.coloring[n.loc] = c
		a.updateSaturation(n.loc, c)
	}

	mapping := make(map[x86.Arg]x86.Arg)
	usedCallee := map[x86.Reg]bool{}
	var usedCalleeOrdered []x86.Reg
	spilled := map[x86.Arg]int{}

	for _, loc := range a.graph.nodes() {
		c, ok := a.coloring[loc]
		if !ok {
			continue
		}
		if reg, ok := a.colorToReg[c]; ok {
			mapping[loc] = reg
			if reg.Reg.IsCalleeSaved() && !usedCallee[reg.Reg] {
				usedCallee[reg.Reg] = true
				usedCalleeOrdered = append(usedCalleeOrdered, reg.Reg)
			}
		} else {
			spilled[loc] = c
		}
	}

	frame := NewFrame(usedCalleeOrdered)
	for loc, c := range spilled {
		home, ok := a.colorToReg[c]
		if !ok {
			home = frame.AllocLocal()
			a.colorToReg[c] = home
		}
		mapping[loc] = home
	}
	return mapping, frame
}
