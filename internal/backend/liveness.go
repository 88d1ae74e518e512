package backend

import "tinyc/internal/x86"

// InstrLive pairs an instruction with the set of locations live
// immediately after it.
type InstrLive struct {
	Instr     x86.Instr
	LiveAfter map[x86.Arg]bool
}

// UncoverLive computes, for a single straight-line block, the live-after
// set of every instruction via the standard backward dataflow equations:
//
//	live_after(last) = ∅
//	live_before(i)   = (live_after(i) - write_set(i)) ∪ read_set(i)
//	live_after(i-1)  = live_before(i)
func UncoverLive(instrs []x86.Instr) []InstrLive {
	out := make([]InstrLive, len(instrs))
	liveBefore := map[x86.Arg]bool{}
	for i := len(instrs) - 1; i >= 0; i-- {
		instr := instrs[i]
		out[i] = InstrLive{Instr: instr, LiveAfter: liveBefore}
		next := map[x86.Arg]bool{}
		writes := instr.WriteSet()
		for loc := range liveBefore {
			if !writes[loc] {
				next[loc] = true
			}
		}
		for loc := range instr.ReadSet() {
			next[loc] = true
		}
		liveBefore = next
	}
	return out
}
