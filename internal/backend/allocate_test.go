package backend

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tinyc/internal/x86"
)

// clique builds instrs assigning n distinct variables, each live
// simultaneously with every other (a clique in the interference graph),
// by summing them all into the last one afterwards.
func clique(n int) []x86.Instr {
	var instrs []x86.Instr
	vars := make([]x86.Arg, n)
	for i := 0; i < n; i++ {
		v := x86.NewVar(string(rune('a' + i)))
		vars[i] = v
		instrs = append(instrs, x86.NewMovq(x86.NewImm(int64(i)), v))
	}
	// Sum every variable into the last one so all n are simultaneously
	// live right up until their final use, forcing a clique.
	for i := 0; i < n-1; i++ {
		instrs = append(instrs, x86.NewAddq(vars[i], vars[n-1]))
	}
	instrs = append(instrs, x86.NewMovq(vars[n-1], x86.NewReg(x86.Rax)))
	return instrs
}

func TestAllocateColorsDisjointVarsWithoutSpilling(t *testing.T) {
	instrs := []x86.Instr{
		x86.NewMovq(x86.NewImm(1), x86.NewVar("x")),
		x86.NewMovq(x86.NewVar("x"), x86.NewReg(x86.Rax)),
		x86.NewMovq(x86.NewImm(2), x86.NewVar("y")),
		x86.NewMovq(x86.NewVar("y"), x86.NewReg(x86.Rax)),
	}
	live := UncoverLive(instrs)
	g, m := BuildInterference(live)
	mapping, frame := NewAllocator(g, m).ColorGraph()

	require.Equal(t, 0, frame.SpillSlots())
	for _, home := range mapping {
		require.True(t, home.IsReg(), "no variable should need a spill slot here")
	}
}

func TestAllocateCliqueLargerThanRegistersSpillsExactlyTheOverflow(t *testing.T) {
	// 12 simultaneously-live variables against 11 allocatable colors:
	// exactly one must spill.
	instrs := clique(12)
	live := UncoverLive(instrs)
	g, m := BuildInterference(live)
	mapping, frame := NewAllocator(g, m).ColorGraph()

	spilled := 0
	for i := 0; i < 12; i++ {
		name := string(rune('a' + i))
		home, ok := mapping[x86.NewVar(name)]
		require.True(t, ok, "variable %s should have a home", name)
		if home.IsMem() {
			spilled++
		}
	}
	require.Equal(t, 1, spilled, "exactly one of the 12 mutually-interfering vars should spill")
	require.Equal(t, 1, frame.SpillSlots())
}

func TestAllocateWithRegistersOptionForcesEarlierSpill(t *testing.T) {
	// Restricting the allocator to 2 colors on a 3-clique forces one spill
	// well before the real 11-color table would.
	instrs := clique(3)
	live := UncoverLive(instrs)
	g, m := BuildInterference(live)
	mapping, frame := NewAllocator(g, m, WithRegisters(FirstNRegisters(2))).ColorGraph()

	spilled := 0
	for i := 0; i < 3; i++ {
		name := string(rune('a' + i))
		if mapping[x86.NewVar(name)].IsMem() {
			spilled++
		}
	}
	require.Equal(t, 1, spilled)
	require.Equal(t, 1, frame.SpillSlots())
}

func TestAllocateDisjointVarsCanShareAColor(t *testing.T) {
	// x and y never interfere (different, non-overlapping lifetimes), so
	// they may validly share a register.
	instrs := []x86.Instr{
		x86.NewMovq(x86.NewImm(1), x86.NewVar("x")),
		x86.NewMovq(x86.NewVar("x"), x86.NewReg(x86.Rax)),
		x86.NewMovq(x86.NewImm(2), x86.NewVar("y")),
		x86.NewMovq(x86.NewVar("y"), x86.NewReg(x86.Rax)),
	}
	live := UncoverLive(instrs)
	g, m := BuildInterference(live)
	mapping, _ := NewAllocator(g, m).ColorGraph()
	require.True(t, mapping[x86.NewVar("x")].IsReg())
	require.True(t, mapping[x86.NewVar("y")].IsReg())
	require.Equal(t, mapping[x86.NewVar("x")], mapping[x86.NewVar("y")], "non-interfering x and y should share the lowest free color")
}
