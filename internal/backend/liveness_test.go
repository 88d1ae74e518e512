package backend

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tinyc/internal/x86"
)

func TestUncoverLiveLastInstructionHasEmptyLiveAfter(t *testing.T) {
	instrs := []x86.Instr{
		x86.NewMovq(x86.NewImm(1), x86.NewVar("x")),
		x86.NewRetq(),
	}
	live := UncoverLive(instrs)
	require.Empty(t, live[len(live)-1].LiveAfter)
}

func TestUncoverLivePropagatesBackward(t *testing.T) {
	// x = 1; y = x + 2; return y  (as a movq into rax)
	instrs := []x86.Instr{
		x86.NewMovq(x86.NewImm(1), x86.NewVar("x")),
		x86.NewMovq(x86.NewVar("x"), x86.NewVar("y")),
		x86.NewAddq(x86.NewImm(2), x86.NewVar("y")),
		x86.NewMovq(x86.NewVar("y"), x86.NewReg(x86.Rax)),
	}
	live := UncoverLive(instrs)

	// after the first movq (x := 1), x is live (used by the next instr).
	require.True(t, live[0].LiveAfter[x86.NewVar("x").Key()])

	// after x is copied into y, x is dead and y is live.
	require.False(t, live[1].LiveAfter[x86.NewVar("x").Key()])
	require.True(t, live[1].LiveAfter[x86.NewVar("y").Key()])

	// after the addq, y is still live (moved into rax next).
	require.True(t, live[2].LiveAfter[x86.NewVar("y").Key()])
}

func TestUncoverLiveWriteKillsBeforeRead(t *testing.T) {
	// x = x + 1: the destination is also a read, so it must remain live
	// in live_before via the read set even though it's also written.
	instrs := []x86.Instr{
		x86.NewAddq(x86.NewImm(1), x86.NewVar("x")),
		x86.NewMovq(x86.NewVar("x"), x86.NewReg(x86.Rax)),
	}
	live := UncoverLive(instrs)
	require.True(t, live[0].LiveAfter[x86.NewVar("x").Key()])
}
