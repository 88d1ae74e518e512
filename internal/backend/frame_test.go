package backend

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tinyc/internal/x86"
)

func TestFrameNoCalleeSavedNoSpillsNeedsNoAdjustment(t *testing.T) {
	f := NewFrame(nil)
	require.Empty(t, f.Prologue())
	require.Empty(t, f.Epilogue())
}

func TestFrameAlignsStackTo16Bytes(t *testing.T) {
	// One callee-saved push (8 bytes) plus one spill slot (8 bytes) = 16
	// bytes of callee-saves+spill, already 16-aligned via the pushes +
	// the sub — but the push itself isn't counted in stackAdjust, only
	// in the alignment target.
	f := NewFrame([]x86.Reg{x86.Rbx})
	f.AllocLocal()

	prologue := f.Prologue()
	require.Len(t, prologue, 2, "one pushq plus one subq to reserve the spill area")
	require.Equal(t, x86.Pushq, prologue[0].Op)
	require.Equal(t, x86.Subq, prologue[1].Op)
}

func TestFrameEpilogueReversesPushOrder(t *testing.T) {
	f := NewFrame([]x86.Reg{x86.Rbx, x86.R12, x86.R13})
	epilogue := f.Epilogue()

	var pops []x86.Reg
	for _, in := range epilogue {
		if in.Op == x86.Popq {
			pops = append(pops, in.Dst.Reg)
		}
	}
	require.Equal(t, []x86.Reg{x86.R13, x86.R12, x86.Rbx}, pops, "pops must undo pushes in reverse order")
}

func TestFrameSpillSlotsCountsAllocations(t *testing.T) {
	f := NewFrame(nil)
	require.Equal(t, 0, f.SpillSlots())
	a := f.AllocLocal()
	b := f.AllocLocal()
	require.Equal(t, 2, f.SpillSlots())
	require.False(t, a.Equal(b))
}

func TestFrameThreeCalleeSavedAlignsWithAdjustment(t *testing.T) {
	// 3 callee-saved pushes = 24 bytes, not 16-aligned on its own; the
	// frame must add a further 8-byte adjustment to reach 32.
	f := NewFrame([]x86.Reg{x86.Rbx, x86.R12, x86.R13})
	prologue := f.Prologue()
	last := prologue[len(prologue)-1]
	require.Equal(t, x86.Subq, last.Op)
	require.Equal(t, int64(8), last.Src.Imm)
}
