package backend

import "tinyc/internal/x86"

// PatchInstructions enforces x86-64 operand legality: no instruction may
// have two memory operands, and a movq whose source and destination are
// identical is dropped outright.
func PatchInstructions(instrs []x86.Instr) []x86.Instr {
	var out []x86.Instr
	for _, instr := range instrs {
		out = append(out, patchOne(instr)...)
	}
	return out
}

func patchOne(i x86.Instr) []x86.Instr {
	scratch := x86.NewReg(x86.Rax)
	switch i.Op {
	case x86.Addq:
		if i.Src.IsMem() && i.Dst.IsMem() {
			return []x86.Instr{
				x86.NewMovq(i.Dst, scratch),
				x86.NewAddq(i.Src, scratch),
				x86.NewMovq(scratch, i.Dst),
			}
		}
	case x86.Subq:
		if i.Src.IsMem() && i.Dst.IsMem() {
			return []x86.Instr{
				x86.NewMovq(i.Dst, scratch),
				x86.NewSubq(i.Src, scratch),
				x86.NewMovq(scratch, i.Dst),
			}
		}
	case x86.Movq:
		if i.Src.Equal(i.Dst) {
			return nil
		}
		if i.Src.IsMem() && i.Dst.IsMem() {
			return []x86.Instr{
				x86.NewMovq(i.Src, scratch),
				x86.NewMovq(scratch, i.Dst),
			}
		}
	case x86.Cmpq:
		if i.Src.IsMem() && i.Dst.IsMem() {
			return []x86.Instr{
				x86.NewMovq(i.Dst, scratch),
				x86.NewCmpq(i.Src, scratch),
			}
		}
	}
	return []x86.Instr{i}
}
