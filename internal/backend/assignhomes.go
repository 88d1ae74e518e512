package backend

import "tinyc/internal/x86"

// AssignHomes substitutes every virtual variable with its allocated home.
// Registers and immediates pass through untouched.
func AssignHomes(instrs []x86.Instr, mapping map[x86.Arg]x86.Arg) []x86.Instr {
	replace := func(a x86.Arg) x86.Arg {
		if home, ok := mapping[a]; ok {
			return home
		}
		return a
	}
	out := make([]x86.Instr, len(instrs))
	for i, instr := range instrs {
		switch instr.Op {
		case x86.Pushq:
			instr.Src = replace(instr.Src)
		case x86.Popq, x86.Negq:
			instr.Dst = replace(instr.Dst)
		case x86.Addq, x86.Subq, x86.Movq, x86.Cmpq:
			instr.Src = replace(instr.Src)
			instr.Dst = replace(instr.Dst)
		}
		out[i] = instr
	}
	return out
}
