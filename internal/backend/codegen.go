package backend

import (
	"fmt"
	"sort"
	"strings"

	"tinyc/internal/x86"
)

// CodeGen assembles the final program text: a prologue establishing the
// frame pointer and reserving the frame ahead of the entry block, an
// epilogue mirroring it in reverse ahead of every return, and one label
// per basic block.
type CodeGen struct {
	frame *Frame
}

func NewCodeGen(frame *Frame) *CodeGen {
	return &CodeGen{frame: frame}
}

// Generate concatenates prologue, block bodies and epilogue (spliced in
// ahead of each retq) and renders the result as AT&T assembly text.
// start names the block that becomes the program entry point, emitted
// under the "main" label.
func (cg *CodeGen) Generate(blocks map[string][]x86.Instr, start string) string {
	prologue := []x86.Instr{
		x86.NewPushq(x86.NewReg(x86.Rbp)),
		x86.NewMovq(x86.NewReg(x86.Rsp), x86.NewReg(x86.Rbp)),
	}
	prologue = append(prologue, cg.frame.Prologue()...)

	epilogue := cg.frame.Epilogue()
	epilogue = append(epilogue, x86.NewPopq(x86.NewReg(x86.Rbp)))

	var labels []string
	for label := range blocks {
		if label != start {
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)
	labels = append([]string{start}, labels...)

	var out strings.Builder
	out.WriteString(".globl main\n")
	for _, label := range labels {
		instrs := blocks[label]
		if label == start {
			instrs = append(append([]x86.Instr{}, prologue...), instrs...)
			instrs = spliceBeforeRetq(instrs, epilogue)
		} else {
			instrs = spliceBeforeRetq(instrs, epilogue)
		}
		name := label
		if label == start {
			name = "main"
		}
		fmt.Fprintf(&out, "%s:\n", name)
		for _, instr := range instrs {
			fmt.Fprintf(&out, "\t%s\n", instr)
		}
	}
	return out.String()
}

func spliceBeforeRetq(instrs []x86.Instr, epilogue []x86.Instr) []x86.Instr {
	var out []x86.Instr
	for _, instr := range instrs {
		if instr.Op == x86.Retq {
			out = append(out, epilogue...)
		}
		out = append(out, instr)
	}
	return out
}
