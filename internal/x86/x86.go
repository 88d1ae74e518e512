// Package x86 models the x86-64 instruction subset this backend emits:
// operands (Arg), registers (Reg) and instructions (Instr), along with the
// per-instruction read/write sets liveness analysis depends on.
package x86

import "fmt"

// Reg is one of the 16 general-purpose x86-64 registers.
type Reg int

const (
	Rsp Reg = iota
	Rbp
	Rax
	Rbx
	Rcx
	Rdx
	Rsi
	Rdi
	R8
	R9
	R10
	R11
	R12
	R13
	R14
	R15
)

var regNames = map[Reg]string{
	Rsp: "rsp", Rbp: "rbp", Rax: "rax", Rbx: "rbx", Rcx: "rcx", Rdx: "rdx",
	Rsi: "rsi", Rdi: "rdi", R8: "r8", R9: "r9", R10: "r10", R11: "r11",
	R12: "r12", R13: "r13", R14: "r14", R15: "r15",
}

func (r Reg) String() string { return regNames[r] }

// ArgsPassing lists the System V AMD64 integer argument registers in order.
func ArgsPassing() []Reg { return []Reg{Rdi, Rsi, Rdx, Rcx, R8, R9} }

// CallerSaved is clobbered across any callq.
func CallerSaved() []Reg { return []Reg{Rax, Rcx, Rdx, Rsi, Rdi, R8, R9, R10, R11} }

// CalleeSaved must be preserved by the callee if used.
func CalleeSaved() []Reg { return []Reg{Rsp, Rbp, Rbx, R12, R13, R14, R15} }

func (r Reg) IsCalleeSaved() bool {
	switch r {
	case Rsp, Rbp, Rbx, R12, R13, R14, R15:
		return true
	default:
		return false
	}
}

// Arg is an x86 operand: an immediate, a register, a displaced dereference
// of a register, or (before Assign-Homes) a virtual variable.
type Arg struct {
	kind   argKind
	Imm    int64
	Reg    Reg
	Offset int64
	Var    string
}

type argKind int

const (
	kindImm argKind = iota
	kindReg
	kindDeref
	kindVar
)

func NewImm(v int64) Arg           { return Arg{kind: kindImm, Imm: v} }
func NewReg(r Reg) Arg             { return Arg{kind: kindReg, Reg: r} }
func NewDeref(r Reg, off int64) Arg { return Arg{kind: kindDeref, Reg: r, Offset: off} }
func NewVar(name string) Arg       { return Arg{kind: kindVar, Var: name} }

func (a Arg) IsMem() bool  { return a.kind == kindDeref }
func (a Arg) IsReg() bool  { return a.kind == kindReg }
func (a Arg) IsVar() bool  { return a.kind == kindVar }
func (a Arg) IsImm() bool  { return a.kind == kindImm }

// IsLocation reports whether a has a "home": a variable or a register, the
// two kinds of thing liveness and interference track.
func (a Arg) IsLocation() bool { return a.kind == kindVar || a.kind == kindReg }

// VarName returns the variable name and ok=true if a is a Var.
func (a Arg) VarName() (string, bool) {
	if a.kind == kindVar {
		return a.Var, true
	}
	return "", false
}

func (a Arg) String() string {
	switch a.kind {
	case kindImm:
		return fmt.Sprintf("$%d", a.Imm)
	case kindReg:
		return "%" + a.Reg.String()
	case kindDeref:
		return fmt.Sprintf("%d(%%%s)", a.Offset, a.Reg)
	case kindVar:
		return a.Var
	default:
		return "<bad-arg>"
	}
}

// Key returns a value suitable for use as a map key uniquely identifying
// this operand's identity as a location (register or variable).
func (a Arg) Key() Arg {
	return Arg{kind: a.kind, Reg: a.Reg, Var: a.Var}
}

func (a Arg) Equal(b Arg) bool {
	return a.kind == b.kind && a.Reg == b.Reg && a.Var == b.Var && a.Offset == b.Offset && a.Imm == b.Imm
}

// Op names the instruction opcodes this backend emits.
type Op int

const (
	Retq Op = iota
	Jmp
	Callq
	Pushq
	Popq
	Negq
	Addq
	Subq
	Movq
	Cmpq
	Jcc
)

// Cond is a condition code used by Jcc (and the cmpq it follows).
type Cond int

const (
	CondE Cond = iota
	CondNE
	CondL
	CondLE
	CondG
	CondGE
)

var condSuffix = map[Cond]string{
	CondE: "e", CondNE: "ne", CondL: "l", CondLE: "le", CondG: "g", CondGE: "ge",
}

// Instr is a single x86-64 instruction. Not every field is meaningful for
// every Op; see the constructors below.
type Instr struct {
	Op    Op
	Src   Arg
	Dst    Arg
	Label string
	Arity int  // Callq: argument count, for read-set computation
	Cond  Cond // Jcc only
}

func NewRetq() Instr                  { return Instr{Op: Retq} }
func NewJmp(label string) Instr       { return Instr{Op: Jmp, Label: label} }
func NewCallq(label string, arity int) Instr {
	return Instr{Op: Callq, Label: label, Arity: arity}
}
func NewPushq(a Arg) Instr            { return Instr{Op: Pushq, Src: a} }
func NewPopq(a Arg) Instr             { return Instr{Op: Popq, Dst: a} }
func NewNegq(a Arg) Instr             { return Instr{Op: Negq, Dst: a} }
func NewAddq(s, d Arg) Instr          { return Instr{Op: Addq, Src: s, Dst: d} }
func NewSubq(s, d Arg) Instr          { return Instr{Op: Subq, Src: s, Dst: d} }
func NewMovq(s, d Arg) Instr          { return Instr{Op: Movq, Src: s, Dst: d} }
func NewCmpq(s, d Arg) Instr          { return Instr{Op: Cmpq, Src: s, Dst: d} }
func NewJcc(cond Cond, label string) Instr {
	return Instr{Op: Jcc, Cond: cond, Label: label}
}

func (i Instr) String() string {
	switch i.Op {
	case Retq:
		return "retq"
	case Jmp:
		return fmt.Sprintf("jmp %s", i.Label)
	case Callq:
		return fmt.Sprintf("callq %s", i.Label)
	case Pushq:
		return fmt.Sprintf("pushq %s", i.Src)
	case Popq:
		return fmt.Sprintf("popq %s", i.Dst)
	case Negq:
		return fmt.Sprintf("negq %s", i.Dst)
	case Addq:
		return fmt.Sprintf("addq %s, %s", i.Src, i.Dst)
	case Subq:
		return fmt.Sprintf("subq %s, %s", i.Src, i.Dst)
	case Movq:
		return fmt.Sprintf("movq %s, %s", i.Src, i.Dst)
	case Cmpq:
		return fmt.Sprintf("cmpq %s, %s", i.Src, i.Dst)
	case Jcc:
		return fmt.Sprintf("j%s %s", condSuffix[i.Cond], i.Label)
	default:
		return "<bad-instr>"
	}
}

func loc(a Arg, set map[Arg]bool) {
	if a.IsLocation() {
		set[a.Key()] = true
	}
}

// ReadSet returns the locations an instruction reads, per the System V
// calling convention for Callq and the natural operand reads otherwise.
func (i Instr) ReadSet() map[Arg]bool {
	set := map[Arg]bool{}
	switch i.Op {
	case Callq:
		regs := ArgsPassing()
		n := i.Arity
		if n > len(regs) {
			n = len(regs)
		}
		for _, r := range regs[:n] {
			set[NewReg(r).Key()] = true
		}
	case Pushq:
		set[NewReg(Rsp).Key()] = true
		loc(i.Src, set)
	case Popq:
		set[NewReg(Rsp).Key()] = true
	case Addq, Subq, Cmpq:
		loc(i.Src, set)
		loc(i.Dst, set)
	case Negq:
		loc(i.Dst, set)
	case Movq:
		loc(i.Src, set)
	}
	return set
}

// WriteSet returns the locations an instruction writes, including the
// caller-saved clobber set of a call.
func (i Instr) WriteSet() map[Arg]bool {
	set := map[Arg]bool{}
	switch i.Op {
	case Callq:
		for _, r := range CallerSaved() {
			set[NewReg(r).Key()] = true
		}
	case Pushq:
		set[NewReg(Rsp).Key()] = true
	case Popq:
		set[NewReg(Rsp).Key()] = true
		loc(i.Dst, set)
	case Addq, Subq:
		loc(i.Dst, set)
	case Negq:
		loc(i.Dst, set)
	case Movq:
		loc(i.Dst, set)
	}
	return set
}
