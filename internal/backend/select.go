package backend

import (
	"tinyc/internal/ir"
	"tinyc/internal/reporter"
	"tinyc/internal/token"
	"tinyc/internal/x86"
)

// SelectInstructions maps the C-like IR, block by block, to the x86
// instruction subset this backend emits.
type SelectInstructions struct {
	reporter *reporter.Reporter
}

func NewSelectInstructions(r *reporter.Reporter) *SelectInstructions {
	return &SelectInstructions{reporter: r}
}

// SelectProgram lowers every block independently; block boundaries survive
// as labels for CodeGen to emit.
func (si *SelectInstructions) SelectProgram(prog *ir.Program) map[ir.Label][]x86.Instr {
	out := make(map[ir.Label][]x86.Instr, len(prog.Blocks))
	for label, stmts := range prog.Blocks {
		out[label] = si.selectStmts(stmts)
	}
	return out
}

func (si *SelectInstructions) selectStmts(stmts []ir.Stmt) []x86.Instr {
	var out []x86.Instr
	for _, s := range stmts {
		out = append(out, si.selectStmt(s)...)
	}
	return out
}

func (si *SelectInstructions) selectStmt(s ir.Stmt) []x86.Instr {
	switch d := s.(type) {
	case ir.Assign:
		return si.selectValue(x86.NewVar(d.Name), d.Name, d.Value)
	case ir.Exp:
		return si.selectEffect(d.Value)
	case ir.Return:
		instrs := si.selectValue(x86.NewReg(x86.Rax), "", d.Value)
		return append(instrs, x86.NewRetq())
	case ir.Goto:
		return []x86.Instr{x86.NewJmp(d.Label)}
	case ir.If:
		return si.selectIf(d)
	default:
		si.reporter.Internal("select-instructions", "unhandled IR statement")
		return nil
	}
}

// selectEffect lowers an expression evaluated only for effect: the same
// shape as an assignment, but with %rax as the nominal (and, for a call,
// unused) destination.
func (si *SelectInstructions) selectEffect(e ir.Expr) []x86.Instr {
	if call, ok := e.(ir.Call); ok {
		return si.selectCall(call)
	}
	return si.selectValue(x86.NewReg(x86.Rax), "", e)
}

// selectValue materializes e into dest. destName, when non-empty, is the
// variable name dest aliases, enabling the in-place +/- coalescing
// optimization the spec calls for.
func (si *SelectInstructions) selectValue(dest x86.Arg, destName string, e ir.Expr) []x86.Instr {
	switch d := e.(type) {
	case ir.AtomExpr:
		return []x86.Instr{x86.NewMovq(si.atomArg(d.Atom), dest)}
	case ir.Prim:
		return si.selectPrim(dest, destName, d)
	case ir.Call:
		instrs := si.selectCall(d)
		return append(instrs, x86.NewMovq(x86.NewReg(x86.Rax), dest))
	default:
		si.reporter.Internal("select-instructions", "unhandled IR expression")
		return nil
	}
}

func (si *SelectInstructions) selectPrim(dest x86.Arg, destName string, p ir.Prim) []x86.Instr {
	if len(p.Operands) == 1 {
		arg := si.atomArg(p.Operands[0])
		switch p.Op {
		case token.Minus:
			return []x86.Instr{x86.NewMovq(arg, dest), x86.NewNegq(dest)}
		case token.Not, token.Bang:
			// Booleans are represented as 0/1; `not x` is `1 - x`.
			return []x86.Instr{x86.NewMovq(x86.NewImm(1), dest), x86.NewSubq(arg, dest)}
		default:
			si.reporter.Internal("select-instructions", "unhandled unary operator")
			return nil
		}
	}
	if len(p.Operands) == 2 {
		arg0 := si.atomArg(p.Operands[0])
		arg1 := si.atomArg(p.Operands[1])
		switch p.Op {
		case token.Plus:
			if destName != "" && isSameVar(arg0, destName) {
				return []x86.Instr{x86.NewAddq(arg1, dest)}
			}
			if destName != "" && isSameVar(arg1, destName) {
				return []x86.Instr{x86.NewAddq(arg0, dest)}
			}
			return []x86.Instr{x86.NewMovq(arg0, dest), x86.NewAddq(arg1, dest)}
		case token.Minus:
			if destName != "" && isSameVar(arg0, destName) {
				return []x86.Instr{x86.NewSubq(arg1, dest)}
			}
			return []x86.Instr{x86.NewMovq(arg0, dest), x86.NewSubq(arg1, dest)}
		default:
			// Star/Slash (no imul/idiv in this instruction set) and bare
			// comparisons reaching value position (rather than a predicate)
			// are outside what this backend's Instr set can materialize.
			si.reporter.Internal("select-instructions", "unhandled binary operator %q in value position", opName(p.Op))
			return nil
		}
	}
	si.reporter.Internal("select-instructions", "primitive with unexpected arity")
	return nil
}

func (si *SelectInstructions) selectCall(c ir.Call) []x86.Instr {
	var instrs []x86.Instr
	argRegs := x86.ArgsPassing()
	inReg := c.Args
	var inStack []ir.Atom
	if len(inReg) > len(argRegs) {
		inStack = inReg[len(argRegs):]
		inReg = inReg[:len(argRegs)]
	}
	for i, a := range inReg {
		instrs = append(instrs, x86.NewMovq(si.atomArg(a), x86.NewReg(argRegs[i])))
	}
	for i := len(inStack) - 1; i >= 0; i-- {
		instrs = append(instrs, x86.NewPushq(si.atomArg(inStack[i])))
	}
	callee, ok := c.Callee.(ir.Name)
	if !ok {
		si.reporter.Internal("select-instructions", "call target is not a name")
		return nil
	}
	instrs = append(instrs, x86.NewCallq(mangle(callee.Ident), len(c.Args)))
	if len(inStack) > 0 {
		instrs = append(instrs, x86.NewAddq(x86.NewImm(int64(len(inStack)*8)), x86.NewReg(x86.Rsp)))
	}
	return instrs
}

func (si *SelectInstructions) selectIf(d ir.If) []x86.Instr {
	prim, ok := d.Cond.(ir.Prim)
	if !ok || len(prim.Operands) != 2 {
		si.reporter.Internal("select-instructions", "if tail condition is not a binary comparison")
		return nil
	}
	cond, ok := condFor(prim.Op)
	if !ok {
		si.reporter.Internal("select-instructions", "if tail condition is not a comparison operator")
		return nil
	}
	a := si.atomArg(prim.Operands[0])
	b := si.atomArg(prim.Operands[1])
	return []x86.Instr{
		x86.NewCmpq(b, a),
		x86.NewJcc(cond, d.Then),
		x86.NewJmp(d.Else),
	}
}

func condFor(op token.Kind) (x86.Cond, bool) {
	switch op {
	case token.EqualEqual:
		return x86.CondE, true
	case token.BangEqual:
		return x86.CondNE, true
	case token.Less:
		return x86.CondL, true
	case token.LessEqual:
		return x86.CondLE, true
	case token.Greater:
		return x86.CondG, true
	case token.GreaterEqual:
		return x86.CondGE, true
	default:
		return 0, false
	}
}

func (si *SelectInstructions) atomArg(a ir.Atom) x86.Arg {
	switch v := a.(type) {
	case ir.Int:
		return x86.NewImm(v.Value)
	case ir.Bool:
		if v.Value {
			return x86.NewImm(1)
		}
		return x86.NewImm(0)
	case ir.Name:
		return x86.NewVar(v.Ident)
	case ir.Float:
		si.reporter.Internal("select-instructions", "floating-point operands are not supported by this instruction set")
		return x86.NewImm(0)
	default:
		si.reporter.Internal("select-instructions", "unhandled atom kind")
		return x86.NewImm(0)
	}
}

func isSameVar(a x86.Arg, name string) bool {
	v, ok := a.VarName()
	return ok && v == name
}

func opName(k token.Kind) string { return k.String() }
