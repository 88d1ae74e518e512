package backend

import (
	"fmt"

	"tinyc/internal/ast"
	"tinyc/internal/ir"
	"tinyc/internal/reporter"
	"tinyc/internal/token"
)

// ExplicateControl lowers a (shrunk, RCO'd) statement sequence into a
// labelled-basic-block program using three mutually recursive producers —
// explicateEffect, explicateAssign and explicatePred — each threading a
// continuation of already-built statements through the translation so that
// branches can share a tail via blockLabel's peephole.
type ExplicateControl struct {
	reporter *reporter.Reporter
	blocks   map[ir.Label][]ir.Stmt
	blockNum int
}

func NewExplicateControl(r *reporter.Reporter) *ExplicateControl {
	return &ExplicateControl{reporter: r, blocks: map[ir.Label][]ir.Stmt{}}
}

// Program explicates a whole top-level statement sequence. The implicit
// exit continuation returns 0, matching a freestanding entry point.
func (ec *ExplicateControl) Program(stmts []*ast.Stmt) *ir.Program {
	exit := []ir.Stmt{ir.Return{Value: ir.AtomExpr{Atom: ir.Int{Value: 0}}}}
	ec.blocks["start"] = ec.stmts(stmts, exit)
	return &ir.Program{Blocks: ec.blocks, Start: "start"}
}

func (ec *ExplicateControl) genLabel(prefix string) string {
	label := fmt.Sprintf("%s_%d", prefix, ec.blockNum)
	ec.blockNum++
	return label
}

// blockCont turns stmts into a continuation: if it is already a single
// goto, it is reused as-is (the peephole); otherwise stmts is filed under a
// fresh label and a single goto to that label is returned.
func (ec *ExplicateControl) blockCont(stmts []ir.Stmt) []ir.Stmt {
	if len(stmts) == 1 {
		if g, ok := stmts[0].(ir.Goto); ok {
			return []ir.Stmt{g}
		}
	}
	label := ec.genLabel("block")
	ec.blocks[label] = stmts
	return []ir.Stmt{ir.Goto{Label: label}}
}

// blockLabel is blockCont for call sites that need a bare label, such as
// the two arms of an If tail.
func (ec *ExplicateControl) blockLabel(stmts []ir.Stmt) ir.Label {
	return ec.blockCont(stmts)[0].(ir.Goto).Label
}

func (ec *ExplicateControl) stmts(stmts []*ast.Stmt, cont []ir.Stmt) []ir.Stmt {
	for i := len(stmts) - 1; i >= 0; i-- {
		cont = ec.stmt(stmts[i], cont)
	}
	return cont
}

func (ec *ExplicateControl) stmt(s *ast.Stmt, cont []ir.Stmt) []ir.Stmt {
	switch d := s.Data.(type) {
	case ast.ExprStmt:
		return ec.explicateEffect(d.Expr, cont)
	case ast.Assign:
		return ec.explicateAssign(d.Value, d.Name.Lexeme, cont)
	case ast.If:
		contLabel := ec.blockCont(cont)
		thenCode := ec.stmts(d.Then, contLabel)
		elseCode := ec.stmts(d.Else, contLabel)
		return ec.explicatePred(d.Cond, thenCode, elseCode)
	default:
		ec.reporter.Internal("explicate-control", "unhandled statement kind")
		return cont
	}
}

// explicateEffect emits code for e evaluated only for its side effects;
// an expression with no side effect (an atom or a bare arithmetic Prim)
// collapses to cont.
func (ec *ExplicateControl) explicateEffect(e *ast.Expr, cont []ir.Stmt) []ir.Stmt {
	switch d := e.Data.(type) {
	case ast.Call:
		return prepend(ir.Exp{Value: ec.toFlatExpr(e)}, cont)
	case ast.Condition:
		contLabel := ec.blockCont(cont)
		thenCode := ec.explicateEffect(d.Then, contLabel)
		elseCode := ec.explicateEffect(d.Else, contLabel)
		return ec.explicatePred(d.Cond, thenCode, elseCode)
	case ast.Block:
		inner := cont
		if d.Result != nil {
			inner = ec.explicateEffect(d.Result, cont)
		}
		return ec.stmts(d.Body, inner)
	default:
		// Atoms and bare Prim applications have no side effect to preserve.
		return cont
	}
}

// explicateAssign emits code so that, after execution, name holds rhs's
// value, followed by cont.
func (ec *ExplicateControl) explicateAssign(rhs *ast.Expr, name string, cont []ir.Stmt) []ir.Stmt {
	switch d := rhs.Data.(type) {
	case ast.Condition:
		contLabel := ec.blockCont(cont)
		thenCode := ec.explicateAssign(d.Then, name, contLabel)
		elseCode := ec.explicateAssign(d.Else, name, contLabel)
		return ec.explicatePred(d.Cond, thenCode, elseCode)
	case ast.Block:
		inner := cont
		if d.Result != nil {
			inner = ec.explicateAssign(d.Result, name, cont)
		} else {
			inner = prepend(ir.Assign{Name: name, Value: ir.AtomExpr{Atom: ir.Bool{Value: false}}}, cont)
		}
		return ec.stmts(d.Body, inner)
	default:
		return prepend(ir.Assign{Name: name, Value: ec.toFlatExpr(rhs)}, cont)
	}
}

// explicatePred emits the branch between thenCont and elseCont based on
// cond, recognizing the condition shapes the spec enumerates.
func (ec *ExplicateControl) explicatePred(cond *ast.Expr, thenCont, elseCont []ir.Stmt) []ir.Stmt {
	switch d := cond.Data.(type) {
	case ast.Bool:
		if d.Value {
			return thenCont
		}
		return elseCont
	case ast.Block:
		inner := ec.explicatePred(d.Result, thenCont, elseCont)
		return ec.stmts(d.Body, inner)
	case ast.Prim:
		if len(d.Operands) == 1 && (d.Op.Kind == token.Not || d.Op.Kind == token.Bang) {
			return ec.explicatePred(d.Operands[0], elseCont, thenCont)
		}
		if len(d.Operands) == 2 && isComparison(d.Op.Kind) {
			thenLabel := ec.blockLabel(thenCont)
			elseLabel := ec.blockLabel(elseCont)
			return []ir.Stmt{ir.If{
				Cond: ir.Prim{Op: d.Op.Kind, Operands: []ir.Atom{ec.toAtom(d.Operands[0]), ec.toAtom(d.Operands[1])}},
				Then: thenLabel, Else: elseLabel,
			}}
		}
		return ec.explicateBoolFallback(cond, thenCont, elseCont)
	case ast.Condition:
		thenLabel := ec.blockCont(thenCont)
		elseLabel := ec.blockCont(elseCont)
		nestedThen := ec.explicatePred(d.Then, thenLabel, elseLabel)
		nestedElse := ec.explicatePred(d.Else, thenLabel, elseLabel)
		return ec.explicatePred(d.Cond, nestedThen, nestedElse)
	default:
		return ec.explicateBoolFallback(cond, thenCont, elseCont)
	}
}

// explicateBoolFallback handles any other boolean-typed condition (a name
// or call result): `if e == true goto then else goto else`.
func (ec *ExplicateControl) explicateBoolFallback(cond *ast.Expr, thenCont, elseCont []ir.Stmt) []ir.Stmt {
	thenLabel := ec.blockLabel(thenCont)
	elseLabel := ec.blockLabel(elseCont)
	return []ir.Stmt{ir.If{
		Cond: ir.Prim{Op: token.EqualEqual, Operands: []ir.Atom{ec.toAtom(cond), ir.Bool{Value: true}}},
		Then: thenLabel, Else: elseLabel,
	}}
}

func isComparison(k token.Kind) bool {
	switch k {
	case token.EqualEqual, token.BangEqual, token.Less, token.LessEqual, token.Greater, token.GreaterEqual:
		return true
	default:
		return false
	}
}

// toFlatExpr converts an already-RCO'd ast.Expr (so every Prim/Call
// operand is an atom) into its ir.Expr shape.
func (ec *ExplicateControl) toFlatExpr(e *ast.Expr) ir.Expr {
	if e.IsAtom() {
		return ir.AtomExpr{Atom: ec.toAtom(e)}
	}
	switch d := e.Data.(type) {
	case ast.Prim:
		operands := make([]ir.Atom, len(d.Operands))
		for i, o := range d.Operands {
			operands[i] = ec.toAtom(o)
		}
		return ir.Prim{Op: d.Op.Kind, Operands: operands}
	case ast.Call:
		name, ok := d.Callee.Ident()
		if !ok {
			ec.reporter.Internal("explicate-control", "call target is not a name")
			name = "<bad-callee>"
		}
		args := make([]ir.Atom, len(d.Args))
		for i, a := range d.Args {
			args[i] = ec.toAtom(a)
		}
		return ir.Call{Callee: ir.Name{Ident: name}, Args: args}
	default:
		ec.reporter.Internal("explicate-control", "expected a flat expression, found a compound node")
		return ir.AtomExpr{Atom: ir.Int{Value: 0}}
	}
}

func (ec *ExplicateControl) toAtom(e *ast.Expr) ir.Atom {
	switch d := e.Data.(type) {
	case ast.Int:
		return ir.Int{Value: d.Value}
	case ast.Float:
		return ir.Float{Value: d.Value}
	case ast.Bool:
		return ir.Bool{Value: d.Value}
	case ast.Name:
		return ir.Name{Ident: d.Ident.Lexeme}
	default:
		ec.reporter.Internal("explicate-control", "expected an atom, found a compound node")
		return ir.Int{Value: 0}
	}
}

func prepend(s ir.Stmt, rest []ir.Stmt) []ir.Stmt {
	out := make([]ir.Stmt, 0, len(rest)+1)
	out = append(out, s)
	out = append(out, rest...)
	return out
}
