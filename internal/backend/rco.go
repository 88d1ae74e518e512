package backend

import (
	"fmt"

	"tinyc/internal/ast"
	"tinyc/internal/token"
)

// RCO (Remove Complex Operands) flattens every Prim/Call operand to an
// atom, introducing fresh %tmpN temporaries and hoisting their bindings
// into a prelude of assignment statements ahead of the expression that
// needs them.
type RCO struct {
	temp int
}

func NewRCO() *RCO { return &RCO{} }

func (r *RCO) nextTemp() token.Token {
	r.temp++
	name := fmt.Sprintf("%%tmp%d", r.temp)
	return token.Token{Kind: token.Name, Lexeme: name}
}

func (r *RCO) Stmts(stmts []*ast.Stmt) []*ast.Stmt {
	var out []*ast.Stmt
	for _, s := range stmts {
		out = append(out, r.stmt(s)...)
	}
	return out
}

func (r *RCO) stmt(s *ast.Stmt) []*ast.Stmt {
	switch d := s.Data.(type) {
	case ast.ExprStmt:
		e, prelude := r.expr(d.Expr)
		return append(prelude, &ast.Stmt{Data: ast.ExprStmt{Expr: e}, Start: s.Start, End: s.End})
	case ast.Assign:
		e, prelude := r.expr(d.Value)
		return append(prelude, &ast.Stmt{Data: ast.Assign{Name: d.Name, Value: e}, Start: s.Start, End: s.End})
	case ast.If:
		return []*ast.Stmt{{
			Data: ast.If{
				Cond: r.atomizeTop(d.Cond),
				Then: r.Stmts(d.Then),
				Else: r.Stmts(d.Else),
			},
			Start: s.Start, End: s.End,
		}}
	default:
		return []*ast.Stmt{s}
	}
}

// atomizeTop RCOs an expression and, unlike expr, folds its prelude back
// into a block so the expression remains self-contained (used for an
// if-statement's condition, which has no surrounding prelude to attach to).
func (r *RCO) atomizeTop(e *ast.Expr) *ast.Expr {
	flat, prelude := r.expr(e)
	if len(prelude) == 0 {
		return flat
	}
	return &ast.Expr{Data: ast.Block{Body: prelude, Result: flat}, Start: e.Start, End: e.End}
}

// expr RCOs e, returning the resulting atom-or-flat-expression together
// with the prelude of assignments it depends on, in left-to-right
// evaluation order of e's original operands.
func (r *RCO) expr(e *ast.Expr) (*ast.Expr, []*ast.Stmt) {
	if e.IsAtom() {
		return e, nil
	}
	switch d := e.Data.(type) {
	case ast.Call:
		args, prelude := r.operands(d.Args)
		return &ast.Expr{Data: ast.Call{Callee: d.Callee, Args: args}, Start: e.Start, End: e.End}, prelude
	case ast.Prim:
		operands, prelude := r.operands(d.Operands)
		return &ast.Expr{Data: ast.Prim{Op: d.Op, Operands: operands}, Start: e.Start, End: e.End}, prelude
	case ast.Condition:
		cond := r.atomizeTop(d.Cond)
		then := r.atomizeTop(d.Then)
		els := r.atomizeTop(d.Else)
		return &ast.Expr{Data: ast.Condition{Cond: cond, Then: then, Else: els}, Start: e.Start, End: e.End}, nil
	case ast.Block:
		body := r.Stmts(d.Body)
		var result *ast.Expr
		if d.Result != nil {
			result = r.atomizeTop(d.Result)
		}
		return &ast.Expr{Data: ast.Block{Body: body, Result: result}, Start: e.Start, End: e.End}, nil
	default:
		return e, nil
	}
}

func (r *RCO) operands(exprs []*ast.Expr) ([]*ast.Expr, []*ast.Stmt) {
	var newArgs []*ast.Expr
	var stmts []*ast.Stmt
	for _, a := range exprs {
		if a.IsAtom() {
			newArgs = append(newArgs, a)
			continue
		}
		flat, prelude := r.expr(a)
		stmts = append(stmts, prelude...)
		tmp := r.nextTemp()
		stmts = append(stmts, &ast.Stmt{
			Data:  ast.Assign{Name: tmp, Value: flat},
			Start: a.Start, End: a.End,
		})
		newArgs = append(newArgs, ast.NewAtom(tmp))
	}
	return newArgs, stmts
}
