package backend

import (
	"tinyc/internal/ast"
	"tinyc/internal/token"
)

// Shrink rewrites every `and`/`or` primitive into an equivalent conditional
// expression, so later passes never see those two operators. Both rewrites
// preserve short-circuit evaluation order:
//
//	a and b  →  if a then b else false
//	a or b   →  if a then true else b
func Shrink(stmts []*ast.Stmt) []*ast.Stmt {
	out := make([]*ast.Stmt, len(stmts))
	for i, s := range stmts {
		out[i] = shrinkStmt(s)
	}
	return out
}

func shrinkStmt(s *ast.Stmt) *ast.Stmt {
	switch d := s.Data.(type) {
	case ast.ExprStmt:
		return &ast.Stmt{Data: ast.ExprStmt{Expr: shrinkExpr(d.Expr)}, Start: s.Start, End: s.End}
	case ast.Assign:
		return &ast.Stmt{Data: ast.Assign{Name: d.Name, Value: shrinkExpr(d.Value)}, Start: s.Start, End: s.End}
	case ast.If:
		return &ast.Stmt{
			Data:  ast.If{Cond: shrinkExpr(d.Cond), Then: Shrink(d.Then), Else: Shrink(d.Else)},
			Start: s.Start, End: s.End,
		}
	default:
		return s
	}
}

func shrinkExpr(e *ast.Expr) *ast.Expr {
	switch d := e.Data.(type) {
	case ast.Prim:
		if len(d.Operands) == 2 && d.Op.Kind == token.And {
			a := shrinkExpr(d.Operands[0])
			b := shrinkExpr(d.Operands[1])
			return &ast.Expr{
				Data:  ast.Condition{Cond: a, Then: b, Else: falseLit(e)},
				Start: e.Start, End: e.End,
			}
		}
		if len(d.Operands) == 2 && d.Op.Kind == token.Or {
			a := shrinkExpr(d.Operands[0])
			b := shrinkExpr(d.Operands[1])
			return &ast.Expr{
				Data:  ast.Condition{Cond: a, Then: trueLit(e), Else: b},
				Start: e.Start, End: e.End,
			}
		}
		operands := make([]*ast.Expr, len(d.Operands))
		for i, o := range d.Operands {
			operands[i] = shrinkExpr(o)
		}
		return &ast.Expr{Data: ast.Prim{Op: d.Op, Operands: operands}, Start: e.Start, End: e.End}
	case ast.Call:
		args := make([]*ast.Expr, len(d.Args))
		for i, a := range d.Args {
			args[i] = shrinkExpr(a)
		}
		return &ast.Expr{Data: ast.Call{Callee: shrinkExpr(d.Callee), Args: args}, Start: e.Start, End: e.End}
	case ast.Condition:
		return &ast.Expr{
			Data: ast.Condition{
				Cond: shrinkExpr(d.Cond), Then: shrinkExpr(d.Then), Else: shrinkExpr(d.Else),
			},
			Start: e.Start, End: e.End,
		}
	case ast.Block:
		body := make([]*ast.Stmt, len(d.Body))
		for i, s := range d.Body {
			body[i] = shrinkStmt(s)
		}
		var result *ast.Expr
		if d.Result != nil {
			result = shrinkExpr(d.Result)
		}
		return &ast.Expr{Data: ast.Block{Body: body, Result: result}, Start: e.Start, End: e.End}
	default:
		return e
	}
}

func trueLit(at *ast.Expr) *ast.Expr {
	return &ast.Expr{Data: ast.Bool{Value: true}, Start: at.Start, End: at.Start}
}

func falseLit(at *ast.Expr) *ast.Expr {
	return &ast.Expr{Data: ast.Bool{Value: false}, Start: at.Start, End: at.Start}
}
