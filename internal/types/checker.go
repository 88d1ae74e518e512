package types

import (
	"tinyc/internal/ast"
	"tinyc/internal/reporter"
	"tinyc/internal/token"
)

// Checker walks the AST assigning a Type to every expression and validating
// operand types against each operator's expected signature. It reports
// through the same Reporter the frontend uses, so type errors and syntax
// errors are rendered identically.
type Checker struct {
	reporter *reporter.Reporter
	env      *Env[Type]
}

// New builds a Checker with the language's three built-ins already bound:
// print_int(int), input_int() int, print(any).
func New(r *reporter.Reporter) *Checker {
	env := NewEnv[Type]()
	env.Insert("print_int", NewFunc([]Type{TInt}, TUnit))
	env.Insert("input_int", NewFunc(nil, TInt))
	env.Insert("print", NewFunc([]Type{TAny}, TUnit))
	return &Checker{reporter: r, env: env}
}

// Check type-checks every top-level statement. It does not stop at the
// first error: every statement is visited so the reporter can surface every
// problem in one pass.
func (c *Checker) Check(stmts []*ast.Stmt) {
	for _, s := range stmts {
		c.checkStmt(s)
	}
}

func (c *Checker) expectSame(t1, t2 Type, rg reporter.Ranger) {
	if !t1.IsCompatible(t2) {
		c.reporter.ErrorAt(rg, "%s != %s", t1, t2)
	}
}

func (c *Checker) checkStmt(s *ast.Stmt) Type {
	switch d := s.Data.(type) {
	case ast.ExprStmt:
		c.checkExpr(d.Expr)
	case ast.Assign:
		valTy := c.checkExpr(d.Value)
		c.env.Insert(d.Name.Lexeme, valTy)
	case ast.If:
		condTy := c.checkExpr(d.Cond)
		c.expectSame(condTy, TBool, d.Cond)

		c.env.InitScope()
		c.Check(d.Then)
		c.env.ExitScope()

		if d.Else != nil {
			c.env.InitScope()
			c.Check(d.Else)
			c.env.ExitScope()
		}
	}
	return TUnit
}

func (c *Checker) checkExpr(e *ast.Expr) Type {
	switch d := e.Data.(type) {
	case ast.Int:
		return TInt
	case ast.Float:
		return TFloat
	case ast.Bool:
		return TBool
	case ast.Name:
		if ty, ok := c.env.Lookup(d.Ident.Lexeme); ok {
			return ty
		}
		c.reporter.ErrorAt(e, "cannot find name %q in this scope", d.Ident.Lexeme)
		return TAny
	case ast.Call:
		funTy := c.checkExpr(d.Callee)
		argTys := make([]Type, len(d.Args))
		for i, a := range d.Args {
			argTys[i] = c.checkExpr(a)
		}
		if funTy.Kind != Func {
			c.reporter.ErrorAt(d.Callee, "expected a function")
			return TAny
		}
		if len(argTys) != len(funTy.Params) {
			c.reporter.ErrorAt(e, "expected %d argument(s), found %d", len(funTy.Params), len(argTys))
		}
		for i := range argTys {
			if i < len(funTy.Params) {
				c.expectSame(argTys[i], funTy.Params[i], d.Args[i])
			}
		}
		return *funTy.Ret
	case ast.Prim:
		return c.checkPrim(e, d)
	case ast.Condition:
		condTy := c.checkExpr(d.Cond)
		if condTy.Kind != Bool && condTy.Kind != Any {
			c.reporter.ErrorAt(e, "condition should have boolean type, got %s", condTy)
			return TAny
		}
		thenTy := c.checkExpr(d.Then)
		elseTy := c.checkExpr(d.Else)
		c.expectSame(thenTy, elseTy, e)
		return thenTy
	case ast.Block:
		c.env.InitScope()
		for _, st := range d.Body {
			c.checkStmt(st)
		}
		var result Type = TUnit
		if d.Result != nil {
			result = c.checkExpr(d.Result)
		}
		c.env.ExitScope()
		return result
	default:
		c.reporter.ErrorAt(e, "internal: unhandled expression kind")
		return TAny
	}
}

func (c *Checker) checkPrim(e *ast.Expr, p ast.Prim) Type {
	operandTys := make([]Type, len(p.Operands))
	for i, o := range p.Operands {
		operandTys[i] = c.checkExpr(o)
	}
	if len(p.Operands) == 1 {
		switch p.Op.Kind {
		case token.Minus:
			c.expectSame(operandTys[0], TInt, p.Operands[0])
			return TInt
		case token.Bang, token.Not:
			c.expectSame(operandTys[0], TBool, p.Operands[0])
			return TBool
		default:
			c.reporter.ErrorAt(e, "internal: unhandled unary operator %q", p.Op.Lexeme)
			return TAny
		}
	}
	switch p.Op.Kind {
	case token.Plus, token.Minus:
		for i, t := range operandTys {
			c.expectSame(t, TInt, p.Operands[i])
		}
		return TInt
	case token.Star, token.Slash:
		// This backend's instruction set has no imul/idiv: reject here
		// with a normal diagnostic rather than let it reach
		// Select-Instructions, which would only be able to report an
		// internal compiler error for perfectly well-typed input.
		c.reporter.ErrorAt(e, "multiplication and division are not supported")
		return TInt
	case token.Greater, token.GreaterEqual, token.Less, token.LessEqual:
		for i, t := range operandTys {
			c.expectSame(t, TInt, p.Operands[i])
		}
		return TBool
	case token.And, token.Or:
		for i, t := range operandTys {
			c.expectSame(t, TBool, p.Operands[i])
		}
		return TBool
	case token.EqualEqual, token.BangEqual:
		c.expectSame(operandTys[0], operandTys[1], e)
		return TBool
	default:
		c.reporter.ErrorAt(e, "internal: unhandled binary operator %q", p.Op.Lexeme)
		return TAny
	}
}
