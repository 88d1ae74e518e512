// Package ast defines the syntax tree produced by the parser and consumed by
// the type checker and the backend lowering passes.
package ast

import (
	"fmt"
	"strings"

	"tinyc/internal/token"
)

// Stmt is a single top-level or block-level statement.
type Stmt struct {
	Data  StmtData
	Start int
	End   int
}

func (s *Stmt) Range() (int, int) { return s.Start, s.End }

// StmtData is one of ExprStmt, Assign or If.
type StmtData interface{ stmtData() }

// ExprStmt is an expression evaluated for effect (e.g. a bare call).
type ExprStmt struct{ Expr *Expr }

// Assign binds the result of Value to Name in the current scope.
type Assign struct {
	Name  token.Token
	Value *Expr
}

// If is a statement-level conditional; both arms are statement blocks.
type If struct {
	Cond *Expr
	Then []*Stmt
	Else []*Stmt // nil when there is no else clause
}

func (ExprStmt) stmtData() {}
func (Assign) stmtData()   {}
func (If) stmtData()       {}

// Expr is a single expression node carrying its source byte range.
type Expr struct {
	Data  ExprData
	Start int
	End   int
}

func (e *Expr) Range() (int, int) { return e.Start, e.End }

// ExprData is one of Int, Float, Bool, Name, Prim, Call, Condition or Block.
type ExprData interface{ exprData() }

type Int struct{ Value int64 }
type Float struct{ Value float64 }
type Bool struct{ Value bool }
type Name struct{ Ident token.Token }

// Prim is a primitive operator application: unary when len(Operands) == 1,
// binary when len(Operands) == 2. Op carries the operator token.
type Prim struct {
	Op       token.Token
	Operands []*Expr
}

type Call struct {
	Callee *Expr
	Args   []*Expr
}

// Condition is the expression-level conditional `then if Cond else Else`.
type Condition struct {
	Cond *Expr
	Then *Expr
	Else *Expr
}

// Block is a sequence of statements followed by an optional trailing
// expression that gives the block its value. Result is nil when the block
// has no value (it is then only valid in statement position).
type Block struct {
	Body   []*Stmt
	Result *Expr
}

func (Int) exprData()       {}
func (Float) exprData()     {}
func (Bool) exprData()      {}
func (Name) exprData()      {}
func (Prim) exprData()      {}
func (Call) exprData()      {}
func (Condition) exprData() {}
func (Block) exprData()     {}

// NewAtom builds the Expr for a literal or name token.
func NewAtom(t token.Token) *Expr {
	start, end := t.Range()
	switch t.Kind {
	case token.Integer:
		var v int64
		fmt.Sscanf(t.Lexeme, "%d", &v)
		return &Expr{Data: Int{Value: v}, Start: start, End: end}
	case token.Float:
		var v float64
		fmt.Sscanf(t.Lexeme, "%g", &v)
		return &Expr{Data: Float{Value: v}, Start: start, End: end}
	case token.True:
		return &Expr{Data: Bool{Value: true}, Start: start, End: end}
	case token.False:
		return &Expr{Data: Bool{Value: false}, Start: start, End: end}
	case token.Name:
		return &Expr{Data: Name{Ident: t}, Start: start, End: end}
	default:
		panic(fmt.Sprintf("ast.NewAtom: not an atom token: %s", t.Kind))
	}
}

// IsAtom reports whether e is already irreducible: an int, float, bool or
// name. RCO's job is to make every Prim/Call operand satisfy this.
func (e *Expr) IsAtom() bool {
	switch e.Data.(type) {
	case Int, Float, Bool, Name:
		return true
	default:
		return false
	}
}

// Ident returns the identifier lexeme if e is a Name, and ok=false otherwise.
func (e *Expr) Ident() (string, bool) {
	if n, ok := e.Data.(Name); ok {
		return n.Ident.Lexeme, true
	}
	return "", false
}

func (e *Expr) String() string {
	switch d := e.Data.(type) {
	case Int:
		return fmt.Sprintf("%d", d.Value)
	case Float:
		return fmt.Sprintf("%g", d.Value)
	case Bool:
		return fmt.Sprintf("%t", d.Value)
	case Name:
		return d.Ident.Lexeme
	case Call:
		args := make([]string, len(d.Args))
		for i, a := range d.Args {
			args[i] = a.String()
		}
		return fmt.Sprintf("%s(%s)", d.Callee, strings.Join(args, ", "))
	case Prim:
		if len(d.Operands) == 2 {
			return fmt.Sprintf("%s %s %s", d.Operands[0], d.Op.Lexeme, d.Operands[1])
		}
		if len(d.Operands) == 1 {
			return fmt.Sprintf("%s%s", d.Op.Lexeme, d.Operands[0])
		}
		return "<prim>"
	case Condition:
		return fmt.Sprintf("%s if %s else %s", d.Then, d.Cond, d.Else)
	case Block:
		return "<block>"
	default:
		return "<expr>"
	}
}
