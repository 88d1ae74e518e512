// Package token defines the lexical token kinds produced by the scanner and
// consumed by the parser.
package token

import "fmt"

// Kind identifies the lexical category of a Token.
type Kind int

const (
	// single character
	LeftParen Kind = iota
	RightParen
	LeftBrace
	RightBrace
	Comma
	Dot
	Minus
	Plus
	Semicolon
	Slash
	Star
	Question
	Colon
	NewLine

	// one or two character
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual

	// literals
	Name
	Str
	Integer
	Float

	// keywords
	And
	Class
	Else
	False
	Func
	For
	If
	Nil
	Or
	Not
	Print
	Return
	Super
	This
	True
	Var
	While
	Break

	Eof
)

var names = map[Kind]string{
	LeftParen: "(", RightParen: ")", LeftBrace: "{", RightBrace: "}",
	Comma: ",", Dot: ".", Minus: "-", Plus: "+", Semicolon: ";",
	Slash: "/", Star: "*", Question: "?", Colon: ":", NewLine: "\\n",
	Bang: "!", BangEqual: "!=", Equal: "=", EqualEqual: "==",
	Greater: ">", GreaterEqual: ">=", Less: "<", LessEqual: "<=",
	Name: "name", Str: "string", Integer: "integer", Float: "float",
	And: "and", Class: "class", Else: "else", False: "false", Func: "func",
	For: "for", If: "if", Nil: "nil", Or: "or", Not: "not", Print: "print",
	Return: "return", Super: "super", This: "this", True: "true", Var: "var",
	While: "while", Break: "break", Eof: "eof",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Keywords maps reserved identifiers to their Kind.
var Keywords = map[string]Kind{
	"and": And, "class": Class, "else": Else, "false": False, "func": Func,
	"for": For, "if": If, "nil": Nil, "or": Or, "not": Not, "print": Print,
	"return": Return, "super": Super, "this": This, "true": True, "var": Var,
	"while": While, "break": Break,
}

// Token is a single lexeme with its source range. Range is a byte range
// (start, end) into the original source text, inclusive on both ends, used
// for diagnostics.
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
	Start  int
	End    int
}

func (t Token) Range() (int, int) {
	return t.Start, t.End
}

func (t Token) String() string {
	return t.Lexeme
}
