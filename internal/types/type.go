package types

import (
	"fmt"
	"strings"
)

// Kind distinguishes the handful of types this language supports.
type Kind int

const (
	Any Kind = iota
	Unit
	Int
	Float
	Bool
	Func
)

// Type is Any, Unit, Int, Float, Bool or a Func with Params/Ret populated.
type Type struct {
	Kind   Kind
	Params []Type
	Ret    *Type
}

var (
	TInt   = Type{Kind: Int}
	TFloat = Type{Kind: Float}
	TBool  = Type{Kind: Bool}
	TUnit  = Type{Kind: Unit}
	TAny   = Type{Kind: Any}
)

func NewFunc(params []Type, ret Type) Type {
	return Type{Kind: Func, Params: params, Ret: &ret}
}

// IsCompatible implements the language's permissive compatibility rule: Any
// matches everything, and Func types are compatible when their return types
// and their parameters, pairwise, are compatible.
func (t Type) IsCompatible(other Type) bool {
	if t.Kind == Any || other.Kind == Any {
		return true
	}
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case Func:
		if len(t.Params) != len(other.Params) || !t.Ret.IsCompatible(*other.Ret) {
			return false
		}
		for i, p := range t.Params {
			if !p.IsCompatible(other.Params[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func (t Type) String() string {
	switch t.Kind {
	case Any:
		return "any"
	case Unit:
		return "()"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case Func:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}
		return fmt.Sprintf("(%s) => %s", strings.Join(parts, ", "), t.Ret)
	default:
		return "?"
	}
}
