package backend

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tinyc/internal/ir"
	"tinyc/internal/lexer"
	"tinyc/internal/parser"
	"tinyc/internal/reporter"
	"tinyc/internal/x86"
)

func selectSource(t *testing.T, source string) map[ir.Label][]x86.Instr {
	t.Helper()
	rep := reporter.New("test.tc", source)
	toks := lexer.New(source, rep).Scan()
	stmts := parser.New(toks, rep).Parse()
	require.False(t, rep.Failed, "parse should succeed")
	stmts = NewRCO().Stmts(Shrink(stmts))
	prog := NewExplicateControl(rep).Program(stmts)
	return NewSelectInstructions(rep).SelectProgram(prog)
}

func TestSelectAdditionCoalescesWhenDestIsAnOperand(t *testing.T) {
	blocks := selectSource(t, "x = 1\nx = x + 2\nprint_int(x)\n")
	start := blocks["start"]

	found := false
	for _, in := range start {
		if in.Op == x86.Addq {
			found = true
			require.Equal(t, "x", in.Dst.Var, "x = x + 2 should addq straight into x")
		}
	}
	require.True(t, found, "expected an addq in the selected instructions")
}

func TestSelectAdditionMovesWhenDestIsNotAnOperand(t *testing.T) {
	blocks := selectSource(t, "y = a + b\nprint_int(y)\n")
	start := blocks["start"]
	require.GreaterOrEqual(t, len(start), 2)
	require.Equal(t, x86.Movq, start[0].Op)
	require.Equal(t, x86.Addq, start[1].Op)
}

func TestSelectCallPassesArgumentsInRegisters(t *testing.T) {
	blocks := selectSource(t, "print_int(5)\n")
	start := blocks["start"]

	require.Equal(t, x86.Movq, start[0].Op)
	require.True(t, start[0].Dst.IsReg())
	require.Equal(t, x86.Rdi, start[0].Dst.Reg)

	var call *x86.Instr
	for i := range start {
		if start[i].Op == x86.Callq {
			call = &start[i]
		}
	}
	require.NotNil(t, call)
	require.Equal(t, 1, call.Arity)
}

func TestSelectIfLowersToCmpqAndJcc(t *testing.T) {
	blocks := selectSource(t, "if a == b {\nx = 1\n} else {\nx = 2\n}\nprint_int(x)\n")
	start := blocks["start"]

	last3 := start[len(start)-3:]
	require.Equal(t, x86.Cmpq, last3[0].Op)
	require.Equal(t, x86.Jcc, last3[1].Op)
	require.Equal(t, x86.CondE, last3[1].Cond)
	require.Equal(t, x86.Jmp, last3[2].Op)
}

func TestSelectUnaryNegation(t *testing.T) {
	blocks := selectSource(t, "x = -a\nprint_int(x)\n")
	start := blocks["start"]
	require.Equal(t, x86.Movq, start[0].Op)
	require.Equal(t, x86.Negq, start[1].Op)
}

func TestSelectReturnMovesIntoRax(t *testing.T) {
	blocks := selectSource(t, "x = 1\n")
	start := blocks["start"]
	last := start[len(start)-1]
	require.Equal(t, x86.Retq, last.Op)
	second := start[len(start)-2]
	require.Equal(t, x86.Movq, second.Op)
	require.True(t, second.Dst.IsReg())
	require.Equal(t, x86.Rax, second.Dst.Reg)
}

func TestSelectCallWithMoreArgsThanRegistersPushesTheOverflow(t *testing.T) {
	args := make([]ir.Atom, 8)
	for i := range args {
		args[i] = ir.Int{Value: int64(i)}
	}
	call := ir.Call{Callee: ir.Name{Ident: "eight_args"}, Args: args}
	rep := reporter.New("test.tc", "")
	instrs := NewSelectInstructions(rep).selectCall(call)

	var movesToRegs, pushes int
	var callInstr *x86.Instr
	for i := range instrs {
		switch instrs[i].Op {
		case x86.Movq:
			if instrs[i].Dst.IsReg() {
				movesToRegs++
			}
		case x86.Pushq:
			pushes++
		case x86.Callq:
			callInstr = &instrs[i]
		}
	}
	require.Equal(t, 6, movesToRegs, "the first 6 args pass in registers")
	require.Equal(t, 2, pushes, "the remaining 2 args are pushed")
	require.NotNil(t, callInstr)
	require.Equal(t, 8, callInstr.Arity)

	last := instrs[len(instrs)-1]
	require.Equal(t, x86.Addq, last.Op)
	require.Equal(t, int64(16), last.Src.Imm, "rsp must be restored by 8 bytes per pushed arg")
}
