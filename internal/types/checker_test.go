package types

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tinyc/internal/lexer"
	"tinyc/internal/parser"
	"tinyc/internal/reporter"
)

func check(t *testing.T, source string) *reporter.Reporter {
	t.Helper()
	rep := reporter.New("test.tc", source)
	toks := lexer.New(source, rep).Scan()
	stmts := parser.New(toks, rep).Parse()
	require.False(t, rep.Failed, "parse should succeed")
	New(rep).Check(stmts)
	return rep
}

func TestCheckWellTypedArithmetic(t *testing.T) {
	rep := check(t, "x = 1 + 2\nprint_int(x)\n")
	require.False(t, rep.Failed)
}

func TestCheckUnboundNameIsError(t *testing.T) {
	rep := check(t, "print_int(y)\n")
	require.True(t, rep.Failed)
}

func TestCheckNonBooleanConditionIsError(t *testing.T) {
	rep := check(t, "x = 1 if 2 else 3\n")
	require.True(t, rep.Failed)
}

func TestCheckMismatchedConditionalBranchesIsError(t *testing.T) {
	rep := check(t, "x = 1 if true else true\n")
	require.True(t, rep.Failed)
}

func TestCheckArityAndArgTypeMismatchIsError(t *testing.T) {
	rep := check(t, "print_int(true)\n")
	require.True(t, rep.Failed)

	rep = check(t, "print_int(1, 2)\n")
	require.True(t, rep.Failed)
}

func TestCheckBlockValueType(t *testing.T) {
	rep := check(t, "x = { y = 1\n y + 1 }\nprint_int(x)\n")
	require.False(t, rep.Failed)
}

func TestCheckPrintAcceptsAnyType(t *testing.T) {
	rep := check(t, "print(true)\nprint(1)\n")
	require.False(t, rep.Failed)
}

func TestCheckMultiplicationIsRejectedWithACleanDiagnostic(t *testing.T) {
	rep := check(t, "x = 2 * 3\n")
	require.True(t, rep.Failed)
	require.Len(t, rep.Diagnostics, 1, "unsupported * should surface as one ordinary diagnostic, not an internal error")
}

func TestCheckDivisionIsRejectedWithACleanDiagnostic(t *testing.T) {
	rep := check(t, "x = 6 / 2\n")
	require.True(t, rep.Failed)
	require.Len(t, rep.Diagnostics, 1)
}

func TestCheckIfStatementScopesDoNotLeak(t *testing.T) {
	rep := check(t, "if true {\n w = 1\n} else {\n w = 2\n}\nprint_int(w)\n")
	require.True(t, rep.Failed, "w is scoped to each branch and should not be visible after the if")
}
