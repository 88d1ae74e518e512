package reporter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSplitsSourceIntoLines(t *testing.T) {
	r := New("test.tc", "a\nbb\nccc")
	line, col := r.locate(2) // offset 2 is the first 'b', starting line 2
	require.Equal(t, 2, line)
	require.Equal(t, 0, col)
}

func TestErrorSetsFailedAndRecordsDiagnostic(t *testing.T) {
	r := New("test.tc", "x = 1\n")
	require.False(t, r.Failed)
	r.Error(1, 0, 1, "unexpected token %q", "x")
	require.True(t, r.Failed)
	require.Len(t, r.Diagnostics, 1)
	require.Equal(t, `unexpected token "x"`, r.Diagnostics[0].Message)
}

func TestErrorAtConvertsRangerToLineCol(t *testing.T) {
	r := New("test.tc", "ab\ncd\n")
	r.ErrorAt(fakeRanger{3, 4}, "bad")
	require.Len(t, r.Diagnostics, 1)
	require.Equal(t, 2, r.Diagnostics[0].Line)
}

func TestInternalSetsFailedButRecordsNoDiagnostic(t *testing.T) {
	r := New("test.tc", "")
	r.Internal("select-instructions", "unreachable")
	require.True(t, r.Failed)
	require.Empty(t, r.Diagnostics, "internal errors are a compiler bug, not a source diagnostic for an editor")
}

func TestMultipleErrorsAllAccumulate(t *testing.T) {
	r := New("test.tc", "a\nb\nc\n")
	r.Error(1, 0, 1, "first")
	r.Error(2, 0, 1, "second")
	require.Len(t, r.Diagnostics, 2)
}

type fakeRanger struct{ start, end int }

func (f fakeRanger) Range() (int, int) { return f.start, f.end }
