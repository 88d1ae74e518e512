package pragma

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScanFindsTraceDirective(t *testing.T) {
	ds := Scan("// tinyc: trace\nx = 1\n")
	require.Len(t, ds, 1)
	require.True(t, TraceRequested(ds))
	_, ok := MaxRegisters(ds)
	require.False(t, ok)
}

func TestScanFindsMaxRegistersDirective(t *testing.T) {
	ds := Scan("// tinyc: max-registers 3\nx = 1\n")
	require.Len(t, ds, 1)
	n, ok := MaxRegisters(ds)
	require.True(t, ok)
	require.Equal(t, 3, n)
	require.False(t, TraceRequested(ds))
}

func TestScanIgnoresUnrelatedComments(t *testing.T) {
	ds := Scan("// just a normal comment\nx = 1\n")
	require.Empty(t, ds)
}

func TestScanSkipsMalformedDirectiveBody(t *testing.T) {
	ds := Scan("// tinyc: not-a-real-directive\nx = 1\n")
	require.Empty(t, ds)
}

func TestScanFindsMultipleDirectives(t *testing.T) {
	ds := Scan("// tinyc: trace\n// tinyc: max-registers 5\nx = 1\n")
	require.Len(t, ds, 2)
	require.True(t, TraceRequested(ds))
	n, ok := MaxRegisters(ds)
	require.True(t, ok)
	require.Equal(t, 5, n)
}

func TestMaxRegistersPicksTheSmallestWhenRepeated(t *testing.T) {
	ds := Scan("// tinyc: max-registers 7\n// tinyc: max-registers 2\nx = 1\n")
	n, ok := MaxRegisters(ds)
	require.True(t, ok)
	require.Equal(t, 2, n)
}
