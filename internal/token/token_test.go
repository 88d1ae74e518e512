package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindStringFallsBackForUnknownValue(t *testing.T) {
	require.Equal(t, "kind(9999)", Kind(9999).String())
}

func TestKindStringNamesKnownKinds(t *testing.T) {
	require.Equal(t, "+", Plus.String())
	require.Equal(t, "==", EqualEqual.String())
	require.Equal(t, "and", And.String())
}

func TestKeywordsMapsEveryReservedWord(t *testing.T) {
	for word, kind := range Keywords {
		require.Equal(t, word, kind.String())
	}
}

func TestTokenRangeReturnsStartEnd(t *testing.T) {
	tok := Token{Start: 3, End: 7}
	start, end := tok.Range()
	require.Equal(t, 3, start)
	require.Equal(t, 7, end)
}

func TestTokenStringIsItsLexeme(t *testing.T) {
	tok := Token{Lexeme: "hello"}
	require.Equal(t, "hello", tok.String())
}
