package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize_basicClasses(t *testing.T) {
	toks, err := tokenize(`package main; x = 1 + 2.5 "str" true`)
	require.NoError(t, err)

	var classes []tokenClass
	for _, tok := range toks {
		classes = append(classes, tok.class)
	}

	assert.Contains(t, classes, tkPackage)
	assert.Contains(t, classes, tkIdent)
	assert.Contains(t, classes, tkAssign)
	assert.Contains(t, classes, tkInt)
	assert.Contains(t, classes, tkDouble)
	assert.Contains(t, classes, tkQuotedString)
	assert.Contains(t, classes, tkTrue)
	assert.Equal(t, tkEOF, classes[len(classes)-1])
}

func TestTokenize_tightFollowDistinguishesUnaryFromSpacedOperator(t *testing.T) {
	tight, err := tokenize("x = -1;")
	require.NoError(t, err)
	minusTight := findFirst(tight, tkMinus)
	require.NotNil(t, minusTight)
	assert.True(t, minusTight.tightFollow)

	spaced, err := tokenize("x = a - 1;")
	require.NoError(t, err)
	minusSpaced := findFirst(spaced, tkMinus)
	require.NotNil(t, minusSpaced)
	assert.False(t, minusSpaced.tightFollow)
}

func findFirst(toks []token, class tokenClass) *token {
	for i := range toks {
		if toks[i].class == class {
			return &toks[i]
		}
	}
	return nil
}

func TestTokenize_reservedWordsAreNotIdentifiers(t *testing.T) {
	toks, err := tokenize("and or")
	require.NoError(t, err)
	// "and"/"or" are deliberately left as identifiers, not keywords.
	require.Len(t, toks, 3) // "and", "or", EOF
	assert.Equal(t, tkIdent, toks[0].class)
	assert.Equal(t, tkIdent, toks[1].class)
}

func TestTokenize_unterminatedStringIsParseError(t *testing.T) {
	_, err := tokenize(`"unterminated`)
	require.Error(t, err)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}
