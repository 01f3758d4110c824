package asm

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Munch(t *testing.T) {
	re := regexp.MustCompile(`^[a-z]+`)

	t.Run("match at the start", func(t *testing.T) {
		matched, rest, ok := munch("lda #5", re)
		assert.True(t, ok)
		assert.Equal(t, "lda", matched)
		assert.Equal(t, " #5", rest)
	})

	t.Run("no match", func(t *testing.T) {
		_, _, ok := munch("#5", re)
		assert.False(t, ok)
	})
}

func Test_Tokenize(t *testing.T) {
	type testArgs struct {
		input    string
		expected []Token
	}

	testDo := func(t *testing.T, in testArgs) {
		tokens, err := Tokenize(in.input)
		require.NoError(t, err)
		assert.Equal(t, in.expected, tokens)
	}

	t.Run("immediate", func(t *testing.T) {
		testDo(t, testArgs{
			input: "LDA #$10",
			expected: []Token{
				{TokenText, "LDA"},
				{TokenHash, "#"},
				{TokenHex, "$10"},
			},
		})
	})

	t.Run("indexed", func(t *testing.T) {
		testDo(t, testArgs{
			input: "sta $10,x",
			expected: []Token{
				{TokenText, "sta"},
				{TokenHex, "$10"},
				{TokenComma, ","},
				{TokenX, "x"},
			},
		})
	})

	t.Run("indirect", func(t *testing.T) {
		testDo(t, testArgs{
			input: "lda ($20),Y",
			expected: []Token{
				{TokenText, "lda"},
				{TokenOpenParen, "("},
				{TokenHex, "$20"},
				{TokenCloseParen, ")"},
				{TokenComma, ","},
				{TokenY, "Y"},
			},
		})
	})

	t.Run("label declaration", func(t *testing.T) {
		testDo(t, testArgs{
			input: "loop: dex",
			expected: []Token{
				{TokenText, "loop"},
				{TokenColon, ":"},
				{TokenText, "dex"},
			},
		})
	})

	t.Run("decimal numbers", func(t *testing.T) {
		testDo(t, testArgs{
			input: "ldx #200",
			expected: []Token{
				{TokenText, "ldx"},
				{TokenHash, "#"},
				{TokenNumber, "200"},
			},
		})
	})

	t.Run("identifiers starting with x stay text", func(t *testing.T) {
		testDo(t, testArgs{
			input: "x20",
			expected: []Token{
				{TokenText, "x20"},
			},
		})
	})

	t.Run("comments run to end of line", func(t *testing.T) {
		testDo(t, testArgs{
			input: "clc ; clear carry\n sec",
			expected: []Token{
				{TokenText, "clc"},
				{TokenText, "sec"},
			},
		})
	})

	t.Run("trailing comment without newline", func(t *testing.T) {
		testDo(t, testArgs{
			input:    "; nothing here",
			expected: nil,
		})
	})

	t.Run("unrecognized input errors", func(t *testing.T) {
		_, err := Tokenize("lda @5")
		assert.Error(t, err)
	})
}
