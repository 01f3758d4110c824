// Package asm turns 6502 assembly source into the raw memory images the
// machine consumes. It never participates in execution: its only contract
// with the core is that its output is a valid opcode-byte stream.
package asm

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

type TokenType uint8

const (
	TokenText TokenType = iota + 1
	TokenNumber
	TokenHex
	TokenHash
	TokenColon
	TokenComma
	TokenOpenParen
	TokenCloseParen
	TokenX
	TokenY
)

type Token struct {
	Type TokenType
	Text string
}

type tokenRule struct {
	typ TokenType
	re  *regexp.Regexp
}

// Rule order matters: the X and Y register tokens must win over Text.
var tokenRules = []tokenRule{
	{TokenHex, regexp.MustCompile(`^\$[0-9a-fA-F]+`)},
	{TokenNumber, regexp.MustCompile(`^[0-9]+`)},
	{TokenHash, regexp.MustCompile(`^#`)},
	{TokenColon, regexp.MustCompile(`^:`)},
	{TokenComma, regexp.MustCompile(`^,`)},
	{TokenOpenParen, regexp.MustCompile(`^\(`)},
	{TokenCloseParen, regexp.MustCompile(`^\)`)},
	{TokenX, regexp.MustCompile(`^[xX]\b`)},
	{TokenY, regexp.MustCompile(`^[yY]\b`)},
	{TokenText, regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*`)},
}

// munch matches the rule at the very start of input and returns the
// matched text with the rest of the input.
func munch(input string, re *regexp.Regexp) (string, string, bool) {
	matched := re.FindString(input)
	if matched == "" {
		return "", "", false
	}
	return matched, input[len(matched):], true
}

// Tokenize splits source text into a flat token stream. Whitespace
// separates tokens and a semicolon comments out the rest of the line.
func Tokenize(input string) ([]Token, error) {
	var tokens []Token

	rest := input
	for {
		rest = strings.TrimLeft(rest, " \t\r\n")
		if strings.HasPrefix(rest, ";") {
			if i := strings.IndexByte(rest, '\n'); i >= 0 {
				rest = rest[i+1:]
				continue
			}
			break
		}
		if rest == "" {
			break
		}

		matchedAny := false
		for _, rule := range tokenRules {
			text, remaining, ok := munch(rest, rule.re)
			if !ok {
				continue
			}
			tokens = append(tokens, Token{Type: rule.typ, Text: text})
			rest = remaining
			matchedAny = true
			break
		}
		if !matchedAny {
			return nil, errors.Errorf("unrecognized token at %q", head(rest))
		}
	}

	return tokens, nil
}

func head(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
