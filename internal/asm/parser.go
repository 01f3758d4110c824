package asm

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"nestegg/internal/m6502"
)

type ExprKind uint8

const (
	// ExprNone marks an instruction with no written operand (implied,
	// or the bare accumulator form of a shift).
	ExprNone ExprKind = iota
	ExprAccumulator
	ExprNumber    // $12 or $1234: zero page or absolute, picked by size
	ExprImmediate // #$12
	ExprIndexedX  // $12,X or $1234,X
	ExprIndexedY  // $12,Y or $1234,Y
	ExprIndirect  // ($1234)
	ExprIndirectX // ($12,X)
	ExprIndirectY // ($12),Y
	ExprLabel     // branch or jump target by name
)

type Expression struct {
	Kind  ExprKind
	Value uint16
	Label string
}

// Statement is one assembly line: an optional label declaration, a
// mnemonic and its addressing expression.
type Statement struct {
	Label string
	Op    m6502.Operation
	Expr  Expression
}

var branchOps = map[m6502.Operation]bool{
	m6502.OpBCC: true, m6502.OpBCS: true, m6502.OpBEQ: true,
	m6502.OpBMI: true, m6502.OpBNE: true, m6502.OpBPL: true,
	m6502.OpBVC: true, m6502.OpBVS: true,
}

// takesLabel reports whether an operation's operand may be a bare label
// name: branches and the jump/subroutine pair.
func takesLabel(op m6502.Operation) bool {
	return branchOps[op] || op == m6502.OpJMP || op == m6502.OpJSR
}

// Parse turns a token stream into a statement list. Statements have no
// explicit separator: a Text token that names a mnemonic (and is not a
// valid operand of the previous statement) starts the next one.
func Parse(tokens []Token) ([]Statement, error) {
	var statements []Statement

	rest := tokens
	for len(rest) > 0 {
		var st Statement

		if remaining, label, ok := parseLabelDecl(rest); ok {
			st.Label = label
			rest = remaining
		}

		remaining, op, err := parseOperation(rest)
		if err != nil {
			return nil, errors.Wrapf(err, "statement %d", len(statements)+1)
		}
		rest = remaining
		st.Op = op

		rest, st.Expr, err = parseExpression(op, rest)
		if err != nil {
			return nil, errors.Wrapf(err, "operand of %s", op)
		}

		statements = append(statements, st)
	}

	return statements, nil
}

// parseLabelDecl munches `name:`.
func parseLabelDecl(tokens []Token) ([]Token, string, bool) {
	if len(tokens) < 2 || tokens[0].Type != TokenText || tokens[1].Type != TokenColon {
		return tokens, "", false
	}
	return tokens[2:], tokens[0].Text, true
}

func parseOperation(tokens []Token) ([]Token, m6502.Operation, error) {
	if len(tokens) == 0 {
		return tokens, 0, errors.New("unexpected end of program")
	}
	if tokens[0].Type != TokenText {
		return tokens, 0, errors.Errorf("expected a mnemonic, got %q", tokens[0].Text)
	}
	op, err := m6502.OperationFromString(strings.ToUpper(tokens[0].Text))
	if err != nil {
		return tokens, 0, err
	}
	return tokens[1:], op, nil
}

// parseWord munches a decimal or $-prefixed hex number.
func parseWord(tokens []Token) ([]Token, uint16, bool) {
	if len(tokens) == 0 {
		return tokens, 0, false
	}
	switch tokens[0].Type {
	case TokenNumber:
		v, err := strconv.ParseUint(tokens[0].Text, 10, 16)
		if err != nil {
			return tokens, 0, false
		}
		return tokens[1:], uint16(v), true
	case TokenHex:
		v, err := strconv.ParseUint(tokens[0].Text[1:], 16, 16)
		if err != nil {
			return tokens, 0, false
		}
		return tokens[1:], uint16(v), true
	}
	return tokens, 0, false
}

func parseExpression(op m6502.Operation, tokens []Token) ([]Token, Expression, error) {
	if len(tokens) == 0 {
		return tokens, Expression{}, nil
	}

	switch tokens[0].Type {
	case TokenHash:
		rest, v, ok := parseWord(tokens[1:])
		if !ok {
			return tokens, Expression{}, errors.New("expected a number after #")
		}
		return rest, Expression{Kind: ExprImmediate, Value: v}, nil

	case TokenOpenParen:
		return parseIndirect(tokens[1:])

	case TokenNumber, TokenHex:
		rest, v, _ := parseWord(tokens)
		if kind, remaining, ok := parseIndexSuffix(rest); ok {
			return remaining, Expression{Kind: kind, Value: v}, nil
		}
		return rest, Expression{Kind: ExprNumber, Value: v}, nil

	case TokenText:
		if strings.EqualFold(tokens[0].Text, "A") {
			return tokens[1:], Expression{Kind: ExprAccumulator}, nil
		}
		// A name followed by a colon is the next statement's label.
		if takesLabel(op) && (len(tokens) < 2 || tokens[1].Type != TokenColon) {
			return tokens[1:], Expression{Kind: ExprLabel, Label: tokens[0].Text}, nil
		}
		return tokens, Expression{}, nil
	}

	return tokens, Expression{}, errors.Errorf("unexpected token %q", tokens[0].Text)
}

// parseIndexSuffix munches `,X` or `,Y`.
func parseIndexSuffix(tokens []Token) (ExprKind, []Token, bool) {
	if len(tokens) < 2 || tokens[0].Type != TokenComma {
		return ExprNone, tokens, false
	}
	switch tokens[1].Type {
	case TokenX:
		return ExprIndexedX, tokens[2:], true
	case TokenY:
		return ExprIndexedY, tokens[2:], true
	}
	return ExprNone, tokens, false
}

// parseIndirect munches the tail of `(num)`, `(num,X)` or `(num),Y`;
// the open paren is already consumed.
func parseIndirect(tokens []Token) ([]Token, Expression, error) {
	rest, v, ok := parseWord(tokens)
	if !ok {
		return tokens, Expression{}, errors.New("expected a number after (")
	}

	switch {
	case len(rest) >= 3 && rest[0].Type == TokenComma && rest[1].Type == TokenX && rest[2].Type == TokenCloseParen:
		return rest[3:], Expression{Kind: ExprIndirectX, Value: v}, nil

	case len(rest) >= 1 && rest[0].Type == TokenCloseParen:
		if len(rest) >= 3 && rest[1].Type == TokenComma && rest[2].Type == TokenY {
			return rest[3:], Expression{Kind: ExprIndirectY, Value: v}, nil
		}
		return rest[1:], Expression{Kind: ExprIndirect, Value: v}, nil
	}

	return tokens, Expression{}, errors.New("unterminated indirect operand")
}
