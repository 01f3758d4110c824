package asm

import (
	"github.com/pkg/errors"

	"nestegg/internal/m6502"
)

// patch is a label reference left open during layout: either a one-byte
// signed displacement (branches) or a two-byte little-endian absolute
// address (JMP/JSR).
type patch struct {
	at       int // operand position in the image
	after    int // address immediately after the instruction
	label    string
	relative bool
}

// Assemble translates source text into a memory image starting at
// address 0. Layout happens in one pass; label references are patched in
// a second.
func Assemble(src string) ([]byte, error) {
	tokens, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	statements, err := Parse(tokens)
	if err != nil {
		return nil, err
	}

	var (
		image   []byte
		patches []patch
		labels  = map[string]int{}
	)

	for _, st := range statements {
		if st.Label != "" {
			if _, exists := labels[st.Label]; exists {
				return nil, errors.Errorf("label %q defined twice", st.Label)
			}
			labels[st.Label] = len(image)
		}

		mode, err := pickMode(st)
		if err != nil {
			return nil, err
		}
		opcode, err := m6502.Encode(m6502.Instruction{Mode: mode, Op: st.Op})
		if err != nil {
			return nil, errors.Wrapf(err, "%s does not support this operand", st.Op)
		}
		image = append(image, opcode)

		width := operandWidth(mode)
		if st.Expr.Kind == ExprLabel {
			patches = append(patches, patch{
				at:       len(image),
				after:    len(image) + width,
				label:    st.Expr.Label,
				relative: branchOps[st.Op],
			})
			image = append(image, make([]byte, width)...)
			continue
		}

		v := st.Expr.Value
		if st.Expr.Kind != ExprNone && st.Expr.Kind != ExprAccumulator {
			if branchOps[st.Op] && st.Expr.Kind == ExprNumber {
				// A literal branch target becomes a displacement here.
				d, err := displacement(len(image)+width, int(v))
				if err != nil {
					return nil, err
				}
				v = uint16(d)
			} else if width == 1 && v > 0xff {
				return nil, errors.Errorf("%s operand %#x does not fit in a byte", st.Op, v)
			}
		}
		switch width {
		case 1:
			image = append(image, uint8(v))
		case 2:
			image = append(image, uint8(v&0xff), uint8(v>>8))
		}
	}

	for _, p := range patches {
		target, ok := labels[p.label]
		if !ok {
			return nil, errors.Errorf("undefined label %q", p.label)
		}
		if p.relative {
			d, err := displacement(p.after, target)
			if err != nil {
				return nil, errors.Wrapf(err, "branch to %q", p.label)
			}
			image[p.at] = d
			continue
		}
		image[p.at] = uint8(target & 0xff)
		image[p.at+1] = uint8(target >> 8)
	}

	return image, nil
}

// pickMode maps a parsed expression onto an addressing mode, preferring
// the zero-page form whenever the value fits and the pairing exists in
// the opcode table.
func pickMode(st Statement) (m6502.Mode, error) {
	if branchOps[st.Op] {
		switch st.Expr.Kind {
		case ExprLabel, ExprNumber, ExprImmediate:
			return m6502.ModeImmediate, nil
		}
		return 0, errors.Errorf("%s needs a branch target", st.Op)
	}

	switch st.Expr.Kind {
	case ExprNone:
		if _, err := m6502.Encode(m6502.Instruction{Mode: m6502.ModeImplied, Op: st.Op}); err == nil {
			return m6502.ModeImplied, nil
		}
		return m6502.ModeAccumulator, nil
	case ExprAccumulator:
		return m6502.ModeAccumulator, nil
	case ExprImmediate:
		return m6502.ModeImmediate, nil
	case ExprNumber:
		return narrowest(st.Op, st.Expr.Value, m6502.ModeZeroPage, m6502.ModeAbsolute), nil
	case ExprIndexedX:
		return narrowest(st.Op, st.Expr.Value, m6502.ModeZeroPageX, m6502.ModeAbsoluteX), nil
	case ExprIndexedY:
		return narrowest(st.Op, st.Expr.Value, m6502.ModeZeroPageY, m6502.ModeAbsoluteY), nil
	case ExprIndirect:
		return m6502.ModeIndirect, nil
	case ExprIndirectX:
		return m6502.ModeIndirectX, nil
	case ExprIndirectY:
		return m6502.ModeIndirectY, nil
	case ExprLabel:
		return m6502.ModeAbsolute, nil
	}
	return 0, errors.Errorf("%s has no usable operand", st.Op)
}

func narrowest(op m6502.Operation, v uint16, zp, abs m6502.Mode) m6502.Mode {
	if v <= 0xff {
		if _, err := m6502.Encode(m6502.Instruction{Mode: zp, Op: op}); err == nil {
			return zp
		}
	}
	return abs
}

func operandWidth(mode m6502.Mode) int {
	switch mode {
	case m6502.ModeAccumulator, m6502.ModeImplied:
		return 0
	case m6502.ModeAbsolute, m6502.ModeAbsoluteX, m6502.ModeAbsoluteY, m6502.ModeIndirect:
		return 2
	}
	return 1
}

// displacement encodes a branch distance as a signed byte relative to
// the address immediately after the branch instruction.
func displacement(after, target int) (uint8, error) {
	d := target - after
	if d < -128 || d > 127 {
		return 0, errors.Errorf("branch distance %d out of range", d)
	}
	return uint8(d), nil
}
