package m6502

import "github.com/pkg/errors"

type operandKind uint8

const (
	operandImplied operandKind = iota
	operandAccumulator
	operandImmediate
	operandAddress
)

// operand is the resolved location of an instruction's value: the
// accumulator, a memory cell, an immediate byte, or nothing at all.
// Read-modify-write handlers go through read/write so that the same
// code serves both the accumulator and memory forms.
type operand struct {
	kind  operandKind
	addr  uint16
	value uint8
}

func implied() operand {
	return operand{kind: operandImplied}
}

func accumulator() operand {
	return operand{kind: operandAccumulator}
}

func immediate(v uint8) operand {
	return operand{kind: operandImmediate, value: v}
}

func address(addr uint16) operand {
	return operand{kind: operandAddress, addr: addr}
}

func (o operand) read(m *Machine) (uint8, error) {
	switch o.kind {
	case operandAccumulator:
		return m.regs.A, nil
	case operandImmediate:
		return o.value, nil
	case operandAddress:
		return m.mem.Read8(o.addr), nil
	}
	return 0, errors.Wrap(ErrInvalidOperand, "read of implied operand")
}

func (o operand) write(m *Machine, v uint8) error {
	switch o.kind {
	case operandAccumulator:
		m.regs.A = v
		return nil
	case operandAddress:
		m.mem.Write8(o.addr, v)
		return nil
	}
	return errors.Wrap(ErrInvalidOperand, "operand is not writable")
}

func (o operand) writable() bool {
	return o.kind == operandAccumulator || o.kind == operandAddress
}

func (o operand) address() (uint16, error) {
	if o.kind != operandAddress {
		return 0, errors.Wrap(ErrInvalidOperand, "operand has no address")
	}
	return o.addr, nil
}

func isDiffPage(a, b uint16) bool {
	return a&0xff00 != b&0xff00
}

// resolve computes the operand for the given addressing mode, consuming
// however many bytes the mode requires and advancing PC past them. The
// second return reports whether indexing crossed a page boundary.
func (m *Machine) resolve(mode Mode) (operand, bool) {
	switch mode {
	case ModeImmediate:
		v := m.mem.Read8(m.regs.PC)
		m.regs.PC++
		return immediate(v), false

	case ModeAccumulator:
		return accumulator(), false

	case ModeZeroPage:
		base := m.mem.Read8(m.regs.PC)
		m.regs.PC++
		return address(uint16(base)), false

	case ModeZeroPageX:
		base := m.mem.Read8(m.regs.PC)
		m.regs.PC++
		return address(uint16(base + m.regs.X)), false

	case ModeZeroPageY:
		base := m.mem.Read8(m.regs.PC)
		m.regs.PC++
		return address(uint16(base + m.regs.Y)), false

	case ModeAbsolute:
		base := m.mem.Read16(m.regs.PC)
		m.regs.PC += 2
		return address(base), false

	case ModeAbsoluteX:
		base := m.mem.Read16(m.regs.PC)
		m.regs.PC += 2
		addr := base + uint16(m.regs.X)
		return address(addr), isDiffPage(base, addr)

	case ModeAbsoluteY:
		base := m.mem.Read16(m.regs.PC)
		m.regs.PC += 2
		addr := base + uint16(m.regs.Y)
		return address(addr), isDiffPage(base, addr)

	case ModeIndirect:
		ptr := m.mem.Read16(m.regs.PC)
		m.regs.PC += 2
		return address(m.mem.Read16(ptr)), false

	case ModeIndirectX:
		base := m.mem.Read8(m.regs.PC) + m.regs.X
		m.regs.PC++
		lo := uint16(m.mem.Read8(uint16(base)))
		hi := uint16(m.mem.Read8(uint16(base + 1)))
		return address(lo | hi<<8), false

	case ModeIndirectY:
		base := m.mem.Read8(m.regs.PC)
		m.regs.PC++
		lo := uint16(m.mem.Read8(uint16(base)))
		hi := uint16(m.mem.Read8(uint16(base + 1)))
		ptr := lo | hi<<8
		addr := ptr + uint16(m.regs.Y)
		return address(addr), isDiffPage(ptr, addr)
	}

	return implied(), false
}
