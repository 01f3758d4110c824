package m6502

import "github.com/pkg/errors"

func isSameSign(a, b uint8) bool {
	return (a^b)&0x80 == 0
}

// signExtend widens a signed 8-bit displacement to 16 bits.
func signExtend(v uint8) uint16 {
	addr := uint16(v)
	if v&0x80 > 0 {
		addr |= 0xff00
	}
	return addr
}

// execute applies one operation to the machine. Handlers validate their
// operand before mutating anything, so a failed execute leaves registers
// and memory untouched.
func (m *Machine) execute(op Operation, opr operand) error {
	switch op {
	case OpADC:
		return m.adc(opr)
	case OpAND:
		return m.and(opr)
	case OpASL:
		return m.asl(opr)
	case OpBCC:
		return m.branchIf(opr, !m.getFlag(flagC))
	case OpBCS:
		return m.branchIf(opr, m.getFlag(flagC))
	case OpBEQ:
		return m.branchIf(opr, m.getFlag(flagZ))
	case OpBIT:
		return m.bit(opr)
	case OpBMI:
		return m.branchIf(opr, m.getFlag(flagN))
	case OpBNE:
		return m.branchIf(opr, !m.getFlag(flagZ))
	case OpBPL:
		return m.branchIf(opr, !m.getFlag(flagN))
	case OpBRK:
		return errors.Wrap(ErrUnimplemented, "BRK")
	case OpBVC:
		return m.branchIf(opr, !m.getFlag(flagV))
	case OpBVS:
		return m.branchIf(opr, m.getFlag(flagV))
	case OpCLC:
		m.setFlag(flagC, false)
	case OpCLD:
		m.setFlag(flagD, false)
	case OpCLI:
		m.setFlag(flagI, false)
	case OpCLV:
		m.setFlag(flagV, false)
	case OpCMP:
		return m.compare(opr, m.regs.A)
	case OpCPX:
		return m.compare(opr, m.regs.X)
	case OpCPY:
		return m.compare(opr, m.regs.Y)
	case OpDEC:
		return m.rmw(opr, func(v uint8) uint8 { return v - 1 })
	case OpDEX:
		m.regs.X--
		m.setFlagsZN(m.regs.X)
	case OpDEY:
		m.regs.Y--
		m.setFlagsZN(m.regs.Y)
	case OpEOR:
		return m.logical(opr, func(a, v uint8) uint8 { return a ^ v })
	case OpINC:
		return m.rmw(opr, func(v uint8) uint8 { return v + 1 })
	case OpINX:
		m.regs.X++
		m.setFlagsZN(m.regs.X)
	case OpINY:
		m.regs.Y++
		m.setFlagsZN(m.regs.Y)
	case OpJMP:
		return m.jmp(opr)
	case OpJSR:
		return m.jsr(opr)
	case OpLDA:
		return m.load(opr, &m.regs.A)
	case OpLDX:
		return m.load(opr, &m.regs.X)
	case OpLDY:
		return m.load(opr, &m.regs.Y)
	case OpLSR:
		return m.lsr(opr)
	case OpNOP:
	case OpORA:
		return m.logical(opr, func(a, v uint8) uint8 { return a | v })
	case OpPHA:
		m.stackPush8(m.regs.A)
	case OpPHP:
		m.stackPush8(m.regs.P | flagU)
	case OpPLA:
		m.regs.A = m.stackPop8()
		m.setFlagsZN(m.regs.A)
	case OpPLP:
		m.regs.P = m.stackPop8() | flagU
	case OpROL:
		return m.rol(opr)
	case OpROR:
		return m.ror(opr)
	case OpRTI:
		m.regs.P = m.stackPop8() | flagU
		m.regs.PC = m.stackPop16()
	case OpRTS:
		m.regs.PC = m.stackPop16() + 1
	case OpSBC:
		return m.sbc(opr)
	case OpSEC:
		m.setFlag(flagC, true)
	case OpSED:
		m.setFlag(flagD, true)
	case OpSEI:
		m.setFlag(flagI, true)
	case OpSTA:
		return opr.write(m, m.regs.A)
	case OpSTX:
		return opr.write(m, m.regs.X)
	case OpSTY:
		return opr.write(m, m.regs.Y)
	case OpTAX:
		m.regs.X = m.regs.A
		m.setFlagsZN(m.regs.X)
	case OpTAY:
		m.regs.Y = m.regs.A
		m.setFlagsZN(m.regs.Y)
	case OpTSX:
		m.regs.X = m.regs.SP
		m.setFlagsZN(m.regs.X)
	case OpTXA:
		m.regs.A = m.regs.X
		m.setFlagsZN(m.regs.A)
	case OpTXS:
		m.regs.SP = m.regs.X
	case OpTYA:
		m.regs.A = m.regs.Y
		m.setFlagsZN(m.regs.A)
	default:
		return errors.Wrapf(ErrUnimplemented, "%s", op)
	}
	return nil
}

// A = A + M + C
func (m *Machine) adc(opr operand) error {
	if m.getFlag(flagD) {
		return errors.Wrap(ErrUnimplemented, "decimal mode ADC")
	}
	v, err := opr.read(m)
	if err != nil {
		return err
	}

	r16 := uint16(m.regs.A) + uint16(v)
	if m.getFlag(flagC) {
		r16++
	}
	r8 := uint8(r16)
	m.setFlag(flagC, r16 > 0xff)
	m.setFlag(flagV, isSameSign(m.regs.A, v) && !isSameSign(r8, v))
	m.setFlagsZN(r8)
	m.regs.A = r8
	return nil
}

// A = A - M - (1 - C), as two chained subtractions. Carry ends up set
// only when neither subtraction underflows.
func (m *Machine) sbc(opr operand) error {
	if m.getFlag(flagD) {
		return errors.Wrap(ErrUnimplemented, "decimal mode SBC")
	}
	v, err := opr.read(m)
	if err != nil {
		return err
	}

	borrow := uint8(1)
	if m.getFlag(flagC) {
		borrow = 0
	}
	sub := m.regs.A - v
	underflow := v > m.regs.A
	r8 := sub - borrow
	underflow = underflow || borrow > sub

	m.setFlag(flagC, !underflow)
	m.setFlag(flagV, !isSameSign(m.regs.A, v) && isSameSign(r8, v))
	m.setFlagsZN(r8)
	m.regs.A = r8
	return nil
}

func (m *Machine) and(opr operand) error {
	return m.logical(opr, func(a, v uint8) uint8 { return a & v })
}

func (m *Machine) logical(opr operand, f func(a, v uint8) uint8) error {
	v, err := opr.read(m)
	if err != nil {
		return err
	}
	m.regs.A = f(m.regs.A, v)
	m.setFlagsZN(m.regs.A)
	return nil
}

// C <- bit 7, value <<= 1
func (m *Machine) asl(opr operand) error {
	return m.rmw(opr, func(v uint8) uint8 {
		m.setFlag(flagC, v&0x80 > 0)
		return v << 1
	})
}

// C <- bit 0, value >>= 1
func (m *Machine) lsr(opr operand) error {
	return m.rmw(opr, func(v uint8) uint8 {
		m.setFlag(flagC, v&0x1 > 0)
		return v >> 1
	})
}

// C <- bit 7, value <<= 1, bit 0 <- old C
func (m *Machine) rol(opr operand) error {
	return m.rmw(opr, func(v uint8) uint8 {
		r := v << 1
		if m.getFlag(flagC) {
			r |= 0x1
		}
		m.setFlag(flagC, v&0x80 > 0)
		return r
	})
}

// C <- bit 0, value >>= 1, bit 7 <- old C
func (m *Machine) ror(opr operand) error {
	return m.rmw(opr, func(v uint8) uint8 {
		r := v >> 1
		if m.getFlag(flagC) {
			r |= 0x80
		}
		m.setFlag(flagC, v&0x1 > 0)
		return r
	})
}

func (m *Machine) compare(opr operand, reg uint8) error {
	v, err := opr.read(m)
	if err != nil {
		return err
	}
	m.setFlag(flagC, reg >= v)
	m.setFlagsZN(reg - v)
	return nil
}

// rmw rewrites the operand's location in place. The operand is checked
// up front so that no flag changes when the location cannot be written.
func (m *Machine) rmw(opr operand, f func(v uint8) uint8) error {
	if !opr.writable() {
		return errors.Wrap(ErrInvalidOperand, "read-modify-write needs a writable operand")
	}
	v, err := opr.read(m)
	if err != nil {
		return err
	}
	r := f(v)
	m.setFlagsZN(r)
	return opr.write(m, r)
}

// N <- M7, V <- M6, Z <- A & M == 0. The accumulator is left alone.
func (m *Machine) bit(opr operand) error {
	v, err := opr.read(m)
	if err != nil {
		return err
	}
	m.setFlag(flagZ, m.regs.A&v == 0)
	m.setFlag(flagN, v&flagN > 0)
	m.setFlag(flagV, v&flagV > 0)
	return nil
}

// branchIf adds the sign-extended displacement to PC when the condition
// holds. PC already sits at the address immediately after the two-byte
// branch instruction, so no compensation term is needed.
func (m *Machine) branchIf(opr operand, condition bool) error {
	v, err := opr.read(m)
	if err != nil {
		return err
	}
	if !condition {
		return nil
	}
	m.regs.PC += signExtend(v)
	return nil
}

func (m *Machine) jmp(opr operand) error {
	addr, err := opr.address()
	if err != nil {
		return err
	}
	m.regs.PC = addr
	return nil
}

// jsr pushes the return address minus one, high byte first; rts pops it
// and adds one back.
func (m *Machine) jsr(opr operand) error {
	addr, err := opr.address()
	if err != nil {
		return err
	}
	m.stackPush16(m.regs.PC - 1)
	m.regs.PC = addr
	return nil
}

func (m *Machine) load(opr operand, reg *uint8) error {
	v, err := opr.read(m)
	if err != nil {
		return err
	}
	*reg = v
	m.setFlagsZN(v)
	return nil
}
