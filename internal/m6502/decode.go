package m6502

import "github.com/pkg/errors"

// Instruction is the decoded form of one opcode byte.
type Instruction struct {
	Mode Mode
	Op   Operation
}

func (in Instruction) String() string {
	return in.Op.String() + " {" + in.Mode.String() + "}"
}

// CycleCount is the base cycle cost of an instruction plus a flag telling
// whether crossing a page boundary during operand resolution costs one more.
// The extra cycle of a taken branch is not modeled.
type CycleCount struct {
	Base              uint8
	PageBoundaryExtra bool
}

var opcodeTable = buildOpcodeTable()

// Decode maps an opcode byte to its instruction. Total over all 256 byte
// values: the 151 documented opcodes decode, everything else returns
// ErrUnknownOpcode.
func Decode(opcode uint8) (Instruction, error) {
	in := opcodeTable[opcode]
	if in.Op == 0 {
		return Instruction{}, errors.Wrapf(ErrUnknownOpcode, "%#02x", opcode)
	}
	return in, nil
}

// Encode is the inverse of Decode: it maps an instruction back to its
// opcode byte.
func Encode(in Instruction) (uint8, error) {
	for opcode, entry := range opcodeTable {
		if entry == in {
			return uint8(opcode), nil
		}
	}
	return 0, errors.Wrapf(ErrNoEncoding, "%s", in)
}

func buildOpcodeTable() (t [0x100]Instruction) {
	t[0x69] = Instruction{ModeImmediate, OpADC}
	t[0x65] = Instruction{ModeZeroPage, OpADC}
	t[0x75] = Instruction{ModeZeroPageX, OpADC}
	t[0x6d] = Instruction{ModeAbsolute, OpADC}
	t[0x7d] = Instruction{ModeAbsoluteX, OpADC}
	t[0x79] = Instruction{ModeAbsoluteY, OpADC}
	t[0x61] = Instruction{ModeIndirectX, OpADC}
	t[0x71] = Instruction{ModeIndirectY, OpADC}
	t[0x29] = Instruction{ModeImmediate, OpAND}
	t[0x25] = Instruction{ModeZeroPage, OpAND}
	t[0x35] = Instruction{ModeZeroPageX, OpAND}
	t[0x2d] = Instruction{ModeAbsolute, OpAND}
	t[0x3d] = Instruction{ModeAbsoluteX, OpAND}
	t[0x39] = Instruction{ModeAbsoluteY, OpAND}
	t[0x21] = Instruction{ModeIndirectX, OpAND}
	t[0x31] = Instruction{ModeIndirectY, OpAND}
	t[0x0a] = Instruction{ModeAccumulator, OpASL}
	t[0x06] = Instruction{ModeZeroPage, OpASL}
	t[0x16] = Instruction{ModeZeroPageX, OpASL}
	t[0x0e] = Instruction{ModeAbsolute, OpASL}
	t[0x1e] = Instruction{ModeAbsoluteX, OpASL}
	t[0x90] = Instruction{ModeImmediate, OpBCC}
	t[0xb0] = Instruction{ModeImmediate, OpBCS}
	t[0xf0] = Instruction{ModeImmediate, OpBEQ}
	t[0x24] = Instruction{ModeZeroPage, OpBIT}
	t[0x2c] = Instruction{ModeAbsolute, OpBIT}
	t[0x30] = Instruction{ModeImmediate, OpBMI}
	t[0xd0] = Instruction{ModeImmediate, OpBNE}
	t[0x10] = Instruction{ModeImmediate, OpBPL}
	t[0x00] = Instruction{ModeImplied, OpBRK}
	t[0x50] = Instruction{ModeImmediate, OpBVC}
	t[0x70] = Instruction{ModeImmediate, OpBVS}
	t[0x18] = Instruction{ModeImplied, OpCLC}
	t[0xd8] = Instruction{ModeImplied, OpCLD}
	t[0x58] = Instruction{ModeImplied, OpCLI}
	t[0xb8] = Instruction{ModeImplied, OpCLV}
	t[0xc9] = Instruction{ModeImmediate, OpCMP}
	t[0xc5] = Instruction{ModeZeroPage, OpCMP}
	t[0xd5] = Instruction{ModeZeroPageX, OpCMP}
	t[0xcd] = Instruction{ModeAbsolute, OpCMP}
	t[0xdd] = Instruction{ModeAbsoluteX, OpCMP}
	t[0xd9] = Instruction{ModeAbsoluteY, OpCMP}
	t[0xc1] = Instruction{ModeIndirectX, OpCMP}
	t[0xd1] = Instruction{ModeIndirectY, OpCMP}
	t[0xe0] = Instruction{ModeImmediate, OpCPX}
	t[0xe4] = Instruction{ModeZeroPage, OpCPX}
	t[0xec] = Instruction{ModeAbsolute, OpCPX}
	t[0xc0] = Instruction{ModeImmediate, OpCPY}
	t[0xc4] = Instruction{ModeZeroPage, OpCPY}
	t[0xcc] = Instruction{ModeAbsolute, OpCPY}
	t[0xc6] = Instruction{ModeZeroPage, OpDEC}
	t[0xd6] = Instruction{ModeZeroPageX, OpDEC}
	t[0xce] = Instruction{ModeAbsolute, OpDEC}
	t[0xde] = Instruction{ModeAbsoluteX, OpDEC}
	t[0xca] = Instruction{ModeImplied, OpDEX}
	t[0x88] = Instruction{ModeImplied, OpDEY}
	t[0x49] = Instruction{ModeImmediate, OpEOR}
	t[0x45] = Instruction{ModeZeroPage, OpEOR}
	t[0x55] = Instruction{ModeZeroPageX, OpEOR}
	t[0x4d] = Instruction{ModeAbsolute, OpEOR}
	t[0x5d] = Instruction{ModeAbsoluteX, OpEOR}
	t[0x59] = Instruction{ModeAbsoluteY, OpEOR}
	t[0x41] = Instruction{ModeIndirectX, OpEOR}
	t[0x51] = Instruction{ModeIndirectY, OpEOR}
	t[0xe6] = Instruction{ModeZeroPage, OpINC}
	t[0xf6] = Instruction{ModeZeroPageX, OpINC}
	t[0xee] = Instruction{ModeAbsolute, OpINC}
	t[0xfe] = Instruction{ModeAbsoluteX, OpINC}
	t[0xe8] = Instruction{ModeImplied, OpINX}
	t[0xc8] = Instruction{ModeImplied, OpINY}
	t[0x4c] = Instruction{ModeAbsolute, OpJMP}
	t[0x6c] = Instruction{ModeIndirect, OpJMP}
	t[0x20] = Instruction{ModeAbsolute, OpJSR}
	t[0xa9] = Instruction{ModeImmediate, OpLDA}
	t[0xa5] = Instruction{ModeZeroPage, OpLDA}
	t[0xb5] = Instruction{ModeZeroPageX, OpLDA}
	t[0xad] = Instruction{ModeAbsolute, OpLDA}
	t[0xbd] = Instruction{ModeAbsoluteX, OpLDA}
	t[0xb9] = Instruction{ModeAbsoluteY, OpLDA}
	t[0xa1] = Instruction{ModeIndirectX, OpLDA}
	t[0xb1] = Instruction{ModeIndirectY, OpLDA}
	t[0xa2] = Instruction{ModeImmediate, OpLDX}
	t[0xa6] = Instruction{ModeZeroPage, OpLDX}
	t[0xb6] = Instruction{ModeZeroPageY, OpLDX}
	t[0xae] = Instruction{ModeAbsolute, OpLDX}
	t[0xbe] = Instruction{ModeAbsoluteY, OpLDX}
	t[0xa0] = Instruction{ModeImmediate, OpLDY}
	t[0xa4] = Instruction{ModeZeroPage, OpLDY}
	t[0xb4] = Instruction{ModeZeroPageX, OpLDY}
	t[0xac] = Instruction{ModeAbsolute, OpLDY}
	t[0xbc] = Instruction{ModeAbsoluteX, OpLDY}
	t[0x4a] = Instruction{ModeAccumulator, OpLSR}
	t[0x46] = Instruction{ModeZeroPage, OpLSR}
	t[0x56] = Instruction{ModeZeroPageX, OpLSR}
	t[0x4e] = Instruction{ModeAbsolute, OpLSR}
	t[0x5e] = Instruction{ModeAbsoluteX, OpLSR}
	t[0xea] = Instruction{ModeImplied, OpNOP}
	t[0x09] = Instruction{ModeImmediate, OpORA}
	t[0x05] = Instruction{ModeZeroPage, OpORA}
	t[0x15] = Instruction{ModeZeroPageX, OpORA}
	t[0x0d] = Instruction{ModeAbsolute, OpORA}
	t[0x1d] = Instruction{ModeAbsoluteX, OpORA}
	t[0x19] = Instruction{ModeAbsoluteY, OpORA}
	t[0x01] = Instruction{ModeIndirectX, OpORA}
	t[0x11] = Instruction{ModeIndirectY, OpORA}
	t[0x48] = Instruction{ModeImplied, OpPHA}
	t[0x08] = Instruction{ModeImplied, OpPHP}
	t[0x68] = Instruction{ModeImplied, OpPLA}
	t[0x28] = Instruction{ModeImplied, OpPLP}
	t[0x2a] = Instruction{ModeAccumulator, OpROL}
	t[0x26] = Instruction{ModeZeroPage, OpROL}
	t[0x36] = Instruction{ModeZeroPageX, OpROL}
	t[0x2e] = Instruction{ModeAbsolute, OpROL}
	t[0x3e] = Instruction{ModeAbsoluteX, OpROL}
	t[0x6a] = Instruction{ModeAccumulator, OpROR}
	t[0x66] = Instruction{ModeZeroPage, OpROR}
	t[0x76] = Instruction{ModeZeroPageX, OpROR}
	t[0x6e] = Instruction{ModeAbsolute, OpROR}
	t[0x7e] = Instruction{ModeAbsoluteX, OpROR}
	t[0x40] = Instruction{ModeImplied, OpRTI}
	t[0x60] = Instruction{ModeImplied, OpRTS}
	t[0xe9] = Instruction{ModeImmediate, OpSBC}
	t[0xe5] = Instruction{ModeZeroPage, OpSBC}
	t[0xf5] = Instruction{ModeZeroPageX, OpSBC}
	t[0xed] = Instruction{ModeAbsolute, OpSBC}
	t[0xfd] = Instruction{ModeAbsoluteX, OpSBC}
	t[0xf9] = Instruction{ModeAbsoluteY, OpSBC}
	t[0xe1] = Instruction{ModeIndirectX, OpSBC}
	t[0xf1] = Instruction{ModeIndirectY, OpSBC}
	t[0x38] = Instruction{ModeImplied, OpSEC}
	t[0xf8] = Instruction{ModeImplied, OpSED}
	t[0x78] = Instruction{ModeImplied, OpSEI}
	t[0x85] = Instruction{ModeZeroPage, OpSTA}
	t[0x95] = Instruction{ModeZeroPageX, OpSTA}
	t[0x8d] = Instruction{ModeAbsolute, OpSTA}
	t[0x9d] = Instruction{ModeAbsoluteX, OpSTA}
	t[0x99] = Instruction{ModeAbsoluteY, OpSTA}
	t[0x81] = Instruction{ModeIndirectX, OpSTA}
	t[0x91] = Instruction{ModeIndirectY, OpSTA}
	t[0x86] = Instruction{ModeZeroPage, OpSTX}
	t[0x96] = Instruction{ModeZeroPageY, OpSTX}
	t[0x8e] = Instruction{ModeAbsolute, OpSTX}
	t[0x84] = Instruction{ModeZeroPage, OpSTY}
	t[0x94] = Instruction{ModeZeroPageX, OpSTY}
	t[0x8c] = Instruction{ModeAbsolute, OpSTY}
	t[0xaa] = Instruction{ModeImplied, OpTAX}
	t[0xa8] = Instruction{ModeImplied, OpTAY}
	t[0xba] = Instruction{ModeImplied, OpTSX}
	t[0x8a] = Instruction{ModeImplied, OpTXA}
	t[0x9a] = Instruction{ModeImplied, OpTXS}
	t[0x98] = Instruction{ModeImplied, OpTYA}
	return t
}

func cycles(n uint8) CycleCount {
	return CycleCount{Base: n}
}

func cyclesWithExtraCost(n uint8) CycleCount {
	return CycleCount{Base: n, PageBoundaryExtra: true}
}

// CycleCost returns the base cycle count of an instruction, per the
// 6502 cycle time reference tables.
func CycleCost(in Instruction) (CycleCount, error) {
	switch in.Op {
	// The most common latency set: arithmetic, logical and memory reads.
	case OpADC, OpAND, OpBIT, OpCMP, OpCPX, OpCPY, OpEOR,
		OpLDA, OpLDX, OpLDY, OpORA, OpSBC, OpSTX, OpSTY:
		switch in.Mode {
		case ModeImmediate:
			return cycles(2), nil
		case ModeZeroPage:
			return cycles(3), nil
		case ModeZeroPageX, ModeZeroPageY, ModeAbsolute:
			return cycles(4), nil
		case ModeAbsoluteX, ModeAbsoluteY:
			return cyclesWithExtraCost(4), nil
		case ModeIndirectX:
			return cycles(6), nil
		case ModeIndirectY:
			return cyclesWithExtraCost(5), nil
		}

	// Read-modify-write: shifts, rotates, memory increment/decrement.
	case OpASL, OpDEC, OpINC, OpLSR, OpROL, OpROR:
		switch in.Mode {
		case ModeAccumulator:
			return cycles(2), nil
		case ModeZeroPage:
			return cycles(5), nil
		case ModeZeroPageX, ModeAbsolute:
			return cycles(6), nil
		case ModeAbsoluteX:
			return cycles(7), nil
		}

	case OpBCC, OpBCS, OpBEQ, OpBMI, OpBNE, OpBPL, OpBVC, OpBVS:
		if in.Mode == ModeImmediate {
			return cyclesWithExtraCost(2), nil
		}

	case OpBRK:
		if in.Mode == ModeImplied {
			return cycles(7), nil
		}

	// Two-cycle implied instructions: flag set/clear, register transfers
	// and register increment/decrement.
	case OpCLC, OpCLD, OpCLI, OpCLV, OpDEX, OpDEY, OpINX, OpINY,
		OpNOP, OpSEC, OpSED, OpSEI, OpTAX, OpTAY, OpTSX, OpTXA,
		OpTXS, OpTYA:
		if in.Mode == ModeImplied {
			return cycles(2), nil
		}

	case OpJMP:
		switch in.Mode {
		case ModeAbsolute:
			return cycles(3), nil
		case ModeIndirect:
			return cycles(5), nil
		}

	case OpJSR:
		if in.Mode == ModeAbsolute {
			return cycles(6), nil
		}

	case OpRTI, OpRTS:
		if in.Mode == ModeImplied {
			return cycles(6), nil
		}

	case OpPHA, OpPHP:
		if in.Mode == ModeImplied {
			return cycles(3), nil
		}

	case OpPLA, OpPLP:
		if in.Mode == ModeImplied {
			return cycles(4), nil
		}

	case OpSTA:
		switch in.Mode {
		case ModeZeroPage:
			return cycles(3), nil
		case ModeZeroPageX, ModeAbsolute:
			return cycles(4), nil
		case ModeAbsoluteX, ModeAbsoluteY:
			return cycles(5), nil
		case ModeIndirectX, ModeIndirectY:
			return cycles(6), nil
		}
	}

	return CycleCount{}, errors.Wrapf(ErrNoCycleCount, "%s", in)
}
