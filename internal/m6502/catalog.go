package m6502

import "github.com/pkg/errors"

// Operation is one of the 56 documented 6502 mnemonics.
type Operation uint8

const (
	OpADC Operation = iota + 1
	OpAND
	OpASL
	OpBCC
	OpBCS
	OpBEQ
	OpBIT
	OpBMI
	OpBNE
	OpBPL
	OpBRK
	OpBVC
	OpBVS
	OpCLC
	OpCLD
	OpCLI
	OpCLV
	OpCMP
	OpCPX
	OpCPY
	OpDEC
	OpDEX
	OpDEY
	OpEOR
	OpINC
	OpINX
	OpINY
	OpJMP
	OpJSR
	OpLDA
	OpLDX
	OpLDY
	OpLSR
	OpNOP
	OpORA
	OpPHA
	OpPHP
	OpPLA
	OpPLP
	OpROL
	OpROR
	OpRTI
	OpRTS
	OpSBC
	OpSEC
	OpSED
	OpSEI
	OpSTA
	OpSTX
	OpSTY
	OpTAX
	OpTAY
	OpTSX
	OpTXA
	OpTXS
	OpTYA
)

var operationNames = [...]string{
	OpADC: "ADC", OpAND: "AND", OpASL: "ASL", OpBCC: "BCC",
	OpBCS: "BCS", OpBEQ: "BEQ", OpBIT: "BIT", OpBMI: "BMI",
	OpBNE: "BNE", OpBPL: "BPL", OpBRK: "BRK", OpBVC: "BVC",
	OpBVS: "BVS", OpCLC: "CLC", OpCLD: "CLD", OpCLI: "CLI",
	OpCLV: "CLV", OpCMP: "CMP", OpCPX: "CPX", OpCPY: "CPY",
	OpDEC: "DEC", OpDEX: "DEX", OpDEY: "DEY", OpEOR: "EOR",
	OpINC: "INC", OpINX: "INX", OpINY: "INY", OpJMP: "JMP",
	OpJSR: "JSR", OpLDA: "LDA", OpLDX: "LDX", OpLDY: "LDY",
	OpLSR: "LSR", OpNOP: "NOP", OpORA: "ORA", OpPHA: "PHA",
	OpPHP: "PHP", OpPLA: "PLA", OpPLP: "PLP", OpROL: "ROL",
	OpROR: "ROR", OpRTI: "RTI", OpRTS: "RTS", OpSBC: "SBC",
	OpSEC: "SEC", OpSED: "SED", OpSEI: "SEI", OpSTA: "STA",
	OpSTX: "STX", OpSTY: "STY", OpTAX: "TAX", OpTAY: "TAY",
	OpTSX: "TSX", OpTXA: "TXA", OpTXS: "TXS", OpTYA: "TYA",
}

func (op Operation) String() string {
	if int(op) < len(operationNames) && operationNames[op] != "" {
		return operationNames[op]
	}
	return "???"
}

// OperationFromString maps a mnemonic to its Operation.
// The match is exact and upper-case.
func OperationFromString(s string) (Operation, error) {
	for op, name := range operationNames {
		if name == s {
			return Operation(op), nil
		}
	}
	return 0, errors.Errorf("unknown mnemonic %q", s)
}

// Mode is one of the 12 6502 addressing modes. Branch opcodes carry
// ModeImmediate: their operand byte is a signed displacement, interpreted
// by the branch handlers.
type Mode uint8

const (
	ModeAbsolute Mode = iota + 1
	ModeAbsoluteX
	ModeAbsoluteY
	ModeAccumulator
	ModeImmediate
	ModeImplied
	ModeIndirect
	ModeIndirectX
	ModeIndirectY
	ModeZeroPage
	ModeZeroPageX
	ModeZeroPageY
)

func (mode Mode) String() string {
	switch mode {
	case ModeAbsolute:
		return "ABS"
	case ModeAbsoluteX:
		return "ABSX"
	case ModeAbsoluteY:
		return "ABSY"
	case ModeAccumulator:
		return "ACC"
	case ModeImmediate:
		return "IMM"
	case ModeImplied:
		return "IMP"
	case ModeIndirect:
		return "IND"
	case ModeIndirectX:
		return "INDX"
	case ModeIndirectY:
		return "INDY"
	case ModeZeroPage:
		return "ZP"
	case ModeZeroPageX:
		return "ZPX"
	case ModeZeroPageY:
		return "ZPY"
	}
	return "???"
}
