package m6502

import "github.com/pkg/errors"

var (
	// ErrUnknownOpcode is returned by Decode for the 105 byte values with
	// no documented instruction, illegal opcodes included.
	ErrUnknownOpcode = errors.New("unknown opcode")

	// ErrNoEncoding is returned by Encode for a (mode, operation) pair
	// that has no opcode byte.
	ErrNoEncoding = errors.New("no encoding for instruction")

	// ErrNoCycleCount is returned by CycleCost for a (mode, operation)
	// pair outside the opcode table.
	ErrNoCycleCount = errors.New("no cycle count for instruction")

	// ErrUnimplemented marks operations the machine decodes but refuses
	// to execute: BRK and decimal-mode arithmetic.
	ErrUnimplemented = errors.New("unimplemented operation")

	// ErrInvalidOperand marks a decoder/resolver mismatch, such as
	// reading an implied operand or jumping to a non-address one.
	ErrInvalidOperand = errors.New("invalid operand for operation")

	// ErrImageTooLarge is returned when a memory image exceeds the
	// 64 KB address space.
	ErrImageTooLarge = errors.New("memory image too large")
)
