package m6502

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Decode(t *testing.T) {
	type testArgs struct {
		opcode       uint8
		expectedMode Mode
		expectedOp   Operation
	}

	testDo := func(t *testing.T, in testArgs) {
		instr, err := Decode(in.opcode)
		require.NoError(t, err)
		assert.Equal(t, in.expectedMode, instr.Mode, "mode")
		assert.Equal(t, in.expectedOp, instr.Op, "operation")
	}

	t.Run("ADC immediate", func(t *testing.T) {
		testDo(t, testArgs{opcode: 0x69, expectedMode: ModeImmediate, expectedOp: OpADC})
	})

	t.Run("BRK implied", func(t *testing.T) {
		testDo(t, testArgs{opcode: 0x00, expectedMode: ModeImplied, expectedOp: OpBRK})
	})

	t.Run("JMP absolute", func(t *testing.T) {
		testDo(t, testArgs{opcode: 0x4c, expectedMode: ModeAbsolute, expectedOp: OpJMP})
	})

	t.Run("JMP indirect", func(t *testing.T) {
		testDo(t, testArgs{opcode: 0x6c, expectedMode: ModeIndirect, expectedOp: OpJMP})
	})

	t.Run("LDX zero page Y", func(t *testing.T) {
		testDo(t, testArgs{opcode: 0xb6, expectedMode: ModeZeroPageY, expectedOp: OpLDX})
	})

	t.Run("branches decode as immediate", func(t *testing.T) {
		testDo(t, testArgs{opcode: 0x90, expectedMode: ModeImmediate, expectedOp: OpBCC})
		testDo(t, testArgs{opcode: 0xf0, expectedMode: ModeImmediate, expectedOp: OpBEQ})
	})

	t.Run("illegal opcodes error", func(t *testing.T) {
		for _, opcode := range []uint8{0x02, 0x80, 0x9e, 0xff} {
			_, err := Decode(opcode)
			assert.ErrorIs(t, err, ErrUnknownOpcode, "opcode %#02x", opcode)
		}
	})
}

func Test_Decode_EncodeRoundTrip(t *testing.T) {
	legal := 0
	for opcode := 0; opcode <= 0xff; opcode++ {
		instr, err := Decode(uint8(opcode))
		if errors.Is(err, ErrUnknownOpcode) {
			continue
		}
		require.NoError(t, err)
		legal++

		back, err := Encode(instr)
		require.NoError(t, err, "opcode %#02x", opcode)
		assert.Equal(t, uint8(opcode), back, "opcode %#02x", opcode)
	}

	// the documented instruction set
	assert.Equal(t, 151, legal)
}

func Test_Encode(t *testing.T) {
	t.Run("inverse of decode for every table entry", func(t *testing.T) {
		for opcode := 0; opcode <= 0xff; opcode++ {
			instr, err := Decode(uint8(opcode))
			if err != nil {
				continue
			}
			back, err := Encode(instr)
			require.NoError(t, err)
			decoded, err := Decode(back)
			require.NoError(t, err)
			assert.Equal(t, instr, decoded)
		}
	})

	t.Run("pair outside the table errors", func(t *testing.T) {
		_, err := Encode(Instruction{Mode: ModeImmediate, Op: OpSTA})
		assert.ErrorIs(t, err, ErrNoEncoding)

		_, err = Encode(Instruction{Mode: ModeIndirect, Op: OpLDA})
		assert.ErrorIs(t, err, ErrNoEncoding)
	})
}

func Test_CycleCost(t *testing.T) {
	type testArgs struct {
		mode          Mode
		op            Operation
		expectedBase  uint8
		expectedExtra bool
	}

	testDo := func(t *testing.T, in testArgs) {
		cost, err := CycleCost(Instruction{Mode: in.mode, Op: in.op})
		require.NoError(t, err)
		assert.Equal(t, in.expectedBase, cost.Base, "base cycles")
		assert.Equal(t, in.expectedExtra, cost.PageBoundaryExtra, "page boundary extra")
	}

	tests := []testArgs{
		{ModeImmediate, OpADC, 2, false},
		{ModeZeroPage, OpLDA, 3, false},
		{ModeAbsoluteX, OpLDA, 4, true},
		{ModeIndirectY, OpLDA, 5, true},
		{ModeIndirectX, OpCMP, 6, false},
		{ModeAccumulator, OpASL, 2, false},
		{ModeAbsoluteX, OpROR, 7, false},
		{ModeImmediate, OpBNE, 2, true},
		{ModeImplied, OpBRK, 7, false},
		{ModeImplied, OpTAX, 2, false},
		{ModeAbsolute, OpJMP, 3, false},
		{ModeIndirect, OpJMP, 5, false},
		{ModeAbsolute, OpJSR, 6, false},
		{ModeImplied, OpRTS, 6, false},
		{ModeImplied, OpPHA, 3, false},
		{ModeImplied, OpPLP, 4, false},
		{ModeAbsoluteY, OpSTA, 5, false},
		{ModeIndirectY, OpSTA, 6, false},
	}
	for _, in := range tests {
		t.Run(fmt.Sprintf("%s %s", in.op, in.mode), func(t *testing.T) {
			testDo(t, in)
		})
	}

	t.Run("every decodable opcode has a cost", func(t *testing.T) {
		for opcode := 0; opcode <= 0xff; opcode++ {
			instr, err := Decode(uint8(opcode))
			if err != nil {
				continue
			}
			_, err = CycleCost(instr)
			assert.NoError(t, err, "opcode %#02x (%s)", opcode, instr)
		}
	})

	t.Run("pair outside the table errors", func(t *testing.T) {
		_, err := CycleCost(Instruction{Mode: ModeIndirect, Op: OpADC})
		assert.ErrorIs(t, err, ErrNoCycleCount)
	})
}
