package m6502

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Pushes the Fibonacci sequence onto the stack until an addition
// overflows, then spins on a branch to itself.
var fibonacciImage = []byte{
	0x18,       // CLC
	0xa2, 0x00, // LDX #0
	0xa0, 0x01, // LDY #1
	0x98,       // loop: TYA
	0x86, 0x20, // STX $20
	0x65, 0x20, // ADC $20
	0xb0, 0x06, // BCS end
	0x48,       // PHA
	0xa4, 0x20, // LDY $20
	0xaa,       // TAX
	0x90, 0xf3, // BCC loop
	0xb0, 0xfe, // end: BCS end
}

func Test_Machine_New(t *testing.T) {
	m := New()

	regs := m.Registers()
	assert.Equal(t, uint8(0), regs.A)
	assert.Equal(t, uint8(0), regs.X)
	assert.Equal(t, uint8(0), regs.Y)
	assert.Equal(t, uint8(0), regs.SP)
	assert.Equal(t, uint16(0), regs.PC)
	assert.Equal(t, flagU, regs.P, "only the unused bit is set")
	assert.Equal(t, uint64(0), m.Cycles())
}

func Test_Machine_NewFromImage(t *testing.T) {
	t.Run("image lands at address zero", func(t *testing.T) {
		m, err := NewFromImage([]byte{0xa9, 0x42})
		require.NoError(t, err)

		assert.Equal(t, uint8(0xa9), m.Memory().Read8(0x0000))
		assert.Equal(t, uint8(0x42), m.Memory().Read8(0x0001))
		assert.Equal(t, uint8(0x00), m.Memory().Read8(0x0002), "zero filled beyond the image")
	})

	t.Run("a full 64 KB image is accepted", func(t *testing.T) {
		_, err := NewFromImage(make([]byte, memorySize))
		assert.NoError(t, err)
	})

	t.Run("oversized image is rejected", func(t *testing.T) {
		_, err := NewFromImage(make([]byte, memorySize+1))
		assert.ErrorIs(t, err, ErrImageTooLarge)
	})
}

func Test_Machine_Step(t *testing.T) {
	t.Run("advances PC and counts cycles", func(t *testing.T) {
		m, err := NewFromImage([]byte{0xa9, 0x42}) // LDA #$42
		require.NoError(t, err)

		require.NoError(t, m.Step())

		regs := m.Registers()
		assert.Equal(t, uint8(0x42), regs.A)
		assert.Equal(t, uint16(0x0002), regs.PC)
		assert.Equal(t, uint64(2), m.Cycles())
	})

	t.Run("page boundary crossing pays the extra cycle", func(t *testing.T) {
		// LDX #$01; LDA $12ff,X
		m, err := NewFromImage([]byte{0xa2, 0x01, 0xbd, 0xff, 0x12})
		require.NoError(t, err)

		require.NoError(t, m.Step())
		require.NoError(t, m.Step())

		assert.Equal(t, uint64(2+4+1), m.Cycles())
	})

	t.Run("same access without crossing stays at the base cost", func(t *testing.T) {
		// LDX #$01; LDA $1200,X
		m, err := NewFromImage([]byte{0xa2, 0x01, 0xbd, 0x00, 0x12})
		require.NoError(t, err)

		require.NoError(t, m.Step())
		require.NoError(t, m.Step())

		assert.Equal(t, uint64(2+4), m.Cycles())
	})

	t.Run("failed step restores the registers", func(t *testing.T) {
		// SED; ADC #$01
		m, err := NewFromImage([]byte{0xf8, 0x69, 0x01})
		require.NoError(t, err)

		require.NoError(t, m.Step())
		before := m.Registers()
		cycles := m.Cycles()

		err = m.Step()

		assert.ErrorIs(t, err, ErrUnimplemented)
		assert.Equal(t, before, m.Registers(), "registers rolled back")
		assert.Equal(t, cycles, m.Cycles(), "no cycles charged")
	})
}

func Test_Machine_HaltLatching(t *testing.T) {
	m, err := NewFromImage([]byte{0x02}) // illegal opcode
	require.NoError(t, err)

	first := m.Step()
	require.ErrorIs(t, first, ErrUnknownOpcode)
	assert.Equal(t, uint16(0x0000), m.Registers().PC, "PC unchanged")

	second := m.Step()
	assert.Equal(t, first, second, "the same error on every later step")

	n, err := m.Run(10)
	assert.Equal(t, 0, n)
	assert.Equal(t, first, err)
}

func Test_Machine_Run(t *testing.T) {
	t.Run("stops at the first failure", func(t *testing.T) {
		// NOP; NOP; NOP; illegal
		m, err := NewFromImage([]byte{0xea, 0xea, 0xea, 0x02})
		require.NoError(t, err)

		n, err := m.Run(10)

		assert.Equal(t, 3, n)
		assert.ErrorIs(t, err, ErrUnknownOpcode)
	})

	t.Run("runs exactly n instructions", func(t *testing.T) {
		m, err := NewFromImage([]byte{0xe8, 0xe8, 0xe8, 0xe8}) // INX x4
		require.NoError(t, err)

		n, err := m.Run(3)

		require.NoError(t, err)
		assert.Equal(t, 3, n)
		assert.Equal(t, uint8(3), m.Registers().X)
	})
}

func Test_Machine_Fibonacci(t *testing.T) {
	m, err := NewFromImage(fibonacciImage)
	require.NoError(t, err)

	n, err := m.Run(600)
	require.NoError(t, err, "the trailing spin loop is harmless")
	assert.Equal(t, 600, n)

	// SP starts at zero, so the first push lands at the bottom of the
	// stack page and the rest descend from the top.
	assert.Equal(t, uint8(1), m.Memory().Read8(0x0100))

	expected := []uint8{1, 2, 3, 5, 8, 13, 21, 34, 55, 89, 144, 233}
	for i, want := range expected {
		addr := uint16(0x01ff - i)
		assert.Equal(t, want, m.Memory().Read8(addr), "stack slot %#04x", addr)
	}
	assert.Equal(t, uint8(0x00), m.Memory().Read8(0x01f3), "nothing below the last push")

	assert.True(t, m.getFlag(flagC), "the overflowing addition left carry set")
}
