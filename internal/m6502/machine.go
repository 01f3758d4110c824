package m6502

import "github.com/pkg/errors"

const (
	memorySize     = 0x10000
	stackStartAddr = uint16(0x100)
)

const (
	flagC = uint8(1 << iota) // Carry
	flagZ                    // Zero
	flagI                    // Interrupt Disable
	flagD                    // Decimal Mode
	flagB                    // Break Command
	flagU                    // Unused, reads as set
	flagV                    // Overflow
	flagN                    // Negative
)

// Memory is the flat 64 KB address space. Addresses are uint16, so every
// access wraps modulo 65536 and there is no out-of-bounds condition.
type Memory [memorySize]uint8

func (m *Memory) Read8(addr uint16) uint8 {
	return m[addr]
}

func (m *Memory) Read16(addr uint16) uint16 {
	return uint16(m.Read8(addr)) | uint16(m.Read8(addr+1))<<8
}

func (m *Memory) Write8(addr uint16, data uint8) {
	m[addr] = data
}

// RegisterFile is the 6502 register set. P always carries the unused
// bit 5 set.
type RegisterFile struct {
	A  uint8
	X  uint8
	Y  uint8
	P  uint8
	SP uint8
	PC uint16
}

// Machine is a single 6502 with its memory image. It is not safe for
// concurrent use; run independent machines on independent values.
type Machine struct {
	regs    RegisterFile
	mem     *Memory
	cycles  uint64
	haltErr error
}

// New returns a machine with zeroed registers and a zero-filled 64 KB
// memory image.
func New() *Machine {
	return &Machine{
		regs: RegisterFile{P: flagU},
		mem:  &Memory{},
	}
}

// NewFromImage returns a machine whose memory is initialized from image,
// placed at address 0 and zero-filled beyond its length. Images over 64 KB
// are rejected.
func NewFromImage(image []byte) (*Machine, error) {
	if len(image) > memorySize {
		return nil, errors.Wrapf(ErrImageTooLarge, "%d bytes", len(image))
	}
	m := New()
	copy(m.mem[:], image)
	return m, nil
}

// Registers returns a copy of the register file.
func (m *Machine) Registers() RegisterFile {
	return m.regs
}

// Memory returns the machine's memory image.
func (m *Machine) Memory() *Memory {
	return m.mem
}

// Cycles returns the accumulated cycle count of all executed instructions:
// base cost plus the page-boundary extra where the instruction pays it.
func (m *Machine) Cycles() uint64 {
	return m.cycles
}

func (m *Machine) getFlag(flag uint8) bool {
	return m.regs.P&flag > 0
}

func (m *Machine) setFlag(flag uint8, v bool) {
	if v {
		m.regs.P |= flag
		return
	}
	m.regs.P &= ^flag
}

func (m *Machine) setFlagsZN(value uint8) {
	m.setFlag(flagZ, value == 0)
	m.setFlag(flagN, value&flagN > 0)
}

func (m *Machine) stackPush8(data uint8) {
	m.mem.Write8(stackStartAddr|uint16(m.regs.SP), data)
	m.regs.SP--
}

func (m *Machine) stackPush16(data uint16) {
	m.stackPush8(uint8(data >> 8))
	m.stackPush8(uint8(data & 0xff))
}

func (m *Machine) stackPop8() uint8 {
	m.regs.SP++
	return m.mem.Read8(stackStartAddr | uint16(m.regs.SP))
}

func (m *Machine) stackPop16() uint16 {
	lo := uint16(m.stackPop8())
	hi := uint16(m.stackPop8())
	return lo | hi<<8
}

// Step executes exactly one instruction. On failure the machine halts:
// registers are restored to their values at entry and every further Step
// returns the same error without touching any state.
func (m *Machine) Step() error {
	if m.haltErr != nil {
		return m.haltErr
	}

	saved := m.regs
	if err := m.step(); err != nil {
		m.regs = saved
		m.haltErr = err
		return err
	}
	return nil
}

func (m *Machine) step() error {
	pc := m.regs.PC
	opcode := m.mem.Read8(pc)

	in, err := Decode(opcode)
	if err != nil {
		return errors.Wrapf(err, "PC %#04x", pc)
	}
	cost, err := CycleCost(in)
	if err != nil {
		return errors.Wrapf(err, "PC %#04x", pc)
	}
	m.regs.PC++

	opr, pageCrossed := m.resolve(in.Mode)
	if err := m.execute(in.Op, opr); err != nil {
		return errors.Wrapf(err, "PC %#04x", pc)
	}

	m.cycles += uint64(cost.Base)
	if pageCrossed && cost.PageBoundaryExtra {
		m.cycles++
	}
	return nil
}

// Run executes up to n instructions, stopping at the first failure. It
// returns the number of instructions that completed together with the
// error that stopped the run, if any.
func (m *Machine) Run(n int) (int, error) {
	for i := 0; i < n; i++ {
		if err := m.Step(); err != nil {
			return i, err
		}
	}
	return n, nil
}
