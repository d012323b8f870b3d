package cpu

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dangreco/mipped/pkg/emulator/arch"
	"github.com/dangreco/mipped/pkg/emulator/bus"
	"github.com/dangreco/mipped/pkg/emulator/interrupt"
	"github.com/dangreco/mipped/pkg/emulator/memmap"
)

func assert(t *testing.T, cond bool, format string, args ...any) {
	t.Helper()
	if !cond {
		t.Fatalf(fmt.Sprintf("%v %s", cond, format), args...)
	}
}

func newCPU(t *testing.T, words ...uint32) *CPU {
	t.Helper()
	code := make([]byte, 4*len(words))
	for i, w := range words {
		code[4*i] = byte(w)
		code[4*i+1] = byte(w >> 8)
		code[4*i+2] = byte(w >> 16)
		code[4*i+3] = byte(w >> 24)
	}
	c := New(bus.New())
	assert(t, c.Load(code) == nil, "Load failed")
	return c
}

// rtype and itype mirror the assembler's own encoders so tests read close
// to the spec's instruction tables rather than raw hex.
func rtype(funct, rd, rs, rt, shamt uint32) uint32 {
	return (rs&0x1f)<<21 | (rt&0x1f)<<16 | (rd&0x1f)<<11 | (shamt&0x1f)<<6 | (funct & 0x3f)
}

func itype(opcode, rs, rt, imm uint32) uint32 {
	return (opcode&0x3f)<<26 | (rs&0x1f)<<21 | (rt&0x1f)<<16 | (imm & 0xffff)
}

func TestZeroWordHaltsCleanlyWithoutMutation(t *testing.T) {
	c := newCPU(t, 0)
	c.Regs[arch.T0] = 0x1234
	done, err := c.Step()
	assert(t, err == nil, "Step: %v", err)
	assert(t, done, "expected clean halt on a zero instruction word")
	assert(t, c.Regs[arch.T0] == 0x1234, "zero-word halt must not mutate registers")
}

func TestPCAdvancesByFourOnNonBranch(t *testing.T) {
	// ORI $t0, $zero, 5
	c := newCPU(t, itype(0x0D, arch.ZERO, arch.T0, 5))
	done, err := c.Step()
	assert(t, err == nil && !done, "Step: done=%v err=%v", done, err)
	assert(t, c.PC == 4, "expected PC=4, got %d", c.PC)
	assert(t, c.Regs[arch.T0] == 5, "expected $t0=5, got %d", c.Regs[arch.T0])
}

func TestAddOverflowTraps(t *testing.T) {
	// ADD $t2, $t0, $t1
	c := newCPU(t, rtype(0x20, arch.T2, arch.T0, arch.T1, 0))
	c.Regs[arch.T0] = 0x7fffffff
	c.Regs[arch.T1] = 1
	_, err := c.Step()
	var ovf interrupt.Overflow
	assert(t, errors.As(err, &ovf), "expected Overflow, got %v", err)
}

func TestAdduWraps(t *testing.T) {
	// ADDU $t2, $t0, $t1
	c := newCPU(t, rtype(0x21, arch.T2, arch.T0, arch.T1, 0))
	c.Regs[arch.T0] = 0x7fffffff
	c.Regs[arch.T1] = 1
	_, err := c.Step()
	assert(t, err == nil, "ADDU should not trap: %v", err)
	assert(t, int32(c.Regs[arch.T2]) == int32(-2147483648), "expected wraparound to INT32_MIN, got %d", int32(c.Regs[arch.T2]))
}

func TestBadLoadAddressFaults(t *testing.T) {
	// LW $t0, 0($zero)
	c := newCPU(t, itype(0x22, arch.ZERO, arch.T0, 0))
	_, err := c.Step()
	var fault interrupt.AddrLoad
	assert(t, errors.As(err, &fault), "expected AddrLoad, got %v", err)
	assert(t, fault.Addr == 0, "expected faulting address 0, got %#x", fault.Addr)
}

func TestSignExtensionRoundTrip(t *testing.T) {
	// SB $t0, 0($s0); LB $t1, 0($s0); LBU $t2, 0($s0)
	c := newCPU(t,
		itype(0x28, arch.S0, arch.T0, 0),
		itype(0x20, arch.S0, arch.T1, 0),
		itype(0x24, arch.S0, arch.T2, 0),
	)
	c.Regs[arch.S0] = memmap.DRAMBase + 0x100
	c.Regs[arch.T0] = 0x80
	for i := 0; i < 3; i++ {
		_, err := c.Step()
		assert(t, err == nil, "Step %d: %v", i, err)
	}
	assert(t, c.Regs[arch.T1] == 0xFFFFFF80, "LB: got %#x", c.Regs[arch.T1])
	assert(t, c.Regs[arch.T2] == 0x00000080, "LBU: got %#x", c.Regs[arch.T2])
}

func TestJRMisalignedFaultsAndLeavesPC(t *testing.T) {
	// JR $t0
	c := newCPU(t, rtype(0x08, 0, arch.T0, 0, 0))
	c.Regs[arch.T0] = memmap.DRAMBase + 1
	before := c.PC
	_, err := c.Step()
	var align interrupt.Alignment
	assert(t, errors.As(err, &align), "expected Alignment, got %v", err)
	assert(t, c.PC == before+4, "misaligned JR must not change PC beyond the normal +4 advance, got %d", c.PC)
}

func TestDivideByZeroFaults(t *testing.T) {
	// DIV $t0, $t1
	c := newCPU(t, rtype(0x1A, 0, arch.T0, arch.T1, 0))
	c.Regs[arch.T0] = 10
	c.Regs[arch.T1] = 0
	_, err := c.Step()
	var dbz interrupt.DivideByZero
	assert(t, errors.As(err, &dbz), "expected DivideByZero, got %v", err)
}

func TestBEQTakenBranchesRelativeToPCPlusEight(t *testing.T) {
	// BEQ $zero, $zero, 2 — the target is (origPC+8) + imm*4, per the
	// convention that "PC" in the branch formula already means the
	// post-increment program counter.
	c := newCPU(t, itype(0x04, arch.ZERO, arch.ZERO, 2), 0, 0, 0)
	_, err := c.Step()
	assert(t, err == nil, "Step: %v", err)
	assert(t, c.PC == 16, "expected branch target PC=16, got %d", c.PC)
}

func TestJALSetsReturnAddressAndTarget(t *testing.T) {
	// JAL 0x40
	c := newCPU(t, jtype(0x03, 0x40>>2))
	_, err := c.Step()
	assert(t, err == nil, "Step: %v", err)
	assert(t, c.Regs[arch.RA] == 8, "expected $ra=8, got %d", c.Regs[arch.RA])
	assert(t, c.PC == 0x40, "expected PC=0x40, got %#x", c.PC)
}

func jtype(opcode, target uint32) uint32 {
	return (opcode&0x3f)<<26 | (target & 0x3ffffff)
}
