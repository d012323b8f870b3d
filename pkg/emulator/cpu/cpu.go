// Package cpu implements the MIPS-I integer decode-and-dispatch loop:
// register file, program counter, HI/LO accumulators, and the fetch/step
// cycle that drives one instruction at a time through the bus.
package cpu

import (
	"math"

	"github.com/dangreco/mipped/pkg/emulator/arch"
	"github.com/dangreco/mipped/pkg/emulator/bus"
	"github.com/dangreco/mipped/pkg/emulator/interrupt"
	"github.com/dangreco/mipped/pkg/emulator/memmap"
)

// CPU holds all interpreter-owned state: the 32-slot register file, the
// DRAM-relative program counter, the HI/LO multiply/divide accumulators,
// the JALR scratch register, and the bus it fetches and executes through.
type CPU struct {
	Regs [arch.NumRegisters]uint32
	PC   uint32
	TMP  uint32
	HI   uint32
	LO   uint32
	Bus  *bus.Bus
}

// New returns a CPU with all registers, PC, HI, LO, and TMP zeroed,
// wired to the given bus.
func New(b *bus.Bus) *CPU {
	return &CPU{Bus: b}
}

// Load installs code at DRAM offset 0 via the bus's splice operation.
func (c *CPU) Load(code []byte) error {
	return c.Bus.Splice(0, code)
}

// Step fetches and executes exactly one instruction. done reports clean
// termination: the program counter has run past the end of DRAM, or the
// fetched word was all zero bits (halt by convention). A non-nil error is
// an interrupt raised during fetch or execution; done is meaningless when
// err is non-nil.
func (c *CPU) Step() (done bool, err error) {
	if c.PC >= c.Bus.DRAM.Size() {
		return true, nil
	}
	inst, err := c.fetch()
	if err != nil {
		return false, err
	}
	if inst == 0 {
		return true, nil
	}
	c.PC += 4
	if err := c.execute(inst); err != nil {
		return false, err
	}
	return false, nil
}

func (c *CPU) fetch() (uint32, error) {
	addr := memmap.DRAMBase + c.PC
	return c.Bus.Load(addr, 32)
}

// execute decodes and runs one instruction word. On entry, c.PC already
// holds the post-increment program counter (the address of the next
// sequential instruction) — every jump/branch formula below that
// references "PC" means this value, per the specification's convention.
func (c *CPU) execute(inst uint32) error {
	r := &c.Regs
	opcode := (inst >> 26) & 0x3f
	rs := (inst >> 21) & 0x1f
	rt := (inst >> 16) & 0x1f
	rd := (inst >> 11) & 0x1f

	switch opcode {

	// ----- R-type -----
	case 0x00:
		funct := inst & 0x3f
		shamt := (inst >> 6) & 0x1f

		switch funct {
		case 0x00: // SLL
			r[rd] = r[rt] << shamt
		case 0x02: // SRL
			r[rd] = r[rt] >> shamt
		case 0x03: // SRA
			r[rd] = uint32(int32(r[rt]) >> shamt)
		case 0x04: // SLLV
			r[rd] = r[rt] << (r[rs] & 0x1f)
		case 0x06: // SRLV
			r[rd] = r[rt] >> (r[rs] & 0x1f)
		case 0x07: // SRAV
			r[rd] = uint32(int32(r[rt]) >> (r[rs] & 0x1f))
		case 0x08: // JR
			addr := r[rs]
			if addr&3 != 0 {
				return interrupt.Alignment{Addr: addr}
			}
			c.PC = addr
		case 0x09: // JALR
			if rs == rd {
				return interrupt.Undefined{}
			}
			addr := r[rs]
			if addr&3 != 0 {
				return interrupt.Alignment{Addr: addr}
			}
			c.TMP = addr
			r[rd] = c.PC + 4
			c.PC = c.TMP
		case 0x0C: // SYSCALL
			return interrupt.Syscall{}
		case 0x10: // MFHI
			r[rd] = c.HI
		case 0x11: // MTHI
			c.HI = r[rs]
		case 0x12: // MFLO
			r[rd] = c.LO
		case 0x13: // MTLO
			c.LO = r[rs]
		case 0x18: // MULT
			a := int64(int32(r[rs]))
			b := int64(int32(r[rt]))
			res := a * b
			c.HI = uint32(uint64(res) >> 32)
			c.LO = uint32(res)
		case 0x19: // MULTU
			a := uint64(r[rs])
			b := uint64(r[rt])
			res := a * b
			c.HI = uint32(res >> 32)
			c.LO = uint32(res)
		case 0x1A: // DIV
			if r[rt] == 0 {
				return interrupt.DivideByZero{}
			}
			a := int32(r[rs])
			b := int32(r[rt])
			c.LO = uint32(a / b)
			c.HI = uint32(a % b)
		case 0x1B: // DIVU
			if r[rt] == 0 {
				return interrupt.DivideByZero{}
			}
			a := r[rs]
			b := r[rt]
			c.LO = a / b
			c.HI = a % b
		case 0x20: // ADD
			res, ok := addOverflows(int32(r[rs]), int32(r[rt]))
			if !ok {
				return interrupt.Overflow{}
			}
			r[rd] = uint32(res)
		case 0x21: // ADDU
			r[rd] = r[rs] + r[rt]
		case 0x22: // SUB
			res, ok := subOverflows(int32(r[rs]), int32(r[rt]))
			if !ok {
				return interrupt.Overflow{}
			}
			r[rd] = uint32(res)
		case 0x23: // SUBU
			r[rd] = r[rs] - r[rt]
		case 0x24: // AND
			r[rd] = r[rs] & r[rt]
		case 0x25: // OR
			r[rd] = r[rs] | r[rt]
		case 0x26: // XOR
			r[rd] = r[rs] ^ r[rt]
		case 0x27: // NOR
			r[rd] = ^(r[rs] | r[rt])
		case 0x2A: // SLT
			if int32(r[rs]) < int32(r[rt]) {
				r[rd] = 1
			} else {
				r[rd] = 0
			}
		case 0x2B: // SLTU
			if r[rs] < r[rt] {
				r[rd] = 1
			} else {
				r[rd] = 0
			}
		default:
			return interrupt.UnsupportedInstr{Instr: inst}
		}

	// ----- J-type -----
	case 0x02: // J
		target := inst & 0x3ffffff
		c.PC = ((c.PC + 4) & 0xf000_0000) | (target << 2)
	case 0x03: // JAL
		r[arch.RA] = c.PC + 4
		target := inst & 0x3ffffff
		c.PC = ((c.PC + 4) & 0xf000_0000) | (target << 2)

	// ----- I-type -----
	case 0x04: // BEQ
		if r[rs] == r[rt] {
			imm := signExt((inst&0xffff)<<2, 18)
			c.PC = uint32(int32(c.PC) + 4 + imm)
		}
	case 0x05: // BNE
		if r[rs] != r[rt] {
			imm := signExt((inst&0xffff)<<2, 18)
			c.PC = uint32(int32(c.PC) + 4 + imm)
		}
	case 0x06: // BLEZ
		if int32(r[rs]) <= 0 {
			imm := signExt((inst&0xffff)<<2, 18)
			c.PC = uint32(int32(c.PC) + 4 + imm)
		}
	case 0x07: // BGTZ
		if int32(r[rs]) > 0 {
			imm := signExt((inst&0xffff)<<2, 18)
			c.PC = uint32(int32(c.PC) + 4 + imm)
		}
	case 0x08: // ADDI (wraps, unchecked)
		imm := signExt(inst&0xffff, 16)
		r[rt] = uint32(int32(r[rs]) + imm)
	case 0x09: // ADDIU (checked, per this spec's reversed convention)
		imm := signExt(inst&0xffff, 16)
		res, ok := addOverflows(int32(r[rs]), imm)
		if !ok {
			return interrupt.Overflow{}
		}
		r[rt] = uint32(res)
	case 0x0A: // SLTI
		imm := signExt(inst&0xffff, 16)
		if int32(r[rs]) < imm {
			r[rt] = 1
		} else {
			r[rt] = 0
		}
	case 0x0B: // SLTIU (immediate zero-extended, per this spec)
		imm := inst & 0xffff
		if r[rs] < imm {
			r[rt] = 1
		} else {
			r[rt] = 0
		}
	case 0x0C: // ANDI
		r[rt] = r[rs] & (inst & 0xffff)
	case 0x0D: // ORI
		r[rt] = r[rs] | (inst & 0xffff)
	case 0x0E: // XORI
		r[rt] = r[rs] ^ (inst & 0xffff)
	case 0x0F: // LUI
		r[rt] = (inst & 0xffff) << 16
	case 0x20: // LB
		addr := uint32(int32(r[rs]) + signExt(inst&0xffff, 16))
		b, err := c.Bus.Load(addr, 8)
		if err != nil {
			return err
		}
		r[rt] = uint32(signExt(b, 8))
	case 0x21: // LH
		addr := uint32(int32(r[rs]) + signExt(inst&0xffff, 16))
		h, err := c.Bus.Load(addr, 16)
		if err != nil {
			return err
		}
		r[rt] = uint32(signExt(h, 16))
	case 0x22: // LW
		addr := uint32(int32(r[rs]) + signExt(inst&0xffff, 16))
		w, err := c.Bus.Load(addr, 32)
		if err != nil {
			return err
		}
		r[rt] = w
	case 0x24: // LBU
		addr := uint32(int32(r[rs]) + signExt(inst&0xffff, 16))
		b, err := c.Bus.Load(addr, 8)
		if err != nil {
			return err
		}
		r[rt] = b & 0xff
	case 0x25: // LHU
		addr := uint32(int32(r[rs]) + signExt(inst&0xffff, 16))
		h, err := c.Bus.Load(addr, 16)
		if err != nil {
			return err
		}
		r[rt] = h & 0xffff
	case 0x28: // SB
		addr := uint32(int32(r[rs]) + signExt(inst&0xffff, 16))
		if err := c.Bus.Store(addr, 8, r[rt]&0xff); err != nil {
			return err
		}
	case 0x29: // SH
		addr := uint32(int32(r[rs]) + signExt(inst&0xffff, 16))
		if err := c.Bus.Store(addr, 16, r[rt]&0xffff); err != nil {
			return err
		}
	case 0x2B: // SW
		addr := uint32(int32(r[rs]) + signExt(inst&0xffff, 16))
		if err := c.Bus.Store(addr, 32, r[rt]); err != nil {
			return err
		}

	default:
		return interrupt.UnsupportedInstr{Instr: inst}
	}

	return nil
}

// signExt sign-extends the low fromBits bits of value into a full 32-bit
// signed integer.
func signExt(value uint32, fromBits uint) int32 {
	sign := value & (1 << (fromBits - 1))
	if sign != 0 {
		return int32(value | (0xffff_ffff << fromBits))
	}
	return int32(value)
}

// addOverflows returns a+b and whether the signed addition stayed within
// int32 range. ok is false when it overflowed.
func addOverflows(a, b int32) (int32, bool) {
	if b > 0 && a > math.MaxInt32-b {
		return 0, false
	}
	if b < 0 && a < math.MinInt32-b {
		return 0, false
	}
	return a + b, true
}

// subOverflows returns a-b and whether the signed subtraction stayed
// within int32 range. ok is false when it overflowed.
func subOverflows(a, b int32) (int32, bool) {
	if b < 0 && a > math.MaxInt32+b {
		return 0, false
	}
	if b > 0 && a < math.MinInt32+b {
		return 0, false
	}
	return a - b, true
}
