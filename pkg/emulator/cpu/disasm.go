package cpu

import (
	"fmt"

	"github.com/dangreco/mipped/pkg/emulator/arch"
)

// Disassemble renders a single 32-bit instruction word as one line of
// MIPS-I assembly, in the style of the supported instruction table. An
// opcode/funct this interpreter does not implement renders as an
// "<unsupported opcode 0x..>" or "<unsupported funct 0x..>" placeholder
// rather than erroring, since disassembly is a debugging aid, not
// part of the execution path.
func Disassemble(inst uint32) string {
	opcode := (inst >> 26) & 0x3f
	rs := (inst >> 21) & 0x1f
	rt := (inst >> 16) & 0x1f
	rd := (inst >> 11) & 0x1f
	imm := inst & 0xffff
	target := inst & 0x3ffffff

	reg := func(i uint32) string {
		if n := arch.Name(i); n != "" {
			return n
		}
		return fmt.Sprintf("$%d", i)
	}

	switch opcode {
	case 0x00:
		funct := inst & 0x3f
		shamt := (inst >> 6) & 0x1f
		switch funct {
		case 0x00:
			return fmt.Sprintf("sll %s, %s, %d", reg(rd), reg(rt), shamt)
		case 0x02:
			return fmt.Sprintf("srl %s, %s, %d", reg(rd), reg(rt), shamt)
		case 0x03:
			return fmt.Sprintf("sra %s, %s, %d", reg(rd), reg(rt), shamt)
		case 0x04:
			return fmt.Sprintf("sllv %s, %s, %s", reg(rd), reg(rt), reg(rs))
		case 0x06:
			return fmt.Sprintf("srlv %s, %s, %s", reg(rd), reg(rt), reg(rs))
		case 0x07:
			return fmt.Sprintf("srav %s, %s, %s", reg(rd), reg(rt), reg(rs))
		case 0x08:
			return fmt.Sprintf("jr %s", reg(rs))
		case 0x09:
			return fmt.Sprintf("jalr %s, %s", reg(rd), reg(rs))
		case 0x0C:
			return "syscall"
		case 0x10:
			return fmt.Sprintf("mfhi %s", reg(rd))
		case 0x11:
			return fmt.Sprintf("mthi %s", reg(rs))
		case 0x12:
			return fmt.Sprintf("mflo %s", reg(rd))
		case 0x13:
			return fmt.Sprintf("mtlo %s", reg(rs))
		case 0x18:
			return fmt.Sprintf("mult %s, %s", reg(rs), reg(rt))
		case 0x19:
			return fmt.Sprintf("multu %s, %s", reg(rs), reg(rt))
		case 0x1A:
			return fmt.Sprintf("div %s, %s", reg(rs), reg(rt))
		case 0x1B:
			return fmt.Sprintf("divu %s, %s", reg(rs), reg(rt))
		case 0x20:
			return fmt.Sprintf("add %s, %s, %s", reg(rd), reg(rs), reg(rt))
		case 0x21:
			return fmt.Sprintf("addu %s, %s, %s", reg(rd), reg(rs), reg(rt))
		case 0x22:
			return fmt.Sprintf("sub %s, %s, %s", reg(rd), reg(rs), reg(rt))
		case 0x23:
			return fmt.Sprintf("subu %s, %s, %s", reg(rd), reg(rs), reg(rt))
		case 0x24:
			return fmt.Sprintf("and %s, %s, %s", reg(rd), reg(rs), reg(rt))
		case 0x25:
			return fmt.Sprintf("or %s, %s, %s", reg(rd), reg(rs), reg(rt))
		case 0x26:
			return fmt.Sprintf("xor %s, %s, %s", reg(rd), reg(rs), reg(rt))
		case 0x27:
			return fmt.Sprintf("nor %s, %s, %s", reg(rd), reg(rs), reg(rt))
		case 0x2A:
			return fmt.Sprintf("slt %s, %s, %s", reg(rd), reg(rs), reg(rt))
		case 0x2B:
			return fmt.Sprintf("sltu %s, %s, %s", reg(rd), reg(rs), reg(rt))
		default:
			return fmt.Sprintf("<unsupported funct %#02x>", funct)
		}
	case 0x02:
		return fmt.Sprintf("j %#x", target<<2)
	case 0x03:
		return fmt.Sprintf("jal %#x", target<<2)
	case 0x04:
		return fmt.Sprintf("beq %s, %s, %d", reg(rs), reg(rt), int16(imm))
	case 0x05:
		return fmt.Sprintf("bne %s, %s, %d", reg(rs), reg(rt), int16(imm))
	case 0x06:
		return fmt.Sprintf("blez %s, %d", reg(rs), int16(imm))
	case 0x07:
		return fmt.Sprintf("bgtz %s, %d", reg(rs), int16(imm))
	case 0x08:
		return fmt.Sprintf("addi %s, %s, %d", reg(rt), reg(rs), int16(imm))
	case 0x09:
		return fmt.Sprintf("addiu %s, %s, %d", reg(rt), reg(rs), int16(imm))
	case 0x0A:
		return fmt.Sprintf("slti %s, %s, %d", reg(rt), reg(rs), int16(imm))
	case 0x0B:
		return fmt.Sprintf("sltiu %s, %s, %d", reg(rt), reg(rs), imm)
	case 0x0C:
		return fmt.Sprintf("andi %s, %s, %#x", reg(rt), reg(rs), imm)
	case 0x0D:
		return fmt.Sprintf("ori %s, %s, %#x", reg(rt), reg(rs), imm)
	case 0x0E:
		return fmt.Sprintf("xori %s, %s, %#x", reg(rt), reg(rs), imm)
	case 0x0F:
		return fmt.Sprintf("lui %s, %#x", reg(rt), imm)
	case 0x20:
		return fmt.Sprintf("lb %s, %d(%s)", reg(rt), int16(imm), reg(rs))
	case 0x21:
		return fmt.Sprintf("lh %s, %d(%s)", reg(rt), int16(imm), reg(rs))
	case 0x22:
		return fmt.Sprintf("lw %s, %d(%s)", reg(rt), int16(imm), reg(rs))
	case 0x24:
		return fmt.Sprintf("lbu %s, %d(%s)", reg(rt), int16(imm), reg(rs))
	case 0x25:
		return fmt.Sprintf("lhu %s, %d(%s)", reg(rt), int16(imm), reg(rs))
	case 0x28:
		return fmt.Sprintf("sb %s, %d(%s)", reg(rt), int16(imm), reg(rs))
	case 0x29:
		return fmt.Sprintf("sh %s, %d(%s)", reg(rt), int16(imm), reg(rs))
	case 0x2B:
		return fmt.Sprintf("sw %s, %d(%s)", reg(rt), int16(imm), reg(rs))
	default:
		return fmt.Sprintf("<unsupported opcode %#02x>", opcode)
	}
}
