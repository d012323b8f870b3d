package asm

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

var registerNames = map[string]uint32{
	"zero": 0, "at": 1, "v0": 2, "v1": 3,
	"a0": 4, "a1": 5, "a2": 6, "a3": 7,
	"t0": 8, "t1": 9, "t2": 10, "t3": 11, "t4": 12, "t5": 13, "t6": 14, "t7": 15,
	"s0": 16, "s1": 17, "s2": 18, "s3": 19, "s4": 20, "s5": 21, "s6": 22, "s7": 23,
	"t8": 24, "t9": 25,
	"k0": 26, "k1": 27,
	"gp": 28, "sp": 29, "fp": 30, "ra": 31,
}

// parseReg accepts either a named register ("$t0", "t0") or a numeric one
// ("$8", "8").
func parseReg(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	if n, ok := registerNames[s]; ok {
		return n, nil
	}
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil || v > 31 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownRegister, s)
	}
	return uint32(v), nil
}

// parseOffsetReg parses the "imm(reg)" operand form used by loads and
// stores, e.g. "4($sp)" or "-8($t0)".
func parseOffsetReg(s string) (imm int64, reg uint32, err error) {
	open := strings.IndexByte(s, '(')
	shut := strings.IndexByte(s, ')')
	if open < 0 || shut < open {
		return 0, 0, fmt.Errorf("%w: expected imm(reg), got %q", ErrBadOperands, s)
	}
	immStr := strings.TrimSpace(s[:open])
	if immStr == "" {
		immStr = "0"
	}
	imm, err = strconv.ParseInt(immStr, 0, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s", ErrBadImmediate, immStr)
	}
	reg, err = parseReg(s[open+1 : shut])
	if err != nil {
		return 0, 0, err
	}
	return imm, reg, nil
}

func parseImm(s string, bits int, signed bool) (uint32, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 0, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrBadImmediate, s)
	}
	return rangedImm(v, bits, signed)
}

// rangedImm checks v fits in a bits-wide field (signed or unsigned) and
// returns its two's-complement encoding.
func rangedImm(v int64, bits int, signed bool) (uint32, error) {
	if signed {
		lo, hi := -(int64(1) << (bits - 1)), (int64(1)<<(bits-1))-1
		if v < lo || v > hi {
			return 0, fmt.Errorf("%w: %d", ErrOutOfRange, v)
		}
	} else {
		if v < 0 || v > (int64(1)<<bits)-1 {
			return 0, fmt.Errorf("%w: %d", ErrOutOfRange, v)
		}
	}
	mask := uint32(1)<<uint(bits) - 1
	return uint32(v) & mask, nil
}

func resolveLabel(name string, labels map[string]uint32) (uint32, error) {
	addr, ok := labels[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLabel, name)
	}
	return addr, nil
}

// rtype packs the standard R-type layout: opcode 0, funct in bits 5..0.
func rtype(funct, rd, rs, rt, shamt uint32) uint32 {
	return (rs&0x1f)<<21 | (rt&0x1f)<<16 | (rd&0x1f)<<11 | (shamt&0x1f)<<6 | (funct & 0x3f)
}

func itype(opcode, rs, rt, imm uint32) uint32 {
	return (opcode&0x3f)<<26 | (rs&0x1f)<<21 | (rt&0x1f)<<16 | (imm & 0xffff)
}

func jtype(opcode, target uint32) uint32 {
	return (opcode&0x3f)<<26 | (target & 0x3ffffff)
}

func le32(word uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, word)
	return b
}

// encode assembles one statement, which has already had its label
// prefix stripped, into the raw bytes it contributes to the image.
// instrOffset is the byte offset at which this statement begins.
func encode(st statement, instrOffset uint32, labels map[string]uint32) ([]byte, error) {
	a := st.args

	reg := func(i int) (uint32, error) {
		if i >= len(a) {
			return 0, ErrBadOperands
		}
		return parseReg(a[i])
	}

	switch st.op {
	case ".asciiz":
		s, err := unquote(a)
		if err != nil {
			return nil, err
		}
		return append([]byte(s), 0), nil

	case ".word":
		if len(a) != 1 {
			return nil, ErrBadOperands
		}
		v, err := strconv.ParseUint(a[0], 0, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrBadImmediate, a[0])
		}
		return le32(uint32(v)), nil

	case ".space":
		if len(a) != 1 {
			return nil, ErrBadOperands
		}
		n, err := strconv.ParseUint(a[0], 0, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrBadImmediate, a[0])
		}
		return make([]byte, n), nil

	case "sll", "srl", "sra":
		if len(a) != 3 {
			return nil, ErrBadOperands
		}
		rd, err := reg(0)
		if err != nil {
			return nil, err
		}
		rt, err := reg(1)
		if err != nil {
			return nil, err
		}
		shamt, err := parseImm(a[2], 5, false)
		if err != nil {
			return nil, err
		}
		funct := map[string]uint32{"sll": 0x00, "srl": 0x02, "sra": 0x03}[st.op]
		return le32(rtype(funct, rd, 0, rt, shamt)), nil

	case "sllv", "srlv", "srav":
		if len(a) != 3 {
			return nil, ErrBadOperands
		}
		rd, err := reg(0)
		if err != nil {
			return nil, err
		}
		rt, err := reg(1)
		if err != nil {
			return nil, err
		}
		rs, err := reg(2)
		if err != nil {
			return nil, err
		}
		funct := map[string]uint32{"sllv": 0x04, "srlv": 0x06, "srav": 0x07}[st.op]
		return le32(rtype(funct, rd, rs, rt, 0)), nil

	case "jr":
		rs, err := reg(0)
		if err != nil {
			return nil, err
		}
		return le32(rtype(0x08, 0, rs, 0, 0)), nil

	case "jalr":
		var rd, rs uint32
		var err error
		switch len(a) {
		case 1:
			rd = 31
			rs, err = parseReg(a[0])
		case 2:
			rd, err = parseReg(a[0])
			if err == nil {
				rs, err = parseReg(a[1])
			}
		default:
			return nil, ErrBadOperands
		}
		if err != nil {
			return nil, err
		}
		return le32(rtype(0x09, rd, rs, 0, 0)), nil

	case "syscall":
		return le32(rtype(0x0C, 0, 0, 0, 0)), nil

	case "mfhi", "mflo":
		rd, err := reg(0)
		if err != nil {
			return nil, err
		}
		funct := map[string]uint32{"mfhi": 0x10, "mflo": 0x12}[st.op]
		return le32(rtype(funct, rd, 0, 0, 0)), nil

	case "mthi", "mtlo":
		rs, err := reg(0)
		if err != nil {
			return nil, err
		}
		funct := map[string]uint32{"mthi": 0x11, "mtlo": 0x13}[st.op]
		return le32(rtype(funct, 0, rs, 0, 0)), nil

	case "mult", "multu", "div", "divu":
		rs, err := reg(0)
		if err != nil {
			return nil, err
		}
		rt, err := reg(1)
		if err != nil {
			return nil, err
		}
		funct := map[string]uint32{"mult": 0x18, "multu": 0x19, "div": 0x1A, "divu": 0x1B}[st.op]
		return le32(rtype(funct, 0, rs, rt, 0)), nil

	case "add", "addu", "sub", "subu", "and", "or", "xor", "nor", "slt", "sltu":
		if len(a) != 3 {
			return nil, ErrBadOperands
		}
		rd, err := reg(0)
		if err != nil {
			return nil, err
		}
		rs, err := reg(1)
		if err != nil {
			return nil, err
		}
		rt, err := reg(2)
		if err != nil {
			return nil, err
		}
		funct := map[string]uint32{
			"add": 0x20, "addu": 0x21, "sub": 0x22, "subu": 0x23,
			"and": 0x24, "or": 0x25, "xor": 0x26, "nor": 0x27,
			"slt": 0x2A, "sltu": 0x2B,
		}[st.op]
		return le32(rtype(funct, rd, rs, rt, 0)), nil

	case "j", "jal":
		if len(a) != 1 {
			return nil, ErrBadOperands
		}
		target, err := resolveLabel(a[0], labels)
		if err != nil {
			return nil, err
		}
		opcode := map[string]uint32{"j": 0x02, "jal": 0x03}[st.op]
		return le32(jtype(opcode, target>>2)), nil

	case "beq", "bne":
		if len(a) != 3 {
			return nil, ErrBadOperands
		}
		rs, err := reg(0)
		if err != nil {
			return nil, err
		}
		rt, err := reg(1)
		if err != nil {
			return nil, err
		}
		imm, err := branchOffset(a[2], instrOffset, labels)
		if err != nil {
			return nil, err
		}
		opcode := map[string]uint32{"beq": 0x04, "bne": 0x05}[st.op]
		return le32(itype(opcode, rs, rt, imm)), nil

	case "blez", "bgtz":
		if len(a) != 2 {
			return nil, ErrBadOperands
		}
		rs, err := reg(0)
		if err != nil {
			return nil, err
		}
		imm, err := branchOffset(a[1], instrOffset, labels)
		if err != nil {
			return nil, err
		}
		opcode := map[string]uint32{"blez": 0x06, "bgtz": 0x07}[st.op]
		return le32(itype(opcode, rs, 0, imm)), nil

	case "addi", "addiu", "slti":
		if len(a) != 3 {
			return nil, ErrBadOperands
		}
		rt, err := reg(0)
		if err != nil {
			return nil, err
		}
		rs, err := reg(1)
		if err != nil {
			return nil, err
		}
		imm, err := parseImm(a[2], 16, true)
		if err != nil {
			return nil, err
		}
		opcode := map[string]uint32{"addi": 0x08, "addiu": 0x09, "slti": 0x0A}[st.op]
		return le32(itype(opcode, rs, rt, imm)), nil

	case "sltiu", "andi", "ori", "xori":
		if len(a) != 3 {
			return nil, ErrBadOperands
		}
		rt, err := reg(0)
		if err != nil {
			return nil, err
		}
		rs, err := reg(1)
		if err != nil {
			return nil, err
		}
		imm, err := parseImm(a[2], 16, false)
		if err != nil {
			return nil, err
		}
		opcode := map[string]uint32{"sltiu": 0x0B, "andi": 0x0C, "ori": 0x0D, "xori": 0x0E}[st.op]
		return le32(itype(opcode, rs, rt, imm)), nil

	case "lui":
		if len(a) != 2 {
			return nil, ErrBadOperands
		}
		rt, err := reg(0)
		if err != nil {
			return nil, err
		}
		imm, err := parseImm(a[1], 16, false)
		if err != nil {
			return nil, err
		}
		return le32(itype(0x0F, 0, rt, imm)), nil

	case "lb", "lh", "lw", "lbu", "lhu", "sb", "sh", "sw":
		if len(a) != 2 {
			return nil, ErrBadOperands
		}
		rt, err := reg(0)
		if err != nil {
			return nil, err
		}
		off, rs, err := parseOffsetReg(a[1])
		if err != nil {
			return nil, err
		}
		imm, err := rangedImm(off, 16, true)
		if err != nil {
			return nil, err
		}
		opcode := map[string]uint32{
			"lb": 0x20, "lh": 0x21, "lw": 0x22, "lbu": 0x24, "lhu": 0x25,
			"sb": 0x28, "sh": 0x29, "sw": 0x2B,
		}[st.op]
		return le32(itype(opcode, rs, rt, imm)), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMnemonic, st.op)
	}
}

// branchOffset computes the 16-bit encoded immediate for a BEQ/BNE/BLEZ/
// BGTZ target label, relative to (instrOffset+8) — the runtime reference
// point once the program counter has already advanced past this
// instruction and the formula's own "+4" is applied (see pkg/emulator/cpu).
func branchOffset(label string, instrOffset uint32, labels map[string]uint32) (uint32, error) {
	target, err := resolveLabel(label, labels)
	if err != nil {
		return 0, err
	}
	delta := int64(target) - int64(instrOffset+8)
	if delta%4 != 0 {
		return 0, fmt.Errorf("%w: branch target %q is not word-aligned relative to its origin", ErrOutOfRange, label)
	}
	return rangedImm(delta/4, 16, true)
}
