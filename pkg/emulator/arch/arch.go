// Package arch names the general-purpose register slots by their
// conventional MIPS-I role. The interpreter itself treats the register
// file as a flat array; these constants exist purely for readability at
// call sites that care about a register's software convention (the
// supervisor's syscall dispatch, disassembly, tests).
package arch

// Register indexes into the 32-slot register file.
const (
	ZERO = 0 // Constant zero, by software convention only.
	AT   = 1 // Reserved for the assembler.

	V0 = 2 // Syscall selector / first return value.
	V1 = 3

	A0 = 4 // First argument.
	A1 = 5
	A2 = 6
	A3 = 7

	T0 = 8 // Temporaries.
	T1 = 9
	T2 = 10
	T3 = 11
	T4 = 12
	T5 = 13
	T6 = 14
	T7 = 15

	S0 = 16 // Saved across calls.
	S1 = 17
	S2 = 18
	S3 = 19
	S4 = 20
	S5 = 21
	S6 = 22
	S7 = 23

	T8 = 24 // More temporaries.
	T9 = 25

	K0 = 26 // Reserved for the kernel.
	K1 = 27

	GP = 28 // Global pointer.
	SP = 29 // Stack pointer.
	FP = 30 // Frame pointer.
	RA = 31 // Return address.
)

// NumRegisters is the fixed size of the register file.
const NumRegisters = 32

// names holds the canonical assembly mnemonic for each register, used by
// the disassembler.
var names = [NumRegisters]string{
	"zero", "at", "v0", "v1",
	"a0", "a1", "a2", "a3",
	"t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7",
	"s0", "s1", "s2", "s3", "s4", "s5", "s6", "s7",
	"t8", "t9",
	"k0", "k1",
	"gp", "sp", "fp", "ra",
}

// Name returns the conventional mnemonic for register index r. Indexes
// outside [0, NumRegisters) return an empty string.
func Name(r uint32) string {
	if int(r) >= len(names) {
		return ""
	}
	return names[r]
}
