package asm

import (
	"encoding/binary"
	"fmt"
	"strings"
	"testing"
)

func assert(t *testing.T, cond bool, format string, args ...any) {
	t.Helper()
	if !cond {
		t.Fatalf(fmt.Sprintf("%v %s", cond, format), args...)
	}
}

func assembleWords(t *testing.T, src string) []uint32 {
	t.Helper()
	out, err := Assemble(strings.NewReader(src))
	assert(t, err == nil, "Assemble: %v", err)
	assert(t, len(out)%4 == 0, "output length %d is not a multiple of 4", len(out))
	words := make([]uint32, len(out)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(out[4*i:])
	}
	return words
}

func TestAssembleRTypeAndIType(t *testing.T) {
	words := assembleWords(t, `
		ori $v0, $zero, 1
		add $t2, $t0, $t1
	`)
	assert(t, len(words) == 2, "expected 2 words, got %d", len(words))
	assert(t, words[0] == 0x34020001, "ori: got %#08x", words[0])
	assert(t, words[1] == 0x01095020, "add: got %#08x", words[1])
}

func TestAssembleLoadStoreOffsetForm(t *testing.T) {
	words := assembleWords(t, `lw $t0, 4($sp)`)
	assert(t, len(words) == 1, "expected 1 word")
	assert(t, words[0] == 0x8ba80004, "lw: got %#08x", words[0])
}

func TestAssembleForwardLabelBranch(t *testing.T) {
	// beq $zero,$zero,done; nop; nop; done:
	words := assembleWords(t, `
		beq  $zero, $zero, done
		add  $zero, $zero, $zero
		add  $zero, $zero, $zero
	done:
		add  $zero, $zero, $zero
	`)
	assert(t, len(words) == 4, "expected 4 words, got %d", len(words))
	imm := words[0] & 0xffff
	assert(t, imm == 1, "expected encoded branch offset 1, got %d", imm)
}

func TestAssembleJumpTarget(t *testing.T) {
	words := assembleWords(t, `
	start:
		j start
	`)
	assert(t, len(words) == 1, "expected 1 word")
	assert(t, words[0]&0x3ffffff == 0, "jump target field should be 0, got %#x", words[0]&0x3ffffff)
}

func TestAssembleDirectives(t *testing.T) {
	out, err := Assemble(strings.NewReader(`
		.word 0x2a
		.space 4
		.asciiz "hi"
	`))
	assert(t, err == nil, "Assemble: %v", err)
	assert(t, len(out) == 4+4+3, "expected 11 bytes, got %d", len(out))
	assert(t, binary.LittleEndian.Uint32(out[0:4]) == 0x2a, "word: got %#x", out[0:4])
	assert(t, out[8] == 'h' && out[9] == 'i' && out[10] == 0, "asciiz payload mismatch: %v", out[8:])
}

func TestUnknownMnemonicFails(t *testing.T) {
	_, err := Assemble(strings.NewReader("frobnicate $t0, $t1"))
	assert(t, err != nil, "expected an error for an unknown mnemonic")
}

func TestUnknownLabelFails(t *testing.T) {
	_, err := Assemble(strings.NewReader("j nowhere"))
	assert(t, err != nil, "expected an error for an undefined label")
}
