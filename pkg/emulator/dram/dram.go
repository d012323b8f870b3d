// Package dram implements the flat byte-addressable backing store behind
// the bus's HighMem window.
package dram

import (
	"fmt"

	"github.com/dangreco/mipped/pkg/emulator/interrupt"
	"github.com/dangreco/mipped/pkg/emulator/memmap"
)

// Size is the fixed DRAM capacity: 128 MiB.
const Size = 128 * 1024 * 1024

// DRAM is a contiguous, zero-initialized byte sequence addressed starting
// at memmap.DRAMBase. Multi-byte accesses are little-endian.
type DRAM struct {
	bytes []byte
}

// New returns a zero-filled DRAM of the fixed Size.
func New() *DRAM {
	return &DRAM{bytes: make([]byte, Size)}
}

// NewWithImage returns a DRAM of the fixed Size with code copied in
// starting at offset 0. It mirrors the convenience constructor in the
// original implementation that seeded DRAM directly from a program image
// instead of going through a bus splice; it is used by tests and the
// one-shot run path so callers don't need a separate load step.
func NewWithImage(code []byte) (*DRAM, error) {
	if len(code) > Size {
		return nil, fmt.Errorf("dram: image of %d bytes exceeds capacity of %d bytes", len(code), Size)
	}
	d := New()
	copy(d.bytes, code)
	return d, nil
}

// Size returns the byte length of the backing store. The memory map's
// HighMem region's nominal size is ignored in favour of this value.
func (d *DRAM) Size() uint32 {
	return uint32(len(d.bytes))
}

func index(addr uint32) uint32 {
	return addr - memmap.DRAMBase
}

// Load reads width (8, 16, or 32) bits at addr, little-endian, and
// zero-extends the result into a 32-bit word. The caller (the bus) is
// responsible for having already validated addr.
func (d *DRAM) Load(addr, width uint32) (uint32, error) {
	switch width {
	case 8:
		return d.load8(addr), nil
	case 16:
		return d.load16(addr), nil
	case 32:
		return d.load32(addr), nil
	default:
		return 0, interrupt.DBus{Message: fmt.Sprintf("cannot load value of %d bytes", width)}
	}
}

// Store writes the low width bits of value at addr, little-endian.
func (d *DRAM) Store(addr, width, value uint32) error {
	switch width {
	case 8:
		d.store8(addr, value)
	case 16:
		d.store16(addr, value)
	case 32:
		d.store32(addr, value)
	default:
		return interrupt.DBus{Message: fmt.Sprintf("cannot store value of %d bytes", width)}
	}
	return nil
}

// Splice bulk-overwrites the backing store starting at byte offset off.
// The caller (the bus) is responsible for bounds checking.
func (d *DRAM) Splice(off uint32, code []byte) {
	copy(d.bytes[off:], code)
}

func (d *DRAM) load8(addr uint32) uint32 {
	i := index(addr)
	return uint32(d.bytes[i])
}

func (d *DRAM) load16(addr uint32) uint32 {
	i := index(addr)
	return uint32(d.bytes[i]) | uint32(d.bytes[i+1])<<8
}

func (d *DRAM) load32(addr uint32) uint32 {
	i := index(addr)
	return uint32(d.bytes[i]) |
		uint32(d.bytes[i+1])<<8 |
		uint32(d.bytes[i+2])<<16 |
		uint32(d.bytes[i+3])<<24
}

func (d *DRAM) store8(addr, value uint32) {
	i := index(addr)
	d.bytes[i] = byte(value)
}

func (d *DRAM) store16(addr, value uint32) {
	i := index(addr)
	d.bytes[i] = byte(value)
	d.bytes[i+1] = byte(value >> 8)
}

func (d *DRAM) store32(addr, value uint32) {
	i := index(addr)
	d.bytes[i] = byte(value)
	d.bytes[i+1] = byte(value >> 8)
	d.bytes[i+2] = byte(value >> 16)
	d.bytes[i+3] = byte(value >> 24)
}
