// Package bus implements the thin address-validating guard between the
// CPU and the DRAM backing store.
package bus

import (
	"fmt"

	"github.com/dangreco/mipped/pkg/emulator/dram"
	"github.com/dangreco/mipped/pkg/emulator/interrupt"
	"github.com/dangreco/mipped/pkg/emulator/memmap"
)

// Bus mediates every load, store, and bulk image write against the sole
// backed region, DRAM.
type Bus struct {
	DRAM *dram.DRAM
}

// New returns a Bus over a freshly allocated, zero-filled DRAM.
func New() *Bus {
	return &Bus{DRAM: dram.New()}
}

// NewWithDRAM returns a Bus over an already-constructed DRAM, letting a
// caller seed memory directly — the run subcommand uses this to load a
// program image via dram.NewWithImage instead of a separate bus splice.
func NewWithDRAM(d *dram.DRAM) *Bus {
	return &Bus{DRAM: d}
}

func (b *Bus) region() memmap.Region {
	return memmap.Region{Base: memmap.DRAMBase, Size: b.DRAM.Size()}
}

// Load validates addr against the DRAM window and, if valid, reads width
// bits from it. An out-of-range address fails with interrupt.AddrLoad.
func (b *Bus) Load(addr, width uint32) (uint32, error) {
	if !b.region().Contains(addr) {
		return 0, interrupt.AddrLoad{Addr: addr}
	}
	return b.DRAM.Load(addr, width)
}

// Store validates addr against the DRAM window and, if valid, writes the
// low width bits of value to it. An out-of-range address fails with
// interrupt.AddrStore.
func (b *Bus) Store(addr, width, value uint32) error {
	if !b.region().Contains(addr) {
		return interrupt.AddrStore{Addr: addr}
	}
	return b.DRAM.Store(addr, width, value)
}

// Splice bulk-overwrites DRAM starting at memmap.DRAMBase+offset with
// code, validating that both the start and one-past-end addresses lie
// within the DRAM window. Used once by the loader to install a program
// image.
func (b *Bus) Splice(offset uint32, code []byte) error {
	start := memmap.DRAMBase + offset
	end := start + uint32(len(code))
	region := b.region()
	if !region.Contains(start) {
		return interrupt.DBus{Message: fmt.Sprintf("invalid memory address: %#010x", start)}
	}
	// The one-past-end address is allowed to sit exactly at the region's
	// upper bound (an image that fills DRAM exactly).
	if end < region.Base || end > region.Base+region.Size {
		return interrupt.DBus{Message: fmt.Sprintf("invalid memory address: %#010x", end)}
	}
	b.DRAM.Splice(offset, code)
	return nil
}
