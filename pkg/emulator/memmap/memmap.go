// Package memmap defines the compile-time physical address map. Of the
// named regions, only HighMem (the DRAM window) is backed by a real store
// and validated at runtime; the rest document where a fuller machine would
// put firmware, PCIe, and RTC/UART windows, and are advisory only.
package memmap

// Region is a named span of physical address space.
type Region struct {
	Base uint32
	Size uint32
}

// DRAMBase is the first address of the DRAM window. The program counter is
// an offset relative to this base, not an absolute address.
const DRAMBase = 0x8000_0000

// The compile-time region table. HighMem's Size is nominal (it is ignored
// at runtime in favour of the backing DRAM store's actual length — see
// pkg/emulator/dram).
var (
	LowMem    = Region{Base: 0x0000_0000, Size: 0x1000_0000}
	PM        = Region{Base: 0x1008_0000, Size: 0x0000_0100}
	FWCfg     = Region{Base: 0x1008_0100, Size: 0x0000_0100}
	RTC       = Region{Base: 0x1008_1000, Size: 0x0000_1000}
	PCIEPio   = Region{Base: 0x1800_0000, Size: 0x0008_0000}
	PCIEEcam  = Region{Base: 0x1a00_0000, Size: 0x0200_0000}
	BIOSROM   = Region{Base: 0x1fc0_0000, Size: 0x0020_0000}
	UART      = Region{Base: 0x1fe0_01e0, Size: 0x0000_0008}
	LIOIntC   = Region{Base: 0x3ff0_1400, Size: 0x0000_0064}
	PCIEMMIO  = Region{Base: 0x4000_0000, Size: 0x4000_0000}
	HighMem   = Region{Base: DRAMBase, Size: 0} // variable: see dram.Size()
)

// Contains reports whether addr falls within the region.
func (r Region) Contains(addr uint32) bool {
	return addr >= r.Base && addr < r.Base+r.Size
}
