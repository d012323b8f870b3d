package dram

import (
	"fmt"
	"testing"

	"github.com/dangreco/mipped/pkg/emulator/memmap"
)

func assert(t *testing.T, cond bool, format string, args ...any) {
	t.Helper()
	if !cond {
		t.Fatalf(fmt.Sprintf("%v %s", cond, format), args...)
	}
}

func TestLoadStoreRoundTrip(t *testing.T) {
	d := New()
	assert(t, d.Size() == Size, "expected size %d, got %d", Size, d.Size())

	for _, width := range []uint32{8, 16, 32} {
		var want uint32
		switch width {
		case 8:
			want = 0xAB
		case 16:
			want = 0xBEEF
		case 32:
			want = 0xDEADBEEF
		}
		if err := d.Store(memmap.DRAMBase, width, want); err != nil {
			t.Fatalf("Store(%d): %v", width, err)
		}
		got, err := d.Load(memmap.DRAMBase, width)
		assert(t, err == nil, "Load(%d): %v", width, err)
		assert(t, got == want, "width %d: got %#x, want %#x", width, got, want)
	}
}

func TestLoadIsLittleEndian(t *testing.T) {
	d := New()
	if err := d.Store(memmap.DRAMBase, 32, 0x01020304); err != nil {
		t.Fatal(err)
	}
	b, err := d.Load(memmap.DRAMBase, 8)
	assert(t, err == nil, "Load: %v", err)
	assert(t, b == 0x04, "expected the low byte first, got %#x", b)
}

func TestNewWithImage(t *testing.T) {
	code := []byte{0x01, 0x02, 0x03, 0x04}
	d, err := NewWithImage(code)
	assert(t, err == nil, "NewWithImage: %v", err)
	w, err := d.Load(memmap.DRAMBase, 32)
	assert(t, err == nil, "Load: %v", err)
	assert(t, w == 0x04030201, "got %#x", w)
}

func TestNewWithImageTooLarge(t *testing.T) {
	_, err := NewWithImage(make([]byte, Size+1))
	assert(t, err != nil, "expected an error for an oversized image")
}

func TestSplice(t *testing.T) {
	d := New()
	d.Splice(0x10, []byte{0x7f, 0x45, 0x4c, 0x46})
	w, err := d.Load(memmap.DRAMBase+0x10, 32)
	assert(t, err == nil, "Load: %v", err)
	assert(t, w == 0x464c457f, "got %#x", w)
}
