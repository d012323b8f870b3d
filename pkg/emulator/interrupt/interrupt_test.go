package interrupt

import (
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

func TestFamiliesClassifyCorrectly(t *testing.T) {
	cases := []struct {
		err  Interrupt
		want Family
	}{
		{Syscall{}, Software},
		{Stdout{Message: "broken pipe"}, Software},
		{UnsupportedCall{Call: 0x99}, Software},
		{AddrLoad{Addr: 0}, Exception},
		{Overflow{}, Exception},
		{Alignment{Addr: 1}, Exception},
		{DivideByZero{}, Exception},
	}
	for _, c := range cases {
		assert(t, c.err.Family() == c.want, "%T: expected family %s, got %s", c.err, c.want, c.err.Family())
	}
}

func TestFamilyString(t *testing.T) {
	assert(t, Software.String() == "software", "got %q", Software.String())
	assert(t, Hardware.String() == "hardware", "got %q", Hardware.String())
	assert(t, Exception.String() == "exception", "got %q", Exception.String())
}

func TestErrorMessagesCarryTheirFields(t *testing.T) {
	err := AddrLoad{Addr: 0x42}
	assert(t, err.Error() != "", "Error() should not be empty")
	assert(t, err.Addr == 0x42, "expected the faulting address to round-trip")
	assert(t, strings.Contains(err.Error(), "0x0000000042"), "Error() should include the faulting address: %q", err.Error())
}
