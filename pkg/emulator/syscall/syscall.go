// Package syscall names the SPIM/MARS environment-call surface dispatched
// on register V0. Only four selectors are functional (see
// pkg/supervisor); everything else in this table is reserved and
// documented here purely so an UnsupportedCall interrupt can report a
// human-readable name instead of a bare hex selector.
package syscall

// Selector values for the functional syscalls.
const (
	PrintInteger = 0x01
	PrintString  = 0x04
	Exit         = 0x0A
	Exit2        = 0x11
)

// Reserved maps every SPIM/MARS selector this interpreter recognizes by
// name but does not implement to a short human-readable label. Selectors
// absent from this map and not in the functional set above are simply
// unnamed unsupported calls.
var Reserved = map[uint32]string{
	0x02: "print float",
	0x03: "print double",
	0x05: "read integer",
	0x06: "read float",
	0x07: "read double",
	0x08: "read string",
	0x09: "sbrk",
	0x0B: "print character",
	0x0C: "read character",
	0x0D: "open file",
	0x0E: "read from file",
	0x0F: "write to file",
	0x10: "close file",
	0x1E: "system time",
	0x1F: "midi out",
	0x20: "sleep",
	0x21: "midi out (synchronous)",
	0x22: "print integer (hexadecimal)",
	0x23: "print integer (binary)",
	0x24: "print integer (unsigned)",
	0x28: "set seed",
	0x29: "random integer",
	0x2A: "random integer range",
	0x2B: "random float",
	0x2C: "random double",
}

// Name returns a human-readable label for selector, or "" if it is
// entirely unrecognized (neither functional nor reserved).
func Name(selector uint32) string {
	switch selector {
	case PrintInteger:
		return "print integer"
	case PrintString:
		return "print string"
	case Exit:
		return "exit"
	case Exit2:
		return "exit2"
	}
	return Reserved[selector]
}
