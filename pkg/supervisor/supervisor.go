// Package supervisor implements the outer execution loop: it steps the
// CPU, intercepts the SYSCALL software interrupt to service the four
// functional environment calls, and reports the process's exit code.
package supervisor

import (
	"errors"
	"fmt"
	"io"

	"github.com/dangreco/mipped/pkg/emulator/arch"
	"github.com/dangreco/mipped/pkg/emulator/cpu"
	"github.com/dangreco/mipped/pkg/emulator/interrupt"
	"github.com/dangreco/mipped/pkg/emulator/memmap"
	"github.com/dangreco/mipped/pkg/emulator/syscall"
)

// Supervisor owns a CPU plus the byte streams that back the console
// syscalls, and drives the run loop.
type Supervisor struct {
	CPU     *cpu.CPU
	Stdout  io.Writer
	Stdin   io.Reader
	running bool
	exit    *int32

	// Trace, if set, is called with the raw instruction word immediately
	// before it executes — the CLI's -v/--verbose instruction trace.
	Trace func(pc, word uint32)
	// Debug, if set, is called at the same point as Trace and may block
	// (e.g. waiting on stdin) — the CLI's -d/--debug single-stepper.
	Debug func()
}

// New returns a Supervisor wired to the given CPU and byte streams.
func New(c *cpu.CPU, stdout io.Writer, stdin io.Reader) *Supervisor {
	return &Supervisor{CPU: c, Stdout: stdout, Stdin: stdin}
}

func (s *Supervisor) write(format string, args ...any) error {
	if _, err := fmt.Fprintf(s.Stdout, format, args...); err != nil {
		return interrupt.Stdout{Message: err.Error()}
	}
	return nil
}

// Run drives the CPU to completion. It returns nil on clean termination
// (PC past DRAM's end, a zero-word halt, or an exit/exit2 syscall) and a
// non-nil error for any interrupt other than SYSCALL, which propagates as
// the terminal result of the run.
func (s *Supervisor) Run() error {
	s.running = true

	for s.running {
		if s.Trace != nil || s.Debug != nil {
			if word, err := s.CPU.Bus.Load(memmap.DRAMBase+s.CPU.PC, 32); err == nil {
				if s.Trace != nil {
					s.Trace(s.CPU.PC, word)
				}
				if s.Debug != nil {
					s.Debug()
				}
			}
		}

		done, err := s.CPU.Step()
		if err != nil {
			var sc interrupt.Syscall
			if errors.As(err, &sc) {
				if err := s.handleSyscall(); err != nil {
					return err
				}
				continue
			}
			return err
		}
		s.running = !done
	}

	return s.write("\nProcess exited with code %d\n", s.ExitCode())
}

// ExitCode returns the code recorded by exit2, or 0 if the program never
// called it.
func (s *Supervisor) ExitCode() int32 {
	if s.exit == nil {
		return 0
	}
	return *s.exit
}

func (s *Supervisor) handleSyscall() error {
	r := &s.CPU.Regs
	switch r[arch.V0] {
	case syscall.PrintInteger:
		n := int32(r[arch.A0])
		return s.write("%d", n)

	case syscall.PrintString:
		addr := r[arch.A0]
		var off uint32
		for {
			b, err := s.CPU.Bus.Load(addr+off, 8)
			if err != nil {
				return err
			}
			if b == 0 {
				return nil
			}
			if err := s.write("%c", byte(b)); err != nil {
				return err
			}
			off++
		}

	case syscall.Exit:
		s.running = false
		return nil

	case syscall.Exit2:
		code := int32(r[arch.A0])
		s.exit = &code
		s.running = false
		return nil

	default:
		return interrupt.UnsupportedCall{Call: r[arch.V0], Name: syscall.Name(r[arch.V0])}
	}
}
