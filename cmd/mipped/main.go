// Command mipped is the interpreter's command-line front end: assemble
// and run a source program, assemble source to an image, or
// disassemble an image back to text. It supersedes the teacher project's
// three single-purpose tools (cmd/asm, cmd/interp, cmd/vm) with one
// cobra-based binary, the way the pack's z80opt tool groups a family of
// related operations under subcommands.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dangreco/mipped/pkg/asm"
	"github.com/dangreco/mipped/pkg/emulator/arch"
	"github.com/dangreco/mipped/pkg/emulator/bus"
	"github.com/dangreco/mipped/pkg/emulator/cpu"
	"github.com/dangreco/mipped/pkg/emulator/dram"
	"github.com/dangreco/mipped/pkg/emulator/memmap"
	"github.com/dangreco/mipped/pkg/emulator/tty"
	"github.com/dangreco/mipped/pkg/supervisor"
	"github.com/dangreco/mipped/pkg/trace"
)

// stackTop places the initial stack pointer one word below the top of
// DRAM, leaving room for a program to push at least once before faulting.
const stackTop = memmap.DRAMBase + (128*1024*1024 - 4)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mipped",
		Short: "A MIPS-I interpreter, assembler, and disassembler",
	}

	rootCmd.AddCommand(newRunCmd(), newAsmCmd(), newDisasmCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var file string
	var useTTY bool
	var verbose bool
	var debug bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Assemble and run a MIPS-I program",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("run: -f is required")
			}
			src, err := os.Open(file)
			if err != nil {
				return err
			}
			defer src.Close()

			image, err := asm.Assemble(src)
			if err != nil {
				return fmt.Errorf("assemble: %w", err)
			}

			d, err := dram.NewWithImage(image)
			if err != nil {
				return fmt.Errorf("load: %w", err)
			}
			c := cpu.New(bus.NewWithDRAM(d))
			c.Regs[arch.SP] = stackTop

			logger := trace.New()
			logger.SetEnabled(verbose || debug)

			var stdout io.Writer = os.Stdout
			var stdin io.Reader = os.Stdin
			if useTTY {
				console, err := tty.Accept()
				if err != nil {
					return fmt.Errorf("tty: %w", err)
				}
				defer console.Close()
				logger.Printf("tty: console attached from %s", console.LocalAddr())
				stdout, stdin = console, console
			}

			sup := supervisor.New(c, stdout, stdin)
			if verbose {
				sup.Trace = func(pc, word uint32) {
					logger.Tracef("pc=%#010x  %s", memmap.DRAMBase+pc, cpu.Disassemble(word))
				}
			}
			if debug {
				sup.Debug = func() {
					logger.Tracef("paused, press enter to continue...")
					fmt.Scanln()
				}
			}
			return sup.Run()
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "assembly source file to run")
	cmd.Flags().BoolVar(&useTTY, "tty", false, "attach console over a TCP connection instead of stdio")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "trace every instruction before it executes")
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "single-step: pause for Enter before each instruction")
	return cmd
}

func newAsmCmd() *cobra.Command {
	var file string
	var out string

	cmd := &cobra.Command{
		Use:   "asm",
		Short: "Assemble MIPS-I source into a raw program image",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("asm: -f is required")
			}
			src, err := os.Open(file)
			if err != nil {
				return err
			}
			defer src.Close()

			image, err := asm.Assemble(src)
			if err != nil {
				return err
			}

			if out == "" {
				_, err = os.Stdout.Write(image)
				return err
			}
			return os.WriteFile(out, image, 0644)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "assembly source file")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output image path (default: stdout)")
	return cmd
}

func newDisasmCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "disasm",
		Short: "Disassemble a raw program image",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("disasm: -f is required")
			}
			image, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			for off := 0; off+4 <= len(image); off += 4 {
				word := uint32(image[off]) | uint32(image[off+1])<<8 | uint32(image[off+2])<<16 | uint32(image[off+3])<<24
				fmt.Printf("%#08x:  %s\n", off, cpu.Disassemble(word))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "raw program image")
	return cmd
}
