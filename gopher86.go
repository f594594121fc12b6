// This file is part of Gopher86.
//
// Gopher86 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher86 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher86.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"os"

	"github.com/bradleyjkemp/memviz"
	"github.com/jetsetilly/gopher86/curated"
	"github.com/jetsetilly/gopher86/disassembly"
	"github.com/jetsetilly/gopher86/easyterm"
	"github.com/jetsetilly/gopher86/hardware/cpu"
	"github.com/jetsetilly/gopher86/hardware/cpu/execution"
	"github.com/jetsetilly/gopher86/hardware/cpu/instructions"
	"github.com/jetsetilly/gopher86/hardware/cpu/registers"
	"github.com/jetsetilly/gopher86/hardware/memory"
	"github.com/jetsetilly/gopher86/hardware/memory/ports"
	"github.com/jetsetilly/gopher86/logger"
	"github.com/jetsetilly/gopher86/modalflag"
	"github.com/jetsetilly/gopher86/statsview"
	"github.com/jetsetilly/gopher86/version"
	"github.com/k0kubun/pp/v3"
)

// the amount of memory given to the machine in RUN mode. the full address
// space of the 8086
const memorySize = 0x100000

// instructions performed in RUN mode if no limit is given
const defaultSteps = 1000000

var models = []string{"8086", "80186", "80286", "80386"}

func main() {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.NewMode()
	md.AddSubModes("DISASM", "RUN", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		os.Exit(0)

	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		os.Exit(10)
	}

	logger.Logf(logger.Allow, "gopher86", "%s mode", md.Mode())

	switch md.Mode() {
	case "DISASM":
		err = disasm(md)

	case "RUN":
		err = run(md)

	case "VERSION":
		fmt.Fprintln(md.Output, version.String())
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md.String(), err)
		os.Exit(20)
	}
}

// modelAndSize converts the model flag to a Model and checks that the model
// supports 32-bit default sizes if they are requested
func modelAndSize(name string, use32 bool) (instructions.Model, instructions.AddressSize, error) {
	model, ok := instructions.ParseModel(name)
	if !ok {
		return model, instructions.Address16, curated.Errorf("unrecognised model (%s)", name)
	}
	if !use32 {
		return model, instructions.Address16, nil
	}
	if !model.Uses32Bit() {
		return model, instructions.Address16, curated.Errorf("%s does not support 32-bit default sizes", model)
	}
	return model, instructions.Address32, nil
}

// loadProgram reads the single file argument of the mode
func loadProgram(md *modalflag.Modes) ([]uint8, error) {
	switch len(md.RemainingArgs()) {
	case 0:
		return nil, curated.Errorf("binary file required for %s mode", md)
	case 1:
		data, err := os.ReadFile(md.GetArg(0))
		if err != nil {
			return nil, curated.Errorf("%v", err)
		}
		return data, nil
	}
	return nil, curated.Errorf("too many arguments for %s mode", md)
}

func disasm(md *modalflag.Modes) error {
	md.NewMode()

	model := md.AddChoice("model", "8086", models, "processor model")
	origin := md.AddUint32("origin", 0x100, "address of the first byte of the file")
	use32 := md.AddBool("32", false, "use 32-bit default address and operand sizes (80386 only)")
	bytecode := md.AddBool("bytecode", true, "include bytecode in disassembly")
	grep := md.AddString("grep", "", "only show instructions that contain the string")
	memvizFile := md.AddString("memviz", "", "write a graph of the disassembly to the named dot file")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	m, size, err := modelAndSize(*model, *use32)
	if err != nil {
		return err
	}

	data, err := loadProgram(md)
	if err != nil {
		return err
	}

	dsm, err := disassembly.FromBytesWithSize(m, size, *origin, data)
	if err != nil {
		return err
	}

	if *memvizFile != "" {
		f, err := os.Create(*memvizFile)
		if err != nil {
			return curated.Errorf("%v", err)
		}
		memviz.Map(f, dsm)
		if err := f.Close(); err != nil {
			return curated.Errorf("%v", err)
		}
	}

	if *grep != "" {
		_, err = dsm.Grep(md.Output, disassembly.GrepAll, *grep, false)
		return err
	}

	return dsm.WriteWithAttr(md.Output, disassembly.WriteAttr{ByteCode: *bytecode, Level: true})
}

// machineState is the summary printed by the -dump flag
type machineState struct {
	Model        string
	Instructions int
	Halted       bool
	Registers    string
	Flags        string
	Control      string
	LastResult   execution.Result
}

func run(md *modalflag.Modes) error {
	md.NewMode()

	model := md.AddChoice("model", "8086", models, "processor model")
	segment := md.AddUint32("segment", 0x1000, "segment the file is loaded into")
	origin := md.AddUint32("origin", 0x100, "offset in the segment of the first byte of the file")
	use32 := md.AddBool("32", false, "use 32-bit default address and operand sizes (80386 only)")
	steps := md.AddInt("steps", defaultSteps, "maximum number of instructions to perform. zero for no limit")
	trace := md.AddBool("trace", false, "print every instruction as it is performed")
	step := md.AddBool("step", false, "wait for a key press before every instruction")
	dump := md.AddBool("dump", false, "print machine state when execution stops")
	stats := md.AddBool("statsview", false, "run stats server (only if built with the statsview tag)")
	log := md.AddBool("log", false, "echo log to stderr")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	m, size, err := modelAndSize(*model, *use32)
	if err != nil {
		return err
	}

	if *segment > 0xffff {
		return curated.Errorf("segment must be a 16-bit value (%#x)", *segment)
	}

	data, err := loadProgram(md)
	if err != nil {
		return err
	}

	if *log {
		logger.SetEcho(os.Stderr)
	}

	if *stats {
		if !statsview.Available() {
			return curated.Errorf("stats server not available in this build")
		}
		stop := statsview.Launch(md.Output)
		defer stop()
	}

	regs := registers.NewRegisters()
	mem, err := memory.NewSegmented(m, regs, memorySize)
	if err != nil {
		return err
	}

	linear := *segment<<4 + *origin
	if int(linear)+len(data) > memorySize {
		return curated.Errorf("program does not fit in memory at %04x:%04x", *segment, *origin)
	}
	mem.Load(linear, data)

	mc := cpu.NewCPU(m, regs, mem, ports.NewPorts())
	mc.SetDefaultSize(size)
	regs.SetCS(uint16(*segment))
	regs.SetDS(uint16(*segment))
	regs.SetES(uint16(*segment))
	regs.SetSS(uint16(*segment))
	regs.SetEIP(*origin)
	regs.SetSP(0xfffe)

	var term *easyterm.Terminal
	if *step {
		if !easyterm.IsTerminal(os.Stdin) {
			return curated.Errorf("-step requires a terminal")
		}
		term, err = easyterm.Initialise(os.Stdout)
		if err != nil {
			return err
		}
		defer term.CleanUp()
		if err := term.CBreakMode(); err != nil {
			return err
		}
	}

	n := 0
	for *steps == 0 || n < *steps {
		if term != nil {
			quit, err := waitForKey(term, mc)
			if err != nil {
				return err
			}
			if quit {
				break
			}
		}

		if err := mc.ExecuteInstruction(); err != nil {
			return err
		}
		n++

		if *trace || term != nil {
			fmt.Fprintln(md.Output, mc.LastResult.String())
		}

		if mc.IsHalted() {
			break
		}
	}

	fmt.Fprintf(md.Output, "%d instructions performed\n", n)

	if *dump {
		state := machineState{
			Model:        m.String(),
			Instructions: n,
			Halted:       mc.IsHalted(),
			Registers:    mc.Registers.String(),
			Flags:        mc.Flags.String(),
			LastResult:   mc.LastResult,
		}
		if mc.Control != nil {
			state.Control = mc.Control.String()
		}

		printer := pp.New()
		printer.SetColoringEnabled(easyterm.IsTerminal(os.Stdout))
		printer.Fprintln(md.Output, state)
	}

	return nil
}

// waitForKey returns true if the user asks to stop execution
func waitForKey(term *easyterm.Terminal, mc *cpu.CPU) (bool, error) {
	for {
		k, err := term.ReadKey()
		if err != nil {
			return true, err
		}

		switch k {
		case easyterm.KeySpace, easyterm.KeyCarriageReturn, easyterm.KeyLineFeed:
			return false, nil
		case 'r':
			term.Print("%s\n", mc)
		case 'q', easyterm.KeyEsc, easyterm.KeyInterrupt:
			return true, nil
		}
	}
}
