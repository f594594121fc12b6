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

package cpu

import (
	"fmt"

	"github.com/jetsetilly/gopher86/curated"
	"github.com/jetsetilly/gopher86/hardware/cpu/decoder"
	"github.com/jetsetilly/gopher86/hardware/cpu/exceptions"
	"github.com/jetsetilly/gopher86/hardware/cpu/execution"
	"github.com/jetsetilly/gopher86/hardware/cpu/flags"
	"github.com/jetsetilly/gopher86/hardware/cpu/instructions"
	"github.com/jetsetilly/gopher86/hardware/cpu/registers"
	"github.com/jetsetilly/gopher86/hardware/memory/cpubus"
	"github.com/jetsetilly/gopher86/logger"
)

// Sentinal error patterns returned by the CPU.
const (
	Halted      = "cpu: processor is halted"
	DoubleFault = "cpu: fault while delivering %v: %v"
	FetchFault  = "cpu: instruction fetch at %04x:%04x: %v"
)

// CPU is an x86 processor of a specific model. The CPU drives the decoder and
// the execution package and is the FlowController for the instructions it
// performs.
type CPU struct {
	model instructions.Model

	Registers *registers.Registers
	Flags     flags.Flags

	// Control is nil for models before the 80286
	Control *registers.Control

	mem cpubus.Memory
	io  cpubus.IO

	ctx execution.Context

	// only one of the decoders is used, depending on the model
	decoder16 *decoder.Decoder[uint16]
	decoder32 *decoder.Decoder[uint32]

	// the most recently decoded instruction. it is performed again without
	// decoding if a repetition is pending
	last16 instructions.Instruction[uint16]
	last32 instructions.Instruction[uint32]

	// address of the first byte of the most recently decoded instruction
	lastOffset uint32

	// the instruction asked to be performed again
	repeating bool

	// the CPU has performed HLT. it remains halted until Reset() or
	// Interrupt()
	halted bool

	// the number of WAIT instructions performed. there is no coprocessor so
	// WAIT never waits
	Waits int

	// LastResult is the record of the most recent call to ExecuteInstruction()
	LastResult execution.Result
}

// NewCPU is the preferred method of initialisation for the CPU type. The
// Registers instance should be the same instance given to the memory
// implementation, which needs it to form addresses from segments.
func NewCPU(model instructions.Model, regs *registers.Registers, mem cpubus.Memory, io cpubus.IO) *CPU {
	mc := &CPU{
		model:     model,
		Registers: regs,
		mem:       mem,
		io:        io,
	}

	if model.Uses32Bit() {
		mc.decoder32 = decoder.NewDecoder32(model)
	} else {
		mc.decoder16 = decoder.NewDecoder16(model)
	}

	mc.ctx = execution.Context{
		Model:     model,
		Flags:     &mc.Flags,
		Registers: regs,
		Memory:    mem,
		IO:        io,
		Flow:      flowController{mc: mc},
	}

	// the context must see an untyped nil when there is no control state
	if model.HasExceptions() {
		mc.Control = registers.NewControl(model.Uses32Bit())
		mc.ctx.Control = mc.Control
	}

	mc.Reset()

	return mc
}

// Model returns the processor model being emulated.
func (mc *CPU) Model() instructions.Model {
	return mc.model
}

func (mc *CPU) String() string {
	return fmt.Sprintf("%s\n%s", mc.Registers, mc.Flags)
}

// Reset returns the CPU to its reset state. Execution begins at FFFF:0000.
func (mc *CPU) Reset() {
	mc.Registers.Reset()
	mc.Flags.Reset()
	if mc.Control != nil {
		mc.Control.Reset()
	}

	// new decoders discard any partially decoded instruction
	if mc.decoder32 != nil {
		mc.decoder32 = decoder.NewDecoder32(mc.model)
	} else {
		mc.decoder16 = decoder.NewDecoder16(mc.model)
	}

	mc.repeating = false
	mc.halted = false
	mc.Waits = 0
	mc.LastResult = execution.Result{}
}

// SetDefaultSize sets the default address and operand size of the decoder.
// Panics if 32-bit sizes are requested of a model that does not support them.
func (mc *CPU) SetDefaultSize(s instructions.AddressSize) {
	if mc.decoder32 != nil {
		mc.decoder32.SetDefaultSize(s)
	} else {
		mc.decoder16.SetDefaultSize(s)
	}
}

// IsHalted returns true if the CPU has performed HLT.
func (mc *CPU) IsHalted() bool {
	return mc.halted
}

// IsRepeating returns true if the next call to ExecuteInstruction() will
// perform the most recent instruction again.
func (mc *CPU) IsRepeating() bool {
	return mc.repeating
}

// Interrupt delivers an external interrupt through the interrupt vector
// table. Maskable interrupts are ignored if the Interrupt flag is clear,
// in which case the function returns false. A halted CPU resumes execution.
//
// A pending repetition is abandoned and the instruction pointer is rewound to
// the start of the repeated instruction so it resumes after the handler
// returns.
func (mc *CPU) Interrupt(vector uint8, maskable bool) (bool, error) {
	if maskable && !mc.Flags.Flag(flags.Interrupt) {
		return false, nil
	}

	if mc.repeating {
		mc.repeating = false
		mc.Registers.SetEIP(mc.lastOffset)
	}

	mc.halted = false

	if err := execution.Interrupt(&mc.ctx, vector); err != nil {
		return false, curated.Errorf(DoubleFault, exceptions.Cause(vector), err)
	}
	return true, nil
}

// ExecuteInstruction performs the next instruction. If the previous
// instruction asked to be repeated it is performed again without being
// decoded. Otherwise the instruction is fetched from CS:IP and decoded.
//
// On the 80286 and later a fault raised by the instruction rewinds the
// instruction pointer to the start of the instruction before the fault is
// delivered through the interrupt vector table. The fault is recorded in
// LastResult and is not returned. Earlier models deliver faults as part of the
// instruction and they are not recorded.
//
// Returned errors are curated errors and indicate that the CPU cannot
// continue. An error matching the Halted pattern is returned if the CPU is
// halted.
func (mc *CPU) ExecuteInstruction() error {
	if mc.halted {
		return curated.Errorf(Halted)
	}

	if mc.decoder32 != nil {
		return execute(mc, mc.decoder32, &mc.last32)
	}
	return execute(mc, mc.decoder16, &mc.last16)
}

// execute is instantiated for each decoder width
func execute[E instructions.Extension](mc *CPU, dec *decoder.Decoder[E], last *instructions.Instruction[E]) error {
	repeated := mc.repeating
	mc.repeating = false

	if !repeated {
		mc.LastResult = execution.Result{
			Model:   mc.model,
			Segment: mc.Registers.CS(),
			Offset:  mc.Registers.EIP(),
		}
		mc.lastOffset = mc.Registers.EIP()

		n, ins, err := fetch(mc, dec)
		if err != nil {
			return err
		}
		*last = ins

		mc.LastResult.ByteCount = n
		mc.LastResult.Instruction = ins.String()
	}

	mc.LastResult.Repeated = repeated
	mc.LastResult.Fault = nil
	mc.LastResult.Final = false

	err := execution.Perform(last, &mc.ctx)
	mc.LastResult.Quirk = mc.ctx.Quirk

	if err != nil {
		e, ok := exceptions.As(err)
		if !ok {
			return err
		}

		mc.LastResult.Fault = e
		logger.Logf(logger.Allow, "cpu", "%v at %04x:%04x", e, mc.LastResult.Segment, mc.LastResult.Offset)

		// the fault is delivered with the address of the faulting
		// instruction
		mc.repeating = false
		mc.Registers.SetEIP(mc.lastOffset)
		if err := execution.Interrupt(&mc.ctx, e.Vector()); err != nil {
			mc.LastResult.Final = true
			return curated.Errorf(DoubleFault, e, err)
		}
	}

	mc.LastResult.Final = true
	return nil
}

// fetch reads bytes from CS:IP and feeds them to the decoder one at a time
// until an instruction is complete. The instruction pointer is advanced past
// the instruction
func fetch[E instructions.Extension](mc *CPU, dec *decoder.Decoder[E]) (int, instructions.Instruction[E], error) {
	mask := instructions.Address16.Mask()
	if dec.DefaultSize() == instructions.Address32 {
		mask = instructions.Address32.Mask()
	}

	offset := mc.Registers.EIP()

	for {
		p, err := mc.mem.Access8(instructions.CS, offset&mask, cpubus.Read)
		if err != nil {
			// the partial instruction cannot be completed
			if mc.decoder32 != nil {
				mc.decoder32 = decoder.NewDecoder32(mc.model)
			} else {
				mc.decoder16 = decoder.NewDecoder16(mc.model)
			}
			return 0, instructions.Instruction[E]{}, curated.Errorf(FetchFault, mc.Registers.CS(), offset, err)
		}

		b := *p
		offset++

		// an overlong instruction on the 8086 can be very long. only the
		// first bytes are kept
		if len(mc.LastResult.Bytes) < instructions.I80386.MaxInstructionLength() {
			mc.LastResult.Bytes = append(mc.LastResult.Bytes, b)
		}

		n, ins := dec.Decode([]uint8{b})
		if n > 0 {
			if n > len(mc.LastResult.Bytes) {
				mc.LastResult.Bytes = nil
			}
			if mask == instructions.Address16.Mask() {
				mc.Registers.SetIP(uint16(offset))
			} else {
				mc.Registers.SetEIP(offset)
			}
			return n, ins, nil
		}
	}
}

// flowController is the implementation of execution.FlowController for the
// CPU
type flowController struct {
	mc *CPU
}

func (f flowController) Jump16(offset uint16) {
	f.mc.Registers.SetIP(offset)
}

func (f flowController) Jump32(offset uint32) {
	f.mc.Registers.SetEIP(offset)
}

func (f flowController) JumpFar(segment uint16, offset uint32) {
	f.mc.Registers.SetCS(segment)
	f.mc.Registers.SetEIP(offset)
}

func (f flowController) RepeatLast() {
	f.mc.repeating = true
}

func (f flowController) Halt() {
	f.mc.halted = true
	logger.Logf(logger.Allow, "cpu", "halted at %04x:%04x", f.mc.LastResult.Segment, f.mc.LastResult.Offset)
}

func (f flowController) Wait() {
	f.mc.Waits++
}
