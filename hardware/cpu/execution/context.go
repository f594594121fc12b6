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

package execution

import (
	"github.com/jetsetilly/gopher86/hardware/cpu/flags"
	"github.com/jetsetilly/gopher86/hardware/cpu/instructions"
	"github.com/jetsetilly/gopher86/hardware/cpu/registers"
	"github.com/jetsetilly/gopher86/hardware/memory/cpubus"
)

// FlowController is implemented by the surrounding machine and is used by
// instructions that change the flow of execution.
//
// The instruction pointer seen in the Registers has already been advanced
// past the instruction being performed.
type FlowController interface {
	// jump to an offset in the current code segment
	Jump16(offset uint16)
	Jump32(offset uint32)

	// jump to an offset in another code segment
	JumpFar(segment uint16, offset uint32)

	// perform the current instruction again without decoding it
	RepeatLast()

	// stop execution until an interrupt
	Halt()

	// wait for the coprocessor
	Wait()
}

// Control is the CPU control bookkeeping introduced with the 80286. It is
// satisfied by registers.Control.
type Control interface {
	MachineStatus() uint16
	SetMachineStatus(uint16)
	ClearTaskSwitched()
	DescriptorTable(registers.DescriptorTable) registers.DescriptorTableRegister
	SetDescriptorTable(registers.DescriptorTable, registers.DescriptorTableRegister)
	ControlRegister(n uint8) (uint32, bool)
	SetControlRegister(n uint8, v uint32) bool
	DebugRegister(n uint8) (uint32, bool)
	SetDebugRegister(n uint8, v uint32) bool
	TestRegister(n uint8) (uint32, bool)
	SetTestRegister(n uint8, v uint32) bool
}

// Context is everything an instruction can act upon.
type Context struct {
	Model     instructions.Model
	Flags     *flags.Flags
	Registers *registers.Registers
	Memory    cpubus.Memory
	IO        cpubus.IO
	Flow      FlowController

	// Control can be nil, in which case the instructions that use it raise an
	// invalid opcode exception
	Control Control

	// the quirk triggered by the most recent call to Perform()
	Quirk Quirk
}

// Quirk names a model-specific behaviour that differs from the documented
// behaviour of the instruction.
type Quirk string

// List of valid Quirk values.
const (
	NoQuirk            Quirk = ""
	PushDecrementedSP  Quirk = "push of decremented stack pointer"
	StringFaultAdvance Quirk = "string operation advanced before fault"
	RepeatedIDIV       Quirk = "repeated idiv negates quotient"
	InvalidAsNOP       Quirk = "invalid opcode performed as nop"
	UndocumentedSETMO  Quirk = "undocumented setmo"
)
