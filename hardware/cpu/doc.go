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

// Package cpu drives the decoder and execution packages to emulate an x86
// processor of a specific model. The CPU type fetches bytes from CS:IP one at
// a time, feeds them to the decoder and performs each completed instruction.
//
// The CPU requires the register file used by the memory implementation, the
// memory itself and the I/O ports.
//
//	regs := registers.NewRegisters()
//	mem, _ := memory.NewSegmented(instructions.I80286, regs, 0x100000)
//	mc := cpu.NewCPU(instructions.I80286, regs, mem, ports.NewPorts())
//
//	for {
//		if err := mc.ExecuteInstruction(); err != nil {
//			break
//		}
//		fmt.Println(mc.LastResult)
//	}
//
// Repeated string instructions are performed once for every call to
// ExecuteInstruction(). The LastResult field records the repetition so that a
// debugger can step through each iteration.
//
// Faults raised by instructions are delivered through the interrupt vector
// table. On the 80286 and later the instruction pointer is rewound to the
// start of the faulting instruction first, and the fault is recorded in the
// LastResult field.
package cpu
