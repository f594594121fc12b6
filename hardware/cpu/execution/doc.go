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

// Package execution performs decoded instructions against the registers,
// memory and I/O ports of an x86 machine.
//
// The Perform() function is the only entry point. It takes an Instruction, as
// produced by the decoder package, and a Context which names the collaborators
// the instruction may act on. The Context is borrowed for the duration of the
// call and nothing is retained afterwards.
//
// Operands are resolved into Accessor values. An Accessor refers either to a
// register or to memory and the primitive operations act on the pointer it
// provides without needing to know which. The primitive operations are
// written once and instantiated for each of the three operand widths.
//
// Faults raised by an instruction are exceptions.Exception values. On models
// before the 80286 the fault is delivered immediately as an interrupt through
// the interrupt vector table and Perform() returns nil. Later models return
// the Exception and the surrounding machine decides what to do with it.
//
// The Result type records what happened during the execution of an
// instruction and can be checked for consistency with the IsValid() function.
package execution
