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

package instructions

import (
	"github.com/jetsetilly/gopher86/hardware/cpu/numeric"
)

// Extension is the type of the displacement and operand words that follow
// the fixed part of an Instruction.
type Extension interface {
	uint16 | uint32
}

// Instruction is a fully decoded instruction. It describes the locations of
// its operands but holds no reference to registers or memory.
//
// The displacement word holds the displacement of an indirect address, the
// address of a DirectAddress operand, the offset of a far pointer, the
// displacement of a relative jump and the frame size of ENTER. The operand
// word holds an immediate value, the segment of a far pointer, the nesting
// level of ENTER, the code of ESC and the register number of the control,
// debug and test register moves.
type Instruction[E Extension] struct {
	operation   Operation
	source      Source
	destination Source
	sib         ScaleIndexBase

	// bits 0-2: segment
	// bits 3-4: data size
	// bit 5: address size
	// bit 6: lock
	attributes uint8

	displacement E
	operand      E
}

// Instruction16 is the instruction produced by the decoder for models without
// 32-bit support.
type Instruction16 = Instruction[uint16]

// Instruction32 is the instruction produced by the decoder for models with
// 32-bit support.
type Instruction32 = Instruction[uint32]

// New is the preferred method of initialisation for the Instruction type. Only
// one operand can refer to memory and it is the ScaleIndexBase of that operand
// that is kept.
func New[E Extension](operation Operation, source, destination DataPointer, lock bool,
	addressSize AddressSize, segment Source, dataSize DataSize, displacement, operand E) Instruction[E] {

	ins := Instruction[E]{
		operation:    operation,
		source:       source.Source,
		destination:  destination.Source,
		displacement: displacement,
		operand:      operand,
	}

	switch {
	case destination.Source == Indirect || destination.Source == IndirectNoBase:
		ins.sib = destination.SIB
	case source.Source == Indirect || source.Source == IndirectNoBase:
		ins.sib = source.SIB
	}

	if !segment.IsSegment() {
		segment = DS
	}
	ins.attributes = uint8(segment-ES) | uint8(dataSize&0x03)<<3 | uint8(addressSize&0x01)<<5
	if lock {
		ins.attributes |= 0x40
	}

	return ins
}

// NewInvalid returns an instruction with the Invalid operation.
func NewInvalid[E Extension]() Instruction[E] {
	return New[E](Invalid, DataPointer{Source: None}, DataPointer{Source: None}, false, Address16, DS, NoData, 0, 0)
}

// Operation returns the operation of the instruction.
func (ins Instruction[E]) Operation() Operation {
	return ins.operation
}

// Source returns the pointer to the source operand.
func (ins Instruction[E]) Source() DataPointer {
	return DataPointer{Source: ins.source, SIB: ins.sib}
}

// Destination returns the pointer to the destination operand.
func (ins Instruction[E]) Destination() DataPointer {
	return DataPointer{Source: ins.destination, SIB: ins.sib}
}

// Segment returns the segment used for memory operands. This is the segment
// override if there was one or the default segment for the memory operand.
func (ins Instruction[E]) Segment() Source {
	return ES + Source(ins.attributes&0x07)
}

// OperationSize returns the width of the data operated on.
func (ins Instruction[E]) OperationSize() DataSize {
	return DataSize((ins.attributes >> 3) & 0x03)
}

// AddressSize returns the width of the address computation.
func (ins Instruction[E]) AddressSize() AddressSize {
	return AddressSize((ins.attributes >> 5) & 0x01)
}

// Lock returns true if the instruction was preceded by the LOCK prefix.
func (ins Instruction[E]) Lock() bool {
	return ins.attributes&0x40 == 0x40
}

// Displacement returns the displacement word.
func (ins Instruction[E]) Displacement() E {
	return ins.displacement
}

// SignedDisplacement returns the displacement word as a signed value.
func (ins Instruction[E]) SignedDisplacement() int32 {
	return int32(numeric.SignExtend(ins.displacement))
}

// Operand returns the operand word.
func (ins Instruction[E]) Operand() E {
	return ins.operand
}

// MemoryOperand returns the pointer of whichever operand refers to memory.
// The second return value is false if neither does.
func (ins Instruction[E]) MemoryOperand() (DataPointer, bool) {
	if ins.destination.IsMemory() {
		return ins.Destination(), true
	}
	if ins.source.IsMemory() {
		return ins.Source(), true
	}
	return DataPointer{Source: None}, false
}
