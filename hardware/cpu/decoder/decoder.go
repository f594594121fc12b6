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

package decoder

import (
	"fmt"

	"github.com/jetsetilly/gopher86/hardware/cpu/instructions"
)

type phase int

const (
	capturingPrefixesAndOpcode phase = iota
	awaitingModRegRM
	awaitingScaleIndexBase
	awaitingDisplacementOrOperand
	readyToPost
)

type repetition int

const (
	noRepetition repetition = iota
	repE
	repNE
)

// the width class of an operation before the operand size is applied
type size int

const (
	sizeNone size = iota
	sizeByte
	sizeWord
	sizeDWord

	// word or doubleword depending on the operand size
	sizeNatural
)

// Decoder turns a stream of bytes into instructions for a specific processor
// model. The Decoder keeps its state between calls to Decode() so an
// instruction can be supplied in as many parts as necessary.
type Decoder[E instructions.Extension] struct {
	model instructions.Model
	phase phase

	// number of bytes of the current instruction consumed so far
	consumed int

	defaultAddress32 bool

	// prefixes
	lock              bool
	repetition        repetition
	segmentOverride   instructions.Source
	operandSizeToggle bool
	addressSizeToggle bool

	// opcode is on the two-byte page
	page0F bool

	// results of the opcode and ModRegRM bytes
	operation   instructions.Operation
	size        size
	source      instructions.Source
	destination instructions.Source
	format      format
	sib         instructions.ScaleIndexBase

	// fields of the ModRegRM byte
	mod uint8
	reg uint8
	rm  uint8

	// the register or memory operand described by the ModRegRM byte
	memory instructions.Source

	// displacement and operand values, either preset by the opcode or
	// accumulated from the bytes that follow
	displacementBytes      int
	operandBytes           int
	signExtendDisplacement bool
	signExtendOperand      bool
	displacement           uint32
	operand                uint32
	accumulated            int
}

// NewDecoder16 is the preferred method of initialisation for a decoder of a
// model without 32-bit support.
func NewDecoder16(model instructions.Model) *Decoder[uint16] {
	if model.Uses32Bit() {
		panic(fmt.Sprintf("decoder: %s requires a 32-bit decoder", model))
	}
	d := &Decoder[uint16]{model: model}
	d.reset()
	return d
}

// NewDecoder32 is the preferred method of initialisation for a decoder of a
// model with 32-bit support.
func NewDecoder32(model instructions.Model) *Decoder[uint32] {
	d := &Decoder[uint32]{model: model}
	d.reset()
	return d
}

// Model returns the processor model being decoded for.
func (d *Decoder[E]) Model() instructions.Model {
	return d.model
}

// SetDefaultSize sets the default address and operand size. The two sizes
// always change together. Panics if 32-bit sizes are requested of a model
// that does not support them.
func (d *Decoder[E]) SetDefaultSize(s instructions.AddressSize) {
	if s == instructions.Address32 && !d.model.Uses32Bit() {
		panic(fmt.Sprintf("decoder: %s does not support 32-bit sizes", d.model))
	}
	d.defaultAddress32 = s == instructions.Address32
}

// DefaultSize returns the default address and operand size.
func (d *Decoder[E]) DefaultSize() instructions.AddressSize {
	if d.defaultAddress32 {
		return instructions.Address32
	}
	return instructions.Address16
}

// reset prepares the decoder for the first byte of a new instruction
func (d *Decoder[E]) reset() {
	d.phase = capturingPrefixesAndOpcode
	d.consumed = 0
	d.lock = false
	d.repetition = noRepetition
	d.segmentOverride = instructions.None
	d.operandSizeToggle = false
	d.addressSizeToggle = false
	d.page0F = false
	d.operation = instructions.Invalid
	d.size = sizeNone
	d.source = instructions.None
	d.destination = instructions.None
	d.format = formatNone
	d.sib = 0
	d.memory = instructions.None
	d.displacementBytes = 0
	d.operandBytes = 0
	d.signExtendDisplacement = false
	d.signExtendOperand = false
	d.displacement = 0
	d.operand = 0
	d.accumulated = 0
}

func (d *Decoder[E]) addressSize() instructions.AddressSize {
	if d.defaultAddress32 != d.addressSizeToggle {
		return instructions.Address32
	}
	return instructions.Address16
}

func (d *Decoder[E]) operandSize32() bool {
	return d.defaultAddress32 != d.operandSizeToggle
}

// dataSize returns the width of a size class after the operand size has been
// applied
func (d *Decoder[E]) dataSize(s size) instructions.DataSize {
	switch s {
	case sizeByte:
		return instructions.Byte
	case sizeWord:
		return instructions.Word
	case sizeDWord:
		return instructions.DWord
	case sizeNatural:
		if d.operandSize32() {
			return instructions.DWord
		}
		return instructions.Word
	}
	return instructions.NoData
}

// naturalBytes is the number of bytes in an immediate of the natural size
func (d *Decoder[E]) naturalBytes() int {
	if d.operandSize32() {
		return 4
	}
	return 2
}

// Decode consumes bytes from the buffer until an instruction is complete or
// the buffer is exhausted.
//
// A positive return value indicates that an instruction is complete and is the
// total length of the instruction, including any bytes consumed by earlier
// calls. A zero or negative return value indicates that more bytes are
// needed. The bytes given have been consumed and the next call should supply
// the bytes that follow them. A negative value is a hint at the minimum number
// of bytes still required.
//
// Decoding never fails. Unrecognised opcodes produce an instruction with the
// Invalid operation.
func (d *Decoder[E]) Decode(buffer []uint8) (int, instructions.Instruction[E]) {
	maxLength := d.model.MaxInstructionLength()

	for {
		if d.phase == readyToPost {
			return d.post()
		}

		if len(buffer) == 0 {
			return d.required(), instructions.Instruction[E]{}
		}

		b := buffer[0]
		buffer = buffer[1:]
		d.consumed++

		switch d.phase {
		case capturingPrefixesAndOpcode:
			if d.page0F {
				d.page0F = false
				d.decodePage0F(b)
			} else {
				d.decodePage1(b)
			}
		case awaitingModRegRM:
			d.decodeModRegRM(b)
		case awaitingScaleIndexBase:
			d.decodeScaleIndexBase(b)
		case awaitingDisplacementOrOperand:
			d.accumulate(b)
		}

		// the instruction is too long if it has not completed on the last
		// permitted byte
		if d.phase != readyToPost && d.consumed >= maxLength {
			return d.overlong()
		}
	}
}

// required returns the negative hint of how many more bytes are needed
func (d *Decoder[E]) required() int {
	if d.phase == awaitingDisplacementOrOperand {
		return -(d.displacementBytes + d.operandBytes - d.accumulated)
	}
	return -1
}

// overlong abandons an instruction that has reached the maximum length
func (d *Decoder[E]) overlong() (int, instructions.Instruction[E]) {
	n := d.consumed
	op := instructions.Invalid
	if !d.model.HasInstructionLengthLimit() {
		op = instructions.NOP
	}
	ins := instructions.New[E](op, instructions.DataPointer{Source: instructions.None},
		instructions.DataPointer{Source: instructions.None}, false, d.addressSize(),
		instructions.DS, instructions.NoData, 0, 0)
	d.reset()
	return n, ins
}

// invalid completes the current instruction as an invalid instruction
func (d *Decoder[E]) invalid() {
	d.operation = instructions.Invalid
	d.phase = readyToPost
}

// set describes an instruction that has no ModRegRM byte
func (d *Decoder[E]) set(op instructions.Operation, destination, source instructions.Source, s size) {
	d.operation = op
	d.destination = destination
	d.source = source
	d.size = s
	d.phase = readyToPost
}

// setModRegRM describes an instruction that is followed by a ModRegRM byte
func (d *Decoder[E]) setModRegRM(f format, op instructions.Operation, s size) {
	d.format = f
	d.operation = op
	d.size = s
	d.phase = awaitingModRegRM
}

// immediate indicates that the instruction has an immediate operand of the
// specified number of bytes
func (d *Decoder[E]) immediate(bytes int, signExtend bool) {
	d.operandBytes = bytes
	d.signExtendOperand = signExtend
}

// relative indicates that the instruction has a displacement from the
// instruction pointer of the specified number of bytes
func (d *Decoder[E]) relative(bytes int) {
	d.displacementBytes = bytes
	d.signExtendDisplacement = true
}

// farPointer indicates that the instruction has an offset and segment as its
// operand
func (d *Decoder[E]) farPointer() {
	d.displacementBytes = d.naturalBytes()
	d.operandBytes = 2
}

// register returns the general purpose register for the low three bits of r
// at the width of the size class
func (d *Decoder[E]) register(r uint8, s size) instructions.Source {
	return instructions.Register(r, d.dataSize(s))
}

// afterOperands moves to the displacement and operand phase if any bytes are
// required or completes the instruction if not
func (d *Decoder[E]) afterOperands() {
	if d.displacementBytes+d.operandBytes > 0 {
		d.phase = awaitingDisplacementOrOperand
	} else {
		d.phase = readyToPost
	}
}

// set the phase for an instruction without a ModRegRM byte that is followed
// by a displacement or operand
func (d *Decoder[E]) setWithOperands(op instructions.Operation, destination, source instructions.Source, s size) {
	d.set(op, destination, source, s)
	d.afterOperands()
}

func signExtend(v uint32, bytes int) uint32 {
	switch bytes {
	case 1:
		return uint32(int32(int8(v)))
	case 2:
		return uint32(int32(int16(v)))
	}
	return v
}

// accumulate collects the displacement and operand bytes
func (d *Decoder[E]) accumulate(b uint8) {
	if d.accumulated < d.displacementBytes {
		d.displacement |= uint32(b) << (8 * d.accumulated)
	} else {
		d.operand |= uint32(b) << (8 * (d.accumulated - d.displacementBytes))
	}
	d.accumulated++

	if d.accumulated == d.displacementBytes+d.operandBytes {
		if d.signExtendDisplacement {
			d.displacement = signExtend(d.displacement, d.displacementBytes)
		}
		if d.signExtendOperand {
			d.operand = signExtend(d.operand, d.operandBytes)
			if d.dataSize(d.size) == instructions.Word {
				d.operand &= 0xffff
			}
		}
		d.phase = readyToPost
	}
}

// post emits the completed instruction and resets the decoder
func (d *Decoder[E]) post() (int, instructions.Instruction[E]) {
	n := d.consumed

	if d.operation == instructions.Invalid {
		d.reset()
		return n, instructions.NewInvalid[E]()
	}

	op := d.repeated(d.operation)

	source := instructions.DataPointer{Source: d.source, SIB: d.sib}
	destination := instructions.DataPointer{Source: d.destination, SIB: d.sib}

	segment := d.segmentOverride
	if segment == instructions.None {
		segment = instructions.DS
		if d.source == instructions.Indirect {
			segment = source.DefaultSegment()
		} else if d.destination == instructions.Indirect {
			segment = destination.DefaultSegment()
		}
	}

	ins := instructions.New(op, source, destination, d.lock, d.addressSize(), segment,
		d.dataSize(d.size), E(d.displacement), E(d.operand))

	d.reset()
	return n, ins
}

// repeated returns the form of the operation for the repetition prefix
func (d *Decoder[E]) repeated(op instructions.Operation) instructions.Operation {
	if d.repetition == noRepetition {
		return op
	}

	switch op {
	case instructions.MOVS:
		return instructions.MOVS_REP
	case instructions.STOS:
		return instructions.STOS_REP
	case instructions.LODS:
		return instructions.LODS_REP
	case instructions.INS:
		return instructions.INS_REP
	case instructions.OUTS:
		return instructions.OUTS_REP
	case instructions.CMPS:
		if d.repetition == repE {
			return instructions.CMPS_REPE
		}
		return instructions.CMPS_REPNE
	case instructions.SCAS:
		if d.repetition == repE {
			return instructions.SCAS_REPE
		}
		return instructions.SCAS_REPNE
	case instructions.IDIV:
		if d.model == instructions.I8086 {
			return instructions.IDIV_REP
		}
	}

	return op
}
