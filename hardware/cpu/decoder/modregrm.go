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
	"github.com/jetsetilly/gopher86/hardware/cpu/instructions"
)

// format describes how the fields of the ModRegRM byte map to the operands
// of an instruction
type format int

const (
	formatNone format = iota

	// r/m is the destination and reg is the source
	formatMemReg

	// reg is the destination and r/m is the source
	formatRegMem

	// r/m is the destination and reg names a segment register
	formatMemSeg

	// reg names a segment register and r/m is the source
	formatSegMem

	// reg is the destination and r/m must refer to memory
	formatRegAddress

	// r/m is the destination and there is an immediate source
	formatMemImm

	// r/m is the only operand and is the destination
	formatMem

	// r/m is the only operand and is the source
	formatMemSource

	// reg is the destination, r/m is the source and there is an immediate
	formatRegMemImm

	// r/m is the destination, reg is the source and there may be an immediate
	formatMemRegImm

	// reg is the destination at the natural size and r/m is the source at the
	// size of the instruction
	formatExtend

	// r/m is a 32-bit register and reg numbers a control, debug or test
	// register. the direction is given by the operation
	formatSpecialRegister

	// reg and the low bits of the opcode form the ESC code
	formatEscape

	// reg selects the operation
	formatGroup1
	formatGroup2
	formatGroup3
	formatGroup4
	formatGroup5
	formatGroup6
	formatGroup7
	formatGroup8
)

var group1 = [8]instructions.Operation{
	instructions.ADD, instructions.OR, instructions.ADC, instructions.SBB,
	instructions.AND, instructions.SUB, instructions.XOR, instructions.CMP,
}

var group2 = [8]instructions.Operation{
	instructions.ROL, instructions.ROR, instructions.RCL, instructions.RCR,
	instructions.SAL, instructions.SHR, instructions.SAL, instructions.SAR,
}

func (d *Decoder[E]) decodeModRegRM(b uint8) {
	d.mod = b >> 6
	d.reg = (b >> 3) & 0x07
	d.rm = b & 0x07

	// moves to and from the special registers always use a register operand
	if d.format == formatSpecialRegister {
		d.mod = 3
	}

	if d.mod == 3 {
		d.memory = instructions.None
		d.finishModRegRM()
		return
	}

	if d.addressSize() == instructions.Address32 {
		if d.rm == 4 {
			d.phase = awaitingScaleIndexBase
			return
		}
		if d.mod == 0 && d.rm == 5 {
			d.memory = instructions.DirectAddress
			d.displacementBytes = 4
		} else {
			d.memory = instructions.Indirect
			d.sib = instructions.NewScaleIndexBase(0, instructions.NoIndex, d.rm)
			d.displacement32()
		}
		d.finishModRegRM()
		return
	}

	if d.mod == 0 && d.rm == 6 {
		d.memory = instructions.DirectAddress
		d.displacementBytes = 2
	} else {
		d.memory = instructions.Indirect
		d.sib = instructions.ScaleIndexBase16(d.rm)
		switch d.mod {
		case 1:
			d.displacementBytes = 1
			d.signExtendDisplacement = true
		case 2:
			d.displacementBytes = 2
			d.signExtendDisplacement = true
		}
	}
	d.finishModRegRM()
}

// displacement32 sets the displacement size for a 32-bit address
func (d *Decoder[E]) displacement32() {
	switch d.mod {
	case 1:
		d.displacementBytes = 1
		d.signExtendDisplacement = true
	case 2:
		d.displacementBytes = 4
	}
}

func (d *Decoder[E]) decodeScaleIndexBase(b uint8) {
	d.sib = instructions.ScaleIndexBase(b)
	if d.sib.Base() == 5 && d.mod == 0 {
		d.memory = instructions.IndirectNoBase
		d.displacementBytes = 4
	} else {
		d.memory = instructions.Indirect
		d.displacement32()
	}
	d.finishModRegRM()
}

// rmOperand returns the operand described by the mod and rm fields
func (d *Decoder[E]) rmOperand(s size) instructions.Source {
	if d.mod == 3 {
		return d.register(d.rm, s)
	}
	return d.memory
}

// finishModRegRM sets the operands of the instruction once the ModRegRM byte
// and any SIB byte have been decoded
func (d *Decoder[E]) finishModRegRM() {
	switch d.format {
	case formatMemReg:
		d.destination = d.rmOperand(d.size)
		d.source = d.register(d.reg, d.size)

	case formatRegMem:
		d.destination = d.register(d.reg, d.size)
		d.source = d.rmOperand(d.size)

	case formatMemSeg:
		seg, ok := d.segment(d.reg)
		if !ok {
			d.invalid()
			return
		}
		d.destination = d.rmOperand(sizeWord)
		d.source = seg

	case formatSegMem:
		seg, ok := d.segment(d.reg)
		if !ok || (seg == instructions.CS && d.model >= instructions.I80286) {
			d.invalid()
			return
		}
		d.destination = seg
		d.source = d.rmOperand(sizeWord)

	case formatRegAddress:
		if d.mod == 3 {
			d.invalid()
			return
		}
		d.destination = d.register(d.reg, d.size)
		d.source = d.memory

	case formatMemImm:
		d.destination = d.rmOperand(d.size)
		d.source = instructions.Immediate
		d.immediateForSize()

	case formatMem:
		// POP r/m is only defined for a reg field of zero
		if d.operation == instructions.POP && d.reg != 0 {
			d.invalid()
			return
		}
		d.destination = d.rmOperand(d.size)

	case formatMemSource:
		d.source = d.rmOperand(d.size)

	case formatRegMemImm:
		d.destination = d.register(d.reg, d.size)
		d.source = d.rmOperand(d.size)

	case formatMemRegImm:
		d.destination = d.rmOperand(d.size)
		d.source = d.register(d.reg, d.size)

	case formatExtend:
		d.destination = d.register(d.reg, sizeNatural)
		d.source = d.rmOperand(d.size)

	case formatSpecialRegister:
		r := instructions.Register(d.rm, instructions.DWord)
		switch d.operation {
		case instructions.MOVfromCr, instructions.MOVfromDr, instructions.MOVfromTr:
			d.destination = r
		default:
			d.source = r
		}
		d.operand = uint32(d.reg)

	case formatEscape:
		d.source = d.rmOperand(d.size)
		d.operand |= uint32(d.reg)

	case formatGroup1:
		d.operation = group1[d.reg]
		d.destination = d.rmOperand(d.size)
		d.source = instructions.Immediate

	case formatGroup2:
		d.operation = group2[d.reg]
		if d.reg == 6 && d.model == instructions.I8086 {
			if d.source == instructions.CL {
				d.operation = instructions.SETMOC
			} else {
				d.operation = instructions.SETMO
			}
		}
		d.destination = d.rmOperand(d.size)

	case formatGroup3:
		switch d.reg {
		case 0, 1:
			d.operation = instructions.TEST
			d.destination = d.rmOperand(d.size)
			d.source = instructions.Immediate
			d.immediateForSize()
		case 2:
			d.operation = instructions.NOT
			d.destination = d.rmOperand(d.size)
		case 3:
			d.operation = instructions.NEG
			d.destination = d.rmOperand(d.size)
		default:
			d.operation = [...]instructions.Operation{
				instructions.MUL, instructions.IMUL_1, instructions.DIV, instructions.IDIV,
			}[d.reg-4]
			d.source = d.rmOperand(d.size)
		}

	case formatGroup4:
		switch d.reg {
		case 0:
			d.operation = instructions.INC
		case 1:
			d.operation = instructions.DEC
		default:
			d.invalid()
			return
		}
		d.destination = d.rmOperand(d.size)

	case formatGroup5:
		switch d.reg {
		case 0:
			d.operation = instructions.INC
			d.destination = d.rmOperand(d.size)
		case 1:
			d.operation = instructions.DEC
			d.destination = d.rmOperand(d.size)
		case 2:
			d.operation = instructions.CALLabs
			d.source = d.rmOperand(d.size)
		case 3, 5:
			if d.mod == 3 {
				d.invalid()
				return
			}
			d.operation = instructions.CALLfar
			if d.reg == 5 {
				d.operation = instructions.JMPfar
			}
			d.source = d.memory
		case 4:
			d.operation = instructions.JMPabs
			d.source = d.rmOperand(d.size)
		case 6:
			d.operation = instructions.PUSH
			d.source = d.rmOperand(d.size)
		case 7:
			if d.model != instructions.I8086 {
				d.invalid()
				return
			}
			d.operation = instructions.PUSH
			d.source = d.rmOperand(d.size)
		}

	case formatGroup6:
		d.size = sizeWord
		switch d.reg {
		case 0:
			d.operation = instructions.SLDT
			d.destination = d.rmOperand(d.size)
		case 1:
			d.operation = instructions.STR
			d.destination = d.rmOperand(d.size)
		case 2, 3, 4, 5:
			d.operation = [...]instructions.Operation{
				instructions.LLDT, instructions.LTR, instructions.VERR, instructions.VERW,
			}[d.reg-2]
			d.source = d.rmOperand(d.size)
		default:
			d.invalid()
			return
		}

	case formatGroup7:
		switch d.reg {
		case 0, 1, 2, 3:
			if d.mod == 3 {
				d.invalid()
				return
			}
			d.operation = [...]instructions.Operation{
				instructions.SGDT, instructions.SIDT, instructions.LGDT, instructions.LIDT,
			}[d.reg]
			if d.reg < 2 {
				d.destination = d.memory
			} else {
				d.source = d.memory
			}
		case 4:
			d.operation = instructions.SMSW
			d.size = sizeWord
			d.destination = d.rmOperand(d.size)
		case 6:
			d.operation = instructions.LMSW
			d.size = sizeWord
			d.source = d.rmOperand(d.size)
		default:
			d.invalid()
			return
		}

	case formatGroup8:
		if d.reg < 4 {
			d.invalid()
			return
		}
		d.operation = [...]instructions.Operation{
			instructions.BT, instructions.BTS, instructions.BTR, instructions.BTC,
		}[d.reg-4]
		d.destination = d.rmOperand(d.size)
		d.source = instructions.Immediate
	}

	d.afterOperands()
}

// segment returns the segment register named by the reg field. FS and GS are
// only available on the 80386. Models before the 80286 ignore the top bit of
// the field
func (d *Decoder[E]) segment(reg uint8) (instructions.Source, bool) {
	if d.model < instructions.I80286 {
		reg &= 0x03
	} else if reg > 3 && !d.model.Uses32Bit() {
		return instructions.None, false
	}
	return instructions.Segment(reg)
}

// immediateForSize sets the operand bytes for an immediate of the size of the
// instruction
func (d *Decoder[E]) immediateForSize() {
	switch d.size {
	case sizeByte:
		d.immediate(1, false)
	case sizeWord:
		d.immediate(2, false)
	default:
		d.immediate(d.naturalBytes(), false)
	}
}
