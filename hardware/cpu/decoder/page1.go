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

// decodePage1 decodes a prefix or an opcode from the one-byte opcode page
func (d *Decoder[E]) decodePage1(b uint8) {
	is186 := d.model >= instructions.I80186
	is286 := d.model >= instructions.I80286
	is386 := d.model >= instructions.I80386

	// the arithmetic and logical operations at the start of the page share an
	// encoding
	if b < 0x40 && b&0x07 < 6 {
		op := group1[b>>3]
		switch b & 0x07 {
		case 0:
			d.setModRegRM(formatMemReg, op, sizeByte)
		case 1:
			d.setModRegRM(formatMemReg, op, sizeNatural)
		case 2:
			d.setModRegRM(formatRegMem, op, sizeByte)
		case 3:
			d.setModRegRM(formatRegMem, op, sizeNatural)
		case 4:
			d.immediate(1, false)
			d.setWithOperands(op, instructions.AL, instructions.Immediate, sizeByte)
		case 5:
			d.immediate(d.naturalBytes(), false)
			d.setWithOperands(op, d.register(0, sizeNatural), instructions.Immediate, sizeNatural)
		}
		return
	}

	switch {
	case b >= 0x40 && b <= 0x47:
		d.set(instructions.INC, d.register(b, sizeNatural), instructions.None, sizeNatural)
		return
	case b >= 0x48 && b <= 0x4f:
		d.set(instructions.DEC, d.register(b, sizeNatural), instructions.None, sizeNatural)
		return
	case b >= 0x50 && b <= 0x57:
		d.set(instructions.PUSH, instructions.None, d.register(b, sizeNatural), sizeNatural)
		return
	case b >= 0x58 && b <= 0x5f:
		d.set(instructions.POP, d.register(b, sizeNatural), instructions.None, sizeNatural)
		return
	case b >= 0x70 && b <= 0x7f, b >= 0x60 && b <= 0x6f && !is186:
		// the 8086 decodes 0x60 to 0x6f as aliases of the conditional jumps
		d.relative(1)
		d.setWithOperands(instructions.JO+instructions.Operation(b&0x0f), instructions.None, instructions.None, sizeNatural)
		return
	case b >= 0x91 && b <= 0x97:
		d.set(instructions.XCHG, d.register(0, sizeNatural), d.register(b, sizeNatural), sizeNatural)
		return
	case b >= 0xb0 && b <= 0xb7:
		d.immediate(1, false)
		d.setWithOperands(instructions.MOV, d.register(b, sizeByte), instructions.Immediate, sizeByte)
		return
	case b >= 0xb8 && b <= 0xbf:
		d.immediate(d.naturalBytes(), false)
		d.setWithOperands(instructions.MOV, d.register(b, sizeNatural), instructions.Immediate, sizeNatural)
		return
	case b >= 0xd8 && b <= 0xdf:
		d.operand = uint32(b&0x07) << 3
		d.setModRegRM(formatEscape, instructions.ESC, sizeWord)
		return
	}

	switch b {
	// prefixes
	case 0x26:
		d.segmentOverride = instructions.ES
	case 0x2e:
		d.segmentOverride = instructions.CS
	case 0x36:
		d.segmentOverride = instructions.SS
	case 0x3e:
		d.segmentOverride = instructions.DS
	case 0x64, 0x65:
		if !is386 {
			d.invalid()
			return
		}
		d.segmentOverride = instructions.FS + instructions.Source(b-0x64)
	case 0x66:
		if !is386 {
			d.invalid()
			return
		}
		d.operandSizeToggle = true
	case 0x67:
		if !is386 {
			d.invalid()
			return
		}
		d.addressSizeToggle = true
	case 0xf0:
		d.lock = true
	case 0xf1:
		// the 8086 and 80186 decode 0xf1 as an alias of the lock prefix
		if is286 {
			d.invalid()
			return
		}
		d.lock = true
	case 0xf2:
		d.repetition = repNE
	case 0xf3:
		d.repetition = repE

	// segment register pushes and pops
	case 0x06, 0x0e, 0x16, 0x1e:
		seg, _ := instructions.Segment(b >> 3)
		d.set(instructions.PUSH, instructions.None, seg, sizeNatural)
	case 0x07, 0x17, 0x1f:
		seg, _ := instructions.Segment(b >> 3)
		d.set(instructions.POP, seg, instructions.None, sizeNatural)
	case 0x0f:
		if is286 {
			d.page0F = true
			return
		}
		d.set(instructions.POP, instructions.CS, instructions.None, sizeNatural)

	case 0x27:
		d.set(instructions.DAA, instructions.None, instructions.None, sizeByte)
	case 0x2f:
		d.set(instructions.DAS, instructions.None, instructions.None, sizeByte)
	case 0x37:
		d.set(instructions.AAA, instructions.None, instructions.None, sizeWord)
	case 0x3f:
		d.set(instructions.AAS, instructions.None, instructions.None, sizeWord)

	// 80186 additions
	case 0x60:
		d.set(instructions.PUSHA, instructions.None, instructions.None, sizeNatural)
	case 0x61:
		d.set(instructions.POPA, instructions.None, instructions.None, sizeNatural)
	case 0x62:
		d.setModRegRM(formatRegAddress, instructions.BOUND, sizeNatural)
	case 0x63:
		if !is286 {
			d.invalid()
			return
		}
		d.setModRegRM(formatMemReg, instructions.ARPL, sizeWord)
	case 0x68:
		d.immediate(d.naturalBytes(), false)
		d.setWithOperands(instructions.PUSH, instructions.None, instructions.Immediate, sizeNatural)
	case 0x69:
		d.immediate(d.naturalBytes(), false)
		d.setModRegRM(formatRegMemImm, instructions.IMUL_3, sizeNatural)
	case 0x6a:
		d.immediate(1, true)
		d.setWithOperands(instructions.PUSH, instructions.None, instructions.Immediate, sizeNatural)
	case 0x6b:
		d.immediate(1, true)
		d.setModRegRM(formatRegMemImm, instructions.IMUL_3, sizeNatural)
	case 0x6c:
		d.set(instructions.INS, instructions.None, instructions.None, sizeByte)
	case 0x6d:
		d.set(instructions.INS, instructions.None, instructions.None, sizeNatural)
	case 0x6e:
		d.set(instructions.OUTS, instructions.None, instructions.None, sizeByte)
	case 0x6f:
		d.set(instructions.OUTS, instructions.None, instructions.None, sizeNatural)

	// immediate groups
	case 0x80, 0x82:
		d.immediate(1, false)
		d.setModRegRM(formatGroup1, instructions.Invalid, sizeByte)
	case 0x81:
		d.immediate(d.naturalBytes(), false)
		d.setModRegRM(formatGroup1, instructions.Invalid, sizeNatural)
	case 0x83:
		d.immediate(1, true)
		d.setModRegRM(formatGroup1, instructions.Invalid, sizeNatural)

	case 0x84:
		d.setModRegRM(formatMemReg, instructions.TEST, sizeByte)
	case 0x85:
		d.setModRegRM(formatMemReg, instructions.TEST, sizeNatural)
	case 0x86:
		d.setModRegRM(formatMemReg, instructions.XCHG, sizeByte)
	case 0x87:
		d.setModRegRM(formatMemReg, instructions.XCHG, sizeNatural)
	case 0x88:
		d.setModRegRM(formatMemReg, instructions.MOV, sizeByte)
	case 0x89:
		d.setModRegRM(formatMemReg, instructions.MOV, sizeNatural)
	case 0x8a:
		d.setModRegRM(formatRegMem, instructions.MOV, sizeByte)
	case 0x8b:
		d.setModRegRM(formatRegMem, instructions.MOV, sizeNatural)
	case 0x8c:
		d.setModRegRM(formatMemSeg, instructions.MOV, sizeWord)
	case 0x8d:
		d.setModRegRM(formatRegAddress, instructions.LEA, sizeNatural)
	case 0x8e:
		d.setModRegRM(formatSegMem, instructions.MOV, sizeWord)
	case 0x8f:
		d.setModRegRM(formatMem, instructions.POP, sizeNatural)

	case 0x90:
		d.set(instructions.NOP, instructions.None, instructions.None, sizeNone)
	case 0x98:
		d.set(instructions.CBW, instructions.None, instructions.None, sizeNatural)
	case 0x99:
		d.set(instructions.CWD, instructions.None, instructions.None, sizeNatural)
	case 0x9a:
		d.farPointer()
		d.setWithOperands(instructions.CALLfar, instructions.None, instructions.Immediate, sizeNatural)
	case 0x9b:
		d.set(instructions.WAIT, instructions.None, instructions.None, sizeNone)
	case 0x9c:
		d.set(instructions.PUSHF, instructions.None, instructions.None, sizeNatural)
	case 0x9d:
		d.set(instructions.POPF, instructions.None, instructions.None, sizeNatural)
	case 0x9e:
		d.set(instructions.SAHF, instructions.None, instructions.None, sizeByte)
	case 0x9f:
		d.set(instructions.LAHF, instructions.None, instructions.None, sizeByte)

	// moves to and from a direct address
	case 0xa0, 0xa1, 0xa2, 0xa3:
		s := sizeByte
		if b&0x01 == 0x01 {
			s = sizeNatural
		}
		d.displacementBytes = 2
		if d.addressSize() == instructions.Address32 {
			d.displacementBytes = 4
		}
		if b < 0xa2 {
			d.setWithOperands(instructions.MOV, d.register(0, s), instructions.DirectAddress, s)
		} else {
			d.setWithOperands(instructions.MOV, instructions.DirectAddress, d.register(0, s), s)
		}

	// string operations
	case 0xa4, 0xa5:
		d.set(instructions.MOVS, instructions.None, instructions.None, d.byteOrNatural(b))
	case 0xa6, 0xa7:
		d.set(instructions.CMPS, instructions.None, instructions.None, d.byteOrNatural(b))
	case 0xaa, 0xab:
		d.set(instructions.STOS, instructions.None, instructions.None, d.byteOrNatural(b))
	case 0xac, 0xad:
		d.set(instructions.LODS, instructions.None, instructions.None, d.byteOrNatural(b))
	case 0xae, 0xaf:
		d.set(instructions.SCAS, instructions.None, instructions.None, d.byteOrNatural(b))

	case 0xa8:
		d.immediate(1, false)
		d.setWithOperands(instructions.TEST, instructions.AL, instructions.Immediate, sizeByte)
	case 0xa9:
		d.immediate(d.naturalBytes(), false)
		d.setWithOperands(instructions.TEST, d.register(0, sizeNatural), instructions.Immediate, sizeNatural)

	// shifts by immediate on the 80186 and returns on the 8086
	case 0xc0, 0xc1:
		if !is186 {
			d.decodeReturn(b | 0x02)
			return
		}
		d.source = instructions.Immediate
		d.immediate(1, false)
		d.setModRegRM(formatGroup2, instructions.Invalid, d.byteOrNatural(b))

	case 0xc2, 0xc3:
		d.decodeReturn(b)
	case 0xc4:
		d.setModRegRM(formatRegAddress, instructions.LES, sizeNatural)
	case 0xc5:
		d.setModRegRM(formatRegAddress, instructions.LDS, sizeNatural)
	case 0xc6:
		d.setModRegRM(formatMemImm, instructions.MOV, sizeByte)
	case 0xc7:
		d.setModRegRM(formatMemImm, instructions.MOV, sizeNatural)

	// stack frames on the 80186 and far returns on the 8086
	case 0xc8:
		if !is186 {
			d.decodeReturn(0xca)
			return
		}
		d.displacementBytes = 2
		d.immediate(1, false)
		d.setWithOperands(instructions.ENTER, instructions.None, instructions.None, sizeNatural)
	case 0xc9:
		if !is186 {
			d.decodeReturn(0xcb)
			return
		}
		d.set(instructions.LEAVE, instructions.None, instructions.None, sizeNatural)

	case 0xca, 0xcb:
		d.decodeReturn(b)
	case 0xcc:
		d.operand = 3
		d.set(instructions.INT, instructions.None, instructions.Immediate, sizeByte)
	case 0xcd:
		d.immediate(1, false)
		d.setWithOperands(instructions.INT, instructions.None, instructions.Immediate, sizeByte)
	case 0xce:
		d.set(instructions.INTO, instructions.None, instructions.None, sizeNone)
	case 0xcf:
		d.set(instructions.IRET, instructions.None, instructions.None, sizeNatural)

	// shifts by one and by CL
	case 0xd0, 0xd1:
		d.source = instructions.Immediate
		d.operand = 1
		d.setModRegRM(formatGroup2, instructions.Invalid, d.byteOrNatural(b))
	case 0xd2, 0xd3:
		d.source = instructions.CL
		d.setModRegRM(formatGroup2, instructions.Invalid, d.byteOrNatural(b))

	case 0xd4:
		d.immediate(1, false)
		d.setWithOperands(instructions.AAM, instructions.None, instructions.Immediate, sizeByte)
	case 0xd5:
		d.immediate(1, false)
		d.setWithOperands(instructions.AAD, instructions.None, instructions.Immediate, sizeByte)
	case 0xd6:
		d.set(instructions.SALC, instructions.None, instructions.None, sizeByte)
	case 0xd7:
		d.set(instructions.XLAT, instructions.None, instructions.None, sizeByte)

	// loops and relative jumps
	case 0xe0, 0xe1, 0xe2, 0xe3:
		d.relative(1)
		op := [...]instructions.Operation{instructions.LOOPNE, instructions.LOOPE, instructions.LOOP, instructions.JCXZ}[b-0xe0]
		d.setWithOperands(op, instructions.None, instructions.None, sizeNatural)
	case 0xe8:
		d.relative(d.naturalBytes())
		d.setWithOperands(instructions.CALLrel, instructions.None, instructions.None, sizeNatural)
	case 0xe9:
		d.relative(d.naturalBytes())
		d.setWithOperands(instructions.JMPrel, instructions.None, instructions.None, sizeNatural)
	case 0xea:
		d.farPointer()
		d.setWithOperands(instructions.JMPfar, instructions.None, instructions.Immediate, sizeNatural)
	case 0xeb:
		d.relative(1)
		d.setWithOperands(instructions.JMPrel, instructions.None, instructions.None, sizeNatural)

	// port input and output
	case 0xe4, 0xe5:
		s := d.byteOrNatural(b)
		d.immediate(1, false)
		d.setWithOperands(instructions.IN, d.register(0, s), instructions.Immediate, s)
	case 0xe6, 0xe7:
		s := d.byteOrNatural(b)
		d.immediate(1, false)
		d.setWithOperands(instructions.OUT, instructions.Immediate, d.register(0, s), s)
	case 0xec, 0xed:
		s := d.byteOrNatural(b)
		d.set(instructions.IN, d.register(0, s), instructions.DX, s)
	case 0xee, 0xef:
		s := d.byteOrNatural(b)
		d.set(instructions.OUT, instructions.DX, d.register(0, s), s)

	case 0xf4:
		d.set(instructions.HLT, instructions.None, instructions.None, sizeNone)
	case 0xf5:
		d.set(instructions.CMC, instructions.None, instructions.None, sizeNone)
	case 0xf6:
		d.setModRegRM(formatGroup3, instructions.Invalid, sizeByte)
	case 0xf7:
		d.setModRegRM(formatGroup3, instructions.Invalid, sizeNatural)
	case 0xf8:
		d.set(instructions.CLC, instructions.None, instructions.None, sizeNone)
	case 0xf9:
		d.set(instructions.STC, instructions.None, instructions.None, sizeNone)
	case 0xfa:
		d.set(instructions.CLI, instructions.None, instructions.None, sizeNone)
	case 0xfb:
		d.set(instructions.STI, instructions.None, instructions.None, sizeNone)
	case 0xfc:
		d.set(instructions.CLD, instructions.None, instructions.None, sizeNone)
	case 0xfd:
		d.set(instructions.STD, instructions.None, instructions.None, sizeNone)
	case 0xfe:
		d.setModRegRM(formatGroup4, instructions.Invalid, sizeByte)
	case 0xff:
		d.setModRegRM(formatGroup5, instructions.Invalid, sizeNatural)

	default:
		d.invalid()
	}
}

// byteOrNatural returns the size class indicated by the low bit of an opcode
func (d *Decoder[E]) byteOrNatural(b uint8) size {
	if b&0x01 == 0x01 {
		return sizeNatural
	}
	return sizeByte
}

// decodeReturn decodes the near and far returns. Opcodes with the low bit
// clear take an immediate count of bytes to remove from the stack
func (d *Decoder[E]) decodeReturn(b uint8) {
	op := instructions.RETnear
	if b&0x08 == 0x08 {
		op = instructions.RETfar
	}
	if b&0x01 == 0x00 {
		d.immediate(2, false)
		d.setWithOperands(op, instructions.None, instructions.Immediate, sizeNatural)
		return
	}
	d.set(op, instructions.None, instructions.None, sizeNatural)
}
