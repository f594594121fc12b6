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

// decodePage0F decodes an opcode from the two-byte page. The page is only
// available from the 80286 onwards and most of it from the 80386
func (d *Decoder[E]) decodePage0F(b uint8) {
	switch b {
	case 0x00:
		d.setModRegRM(formatGroup6, instructions.Invalid, sizeWord)
		return
	case 0x01:
		d.setModRegRM(formatGroup7, instructions.Invalid, sizeNatural)
		return
	case 0x02:
		d.setModRegRM(formatRegMem, instructions.LAR, sizeNatural)
		return
	case 0x03:
		d.setModRegRM(formatRegMem, instructions.LSL, sizeNatural)
		return
	case 0x05:
		if d.model != instructions.I80286 {
			d.invalid()
			return
		}
		d.set(instructions.LOADALL, instructions.None, instructions.None, sizeNone)
		return
	case 0x06:
		d.set(instructions.CLTS, instructions.None, instructions.None, sizeNone)
		return
	}

	if !d.model.Uses32Bit() {
		d.invalid()
		return
	}

	switch {
	case b >= 0x80 && b <= 0x8f:
		d.relative(d.naturalBytes())
		d.setWithOperands(instructions.JO+instructions.Operation(b&0x0f), instructions.None, instructions.None, sizeNatural)
		return
	case b >= 0x90 && b <= 0x9f:
		d.setModRegRM(formatMem, instructions.SETO+instructions.Operation(b&0x0f), sizeByte)
		return
	}

	switch b {
	// moves to and from the special registers
	case 0x20:
		d.setModRegRM(formatSpecialRegister, instructions.MOVfromCr, sizeDWord)
	case 0x21:
		d.setModRegRM(formatSpecialRegister, instructions.MOVfromDr, sizeDWord)
	case 0x22:
		d.setModRegRM(formatSpecialRegister, instructions.MOVtoCr, sizeDWord)
	case 0x23:
		d.setModRegRM(formatSpecialRegister, instructions.MOVtoDr, sizeDWord)
	case 0x24:
		d.setModRegRM(formatSpecialRegister, instructions.MOVfromTr, sizeDWord)
	case 0x26:
		d.setModRegRM(formatSpecialRegister, instructions.MOVtoTr, sizeDWord)

	case 0xa0:
		d.set(instructions.PUSH, instructions.None, instructions.FS, sizeNatural)
	case 0xa1:
		d.set(instructions.POP, instructions.FS, instructions.None, sizeNatural)
	case 0xa8:
		d.set(instructions.PUSH, instructions.None, instructions.GS, sizeNatural)
	case 0xa9:
		d.set(instructions.POP, instructions.GS, instructions.None, sizeNatural)

	// bit tests
	case 0xa3:
		d.setModRegRM(formatMemReg, instructions.BT, sizeNatural)
	case 0xab:
		d.setModRegRM(formatMemReg, instructions.BTS, sizeNatural)
	case 0xb3:
		d.setModRegRM(formatMemReg, instructions.BTR, sizeNatural)
	case 0xbb:
		d.setModRegRM(formatMemReg, instructions.BTC, sizeNatural)
	case 0xba:
		d.immediate(1, false)
		d.setModRegRM(formatGroup8, instructions.Invalid, sizeNatural)
	case 0xbc:
		d.setModRegRM(formatRegMem, instructions.BSF, sizeNatural)
	case 0xbd:
		d.setModRegRM(formatRegMem, instructions.BSR, sizeNatural)

	// double precision shifts
	case 0xa4:
		d.immediate(1, false)
		d.setModRegRM(formatMemRegImm, instructions.SHLDimm, sizeNatural)
	case 0xa5:
		d.setModRegRM(formatMemRegImm, instructions.SHLDCL, sizeNatural)
	case 0xac:
		d.immediate(1, false)
		d.setModRegRM(formatMemRegImm, instructions.SHRDimm, sizeNatural)
	case 0xad:
		d.setModRegRM(formatMemRegImm, instructions.SHRDCL, sizeNatural)

	case 0xaf:
		d.setModRegRM(formatRegMem, instructions.IMUL_2, sizeNatural)

	// far pointer loads
	case 0xb2:
		d.setModRegRM(formatRegAddress, instructions.LSS, sizeNatural)
	case 0xb4:
		d.setModRegRM(formatRegAddress, instructions.LFS, sizeNatural)
	case 0xb5:
		d.setModRegRM(formatRegAddress, instructions.LGS, sizeNatural)

	// extending moves
	case 0xb6:
		d.setModRegRM(formatExtend, instructions.MOVZX, sizeByte)
	case 0xb7:
		d.setModRegRM(formatExtend, instructions.MOVZX, sizeWord)
	case 0xbe:
		d.setModRegRM(formatExtend, instructions.MOVSX, sizeByte)
	case 0xbf:
		d.setModRegRM(formatExtend, instructions.MOVSX, sizeWord)

	default:
		d.invalid()
	}
}
