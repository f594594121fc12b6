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
	"github.com/jetsetilly/gopher86/hardware/cpu/numeric"
)

// In all of the shift and rotate functions a count of zero changes neither the
// operand nor the flags. Overflow is only defined for a count of one but is
// set for every count in the same way, as a function of the result.

func topBit[W numeric.Width](v W) W {
	return v & numeric.TopBit[W]()
}

// Sets: Carry, Overflow.
func rol[W numeric.Width](f *flags.Flags, dst *W, count uint8) {
	if count == 0 {
		return
	}
	bits := uint(numeric.Bits[W]())
	c := uint(count) % bits
	v := *dst<<c | *dst>>((bits-c)%bits)
	cf := v & 1
	flags.SetFrom(f, flags.Carry, cf)
	f.SetFlag(flags.Overflow, (topBit(v) != 0) != (cf != 0))
	*dst = v
}

// Sets: Carry, Overflow.
func ror[W numeric.Width](f *flags.Flags, dst *W, count uint8) {
	if count == 0 {
		return
	}
	bits := uint(numeric.Bits[W]())
	c := uint(count) % bits
	v := *dst>>c | *dst<<((bits-c)%bits)
	flags.SetFrom(f, flags.Carry, topBit(v))
	f.SetFlag(flags.Overflow, (topBit(v) != 0) != (topBit(v<<1) != 0))
	*dst = v
}

// Sets: Carry, Overflow.
func rcl[W numeric.Width](f *flags.Flags, dst *W, count uint8) {
	if count == 0 {
		return
	}
	bits := numeric.Bits[W]()
	v := *dst
	cf := W(f.Carry())
	for range int(count) % (bits + 1) {
		out := topBit(v)
		v = v<<1 | cf
		if out != 0 {
			cf = 1
		} else {
			cf = 0
		}
	}
	flags.SetFrom(f, flags.Carry, cf)
	f.SetFlag(flags.Overflow, (topBit(v) != 0) != (cf != 0))
	*dst = v
}

// Sets: Carry, Overflow.
func rcr[W numeric.Width](f *flags.Flags, dst *W, count uint8) {
	if count == 0 {
		return
	}
	bits := numeric.Bits[W]()
	v := *dst
	cf := W(f.Carry())
	for range int(count) % (bits + 1) {
		out := v & 1
		v = v>>1 | cf<<(bits-1)
		cf = out
	}
	flags.SetFrom(f, flags.Carry, cf)
	f.SetFlag(flags.Overflow, (topBit(v) != 0) != (topBit(v<<1) != 0))
	*dst = v
}

// shl shifts left. A count of the width or more leaves a zero result and the
// carry is the last bit shifted out, which is zero for counts beyond the
// width.
//
// Sets: Carry, Overflow, Zero, Sign, ParityOdd.
func shl[W numeric.Width](f *flags.Flags, dst *W, count uint8) {
	if count == 0 {
		return
	}
	bits := uint(numeric.Bits[W]())
	c := uint(count)
	var cf W
	if c <= bits {
		cf = (*dst >> (bits - c)) & 1
	}
	v := *dst << c
	flags.SetFrom(f, flags.Carry, cf)
	f.SetFlag(flags.Overflow, (topBit(v) != 0) != (cf != 0))
	f.SetFlag(flags.AuxiliaryCarry, false)
	flags.SetFrom(f, flags.ZeroSignParity, v)
	*dst = v
}

// shr shifts right, unsigned.
//
// Sets: Carry, Overflow, Zero, Sign, ParityOdd.
func shr[W numeric.Width](f *flags.Flags, dst *W, count uint8) {
	if count == 0 {
		return
	}
	bits := uint(numeric.Bits[W]())
	c := uint(count)
	var cf W
	if c <= bits {
		cf = (*dst >> (c - 1)) & 1
	}
	v := *dst >> c
	flags.SetFrom(f, flags.Carry, cf)
	flags.SetFrom(f, flags.Overflow, topBit(*dst))
	f.SetFlag(flags.AuxiliaryCarry, false)
	flags.SetFrom(f, flags.ZeroSignParity, v)
	*dst = v
}

// sar shifts right, signed. A count of the width or more fills the result
// with the sign bit, which is also the carry.
//
// Sets: Carry, Overflow, Zero, Sign, ParityOdd.
func sar[W numeric.Width](f *flags.Flags, dst *W, count uint8) {
	if count == 0 {
		return
	}
	bits := uint(numeric.Bits[W]())
	c := min(uint(count), bits)
	s := numeric.SignExtend(*dst)
	cf := W(s>>(c-1)) & 1
	v := W(s >> c)
	flags.SetFrom(f, flags.Carry, cf)
	f.SetFlag(flags.Overflow, false)
	f.SetFlag(flags.AuxiliaryCarry, false)
	flags.SetFrom(f, flags.ZeroSignParity, v)
	*dst = v
}

// setmo sets every bit of the operand. It is the undocumented /6 form of the
// 8086 shift group. A count of zero leaves the operand and flags unchanged.
//
// Sets: Carry, Overflow, AuxiliaryCarry, Zero, Sign, ParityOdd.
func setmo[W numeric.Width](f *flags.Flags, dst *W, count uint8) {
	if count == 0 {
		return
	}
	v := numeric.Max[W]()
	f.SetFlag(flags.Carry|flags.Overflow|flags.AuxiliaryCarry, false)
	flags.SetFrom(f, flags.ZeroSignParity, v)
	*dst = v
}

// shld shifts dst left by count, filling from the top of src. The count must
// already be masked to five bits.
//
// Sets: Carry, Overflow, Zero, Sign, ParityOdd.
func shld[W numeric.Width](f *flags.Flags, dst *W, src W, count uint8) {
	if count == 0 {
		return
	}
	bits := uint(numeric.Bits[W]())
	c := uint(count)
	combined := uint64(*dst)<<bits | uint64(src)
	v := W((combined << c) >> bits)
	cf := W(combined>>(2*bits-c)) & 1
	flags.SetFrom(f, flags.Carry, cf)
	f.SetFlag(flags.Overflow, topBit(v) != topBit(*dst))
	flags.SetFrom(f, flags.ZeroSignParity, v)
	*dst = v
}

// shrd shifts dst right by count, filling from the bottom of src. The count
// must already be masked to five bits.
//
// Sets: Carry, Overflow, Zero, Sign, ParityOdd.
func shrd[W numeric.Width](f *flags.Flags, dst *W, src W, count uint8) {
	if count == 0 {
		return
	}
	bits := uint(numeric.Bits[W]())
	c := uint(count)
	combined := uint64(src)<<bits | uint64(*dst)
	v := W(combined >> c)
	cf := W(combined>>(c-1)) & 1
	flags.SetFrom(f, flags.Carry, cf)
	f.SetFlag(flags.Overflow, topBit(v) != topBit(*dst))
	flags.SetFrom(f, flags.ZeroSignParity, v)
	*dst = v
}
