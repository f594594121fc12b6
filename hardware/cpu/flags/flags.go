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

package flags

import (
	"math/bits"
	"strings"

	"github.com/jetsetilly/gopher86/hardware/cpu/numeric"
)

// Flag identifies one or more status flags. The value of each Flag is the bit
// the flag occupies in the FLAGS register, with the exception of ParityOdd
// which occupies the parity bit but has the opposite sense.
type Flag uint16

// List of valid Flag values.
const (
	Carry          Flag = 1 << 0
	ParityOdd      Flag = 1 << 2
	AuxiliaryCarry Flag = 1 << 4
	Zero           Flag = 1 << 6
	Sign           Flag = 1 << 7
	Trap           Flag = 1 << 8
	Interrupt      Flag = 1 << 9
	Direction      Flag = 1 << 10
	Overflow       Flag = 1 << 11
)

// ZeroSignParity is the selection of flags that are set from the result of
// most arithmetic and logical operations.
const ZeroSignParity = Zero | Sign | ParityOdd

// the bits of the FLAGS register that are always set when the register is read
const alwaysSet = 0xf002

// Flags is the status register of the x86.
type Flags struct {
	carry          uint32
	auxiliaryCarry uint32
	sign           uint32
	overflow       uint32
	trap           uint32
	interrupt      uint32
	zero           uint32
	parity         uint32

	// +1 when clear and -1 when set
	direction int32
}

// NewFlags is the preferred method of initialisation for the Flags type.
func NewFlags() Flags {
	var f Flags
	f.Reset()
	return f
}

// Reset clears all flags.
func (f *Flags) Reset() {
	f.FromValue(0)
}

// SetFrom sets each flag in the selection from value, in the manner
// appropriate for that flag. Zero is set if value is zero, Sign is the top
// bit of value and ParityOdd is the parity of the low eight bits. All other
// flags are set if value is non-zero.
func SetFrom[W numeric.Width](f *Flags, which Flag, value W) {
	if which&Carry != 0 {
		f.carry = uint32(value)
	}
	if which&AuxiliaryCarry != 0 {
		f.auxiliaryCarry = uint32(value)
	}
	if which&Overflow != 0 {
		f.overflow = uint32(value)
	}
	if which&Trap != 0 {
		f.trap = uint32(value)
	}
	if which&Interrupt != 0 {
		f.interrupt = uint32(value)
	}
	if which&Zero != 0 {
		f.zero = uint32(value)
	}
	if which&Sign != 0 {
		f.sign = uint32(value & numeric.TopBit[W]())
	}
	if which&ParityOdd != 0 {
		f.parity = uint32(value)
	}
	if which&Direction != 0 {
		if value != 0 {
			f.direction = -1
		} else {
			f.direction = 1
		}
	}
}

// SetFlag sets or clears every flag in the selection.
func (f *Flags) SetFlag(which Flag, set bool) {
	if which&ParityOdd != 0 {
		// the stored parity value is interpreted when queried so store a
		// value with odd or even parity as appropriate
		if set {
			f.parity = 1
		} else {
			f.parity = 0
		}
		which &^= ParityOdd
	}
	if which&Zero != 0 {
		// zero has the opposite sense to the stored value
		if set {
			f.zero = 0
		} else {
			f.zero = 1
		}
		which &^= Zero
	}

	var v uint8
	if set {
		v = 0x80
	}
	SetFrom(f, which, v)
}

// Flag returns true if the flag is set. If more than one flag is specified then
// the result is true if any of the flags are set.
func (f Flags) Flag(which Flag) bool {
	if which&ParityOdd != 0 {
		if f.parityOdd() {
			return true
		}
		which &^= ParityOdd
	}
	return f.Value()&uint16(which) != 0
}

// Carry returns the carry flag as 0 or 1.
func (f Flags) Carry() uint32 {
	if f.carry != 0 {
		return 1
	}
	return 0
}

// DirectionStep returns the amount by which index registers are adjusted for
// each element of a string instruction of the specified width in bytes.
func (f Flags) DirectionStep(width int) int32 {
	return f.direction * int32(width)
}

func (f Flags) parityOdd() bool {
	return bits.OnesCount8(uint8(f.parity))&1 == 1
}

// Value returns the FLAGS register as it would be pushed on the stack. Bit 1
// and bits 12 to 15 are always set. Bits 3 and 5 are always clear.
func (f Flags) Value() uint16 {
	v := uint16(alwaysSet)
	if f.carry != 0 {
		v |= uint16(Carry)
	}
	if !f.parityOdd() {
		v |= uint16(ParityOdd)
	}
	if f.auxiliaryCarry != 0 {
		v |= uint16(AuxiliaryCarry)
	}
	if f.zero == 0 {
		v |= uint16(Zero)
	}
	if f.sign != 0 {
		v |= uint16(Sign)
	}
	if f.trap != 0 {
		v |= uint16(Trap)
	}
	if f.interrupt != 0 {
		v |= uint16(Interrupt)
	}
	if f.direction < 0 {
		v |= uint16(Direction)
	}
	if f.overflow != 0 {
		v |= uint16(Overflow)
	}
	return v
}

// FromValue sets every flag from the FLAGS register value. Reserved bits are
// ignored.
func (f *Flags) FromValue(v uint16) {
	f.carry = uint32(v & uint16(Carry))
	f.auxiliaryCarry = uint32(v & uint16(AuxiliaryCarry))
	f.sign = uint32(v & uint16(Sign))
	f.trap = uint32(v & uint16(Trap))
	f.interrupt = uint32(v & uint16(Interrupt))
	f.overflow = uint32(v & uint16(Overflow))
	f.zero = uint32(^v & uint16(Zero))
	if v&uint16(ParityOdd) != 0 {
		f.parity = 0
	} else {
		f.parity = 1
	}
	if v&uint16(Direction) != 0 {
		f.direction = -1
	} else {
		f.direction = 1
	}
}

// String returns the flags in the order of the FLAGS register, with uppercase
// indicating a set flag. The parity flag is shown as P when parity is even.
func (f Flags) String() string {
	s := strings.Builder{}
	v := f.Value()
	for _, c := range []struct {
		flag  Flag
		label rune
	}{
		{Overflow, 'o'},
		{Direction, 'd'},
		{Interrupt, 'i'},
		{Trap, 't'},
		{Sign, 's'},
		{Zero, 'z'},
		{AuxiliaryCarry, 'a'},
		{ParityOdd, 'p'},
		{Carry, 'c'},
	} {
		if v&uint16(c.flag) != 0 {
			s.WriteRune(c.label - 'a' + 'A')
		} else {
			s.WriteRune(c.label)
		}
	}
	return s.String()
}
