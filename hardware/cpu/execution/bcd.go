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
	"github.com/jetsetilly/gopher86/hardware/cpu/exceptions"
	"github.com/jetsetilly/gopher86/hardware/cpu/flags"
	"github.com/jetsetilly/gopher86/hardware/cpu/instructions"
)

// aaa adjusts AX after the addition of two unpacked BCD digits. Overflow,
// Zero, Sign and ParityOdd are undefined and are left unchanged.
//
// Models before the 80286 adjust AL and AH separately so an adjustment of AL
// never carries in to AH.
//
// Sets: Carry, AuxiliaryCarry.
func aaa(ctx *Context) {
	r := ctx.Registers
	adjust := r.AL()&0x0f > 9 || ctx.Flags.Flag(flags.AuxiliaryCarry)
	if adjust {
		if ctx.Model >= instructions.I80286 {
			r.SetAX(r.AX() + 0x106)
		} else {
			r.SetAL(r.AL() + 6)
			r.SetAH(r.AH() + 1)
		}
	}
	ctx.Flags.SetFlag(flags.Carry|flags.AuxiliaryCarry, adjust)
	r.SetAL(r.AL() & 0x0f)
}

// aas adjusts AX after the subtraction of two unpacked BCD digits.
//
// Sets: Carry, AuxiliaryCarry.
func aas(ctx *Context) {
	r := ctx.Registers
	adjust := r.AL()&0x0f > 9 || ctx.Flags.Flag(flags.AuxiliaryCarry)
	if adjust {
		if ctx.Model >= instructions.I80286 {
			r.SetAX(r.AX() - 0x106)
		} else {
			r.SetAL(r.AL() - 6)
			r.SetAH(r.AH() - 1)
		}
	}
	ctx.Flags.SetFlag(flags.Carry|flags.AuxiliaryCarry, adjust)
	r.SetAL(r.AL() & 0x0f)
}

// decimalThreshold is the value of AL above which DAA and DAS adjust the high
// digit. The 8086 uses a higher threshold when AuxiliaryCarry was set
func decimalThreshold(ctx *Context) uint8 {
	if ctx.Model == instructions.I8086 && ctx.Flags.Flag(flags.AuxiliaryCarry) {
		return 0x9f
	}
	return 0x99
}

// daa adjusts AL after the addition of two packed BCD values. Overflow is
// undefined and is left unchanged.
//
// Sets: Carry, AuxiliaryCarry, Zero, Sign, ParityOdd.
func daa(ctx *Context) {
	r := ctx.Registers
	al := r.AL()
	carry := ctx.Flags.Flag(flags.Carry)
	threshold := decimalThreshold(ctx)

	if al&0x0f > 9 || ctx.Flags.Flag(flags.AuxiliaryCarry) {
		r.SetAL(r.AL() + 0x06)
		ctx.Flags.SetFlag(flags.AuxiliaryCarry, true)
	} else {
		ctx.Flags.SetFlag(flags.AuxiliaryCarry, false)
	}

	if al > threshold || carry {
		r.SetAL(r.AL() + 0x60)
		ctx.Flags.SetFlag(flags.Carry, true)
	} else {
		ctx.Flags.SetFlag(flags.Carry, false)
	}

	flags.SetFrom(ctx.Flags, flags.ZeroSignParity, r.AL())
}

// das adjusts AL after the subtraction of two packed BCD values.
//
// Sets: Carry, AuxiliaryCarry, Zero, Sign, ParityOdd.
func das(ctx *Context) {
	r := ctx.Registers
	al := r.AL()
	carry := ctx.Flags.Flag(flags.Carry)
	threshold := decimalThreshold(ctx)

	if al&0x0f > 9 || ctx.Flags.Flag(flags.AuxiliaryCarry) {
		r.SetAL(r.AL() - 0x06)
		ctx.Flags.SetFlag(flags.AuxiliaryCarry, true)
	} else {
		ctx.Flags.SetFlag(flags.AuxiliaryCarry, false)
	}

	if al > threshold || carry {
		r.SetAL(r.AL() - 0x60)
		ctx.Flags.SetFlag(flags.Carry, true)
	} else {
		ctx.Flags.SetFlag(flags.Carry, false)
	}

	flags.SetFrom(ctx.Flags, flags.ZeroSignParity, r.AL())
}

// aam divides AL by the base, leaving the quotient in AH and the remainder in
// AL. A base of zero raises a divide error.
//
// Sets: Zero, Sign, ParityOdd.
func aam(ctx *Context, base uint8) error {
	if base == 0 {
		return exceptions.New(exceptions.DivideError)
	}
	r := ctx.Registers
	al := r.AL()
	r.SetAH(al / base)
	r.SetAL(al % base)
	flags.SetFrom(ctx.Flags, flags.ZeroSignParity, r.AL())
	return nil
}

// aad combines AH and AL into AL using the base and clears AH.
//
// Sets: Zero, Sign, ParityOdd.
func aad(ctx *Context, base uint8) {
	r := ctx.Registers
	r.SetAL(r.AL() + r.AH()*base)
	r.SetAH(0)
	flags.SetFrom(ctx.Flags, flags.ZeroSignParity, r.AL())
}
