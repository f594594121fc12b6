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
	"github.com/jetsetilly/gopher86/hardware/cpu/numeric"
)

// accumulators returns the registers holding the low and high halves of the
// double width value used by single operand multiplication and division
func accumulators[W numeric.Width]() (instructions.Source, instructions.Source) {
	switch numeric.Bits[W]() {
	case 8:
		return instructions.AL, instructions.AH
	case 16:
		return instructions.AX, instructions.DX
	}
	return instructions.EAX, instructions.EDX
}

// mul multiplies the accumulator by src, unsigned, and stores the double width
// result in the accumulator pair. Zero, Sign, ParityOdd and AuxiliaryCarry are
// undefined and are left unchanged.
//
// Sets: Carry, Overflow.
func mul[W numeric.Width](ctx *Context, src W) {
	lo, hi := accumulators[W]()
	r := uint64(W(ctx.Registers.Read(lo))) * uint64(src)
	h := W(r >> numeric.Bits[W]())
	ctx.Registers.Write(lo, uint32(W(r)))
	ctx.Registers.Write(hi, uint32(h))
	ctx.Flags.SetFlag(flags.Carry|flags.Overflow, h != 0)
}

// imulAccumulator is the signed form of mul.
//
// Sets: Carry, Overflow.
func imulAccumulator[W numeric.Width](ctx *Context, src W) {
	lo, hi := accumulators[W]()
	r := numeric.SignExtend(W(ctx.Registers.Read(lo))) * numeric.SignExtend(src)
	ctx.Registers.Write(lo, uint32(W(r)))
	ctx.Registers.Write(hi, uint32(W(r>>numeric.Bits[W]())))
	ctx.Flags.SetFlag(flags.Carry|flags.Overflow, r != numeric.SignExtend(W(r)))
}

// imul returns the signed product of lhs and rhs truncated to the width.
//
// Sets: Carry, Overflow.
func imul[W numeric.Width](f *flags.Flags, lhs W, rhs W) W {
	r := numeric.SignExtend(lhs) * numeric.SignExtend(rhs)
	f.SetFlag(flags.Carry|flags.Overflow, r != numeric.SignExtend(W(r)))
	return W(r)
}

// div divides the accumulator pair by src, unsigned. The quotient is stored
// in the low half and the remainder in the high half. A zero divisor or a
// quotient too large for the width raises a divide error and leaves the
// accumulators unchanged. Flags are undefined and are left unchanged.
func div[W numeric.Width](ctx *Context, src W) error {
	if src == 0 {
		return exceptions.New(exceptions.DivideError)
	}

	lo, hi := accumulators[W]()
	dividend := uint64(W(ctx.Registers.Read(hi)))<<numeric.Bits[W]() | uint64(W(ctx.Registers.Read(lo)))
	quotient := dividend / uint64(src)
	if quotient > uint64(numeric.Max[W]()) {
		return exceptions.New(exceptions.DivideError)
	}

	ctx.Registers.Write(lo, uint32(quotient))
	ctx.Registers.Write(hi, uint32(dividend%uint64(src)))
	return nil
}

// idiv is the signed form of div. The 8086 raises a divide error for a
// quotient equal to the most negative value of the width. If negate is true
// the stored quotient has its sign inverted.
func idiv[W numeric.Width](ctx *Context, src W, negate bool) error {
	if src == 0 {
		return exceptions.New(exceptions.DivideError)
	}

	bits := numeric.Bits[W]()
	lo, hi := accumulators[W]()
	raw := uint64(W(ctx.Registers.Read(hi)))<<bits | uint64(W(ctx.Registers.Read(lo)))

	// sign extend the double width dividend
	shift := 64 - 2*bits
	dividend := int64(raw<<shift) >> shift
	divisor := numeric.SignExtend(src)

	quotient := dividend / divisor
	remainder := dividend % divisor

	largest := int64(numeric.Max[W]() >> 1)
	smallest := -largest - 1
	if ctx.Model == instructions.I8086 {
		smallest = -largest
	}
	if quotient > largest || quotient < smallest {
		return exceptions.New(exceptions.DivideError)
	}

	if negate {
		quotient = -quotient
	}

	ctx.Registers.Write(lo, uint32(W(quotient)))
	ctx.Registers.Write(hi, uint32(W(remainder)))
	return nil
}
