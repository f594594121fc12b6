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

// add sets dst to dst + src, plus the carry flag if withCarry is true.
//
// Sets: Carry, AuxiliaryCarry, Overflow, Zero, Sign, ParityOdd.
func add[W numeric.Width](f *flags.Flags, dst *W, src W, withCarry bool) {
	var carry W
	if withCarry {
		carry = W(f.Carry())
	}
	lhs := *dst
	result := lhs + src + carry

	flags.SetFrom(f, flags.Carry, numeric.CarriedOut(true, numeric.Bits[W]()-1, lhs, src, result))
	flags.SetFrom(f, flags.AuxiliaryCarry, numeric.CarriedIn(4, lhs, src, result))
	flags.SetFrom(f, flags.Overflow, numeric.Overflow(true, lhs, src, result))
	flags.SetFrom(f, flags.ZeroSignParity, result)

	*dst = result
}

// sub sets dst to dst - src, minus the carry flag if withBorrow is true. If
// store is false then dst is unchanged and only the flags are affected.
//
// Sets: Carry, AuxiliaryCarry, Overflow, Zero, Sign, ParityOdd.
func sub[W numeric.Width](f *flags.Flags, dst *W, src W, withBorrow bool, store bool) {
	var borrow W
	if withBorrow {
		borrow = W(f.Carry())
	}
	lhs := *dst
	result := lhs - src - borrow

	flags.SetFrom(f, flags.Carry, numeric.CarriedOut(false, numeric.Bits[W]()-1, lhs, src, result))
	flags.SetFrom(f, flags.AuxiliaryCarry, numeric.CarriedIn(4, lhs, src, result))
	flags.SetFrom(f, flags.Overflow, numeric.Overflow(false, lhs, src, result))
	flags.SetFrom(f, flags.ZeroSignParity, result)

	if store {
		*dst = result
	}
}

// increment adds one to dst. Carry is unaffected.
//
// Sets: AuxiliaryCarry, Overflow, Zero, Sign, ParityOdd.
func increment[W numeric.Width](f *flags.Flags, dst *W) {
	lhs := *dst
	result := lhs + 1
	flags.SetFrom(f, flags.AuxiliaryCarry, numeric.CarriedIn(4, lhs, 1, result))
	flags.SetFrom(f, flags.Overflow, numeric.Overflow(true, lhs, 1, result))
	flags.SetFrom(f, flags.ZeroSignParity, result)
	*dst = result
}

// decrement subtracts one from dst. Carry is unaffected.
//
// Sets: AuxiliaryCarry, Overflow, Zero, Sign, ParityOdd.
func decrement[W numeric.Width](f *flags.Flags, dst *W) {
	lhs := *dst
	result := lhs - 1
	flags.SetFrom(f, flags.AuxiliaryCarry, numeric.CarriedIn(4, lhs, 1, result))
	flags.SetFrom(f, flags.Overflow, numeric.Overflow(false, lhs, 1, result))
	flags.SetFrom(f, flags.ZeroSignParity, result)
	*dst = result
}

// negate sets dst to 0 - dst.
//
// Sets: Carry, AuxiliaryCarry, Overflow, Zero, Sign, ParityOdd.
func negate[W numeric.Width](f *flags.Flags, dst *W) {
	var zero W
	sub(f, &zero, *dst, false, true)
	*dst = zero
}
