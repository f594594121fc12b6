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

// Package numeric contains the width-generic arithmetic helpers used by the
// flags and execution packages. Every helper is parameterised by Width so that
// a single implementation serves byte, word and doubleword operands.
package numeric

import "math/bits"

// Width is the constraint satisfied by the three x86 operand widths.
type Width interface {
	uint8 | uint16 | uint32
}

// Max returns the largest value representable in W. It is also the value with
// every bit set.
func Max[W Width]() W {
	return ^W(0)
}

// Bits returns the number of bits in W.
func Bits[W Width]() int {
	return bits.Len64(uint64(Max[W]()))
}

// Bytes returns the number of bytes in W.
func Bytes[W Width]() int {
	return Bits[W]() >> 3
}

// TopBit returns a value of W with only the most significant bit set.
func TopBit[W Width]() W {
	return Max[W]() ^ (Max[W]() >> 1)
}

// SignExtend returns v interpreted as a two's complement value.
func SignExtend[W Width](v W) int64 {
	if v&TopBit[W]() != 0 {
		return int64(v) - (int64(1) << Bits[W]())
	}
	return int64(v)
}

// CarriedOut returns a non-zero value if the addition (or subtraction) that
// produced result from lhs and rhs carried out of (or borrowed into) bit.
func CarriedOut[W Width](isAdd bool, bit int, lhs, rhs, result W) W {
	var carry W
	if isAdd {
		carry = (lhs & rhs) | ((lhs | rhs) &^ result)
	} else {
		carry = (^lhs & rhs) | ((^lhs | rhs) & result)
	}
	return carry & (W(1) << bit)
}

// CarriedIn returns a non-zero value if there was a carry into bit during the
// operation that produced result. Used for the auxiliary carry, with bit 4.
func CarriedIn[W Width](bit int, lhs, rhs, result W) W {
	return (lhs ^ rhs ^ result) & (W(1) << bit)
}

// Overflow returns a non-zero value if result has a sign that cannot be
// produced by adding (or subtracting) two values with the signs of lhs and
// rhs.
func Overflow[W Width](isAdd bool, lhs, rhs, result W) W {
	if isAdd {
		return (result ^ lhs) & (result ^ rhs) & TopBit[W]()
	}
	return (lhs ^ rhs) & (result ^ lhs) & TopBit[W]()
}
