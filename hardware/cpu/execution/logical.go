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

// logicalFlags sets the flags after AND, OR, XOR and TEST. AuxiliaryCarry is
// undefined and is cleared.
func logicalFlags[W numeric.Width](f *flags.Flags, result W) {
	f.SetFlag(flags.Carry|flags.Overflow|flags.AuxiliaryCarry, false)
	flags.SetFrom(f, flags.ZeroSignParity, result)
}

// Sets: Carry, Overflow, Zero, Sign, ParityOdd.
func and[W numeric.Width](f *flags.Flags, dst *W, src W) {
	*dst &= src
	logicalFlags(f, *dst)
}

// Sets: Carry, Overflow, Zero, Sign, ParityOdd.
func or[W numeric.Width](f *flags.Flags, dst *W, src W) {
	*dst |= src
	logicalFlags(f, *dst)
}

// Sets: Carry, Overflow, Zero, Sign, ParityOdd.
func xor[W numeric.Width](f *flags.Flags, dst *W, src W) {
	*dst ^= src
	logicalFlags(f, *dst)
}

// test is AND without storing the result.
func test[W numeric.Width](f *flags.Flags, lhs W, rhs W) {
	logicalFlags(f, lhs&rhs)
}
