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

package flags_test

import (
	"testing"

	"github.com/jetsetilly/gopher86/hardware/cpu/flags"
	"github.com/jetsetilly/gopher86/test"
)

func TestReset(t *testing.T) {
	f := flags.NewFlags()
	test.ExpectEquality(t, f.Value(), uint16(0xf002))
	test.ExpectEquality(t, f.String(), "oditszapc")
	test.ExpectEquality(t, f.DirectionStep(2), int32(2))
}

func TestReservedBits(t *testing.T) {
	f := flags.NewFlags()
	f.FromValue(0xffff)
	test.ExpectEquality(t, f.Value(), uint16(0xffd7))
	test.ExpectEquality(t, f.String(), "ODITSZAPC")
	test.ExpectEquality(t, f.DirectionStep(4), int32(-4))

	f.FromValue(0x0000)
	test.ExpectEquality(t, f.Value(), uint16(0xf002))
}

func TestSetFrom(t *testing.T) {
	f := flags.NewFlags()

	flags.SetFrom(&f, flags.ZeroSignParity, uint8(0x00))
	test.ExpectSuccess(t, f.Flag(flags.Zero))
	test.ExpectFailure(t, f.Flag(flags.Sign))
	test.ExpectFailure(t, f.Flag(flags.ParityOdd))

	flags.SetFrom(&f, flags.ZeroSignParity, uint8(0x80))
	test.ExpectFailure(t, f.Flag(flags.Zero))
	test.ExpectSuccess(t, f.Flag(flags.Sign))
	test.ExpectSuccess(t, f.Flag(flags.ParityOdd))

	// parity is taken from the low byte only
	flags.SetFrom(&f, flags.ZeroSignParity, uint16(0x0103))
	test.ExpectFailure(t, f.Flag(flags.ParityOdd))
	test.ExpectFailure(t, f.Flag(flags.Sign))

	flags.SetFrom(&f, flags.ZeroSignParity, uint32(0x80000000))
	test.ExpectSuccess(t, f.Flag(flags.Sign))
	test.ExpectFailure(t, f.Flag(flags.Zero))

	flags.SetFrom(&f, flags.Carry|flags.Overflow, uint16(0x8000))
	test.ExpectSuccess(t, f.Flag(flags.Carry))
	test.ExpectSuccess(t, f.Flag(flags.Overflow))
	test.ExpectEquality(t, f.Carry(), uint32(1))

	flags.SetFrom(&f, flags.Direction, uint8(1))
	test.ExpectEquality(t, f.DirectionStep(1), int32(-1))
}

func TestSetFlag(t *testing.T) {
	f := flags.NewFlags()
	for _, fl := range []flags.Flag{flags.Carry, flags.ParityOdd, flags.AuxiliaryCarry,
		flags.Zero, flags.Sign, flags.Trap, flags.Interrupt, flags.Direction, flags.Overflow} {
		f.SetFlag(fl, true)
		test.ExpectSuccess(t, f.Flag(fl), fl)
		f.SetFlag(fl, false)
		test.ExpectFailure(t, f.Flag(fl), fl)
	}
}

func TestConditions(t *testing.T) {
	f := flags.NewFlags()

	// below or equal is zero or carry
	f.SetFlag(flags.Carry, true)
	test.ExpectSuccess(t, f.Condition(flags.IsBelowOrEqual))
	f.SetFlag(flags.Carry, false)
	test.ExpectFailure(t, f.Condition(flags.IsBelowOrEqual))
	f.SetFlag(flags.Zero, true)
	test.ExpectSuccess(t, f.Condition(flags.IsBelowOrEqual))

	// less or equal is zero or sign not equal to overflow
	f.SetFlag(flags.Zero, false)
	test.ExpectFailure(t, f.Condition(flags.IsLessOrEqual))
	f.SetFlag(flags.Sign, true)
	test.ExpectSuccess(t, f.Condition(flags.IsLess))
	test.ExpectSuccess(t, f.Condition(flags.IsLessOrEqual))
	f.SetFlag(flags.Overflow, true)
	test.ExpectFailure(t, f.Condition(flags.IsLess))
	test.ExpectFailure(t, f.Condition(flags.IsLessOrEqual))

	// condition codes as encoded in the opcode. 0x4 is JZ and 0x5 is JNZ
	f.SetFlag(flags.Zero, true)
	test.ExpectSuccess(t, f.ConditionCode(0x74))
	test.ExpectFailure(t, f.ConditionCode(0x75))
	// JP and JNP
	flags.SetFrom(&f, flags.ParityOdd, uint8(0x03))
	test.ExpectSuccess(t, f.ConditionCode(0x7a))
	test.ExpectFailure(t, f.ConditionCode(0x7b))
}
