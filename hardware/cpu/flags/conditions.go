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

// Condition is one of the eight tests that can be made of the flags by the
// conditional instructions. Each condition can also be negated.
type Condition uint8

// List of valid Condition values. The order matches the encoding of the
// condition in bits 1 to 3 of the Jcc, SETcc and CMOVcc opcodes.
const (
	IsOverflow Condition = iota
	IsBelow
	IsZero
	IsBelowOrEqual
	IsSign
	IsParityEven
	IsLess
	IsLessOrEqual
)

func (c Condition) String() string {
	switch c {
	case IsOverflow:
		return "overflow"
	case IsBelow:
		return "below"
	case IsZero:
		return "zero"
	case IsBelowOrEqual:
		return "below or equal"
	case IsSign:
		return "sign"
	case IsParityEven:
		return "parity even"
	case IsLess:
		return "less"
	case IsLessOrEqual:
		return "less or equal"
	}
	panic("unknown condition")
}

// Condition returns the result of the condition test.
func (f Flags) Condition(c Condition) bool {
	switch c {
	case IsOverflow:
		return f.overflow != 0
	case IsBelow:
		return f.carry != 0
	case IsZero:
		return f.zero == 0
	case IsBelowOrEqual:
		return f.zero == 0 || f.carry != 0
	case IsSign:
		return f.sign != 0
	case IsParityEven:
		return !f.parityOdd()
	case IsLess:
		return (f.sign != 0) != (f.overflow != 0)
	case IsLessOrEqual:
		return f.zero == 0 || (f.sign != 0) != (f.overflow != 0)
	}
	panic("unknown condition")
}

// ConditionCode evaluates the condition encoded in the low four bits of a
// conditional opcode. Bit 0 negates the result.
func (f Flags) ConditionCode(code uint8) bool {
	return f.Condition(Condition((code>>1)&0x07)) != (code&0x01 == 0x01)
}
