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

package instructions

// Model is the processor generation being emulated. The model controls which
// opcodes are recognised, the maximum length of an instruction, whether 32-bit
// addressing is available and how faults are delivered.
type Model int

// List of valid Model values.
const (
	I8086 Model = iota
	I80186
	I80286
	I80386
)

func (m Model) String() string {
	switch m {
	case I8086:
		return "8086"
	case I80186:
		return "80186"
	case I80286:
		return "80286"
	case I80386:
		return "80386"
	}
	return "unknown model"
}

// ParseModel returns the Model named by s. The names accepted are those
// returned by the String() function.
func ParseModel(s string) (Model, bool) {
	for m := I8086; m <= I80386; m++ {
		if m.String() == s {
			return m, true
		}
	}
	return I8086, false
}

// MaxInstructionLength is the number of bytes after which an instruction that
// has still not completed decoding is abandoned.
func (m Model) MaxInstructionLength() int {
	switch m {
	case I80286:
		return 10
	case I80386:
		return 15
	}

	// the 8086 and 80186 have no limit but after 65536 bytes the instruction
	// pointer has wrapped around to where it started
	return 65536
}

// HasInstructionLengthLimit returns true if exceeding the maximum instruction
// length results in an invalid instruction rather than a no-op.
func (m Model) HasInstructionLengthLimit() bool {
	return m >= I80286
}

// Uses32Bit returns true if the model supports 32-bit operands and addressing.
func (m Model) Uses32Bit() bool {
	return m >= I80386
}

// HasExceptions returns true if faults are delivered as exceptions to the
// surrounding machine rather than by an in-band interrupt.
func (m Model) HasExceptions() bool {
	return m >= I80286
}
