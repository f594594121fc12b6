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
	"fmt"

	"github.com/jetsetilly/gopher86/curated"
	"github.com/jetsetilly/gopher86/hardware/cpu/exceptions"
	"github.com/jetsetilly/gopher86/hardware/cpu/instructions"
)

// Result records the execution of a single instruction.
type Result struct {
	Model instructions.Model

	// address of the first byte of the instruction
	Segment uint16
	Offset  uint32

	// the number of bytes in the instruction and the bytes themselves
	ByteCount int
	Bytes     []uint8

	// disassembly of the instruction
	Instruction string

	// the instruction was performed again because of a repetition prefix and
	// was not decoded
	Repeated bool

	// the fault raised by the instruction. on models before the 80286 the
	// fault has already been delivered as an interrupt
	Fault error

	// a model specific behaviour that was triggered by the instruction
	Quirk Quirk

	// whether this data has been finalised
	Final bool
}

func (r Result) String() string {
	if !r.Final {
		return "unfinalised execution"
	}

	s := fmt.Sprintf("%04x:%04x\t% x\t%s", r.Segment, r.Offset, r.Bytes, r.Instruction)
	if r.Repeated {
		s = fmt.Sprintf("%s (repeated)", s)
	}
	if r.Fault != nil {
		s = fmt.Sprintf("%s * %v *", s, r.Fault)
	}
	if r.Quirk != NoQuirk {
		s = fmt.Sprintf("%s [%s]", s, r.Quirk)
	}
	return s
}

// IsValid checks whether the instance of Result contains information
// consistent with the model.
func (r Result) IsValid() error {
	if !r.Final {
		return curated.Errorf("execution: result not finalised")
	}

	if r.ByteCount < 1 || r.ByteCount > r.Model.MaxInstructionLength() {
		return curated.Errorf("execution: instruction length of %d is not possible for %s", r.ByteCount, r.Model)
	}

	if len(r.Bytes) != 0 && len(r.Bytes) != r.ByteCount {
		return curated.Errorf("execution: number of bytes recorded (%d) does not match byte count (%d)", len(r.Bytes), r.ByteCount)
	}

	if r.Fault != nil {
		if _, ok := exceptions.As(r.Fault); !ok {
			return curated.Errorf("execution: fault is not an exception (%v)", r.Fault)
		}
	}

	return nil
}
