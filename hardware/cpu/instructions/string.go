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

import (
	"fmt"
	"strings"
)

// immediate values below ten are written in decimal
func immediate(v uint32) string {
	if v < 10 {
		return fmt.Sprintf("%d", v)
	}
	return fmt.Sprintf("0x%x", v)
}

func signed(v int32) string {
	if v < 0 {
		return fmt.Sprintf("-0x%x", -int64(v))
	}
	return fmt.Sprintf("+0x%x", v)
}

// operations whose memory operand is written without a size
func unsizedMemory(op Operation) bool {
	switch op {
	case LEA, LDS, LES, LSS, LFS, LGS, BOUND, LGDT, LIDT, SGDT, SIDT, JMPfar, CALLfar, ESC:
		return true
	}
	return false
}

// mnemonic returns the mnemonic adjusted for the data and address sizes
func (ins Instruction[E]) mnemonic() string {
	op := ins.operation
	size := ins.OperationSize()

	if op.IsStringOperation() {
		switch size {
		case Byte:
			return op.String() + "b"
		case Word:
			return op.String() + "w"
		}
		return op.String() + "d"
	}

	switch op {
	case CBW:
		if size == DWord {
			return "cwde"
		}
	case CWD:
		if size == DWord {
			return "cdq"
		}
	case PUSHA, POPA, PUSHF, POPF, IRET:
		if size == DWord {
			return op.String() + "d"
		}
	case JCXZ:
		if ins.AddressSize() == Address32 {
			return "jecxz"
		}
	case XLAT:
		return "xlatb"
	}

	return op.String()
}

// formatOperand returns the text of a single operand
func (ins Instruction[E]) formatOperand(dp DataPointer) string {
	switch dp.Source {
	case None:
		return ""
	case Immediate:
		return immediate(uint32(ins.operand))
	case DirectAddress, Indirect, IndirectNoBase:
		s := strings.Builder{}
		if !unsizedMemory(ins.operation) {
			s.WriteString(ins.OperationSize().String())
			s.WriteRune(' ')
		}
		s.WriteRune('[')
		if ins.Segment() != dp.DefaultSegment() {
			s.WriteString(ins.Segment().String())
			s.WriteRune(':')
		}
		if dp.Source == DirectAddress {
			s.WriteString(fmt.Sprintf("0x%x", uint32(ins.displacement)))
		} else {
			a := dp.address(ins.AddressSize())
			s.WriteString(a)
			if a == "" {
				s.WriteString(fmt.Sprintf("0x%x", uint32(ins.displacement)))
			} else if ins.displacement != 0 {
				s.WriteString(signed(ins.SignedDisplacement()))
			}
		}
		s.WriteRune(']')
		return s.String()
	}
	return dp.Source.String()
}

// operands returns the list of operand texts in Intel order
func (ins Instruction[E]) operands() []string {
	op := ins.operation

	switch {
	case op.IsStringOperation():
		return nil
	case op.IsRelativeFlow():
		return []string{signed(ins.SignedDisplacement())}
	}

	switch op {
	case JMPfar, CALLfar:
		if ins.source == Immediate {
			return []string{fmt.Sprintf("0x%x:0x%x", uint32(ins.operand), uint32(ins.displacement))}
		}
		return []string{"far " + ins.formatOperand(ins.Source())}
	case ENTER:
		return []string{immediate(uint32(ins.displacement)), immediate(uint32(ins.operand))}
	case ESC:
		return []string{fmt.Sprintf("0x%x", uint32(ins.operand)), ins.formatOperand(ins.Source())}
	case AAM, AAD:
		if ins.operand == 10 {
			return nil
		}
	case MOVtoCr:
		return []string{fmt.Sprintf("cr%d", ins.operand), ins.formatOperand(ins.Source())}
	case MOVfromCr:
		return []string{ins.formatOperand(ins.Destination()), fmt.Sprintf("cr%d", ins.operand)}
	case MOVtoDr:
		return []string{fmt.Sprintf("dr%d", ins.operand), ins.formatOperand(ins.Source())}
	case MOVfromDr:
		return []string{ins.formatOperand(ins.Destination()), fmt.Sprintf("dr%d", ins.operand)}
	case MOVtoTr:
		return []string{fmt.Sprintf("tr%d", ins.operand), ins.formatOperand(ins.Source())}
	case MOVfromTr:
		return []string{ins.formatOperand(ins.Destination()), fmt.Sprintf("tr%d", ins.operand)}
	case SHLDimm, SHRDimm, IMUL_3:
		return []string{ins.formatOperand(ins.Destination()), ins.formatOperand(ins.Source()), immediate(uint32(ins.operand))}
	case SHLDCL, SHRDCL:
		return []string{ins.formatOperand(ins.Destination()), ins.formatOperand(ins.Source()), "cl"}
	}

	var o []string
	if s := ins.formatOperand(ins.Destination()); s != "" {
		o = append(o, s)
	}
	if s := ins.formatOperand(ins.Source()); s != "" {
		o = append(o, s)
	}
	return o
}

// Mnemonic returns the name of the instruction preceded by any lock,
// repetition or segment override prefix.
func (ins Instruction[E]) Mnemonic() string {
	s := strings.Builder{}

	if ins.Lock() {
		s.WriteString("lock ")
	}
	if p := ins.operation.RepetitionPrefix(); p != "" {
		s.WriteString(p)
		s.WriteRune(' ')
	}
	if ins.operation.UsesSourceIndex() && ins.Segment() != DS {
		s.WriteString(ins.Segment().String())
		s.WriteRune(' ')
	}

	s.WriteString(ins.mnemonic())
	return s.String()
}

// Operands returns the operands of the instruction separated by commas. The
// empty string is returned if the instruction has no explicit operands.
func (ins Instruction[E]) Operands() string {
	return strings.Join(ins.operands(), ", ")
}

// String returns the instruction in Intel syntax.
func (ins Instruction[E]) String() string {
	if o := ins.Operands(); o != "" {
		return fmt.Sprintf("%s %s", ins.Mnemonic(), o)
	}
	return ins.Mnemonic()
}
