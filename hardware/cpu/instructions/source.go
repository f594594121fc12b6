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

// DataSize is the width of the data operated on by an instruction.
type DataSize uint8

// List of valid DataSize values.
const (
	Byte DataSize = iota
	Word
	DWord
	NoData
)

// Bytes returns the number of bytes in the data size.
func (s DataSize) Bytes() int {
	switch s {
	case Byte:
		return 1
	case Word:
		return 2
	case DWord:
		return 4
	}
	return 0
}

func (s DataSize) String() string {
	switch s {
	case Byte:
		return "byte"
	case Word:
		return "word"
	case DWord:
		return "dword"
	}
	return ""
}

// AddressSize is the width of the address computation of an instruction.
type AddressSize uint8

// List of valid AddressSize values.
const (
	Address16 AddressSize = iota
	Address32
)

// DataSize returns the data size of the same width as the address size.
func (s AddressSize) DataSize() DataSize {
	if s == Address32 {
		return DWord
	}
	return Word
}

// Mask returns the value with every bit of the address size set.
func (s AddressSize) Mask() uint32 {
	if s == Address32 {
		return 0xffffffff
	}
	return 0xffff
}

func (s AddressSize) String() string {
	if s == Address32 {
		return "32-bit"
	}
	return "16-bit"
}

// Source names the location of an operand. The general purpose and segment
// registers are named by their width and position. Every register is ordered
// before the None value.
type Source uint8

// List of valid Source values.
const (
	AL Source = iota
	CL
	DL
	BL
	AH
	CH
	DH
	BH

	AX
	CX
	DX
	BX
	SP
	BP
	SI
	DI

	EAX
	ECX
	EDX
	EBX
	ESP
	EBP
	ESI
	EDI

	ES
	CS
	SS
	DS
	FS
	GS

	None

	// the operand is memory at an address embedded in the instruction
	DirectAddress

	// the operand is a value embedded in the instruction
	Immediate

	// the operand is memory at an address computed from the ScaleIndexBase
	// and displacement of the instruction
	Indirect

	// as Indirect but the base register of the ScaleIndexBase is ignored
	IndirectNoBase
)

var sourceNames = [...]string{
	"al", "cl", "dl", "bl", "ah", "ch", "dh", "bh",
	"ax", "cx", "dx", "bx", "sp", "bp", "si", "di",
	"eax", "ecx", "edx", "ebx", "esp", "ebp", "esi", "edi",
	"es", "cs", "ss", "ds", "fs", "gs",
}

func (s Source) String() string {
	if int(s) < len(sourceNames) {
		return sourceNames[s]
	}
	switch s {
	case None:
		return "none"
	case DirectAddress:
		return "direct"
	case Immediate:
		return "immediate"
	case Indirect:
		return "indirect"
	case IndirectNoBase:
		return "indirect (no base)"
	}
	return "unknown source"
}

// IsRegister returns true if the source names a register.
func (s Source) IsRegister() bool {
	return s < None
}

// IsSegment returns true if the source names a segment register.
func (s Source) IsSegment() bool {
	return s >= ES && s <= GS
}

// IsMemory returns true if the source refers to memory.
func (s Source) IsMemory() bool {
	return s == DirectAddress || s == Indirect || s == IndirectNoBase
}

// RegisterNumber returns the encoding of a general purpose or segment register
// in the ModRegRM byte.
func (s Source) RegisterNumber() uint8 {
	if s.IsSegment() {
		return uint8(s - ES)
	}
	return uint8(s) & 0x07
}

// Size returns the width of a general purpose register. Segment registers are
// Word sized. Any other source returns NoData.
func (s Source) Size() DataSize {
	switch {
	case s <= BH:
		return Byte
	case s <= DI:
		return Word
	case s <= EDI:
		return DWord
	case s <= GS:
		return Word
	}
	return NoData
}

// Register returns the general purpose register with the ModRegRM encoding
// reg and the specified width.
func Register(reg uint8, size DataSize) Source {
	reg &= 0x07
	switch size {
	case Byte:
		return AL + Source(reg)
	case Word:
		return AX + Source(reg)
	case DWord:
		return EAX + Source(reg)
	}
	panic(fmt.Sprintf("register of unsupported size (%s)", size))
}

// Segment returns the segment register with the ModRegRM encoding reg. The
// second return value is false if there is no such segment register.
func Segment(reg uint8) (Source, bool) {
	if reg > 5 {
		return None, false
	}
	return ES + Source(reg), true
}

// ScaleIndexBase describes an address as base + (index << scale). The packing
// is that of the 80386 SIB byte. An index of 4 indicates that there is no
// index register. The register numbers are ModRegRM encodings and are
// interpreted as 16-bit or 32-bit registers according to the address size of
// the instruction.
type ScaleIndexBase uint8

// NoIndex is the index value that indicates no index register.
const NoIndex = 4

// NewScaleIndexBase packs the scale, index and base values.
func NewScaleIndexBase(scale, index, base uint8) ScaleIndexBase {
	return ScaleIndexBase((scale&0x03)<<6 | (index&0x07)<<3 | base&0x07)
}

// Scale returns the number of bits by which the index is shifted.
func (sib ScaleIndexBase) Scale() uint8 {
	return uint8(sib) >> 6
}

// Index returns the index register number.
func (sib ScaleIndexBase) Index() uint8 {
	return (uint8(sib) >> 3) & 0x07
}

// Base returns the base register number.
func (sib ScaleIndexBase) Base() uint8 {
	return uint8(sib) & 0x07
}

// HasIndex returns true if there is an index register.
func (sib ScaleIndexBase) HasIndex() bool {
	return sib.Index() != NoIndex
}

// DefaultSegment returns the segment register used if there is no override.
// Addresses using SP or BP as the base are in the stack segment.
func (sib ScaleIndexBase) DefaultSegment() Source {
	switch sib.Base() {
	case 4, 5:
		return SS
	}
	return DS
}

// Equal returns true if the two values denote the same address. With a scale
// of zero the base and index registers are interchangeable.
func (sib ScaleIndexBase) Equal(o ScaleIndexBase) bool {
	if sib == o {
		return true
	}
	if sib.Scale() != 0 || o.Scale() != 0 || !sib.HasIndex() || !o.HasIndex() {
		return false
	}
	return sib.Base() == o.Index() && sib.Index() == o.Base()
}

// the base and index register pairs of the 16-bit addressing modes, indexed by
// the rm field of the ModRegRM byte
var sib16 = [8]ScaleIndexBase{
	NewScaleIndexBase(0, 6, 3),       // bx+si
	NewScaleIndexBase(0, 7, 3),       // bx+di
	NewScaleIndexBase(0, 6, 5),       // bp+si
	NewScaleIndexBase(0, 7, 5),       // bp+di
	NewScaleIndexBase(0, NoIndex, 6), // si
	NewScaleIndexBase(0, NoIndex, 7), // di
	NewScaleIndexBase(0, NoIndex, 5), // bp
	NewScaleIndexBase(0, NoIndex, 3), // bx
}

// ScaleIndexBase16 returns the ScaleIndexBase for the rm field of a 16-bit
// ModRegRM byte.
func ScaleIndexBase16(rm uint8) ScaleIndexBase {
	return sib16[rm&0x07]
}

// DataPointer is the location of an operand: a Source and, for indirect
// sources, the ScaleIndexBase of the instruction.
type DataPointer struct {
	Source Source
	SIB    ScaleIndexBase
}

// DefaultSegment returns the segment used by the pointer when there is no
// segment override.
func (dp DataPointer) DefaultSegment() Source {
	if dp.Source == Indirect {
		return dp.SIB.DefaultSegment()
	}
	return DS
}

// Equal returns true if the two pointers refer to the same location.
func (dp DataPointer) Equal(o DataPointer) bool {
	if dp.Source != o.Source {
		return false
	}
	switch dp.Source {
	case Indirect:
		return dp.SIB.Equal(o.SIB)
	case IndirectNoBase:
		return dp.SIB.Scale() == o.SIB.Scale() && dp.SIB.Index() == o.SIB.Index()
	}
	return true
}

// address formats the register part of an indirect address
func (dp DataPointer) address(size AddressSize) string {
	s := strings.Builder{}
	reg := func(r uint8) Source {
		return Register(r, size.DataSize())
	}

	if dp.Source == Indirect {
		s.WriteString(reg(dp.SIB.Base()).String())
	}
	if dp.SIB.HasIndex() {
		if s.Len() > 0 {
			s.WriteRune('+')
		}
		s.WriteString(reg(dp.SIB.Index()).String())
		if dp.SIB.Scale() > 0 {
			s.WriteString(fmt.Sprintf("*%d", 1<<dp.SIB.Scale()))
		}
	}
	return s.String()
}
