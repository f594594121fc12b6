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

package disassembly

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/gopher86/hardware/cpu/instructions"
)

// EntryLevel describes the level of the Entry.
type EntryLevel int

// List of valid EntryLevel in increasing reliability.
//
// Incomplete entries are made from the bytes at the end of a buffer that do
// not form a complete instruction. Invalid entries are complete but the bytes
// do not form an instruction for the processor model.
const (
	EntryLevelIncomplete EntryLevel = iota
	EntryLevelInvalid
	EntryLevelDecoded
)

func (l EntryLevel) String() string {
	switch l {
	case EntryLevelIncomplete:
		return "incomplete"
	case EntryLevelInvalid:
		return "invalid"
	case EntryLevelDecoded:
		return "decoded"
	}
	return "unknown level"
}

// Entry is a disassembled instruction.
type Entry struct {
	Level EntryLevel

	// the address of the first byte of the instruction
	Address uint32

	// the bytes that make up the instruction. a copy of the buffer given to
	// FromBytes()
	Bytes []uint8

	// the operation is Invalid for incomplete and invalid entries
	Operation instructions.Operation

	// the instruction in Intel syntax, and the instruction divided into its
	// mnemonic and operands
	Instruction string
	Mnemonic    string
	Operands    string
}

func newEntry[E instructions.Extension](address uint32, data []uint8, ins instructions.Instruction[E]) *Entry {
	e := &Entry{
		Level:       EntryLevelDecoded,
		Address:     address,
		Bytes:       append([]uint8{}, data...),
		Operation:   ins.Operation(),
		Instruction: ins.String(),
		Mnemonic:    ins.Mnemonic(),
		Operands:    ins.Operands(),
	}
	if e.Operation == instructions.Invalid {
		e.Level = EntryLevelInvalid
	}
	return e
}

// bytes that do not form a complete instruction are presented as data
func newIncompleteEntry(address uint32, data []uint8) *Entry {
	o := make([]string, len(data))
	for i, b := range data {
		o[i] = fmt.Sprintf("0x%02x", b)
	}

	e := &Entry{
		Level:     EntryLevelIncomplete,
		Address:   address,
		Bytes:     append([]uint8{}, data...),
		Operation: instructions.Invalid,
		Mnemonic:  "db",
		Operands:  strings.Join(o, ", "),
	}
	e.Instruction = fmt.Sprintf("%s %s", e.Mnemonic, e.Operands)
	return e
}

// Bytecode returns the bytes of the instruction as a string of hexadecimal
// values separated by spaces.
func (e *Entry) Bytecode() string {
	s := strings.Builder{}
	for i, b := range e.Bytes {
		if i > 0 {
			s.WriteRune(' ')
		}
		s.WriteString(fmt.Sprintf("%02x", b))
	}
	return s.String()
}

func (e *Entry) String() string {
	return fmt.Sprintf("%s\t%s\t%s", e.address(), e.Bytecode(), e.Instruction)
}

func (e *Entry) address() string {
	if e.Address > 0xffff {
		return fmt.Sprintf("%08x", e.Address)
	}
	return fmt.Sprintf("%04x", e.Address)
}
