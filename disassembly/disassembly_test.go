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

package disassembly_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/gopher86/curated"
	"github.com/jetsetilly/gopher86/disassembly"
	"github.com/jetsetilly/gopher86/hardware/cpu/instructions"
	"github.com/jetsetilly/gopher86/test"
)

var program = []uint8{
	0xb8, 0x34, 0x12, // mov ax, 0x1234
	0xcd, 0x21, // int 0x21
	0xf3, 0xa5, // rep movsw
	0xb8, 0x01, // incomplete
}

func TestFromBytes(t *testing.T) {
	dsm, err := disassembly.FromBytes(instructions.I8086, 0x0100, program)
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(dsm.Entries), 4)

	e := dsm.Entries[0]
	test.ExpectEquality(t, e.Address, 0x0100)
	test.ExpectEquality(t, e.Bytecode(), "b8 34 12")
	test.ExpectEquality(t, e.Instruction, "mov ax, 0x1234")
	test.ExpectEquality(t, e.Mnemonic, "mov")
	test.ExpectEquality(t, e.Operands, "ax, 0x1234")
	test.ExpectEquality(t, e.Operation, instructions.MOV)
	test.ExpectEquality(t, e.Level, disassembly.EntryLevelDecoded)

	test.ExpectEquality(t, dsm.Entries[1].Address, 0x0103)
	test.ExpectEquality(t, dsm.Entries[2].Instruction, "rep movsw")
	test.ExpectEquality(t, dsm.Entries[2].Operands, "")

	e = dsm.Entries[3]
	test.ExpectEquality(t, e.Address, 0x0107)
	test.ExpectEquality(t, e.Level, disassembly.EntryLevelIncomplete)
	test.ExpectEquality(t, e.Instruction, "db 0xb8, 0x01")

	// entries do not share memory with the buffer
	program[0] = 0x90
	test.ExpectEquality(t, dsm.Entries[0].Bytes[0], 0xb8)
	program[0] = 0xb8
}

func TestWrite(t *testing.T) {
	dsm, err := disassembly.FromBytes(instructions.I8086, 0x0100, program)
	test.DemandSuccess(t, err)

	w := &test.CompareWriter{}
	test.DemandSuccess(t, dsm.Write(w))
	test.ExpectSuccess(t, w.Compare(
		"0100  b8 34 12  mov       ax, 0x1234\n"+
			"0103  cd 21     int       0x21\n"+
			"0105  f3 a5     rep movsw\n"+
			"0107  b8 01     db        0xb8, 0x01\n"), w.String())

	w.Clear()
	test.DemandSuccess(t, dsm.WriteWithAttr(w, disassembly.WriteAttr{Level: true}))
	test.ExpectSuccess(t, strings.HasSuffix(w.String(), "0107  db        0xb8, 0x01  ; incomplete\n"), w.String())
}

func TestInvalid(t *testing.T) {
	dsm, err := disassembly.FromBytes(instructions.I80286, 0, []uint8{0xfe, 0xd0, 0x90})
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(dsm.Entries), 2)
	test.ExpectEquality(t, dsm.Entries[0].Level, disassembly.EntryLevelInvalid)
	test.ExpectEquality(t, dsm.Entries[1].Instruction, "nop")
	test.ExpectEquality(t, dsm.Entries[1].Address, 0x0002)
}

// addresses wrap at the end of the 16-bit segment
func TestAddressWrap(t *testing.T) {
	dsm, err := disassembly.FromBytes(instructions.I8086, 0xffff, []uint8{0x90, 0x90})
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(dsm.Entries), 2)
	test.ExpectEquality(t, dsm.Entries[1].Address, 0x0000)

	_, err = dsm.Search(0x0000)
	test.ExpectSuccess(t, err)
	_, err = dsm.Search(0x0001)
	test.ExpectSuccess(t, curated.Is(err, disassembly.NoSuchAddress))
}

func TestThirtyTwoBit(t *testing.T) {
	_, err := disassembly.FromBytesWithSize(instructions.I80286, instructions.Address32, 0, nil)
	test.ExpectSuccess(t, curated.Is(err, disassembly.UnsupportedSize))

	dsm, err := disassembly.FromBytesWithSize(instructions.I80386, instructions.Address32, 0x00100000,
		[]uint8{0xb8, 0x78, 0x56, 0x34, 0x12})
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(dsm.Entries), 1)
	test.ExpectEquality(t, dsm.Entries[0].Instruction, "mov eax, 0x12345678")

	w := &test.CompareWriter{}
	test.DemandSuccess(t, dsm.WriteWithAttr(w, disassembly.WriteAttr{}))
	test.ExpectSuccess(t, w.Compare("00100000  mov eax, 0x12345678\n"), w.String())
}

func TestGrep(t *testing.T) {
	dsm, err := disassembly.FromBytes(instructions.I8086, 0x0100, program)
	test.DemandSuccess(t, err)

	w := &test.CompareWriter{}
	n, err := dsm.Grep(w, disassembly.GrepMnemonic, "MOV", false)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, n, 2)

	w.Clear()
	n, err = dsm.Grep(w, disassembly.GrepOperand, "0x21", true)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, n, 1)
	test.ExpectSuccess(t, strings.Contains(w.String(), "int"))

	n, err = dsm.Grep(w, disassembly.GrepMnemonic, "MOV", true)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, n, 0)
}
