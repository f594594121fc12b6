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

package memory_test

import (
	"testing"

	"github.com/jetsetilly/gopher86/curated"
	"github.com/jetsetilly/gopher86/hardware/cpu/exceptions"
	"github.com/jetsetilly/gopher86/hardware/cpu/instructions"
	"github.com/jetsetilly/gopher86/hardware/cpu/registers"
	"github.com/jetsetilly/gopher86/hardware/memory"
	"github.com/jetsetilly/gopher86/hardware/memory/cpubus"
	"github.com/jetsetilly/gopher86/test"
)

func newMemory(t *testing.T, model instructions.Model) (*memory.Segmented, *registers.Registers) {
	t.Helper()
	regs := registers.NewRegisters()
	mem, err := memory.NewSegmented(model, regs, 1<<20)
	test.DemandSuccess(t, err)
	return mem, regs
}

func TestSize(t *testing.T) {
	regs := registers.NewRegisters()
	_, err := memory.NewSegmented(instructions.I8086, regs, 1000)
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.IsAny(err))
	_, err = memory.NewSegmented(instructions.I8086, regs, 1<<15)
	test.ExpectFailure(t, err)
}

func TestSegmentation(t *testing.T) {
	mem, regs := newMemory(t, instructions.I8086)
	regs.SetDS(0x1234)
	mem.Poke(0x12345, 0xaa)

	p, err := mem.Access8(instructions.DS, 0x0005, cpubus.Read)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, *p, uint8(0xaa))

	// 8-bit writes are immediate
	p, err = mem.Access8(instructions.DS, 0x0006, cpubus.Write)
	test.DemandSuccess(t, err)
	*p = 0xbb
	test.ExpectEquality(t, mem.Peek(0x12346), uint8(0xbb))
}

func TestStraddlingRead(t *testing.T) {
	mem, regs := newMemory(t, instructions.I8086)
	regs.SetDS(0x1000)
	mem.Poke(0x1ffff, 0x34)
	mem.Poke(0x10000, 0x12)
	mem.Poke(0x20000, 0xff)

	// the high byte comes from the start of the same segment and not from
	// the next linear address
	p, err := mem.Access16(instructions.DS, 0xffff, cpubus.Read)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, *p, uint16(0x1234))
}

func TestStraddlingWrite(t *testing.T) {
	mem, regs := newMemory(t, instructions.I8086)
	regs.SetES(0x2000)
	mem.Poke(0x2ffff, 0x11)
	mem.Poke(0x20000, 0x22)

	p, err := mem.Access16(instructions.ES, 0xffff, cpubus.ReadModifyWrite)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, *p, uint16(0x2211))
	*p = 0xabcd

	// the write is only visible after the write back
	test.ExpectEquality(t, mem.Peek(0x2ffff), uint8(0x11))
	test.ExpectEquality(t, mem.Peek(0x20000), uint8(0x22))
	q, err := mem.Access16(instructions.ES, 0xffff, cpubus.Read)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, *q, uint16(0x2211))

	mem.WriteBack()
	test.ExpectEquality(t, mem.Peek(0x2ffff), uint8(0xcd))
	test.ExpectEquality(t, mem.Peek(0x20000), uint8(0xab))
}

func TestAddressSpaceWrap(t *testing.T) {
	mem, regs := newMemory(t, instructions.I8086)
	regs.SetDS(0xffff)
	mem.Poke(0xfffff, 0x78)
	mem.Poke(0x00000, 0x56)
	mem.Poke(0x00001, 0x34)
	mem.Poke(0x00002, 0x12)

	// ffff:000f is the last byte of the address space
	p, err := mem.Access32(instructions.DS, 0x000f, cpubus.Read)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, *p, uint32(0x12345678))
}

func TestSegmentLimitFault(t *testing.T) {
	mem, regs := newMemory(t, instructions.I80286)
	regs.SetDS(0x1000)

	_, err := mem.Access16(instructions.DS, 0xffff, cpubus.Read)
	e, ok := exceptions.As(err)
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, e.Cause, exceptions.GeneralProtectionFault)

	_, err = mem.Access16(instructions.SS, 0xffff, cpubus.Read)
	e, ok = exceptions.As(err)
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, e.Cause, exceptions.StackSegmentFault)

	// a byte access at the same offset is fine
	_, err = mem.Access8(instructions.DS, 0xffff, cpubus.Read)
	test.ExpectSuccess(t, err)

	test.ExpectFailure(t, mem.PreauthoriseRead(instructions.DS, 0xfff0, 0x11))
	test.ExpectSuccess(t, mem.PreauthoriseRead(instructions.DS, 0xfff0, 0x10))
}

func TestProtection(t *testing.T) {
	mem, regs := newMemory(t, instructions.I8086)
	regs.SetDS(0xf000)
	mem.Poke(0xf0000, 0x55)
	mem.Protect(0xf0000, 0x10000)

	// the 8086 ignores the write
	p, err := mem.Access8(instructions.DS, 0x0000, cpubus.Write)
	test.DemandSuccess(t, err)
	*p = 0x66
	test.ExpectEquality(t, mem.Peek(0xf0000), uint8(0x55))

	w, err := mem.Access16(instructions.DS, 0x0000, cpubus.Write)
	test.DemandSuccess(t, err)
	*w = 0x6666
	mem.WriteBack()
	test.ExpectEquality(t, mem.Peek(0xf0000), uint8(0x55))

	// the 80286 faults
	mem, regs = newMemory(t, instructions.I80286)
	regs.SetDS(0xf000)
	mem.Protect(0xf0000, 0x10000)
	_, err = mem.Access8(instructions.DS, 0x0000, cpubus.Write)
	test.ExpectFailure(t, err)
	_, err = mem.Access8(instructions.DS, 0x0000, cpubus.Read)
	test.ExpectSuccess(t, err)
	test.ExpectFailure(t, mem.PreauthoriseWrite(instructions.DS, 0xfffe, 2))
}

func TestStackPreauthorisation(t *testing.T) {
	mem, regs := newMemory(t, instructions.I80286)
	regs.SetSS(0x3000)

	regs.SetSP(0x0000)
	test.ExpectSuccess(t, mem.PreauthoriseStackWrite(16))

	regs.SetSP(0x0001)
	err := mem.PreauthoriseStackWrite(16)
	e, ok := exceptions.As(err)
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, e.Cause, exceptions.StackSegmentFault)

	regs.SetSP(0xfff0)
	test.ExpectSuccess(t, mem.PreauthoriseStackRead(16))
	test.ExpectFailure(t, mem.PreauthoriseStackRead(17))

	// preauthorised accesses
	regs.SetSP(0x0100)
	mem.PreauthorisedWrite16(instructions.SS, 0x00fe, 0xbeef)
	p16, err := cpubus.Access[uint16](mem, instructions.SS, 0x00fe, cpubus.PreauthorisedRead)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, *p16, uint16(0xbeef))
	mem.PreauthorisedWrite32(instructions.SS, 0x00f0, 0x12345678)
	p32, err := cpubus.Access[uint32](mem, instructions.SS, 0x00f0, cpubus.PreauthorisedRead)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, *p32, uint32(0x12345678))
	test.ExpectEquality(t, mem.Peek(0x300f0), uint8(0x78))
}

// a preauthorised read is not checked against the segment limit and wraps
// around the segment as on the 8086
func TestPreauthorisedReadLimit(t *testing.T) {
	mem, regs := newMemory(t, instructions.I80286)
	regs.SetSS(0x2000)
	mem.Poke(0x2ffff, 0x34)
	mem.Poke(0x20000, 0x12)

	_, err := mem.Access16(instructions.SS, 0xffff, cpubus.Read)
	test.ExpectSuccess(t, exceptions.New(exceptions.StackSegmentFault).Is(err))

	p, err := mem.Access16(instructions.SS, 0xffff, cpubus.PreauthorisedRead)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, *p, uint16(0x1234))

	// nothing is staged for writing
	*p = 0xffff
	mem.WriteBack()
	test.ExpectEquality(t, mem.Peek(0x2ffff), uint8(0x34))
}

func TestGenericAccess(t *testing.T) {
	mem, regs := newMemory(t, instructions.I80386)
	regs.SetDS(0x0100)

	p, err := cpubus.Access[uint32](mem, instructions.DS, 0x10, cpubus.Write)
	test.DemandSuccess(t, err)
	*p = 0xcafef00d
	mem.WriteBack()

	v, err := mem.LinearRead16(0x1010)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, v, uint16(0xf00d))

	b, err := cpubus.Access[uint8](mem, instructions.DS, 0x13, cpubus.Read)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, *b, uint8(0xca))
}
