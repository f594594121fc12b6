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

package registers_test

import (
	"testing"

	"github.com/jetsetilly/gopher86/hardware/cpu/instructions"
	"github.com/jetsetilly/gopher86/hardware/cpu/registers"
	"github.com/jetsetilly/gopher86/test"
)

func TestReset(t *testing.T) {
	r := registers.NewRegisters()
	test.ExpectEquality(t, r.CS(), uint16(0xffff))
	test.ExpectEquality(t, r.IP(), uint16(0))
	test.ExpectEquality(t, r.EAX(), uint32(0))
}

func TestViews(t *testing.T) {
	r := registers.NewRegisters()

	r.SetEAX(0x12345678)
	test.ExpectEquality(t, r.AX(), uint16(0x5678))
	test.ExpectEquality(t, r.AL(), uint8(0x78))
	test.ExpectEquality(t, r.AH(), uint8(0x56))

	r.SetAH(0xab)
	test.ExpectEquality(t, r.EAX(), uint32(0x1234ab78))
	r.SetAL(0xcd)
	test.ExpectEquality(t, r.EAX(), uint32(0x1234abcd))
	r.SetAX(0xffff)
	test.ExpectEquality(t, r.EAX(), uint32(0x1234ffff))

	r.SetBX(0x0102)
	test.ExpectEquality(t, r.BH(), uint8(0x01))
	test.ExpectEquality(t, r.BL(), uint8(0x02))
}

func TestSourceAccess(t *testing.T) {
	r := registers.NewRegisters()

	r.Write(instructions.ECX, 0xaabbccdd)
	test.ExpectEquality(t, r.Read(instructions.CX), uint32(0xccdd))
	test.ExpectEquality(t, r.Read(instructions.CH), uint32(0xcc))
	test.ExpectEquality(t, r.Read(instructions.CL), uint32(0xdd))

	// writes are truncated to the width of the register
	r.Write(instructions.DH, 0x1ff)
	test.ExpectEquality(t, r.DX(), uint16(0xff00))
	r.Write(instructions.SI, 0x12345)
	test.ExpectEquality(t, r.ESI(), uint32(0x2345))

	r.Write(instructions.SS, 0x1234)
	test.ExpectEquality(t, r.SS(), uint16(0x1234))
	test.ExpectEquality(t, r.Segment(instructions.SS), uint16(0x1234))
	test.ExpectEquality(t, r.Read(instructions.SS), uint32(0x1234))

	// every register named by a Source can be written and read back
	for s := instructions.AX; s <= instructions.DI; s++ {
		r.Write(s, uint32(s))
		test.ExpectEquality(t, r.Read(s), uint32(s))
	}
}

func TestControl(t *testing.T) {
	c := registers.NewControl(false)
	test.ExpectEquality(t, c.MachineStatus(), uint16(0xfff0))

	// the protection enable bit cannot be cleared
	c.SetMachineStatus(0x0009)
	test.ExpectEquality(t, c.MachineStatus(), uint16(0xfff9))
	c.SetMachineStatus(0x0000)
	test.ExpectEquality(t, c.MachineStatus(), uint16(0xfff1))
	c.ClearTaskSwitched()
	test.ExpectEquality(t, c.MachineStatus(), uint16(0xfff1))

	_, ok := c.ControlRegister(0)
	test.ExpectFailure(t, ok)

	c = registers.NewControl(true)
	test.ExpectSuccess(t, c.SetControlRegister(3, 0x1000))
	v, ok := c.ControlRegister(3)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, v, uint32(0x1000))
	test.ExpectFailure(t, c.SetDebugRegister(4, 0))
	test.ExpectFailure(t, c.SetTestRegister(5, 0))
	test.ExpectSuccess(t, c.SetTestRegister(6, 0))

	c.SetDescriptorTable(registers.GlobalDescriptorTable, registers.DescriptorTableRegister{Base: 0x1000, Limit: 0xff})
	test.ExpectEquality(t, c.DescriptorTable(registers.GlobalDescriptorTable).Base, uint32(0x1000))
	test.ExpectEquality(t, c.DescriptorTable(registers.InterruptDescriptorTable).Limit, uint16(0x3ff))
}
