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

package execution_test

import (
	"testing"

	"github.com/jetsetilly/gopher86/hardware/cpu/exceptions"
	"github.com/jetsetilly/gopher86/hardware/cpu/execution"
	"github.com/jetsetilly/gopher86/hardware/cpu/flags"
	"github.com/jetsetilly/gopher86/hardware/cpu/instructions"
	"github.com/jetsetilly/gopher86/hardware/memory/ports"
	"github.com/jetsetilly/gopher86/test"
)

func TestMoveImmediate(t *testing.T) {
	m := newMachine(t, instructions.I8086)
	m.flags.SetFlag(flags.Carry|flags.Sign, true)
	before := m.flags.Value()

	test.DemandSuccess(t, m.run(t, 0xb8, 0x34, 0x12)) // mov ax, 0x1234
	test.ExpectEquality(t, m.regs.AX(), 0x1234)
	test.ExpectEquality(t, m.flags.Value(), before)
	test.ExpectEquality(t, m.regs.IP(), 0x0103)
	test.ExpectEquality(t, len(m.flow.jumps), 0)
}

func TestMoveMemory(t *testing.T) {
	m := newMachine(t, instructions.I8086)
	m.regs.SetDS(0x0010)
	m.regs.SetBX(0x0020)

	// mov word [bx+0x10], 0xbeef
	test.DemandSuccess(t, m.run(t, 0xc7, 0x47, 0x10, 0xef, 0xbe))
	test.ExpectEquality(t, m.word(0x0130), 0xbeef)

	// mov cx, word [bx+0x10]
	test.DemandSuccess(t, m.run(t, 0x8b, 0x4f, 0x10))
	test.ExpectEquality(t, m.regs.CX(), 0xbeef)

	// mov al, byte [0x0030]
	test.DemandSuccess(t, m.run(t, 0xa0, 0x30, 0x00))
	test.ExpectEquality(t, m.regs.AL(), 0xef)

	// es: mov byte [bx], ah
	m.regs.SetES(0x0020)
	m.regs.SetAH(0x5a)
	test.DemandSuccess(t, m.run(t, 0x26, 0x88, 0x27))
	test.ExpectEquality(t, m.mem.Peek(0x0220), 0x5a)
}

// a word at offset 0xffff takes its high byte from offset 0 of the same
// segment
func TestWordAtSegmentEnd(t *testing.T) {
	m := newMachine(t, instructions.I8086)
	m.regs.SetDS(0x1000)
	m.mem.Poke(0x1ffff, 0x34)
	m.mem.Poke(0x10000, 0x12)
	test.DemandSuccess(t, m.run(t, 0xa1, 0xff, 0xff)) // mov ax, word [0xffff]
	test.ExpectEquality(t, m.regs.AX(), 0x1234)

	m = newMachine(t, instructions.I80286)
	m.regs.SetAX(0x5555)
	err := m.run(t, 0xa1, 0xff, 0xff)
	e, ok := exceptions.As(err)
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, e.Cause, exceptions.GeneralProtectionFault)
	test.ExpectEquality(t, m.regs.AX(), 0x5555)
}

func TestExchange(t *testing.T) {
	m := newMachine(t, instructions.I8086)
	m.regs.SetAX(0x1111)
	m.regs.SetBX(0x2222)
	test.DemandSuccess(t, m.run(t, 0x93)) // xchg ax, bx
	test.ExpectEquality(t, m.regs.AX(), 0x2222)
	test.ExpectEquality(t, m.regs.BX(), 0x1111)

	m.mem.Load(0x0040, []uint8{0x78, 0x56})
	test.DemandSuccess(t, m.run(t, 0x87, 0x0e, 0x40, 0x00)) // xchg cx, word [0x0040]
	test.ExpectEquality(t, m.regs.CX(), 0x5678)
	test.ExpectEquality(t, m.word(0x0040), 0x0000)
}

func TestLoadEffectiveAddress(t *testing.T) {
	m := newMachine(t, instructions.I8086)
	m.regs.SetBP(0xfff0)
	m.regs.SetSI(0x0020)
	test.DemandSuccess(t, m.run(t, 0x8d, 0x02)) // lea ax, [bp+si]
	test.ExpectEquality(t, m.regs.AX(), 0x0010)
}

func TestLoadFarPointer(t *testing.T) {
	m := newMachine(t, instructions.I8086)
	m.mem.Load(0x0080, []uint8{0x34, 0x12, 0x00, 0xb8})
	test.DemandSuccess(t, m.run(t, 0xc4, 0x1e, 0x80, 0x00)) // les bx, [0x0080]
	test.ExpectEquality(t, m.regs.BX(), 0x1234)
	test.ExpectEquality(t, m.regs.ES(), 0xb800)
}

func TestTranslate(t *testing.T) {
	m := newMachine(t, instructions.I8086)
	m.regs.SetBX(0x0200)
	m.regs.SetAL(0x05)
	m.mem.Poke(0x0205, 0x99)
	test.DemandSuccess(t, m.run(t, 0xd7)) // xlat
	test.ExpectEquality(t, m.regs.AL(), 0x99)
}

func TestConvert(t *testing.T) {
	m := newMachine(t, instructions.I8086)
	m.regs.SetAX(0x0080)
	test.DemandSuccess(t, m.run(t, 0x98)) // cbw
	test.ExpectEquality(t, m.regs.AX(), 0xff80)
	test.DemandSuccess(t, m.run(t, 0x99)) // cwd
	test.ExpectEquality(t, m.regs.DX(), 0xffff)

	m.regs.SetAX(0x0001)
	test.DemandSuccess(t, m.run(t, 0x99))
	test.ExpectEquality(t, m.regs.DX(), 0x0000)
}

func TestFlagsToAH(t *testing.T) {
	m := newMachine(t, instructions.I8086)
	m.flags.SetFlag(flags.Carry|flags.Sign, true)
	test.DemandSuccess(t, m.run(t, 0x9f)) // lahf
	test.ExpectEquality(t, m.regs.AH()&0x81, 0x81)

	m.regs.SetAH(0x40)
	test.DemandSuccess(t, m.run(t, 0x9e)) // sahf
	test.ExpectSuccess(t, m.flags.Flag(flags.Zero))
	test.ExpectFailure(t, m.flags.Flag(flags.Carry))
	test.ExpectFailure(t, m.flags.Flag(flags.Sign))
}

func TestFlagOperations(t *testing.T) {
	m := newMachine(t, instructions.I8086)
	test.DemandSuccess(t, m.run(t, 0xf9)) // stc
	test.ExpectSuccess(t, m.flags.Flag(flags.Carry))
	test.DemandSuccess(t, m.run(t, 0xf5)) // cmc
	test.ExpectFailure(t, m.flags.Flag(flags.Carry))
	test.DemandSuccess(t, m.run(t, 0xfd)) // std
	test.ExpectSuccess(t, m.flags.Flag(flags.Direction))
	test.DemandSuccess(t, m.run(t, 0xfc)) // cld
	test.ExpectFailure(t, m.flags.Flag(flags.Direction))
	test.DemandSuccess(t, m.run(t, 0xfb)) // sti
	test.ExpectSuccess(t, m.flags.Flag(flags.Interrupt))
	test.DemandSuccess(t, m.run(t, 0xfa)) // cli
	test.ExpectFailure(t, m.flags.Flag(flags.Interrupt))

	m.flags.SetFlag(flags.Carry, true)
	test.DemandSuccess(t, m.run(t, 0xd6)) // salc
	test.ExpectEquality(t, m.regs.AL(), 0xff)
}

func TestConditionalJump(t *testing.T) {
	m := newMachine(t, instructions.I8086)
	m.flags.SetFlag(flags.Zero, true)

	// jz -2 is a jump to itself
	test.DemandSuccess(t, m.run(t, 0x74, 0xfe))
	test.ExpectEquality(t, len(m.flow.jumps), 1)
	test.ExpectEquality(t, m.flow.jumps[0], 0x0100)
	test.ExpectEquality(t, m.regs.IP(), 0x0100)

	// not taken
	m.flags.SetFlag(flags.Zero, false)
	test.DemandSuccess(t, m.run(t, 0x74, 0xfe))
	test.ExpectEquality(t, len(m.flow.jumps), 1)
	test.ExpectEquality(t, m.regs.IP(), 0x0102)
}

func TestRelativeJumpWraps(t *testing.T) {
	m := newMachine(t, instructions.I8086)
	m.regs.SetIP(0xfffd)
	test.DemandSuccess(t, m.run(t, 0xe9, 0x10, 0x00)) // jmp +0x10
	test.ExpectEquality(t, m.regs.IP(), 0x0010)
}

func TestCallAndReturn(t *testing.T) {
	m := newMachine(t, instructions.I8086)
	test.DemandSuccess(t, m.run(t, 0xe8, 0x10, 0x00)) // call +0x10
	test.ExpectEquality(t, m.regs.IP(), 0x0113)
	test.ExpectEquality(t, m.regs.SP(), 0x0ffe)
	test.ExpectEquality(t, m.word(0x0ffe), 0x0103)

	test.DemandSuccess(t, m.run(t, 0xc3)) // ret
	test.ExpectEquality(t, m.regs.IP(), 0x0103)
	test.ExpectEquality(t, m.regs.SP(), 0x1000)

	// ret with release of stack bytes
	m.regs.SetSP(0x0ffa)
	m.mem.Load(0x0ffa, []uint8{0x00, 0x02})
	test.DemandSuccess(t, m.run(t, 0xc2, 0x04, 0x00))
	test.ExpectEquality(t, m.regs.IP(), 0x0200)
	test.ExpectEquality(t, m.regs.SP(), 0x1000)
}

func TestIndirectCall(t *testing.T) {
	m := newMachine(t, instructions.I8086)
	m.regs.SetBX(0x4000)
	test.DemandSuccess(t, m.run(t, 0xff, 0xd3)) // call bx
	test.ExpectEquality(t, m.regs.IP(), 0x4000)
	test.ExpectEquality(t, m.word(0x0ffe), 0x0102)

	test.DemandSuccess(t, m.run(t, 0xff, 0xe3)) // jmp bx
	test.ExpectEquality(t, m.regs.IP(), 0x4000)
}

func TestFarCallAndReturn(t *testing.T) {
	m := newMachine(t, instructions.I8086)
	test.DemandSuccess(t, m.run(t, 0x9a, 0x78, 0x56, 0x34, 0x12)) // call 0x1234:0x5678
	test.ExpectEquality(t, m.regs.CS(), 0x1234)
	test.ExpectEquality(t, m.regs.IP(), 0x5678)
	test.ExpectEquality(t, m.word(0x0ffe), 0x0000)
	test.ExpectEquality(t, m.word(0x0ffc), 0x0105)

	test.DemandSuccess(t, m.run(t, 0xcb)) // retf
	test.ExpectEquality(t, m.regs.CS(), 0x0000)
	test.ExpectEquality(t, m.regs.IP(), 0x0105)
	test.ExpectEquality(t, m.regs.SP(), 0x1000)
}

func TestLoop(t *testing.T) {
	m := newMachine(t, instructions.I8086)
	m.regs.SetCX(2)
	test.DemandSuccess(t, m.run(t, 0xe2, 0xfe)) // loop -2
	test.ExpectEquality(t, m.regs.CX(), 1)
	test.ExpectEquality(t, len(m.flow.jumps), 1)

	test.DemandSuccess(t, m.run(t, 0xe2, 0xfe))
	test.ExpectEquality(t, m.regs.CX(), 0)
	test.ExpectEquality(t, len(m.flow.jumps), 1)

	test.DemandSuccess(t, m.run(t, 0xe3, 0x10)) // jcxz +0x10
	test.ExpectEquality(t, len(m.flow.jumps), 2)

	// loopne stops when zero is set
	m.regs.SetCX(5)
	m.flags.SetFlag(flags.Zero, true)
	test.DemandSuccess(t, m.run(t, 0xe0, 0xfe))
	test.ExpectEquality(t, m.regs.CX(), 4)
	test.ExpectEquality(t, len(m.flow.jumps), 2)
}

func TestSoftwareInterrupt(t *testing.T) {
	m := newMachine(t, instructions.I8086)
	m.setVector(0x21, 0x0f00, 0x0010)
	m.flags.SetFlag(flags.Interrupt|flags.Carry, true)

	test.DemandSuccess(t, m.run(t, 0xcd, 0x21)) // int 0x21
	test.ExpectEquality(t, m.regs.CS(), 0x0f00)
	test.ExpectEquality(t, m.regs.IP(), 0x0010)
	test.ExpectFailure(t, m.flags.Flag(flags.Interrupt))
	test.ExpectEquality(t, m.word(0x0ffa), 0x0102)

	test.DemandSuccess(t, m.run(t, 0xcf)) // iret
	test.ExpectEquality(t, m.regs.CS(), 0x0000)
	test.ExpectEquality(t, m.regs.IP(), 0x0102)
	test.ExpectSuccess(t, m.flags.Flag(flags.Interrupt))
	test.ExpectSuccess(t, m.flags.Flag(flags.Carry))
	test.ExpectEquality(t, m.regs.SP(), 0x1000)
}

// IRET checks all three words before popping any of them
func TestInterruptReturnFault(t *testing.T) {
	m := newMachine(t, instructions.I80286)
	m.regs.SetSP(0xfffc)

	err := m.run(t, 0xcf) // iret
	test.ExpectSuccess(t, exceptions.New(exceptions.StackSegmentFault).Is(err))
	test.ExpectEquality(t, m.regs.SP(), 0xfffc)
	test.ExpectEquality(t, m.regs.CS(), 0x0000)
	test.ExpectEquality(t, m.flow.far, 0)
}

// without a coprocessor ESC does nothing but read its memory operand
func TestEscape(t *testing.T) {
	m := newMachine(t, instructions.I80286)
	test.DemandSuccess(t, m.run(t, 0xd8, 0xc1))             // esc with a register
	test.DemandSuccess(t, m.run(t, 0xd9, 0x06, 0x00, 0x02)) // esc with [0x0200]
	test.ExpectEquality(t, m.regs.IP(), 0x0106)

	// the read of a word at the end of the segment faults
	err := m.run(t, 0xd8, 0x06, 0xff, 0xff)
	test.ExpectSuccess(t, exceptions.New(exceptions.GeneralProtectionFault).Is(err))
}

func TestInterruptOnOverflow(t *testing.T) {
	m := newMachine(t, instructions.I8086)
	m.setVector(4, 0x0000, 0x0400)
	test.DemandSuccess(t, m.run(t, 0xce)) // into
	test.ExpectEquality(t, m.flow.far, 0)

	m.flags.SetFlag(flags.Overflow, true)
	test.DemandSuccess(t, m.run(t, 0xce))
	test.ExpectEquality(t, m.regs.IP(), 0x0400)
}

func TestBound(t *testing.T) {
	m := newMachine(t, instructions.I80286)
	m.mem.Load(0x0300, []uint8{0xfe, 0xff, 0x10, 0x00}) // -2 to 16
	m.regs.SetAX(0xfffe)
	test.DemandSuccess(t, m.run(t, 0x62, 0x06, 0x00, 0x03)) // bound ax, [0x0300]

	m.regs.SetAX(0x0011)
	err := m.run(t, 0x62, 0x06, 0x00, 0x03)
	test.ExpectSuccess(t, exceptions.New(exceptions.BoundRangeExceeded).Is(err))
}

func TestHaltAndWait(t *testing.T) {
	m := newMachine(t, instructions.I8086)
	test.DemandSuccess(t, m.run(t, 0xf4))
	test.ExpectSuccess(t, m.flow.halted)
	test.DemandSuccess(t, m.run(t, 0x9b))
	test.ExpectEquality(t, m.flow.waits, 1)
}

func TestPorts(t *testing.T) {
	m := newMachine(t, instructions.I8086)
	m.ports.Attach(ports.NewLatch(), 0x40, 4)

	m.regs.SetAX(0xa55a)
	test.DemandSuccess(t, m.run(t, 0xe7, 0x40)) // out 0x40, ax
	m.regs.SetAX(0)
	test.DemandSuccess(t, m.run(t, 0xe5, 0x40)) // in ax, 0x40
	test.ExpectEquality(t, m.regs.AX(), 0xa55a)

	m.regs.SetDX(0x0042)
	m.regs.SetAL(0x77)
	test.DemandSuccess(t, m.run(t, 0xee)) // out dx, al
	test.DemandSuccess(t, m.run(t, 0xe4, 0x42)) // in al, 0x42
	test.ExpectEquality(t, m.regs.AL(), 0x77)

	// unmapped ports read as all ones
	m.regs.SetDX(0x0100)
	test.DemandSuccess(t, m.run(t, 0xec)) // in al, dx
	test.ExpectEquality(t, m.regs.AL(), 0xff)
}

func TestInvalidOpcode(t *testing.T) {
	// fe /2 does not exist
	m := newMachine(t, instructions.I8086)
	test.ExpectSuccess(t, m.run(t, 0xfe, 0xd0))
	test.ExpectEquality(t, m.ctx.Quirk, execution.InvalidAsNOP)
	test.ExpectEquality(t, m.flow.far, 0)

	m = newMachine(t, instructions.I80186)
	m.setVector(6, 0x0100, 0x0200)
	test.ExpectSuccess(t, m.run(t, 0xfe, 0xd0))
	test.ExpectEquality(t, m.flow.far, 1)
	test.ExpectEquality(t, m.regs.CS(), 0x0100)
	test.ExpectEquality(t, m.regs.IP(), 0x0200)

	m = newMachine(t, instructions.I80286)
	err := m.run(t, 0xfe, 0xd0)
	test.ExpectSuccess(t, exceptions.New(exceptions.InvalidOpcode).Is(err))
	test.ExpectEquality(t, m.flow.far, 0)
}

func TestQuirkIsCleared(t *testing.T) {
	m := newMachine(t, instructions.I8086)
	test.DemandSuccess(t, m.run(t, 0xfe, 0xd0))
	test.ExpectEquality(t, m.ctx.Quirk, execution.InvalidAsNOP)
	test.DemandSuccess(t, m.run(t, 0x90))
	test.ExpectEquality(t, m.ctx.Quirk, execution.NoQuirk)
}

func TestSegmentMoves(t *testing.T) {
	m := newMachine(t, instructions.I8086)
	m.regs.SetAX(0x2000)
	test.DemandSuccess(t, m.run(t, 0x8e, 0xd8)) // mov ds, ax
	test.ExpectEquality(t, m.regs.DS(), 0x2000)
	test.DemandSuccess(t, m.run(t, 0x8c, 0xdb)) // mov bx, ds
	test.ExpectEquality(t, m.regs.BX(), 0x2000)

	test.DemandSuccess(t, m.run(t, 0x1e)) // push ds
	test.DemandSuccess(t, m.run(t, 0x07)) // pop es
	test.ExpectEquality(t, m.regs.ES(), 0x2000)
}
