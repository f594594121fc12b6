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

	"github.com/jetsetilly/gopher86/hardware/cpu/decoder"
	"github.com/jetsetilly/gopher86/hardware/cpu/execution"
	"github.com/jetsetilly/gopher86/hardware/cpu/flags"
	"github.com/jetsetilly/gopher86/hardware/cpu/instructions"
	"github.com/jetsetilly/gopher86/hardware/cpu/registers"
	"github.com/jetsetilly/gopher86/hardware/memory"
	"github.com/jetsetilly/gopher86/hardware/memory/ports"
	"github.com/jetsetilly/gopher86/test"
)

// flow records the requests made of the FlowController and applies jumps to
// the registers
type flow struct {
	regs *registers.Registers

	jumps   []uint32
	far     int
	repeats int
	halted  bool
	waits   int
}

func (f *flow) Jump16(offset uint16) {
	f.jumps = append(f.jumps, uint32(offset))
	f.regs.SetIP(offset)
}

func (f *flow) Jump32(offset uint32) {
	f.jumps = append(f.jumps, offset)
	f.regs.SetEIP(offset)
}

func (f *flow) JumpFar(segment uint16, offset uint32) {
	f.far++
	f.regs.SetCS(segment)
	f.regs.SetEIP(offset)
}

func (f *flow) RepeatLast() {
	f.repeats++
}

func (f *flow) Halt() {
	f.halted = true
}

func (f *flow) Wait() {
	f.waits++
}

type machine struct {
	ctx     *execution.Context
	regs    *registers.Registers
	flags   *flags.Flags
	mem     *memory.Segmented
	ports   *ports.Ports
	control *registers.Control
	flow    *flow
}

// newMachine returns a machine with 1MB of memory, CS and the other segment
// registers at zero, IP at 0x0100 and SP at 0x1000
func newMachine(t *testing.T, model instructions.Model) *machine {
	t.Helper()

	regs := registers.NewRegisters()
	regs.SetCS(0)
	regs.SetIP(0x0100)
	regs.SetSP(0x1000)

	mem, err := memory.NewSegmented(model, regs, 0x100000)
	test.DemandSuccess(t, err)

	f := flags.NewFlags()

	m := &machine{
		regs:  regs,
		flags: &f,
		mem:   mem,
		ports: ports.NewPorts(),
		flow:  &flow{regs: regs},
	}

	m.ctx = &execution.Context{
		Model:     model,
		Flags:     m.flags,
		Registers: regs,
		Memory:    mem,
		IO:        m.ports,
		Flow:      m.flow,
	}

	if model.HasExceptions() {
		m.control = registers.NewControl(model.Uses32Bit())
		m.ctx.Control = m.control
	}

	return m
}

// run decodes a single complete instruction, advances the instruction
// pointer past it and performs it
func (m *machine) run(t *testing.T, b ...uint8) error {
	t.Helper()

	if m.ctx.Model.Uses32Bit() {
		n, ins := decoder.NewDecoder32(m.ctx.Model).Decode(b)
		test.DemandEquality(t, n, len(b))
		m.regs.SetEIP(m.regs.EIP() + uint32(n))
		return execution.Perform(&ins, m.ctx)
	}

	n, ins := decoder.NewDecoder16(m.ctx.Model).Decode(b)
	test.DemandEquality(t, n, len(b))
	m.regs.SetIP(m.regs.IP() + uint16(n))
	return execution.Perform(&ins, m.ctx)
}

// runRepeated performs the instruction for as long as the flow controller is
// asked to repeat it. returns the number of times the instruction was
// performed
func (m *machine) runRepeated(t *testing.T, b ...uint8) (int, error) {
	t.Helper()

	if m.ctx.Model.Uses32Bit() {
		n, ins := decoder.NewDecoder32(m.ctx.Model).Decode(b)
		test.DemandEquality(t, n, len(b))
		m.regs.SetEIP(m.regs.EIP() + uint32(n))
		return repeat(m, func() error { return execution.Perform(&ins, m.ctx) })
	}

	n, ins := decoder.NewDecoder16(m.ctx.Model).Decode(b)
	test.DemandEquality(t, n, len(b))
	m.regs.SetIP(m.regs.IP() + uint16(n))
	return repeat(m, func() error { return execution.Perform(&ins, m.ctx) })
}

func repeat(m *machine, perform func() error) (int, error) {
	for i := 1; i < 0x10000; i++ {
		before := m.flow.repeats
		if err := perform(); err != nil {
			return i, err
		}
		if m.flow.repeats == before {
			return i, nil
		}
	}
	return 0x10000, nil
}

// word returns the 16-bit value at the linear address
func (m *machine) word(address uint32) uint16 {
	return uint16(m.mem.Peek(address)) | uint16(m.mem.Peek(address+1))<<8
}

// setVector places the address of an interrupt handler in the interrupt
// vector table at the bottom of memory
func (m *machine) setVector(vector uint8, segment uint16, offset uint16) {
	a := uint32(vector) * 4
	m.mem.Load(a, []uint8{uint8(offset), uint8(offset >> 8), uint8(segment), uint8(segment >> 8)})
}
