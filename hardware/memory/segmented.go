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

package memory

import (
	"math/bits"

	"github.com/jetsetilly/gopher86/curated"
	"github.com/jetsetilly/gopher86/hardware/cpu/exceptions"
	"github.com/jetsetilly/gopher86/hardware/cpu/instructions"
	"github.com/jetsetilly/gopher86/hardware/cpu/registers"
	"github.com/jetsetilly/gopher86/hardware/memory/cpubus"
	"github.com/jetsetilly/gopher86/logger"
)

// the number of multi-byte accesses that can be outstanding before the
// staging slots are reused
const numSlots = 4

// the limit of a segment in real mode
const segmentLimit = 0xffff

type slot struct {
	v16 uint16
	v32 uint32
}

type pendingWrite struct {
	address [4]uint32
	width   int
	slot    int
}

type area struct {
	start  uint32
	length uint32
}

// Segmented is the real-mode memory of the x86. Addresses are formed by
// adding an offset to the value of a segment register multiplied by 16.
//
// Multi-byte accesses are staged. The value of an access is copied to a
// staging slot and a pointer to the slot is returned. Writes to the slot are
// copied to memory on the next call to WriteBack(). Each byte of a staged
// access is addressed individually so a word at offset 0xffff of a segment
// takes its high byte from offset 0x0000 of the same segment, and an access at
// the top of the address space continues at the bottom.
//
// On the 80286 and later a multi-byte access that crosses the segment limit
// raises a fault. Earlier models wrap the access around the segment.
type Segmented struct {
	model     instructions.Model
	registers *registers.Registers

	data []uint8
	mask uint32

	protected []area

	slots   [numSlots]slot
	next    int
	pending []pendingWrite

	// target of 8-bit writes to protected memory on models that do not fault
	scratch uint8
}

// NewSegmented is the preferred method of initialisation for the Segmented
// type. The size of memory must be a power of two and no smaller than a single
// segment.
func NewSegmented(model instructions.Model, regs *registers.Registers, size int) (*Segmented, error) {
	if size < segmentLimit+1 || bits.OnesCount(uint(size)) != 1 {
		return nil, curated.Errorf("memory: size must be a power of two and at least 64K (%d)", size)
	}
	return &Segmented{
		model:     model,
		registers: regs,
		data:      make([]uint8, size),
		mask:      uint32(size - 1),
		pending:   make([]pendingWrite, 0, numSlots),
	}, nil
}

// Size returns the number of bytes of memory.
func (m *Segmented) Size() int {
	return len(m.data)
}

// Load copies data into memory starting at the linear address.
func (m *Segmented) Load(address uint32, data []uint8) {
	for i, v := range data {
		m.data[(address+uint32(i))&m.mask] = v
	}
}

// Peek returns the byte at the linear address.
func (m *Segmented) Peek(address uint32) uint8 {
	return m.data[address&m.mask]
}

// Poke sets the byte at the linear address. Protection is ignored.
func (m *Segmented) Poke(address uint32, value uint8) {
	m.data[address&m.mask] = value
}

// Protect prevents writes by the CPU to a range of linear addresses. On the
// 80286 and later a write to protected memory raises a general protection
// fault. Earlier models ignore the write.
func (m *Segmented) Protect(start uint32, length uint32) {
	m.protected = append(m.protected, area{start: start & m.mask, length: length})
}

func (m *Segmented) isProtected(address uint32) bool {
	for _, a := range m.protected {
		if address-a.start < a.length {
			return true
		}
	}
	return false
}

// linear returns the linear address of the byte i bytes into an access
func (m *Segmented) linear(segment instructions.Source, offset uint32, i uint32) uint32 {
	base := uint32(m.registers.Segment(segment)) << 4
	return (base + ((offset + i) & segmentLimit)) & m.mask
}

// limitFault returns the exception raised by crossing the limit of the segment
func limitFault(segment instructions.Source) error {
	if segment == instructions.SS {
		return exceptions.WithCode(exceptions.StackSegmentFault, 0)
	}
	return exceptions.WithCode(exceptions.GeneralProtectionFault, 0)
}

func (m *Segmented) checkLimit(segment instructions.Source, offset uint32, length uint32) error {
	if !m.model.HasExceptions() {
		return nil
	}
	if uint64(offset)+uint64(length)-1 > segmentLimit {
		return limitFault(segment)
	}
	return nil
}

// checkProtected returns true if the write should be discarded
func (m *Segmented) checkProtected(segment instructions.Source, offset uint32, length uint32) (bool, error) {
	if len(m.protected) == 0 {
		return false, nil
	}
	for i := range length {
		a := m.linear(segment, offset, i)
		if m.isProtected(a) {
			if m.model.HasExceptions() {
				return false, exceptions.WithCode(exceptions.GeneralProtectionFault, 0)
			}
			logger.Logf(logger.Allow, "memory", "write to protected address %05x ignored", a)
			return true, nil
		}
	}
	return false, nil
}

// writeByte stores a byte unless the address is protected
func (m *Segmented) writeByte(address uint32, value uint8) {
	if len(m.protected) > 0 && m.isProtected(address) {
		logger.Logf(logger.Allow, "memory", "write to protected address %05x ignored", address)
		return
	}
	m.data[address] = value
}

// Access8 implements the cpubus.Memory interface.
func (m *Segmented) Access8(segment instructions.Source, offset uint32, intent cpubus.AccessIntent) (*uint8, error) {
	if intent != cpubus.PreauthorisedRead {
		if err := m.checkLimit(segment, offset, 1); err != nil {
			return nil, err
		}
	}
	a := m.linear(segment, offset, 0)
	if intent.IsWrite() {
		discard, err := m.checkProtected(segment, offset, 1)
		if err != nil {
			return nil, err
		}
		if discard {
			m.scratch = m.data[a]
			return &m.scratch, nil
		}
	}
	return &m.data[a], nil
}

// stage reads a multi-byte value in to the next staging slot and returns the
// value and the slot index
func (m *Segmented) stage(segment instructions.Source, offset uint32, width int, intent cpubus.AccessIntent) (uint32, int, error) {
	if intent != cpubus.PreauthorisedRead {
		if err := m.checkLimit(segment, offset, uint32(width)); err != nil {
			return 0, 0, err
		}
	}

	var p pendingWrite
	var v uint32
	for i := range width {
		p.address[i] = m.linear(segment, offset, uint32(i))
		v |= uint32(m.data[p.address[i]]) << (i * 8)
	}

	s := m.next
	m.next = (m.next + 1) % numSlots

	if intent.IsWrite() {
		discard, err := m.checkProtected(segment, offset, uint32(width))
		if err != nil {
			return 0, 0, err
		}
		if !discard {
			p.width = width
			p.slot = s
			m.pending = append(m.pending, p)
		}
	}

	return v, s, nil
}

// Access16 implements the cpubus.Memory interface.
func (m *Segmented) Access16(segment instructions.Source, offset uint32, intent cpubus.AccessIntent) (*uint16, error) {
	v, s, err := m.stage(segment, offset, 2, intent)
	if err != nil {
		return nil, err
	}
	m.slots[s].v16 = uint16(v)
	return &m.slots[s].v16, nil
}

// Access32 implements the cpubus.Memory interface.
func (m *Segmented) Access32(segment instructions.Source, offset uint32, intent cpubus.AccessIntent) (*uint32, error) {
	v, s, err := m.stage(segment, offset, 4, intent)
	if err != nil {
		return nil, err
	}
	m.slots[s].v32 = v
	return &m.slots[s].v32, nil
}

// WriteBack implements the cpubus.Memory interface.
func (m *Segmented) WriteBack() {
	for _, p := range m.pending {
		var v uint32
		if p.width == 2 {
			v = uint32(m.slots[p.slot].v16)
		} else {
			v = m.slots[p.slot].v32
		}
		for i := range p.width {
			m.data[p.address[i]] = uint8(v >> (i * 8))
		}
	}
	m.pending = m.pending[:0]
}

// PreauthoriseRead implements the cpubus.Memory interface.
func (m *Segmented) PreauthoriseRead(segment instructions.Source, start uint32, length uint32) error {
	return m.checkLimit(segment, start, length)
}

// PreauthoriseWrite implements the cpubus.Memory interface.
func (m *Segmented) PreauthoriseWrite(segment instructions.Source, start uint32, length uint32) error {
	if err := m.checkLimit(segment, start, length); err != nil {
		return err
	}
	if m.model.HasExceptions() {
		_, err := m.checkProtected(segment, start, length)
		return err
	}
	return nil
}

// PreauthoriseStackWrite implements the cpubus.Memory interface.
func (m *Segmented) PreauthoriseStackWrite(length uint32) error {
	start := (uint32(m.registers.SP()) - length) & segmentLimit
	if m.model.HasExceptions() && start+length > segmentLimit+1 {
		return exceptions.WithCode(exceptions.StackSegmentFault, 0)
	}
	return m.PreauthoriseWrite(instructions.SS, start, length)
}

// PreauthoriseStackRead implements the cpubus.Memory interface.
func (m *Segmented) PreauthoriseStackRead(length uint32) error {
	return m.checkLimit(instructions.SS, uint32(m.registers.SP()), length)
}

// PreauthorisedWrite16 implements the cpubus.Memory interface.
func (m *Segmented) PreauthorisedWrite16(segment instructions.Source, offset uint32, value uint16) {
	m.writeByte(m.linear(segment, offset, 0), uint8(value))
	m.writeByte(m.linear(segment, offset, 1), uint8(value>>8))
}

// PreauthorisedWrite32 implements the cpubus.Memory interface.
func (m *Segmented) PreauthorisedWrite32(segment instructions.Source, offset uint32, value uint32) {
	m.PreauthorisedWrite16(segment, offset, uint16(value))
	m.PreauthorisedWrite16(segment, offset+2, uint16(value>>16))
}

// LinearRead16 implements the cpubus.Memory interface.
func (m *Segmented) LinearRead16(address uint32) (uint16, error) {
	return uint16(m.data[address&m.mask]) | uint16(m.data[(address+1)&m.mask])<<8, nil
}
