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

package registers

import "fmt"

// DescriptorTable identifies one of the descriptor table registers.
type DescriptorTable int

// List of valid DescriptorTable values.
const (
	GlobalDescriptorTable DescriptorTable = iota
	InterruptDescriptorTable
)

func (t DescriptorTable) String() string {
	switch t {
	case GlobalDescriptorTable:
		return "gdtr"
	case InterruptDescriptorTable:
		return "idtr"
	}
	return "unknown descriptor table"
}

// DescriptorTableRegister is the base and limit of a descriptor table.
type DescriptorTableRegister struct {
	Base  uint32
	Limit uint16
}

// the bits of the machine status word
const (
	ProtectionEnable = 1 << 0
	TaskSwitched     = 1 << 3
)

// Control is the bookkeeping of the CPU control state introduced with the
// 80286: the machine status word (the low half of CR0 on the 80386), the
// descriptor table registers and the 80386 control, debug and test registers.
// Nothing in Control changes how instructions are executed. Protected mode is
// not emulated.
type Control struct {
	cr    [4]uint32
	dr    [8]uint32
	tr    [8]uint32
	gdtr  DescriptorTableRegister
	idtr  DescriptorTableRegister
	is386 bool
}

// NewControl is the preferred method of initialisation for the Control type.
// The 80386 flag controls which control registers exist.
func NewControl(is386 bool) *Control {
	c := &Control{is386: is386}
	c.Reset()
	return c
}

// Reset returns the control state to that of a freshly reset CPU.
func (c *Control) Reset() {
	c.cr = [4]uint32{}
	c.dr = [8]uint32{}
	c.tr = [8]uint32{}
	c.gdtr = DescriptorTableRegister{}
	c.idtr = DescriptorTableRegister{Limit: 0x03ff}
	if !c.is386 {
		// the 80286 reads back the unused bits of the MSW as ones
		c.cr[0] = 0xfff0
	}
}

// MachineStatus returns the machine status word.
func (c *Control) MachineStatus() uint16 {
	return uint16(c.cr[0])
}

// SetMachineStatus sets the machine status word as the LMSW instruction does.
// The protection enable bit cannot be cleared once set.
func (c *Control) SetMachineStatus(v uint16) {
	pe := c.cr[0] & ProtectionEnable
	c.cr[0] = (c.cr[0] & 0xffff0000) | uint32(v) | pe
	if !c.is386 {
		c.cr[0] |= 0xfff0
	}
}

// ClearTaskSwitched clears the task switched bit of the machine status word.
func (c *Control) ClearTaskSwitched() {
	c.cr[0] &^= TaskSwitched
}

// DescriptorTable returns the named descriptor table register.
func (c *Control) DescriptorTable(t DescriptorTable) DescriptorTableRegister {
	if t == InterruptDescriptorTable {
		return c.idtr
	}
	return c.gdtr
}

// SetDescriptorTable sets the named descriptor table register.
func (c *Control) SetDescriptorTable(t DescriptorTable, r DescriptorTableRegister) {
	if t == InterruptDescriptorTable {
		c.idtr = r
	} else {
		c.gdtr = r
	}
}

// ControlRegister returns the value of the numbered control register. The
// second return value is false if the register does not exist.
func (c *Control) ControlRegister(n uint8) (uint32, bool) {
	if !c.is386 || n == 1 || n > 3 {
		return 0, false
	}
	return c.cr[n], true
}

// SetControlRegister sets the numbered control register. Returns false if the
// register does not exist.
func (c *Control) SetControlRegister(n uint8, v uint32) bool {
	if !c.is386 || n == 1 || n > 3 {
		return false
	}
	c.cr[n] = v
	return true
}

// DebugRegister returns the value of the numbered debug register. Debug
// registers 4 and 5 do not exist.
func (c *Control) DebugRegister(n uint8) (uint32, bool) {
	if !c.is386 || n == 4 || n == 5 || n > 7 {
		return 0, false
	}
	return c.dr[n], true
}

// SetDebugRegister sets the numbered debug register.
func (c *Control) SetDebugRegister(n uint8, v uint32) bool {
	if !c.is386 || n == 4 || n == 5 || n > 7 {
		return false
	}
	c.dr[n] = v
	return true
}

// TestRegister returns the value of the numbered test register. Only test
// registers 6 and 7 exist.
func (c *Control) TestRegister(n uint8) (uint32, bool) {
	if !c.is386 || n < 6 || n > 7 {
		return 0, false
	}
	return c.tr[n], true
}

// SetTestRegister sets the numbered test register.
func (c *Control) SetTestRegister(n uint8, v uint32) bool {
	if !c.is386 || n < 6 || n > 7 {
		return false
	}
	c.tr[n] = v
	return true
}

func (c *Control) String() string {
	return fmt.Sprintf("msw=%04x gdtr=%08x:%04x idtr=%08x:%04x", c.MachineStatus(),
		c.gdtr.Base, c.gdtr.Limit, c.idtr.Base, c.idtr.Limit)
}
