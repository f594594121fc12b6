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

// Package ports implements the I/O port address space of the x86 as seen
// through the cpubus.IO interface. Devices are attached to individual ports.
// Accesses to ports with no device are logged.
package ports

import (
	"github.com/jetsetilly/gopher86/logger"
)

// Device is attached to one or more ports. Multi-byte port accesses are
// presented to devices as a sequence of byte accesses to consecutive ports.
type Device interface {
	In(port uint16) uint8
	Out(port uint16, value uint8)
}

// the value read from a port with no device attached
const floatingBus = 0xff

// Ports is the I/O port address space.
type Ports struct {
	devices map[uint16]Device

	// permission for logging unmapped accesses. logging can be suppressed by
	// setting this to a Permission that disallows it
	Permission logger.Permission
}

// NewPorts is the preferred method of initialisation for the Ports type.
func NewPorts() *Ports {
	return &Ports{
		devices:    make(map[uint16]Device),
		Permission: logger.Allow,
	}
}

// Attach a device to a range of ports.
func (p *Ports) Attach(dev Device, first uint16, count int) {
	for i := range count {
		p.devices[first+uint16(i)] = dev
	}
}

func (p *Ports) in(port uint16) uint8 {
	if dev, ok := p.devices[port]; ok {
		return dev.In(port)
	}
	logger.Logf(p.Permission, "ports", "read from unmapped port %04x", port)
	return floatingBus
}

func (p *Ports) out(port uint16, value uint8) {
	if dev, ok := p.devices[port]; ok {
		dev.Out(port, value)
		return
	}
	logger.Logf(p.Permission, "ports", "write of %02x to unmapped port %04x", value, port)
}

// In8 implements the cpubus.IO interface.
func (p *Ports) In8(port uint16) uint8 {
	return p.in(port)
}

// In16 implements the cpubus.IO interface.
func (p *Ports) In16(port uint16) uint16 {
	return uint16(p.in(port)) | uint16(p.in(port+1))<<8
}

// In32 implements the cpubus.IO interface.
func (p *Ports) In32(port uint16) uint32 {
	return uint32(p.In16(port)) | uint32(p.In16(port+2))<<16
}

// Out8 implements the cpubus.IO interface.
func (p *Ports) Out8(port uint16, value uint8) {
	p.out(port, value)
}

// Out16 implements the cpubus.IO interface.
func (p *Ports) Out16(port uint16, value uint16) {
	p.out(port, uint8(value))
	p.out(port+1, uint8(value>>8))
}

// Out32 implements the cpubus.IO interface.
func (p *Ports) Out32(port uint16, value uint32) {
	p.Out16(port, uint16(value))
	p.Out16(port+2, uint16(value>>16))
}

// Latch is a simple Device that returns the last value written to each of its
// ports.
type Latch struct {
	values map[uint16]uint8
}

// NewLatch is the preferred method of initialisation for the Latch type.
func NewLatch() *Latch {
	return &Latch{values: make(map[uint16]uint8)}
}

// In implements the Device interface.
func (l *Latch) In(port uint16) uint8 {
	return l.values[port]
}

// Out implements the Device interface.
func (l *Latch) Out(port uint16, value uint8) {
	l.values[port] = value
}
