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

package cpubus

import (
	"github.com/jetsetilly/gopher86/hardware/cpu/instructions"
	"github.com/jetsetilly/gopher86/hardware/cpu/numeric"
)

// AccessIntent describes how the CPU intends to use the result of a memory
// access.
type AccessIntent int

// List of valid AccessIntent values.
const (
	// the value will be read
	Read AccessIntent = iota

	// the value will be written. the value pointed to before the write is
	// undefined
	Write

	// the value will be read and then written
	ReadModifyWrite

	// as Read but the address has already been checked by one of the
	// Preauthorise functions. the segment limit is not checked again
	PreauthorisedRead
)

func (i AccessIntent) String() string {
	switch i {
	case Read:
		return "read"
	case Write:
		return "write"
	case ReadModifyWrite:
		return "read-modify-write"
	case PreauthorisedRead:
		return "preauthorised read"
	}
	return "unknown intent"
}

// IsWrite returns true if the access will result in a write.
func (i AccessIntent) IsWrite() bool {
	return i == Write || i == ReadModifyWrite
}

// Memory defines the operations for the memory system when accessed from the
// CPU. Addresses are a segment register and an offset within that segment.
//
// The pointers returned by the Access functions remain valid until the next
// call to WriteBack(). A value written through a pointer returned for a Write
// or ReadModifyWrite access is not guaranteed to be stored in memory until
// WriteBack() is called.
//
// Errors returned by Memory are always exceptions.Exception values.
type Memory interface {
	Access8(segment instructions.Source, offset uint32, intent AccessIntent) (*uint8, error)
	Access16(segment instructions.Source, offset uint32, intent AccessIntent) (*uint16, error)
	Access32(segment instructions.Source, offset uint32, intent AccessIntent) (*uint32, error)

	// WriteBack completes any writes staged by the Access functions
	WriteBack()

	// check that a range of addresses can be accessed without fault. the
	// stack variants check the range immediately below the stack pointer for
	// writes and immediately above the stack pointer for reads
	PreauthoriseRead(segment instructions.Source, start uint32, length uint32) error
	PreauthoriseWrite(segment instructions.Source, start uint32, length uint32) error
	PreauthoriseStackRead(length uint32) error
	PreauthoriseStackWrite(length uint32) error

	// write to an address that has been preauthorised. preauthorised reads
	// use the Access functions with the PreauthorisedRead intent
	PreauthorisedWrite16(segment instructions.Source, offset uint32, value uint16)
	PreauthorisedWrite32(segment instructions.Source, offset uint32, value uint32)

	// read from a linear address. used to read the interrupt vector table
	LinearRead16(address uint32) (uint16, error)
}

// Access calls the Access function of Memory appropriate for the width.
func Access[W numeric.Width](mem Memory, segment instructions.Source, offset uint32, intent AccessIntent) (*W, error) {
	var w W
	switch any(w).(type) {
	case uint8:
		p, err := mem.Access8(segment, offset, intent)
		return any(p).(*W), err
	case uint16:
		p, err := mem.Access16(segment, offset, intent)
		return any(p).(*W), err
	default:
		p, err := mem.Access32(segment, offset, intent)
		return any(p).(*W), err
	}
}

// PreauthorisedWrite calls the PreauthorisedWrite function of Memory
// appropriate for the width. Only 16-bit and 32-bit widths are supported.
func PreauthorisedWrite[W uint16 | uint32](mem Memory, segment instructions.Source, offset uint32, value W) {
	var w W
	if _, ok := any(w).(uint16); ok {
		mem.PreauthorisedWrite16(segment, offset, uint16(value))
		return
	}
	mem.PreauthorisedWrite32(segment, offset, uint32(value))
}
