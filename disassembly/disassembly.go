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
	"github.com/jetsetilly/gopher86/curated"
	"github.com/jetsetilly/gopher86/hardware/cpu/decoder"
	"github.com/jetsetilly/gopher86/hardware/cpu/instructions"
	"github.com/jetsetilly/gopher86/logger"
)

// Sentinal error patterns.
const (
	UnsupportedSize = "disassembly: %s does not support %s default size"
	NoSuchAddress   = "disassembly: no entry at address %04x"
)

// Disassembly is the result of decoding a buffer of machine code.
type Disassembly struct {
	Model instructions.Model
	Size  instructions.AddressSize

	// the address of the first byte in the buffer
	Origin uint32

	// Entries are in address order. The last entry may be incomplete if the
	// buffer ends part way through an instruction
	Entries []*Entry

	columns columns
}

// FromBytes disassembles a buffer of machine code with 16-bit default sizes.
// The origin is the address of the first byte of data.
func FromBytes(model instructions.Model, origin uint32, data []uint8) (*Disassembly, error) {
	return FromBytesWithSize(model, instructions.Address16, origin, data)
}

// FromBytesWithSize disassembles a buffer of machine code with the default
// address and operand size. Only the 80386 supports a 32-bit default size.
func FromBytesWithSize(model instructions.Model, size instructions.AddressSize, origin uint32, data []uint8) (*Disassembly, error) {
	if size == instructions.Address32 && !model.Uses32Bit() {
		return nil, curated.Errorf(UnsupportedSize, model, size)
	}

	dsm := &Disassembly{
		Model:  model,
		Size:   size,
		Origin: origin,
	}

	if model.Uses32Bit() {
		d := decoder.NewDecoder32(model)
		d.SetDefaultSize(size)
		decodeAll(dsm, d, data)
	} else {
		decodeAll(dsm, decoder.NewDecoder16(model), data)
	}

	logger.Logf(logger.Allow, "disassembly", "%d entries from %d bytes (%s)", len(dsm.Entries), len(data), model)

	return dsm, nil
}

func decodeAll[E instructions.Extension](dsm *Disassembly, d *decoder.Decoder[E], data []uint8) {
	mask := dsm.Size.Mask()
	address := dsm.Origin

	for len(data) > 0 {
		// a fresh buffer is given to the decoder each time. if the decoder
		// asks for more bytes then the buffer is exhausted
		n, ins := d.Decode(data)
		if n <= 0 || n > len(data) {
			dsm.add(newIncompleteEntry(address, data))
			return
		}

		dsm.add(newEntry(address, data[:n], ins))
		data = data[n:]
		address = (address + uint32(n)) & mask
	}
}

func (dsm *Disassembly) add(e *Entry) {
	dsm.Entries = append(dsm.Entries, e)
	dsm.columns.update(e)
}

// Search returns the entry that starts at the address.
func (dsm *Disassembly) Search(address uint32) (*Entry, error) {
	for _, e := range dsm.Entries {
		if e.Address == address {
			return e, nil
		}
	}
	return nil, curated.Errorf(NoSuchAddress, address)
}
