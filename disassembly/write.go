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
	"fmt"
	"io"
	"strings"
)

// WriteAttr controls what is printed by the Write*() functions.
type WriteAttr struct {
	ByteCode bool
	Level    bool
}

// Write the entire disassembly to io.Writer with the bytes of every
// instruction.
func (dsm *Disassembly) Write(output io.Writer) error {
	return dsm.WriteWithAttr(output, WriteAttr{ByteCode: true})
}

// WriteWithAttr writes the entire disassembly to io.Writer.
func (dsm *Disassembly) WriteWithAttr(output io.Writer, attr WriteAttr) error {
	for _, e := range dsm.Entries {
		if err := dsm.WriteLine(output, attr, e); err != nil {
			return err
		}
	}
	return nil
}

// WriteLine writes a single Entry to io.Writer. The fields are aligned with
// the other entries in the disassembly.
func (dsm *Disassembly) WriteLine(output io.Writer, attr WriteAttr, e *Entry) error {
	s := strings.Builder{}

	s.WriteString(fmt.Sprintf("%-*s", dsm.columns.address, e.address()))

	if attr.ByteCode {
		s.WriteString("  ")
		s.WriteString(fmt.Sprintf("%-*s", dsm.columns.bytecode, e.Bytecode()))
	}

	s.WriteString("  ")
	if e.Operands == "" {
		s.WriteString(e.Mnemonic)
	} else {
		s.WriteString(fmt.Sprintf("%-*s %s", dsm.columns.mnemonic, e.Mnemonic, e.Operands))
	}

	if attr.Level && e.Level != EntryLevelDecoded {
		s.WriteString(fmt.Sprintf("  ; %s", e.Level))
	}

	// trailing space from padding of the last field
	_, err := io.WriteString(output, strings.TrimRight(s.String(), " ")+"\n")
	return err
}
