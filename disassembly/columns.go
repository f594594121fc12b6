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

// widths of the Entry fields in the disassembly
type columns struct {
	address  int
	bytecode int
	mnemonic int
}

func (col *columns) update(e *Entry) {
	col.address = max(col.address, len(e.address()))
	col.bytecode = max(col.bytecode, len(e.Bytecode()))
	col.mnemonic = max(col.mnemonic, len(e.Mnemonic))
}
