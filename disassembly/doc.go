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

// Package disassembly decodes a buffer of x86 machine code into a list of
// entries, one for every instruction. Decoding is linear. Every instruction
// is assumed to follow immediately from the previous instruction, so data
// embedded in the code will be disassembled as though it were instructions.
//
// For quick disassemblies the FromBytes() function can be used. The
// FromBytesWithSize() function should be used for 80386 code that runs with
// 32-bit default sizes.
//
//	dsm, err := disassembly.FromBytes(instructions.I8086, 0x0100, data)
//	if err != nil {
//		return err
//	}
//	dsm.Write(os.Stdout)
package disassembly
