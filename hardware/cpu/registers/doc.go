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

// Package registers implements the register file of the x86 and the
// bookkeeping of the CPU control registers.
//
// The general purpose registers can be accessed by name at every width. For
// example, AL(), AH(), AX() and EAX() all refer to the same register. The
// Read() and Write() functions access a register by its
// instructions.Source, which is how the execution package resolves register
// operands.
package registers
