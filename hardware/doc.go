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

// Package hardware is the base package for the x86 emulation. The cpu
// sub-package contains the decoder and the execution of instructions. The
// memory sub-package contains the segmented memory and the I/O ports that the
// CPU is connected to.
//
// The CPU type in the cpu package is the root of the emulation. It is
// constructed with the register file, memory and I/O ports and is stepped one
// instruction at a time.
package hardware
