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

// Package memory implements the real-mode memory of the x86 as seen through
// the cpubus.Memory interface. The CPU and memory are connected like this:
//
//	    CPU ---- cpu bus ---- MEMORY
//	     |
//	     +------ io bus ----- PORTS
//
// The segmented memory knows the segment registers, so that it can form
// linear addresses, and the processor model, so that it knows whether to
// raise faults or to wrap accesses at segment boundaries.
package memory
