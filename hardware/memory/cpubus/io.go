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
	"github.com/jetsetilly/gopher86/hardware/cpu/numeric"
)

// IO defines the operations for the I/O port address space.
type IO interface {
	In8(port uint16) uint8
	In16(port uint16) uint16
	In32(port uint16) uint32
	Out8(port uint16, value uint8)
	Out16(port uint16, value uint16)
	Out32(port uint16, value uint32)
}

// In calls the In function of IO appropriate for the width.
func In[W numeric.Width](io IO, port uint16) W {
	var w W
	switch any(w).(type) {
	case uint8:
		return W(io.In8(port))
	case uint16:
		return W(io.In16(port))
	}
	return W(io.In32(port))
}

// Out calls the Out function of IO appropriate for the width.
func Out[W numeric.Width](io IO, port uint16, value W) {
	var w W
	switch any(w).(type) {
	case uint8:
		io.Out8(port, uint8(value))
	case uint16:
		io.Out16(port, uint16(value))
	default:
		io.Out32(port, uint32(value))
	}
}
