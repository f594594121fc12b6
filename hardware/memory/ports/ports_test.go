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

package ports_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/gopher86/hardware/memory/cpubus"
	"github.com/jetsetilly/gopher86/hardware/memory/ports"
	"github.com/jetsetilly/gopher86/logger"
	"github.com/jetsetilly/gopher86/test"
)

func TestLatch(t *testing.T) {
	p := ports.NewPorts()
	p.Attach(ports.NewLatch(), 0x60, 4)

	p.Out16(0x60, 0x1234)
	test.ExpectEquality(t, p.In8(0x60), uint8(0x34))
	test.ExpectEquality(t, p.In8(0x61), uint8(0x12))
	test.ExpectEquality(t, p.In16(0x60), uint16(0x1234))

	cpubus.Out[uint32](p, 0x60, 0xaabbccdd)
	test.ExpectEquality(t, cpubus.In[uint32](p, 0x60), uint32(0xaabbccdd))
	test.ExpectEquality(t, cpubus.In[uint8](p, 0x63), uint8(0xaa))
}

func TestUnmapped(t *testing.T) {
	logger.Clear()
	p := ports.NewPorts()
	test.ExpectEquality(t, p.In8(0x3f8), uint8(0xff))
	p.Out8(0x3f8, 0x41)

	w := &strings.Builder{}
	logger.Tail(w, 2)
	test.ExpectEquality(t, w.String(), "ports: read from unmapped port 03f8\nports: write of 41 to unmapped port 03f8\n")
}
