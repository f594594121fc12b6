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

package execution

import (
	"math/bits"

	"github.com/jetsetilly/gopher86/hardware/cpu/flags"
	"github.com/jetsetilly/gopher86/hardware/cpu/instructions"
	"github.com/jetsetilly/gopher86/hardware/cpu/numeric"
	"github.com/jetsetilly/gopher86/hardware/memory/cpubus"
)

// bitTest performs BT, BTS, BTR and BTC. The bit offset comes from a register
// or an immediate value. A register offset used with a memory operand is
// signed and selects a bit anywhere in memory relative to the operand. An
// immediate offset, or any offset used with a register operand, is taken
// modulo the width.
//
// Sets: Carry.
func bitTest[E instructions.Extension, W numeric.Width](ctx *Context, ins *instructions.Instruction[E]) error {
	width := uint32(numeric.Bits[W]())

	offset, err := read[E, W](ctx, ins, ins.Source())
	if err != nil {
		return err
	}

	intent := cpubus.ReadModifyWrite
	if ins.Operation() == instructions.BT {
		intent = cpubus.Read
	}

	dst := ins.Destination()
	if !dst.Source.IsMemory() || ins.Source().Source == instructions.Immediate {
		a, err := Access[E, W](ctx, ins, dst, intent)
		if err != nil {
			return err
		}
		bit := uint32(offset) % width
		modifyBit(ctx.Flags, ins.Operation(), a.Pointer(), bit)
		a.WriteBack()
		return nil
	}

	// the register offset selects a unit of the width relative to the memory
	// operand and a bit within that unit
	signed := numeric.SignExtend(offset)
	unit := signed >> bits.TrailingZeros32(width)
	address := (EffectiveAddress(ctx, ins, dst) + uint32(unit*int64(width/8))) & ins.AddressSize().Mask()

	p, err := cpubus.Access[W](ctx.Memory, ins.Segment(), address, intent)
	if err != nil {
		return err
	}
	modifyBit(ctx.Flags, ins.Operation(), p, uint32(offset)&(width-1))
	ctx.Memory.WriteBack()
	return nil
}

func modifyBit[W numeric.Width](f *flags.Flags, op instructions.Operation, v *W, bit uint32) {
	mask := W(1) << bit
	f.SetFlag(flags.Carry, *v&mask != 0)
	switch op {
	case instructions.BTS:
		*v |= mask
	case instructions.BTR:
		*v &^= mask
	case instructions.BTC:
		*v ^= mask
	}
}

// bitScan returns the index of the lowest (or highest if reverse is true) set
// bit of the value. If the value is zero the Zero flag is set and the second
// return value is false.
//
// Sets: Zero.
func bitScan[W numeric.Width](f *flags.Flags, v W, reverse bool) (W, bool) {
	if v == 0 {
		f.SetFlag(flags.Zero, true)
		return 0, false
	}
	f.SetFlag(flags.Zero, false)
	if reverse {
		return W(bits.Len64(uint64(v)) - 1), true
	}
	return W(bits.TrailingZeros64(uint64(v))), true
}
