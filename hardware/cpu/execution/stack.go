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
	"github.com/jetsetilly/gopher86/hardware/cpu/instructions"
	"github.com/jetsetilly/gopher86/hardware/cpu/numeric"
	"github.com/jetsetilly/gopher86/hardware/memory/cpubus"
)

// push stores a value below the stack pointer and decrements the stack
// pointer. The stack pointer is unchanged if the write faults.
func push[W numeric.Width](ctx *Context, v W) error {
	sp := ctx.Registers.SP() - uint16(numeric.Bytes[W]())
	if err := writeAt(ctx, instructions.SS, uint32(sp), v); err != nil {
		return err
	}
	ctx.Registers.SetSP(sp)
	return nil
}

// pop loads the value at the stack pointer and increments the stack pointer.
// The stack pointer is unchanged if the read faults.
func pop[W numeric.Width](ctx *Context) (W, error) {
	sp := ctx.Registers.SP()
	v, err := readAt[W](ctx, instructions.SS, uint32(sp))
	if err != nil {
		return 0, err
	}
	ctx.Registers.SetSP(sp + uint16(numeric.Bytes[W]()))
	return v, nil
}

// popPreauthorised is pop for a stack area already checked with
// PreauthoriseStackRead()
func popPreauthorised[W numeric.Width](ctx *Context) (W, error) {
	sp := ctx.Registers.SP()
	v, err := readPreauthorisedAt[W](ctx, instructions.SS, uint32(sp))
	if err != nil {
		return 0, err
	}
	ctx.Registers.SetSP(sp + uint16(numeric.Bytes[W]()))
	return v, nil
}

// pushFlags returns the value of the flags register as pushed by PUSHF. In
// real mode the 80286 and later push the top four bits as zero.
func pushFlags(ctx *Context) uint16 {
	v := ctx.Flags.Value()
	if ctx.Model >= instructions.I80286 {
		v &= 0x0fff
	}
	return v
}

// pushAll pushes every general purpose register. The whole of the area
// written is checked before anything is written so a fault leaves the stack
// and the stack pointer unchanged. The value pushed for the stack pointer is
// the value before the first push.
func pushAll[W uint16 | uint32](ctx *Context) error {
	n := uint32(numeric.Bytes[W]())
	if err := ctx.Memory.PreauthoriseStackWrite(n * 8); err != nil {
		return err
	}

	size := instructions.Word
	if n == 4 {
		size = instructions.DWord
	}

	sp := ctx.Registers.SP()
	for r := range uint8(8) {
		v := W(ctx.Registers.Read(instructions.Register(r, size)))
		if r == 4 {
			v = W(sp)
		}
		offset := uint32(ctx.Registers.SP()) - n
		cpubus.PreauthorisedWrite(ctx.Memory, instructions.SS, offset&0xffff, v)
		ctx.Registers.SetSP(uint16(offset))
	}
	return nil
}

// popAll pops every general purpose register in the reverse order of
// pushAll. The value popped for the stack pointer is discarded.
func popAll[W uint16 | uint32](ctx *Context) error {
	n := uint32(numeric.Bytes[W]())
	if err := ctx.Memory.PreauthoriseStackRead(n * 8); err != nil {
		return err
	}

	size := instructions.Word
	if n == 4 {
		size = instructions.DWord
	}

	for r := 7; r >= 0; r-- {
		v, err := popPreauthorised[W](ctx)
		if err != nil {
			return err
		}
		if r != 4 {
			ctx.Registers.Write(instructions.Register(uint8(r), size), uint32(v))
		}
	}
	return nil
}

// enter creates a stack frame of the specified size with a nesting level.
// The pushes are checked before anything is written. If the check fails the
// stack and frame pointers are unchanged.
func enter[W uint16 | uint32](ctx *Context, frameSize uint16, level uint8) error {
	level &= 0x1f
	n := uint32(numeric.Bytes[W]())

	pushes := uint32(1)
	if level > 0 {
		pushes += uint32(level)
	}
	if err := ctx.Memory.PreauthoriseStackWrite(n * pushes); err != nil {
		return err
	}

	size := instructions.Word
	if n == 4 {
		size = instructions.DWord
	}
	bp := instructions.Register(5, size)

	preauthorisedPush := func(v W) {
		offset := (uint32(ctx.Registers.SP()) - n) & 0xffff
		cpubus.PreauthorisedWrite(ctx.Memory, instructions.SS, offset, v)
		ctx.Registers.SetSP(uint16(offset))
	}

	originalSP := ctx.Registers.SP()
	originalBP := ctx.Registers.Read(bp)

	preauthorisedPush(W(originalBP))
	frame := ctx.Registers.SP()

	if level > 0 {
		framePointer := originalBP
		for range level - 1 {
			framePointer -= n
			v, err := readAt[W](ctx, instructions.SS, framePointer&0xffff)
			if err != nil {
				ctx.Registers.SetSP(originalSP)
				ctx.Registers.Write(bp, originalBP)
				return err
			}
			preauthorisedPush(v)
		}
		preauthorisedPush(W(frame))
	}

	ctx.Registers.Write(bp, uint32(frame))
	ctx.Registers.SetSP(ctx.Registers.SP() - frameSize)
	return nil
}

// leave discards the stack frame created by enter.
func leave[W uint16 | uint32](ctx *Context) error {
	size := instructions.Word
	if numeric.Bytes[W]() == 4 {
		size = instructions.DWord
	}
	bp := instructions.Register(5, size)

	sp := ctx.Registers.SP()
	ctx.Registers.SetSP(uint16(ctx.Registers.Read(bp)))
	v, err := pop[W](ctx)
	if err != nil {
		ctx.Registers.SetSP(sp)
		return err
	}
	ctx.Registers.Write(bp, uint32(v))
	return nil
}
