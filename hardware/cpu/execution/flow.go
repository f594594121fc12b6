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
	"github.com/jetsetilly/gopher86/hardware/cpu/exceptions"
	"github.com/jetsetilly/gopher86/hardware/cpu/flags"
	"github.com/jetsetilly/gopher86/hardware/cpu/instructions"
	"github.com/jetsetilly/gopher86/hardware/cpu/numeric"
	"github.com/jetsetilly/gopher86/hardware/cpu/registers"
	"github.com/jetsetilly/gopher86/hardware/memory/cpubus"
)

// jump moves the instruction pointer to an offset in the current code
// segment
func jump[W numeric.Width](ctx *Context, offset W) {
	if numeric.Bytes[W]() == 4 {
		ctx.Flow.Jump32(uint32(offset))
		return
	}
	ctx.Flow.Jump16(uint16(offset))
}

// jumpRelative adds the displacement of the instruction to the instruction
// pointer, wrapping at the operand size
func jumpRelative[E instructions.Extension, W numeric.Width](ctx *Context, ins *instructions.Instruction[E]) {
	jump(ctx, W(ctx.Registers.EIP()+uint32(ins.SignedDisplacement())))
}

// counter returns the register used as the counter by LOOP, JCXZ and the
// repeated string operations
func counter[E instructions.Extension](ins *instructions.Instruction[E]) instructions.Source {
	if ins.AddressSize() == instructions.Address32 {
		return instructions.ECX
	}
	return instructions.CX
}

// loop decrements the counter and jumps if the result is not zero and the
// condition is met.
func loop[E instructions.Extension, W numeric.Width](ctx *Context, ins *instructions.Instruction[E]) {
	c := counter(ins)
	v := ctx.Registers.Read(c) - 1
	ctx.Registers.Write(c, v)
	if v&ins.AddressSize().Mask() == 0 {
		return
	}

	switch ins.Operation() {
	case instructions.LOOPE:
		if !ctx.Flags.Flag(flags.Zero) {
			return
		}
	case instructions.LOOPNE:
		if ctx.Flags.Flag(flags.Zero) {
			return
		}
	}
	jumpRelative[E, W](ctx, ins)
}

// farPointer returns the segment and offset of a far jump or call. The
// pointer is either in the instruction or in memory, offset first
func farPointer[E instructions.Extension, W numeric.Width](ctx *Context, ins *instructions.Instruction[E]) (uint16, uint32, error) {
	src := ins.Source()
	if src.Source == instructions.Immediate {
		return uint16(ins.Operand()), uint32(W(ins.Displacement())), nil
	}

	address := EffectiveAddress(ctx, ins, src)
	offset, err := readAt[W](ctx, ins.Segment(), address)
	if err != nil {
		return 0, 0, err
	}
	segment, err := readAt[uint16](ctx, ins.Segment(), (address+uint32(numeric.Bytes[W]()))&ins.AddressSize().Mask())
	if err != nil {
		return 0, 0, err
	}
	return segment, uint32(offset), nil
}

// callFar pushes the return address and jumps to the segment and offset.
// Space for the return address is checked before anything is pushed.
func callFar[W numeric.Width](ctx *Context, segment uint16, offset uint32) error {
	n := uint32(numeric.Bytes[W]())
	if err := ctx.Memory.PreauthoriseStackWrite(n * 2); err != nil {
		return err
	}
	if err := push(ctx, W(ctx.Registers.CS())); err != nil {
		return err
	}
	if err := push(ctx, W(ctx.Registers.EIP())); err != nil {
		return err
	}
	ctx.Flow.JumpFar(segment, offset)
	return nil
}

// returnFar pops the return address and any flags pushed by an interrupt. The
// immediate value is the number of bytes to discard from the stack after the
// return address.
func returnFar[W numeric.Width](ctx *Context, release uint16, withFlags bool) error {
	n := uint32(numeric.Bytes[W]())
	count := uint32(2)
	if withFlags {
		count = 3
	}
	if err := ctx.Memory.PreauthoriseStackRead(n * count); err != nil {
		return err
	}

	offset, err := popPreauthorised[W](ctx)
	if err != nil {
		return err
	}
	segment, err := popPreauthorised[W](ctx)
	if err != nil {
		return err
	}
	if withFlags {
		v, err := popPreauthorised[W](ctx)
		if err != nil {
			return err
		}
		ctx.Flags.FromValue(uint16(v))
	}

	ctx.Registers.SetSP(ctx.Registers.SP() + release)
	ctx.Flow.JumpFar(uint16(segment), uint32(offset))
	return nil
}

// returnNear pops the return offset and discards the number of bytes
// specified by release.
func returnNear[W numeric.Width](ctx *Context, release uint16) error {
	offset, err := pop[W](ctx)
	if err != nil {
		return err
	}
	ctx.Registers.SetSP(ctx.Registers.SP() + release)
	jump(ctx, offset)
	return nil
}

// Interrupt calls the handler for the vector. The address of the handler is
// read from the interrupt vector table, which is at the base of the interrupt
// descriptor table register if there is one. Interrupt and Trap are cleared.
func Interrupt(ctx *Context, vector uint8) error {
	var base uint32
	if ctx.Control != nil {
		base = ctx.Control.DescriptorTable(registers.InterruptDescriptorTable).Base
	}
	address := base + uint32(vector)*4

	offset, err := ctx.Memory.LinearRead16(address)
	if err != nil {
		return err
	}
	segment, err := ctx.Memory.LinearRead16(address + 2)
	if err != nil {
		return err
	}

	if err := ctx.Memory.PreauthoriseStackWrite(6); err != nil {
		return err
	}
	for _, v := range [...]uint16{pushFlags(ctx), ctx.Registers.CS(), ctx.Registers.IP()} {
		sp := ctx.Registers.SP() - 2
		cpubus.PreauthorisedWrite(ctx.Memory, instructions.SS, uint32(sp), v)
		ctx.Registers.SetSP(sp)
	}

	ctx.Flags.SetFlag(flags.Interrupt|flags.Trap, false)
	ctx.Flow.JumpFar(segment, uint32(offset))
	return nil
}

// bound raises a bound range exceeded fault if the signed index is outside of
// the pair of bounds held in memory.
func bound[E instructions.Extension, W numeric.Width](ctx *Context, ins *instructions.Instruction[E]) error {
	index := numeric.SignExtend(W(ctx.Registers.Read(ins.Destination().Source)))

	address := EffectiveAddress(ctx, ins, ins.Source())
	lower, err := readAt[W](ctx, ins.Segment(), address)
	if err != nil {
		return err
	}
	upper, err := readAt[W](ctx, ins.Segment(), (address+uint32(numeric.Bytes[W]()))&ins.AddressSize().Mask())
	if err != nil {
		return err
	}

	if index < numeric.SignExtend(lower) || index > numeric.SignExtend(upper) {
		return exceptions.New(exceptions.BoundRangeExceeded)
	}
	return nil
}
